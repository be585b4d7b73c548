//go:build profile

package profiler

import (
	"encoding/json"
	"errors"
	"os"
)

type ssFile struct {
	Schema             string      `json:"$schema"`
	Shared             ssShared    `json:"shared"`
	Profiles           []ssProfile `json:"profiles"`
	ActiveProfileIndex int         `json:"activeProfileIndex,omitempty"`
	Exporter           string      `json:"exporter,omitempty"`
	Name               string      `json:"name,omitempty"`
}

type ssShared struct {
	Frames []ssFrame `json:"frames"`
}

type ssFrame struct {
	Name string `json:"name"`
}

type ssProfile struct {
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit"`
	StartValue int64     `json:"startValue"`
	EndValue   int64     `json:"endValue"`
	Events     []ssEvent `json:"events"`
}

type ssEvent struct {
	Type  string `json:"type"` // "O" or "C"
	At    int64  `json:"at"`   // µs since first event
	Frame int    `json:"frame"`
}

// buildEvents converts ring events to balanced speedscope events. Closes
// without a matching open (lost to ring wraparound) are skipped and scopes
// still open at the end are closed at the last timestamp.
func buildEvents(evs []evEntry) (out []ssEvent, endUS int64) {
	base := evs[0].AtNS
	out = make([]ssEvent, 0, len(evs)+16)
	stack := make([]int, 0, 64)
	lastUS := int64(0)

	for _, e := range evs {
		atUS := max((e.AtNS-base)/1000, lastUS)
		if e.Open {
			out = append(out, ssEvent{Type: "O", At: atUS, Frame: e.FrameID})
			stack = append(stack, e.FrameID)
		} else {
			if len(stack) == 0 || stack[len(stack)-1] != e.FrameID {
				continue
			}
			stack = stack[:len(stack)-1]
			out = append(out, ssEvent{Type: "C", At: atUS, Frame: e.FrameID})
		}
		lastUS = atUS
		endUS = max(endUS, atUS)
	}
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, ssEvent{Type: "C", At: lastUS, Frame: stack[i]})
	}
	return out, endUS
}

func dumpSpeedscopeEvents(evs []evEntry, path string) error {
	muFrames.Lock()
	fs := make([]ssFrame, len(frames))
	for i, name := range frames {
		fs[i] = ssFrame{Name: name}
	}
	muFrames.Unlock()

	out, endUS := buildEvents(evs)
	if len(out) == 0 {
		return errors.New("profiler: no usable events after filtering")
	}

	doc := ssFile{
		Schema: "https://www.speedscope.app/file-format-schema.json",
		Shared: ssShared{Frames: fs},
		Profiles: []ssProfile{{
			Type:     "evented",
			Name:     "vgrove frames",
			Unit:     "microseconds",
			EndValue: endUS,
			Events:   out,
		}},
		Exporter: "vgrove-profiler",
		Name:     "vgrove capture",
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&doc); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
