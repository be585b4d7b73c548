//go:build profile

// Package profiler records nested frame-stage scopes into a ring buffer and
// exports them as a speedscope evented profile.
package profiler

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hubastard/vgrove/engine/core"
)

// Enabled reports whether the binary was built with the profile tag.
const Enabled = true

// Init must be called once before scopes are recorded. capacity is the number
// of open/close events kept; older ones are overwritten.
func Init(capacity int) {
	if capacity <= 0 {
		capacity = 1 << 20
	}
	evrb.init(capacity)
}

// Start opens a scope and returns the func that closes it.
func Start(name string) func() {
	if !evrb.ready.Load() {
		return func() {}
	}
	fid := intern(name)
	now := time.Now().UnixNano()
	evrb.push(evEntry{AtNS: now, FrameID: fid, Open: true})
	return func() {
		end := time.Now().UnixNano()
		if end < now {
			end = now
		}
		evrb.push(evEntry{AtNS: end, FrameID: fid, Open: false})
	}
}

// Events reports how many events were recorded since Init.
func Events() uint64 { return evrb.write.Load() }

// Dump writes the recorded events as a speedscope file at path.
func Dump(path string) error {
	evs := evrb.snapshot()
	if len(evs) == 0 {
		return errors.New("profiler: no events to dump")
	}
	return dumpSpeedscopeEvents(evs, path)
}

// OpenProfilerGraph dumps into the temp dir and launches speedscope on it.
func OpenProfilerGraph() (string, error) {
	path := filepath.Join(os.TempDir(), "vgrove.profile.speedscope.json")
	if err := Dump(path); err != nil {
		return "", err
	}
	cmd := exec.Command("speedscope", path)
	cmd.SysProcAttr = hiddenProcAttr()
	if err := cmd.Start(); err != nil {
		core.Logger().Warn("profiler: launch speedscope", "path", path, "err", err)
	}
	return path, nil
}

// ---------- event ring ----------

type evEntry struct {
	AtNS    int64
	FrameID int
	Open    bool
}

type evRing struct {
	ready atomic.Bool
	cap   uint64
	write atomic.Uint64
	evs   []evEntry
}

func (r *evRing) init(capacity int) {
	r.cap = uint64(capacity)
	r.evs = make([]evEntry, r.cap)
	r.write.Store(0)
	r.ready.Store(true)
}

func (r *evRing) push(e evEntry) {
	i := r.write.Add(1) - 1
	r.evs[i%r.cap] = e
}

// snapshot keeps write order.
func (r *evRing) snapshot() []evEntry {
	n := r.write.Load()
	if n == 0 {
		return nil
	}
	start := uint64(0)
	if n > r.cap {
		start = n - r.cap
	}
	out := make([]evEntry, 0, n-start)
	for k := start; k < n; k++ {
		out = append(out, r.evs[k%r.cap])
	}
	return out
}

var evrb evRing

// ---------- scope names ----------

var (
	muFrames sync.Mutex
	frames   []string
	index    = map[string]int{}
)

func intern(name string) int {
	muFrames.Lock()
	defer muFrames.Unlock()
	if id, ok := index[name]; ok {
		return id
	}
	id := len(frames)
	index[name] = id
	frames = append(frames, name)
	return id
}
