package renderer2d

import "log/slog"

// Statistics captures the counts generated during a renderer frame.
// BufferResizes and DroppedFrames accumulate over the renderer's lifetime.
type Statistics struct {
	DrawCalls    int
	Commands     int
	Vertices     int
	Indices      int
	TextureBinds int

	BufferResizes int
	DroppedFrames int
}

func (s *Statistics) beginFrame() {
	*s = Statistics{BufferResizes: s.BufferResizes, DroppedFrames: s.DroppedFrames}
}

// TriangleCount reports triangles submitted this frame.
func (s Statistics) TriangleCount() int { return s.Indices / 3 }

func (s Statistics) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("draw_calls", s.DrawCalls),
		slog.Int("commands", s.Commands),
		slog.Int("vertices", s.Vertices),
		slog.Int("indices", s.Indices),
		slog.Int("texture_binds", s.TextureBinds),
		slog.Int("buffer_resizes", s.BufferResizes),
		slog.Int("dropped_frames", s.DroppedFrames),
	)
}
