package main

import (
	"fmt"
	"time"

	"github.com/hubastard/vgrove/engine/colors"
	"github.com/hubastard/vgrove/engine/core"
	"github.com/hubastard/vgrove/engine/gfx/renderer2d"
	"github.com/hubastard/vgrove/engine/profiler"
	"github.com/hubastard/vgrove/engine/text"
	"github.com/hubastard/vgrove/engine/ui"
)

// LayerDebug draws the previous frame's renderer and cache statistics.
type LayerDebug struct {
	r2d           *renderer2d.Renderer2D
	font          *text.Font
	frameDuration time.Duration
	tick          int
	hidden        bool
}

func (l *LayerDebug) OnAttach(e *core.Engine) error       { return nil }
func (l *LayerDebug) OnDetach(e *core.Engine)             {}
func (l *LayerDebug) OnUpdate(e *core.Engine, dt float64) {}

func (l *LayerDebug) OnRender(e *core.Engine, alpha float64) {
	if l.hidden {
		return
	}
	end := profiler.Start("LayerDebug.OnRender")
	defer end()

	st := l.r2d.Stats()
	cs := l.font.CacheStats()
	ms := float64(l.frameDuration.Microseconds()) / 1000
	fps := 0.0
	if ms > 0 {
		fps = 1000 / ms
	}
	heading := func(s string) *ui.UILabel { return ui.Label(s).Padding4(0, 8, 0, 0).Color(colors.Yellow) }
	line := func(format string, args ...any) *ui.UILabel {
		return ui.Label(fmt.Sprintf(format, args...)).Padding4(12, 0, 0, 0)
	}

	w, h := e.Device.Viewport()
	ui.View(
		ui.View(
			heading(fmt.Sprintf("Frame %d", l.tick)),
			line("%.3f ms (%.1f FPS)", ms, fps),
			heading("Renderer"),
			line("Draw calls: %d", st.DrawCalls),
			line("Commands: %d", st.Commands),
			line("Vertices: %d", st.Vertices),
			line("Triangles: %d", st.TriangleCount()),
			line("Texture binds: %d", st.TextureBinds),
			line("Buffer resizes: %d", st.BufferResizes),
			line("Dropped frames: %d", st.DroppedFrames),
			heading("Text cache"),
			line("Glyph computes: %d", cs.GlyphComputes),
			line("Sizes: %d (%d hits)", cs.TextSizeEntries, cs.TextSizeHits),
		).
			FlowDirection(ui.LayoutVertical).
			Gap(2).
			Padding(16).
			BgColor(colors.Black.WithAlpha(160)).
			Border(colors.DarkGray, 1).
			Clip(true),
	).
		Padding(16).
		FlowDirection(ui.LayoutVertical).
		Draw(&ui.Context{
			Viewport:    core.Rect{MaxX: float32(w), MaxY: float32(h)},
			DefaultFont: l.font,
			List:        l.r2d.DrawList(),
		})
}

func (l *LayerDebug) OnEvent(e *core.Engine, ev core.Event) bool {
	k, ok := ev.(core.EventKey)
	if !ok || !k.Down {
		return false
	}
	switch {
	case k.Key == core.KeyP && k.Mods&core.ModCtrl != 0:
		if path, err := profiler.OpenProfilerGraph(); err != nil {
			core.Logger().Warn("profiler dump failed", "err", err)
		} else {
			core.Logger().Info("speedscope dump written", "path", path)
		}
		return true
	case k.Key == core.KeySpace:
		l.hidden = !l.hidden
		return true
	}
	return false
}
