package core

import (
	"time"

	"github.com/hubastard/vgrove/engine/colors"
)

// App defines the application hooks.
type App interface {
	OnStart(e *Engine) error           // called once after window/device init
	OnUpdate(e *Engine, dt float64)    // called at a fixed tick (60Hz by default)
	OnRender(e *Engine, alpha float64) // render with interpolation alpha [0..1]
	OnEvent(e *Engine, ev Event)       // input/window events
	OnShutdown(e *Engine)              // before exit
}

// FrameHooks is implemented by apps that bracket rendering, e.g. to open a
// frame before any layer records into it and flush it after the last one.
type FrameHooks interface {
	BeforeRender(e *Engine)
	AfterRender(e *Engine)
}

// Engine exposes core services to the App.
type Engine struct {
	Window Window
	Device Device
	Input  *Input
	Layers LayerStack
	start  time.Time
}

func (e *Engine) Uptime() time.Duration { return time.Since(e.start) }

// Window abstraction.
type Window interface {
	PollEvents()
	SwapBuffers()
	ShouldClose() bool
	RequestClose()
	FramebufferSize() (int, int)
	SetTitle(title string)
	SetEventCallback(cb func(Event))
}

// Event model.
type Event interface{ isEvent() }

type EventCloseRequested struct{}

func (EventCloseRequested) isEvent() {}

type EventResize struct{ W, H int }

func (EventResize) isEvent() {}

type EventKey struct {
	Key  Key
	Down bool
	Mods Mod
}

func (EventKey) isEvent() {}

type EventMouseMove struct{ X, Y float64 }

func (EventMouseMove) isEvent() {}

type EventMouseButton struct {
	Button int
	Down   bool
}

func (EventMouseButton) isEvent() {}

type EventScroll struct{ Xoff, Yoff float64 }

func (EventScroll) isEvent() {}

// Key/mod enums (subset).
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyW
	KeyA
	KeyS
	KeyD
	KeyP
	KeyC
)

type Mod int

const (
	ModNone  Mod = 0
	ModShift Mod = 1 << 0
	ModCtrl  Mod = 1 << 1
	ModAlt   Mod = 1 << 2
	ModSuper Mod = 1 << 3
)

// Config for the engine run.
type Config struct {
	Title      string       `yaml:"title"`
	Width      int          `yaml:"width"`
	Height     int          `yaml:"height"`
	VSync      bool         `yaml:"vsync"`
	ClearColor colors.Color `yaml:"clear_color"`
}

// DefaultConfig returns a 1280x720 vsynced window config.
func DefaultConfig() Config {
	return Config{
		Title:      "vgrove",
		Width:      1280,
		Height:     720,
		VSync:      true,
		ClearColor: colors.DarkGray,
	}
}
