package core

import (
	"runtime"
	"time"
)

// Backend is a Device that also owns the frame's render target.
type Backend interface {
	Device
	Resize(w, h int)
	Clear(r, g, b, a float32)
	Shutdown()
}

// Run wires the platform window + backend and executes the main loop.
func Run(app App, cfg Config, newWindow func(Config) (Window, error), newBackend func(Window, Config) (Backend, error)) error {
	// Graphics contexts require the main OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	win, err := newWindow(cfg)
	if err != nil {
		return err
	}

	be, err := newBackend(win, cfg)
	if err != nil {
		return err
	}
	defer be.Shutdown()

	w, h := win.FramebufferSize()
	be.Resize(w, h)

	eng := &Engine{Window: win, Device: be, Input: NewInput(), start: time.Now()}
	win.SetEventCallback(func(ev Event) {
		eng.Input.Handle(ev)
		if r, ok := ev.(EventResize); ok && r.W > 0 && r.H > 0 {
			fw, fh := win.FramebufferSize()
			be.Resize(fw, fh)
		}
		handled := false
		eng.Layers.ForEachReverse(func(l Layer) bool {
			handled = l.OnEvent(eng, ev)
			return handled
		})
		if !handled {
			app.OnEvent(eng, ev)
		}
	})

	if err := app.OnStart(eng); err != nil {
		return err
	}
	Logger().Info("engine started", "width", w, "height", h)

	hooks, _ := app.(FrameHooks)

	// Fixed-timestep (60 Hz) with interpolation
	const tick = time.Second / 60
	var (
		accum   time.Duration
		prev    = time.Now()
		clear   = cfg.ClearColor.Floats()
		maxStep = 10 // prevent spiral of death
	)

	for !win.ShouldClose() {
		now := time.Now()
		accum += now.Sub(prev)
		prev = now

		win.PollEvents()

		steps := 0
		for accum >= tick && steps < maxStep {
			dt := float64(tick) / float64(time.Second)
			eng.Layers.ForEach(func(l Layer) { l.OnUpdate(eng, dt) })
			app.OnUpdate(eng, dt)
			accum -= tick
			steps++
		}
		alpha := float64(accum) / float64(tick)

		be.Clear(clear[0], clear[1], clear[2], clear[3])
		if hooks != nil {
			hooks.BeforeRender(eng)
		}
		app.OnRender(eng, alpha)
		eng.Layers.ForEach(func(l Layer) { l.OnRender(eng, alpha) })
		if hooks != nil {
			hooks.AfterRender(eng)
		}

		win.SwapBuffers()
	}

	for eng.Layers.Len() > 0 {
		eng.Layers.Pop(eng)
	}
	app.OnShutdown(eng)
	Logger().Info("engine exit", "uptime", eng.Uptime())
	return nil
}
