// Command sandbox opens a window and draws every primitive the 2D renderer
// supports, with a live statistics overlay.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hubastard/vgrove/engine/assets"
	"github.com/hubastard/vgrove/engine/core"
	glbackend "github.com/hubastard/vgrove/engine/gfx/gl"
	"github.com/hubastard/vgrove/engine/gfx/renderer2d"
	"github.com/hubastard/vgrove/engine/platform"
	"github.com/hubastard/vgrove/engine/profiler"
	"github.com/hubastard/vgrove/engine/text"
	"golang.org/x/image/font/gofont/goregular"
)

type App struct {
	cfg       Config
	r2d       *renderer2d.Renderer2D
	font      *text.Font
	image     core.Texture
	lastFrame time.Time
	tick      int
	debug     *LayerDebug
}

func (a *App) OnStart(e *core.Engine) error {
	profiler.Init(a.cfg.ProfileEvents)

	var err error
	a.r2d, err = renderer2d.New(e.Device, a.cfg.Renderer)
	if err != nil {
		return err
	}

	if a.cfg.Font.Path != "" {
		a.font, err = text.LoadFontFromFile(e.Device, a.cfg.Font.Path, a.cfg.Font.Size)
	} else {
		a.font, err = text.LoadFontFromMemory(e.Device, goregular.TTF, a.cfg.Font.Size)
	}
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}

	if a.cfg.Image != "" {
		a.image, err = assets.LoadTextureFromFile(e.Device, a.cfg.Image, assets.TextureOptions{Nearest: true})
	} else {
		a.image, err = checkerTexture(e.Device, 64, 8)
	}
	if err != nil {
		return fmt.Errorf("load image: %w", err)
	}

	if err := e.Layers.Push(e, &Layer2D{r2d: a.r2d, font: a.font, image: a.image}); err != nil {
		return err
	}
	a.debug = &LayerDebug{r2d: a.r2d, font: a.font}
	return e.Layers.Push(e, a.debug)
}

func (a *App) OnUpdate(e *core.Engine, dt float64) {
	a.tick++
	now := time.Now()
	if !a.lastFrame.IsZero() {
		a.debug.frameDuration = now.Sub(a.lastFrame)
		a.debug.tick = a.tick
	}
	a.lastFrame = now
}

func (a *App) BeforeRender(e *core.Engine) { a.r2d.BeginFrame() }

func (a *App) AfterRender(e *core.Engine) {
	end := profiler.Start("frame.flush")
	defer end()
	if err := a.r2d.EndFrame(); err != nil && !errors.Is(err, renderer2d.ErrNotRecording) {
		core.Logger().Debug("frame not presented", "err", err)
	}
}

func (a *App) OnRender(e *core.Engine, alpha float64) {}
func (a *App) OnEvent(e *core.Engine, ev core.Event)  {}

func (a *App) OnShutdown(e *core.Engine) {
	if a.font != nil {
		a.font.Close()
	}
	if a.image != nil {
		e.Device.DestroyTexture(a.image)
	}
	if a.r2d != nil {
		a.r2d.Shutdown()
	}
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "sandbox:", err)
		os.Exit(2)
	}
	lvl, _ := cfg.level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	core.SetLogger(logger)

	if err := core.Run(&App{cfg: cfg}, cfg.Window, platform.NewGLFWWindow, glbackend.NewRendererGL); err != nil {
		logger.Error("sandbox exited", "err", err)
		os.Exit(1)
	}
}
