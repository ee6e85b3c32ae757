package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/hubastard/labelgl/engine/assets"
	"github.com/hubastard/labelgl/engine/colors"
	"github.com/hubastard/labelgl/engine/core"
	glbackend "github.com/hubastard/labelgl/engine/gfx/gl"
	"github.com/hubastard/labelgl/engine/labels"
	"github.com/hubastard/labelgl/engine/platform"
	"github.com/hubastard/labelgl/engine/text"
)

type options struct {
	labels     int
	buffers    int
	resolution int
	font       string
	size       float64
	shaping    bool
	sdf        bool
}

type App struct {
	opts    options
	backend *glbackend.Backend
	fonts   *text.Rasterizer
	ctx     *labels.Context
	ratio   float32

	lastFrame time.Time
	frameMS   float32
}

func (a *App) OnStart(e *core.Engine) {
	a.ratio = e.PixelRatio()

	data, name, err := assets.LoadFont(a.opts.font)
	if err != nil {
		fatal("load font", err)
	}
	a.fonts = text.New(text.Options{Shaping: a.opts.shaping, Logger: slog.Default()})
	if _, err := a.fonts.AddFont(name, data); err != nil {
		fatal("add font", err)
	}
	a.fonts.SetSize(float32(a.opts.size) * a.ratio)

	fw, fh := e.Window.FramebufferSize()
	a.ctx, err = labels.New(a.backend, a.fonts, labels.Params{
		ScreenWidth:  float32(fw),
		ScreenHeight: float32(fh),
		Color:        colors.Black,
	})
	if err != nil {
		fatal("label context", err)
	}
	a.ctx.SetErrorFunc(a.grow)
	if a.opts.sdf {
		a.ctx.SetStyle(outlineStyle())
	}

	e.Layers.Push(newParticlesLayer(a.ctx, a.opts))
	e.Layers.Push(&HUDLayer{ctx: a.ctx, app: a})
}

// grow doubles the transform texture of a buffer that ran out of ids.
func (a *App) grow(buf labels.BufferID, kind labels.ErrorKind) bool {
	if kind != labels.IDOverflow {
		return false
	}
	info, err := a.ctx.Info(buf)
	if err != nil {
		return false
	}
	if err := a.ctx.ExpandTransform(buf, info.Resolution*2); err != nil {
		slog.Warn("expand transform", "buffer", buf, "err", err)
		return false
	}
	return true
}

func (a *App) OnUpdate(e *core.Engine, dt float64) {
	now := time.Now()
	if !a.lastFrame.IsZero() {
		a.frameMS = float32(now.Sub(a.lastFrame).Seconds() * 1000)
	}
	a.lastFrame = now

	if e.Input.Pressed(core.KeyEscape) {
		e.Window.RequestClose()
	}
	if e.Input.Pressed(core.KeyO) {
		if a.ctx.Style().SDF {
			a.ctx.SetStyle(labels.DefaultStyle())
		} else {
			a.ctx.SetStyle(outlineStyle())
		}
	}
}

// OnRender runs after the layers uploaded their buffers.
func (a *App) OnRender(e *core.Engine, alpha float64) {
	a.ctx.Draw()
}

func (a *App) OnEvent(e *core.Engine, ev core.Event) {
	if r, ok := ev.(core.EventResize); ok && r.W > 0 && r.H > 0 {
		a.ctx.SetScreenSize(float32(r.W), float32(r.H))
	}
}

func (a *App) OnShutdown(e *core.Engine) {
	a.ctx.Close()
	if err := a.fonts.Close(); err != nil {
		slog.Warn("close fonts", "err", err)
	}
}

func outlineStyle() labels.Style {
	s := labels.DefaultStyle()
	s.SDF = true
	s.OutlineColor = colors.Hex(0x3070c0)
	return s
}

func fatal(what string, err error) {
	slog.Error(what, "err", err)
	os.Exit(1)
}

func main() {
	var opts options
	flag.IntVar(&opts.labels, "labels", 3500, "number of animated labels")
	flag.IntVar(&opts.buffers, "buffers", 4, "label buffers to spread them over")
	flag.IntVar(&opts.resolution, "res", 16, "initial transform texture resolution (power of two)")
	flag.StringVar(&opts.font, "font", assets.DefaultFont, "font file, or goregular")
	flag.Float64Var(&opts.size, "size", 20, "font size in points")
	flag.BoolVar(&opts.shaping, "shaping", false, "count glyphs with HarfBuzz")
	flag.BoolVar(&opts.sdf, "sdf", false, "start with the outline shader")
	vsync := flag.Bool("vsync", true, "wait for vertical sync")
	debug := flag.Bool("debug", false, "log per-frame uploads")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	labels.SetLogger(slog.Default())

	cfg := core.Config{
		Title:      "labelgl particles",
		Width:      800,
		Height:     600,
		VSync:      *vsync,
		Samples:    2,
		ClearColor: colors.White,
	}
	app := &App{opts: opts}

	newWindow := func(cfg core.Config) (core.Window, error) {
		return platform.NewGLFWWindow(cfg, nil)
	}
	newRenderer := func(win core.Window, cfg core.Config) (core.Renderer, error) {
		b, err := glbackend.New()
		if err != nil {
			return nil, err
		}
		app.backend = b
		return b, nil
	}

	if err := core.Run(app, cfg, newWindow, newRenderer); err != nil {
		fatal("run", err)
	}
}
