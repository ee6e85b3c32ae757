package core

import "time"

// App defines the application hooks.
type App interface {
	OnStart(e *Engine)                 // called once after window/renderer init
	OnUpdate(e *Engine, dt float64)    // called at a fixed tick (60Hz by default)
	OnRender(e *Engine, alpha float64) // render with interpolation alpha [0..1]
	OnEvent(e *Engine, ev Event)       // input/window events
	OnShutdown(e *Engine)              // before exit
}

// Engine exposes core services to the App.
type Engine struct {
	Window   Window
	Renderer Renderer
	Input    *Input
	Layers   LayerStack
	start    time.Time
}

func (e *Engine) Uptime() time.Duration { return time.Since(e.start) }

// PixelRatio is the framebuffer to window size ratio, 2 on most HiDPI
// displays.
func (e *Engine) PixelRatio() float32 {
	ww, _ := e.Window.WindowSize()
	fw, _ := e.Window.FramebufferSize()
	if ww <= 0 {
		return 1
	}
	return float32(fw) / float32(ww)
}

// Window abstraction.
type Window interface {
	PollEvents()
	SwapBuffers()
	ShouldClose() bool
	RequestClose()
	FramebufferSize() (int, int)
	WindowSize() (int, int)
	SetTitle(title string)
	SetEventCallback(cb func(Event))
}

// Renderer clears and sizes the framebuffer. Drawing itself is done by
// the layers.
type Renderer interface {
	Resize(w, h int)
	Clear(r, g, b, a float32)
	Shutdown()
}

// Event model (can expand over time).
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

type EventScroll struct{ Xoff, Yoff float64 }

func (EventScroll) isEvent() {}

// Key/mod enums (subset; add as needed).
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyW
	KeyA
	KeyS
	KeyD
	KeyR
	KeyO
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
	Title      string
	Width      int
	Height     int
	VSync      bool
	Resizable  bool
	Samples    int        // MSAA samples, 0 disables
	ClearColor [4]float32 // RGBA
}
