package core

import (
	"log/slog"
	"runtime"
	"time"
)

// Run wires the platform window + renderer and executes the main loop.
// Events go to the Input, then to layers top-down until one handles them,
// then to the app.
func Run(app App, cfg Config, newWindow func(Config) (Window, error), newRenderer func(Window, Config) (Renderer, error)) error {
	// Graphics contexts require the main OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	win, err := newWindow(cfg)
	if err != nil {
		return err
	}
	// window owns the context; the renderer shuts down first
	if d, ok := win.(interface{ Destroy() }); ok {
		defer d.Destroy()
	}

	rend, err := newRenderer(win, cfg)
	if err != nil {
		return err
	}
	defer rend.Shutdown()

	w, h := win.FramebufferSize()
	rend.Resize(w, h)

	eng := &Engine{Window: win, Renderer: rend, Input: NewInput(), start: time.Now()}
	win.SetEventCallback(func(ev Event) {
		eng.Input.Handle(ev)
		if r, ok := ev.(EventResize); ok && r.W > 0 && r.H > 0 {
			rend.Resize(r.W, r.H)
		}
		eng.Layers.ForEachReverse(func(l Layer) bool { return l.OnEvent(eng, ev) })
		app.OnEvent(eng, ev)
	})

	app.OnStart(eng)
	eng.Layers.ForEach(func(l Layer) { l.OnAttach(eng) })

	// Fixed-timestep (60 Hz) with interpolation
	const tick = time.Second / 60
	var (
		accum   time.Duration
		prev    = time.Now()
		clear   = cfg.ClearColor
		maxStep = 10 // prevent spiral of death
	)
	dt := float64(tick) / float64(time.Second)

	for !win.ShouldClose() {
		now := time.Now()
		frame := now.Sub(prev)
		prev = now
		accum += frame

		// Poll OS events (platform will emit via callbacks)
		win.PollEvents()

		// Run fixed updates
		steps := 0
		for accum >= tick && steps < maxStep {
			eng.Layers.ForEach(func(l Layer) { l.OnUpdate(eng, dt) })
			app.OnUpdate(eng, dt)
			accum -= tick
			steps++
		}
		// Interpolation factor for rendering
		alpha := float64(accum) / float64(tick)

		// Render
		rend.Clear(clear[0], clear[1], clear[2], clear[3])
		eng.Layers.ForEach(func(l Layer) { l.OnRender(eng, alpha) })
		app.OnRender(eng, alpha)

		// Present
		win.SwapBuffers()
	}

	for l, ok := eng.Layers.Pop(); ok; l, ok = eng.Layers.Pop() {
		l.OnDetach(eng)
	}
	app.OnShutdown(eng)
	slog.Info("engine exit", "uptime", eng.Uptime().Round(time.Millisecond))
	return nil
}
