package main

import (
	"fmt"
	"log/slog"

	"github.com/hubastard/labelgl/engine/colors"
	"github.com/hubastard/labelgl/engine/core"
	"github.com/hubastard/labelgl/engine/labels"
)

const hudRefresh = 0.5 // seconds

// HUDLayer keeps a few status lines in their own buffer. The lines are
// rasterized again on every refresh; the upload replaces the old geometry.
type HUDLayer struct {
	ctx   *labels.Context
	app   *App
	buf   labels.BufferID
	ids   []labels.LabelID
	since float64
}

func (l *HUDLayer) OnAttach(e *core.Engine) {
	var err error
	l.buf, err = l.ctx.CreateBuffer(2)
	if err != nil {
		fatal("hud buffer", err)
	}
	l.ctx.SetColor(colors.Hex(0x202020))
	if l.ids, err = l.ctx.GenerateIDs(3); err != nil {
		fatal("hud ids", err)
	}
	l.since = hudRefresh
}

func (l *HUDLayer) OnDetach(e *core.Engine) {
	if err := l.ctx.DeleteBuffer(l.buf); err != nil {
		slog.Debug("delete hud buffer", "err", err)
	}
}

func (l *HUDLayer) OnUpdate(e *core.Engine, dt float64) {
	l.since += dt
	if l.since < hudRefresh {
		return
	}
	l.since = 0
	l.refresh(e)
}

func (l *HUDLayer) refresh(e *core.Engine) {
	if err := l.ctx.Bind(l.buf); err != nil {
		return
	}

	var particles *ParticlesLayer
	e.Layers.ForEach(func(ly core.Layer) {
		if p, ok := ly.(*ParticlesLayer); ok {
			particles = p
		}
	})
	n := 0
	if particles != nil {
		n = particles.count()
	}
	mode := "plain"
	if l.ctx.Style().SDF {
		mode = "outline"
	}
	lines := []string{
		fmt.Sprintf("%d labels in %d buffers", n, len(l.ctx.Buffers())-1),
		fmt.Sprintf("%.2f ms", l.app.frameMS),
		fmt.Sprintf("space pause, r scatter, o %s", mode),
	}

	w, _ := l.ctx.ScreenSize()
	margin := 12 * l.app.ratio
	lineH := float32(l.app.opts.size) * 1.4 * l.app.ratio
	for i, s := range lines {
		id := l.ids[i]
		if err := l.ctx.Rasterize(id, s); err != nil {
			slog.Warn("hud rasterize", "err", err)
			return
		}
		x := margin
		if i == 1 {
			// right aligned
			length, _ := l.ctx.Length(id)
			x = w - margin - length
		}
		y := margin + lineH*float32(i+1)
		_ = l.ctx.SetTransform(id, x, y, 0, 1)
	}
	if err := l.ctx.UpdateBuffer(); err != nil {
		slog.Warn("hud upload", "err", err)
	}
}

func (l *HUDLayer) OnRender(e *core.Engine, alpha float64) {
	_ = l.ctx.UploadDirtyTransforms(l.buf)
}

func (l *HUDLayer) OnEvent(e *core.Engine, ev core.Event) bool {
	if _, ok := ev.(core.EventResize); ok {
		// positions depend on the screen width
		l.since = hudRefresh
	}
	return false
}
