package main

import (
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/hubastard/labelgl/engine/colors"
	"github.com/hubastard/labelgl/engine/core"
	"github.com/hubastard/labelgl/engine/labels"
)

var palette = []colors.Color{
	colors.Black,
	colors.Hex(0xc03030),
	colors.Hex(0x3070c0),
	colors.Hex(0x30a050),
	colors.Hex(0x9040b0),
}

type particle struct {
	id   labels.LabelID
	x, y float32
}

type particleBuffer struct {
	id        labels.BufferID
	particles []particle
}

// ParticlesLayer animates one-character labels spread over several buffers.
// Geometry is rasterized once; every tick only moves transforms.
type ParticlesLayer struct {
	ctx     *labels.Context
	opts    options
	rng     *rand.Rand
	buffers []particleBuffer
	t       float64
	paused  bool
}

func newParticlesLayer(ctx *labels.Context, opts options) *ParticlesLayer {
	return &ParticlesLayer{ctx: ctx, opts: opts, rng: rand.New(rand.NewPCG(1, 2))}
}

func (l *ParticlesLayer) OnAttach(e *core.Engine) {
	n := max(l.opts.buffers, 1)
	perBuffer := l.opts.labels / n
	for i := range n {
		buf, err := l.ctx.CreateBuffer(l.opts.resolution)
		if err != nil {
			fatal("create buffer", err)
		}
		l.ctx.SetColor(palette[i%len(palette)])

		ids, err := l.ctx.GenerateIDs(perBuffer)
		if err != nil {
			// the overflow callback could not grow the buffer
			slog.Warn("generate ids", "buffer", buf, "err", err)
			continue
		}

		pb := particleBuffer{id: buf, particles: make([]particle, len(ids))}
		for j, id := range ids {
			s := string(rune('!' + l.rng.IntN('~'-'!'+1)))
			if err := l.ctx.Rasterize(id, s); err != nil {
				fatal("rasterize", err)
			}
			pb.particles[j].id = id
		}
		l.buffers = append(l.buffers, pb)
	}
	l.scatter()

	for _, pb := range l.buffers {
		if err := l.ctx.UploadVertices(pb.id); err != nil {
			fatal("upload vertices", err)
		}
	}
}

// scatter picks new resting positions inside the screen margins.
func (l *ParticlesLayer) scatter() {
	w, h := l.ctx.ScreenSize()
	margin := float32(30)
	for bi := range l.buffers {
		for i := range l.buffers[bi].particles {
			p := &l.buffers[bi].particles[i]
			p.x = margin + l.rng.Float32()*max(w-2*margin, 1)
			p.y = margin + l.rng.Float32()*max(h-2*margin, 1)
		}
	}
}

func (l *ParticlesLayer) OnDetach(e *core.Engine) {}

func (l *ParticlesLayer) OnUpdate(e *core.Engine, dt float64) {
	if e.Input.Pressed(core.KeySpace) {
		l.paused = !l.paused
	}
	if e.Input.Pressed(core.KeyR) {
		l.scatter()
	}
	if l.paused {
		return
	}
	l.t += dt

	for _, pb := range l.buffers {
		if err := l.ctx.Bind(pb.id); err != nil {
			continue
		}
		for i, p := range pb.particles {
			c := float32(math.Cos(l.t + float64(i)))
			if err := l.ctx.SetTransform(p.id, p.x, p.y+c, c, c*0.5+0.5); err != nil {
				slog.Debug("set transform", "buffer", pb.id, "label", p.id, "err", err)
			}
		}
	}
}

func (l *ParticlesLayer) OnRender(e *core.Engine, alpha float64) {
	for _, pb := range l.buffers {
		if err := l.ctx.UploadDirtyTransforms(pb.id); err != nil {
			slog.Warn("upload transforms", "buffer", pb.id, "err", err)
		}
	}
}

func (l *ParticlesLayer) OnEvent(e *core.Engine, ev core.Event) bool { return false }

func (l *ParticlesLayer) count() int {
	n := 0
	for _, pb := range l.buffers {
		n += len(pb.particles)
	}
	return n
}
