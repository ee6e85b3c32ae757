package core

// Input tracks key state from events.
type Input struct {
	keys           map[Key]bool
	pressed        map[Key]bool
	mouseX, mouseY float64
}

func NewInput() *Input { return &Input{keys: map[Key]bool{}, pressed: map[Key]bool{}} }

func (in *Input) Handle(ev Event) {
	switch e := ev.(type) {
	case EventKey:
		if e.Down && !in.keys[e.Key] {
			in.pressed[e.Key] = true
		}
		in.keys[e.Key] = e.Down
	case EventMouseMove:
		in.mouseX, in.mouseY = e.X, e.Y
	}
}

func (in *Input) IsKeyDown(k Key) bool      { return in.keys[k] }
func (in *Input) Mouse() (float64, float64) { return in.mouseX, in.mouseY }

// Pressed reports whether k went down since the previous call for k.
func (in *Input) Pressed(k Key) bool {
	p := in.pressed[k]
	delete(in.pressed, k)
	return p
}
