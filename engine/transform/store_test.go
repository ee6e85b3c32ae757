package transform

import (
	"errors"
	"testing"
)

func TestNewStoreValidatesWidth(t *testing.T) {
	for _, w := range []int{0, 1, 3, 24, -8} {
		if _, err := NewStore(w); !errors.Is(err, ErrInvalidWidth) {
			t.Errorf("NewStore(%d) err = %v, want ErrInvalidWidth", w, err)
		}
	}
	s, err := NewStore(32)
	if err != nil {
		t.Fatalf("NewStore(32): %v", err)
	}
	if s.Width() != 32 || s.Height() != 64 || s.Capacity() != 1024 {
		t.Errorf("store dims = %dx%d cap %d, want 32x64 cap 1024", s.Width(), s.Height(), s.Capacity())
	}
}

func TestIndexOf(t *testing.T) {
	s, _ := NewStore(8)
	tests := []struct {
		id       uint32
		col, row int
	}{
		{0, 0, 0},
		{1, 2, 0},
		{3, 6, 0},
		{4, 0, 1},
		{13, 2, 3},
		{63, 6, 15},
	}
	for _, tt := range tests {
		col, row := s.IndexOf(tt.id)
		if col != tt.col || row != tt.row {
			t.Errorf("IndexOf(%d) = (%d, %d), want (%d, %d)", tt.id, col, row, tt.col, tt.row)
		}
	}
}

func TestSetMarksRowDirtyOnce(t *testing.T) {
	s, _ := NewStore(8)
	tr := Transform{X: 10, Y: 20, Rotation: 1, Alpha: 1}

	if err := s.Set(5, tr, 800, 600); err != nil {
		t.Fatal(err)
	}
	_, row := s.IndexOf(5)
	if !s.Dirty(row) {
		t.Fatalf("row %d not dirty after first Set", row)
	}
	if lo, hi, ok := s.CollectDirtyRange(); !ok || lo != row || hi != row {
		t.Fatalf("CollectDirtyRange = (%d, %d, %v), want (%d, %d, true)", lo, hi, ok, row, row)
	}

	if err := s.Set(5, tr, 800, 600); err != nil {
		t.Fatal(err)
	}
	if s.Dirty(row) {
		t.Errorf("row %d dirty after setting an identical transform", row)
	}
	if _, _, ok := s.CollectDirtyRange(); ok {
		t.Error("CollectDirtyRange reported changes for a no-op Set")
	}
}

func TestCollectDirtyRangeSpansAndClears(t *testing.T) {
	s, _ := NewStore(8)
	for _, id := range []uint32{9, 30, 17} {
		if err := s.Set(id, Transform{X: float32(id), Alpha: 1}, 800, 600); err != nil {
			t.Fatal(err)
		}
	}
	lo, hi, ok := s.CollectDirtyRange()
	if !ok || lo != 2 || hi != 7 {
		t.Fatalf("CollectDirtyRange = (%d, %d, %v), want (2, 7, true)", lo, hi, ok)
	}
	if got := len(s.Rows(lo, hi)); got != 6*8 {
		t.Errorf("len(Rows(2, 7)) = %d, want 48", got)
	}
	for row := 0; row < s.Height(); row++ {
		if s.Dirty(row) {
			t.Errorf("row %d still dirty after collection", row)
		}
	}
	if _, _, ok := s.CollectDirtyRange(); ok {
		t.Error("second CollectDirtyRange found dirty rows")
	}
}

func TestRowsContainEncodedWords(t *testing.T) {
	s, _ := NewStore(4)
	tr := Transform{X: 100, Y: 200, Alpha: 1}
	if err := s.Set(3, tr, 800, 600); err != nil {
		t.Fatal(err)
	}
	lo, hi, _ := s.CollectDirtyRange()
	rows := s.Rows(lo, hi)
	p, q := Encode(tr, 800, 600)
	col, _ := s.IndexOf(3)
	if rows[col] != p || rows[col+1] != q {
		t.Errorf("uploaded texels = %#x %#x, want %#x %#x", rows[col], rows[col+1], p, q)
	}
}

func TestSetOutOfRange(t *testing.T) {
	s, _ := NewStore(4)
	if err := s.Set(16, Transform{}, 800, 600); !errors.Is(err, ErrIDOutOfRange) {
		t.Errorf("Set(16) on capacity 16 err = %v, want ErrIDOutOfRange", err)
	}
	if err := s.Set(15, Transform{}, 800, 600); err != nil {
		t.Errorf("Set(15) on capacity 16: %v", err)
	}
	if _, _, err := s.Words(99); !errors.Is(err, ErrIDOutOfRange) {
		t.Errorf("Words(99) err = %v, want ErrIDOutOfRange", err)
	}
}

func TestResizePreservesWords(t *testing.T) {
	s, _ := NewStore(8)
	before := map[uint32][2]uint32{}
	for id := uint32(0); id < 64; id += 3 {
		tr := Transform{X: float32(id) * 7.3, Y: float32(id) * 3.1, Rotation: float32(id) / 10, Alpha: 0.5}
		if err := s.Set(id, tr, 1024, 768); err != nil {
			t.Fatal(err)
		}
		p, q, _ := s.Words(id)
		before[id] = [2]uint32{p, q}
	}
	s.CollectDirtyRange()

	if err := s.Resize(32); err != nil {
		t.Fatalf("Resize(32): %v", err)
	}
	if s.Width() != 32 || s.Height() != 64 || s.Capacity() != 1024 {
		t.Fatalf("resized dims = %dx%d cap %d", s.Width(), s.Height(), s.Capacity())
	}
	for id, w := range before {
		p, q, err := s.Words(id)
		if err != nil {
			t.Fatal(err)
		}
		if p != w[0] || q != w[1] {
			t.Errorf("id %d words = %#x %#x after resize, want %#x %#x", id, p, q, w[0], w[1])
		}
	}

	// 64 ids at 16 per row fill rows 0..3
	lo, hi, ok := s.CollectDirtyRange()
	if !ok || lo != 0 || hi != 3 {
		t.Errorf("dirty span after resize = (%d, %d, %v), want (0, 3, true)", lo, hi, ok)
	}
}

func TestResizeIgnoresShrinkAndRejectsOddWidth(t *testing.T) {
	s, _ := NewStore(16)
	if err := s.Resize(8); err != nil {
		t.Fatalf("Resize(8): %v", err)
	}
	if s.Width() != 16 {
		t.Errorf("width = %d after shrink request, want 16", s.Width())
	}
	if err := s.Resize(48); !errors.Is(err, ErrInvalidWidth) {
		t.Errorf("Resize(48) err = %v, want ErrInvalidWidth", err)
	}
}
