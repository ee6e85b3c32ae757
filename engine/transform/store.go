package transform

import (
	"errors"
	"fmt"
	"math/bits"
)

var (
	ErrInvalidWidth = errors.New("transform: width must be a power of two")
	ErrIDOutOfRange = errors.New("transform: id exceeds store capacity")
)

// wordsPerID is the number of texels one label occupies in a row.
const wordsPerID = 2

// Store is a CPU mirror of a label buffer's transform texture.
//
// The texture is width x 2*width RGBA8 texels. Label id lives at
// col = 2*id mod width, row = 2*id div width; its primary word is at col and
// its precision word at col+1. Rows touched since the last collection are
// flagged dirty so only that span is re-uploaded.
type Store struct {
	width  int
	height int
	words  []uint32
	dirty  []bool
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && bits.OnesCount(uint(n)) == 1
}

// NewStore allocates a zeroed store for a width x 2*width texture.
func NewStore(width int) (*Store, error) {
	if !IsPowerOfTwo(width) || width < wordsPerID {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}
	s := &Store{}
	s.alloc(width)
	return s, nil
}

func (s *Store) alloc(width int) {
	s.width = width
	s.height = width * 2
	s.words = make([]uint32, s.width*s.height)
	s.dirty = make([]bool, s.height)
}

// Width returns the texture width in texels.
func (s *Store) Width() int { return s.width }

// Height returns the texture height in texels.
func (s *Store) Height() int { return s.height }

// Capacity is the number of label ids the store can address.
func (s *Store) Capacity() int { return s.width * s.width }

// IndexOf maps an id to its primary texel.
func (s *Store) IndexOf(id uint32) (col, row int) {
	return indexOf(s.width, id)
}

func indexOf(width int, id uint32) (col, row int) {
	w := int(id) * wordsPerID
	return w % width, w / width
}

// Set encodes t for id. The row is marked dirty only when one of the two
// stored words actually changes.
func (s *Store) Set(id uint32, t Transform, screenW, screenH float32) error {
	if int(id) >= s.Capacity() {
		return fmt.Errorf("%w: id %d, capacity %d", ErrIDOutOfRange, id, s.Capacity())
	}
	primary, precision := Encode(t, screenW, screenH)
	s.put(id, primary, precision)
	return nil
}

func (s *Store) put(id uint32, primary, precision uint32) {
	col, row := s.IndexOf(id)
	i := row*s.width + col
	if s.words[i] == primary && s.words[i+1] == precision {
		return
	}
	s.words[i] = primary
	s.words[i+1] = precision
	s.dirty[row] = true
}

// Words returns the raw primary and precision words of id.
func (s *Store) Words(id uint32) (primary, precision uint32, err error) {
	if int(id) >= s.Capacity() {
		return 0, 0, fmt.Errorf("%w: id %d, capacity %d", ErrIDOutOfRange, id, s.Capacity())
	}
	col, row := s.IndexOf(id)
	i := row*s.width + col
	return s.words[i], s.words[i+1], nil
}

// Get decodes the transform currently stored for id.
func (s *Store) Get(id uint32, screenW, screenH float32) (Transform, error) {
	p, q, err := s.Words(id)
	if err != nil {
		return Transform{}, err
	}
	return Decode(p, q, screenW, screenH), nil
}

// Dirty reports whether row has pending changes.
func (s *Store) Dirty(row int) bool {
	return row >= 0 && row < s.height && s.dirty[row]
}

// CollectDirtyRange returns the smallest row span covering every dirty row
// and clears all flags. The caller must upload the span before collecting
// again or the changes are never sent.
func (s *Store) CollectDirtyRange() (minRow, maxRow int, ok bool) {
	minRow, maxRow = -1, -1
	for i, d := range s.dirty {
		if !d {
			continue
		}
		if minRow < 0 {
			minRow = i
		}
		maxRow = i
		s.dirty[i] = false
	}
	return minRow, maxRow, minRow >= 0
}

// Rows returns the texels of rows [minRow, maxRow] as one contiguous block.
// The slice aliases the store.
func (s *Store) Rows(minRow, maxRow int) []uint32 {
	return s.words[minRow*s.width : (maxRow+1)*s.width]
}

// Resize grows the store to newWidth and moves every id to its new texel
// without re-encoding. Every row that received migrated data is marked
// dirty. Widths not larger than the current one are ignored.
func (s *Store) Resize(newWidth int) error {
	if !IsPowerOfTwo(newWidth) {
		return fmt.Errorf("%w: %d", ErrInvalidWidth, newWidth)
	}
	if newWidth <= s.width {
		return nil
	}

	oldWidth, oldWords, oldCap := s.width, s.words, s.Capacity()
	s.alloc(newWidth)

	lastRow := 0
	for id := uint32(0); int(id) < oldCap; id++ {
		oc, or := indexOf(oldWidth, id)
		nc, nr := indexOf(newWidth, id)
		src := or*oldWidth + oc
		dst := nr*newWidth + nc
		s.words[dst] = oldWords[src]
		s.words[dst+1] = oldWords[src+1]
		lastRow = nr
	}
	for i := 0; i <= lastRow; i++ {
		s.dirty[i] = true
	}
	return nil
}
