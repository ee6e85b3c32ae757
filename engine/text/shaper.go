package text

import (
	"bytes"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// shaper counts glyphs the way HarfBuzz clusters them, which differs from
// the rune count for ligatures and complex scripts.
type shaper struct {
	hb shaping.HarfbuzzShaper
}

func parseShapingFont(data []byte) (*gtfont.Font, error) {
	face, err := gtfont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return face.Font, nil
}

func (s *shaper) glyphCount(f *gtfont.Font, size float32, str string) int {
	runes := []rune(str)
	if len(runes) == 0 || f == nil {
		return 0
	}
	out := s.hb.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      gtfont.NewFace(f),
		Size:      fixed.Int26_6(size * 64),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	})
	return len(out.Glyphs)
}

func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
