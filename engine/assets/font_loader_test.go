package assets

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestLoadFontDefault(t *testing.T) {
	for _, name := range []string{"", DefaultFont} {
		b, got, err := LoadFont(name)
		if err != nil || got != DefaultFont || !bytes.Equal(b, goregular.TTF) {
			t.Errorf("LoadFont(%q) = %d bytes, %q, %v", name, len(b), got, err)
		}
	}
}

func TestLoadFontFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "face.ttf")
	if err := os.WriteFile(path, []byte("font bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	b, got, err := LoadFont(path)
	if err != nil || got != path || string(b) != "font bytes" {
		t.Errorf("LoadFont(path) = %q, %q, %v", b, got, err)
	}
}

func TestLoadFontMissing(t *testing.T) {
	_, _, err := LoadFont("no-such-font.ttf")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want fs.ErrNotExist", err)
	}
}
