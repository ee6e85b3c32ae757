package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFont is the name LoadFont resolves to the embedded Go Regular face.
const DefaultFont = "goregular"

// LoadFont returns the bytes of a TrueType/OpenType font and the name it was
// found under. name is tried as a path first, then under assets/fonts. An
// empty name or DefaultFont returns the embedded Go Regular face.
func LoadFont(name string) ([]byte, string, error) {
	if name == "" || name == DefaultFont {
		return goregular.TTF, DefaultFont, nil
	}

	b, err := os.ReadFile(name)
	if err == nil {
		return b, name, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, "", fmt.Errorf("load font %q: %w", name, err)
	}

	path := filepath.Join("assets", "fonts", name)
	b, err = os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("load font %q: %w", name, err)
	}
	return b, path, nil
}
