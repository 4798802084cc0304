// Package fixtures holds recorded landmark frames for tests.
package fixtures

import (
	"embed"
	"fmt"
	"path"

	"github.com/ayusman/fingerspell/internal/hand"
)

//go:embed frames/*.json
var framesFS embed.FS

// LetterFrames maps each scored letter to the frame that signs it correctly.
var LetterFrames = map[string]string{
	"A": "letter_a.json",
	"B": "letter_b.json",
	"C": "letter_c.json",
	"L": "letter_l.json",
	"V": "letter_v.json",
	"Y": "letter_y.json",
}

// ReadFrame returns the raw JSON of a test frame by file name.
func ReadFrame(name string) ([]byte, error) {
	data, err := framesFS.ReadFile(path.Join("frames", name))
	if err != nil {
		return nil, fmt.Errorf("load frame %s: %w", name, err)
	}
	return data, nil
}

// LoadFrame loads and decodes a test frame by file name.
func LoadFrame(name string) (hand.Frame, error) {
	data, err := ReadFrame(name)
	if err != nil {
		return hand.Frame{}, err
	}

	frame, err := hand.DecodeFrame(data)
	if err != nil {
		return hand.Frame{}, fmt.Errorf("decode frame %s: %w", name, err)
	}

	return frame, nil
}
