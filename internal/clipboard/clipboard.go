// Package clipboard moves encoded PNG images through the system clipboard.
package clipboard

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoImage is returned when the clipboard holds no image data.
var ErrNoImage = errors.New("clipboard does not contain image data")

// SourceID is the id reported for images opened from the clipboard.
const SourceID = "clipboard"

// WriteImageBytes publishes already encoded PNG data.
func WriteImageBytes(data []byte) error {
	if len(data) == 0 {
		return ErrNoImage
	}
	return writeImageBytes(data)
}

// ReadImageBytes returns the raw PNG data on the clipboard.
func ReadImageBytes() ([]byte, error) {
	return readImageBytes()
}

// Source serves the clipboard image as an original. Any id is accepted.
type Source struct{}

// FetchOriginal returns the encoded clipboard image.
func (Source) FetchOriginal(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := readImageBytes()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", SourceID, err)
	}
	return data, nil
}
