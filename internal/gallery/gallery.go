// Package gallery stores images as files in a directory. It serves as both
// the source of originals and the store for edited results.
package gallery

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/example/photoedit/internal/raster"
)

var (
	// ErrNotFound is returned when an id does not name a stored image.
	ErrNotFound = errors.New("gallery: image not found")
	// ErrPermission is returned when the directory cannot be read or
	// written.
	ErrPermission = errors.New("gallery: permission denied")
	// ErrInvalidID is returned for ids that are not plain file names.
	ErrInvalidID = errors.New("gallery: invalid id")
)

// Dir is a gallery rooted at a directory. Ids are file names inside it.
type Dir struct {
	Path string
	// Ext is the extension given to stored results. When empty it follows
	// the encoding of the stored data, falling back to ".png".
	Ext string
}

// Open returns a gallery at path, creating the directory if needed.
func Open(path string) (*Dir, error) {
	if path == "" {
		path = "."
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, mapErr(err)
	}
	return &Dir{Path: path}, nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func (d *Dir) resolve(id string) (string, error) {
	if id == "" || id != filepath.Base(id) || id == "." || id == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(d.Path, id), nil
}

// Locate returns the file path backing id without checking that it exists.
func (d *Dir) Locate(id string) (string, error) { return d.resolve(id) }

// FetchOriginal reads the bytes stored under id.
func (d *Dir) FetchOriginal(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := d.resolve(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", id, mapErr(err))
	}
	return data, nil
}

// StoreResult writes data under a new random name and returns it.
func (d *Dir) StoreResult(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext := d.Ext
	if ext == "" {
		ext = sniffExt(data)
	}
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	id := hex.EncodeToString(b[:]) + ext
	p := filepath.Join(d.Path, id)
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", id, mapErr(err))
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(p)
		return "", fmt.Errorf("write %s: %w", id, mapErr(err))
	}
	if err := f.Close(); err != nil {
		os.Remove(p)
		return "", fmt.Errorf("close %s: %w", id, mapErr(err))
	}
	return id, nil
}

// List returns the ids of stored images with a known image extension,
// sorted by name.
func (d *Dir) List() ([]string, error) {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		return nil, mapErr(err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := raster.ParseFormat(filepath.Ext(e.Name())); err != nil && !isDecodeOnly(e.Name()) {
			continue
		}
		ids = append(ids, e.Name())
	}
	sort.Strings(ids)
	return ids, nil
}

// sniffExt names data by its image header.
func sniffExt(data []byte) string {
	_, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ".png"
	}
	f, err := raster.ParseFormat(name)
	if err != nil {
		return ".png"
	}
	return raster.Extension(f)
}

func isDecodeOnly(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".webp")
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermission, err)
	}
	return err
}
