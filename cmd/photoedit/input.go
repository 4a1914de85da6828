package main

import (
	"errors"
	"flag"
	"path/filepath"

	"github.com/example/photoedit/internal/clipboard"
	"github.com/example/photoedit/internal/editor"
	"github.com/example/photoedit/internal/gallery"
)

// input selects where the original image comes from.
type input struct {
	id            string
	dir           string
	file          string
	fromClipboard bool
}

func (in *input) register(fs *flag.FlagSet) {
	fs.StringVar(&in.id, "id", "", "gallery id of the image to open")
	fs.StringVar(&in.dir, "dir", "", "gallery directory (defaults to save_dir from the config)")
	fs.StringVar(&in.file, "file", "", "path of the image file to open")
	fs.BoolVar(&in.fromClipboard, "from-clipboard", false, "load the image from the clipboard")
	fs.BoolVar(&in.fromClipboard, "from-clip", false, "load the image from the clipboard (alias)")
}

func (in *input) validate() error {
	n := 0
	for _, set := range []bool{in.id != "", in.file != "", in.fromClipboard} {
		if set {
			n++
		}
	}
	switch {
	case n == 0:
		return errors.New("one of -id, -file or -from-clipboard is required")
	case n > 1:
		return errors.New("-id, -file and -from-clipboard are mutually exclusive")
	case in.dir != "" && in.id == "":
		return errors.New("-dir only applies with -id")
	}
	return nil
}

// resolve returns the source, the id to fetch from it, and the gallery that
// results are saved to. Files are saved next to the original; clipboard
// images go to saveDir.
func (in *input) resolve(saveDir string) (editor.Source, string, *gallery.Dir, error) {
	switch {
	case in.file != "":
		g, err := gallery.Open(filepath.Dir(in.file))
		if err != nil {
			return nil, "", nil, err
		}
		return g, filepath.Base(in.file), g, nil
	case in.fromClipboard:
		g, err := gallery.Open(gallery.ExpandPath(saveDir))
		if err != nil {
			return nil, "", nil, err
		}
		return clipboard.Source{}, clipboard.SourceID, g, nil
	}
	dir := in.dir
	if dir == "" {
		dir = saveDir
	}
	g, err := gallery.Open(gallery.ExpandPath(dir))
	if err != nil {
		return nil, "", nil, err
	}
	return g, in.id, g, nil
}
