package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/photoedit/internal/gallery"
)

type listCmd struct {
	cmdBase
	dir string
	out io.Writer
}

func parseListCmd(args []string, r *root) (*listCmd, error) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	cmd := &listCmd{cmdBase: cmdBase{r: r, fs: fs, name: "list"}, out: os.Stdout}
	fs.StringVar(&cmd.dir, "dir", "", "gallery directory (default: save_dir from the config)")
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *listCmd) Run() error {
	dir := c.dir
	if dir == "" {
		dir = c.r.config.SaveDir
	}
	if dir == "" {
		dir = "."
	}
	store := &gallery.Dir{Path: gallery.ExpandPath(dir)}
	ids, err := store.List()
	if err != nil {
		return fmt.Errorf("list %s: %w", store.Path, err)
	}
	if len(ids) == 0 {
		fmt.Fprintf(c.out, "no images in %s\n", store.Path)
		return nil
	}
	for _, id := range ids {
		fmt.Fprintln(c.out, id)
	}
	return nil
}
