package main

import (
	"context"
	"flag"

	"github.com/example/photoedit/internal/editor"
	"github.com/example/photoedit/internal/raster"
	"github.com/example/photoedit/internal/ui"
)

type editCmd struct {
	cmdBase
	in input
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	cmd := &editCmd{cmdBase: cmdBase{r: r, fs: fs, name: "edit"}}
	cmd.in.register(fs)
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cmd.in.validate(); err != nil {
		return nil, usageErrorf(cmd, "%v", err)
	}
	return cmd, nil
}

func (e *editCmd) Run() error {
	src, id, store, err := e.in.resolve(e.r.config.SaveDir)
	if err != nil {
		return err
	}
	out, err := e.r.outputOptions()
	if err != nil {
		return err
	}
	store.Ext = raster.Extension(out.Format)
	opts := e.r.sessionOptions()
	load := func(ctx context.Context) (*editor.Session, error) {
		return editor.Open(ctx, src, id, opts...)
	}
	ui.Run(load, ui.Config{
		Theme:    e.r.activeTheme,
		Store:    store,
		Notifier: e.r.notifier,
		Output:   out,
		Title:    windowTitle(titleOptions{File: id, Extras: []string{"saving to " + store.Path}}),
	})
	return nil
}
