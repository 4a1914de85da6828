package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/example/photoedit/internal/editor"
	"github.com/example/photoedit/internal/gallery"
	"github.com/example/photoedit/internal/generate"
	"github.com/example/photoedit/internal/raster"
	"github.com/example/photoedit/internal/ui"
)

type generateCmd struct {
	cmdBase
	prompt string
	edit   bool
	output string
}

func parseGenerateCmd(args []string, r *root) (*generateCmd, error) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	cmd := &generateCmd{cmdBase: cmdBase{r: r, fs: fs, name: "generate"}}
	fs.StringVar(&cmd.prompt, "prompt", "", "text describing the image to generate")
	fs.BoolVar(&cmd.edit, "edit", false, "open the generated image in the editor")
	fs.StringVar(&cmd.output, "output", "", "file to write the generated image to")
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cmd.prompt == "" && fs.NArg() > 0 {
		cmd.prompt = strings.Join(fs.Args(), " ")
	}
	if strings.TrimSpace(cmd.prompt) == "" {
		return nil, usageErrorf(cmd, "-prompt is required")
	}
	if !cmd.edit && cmd.output == "" {
		return nil, usageErrorf(cmd, "-output is required unless -edit is given")
	}
	return cmd, nil
}

// client builds the inference client from the [generate] config section.
func (g *generateCmd) client() (*generate.Client, error) {
	cfg := g.r.config.Generate
	token := os.Getenv(cfg.TokenEnv)
	if token == "" {
		return nil, fmt.Errorf("%s is not set; an access token is required to generate images", cfg.TokenEnv)
	}
	c := generate.New(cfg.Endpoint, token)
	if cfg.Width > 0 {
		c.Parameters.Width = cfg.Width
	}
	if cfg.Height > 0 {
		c.Parameters.Height = cfg.Height
	}
	if cfg.Steps > 0 {
		c.Parameters.Steps = cfg.Steps
	}
	return c, nil
}

func (g *generateCmd) Run() error {
	c, err := g.client()
	if err != nil {
		return err
	}
	opts := g.r.sessionOptions()

	if g.edit {
		store, err := gallery.Open(gallery.ExpandPath(g.r.config.SaveDir))
		if err != nil {
			return err
		}
		out, err := g.r.outputOptions()
		if err != nil {
			return err
		}
		store.Ext = raster.Extension(out.Format)
		load := func(ctx context.Context) (*editor.Session, error) {
			return editor.Generate(ctx, c, g.prompt, opts...)
		}
		ui.Run(load, ui.Config{
			Theme:    g.r.activeTheme,
			Store:    store,
			Notifier: g.r.notifier,
			Output:   out,
			Title:    windowTitle(titleOptions{Mode: "generated", Extras: []string{g.prompt}}),
		})
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	fmt.Fprintln(os.Stderr, "generating...")
	s, err := editor.Generate(ctx, c, g.prompt, opts...)
	if err != nil {
		return err
	}
	defer s.Close()

	out, err := g.r.outputOptions()
	if err != nil {
		return err
	}
	out.Format = raster.FormatFromPath(g.output)
	data, err := s.Export(out)
	if err != nil {
		return err
	}
	if err := os.WriteFile(g.output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", g.output, err)
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", g.output)
	g.notifySave(g.output)
	return nil
}
