package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/example/photoedit/internal/clipboard"
	"github.com/example/photoedit/internal/editor"
	"github.com/example/photoedit/internal/raster"
	"github.com/example/photoedit/internal/recipe"
	"github.com/example/photoedit/internal/render"
)

// writeClipboard is swapped in tests.
var writeClipboard = clipboard.WriteImageBytes

type applyCmd struct {
	cmdBase
	in          input
	recipe      string
	output      string
	toClipboard bool
}

func parseApplyCmd(args []string, r *root) (*applyCmd, error) {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	cmd := &applyCmd{cmdBase: cmdBase{r: r, fs: fs, name: "apply"}}
	cmd.in.register(fs)
	fs.StringVar(&cmd.recipe, "recipe", "", "YAML file listing the edits to apply")
	fs.StringVar(&cmd.output, "output", "", "file to write the result to")
	fs.BoolVar(&cmd.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&cmd.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cmd.recipe == "" {
		return nil, usageErrorf(cmd, "-recipe is required")
	}
	if err := cmd.in.validate(); err != nil {
		return nil, usageErrorf(cmd, "%v", err)
	}
	if cmd.output == "" && !cmd.toClipboard {
		return nil, usageErrorf(cmd, "-output or -to-clipboard is required")
	}
	return cmd, nil
}

func (a *applyCmd) Run() error {
	rec, err := recipe.Load(a.recipe)
	if err != nil {
		return err
	}
	src, id, _, err := a.in.resolve(a.r.config.SaveDir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := append(a.r.sessionOptions(), rec.SessionOptions()...)
	s, err := editor.Open(ctx, src, id, opts...)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := rec.Apply(s); err != nil {
		return fmt.Errorf("apply %s: %w", a.recipe, err)
	}

	if a.output != "" {
		out, err := a.encoding(rec)
		if err != nil {
			return err
		}
		data, err := s.Export(out)
		if err != nil {
			return err
		}
		if err := os.WriteFile(a.output, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", a.output, err)
		}
		fmt.Fprintf(os.Stderr, "saved %s\n", a.output)
		a.notifySave(a.output)
	}
	if a.toClipboard {
		data, err := s.Export(render.DefaultOptions())
		if err != nil {
			return err
		}
		if err := writeClipboard(data); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		a.notifyCopy(s.Name())
	}
	return nil
}

// encoding prefers the recipe's output format, then the output file's
// extension.
func (a *applyCmd) encoding(rec *recipe.Recipe) (render.Options, error) {
	out, err := rec.Output.Options()
	if err != nil {
		return out, err
	}
	if rec.Output.Format == "" {
		out.Format = raster.FormatFromPath(a.output)
	}
	if rec.Output.Quality == 0 && a.r.config.Quality > 0 {
		out.Quality = a.r.config.Quality
	}
	return out, nil
}
