package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/photoedit/internal/config"
)

type configCmd struct {
	cmdBase
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c := &configCmd{cmdBase: cmdBase{r: r, fs: fs, name: "config"}}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}

	switch args[0] {
	case "print":
		fmt.Print(c.r.config.String())
		return nil
	case "save":
		return c.runSave()
	default:
		return usageErrorf(c, "unknown config command: %s", args[0])
	}
}

func (c *configCmd) runSave() error {
	// Save over the file the loader would read, or create the default one.
	path := config.NewLoader(version, configPathOverride).GetConfigPath()
	if path == "" {
		path = config.DefaultPath()
	}
	if err := config.Save(path, c.r.config); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", path)
	return nil
}
