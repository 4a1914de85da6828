// Package config reads and writes the photoedit RC file.
package config

import (
	"bytes"
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/example/photoedit/internal/geometry"
	"github.com/example/photoedit/internal/scene"
	"github.com/example/photoedit/internal/theme"
)

// Notify selects which events raise a desktop notification.
type Notify struct {
	Load bool
	Save bool
	Copy bool
}

// Text holds the preset used when text is added.
type Text struct {
	Content string
	Size    float64
	Color   color.NRGBA
	Shadow  bool
}

// Generate configures the text-to-image client.
type Generate struct {
	Endpoint string
	TokenEnv string
	Width    int
	Height   int
	Steps    int
}

// Config holds the application configuration.
type Config struct {
	Theme        string
	SaveDir      string
	Viewport     geometry.Size
	Format       string
	Quality      int
	HistoryLimit int
	Text         Text
	Notify       Notify
	Generate     Generate
	Themes       map[string]*theme.Theme
}

// New creates a Config with defaults.
func New() *Config {
	d := scene.DefaultTextDefaults()
	return &Config{
		Viewport: geometry.Size{Width: 800, Height: 600},
		Format:   "png",
		Quality:  95,
		Text: Text{
			Content: d.Content,
			Size:    d.Size,
			Color:   d.Color,
			Shadow:  d.Shadow,
		},
		Notify: Notify{Save: true},
		Generate: Generate{
			TokenEnv: "HF_TOKEN",
			Width:    768,
			Height:   768,
			Steps:    25,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// TextDefaults converts the [text] section for the editor.
func (c *Config) TextDefaults() scene.TextDefaults {
	return scene.TextDefaults{
		Content: c.Text.Content,
		Size:    c.Text.Size,
		Color:   c.Text.Color,
		Shadow:  c.Text.Shadow,
	}
}

// ThemeLoader returns a theme loader that also resolves themes defined in
// this file.
func (c *Config) ThemeLoader() *theme.Loader {
	l := theme.NewLoader()
	l.Extra = c.Themes
	return l
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	fmt.Fprintf(&sb, "viewport = %s\n", c.Viewport)
	fmt.Fprintf(&sb, "format = %s\n", c.Format)
	fmt.Fprintf(&sb, "quality = %d\n", c.Quality)
	fmt.Fprintf(&sb, "history_limit = %d\n", c.HistoryLimit)
	sb.WriteString("\n")

	sb.WriteString("[text]\n")
	fmt.Fprintf(&sb, "content = %q\n", c.Text.Content)
	fmt.Fprintf(&sb, "size = %g\n", c.Text.Size)
	fmt.Fprintf(&sb, "color = %s\n", theme.FormatColor(c.Text.Color))
	fmt.Fprintf(&sb, "shadow = %v\n", c.Text.Shadow)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "load = %v\n", c.Notify.Load)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	sb.WriteString("[generate]\n")
	if c.Generate.Endpoint != "" {
		fmt.Fprintf(&sb, "endpoint = %s\n", c.Generate.Endpoint)
	}
	fmt.Fprintf(&sb, "token_env = %s\n", c.Generate.TokenEnv)
	fmt.Fprintf(&sb, "width = %d\n", c.Generate.Width)
	fmt.Fprintf(&sb, "height = %d\n", c.Generate.Height)
	fmt.Fprintf(&sb, "steps = %d\n", c.Generate.Steps)
	sb.WriteString("\n")

	var names []string
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		var buf bytes.Buffer
		theme.Write(&buf, c.Themes[name])
		fmt.Fprintf(&sb, "[theme.%s]\n%s\n", name, buf.String())
	}

	return sb.String()
}
