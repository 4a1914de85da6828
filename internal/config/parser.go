package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/photoedit/internal/geometry"
	"github.com/example/photoedit/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	var current *theme.Theme

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			current = nil
			if name, ok := strings.CutPrefix(section, "theme."); ok {
				// Start with defaults so missing keys are fine.
				current = theme.Default()
				current.Name = name
				cfg.Themes[name] = current
			}
			continue
		}

		// Key = Value or Key: Value
		sep := "="
		if !strings.Contains(line, "=") {
			sep = ":"
		}
		key, value, ok := strings.Cut(line, sep)
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = unquote(strings.TrimSpace(value))

		var err error
		switch {
		case current != nil:
			err = current.Set(key, value)
		case section == "":
			err = setRootField(cfg, key, value)
		case section == "text":
			err = setTextField(&cfg.Text, key, value)
		case section == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case section == "generate":
			err = setGenerateField(&cfg.Generate, key, value)
		}
		if err != nil {
			if section == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", section, err)
		}
	}

	return cfg, scanner.Err()
}

func unquote(v string) string {
	if len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
		if s, err := strconv.Unquote(v); err == nil {
			return s
		}
		return v[1 : len(v)-1]
	}
	return v
}

func setRootField(cfg *Config, key, value string) error {
	var err error
	switch key {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "viewport":
		cfg.Viewport, err = geometry.ParseSize(value)
	case "format":
		cfg.Format = strings.ToLower(value)
	case "quality":
		cfg.Quality, err = parseInt(key, value)
	case "history_limit":
		cfg.HistoryLimit, err = parseInt(key, value)
	}
	return err
}

func setTextField(t *Text, key, value string) error {
	var err error
	switch key {
	case "content":
		t.Content = value
	case "size":
		t.Size, err = strconv.ParseFloat(value, 64)
		if err == nil && t.Size <= 0 {
			err = fmt.Errorf("size must be positive")
		}
	case "color", "colour":
		t.Color, err = theme.ParseColor(value)
	case "shadow":
		t.Shadow, err = parseBool(key, value)
	}
	return err
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := parseBool(key, value)
	if err != nil {
		return err
	}
	switch key {
	case "load":
		n.Load = b
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}

func setGenerateField(g *Generate, key, value string) error {
	var err error
	switch key {
	case "endpoint":
		g.Endpoint = value
	case "token_env":
		g.TokenEnv = value
	case "width":
		g.Width, err = parseInt(key, value)
	case "height":
		g.Height, err = parseInt(key, value)
	case "steps":
		g.Steps, err = parseInt(key, value)
	}
	return err
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	return b, nil
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	return n, nil
}
