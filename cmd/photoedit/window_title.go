package main

import (
	"strings"

	"github.com/example/photoedit/internal/ui"
)

type titleOptions struct {
	File   string
	Mode   string
	Extras []string
}

func windowTitle(opts titleOptions) string {
	parts := []string{ui.Title}

	file := strings.TrimSpace(opts.File)
	if file != "" {
		parts = append(parts, file)
	}

	mode := strings.TrimSpace(opts.Mode)
	if mode != "" {
		parts = append(parts, mode)
	}

	for _, extra := range opts.Extras {
		extra = strings.TrimSpace(extra)
		if extra != "" {
			parts = append(parts, extra)
		}
	}

	return strings.Join(parts, " - ")
}
