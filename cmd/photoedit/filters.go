package main

import (
	"fmt"
	"strings"

	"github.com/example/photoedit/internal/filter"
)

type filtersCmd struct{ cmdBase }

func (f *filtersCmd) Run() error {
	names := make([]string, 0, len(filter.All()))
	for _, id := range filter.All() {
		names = append(names, id.String())
	}
	fmt.Println(strings.Join(names, "\n"))
	return nil
}
