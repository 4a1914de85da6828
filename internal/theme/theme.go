// Package theme defines the colours of the editor window.
package theme

import (
	"image/color"
	"reflect"
	"sort"
	"strings"
)

// Theme defines the colour palette for the editor window.
type Theme struct {
	Name string

	// Window
	Background color.NRGBA // behind the canvas
	Foreground color.NRGBA // status text

	// Status bar
	StatusBackground color.NRGBA
	StatusBusy       color.NRGBA // shown while a load or save is pending
	StatusError      color.NRGBA

	// Canvas
	CheckerLight color.NRGBA
	CheckerDark  color.NRGBA
	Selection    color.NRGBA // outline of the selected overlay

	// Crop
	CropShade    color.NRGBA // dims the area outside the selection
	CropOutline  color.NRGBA
	CropOutline2 color.NRGBA // alternate dash colour
	HandleFill   color.NRGBA
	HandleBorder color.NRGBA
}

// Default returns the light theme used when nothing is configured.
func Default() *Theme {
	return &Theme{
		Name:             "Default",
		Background:       color.NRGBA{220, 220, 220, 255},
		Foreground:       color.NRGBA{0, 0, 0, 255},
		StatusBackground: color.NRGBA{235, 235, 235, 255},
		StatusBusy:       color.NRGBA{30, 90, 200, 255},
		StatusError:      color.NRGBA{190, 20, 20, 255},
		CheckerLight:     color.NRGBA{220, 220, 220, 255},
		CheckerDark:      color.NRGBA{192, 192, 192, 255},
		Selection:        color.NRGBA{0, 120, 215, 255},
		CropShade:        color.NRGBA{0, 0, 0, 128},
		CropOutline:      color.NRGBA{255, 255, 255, 255},
		CropOutline2:     color.NRGBA{0, 0, 0, 255},
		HandleFill:       color.NRGBA{255, 255, 255, 255},
		HandleBorder:     color.NRGBA{0, 0, 0, 255},
	}
}

// Dark returns the built-in dark theme.
func Dark() *Theme {
	t := Default()
	t.Name = "Dark"
	t.Background = color.NRGBA{40, 40, 44, 255}
	t.Foreground = color.NRGBA{230, 230, 230, 255}
	t.StatusBackground = color.NRGBA{28, 28, 30, 255}
	t.StatusBusy = color.NRGBA{110, 170, 255, 255}
	t.StatusError = color.NRGBA{255, 110, 110, 255}
	t.CheckerLight = color.NRGBA{70, 70, 70, 255}
	t.CheckerDark = color.NRGBA{55, 55, 55, 255}
	return t
}

var builtin = map[string]func() *Theme{
	"default": Default,
	"light":   Default,
	"dark":    Dark,
}

// Builtin returns the names of the themes compiled into the binary.
func Builtin() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Keys returns the colour keys of a theme in declaration order.
func Keys() []string {
	typ := reflect.TypeOf(Theme{})
	var keys []string
	for i := 0; i < typ.NumField(); i++ {
		if typ.Field(i).Type == reflect.TypeOf(color.NRGBA{}) {
			keys = append(keys, typ.Field(i).Name)
		}
	}
	return keys
}

// Get returns the colour stored under key, matched case-insensitively.
func (t *Theme) Get(key string) (color.NRGBA, bool) {
	f := t.field(key)
	if !f.IsValid() {
		return color.NRGBA{}, false
	}
	return f.Interface().(color.NRGBA), true
}

// Set assigns a theme key from its textual value. Unknown keys are
// ignored for forward compatibility.
func (t *Theme) Set(key, value string) error {
	if strings.EqualFold(key, "Name") {
		t.Name = value
		return nil
	}
	f := t.field(key)
	if !f.IsValid() {
		return nil
	}
	col, err := ParseColor(value)
	if err != nil {
		return err
	}
	f.Set(reflect.ValueOf(col))
	return nil
}

func (t *Theme) field(key string) reflect.Value {
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if strings.EqualFold(f.Name, key) && f.Type == reflect.TypeOf(color.NRGBA{}) {
			return val.Field(i)
		}
	}
	return reflect.Value{}
}
