package ui

import (
	"unicode"

	"golang.org/x/mobile/event/key"

	"github.com/example/photoedit/internal/filter"
	"github.com/example/photoedit/internal/geometry"
	"github.com/example/photoedit/internal/scene"
)

// KeyShortcut describes a keyboard combination that triggers an action.
// Shortcuts bound to a named key leave Rune zero; character shortcuts leave
// Code zero.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

type action struct {
	// mutating actions create history entries and are refused while a
	// save is pending.
	mutating     bool
	needsSession bool
	run          func(a *App) error
}

var actions = map[string]action{
	"filter-none":      {mutating: true, run: func(a *App) error { return a.setFilter(filter.None) }},
	"filter-grayscale": {mutating: true, run: func(a *App) error { return a.setFilter(filter.Grayscale) }},
	"filter-sepia":     {mutating: true, run: func(a *App) error { return a.setFilter(filter.Sepia) }},
	"filter-invert":    {mutating: true, run: func(a *App) error { return a.setFilter(filter.Invert) }},
	"filter-blur":      {mutating: true, run: func(a *App) error { return a.setFilter(filter.Blur) }},
	"text": {mutating: true, run: func(a *App) error {
		_, err := a.session.AddText()
		return err
	}},
	"rect":    {mutating: true, run: func(a *App) error { return a.addShape(scene.FormRect) }},
	"ellipse": {mutating: true, run: func(a *App) error { return a.addShape(scene.FormEllipse) }},
	"edit":    {mutating: true, run: (*App).startEdit},
	"delete": {mutating: true, run: func(a *App) error {
		o, ok := a.selected()
		if !ok {
			return nil
		}
		return a.session.RemoveOverlay(o.ID)
	}},
	"undo": {mutating: true, run: func(a *App) error {
		if !a.session.Undo() {
			a.info("nothing to undo")
		}
		return nil
	}},
	"redo": {mutating: true, run: func(a *App) error {
		if !a.session.Redo() {
			a.info("nothing to redo")
		}
		return nil
	}},
	"crop":    {mutating: true, run: (*App).beginCrop},
	"resize":  {mutating: true, run: (*App).startResize},
	"aspect":  {needsSession: true, run: (*App).cycleAspect},
	"commit":  {mutating: true, run: (*App).commit},
	"cancel":  {needsSession: true, run: (*App).cancel},
	"left":    {mutating: true, run: func(a *App) error { return a.nudge(-nudgeSmall, 0) }},
	"right":   {mutating: true, run: func(a *App) error { return a.nudge(nudgeSmall, 0) }},
	"up":      {mutating: true, run: func(a *App) error { return a.nudge(0, -nudgeSmall) }},
	"down":    {mutating: true, run: func(a *App) error { return a.nudge(0, nudgeSmall) }},
	"left10":  {mutating: true, run: func(a *App) error { return a.nudge(-nudgeLarge, 0) }},
	"right10": {mutating: true, run: func(a *App) error { return a.nudge(nudgeLarge, 0) }},
	"up10":    {mutating: true, run: func(a *App) error { return a.nudge(0, -nudgeLarge) }},
	"down10":  {mutating: true, run: func(a *App) error { return a.nudge(0, nudgeLarge) }},
	"rotl":    {mutating: true, run: func(a *App) error { return a.transform(1, -rotateStep) }},
	"rotr":    {mutating: true, run: func(a *App) error { return a.transform(1, rotateStep) }},
	"shrink":  {mutating: true, run: func(a *App) error { return a.transform(1/scaleFactor, 0) }},
	"grow":    {mutating: true, run: func(a *App) error { return a.transform(scaleFactor, 0) }},
	"copy":    {needsSession: true, run: (*App).copyImage},
	"zoomin":  {needsSession: true, run: func(a *App) error { a.setZoom(a.zoom + geometry.ZoomStep); return nil }},
	"zoomout": {needsSession: true, run: func(a *App) error { a.setZoom(a.zoom - geometry.ZoomStep); return nil }},
	"fit":     {needsSession: true, run: func(a *App) error { a.fit(); return nil }},
	"quit":    {run: func(a *App) error { a.quit = true; return nil }},
}

var keyboardAction = map[KeyShortcut]string{
	{Rune: '0'}: "filter-none",
	{Rune: 'g'}: "filter-grayscale",
	{Rune: 's'}: "filter-sepia",
	{Rune: 'i'}: "filter-invert",
	{Rune: 'b'}: "filter-blur",
	{Rune: 't'}: "text",
	{Rune: 'r'}: "rect",
	{Rune: 'o'}: "ellipse",
	{Rune: 'e'}: "edit",
	{Rune: 'c'}: "crop",
	{Rune: 'w'}: "resize",
	{Rune: 'a'}: "aspect",
	{Rune: '['}: "rotl",
	{Rune: ']'}: "rotr",
	{Rune: ','}: "shrink",
	{Rune: '.'}: "grow",
	{Rune: '+'}: "zoomin",
	{Rune: '='}: "zoomin",
	{Rune: '-'}: "zoomout",
	{Rune: 'f'}: "fit",
	{Rune: 'q'}: "quit",

	{Rune: 'z', Modifiers: key.ModControl}:                "undo",
	{Rune: 'y', Modifiers: key.ModControl}:                "redo",
	{Rune: 'z', Modifiers: key.ModControl | key.ModShift}: "redo",
	{Rune: 'c', Modifiers: key.ModControl}:                "copy",

	{Code: key.CodeReturnEnter}:   "commit",
	{Code: key.CodeKeypadEnter}:   "commit",
	{Code: key.CodeEscape}:        "cancel",
	{Code: key.CodeDeleteForward}: "delete",
	{Code: key.CodeLeftArrow}:     "left",
	{Code: key.CodeRightArrow}:    "right",
	{Code: key.CodeUpArrow}:       "up",
	{Code: key.CodeDownArrow}:     "down",

	{Code: key.CodeLeftArrow, Modifiers: key.ModShift}:  "left10",
	{Code: key.CodeRightArrow, Modifiers: key.ModShift}: "right10",
	{Code: key.CodeUpArrow, Modifiers: key.ModShift}:    "up10",
	{Code: key.CodeDownArrow, Modifiers: key.ModShift}:  "down10",
}

// saveShortcut is handled by the window because saving runs off the event
// loop.
var saveShortcut = KeyShortcut{Rune: 's', Modifiers: key.ModControl}

// shortcutFor normalises a key event for lookup. Shift only counts
// alongside another modifier or for named keys, since it already shapes
// the rune.
func shortcutFor(e key.Event) (byCode, byRune KeyShortcut) {
	mods := e.Modifiers & (key.ModControl | key.ModAlt | key.ModMeta)
	byCode = KeyShortcut{Code: e.Code, Modifiers: mods | e.Modifiers&key.ModShift}
	r := e.Rune
	if r <= 0 || unicode.IsControl(r) {
		r = runeForCode(e.Code)
	}
	if mods != 0 {
		mods |= e.Modifiers & key.ModShift
	}
	byRune = KeyShortcut{Rune: unicode.ToLower(r), Modifiers: mods}
	return byCode, byRune
}

// runeForCode recovers the letter of a key whose rune the driver dropped,
// as happens with control combinations.
func runeForCode(c key.Code) rune {
	if c >= key.CodeA && c <= key.CodeZ {
		return 'a' + rune(c-key.CodeA)
	}
	return 0
}

// Key handles a key press. It returns the save shortcut as true so the
// window can start the save.
func (a *App) Key(e key.Event) (save bool) {
	if e.Direction == key.DirRelease {
		return false
	}
	byCode, byRune := shortcutFor(e)
	if a.editing {
		switch e.Code {
		case key.CodeReturnEnter, key.CodeKeypadEnter, key.CodeEscape:
			a.run(keyboardAction[KeyShortcut{Code: e.Code}])
		case key.CodeDeleteBackspace:
			if n := len(a.editBuf); n > 0 {
				a.editBuf = a.editBuf[:n-1]
			}
		default:
			if e.Rune > 0 && !unicode.IsControl(e.Rune) && byRune.Modifiers&key.ModControl == 0 {
				a.editBuf = append(a.editBuf, e.Rune)
			}
		}
		return false
	}
	if byRune == saveShortcut {
		return true
	}
	if name, ok := keyboardAction[byCode]; ok && byCode.Code != key.CodeUnknown {
		a.run(name)
		return false
	}
	if name, ok := keyboardAction[byRune]; ok && byRune.Rune != 0 {
		a.run(name)
	}
	return false
}
