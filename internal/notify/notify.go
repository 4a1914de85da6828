// Package notify raises desktop notifications for editor events.
package notify

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/example/photoedit/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventLoad fires once an image has been opened or generated.
	EventLoad Event = "load"
	// EventSave fires when a flattened result has been stored.
	EventSave Event = "save"
	// EventCopy fires when an export is placed on the clipboard.
	EventCopy Event = "copy"
)

// previewSize bounds the icon attached to load notifications.
const previewSize = 128

// categories are the freedesktop hints sent with each event.
var categories = map[Event]string{
	EventLoad: "transfer",
	EventSave: "transfer.complete",
	EventCopy: "transfer.complete",
}

// send is swapped out by tests.
var send = platform.Notify

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences holds the notification title and per-event templates.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "photoedit",
		Events: map[Event]EventPreference{
			EventLoad: {Template: "Opened %s"},
			EventSave: {Template: "Saved %s"},
			EventCopy: {Template: "Copied %s to clipboard"},
		},
	}
}

// LoadPreferences starts from the defaults and applies PHOTOEDIT_NOTIFY_*
// environment overrides.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("PHOTOEDIT_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	for _, event := range []Event{EventLoad, EventSave, EventCopy} {
		key := "PHOTOEDIT_NOTIFY_" + strings.ToUpper(string(event)) + "_TEXT"
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			prefs.Events[event] = EventPreference{Template: v}
		}
	}
	return prefs
}

// Notifier sends OS notifications for the events that have been enabled.
// A nil Notifier is valid and sends nothing.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
}

// New creates a Notifier with every event disabled.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool)}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Enabled reports whether event would produce a notification.
func (n *Notifier) Enabled(event Event) bool {
	return n != nil && n.enabled[event]
}

// Load announces an opened image, attaching a thumbnail of img when given.
func (n *Notifier) Load(detail string, img image.Image) {
	if !n.Enabled(EventLoad) {
		return
	}
	opts := platform.Options{}
	if img != nil {
		if path, cleanup, err := writeThumbnail(img); err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventLoad, detail, opts)
}

// Save announces a stored result. When location names an existing file it
// is shown as an absolute path and used as the icon.
func (n *Notifier) Save(location string) {
	if !n.Enabled(EventSave) {
		return
	}
	detail := strings.TrimSpace(location)
	opts := platform.Options{}
	if abs, err := filepath.Abs(detail); err == nil && detail != "" {
		if _, statErr := os.Stat(abs); statErr == nil {
			detail = abs
			opts.IconPath = abs
		}
	}
	n.dispatch(EventSave, detail, opts)
}

// Copy announces a clipboard write.
func (n *Notifier) Copy(detail string) {
	if !n.Enabled(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	n.dispatch(EventCopy, detail, platform.Options{})
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	template := strings.TrimSpace(n.prefs.Events[event].Template)
	if template == "" {
		return
	}
	var body string
	if strings.Contains(template, "%") {
		body = fmt.Sprintf(template, strings.TrimSpace(detail))
	} else {
		body = template
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	if opts.Category == "" {
		opts.Category = categories[event]
	}
	if err := send(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

func writeThumbnail(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "photoedit-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	thumb := imaging.Fit(img, previewSize, previewSize, imaging.Linear)
	if err := imaging.Encode(f, thumb, imaging.PNG); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}
	return path, cleanup, nil
}
