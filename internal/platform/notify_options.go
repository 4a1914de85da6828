package platform

// AppName is reported to notification centres that group by application.
const AppName = "PhotoEdit"

// DefaultCategory is the freedesktop category used when Options leaves it
// empty.
const DefaultCategory = "transfer.complete"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file shown with the
	// notification where the platform supports it.
	IconPath string
	// Category is a freedesktop notification category hint. Other
	// platforms ignore it.
	Category string
	// Timeout is the display time in milliseconds. Zero uses 5000.
	Timeout int32
}

func (o Options) timeout() int32 {
	if o.Timeout <= 0 {
		return 5000
	}
	return o.Timeout
}

func (o Options) category() string {
	if o.Category == "" {
		return DefaultCategory
	}
	return o.Category
}
