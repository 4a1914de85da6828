//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import "errors"

var errUnsupported = errors.New("clipboard is not supported on this platform")

func writeImageBytes([]byte) error { return errUnsupported }

func readImageBytes() ([]byte, error) { return nil, errUnsupported }
