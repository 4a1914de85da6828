package editor

import (
	"errors"

	"github.com/example/photoedit/internal/crop"
)

var (
	// ErrLoadFailure means the original image could not be fetched or
	// decoded. No session is created.
	ErrLoadFailure = errors.New("load failure")
	// ErrInvalidCropRegion means the crop selection maps to a degenerate or
	// out of bounds rectangle. The crop stays active.
	ErrInvalidCropRegion = crop.ErrInvalidRegion
	// ErrFilterUnavailable means there is no source raster to filter. The
	// session is left unchanged.
	ErrFilterUnavailable = errors.New("filter unavailable")
	// ErrExportFailure means the scene could not be flattened or stored.
	// The scene and history are left intact so the save can be retried.
	ErrExportFailure = errors.New("export failure")
	// ErrCropInactive is returned by crop operations when no crop is in
	// progress.
	ErrCropInactive = crop.ErrInactive
	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("session closed")
)
