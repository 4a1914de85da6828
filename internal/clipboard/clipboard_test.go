package clipboard

import (
	"context"
	"errors"
	"testing"
)

func TestWriteImageBytesRejectsEmpty(t *testing.T) {
	if err := WriteImageBytes(nil); !errors.Is(err, ErrNoImage) {
		t.Fatalf("expected ErrNoImage, got %v", err)
	}
}

func TestSourceHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Source{}).FetchOriginal(ctx, SourceID); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
