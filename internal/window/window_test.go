package window

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/driftmesh/internal/logging"
)

type countingFramer struct {
	frames int64
	err    error
}

func (c *countingFramer) Frame() error {
	c.frames++
	return c.err
}

func (c *countingFramer) Frames() int64 { return c.frames }

func TestFrameFuncClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := &countingFramer{}
	closed := 0
	body := frameFunc(ctx, f, func() { closed++ }, logging.NewNopLogger())

	body()
	body()
	if f.frames != 2 || closed != 0 {
		t.Fatalf("expected 2 frames and no close, got %d frames, %d closes", f.frames, closed)
	}

	cancel()
	body()
	if f.frames != 2 || closed != 1 {
		t.Errorf("expected close without a frame after cancel, got %d frames, %d closes", f.frames, closed)
	}
}

func TestFrameFuncKeepsGoingOnError(t *testing.T) {
	f := &countingFramer{err: errors.New("boom")}
	closed := false
	body := frameFunc(context.Background(), f, func() { closed = true }, logging.NewNopLogger())
	body()
	body()
	if f.frames != 2 || closed {
		t.Errorf("frame errors should not close the window, got %d frames, closed=%v", f.frames, closed)
	}
}
