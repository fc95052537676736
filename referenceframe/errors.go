package referenceframe

import (
	"fmt"
	"time"
)

// TransformUnavailableError is returned when no transform between two frames
// can be resolved at the requested time.
type TransformUnavailableError struct {
	DstFrame string
	SrcFrame string
	At       time.Time
}

// NewTransformUnavailableError returns an error for a failed transform lookup
// between the given frames at the given time.
func NewTransformUnavailableError(dstFrame, srcFrame string, at time.Time) *TransformUnavailableError {
	return &TransformUnavailableError{DstFrame: dstFrame, SrcFrame: srcFrame, At: at}
}

func (e *TransformUnavailableError) Error() string {
	if e.At.IsZero() {
		return fmt.Sprintf("no transform available from frame %q to frame %q", e.SrcFrame, e.DstFrame)
	}
	return fmt.Sprintf("no transform available from frame %q to frame %q at %s",
		e.SrcFrame, e.DstFrame, e.At.Format(time.RFC3339Nano))
}
