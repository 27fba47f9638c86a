package layout

import (
	"errors"
	"fmt"

	bo "github.com/laughinglion/PeachPDF-sub000/html/boxes"
	"github.com/laughinglion/PeachPDF-sub000/logger"
)

// ErrorKind classifies the failures reported during layout.
type ErrorKind uint8

const (
	// KindLayout is used for failures while positioning a box.
	KindLayout ErrorKind = iota
	// KindMeasurement is used when the intrinsic size of a content
	// (image, text) can't be computed.
	KindMeasurement
	// KindPaint is used by the paint pass, for boxes which could not be drawn.
	KindPaint
)

func (k ErrorKind) String() string {
	switch k {
	case KindMeasurement:
		return "Measurement"
	case KindPaint:
		return "Paint"
	default:
		return "Layout"
	}
}

// Error is the non fatal failure of one box, reported
// through [Options.OnError].
type Error struct {
	Kind ErrorKind
	Box  *bo.Box
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error on %s: %s", e.Kind, e.Box, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// logError is the default error handler.
func logError(err *Error) { logger.WarningLogger.Println(err) }

// ErrorHandler returns [Options.OnError], or the default handler
// logging to [logger.WarningLogger].
func (opts Options) ErrorHandler() func(*Error) {
	if opts.OnError != nil {
		return opts.OnError
	}
	return logError
}

func (lc *layoutContext) report(kind ErrorKind, box *bo.Box, err error) {
	lc.opts.OnError(&Error{Kind: kind, Box: box, Err: err})
}

// panicError converts a recovered value to an error.
func panicError(r interface{}) error {
	switch r := r.(type) {
	case error:
		return r
	case string:
		return errors.New(r)
	default:
		return fmt.Errorf("%v", r)
	}
}

// recoverBox is deferred at box boundaries: failures are reported and
// the layout of the siblings goes on. Structural errors are propagated.
func (lc *layoutContext) recoverBox(box *bo.Box, kind ErrorKind) {
	r := recover()
	if r == nil {
		return
	}
	if se, ok := r.(bo.StructuralError); ok {
		panic(se)
	}
	lc.report(kind, box, panicError(r))
}
