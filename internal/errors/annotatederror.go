// Package errors wraps the standard library errors with slog annotations and the source location
// where the error was created.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
)

// Re-exported so that callers only need a single errors import.
var (
	Is     = stderrors.Is
	As     = stderrors.As
	Unwrap = stderrors.Unwrap
	Join   = stderrors.Join
)

type annotatedError struct {
	msg    string
	err    error
	attrs  []slog.Attr
	source string
}

func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// callerSource returns file:line of the caller skip frames above the exported constructor.
func callerSource(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return file + ":" + strconv.Itoa(line)
}

// NewSentinel creates an error meant to be compared with [Is]. It carries no source location because sentinels are
// declared at package level.
func NewSentinel(msg string) error {
	return stderrors.New(msg)
}

// New creates an error annotated with attrs and the caller's source location.
func New(msg string, attrs ...slog.Attr) error {
	return &annotatedError{
		msg:    msg,
		err:    nil,
		attrs:  attrs,
		source: callerSource(2), //nolint:mnd // skip New and callerSource.
	}
}

// Wrap adds context to err. The annotations are logged with [SlogError].
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	return &annotatedError{
		msg:    msg,
		err:    err,
		attrs:  attrs,
		source: callerSource(2), //nolint:mnd // skip Wrap and callerSource.
	}
}

// DecoratePanic converts a recovered panic value into an error with the location of the panic.
func DecoratePanic(recovered any) error {
	if recovered == nil {
		return nil
	}
	// Frames: callerSource, DecoratePanic, deferred func, runtime.gopanic, panicking function.
	return &annotatedError{
		msg:    fmt.Sprintf("panic: %v", recovered),
		err:    nil,
		attrs:  nil,
		source: callerSource(4), //nolint:mnd // see frame list above.
	}
}

// SlogError returns an attribute group describing err with all annotations collected from the wrap chain and the
// source location of the outermost annotated error.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}

	var (
		annotations []any
		source      string
	)
	collectAnnotations(err, &annotations, &source)

	attrs := []any{slog.String("message", err.Error())}
	if source != "" {
		attrs = append(attrs, slog.String("source", source))
	}
	if len(annotations) > 0 {
		attrs = append(attrs, slog.Group("annotations", annotations...))
	}
	return slog.Group("error", attrs...)
}

func collectAnnotations(err error, annotations *[]any, source *string) {
	for err != nil {
		var ae *annotatedError
		if !stderrors.As(err, &ae) {
			// Might be a joined error hiding annotated errors in its branches.
			if joined, ok := err.(interface{ Unwrap() []error }); ok {
				for _, e := range joined.Unwrap() {
					collectAnnotations(e, annotations, source)
				}
			}
			return
		}
		for _, a := range ae.attrs {
			*annotations = append(*annotations, a)
		}
		if *source == "" {
			*source = ae.source
		}
		err = ae.err
	}
}
