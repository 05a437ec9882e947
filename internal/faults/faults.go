// Package faults defines the error markers used across weeder.
//
// Every I/O failure is wrapped with one of the exported sentinel errors so
// callers can classify it with errors.Is while the message still carries the
// component, operation, and underlying cause. There is no retry logic: a failed
// run is simply rerun from scratch.
package faults

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSource        = errors.New("document source error")
	ErrSink          = errors.New("output sink error")
	ErrConfiguration = errors.New("configuration error")
	ErrLocked        = errors.New("output locked")
	ErrSourceChanged = errors.New("document source changed between passes")
	ErrHistory       = errors.New("run history error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker. The marker should be one of the exported
// sentinel errors above; a nil marker defaults to ErrSource.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrSource
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a short label for the marker carried by err, or "internal"
// when err carries none of the known markers.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrLocked):
		return "locked"
	case errors.Is(err, ErrSourceChanged):
		return "source_changed"
	case errors.Is(err, ErrSource):
		return "source"
	case errors.Is(err, ErrSink):
		return "sink"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrHistory):
		return "history"
	default:
		return "internal"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "weeder failure"
	}
	return strings.Join(parts, ": ")
}
