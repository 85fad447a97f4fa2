package errors

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// Prefixes that tell a recognized failure apart from an unrecognized one.
const (
	PrefixKnown   = "Error: "
	PrefixUnknown = "Unknown error: "
)

// Shape classifies the value handed to Normalize.
type Shape string

const (
	ShapeError   Shape = "error"
	ShapeString  Shape = "string"
	ShapeUnknown Shape = "unknown"
)

// Normalize turns any caught value into an error and logs it.
//
// An error contributes its message, a string is used as is, and any other
// value is rendered as JSON (falling back to %v when it cannot be encoded).
// The derived message is logged to logger (slog.Default() when nil) before
// the error is returned. The returned error is never nil. Errors and strings
// yield code E100 with a message starting with PrefixKnown; anything else
// yields code E101 with a message starting with PrefixUnknown.
func Normalize(logger *slog.Logger, v any) error {
	if logger == nil {
		logger = slog.Default()
	}

	shape, msg := Describe(v)
	logger.Error(msg, slog.String("shape", string(shape)))

	var e *Error
	switch shape {
	case ShapeError:
		e = New("E100").WithMessage(PrefixKnown + msg).Wrap(v.(error))
	case ShapeString:
		e = New("E100").WithMessage(PrefixKnown + msg)
	default:
		e = New("E101").WithMessage(PrefixUnknown + msg)
	}
	return e
}

// Describe returns the shape of v and the human-readable message Normalize
// derives from it.
func Describe(v any) (Shape, string) {
	switch x := v.(type) {
	case error:
		return ShapeError, x.Error()
	case string:
		return ShapeString, x
	}

	data, err := json.Marshal(v)
	if err != nil {
		return ShapeUnknown, fmt.Sprintf("%v", v)
	}
	return ShapeUnknown, string(data)
}

// Recover converts a recovered panic value into an error via Normalize.
// It returns nil when nothing was recovered.
//
//	defer func() {
//	    if err := errors.Recover(logger, recover()); err != nil {
//	        ...
//	    }
//	}()
func Recover(logger *slog.Logger, r any) error {
	if r == nil {
		return nil
	}
	return Normalize(logger, r)
}
