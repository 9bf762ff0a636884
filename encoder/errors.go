package encoder

import (
	"fmt"

	"github.com/asmteach/asm15/parser"
)

// EncodingError reports why an operand failed to encode, tagged with the
// diagnostic kind the caller should attach to its own positioned error.
type EncodingError struct {
	Message string
	Wrapped error
	Kind    parser.ErrorKind
}

func (e *EncodingError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Wrapped)
	}
	return e.Message
}

func (e *EncodingError) Unwrap() error {
	return e.Wrapped
}

// NewEncodingError builds an EncodingError, defaulting to
// ErrKindSymbolNotFound (the most common cause in practice; callers that
// know a more precise kind should use NewEncodingErrorKind).
func NewEncodingError(message string) *EncodingError {
	return &EncodingError{Message: message, Kind: parser.ErrKindSymbolNotFound}
}

// NewEncodingErrorKind builds an EncodingError tagged with a specific kind.
func NewEncodingErrorKind(kind parser.ErrorKind, message string) *EncodingError {
	return &EncodingError{Message: message, Kind: kind}
}
