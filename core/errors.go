package core

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// FieldError reports a problem with a single input field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a rejected input that the client can fix.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// FieldErrors flattens validator and ValidationError failures into a field -> message map.
// It returns nil when err carries no per-field detail.
func FieldErrors(err error, translator ut.Translator) map[string]string {
	switch origErr := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		flds := make(map[string]string, len(origErr))
		for _, vErr := range origErr {
			flds[vErr.Field()] = vErr.Translate(translator)
		}
		return flds
	case *ValidationError:
		if len(origErr.Fields) == 0 {
			return nil
		}
		flds := make(map[string]string, len(origErr.Fields))
		for _, fErr := range origErr.Fields {
			flds[fErr.Field] = fErr.Error
		}
		return flds
	}
	return nil
}

// IsValidationError tells whether err (or its cause) should be reported as a client error.
func IsValidationError(err error) bool {
	switch errors.Cause(err).(type) {
	case validator.ValidationErrors, *ValidationError:
		return true
	}
	return false
}

type shutdown struct {
	reason string
}

// NewShutdownError marks an integrity failure after which the API must stop serving.
func NewShutdownError(reason string) error {
	return &shutdown{reason: reason}
}

func (s shutdown) Error() string {
	return s.reason
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
