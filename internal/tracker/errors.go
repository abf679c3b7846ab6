package tracker

import (
	"errors"
	"fmt"
)

// UserError reports a violation the user can fix, such as a duplicate or
// unknown feature name. Its message is meant to be shown verbatim.
//
// Storage failures are never UserErrors; they propagate as ordinary
// wrapped errors.
type UserError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string
}

// ErrorCode categorizes user errors.
type ErrorCode string

const (
	// CodeDuplicateName: a feature with the requested name already exists.
	CodeDuplicateName ErrorCode = "DUPLICATE_NAME"

	// CodeNoSuchFeature: no feature has the requested name.
	CodeNoSuchFeature ErrorCode = "NO_SUCH_FEATURE"

	// CodeReservedProperty: a property name collides with a feature field.
	CodeReservedProperty ErrorCode = "RESERVED_PROPERTY"

	// CodeIncompatibleFormat: the stored data needs an upgrade first.
	CodeIncompatibleFormat ErrorCode = "INCOMPATIBLE_FORMAT"

	// CodeNotInitialized: there is no tracker in the storage.
	CodeNotInitialized ErrorCode = "NOT_INITIALIZED"

	// CodeUnsupportedMigration: no upgrade path to the target format.
	CodeUnsupportedMigration ErrorCode = "UNSUPPORTED_MIGRATION"

	// CodeAlreadyInitialized: init found an existing tracker.
	CodeAlreadyInitialized ErrorCode = "ALREADY_INITIALIZED"

	// CodeInvalidName: a feature, status or property name cannot be stored.
	CodeInvalidName ErrorCode = "INVALID_NAME"

	// CodeInvalidConfig: the tracker config does not match its schema.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIG"

	// CodeNoEditor: no editor is configured in the environment.
	CodeNoEditor ErrorCode = "NO_EDITOR"

	// CodeEditorFailed: the editor command exited with a nonzero status.
	CodeEditorFailed ErrorCode = "EDITOR_FAILED"

	// CodeNoSuchProperty: a feature does not have the named property.
	CodeNoSuchProperty ErrorCode = "NO_SUCH_PROPERTY"
)

// Error implements the error interface.
func (e *UserError) Error() string {
	return e.Message
}

// NewUserError creates a UserError with a formatted message.
func NewUserError(code ErrorCode, format string, args ...any) *UserError {
	return &UserError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsUserError reports whether err is, or wraps, a UserError.
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}

// HasCode reports whether err is, or wraps, a UserError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Code == code
	}
	return false
}
