package recordkit

import (
	"errors"
	"fmt"
)

// Sentinel errors for RecordKit operations.
var (
	// ErrInvalidCredentials is returned when email/password authentication fails.
	// Unknown email and wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("recordkit: invalid credentials")

	// ErrUnauthenticated is returned when a request carries no usable identity.
	ErrUnauthenticated = errors.New("recordkit: unauthenticated")

	// ErrInvalidToken is returned when a bearer token fails verification.
	ErrInvalidToken = errors.New("recordkit: invalid token")

	// ErrPermissionDenied is returned at HTTP boundaries when an authorization
	// decision denies the request. Inside the library, decisions are values
	// (see Decision), never errors.
	ErrPermissionDenied = errors.New("recordkit: permission denied")

	// ErrRoleNotFound is returned when a role slug has no row.
	ErrRoleNotFound = errors.New("recordkit: role not found")

	// ErrUserNotFound is returned when a user lookup finds no row.
	ErrUserNotFound = errors.New("recordkit: user not found")

	// ErrRecordNotFound is returned when a record lookup finds no row.
	ErrRecordNotFound = errors.New("recordkit: record not found")

	// ErrOptionNotFound is returned when a dropdown option lookup finds no row.
	ErrOptionNotFound = errors.New("recordkit: dropdown option not found")

	// ErrUnknownPermission is returned when a permission name is not part of
	// the catalog.
	ErrUnknownPermission = errors.New("recordkit: unknown permission")

	// ErrInvalidDropdownType is returned when a dropdown type is neither
	// single_select nor multi_select.
	ErrInvalidDropdownType = errors.New("recordkit: invalid dropdown type")

	// ErrWrongOptionType is returned when a record references an option from
	// the wrong dropdown (e.g. a multi_select option as single select value).
	ErrWrongOptionType = errors.New("recordkit: wrong option type")

	// ErrDuplicateValue is returned when a unique constraint rejects a write.
	ErrDuplicateValue = errors.New("recordkit: duplicate value")

	// ErrDatabaseError is returned when a database operation fails.
	ErrDatabaseError = errors.New("recordkit: database error")
)

// Error wraps a sentinel error with additional context.
type Error struct {
	Err        error  // Underlying sentinel error
	Message    string // Additional context
	Resource   string // Resource involved (record, dropdown_option, user, role)
	ResourceID int64  // Resource ID involved (if applicable)
	Permission string // Permission involved (if applicable)
	Role       string // Role slug involved (if applicable)
	Email      string // Email involved (if applicable)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a target error.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new Error with context.
func NewError(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
	}
}

// WithResource adds resource information to the error.
func (e *Error) WithResource(resource string, id int64) *Error {
	e.Resource = resource
	e.ResourceID = id
	return e
}

// WithPermission adds permission information to the error.
func (e *Error) WithPermission(permission string) *Error {
	e.Permission = permission
	return e
}

// WithRole adds role information to the error.
func (e *Error) WithRole(slug string) *Error {
	e.Role = slug
	return e
}

// WithEmail adds email information to the error.
func (e *Error) WithEmail(email string) *Error {
	e.Email = email
	return e
}

// IsInvalidCredentials checks if an error is an authentication failure.
func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

// IsUnauthenticated checks if an error means the request had no identity.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrInvalidToken)
}

// IsPermissionDenied checks if an error is an authorization denial.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsNotFound checks if an error is any of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRoleNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrRecordNotFound) ||
		errors.Is(err, ErrOptionNotFound)
}

// IsDuplicateValue checks if an error is a unique-constraint violation.
func IsDuplicateValue(err error) bool {
	return errors.Is(err, ErrDuplicateValue)
}

// IsWrongOptionType checks if an error is a dropdown type mismatch.
func IsWrongOptionType(err error) bool {
	return errors.Is(err, ErrWrongOptionType)
}

// IsInvalidDropdownType checks if an error is an unknown dropdown type.
func IsInvalidDropdownType(err error) bool {
	return errors.Is(err, ErrInvalidDropdownType)
}

// IsUnknownPermission checks if an error is an out-of-catalog permission name.
func IsUnknownPermission(err error) bool {
	return errors.Is(err, ErrUnknownPermission)
}
