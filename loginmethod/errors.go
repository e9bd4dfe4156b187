package loginmethod

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingField matches every *MissingFieldError
	ErrMissingField = errors.New("missing required field")

	// ErrUnsupportedVariant matches every *UnsupportedVariantError
	ErrUnsupportedVariant = errors.New("unsupported login method variant")

	// ErrUnknownReference matches every *ReferenceError
	ErrUnknownReference = errors.New("unknown oauth2 client")

	// ErrRemoteFailure matches every *RemoteError
	ErrRemoteFailure = errors.New("remote failure")
)

// MissingFieldError is returned when the resolved source or target kind
// requires inputs that were not supplied.
type MissingFieldError struct {
	Family Family
	Kind   string
	Fields []string
}

func (e *MissingFieldError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("missing required field(s): %s", strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("missing required field(s) for %s login method of type %q: %s",
		e.Family, e.Kind, strings.Join(e.Fields, ", "))
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// UnsupportedVariantError is returned for a source or target kind that does
// not exist for the resolved family.
type UnsupportedVariantError struct {
	Family Family
	Axis   string // "source", "target" or "family"
	Kind   string
}

func (e *UnsupportedVariantError) Error() string {
	if e.Axis == "family" {
		return fmt.Sprintf("unsupported login method type %q", e.Kind)
	}
	return fmt.Sprintf("%s type %q is not supported for %s login methods", e.Axis, e.Kind, e.Family)
}

func (e *UnsupportedVariantError) Is(target error) bool {
	return target == ErrUnsupportedVariant
}

// ReferenceError is returned when a DelegatedAuth login method names an
// OAuth2 client the platform's registry does not contain.
type ReferenceError struct {
	Name string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("oauth2 client %q does not exist", e.Name)
}

func (e *ReferenceError) Is(target error) bool {
	return target == ErrUnknownReference
}

// RemoteError carries a failure returned by the platform. Its message is the
// platform error's message, unchanged.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return e.Err.Error()
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func (e *RemoteError) Is(target error) bool {
	return target == ErrRemoteFailure
}

func remote(op string, err error) error {
	return &RemoteError{Op: op, Err: err}
}

func unsupportedSource(family Family, kind SourceKind) error {
	return &UnsupportedVariantError{Family: family, Axis: "source", Kind: string(kind)}
}

// errorKind labels err for metrics.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrMissingField):
		return "missing_field"
	case errors.Is(err, ErrUnsupportedVariant):
		return "unsupported_variant"
	case errors.Is(err, ErrUnknownReference):
		return "reference"
	case errors.Is(err, ErrRemoteFailure):
		return "remote"
	default:
		return "other"
	}
}
