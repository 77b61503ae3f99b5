package errors

import "errors"

// Sentinel errors shared by the parameter cache and the registration
// catalog. RPC facade methods translate these into the master's
// (-1, message, value) failure convention; callers should use errors.Is
// rather than matching on message text.
var (
	// ErrNotFound is returned when a parameter key, node name, or service
	// name has no matching entry.
	ErrNotFound = errors.New("not found")
	// ErrInvalidValue is returned when setting the root parameter key to a
	// non-mapping value.
	ErrInvalidValue = errors.New("invalid value")
)

// DI container errors.
var (
	// ErrInterfaceMustBePointer is returned when a non-pointer interface is registered.
	ErrInterfaceMustBePointer = errors.New("interface must be a pointer type")
	// ErrMockDoesNotImplement is returned when a mock does not implement the interface.
	ErrMockDoesNotImplement = errors.New("mock does not implement interface")
	// ErrTargetMustBePointer is returned when a non-pointer target is passed to Resolve.
	ErrTargetMustBePointer = errors.New("target must be a pointer")
	// ErrNoFactoryRegistered is returned when no factory is registered for a type.
	ErrNoFactoryRegistered = errors.New("no factory registered")
	// ErrFactoryFailed is returned when the factory fails to create an instance.
	ErrFactoryFailed = errors.New("factory failed to create instance")
)
