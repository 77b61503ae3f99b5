package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorDefinitions(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{
			name:    "ErrNotFound",
			err:     ErrNotFound,
			message: "not found",
		},
		{
			name:    "ErrInvalidValue",
			err:     ErrInvalidValue,
			message: "invalid value",
		},
		{
			name:    "ErrInterfaceMustBePointer",
			err:     ErrInterfaceMustBePointer,
			message: "interface must be a pointer type",
		},
		{
			name:    "ErrMockDoesNotImplement",
			err:     ErrMockDoesNotImplement,
			message: "mock does not implement interface",
		},
		{
			name:    "ErrTargetMustBePointer",
			err:     ErrTargetMustBePointer,
			message: "target must be a pointer",
		},
		{
			name:    "ErrNoFactoryRegistered",
			err:     ErrNoFactoryRegistered,
			message: "no factory registered",
		},
		{
			name:    "ErrFactoryFailed",
			err:     ErrFactoryFailed,
			message: "factory failed to create instance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error(), "error message should match expected message")
		})
	}
}

func TestErrorComparisons(t *testing.T) {
	assert.NotEqual(t, ErrNotFound, ErrInvalidValue)
	assert.NotEqual(t, ErrInterfaceMustBePointer, ErrTargetMustBePointer)

	wrappedErr := ErrNotFound
	assert.Equal(t, wrappedErr, ErrNotFound)
}
