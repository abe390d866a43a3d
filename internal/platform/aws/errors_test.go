package aws

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func TestIsNotFound(t *testing.T) {
	err := &NotFoundError{Resource: "auto scaling group", Name: "web-asg"}

	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsNotFound(errors.New("other")))
	assert.False(t, IsNotFound(nil))
	assert.Equal(t, `auto scaling group "web-asg" not found`, err.Error())
}

func TestIsInvalidCapacity(t *testing.T) {
	err := &InvalidCapacityError{Desired: 5, Max: 3}

	assert.True(t, IsInvalidCapacity(err))
	assert.True(t, IsInvalidCapacity(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsInvalidCapacity(errors.New("other")))
	assert.Equal(t, "invalid capacity: desired 5 exceeds max 3", err.Error())
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{
			name: "throttling",
			err:  &smithy.GenericAPIError{Code: "Throttling", Message: "rate exceeded"},
			want: true,
		},
		{
			name: "throttling exception",
			err:  &smithy.GenericAPIError{Code: "ThrottlingException", Message: "rate exceeded"},
			want: true,
		},
		{
			name: "request limit",
			err:  &smithy.GenericAPIError{Code: "RequestLimitExceeded", Message: "slow down"},
			want: true,
		},
		{
			name: "server fault",
			err:  &smithy.GenericAPIError{Code: "SomethingBroke", Fault: smithy.FaultServer},
			want: true,
		},
		{
			name: "client fault",
			err:  &smithy.GenericAPIError{Code: "ValidationError", Fault: smithy.FaultClient},
			want: false,
		},
		{
			name: "wrapped throttling",
			err:  fmt.Errorf("calling ecs: %w", &smithy.GenericAPIError{Code: "Throttling"}),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}
