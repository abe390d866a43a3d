package aws

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// NotFoundError indicates that a named group or container instance does not
// exist. It is fatal: the recycler makes no further calls after hitting one.
type NotFoundError struct {
	Resource string
	Name     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Name)
}

// IsNotFound reports whether the error chain contains a NotFoundError.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// InvalidCapacityError indicates a desired/max combination that violates the
// desired <= max invariant. Guarded locally before the API call is made.
type InvalidCapacityError struct {
	Desired int32
	Max     int32
}

func (e *InvalidCapacityError) Error() string {
	return fmt.Sprintf("invalid capacity: desired %d exceeds max %d", e.Desired, e.Max)
}

// IsInvalidCapacity reports whether the error chain contains an
// InvalidCapacityError.
func IsInvalidCapacity(err error) bool {
	var ice *InvalidCapacityError
	return errors.As(err, &ice)
}

// transientErrorCodes are API error codes worth retrying. Throttling and
// service faults clear on their own; everything else is treated as fatal.
var transientErrorCodes = map[string]bool{
	"Throttling":                  true,
	"ThrottlingException":         true,
	"RequestLimitExceeded":        true,
	"RequestThrottled":            true,
	"ServiceUnavailable":          true,
	"ServiceUnavailableException": true,
	"InternalFailure":             true,
	"InternalServiceError":        true,
	"RequestTimeout":              true,
}

// IsTransient reports whether the error looks like a throttling, network or
// service fault that a later attempt could succeed past.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if transientErrorCodes[apiErr.ErrorCode()] {
			return true
		}
		return apiErr.ErrorFault() == smithy.FaultServer
	}

	return false
}
