package errors

import (
	"errors"
	"fmt"
	"net/http"

	kubeerrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/opencluster/framework-job-scheduler/models/common"
)

// APIStatus is implemented by errors that carry a response status.
type APIStatus interface {
	Status() *common.Status
}

// StatusError is the typed error surfaced by request-boundary operations.
// Core translation functions never return it: they degrade instead, because
// status input originates outside this service's control.
type StatusError struct {
	ErrStatus common.Status
}

var _ error = &StatusError{}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return e.ErrStatus.Message
}

// Status implements the APIStatus interface.
func (e *StatusError) Status() *common.Status {
	return &e.ErrStatus
}

// NewNoJob the requested job does not exist in the orchestrator.
func NewNoJob(name string) *StatusError {
	return &StatusError{
		common.Status{
			Status:  common.StatusFailure,
			Reason:  common.StatusReasonNotFound,
			Code:    http.StatusNotFound,
			Message: fmt.Sprintf("job %s is not found", name),
		},
	}
}

// NewNoJobConfig the job exists but its raw-config annotation is absent.
func NewNoJobConfig(name string) *StatusError {
	return &StatusError{
		common.Status{
			Status:  common.StatusFailure,
			Reason:  common.StatusReasonNoJobConfig,
			Code:    http.StatusNotFound,
			Message: fmt.Sprintf("config of job %s is not found", name),
		},
	}
}

// NewForbiddenUser the submitter is not authorized for the virtual cluster.
func NewForbiddenUser(userName, virtualCluster string) *StatusError {
	return &StatusError{
		common.Status{
			Status:  common.StatusFailure,
			Reason:  common.StatusReasonForbidden,
			Code:    http.StatusForbidden,
			Message: fmt.Sprintf("user %s is not allowed to do operations in virtual cluster %s", userName, virtualCluster),
		},
	}
}

// NewNoJobSshInfo SSH info is structurally unsupported.
func NewNoJobSshInfo(name string) *StatusError {
	return &StatusError{
		common.Status{
			Status:  common.StatusFailure,
			Reason:  common.StatusReasonNoJobSshInfo,
			Code:    http.StatusNotFound,
			Message: fmt.Sprintf("ssh info of job %s is not found", name),
		},
	}
}

// NewInvalid the job description failed validation.
func NewInvalid(err error) *StatusError {
	return &StatusError{
		common.Status{
			Status:  common.StatusFailure,
			Reason:  common.StatusReasonInvalid,
			Code:    http.StatusUnprocessableEntity,
			Message: err.Error(),
		},
	}
}

// NewUnknown any other failure.
func NewUnknown(err error) *StatusError {
	return &StatusError{
		common.Status{
			Status:  common.StatusFailure,
			Reason:  common.StatusReasonUnknown,
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		},
	}
}

// NewFromError folds an arbitrary error into a StatusError, preserving the
// orchestrator's status code and message for Kubernetes API errors.
func NewFromError(err error) *StatusError {
	var statusError *StatusError
	if errors.As(err, &statusError) {
		return statusError
	}
	var apiStatus kubeerrors.APIStatus
	if errors.As(err, &apiStatus) {
		status := apiStatus.Status()
		return &StatusError{
			common.Status{
				Status:  common.StatusFailure,
				Reason:  common.StatusReasonUnknown,
				Code:    int(status.Code),
				Message: status.Message,
			},
		}
	}
	return NewUnknown(err)
}

// ReasonForError returns the failure reason of err.
func ReasonForError(err error) common.StatusReason {
	var apiStatus APIStatus
	if errors.As(err, &apiStatus) {
		return apiStatus.Status().Reason
	}
	return common.StatusReasonUnknown
}
