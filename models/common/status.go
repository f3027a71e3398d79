package common

// Status is the JSON body returned for any non-2xx response.
type Status struct {
	// Status of the operation. One of: "Success" or "Failure".
	Status string `json:"status,omitempty"`

	// Reason is a machine-readable description of why this operation is in
	// the "Failure" status.
	Reason StatusReason `json:"reason,omitempty"`

	// Message is a human-readable description of this operation.
	Message string `json:"message,omitempty"`

	// Code is the suggested HTTP return code for this status.
	Code int `json:"code,omitempty"`
}

const (
	StatusSuccess = "Success"
	StatusFailure = "Failure"
)

// StatusReason is an enumeration of possible failure causes.
type StatusReason string

const (
	// StatusReasonNotFound means the requested job does not exist.
	StatusReasonNotFound StatusReason = "NotFound"

	// StatusReasonNoJobConfig means the job exists but its original
	// configuration annotation is absent.
	StatusReasonNoJobConfig StatusReason = "NoJobConfig"

	// StatusReasonForbidden means the submitter is not authorized for the
	// requested virtual cluster.
	StatusReasonForbidden StatusReason = "Forbidden"

	// StatusReasonNoJobSshInfo means SSH info is not supported for the job.
	StatusReasonNoJobSshInfo StatusReason = "NoJobSshInfo"

	// StatusReasonInvalid means the job description failed validation.
	StatusReasonInvalid StatusReason = "Invalid"

	// StatusReasonUnknown means the cause of the failure is unknown.
	StatusReasonUnknown StatusReason = "Unknown"
)
