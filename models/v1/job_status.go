package v1

import (
	"github.com/opencluster/framework-job-scheduler/internal/diagnostics"
	"github.com/opencluster/framework-job-scheduler/internal/exitspec"
)

// JobSummary holds general information about a job, rebuilt fresh on every
// query from the raw Framework status.
// swagger:model JobSummary
type JobSummary struct {
	// Name is the original user-facing job identifier
	// required: true
	// example: alice~mnist
	Name string `json:"name"`

	// Username of the submitter
	// required: false
	Username string `json:"username,omitempty"`

	// VirtualCluster of the job
	// required: false
	VirtualCluster string `json:"virtualCluster,omitempty"`

	// State of the job
	// Enum: WAITING,RUNNING,SUCCEEDED,STOPPED,FAILED,UNKNOWN
	// required: true
	State string `json:"state"`

	// SubState is the raw controller-level state behind State
	// required: false
	SubState string `json:"subState,omitempty"`

	// ExecutionType of the job, Start or Stop
	// required: false
	ExecutionType string `json:"executionType,omitempty"`

	// Retries is the total number of retried attempts
	// required: false
	Retries int32 `json:"retries"`

	// RetryDetails breaks retries down by cause
	// required: false
	RetryDetails RetryDetails `json:"retryDetails"`

	// CreatedTime in unix milliseconds
	// required: false
	CreatedTime int64 `json:"createdTime,omitempty"`

	// CompletedTime in unix milliseconds
	// required: false
	CompletedTime int64 `json:"completedTime,omitempty"`

	// AppExitCode of the completed job
	// required: false
	AppExitCode *int32 `json:"appExitCode,omitempty"`

	// TotalGpuNumber requested across all task roles
	// required: false
	TotalGpuNumber int32 `json:"totalGpuNumber"`

	// TotalTaskNumber is the number of task instances
	// required: false
	TotalTaskNumber int32 `json:"totalTaskNumber"`

	// TotalTaskRoleNumber is the number of task roles
	// required: false
	TotalTaskRoleNumber int32 `json:"totalTaskRoleNumber"`
}

// RetryDetails breaks a job's retries down by cause. Resource-caused retries
// are not tracked at this layer and always report zero.
type RetryDetails struct {
	// User caused retries
	User int32 `json:"user"`
	// Platform caused retries
	Platform int32 `json:"platform"`
	// Resource conflict caused retries
	Resource int32 `json:"resource"`
}

// JobDetail extends the summary with exit classification, diagnostics and
// per-task placement.
// swagger:model JobDetail
type JobDetail struct {
	// Name is the original user-facing job identifier
	// required: true
	Name string `json:"name"`

	// JobStatus holds the translated status of the job
	// required: true
	JobStatus JobStatusDetail `json:"jobStatus"`

	// TaskRoles of the job, in spec order
	// required: false
	TaskRoles []TaskRoleStatus `json:"taskRoles,omitempty"`
}

// JobStatusDetail holds the translated status of a job.
type JobStatusDetail struct {
	Username       string       `json:"username,omitempty"`
	VirtualCluster string       `json:"virtualCluster,omitempty"`
	State          string       `json:"state"`
	SubState       string       `json:"subState,omitempty"`
	ExecutionType  string       `json:"executionType,omitempty"`
	Retries        int32        `json:"retries"`
	RetryDetails   RetryDetails `json:"retryDetails"`
	CreatedTime    int64        `json:"createdTime,omitempty"`
	LaunchedTime   int64        `json:"launchedTime,omitempty"`
	CompletedTime  int64        `json:"completedTime,omitempty"`

	// AppExitCode of the completed job
	AppExitCode *int32 `json:"appExitCode,omitempty"`

	// AppExitSpec is the human-readable classification of AppExitCode
	AppExitSpec *exitspec.Entry `json:"appExitSpec,omitempty"`

	// AppExitDiagnostics is the rendered diagnostics text
	AppExitDiagnostics string `json:"appExitDiagnostics,omitempty"`

	// AppExitMessages is the structured completion record recovered from
	// the diagnostics
	AppExitMessages *diagnostics.Record `json:"appExitMessages,omitempty"`

	// AppExitTriggerTaskRoleName is the task role which triggered completion
	AppExitTriggerTaskRoleName string `json:"appExitTriggerTaskRoleName,omitempty"`

	// AppExitTriggerTaskIndex is the task index which triggered completion
	AppExitTriggerTaskIndex *int32 `json:"appExitTriggerTaskIndex,omitempty"`

	// AppExitType is the completion type name reported by the orchestrator
	AppExitType string `json:"appExitType,omitempty"`
}

// TaskRoleStatus enumerates the task instances of one role.
type TaskRoleStatus struct {
	// Name of the task role
	Name string `json:"name"`

	// TaskStatuses of the role's instances, ordered by task index
	TaskStatuses []TaskStatus `json:"taskStatuses"`
}

// TaskStatus is the per-instance view, including best-effort placement.
// Placement fields are empty when the instance's pod lookup failed.
type TaskStatus struct {
	TaskIndex          int32  `json:"taskIndex"`
	TaskState          string `json:"taskState"`
	Retries            int32  `json:"retries"`
	AccountableRetries int32  `json:"accountableRetries"`
	CreatedTime        int64  `json:"createdTime,omitempty"`
	CompletedTime      int64  `json:"completedTime,omitempty"`

	// ContainerID is the pod UID of the running task attempt
	ContainerID string `json:"containerId,omitempty"`

	// ContainerIP is the host address the task runs on
	ContainerIP string `json:"containerIp,omitempty"`

	// ContainerPorts maps port names to the instance's concrete ports,
	// recomputed from the stored port table
	ContainerPorts map[string]string `json:"containerPorts,omitempty"`

	// ContainerGpus is a bitmask of the GPU devices assigned to the task
	ContainerGpus *int64 `json:"containerGpus,omitempty"`

	// ContainerExitCode of the completed task attempt
	ContainerExitCode *int32 `json:"containerExitCode,omitempty"`

	// ContainerExitSpec classifies ContainerExitCode
	ContainerExitSpec *exitspec.Entry `json:"containerExitSpec,omitempty"`

	// ContainerExitDiagnostics is the raw diagnostics of the task attempt
	ContainerExitDiagnostics string `json:"containerExitDiagnostics,omitempty"`
}
