// Package v1 defines the subset of the frameworkcontroller API surface this
// service produces and consumes. A Framework is a controller-managed
// multi-role workload: task roles of identical task instances, each instance
// executed by a Pod, with retry and completion policies evaluated per attempt.
package v1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
)

const (
	// GroupName is the API group of the Framework custom resource.
	GroupName = "frameworkcontroller.microsoft.com"
	// GroupVersion is the served version of the Framework custom resource.
	GroupVersion = "v1"
	// FrameworksResource is the plural resource name used in API paths.
	FrameworksResource = "frameworks"
)

// FrameworkList is a list of Framework objects.
type FrameworkList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata"`
	Items           []Framework `json:"items"`
}

// Framework is a controller-managed multi-role distributed workload.
// The Status field is owned by the controller; everything else is owned by
// the submitter.
type Framework struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata"`
	Spec              FrameworkSpec    `json:"spec"`
	Status            *FrameworkStatus `json:"status,omitempty"`
}

// FrameworkSpec declares the workload.
type FrameworkSpec struct {
	Description string `json:"description,omitempty"`
	// ExecutionType may only be updated from ExecutionStart to ExecutionStop.
	ExecutionType ExecutionType   `json:"executionType"`
	RetryPolicy   RetryPolicySpec `json:"retryPolicy"`
	TaskRoles     []*TaskRoleSpec `json:"taskRoles"`
}

// TaskRoleSpec declares one named group of identical task instances.
type TaskRoleSpec struct {
	Name string `json:"name"`

	// Tasks with TaskIndex in range [0, TaskNumber).
	TaskNumber                       int32                `json:"taskNumber"`
	FrameworkAttemptCompletionPolicy CompletionPolicySpec `json:"frameworkAttemptCompletionPolicy"`
	Task                             TaskSpec             `json:"task"`
}

// TaskSpec declares a single task instance within a task role.
type TaskSpec struct {
	RetryPolicy RetryPolicySpec        `json:"retryPolicy"`
	Pod         corev1.PodTemplateSpec `json:"pod"`
}

// ExecutionType controls whether the controller runs or stops the Framework.
type ExecutionType string

const (
	ExecutionStart ExecutionType = "Start"
	ExecutionStop  ExecutionType = "Stop"
)

// RetryPolicySpec controls when a completed attempt is retried.
// With FancyRetryPolicy enabled, completions classified as transient are
// retried without counting against MaxRetryCount.
type RetryPolicySpec struct {
	FancyRetryPolicy bool  `json:"fancyRetryPolicy"`
	MaxRetryCount    int32 `json:"maxRetryCount"`
}

// CompletionPolicySpec controls when a FrameworkAttempt completes based on
// per-role instance outcomes. A threshold of -1 disables that trigger.
type CompletionPolicySpec struct {
	MinFailedTaskCount    int32 `json:"minFailedTaskCount"`
	MinSucceededTaskCount int32 `json:"minSucceededTaskCount"`
}

// FrameworkStatus is the controller-reported observed state.
type FrameworkStatus struct {
	StartTime         metav1.Time            `json:"startTime"`
	CompletionTime    *metav1.Time           `json:"completionTime,omitempty"`
	State             FrameworkState         `json:"state"`
	TransitionTime    metav1.Time            `json:"transitionTime"`
	RetryPolicyStatus RetryPolicyStatus      `json:"retryPolicyStatus"`
	AttemptStatus     FrameworkAttemptStatus `json:"attemptStatus"`
}

// FrameworkAttemptStatus describes the current FrameworkAttempt.
type FrameworkAttemptStatus struct {
	// ID equals RetryPolicyStatus.TotalRetriedCount.
	ID int32 `json:"id"`

	StartTime        metav1.Time       `json:"startTime"`
	RunTime          *metav1.Time      `json:"runTime,omitempty"`
	CompletionTime   *metav1.Time      `json:"completionTime,omitempty"`
	CompletionStatus *CompletionStatus `json:"completionStatus,omitempty"`
	TaskRoleStatuses []*TaskRoleStatus `json:"taskRoleStatuses,omitempty"`
}

// TaskRoleStatus holds the per-instance statuses of one task role.
type TaskRoleStatus struct {
	Name         string        `json:"name"`
	TaskStatuses []*TaskStatus `json:"taskStatuses"`
}

// TaskStatus is the observed state of a single task instance.
type TaskStatus struct {
	Index             int32             `json:"index"`
	StartTime         metav1.Time       `json:"startTime"`
	CompletionTime    *metav1.Time      `json:"completionTime,omitempty"`
	State             TaskState         `json:"state"`
	TransitionTime    metav1.Time       `json:"transitionTime"`
	RetryPolicyStatus RetryPolicyStatus `json:"retryPolicyStatus"`
	AttemptStatus     TaskAttemptStatus `json:"attemptStatus"`
}

// TaskAttemptStatus describes the current TaskAttempt. The attempt instance
// is represented by a Pod named {FrameworkName}-{TaskRoleName}-{TaskIndex}.
type TaskAttemptStatus struct {
	ID int32 `json:"id"`

	StartTime        metav1.Time       `json:"startTime"`
	RunTime          *metav1.Time      `json:"runTime,omitempty"`
	CompletionTime   *metav1.Time      `json:"completionTime,omitempty"`
	PodName          string            `json:"podName"`
	PodUID           *types.UID        `json:"podUID,omitempty"`
	PodIP            *string           `json:"podIP,omitempty"`
	PodHostIP        *string           `json:"podHostIP,omitempty"`
	CompletionStatus *CompletionStatus `json:"completionStatus,omitempty"`
}

// RetryPolicyStatus is the retry bookkeeping of a Framework or Task.
type RetryPolicyStatus struct {
	TotalRetriedCount int32 `json:"totalRetriedCount"`

	// AccountableRetriedCount excludes retries caused by transient
	// completions when FancyRetryPolicy is enabled.
	AccountableRetriedCount int32 `json:"accountableRetriedCount"`

	// RetryDelaySec is set if and only if the current attempt is completed
	// and a retry is scheduled after the delay.
	RetryDelaySec *int64 `json:"retryDelaySec,omitempty"`
}

// CompletionStatus describes why an attempt completed.
//
// CompletionCode convention: non-negative codes are the exit code of the
// container which triggered the completion; negative codes are controller
// predefined errors (-1XX transient, -2XX permanent, -3XX unknown).
type CompletionStatus struct {
	Code        CompletionCode           `json:"code"`
	Phrase      CompletionPhrase         `json:"phrase"`
	Type        CompletionType           `json:"type"`
	Diagnostics string                   `json:"diagnostics"`
	Trigger     *CompletionStatusTrigger `json:"trigger,omitempty"`
}

// CompletionStatusTrigger identifies the task which triggered the completion.
type CompletionStatusTrigger struct {
	Message      string `json:"message"`
	TaskRoleName string `json:"taskRoleName"`
	TaskIndex    int32  `json:"taskIndex"`
}

type CompletionCode int32

type CompletionPhrase string

// CompletionType classifies a completion by outcome and attributes.
type CompletionType struct {
	Name       CompletionTypeName        `json:"name"`
	Attributes []CompletionTypeAttribute `json:"attributes"`
}

type CompletionTypeName string

const (
	CompletionTypeNameSucceeded CompletionTypeName = "Succeeded"
	CompletionTypeNameFailed    CompletionTypeName = "Failed"
)

type CompletionTypeAttribute string

const (
	CompletionTypeAttributeTransient CompletionTypeAttribute = "Transient"
	CompletionTypeAttributePermanent CompletionTypeAttribute = "Permanent"
	CompletionTypeAttributePlatform  CompletionTypeAttribute = "Platform"
	CompletionTypeAttributeUser      CompletionTypeAttribute = "User"
	CompletionTypeAttributeConflict  CompletionTypeAttribute = "Conflict"
)

// FrameworkState is the controller-level lifecycle state of a Framework.
type FrameworkState string

const (
	FrameworkAttemptCreationPending   FrameworkState = "AttemptCreationPending"
	FrameworkAttemptCreationRequested FrameworkState = "AttemptCreationRequested"
	FrameworkAttemptPreparing         FrameworkState = "AttemptPreparing"
	FrameworkAttemptRunning           FrameworkState = "AttemptRunning"
	FrameworkAttemptDeletionPending   FrameworkState = "AttemptDeletionPending"
	FrameworkAttemptDeletionRequested FrameworkState = "AttemptDeletionRequested"
	FrameworkAttemptDeleting          FrameworkState = "AttemptDeleting"
	FrameworkAttemptCompleted         FrameworkState = "AttemptCompleted"
	FrameworkCompleted                FrameworkState = "Completed"
)

// TaskState is the controller-level lifecycle state of a task instance.
type TaskState string

const (
	TaskAttemptCreationPending   TaskState = "AttemptCreationPending"
	TaskAttemptCreationRequested TaskState = "AttemptCreationRequested"
	TaskAttemptPreparing         TaskState = "AttemptPreparing"
	TaskAttemptRunning           TaskState = "AttemptRunning"
	TaskAttemptDeletionPending   TaskState = "AttemptDeletionPending"
	TaskAttemptDeletionRequested TaskState = "AttemptDeletionRequested"
	TaskAttemptDeleting          TaskState = "AttemptDeleting"
	TaskAttemptCompleted         TaskState = "AttemptCompleted"
	TaskCompleted                TaskState = "Completed"
)
