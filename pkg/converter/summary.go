// Package converter builds the user-visible job views from raw Framework
// status objects. Conversion never fails on malformed status input: fields
// degrade to their zero values and the state degrades to UNKNOWN, because
// status data originates outside this service's control.
package converter

import (
	"strconv"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/opencluster/framework-job-scheduler/defaults"
	"github.com/opencluster/framework-job-scheduler/internal/exitspec"
	"github.com/opencluster/framework-job-scheduler/internal/names"
	"github.com/opencluster/framework-job-scheduler/internal/state"
	modelsv1 "github.com/opencluster/framework-job-scheduler/models/v1"
	fwkv1 "github.com/opencluster/framework-job-scheduler/pkg/apis/framework/v1"
)

// Converter builds job views from Framework objects.
type Converter struct {
	exitSpecs *exitspec.Table
}

// New Constructor
func New(exitSpecs *exitspec.Table) *Converter {
	return &Converter{exitSpecs: exitSpecs}
}

// Summarize builds the job summary view of a Framework.
func (c *Converter) Summarize(framework *fwkv1.Framework) modelsv1.JobSummary {
	exitCode := completionCode(framework)
	summary := modelsv1.JobSummary{
		Name:                names.Decode(framework.Name, framework.Labels),
		Username:            framework.Labels[defaults.UserNameLabel],
		VirtualCluster:      framework.Labels[defaults.VirtualClusterLabel],
		State:               string(state.Translate(frameworkState(framework), exitCode, retryDelaySec(framework))),
		ExecutionType:       string(framework.Spec.ExecutionType),
		RetryDetails:        retryDetails(framework),
		CreatedTime:         timeMillis(&framework.CreationTimestamp),
		AppExitCode:         exitCode,
		TotalGpuNumber:      totalGpuNumber(framework),
		TotalTaskRoleNumber: int32(len(framework.Spec.TaskRoles)),
	}
	for _, taskRole := range framework.Spec.TaskRoles {
		summary.TotalTaskNumber += taskRole.TaskNumber
	}
	if framework.Status != nil {
		summary.SubState = string(framework.Status.State)
		summary.Retries = framework.Status.RetryPolicyStatus.TotalRetriedCount
		summary.CompletedTime = timeMillis(framework.Status.CompletionTime)
	}
	return summary
}

func frameworkState(framework *fwkv1.Framework) fwkv1.FrameworkState {
	if framework.Status == nil {
		return fwkv1.FrameworkAttemptCreationPending
	}
	return framework.Status.State
}

func completionCode(framework *fwkv1.Framework) *int32 {
	if framework.Status == nil || framework.Status.AttemptStatus.CompletionStatus == nil {
		return nil
	}
	code := int32(framework.Status.AttemptStatus.CompletionStatus.Code)
	return &code
}

func retryDelaySec(framework *fwkv1.Framework) *int64 {
	if framework.Status == nil {
		return nil
	}
	return framework.Status.RetryPolicyStatus.RetryDelaySec
}

// retryDetails splits the retry count into user-accountable and platform
// buckets. Resource-conflict retries are not tracked here and stay zero.
func retryDetails(framework *fwkv1.Framework) modelsv1.RetryDetails {
	if framework.Status == nil {
		return modelsv1.RetryDetails{}
	}
	retryStatus := framework.Status.RetryPolicyStatus
	return modelsv1.RetryDetails{
		User:     retryStatus.AccountableRetriedCount,
		Platform: retryStatus.TotalRetriedCount - retryStatus.AccountableRetriedCount,
		Resource: 0,
	}
}

func totalGpuNumber(framework *fwkv1.Framework) int32 {
	count, err := strconv.Atoi(framework.Annotations[defaults.TotalGpuNumberAnnotation])
	if err != nil {
		return 0
	}
	return int32(count)
}

func timeMillis(t *metav1.Time) int64 {
	if t == nil || t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
