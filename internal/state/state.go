// Package state translates controller-level Framework states into the small
// closed set of user-facing job states.
package state

import (
	fwkv1 "github.com/opencluster/framework-job-scheduler/pkg/apis/framework/v1"
)

// JobState is a user-facing job state.
type JobState string

const (
	Waiting   JobState = "WAITING"
	Running   JobState = "RUNNING"
	Succeeded JobState = "SUCCEEDED"
	Stopped   JobState = "STOPPED"
	Failed    JobState = "FAILED"
	Unknown   JobState = "UNKNOWN"
)

// Completion codes reserved for user-initiated stops, distinct from errors.
const (
	StoppedByUserExitCode      int32 = -210
	StoppedByUserEarlyExitCode int32 = -220
)

// Translate maps the controller state of a Framework, its exit code and its
// pending retry delay to a user-facing job state. It is total: every input
// combination yields a defined state.
//
// Attempt-level transient states collapse into two coarse phases: Waiting
// while the job is not yet productively consuming resources, Running while
// resources are held or a completed attempt has not yet been scheduled for
// retry. Only the final Completed state differentiates success, user stop
// and failure.
func Translate(frameworkState fwkv1.FrameworkState, exitCode *int32, retryDelaySec *int64) JobState {
	switch frameworkState {
	case fwkv1.FrameworkAttemptCreationPending,
		fwkv1.FrameworkAttemptCreationRequested,
		fwkv1.FrameworkAttemptPreparing:
		return Waiting
	case fwkv1.FrameworkAttemptRunning,
		fwkv1.FrameworkAttemptDeletionPending,
		fwkv1.FrameworkAttemptDeletionRequested,
		fwkv1.FrameworkAttemptDeleting:
		return Running
	case fwkv1.FrameworkAttemptCompleted:
		if retryDelaySec == nil {
			return Running
		}
		return Waiting
	case fwkv1.FrameworkCompleted:
		switch {
		case exitCode != nil && *exitCode == 0:
			return Succeeded
		case exitCode != nil && (*exitCode == StoppedByUserExitCode || *exitCode == StoppedByUserEarlyExitCode):
			return Stopped
		default:
			return Failed
		}
	default:
		return Unknown
	}
}
