package converter_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"

	"github.com/opencluster/framework-job-scheduler/defaults"
	"github.com/opencluster/framework-job-scheduler/internal/exitspec"
	"github.com/opencluster/framework-job-scheduler/pkg/apis/framework/v1"
	"github.com/opencluster/framework-job-scheduler/pkg/compiler"
	"github.com/opencluster/framework-job-scheduler/pkg/converter"
)

type fakePodGetter struct {
	pods map[string]*corev1.Pod
}

func (f *fakePodGetter) GetPod(_ context.Context, name string) (*corev1.Pod, error) {
	pod, ok := f.pods[name]
	if !ok {
		return nil, errors.New("pod not found")
	}
	return pod, nil
}

func newConverter(t *testing.T) *converter.Converter {
	t.Helper()
	table, err := exitspec.New([]exitspec.Entry{
		{Code: exitspec.PositiveFallbackCode, Phrase: "UnknownContainerExitCode"},
		{Code: exitspec.NegativeFallbackCode, Phrase: "UnknownPlatformError"},
		{Code: 1, Phrase: "FailedUserProcess", Causer: "USER"},
	})
	require.NoError(t, err)
	return converter.New(table)
}

func runningFramework() *v1.Framework {
	created := metav1.NewTime(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	return &v1.Framework{
		ObjectMeta: metav1.ObjectMeta{
			Name: "mfwgsy3fpzvg6yrr",
			Labels: map[string]string{
				defaults.JobNameLabel:        "alice~job1",
				defaults.UserNameLabel:       "alice",
				defaults.VirtualClusterLabel: "vc1",
			},
			Annotations: map[string]string{
				defaults.TotalGpuNumberAnnotation: "4",
			},
			CreationTimestamp: created,
		},
		Spec: v1.FrameworkSpec{
			ExecutionType: v1.ExecutionStart,
			TaskRoles: []*v1.TaskRoleSpec{
				{Name: "worker", TaskNumber: 2},
				{Name: "ps", TaskNumber: 1},
			},
		},
		Status: &v1.FrameworkStatus{
			State: v1.FrameworkAttemptRunning,
			RetryPolicyStatus: v1.RetryPolicyStatus{
				TotalRetriedCount:       3,
				AccountableRetriedCount: 1,
			},
		},
	}
}

func Test_Summarize(t *testing.T) {
	sut := newConverter(t)

	t.Run("running framework", func(t *testing.T) {
		summary := sut.Summarize(runningFramework())
		assert.Equal(t, "alice~job1", summary.Name)
		assert.Equal(t, "alice", summary.Username)
		assert.Equal(t, "vc1", summary.VirtualCluster)
		assert.Equal(t, "RUNNING", summary.State)
		assert.Equal(t, "AttemptRunning", summary.SubState)
		assert.Equal(t, "Start", summary.ExecutionType)
		assert.Equal(t, int32(3), summary.Retries)
		assert.Equal(t, int32(1), summary.RetryDetails.User)
		assert.Equal(t, int32(2), summary.RetryDetails.Platform)
		assert.Equal(t, int32(0), summary.RetryDetails.Resource)
		assert.Equal(t, int32(4), summary.TotalGpuNumber)
		assert.Equal(t, int32(3), summary.TotalTaskNumber)
		assert.Equal(t, int32(2), summary.TotalTaskRoleNumber)
		assert.Nil(t, summary.AppExitCode)
		assert.NotZero(t, summary.CreatedTime)
		assert.Zero(t, summary.CompletedTime)
	})

	t.Run("framework without status is waiting", func(t *testing.T) {
		framework := runningFramework()
		framework.Status = nil
		summary := sut.Summarize(framework)
		assert.Equal(t, "WAITING", summary.State)
		assert.Empty(t, summary.SubState)
		assert.Zero(t, summary.Retries)
	})

	t.Run("completed framework carries the exit code", func(t *testing.T) {
		framework := runningFramework()
		completed := metav1.NewTime(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
		framework.Status.State = v1.FrameworkCompleted
		framework.Status.CompletionTime = &completed
		framework.Status.AttemptStatus.CompletionStatus = &v1.CompletionStatus{Code: 1}
		summary := sut.Summarize(framework)
		assert.Equal(t, "FAILED", summary.State)
		require.NotNil(t, summary.AppExitCode)
		assert.Equal(t, int32(1), *summary.AppExitCode)
		assert.Equal(t, completed.UnixMilli(), summary.CompletedTime)
	})

	t.Run("malformed gpu annotation degrades to zero", func(t *testing.T) {
		framework := runningFramework()
		framework.Annotations[defaults.TotalGpuNumberAnnotation] = "many"
		summary := sut.Summarize(framework)
		assert.Equal(t, int32(0), summary.TotalGpuNumber)
	})

	t.Run("foreign framework keeps its resource name", func(t *testing.T) {
		framework := runningFramework()
		framework.Labels = nil
		summary := sut.Summarize(framework)
		assert.Equal(t, "mfwgsy3fpzvg6yrr", summary.Name)
	})
}

func completedFramework(t *testing.T) *v1.Framework {
	t.Helper()
	framework := runningFramework()
	portTable, err := json.Marshal(map[string]compiler.PortRange{
		"ssh":  {Start: 20000, Count: 1},
		"http": {Start: 21000, Count: 2},
	})
	require.NoError(t, err)
	framework.Spec.TaskRoles[0].Task.Pod.Annotations = map[string]string{
		defaults.PortsAnnotation: string(portTable),
	}

	launched := metav1.NewTime(time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC))
	completed := metav1.NewTime(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	framework.Status.State = v1.FrameworkCompleted
	framework.Status.CompletionTime = &completed
	framework.Status.AttemptStatus.RunTime = &launched
	framework.Status.AttemptStatus.CompletionStatus = &v1.CompletionStatus{
		Code:        1,
		Type:        v1.CompletionType{Name: v1.CompletionTypeNameFailed},
		Diagnostics: `completion policy matched: {"name":"worker-0","containers":[{"name":"app","code":1,"message":""}]}`,
		Trigger: &v1.CompletionStatusTrigger{
			TaskRoleName: "worker",
			TaskIndex:    1,
		},
	}
	framework.Status.AttemptStatus.TaskRoleStatuses = []*v1.TaskRoleStatus{
		{
			Name: "worker",
			TaskStatuses: []*v1.TaskStatus{
				{
					Index: 0,
					State: v1.TaskCompleted,
					AttemptStatus: v1.TaskAttemptStatus{
						PodName:          "mfwgsy3fpzvg6yrr-worker-0",
						CompletionStatus: &v1.CompletionStatus{Code: 1, Diagnostics: "task failed"},
					},
				},
				{
					Index: 1,
					State: v1.TaskCompleted,
					AttemptStatus: v1.TaskAttemptStatus{
						PodName: "mfwgsy3fpzvg6yrr-worker-1",
					},
				},
			},
		},
	}
	return framework
}

func Test_Detail(t *testing.T) {
	sut := newConverter(t)

	t.Run("job status carries exit classification and trigger", func(t *testing.T) {
		framework := completedFramework(t)
		detail := sut.Detail(context.Background(), framework, &fakePodGetter{})

		assert.Equal(t, "alice~job1", detail.Name)
		assert.Equal(t, "FAILED", detail.JobStatus.State)
		assert.Equal(t, "Failed", detail.JobStatus.AppExitType)
		require.NotNil(t, detail.JobStatus.AppExitCode)
		assert.Equal(t, int32(1), *detail.JobStatus.AppExitCode)
		require.NotNil(t, detail.JobStatus.AppExitSpec)
		assert.Equal(t, "FailedUserProcess", detail.JobStatus.AppExitSpec.Phrase)
		assert.Contains(t, detail.JobStatus.AppExitDiagnostics, "matched:\n")
		require.NotNil(t, detail.JobStatus.AppExitMessages)
		assert.Equal(t, "worker", detail.JobStatus.AppExitTriggerTaskRoleName)
		require.NotNil(t, detail.JobStatus.AppExitTriggerTaskIndex)
		assert.Equal(t, int32(1), *detail.JobStatus.AppExitTriggerTaskIndex)
		assert.NotZero(t, detail.JobStatus.LaunchedTime)
		assert.NotZero(t, detail.JobStatus.CompletedTime)
	})

	t.Run("placement is assembled by task index", func(t *testing.T) {
		framework := completedFramework(t)
		pods := &fakePodGetter{pods: map[string]*corev1.Pod{}}
		for i := 0; i < 2; i++ {
			pods.pods[fmt.Sprintf("mfwgsy3fpzvg6yrr-worker-%d", i)] = &corev1.Pod{
				ObjectMeta: metav1.ObjectMeta{
					Name: fmt.Sprintf("mfwgsy3fpzvg6yrr-worker-%d", i),
					UID:  types.UID(fmt.Sprintf("uid-%d", i)),
				},
				Status: corev1.PodStatus{HostIP: fmt.Sprintf("10.0.0.%d", i+1)},
			}
		}

		detail := sut.Detail(context.Background(), framework, pods)
		require.Len(t, detail.TaskRoles, 1)
		require.Len(t, detail.TaskRoles[0].TaskStatuses, 2)

		first := detail.TaskRoles[0].TaskStatuses[0]
		assert.Equal(t, int32(0), first.TaskIndex)
		assert.Equal(t, "uid-0", first.ContainerID)
		assert.Equal(t, "10.0.0.1", first.ContainerIP)
		assert.Equal(t, "20000", first.ContainerPorts["ssh"])
		assert.Equal(t, "21000,21001", first.ContainerPorts["http"])

		second := detail.TaskRoles[0].TaskStatuses[1]
		assert.Equal(t, int32(1), second.TaskIndex)
		assert.Equal(t, "uid-1", second.ContainerID)
		assert.Equal(t, "10.0.0.2", second.ContainerIP)
		assert.Equal(t, "20001", second.ContainerPorts["ssh"])
		assert.Equal(t, "21002,21003", second.ContainerPorts["http"])
	})

	t.Run("failed pod lookup nulls out only that instance's placement", func(t *testing.T) {
		framework := completedFramework(t)
		pods := &fakePodGetter{pods: map[string]*corev1.Pod{
			"mfwgsy3fpzvg6yrr-worker-1": {
				ObjectMeta: metav1.ObjectMeta{UID: types.UID("uid-1")},
				Status:     corev1.PodStatus{HostIP: "10.0.0.2"},
			},
		}}

		detail := sut.Detail(context.Background(), framework, pods)
		require.Len(t, detail.TaskRoles, 1)

		first := detail.TaskRoles[0].TaskStatuses[0]
		assert.Empty(t, first.ContainerID)
		assert.Empty(t, first.ContainerIP)
		assert.Nil(t, first.ContainerPorts)
		require.NotNil(t, first.ContainerExitCode)
		assert.Equal(t, int32(1), *first.ContainerExitCode)
		require.NotNil(t, first.ContainerExitSpec)
		assert.Equal(t, "FailedUserProcess", first.ContainerExitSpec.Phrase)
		assert.Equal(t, "task failed", first.ContainerExitDiagnostics)

		second := detail.TaskRoles[0].TaskStatuses[1]
		assert.Equal(t, "uid-1", second.ContainerID)
	})

	t.Run("missing pod name falls back to the conventional name", func(t *testing.T) {
		framework := completedFramework(t)
		framework.Status.AttemptStatus.TaskRoleStatuses[0].TaskStatuses[0].AttemptStatus.PodName = ""
		pods := &fakePodGetter{pods: map[string]*corev1.Pod{
			"mfwgsy3fpzvg6yrr-worker-0": {
				ObjectMeta: metav1.ObjectMeta{UID: types.UID("uid-0")},
			},
		}}

		detail := sut.Detail(context.Background(), framework, pods)
		assert.Equal(t, "uid-0", detail.TaskRoles[0].TaskStatuses[0].ContainerID)
	})

	t.Run("framework without status has no task roles", func(t *testing.T) {
		framework := completedFramework(t)
		framework.Status = nil
		detail := sut.Detail(context.Background(), framework, &fakePodGetter{})
		assert.Empty(t, detail.TaskRoles)
		assert.Equal(t, "WAITING", detail.JobStatus.State)
	})
}

func Test_ContainerGpus(t *testing.T) {
	sut := newConverter(t)

	buildFramework := func(pod *corev1.Pod) (*v1.Framework, *fakePodGetter) {
		framework := completedFramework(t)
		framework.Status.AttemptStatus.TaskRoleStatuses[0].TaskStatuses = framework.Status.AttemptStatus.TaskRoleStatuses[0].TaskStatuses[:1]
		pod.Name = "mfwgsy3fpzvg6yrr-worker-0"
		return framework, &fakePodGetter{pods: map[string]*corev1.Pod{pod.Name: pod}}
	}

	t.Run("isolation annotation becomes a device bitmask", func(t *testing.T) {
		framework, pods := buildFramework(&corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{
				Annotations: map[string]string{defaults.HivedLeafCellIsolationAnnotation: "0,2,3"},
			},
		})
		detail := sut.Detail(context.Background(), framework, pods)
		gpus := detail.TaskRoles[0].TaskStatuses[0].ContainerGpus
		require.NotNil(t, gpus)
		assert.Equal(t, int64(0b1101), *gpus)
	})

	t.Run("malformed isolation annotation yields no mask", func(t *testing.T) {
		framework, pods := buildFramework(&corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{
				Annotations: map[string]string{defaults.HivedLeafCellIsolationAnnotation: "0,x"},
			},
		})
		detail := sut.Detail(context.Background(), framework, pods)
		assert.Nil(t, detail.TaskRoles[0].TaskStatuses[0].ContainerGpus)
	})

	t.Run("gpu limit fabricates the low-order bits", func(t *testing.T) {
		framework, pods := buildFramework(&corev1.Pod{
			Spec: corev1.PodSpec{
				Containers: []corev1.Container{{
					Resources: corev1.ResourceRequirements{
						Limits: corev1.ResourceList{
							corev1.ResourceName(defaults.GPUResourceName): *resource.NewQuantity(2, resource.DecimalSI),
						},
					},
				}},
			},
		})
		detail := sut.Detail(context.Background(), framework, pods)
		gpus := detail.TaskRoles[0].TaskStatuses[0].ContainerGpus
		require.NotNil(t, gpus)
		assert.Equal(t, int64(0b11), *gpus)
	})

	t.Run("no gpu limit yields a zero mask", func(t *testing.T) {
		framework, pods := buildFramework(&corev1.Pod{
			Spec: corev1.PodSpec{Containers: []corev1.Container{{}}},
		})
		detail := sut.Detail(context.Background(), framework, pods)
		gpus := detail.TaskRoles[0].TaskStatuses[0].ContainerGpus
		require.NotNil(t, gpus)
		assert.Equal(t, int64(0), *gpus)
	})
}
