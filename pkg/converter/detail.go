package converter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	corev1 "k8s.io/api/core/v1"

	"github.com/opencluster/framework-job-scheduler/defaults"
	"github.com/opencluster/framework-job-scheduler/internal/diagnostics"
	"github.com/opencluster/framework-job-scheduler/internal/names"
	"github.com/opencluster/framework-job-scheduler/internal/state"
	modelsv1 "github.com/opencluster/framework-job-scheduler/models/v1"
	fwkv1 "github.com/opencluster/framework-job-scheduler/pkg/apis/framework/v1"
	"github.com/opencluster/framework-job-scheduler/pkg/compiler"
)

// PodGetter looks up a single pod for placement info.
type PodGetter interface {
	GetPod(ctx context.Context, name string) (*corev1.Pod, error)
}

// Detail builds the job detail view of a Framework, including per-task
// placement looked up through pods. Each lookup is independent and fault
// isolated: a failed lookup nulls out that instance's placement fields and
// never fails the detail compilation.
func (c *Converter) Detail(ctx context.Context, framework *fwkv1.Framework, pods PodGetter) modelsv1.JobDetail {
	detail := modelsv1.JobDetail{
		Name:      names.Decode(framework.Name, framework.Labels),
		JobStatus: c.jobStatusDetail(framework),
	}
	if framework.Status == nil {
		return detail
	}

	taskRoleSpecs := make(map[string]*fwkv1.TaskRoleSpec, len(framework.Spec.TaskRoles))
	for _, taskRole := range framework.Spec.TaskRoles {
		taskRoleSpecs[taskRole.Name] = taskRole
	}

	for _, taskRoleStatus := range framework.Status.AttemptStatus.TaskRoleStatuses {
		roleStatus := modelsv1.TaskRoleStatus{
			Name:         taskRoleStatus.Name,
			TaskStatuses: make([]modelsv1.TaskStatus, len(taskRoleStatus.TaskStatuses)),
		}
		portTable := rolePortTable(taskRoleSpecs[taskRoleStatus.Name])

		// Placement lookups fan out, one independent call per task
		// instance; results are assembled by task index.
		var wg sync.WaitGroup
		for i, taskStatus := range taskRoleStatus.TaskStatuses {
			wg.Add(1)
			go func(i int, taskStatus *fwkv1.TaskStatus) {
				defer wg.Done()
				roleStatus.TaskStatuses[i] = c.taskStatus(ctx, framework, taskRoleStatus.Name, taskStatus, portTable, pods)
			}(i, taskStatus)
		}
		wg.Wait()
		detail.TaskRoles = append(detail.TaskRoles, roleStatus)
	}
	return detail
}

func (c *Converter) jobStatusDetail(framework *fwkv1.Framework) modelsv1.JobStatusDetail {
	exitCode := completionCode(framework)
	status := modelsv1.JobStatusDetail{
		Username:       framework.Labels[defaults.UserNameLabel],
		VirtualCluster: framework.Labels[defaults.VirtualClusterLabel],
		State:          string(state.Translate(frameworkState(framework), exitCode, retryDelaySec(framework))),
		ExecutionType:  string(framework.Spec.ExecutionType),
		RetryDetails:   retryDetails(framework),
		CreatedTime:    timeMillis(&framework.CreationTimestamp),
		AppExitCode:    exitCode,
		AppExitSpec:    c.exitSpecs.Resolve(exitCode),
	}
	if framework.Status == nil {
		return status
	}
	status.SubState = string(framework.Status.State)
	status.Retries = framework.Status.RetryPolicyStatus.TotalRetriedCount
	status.LaunchedTime = timeMillis(framework.Status.AttemptStatus.RunTime)
	status.CompletedTime = timeMillis(framework.Status.CompletionTime)

	completionStatus := framework.Status.AttemptStatus.CompletionStatus
	if completionStatus == nil {
		return status
	}
	status.AppExitType = string(completionStatus.Type.Name)
	if record := diagnostics.Extract(completionStatus.Diagnostics); record != nil {
		status.AppExitDiagnostics = record.DiagnosticsSummary
		status.AppExitMessages = record
	}
	if trigger := completionStatus.Trigger; trigger != nil {
		status.AppExitTriggerTaskRoleName = trigger.TaskRoleName
		triggerIndex := trigger.TaskIndex
		status.AppExitTriggerTaskIndex = &triggerIndex
	}
	return status
}

func (c *Converter) taskStatus(ctx context.Context, framework *fwkv1.Framework, taskRoleName string, taskStatus *fwkv1.TaskStatus, portTable map[string]compiler.PortRange, pods PodGetter) modelsv1.TaskStatus {
	status := modelsv1.TaskStatus{
		TaskIndex:          taskStatus.Index,
		TaskState:          string(taskStatus.State),
		Retries:            taskStatus.RetryPolicyStatus.TotalRetriedCount,
		AccountableRetries: taskStatus.RetryPolicyStatus.AccountableRetriedCount,
		CreatedTime:        timeMillis(&taskStatus.StartTime),
		CompletedTime:      timeMillis(taskStatus.CompletionTime),
	}
	if completionStatus := taskStatus.AttemptStatus.CompletionStatus; completionStatus != nil {
		code := int32(completionStatus.Code)
		status.ContainerExitCode = &code
		status.ContainerExitSpec = c.exitSpecs.Resolve(&code)
		status.ContainerExitDiagnostics = completionStatus.Diagnostics
	}

	podName := taskStatus.AttemptStatus.PodName
	if podName == "" {
		podName = fmt.Sprintf("%s-%s-%d", framework.Name, taskRoleName, taskStatus.Index)
	}
	pod, err := pods.GetPod(ctx, podName)
	if err != nil {
		// Placement stays empty; the rest of the detail is unaffected.
		log.Ctx(ctx).Debug().Err(err).Msgf("Failed to get placement for pod %s", podName)
		return status
	}
	status.ContainerID = string(pod.UID)
	status.ContainerIP = pod.Status.HostIP
	status.ContainerPorts = instancePorts(portTable, taskStatus.Index)
	status.ContainerGpus = containerGpus(pod)
	return status
}

// rolePortTable reads the stored port table back off the role's pod template.
func rolePortTable(taskRole *fwkv1.TaskRoleSpec) map[string]compiler.PortRange {
	if taskRole == nil {
		return nil
	}
	encoded, ok := taskRole.Task.Pod.Annotations[defaults.PortsAnnotation]
	if !ok {
		return nil
	}
	var table map[string]compiler.PortRange
	if err := json.Unmarshal([]byte(encoded), &table); err != nil {
		log.Warn().Err(err).Msgf("Failed to parse port table of task role %s", taskRole.Name)
		return nil
	}
	return table
}

// instancePorts recomputes the concrete ports of one task instance from the
// stored {start, count} table.
func instancePorts(portTable map[string]compiler.PortRange, taskIndex int32) map[string]string {
	if len(portTable) == 0 {
		return nil
	}
	ports := make(map[string]string, len(portTable))
	for name, portRange := range portTable {
		base := portRange.Start + taskIndex*portRange.Count
		concrete := make([]string, 0, portRange.Count)
		for i := int32(0); i < portRange.Count; i++ {
			concrete = append(concrete, strconv.Itoa(int(base+i)))
		}
		ports[name] = strings.Join(concrete, ",")
	}
	return ports
}

// containerGpus reconstructs the GPU assignment bitmask. With hived
// scheduling the pod carries a comma-separated device index list; with the
// default scheduler only a dense count is known, so the low-order bits are
// fabricated.
func containerGpus(pod *corev1.Pod) *int64 {
	if isolation, ok := pod.Annotations[defaults.HivedLeafCellIsolationAnnotation]; ok {
		var mask int64
		for _, index := range strings.Split(isolation, ",") {
			i, err := strconv.Atoi(strings.TrimSpace(index))
			if err != nil {
				log.Warn().Msgf("Malformed leaf cell isolation %q on pod %s", isolation, pod.Name)
				return nil
			}
			mask |= 1 << i
		}
		return &mask
	}
	if len(pod.Spec.Containers) == 0 {
		return nil
	}
	quantity, ok := pod.Spec.Containers[0].Resources.Limits[corev1.ResourceName(defaults.GPUResourceName)]
	if !ok {
		mask := int64(0)
		return &mask
	}
	mask := int64(1)<<quantity.Value() - 1
	return &mask
}
