// Package runtimeenv generates the job-wide environment variables injected
// into every task container.
package runtimeenv

import (
	"strconv"

	corev1 "k8s.io/api/core/v1"

	"github.com/opencluster/framework-job-scheduler/models/common"
)

// Generate returns the job-wide runtime environment for a task role.
// Role and index specific identifiers are appended by the compiler from
// orchestrator-populated fields.
func Generate(desc *common.JobDescription, userName string, taskRole common.TaskRoleDescription) []corev1.EnvVar {
	env := []corev1.EnvVar{
		{Name: "JOB_NAME", Value: desc.Name},
		{Name: "USER_NAME", Value: userName},
		{Name: "VIRTUAL_CLUSTER", Value: desc.VirtualCluster},
		{Name: "JOB_RETRY_COUNT", Value: strconv.Itoa(int(desc.RetryCount))},
		{Name: "TASK_ROLE_COUNT", Value: strconv.Itoa(len(desc.TaskRoles))},
		{Name: "TASK_ROLE_LIST", Value: taskRoleList(desc)},
		{Name: "TASK_ROLE_NAME", Value: taskRole.Name},
		{Name: "TASK_ROLE_INSTANCES", Value: strconv.Itoa(int(taskRole.Instances))},
		{Name: "TASK_ROLE_CPU_COUNT", Value: strconv.Itoa(int(taskRole.Resources.CPU))},
		{Name: "TASK_ROLE_MEM_MB", Value: strconv.Itoa(int(taskRole.Resources.MemoryMB))},
		{Name: "TASK_ROLE_GPU_COUNT", Value: strconv.Itoa(int(taskRole.Resources.GPU))},
	}
	return env
}

func taskRoleList(desc *common.JobDescription) string {
	list := ""
	for i, taskRole := range desc.TaskRoles {
		if i > 0 {
			list += ","
		}
		list += taskRole.Name
	}
	return list
}
