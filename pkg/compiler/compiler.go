// Package compiler turns a user-declared job description into the Framework
// resource the orchestrator runs.
package compiler

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	"github.com/opencluster/framework-job-scheduler/defaults"
	"github.com/opencluster/framework-job-scheduler/internal/config"
	"github.com/opencluster/framework-job-scheduler/internal/names"
	"github.com/opencluster/framework-job-scheduler/models/common"
	fwkv1 "github.com/opencluster/framework-job-scheduler/pkg/apis/framework/v1"
	"github.com/opencluster/framework-job-scheduler/pkg/runtimeenv"
)

const (
	// Base ports are drawn from [schedulePortStart, schedulePortEnd).
	// The draw is process-wide random with no cross-job coordination, so
	// two jobs can land on overlapping ranges.
	schedulePortStart int32 = 15000
	schedulePortEnd   int32 = 40000

	taskContainerName = "app"

	sshSecretName     = "job-ssh-keys"
	exitSpecConfigMap = "job-exit-spec"

	userLogHostDir = "/var/log/framework-job-scheduler/userlogs"
)

// defaultPorts are reserved for every task role regardless of what the user
// asked for.
var defaultPorts = map[string]int32{"ssh": 1, "http": 1}

// PortRange records a contiguous block of reserved ports for one named port
// of a task role. Instance i uses ports [Start+i*Count, Start+(i+1)*Count).
type PortRange struct {
	Start int32 `json:"start"`
	Count int32 `json:"count"`
}

// Compiler compiles job descriptions into Framework resources.
type Compiler struct {
	config *config.Config
}

// New Constructor
func New(cfg *config.Config) *Compiler {
	return &Compiler{config: cfg}
}

// Compile builds the Framework for a job description. userName and the raw
// submitted text are recorded as labels and annotations so later status
// queries can reconstruct the user view. The output is deterministic given
// the description except for the random port draws.
func (c *Compiler) Compile(desc *common.JobDescription, userName string, rawConfig string) (*fwkv1.Framework, error) {
	jobName := userName + names.UserJobSeparator + desc.Name
	frameworkName := names.Encode(jobName)

	taskRoles := make([]*fwkv1.TaskRoleSpec, 0, len(desc.TaskRoles))
	for _, taskRole := range desc.TaskRoles {
		taskRoleSpec, err := c.compileTaskRole(desc, taskRole, userName, frameworkName)
		if err != nil {
			return nil, fmt.Errorf("failed to compile task role %s: %w", taskRole.Name, err)
		}
		taskRoles = append(taskRoles, taskRoleSpec)
	}

	framework := fwkv1.Framework{
		TypeMeta: metav1.TypeMeta{
			APIVersion: fwkv1.GroupName + "/" + fwkv1.GroupVersion,
			Kind:       "Framework",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: frameworkName,
			Labels: map[string]string{
				defaults.JobNameLabel:        jobName,
				defaults.UserNameLabel:       userName,
				defaults.VirtualClusterLabel: desc.VirtualCluster,
			},
			Annotations: map[string]string{
				defaults.ConfigAnnotation:         rawConfig,
				defaults.TotalGpuNumberAnnotation: strconv.Itoa(int(totalGpuNumber(desc))),
			},
		},
		Spec: fwkv1.FrameworkSpec{
			ExecutionType: fwkv1.ExecutionStart,
			RetryPolicy: fwkv1.RetryPolicySpec{
				// Without gang allocation an attempt can fail on partial
				// admission; fancy retry keeps such transient completions
				// from burning user retries.
				FancyRetryPolicy: !desc.GangAllocationEnabled(),
				MaxRetryCount:    desc.RetryCount,
			},
			TaskRoles: taskRoles,
		},
	}
	return &framework, nil
}

func (c *Compiler) compileTaskRole(desc *common.JobDescription, taskRole common.TaskRoleDescription, userName, frameworkName string) (*fwkv1.TaskRoleSpec, error) {
	options := taskRoleOptions(desc, taskRole)
	ports, err := allocatePorts(taskRole.Resources.Ports, taskRole.Instances)
	if err != nil {
		return nil, err
	}
	portsJSON, err := json.Marshal(ports)
	if err != nil {
		return nil, fmt.Errorf("failed to encode port table: %w", err)
	}

	annotations := map[string]string{
		defaults.PortsAnnotation: string(portsJSON),
	}
	podSpec := corev1.PodSpec{
		RestartPolicy: corev1.RestartPolicyNever,
		Containers:    []corev1.Container{c.compileContainer(desc, taskRole, options, userName)},
		Volumes:       c.compileVolumes(options, frameworkName, taskRole.Name),
	}
	if desc.Hived != nil {
		schedulingSpec, err := hivedSchedulingSpec(desc, taskRole, frameworkName)
		if err != nil {
			return nil, err
		}
		annotations[defaults.HivedPodSchedulingSpecAnnotation] = schedulingSpec
		podSpec.SchedulerName = c.config.HivedSchedulerName
	} else {
		annotations["gangAllocation"] = strconv.FormatBool(desc.GangAllocationEnabled())
	}

	return &fwkv1.TaskRoleSpec{
		Name:                             taskRole.Name,
		TaskNumber:                       taskRole.Instances,
		FrameworkAttemptCompletionPolicy: completionPolicy(taskRole.Completion),
		Task: fwkv1.TaskSpec{
			RetryPolicy: fwkv1.RetryPolicySpec{MaxRetryCount: 0},
			Pod: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: map[string]string{
						defaults.UserNameLabel: userName,
						"taskRoleName":         taskRole.Name,
					},
					Annotations: annotations,
				},
				Spec: podSpec,
			},
		},
	}, nil
}

func (c *Compiler) compileContainer(desc *common.JobDescription, taskRole common.TaskRoleDescription, options common.TaskRoleOptions, userName string) corev1.Container {
	limits := corev1.ResourceList{
		corev1.ResourceCPU:    *resource.NewQuantity(int64(taskRole.Resources.CPU), resource.DecimalSI),
		corev1.ResourceMemory: *resource.NewQuantity(int64(taskRole.Resources.MemoryMB)<<20, resource.BinarySI),
	}
	if desc.Hived != nil {
		// The device count moves into the scheduling spec; the resource
		// request becomes an opaque marker gating hived admission.
		limits[corev1.ResourceName(defaults.HivedPodSchedulingEnableResource)] = *resource.NewQuantity(1, resource.DecimalSI)
	} else if taskRole.Resources.GPU > 0 {
		limits[corev1.ResourceName(defaults.GPUResourceName)] = *resource.NewQuantity(int64(taskRole.Resources.GPU), resource.DecimalSI)
	}

	env := runtimeenv.Generate(desc, userName, taskRole)
	env = append(env,
		annotationEnv("FC_FRAMEWORK_NAME", "FC_FRAMEWORK_NAME"),
		annotationEnv("FC_TASKROLE_NAME", "FC_TASKROLE_NAME"),
		annotationEnv("FC_TASK_INDEX", "FC_TASK_INDEX"),
		// Legacy alias kept for images written against the old launcher.
		annotationEnv("TASK_INDEX", "FC_TASK_INDEX"),
	)
	if desc.Hived != nil {
		env = append(env, annotationEnv("NVIDIA_VISIBLE_DEVICES", defaults.HivedLeafCellIsolationAnnotation))
	}

	mounts := []corev1.VolumeMount{
		{Name: "dshm", MountPath: "/dev/shm"},
		{Name: "job-volume", MountPath: "/usr/local/job"},
		{Name: "host-log", MountPath: "/usr/local/logs"},
		{Name: "ssh-keys", MountPath: "/root/.ssh", ReadOnly: true},
		{Name: "exit-spec", MountPath: "/usr/local/exit-spec", ReadOnly: true},
	}
	if options.EnableInfiniband {
		mounts = append(mounts, corev1.VolumeMount{Name: "infiniband", MountPath: "/dev/infiniband"})
	}

	return corev1.Container{
		Name:      taskContainerName,
		Image:     taskRole.DockerImage,
		Command:   []string{"sh", "-c", taskRole.Entrypoint},
		Resources: corev1.ResourceRequirements{Limits: limits},
		Env:       env,
		SecurityContext: &corev1.SecurityContext{
			Capabilities: &corev1.Capabilities{
				// The per-job runtime shim needs mount, locked memory and
				// raw read access inside the container.
				Add:  []corev1.Capability{"SYS_ADMIN", "IPC_LOCK", "DAC_READ_SEARCH"},
				Drop: []corev1.Capability{"MKNOD"},
			},
		},
		VolumeMounts: mounts,
	}
}

func (c *Compiler) compileVolumes(options common.TaskRoleOptions, frameworkName, taskRoleName string) []corev1.Volume {
	shmMB := c.config.DefaultShmMB
	if options.ShmMB != nil {
		shmMB = *options.ShmMB
	}
	volumes := []corev1.Volume{
		{
			Name: "dshm",
			VolumeSource: corev1.VolumeSource{
				EmptyDir: &corev1.EmptyDirVolumeSource{
					Medium:    corev1.StorageMediumMemory,
					SizeLimit: resource.NewQuantity(int64(shmMB)<<20, resource.BinarySI),
				},
			},
		},
		{
			Name:         "job-volume",
			VolumeSource: corev1.VolumeSource{EmptyDir: &corev1.EmptyDirVolumeSource{}},
		},
		{
			Name: "host-log",
			VolumeSource: corev1.VolumeSource{
				HostPath: &corev1.HostPathVolumeSource{
					Path: fmt.Sprintf("%s/%s/%s", userLogHostDir, frameworkName, taskRoleName),
					Type: ptr.To(corev1.HostPathDirectoryOrCreate),
				},
			},
		},
		{
			Name: "ssh-keys",
			VolumeSource: corev1.VolumeSource{
				Secret: &corev1.SecretVolumeSource{SecretName: sshSecretName},
			},
		},
		{
			Name: "exit-spec",
			VolumeSource: corev1.VolumeSource{
				ConfigMap: &corev1.ConfigMapVolumeSource{
					LocalObjectReference: corev1.LocalObjectReference{Name: exitSpecConfigMap},
				},
			},
		},
	}
	if options.EnableInfiniband {
		volumes = append(volumes, corev1.Volume{
			Name: "infiniband",
			VolumeSource: corev1.VolumeSource{
				HostPath: &corev1.HostPathVolumeSource{Path: "/dev/infiniband"},
			},
		})
	}
	return volumes
}

// taskRoleOptions merges the job-level defaults into the role's options.
func taskRoleOptions(desc *common.JobDescription, taskRole common.TaskRoleDescription) common.TaskRoleOptions {
	options := common.TaskRoleOptions{}
	if taskRole.Options != nil {
		options = *taskRole.Options
	}
	if desc.TaskRoleDefaults != nil {
		// Only fills fields the role left empty.
		_ = mergo.Merge(&options, *desc.TaskRoleDefaults)
	}
	return options
}

// allocatePorts draws a disjoint random base port for every named port of a
// role, reserving a contiguous block of count ports per instance. The table
// is stored as an annotation so status queries can recompute instance ports
// without re-deriving randomness.
func allocatePorts(requested map[string]int32, instances int32) (map[string]PortRange, error) {
	ports := map[string]int32{}
	for name, count := range requested {
		ports[name] = count
	}
	if err := mergo.Merge(&ports, defaultPorts); err != nil {
		return nil, fmt.Errorf("failed to apply default ports: %w", err)
	}

	allocated := make(map[string]PortRange, len(ports))
	for name, count := range ports {
		if count < 1 {
			count = 1
		}
		width := count * instances
		if width > schedulePortEnd-schedulePortStart {
			return nil, fmt.Errorf("port %s needs %d ports, more than the schedulable range", name, width)
		}
		rangeStart := drawDisjointStart(allocated, width, instances)
		allocated[name] = PortRange{Start: rangeStart, Count: count}
	}
	return allocated, nil
}

func drawDisjointStart(allocated map[string]PortRange, width, instances int32) int32 {
	for {
		start := rand.Int31n(schedulePortEnd-schedulePortStart-width+1) + schedulePortStart
		if !overlaps(allocated, start, width, instances) {
			return start
		}
	}
}

func overlaps(allocated map[string]PortRange, start, width, instances int32) bool {
	for _, existing := range allocated {
		existingWidth := existing.Count * instances
		if start < existing.Start+existingWidth && existing.Start < start+width {
			return true
		}
	}
	return false
}

func completionPolicy(completion *common.CompletionDescription) fwkv1.CompletionPolicySpec {
	policy := fwkv1.CompletionPolicySpec{
		MinFailedTaskCount:    1,
		MinSucceededTaskCount: -1,
	}
	if completion == nil {
		return policy
	}
	if completion.MinFailedInstances != nil {
		policy.MinFailedTaskCount = *completion.MinFailedInstances
	}
	if completion.MinSucceededInstances != nil {
		policy.MinSucceededTaskCount = *completion.MinSucceededInstances
	}
	return policy
}

func totalGpuNumber(desc *common.JobDescription) int32 {
	var total int32
	for _, taskRole := range desc.TaskRoles {
		total += taskRole.Resources.GPU * taskRole.Instances
	}
	return total
}

type hivedAffinityGroup struct {
	Name string `yaml:"name"`
}

type hivedPodSchedulingSpecType struct {
	Version        string              `yaml:"version"`
	VirtualCluster string              `yaml:"virtualCluster,omitempty"`
	Priority       int32               `yaml:"priority"`
	PinnedCellID   string              `yaml:"pinnedCellId,omitempty"`
	LeafCellType   string              `yaml:"leafCellType,omitempty"`
	LeafCellNumber int32               `yaml:"leafCellNumber"`
	AffinityGroup  *hivedAffinityGroup `yaml:"affinityGroup"`
}

// hivedSchedulingSpec renders the topology request the hived scheduler reads
// from the pod annotation.
func hivedSchedulingSpec(desc *common.JobDescription, taskRole common.TaskRoleDescription, frameworkName string) (string, error) {
	spec := hivedPodSchedulingSpecType{
		Version:        "v2",
		VirtualCluster: desc.VirtualCluster,
		PinnedCellID:   desc.Hived.PinnedCellID,
		LeafCellType:   desc.Hived.LeafCellType,
		LeafCellNumber: taskRole.Resources.GPU,
	}
	if desc.GangAllocationEnabled() {
		// All pods of the job join one affinity group for all-or-nothing
		// admission.
		spec.AffinityGroup = &hivedAffinityGroup{Name: frameworkName}
	}
	rendered, err := yaml.Marshal(spec)
	if err != nil {
		return "", fmt.Errorf("failed to render hived scheduling spec: %w", err)
	}
	return string(rendered), nil
}

func annotationEnv(name, annotation string) corev1.EnvVar {
	return corev1.EnvVar{
		Name: name,
		ValueFrom: &corev1.EnvVarSource{
			FieldRef: &corev1.ObjectFieldSelector{
				FieldPath: fmt.Sprintf("metadata.annotations['%s']", annotation),
			},
		},
	}
}
