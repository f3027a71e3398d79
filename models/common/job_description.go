package common

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// JobDescription holds a user-declared job: an ordered set of task roles
// plus job-level retry policy and scheduling extras. It is immutable once
// compiled; the raw text the user submitted is kept verbatim as an
// annotation on the compiled workload for later retrieval.
// swagger:model JobDescription
type JobDescription struct {
	// Name of the job, unique per user
	//
	// required: true
	// example: mnist-distributed
	Name string `json:"name" yaml:"name"`

	// VirtualCluster the job is submitted to
	//
	// required: false
	// example: default
	VirtualCluster string `json:"virtualCluster,omitempty" yaml:"virtualCluster,omitempty"`

	// RetryCount defines how many times the whole job is retried after a
	// failed attempt
	//
	// required: false
	RetryCount int32 `json:"retryCount,omitempty" yaml:"retryCount,omitempty"`

	// GangAllocation requires all-or-nothing admission of every task role.
	// Defaults to true.
	//
	// required: false
	GangAllocation *bool `json:"gangAllocation,omitempty" yaml:"gangAllocation,omitempty"`

	// TaskRoles of the job, in submission order
	//
	// required: true
	TaskRoles []TaskRoleDescription `json:"taskRoles" yaml:"taskRoles"`

	// TaskRoleDefaults is merged into every task role's options
	//
	// required: false
	TaskRoleDefaults *TaskRoleOptions `json:"taskRoleDefaults,omitempty" yaml:"taskRoleDefaults,omitempty"`

	// Hived requests the GPU-isolation scheduling mode with the given
	// topology. When nil the job uses the default scheduler.
	//
	// required: false
	Hived *HivedDescription `json:"hived,omitempty" yaml:"hived,omitempty"`
}

// TaskRoleDescription holds a named group of identical task instances.
type TaskRoleDescription struct {
	// Name of the task role
	//
	// required: true
	// example: worker
	Name string `json:"name" yaml:"name"`

	// Instances is the number of identical task instances
	//
	// required: true
	Instances int32 `json:"instances" yaml:"instances"`

	// Resources per task instance
	//
	// required: true
	Resources ResourceDescription `json:"resources" yaml:"resources"`

	// DockerImage reference for the task containers
	//
	// required: true
	DockerImage string `json:"dockerImage" yaml:"dockerImage"`

	// Entrypoint command executed in the task containers
	//
	// required: true
	Entrypoint string `json:"entrypoint" yaml:"entrypoint"`

	// Completion thresholds terminating the role's attempt
	//
	// required: false
	Completion *CompletionDescription `json:"completion,omitempty" yaml:"completion,omitempty"`

	// Options holds extra container options
	//
	// required: false
	Options *TaskRoleOptions `json:"options,omitempty" yaml:"options,omitempty"`
}

// ResourceDescription holds per-instance compute resources.
type ResourceDescription struct {
	// CPU cores
	CPU int32 `json:"cpu" yaml:"cpu"`

	// MemoryMB of memory
	MemoryMB int32 `json:"memoryMB" yaml:"memoryMB"`

	// GPU devices
	GPU int32 `json:"gpu" yaml:"gpu"`

	// Ports maps a port name to the number of contiguous ports reserved per
	// instance. The ssh and http ports are always present.
	Ports map[string]int32 `json:"ports,omitempty" yaml:"ports,omitempty"`
}

// CompletionDescription holds per-role attempt completion thresholds.
// A nil threshold keeps the compiler default.
type CompletionDescription struct {
	// MinFailedInstances failing the role's attempt. Default 1.
	MinFailedInstances *int32 `json:"minFailedInstances,omitempty" yaml:"minFailedInstances,omitempty"`

	// MinSucceededInstances completing the role's attempt. Default -1 (never).
	MinSucceededInstances *int32 `json:"minSucceededInstances,omitempty" yaml:"minSucceededInstances,omitempty"`
}

// TaskRoleOptions holds extra container options for a task role.
type TaskRoleOptions struct {
	// ShmMB overrides the default shared-memory volume size
	ShmMB *int32 `json:"shmMB,omitempty" yaml:"shmMB,omitempty"`

	// EnableInfiniband mounts the host InfiniBand devices into the container
	EnableInfiniband bool `json:"enableInfiniband,omitempty" yaml:"enableInfiniband,omitempty"`
}

// HivedDescription requests GPU-isolation scheduling for the job.
type HivedDescription struct {
	// LeafCellType restricts the job to one GPU model
	//
	// required: false
	LeafCellType string `json:"leafCellType,omitempty" yaml:"leafCellType,omitempty"`

	// PinnedCellID pins the job to a reserved cell
	//
	// required: false
	PinnedCellID string `json:"pinnedCellId,omitempty" yaml:"pinnedCellId,omitempty"`
}

// ParseJobDescription parses the raw YAML or JSON text of a job description
// and validates it.
func ParseJobDescription(raw []byte) (*JobDescription, error) {
	var desc JobDescription
	if err := yaml.Unmarshal(raw, &desc); err != nil {
		return nil, fmt.Errorf("failed to parse job description: %w", err)
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return &desc, nil
}

// Validate checks the structural invariants of the job description.
func (desc *JobDescription) Validate() error {
	if desc.Name == "" {
		return fmt.Errorf("job name is required")
	}
	if len(desc.TaskRoles) == 0 {
		return fmt.Errorf("job %s has no task roles", desc.Name)
	}
	seen := make(map[string]bool, len(desc.TaskRoles))
	for _, taskRole := range desc.TaskRoles {
		if taskRole.Name == "" {
			return fmt.Errorf("job %s has a task role without a name", desc.Name)
		}
		if seen[taskRole.Name] {
			return fmt.Errorf("job %s has duplicate task role %s", desc.Name, taskRole.Name)
		}
		seen[taskRole.Name] = true
		if taskRole.Instances < 1 {
			return fmt.Errorf("task role %s must have at least one instance", taskRole.Name)
		}
		if taskRole.DockerImage == "" {
			return fmt.Errorf("task role %s has no docker image", taskRole.Name)
		}
		if taskRole.Entrypoint == "" {
			return fmt.Errorf("task role %s has no entrypoint", taskRole.Name)
		}
	}
	return nil
}

// GangAllocationEnabled reports the gang-scheduling toggle, defaulting to
// all-or-nothing admission when unset.
func (desc *JobDescription) GangAllocationEnabled() bool {
	return desc.GangAllocation == nil || *desc.GangAllocation
}
