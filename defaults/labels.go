package defaults

const (
	// JobNameLabel carries the original "user~job" identifier on a Framework.
	JobNameLabel = "jobName"
	// UserNameLabel carries the submitting user on a Framework.
	UserNameLabel = "userName"
	// VirtualClusterLabel carries the virtual cluster on a Framework.
	VirtualClusterLabel = "virtualCluster"

	// ConfigAnnotation carries the raw job description text the user
	// submitted, kept verbatim for later retrieval.
	ConfigAnnotation = "config"
	// TotalGpuNumberAnnotation carries the aggregate GPU count requested
	// across all task roles.
	TotalGpuNumberAnnotation = "totalGpuNumber"
	// PortsAnnotation carries the per-role port table as JSON on each task
	// role's pod template, so status queries can recompute per-instance
	// ports without re-deriving randomness.
	PortsAnnotation = "ports"

	// HivedPodSchedulingSpecAnnotation carries the requested GPU topology
	// for the hived scheduler.
	HivedPodSchedulingSpecAnnotation = "hivedscheduler.microsoft.com/pod-scheduling-spec"
	// HivedLeafCellIsolationAnnotation is populated by the hived scheduler
	// with the comma-separated device indices assigned to the pod.
	HivedLeafCellIsolationAnnotation = "hivedscheduler.microsoft.com/pod-leaf-cell-isolation"
	// HivedPodSchedulingEnableResource replaces the plain GPU device count
	// in the container resources when hived scheduling is active.
	HivedPodSchedulingEnableResource = "hivedscheduler.microsoft.com/pod-scheduling-enable"

	// GPUResourceName is the extended resource requesting GPU devices when
	// the default scheduler is used.
	GPUResourceName = "nvidia.com/gpu"
)
