package jobs

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	corev1 "k8s.io/api/core/v1"
	kubeerrors "k8s.io/apimachinery/pkg/api/errors"

	apierrors "github.com/opencluster/framework-job-scheduler/api/errors"
	"github.com/opencluster/framework-job-scheduler/defaults"
	"github.com/opencluster/framework-job-scheduler/internal/auth"
	"github.com/opencluster/framework-job-scheduler/internal/config"
	"github.com/opencluster/framework-job-scheduler/internal/names"
	"github.com/opencluster/framework-job-scheduler/models/common"
	modelsv1 "github.com/opencluster/framework-job-scheduler/models/v1"
	fwkv1 "github.com/opencluster/framework-job-scheduler/pkg/apis/framework/v1"
	"github.com/opencluster/framework-job-scheduler/pkg/compiler"
	"github.com/opencluster/framework-job-scheduler/pkg/converter"
)

// FrameworkClient is the orchestrator boundary the handler drives.
type FrameworkClient interface {
	List(ctx context.Context) (*fwkv1.FrameworkList, error)
	Get(ctx context.Context, name string) (*fwkv1.Framework, error)
	Create(ctx context.Context, framework *fwkv1.Framework) error
	PatchExecutionType(ctx context.Context, name string, executionType fwkv1.ExecutionType) error
	GetPod(ctx context.Context, name string) (*corev1.Pod, error)
}

type JobHandler interface {
	// GetJobs Get summaries of all jobs
	GetJobs(ctx context.Context) ([]modelsv1.JobSummary, error)
	// GetJob Get the detail view of a job
	GetJob(ctx context.Context, jobName string) (*modelsv1.JobDetail, error)
	// GetJobConfig Get the raw configuration text a job was submitted with
	GetJobConfig(ctx context.Context, jobName string) (string, error)
	// CreateJob Compile and submit a job for userName
	CreateJob(ctx context.Context, userName string, rawConfig []byte) (*modelsv1.JobSummary, error)
	// ExecuteJob Start or stop a job
	ExecuteJob(ctx context.Context, jobName string, executionType string) error
	// GetJobSshInfo Get SSH info for a job; structurally unsupported
	GetJobSshInfo(ctx context.Context, jobName string) error
}

type jobHandler struct {
	config     *config.Config
	client     FrameworkClient
	compiler   *compiler.Compiler
	converter  *converter.Converter
	authorizer auth.Authorizer
}

// New Constructor for job handler
func New(cfg *config.Config, client FrameworkClient, jobCompiler *compiler.Compiler, jobConverter *converter.Converter, authorizer auth.Authorizer) JobHandler {
	return &jobHandler{
		config:     cfg,
		client:     client,
		compiler:   jobCompiler,
		converter:  jobConverter,
		authorizer: authorizer,
	}
}

// GetJobs Get summaries of all jobs
func (h *jobHandler) GetJobs(ctx context.Context) ([]modelsv1.JobSummary, error) {
	frameworkList, err := h.client.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list frameworks: %w", err)
	}
	summaries := make([]modelsv1.JobSummary, 0, len(frameworkList.Items))
	for i := range frameworkList.Items {
		summaries = append(summaries, h.converter.Summarize(&frameworkList.Items[i]))
	}
	return summaries, nil
}

// GetJob Get the detail view of a job
func (h *jobHandler) GetJob(ctx context.Context, jobName string) (*modelsv1.JobDetail, error) {
	framework, err := h.getFramework(ctx, jobName)
	if err != nil {
		return nil, err
	}
	detail := h.converter.Detail(ctx, framework, h.client)
	return &detail, nil
}

// GetJobConfig Get the raw configuration text a job was submitted with
func (h *jobHandler) GetJobConfig(ctx context.Context, jobName string) (string, error) {
	framework, err := h.getFramework(ctx, jobName)
	if err != nil {
		return "", err
	}
	rawConfig, ok := framework.Annotations[defaults.ConfigAnnotation]
	if !ok || rawConfig == "" {
		return "", apierrors.NewNoJobConfig(jobName)
	}
	return rawConfig, nil
}

// CreateJob Compile and submit a job for userName
func (h *jobHandler) CreateJob(ctx context.Context, userName string, rawConfig []byte) (*modelsv1.JobSummary, error) {
	desc, err := common.ParseJobDescription(rawConfig)
	if err != nil {
		return nil, apierrors.NewInvalid(err)
	}
	if desc.VirtualCluster == "" {
		desc.VirtualCluster = "default"
	}

	authorized, err := h.authorizer.Authorize(ctx, userName, desc.VirtualCluster)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize user %s: %w", userName, err)
	}
	if !authorized {
		return nil, apierrors.NewForbiddenUser(userName, desc.VirtualCluster)
	}

	framework, err := h.compiler.Compile(desc, userName, string(rawConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to compile job %s: %w", desc.Name, err)
	}
	log.Ctx(ctx).Debug().Msgf("Create framework %s in namespace %s", framework.Name, h.config.Namespace)
	if err := h.client.Create(ctx, framework); err != nil {
		return nil, apierrors.NewFromError(err)
	}
	summary := h.converter.Summarize(framework)
	return &summary, nil
}

// ExecuteJob Start or stop a job
func (h *jobHandler) ExecuteJob(ctx context.Context, jobName string, executionType string) error {
	var execution fwkv1.ExecutionType
	switch executionType {
	case string(fwkv1.ExecutionStart):
		execution = fwkv1.ExecutionStart
	case string(fwkv1.ExecutionStop):
		execution = fwkv1.ExecutionStop
	default:
		return apierrors.NewInvalid(fmt.Errorf("execution type %s is not supported", executionType))
	}
	err := h.client.PatchExecutionType(ctx, names.Encode(jobName), execution)
	if kubeerrors.IsNotFound(err) {
		return apierrors.NewNoJob(jobName)
	}
	if err != nil {
		return apierrors.NewFromError(err)
	}
	return nil
}

// GetJobSshInfo Get SSH info for a job; structurally unsupported
func (h *jobHandler) GetJobSshInfo(_ context.Context, jobName string) error {
	return apierrors.NewNoJobSshInfo(jobName)
}

func (h *jobHandler) getFramework(ctx context.Context, jobName string) (*fwkv1.Framework, error) {
	framework, err := h.client.Get(ctx, names.Encode(jobName))
	if kubeerrors.IsNotFound(err) {
		return nil, apierrors.NewNoJob(jobName)
	}
	if err != nil {
		return nil, apierrors.NewFromError(err)
	}
	return framework, nil
}
