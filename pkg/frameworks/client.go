// Package frameworks is the REST boundary to the orchestrator: CRUD on
// Framework resources plus the per-pod endpoint used for placement lookup.
package frameworks

import (
	"context"
	"encoding/json"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"

	fwkv1 "github.com/opencluster/framework-job-scheduler/pkg/apis/framework/v1"
)

// Client talks to the orchestrator's API server. Errors returned by the
// transport keep their Kubernetes status typing so callers can map them to
// the service error taxonomy.
type Client struct {
	restClient rest.Interface
	kubeClient kubernetes.Interface
	namespace  string
}

// New Constructor. restClient must be configured for the Framework API
// group; kubeClient serves the pod placement lookups.
func New(restClient rest.Interface, kubeClient kubernetes.Interface, namespace string) *Client {
	return &Client{
		restClient: restClient,
		kubeClient: kubeClient,
		namespace:  namespace,
	}
}

// List returns all Frameworks in the namespace.
func (c *Client) List(ctx context.Context) (*fwkv1.FrameworkList, error) {
	raw, err := c.restClient.Get().
		Namespace(c.namespace).
		Resource(fwkv1.FrameworksResource).
		Do(ctx).
		Raw()
	if err != nil {
		return nil, fmt.Errorf("failed to list frameworks: %w", err)
	}
	var list fwkv1.FrameworkList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to decode framework list: %w", err)
	}
	return &list, nil
}

// Get returns a single Framework by its encoded name.
func (c *Client) Get(ctx context.Context, name string) (*fwkv1.Framework, error) {
	raw, err := c.restClient.Get().
		Namespace(c.namespace).
		Resource(fwkv1.FrameworksResource).
		Name(name).
		Do(ctx).
		Raw()
	if err != nil {
		return nil, err
	}
	var framework fwkv1.Framework
	if err := json.Unmarshal(raw, &framework); err != nil {
		return nil, fmt.Errorf("failed to decode framework %s: %w", name, err)
	}
	return &framework, nil
}

// Create submits a compiled Framework.
func (c *Client) Create(ctx context.Context, framework *fwkv1.Framework) error {
	body, err := json.Marshal(framework)
	if err != nil {
		return fmt.Errorf("failed to encode framework %s: %w", framework.Name, err)
	}
	return c.restClient.Post().
		Namespace(c.namespace).
		Resource(fwkv1.FrameworksResource).
		Body(body).
		Do(ctx).
		Error()
}

// PatchExecutionType merge-patches the Framework's execution type, the only
// spec field the orchestrator supports updating.
func (c *Client) PatchExecutionType(ctx context.Context, name string, executionType fwkv1.ExecutionType) error {
	patch := fmt.Sprintf(`{"spec":{"executionType":%q}}`, executionType)
	return c.restClient.Patch(types.MergePatchType).
		Namespace(c.namespace).
		Resource(fwkv1.FrameworksResource).
		Name(name).
		Body([]byte(patch)).
		Do(ctx).
		Error()
}

// GetPod returns a single pod, used for best-effort placement lookup.
func (c *Client) GetPod(ctx context.Context, name string) (*corev1.Pod, error) {
	return c.kubeClient.CoreV1().Pods(c.namespace).Get(ctx, name, metav1.GetOptions{})
}
