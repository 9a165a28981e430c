package sagemaker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"model-promotion-service/internal/config"
	output "model-promotion-service/internal/core/ports/output"
)

// GVRs for the ACK SageMaker controller CRDs. The provisioner materializes
// the versioned triple as these custom resources; the controller reconciles
// them against the serving infrastructure.
var (
	modelGVR = schema.GroupVersionResource{
		Group:    "sagemaker.services.k8s.aws",
		Version:  "v1alpha1",
		Resource: "models",
	}

	endpointConfigGVR = schema.GroupVersionResource{
		Group:    "sagemaker.services.k8s.aws",
		Version:  "v1alpha1",
		Resource: "endpointconfigs",
	}

	endpointGVR = schema.GroupVersionResource{
		Group:    "sagemaker.services.k8s.aws",
		Version:  "v1alpha1",
		Resource: "endpoints",
	}
)

type provisionerClient struct {
	client    dynamic.Interface
	enabled   bool
	namespace string
}

// NewProvisionerClient creates an EndpointProvisioner backed by ACK SageMaker
// custom resources.
func NewProvisionerClient(cfg *config.KubernetesConfig) (output.EndpointProvisioner, error) {
	if !cfg.Enabled {
		return &provisionerClient{enabled: false}, nil
	}

	var restCfg *rest.Config
	var err error

	if cfg.InCluster {
		restCfg, err = rest.InClusterConfig()
	} else if cfg.KubeConfigPath != "" {
		restCfg, err = clientcmd.BuildConfigFromFlags("", cfg.KubeConfigPath)
	} else {
		// Try default kubeconfig location
		home, _ := os.UserHomeDir()
		kubeconfig := filepath.Join(home, ".kube", "config")
		restCfg, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
	}
	if err != nil {
		return nil, fmt.Errorf("build k8s config: %w", err)
	}

	client, err := dynamic.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("create dynamic client: %w", err)
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "model-serving"
	}

	return &provisionerClient{
		client:    client,
		enabled:   true,
		namespace: namespace,
	}, nil
}

func (c *provisionerClient) IsAvailable() bool {
	return c.enabled
}

func (c *provisionerClient) CreateModel(ctx context.Context, spec output.ModelSpec) error {
	containers := []interface{}{
		map[string]interface{}{
			"modelPackageName": spec.ModelPackageARN,
		},
	}
	if spec.ImageURI != "" {
		containers[0].(map[string]interface{})["image"] = spec.ImageURI
	}

	obj := &unstructured.Unstructured{
		Object: map[string]interface{}{
			"apiVersion": "sagemaker.services.k8s.aws/v1alpha1",
			"kind":       "Model",
			"metadata": map[string]interface{}{
				"name": spec.Name,
			},
			"spec": map[string]interface{}{
				"modelName":  spec.Name,
				"containers": containers,
				"vpcConfig": map[string]interface{}{
					"securityGroupIDs": toInterfaceSlice(spec.Network.SecurityGroupIDs),
					"subnets":          toInterfaceSlice(spec.Network.Subnets),
				},
			},
		},
	}

	_, err := c.client.Resource(modelGVR).
		Namespace(c.namespace).
		Create(ctx, obj, metav1.CreateOptions{})
	if err != nil {
		return fmt.Errorf("create sagemaker model: %w", err)
	}
	return nil
}

func (c *provisionerClient) CreateEndpointConfig(ctx context.Context, spec output.EndpointConfigSpec) error {
	obj := &unstructured.Unstructured{
		Object: map[string]interface{}{
			"apiVersion": "sagemaker.services.k8s.aws/v1alpha1",
			"kind":       "EndpointConfig",
			"metadata": map[string]interface{}{
				"name": spec.Name,
			},
			"spec": map[string]interface{}{
				"endpointConfigName": spec.Name,
				"productionVariants": []interface{}{
					map[string]interface{}{
						"modelName":            spec.ModelName,
						"variantName":          spec.Variant.VariantName,
						"instanceType":         spec.Variant.InstanceType,
						"initialInstanceCount": int64(spec.Variant.InitialInstanceCount),
						"initialVariantWeight": spec.Variant.InitialVariantWeight,
					},
				},
			},
		},
	}

	_, err := c.client.Resource(endpointConfigGVR).
		Namespace(c.namespace).
		Create(ctx, obj, metav1.CreateOptions{})
	if err != nil {
		return fmt.Errorf("create sagemaker endpoint config: %w", err)
	}
	return nil
}

func (c *provisionerClient) CreateEndpoint(ctx context.Context, spec output.EndpointSpec) error {
	obj := &unstructured.Unstructured{
		Object: map[string]interface{}{
			"apiVersion": "sagemaker.services.k8s.aws/v1alpha1",
			"kind":       "Endpoint",
			"metadata": map[string]interface{}{
				"name": spec.Name,
			},
			"spec": map[string]interface{}{
				"endpointName":       spec.Name,
				"endpointConfigName": spec.EndpointConfigName,
			},
		},
	}

	_, err := c.client.Resource(endpointGVR).
		Namespace(c.namespace).
		Create(ctx, obj, metav1.CreateOptions{})
	if apierrors.IsAlreadyExists(err) {
		// The endpoint name is stage-stable: later runs repoint the existing
		// endpoint at the new endpoint config.
		existing, getErr := c.client.Resource(endpointGVR).
			Namespace(c.namespace).
			Get(ctx, spec.Name, metav1.GetOptions{})
		if getErr != nil {
			return fmt.Errorf("get sagemaker endpoint: %w", getErr)
		}
		if setErr := unstructured.SetNestedField(existing.Object, spec.EndpointConfigName, "spec", "endpointConfigName"); setErr != nil {
			return fmt.Errorf("update sagemaker endpoint spec: %w", setErr)
		}
		_, err = c.client.Resource(endpointGVR).
			Namespace(c.namespace).
			Update(ctx, existing, metav1.UpdateOptions{})
	}
	if err != nil {
		return fmt.Errorf("create sagemaker endpoint: %w", err)
	}
	return nil
}

func toInterfaceSlice(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

// Ensure interface compliance
var _ output.EndpointProvisioner = (*provisionerClient)(nil)
