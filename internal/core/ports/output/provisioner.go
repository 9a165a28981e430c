package ports

import "context"

// NetworkConfig carries the stage-specific VPC wiring for provisioned
// resources. The provisioner declares it on the model resource; it has no
// behavior of its own.
type NetworkConfig struct {
	Subnets          []string
	SecurityGroupIDs []string
}

// VariantConfig is the serving configuration for an endpoint's production
// variant.
type VariantConfig struct {
	VariantName          string
	InstanceType         string
	InitialInstanceCount int
	InitialVariantWeight float64
}

type ModelSpec struct {
	Name            string
	ModelPackageARN string
	ImageURI        string
	Network         NetworkConfig
}

// EndpointConfigSpec references an already-created model resource by name.
type EndpointConfigSpec struct {
	Name      string
	ModelName string
	Variant   VariantConfig
}

// EndpointSpec references an already-created endpoint configuration by name.
type EndpointSpec struct {
	Name               string
	EndpointConfigName string
}

// EndpointProvisioner creates the versioned triple against the serving
// infrastructure. Callers must issue the three creates strictly in order:
// model, then endpoint config, then endpoint. The provisioner performs no
// cleanup; a failed run leaves whatever was created in place.
type EndpointProvisioner interface {
	IsAvailable() bool
	CreateModel(ctx context.Context, spec ModelSpec) error
	CreateEndpointConfig(ctx context.Context, spec EndpointConfigSpec) error
	CreateEndpoint(ctx context.Context, spec EndpointSpec) error
}
