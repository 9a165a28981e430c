package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStageFile(t *testing.T, dir, name, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(content), 0o644)
	require.NoError(t, err)
}

func TestLoadStageRegistry_Defaults(t *testing.T) {
	reg, err := LoadStageRegistry(t.TempDir(), []string{"dev", "prod"})
	require.NoError(t, err)

	cfg := reg.ForStage("dev")
	assert.Equal(t, "ml.m5.2xlarge", cfg.Variant.InstanceType)
	assert.Equal(t, 1, cfg.Variant.InitialInstanceCount)
	assert.Equal(t, float64(1), cfg.Variant.InitialVariantWeight)
	assert.Equal(t, "AllTraffic", cfg.Variant.VariantName)
}

func TestLoadStageRegistry_StageFile(t *testing.T) {
	dir := t.TempDir()
	writeStageFile(t, dir, "prod", `
subnets:
  - subnet-aaa
  - subnet-bbb
security_group: sg-123
timeout_seconds: 60
memory_size_mb: 1024
variant:
  instance_type: ml.c5.4xlarge
  initial_instance_count: 3
`)

	reg, err := LoadStageRegistry(dir, []string{"dev", "prod"})
	require.NoError(t, err)

	prod := reg.ForStage("prod")
	assert.Equal(t, []string{"subnet-aaa", "subnet-bbb"}, prod.Subnets)
	assert.Equal(t, "sg-123", prod.SecurityGroup)
	assert.Equal(t, "ml.c5.4xlarge", prod.Variant.InstanceType)
	assert.Equal(t, 3, prod.Variant.InitialInstanceCount)
	// Fields absent from the file keep their defaults.
	assert.Equal(t, "AllTraffic", prod.Variant.VariantName)
	assert.Equal(t, float64(1), prod.Variant.InitialVariantWeight)
}

func TestLoadStageRegistry_FallbackToDev(t *testing.T) {
	dir := t.TempDir()
	writeStageFile(t, dir, "dev", `
security_group: sg-dev
variant:
  instance_type: ml.m5.large
`)

	reg, err := LoadStageRegistry(dir, []string{"dev", "prod"})
	require.NoError(t, err)

	// prod has no file of its own; it resolves to dev's configuration.
	prod := reg.ForStage("prod")
	assert.Equal(t, "sg-dev", prod.SecurityGroup)
	assert.Equal(t, "ml.m5.large", prod.Variant.InstanceType)
}

func TestLoadStageRegistry_UnknownStage(t *testing.T) {
	reg, err := LoadStageRegistry(t.TempDir(), []string{"dev"})
	require.NoError(t, err)

	cfg := reg.ForStage("uat")
	assert.Equal(t, "ml.m5.2xlarge", cfg.Variant.InstanceType)
}
