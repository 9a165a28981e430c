package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultStage is the fallback entry of the stage registry. A stage without
// its own configuration file serves with dev's configuration.
const DefaultStage = "dev"

// VariantConfig declares the serving parameters of an endpoint's production
// variant for one stage.
type VariantConfig struct {
	VariantName          string  `mapstructure:"variant_name"`
	InstanceType         string  `mapstructure:"instance_type"`
	InitialInstanceCount int     `mapstructure:"initial_instance_count"`
	InitialVariantWeight float64 `mapstructure:"initial_variant_weight"`
}

// StageConfig is the per-stage deployment configuration: network identifiers,
// runtime limits, and the serving variant.
type StageConfig struct {
	Subnets        []string      `mapstructure:"subnets"`
	SecurityGroup  string        `mapstructure:"security_group"`
	TimeoutSeconds int           `mapstructure:"timeout_seconds"`
	MemorySizeMB   int           `mapstructure:"memory_size_mb"`
	Variant        VariantConfig `mapstructure:"variant"`
}

// StageRegistry maps stage names to loaded configurations. It is resolved
// once at startup; lookups never touch the filesystem.
type StageRegistry struct {
	stages map[string]StageConfig
}

func defaultStageConfig() StageConfig {
	return StageConfig{
		TimeoutSeconds: 30,
		MemorySizeMB:   512,
		Variant: VariantConfig{
			VariantName:          "AllTraffic",
			InstanceType:         "ml.m5.2xlarge",
			InitialInstanceCount: 1,
			InitialVariantWeight: 1,
		},
	}
}

// LoadStageRegistry reads {stage}.yaml for every name in stageNames from dir.
// A missing file is not an error: the stage resolves to the default entry.
// The default stage itself falls back to built-in defaults when its file is
// absent, so the registry always has a complete default entry.
func LoadStageRegistry(dir string, stageNames []string) (*StageRegistry, error) {
	reg := &StageRegistry{stages: make(map[string]StageConfig, len(stageNames))}

	for _, name := range stageNames {
		path := filepath.Join(dir, name+".yaml")
		if _, err := os.Stat(path); err != nil {
			continue
		}

		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read stage config %s: %w", path, err)
		}

		cfg := defaultStageConfig()
		if err := v.Unmarshal(&cfg); err != nil {
			return nil, fmt.Errorf("unmarshal stage config %s: %w", path, err)
		}
		reg.stages[name] = cfg
	}

	if _, ok := reg.stages[DefaultStage]; !ok {
		reg.stages[DefaultStage] = defaultStageConfig()
	}

	return reg, nil
}

// ForStage resolves a stage's configuration, falling back to the default
// stage's entry when the stage has none of its own.
func (r *StageRegistry) ForStage(name string) StageConfig {
	if cfg, ok := r.stages[name]; ok {
		return cfg
	}
	return r.stages[DefaultStage]
}
