package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Logger     LoggerConfig
	Pipeline   PipelineConfig
	Kubernetes KubernetesConfig
	S3         S3Config
	Prometheus PrometheusConfig
	Gateway    GatewayConfig
	Scorer     ScorerConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type LoggerConfig struct {
	Level  string
	Format string
}

type PipelineConfig struct {
	// ModelPackageGroupName scopes promotion events: only approvals for this
	// group trigger the pipeline.
	ModelPackageGroupName string
	StageConfigDir        string
}

type KubernetesConfig struct {
	Enabled        bool
	InCluster      bool
	KubeConfigPath string
	Namespace      string
}

type S3Config struct {
	Enabled   bool
	Region    string
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type PrometheusConfig struct {
	Enabled bool
	URL     string
	Timeout time.Duration
}

type GatewayConfig struct {
	// EndpointURL is resolved once at process start; the gateway stays bound
	// to it for its lifetime.
	EndpointURL string
	Timeout     time.Duration
}

type ScorerConfig struct {
	// ArtifactURI is the fixed storage location of the model blob. Plain
	// paths are read from the local filesystem; s3:// URIs go through the
	// artifact store.
	ArtifactURI string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "model_promotion")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")
	v.SetDefault("MODEL_PACKAGE_GROUP_NAME", "cdk-blog")
	v.SetDefault("STAGE_CONFIG_DIR", "config/stages")
	v.SetDefault("K8S_ENABLED", false)
	v.SetDefault("K8S_IN_CLUSTER", false)
	v.SetDefault("K8S_KUBECONFIG", "")
	v.SetDefault("K8S_NAMESPACE", "model-serving")
	v.SetDefault("S3_ENABLED", false)
	v.SetDefault("S3_REGION", "eu-west-1")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY", "")
	v.SetDefault("S3_SECRET_KEY", "")
	v.SetDefault("PROMETHEUS_ENABLED", false)
	v.SetDefault("PROMETHEUS_URL", "http://localhost:9090")
	v.SetDefault("PROMETHEUS_TIMEOUT", "30s")
	v.SetDefault("ENDPOINT_URL", "")
	v.SetDefault("ENDPOINT_TIMEOUT", "30s")
	v.SetDefault("MODEL_ARTIFACT_URI", "/opt/ml/model/model.json")

	// Env
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: durationOrDefault(v, "DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
		Pipeline: PipelineConfig{
			ModelPackageGroupName: v.GetString("MODEL_PACKAGE_GROUP_NAME"),
			StageConfigDir:        v.GetString("STAGE_CONFIG_DIR"),
		},
		Kubernetes: KubernetesConfig{
			Enabled:        v.GetBool("K8S_ENABLED"),
			InCluster:      v.GetBool("K8S_IN_CLUSTER"),
			KubeConfigPath: v.GetString("K8S_KUBECONFIG"),
			Namespace:      v.GetString("K8S_NAMESPACE"),
		},
		S3: S3Config{
			Enabled:   v.GetBool("S3_ENABLED"),
			Region:    v.GetString("S3_REGION"),
			Bucket:    v.GetString("S3_BUCKET"),
			Endpoint:  v.GetString("S3_ENDPOINT"),
			AccessKey: v.GetString("S3_ACCESS_KEY"),
			SecretKey: v.GetString("S3_SECRET_KEY"),
		},
		Prometheus: PrometheusConfig{
			Enabled: v.GetBool("PROMETHEUS_ENABLED"),
			URL:     v.GetString("PROMETHEUS_URL"),
			Timeout: durationOrDefault(v, "PROMETHEUS_TIMEOUT", 30*time.Second),
		},
		Gateway: GatewayConfig{
			EndpointURL: v.GetString("ENDPOINT_URL"),
			Timeout:     durationOrDefault(v, "ENDPOINT_TIMEOUT", 30*time.Second),
		},
		Scorer: ScorerConfig{
			ArtifactURI: v.GetString("MODEL_ARTIFACT_URI"),
		},
	}

	return cfg, nil
}

func durationOrDefault(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return fallback
	}
	return d
}
