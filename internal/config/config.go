package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/actuallystonmai/recommendation-lambda/internal/domain"
	"github.com/actuallystonmai/recommendation-lambda/internal/embeddings"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	EndpointName        string        `mapstructure:"sagemaker_endpoint_name"`
	EmbeddingsS3Path    string        `mapstructure:"embeddings_s3_path"`
	EmbeddingsLocalPath string        `mapstructure:"embeddings_local_path"`
	EmbeddingsFormat    string        `mapstructure:"embeddings_format"`
	ResponseShape       string        `mapstructure:"response_shape"`
	AWSRegion           string        `mapstructure:"aws_region"`
	S3Endpoint          string        `mapstructure:"s3_endpoint"`
	LogLevel            string        `mapstructure:"log_level"`
	Port                int           `mapstructure:"port"`
	RedisURL            string        `mapstructure:"redis_url"`
	CacheTTL            time.Duration `mapstructure:"cache_ttl"`
	DatabaseURL         string        `mapstructure:"database_url"`
	DBPoolSize          int           `mapstructure:"db_pool_size"`
}

// Load configuration from env. A missing EMBEDDINGS_S3_PATH is not an error
// here; the initializer treats it as fatal.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("embeddings_local_path", filepath.Join(os.TempDir(), "embeddings.pickle"))
	v.SetDefault("response_shape", string(domain.ShapeItemList))
	v.SetDefault("log_level", "debug")
	v.SetDefault("port", 8080)
	v.SetDefault("cache_ttl", 10*time.Minute)
	v.SetDefault("db_pool_size", 5)
	bindEnvVars(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config from environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("sagemaker_endpoint_name", "SAGEMAKER_ENDPOINT_NAME")
	v.BindEnv("embeddings_s3_path", "EMBEDDINGS_S3_PATH")
	v.BindEnv("embeddings_local_path", "EMBEDDINGS_LOCAL_PATH")
	v.BindEnv("embeddings_format", "EMBEDDINGS_FORMAT")
	v.BindEnv("response_shape", "RESPONSE_SHAPE")
	v.BindEnv("aws_region", "AWS_REGION")
	v.BindEnv("s3_endpoint", "S3_ENDPOINT")
	v.BindEnv("log_level", "LOG_LEVEL")
	v.BindEnv("port", "PORT")
	v.BindEnv("redis_url", "REDIS_URL")
	v.BindEnv("cache_ttl", "CACHE_TTL")
	v.BindEnv("database_url", "DATABASE_URL")
	v.BindEnv("db_pool_size", "DB_POOL_SIZE")
}

func (c *Config) validate() error {
	if _, err := c.Shape(); err != nil {
		return err
	}
	if _, err := c.Format(); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return nil
}

func (c *Config) Shape() (domain.ResponseShape, error) {
	return domain.ParseResponseShape(c.ResponseShape)
}

func (c *Config) Format() (embeddings.Format, error) {
	return embeddings.ParseFormat(c.EmbeddingsFormat)
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
