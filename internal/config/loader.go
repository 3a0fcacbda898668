package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. HIREFORM_STORAGE_DRIVER
const EnvPrefix = "HIREFORM"

// Load reads configs/config.yaml (optional), a .env file (optional) and the
// environment. An explicit path must exist.
func Load(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading base config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideFromEnv(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	for _, path := range []string{".env", "../.env"} {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "hireform")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.body_limit", 1<<20)
	v.SetDefault("server.cors_origins", "*")

	v.SetDefault("storage.driver", StorageCSV)
	v.SetDefault("storage.csv_path", "Back_data.csv")
	v.SetDefault("storage.postgres.host", "")
	v.SetDefault("storage.postgres.port", 5432)
	v.SetDefault("storage.postgres.database", "")
	v.SetDefault("storage.postgres.user", "")
	v.SetDefault("storage.postgres.password", "")
	v.SetDefault("storage.postgres.sslmode", "disable")
	v.SetDefault("storage.postgres.max_connections", 25)
	v.SetDefault("storage.postgres.max_idle", 5)

	v.SetDefault("cache.driver", CacheMemory)
	v.SetDefault("cache.redis.address", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.key", "hireform:submissions:latest")

	v.SetDefault("snapshot.driver", SnapshotLocal)
	v.SetDefault("snapshot.local_dir", "exports")
	v.SetDefault("snapshot.s3.region", "")
	v.SetDefault("snapshot.s3.bucket", "")
	v.SetDefault("snapshot.s3.prefix", "hireform")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// applyDefaults fills values a config file explicitly left empty
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.BodyLimit <= 0 {
		cfg.Server.BodyLimit = 1 << 20
	}
	if cfg.Server.CORSOrigins == "" {
		cfg.Server.CORSOrigins = "*"
	}

	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = StorageCSV
	}
	if cfg.Storage.CSVPath == "" {
		cfg.Storage.CSVPath = "Back_data.csv"
	}
	if cfg.Storage.Postgres.SSLMode == "" {
		cfg.Storage.Postgres.SSLMode = "disable"
	}

	cfg.Cache.Driver = strings.ToLower(strings.TrimSpace(cfg.Cache.Driver))
	if cfg.Cache.Driver == "" {
		cfg.Cache.Driver = CacheMemory
	}

	cfg.Snapshot.Driver = strings.ToLower(strings.TrimSpace(cfg.Snapshot.Driver))
	if cfg.Snapshot.Driver == "" {
		cfg.Snapshot.Driver = SnapshotLocal
	}
	if cfg.Snapshot.LocalDir == "" {
		cfg.Snapshot.LocalDir = "exports"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// overrideFromEnv applies the platform-provided variables that do not carry the prefix
func overrideFromEnv(cfg *Config) {
	if val := os.Getenv("PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.Server.Port = port
		}
	}
	if cfg.Snapshot.S3.Region == "" {
		cfg.Snapshot.S3.Region = os.Getenv("AWS_REGION")
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", cfg.Server.Port)
	}

	switch cfg.Storage.Driver {
	case StorageCSV:
	case StoragePostgres:
		if cfg.Storage.Postgres.Host == "" {
			return fmt.Errorf("storage.postgres.host is required")
		}
		if cfg.Storage.Postgres.Database == "" {
			return fmt.Errorf("storage.postgres.database is required")
		}
		if cfg.Storage.Postgres.User == "" {
			return fmt.Errorf("storage.postgres.user is required")
		}
	default:
		return fmt.Errorf("storage.driver %q is not supported", cfg.Storage.Driver)
	}

	switch cfg.Cache.Driver {
	case CacheMemory:
	case CacheRedis:
		if cfg.Cache.Redis.Address == "" {
			return fmt.Errorf("cache.redis.address is required")
		}
	default:
		return fmt.Errorf("cache.driver %q is not supported", cfg.Cache.Driver)
	}

	switch cfg.Snapshot.Driver {
	case SnapshotLocal:
	case SnapshotS3:
		if cfg.Snapshot.S3.Bucket == "" {
			return fmt.Errorf("snapshot.s3.bucket is required")
		}
	default:
		return fmt.Errorf("snapshot.driver %q is not supported", cfg.Snapshot.Driver)
	}

	return nil
}
