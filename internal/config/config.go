package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	BodyLimit   int    `mapstructure:"body_limit"` // bytes
	CORSOrigins string `mapstructure:"cors_origins"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// Storage drivers
const (
	StorageCSV      = "csv"
	StoragePostgres = "postgres"
)

type StorageConfig struct {
	Driver   string         `mapstructure:"driver"`
	CSVPath  string         `mapstructure:"csv_path"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"sslmode"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// Cache drivers
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type CacheConfig struct {
	Driver string      `mapstructure:"driver"`
	Redis  RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

// Snapshot drivers
const (
	SnapshotLocal = "local"
	SnapshotS3    = "s3"
)

type SnapshotConfig struct {
	Driver   string   `mapstructure:"driver"`
	LocalDir string   `mapstructure:"local_dir"`
	S3       S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Region string `mapstructure:"region"`
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
