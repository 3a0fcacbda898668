package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Abraxas-365/hireform/internal/config"
	"github.com/Abraxas-365/hireform/pkg/fsx"
	"github.com/Abraxas-365/hireform/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/hireform/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/hireform/pkg/logx"
	"github.com/Abraxas-365/hireform/recruitment/application"
	"github.com/Abraxas-365/hireform/recruitment/application/applicationapi"
	"github.com/Abraxas-365/hireform/recruitment/application/applicationinfra"
	"github.com/Abraxas-365/hireform/recruitment/application/applicationsrv"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/afero"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config

	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	S3Client   *s3.Client
	FileSystem fsx.FileSystem

	// Adapters
	Repository  application.Repository
	LatestCache application.LatestCache

	// Services
	ApplicationService *applicationsrv.ApplicationService
	SnapshotService    *applicationsrv.SnapshotService

	// API Handlers
	ApplicationHandlers *applicationapi.Handlers
}

// NewContainer initializes the dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	if err := c.initRepository(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initCache(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initFileSystem(ctx); err != nil {
		c.Close()
		return nil, err
	}
	c.initServices()
	return c, nil
}

func (c *Container) initRepository() error {
	switch c.Config.Storage.Driver {
	case config.StoragePostgres:
		pg := c.Config.Storage.Postgres
		db, err := sqlx.Connect("postgres", pg.GetDSN())
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		db.SetMaxOpenConns(pg.MaxConnections)
		db.SetMaxIdleConns(pg.MaxIdle)
		db.SetConnMaxLifetime(5 * time.Minute)
		c.DB = db
		c.Repository = applicationinfra.NewPostgresRepository(db)
		logx.Infof("Using postgres submission store at %s/%s", pg.Host, pg.Database)
	default:
		repo := applicationinfra.NewCSVRepository(afero.NewOsFs(), c.Config.Storage.CSVPath)
		c.Repository = repo
		logx.Infof("Using CSV submission store at %s", repo.Path())
	}
	return nil
}

func (c *Container) initCache(ctx context.Context) error {
	switch c.Config.Cache.Driver {
	case config.CacheRedis:
		rc := c.Config.Cache.Redis
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     rc.Address,
			Password: rc.Password,
			DB:       rc.DB,
		})
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			logx.Warnf("Failed to connect to Redis: %v", err)
		}
		c.LatestCache = applicationinfra.NewRedisLatestCache(c.Redis, rc.Key)
	default:
		c.LatestCache = applicationinfra.NewMemoryLatestCache()
	}
	return nil
}

func (c *Container) initFileSystem(ctx context.Context) error {
	switch c.Config.Snapshot.Driver {
	case config.SnapshotS3:
		s3cfg := c.Config.Snapshot.S3
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(s3cfg.Region))
		if err != nil {
			return fmt.Errorf("unable to load SDK config: %w", err)
		}
		c.S3Client = s3.NewFromConfig(awsCfg)
		c.FileSystem = fsxs3.NewS3FileSystem(c.S3Client, s3cfg.Bucket, s3cfg.Prefix)
	default:
		dir, err := filepath.Abs(c.Config.Snapshot.LocalDir)
		if err != nil {
			return fmt.Errorf("resolve snapshot dir: %w", err)
		}
		c.FileSystem = fsxlocal.NewOSFileSystem(dir)
	}
	return nil
}

func (c *Container) initServices() {
	c.ApplicationService = applicationsrv.NewApplicationService(c.Repository, c.LatestCache)
	c.SnapshotService = applicationsrv.NewSnapshotService(c.Repository, c.FileSystem)
	c.ApplicationHandlers = applicationapi.NewHandlers(c.ApplicationService, c.SnapshotService)
}

// Close releases connections held by the container
func (c *Container) Close() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Warnf("Failed to close database: %v", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Warnf("Failed to close Redis: %v", err)
		}
	}
}
