package applicationsrv

import (
	"bytes"
	"context"
	"time"

	"github.com/Abraxas-365/hireform/pkg/fsx"
	"github.com/Abraxas-365/hireform/pkg/logx"
	"github.com/Abraxas-365/hireform/recruitment/application"
)

const snapshotDir = "snapshots"

// SnapshotService copies the whole store into a file store
type SnapshotService struct {
	repo       application.Repository
	fileSystem fsx.FileSystem
	now        func() time.Time
}

// NewSnapshotService creates a snapshot service writing to fileSystem
func NewSnapshotService(repo application.Repository, fileSystem fsx.FileSystem) *SnapshotService {
	return &SnapshotService{
		repo:       repo,
		fileSystem: fileSystem,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Snapshot writes snapshots/submissions-<timestamp>.csv and returns its path
func (s *SnapshotService) Snapshot(ctx context.Context) (string, error) {
	var buf bytes.Buffer
	if err := s.repo.WriteCSV(ctx, &buf); err != nil {
		return "", application.ErrSnapshotFailed().WithCause(err).WithDetail("stage", "export")
	}

	name := "submissions-" + s.now().Format("20060102T150405.000000000Z") + ".csv"
	path := s.fileSystem.Join(snapshotDir, name)

	if err := s.fileSystem.WriteFileStream(ctx, path, &buf); err != nil {
		return "", application.ErrSnapshotFailed().WithCause(err).WithDetail("path", path)
	}

	logx.Infof("Wrote submissions snapshot to %s", path)
	return path, nil
}
