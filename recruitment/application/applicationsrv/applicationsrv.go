package applicationsrv

import (
	"context"
	"io"
	"time"

	"github.com/Abraxas-365/hireform/internal/metrics"
	"github.com/Abraxas-365/hireform/pkg/errx"
	"github.com/Abraxas-365/hireform/pkg/kernel"
	"github.com/Abraxas-365/hireform/pkg/logx"
	"github.com/Abraxas-365/hireform/recruitment/application"
)

// ApplicationService provides business operations for form submissions
type ApplicationService struct {
	repo  application.Repository
	cache application.LatestCache

	now   func() time.Time
	newID func() kernel.SubmissionID
}

// NewApplicationService creates a new instance of the application service
func NewApplicationService(repo application.Repository, cache application.LatestCache) *ApplicationService {
	return &ApplicationService{
		repo:  repo,
		cache: cache,
		now:   func() time.Time { return time.Now().UTC() },
		newID: kernel.GenerateSubmissionID,
	}
}

// Submit normalizes raw, persists it and makes it the latest submission.
// A failed append leaves the latest submission untouched. A failed cache
// write is reported as an error even though the row was already appended.
func (s *ApplicationService) Submit(ctx context.Context, raw application.RawInput) (*application.Submission, error) {
	submission := application.NewSubmission(s.newID(), s.now(), application.Normalize(raw))

	start := time.Now()
	err := s.repo.Append(ctx, submission)
	metrics.StoreAppendDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SubmissionFailures.WithLabelValues(metrics.StageStore).Inc()
		logx.Errorf("Failed to store submission %s: %v", submission.SubmissionID, err)
		return nil, errx.Wrap(err, "failed to store submission", errx.TypeInternal)
	}

	if err := s.cache.Set(ctx, submission); err != nil {
		// the row stays in the store, latest keeps its previous value
		metrics.SubmissionFailures.WithLabelValues(metrics.StageCache).Inc()
		logx.Errorf("Failed to cache latest submission %s: %v", submission.SubmissionID, err)
		return nil, errx.Wrap(err, "failed to cache latest submission", errx.TypeInternal)
	}

	metrics.SubmissionsTotal.Inc()
	logx.Infow("Submission stored",
		"submission_id", submission.SubmissionID.String(),
		"position", submission.Position,
	)
	return submission, nil
}

// Latest returns the most recent submission of this process, or nil
func (s *ApplicationService) Latest(ctx context.Context) (*application.Submission, error) {
	submission, err := s.cache.Get(ctx)
	if err != nil {
		return nil, errx.Wrap(err, "failed to read latest submission", errx.TypeInternal)
	}
	return submission, nil
}

// GetSubmission looks a submission up by its identifier
func (s *ApplicationService) GetSubmission(ctx context.Context, id kernel.SubmissionID) (*application.Submission, error) {
	submission, err := s.repo.FindByID(ctx, id)
	switch {
	case err == nil:
		metrics.LookupsTotal.WithLabelValues(metrics.LookupFound).Inc()
		return submission, nil
	case errx.IsType(err, errx.TypeNotFound):
		metrics.LookupsTotal.WithLabelValues(metrics.LookupNotFound).Inc()
		return nil, err
	default:
		metrics.LookupsTotal.WithLabelValues(metrics.LookupError).Inc()
		logx.Errorf("Failed to look up submission %s: %v", id, err)
		return nil, errx.Wrap(err, "failed to look up submission", errx.TypeInternal)
	}
}

// ExportCSV writes every stored submission to w in the flat-file layout
func (s *ApplicationService) ExportCSV(ctx context.Context, w io.Writer) error {
	if err := s.repo.WriteCSV(ctx, w); err != nil {
		return errx.Wrap(err, "failed to export submissions", errx.TypeInternal)
	}
	return nil
}
