package applicationinfra

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Abraxas-365/hireform/pkg/errx"
	"github.com/Abraxas-365/hireform/pkg/kernel"
	"github.com/Abraxas-365/hireform/recruitment/application"
	"github.com/spf13/afero"
)

// CSVRepository implements application.Repository on a flat CSV file
type CSVRepository struct {
	fs   afero.Fs
	path string
}

// NewCSVRepository creates a repository backed by the file at path on fsys
func NewCSVRepository(fsys afero.Fs, path string) *CSVRepository {
	return &CSVRepository{
		fs:   fsys,
		path: path,
	}
}

// Path returns the location of the submissions file
func (r *CSVRepository) Path() string {
	return r.path
}

// Init creates the file with its header row when it is missing or empty
func (r *CSVRepository) Init(ctx context.Context) error {
	info, err := r.fs.Stat(r.path)
	switch {
	case err == nil && info.Size() > 0:
		return nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return storeError(err, "stat")
	}

	if dir := filepath.Dir(r.path); dir != "." && dir != "" {
		if err := r.fs.MkdirAll(dir, 0o755); err != nil {
			return storeError(err, "mkdir")
		}
	}

	header, err := encodeRow(Header)
	if err != nil {
		return storeError(err, "encode header")
	}

	f, err := r.fs.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return storeError(err, "create")
	}
	if _, err := f.Write(header); err != nil {
		_ = f.Close()
		return storeError(err, "write header")
	}
	if err := f.Close(); err != nil {
		return storeError(err, "close")
	}
	return nil
}

// Append writes one encoded row with a single Write on an O_APPEND handle
func (r *CSVRepository) Append(ctx context.Context, submission *application.Submission) error {
	if err := r.Init(ctx); err != nil {
		return err
	}

	row, err := encodeRow(toRow(submission))
	if err != nil {
		return storeError(err, "encode row").WithDetail("submission_id", submission.SubmissionID.String())
	}

	f, err := r.fs.OpenFile(r.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return storeError(err, "open")
	}
	if _, err := f.Write(row); err != nil {
		_ = f.Close()
		return storeError(err, "append").WithDetail("submission_id", submission.SubmissionID.String())
	}
	if err := f.Close(); err != nil {
		return storeError(err, "close")
	}
	return nil
}

// FindByID scans the file from the top and returns the first matching row
func (r *CSVRepository) FindByID(ctx context.Context, id kernel.SubmissionID) (*application.Submission, error) {
	f, err := r.fs.Open(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, application.ErrStoreNotFound()
		}
		return nil, storeError(err, "open")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, application.ErrSubmissionNotFound().WithDetail("submission_id", id.String())
	}
	if err != nil {
		return nil, storeError(err, "read header")
	}
	rows := newRowReader(header)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, storeError(err, "read row")
		}
		if rows.id(row) == id {
			return rows.toSubmission(row), nil
		}
	}

	return nil, application.ErrSubmissionNotFound().WithDetail("submission_id", id.String())
}

// WriteCSV copies the file verbatim; a missing file yields only the header
func (r *CSVRepository) WriteCSV(ctx context.Context, w io.Writer) error {
	f, err := r.fs.Open(r.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return storeError(err, "open")
		}
		header, err := encodeRow(Header)
		if err != nil {
			return storeError(err, "encode header")
		}
		_, err = w.Write(header)
		return err
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return storeError(err, "copy")
	}
	return nil
}

func encodeRow(fields []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(fields); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func storeError(err error, operation string) *errx.Error {
	return application.ErrStoreUnavailable().
		WithCause(err).
		WithDetail("operation", operation)
}
