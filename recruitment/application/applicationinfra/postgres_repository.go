package applicationinfra

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"io"
	"time"

	"github.com/Abraxas-365/hireform/pkg/errx"
	"github.com/Abraxas-365/hireform/pkg/kernel"
	"github.com/Abraxas-365/hireform/recruitment/application"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresRepository implements application.Repository using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL submission repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// ============================================================================
// Database Models
// ============================================================================

type submissionModel struct {
	SubmissionID         string         `db:"submission_id"`
	Name                 string         `db:"name"`
	Email                string         `db:"email"`
	Phone                string         `db:"phone"`
	Age                  int            `db:"age"`
	DOB                  string         `db:"dob"`
	Nationality          string         `db:"nationality"`
	MaritalStatus        string         `db:"marital_status"`
	Address              string         `db:"address"`
	City                 string         `db:"city"`
	State                string         `db:"state"`
	Pincode              int            `db:"pincode"`
	Country              string         `db:"country"`
	LinkedIn             string         `db:"linkedin"`
	Portfolio            string         `db:"portfolio"`
	Gender               string         `db:"gender"`
	Position             string         `db:"position"`
	ExperienceYears      int            `db:"experience_years"`
	AnnualIncome         float64        `db:"annual_income"`
	HighestQualification string         `db:"highest_qualification"`
	NoticePeriod         int            `db:"notice_period"`
	CurrentCompany       string         `db:"current_company"`
	Skills               pq.StringArray `db:"skills"`
	SubmittedAt          time.Time      `db:"submitted_at"`
}

// toEntity converts database model to domain entity
func (m *submissionModel) toEntity() *application.Submission {
	skills := []string(m.Skills)
	if skills == nil {
		skills = []string{}
	}

	return application.NewSubmission(kernel.SubmissionID(m.SubmissionID), m.SubmittedAt, application.Record{
		Name:                 m.Name,
		Email:                m.Email,
		Phone:                m.Phone,
		Age:                  m.Age,
		DOB:                  m.DOB,
		Nationality:          m.Nationality,
		MaritalStatus:        m.MaritalStatus,
		Address:              m.Address,
		City:                 m.City,
		State:                m.State,
		Pincode:              m.Pincode,
		Country:              m.Country,
		LinkedIn:             m.LinkedIn,
		Portfolio:            m.Portfolio,
		Gender:               m.Gender,
		Position:             m.Position,
		ExperienceYears:      m.ExperienceYears,
		AnnualIncome:         m.AnnualIncome,
		HighestQualification: m.HighestQualification,
		NoticePeriod:         m.NoticePeriod,
		CurrentCompany:       m.CurrentCompany,
		Skills:               skills,
	})
}

// fromEntity converts domain entity to database model
func fromEntity(s *application.Submission) *submissionModel {
	return &submissionModel{
		SubmissionID:         s.SubmissionID.String(),
		Name:                 s.Name,
		Email:                s.Email,
		Phone:                s.Phone,
		Age:                  s.Age,
		DOB:                  s.DOB,
		Nationality:          s.Nationality,
		MaritalStatus:        s.MaritalStatus,
		Address:              s.Address,
		City:                 s.City,
		State:                s.State,
		Pincode:              s.Pincode,
		Country:              s.Country,
		LinkedIn:             s.LinkedIn,
		Portfolio:            s.Portfolio,
		Gender:               s.Gender,
		Position:             s.Position,
		ExperienceYears:      s.ExperienceYears,
		AnnualIncome:         s.AnnualIncome,
		HighestQualification: s.HighestQualification,
		NoticePeriod:         s.NoticePeriod,
		CurrentCompany:       s.CurrentCompany,
		Skills:               pq.StringArray(s.Skills),
		SubmittedAt:          s.Timestamp,
	}
}

// ============================================================================
// Repository Implementation
// ============================================================================

const createSubmissionsTable = `
	CREATE TABLE IF NOT EXISTS application_submissions (
		seq                   BIGSERIAL,
		submission_id         TEXT PRIMARY KEY,
		name                  TEXT NOT NULL DEFAULT '',
		email                 TEXT NOT NULL DEFAULT '',
		phone                 TEXT NOT NULL DEFAULT '',
		age                   BIGINT NOT NULL DEFAULT 0,
		dob                   TEXT NOT NULL DEFAULT '',
		nationality           TEXT NOT NULL DEFAULT '',
		marital_status        TEXT NOT NULL DEFAULT '',
		address               TEXT NOT NULL DEFAULT '',
		city                  TEXT NOT NULL DEFAULT '',
		state                 TEXT NOT NULL DEFAULT '',
		pincode               BIGINT NOT NULL DEFAULT 0,
		country               TEXT NOT NULL DEFAULT '',
		linkedin              TEXT NOT NULL DEFAULT '',
		portfolio             TEXT NOT NULL DEFAULT '',
		gender                TEXT NOT NULL DEFAULT '',
		position              TEXT NOT NULL DEFAULT '',
		experience_years      BIGINT NOT NULL DEFAULT 0,
		annual_income         DOUBLE PRECISION NOT NULL DEFAULT 0,
		highest_qualification TEXT NOT NULL DEFAULT '',
		notice_period         BIGINT NOT NULL DEFAULT 0,
		current_company       TEXT NOT NULL DEFAULT '',
		skills                TEXT[] NOT NULL DEFAULT '{}',
		submitted_at          TIMESTAMPTZ NOT NULL
	)`

const submissionColumns = `
	submission_id, name, email, phone, age, dob, nationality, marital_status,
	address, city, state, pincode, country, linkedin, portfolio,
	gender, position, experience_years, annual_income,
	highest_qualification, notice_period, current_company, skills,
	submitted_at`

// Init creates the submissions table if it does not exist
func (r *PostgresRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSubmissionsTable); err != nil {
		return pgError(err, "create table")
	}
	return nil
}

// Append inserts one submission
func (r *PostgresRepository) Append(ctx context.Context, submission *application.Submission) error {
	query := `
		INSERT INTO application_submissions (` + submissionColumns + `
		) VALUES (
			:submission_id, :name, :email, :phone, :age, :dob, :nationality, :marital_status,
			:address, :city, :state, :pincode, :country, :linkedin, :portfolio,
			:gender, :position, :experience_years, :annual_income,
			:highest_qualification, :notice_period, :current_company, :skills,
			:submitted_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, fromEntity(submission)); err != nil {
		return pgError(err, "insert").WithDetail("submission_id", submission.SubmissionID.String())
	}
	return nil
}

// FindByID retrieves the earliest submission stored under id
func (r *PostgresRepository) FindByID(ctx context.Context, id kernel.SubmissionID) (*application.Submission, error) {
	query := `SELECT ` + submissionColumns + `
		FROM application_submissions
		WHERE submission_id = $1
		ORDER BY seq
		LIMIT 1`

	var model submissionModel
	if err := r.db.GetContext(ctx, &model, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, application.ErrSubmissionNotFound().WithDetail("submission_id", id.String())
		}
		return nil, pgError(err, "select").WithDetail("submission_id", id.String())
	}

	return model.toEntity(), nil
}

// WriteCSV streams every row in insertion order using the flat-file layout
func (r *PostgresRepository) WriteCSV(ctx context.Context, w io.Writer) error {
	query := `SELECT ` + submissionColumns + `
		FROM application_submissions
		ORDER BY seq`

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return pgError(err, "select all")
	}
	defer rows.Close()

	out := csv.NewWriter(w)
	if err := out.Write(Header); err != nil {
		return err
	}

	for rows.Next() {
		var model submissionModel
		if err := rows.StructScan(&model); err != nil {
			return pgError(err, "scan")
		}
		if err := out.Write(toRow(model.toEntity())); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return pgError(err, "iterate")
	}

	out.Flush()
	return out.Error()
}

func pgError(err error, operation string) *errx.Error {
	return application.ErrStoreUnavailable().
		WithCause(err).
		WithDetail("operation", operation).
		WithDetail("driver", "postgres")
}
