package applicationinfra

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Abraxas-365/hireform/pkg/errx"
	"github.com/Abraxas-365/hireform/pkg/kernel"
	"github.com/Abraxas-365/hireform/recruitment/application"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPath = "data/Back_data.csv"

func newTestSubmission(id string) *application.Submission {
	at := time.Date(2026, 10, 19, 9, 30, 15, 123456789, time.UTC)
	return application.NewSubmission(kernel.SubmissionID(id), at, application.Record{
		Name:                 "Ravi Kumar",
		Email:                "ravi@example.com",
		Phone:                "9876543210",
		Age:                  31,
		DOB:                  "1993-04-02",
		Nationality:          "Indian",
		MaritalStatus:        "single",
		Address:              "12, MG Road \"Block A\"",
		City:                 "Pune",
		State:                "MH",
		Pincode:              411001,
		Country:              "India",
		LinkedIn:             "https://linkedin.com/in/ravi",
		Portfolio:            "https://ravi.dev",
		Gender:               "male",
		Position:             "Backend Engineer",
		ExperienceYears:      6,
		AnnualIncome:         18.75,
		HighestQualification: "B.Tech",
		NoticePeriod:         30,
		CurrentCompany:       "Acme",
		Skills:               []string{"go", "postgres"},
	})
}

func readFile(t *testing.T, fsys afero.Fs) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, testPath)
	require.NoError(t, err)
	return string(data)
}

func TestCSVRepository_InitCreatesHeader(t *testing.T) {
	fsys := afero.NewMemMapFs()
	repo := NewCSVRepository(fsys, testPath)
	assert.Equal(t, testPath, repo.Path())

	require.NoError(t, repo.Init(context.Background()))

	assert.Equal(t, strings.Join(Header, ",")+"\n", readFile(t, fsys))
}

func TestCSVRepository_InitIsIdempotent(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()
	repo := NewCSVRepository(fsys, testPath)

	require.NoError(t, repo.Init(ctx))
	require.NoError(t, repo.Append(ctx, newTestSubmission("ab12cd34")))
	before := readFile(t, fsys)

	require.NoError(t, repo.Init(ctx))
	require.NoError(t, repo.Init(ctx))

	after := readFile(t, fsys)
	assert.Equal(t, before, after)
	assert.Equal(t, 1, strings.Count(after, "Submission ID"))
}

func TestCSVRepository_InitRewritesEmptyFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, testPath, nil, 0o644))

	repo := NewCSVRepository(fsys, testPath)
	require.NoError(t, repo.Init(context.Background()))

	assert.True(t, strings.HasPrefix(readFile(t, fsys), "Submission ID,Name,"))
}

func TestCSVRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewCSVRepository(afero.NewMemMapFs(), testPath)
	require.NoError(t, repo.Init(ctx))

	first := newTestSubmission("ab12cd34")
	second := newTestSubmission("ef56ab78")
	second.Name = "Asha"
	second.Skills = []string{}

	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, second))

	got, err := repo.FindByID(ctx, "ab12cd34")
	require.NoError(t, err)
	if diff := cmp.Diff(first, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	got, err = repo.FindByID(ctx, "ef56ab78")
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.Name)
	assert.Equal(t, []string{}, got.Skills)

	raw := application.RawInput{
		"name":    application.String("Line\rBreak"),
		"address": application.String("line1\r\nline2"),
		"city":    application.String("a\r\r\nb\n"),
		"skills":  application.List(application.String("go\r\nrust")),
	}
	multiline := application.NewSubmission("cc11dd22", first.Timestamp, application.Normalize(raw))
	require.NoError(t, repo.Append(ctx, multiline))

	got, err = repo.FindByID(ctx, "cc11dd22")
	require.NoError(t, err)
	if diff := cmp.Diff(multiline, got); diff != "" {
		t.Errorf("multiline round trip mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "line1\nline2", got.Address)
}

func TestCSVRepository_SkillsAreTrimmed(t *testing.T) {
	ctx := context.Background()
	repo := NewCSVRepository(afero.NewMemMapFs(), testPath)

	sub := newTestSubmission("ab12cd34")
	sub.Skills = []string{" go ", "rust"}
	require.NoError(t, repo.Append(ctx, sub))

	got, err := repo.FindByID(ctx, "ab12cd34")
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "rust"}, got.Skills)
}

func TestCSVRepository_AppendWithoutInitWritesHeader(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()
	repo := NewCSVRepository(fsys, testPath)

	require.NoError(t, repo.Append(ctx, newTestSubmission("ab12cd34")))

	lines := strings.Split(strings.TrimSpace(readFile(t, fsys)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(Header, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "ab12cd34,Ravi Kumar,"))
}

func TestCSVRepository_FindByID_MissingFile(t *testing.T) {
	repo := NewCSVRepository(afero.NewMemMapFs(), testPath)

	got, err := repo.FindByID(context.Background(), "ab12cd34")
	assert.Nil(t, got)
	assert.True(t, errx.IsCode(err, application.CodeStoreNotFound))
}

func TestCSVRepository_FindByID_UnknownID(t *testing.T) {
	ctx := context.Background()
	repo := NewCSVRepository(afero.NewMemMapFs(), testPath)
	require.NoError(t, repo.Append(ctx, newTestSubmission("ab12cd34")))

	got, err := repo.FindByID(ctx, "00000000")
	assert.Nil(t, got)
	assert.True(t, errx.IsCode(err, application.CodeSubmissionNotFound))
}

func TestCSVRepository_FindByID_FirstMatchWins(t *testing.T) {
	ctx := context.Background()
	repo := NewCSVRepository(afero.NewMemMapFs(), testPath)

	first := newTestSubmission("ab12cd34")
	dup := newTestSubmission("ab12cd34")
	dup.Name = "Someone Else"
	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, dup))

	got, err := repo.FindByID(ctx, "ab12cd34")
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", got.Name)
}

func TestCSVRepository_ReadsLegacyRows(t *testing.T) {
	row := make([]string, len(Header))
	row[0] = "a1b2c3d4"
	row[1] = "Asha"
	row[4] = "29"
	row[11] = ""
	row[18] = "12.5"
	row[22] = "design, ux"
	row[23] = "2025-01-05T10:00:00.123456"

	content := strings.Join(Header, ",") + "\r\n" + strings.Join(row, ",") + "\r\n"
	content = strings.Replace(content, "design, ux", `"design, ux"`, 1)

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, testPath, []byte(content), 0o644))
	repo := NewCSVRepository(fsys, testPath)

	got, err := repo.FindByID(context.Background(), "a1b2c3d4")
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.Name)
	assert.Equal(t, 29, got.Age)
	assert.Equal(t, 0, got.Pincode)
	assert.Equal(t, 12.5, got.AnnualIncome)
	assert.Equal(t, []string{"design", "ux"}, got.Skills)
	assert.Equal(t, time.Date(2025, 1, 5, 10, 0, 0, 123456000, time.UTC), got.Timestamp)
}

func TestCSVRepository_ReadsReorderedColumns(t *testing.T) {
	content := "Name,Timestamp,Submission ID,Age\nAsha,,zz99yy88,41\n"
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, testPath, []byte(content), 0o644))

	got, err := NewCSVRepository(fsys, testPath).FindByID(context.Background(), "zz99yy88")
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.Name)
	assert.Equal(t, 41, got.Age)
	assert.True(t, got.Timestamp.IsZero())
	assert.Equal(t, []string{}, got.Skills)
}

func TestCSVRepository_WriteCSV(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()
	repo := NewCSVRepository(fsys, testPath)

	var empty bytes.Buffer
	require.NoError(t, repo.WriteCSV(ctx, &empty))
	assert.Equal(t, strings.Join(Header, ",")+"\n", empty.String())

	require.NoError(t, repo.Append(ctx, newTestSubmission("ab12cd34")))

	var buf bytes.Buffer
	require.NoError(t, repo.WriteCSV(ctx, &buf))
	assert.Equal(t, readFile(t, fsys), buf.String())
}

func TestCSVRepository_AppendOnReadOnlyFs(t *testing.T) {
	repo := NewCSVRepository(afero.NewReadOnlyFs(afero.NewMemMapFs()), testPath)

	err := repo.Append(context.Background(), newTestSubmission("ab12cd34"))
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, application.CodeStoreUnavailable))
}
