package applicationinfra

import (
	"strconv"
	"strings"
	"time"

	"github.com/Abraxas-365/hireform/pkg/kernel"
	"github.com/Abraxas-365/hireform/recruitment/application"
)

// Column names of the durable file, in persistence order
const (
	colSubmissionID         = "Submission ID"
	colName                 = "Name"
	colEmail                = "Email"
	colPhone                = "Phone"
	colAge                  = "Age"
	colDOB                  = "DOB"
	colNationality          = "Nationality"
	colMaritalStatus        = "Marital Status"
	colAddress              = "Address"
	colCity                 = "City"
	colState                = "State"
	colPincode              = "Pincode"
	colCountry              = "Country"
	colLinkedIn             = "LinkedIn"
	colPortfolio            = "Portfolio"
	colGender               = "Gender"
	colPosition             = "Position"
	colExperienceYears      = "Experience Years"
	colAnnualIncome         = "Annual Income"
	colHighestQualification = "Highest Qualification"
	colNoticePeriod         = "Notice Period"
	colCurrentCompany       = "Current Company"
	colSkills               = "Skills"
	colTimestamp            = "Timestamp"
)

// Header is the first row of every submissions file
var Header = []string{
	colSubmissionID,
	colName, colEmail, colPhone, colAge, colDOB, colNationality, colMaritalStatus,
	colAddress, colCity, colState, colPincode, colCountry, colLinkedIn, colPortfolio,
	colGender, colPosition, colExperienceYears, colAnnualIncome,
	colHighestQualification, colNoticePeriod, colCurrentCompany, colSkills,
	colTimestamp,
}

const skillsSeparator = ", "

// timestampLayouts are tried in order when reading rows back. The naive
// layout covers files written without a zone offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// toRow serializes a submission in Header order
func toRow(s *application.Submission) []string {
	return []string{
		s.SubmissionID.String(),
		s.Name,
		s.Email,
		s.Phone,
		strconv.Itoa(s.Age),
		s.DOB,
		s.Nationality,
		s.MaritalStatus,
		s.Address,
		s.City,
		s.State,
		strconv.Itoa(s.Pincode),
		s.Country,
		s.LinkedIn,
		s.Portfolio,
		s.Gender,
		s.Position,
		strconv.Itoa(s.ExperienceYears),
		strconv.FormatFloat(s.AnnualIncome, 'f', -1, 64),
		s.HighestQualification,
		strconv.Itoa(s.NoticePeriod),
		s.CurrentCompany,
		joinSkills(s.Skills),
		formatTimestamp(s.Timestamp),
	}
}

// rowReader resolves cells by header name so column order in the file
// does not matter.
type rowReader struct {
	index map[string]int
}

func newRowReader(header []string) *rowReader {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	return &rowReader{index: index}
}

func (r *rowReader) cell(row []string, column string) string {
	i, ok := r.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func (r *rowReader) id(row []string) kernel.SubmissionID {
	return kernel.SubmissionID(r.cell(row, colSubmissionID))
}

// toSubmission parses a stored row, reversing the write-side formatting
func (r *rowReader) toSubmission(row []string) *application.Submission {
	intCell := func(column string) int {
		return application.CoerceInt(application.String(r.cell(row, column)))
	}

	record := application.Record{
		Name:                 r.cell(row, colName),
		Email:                r.cell(row, colEmail),
		Phone:                r.cell(row, colPhone),
		Age:                  intCell(colAge),
		DOB:                  r.cell(row, colDOB),
		Nationality:          r.cell(row, colNationality),
		MaritalStatus:        r.cell(row, colMaritalStatus),
		Address:              r.cell(row, colAddress),
		City:                 r.cell(row, colCity),
		State:                r.cell(row, colState),
		Pincode:              intCell(colPincode),
		Country:              r.cell(row, colCountry),
		LinkedIn:             r.cell(row, colLinkedIn),
		Portfolio:            r.cell(row, colPortfolio),
		Gender:               r.cell(row, colGender),
		Position:             r.cell(row, colPosition),
		ExperienceYears:      intCell(colExperienceYears),
		AnnualIncome:         application.CoerceFloat(application.String(r.cell(row, colAnnualIncome))),
		HighestQualification: r.cell(row, colHighestQualification),
		NoticePeriod:         intCell(colNoticePeriod),
		CurrentCompany:       r.cell(row, colCurrentCompany),
		Skills:               splitSkills(r.cell(row, colSkills)),
	}

	return application.NewSubmission(r.id(row), parseTimestamp(r.cell(row, colTimestamp)), record)
}

func joinSkills(skills []string) string {
	return strings.Join(skills, skillsSeparator)
}

func splitSkills(cell string) []string {
	if cell == "" {
		return []string{}
	}
	parts := strings.Split(cell, skillsSeparator)
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		skills = append(skills, strings.TrimSpace(p))
	}
	return skills
}

func formatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTimestamp(cell string) time.Time {
	cell = strings.TrimSpace(cell)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t
		}
	}
	return time.Time{}
}
