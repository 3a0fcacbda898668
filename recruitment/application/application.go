package application

import (
	"time"

	"github.com/Abraxas-365/hireform/pkg/kernel"
)

// Record is the normalized content of one job-application form.
// Field order is the persistence order.
type Record struct {
	Name                 string   `json:"name"`
	Email                string   `json:"email"`
	Phone                string   `json:"phone"`
	Age                  int      `json:"age"`
	DOB                  string   `json:"dob"`
	Nationality          string   `json:"nationality"`
	MaritalStatus        string   `json:"marital_status"`
	Address              string   `json:"address"`
	City                 string   `json:"city"`
	State                string   `json:"state"`
	Pincode              int      `json:"pincode"`
	Country              string   `json:"country"`
	LinkedIn             string   `json:"linkedin"`
	Portfolio            string   `json:"portfolio"`
	Gender               string   `json:"gender"`
	Position             string   `json:"position"`
	ExperienceYears      int      `json:"experience_years"`
	AnnualIncome         float64  `json:"annual_income"`
	HighestQualification string   `json:"highest_qualification"`
	NoticePeriod         int      `json:"notice_period"`
	CurrentCompany       string   `json:"current_company"`
	Skills               []string `json:"skills"`
}

// Submission is a Record that has been accepted and given an identity
type Submission struct {
	SubmissionID kernel.SubmissionID `json:"submission_id"`
	Timestamp    time.Time           `json:"timestamp"`
	Record
}

// NewSubmission attaches identity to a normalized record
func NewSubmission(id kernel.SubmissionID, at time.Time, record Record) *Submission {
	if record.Skills == nil {
		record.Skills = []string{}
	}
	return &Submission{
		SubmissionID: id,
		Timestamp:    at,
		Record:       record,
	}
}

// Normalize maps a raw form payload onto a Record. Unknown keys are
// ignored and missing keys take their type's default.
func Normalize(raw RawInput) Record {
	return Record{
		Name:                 CoerceString(raw.Get("name")),
		Email:                CoerceString(raw.Get("email")),
		Phone:                CoerceString(raw.Get("phone")),
		Age:                  CoerceInt(raw.Get("age")),
		DOB:                  CoerceString(raw.Get("dob")),
		Nationality:          CoerceString(raw.Get("nationality")),
		MaritalStatus:        CoerceString(raw.Get("marital_status")),
		Address:              CoerceString(raw.Get("address")),
		City:                 CoerceString(raw.Get("city")),
		State:                CoerceString(raw.Get("state")),
		Pincode:              CoerceInt(raw.Get("pincode")),
		Country:              CoerceString(raw.Get("country")),
		LinkedIn:             CoerceString(raw.Get("linkedin")),
		Portfolio:            CoerceString(raw.Get("portfolio")),
		Gender:               CoerceString(raw.Get("gender")),
		Position:             CoerceString(raw.Get("position")),
		ExperienceYears:      CoerceInt(raw.Get("experience_years")),
		AnnualIncome:         CoerceFloat(raw.Get("annual_income")),
		HighestQualification: CoerceString(raw.Get("highest_qualification")),
		NoticePeriod:         CoerceInt(raw.Get("notice_period")),
		CurrentCompany:       CoerceString(raw.Get("current_company")),
		Skills:               CoerceStringList(raw.Get("skills")),
	}
}
