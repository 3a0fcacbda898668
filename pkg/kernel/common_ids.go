package kernel

import (
	"strings"

	"github.com/google/uuid"
)

// SubmissionIDLength is the number of characters kept from a generated UUID
const SubmissionIDLength = 8

type SubmissionID string

func NewSubmissionID(id string) SubmissionID { return SubmissionID(strings.TrimSpace(id)) }
func (s SubmissionID) String() string        { return string(s) }
func (s SubmissionID) IsEmpty() bool         { return string(s) == "" }

// GenerateSubmissionID returns a short opaque identifier taken from the
// head of a random UUID.
func GenerateSubmissionID() SubmissionID {
	return SubmissionID(uuid.NewString()[:SubmissionIDLength])
}
