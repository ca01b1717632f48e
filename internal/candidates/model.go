package candidates

import "time"

// Candidate is the matching-relevant subset of a candidate record. The full
// record is owned by the back-office CRUD layer; this snapshot is what the
// duplicate matcher and the verification engine read.
type Candidate struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	CNIC           string
	PassportNumber string
	ReferenceText  string
	CreatedAt      time.Time
}
