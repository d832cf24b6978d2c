// Package registry holds the pending and approved application sets and the
// duplicate-submission policy evaluated across them.
//
// The registry does no locking. Callers run one update at a time (see
// middleware.Serial), so a find-then-act sequence is consistent.
package registry

import "time"

// Application is a user's intake record. Pending and approved records share
// the same shape.
type Application struct {
	UserID    int64
	Name      string
	Email     string
	BirthYear int
	// Phone stays empty until the user shares a contact.
	Phone string

	SubmittedAt time.Time
	ApprovedAt  time.Time
}

// Complete reports whether every user-provided field is filled in.
func (a Application) Complete() bool {
	return a.UserID != 0 && a.Name != "" && a.Email != "" && a.BirthYear != 0 && a.Phone != ""
}

// ByUser matches records submitted by userID.
func ByUser(userID int64) func(Application) bool {
	return func(a Application) bool { return a.UserID == userID }
}

// ByEmail matches records carrying email. An empty email never matches.
func ByEmail(email string) func(Application) bool {
	return func(a Application) bool { return email != "" && a.Email == email }
}

// ByPhone matches records carrying phone. An empty phone never matches.
func ByPhone(phone string) func(Application) bool {
	return func(a Application) bool { return phone != "" && a.Phone == phone }
}
