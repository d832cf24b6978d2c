package registry

import "time"

// Registry owns the pending and approved application sets.
type Registry struct {
	Pending  Collection
	Approved Collection

	now func() time.Time
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{now: time.Now}
}

// WithClock overrides the clock used to stamp SubmittedAt/ApprovedAt.
func (r *Registry) WithClock(now func() time.Time) *Registry {
	if now != nil {
		r.now = now
	}
	return r
}

// IsDuplicate reports whether a submission by userID with the given contact
// details collides with existing records.
//
// Email and phone are checked against approved records only; pending records
// are matched by user id alone. Empty email or phone means "not yet known"
// and is never compared.
func (r *Registry) IsDuplicate(userID int64, email, phone string) bool {
	if _, ok := r.Approved.Find(ByUser(userID)); ok {
		return true
	}
	if _, ok := r.Approved.Find(ByEmail(email)); ok {
		return true
	}
	if _, ok := r.Approved.Find(ByPhone(phone)); ok {
		return true
	}
	_, ok := r.Pending.Find(ByUser(userID))
	return ok
}

// IsApproved reports whether userID has an approved application.
func (r *Registry) IsApproved(userID int64) bool {
	_, ok := r.Approved.Find(ByUser(userID))
	return ok
}

// IsPending reports whether userID has an application awaiting review.
func (r *Registry) IsPending(userID int64) bool {
	_, ok := r.Pending.Find(ByUser(userID))
	return ok
}

// Submit stamps app and appends it to the pending set.
func (r *Registry) Submit(app Application) Application {
	app.SubmittedAt = r.clock()
	app.ApprovedAt = time.Time{}
	r.Pending.Add(app)
	return app
}

// Approve moves app into the approved set and drops the pending record of
// the same user. app is taken as given (typically a review snapshot item),
// not re-read from the pending set. It reports whether a pending record was
// removed.
func (r *Registry) Approve(app Application) (Application, bool) {
	app.ApprovedAt = r.clock()
	r.Approved.Add(app)
	removed := r.Pending.Remove(ByUser(app.UserID))
	return app, removed
}

// Counts returns the sizes of the pending and approved sets.
func (r *Registry) Counts() (pending, approved int) {
	return r.Pending.Len(), r.Approved.Len()
}

func (r *Registry) clock() time.Time {
	if r.now == nil {
		return time.Now()
	}
	return r.now()
}
