package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return ts }
}

func app(id int64, email, phone string) Application {
	return Application{UserID: id, Name: "User", Email: email, BirthYear: 1990, Phone: phone}
}

func TestCollectionKeepsInsertionOrder(t *testing.T) {
	var c Collection
	c.Add(app(3, "c@x.io", "3"))
	c.Add(app(1, "a@x.io", "1"))
	c.Add(app(2, "b@x.io", "2"))

	all := c.All()
	require.Len(t, all, 3)
	assert.Equal(t, []int64{3, 1, 2}, []int64{all[0].UserID, all[1].UserID, all[2].UserID})
}

func TestCollectionAllReturnsCopy(t *testing.T) {
	var c Collection
	c.Add(app(1, "a@x.io", "1"))

	all := c.All()
	all[0].Name = "mutated"

	got, ok := c.Find(ByUser(1))
	require.True(t, ok)
	assert.Equal(t, "User", got.Name)
}

func TestCollectionRemove(t *testing.T) {
	var c Collection
	c.Add(app(1, "a@x.io", "1"))
	c.Add(app(2, "b@x.io", "2"))

	assert.False(t, c.Remove(ByUser(42)))
	assert.Equal(t, 2, c.Len())

	assert.True(t, c.Remove(ByUser(1)))
	assert.Equal(t, 1, c.Len())
	_, ok := c.Find(ByUser(1))
	assert.False(t, ok)
}

func TestIsDuplicatePolicy(t *testing.T) {
	r := New().WithClock(fixedClock())
	r.Approved.Add(app(1, "approved@x.io", "+100"))
	r.Pending.Add(app(2, "pending@x.io", "+200"))

	cases := []struct {
		name   string
		userID int64
		email  string
		phone  string
		want   bool
	}{
		{"approved user id", 1, "", "", true},
		{"approved email", 9, "approved@x.io", "", true},
		{"approved phone", 9, "", "+100", true},
		{"pending user id", 2, "", "", true},
		{"pending email is not checked", 9, "pending@x.io", "", false},
		{"pending phone is not checked", 9, "", "+200", false},
		{"fresh user", 9, "new@x.io", "+900", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.IsDuplicate(tc.userID, tc.email, tc.phone))
		})
	}
}

func TestIsDuplicateEmptyPlaceholdersNeverMatch(t *testing.T) {
	r := New()
	// A record with blank contact fields must not turn every trigger-time
	// check into a duplicate.
	r.Approved.Add(Application{UserID: 1})
	assert.False(t, r.IsDuplicate(2, "", ""))
}

func TestIsDuplicateMonotonicUntilRemoval(t *testing.T) {
	r := New()
	r.Submit(app(5, "e@x.io", "+5"))
	require.True(t, r.IsDuplicate(5, "", ""))

	// unrelated mutations keep it true
	r.Submit(app(6, "f@x.io", "+6"))
	r.Approve(app(6, "f@x.io", "+6"))
	assert.True(t, r.IsDuplicate(5, "", ""))

	r.Pending.Remove(ByUser(5))
	assert.False(t, r.IsDuplicate(5, "", ""))
}

func TestApproveMovesExactlyOneRecord(t *testing.T) {
	r := New().WithClock(fixedClock())
	r.Submit(app(1, "a@x.io", "+1"))
	r.Submit(app(2, "b@x.io", "+2"))

	snapshot := r.Pending.All()
	approved, removed := r.Approve(snapshot[0])

	assert.True(t, removed)
	assert.False(t, approved.ApprovedAt.IsZero())
	pending, total := r.Counts()
	assert.Equal(t, 1, pending)
	assert.Equal(t, 1, total)
	assert.True(t, r.IsApproved(1))
	assert.False(t, r.IsPending(1))
	assert.True(t, r.IsPending(2))
}

func TestApproveStaleSnapshotItem(t *testing.T) {
	r := New()
	r.Submit(app(1, "a@x.io", "+1"))
	snapshot := r.Pending.All()
	r.Pending.Remove(ByUser(1))

	_, removed := r.Approve(snapshot[0])
	assert.False(t, removed)
	assert.True(t, r.IsApproved(1))
}

func TestSubmitStampsTime(t *testing.T) {
	r := New().WithClock(fixedClock())
	got := r.Submit(app(1, "a@x.io", "+1"))
	assert.Equal(t, fixedClock()(), got.SubmittedAt)
	assert.True(t, got.ApprovedAt.IsZero())
	assert.True(t, got.Complete())
}
