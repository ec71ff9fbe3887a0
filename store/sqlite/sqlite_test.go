/*
sqlite_test.go - Tests for the SQLite repository

Tests for:
- Round trips of every collection through the schema
- Case-insensitive email lookup and uniqueness
- Not-found errors on get and delete
- Settings defaults and Reset
- Corrupt timestamps surfacing as errors
*/
package sqlite

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/warp/leavetrack/leave"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:", leave.Settings{Country: "UK", DefaultAnnualLeaveQuota: 25})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_UserRoundTrip(t *testing.T) {
	// GIVEN: A user with projects and a password
	store := newTestStore(t)
	ctx := context.Background()

	user := leave.User{
		ID:               "u1",
		FirstName:        "Maria",
		LastName:         "Garcia",
		Email:            "maria@example.com",
		Role:             leave.RoleAdmin,
		JobDescription:   "HR Manager",
		AnnualLeaveQuota: 25,
		ProjectIDs:       []string{"p1", "p2"},
		Notes:            "Handles payroll",
		PasswordHash:     "$2a$10$hash",
	}

	// WHEN: Saved and read back
	if err := store.SaveUser(ctx, user); err != nil {
		t.Fatalf("Failed to save user: %v", err)
	}
	got, err := store.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}

	// THEN: Every field survives
	if got.Email != user.Email || got.Role != user.Role || got.AnnualLeaveQuota != 25 {
		t.Errorf("Unexpected user: %+v", got)
	}
	if len(got.ProjectIDs) != 2 || got.ProjectIDs[1] != "p2" {
		t.Errorf("Expected project IDs [p1 p2], got %v", got.ProjectIDs)
	}
	if got.PasswordHash != user.PasswordHash {
		t.Errorf("Expected password hash to round trip, got %q", got.PasswordHash)
	}

	// Upsert replaces fields
	user.LastName = "Lopez"
	user.ProjectIDs = nil
	if err := store.SaveUser(ctx, user); err != nil {
		t.Fatalf("Failed to update user: %v", err)
	}
	got, _ = store.GetUser(ctx, "u1")
	if got.LastName != "Lopez" || got.ProjectIDs != nil {
		t.Errorf("Expected updated user, got %+v", got)
	}
}

func TestStore_EmailIsCaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveUser(ctx, leave.User{ID: "u1", FirstName: "A", LastName: "B", Email: "Maria@Example.com", Role: leave.RoleMember}); err != nil {
		t.Fatalf("Failed to save user: %v", err)
	}

	got, err := store.GetUserByEmail(ctx, "maria@example.COM")
	if err != nil {
		t.Fatalf("Expected lookup to match, got %v", err)
	}
	if got.ID != "u1" {
		t.Errorf("Expected u1, got %s", got.ID)
	}

	// A second user with the same address in a different case is refused
	err = store.SaveUser(ctx, leave.User{ID: "u2", FirstName: "C", LastName: "D", Email: "MARIA@example.com", Role: leave.RoleMember})
	if err == nil {
		t.Error("Expected unique index to reject duplicate email")
	}
}

func TestStore_NotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.GetUser(ctx, "missing"); !leave.IsNotFound(err) {
		t.Errorf("GetUser: expected not found, got %v", err)
	}
	if _, err := store.GetUserByEmail(ctx, "missing@example.com"); !leave.IsNotFound(err) {
		t.Errorf("GetUserByEmail: expected not found, got %v", err)
	}
	if _, err := store.GetLeave(ctx, "missing"); !leave.IsNotFound(err) {
		t.Errorf("GetLeave: expected not found, got %v", err)
	}
	if _, err := store.GetProject(ctx, "missing"); !leave.IsNotFound(err) {
		t.Errorf("GetProject: expected not found, got %v", err)
	}

	var nf *leave.NotFoundError
	if err := store.DeleteHoliday(ctx, "missing"); !errors.As(err, &nf) || nf.Kind != "holiday" {
		t.Errorf("DeleteHoliday: expected holiday not found, got %v", err)
	}
	if err := store.DeleteUser(ctx, "missing"); !leave.IsNotFound(err) {
		t.Errorf("DeleteUser: expected not found, got %v", err)
	}
	if err := store.DeleteProject(ctx, "missing"); !leave.IsNotFound(err) {
		t.Errorf("DeleteProject: expected not found, got %v", err)
	}
}

func TestStore_LeaveRoundTrip(t *testing.T) {
	// GIVEN: A pending half-day request
	store := newTestStore(t)
	ctx := context.Background()
	created := time.Date(2025, 6, 1, 9, 30, 0, 123, time.UTC)

	r := leave.LeaveRequest{
		ID:        "l1",
		UserID:    "u1",
		Type:      leave.LeaveAnnual,
		StartDate: leave.MustParseDate("2025-07-14"),
		EndDate:   leave.MustParseDate("2025-07-14"),
		HalfDay:   leave.HalfDayMorning,
		Reason:    "Dentist",
		Status:    leave.StatusPending,
		CreatedAt: created,
		UpdatedAt: created,
	}
	if err := store.SaveLeave(ctx, r); err != nil {
		t.Fatalf("Failed to save leave: %v", err)
	}

	got, err := store.GetLeave(ctx, "l1")
	if err != nil {
		t.Fatalf("Failed to get leave: %v", err)
	}
	if !got.StartDate.Equal(r.StartDate) || got.HalfDay != leave.HalfDayMorning {
		t.Errorf("Unexpected leave: %+v", got)
	}
	if got.ReviewedBy != "" || got.ReviewNote != "" {
		t.Errorf("Expected no review fields, got %q/%q", got.ReviewedBy, got.ReviewNote)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("Expected created_at %v, got %v", created, got.CreatedAt)
	}

	// WHEN: The request is approved
	if err := got.Approve("admin", "enjoy", created.Add(time.Hour)); err != nil {
		t.Fatalf("Failed to approve: %v", err)
	}
	if err := store.SaveLeave(ctx, *got); err != nil {
		t.Fatalf("Failed to save review: %v", err)
	}

	// THEN: The review is persisted and the status filter sees it
	approved, err := store.ListLeavesByStatus(ctx, leave.StatusApproved)
	if err != nil {
		t.Fatalf("Failed to list leaves: %v", err)
	}
	if len(approved) != 1 || approved[0].ReviewedBy != "admin" || approved[0].ReviewNote != "enjoy" {
		t.Errorf("Expected one approved leave reviewed by admin, got %+v", approved)
	}
	pending, _ := store.ListLeavesByStatus(ctx, leave.StatusPending)
	if len(pending) != 0 {
		t.Errorf("Expected no pending leaves, got %d", len(pending))
	}
}

func TestStore_RejectsEndBeforeStart(t *testing.T) {
	store := newTestStore(t)

	err := store.SaveLeave(context.Background(), leave.LeaveRequest{
		ID: "bad", UserID: "u1", Type: leave.LeaveNormal, Status: leave.StatusPending,
		StartDate: leave.MustParseDate("2025-07-10"),
		EndDate:   leave.MustParseDate("2025-07-09"),
	})
	if err == nil {
		t.Error("Expected check constraint to reject end_date before start_date")
	}
}

func TestStore_LeavesOrderedByStartDate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, tc := range []struct{ id, user, day string }{
		{"l1", "u1", "2025-09-01"},
		{"l2", "u2", "2025-03-01"},
		{"l3", "u1", "2025-05-01"},
	} {
		d := leave.MustParseDate(tc.day)
		if err := store.SaveLeave(ctx, leave.LeaveRequest{
			ID: tc.id, UserID: tc.user, Type: leave.LeaveAnnual, Status: leave.StatusPending, StartDate: d, EndDate: d,
		}); err != nil {
			t.Fatalf("Failed to save %s: %v", tc.id, err)
		}
	}

	mine, err := store.ListLeavesByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("Failed to list leaves: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != "l3" || mine[1].ID != "l1" {
		t.Errorf("Expected [l3 l1], got %+v", mine)
	}

	all, _ := store.ListLeaves(ctx)
	if len(all) != 3 || all[0].ID != "l2" {
		t.Errorf("Expected l2 first of 3, got %+v", all)
	}
}

func TestStore_ProjectsAndHolidays(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	if err := store.SaveProject(ctx, leave.Project{ID: "p2", Name: "Website", MemberIDs: []string{"u1", "u2"}, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("Failed to save project: %v", err)
	}
	if err := store.SaveProject(ctx, leave.Project{ID: "p1", Name: "Mobile", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("Failed to save project: %v", err)
	}

	projects, err := store.ListProjects(ctx)
	if err != nil {
		t.Fatalf("Failed to list projects: %v", err)
	}
	if len(projects) != 2 || projects[0].Name != "Mobile" {
		t.Errorf("Expected Mobile first, got %+v", projects)
	}
	if projects[0].MemberIDs != nil {
		t.Errorf("Expected no members, got %v", projects[0].MemberIDs)
	}
	if !projects[1].HasMember("u2") {
		t.Errorf("Expected u2 on Website, got %v", projects[1].MemberIDs)
	}

	holidays := []leave.Holiday{
		{ID: "h1", Name: "Christmas Day", Date: leave.MustParseDate("2025-12-25"), Country: "UK"},
		{ID: "h2", Name: "New Year's Day", Date: leave.MustParseDate("2025-01-01"), Country: "UK"},
		{ID: "h3", Name: "Independence Day", Date: leave.MustParseDate("2025-07-04"), Country: "US"},
	}
	for _, h := range holidays {
		if err := store.SaveHoliday(ctx, h); err != nil {
			t.Fatalf("Failed to save holiday: %v", err)
		}
	}

	uk, err := store.ListHolidays(ctx, "UK")
	if err != nil {
		t.Fatalf("Failed to list holidays: %v", err)
	}
	if len(uk) != 2 || uk[0].ID != "h2" {
		t.Errorf("Expected UK holidays by date, got %+v", uk)
	}
	all, _ := store.ListHolidays(ctx, "")
	if len(all) != 3 {
		t.Errorf("Expected 3 holidays, got %d", len(all))
	}
}

func TestStore_SettingsAndReset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// GIVEN: Defaults from New
	settings, err := store.GetSettings(ctx)
	if err != nil {
		t.Fatalf("Failed to get settings: %v", err)
	}
	if settings.Country != "UK" || settings.DefaultAnnualLeaveQuota != 25 {
		t.Errorf("Expected UK/25, got %+v", settings)
	}

	if err := store.SaveSettings(ctx, leave.Settings{Country: "DE", DefaultAnnualLeaveQuota: 30}); err != nil {
		t.Fatalf("Failed to save settings: %v", err)
	}
	if err := store.SaveUser(ctx, leave.User{ID: "u1", FirstName: "A", LastName: "B", Email: "a@b.io", Role: leave.RoleMember}); err != nil {
		t.Fatalf("Failed to save user: %v", err)
	}
	if err := store.SaveInvite(ctx, leave.Invite{ID: "i1", Email: "c@d.io", Role: leave.RoleMember, Token: "tok", CreatedBy: "u1", CreatedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatalf("Failed to save invite: %v", err)
	}

	// WHEN: Reset
	if err := store.Reset(ctx, leave.Settings{Country: "FR", DefaultAnnualLeaveQuota: 20}); err != nil {
		t.Fatalf("Failed to reset: %v", err)
	}

	// THEN: Collections are empty and settings replaced
	users, _ := store.ListUsers(ctx)
	invites, _ := store.ListInvites(ctx)
	if len(users) != 0 || len(invites) != 0 {
		t.Errorf("Expected empty store, got %d users, %d invites", len(users), len(invites))
	}
	settings, _ = store.GetSettings(ctx)
	if settings.Country != "FR" {
		t.Errorf("Expected FR after reset, got %s", settings.Country)
	}
}

func TestStore_InviteRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	inv := leave.Invite{
		ID: "i1", Email: "new@example.com", Role: leave.RoleAdmin, Token: "token-1",
		CreatedBy: "u1", CreatedAt: created, ExpiresAt: created.Add(7 * 24 * time.Hour),
	}
	if err := store.SaveInvite(ctx, inv); err != nil {
		t.Fatalf("Failed to save invite: %v", err)
	}

	invites, err := store.ListInvites(ctx)
	if err != nil {
		t.Fatalf("Failed to list invites: %v", err)
	}
	if len(invites) != 1 {
		t.Fatalf("Expected 1 invite, got %d", len(invites))
	}
	got := invites[0]
	if got.Role != leave.RoleAdmin || got.Token != "token-1" || !got.ExpiresAt.Equal(inv.ExpiresAt) {
		t.Errorf("Unexpected invite: %+v", got)
	}
}

func TestStore_DeleteExpiredInvites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Sub-second expiries would sort wrongly as text
	for i, exp := range []time.Time{
		now.Add(-time.Hour),
		now.Add(500 * time.Millisecond),
		now,
		now.Add(24 * time.Hour),
	} {
		id := string(rune('a' + i))
		if err := store.SaveInvite(ctx, leave.Invite{
			ID: id, Email: id + "@example.com", Role: leave.RoleMember, Token: "tok-" + id,
			CreatedBy: "u1", CreatedAt: now.Add(-48 * time.Hour), ExpiresAt: exp,
		}); err != nil {
			t.Fatalf("Failed to save invite %s: %v", id, err)
		}
	}

	removed, err := store.DeleteExpiredInvites(ctx, now)
	if err != nil {
		t.Fatalf("Failed to delete expired invites: %v", err)
	}
	if removed != 2 {
		t.Errorf("Expected 2 removed, got %d", removed)
	}

	invites, _ := store.ListInvites(ctx)
	if len(invites) != 2 {
		t.Fatalf("Expected 2 invites left, got %d", len(invites))
	}
	for _, inv := range invites {
		if inv.ID != "b" && inv.ID != "d" {
			t.Errorf("Unexpected invite left: %s", inv.ID)
		}
	}
}

func TestStore_CorruptTimestamps(t *testing.T) {
	// GIVEN: One row of each timestamped kind
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	day := leave.MustParseDate("2025-07-14")

	if err := store.SaveLeave(ctx, leave.LeaveRequest{ID: "l1", UserID: "u1", Type: leave.LeaveAnnual, StartDate: day, EndDate: day, Status: leave.StatusPending, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("Failed to save leave: %v", err)
	}
	if err := store.SaveProject(ctx, leave.Project{ID: "p1", Name: "Web", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("Failed to save project: %v", err)
	}
	if err := store.SaveInvite(ctx, leave.Invite{ID: "i1", Email: "x@example.com", Role: leave.RoleMember, Token: "t", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("Failed to save invite: %v", err)
	}

	// WHEN: Their timestamps are overwritten with text that is not a time
	for _, stmt := range []string{
		"UPDATE leave_requests SET updated_at = 'yesterday'",
		"UPDATE projects SET created_at = 'soon'",
		"UPDATE invites SET expires_at = ''",
	} {
		if _, err := store.db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
	}

	// THEN: Reads fail naming the column instead of returning zero times
	tests := []struct {
		name   string
		read   func() error
		column string
	}{
		{"leave", func() error { _, err := store.GetLeave(ctx, "l1"); return err }, "updated_at"},
		{"project", func() error { _, err := store.GetProject(ctx, "p1"); return err }, "created_at"},
		{"invite", func() error { _, err := store.ListInvites(ctx); return err }, "expires_at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.read()
			if err == nil {
				t.Fatal("Expected an error for a corrupt timestamp")
			}
			if leave.IsNotFound(err) {
				t.Errorf("Corrupt row reported as missing: %v", err)
			}
			if !strings.Contains(err.Error(), tt.column) {
				t.Errorf("Error %q does not name %s", err, tt.column)
			}
		})
	}
}
