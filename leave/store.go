/*
store.go - Persistence interface for the leave collections

PURPOSE:
  Replaces shared mutable arrays with an injected Repository. The engine and
  the service only ever talk to this interface, so the in-memory store used
  for demos can be swapped for SQLite without touching the accounting.

CONTRACT:
  - Get* return a *NotFoundError (errors.Is ErrNotFound) for unknown IDs.
  - Save* are upserts keyed by ID.
  - Delete* return a *NotFoundError when there was nothing to delete.
  - Returned slices and structs are copies; mutating them never changes
    the store.

IMPLEMENTATIONS:
  - leave/store/memory.go: In-memory (default, resets on restart)
  - store/sqlite/sqlite.go: SQLite via database/sql
*/
package leave

import (
	"context"
	"time"
)

// UserStore persists users.
type UserStore interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	SaveUser(ctx context.Context, u User) error
	DeleteUser(ctx context.Context, id string) error
}

// LeaveStore persists leave requests.
type LeaveStore interface {
	ListLeaves(ctx context.Context) ([]LeaveRequest, error)
	ListLeavesByUser(ctx context.Context, userID string) ([]LeaveRequest, error)
	ListLeavesByStatus(ctx context.Context, status Status) ([]LeaveRequest, error)
	GetLeave(ctx context.Context, id string) (*LeaveRequest, error)
	SaveLeave(ctx context.Context, r LeaveRequest) error
}

// ProjectStore persists projects.
type ProjectStore interface {
	ListProjects(ctx context.Context) ([]Project, error)
	GetProject(ctx context.Context, id string) (*Project, error)
	SaveProject(ctx context.Context, p Project) error
	DeleteProject(ctx context.Context, id string) error
}

// HolidayStore persists holidays.
type HolidayStore interface {
	// ListHolidays returns holidays for country ordered by date; an empty
	// country returns every holiday.
	ListHolidays(ctx context.Context, country string) ([]Holiday, error)
	SaveHoliday(ctx context.Context, h Holiday) error
	DeleteHoliday(ctx context.Context, id string) error
}

// SettingsStore persists the process-wide settings singleton.
type SettingsStore interface {
	GetSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, s Settings) error
}

// InviteStore persists user invitations.
type InviteStore interface {
	ListInvites(ctx context.Context) ([]Invite, error)
	SaveInvite(ctx context.Context, inv Invite) error

	// DeleteExpiredInvites removes invites whose ExpiresAt is not after
	// now and returns how many were removed.
	DeleteExpiredInvites(ctx context.Context, now time.Time) (int, error)
}

// Repository is everything the service needs from storage.
type Repository interface {
	UserStore
	LeaveStore
	ProjectStore
	HolidayStore
	SettingsStore
	InviteStore

	// Reset removes every record and restores default settings.
	Reset(ctx context.Context, settings Settings) error
}
