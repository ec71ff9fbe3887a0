/*
service.go - Use cases over the Repository

PURPOSE:
  Orchestrates the engine for callers (HTTP handlers, seeders, tests).
  Every operation takes the acting user and checks it before reading or
  writing anything:

    admin only:      review leave, settings, user/project/holiday management,
                     invites, the user directory
    self or admin:   submit/list leave, summaries, a user's project list
    teammates:       a user's profile, a project's members and calendar
    any signed-in:   own calendar, own projects, holiday lists

  Validation always runs before the first write, so a failed call leaves
  the store as it was.

FILES:
  service.go   Service construction, users, settings, invites
  leaves.go    Submission, review, summaries
  calendar.go  Day and range calendars, project calendar
  projects.go  Projects and membership
  holidays.go  Holiday calendar configuration

SEE ALSO:
  - access.go: Actor and role checks
  - accounting.go: Pure engine functions
*/
package leave

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultInviteTTL matches how long an emailed invitation stays usable.
const DefaultInviteTTL = 7 * 24 * time.Hour

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service holds the dependencies shared by all use cases.
type Service struct {
	Repo      Repository
	Logger    *slog.Logger
	Now       func() time.Time
	NewID     func() string
	InviteTTL time.Duration

	// reviewMu serializes approve/reject so a request is reviewed once
	// even when two admins click at the same time.
	reviewMu sync.Mutex

	// membershipMu serializes writes to users and projects, which update
	// each other's membership lists.
	membershipMu sync.Mutex
}

// NewService wires a service with real time and UUID identifiers.
// A nil logger discards output.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		Repo:      repo,
		Logger:    logger,
		Now:       time.Now,
		NewID:     uuid.NewString,
		InviteTTL: DefaultInviteTTL,
	}
}

// =============================================================================
// USERS
// =============================================================================

// UserInput is the editable part of a user. A nil quota means "use the
// configured default" on create and "leave unchanged" on update.
type UserInput struct {
	FirstName        string
	LastName         string
	Email            string
	Role             Role
	JobDescription   string
	AnnualLeaveQuota *int
	ProjectIDs       []string
	Notes            string
	ProfileImage     string
	PasswordHash     string
}

func (in *UserInput) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.JobDescription = strings.TrimSpace(in.JobDescription)
	if in.Role == "" {
		in.Role = RoleMember
	}
	in.ProjectIDs = dedupe(in.ProjectIDs)
}

func (in UserInput) validate() error {
	switch {
	case in.FirstName == "":
		return &ValidationError{Field: "first_name", Message: "first name is required"}
	case in.LastName == "":
		return &ValidationError{Field: "last_name", Message: "last name is required"}
	case in.Email == "":
		return &ValidationError{Field: "email", Message: "email is required"}
	case in.JobDescription == "":
		return &ValidationError{Field: "job_description", Message: "job description is required"}
	}
	if !emailPattern.MatchString(in.Email) {
		return &ValidationError{Field: "email", Message: "invalid email address"}
	}
	if !in.Role.Valid() {
		return &ValidationError{Field: "role", Message: "role must be admin or member"}
	}
	if in.AnnualLeaveQuota != nil && *in.AnnualLeaveQuota < 0 {
		return &ValidationError{Field: "annual_leave_quota", Message: "quota cannot be negative"}
	}
	return nil
}

// ListUsers is the user directory; it carries emails, quotas and notes,
// so only admins may read it.
func (s *Service) ListUsers(ctx context.Context, actor Actor) ([]User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.Repo.ListUsers(ctx)
}

// GetUser returns a user to an admin, to the user themselves, or to
// someone sharing a project with them.
func (s *Service) GetUser(ctx context.Context, actor Actor, id string) (*User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	u, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() || actor.UserID == id {
		return u, nil
	}
	projects, err := s.Repo.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(TeamMemberIDs(actor.UserID, projects), id) {
		return nil, ErrForbidden
	}
	return u, nil
}

// CreateUser adds a user. Emails are unique, case-insensitively.
func (s *Service) CreateUser(ctx context.Context, actor Actor, in UserInput) (*User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	s.membershipMu.Lock()
	defer s.membershipMu.Unlock()

	if err := s.ensureEmailFree(ctx, in.Email, ""); err != nil {
		return nil, err
	}
	if err := s.ensureProjectsExist(ctx, in.ProjectIDs); err != nil {
		return nil, err
	}

	quota := 0
	if in.AnnualLeaveQuota != nil {
		quota = *in.AnnualLeaveQuota
	} else {
		settings, err := s.Repo.GetSettings(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
		quota = settings.DefaultAnnualLeaveQuota
	}

	u := User{
		ID:               s.NewID(),
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Email:            in.Email,
		Role:             in.Role,
		JobDescription:   in.JobDescription,
		AnnualLeaveQuota: quota,
		ProjectIDs:       in.ProjectIDs,
		Notes:            in.Notes,
		ProfileImage:     in.ProfileImage,
		PasswordHash:     in.PasswordHash,
	}
	if err := s.Repo.SaveUser(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	if err := s.syncUserProjects(ctx, u.ID, u.ProjectIDs); err != nil {
		return nil, err
	}

	s.Logger.InfoContext(ctx, "user created", "user_id", u.ID, "role", u.Role, "by", actor.UserID)
	return &u, nil
}

// UpdateUser replaces the editable fields of an existing user. An empty
// PasswordHash keeps the current password.
func (s *Service) UpdateUser(ctx context.Context, actor Actor, id string, in UserInput) (*User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	s.membershipMu.Lock()
	defer s.membershipMu.Unlock()

	u, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, in.Email, id); err != nil {
		return nil, err
	}
	if err := s.ensureProjectsExist(ctx, in.ProjectIDs); err != nil {
		return nil, err
	}

	u.FirstName = in.FirstName
	u.LastName = in.LastName
	u.Email = in.Email
	u.Role = in.Role
	u.JobDescription = in.JobDescription
	if in.AnnualLeaveQuota != nil {
		u.AnnualLeaveQuota = *in.AnnualLeaveQuota
	}
	u.ProjectIDs = in.ProjectIDs
	u.Notes = in.Notes
	u.ProfileImage = in.ProfileImage
	if in.PasswordHash != "" {
		u.PasswordHash = in.PasswordHash
	}

	if err := s.Repo.SaveUser(ctx, *u); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	if err := s.syncUserProjects(ctx, u.ID, u.ProjectIDs); err != nil {
		return nil, err
	}
	s.Logger.InfoContext(ctx, "user updated", "user_id", u.ID, "by", actor.UserID)
	return u, nil
}

// DeleteUser removes the user and takes them off every project. Their
// leave requests are kept.
func (s *Service) DeleteUser(ctx context.Context, actor Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	s.membershipMu.Lock()
	defer s.membershipMu.Unlock()

	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	if err := s.syncUserProjects(ctx, id, nil); err != nil {
		return err
	}
	s.Logger.InfoContext(ctx, "user deleted", "user_id", id, "by", actor.UserID)
	return nil
}

func (s *Service) ensureEmailFree(ctx context.Context, email, ownerID string) error {
	existing, err := s.Repo.GetUserByEmail(ctx, email)
	if IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up email: %w", err)
	}
	if existing.ID != ownerID {
		return &ValidationError{Field: "email", Message: "email is already in use"}
	}
	return nil
}

func (s *Service) ensureProjectsExist(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if _, err := s.Repo.GetProject(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// SETTINGS
// =============================================================================

func (s *Service) GetSettings(ctx context.Context, actor Actor) (Settings, error) {
	if err := requireActor(actor); err != nil {
		return Settings{}, err
	}
	return s.Repo.GetSettings(ctx)
}

// UpdateSettings changes the company country and the quota given to
// users created from now on. Existing users keep their quota.
func (s *Service) UpdateSettings(ctx context.Context, actor Actor, in Settings) (Settings, error) {
	if err := requireAdmin(actor); err != nil {
		return Settings{}, err
	}
	in.Country = strings.ToUpper(strings.TrimSpace(in.Country))
	if !KnownCountry(in.Country) {
		return Settings{}, &ValidationError{Field: "country", Message: fmt.Sprintf("unsupported country %q", in.Country)}
	}
	if in.DefaultAnnualLeaveQuota < 0 {
		return Settings{}, &ValidationError{Field: "default_annual_leave_quota", Message: "quota cannot be negative"}
	}
	if err := s.Repo.SaveSettings(ctx, in); err != nil {
		return Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	s.Logger.InfoContext(ctx, "settings updated", "country", in.Country, "default_quota", in.DefaultAnnualLeaveQuota, "by", actor.UserID)
	return in, nil
}

// =============================================================================
// INVITES
// =============================================================================

// InviteUser records an invitation for email. Delivery is someone else's job.
func (s *Service) InviteUser(ctx context.Context, actor Actor, email string, role Role) (*Invite, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, &ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailPattern.MatchString(email) {
		return nil, &ValidationError{Field: "email", Message: "invalid email address"}
	}
	if role == "" {
		role = RoleMember
	}
	if !role.Valid() {
		return nil, &ValidationError{Field: "role", Message: "role must be admin or member"}
	}

	now := s.Now()
	inv := Invite{
		ID:        s.NewID(),
		Email:     email,
		Role:      role,
		Token:     uuid.NewString(),
		CreatedBy: actor.UserID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.InviteTTL),
	}
	if err := s.Repo.SaveInvite(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to save invite: %w", err)
	}
	s.Logger.InfoContext(ctx, "invite created", "invite_id", inv.ID, "email", inv.Email, "by", actor.UserID)
	return &inv, nil
}

func (s *Service) ListInvites(ctx context.Context, actor Actor) ([]Invite, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.Repo.ListInvites(ctx)
}

// PruneInvites deletes invites that can no longer be redeemed.
func (s *Service) PruneInvites(ctx context.Context, actor Actor) (int, error) {
	if err := requireAdmin(actor); err != nil {
		return 0, err
	}
	removed, err := s.Repo.DeleteExpiredInvites(ctx, s.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to prune invites: %w", err)
	}
	if removed > 0 {
		s.Logger.InfoContext(ctx, "expired invites removed", "count", removed, "by", actor.UserID)
	}
	return removed, nil
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// Reset wipes every collection and stores settings. Used by demo scenarios.
func (s *Service) Reset(ctx context.Context, actor Actor, settings Settings) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.Repo.Reset(ctx, settings); err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}
	s.Logger.WarnContext(ctx, "store reset", "by", actor.UserID)
	return nil
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
