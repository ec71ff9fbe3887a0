/*
Package sqlite provides a SQLite-backed leave.Repository.

PURPOSE:
  Keeps users, leave requests, projects, holidays, settings and invites in a
  single SQLite file so data survives restarts. The in-memory store in
  leave/store is the default; this one is picked with store.driver=sqlite.

KEY TABLES:
  users:          one row per user, project_ids as a JSON array
  leave_requests: one row per request, dates as YYYY-MM-DD text
  projects:       one row per project, member_ids as a JSON array
  holidays:       one row per (country, date, name)
  settings:       singleton row (id = 1)
  invites:        pending invitations

ENCODING:
  Calendar dates are stored as YYYY-MM-DD so lexical order is date order
  and range filters work in plain SQL. Timestamps are RFC 3339 with
  nanoseconds. ID lists are JSON; nothing queries inside them.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, and a single open connection so
  ":memory:" databases are shared by every query.

USAGE:
  repo, err := sqlite.New("./data/leavetrack.db", leave.DefaultSettings())
  if err != nil {
      log.Fatal(err)
  }
  defer repo.Close()

  svc := leave.NewService(repo, logger)

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - leave/store.go: Repository contract
  - leave/store/memory.go: In-memory implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/leavetrack/leave"
)

const timeLayout = time.RFC3339Nano

// Store implements leave.Repository using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ leave.Repository = (*Store)(nil)

// New opens the database at dbPath, migrates the schema and stores
// defaults as the settings unless settings already exist.
// Use ":memory:" for an in-memory database.
func New(dbPath string, defaults leave.Settings) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if _, err := db.Exec(
		"INSERT OR IGNORE INTO settings (id, country, default_annual_leave_quota) VALUES (1, ?, ?)",
		defaults.Country, defaults.DefaultAnnualLeaveQuota,
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialise settings: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL,
		role TEXT NOT NULL,
		job_description TEXT NOT NULL DEFAULT '',
		annual_leave_quota INTEGER NOT NULL DEFAULT 0 CHECK (annual_leave_quota >= 0),
		project_ids_json TEXT NOT NULL DEFAULT '[]',
		notes TEXT NOT NULL DEFAULT '',
		profile_image TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL DEFAULT ''
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email
		ON users(email COLLATE NOCASE);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		leave_type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		half_day TEXT NOT NULL DEFAULT '',
		reason TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		reviewed_by TEXT,
		review_note TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		CHECK (end_date >= start_date)
	);

	CREATE INDEX IF NOT EXISTS idx_leave_requests_user
		ON leave_requests(user_id, start_date);
	CREATE INDEX IF NOT EXISTS idx_leave_requests_status
		ON leave_requests(status);
	CREATE INDEX IF NOT EXISTS idx_leave_requests_dates
		ON leave_requests(start_date, end_date);

	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		member_ids_json TEXT NOT NULL DEFAULT '[]',
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		date TEXT NOT NULL,
		country TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_country_date
		ON holidays(country, date);

	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		country TEXT NOT NULL,
		default_annual_leave_quota INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS invites (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		role TEXT NOT NULL,
		token TEXT NOT NULL UNIQUE,
		created_by TEXT NOT NULL,
		created_at TEXT NOT NULL,
		expires_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// USERS
// =============================================================================

const userColumns = `id, first_name, last_name, email, role, job_description,
	annual_leave_quota, project_ids_json, notes, profile_image, password_hash`

func (s *Store) ListUsers(ctx context.Context) ([]leave.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY last_name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []leave.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) GetUser(ctx context.Context, id string) (*leave.User, error) {
	return s.getUser(ctx, "id = ?", id, id)
}

// GetUserByEmail matches case-insensitively.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*leave.User, error) {
	return s.getUser(ctx, "email = ? COLLATE NOCASE", email, email)
}

func (s *Store) getUser(ctx context.Context, where string, arg any, label string) (*leave.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE "+where, arg)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &leave.NotFoundError{Kind: "user", ID: label}
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) SaveUser(ctx context.Context, u leave.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	projectIDs, err := encodeIDs(u.ProjectIDs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			email = excluded.email,
			role = excluded.role,
			job_description = excluded.job_description,
			annual_leave_quota = excluded.annual_leave_quota,
			project_ids_json = excluded.project_ids_json,
			notes = excluded.notes,
			profile_image = excluded.profile_image,
			password_hash = excluded.password_hash
	`
	_, err = s.db.ExecContext(ctx, query,
		u.ID, u.FirstName, u.LastName, u.Email, string(u.Role), u.JobDescription,
		u.AnnualLeaveQuota, projectIDs, u.Notes, u.ProfileImage, u.PasswordHash,
	)
	return err
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "users", "user", id)
}

func scanUser(row scanner) (leave.User, error) {
	var u leave.User
	var role, projectIDs string
	if err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &role, &u.JobDescription,
		&u.AnnualLeaveQuota, &projectIDs, &u.Notes, &u.ProfileImage, &u.PasswordHash,
	); err != nil {
		return u, err
	}
	u.Role = leave.Role(role)
	ids, err := decodeIDs(projectIDs)
	if err != nil {
		return u, fmt.Errorf("user %s: %w", u.ID, err)
	}
	u.ProjectIDs = ids
	return u, nil
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

const leaveColumns = `id, user_id, leave_type, start_date, end_date, half_day, reason,
	status, reviewed_by, review_note, created_at, updated_at`

func (s *Store) ListLeaves(ctx context.Context) ([]leave.LeaveRequest, error) {
	return s.queryLeaves(ctx, "SELECT "+leaveColumns+" FROM leave_requests ORDER BY start_date, id")
}

func (s *Store) ListLeavesByUser(ctx context.Context, userID string) ([]leave.LeaveRequest, error) {
	return s.queryLeaves(ctx,
		"SELECT "+leaveColumns+" FROM leave_requests WHERE user_id = ? ORDER BY start_date, id",
		userID)
}

func (s *Store) ListLeavesByStatus(ctx context.Context, status leave.Status) ([]leave.LeaveRequest, error) {
	return s.queryLeaves(ctx,
		"SELECT "+leaveColumns+" FROM leave_requests WHERE status = ? ORDER BY start_date, id",
		string(status))
}

func (s *Store) GetLeave(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+leaveColumns+" FROM leave_requests WHERE id = ?", id)
	r, err := scanLeave(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &leave.NotFoundError{Kind: "leave", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) SaveLeave(ctx context.Context, r leave.LeaveRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO leave_requests (` + leaveColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			leave_type = excluded.leave_type,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			half_day = excluded.half_day,
			reason = excluded.reason,
			status = excluded.status,
			reviewed_by = excluded.reviewed_by,
			review_note = excluded.review_note,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.UserID, string(r.Type), r.StartDate.String(), r.EndDate.String(),
		string(r.HalfDay), r.Reason, string(r.Status),
		nullString(r.ReviewedBy), nullString(r.ReviewNote),
		formatTime(r.CreatedAt), formatTime(r.UpdatedAt),
	)
	return err
}

func (s *Store) queryLeaves(ctx context.Context, query string, args ...any) ([]leave.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		r, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func scanLeave(row scanner) (leave.LeaveRequest, error) {
	var r leave.LeaveRequest
	var leaveType, startDate, endDate, halfDay, status, createdAt, updatedAt string
	var reviewedBy, reviewNote sql.NullString
	if err := row.Scan(
		&r.ID, &r.UserID, &leaveType, &startDate, &endDate, &halfDay, &r.Reason,
		&status, &reviewedBy, &reviewNote, &createdAt, &updatedAt,
	); err != nil {
		return r, err
	}

	var err error
	if r.StartDate, err = leave.ParseDate(startDate); err != nil {
		return r, fmt.Errorf("leave %s start_date: %w", r.ID, err)
	}
	if r.EndDate, err = leave.ParseDate(endDate); err != nil {
		return r, fmt.Errorf("leave %s end_date: %w", r.ID, err)
	}
	r.Type = leave.LeaveType(leaveType)
	r.HalfDay = leave.HalfDay(halfDay)
	r.Status = leave.Status(status)
	r.ReviewedBy = reviewedBy.String
	r.ReviewNote = reviewNote.String
	if r.CreatedAt, err = parseTime("leave", r.ID, "created_at", createdAt); err != nil {
		return r, err
	}
	if r.UpdatedAt, err = parseTime("leave", r.ID, "updated_at", updatedAt); err != nil {
		return r, err
	}
	return r, nil
}

// =============================================================================
// PROJECTS
// =============================================================================

const projectColumns = "id, name, member_ids_json, notes, created_at, updated_at"

func (s *Store) ListProjects(ctx context.Context) ([]leave.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+projectColumns+" FROM projects ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []leave.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Store) GetProject(ctx context.Context, id string) (*leave.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &leave.NotFoundError{Kind: "project", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) SaveProject(ctx context.Context, p leave.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	members, err := encodeIDs(p.MemberIDs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			member_ids_json = excluded.member_ids_json,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		p.ID, p.Name, members, p.Notes, formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	return err
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "projects", "project", id)
}

func scanProject(row scanner) (leave.Project, error) {
	var p leave.Project
	var members, createdAt, updatedAt string
	if err := row.Scan(&p.ID, &p.Name, &members, &p.Notes, &createdAt, &updatedAt); err != nil {
		return p, err
	}
	ids, err := decodeIDs(members)
	if err != nil {
		return p, fmt.Errorf("project %s: %w", p.ID, err)
	}
	p.MemberIDs = ids
	if p.CreatedAt, err = parseTime("project", p.ID, "created_at", createdAt); err != nil {
		return p, err
	}
	if p.UpdatedAt, err = parseTime("project", p.ID, "updated_at", updatedAt); err != nil {
		return p, err
	}
	return p, nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (s *Store) ListHolidays(ctx context.Context, country string) ([]leave.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT id, name, date, country FROM holidays"
	var args []any
	if country != "" {
		query += " WHERE country = ?"
		args = append(args, country)
	}
	query += " ORDER BY date, name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []leave.Holiday
	for rows.Next() {
		var h leave.Holiday
		var date string
		if err := rows.Scan(&h.ID, &h.Name, &date, &h.Country); err != nil {
			return nil, err
		}
		if h.Date, err = leave.ParseDate(date); err != nil {
			return nil, fmt.Errorf("holiday %s: %w", h.ID, err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

func (s *Store) SaveHoliday(ctx context.Context, h leave.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO holidays (id, name, date, country)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			date = excluded.date,
			country = excluded.country
	`
	_, err := s.db.ExecContext(ctx, query, h.ID, h.Name, h.Date.String(), h.Country)
	return err
}

func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "holidays", "holiday", id)
}

// =============================================================================
// SETTINGS & INVITES
// =============================================================================

func (s *Store) GetSettings(ctx context.Context) (leave.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var settings leave.Settings
	err := s.db.QueryRowContext(ctx,
		"SELECT country, default_annual_leave_quota FROM settings WHERE id = 1",
	).Scan(&settings.Country, &settings.DefaultAnnualLeaveQuota)
	if errors.Is(err, sql.ErrNoRows) {
		return leave.DefaultSettings(), nil
	}
	return settings, err
}

func (s *Store) SaveSettings(ctx context.Context, settings leave.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveSettingsLocked(ctx, settings)
}

func (s *Store) saveSettingsLocked(ctx context.Context, settings leave.Settings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (id, country, default_annual_leave_quota)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			country = excluded.country,
			default_annual_leave_quota = excluded.default_annual_leave_quota
	`, settings.Country, settings.DefaultAnnualLeaveQuota)
	return err
}

func (s *Store) ListInvites(ctx context.Context) ([]leave.Invite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, email, role, token, created_by, created_at, expires_at FROM invites ORDER BY created_at",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invites := []leave.Invite{}
	for rows.Next() {
		var inv leave.Invite
		var role, createdAt, expiresAt string
		if err := rows.Scan(&inv.ID, &inv.Email, &role, &inv.Token, &inv.CreatedBy, &createdAt, &expiresAt); err != nil {
			return nil, err
		}
		inv.Role = leave.Role(role)
		var err error
		if inv.CreatedAt, err = parseTime("invite", inv.ID, "created_at", createdAt); err != nil {
			return nil, err
		}
		if inv.ExpiresAt, err = parseTime("invite", inv.ID, "expires_at", expiresAt); err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

func (s *Store) SaveInvite(ctx context.Context, inv leave.Invite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invites (id, email, role, token, created_by, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			role = excluded.role,
			expires_at = excluded.expires_at
	`, inv.ID, inv.Email, string(inv.Role), inv.Token, inv.CreatedBy,
		formatTime(inv.CreatedAt), formatTime(inv.ExpiresAt))
	return err
}

// DeleteExpiredInvites compares expiry in Go; RFC 3339 text with trimmed
// fractional seconds does not sort lexically.
func (s *Store) DeleteExpiredInvites(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, "SELECT id, expires_at FROM invites")
	if err != nil {
		return 0, err
	}
	var expired []string
	for rows.Next() {
		var id, expiresAt string
		if err := rows.Scan(&id, &expiresAt); err != nil {
			rows.Close()
			return 0, err
		}
		t, err := time.Parse(timeLayout, expiresAt)
		if err != nil || !now.Before(t) {
			expired = append(expired, id)
		}
	}
	if err := rows.Close(); err != nil {
		return 0, err
	}

	for _, id := range expired {
		if _, err := tx.ExecContext(ctx, "DELETE FROM invites WHERE id = ?", id); err != nil {
			return 0, fmt.Errorf("failed to delete invite %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(expired), nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data and stores settings (for demo scenarios and tests).
func (s *Store) Reset(ctx context.Context, settings leave.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	tables := []string{"leave_requests", "projects", "holidays", "invites", "users", "settings"}
	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO settings (id, country, default_annual_leave_quota) VALUES (1, ?, ?)",
		settings.Country, settings.DefaultAnnualLeaveQuota,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) deleteByID(ctx context.Context, table, kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &leave.NotFoundError{Kind: kind, ID: id}
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(kind, id, column, value string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s %s %s: %w", kind, id, column, err)
	}
	return t, nil
}

func encodeIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode ids: %w", err)
	}
	return string(b), nil
}

func decodeIDs(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("failed to decode ids: %w", err)
	}
	return ids, nil
}
