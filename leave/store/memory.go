// Package store provides Repository implementations.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/warp/leavetrack/leave"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (default, resets on restart)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	users    map[string]leave.User
	leaves   map[string]leave.LeaveRequest
	projects map[string]leave.Project
	holidays map[string]leave.Holiday
	invites  map[string]leave.Invite
	settings leave.Settings
}

var _ leave.Repository = (*Memory)(nil)

func NewMemory(settings leave.Settings) *Memory {
	m := &Memory{}
	m.resetLocked(settings)
	return m
}

func (m *Memory) Reset(_ context.Context, settings leave.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked(settings)
	return nil
}

func (m *Memory) resetLocked(settings leave.Settings) {
	m.users = make(map[string]leave.User)
	m.leaves = make(map[string]leave.LeaveRequest)
	m.projects = make(map[string]leave.Project)
	m.holidays = make(map[string]leave.Holiday)
	m.invites = make(map[string]leave.Invite)
	m.settings = settings
}

// =============================================================================
// USERS
// =============================================================================

func (m *Memory) ListUsers(_ context.Context) ([]leave.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]leave.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, copyUser(u))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].LastName != result[j].LastName {
			return result[i].LastName < result[j].LastName
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *Memory) GetUser(_ context.Context, id string) (*leave.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, &leave.NotFoundError{Kind: "user", ID: id}
	}
	u = copyUser(u)
	return &u, nil
}

// GetUserByEmail matches case-insensitively.
func (m *Memory) GetUserByEmail(_ context.Context, email string) (*leave.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			u = copyUser(u)
			return &u, nil
		}
	}
	return nil, &leave.NotFoundError{Kind: "user", ID: email}
}

func (m *Memory) SaveUser(_ context.Context, u leave.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = copyUser(u)
	return nil
}

func (m *Memory) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return &leave.NotFoundError{Kind: "user", ID: id}
	}
	delete(m.users, id)
	return nil
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

func (m *Memory) ListLeaves(_ context.Context) ([]leave.LeaveRequest, error) {
	return m.filterLeaves(func(*leave.LeaveRequest) bool { return true }), nil
}

func (m *Memory) ListLeavesByUser(_ context.Context, userID string) ([]leave.LeaveRequest, error) {
	return m.filterLeaves(func(r *leave.LeaveRequest) bool { return r.UserID == userID }), nil
}

func (m *Memory) ListLeavesByStatus(_ context.Context, status leave.Status) ([]leave.LeaveRequest, error) {
	return m.filterLeaves(func(r *leave.LeaveRequest) bool { return r.Status == status }), nil
}

// filterLeaves returns matching requests ordered by start date, then ID.
func (m *Memory) filterLeaves(match func(*leave.LeaveRequest) bool) []leave.LeaveRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []leave.LeaveRequest
	for _, r := range m.leaves {
		if match(&r) {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartDate.Equal(result[j].StartDate) {
			return result[i].StartDate.Before(result[j].StartDate)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func (m *Memory) GetLeave(_ context.Context, id string) (*leave.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.leaves[id]
	if !ok {
		return nil, &leave.NotFoundError{Kind: "leave", ID: id}
	}
	return &r, nil
}

func (m *Memory) SaveLeave(_ context.Context, r leave.LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaves[r.ID] = r
	return nil
}

// =============================================================================
// PROJECTS
// =============================================================================

func (m *Memory) ListProjects(_ context.Context) ([]leave.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]leave.Project, 0, len(m.projects))
	for _, p := range m.projects {
		result = append(result, copyProject(p))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *Memory) GetProject(_ context.Context, id string) (*leave.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.projects[id]
	if !ok {
		return nil, &leave.NotFoundError{Kind: "project", ID: id}
	}
	p = copyProject(p)
	return &p, nil
}

func (m *Memory) SaveProject(_ context.Context, p leave.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[p.ID] = copyProject(p)
	return nil
}

func (m *Memory) DeleteProject(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return &leave.NotFoundError{Kind: "project", ID: id}
	}
	delete(m.projects, id)
	return nil
}

// =============================================================================
// HOLIDAYS, SETTINGS, INVITES
// =============================================================================

func (m *Memory) ListHolidays(_ context.Context, country string) ([]leave.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []leave.Holiday
	for _, h := range m.holidays {
		if country == "" || h.Country == country {
			result = append(result, h)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (m *Memory) SaveHoliday(_ context.Context, h leave.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays[h.ID] = h
	return nil
}

func (m *Memory) DeleteHoliday(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.holidays[id]; !ok {
		return &leave.NotFoundError{Kind: "holiday", ID: id}
	}
	delete(m.holidays, id)
	return nil
}

func (m *Memory) GetSettings(_ context.Context) (leave.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings, nil
}

func (m *Memory) SaveSettings(_ context.Context, s leave.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s
	return nil
}

func (m *Memory) ListInvites(_ context.Context) ([]leave.Invite, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]leave.Invite, 0, len(m.invites))
	for _, inv := range m.invites {
		result = append(result, inv)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (m *Memory) SaveInvite(_ context.Context, inv leave.Invite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invites[inv.ID] = inv
	return nil
}

func (m *Memory) DeleteExpiredInvites(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, inv := range m.invites {
		if !inv.IsValid(now) {
			delete(m.invites, id)
			removed++
		}
	}
	return removed, nil
}

// Slices are cloned on the way in and out so callers never share backing
// arrays with the store.
func copyUser(u leave.User) leave.User {
	u.ProjectIDs = append([]string(nil), u.ProjectIDs...)
	return u
}

func copyProject(p leave.Project) leave.Project {
	p.MemberIDs = append([]string(nil), p.MemberIDs...)
	return p
}
