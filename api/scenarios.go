/*
scenarios.go - Demo data sets for the dashboard

PURPOSE:
  Populates the repository with a known data set so the dashboard has
  something to show and the accounting can be checked by hand.

AVAILABLE SCENARIOS:
  demo:   five users on three projects, leave requests spread over the
          coming weeks in every status, the 2025 US holidays
  empty:  only the admin account

LOGINS:
  Every seeded user signs in with the password "password", e.g.
  admin@example.com (admin) and member@example.com (member).

HOW SCENARIOS WORK:
 1. Reset the repository (clears everything, restores default settings)
 2. Write users, projects, holidays and leave requests with fixed IDs
 3. Leave dates are relative to "today", so the calendar is never stale

USAGE VIA API:
  POST /api/scenarios/load
  {"scenario_id": "demo"}

NOTE:
  Scenarios wipe the repository. Loading one requires an admin token.

SEE ALSO:
  - handlers.go: Handler
  - cmd/server/main.go: --seed flag loads a scenario at startup
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/leavetrack/auth"
	"github.com/warp/leavetrack/leave"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "password"

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "demo",
		Name:        "Demo Company",
		Description: "Five employees on three projects with pending, approved and rejected leave",
	},
	{
		ID:          "empty",
		Name:        "Empty",
		Description: "Only the admin account; start from scratch",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the most recently loaded scenario, or null.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario wipes the repository and loads a scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !knownScenario(req.ScenarioID) {
		writeError(w, http.StatusBadRequest, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}

	if err := h.LoadScenarioAs(r.Context(), actorFrom(r.Context()), req.ScenarioID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "loaded",
		"scenario": req.ScenarioID,
	})
}

// LoadScenarioAs resets the repository on behalf of actor and seeds the
// scenario. cmd/server calls it with leave.System at startup.
func (h *Handler) LoadScenarioAs(ctx context.Context, actor leave.Actor, id string) error {
	if !knownScenario(id) {
		return &leave.ValidationError{Field: "scenario_id", Message: fmt.Sprintf("unknown scenario %q", id)}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Service.Reset(ctx, actor, h.Defaults); err != nil {
		return err
	}
	if err := seedScenario(ctx, h.Service.Repo, id, h.Service.Now()); err != nil {
		return fmt.Errorf("failed to seed scenario %s: %w", id, err)
	}

	h.currentScenario = id
	h.Logger.InfoContext(ctx, "scenario loaded", "scenario", id, "by", actor.UserID)
	return nil
}

func knownScenario(id string) bool {
	for _, s := range scenarios {
		if s.ID == id {
			return true
		}
	}
	return false
}

// =============================================================================
// SEED DATA
// =============================================================================

func seedScenario(ctx context.Context, repo leave.Repository, id string, now time.Time) error {
	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return err
	}

	users := demoUsers(hash)
	if id == "empty" {
		admin := users[0]
		admin.ProjectIDs = nil
		return repo.SaveUser(ctx, admin)
	}

	for _, u := range users {
		if err := repo.SaveUser(ctx, u); err != nil {
			return err
		}
	}
	for _, p := range demoProjects(now) {
		if err := repo.SaveProject(ctx, p); err != nil {
			return err
		}
	}
	for _, hol := range demoHolidays() {
		if err := repo.SaveHoliday(ctx, hol); err != nil {
			return err
		}
	}
	for _, l := range demoLeaves(now) {
		if err := repo.SaveLeave(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

func demoUsers(passwordHash string) []leave.User {
	return []leave.User{
		{
			ID: "1", FirstName: "Admin", LastName: "User", Email: "admin@example.com",
			Role: leave.RoleAdmin, JobDescription: "HR Manager", AnnualLeaveQuota: 25,
			ProjectIDs: []string{"1", "2"}, Notes: "Main admin account",
			ProfileImage: "https://images.pexels.com/photos/3831645/pexels-photo-3831645.jpeg?auto=compress&cs=tinysrgb&w=150",
			PasswordHash: passwordHash,
		},
		{
			ID: "2", FirstName: "Member", LastName: "User", Email: "member@example.com",
			Role: leave.RoleMember, JobDescription: "Software Developer", AnnualLeaveQuota: 20,
			ProjectIDs: []string{"1", "3"}, Notes: "Frontend developer",
			ProfileImage: "https://images.pexels.com/photos/1516680/pexels-photo-1516680.jpeg?auto=compress&cs=tinysrgb&w=150",
			PasswordHash: passwordHash,
		},
		{
			ID: "3", FirstName: "Sarah", LastName: "Johnson", Email: "sarah@example.com",
			Role: leave.RoleMember, JobDescription: "Product Manager", AnnualLeaveQuota: 22,
			ProjectIDs: []string{"2", "3"}, Notes: "Product team lead",
			ProfileImage: "https://images.pexels.com/photos/774909/pexels-photo-774909.jpeg?auto=compress&cs=tinysrgb&w=150",
			PasswordHash: passwordHash,
		},
		{
			ID: "4", FirstName: "Michael", LastName: "Chen", Email: "michael@example.com",
			Role: leave.RoleMember, JobDescription: "Backend Developer", AnnualLeaveQuota: 20,
			ProjectIDs: []string{"1"}, Notes: "Works on API development",
			ProfileImage: "https://images.pexels.com/photos/614810/pexels-photo-614810.jpeg?auto=compress&cs=tinysrgb&w=150",
			PasswordHash: passwordHash,
		},
		{
			ID: "5", FirstName: "Emma", LastName: "Davis", Email: "emma@example.com",
			Role: leave.RoleMember, JobDescription: "UX Designer", AnnualLeaveQuota: 21,
			ProjectIDs: []string{"2"}, Notes: "Design team member",
			ProfileImage: "https://images.pexels.com/photos/415829/pexels-photo-415829.jpeg?auto=compress&cs=tinysrgb&w=150",
			PasswordHash: passwordHash,
		},
	}
}

func demoProjects(now time.Time) []leave.Project {
	ago := func(days int) time.Time { return now.AddDate(0, 0, -days) }
	return []leave.Project{
		{
			ID: "1", Name: "Website Redesign", MemberIDs: []string{"1", "2", "4"},
			Notes: "Complete overhaul of company website", CreatedAt: ago(30), UpdatedAt: ago(5),
		},
		{
			ID: "2", Name: "Mobile App Development", MemberIDs: []string{"1", "3", "5"},
			Notes: "New customer-facing mobile application", CreatedAt: ago(60), UpdatedAt: ago(2),
		},
		{
			ID: "3", Name: "Data Analytics Platform", MemberIDs: []string{"2", "3"},
			Notes: "Internal data visualization and reporting tool", CreatedAt: ago(45), UpdatedAt: ago(10),
		},
	}
}

func demoHolidays() []leave.Holiday {
	us := []struct{ name, date string }{
		{"New Year's Day", "2025-01-01"},
		{"Martin Luther King Jr. Day", "2025-01-20"},
		{"Presidents Day", "2025-02-17"},
		{"Memorial Day", "2025-05-26"},
		{"Independence Day", "2025-07-04"},
		{"Labor Day", "2025-09-01"},
		{"Veterans Day", "2025-11-11"},
		{"Thanksgiving Day", "2025-11-27"},
		{"Christmas Day", "2025-12-25"},
	}
	holidays := make([]leave.Holiday, len(us))
	for i, h := range us {
		holidays[i] = leave.Holiday{
			ID:      fmt.Sprintf("%d", i+1),
			Name:    h.name,
			Date:    leave.MustParseDate(h.date),
			Country: "US",
		}
	}
	return holidays
}

func demoLeaves(now time.Time) []leave.LeaveRequest {
	today := leave.DateOf(now)
	at := func(days int) time.Time { return now.AddDate(0, 0, days) }

	return []leave.LeaveRequest{
		{
			ID: "1", UserID: "2", Type: leave.LeaveAnnual,
			StartDate: today.AddDays(5), EndDate: today.AddDays(9),
			Reason: "Family vacation", Status: leave.StatusApproved,
			CreatedAt: at(-2), UpdatedAt: at(-1), ReviewedBy: "1",
		},
		{
			ID: "2", UserID: "2", Type: leave.LeaveAnnual,
			StartDate: today.AddDays(20), EndDate: today.AddDays(20), HalfDay: leave.HalfDayMorning,
			Reason: "Doctor appointment", Status: leave.StatusPending,
			CreatedAt: at(-1), UpdatedAt: at(-1),
		},
		{
			ID: "3", UserID: "3", Type: leave.LeaveAnnual,
			StartDate: today.AddDays(15), EndDate: today.AddDays(19),
			Reason: "Personal time off", Status: leave.StatusRejected,
			CreatedAt: at(-5), UpdatedAt: at(-3), ReviewedBy: "1",
			ReviewNote: "Critical project deadline during this period",
		},
		{
			ID: "4", UserID: "4", Type: leave.LeaveAnnual,
			StartDate: today.AddDays(10), EndDate: today.AddDays(10), HalfDay: leave.HalfDayAfternoon,
			Reason: "Family event", Status: leave.StatusApproved,
			CreatedAt: at(-4), UpdatedAt: at(-3), ReviewedBy: "1",
		},
		{
			ID: "5", UserID: "5", Type: leave.LeaveNormal,
			StartDate: today.AddDays(3), EndDate: today.AddDays(4),
			Reason: "Personal development workshop", Status: leave.StatusApproved,
			CreatedAt: at(-6), UpdatedAt: at(-5), ReviewedBy: "1",
		},
	}
}
