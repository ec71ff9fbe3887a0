/*
scenarios_test.go - Tests for the demo scenarios

PURPOSE:
	Checks that each scenario leaves the repository in the expected state
	and that loading one over HTTP is an admin operation.
*/
package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leavetrack/leave"
)

func TestScenario_Demo(t *testing.T) {
	// GIVEN: The demo scenario loaded at a fixed date
	s := newTestServer(t)
	ctx := context.Background()
	repo := s.handler.Service.Repo

	// THEN: Five users on three projects, nine US holidays, five requests
	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 5)

	projects, err := repo.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 3)

	holidays, err := repo.ListHolidays(ctx, "US")
	require.NoError(t, err)
	assert.Len(t, holidays, 9)

	leaves, err := repo.ListLeaves(ctx)
	require.NoError(t, err)
	require.Len(t, leaves, 5)

	byStatus := map[leave.Status]int{}
	for _, l := range leaves {
		byStatus[l.Status]++
		assert.NoError(t, l.Span().Validate(), "leave %s", l.ID)
	}
	assert.Equal(t, 3, byStatus[leave.StatusApproved])
	assert.Equal(t, 1, byStatus[leave.StatusPending])
	assert.Equal(t, 1, byStatus[leave.StatusRejected])

	// Every project member and every user project exists
	for _, p := range projects {
		for _, id := range p.MemberIDs {
			_, err := repo.GetUser(ctx, id)
			assert.NoError(t, err, "project %s member %s", p.ID, id)
		}
	}
	for _, u := range users {
		for _, id := range u.ProjectIDs {
			_, err := repo.GetProject(ctx, id)
			assert.NoError(t, err, "user %s project %s", u.ID, id)
		}
	}
}

func TestScenario_Empty(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, s.handler.LoadScenarioAs(ctx, leave.System, "empty"))

	users, err := s.handler.Service.Repo.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, leave.RoleAdmin, users[0].Role)
	assert.Empty(t, users[0].ProjectIDs)

	leaves, err := s.handler.Service.Repo.ListLeaves(ctx)
	require.NoError(t, err)
	assert.Empty(t, leaves)
}

func TestScenario_Unknown(t *testing.T) {
	s := newTestServer(t)

	err := s.handler.LoadScenarioAs(context.Background(), leave.System, "nope")

	assert.ErrorIs(t, err, leave.ErrValidation)
}

func TestScenario_ResetsSettings(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	_, err := s.handler.Service.UpdateSettings(ctx, leave.System, leave.Settings{Country: "JP", DefaultAnnualLeaveQuota: 10})
	require.NoError(t, err)

	require.NoError(t, s.handler.LoadScenarioAs(ctx, leave.System, "demo"))

	settings, err := s.handler.Service.Repo.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, leave.DefaultSettings(), settings)
}

func TestScenario_HTTP(t *testing.T) {
	s := newTestServer(t)
	member := s.login("member@example.com")
	admin := s.login("admin@example.com")

	// Listing is public
	rec := s.do(http.MethodGet, "/api/scenarios", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]ScenarioDTO](t, rec), 2)

	rec = s.do(http.MethodGet, "/api/scenarios/current", member, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "demo", decode[ScenarioDTO](t, rec).ID)

	// Loading wipes data, so members may not
	rec = s.do(http.MethodPost, "/api/scenarios/load", member, LoadScenarioRequest{ScenarioID: "empty"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/scenarios/load", admin, LoadScenarioRequest{ScenarioID: "unknown"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/scenarios/load", admin, LoadScenarioRequest{ScenarioID: "empty"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/scenarios/current", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "empty", decode[ScenarioDTO](t, rec).ID)

	// The member account is gone
	rec = s.do(http.MethodPost, "/api/auth/login", "", LoginRequest{Email: "member@example.com", Password: DemoPassword})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
