/*
handlers.go - HTTP API handlers for the leave tracker

PURPOSE:
  Exposes leave.Service via REST API. Handles HTTP request/response and
  JSON serialization, and delegates every decision to the service.

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Service: use cases with authorization
  - Auth/Tokens: login and token verification
  - Logger: structured logs for failures the access log cannot show

REQUEST FLOW:
  1. Parse HTTP request (path params, query, JSON body)
  2. Take the Actor set by Authenticate
  3. Call the service
  4. Serialize response
  5. Map errors to status codes

ERROR HANDLING:
  Errors are returned as JSON {"error", "details"} with status:
  - 400: Validation errors, malformed input
  - 401: Missing/invalid token, bad credentials
  - 403: Role does not allow the operation
  - 404: Record not found
  - 409: Invalid state transition (second review, half day on a range)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/leavetrack/auth"
	"github.com/warp/leavetrack/leave"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *leave.Service
	Auth    *auth.Authenticator
	Tokens  *auth.TokenIssuer
	Logger  *slog.Logger

	// Defaults are the settings scenarios reset to.
	Defaults leave.Settings

	AllowedOrigins []string
	Latency        time.Duration

	// Sweeper is reported by PruneInvites when set.
	Sweeper *InviteSweeper

	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a handler around svc. Login looks users up in the
// service's repository.
func NewHandler(svc *leave.Service, tokens *auth.TokenIssuer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{
		Service:        svc,
		Auth:           &auth.Authenticator{Users: svc.Repo, Tokens: tokens},
		Tokens:         tokens,
		Logger:         logger,
		Defaults:       leave.DefaultSettings(),
		AllowedOrigins: []string{"http://localhost:*"},
	}
}

// =============================================================================
// AUTH
// =============================================================================

// Login exchanges email and password for a bearer token.
// POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
		User:      toUserDTO(session.User),
	})
}

// Me returns the authenticated user.
// GET /api/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	user, err := h.Service.GetUser(r.Context(), actor, actor.UserID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// =============================================================================
// USERS
// =============================================================================

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers(r.Context(), actorFrom(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTOs(users))
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Service.GetUser(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in, err := userInput(req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	user, err := h.Service.CreateUser(r.Context(), actorFrom(r.Context()), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in, err := userInput(req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	user, err := h.Service.UpdateUser(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteUser(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSummary returns leave counts and quota usage for a user.
// GET /api/users/{id}/summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := actorFrom(ctx)
	userID := chi.URLParam(r, "id")

	summary, err := h.Service.Summary(ctx, actor, userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	user, err := h.Service.GetUser(ctx, actor, userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(user, summary))
}

func (h *Handler) ListUserLeaves(w http.ResponseWriter, r *http.Request) {
	leaves, err := h.Service.ListLeaves(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveDTOs(leaves))
}

func (h *Handler) ListUserProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Service.ProjectsForUser(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectDTOs(projects))
}

func userInput(req UserRequest) (leave.UserInput, error) {
	in := leave.UserInput{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Role:             leave.Role(req.Role),
		JobDescription:   req.JobDescription,
		AnnualLeaveQuota: req.AnnualLeaveQuota,
		ProjectIDs:       req.ProjectIDs,
		Notes:            req.Notes,
		ProfileImage:     req.ProfileImage,
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return in, err
		}
		in.PasswordHash = hash
	}
	return in, nil
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

// SubmitLeave files a leave request for the caller, or for user_id when the
// caller is an admin.
// POST /api/leaves
func (h *Handler) SubmitLeave(w http.ResponseWriter, r *http.Request) {
	var req SubmitLeaveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	actor := actorFrom(r.Context())
	if req.UserID == "" {
		req.UserID = actor.UserID
	}

	start, err := parseDateField("start_date", req.StartDate)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	end, err := parseDateField("end_date", req.EndDate)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	created, err := h.Service.SubmitLeave(r.Context(), actor, leave.LeaveInput{
		UserID:    req.UserID,
		Type:      leave.LeaveType(req.Type),
		StartDate: start,
		EndDate:   end,
		HalfDay:   leave.HalfDay(req.HalfDay),
		Reason:    req.Reason,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLeaveDTO(created))
}

func (h *Handler) GetLeave(w http.ResponseWriter, r *http.Request) {
	req, err := h.Service.GetLeave(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveDTO(req))
}

func (h *Handler) ListPendingLeaves(w http.ResponseWriter, r *http.Request) {
	leaves, err := h.Service.ListPendingLeaves(r.Context(), actorFrom(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveDTOs(leaves))
}

// ApproveLeave approves a pending request.
// POST /api/leaves/{id}/approve
func (h *Handler) ApproveLeave(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.Service.ApproveLeave)
}

// RejectLeave rejects a pending request.
// POST /api/leaves/{id}/reject
func (h *Handler) RejectLeave(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.Service.RejectLeave)
}

type reviewFunc func(ctx context.Context, actor leave.Actor, id, note string) (*leave.LeaveRequest, error)

func (h *Handler) review(w http.ResponseWriter, r *http.Request, fn reviewFunc) {
	var req ReviewRequest
	// The body is optional; a bare POST reviews without a note. Chunked
	// requests report no length, so emptiness is only known after reading.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}

	updated, err := fn(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id"), req.Note)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveDTO(updated))
}

// =============================================================================
// CALENDAR
// =============================================================================

// GetDay annotates one day for the caller.
// GET /api/calendar/day?date=2025-07-04
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateField("date", r.URL.Query().Get("date"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	day, err := h.Service.DayInfo(r.Context(), actorFrom(r.Context()), date)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDayDTO(day))
}

// GetCalendar annotates every day of an inclusive range for the caller.
// GET /api/calendar?from=2025-07-01&to=2025-07-31
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := parseDateField("from", q.Get("from"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	to, err := parseDateField("to", q.Get("to"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	days, err := h.Service.Calendar(r.Context(), actorFrom(r.Context()), leave.Span{Start: from, End: to})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	dtos := make([]DayDTO, len(days))
	for i, d := range days {
		dtos[i] = toDayDTO(d)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PROJECTS
// =============================================================================

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Service.ListProjects(r.Context(), actorFrom(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectDTOs(projects))
}

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.GetProject(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectDTO(p))
}

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.Service.CreateProject(r.Context(), actorFrom(r.Context()), leave.ProjectInput(req))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectDTO(p))
}

func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.Service.UpdateProject(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id"), leave.ProjectInput(req))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectDTO(p))
}

func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteProject(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListProjectMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.Service.ProjectMembers(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTOs(members))
}

// GetProjectDay is the project calendar for one day.
// GET /api/projects/{id}/calendar?date=2025-07-04
func (h *Handler) GetProjectDay(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateField("date", r.URL.Query().Get("date"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	day, err := h.Service.ProjectDay(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id"), date)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDayDTO(day))
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// ListHolidays returns holidays for ?country=, defaulting to the company
// country.
// GET /api/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Service.ListHolidays(r.Context(), actorFrom(r.Context()), r.URL.Query().Get("country"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	dtos := make([]HolidayDTO, len(holidays))
	for i := range holidays {
		dtos[i] = toHolidayDTO(&holidays[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req HolidayRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	date, err := parseDateField("date", req.Date)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	holiday, err := h.Service.CreateHoliday(r.Context(), actorFrom(r.Context()), leave.HolidayInput{
		Name:    req.Name,
		Date:    date,
		Country: req.Country,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHolidayDTO(holiday))
}

func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteHoliday(r.Context(), actorFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SETTINGS, COUNTRIES, INVITES
// =============================================================================

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Service.GetSettings(r.Context(), actorFrom(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(settings))
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	settings, err := h.Service.UpdateSettings(r.Context(), actorFrom(r.Context()), leave.Settings{
		Country:                 req.Country,
		DefaultAnnualLeaveQuota: req.DefaultAnnualLeaveQuota,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(settings))
}

func (h *Handler) ListCountries(w http.ResponseWriter, r *http.Request) {
	countries := leave.Countries()
	dtos := make([]CountryDTO, len(countries))
	for i, c := range countries {
		dtos[i] = CountryDTO{Code: c.Code, Name: c.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) ListInvites(w http.ResponseWriter, r *http.Request) {
	invites, err := h.Service.ListInvites(r.Context(), actorFrom(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	dtos := make([]InviteDTO, len(invites))
	for i := range invites {
		dtos[i] = toInviteDTO(&invites[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	var req InviteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	inv, err := h.Service.InviteUser(r.Context(), actorFrom(r.Context()), req.Email, leave.Role(req.Role))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInviteDTO(inv))
}

// PruneInvites deletes expired invites now instead of waiting for the sweeper.
// POST /api/invites/prune
func (h *Handler) PruneInvites(w http.ResponseWriter, r *http.Request) {
	removed, err := h.Service.PruneInvites(r.Context(), actorFrom(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp := PruneInvitesResponse{Removed: removed}
	if h.Sweeper != nil {
		if last := h.Sweeper.Status().LastRun; !last.IsZero() {
			resp.LastSweep = last.UTC().Format(time.RFC3339)
		}
		if next := h.Sweeper.NextRun(); !next.IsZero() {
			resp.NextSweep = next.UTC().Format(time.RFC3339)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeServiceError maps the leave error taxonomy onto HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, leave.ErrValidation):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	case errors.Is(err, leave.ErrForbidden):
		writeError(w, http.StatusForbidden, "Not allowed", err)
	case errors.Is(err, leave.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, leave.ErrInvalidStateTransition):
		writeError(w, http.StatusConflict, "Invalid state transition", err)
	case errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "Invalid or expired token", err)
	default:
		h.Logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

// decodeJSON reads the body into dst, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return false
	}
	return true
}

func parseDateField(field, value string) (leave.Date, error) {
	d, err := leave.ParseDate(value)
	if err != nil {
		var ve *leave.ValidationError
		if errors.As(err, &ve) {
			return d, &leave.ValidationError{Field: field, Message: ve.Message}
		}
		return d, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}
