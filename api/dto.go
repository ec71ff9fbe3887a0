/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Domain types in the
  leave package carry no JSON tags; everything the dashboard sees is shaped
  here.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

WIRE FORMATS:
  - Calendar dates: "YYYY-MM-DD"
  - Timestamps: RFC 3339
  - Day amounts: JSON numbers (5.5), converted from leave.Days at the edge

VALIDATION:
  Validation is done by the leave service, not in DTOs. Request types only
  parse dates so a malformed one is reported against its own field.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/leavetrack/leave"
)

// =============================================================================
// AUTH
// =============================================================================

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expires_at"`
	User      UserDTO `json:"user"`
}

// =============================================================================
// USERS
// =============================================================================

type UserDTO struct {
	ID               string   `json:"id"`
	FirstName        string   `json:"first_name"`
	LastName         string   `json:"last_name"`
	Email            string   `json:"email"`
	Role             string   `json:"role"`
	JobDescription   string   `json:"job_description"`
	AnnualLeaveQuota int      `json:"annual_leave_quota"`
	ProjectIDs       []string `json:"project_ids"`
	Notes            string   `json:"notes,omitempty"`
	ProfileImage     string   `json:"profile_image,omitempty"`
}

// UserRequest creates or updates a user. Omitting annual_leave_quota uses
// the default quota on create and keeps the current one on update.
type UserRequest struct {
	FirstName        string   `json:"first_name"`
	LastName         string   `json:"last_name"`
	Email            string   `json:"email"`
	Role             string   `json:"role"`
	JobDescription   string   `json:"job_description"`
	AnnualLeaveQuota *int     `json:"annual_leave_quota"`
	ProjectIDs       []string `json:"project_ids"`
	Notes            string   `json:"notes"`
	ProfileImage     string   `json:"profile_image"`
	Password         string   `json:"password,omitempty"`
}

type SummaryDTO struct {
	UserID    string  `json:"user_id"`
	Quota     int     `json:"annual_leave_quota"`
	Approved  int     `json:"approved"`
	Rejected  int     `json:"rejected"`
	Pending   int     `json:"pending"`
	Total     int     `json:"total"`
	Used      float64 `json:"used_days"`
	Remaining float64 `json:"remaining_days"`
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

type LeaveDTO struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	Type       string  `json:"type"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	HalfDay    string  `json:"half_day,omitempty"`
	Days       float64 `json:"days"`
	Reason     string  `json:"reason"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
	ReviewedBy string  `json:"reviewed_by,omitempty"`
	ReviewNote string  `json:"review_note,omitempty"`
}

// SubmitLeaveRequest files a leave request. UserID defaults to the caller.
type SubmitLeaveRequest struct {
	UserID    string `json:"user_id"`
	Type      string `json:"type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	HalfDay   string `json:"half_day"`
	Reason    string `json:"reason"`
}

type ReviewRequest struct {
	Note string `json:"note"`
}

// =============================================================================
// CALENDAR
// =============================================================================

type DayDTO struct {
	Date         string         `json:"date"`
	IsHoliday    bool           `json:"is_holiday"`
	HolidayNames []string       `json:"holiday_names"`
	OwnLeaves    []LeaveDTO     `json:"own_leaves"`
	TeamLeaves   []TeamLeaveDTO `json:"team_leaves"`
}

// TeamLeaveDTO is a teammate's leave with the owner's name, so calendars
// can label it without reading the user directory.
type TeamLeaveDTO struct {
	LeaveDTO
	UserName string `json:"user_name"`
}

// =============================================================================
// PROJECTS, HOLIDAYS, SETTINGS, INVITES
// =============================================================================

type ProjectDTO struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	MemberIDs []string `json:"member_ids"`
	Notes     string   `json:"notes,omitempty"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

type ProjectRequest struct {
	Name      string   `json:"name"`
	MemberIDs []string `json:"member_ids"`
	Notes     string   `json:"notes"`
}

type HolidayDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Date    string `json:"date"`
	Country string `json:"country"`
}

type HolidayRequest struct {
	Name    string `json:"name"`
	Date    string `json:"date"`
	Country string `json:"country"`
}

type SettingsDTO struct {
	Country                 string `json:"country"`
	CountryName             string `json:"country_name"`
	DefaultAnnualLeaveQuota int    `json:"default_annual_leave_quota"`
}

type SettingsRequest struct {
	Country                 string `json:"country"`
	DefaultAnnualLeaveQuota int    `json:"default_annual_leave_quota"`
}

type CountryDTO struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type InviteDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Token     string `json:"token"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
	ExpiresAt string `json:"expires_at"`
}

type InviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type PruneInvitesResponse struct {
	Removed   int    `json:"removed"`
	LastSweep string `json:"last_sweep,omitempty"`
	NextSweep string `json:"next_sweep,omitempty"`
}

// =============================================================================
// SCENARIOS & ERRORS
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toUserDTO(u *leave.User) UserDTO {
	projectIDs := u.ProjectIDs
	if projectIDs == nil {
		projectIDs = []string{}
	}
	return UserDTO{
		ID:               u.ID,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Email:            u.Email,
		Role:             string(u.Role),
		JobDescription:   u.JobDescription,
		AnnualLeaveQuota: u.AnnualLeaveQuota,
		ProjectIDs:       projectIDs,
		Notes:            u.Notes,
		ProfileImage:     u.ProfileImage,
	}
}

func toUserDTOs(users []leave.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = toUserDTO(&users[i])
	}
	return dtos
}

func toLeaveDTO(r *leave.LeaveRequest) LeaveDTO {
	return LeaveDTO{
		ID:         r.ID,
		UserID:     r.UserID,
		Type:       string(r.Type),
		StartDate:  r.StartDate.String(),
		EndDate:    r.EndDate.String(),
		HalfDay:    string(r.HalfDay),
		Days:       leave.ChargedDays(r).Float64(),
		Reason:     r.Reason,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  r.UpdatedAt.UTC().Format(time.RFC3339),
		ReviewedBy: r.ReviewedBy,
		ReviewNote: r.ReviewNote,
	}
}

func toLeaveDTOs(requests []leave.LeaveRequest) []LeaveDTO {
	dtos := make([]LeaveDTO, len(requests))
	for i := range requests {
		dtos[i] = toLeaveDTO(&requests[i])
	}
	return dtos
}

func toSummaryDTO(user *leave.User, s leave.Summary) SummaryDTO {
	return SummaryDTO{
		UserID:    user.ID,
		Quota:     user.AnnualLeaveQuota,
		Approved:  s.Approved,
		Rejected:  s.Rejected,
		Pending:   s.Pending,
		Total:     s.Total,
		Used:      s.Used.Float64(),
		Remaining: s.Remaining.Float64(),
	}
}

func toDayDTO(d leave.DayAnnotations) DayDTO {
	names := d.HolidayNames
	if names == nil {
		names = []string{}
	}
	return DayDTO{
		Date:         d.Date.String(),
		IsHoliday:    d.IsHoliday,
		HolidayNames: names,
		OwnLeaves:    toLeaveDTOs(d.OwnLeaves),
		TeamLeaves:   toTeamLeaveDTOs(d.TeamLeaves, d.UserNames),
	}
}

func toTeamLeaveDTOs(leaves []leave.LeaveRequest, names map[string]string) []TeamLeaveDTO {
	dtos := make([]TeamLeaveDTO, len(leaves))
	for i := range leaves {
		dtos[i] = TeamLeaveDTO{LeaveDTO: toLeaveDTO(&leaves[i]), UserName: names[leaves[i].UserID]}
	}
	return dtos
}

func toProjectDTO(p *leave.Project) ProjectDTO {
	members := p.MemberIDs
	if members == nil {
		members = []string{}
	}
	return ProjectDTO{
		ID:        p.ID,
		Name:      p.Name,
		MemberIDs: members,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toProjectDTOs(projects []leave.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i := range projects {
		dtos[i] = toProjectDTO(&projects[i])
	}
	return dtos
}

func toHolidayDTO(h *leave.Holiday) HolidayDTO {
	return HolidayDTO{ID: h.ID, Name: h.Name, Date: h.Date.String(), Country: h.Country}
}

func toSettingsDTO(s leave.Settings) SettingsDTO {
	return SettingsDTO{
		Country:                 s.Country,
		CountryName:             leave.CountryName(s.Country),
		DefaultAnnualLeaveQuota: s.DefaultAnnualLeaveQuota,
	}
}

func toInviteDTO(inv *leave.Invite) InviteDTO {
	return InviteDTO{
		ID:        inv.ID,
		Email:     inv.Email,
		Role:      string(inv.Role),
		Token:     inv.Token,
		CreatedBy: inv.CreatedBy,
		CreatedAt: inv.CreatedAt.UTC().Format(time.RFC3339),
		ExpiresAt: inv.ExpiresAt.UTC().Format(time.RFC3339),
	}
}
