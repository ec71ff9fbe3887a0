/*
Package leave provides the leave accounting engine and the use cases built on it.

PURPOSE:
  Tracks employees, their leave requests, the projects that group them into
  teams and the public holidays of the company's country. From those
  collections the engine derives per-user leave summaries and per-day
  calendar annotations (own leave, team leave, holidays).

KEY CONCEPTS IN THIS FILE (types.go):
  - Days: a fractional day quantity (half days are first-class)
  - User, LeaveRequest, Project, Holiday: the independent collections,
    related only by identifier
  - Settings: the process-wide country and default quota
  - Invite: a pending invitation for a new user

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal day amounts, so 5 - 0.5 is exactly 4.5
  2. Calendar days: start/end dates carry no time of day (see date.go)
  3. Single review: a request leaves "pending" exactly once (see request.go)

SEE ALSO:
  - accounting.go: Summaries and day annotations
  - store.go: Repository interface
  - service.go: Use cases with authorization
*/
package leave

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DAYS - Fractional day quantity
// =============================================================================

type Days struct {
	Value decimal.Decimal
}

var halfDay = decimal.NewFromFloat(0.5)

func NewDays(n float64) Days      { return Days{Value: decimal.NewFromFloat(n)} }
func NewDaysFromInt(n int) Days   { return Days{Value: decimal.NewFromInt(int64(n))} }
func ZeroDays() Days              { return Days{Value: decimal.Zero} }
func (d Days) Add(o Days) Days    { return Days{Value: d.Value.Add(o.Value)} }
func (d Days) Sub(o Days) Days    { return Days{Value: d.Value.Sub(o.Value)} }
func (d Days) Equal(o Days) bool  { return d.Value.Equal(o.Value) }
func (d Days) IsNegative() bool   { return d.Value.IsNegative() }
func (d Days) IsZero() bool       { return d.Value.IsZero() }
func (d Days) String() string     { return d.Value.String() }

// Float64 is for presentation only; accounting stays in decimal.
func (d Days) Float64() float64 {
	f, _ := d.Value.Float64()
	return f
}

// =============================================================================
// USERS
// =============================================================================

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleMember }

type User struct {
	ID               string
	FirstName        string
	LastName         string
	Email            string
	Role             Role
	JobDescription   string
	AnnualLeaveQuota int
	ProjectIDs       []string
	Notes            string
	ProfileImage     string

	// PasswordHash is a bcrypt hash; empty means the user cannot log in.
	PasswordHash string
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

type LeaveType string

const (
	// LeaveAnnual draws down the annual quota.
	LeaveAnnual LeaveType = "annual"
	// LeaveNormal does not touch the quota.
	LeaveNormal LeaveType = "normal"
)

func (t LeaveType) Valid() bool { return t == LeaveAnnual || t == LeaveNormal }

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// HalfDay marks a single-day request that only takes half the day.
type HalfDay string

const (
	HalfDayNone      HalfDay = ""
	HalfDayMorning   HalfDay = "morning"
	HalfDayAfternoon HalfDay = "afternoon"
)

func (h HalfDay) Valid() bool {
	return h == HalfDayNone || h == HalfDayMorning || h == HalfDayAfternoon
}

type LeaveRequest struct {
	ID        string
	UserID    string
	Type      LeaveType
	StartDate Date
	EndDate   Date
	HalfDay   HalfDay
	Reason    string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time

	// Review tracking, set together on approve/reject
	ReviewedBy string
	ReviewNote string
}

// Span is the inclusive day range the request covers.
func (r *LeaveRequest) Span() Span {
	return Span{Start: r.StartDate, End: r.EndDate}
}

// =============================================================================
// PROJECTS, HOLIDAYS, SETTINGS, INVITES
// =============================================================================

type Project struct {
	ID        string
	Name      string
	MemberIDs []string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasMember reports whether userID is on the project.
func (p *Project) HasMember(userID string) bool {
	for _, id := range p.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

type Holiday struct {
	ID      string
	Name    string
	Date    Date
	Country string
}

// Settings is the process-wide configuration editable by admins.
type Settings struct {
	Country                 string
	DefaultAnnualLeaveQuota int
}

// DefaultSettings are used when nothing else has been configured.
func DefaultSettings() Settings {
	return Settings{Country: "US", DefaultAnnualLeaveQuota: 20}
}

type Invite struct {
	ID        string
	Email     string
	Role      Role
	Token     string
	CreatedBy string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsValid reports whether the invite can still be redeemed at now.
func (i *Invite) IsValid(now time.Time) bool {
	return now.Before(i.ExpiresAt)
}
