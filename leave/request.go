/*
request.go - Leave request validation and review lifecycle

REQUEST FLOW:
  ┌───────────────────────────────────────────────────────────┐
  │                                                           │
  │  User submits ──▶ Validate ──▶ pending ──▶ Approve ──▶ approved
  │                                   │                       │
  │                                   └──────▶ Reject  ──▶ rejected
  │                                                           │
  └───────────────────────────────────────────────────────────┘

  approved and rejected are terminal. A second review of the same request
  fails with a TransitionError and leaves the request untouched.

HALF DAYS:
  A half-day marker is only meaningful on a single-day request. Putting one
  on a multi-day request is reported as an invalid transition, not a plain
  validation error, because the request could never enter pending.

SEE ALSO:
  - accounting.go: How approved requests count against the quota
  - service.go: SubmitLeave, ApproveLeave, RejectLeave
*/
package leave

import (
	"strings"
	"time"
)

// LeaveInput is what a user fills in when asking for leave.
type LeaveInput struct {
	UserID    string
	Type      LeaveType
	StartDate Date
	EndDate   Date
	HalfDay   HalfDay
	Reason    string
}

// Validate checks the input without touching any store.
func (in LeaveInput) Validate() error {
	if strings.TrimSpace(in.UserID) == "" {
		return &ValidationError{Field: "user_id", Message: "user is required"}
	}
	if !in.Type.Valid() {
		return &ValidationError{Field: "type", Message: "type must be annual or normal"}
	}
	span := Span{Start: in.StartDate, End: in.EndDate}
	if err := span.Validate(); err != nil {
		return err
	}
	if !in.HalfDay.Valid() {
		return &ValidationError{Field: "half_day", Message: "half_day must be morning, afternoon or empty"}
	}
	if in.HalfDay != HalfDayNone && !in.StartDate.Equal(in.EndDate) {
		return &TransitionError{
			To:     StatusPending,
			Reason: "half-day leave must start and end on the same day",
		}
	}
	return nil
}

// NewLeaveRequest validates the input and returns a pending request.
func NewLeaveRequest(id string, in LeaveInput, at time.Time) (*LeaveRequest, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &LeaveRequest{
		ID:        id,
		UserID:    in.UserID,
		Type:      in.Type,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		HalfDay:   in.HalfDay,
		Reason:    strings.TrimSpace(in.Reason),
		Status:    StatusPending,
		CreatedAt: at,
		UpdatedAt: at,
	}, nil
}

// Approve moves a pending request to approved.
func (r *LeaveRequest) Approve(reviewerID, note string, at time.Time) error {
	return r.review(StatusApproved, reviewerID, note, at)
}

// Reject moves a pending request to rejected.
func (r *LeaveRequest) Reject(reviewerID, note string, at time.Time) error {
	return r.review(StatusRejected, reviewerID, note, at)
}

func (r *LeaveRequest) review(to Status, reviewerID, note string, at time.Time) error {
	if r.Status != StatusPending {
		return &TransitionError{RequestID: r.ID, From: r.Status, To: to}
	}
	if strings.TrimSpace(reviewerID) == "" {
		return &ValidationError{Field: "reviewed_by", Message: "reviewer is required"}
	}

	r.Status = to
	r.ReviewedBy = reviewerID
	r.ReviewNote = strings.TrimSpace(note)
	r.UpdatedAt = at
	return nil
}
