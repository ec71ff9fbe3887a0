package leave_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leavetrack/leave"
)

func validInput() leave.LeaveInput {
	return leave.LeaveInput{
		UserID:    "u1",
		Type:      leave.LeaveAnnual,
		StartDate: date("2025-07-07"),
		EndDate:   date("2025-07-11"),
		Reason:    "  Summer  ",
	}
}

func TestNewLeaveRequest_Pending(t *testing.T) {
	r, err := leave.NewLeaveRequest("l1", validInput(), created)
	require.NoError(t, err)

	assert.Equal(t, leave.StatusPending, r.Status)
	assert.Equal(t, "Summer", r.Reason)
	assert.Equal(t, created, r.CreatedAt)
	assert.Equal(t, created, r.UpdatedAt)
	assert.Empty(t, r.ReviewedBy)
}

func TestLeaveInput_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*leave.LeaveInput)
		field  string
	}{
		{"missing user", func(in *leave.LeaveInput) { in.UserID = " " }, "user_id"},
		{"unknown type", func(in *leave.LeaveInput) { in.Type = "sabbatical" }, "type"},
		{"missing start", func(in *leave.LeaveInput) { in.StartDate = leave.Date{} }, "start_date"},
		{"missing end", func(in *leave.LeaveInput) { in.EndDate = leave.Date{} }, "end_date"},
		{"end before start", func(in *leave.LeaveInput) { in.EndDate = date("2025-07-06") }, "end_date"},
		{"bad half day", func(in *leave.LeaveInput) {
			in.EndDate = in.StartDate
			in.HalfDay = "evening"
		}, "half_day"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			err := in.Validate()

			var ve *leave.ValidationError
			require.True(t, errors.As(err, &ve), "want ValidationError, got %v", err)
			assert.Equal(t, tt.field, ve.Field)
			assert.ErrorIs(t, err, leave.ErrValidation)
		})
	}
}

func TestLeaveInput_HalfDayOnRangeIsInvalidTransition(t *testing.T) {
	// GIVEN: A five-day request marked as a morning half day
	in := validInput()
	in.HalfDay = leave.HalfDayMorning

	// WHEN
	r, err := leave.NewLeaveRequest("l1", in, created)

	// THEN
	assert.Nil(t, r)
	assert.ErrorIs(t, err, leave.ErrInvalidStateTransition)
	assert.Contains(t, err.Error(), "same day")
}

func TestLeaveInput_HalfDaySingleDay(t *testing.T) {
	in := validInput()
	in.EndDate = in.StartDate
	in.HalfDay = leave.HalfDayAfternoon

	assert.NoError(t, in.Validate())
}

func TestApprove_SetsReviewFields(t *testing.T) {
	// GIVEN: A pending request
	r, err := leave.NewLeaveRequest("l1", validInput(), created)
	require.NoError(t, err)
	reviewedAt := created.Add(2 * time.Hour)

	// WHEN: An admin approves it
	require.NoError(t, r.Approve("admin", " enjoy ", reviewedAt))

	// THEN
	assert.Equal(t, leave.StatusApproved, r.Status)
	assert.Equal(t, "admin", r.ReviewedBy)
	assert.Equal(t, "enjoy", r.ReviewNote)
	assert.Equal(t, reviewedAt, r.UpdatedAt)
	assert.Equal(t, created, r.CreatedAt)
}

func TestReview_OnlyOnce(t *testing.T) {
	for _, first := range []leave.Status{leave.StatusApproved, leave.StatusRejected} {
		for _, second := range []leave.Status{leave.StatusApproved, leave.StatusRejected} {
			t.Run(string(first)+"_then_"+string(second), func(t *testing.T) {
				// GIVEN: A request that has already been reviewed
				r, err := leave.NewLeaveRequest("l1", validInput(), created)
				require.NoError(t, err)
				require.NoError(t, review(r, first, "admin", "first", created.Add(time.Hour)))
				before := *r

				// WHEN: It is reviewed again
				err = review(r, second, "other-admin", "second", created.Add(2*time.Hour))

				// THEN: The transition is refused and nothing changes
				var te *leave.TransitionError
				require.True(t, errors.As(err, &te))
				assert.Equal(t, first, te.From)
				assert.Equal(t, second, te.To)
				assert.Equal(t, before, *r)
			})
		}
	}
}

func TestReview_RequiresReviewer(t *testing.T) {
	r, err := leave.NewLeaveRequest("l1", validInput(), created)
	require.NoError(t, err)

	err = r.Reject("", "no", created)

	assert.ErrorIs(t, err, leave.ErrValidation)
	assert.Equal(t, leave.StatusPending, r.Status)
}

func review(r *leave.LeaveRequest, to leave.Status, reviewer, note string, at time.Time) error {
	if to == leave.StatusApproved {
		return r.Approve(reviewer, note, at)
	}
	return r.Reject(reviewer, note, at)
}
