package leave

import (
	"context"
	"fmt"
	"sort"
)

// SubmitLeave files a new pending request. Members may only file for
// themselves; admins may file on anyone's behalf.
func (s *Service) SubmitLeave(ctx context.Context, actor Actor, in LeaveInput) (*LeaveRequest, error) {
	if err := requireSelfOrAdmin(actor, in.UserID); err != nil {
		return nil, err
	}
	r, err := NewLeaveRequest(s.NewID(), in, s.Now())
	if err != nil {
		return nil, err
	}
	if _, err := s.Repo.GetUser(ctx, in.UserID); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveLeave(ctx, *r); err != nil {
		return nil, fmt.Errorf("failed to save leave: %w", err)
	}

	s.Logger.InfoContext(ctx, "leave submitted",
		"leave_id", r.ID, "user_id", r.UserID, "type", r.Type,
		"start", r.StartDate.String(), "end", r.EndDate.String(), "half_day", r.HalfDay)
	return r, nil
}

// GetLeave returns a request to its owner or an admin.
func (s *Service) GetLeave(ctx context.Context, actor Actor, id string) (*LeaveRequest, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	r, err := s.Repo.GetLeave(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireSelfOrAdmin(actor, r.UserID); err != nil {
		return nil, err
	}
	return r, nil
}

// ListLeaves returns the user's requests, newest first.
func (s *Service) ListLeaves(ctx context.Context, actor Actor, userID string) ([]LeaveRequest, error) {
	if err := requireSelfOrAdmin(actor, userID); err != nil {
		return nil, err
	}
	if _, err := s.Repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	leaves, err := s.Repo.ListLeavesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(leaves, func(i, j int) bool {
		return leaves[i].CreatedAt.After(leaves[j].CreatedAt)
	})
	return leaves, nil
}

// ListPendingLeaves is the admin review queue, oldest first.
func (s *Service) ListPendingLeaves(ctx context.Context, actor Actor) ([]LeaveRequest, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	leaves, err := s.Repo.ListLeavesByStatus(ctx, StatusPending)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(leaves, func(i, j int) bool {
		return leaves[i].CreatedAt.Before(leaves[j].CreatedAt)
	})
	return leaves, nil
}

// ApproveLeave approves a pending request on behalf of the acting admin.
func (s *Service) ApproveLeave(ctx context.Context, actor Actor, id, note string) (*LeaveRequest, error) {
	return s.reviewLeave(ctx, actor, id, note, StatusApproved)
}

// RejectLeave rejects a pending request on behalf of the acting admin.
func (s *Service) RejectLeave(ctx context.Context, actor Actor, id, note string) (*LeaveRequest, error) {
	return s.reviewLeave(ctx, actor, id, note, StatusRejected)
}

func (s *Service) reviewLeave(ctx context.Context, actor Actor, id, note string, to Status) (*LeaveRequest, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	s.reviewMu.Lock()
	defer s.reviewMu.Unlock()

	r, err := s.Repo.GetLeave(ctx, id)
	if err != nil {
		return nil, err
	}

	if to == StatusApproved {
		err = r.Approve(actor.UserID, note, s.Now())
	} else {
		err = r.Reject(actor.UserID, note, s.Now())
	}
	if err != nil {
		s.Logger.WarnContext(ctx, "leave review refused", "leave_id", id, "status", r.Status, "to", to, "error", err)
		return nil, err
	}

	if err := s.Repo.SaveLeave(ctx, *r); err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}
	s.Logger.InfoContext(ctx, "leave reviewed", "leave_id", r.ID, "status", r.Status, "reviewer", actor.UserID)
	return r, nil
}

// Summary reports the user's leave counts and quota usage. An unknown user
// yields a zeroed Summary together with a NotFoundError.
func (s *Service) Summary(ctx context.Context, actor Actor, userID string) (Summary, error) {
	if err := requireSelfOrAdmin(actor, userID); err != nil {
		return Summary{}, err
	}
	user, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		return Summary{Used: ZeroDays(), Remaining: ZeroDays()}, err
	}
	leaves, err := s.Repo.ListLeavesByUser(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(user, leaves), nil
}
