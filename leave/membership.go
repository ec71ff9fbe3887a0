package leave

import (
	"context"
	"fmt"
	"slices"
)

// Membership is stored on both sides: User.ProjectIDs and Project.MemberIDs.
// Whichever side an admin edits, the other is rewritten to match before the
// call returns. Writers hold Service.membershipMu.

// syncUserProjects makes userID a member of exactly the projects in
// projectIDs. A nil list removes the user from every project.
func (s *Service) syncUserProjects(ctx context.Context, userID string, projectIDs []string) error {
	projects, err := s.Repo.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}
	for _, p := range projects {
		want := slices.Contains(projectIDs, p.ID)
		if p.HasMember(userID) == want {
			continue
		}
		if want {
			p.MemberIDs = append(p.MemberIDs, userID)
		} else {
			p.MemberIDs = without(p.MemberIDs, userID)
		}
		p.UpdatedAt = s.Now()
		if err := s.Repo.SaveProject(ctx, p); err != nil {
			return fmt.Errorf("failed to update members of project %s: %w", p.ID, err)
		}
	}
	return nil
}

// syncProjectMembers makes exactly memberIDs list projectID among their
// projects. A nil list removes the project from every user.
func (s *Service) syncProjectMembers(ctx context.Context, projectID string, memberIDs []string) error {
	users, err := s.Repo.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	for _, u := range users {
		want := slices.Contains(memberIDs, u.ID)
		if slices.Contains(u.ProjectIDs, projectID) == want {
			continue
		}
		if want {
			u.ProjectIDs = append(u.ProjectIDs, projectID)
		} else {
			u.ProjectIDs = without(u.ProjectIDs, projectID)
		}
		if err := s.Repo.SaveUser(ctx, u); err != nil {
			return fmt.Errorf("failed to update projects of user %s: %w", u.ID, err)
		}
	}
	return nil
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
