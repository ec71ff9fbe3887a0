package leave

import (
	"context"
	"fmt"
	"strings"
)

// ProjectInput is the editable part of a project.
type ProjectInput struct {
	Name      string
	MemberIDs []string
	Notes     string
}

// ListProjects returns every project to admins and only their own
// projects to members.
func (s *Service) ListProjects(ctx context.Context, actor Actor) ([]Project, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	all, err := s.Repo.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		return all, nil
	}
	return membersOnly(all, actor.UserID), nil
}

// GetProject returns the project to admins and its members.
func (s *Service) GetProject(ctx context.Context, actor Actor, id string) (*Project, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	p, err := s.Repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireProjectAccess(actor, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ProjectsForUser lists the projects userID is a member of.
func (s *Service) ProjectsForUser(ctx context.Context, actor Actor, userID string) ([]Project, error) {
	if err := requireSelfOrAdmin(actor, userID); err != nil {
		return nil, err
	}
	if _, err := s.Repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	all, err := s.Repo.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	return membersOnly(all, userID), nil
}

func membersOnly(projects []Project, userID string) []Project {
	var mine []Project
	for i := range projects {
		if projects[i].HasMember(userID) {
			mine = append(mine, projects[i])
		}
	}
	return mine
}

// ProjectMembers resolves a project's member IDs to users. Members whose
// user record has since been deleted are skipped.
func (s *Service) ProjectMembers(ctx context.Context, actor Actor, projectID string) ([]User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	p, err := s.Repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := requireProjectAccess(actor, p); err != nil {
		return nil, err
	}
	members := make([]User, 0, len(p.MemberIDs))
	for _, id := range p.MemberIDs {
		u, err := s.Repo.GetUser(ctx, id)
		if IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		members = append(members, *u)
	}
	return members, nil
}

func (s *Service) CreateProject(ctx context.Context, actor Actor, in ProjectInput) (*Project, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	s.membershipMu.Lock()
	defer s.membershipMu.Unlock()

	in, err := s.checkProjectInput(ctx, in)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	p := Project{
		ID:        s.NewID(),
		Name:      in.Name,
		MemberIDs: in.MemberIDs,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.SaveProject(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}
	if err := s.syncProjectMembers(ctx, p.ID, p.MemberIDs); err != nil {
		return nil, err
	}
	s.Logger.InfoContext(ctx, "project created", "project_id", p.ID, "members", len(p.MemberIDs), "by", actor.UserID)
	return &p, nil
}

func (s *Service) UpdateProject(ctx context.Context, actor Actor, id string, in ProjectInput) (*Project, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	s.membershipMu.Lock()
	defer s.membershipMu.Unlock()

	p, err := s.Repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err = s.checkProjectInput(ctx, in)
	if err != nil {
		return nil, err
	}

	p.Name = in.Name
	p.MemberIDs = in.MemberIDs
	p.Notes = in.Notes
	p.UpdatedAt = s.Now()
	if err := s.Repo.SaveProject(ctx, *p); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}
	if err := s.syncProjectMembers(ctx, p.ID, p.MemberIDs); err != nil {
		return nil, err
	}
	s.Logger.InfoContext(ctx, "project updated", "project_id", p.ID, "by", actor.UserID)
	return p, nil
}

// DeleteProject removes the project and drops it from its members'
// project lists.
func (s *Service) DeleteProject(ctx context.Context, actor Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	s.membershipMu.Lock()
	defer s.membershipMu.Unlock()

	if err := s.Repo.DeleteProject(ctx, id); err != nil {
		return err
	}
	if err := s.syncProjectMembers(ctx, id, nil); err != nil {
		return err
	}
	s.Logger.InfoContext(ctx, "project deleted", "project_id", id, "by", actor.UserID)
	return nil
}

func (s *Service) checkProjectInput(ctx context.Context, in ProjectInput) (ProjectInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Notes = strings.TrimSpace(in.Notes)
	in.MemberIDs = dedupe(in.MemberIDs)
	if in.Name == "" {
		return in, &ValidationError{Field: "name", Message: "project name is required"}
	}
	for _, id := range in.MemberIDs {
		if _, err := s.Repo.GetUser(ctx, id); err != nil {
			return in, err
		}
	}
	return in, nil
}
