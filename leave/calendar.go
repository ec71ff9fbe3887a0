package leave

import (
	"context"
	"fmt"
	"slices"
)

// DayInfo annotates a single day for the acting user: their own leave in
// any status, approved leave of everyone sharing a project with them and
// the holidays of the configured country.
func (s *Service) DayInfo(ctx context.Context, actor Actor, date Date) (DayAnnotations, error) {
	days, err := s.Calendar(ctx, actor, Span{Start: date, End: date})
	if err != nil {
		return DayAnnotations{Date: date}, err
	}
	return days[0], nil
}

// Calendar is DayInfo for every day of span, loading the collections once.
func (s *Service) Calendar(ctx context.Context, actor Actor, span Span) ([]DayAnnotations, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := span.Validate(); err != nil {
		return nil, err
	}
	if n := span.Len(); n > MaxCalendarSpanDays {
		return nil, &ValidationError{
			Field:   "end_date",
			Message: fmt.Sprintf("calendar span of %d days exceeds %d", n, MaxCalendarSpanDays),
		}
	}

	projects, err := s.Repo.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	team := TeamMemberIDs(actor.UserID, projects)
	names, err := s.displayNames(ctx, team)
	if err != nil {
		return nil, err
	}

	requests, err := s.Repo.ListLeaves(ctx)
	if err != nil {
		return nil, err
	}
	holidays, err := s.companyHolidays(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]DayAnnotations, 0, span.Len())
	for _, day := range span.Days() {
		out = append(out, withNames(Annotate(day, actor.UserID, team, requests, holidays), names))
	}
	return out, nil
}

// ProjectDay is the project calendar: approved leave of the project's
// members on date, plus holidays. Nobody is treated as the viewer, so
// pending requests never show here.
func (s *Service) ProjectDay(ctx context.Context, actor Actor, projectID string, date Date) (DayAnnotations, error) {
	if err := requireActor(actor); err != nil {
		return DayAnnotations{}, err
	}
	if date.IsZero() {
		return DayAnnotations{}, &ValidationError{Field: "date", Message: "date is required"}
	}
	project, err := s.Repo.GetProject(ctx, projectID)
	if err != nil {
		return DayAnnotations{Date: date}, err
	}
	if err := requireProjectAccess(actor, project); err != nil {
		return DayAnnotations{Date: date}, err
	}
	names, err := s.displayNames(ctx, project.MemberIDs)
	if err != nil {
		return DayAnnotations{}, err
	}
	requests, err := s.Repo.ListLeaves(ctx)
	if err != nil {
		return DayAnnotations{}, err
	}
	holidays, err := s.companyHolidays(ctx)
	if err != nil {
		return DayAnnotations{}, err
	}
	return withNames(Annotate(date, "", project.MemberIDs, requests, holidays), names), nil
}

// displayNames maps each of ids that still has a user record to its full
// name.
func (s *Service) displayNames(ctx context.Context, ids []string) (map[string]string, error) {
	users, err := s.Repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(ids))
	for i := range users {
		if slices.Contains(ids, users[i].ID) {
			names[users[i].ID] = users[i].FullName()
		}
	}
	return names, nil
}

// withNames attaches the names of the owners of day's team leave.
func withNames(day DayAnnotations, names map[string]string) DayAnnotations {
	for _, r := range day.TeamLeaves {
		if name, ok := names[r.UserID]; ok {
			if day.UserNames == nil {
				day.UserNames = make(map[string]string)
			}
			day.UserNames[r.UserID] = name
		}
	}
	return day
}

func (s *Service) companyHolidays(ctx context.Context) ([]Holiday, error) {
	settings, err := s.Repo.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return s.Repo.ListHolidays(ctx, settings.Country)
}
