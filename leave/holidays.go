package leave

import (
	"context"
	"fmt"
	"strings"
)

// HolidayInput describes a holiday to add. An empty Country means the
// company country from settings.
type HolidayInput struct {
	Name    string
	Date    Date
	Country string
}

// ListHolidays returns the holidays of country ordered by date, defaulting
// to the company country.
func (s *Service) ListHolidays(ctx context.Context, actor Actor, country string) ([]Holiday, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	country, err := s.resolveCountry(ctx, country)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListHolidays(ctx, country)
}

func (s *Service) CreateHoliday(ctx context.Context, actor Actor, in HolidayInput) (*Holiday, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "holiday name is required"}
	}
	if in.Date.IsZero() {
		return nil, &ValidationError{Field: "date", Message: "holiday date is required"}
	}
	country, err := s.resolveCountry(ctx, in.Country)
	if err != nil {
		return nil, err
	}

	h := Holiday{ID: s.NewID(), Name: in.Name, Date: in.Date, Country: country}
	if err := s.Repo.SaveHoliday(ctx, h); err != nil {
		return nil, fmt.Errorf("failed to save holiday: %w", err)
	}
	s.Logger.InfoContext(ctx, "holiday created", "holiday_id", h.ID, "date", h.Date.String(), "country", h.Country, "by", actor.UserID)
	return &h, nil
}

func (s *Service) DeleteHoliday(ctx context.Context, actor Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.Repo.DeleteHoliday(ctx, id); err != nil {
		return err
	}
	s.Logger.InfoContext(ctx, "holiday deleted", "holiday_id", id, "by", actor.UserID)
	return nil
}

func (s *Service) resolveCountry(ctx context.Context, country string) (string, error) {
	country = strings.ToUpper(strings.TrimSpace(country))
	if country == "" {
		settings, err := s.Repo.GetSettings(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to load settings: %w", err)
		}
		return settings.Country, nil
	}
	if !KnownCountry(country) {
		return "", &ValidationError{Field: "country", Message: fmt.Sprintf("unsupported country %q", country)}
	}
	return country, nil
}
