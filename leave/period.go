package leave

// =============================================================================
// SPAN - Inclusive range of calendar days
// =============================================================================

// Span is the inclusive range [Start, End] of calendar days. A leave
// request covers a Span; calendar views are computed over a Span.
type Span struct {
	Start Date
	End   Date
}

// MaxCalendarSpanDays bounds calendar queries to a bit over a year.
const MaxCalendarSpanDays = 366

// Contains returns true if d is within [Start, End].
func (s Span) Contains(d Date) bool {
	return d.AfterOrEqual(s.Start) && d.BeforeOrEqual(s.End)
}

// Len is the number of calendar days in the span, both ends included.
func (s Span) Len() int {
	return DaysBetween(s.Start, s.End) + 1
}

// Days returns every day of the span in order.
func (s Span) Days() []Date {
	var days []Date
	for current := s.Start; current.BeforeOrEqual(s.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

// Validate rejects spans that end before they start.
func (s Span) Validate() error {
	if s.Start.IsZero() {
		return &ValidationError{Field: "start_date", Message: "start date is required"}
	}
	if s.End.IsZero() {
		return &ValidationError{Field: "end_date", Message: "end date is required"}
	}
	if s.End.Before(s.Start) {
		return &ValidationError{Field: "end_date", Message: "end date cannot be before start date"}
	}
	return nil
}

func (s Span) String() string {
	return "[" + s.Start.String() + ", " + s.End.String() + "]"
}
