/*
accounting.go - Leave summaries and calendar annotations

PURPOSE:
  The pure core of the engine. Every function here reads the collections it
  is given and returns derived figures; nothing is mutated and nothing is
  loaded, so the same inputs always give the same output.

USED DAYS:
  Only approved annual leave counts. Each request contributes its inclusive
  calendar span (end - start + 1), minus half a day if it carries a half-day
  marker. Weekends and holidays inside the span are counted; the quota is in
  calendar days.

    quota 20, approved annual Mon..Fri           → used 5,   remaining 15
    + approved annual half day (morning)         → used 5.5, remaining 14.5

TEAM LEAVE:
  Teammates are the other members of every project the viewer belongs to.
  Only their approved requests are ever surfaced; pending and rejected
  requests stay private to their owner and the admins.

SEE ALSO:
  - request.go: How requests become approved
  - calendar.go: Service-level calendar views built on Annotate
*/
package leave

// =============================================================================
// SUMMARY
// =============================================================================

// Summary is the per-user leave report shown on the dashboard.
type Summary struct {
	Approved  int
	Rejected  int
	Pending   int
	Total     int
	Used      Days
	Remaining Days
}

// Summarize counts the user's requests by status and computes used and
// remaining annual leave. Requests owned by other users are ignored.
func Summarize(user *User, requests []LeaveRequest) Summary {
	summary := Summary{Used: ZeroDays()}

	for i := range requests {
		r := &requests[i]
		if r.UserID != user.ID {
			continue
		}
		switch r.Status {
		case StatusApproved:
			summary.Approved++
			if r.Type == LeaveAnnual {
				summary.Used = summary.Used.Add(ChargedDays(r))
			}
		case StatusRejected:
			summary.Rejected++
		case StatusPending:
			summary.Pending++
		}
	}

	summary.Total = summary.Approved + summary.Rejected + summary.Pending
	summary.Remaining = NewDaysFromInt(user.AnnualLeaveQuota).Sub(summary.Used)
	return summary
}

// ChargedDays is what a request would take off the quota if it were an
// approved annual request: the inclusive span, minus half a day for a
// half-day marker.
func ChargedDays(r *LeaveRequest) Days {
	days := NewDaysFromInt(r.Span().Len())
	if r.HalfDay != HalfDayNone {
		days = Days{Value: days.Value.Sub(halfDay)}
	}
	return days
}

// =============================================================================
// OVERLAP
// =============================================================================

// OverlapsDate reports whether date falls within the request's inclusive
// [StartDate, EndDate]. Dates are calendar days, so time of day never
// affects the answer.
func OverlapsDate(r *LeaveRequest, date Date) bool {
	return r.Span().Contains(date)
}

// =============================================================================
// DAY ANNOTATIONS
// =============================================================================

// DayAnnotations is everything the calendar shows for one day.
type DayAnnotations struct {
	Date         Date
	IsHoliday    bool
	HolidayNames []string
	OwnLeaves    []LeaveRequest
	TeamLeaves   []LeaveRequest

	// UserNames holds the display name of each TeamLeaves owner. Annotate
	// leaves it empty; the service fills it in.
	UserNames map[string]string
}

// Annotate builds the calendar entry for date.
//
// holidays must already be filtered to the relevant country. OwnLeaves holds
// the viewer's requests in any status. TeamLeaves holds approved requests of
// relevantUserIDs, never the viewer's, with each user considered once even
// if listed several times.
func Annotate(date Date, viewerID string, relevantUserIDs []string, requests []LeaveRequest, holidays []Holiday) DayAnnotations {
	day := DayAnnotations{Date: date}

	for _, h := range holidays {
		if h.Date.Equal(date) {
			day.IsHoliday = true
			day.HolidayNames = append(day.HolidayNames, h.Name)
		}
	}

	team := make(map[string]bool, len(relevantUserIDs))
	for _, id := range relevantUserIDs {
		if id != viewerID {
			team[id] = true
		}
	}

	for i := range requests {
		r := &requests[i]
		if !OverlapsDate(r, date) {
			continue
		}
		switch {
		case viewerID != "" && r.UserID == viewerID:
			day.OwnLeaves = append(day.OwnLeaves, *r)
		case team[r.UserID] && r.Status == StatusApproved:
			day.TeamLeaves = append(day.TeamLeaves, *r)
		}
	}

	return day
}

// TeamMemberIDs returns the distinct members of every project userID is on,
// excluding userID itself, in first-seen order.
func TeamMemberIDs(userID string, projects []Project) []string {
	seen := map[string]bool{userID: true}
	var ids []string
	for i := range projects {
		p := &projects[i]
		if !p.HasMember(userID) {
			continue
		}
		for _, id := range p.MemberIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}
