package domain

import "time"

// Status is a lead's call-pipeline status. The set is closed: every
// status the system writes is one of the constants below. Values read
// from upstream imports may fall outside the set; the classifier puts
// those in the residual "old" bucket.
type Status string

const (
	StatusNew           Status = "NEW"
	StatusDNR1          Status = "DNR1"
	StatusDNR2          Status = "DNR2"
	StatusDNR3          Status = "DNR3"
	StatusDNR4          Status = "DNR4"
	StatusCutCall       Status = "Cut Call"
	StatusCallBack      Status = "Call Back"
	StatusNotInterested Status = "Not Interested"
	StatusDenied        Status = "Denied"
	StatusConverted     Status = "Converted"
)

// activeStatuses are the non-terminal call-pipeline buckets. The order is
// the sidebar display order.
var activeStatuses = []Status{
	StatusNew,
	StatusDNR1,
	StatusDNR2,
	StatusDNR3,
	StatusDNR4,
	StatusCutCall,
	StatusCallBack,
}

// terminalStatuses end the lifecycle: no outgoing transitions.
var terminalStatuses = []Status{
	StatusConverted,
	StatusNotInterested,
	StatusDenied,
}

// callOutcomeStatuses are the statuses that record a finished contact
// attempt; transitioning into one of them bumps the lead's retry count.
var callOutcomeStatuses = map[Status]struct{}{
	StatusDNR1:     {},
	StatusDNR2:     {},
	StatusDNR3:     {},
	StatusDNR4:     {},
	StatusCutCall:  {},
	StatusCallBack: {},
}

var knownStatuses = buildKnownStatuses()

func buildKnownStatuses() map[Status]struct{} {
	known := make(map[Status]struct{}, len(activeStatuses)+len(terminalStatuses))
	for _, s := range activeStatuses {
		known[s] = struct{}{}
	}
	for _, s := range terminalStatuses {
		known[s] = struct{}{}
	}
	return known
}

// AllStatuses returns the closed status set in display order.
func AllStatuses() []Status {
	all := make([]Status, 0, len(activeStatuses)+len(terminalStatuses))
	all = append(all, activeStatuses...)
	all = append(all, terminalStatuses...)
	return all
}

// IsKnownStatus reports whether s belongs to the closed set.
func IsKnownStatus(s Status) bool {
	_, ok := knownStatuses[s]
	return ok
}

// IsTerminal reports whether s ends the lead lifecycle. A lead's
// is_active flag is false exactly when its status is terminal.
func IsTerminal(s Status) bool {
	for _, t := range terminalStatuses {
		if s == t {
			return true
		}
	}
	return false
}

// IsCallOutcome reports whether s records a finished contact attempt.
func IsCallOutcome(s Status) bool {
	_, ok := callOutcomeStatuses[s]
	return ok
}

// Category is a sidebar/filter bucket over the lead collection. Unlike
// Status, categories may overlap (followUpDue cuts across statuses) and
// some are grouped views over several statuses.
type Category string

const (
	CategoryNew         Category = "new"
	CategoryOld         Category = "old"
	CategoryDNR1        Category = "dnr1"
	CategoryDNR2        Category = "dnr2"
	CategoryDNR3        Category = "dnr3"
	CategoryDNR4        Category = "dnr4"
	CategoryCutCall     Category = "cutCall"
	CategoryCallBack    Category = "callBack"
	CategoryNoAnswer    Category = "noAnswer" // grouped: Cut Call + Call Back
	CategoryFollowUpDue Category = "followUpDue"
	CategoryConverted   Category = "converted"
	CategoryTerminated  Category = "terminated" // Not Interested + Denied
	CategoryClosed      Category = "closed"     // terminated + Converted
)

// AllCategories returns every category in display order.
func AllCategories() []Category {
	return []Category{
		CategoryNew, CategoryOld,
		CategoryDNR1, CategoryDNR2, CategoryDNR3, CategoryDNR4,
		CategoryCutCall, CategoryCallBack, CategoryNoAnswer,
		CategoryFollowUpDue,
		CategoryConverted, CategoryTerminated, CategoryClosed,
	}
}

// IsKnownCategory reports whether c is a recognized filter key.
func IsKnownCategory(c Category) bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// Matches reports whether the lead falls into the category at the given
// wall-clock time. Predicates are pure and deterministic given their
// inputs.
func (c Category) Matches(lead Lead, now time.Time) bool {
	switch c {
	case CategoryNew:
		return lead.Status == StatusNew
	case CategoryOld:
		// Residual bucket: anything outside the closed set. Derived as
		// the complement of known statuses so adding a status constant
		// can never silently miscategorize a lead.
		return !IsKnownStatus(lead.Status)
	case CategoryDNR1:
		return lead.Status == StatusDNR1
	case CategoryDNR2:
		return lead.Status == StatusDNR2
	case CategoryDNR3:
		return lead.Status == StatusDNR3
	case CategoryDNR4:
		return lead.Status == StatusDNR4
	case CategoryCutCall:
		return lead.Status == StatusCutCall
	case CategoryCallBack:
		return lead.Status == StatusCallBack
	case CategoryNoAnswer:
		return lead.Status == StatusCutCall || lead.Status == StatusCallBack
	case CategoryFollowUpDue:
		// A follow-up due exactly now counts as due, not upcoming.
		return lead.NextFollowUpAt != nil && !lead.NextFollowUpAt.After(now)
	case CategoryConverted:
		return lead.Status == StatusConverted
	case CategoryTerminated:
		return lead.Status == StatusNotInterested || lead.Status == StatusDenied
	case CategoryClosed:
		return IsTerminal(lead.Status)
	default:
		return false
	}
}

// CountByCategory produces the per-category counts driving the sidebar.
func CountByCategory(leads []Lead, now time.Time) map[Category]int {
	counts := make(map[Category]int, len(AllCategories()))
	for _, c := range AllCategories() {
		counts[c] = 0
	}
	for _, lead := range leads {
		for _, c := range AllCategories() {
			if c.Matches(lead, now) {
				counts[c]++
			}
		}
	}
	return counts
}

// FilterByCategory returns the subset of leads matching the category.
// An empty category returns the input unchanged. The input slice is
// never mutated.
func FilterByCategory(leads []Lead, category Category, now time.Time) []Lead {
	if category == "" {
		return leads
	}

	filtered := make([]Lead, 0, len(leads))
	for _, lead := range leads {
		if category.Matches(lead, now) {
			filtered = append(filtered, lead)
		}
	}
	return filtered
}
