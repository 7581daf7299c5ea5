package models

import "strings"

type ApplicationStatus string

const (
	StatusPending            ApplicationStatus = "PENDING"
	StatusLinked             ApplicationStatus = "LINKED"
	StatusTestScheduled      ApplicationStatus = "TEST_SCHEDULED"
	StatusInterviewScheduled ApplicationStatus = "INTERVIEW_SCHEDULED"
	StatusOnHold             ApplicationStatus = "ON_HOLD"
	StatusHired              ApplicationStatus = "HIRED"
	StatusOfferSent          ApplicationStatus = "OFFER_SENT"
	StatusRejected           ApplicationStatus = "REJECTED"
)

// allowedTransitions is the legality table for application status changes.
// TEST_SCHEDULED and INTERVIEW_SCHEDULED allow self-transitions because a
// round resize re-enters the same status. REJECTED is terminal.
var allowedTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusPending: {StatusLinked, StatusTestScheduled, StatusInterviewScheduled, StatusRejected, StatusOnHold},
	StatusLinked:  {StatusTestScheduled, StatusInterviewScheduled, StatusRejected, StatusOnHold},
	StatusTestScheduled: {
		StatusTestScheduled, StatusInterviewScheduled, StatusHired, StatusRejected, StatusOnHold,
	},
	StatusInterviewScheduled: {
		StatusInterviewScheduled, StatusTestScheduled, StatusHired, StatusRejected, StatusOnHold,
	},
	StatusOnHold:    {StatusOnHold, StatusTestScheduled, StatusInterviewScheduled, StatusHired, StatusOfferSent, StatusRejected},
	StatusHired:     {StatusOfferSent, StatusOnHold, StatusRejected},
	StatusOfferSent: {StatusOnHold, StatusRejected},
	StatusRejected:  {},
}

func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	st := ApplicationStatus(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := allowedTransitions[st]
	return st, ok
}

func CanTransition(from, to ApplicationStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Round status labels. The column is free-form text; these are the values the
// orchestrator itself writes.
const (
	RoundStatusScheduled = "SCHEDULED"
	RoundStatusCompleted = "COMPLETED"
)
