package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubject(t *testing.T) {
	tests := []struct {
		name   string
		t      Type
		fields map[string]string
		want   string
	}{
		{
			name:   "status update",
			t:      TypeApplicationStatusUpdate,
			fields: map[string]string{"jobTitle": "Backend Engineer"},
			want:   "Application Update: Backend Engineer",
		},
		{
			name:   "meeting invite",
			t:      TypeInterviewMeetingInvite,
			fields: map[string]string{"roundType": "HR Round", "jobTitle": "Backend Engineer"},
			want:   "Meeting Invitation: HR Round - Backend Engineer",
		},
		{
			name:   "offer letter",
			t:      TypeOfferLetter,
			fields: map[string]string{"companyName": "Acme"},
			want:   "Offer Letter: Welcome to Acme",
		},
		{
			name: "unknown type falls back",
			t:    Type("SOMETHING_ELSE"),
			want: "Notification from Hirestack",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Subject(tc.t, tc.fields))
		})
	}
}

func TestBodyStatusUpdateUppercasesJobAndStatus(t *testing.T) {
	body := Body(TypeApplicationStatusUpdate, map[string]string{
		"jobTitle": "Backend Engineer",
		"company":  "Acme",
		"status":   "on_hold",
	})
	assert.Contains(t, body, "BACKEND ENGINEER")
	assert.Contains(t, body, "Acme")
	assert.Contains(t, body, "ON_HOLD")
}

func TestBodyMeetingInvite(t *testing.T) {
	body := Body(TypeInterviewMeetingInvite, map[string]string{
		"roundType":     "Technical Round 1",
		"jobTitle":      "Backend Engineer",
		"company":       "Acme",
		"time":          "2026-09-10 14:30:00",
		"link":          "https://meet.test/abc",
		"candidateName": "Dana",
	})
	assert.Contains(t, body, "Technical Round 1")
	assert.Contains(t, body, "2026-09-10 14:30:00")
	assert.Contains(t, body, "https://meet.test/abc")
	assert.Contains(t, body, "Dana")
}

func TestBodyOfferLetter(t *testing.T) {
	body := Body(TypeOfferLetter, map[string]string{
		"candidateName": "Dana",
		"companyName":   "Acme",
		"joiningDate":   "2026-10-01",
	})
	assert.Contains(t, body, "Dear Dana")
	assert.Contains(t, body, "Acme")
	assert.Contains(t, body, "2026-10-01")
}

func TestBodyOnlineTest(t *testing.T) {
	body := Body(TypeOnlineTestLink, map[string]string{
		"jobTitle": "Backend Engineer",
		"company":  "Acme",
	})
	assert.Contains(t, body, "Online Test")
	assert.Contains(t, body, "Backend Engineer")
	assert.Contains(t, body, "Acme")
}
