package mailer

import "context"

// Type identifies the notification template a message renders with.
type Type string

const (
	TypeOTP                     Type = "OTP"
	TypeApplicationStatusUpdate Type = "APPLICATION_STATUS_UPDATE"
	TypeJobApplicationAccepted  Type = "JOB_APPLICATION_ACCEPTED"
	TypeJobMatched              Type = "JOB_MATCHED"
	TypeInterviewScheduled      Type = "INTERVIEW_SCHEDULED"
	TypeInterviewMeetingInvite  Type = "INTERVIEW_MEETING_INVITE"
	TypeOnlineTestLink          Type = "ONLINE_TEST_LINK"
	TypeOfferLetter             Type = "OFFER_LETTER"
	TypeProfileCreated          Type = "PROFILE_CREATED"
	TypeAddCandidate            Type = "ADD_CANDIDATE"
)

// Message is the payload handed to the asynchronous dispatcher. The
// orchestrator only produces messages; subject/body rendering happens in the
// mail worker. Delivery is at-least-once, so consumers must tolerate resends.
type Message struct {
	To     string            `json:"to"`
	Type   Type              `json:"type"`
	Fields map[string]string `json:"fields"`
}

type Producer interface {
	Enqueue(ctx context.Context, msg Message) error
}
