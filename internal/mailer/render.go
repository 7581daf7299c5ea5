package mailer

import (
	"fmt"
	"strings"
)

// Subject builds the mail subject for a message type from its payload fields.
func Subject(t Type, fields map[string]string) string {
	switch t {
	case TypeOTP:
		return "Hirestack Verification Code"
	case TypeApplicationStatusUpdate:
		return "Application Update: " + fields["jobTitle"]
	case TypeJobApplicationAccepted:
		return "Application Accepted: " + fields["jobTitle"]
	case TypeJobMatched:
		return "New Job Match: " + fields["jobTitle"]
	case TypeInterviewScheduled:
		return "Interview Scheduled: " + fields["jobTitle"]
	case TypeInterviewMeetingInvite:
		return "Meeting Invitation: " + fields["roundType"] + " - " + fields["jobTitle"]
	case TypeOnlineTestLink:
		return "Online Test Invitation: " + fields["jobTitle"]
	case TypeAddCandidate:
		return "Profile Created in Hirestack"
	case TypeProfileCreated:
		return "Profile Created"
	case TypeOfferLetter:
		return "Offer Letter: Welcome to " + fields["companyName"]
	default:
		return "Notification from Hirestack"
	}
}

// Body builds the plain-text mail body for a message type.
func Body(t Type, fields map[string]string) string {
	switch t {
	case TypeOTP:
		return fmt.Sprintf(
			"Welcome to Hirestack!\n\nYour verification code is: %s\n\nThis code will expire in 10 minutes.\n",
			fields["otp"])

	case TypeApplicationStatusUpdate:
		return fmt.Sprintf(
			"\nThe status of your application for %s at %s has been updated to: %s\n\nPlease login to view more details or remarks.\n",
			strings.ToUpper(fields["jobTitle"]), fields["company"], strings.ToUpper(fields["status"]))

	case TypeJobApplicationAccepted:
		return fmt.Sprintf(
			"\nCongratulations! Your application for %s has been accepted.\n\nOur team will contact you shortly regarding the next steps.\n",
			strings.ToUpper(fields["jobTitle"]))

	case TypeJobMatched:
		return fmt.Sprintf(
			"\nWe matched you to a %s role.\n\nLogin to see your application.\n",
			strings.ToUpper(fields["jobTitle"]))

	case TypeInterviewScheduled:
		return fmt.Sprintf(
			"\nYour interview for %s has been scheduled.\n\nBelow is the meeting link for the interview.\n",
			fields["jobTitle"])

	case TypeOnlineTestLink:
		return fmt.Sprintf(
			"Dear Candidate,\n\nYou have been shortlisted for an Online Test for the %s position at %s.\n\n"+
				"Access the Hirestack portal to get the test link.\n\n"+
				"Please complete the test within 24 hours without fail and ensure a proper internet connection.\nGood Luck!\n",
			fields["jobTitle"], fields["company"])

	case TypeInterviewMeetingInvite:
		return fmt.Sprintf(
			"Hello,\n\nA %s has been scheduled for the %s position at %s.\n\n"+
				"Date & Time: %s\nMeeting Link: %s\n\nCandidate: %s\n\n"+
				"Please join using the link above at the scheduled time.\n",
			fields["roundType"], fields["jobTitle"], fields["company"],
			fields["time"], fields["link"], fields["candidateName"])

	case TypeProfileCreated:
		return fmt.Sprintf(
			"Your profile has been created with %s and you are assigned the %s role.\n\nKindly login with this email to see more details.\n",
			fields["company"], fields["role"])

	case TypeAddCandidate:
		return fmt.Sprintf(
			"Hello %s\nYour profile has been created by %s at %s.\n\nKindly login to Hirestack to see more details.\n",
			fields["name"], fields["recruiterName"], strings.ToUpper(fields["company"]))

	case TypeOfferLetter:
		return fmt.Sprintf(
			"Dear %s,\n\nCongratulations! We are pleased to verify your documents and confirm your offer at %s.\n\n"+
				"Your Joining Date is: %s\n\nWe look forward to having you on board!\n",
			fields["candidateName"], fields["companyName"], fields["joiningDate"])

	default:
		return "You have a new notification from Hirestack. Please login to check."
	}
}
