package email

const (
	subjectLeadAssigned     = "A new lead has been assigned to you"
	subjectFollowUpReminder = "Follow-up due: don't let this lead go cold"
	subjectLeadConverted    = "Lead converted"
)
