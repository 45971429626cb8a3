package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP
// connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendLeadAssignedEmail(ctx context.Context, toEmail, agentName, leadName, leadPhone string) error {
	content, err := renderEmailTemplate("lead_assigned.html", leadAssignedEmailData{
		baseEmailData: baseEmailData{
			Title:   "New lead assigned",
			Heading: "New lead assigned",
		},
		AgentName: agentName,
		LeadName:  leadName,
		LeadPhone: leadPhone,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectLeadAssigned, content)
}

func (s *SMTPSender) SendFollowUpReminderEmail(ctx context.Context, toEmail, agentName, leadName string, dueAt time.Time) error {
	content, err := renderEmailTemplate("followup_reminder.html", followUpReminderEmailData{
		baseEmailData: baseEmailData{
			Title:   "Follow-up due",
			Heading: "Follow-up due",
		},
		AgentName: agentName,
		LeadName:  leadName,
		DueAt:     dueAt.Format("Mon, 02 Jan 2006 15:04"),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectFollowUpReminder, content)
}

func (s *SMTPSender) SendLeadConvertedEmail(ctx context.Context, toEmail, leadName string, courseFee, dueAmount float64) error {
	content, err := renderEmailTemplate("lead_converted.html", leadConvertedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Lead converted",
			Heading: "Lead converted",
		},
		LeadName:     leadName,
		FeeFormatted: fmt.Sprintf("₹%.2f", courseFee),
		DueFormatted: fmt.Sprintf("₹%.2f", dueAmount),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectLeadConverted, content)
}

// Compile-time checks
var (
	_ Sender = (*SMTPSender)(nil)
	_ Sender = NoopSender{}
)
