package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"techgear-support-be/internal/constant"
	"techgear-support-be/internal/pkg/logger"
	"techgear-support-be/pkg/events"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendEscalation(toEmail string, event events.Event) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	contact     constant.ContactInfo
	logger      logger.ILogger
}

func NewEmailService(host string, port int, username, password, senderName string, contact constant.ContactInfo, logger logger.ILogger) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
		contact:     contact,
		logger:      logger,
	}
}

var escalationTemplate = template.Must(template.New("escalation").Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
	<h2>Customer conversation escalated</h2>
	<table cellpadding="4">
		<tr><td><b>Conversation</b></td><td>{{.ConversationID}}</td></tr>
		<tr><td><b>Category</b></td><td>{{.Category}}</td></tr>
		<tr><td><b>Reason</b></td><td>{{.Reason}}</td></tr>
		<tr><td><b>Raised at</b></td><td>{{.RaisedAt}}</td></tr>
	</table>
	<p><b>Customer query:</b></p>
	<blockquote>{{.Query}}</blockquote>
	<p style="color: #888;">{{.Website}}</p>
</div>
`))

type escalationView struct {
	ConversationID string
	Category       string
	Reason         string
	RaisedAt       string
	Query          string
	Website        string
}

func escalationSubject(event events.Event) string {
	return fmt.Sprintf("[Escalation] %s conversation %s", events.String(event, "category"), events.String(event, "conversation_id"))
}

func escalationBody(event events.Event, contact constant.ContactInfo) (string, error) {
	var buf bytes.Buffer
	err := escalationTemplate.Execute(&buf, escalationView{
		ConversationID: events.String(event, "conversation_id"),
		Category:       events.String(event, "category"),
		Reason:         events.String(event, "reason"),
		RaisedAt:       event.Timestamp().Format("2006-01-02 15:04:05 MST"),
		Query:          events.String(event, "query"),
		Website:        contact.Website,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *emailService) SendEscalation(toEmail string, event events.Event) error {
	body, err := escalationBody(event, s.contact)
	if err != nil {
		return fmt.Errorf("failed to render escalation email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", escalationSubject(event))
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("MAILER", "Failed to send escalation email", map[string]interface{}{
			"to":    toEmail,
			"error": err.Error(),
		})
		return err
	}

	s.logger.Info("MAILER", "Escalation email sent", map[string]interface{}{
		"to":              toEmail,
		"conversation_id": events.String(event, "conversation_id"),
	})
	return nil
}
