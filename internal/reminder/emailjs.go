package reminder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultEmailJSEndpoint is the public EmailJS send endpoint.
const DefaultEmailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// Sender delivers one reminder email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, msg Message) error

// Send implements Sender.
func (f SenderFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// Ensure EmailJSSender implements Sender
var _ Sender = (*EmailJSSender)(nil)

// EmailJSSender delivers reminders through the EmailJS relay. The user ID is
// a public client key; EmailJS authorizes sends by the
// service/template/user triple.
type EmailJSSender struct {
	ServiceID  string
	TemplateID string
	UserID     string
	Endpoint   string

	httpc *http.Client
}

// NewEmailJSSender creates a sender for the given EmailJS identifiers.
func NewEmailJSSender(serviceID, templateID, userID string) *EmailJSSender {
	return &EmailJSSender{
		ServiceID:  serviceID,
		TemplateID: templateID,
		UserID:     userID,
		Endpoint:   DefaultEmailJSEndpoint,
		httpc:      &http.Client{Timeout: 15 * time.Second},
	}
}

type emailJSPayload struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// Send posts one reminder to the EmailJS endpoint.
func (s *EmailJSSender) Send(ctx context.Context, msg Message) error {
	payload := emailJSPayload{
		ServiceID:  s.ServiceID,
		TemplateID: s.TemplateID,
		UserID:     s.UserID,
		TemplateParams: map[string]string{
			"to_name":         msg.ToName,
			"to_email":        msg.ToEmail,
			"from_name":       msg.FromName,
			"group_name":      msg.GroupName,
			"items_html":      msg.ItemsHTML,
			"total_formatted": msg.TotalFormatted,
			"subject":         msg.Subject,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode reminder payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build reminder request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("reminder relay returned %d", resp.StatusCode)
	}

	return nil
}
