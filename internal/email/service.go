// Package email renders registered templates and dispatches them through
// the transactional-email vendor. In development no mail leaves the box:
// the template is rendered to prove it compiles and a synthetic message id
// is returned.
package email

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/r-mccarty/opticworks-store-sub001/internal/apperr"
)

// Sender is the delivery boundary: send(to, renderedHtml) -> messageId.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) (string, error)
}

type Request struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
}

type Result struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId"`
	Preview   string `json:"preview,omitempty"`
}

type Service struct {
	reg     *registry
	sender  Sender
	deliver bool
	logger  *log.Logger
}

// NewService builds the email service. deliver=false is the development
// safety valve: rendering happens, delivery never does.
func NewService(sender Sender, deliver bool, logger *log.Logger) (*Service, error) {
	reg, err := loadRegistry()
	if err != nil {
		return nil, err
	}
	return &Service{reg: reg, sender: sender, deliver: deliver, logger: logger}, nil
}

// Send validates the template name, renders it, and either delivers for
// real or returns a dev preview. An unknown template fails before any
// rendering happens.
func (s *Service) Send(ctx context.Context, req Request) (*Result, error) {
	if req.To == "" || req.Subject == "" || req.Template == "" || req.Data == nil {
		return nil, apperr.Validationf("Missing required fields: to, subject, template, data")
	}

	tmpl, ok := s.reg.lookup(req.Template)
	if !ok {
		return nil, apperr.Validationf("Template '%s' not found", req.Template)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, req.Data); err != nil {
		return nil, apperr.Internalf(err, "Failed to render email template")
	}
	html := buf.String()

	if !s.deliver {
		s.logger.Printf("email (dev, not delivered): to=%s template=%s subject=%q", req.To, req.Template, req.Subject)
		return &Result{
			Success:   true,
			MessageID: fmt.Sprintf("dev_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:9]),
			Preview:   preview(html, 200),
		}, nil
	}

	id, err := s.sender.Send(ctx, req.To, req.Subject, html)
	if err != nil {
		s.logger.Printf("email delivery failed: to=%s template=%s err=%v", req.To, req.Template, err)
		return nil, apperr.Internalf(err, "Failed to send email")
	}

	s.logger.Printf("email sent: to=%s template=%s messageId=%s", req.To, req.Template, id)
	return &Result{Success: true, MessageID: id}, nil
}

// preview cuts the rendered HTML to at most n runes, marking the cut with
// an ellipsis. Truncation happens on rune boundaries so a multi-byte
// character is never split.
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
