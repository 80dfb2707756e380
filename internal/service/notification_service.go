package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	mail "gopkg.in/mail.v2"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/events"
)

// NotificationService turns domain events into best-effort side effects:
// confirmation and reply emails over SMTP, and the automation-webhook
// trigger that hands freshly created tickets to the external workflow
// tool. Every failure here is logged and dropped; notifications never
// roll back or delay a ticket mutation.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	dialer     *mail.Dialer
	httpClient *http.Client
}

// NewNotificationService creates the service. SMTP and webhook targets are
// both optional; an unset collaborator disables its side effect with a
// logged warning.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	var dialer *mail.Dialer
	if cfg.SMTPHost != "" {
		dialer = mail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		dialer:     dialer,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketResolved, n.handleTicketResolved)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}

	n.triggerAutomationWebhook(ctx, event.TicketID, payload)

	ref := event.TicketID
	if len(ref) > 6 {
		ref = ref[len(ref)-6:]
	}
	body := fmt.Sprintf("We've received your ticket (#%s). We'll respond soon.", ref)
	n.sendEmail(payload.Email, fmt.Sprintf("Ticket Received: %s", payload.Subject), body)
	return nil
}

func (n *NotificationService) handleTicketResolved(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketResolvedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}
	if payload.Email == "" || payload.Subject == "" || payload.Response == "" {
		n.logger.Debug("skipping reply email; incomplete addressing",
			zap.String("ticket_id", event.TicketID))
		return nil
	}
	n.sendEmail(payload.Email, fmt.Sprintf("Re: %s", payload.Subject), payload.Response)
	return nil
}

func (n *NotificationService) triggerAutomationWebhook(ctx context.Context, ticketID string, payload events.TicketCreatedPayload) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		n.logger.Warn("automation webhook URL not configured; skipping trigger",
			zap.String("ticket_id", ticketID))
		return
	}

	body, err := json.Marshal(map[string]string{
		"ticketId": ticketID,
		"email":    payload.Email,
		"subject":  payload.Subject,
		"message":  payload.Message,
	})
	if err != nil {
		n.logger.Warn("failed to encode automation trigger", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		n.logger.Warn("failed to build automation trigger", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.Warn("automation webhook trigger failed",
			zap.String("ticket_id", ticketID), zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.logger.Warn("automation webhook rejected trigger",
			zap.String("ticket_id", ticketID), zap.Int("status", resp.StatusCode))
		return
	}
	n.logger.Info("automation webhook triggered", zap.String("ticket_id", ticketID))
}

func (n *NotificationService) sendEmail(to, subject, body string) {
	if n.dialer == nil {
		n.logger.Warn("SMTP not configured; skipping email",
			zap.String("to", to), zap.String("subject", subject))
		return
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(n.cfg.EmailFrom, "Support Team"))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	msg.AddAlternative("text/html", fmt.Sprintf(`<div>
        <p>Thank you for contacting support. Here's our response:</p>
        <blockquote>%s</blockquote>
        <p>If you need further assistance, please reply to this email.</p>
      </div>`, body))

	if err := n.dialer.DialAndSend(msg); err != nil {
		n.logger.Warn("email send failed",
			zap.String("to", to), zap.String("subject", subject), zap.Error(err))
		return
	}
	n.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
}
