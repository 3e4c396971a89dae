// Package email forwards support tickets to the store inbox through Resend.
package email

import (
	"fmt"
	"strings"

	"storefront-bot/internal/models"

	"github.com/resendlabs/resend-go"
)

// Notifier sends one email per submitted ticket.
type Notifier struct {
	send func(*resend.SendEmailRequest) error
	from string
	to   []string
}

// NewNotifier creates a Resend-backed notifier. to may list several
// comma-separated addresses.
func NewNotifier(apiKey, from, to string) (*Notifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY is required")
	}
	recipients := splitAddresses(to)
	if from == "" || len(recipients) == 0 {
		return nil, fmt.Errorf("support email sender and recipient are required")
	}

	client := resend.NewClient(apiKey)
	return &Notifier{
		send: func(req *resend.SendEmailRequest) error {
			_, err := client.Emails.Send(req)
			return err
		},
		from: from,
		to:   recipients,
	}, nil
}

func splitAddresses(s string) []string {
	var out []string
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// TicketSubmitted emails the ticket details to the support inbox.
func (n *Notifier) TicketSubmitted(ticket *models.Ticket) error {
	orderNumber := "none"
	if ticket.OrderNumber != nil {
		orderNumber = *ticket.OrderNumber
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Ticket: %s\n", ticket.ID)
	fmt.Fprintf(&b, "Customer: %s\n", ticket.Name)
	fmt.Fprintf(&b, "Phone: %s\n", ticket.UserID)
	fmt.Fprintf(&b, "Order number: %s\n", orderNumber)
	fmt.Fprintf(&b, "Topic: %s\n\n", ticket.Topic)
	b.WriteString(ticket.Description)
	b.WriteString("\n")

	req := &resend.SendEmailRequest{
		From:    n.from,
		To:      n.to,
		Subject: fmt.Sprintf("Support ticket %s: %s", ticket.ID, ticket.Topic),
		Text:    b.String(),
	}
	if err := n.send(req); err != nil {
		return fmt.Errorf("failed to send ticket email via Resend: %w", err)
	}
	return nil
}
