package whatsapp

import (
	"context"
	"fmt"

	"storefront-bot/internal/engine"
)

// Send renders an engine intent as the matching Graph API message.
func (c *Client) Send(ctx context.Context, to string, in engine.Intent) error {
	switch in.Kind {
	case engine.IntentText:
		return c.SendText(ctx, to, in.Body)
	case engine.IntentButtons:
		buttons := make([]Button, 0, len(in.Options))
		for _, o := range in.Options {
			buttons = append(buttons, Button{ID: o.ID, Title: o.Title})
		}
		return c.SendButtons(ctx, to, in.Body, buttons)
	case engine.IntentList:
		rows := make([]Row, 0, len(in.Options))
		for _, o := range in.Options {
			rows = append(rows, Row{ID: o.ID, Title: o.Title, Description: o.Description})
		}
		return c.SendList(ctx, to, ListMessage{
			Header: in.Header,
			Body:   in.Body,
			Footer: in.Footer,
			Button: in.ButtonLabel,
			Rows:   rows,
		})
	}
	return fmt.Errorf("unsupported intent kind %q", in.Kind)
}
