package engine

import (
	"strings"

	"storefront-bot/internal/catalog"
	"storefront-bot/internal/i18n"
)

// OrderSummary is the view of a stored order used for status replies.
type OrderSummary struct {
	Number string
	Status string
	Total  catalog.Money
}

// maxStatusLines caps how many past orders a status reply lists.
const maxStatusLines = 3

// StatusLabel localises an order status, keeping unknown statuses verbatim.
func (e *Engine) StatusLabel(lang i18n.Lang, status string) string {
	key := "status." + status
	if label := e.msgs.T(lang, key); label != key {
		return label
	}
	return status
}

// OrderPlaced confirms a stored order.
func (e *Engine) OrderPlaced(lang i18n.Lang, number string, total catalog.Money) []Intent {
	return []Intent{Text(e.msgs.T(lang, "order.placed", number, e.catalog.FormatPrice(total)))}
}

// OrderFailed reports that the order could not be stored.
func (e *Engine) OrderFailed(lang i18n.Lang) []Intent {
	return []Intent{Text(e.msgs.T(lang, "order.failed"))}
}

// InvoiceCaption is the caption attached to the invoice document.
func (e *Engine) InvoiceCaption(lang i18n.Lang, number string) string {
	return e.msgs.T(lang, "order.invoice_caption", number)
}

// OrderStatus answers a status query with the most recent orders first.
func (e *Engine) OrderStatus(lang i18n.Lang, orders []OrderSummary) []Intent {
	if len(orders) == 0 {
		return []Intent{Text(e.msgs.T(lang, "order.none")), e.MainMenu(lang)}
	}

	if len(orders) > maxStatusLines {
		orders = orders[:maxStatusLines]
	}
	lines := make([]string, 0, len(orders)+1)
	for _, o := range orders {
		lines = append(lines, e.msgs.T(lang, "order.status_line", o.Number, e.StatusLabel(lang, o.Status)))
	}
	lines = append(lines, e.msgs.T(lang, "order.status_footer"))

	return []Intent{Text(strings.Join(lines, "\n")), e.MainMenu(lang)}
}

// OrderLookupFailed reports that past orders could not be read.
func (e *Engine) OrderLookupFailed(lang i18n.Lang) []Intent {
	return []Intent{Text(e.msgs.T(lang, "order.lookup_failed")), e.MainMenu(lang)}
}

// StatusChanged notifies a customer that fulfillment moved their order.
func (e *Engine) StatusChanged(lang i18n.Lang, number, status string) Intent {
	return Text(e.msgs.T(lang, "order.status_changed", number, e.StatusLabel(lang, status)))
}

// TicketSubmitted confirms a stored support ticket.
func (e *Engine) TicketSubmitted(lang i18n.Lang, ticketID string) []Intent {
	return []Intent{Text(e.msgs.T(lang, "ticket.submitted", ticketID)), e.MainMenu(lang)}
}

// TicketFailed reports that the ticket could not be stored.
func (e *Engine) TicketFailed(lang i18n.Lang) []Intent {
	return []Intent{Text(e.msgs.T(lang, "ticket.failed"))}
}

// Fallback is the generic "use the options" reply, used when an event could
// not be handled at all.
func (e *Engine) Fallback(lang i18n.Lang) Intent {
	return Text(e.msgs.T(lang, "fallback.generic"))
}
