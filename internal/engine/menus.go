package engine

import (
	"strings"

	"storefront-bot/internal/catalog"
	"storefront-bot/internal/i18n"
	"storefront-bot/internal/session"
)

// Button ids understood by the flow.
const (
	ButtonLangEN       = "LANG_EN"
	ButtonLangAR       = "LANG_AR"
	ButtonOrder        = "ORDER"
	ButtonStatus       = "STATUS"
	ButtonSupport      = "SUPPORT"
	ButtonMen          = "MEN"
	ButtonWomen        = "WOMEN"
	ButtonContinue     = "CONTINUE"
	ButtonCheckout     = "CHECKOUT"
	ButtonConfirm      = "CONFIRM"
	ButtonCancel       = "CANCEL"
	ButtonFAQs         = "FAQS"
	ButtonSubmitTicket = "SUBMIT_TICKET"
	ButtonLiveAgent    = "LIVE_AGENT"
)

// FAQKeys are the list ids of the FAQ categories.
var FAQKeys = []string{"faq_general", "faq_payments", "faq_shipping", "faq_orders", "faq_products"}

// TicketTopics are the list ids of the support ticket topics.
var TicketTopics = []string{"0_Orders_and_payments", "1_Delivery", "2_Returns", "3_Other"}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func (e *Engine) languagePrompt() Intent {
	return Buttons(
		e.msgs.T(i18n.EN, "language.prompt"),
		Option{ID: ButtonLangEN, Title: e.msgs.T(i18n.EN, "language.english")},
		Option{ID: ButtonLangAR, Title: e.msgs.T(i18n.EN, "language.arabic")},
	)
}

// MainMenu renders the top-level options.
func (e *Engine) MainMenu(lang i18n.Lang) Intent {
	return Buttons(
		e.msgs.T(lang, "menu.body"),
		Option{ID: ButtonOrder, Title: e.msgs.T(lang, "menu.order")},
		Option{ID: ButtonStatus, Title: e.msgs.T(lang, "menu.status")},
		Option{ID: ButtonSupport, Title: e.msgs.T(lang, "menu.support")},
	)
}

func (e *Engine) genderMenu(s *session.Session) Intent {
	return Buttons(
		e.t(s, "gender.prompt"),
		Option{ID: ButtonMen, Title: e.t(s, "gender.men")},
		Option{ID: ButtonWomen, Title: e.t(s, "gender.women")},
	)
}

func (e *Engine) categoryLabel(s *session.Session, category string) string {
	return e.t(s, "category."+category)
}

func (e *Engine) categoryMenu(s *session.Session) Intent {
	body := e.t(s, "category.prompt", e.t(s, "gender."+string(s.Gender)))

	cats := e.catalog.Categories(s.Gender)
	options := make([]Option, 0, len(cats))
	for _, c := range cats {
		options = append(options, Option{ID: c, Title: e.categoryLabel(s, c)})
	}

	if len(options) <= MaxButtons {
		return Buttons(body, options...)
	}
	return List(e.t(s, "products.header"), body, e.t(s, "products.footer"), e.t(s, "products.button"), options...)
}

func (e *Engine) productMenu(s *session.Session, products []catalog.Product) Intent {
	lines := make([]string, 0, len(products))
	options := make([]Option, 0, len(products))
	for _, p := range products {
		price := e.catalog.FormatPrice(p.Price)
		lines = append(lines, e.t(s, "products.line", p.ID, p.Name, price))
		options = append(options, Option{ID: p.ID, Title: p.Name, Description: price})
	}
	body := e.t(s, "products.body", e.categoryLabel(s, s.Category), strings.Join(lines, "\n"))

	if len(options) <= MaxButtons {
		for i := range options {
			options[i].Description = ""
		}
		return Buttons(body, options...)
	}
	return List(e.t(s, "products.header"), body, e.t(s, "products.footer"), e.t(s, "products.button"), options...)
}

func (e *Engine) cartLines(s *session.Session) string {
	lines := make([]string, 0, len(s.Cart))
	for _, l := range s.Cart {
		lines = append(lines, e.t(s, "cart.line",
			l.Quantity, l.Name, e.catalog.FormatPrice(l.UnitPrice), e.catalog.FormatPrice(l.Subtotal())))
	}
	return strings.Join(lines, "\n")
}

func (e *Engine) cartDecisionButtons(s *session.Session, body string) Intent {
	return Buttons(
		body,
		Option{ID: ButtonContinue, Title: e.t(s, "cart.continue")},
		Option{ID: ButtonCheckout, Title: e.t(s, "cart.checkout")},
	)
}

func (e *Engine) orEmpty(s *session.Session, v string) string {
	if strings.TrimSpace(v) == "" {
		return e.t(s, "checkout.not_set")
	}
	return v
}

// orderSummary itemises the cart; the total is recomputed from the lines on
// every call.
func (e *Engine) orderSummary(s *session.Session) Intent {
	body := e.t(s, "checkout.summary",
		e.cartLines(s),
		e.catalog.FormatPrice(s.CartTotal()),
		e.orEmpty(s, s.CustomerName),
		e.orEmpty(s, s.DeliveryAddress),
		e.orEmpty(s, s.DeliveryLocation),
		e.orEmpty(s, s.BillingAddress),
	)
	return Buttons(
		body,
		Option{ID: ButtonConfirm, Title: e.t(s, "checkout.confirm")},
		Option{ID: ButtonCancel, Title: e.t(s, "checkout.cancel")},
	)
}

func (e *Engine) supportMenu(s *session.Session) Intent {
	return Buttons(
		e.t(s, "support.body"),
		Option{ID: ButtonFAQs, Title: e.t(s, "support.faqs")},
		Option{ID: ButtonSubmitTicket, Title: e.t(s, "support.ticket")},
		Option{ID: ButtonLiveAgent, Title: e.t(s, "support.agent")},
	)
}

func (e *Engine) faqList(s *session.Session) Intent {
	rows := make([]Option, 0, len(FAQKeys))
	for _, k := range FAQKeys {
		rows = append(rows, Option{ID: k, Title: e.t(s, "faq."+k+".title")})
	}
	return List(e.t(s, "faq.header"), e.t(s, "faq.body"), e.t(s, "faq.footer"), e.t(s, "faq.button"), rows...)
}

func (e *Engine) ticketTopicList(s *session.Session) Intent {
	rows := make([]Option, 0, len(TicketTopics))
	for _, k := range TicketTopics {
		rows = append(rows, Option{ID: k, Title: e.t(s, "ticket.topic."+k)})
	}
	return List(e.t(s, "ticket.topic_header"), e.t(s, "ticket.topic_body"), e.t(s, "ticket.topic_footer"), e.t(s, "ticket.topic_button"), rows...)
}
