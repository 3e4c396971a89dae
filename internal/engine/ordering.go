package engine

import (
	"math"
	"strconv"
	"strings"

	"storefront-bot/internal/catalog"
	"storefront-bot/internal/i18n"
	"storefront-bot/internal/session"
)

func (e *Engine) onWelcome(s *session.Session, ev Event) Result {
	if ev.Kind != KindButton {
		return reply(e.languagePrompt())
	}

	switch ev.OptionID {
	case ButtonLangEN:
		s.Language = i18n.EN
	case ButtonLangAR:
		s.Language = i18n.AR
	default:
		return reply(Text(e.msgs.T(i18n.EN, "language.hint")), e.languagePrompt())
	}

	s.IsFirstTime = false
	s.State = session.StateMainMenu
	return reply(
		Text(e.t(s, "greeting.hello")),
		Text(e.t(s, "greeting.experience")),
		e.MainMenu(s.Language),
	)
}

func (e *Engine) onMainMenu(s *session.Session, ev Event) Result {
	if ev.Kind != KindButton {
		return reply(e.fallback(s, ev))
	}

	switch ev.OptionID {
	case ButtonOrder:
		s.State = session.StateSelectGender
		return reply(e.genderMenu(s))
	case ButtonStatus:
		s.State = session.StateCheckOrderStatus
		return Result{Effect: EffectLookupOrders}
	case ButtonSupport:
		s.State = session.StateSupportMenu
		return reply(e.supportMenu(s))
	}

	s.State = session.StateMainMenu
	return reply(Text(e.t(s, "menu.unknown")), e.MainMenu(s.Language))
}

func (e *Engine) onSelectGender(s *session.Session, ev Event) Result {
	if ev.Kind != KindButton {
		return reply(e.fallback(s, ev))
	}

	g, ok := catalog.ParseGender(ev.OptionID)
	if !ok {
		return reply(Text(e.t(s, "gender.invalid")), e.genderMenu(s))
	}

	s.Gender = g
	s.State = session.StateSelectCategory
	return reply(e.categoryMenu(s))
}

func (e *Engine) onSelectCategory(s *session.Session, ev Event) Result {
	if !ev.isSelection() {
		return reply(e.fallback(s, ev))
	}

	category := ev.OptionID
	if !e.catalog.HasCategory(s.Gender, category) {
		return reply(Text(e.t(s, "category.invalid")), e.categoryMenu(s))
	}

	products := e.catalog.ProductsFor(s.Gender, category)
	if len(products) == 0 {
		return reply(Text(e.t(s, "category.empty", e.categoryLabel(s, category))), e.categoryMenu(s))
	}

	s.Category = category
	s.State = session.StateShowProducts
	return reply(e.productMenu(s, products))
}

func (e *Engine) onShowProducts(s *session.Session, ev Event) Result {
	if !ev.isSelection() {
		return reply(e.fallback(s, ev))
	}

	p, ok := e.catalog.FindProduct(s.Gender, s.Category, ev.OptionID)
	if !ok {
		return reply(Text(e.t(s, "products.not_found")))
	}

	s.CurrentProduct = &p
	s.State = session.StateAskQuantity
	return reply(Text(e.t(s, "quantity.prompt", p.Name)))
}

// MaxQuantity is the largest quantity one cart line takes, bounded by the
// 32-bit order_items.quantity column.
const MaxQuantity = math.MaxInt32

func (e *Engine) onAskQuantity(s *session.Session, ev Event) Result {
	if ev.Kind != KindText {
		return reply(e.fallback(s, ev))
	}

	if s.CurrentProduct == nil {
		// Nothing awaits a quantity; go back to the product choice.
		s.State = session.StateShowProducts
		return reply(e.productMenu(s, e.catalog.ProductsFor(s.Gender, s.Category)))
	}

	qty, err := strconv.Atoi(strings.TrimSpace(ev.Text))
	if err != nil || qty <= 0 || qty > MaxQuantity {
		return reply(Text(e.t(s, "quantity.invalid")))
	}

	p := s.CurrentProduct
	sub, ok := p.Price.CheckedTimes(qty)
	if ok {
		_, ok = s.CartTotal().CheckedAdd(sub)
	}
	if !ok {
		return reply(Text(e.t(s, "quantity.invalid")))
	}

	s.Cart = append(s.Cart, session.CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  qty,
	})
	s.CurrentProduct = nil
	s.State = session.StateCartDecision

	body := e.t(s, "cart.added", qty, p.Name, e.cartLines(s), e.catalog.FormatPrice(s.CartTotal()))
	return reply(e.cartDecisionButtons(s, body))
}

func (e *Engine) onCartDecision(s *session.Session, ev Event) Result {
	if ev.Kind == KindButton {
		switch ev.OptionID {
		case ButtonContinue:
			s.State = session.StateSelectCategory
			return reply(e.categoryMenu(s))
		case ButtonCheckout:
			s.State = session.StateCheckoutName
			return reply(Text(e.t(s, "checkout.name")))
		}
	}
	return reply(e.cartDecisionButtons(s, e.t(s, "cart.invalid")))
}
