package whatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"storefront-bot/internal/engine"
)

// SignatureHeader carries the HMAC of the raw webhook body.
const SignatureHeader = "X-Hub-Signature-256"

// WebhookPayload is the body Meta posts to the webhook.
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

type ChangeValue struct {
	MessagingProduct string    `json:"messaging_product"`
	Messages         []Message `json:"messages"`
}

// Message is one inbound user message. Only the fields the bot reads are
// decoded.
type Message struct {
	From        string       `json:"from"`
	ID          string       `json:"id"`
	Timestamp   string       `json:"timestamp"`
	Type        string       `json:"type"`
	Text        *Text        `json:"text,omitempty"`
	Interactive *Interactive `json:"interactive,omitempty"`
	Location    *Location    `json:"location,omitempty"`
}

type Text struct {
	Body string `json:"body"`
}

type Interactive struct {
	Type        string `json:"type"`
	ButtonReply *Reply `json:"button_reply,omitempty"`
	ListReply   *Reply `json:"list_reply,omitempty"`
}

type Reply struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
}

// MapsLink renders the pin as a Google Maps URL.
func (l Location) MapsLink() string {
	return "https://maps.google.com/?q=" +
		strconv.FormatFloat(l.Latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(l.Longitude, 'f', -1, 64)
}

// Event converts a message to an engine event. It reports false for message
// types the bot does not handle.
func (m Message) Event() (engine.Event, bool) {
	ev := engine.Event{UserID: m.From, MessageID: m.ID}

	switch m.Type {
	case "text":
		if m.Text == nil {
			return ev, false
		}
		ev.Kind = engine.KindText
		ev.Text = m.Text.Body
	case "location":
		if m.Location == nil {
			return ev, false
		}
		ev.Kind = engine.KindText
		ev.Text = m.Location.MapsLink()
	case "interactive":
		if m.Interactive == nil {
			return ev, false
		}
		switch {
		case m.Interactive.Type == "button_reply" && m.Interactive.ButtonReply != nil:
			ev.Kind = engine.KindButton
			ev.OptionID = m.Interactive.ButtonReply.ID
		case m.Interactive.Type == "list_reply" && m.Interactive.ListReply != nil:
			ev.Kind = engine.KindList
			ev.OptionID = m.Interactive.ListReply.ID
		default:
			return ev, false
		}
	default:
		return ev, false
	}

	return ev, m.From != ""
}

// Events flattens every message in the payload, in delivery order. Messages
// that cannot become events are returned separately.
func (p WebhookPayload) Events() (events []engine.Event, skipped []Message) {
	for _, e := range p.Entry {
		for _, ch := range e.Changes {
			for _, m := range ch.Value.Messages {
				if ev, ok := m.Event(); ok {
					events = append(events, ev)
				} else {
					skipped = append(skipped, m)
				}
			}
		}
	}
	return events, skipped
}

// VerifySubscription checks the GET handshake parameters.
func VerifySubscription(mode, token, expected string) bool {
	return mode == "subscribe" && expected != "" && hmac.Equal([]byte(token), []byte(expected))
}

// VerifySignature checks header ("sha256=<hex>") against the HMAC-SHA256 of
// body keyed with appSecret.
func VerifySignature(appSecret string, body []byte, header string) bool {
	sig, ok := strings.CutPrefix(header, "sha256=")
	if !ok {
		return false
	}
	got, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

// Sign computes the signature header value for body.
func Sign(appSecret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
