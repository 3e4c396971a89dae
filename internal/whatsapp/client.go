// Package whatsapp is the WhatsApp Cloud API transport: outbound messages
// through the Graph API and inbound webhook payload decoding.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"storefront-bot/internal/engine"

	"go.uber.org/zap"
)

// Graph API limits for interactive messages. Button and row counts come
// from engine.MaxButtons and engine.MaxListRows.
const (
	maxButtonTitle    = 20
	maxRowTitle       = 24
	maxRowDescription = 72
	maxHeaderText     = 60
	maxErrorBody      = 4096
)

const (
	DefaultBaseURL    = "https://graph.facebook.com"
	DefaultAPIVersion = "v16.0"
)

// Config holds the Graph API credentials and endpoint.
type Config struct {
	Token         string
	PhoneNumberID string
	APIVersion    string
	BaseURL       string
}

// APIError is a non-2xx Graph API response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("graph api returned %d: %s", e.StatusCode, e.Body)
}

// Button is one reply button.
type Button struct {
	ID    string
	Title string
}

// Row is one list row.
type Row struct {
	ID          string
	Title       string
	Description string
}

// ListMessage is a single-section interactive list.
type ListMessage struct {
	Header string
	Body   string
	Footer string
	Button string
	Rows   []Row
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates a Graph API client. Empty version and base URL fall back
// to the public defaults.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

func (c *Client) endpoint(resource string) string {
	return fmt.Sprintf("%s/%s/%s/%s", c.cfg.BaseURL, c.cfg.APIVersion, c.cfg.PhoneNumberID, resource)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

type textBody struct {
	Text string `json:"text"`
}

type outbound struct {
	MessagingProduct string       `json:"messaging_product"`
	RecipientType    string       `json:"recipient_type,omitempty"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             *textPayload `json:"text,omitempty"`
	Interactive      *interactive `json:"interactive,omitempty"`
	Document         *document    `json:"document,omitempty"`
}

type textPayload struct {
	Body string `json:"body"`
}

type interactive struct {
	Type   string            `json:"type"`
	Header *interactiveTitle `json:"header,omitempty"`
	Body   textBody          `json:"body"`
	Footer *textBody         `json:"footer,omitempty"`
	Action action            `json:"action"`
}

type interactiveTitle struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type action struct {
	Button   string        `json:"button,omitempty"`
	Buttons  []replyButton `json:"buttons,omitempty"`
	Sections []listSection `json:"sections,omitempty"`
}

type replyButton struct {
	Type  string     `json:"type"`
	Reply replyTitle `json:"reply"`
}

type replyTitle struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type listSection struct {
	Title string    `json:"title"`
	Rows  []listRow `json:"rows"`
}

type listRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type document struct {
	ID       string `json:"id"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// SendText sends a plain text message.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	return c.postMessage(ctx, outbound{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             &textPayload{Body: body},
	})
}

// SendButtons sends up to three reply buttons; extra buttons are dropped and
// titles are cut to the channel limit.
func (c *Client) SendButtons(ctx context.Context, to, body string, buttons []Button) error {
	if len(buttons) > engine.MaxButtons {
		buttons = buttons[:engine.MaxButtons]
	}
	replies := make([]replyButton, 0, len(buttons))
	for _, b := range buttons {
		replies = append(replies, replyButton{
			Type:  "reply",
			Reply: replyTitle{ID: b.ID, Title: truncate(b.Title, maxButtonTitle)},
		})
	}

	return c.postMessage(ctx, outbound{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "interactive",
		Interactive: &interactive{
			Type:   "button",
			Body:   textBody{Text: body},
			Action: action{Buttons: replies},
		},
	})
}

// SendList sends a single-section list of up to ten rows.
func (c *Client) SendList(ctx context.Context, to string, list ListMessage) error {
	rows := list.Rows
	if len(rows) > engine.MaxListRows {
		rows = rows[:engine.MaxListRows]
	}
	out := make([]listRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, listRow{
			ID:          r.ID,
			Title:       truncate(r.Title, maxRowTitle),
			Description: truncate(r.Description, maxRowDescription),
		})
	}

	msg := &interactive{
		Type: "list",
		Body: textBody{Text: list.Body},
		Action: action{
			Button:   truncate(list.Button, maxButtonTitle),
			Sections: []listSection{{Title: truncate(list.Header, maxRowTitle), Rows: out}},
		},
	}
	if list.Header != "" {
		msg.Header = &interactiveTitle{Type: "text", Text: truncate(list.Header, maxHeaderText)}
	}
	if list.Footer != "" {
		msg.Footer = &textBody{Text: list.Footer}
	}

	return c.postMessage(ctx, outbound{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "interactive",
		Interactive:      msg,
	})
}

// SendDocument uploads the file at path and sends it as a document message.
func (c *Client) SendDocument(ctx context.Context, to, path, caption string) error {
	mediaID, err := c.uploadMedia(ctx, path, "application/pdf")
	if err != nil {
		return err
	}
	return c.postMessage(ctx, outbound{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "document",
		Document: &document{
			ID:       mediaID,
			Caption:  caption,
			Filename: filepath.Base(path),
		},
	})
}

func (c *Client) postMessage(ctx context.Context, msg outbound) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("messages"), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("failed to send %s message: %w", msg.Type, err)
	}
	return nil
}

func (c *Client) uploadMedia(ctx context.Context, path, mimeType string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open media: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("messaging_product", "whatsapp"); err != nil {
		return "", err
	}
	if err := w.WriteField("type", mimeType); err != nil {
		return "", err
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(path)))
	h.Set("Content-Type", mimeType)
	part, err := w.CreatePart(h)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("failed to read media: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("media"), &buf)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(req, &out); err != nil {
		return "", fmt.Errorf("failed to upload media: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("media upload returned no id")
	}
	return out.ID, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
