package engine

// Channel limits for interactive messages.
const (
	MaxButtons  = 3
	MaxListRows = 10
)

// IntentKind is the type of an outbound message.
type IntentKind string

const (
	IntentText    IntentKind = "text"
	IntentButtons IntentKind = "buttons"
	IntentList    IntentKind = "list"
)

// Option is one button or list row.
type Option struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Intent is a declarative outbound message.
type Intent struct {
	Kind        IntentKind `json:"kind"`
	Body        string     `json:"body"`
	Options     []Option   `json:"options,omitempty"`
	Header      string     `json:"header,omitempty"`
	Footer      string     `json:"footer,omitempty"`
	ButtonLabel string     `json:"button_label,omitempty"`
}

// Text builds a plain text intent.
func Text(body string) Intent {
	return Intent{Kind: IntentText, Body: body}
}

// Buttons builds a reply-button intent; options beyond MaxButtons are dropped.
func Buttons(body string, options ...Option) Intent {
	if len(options) > MaxButtons {
		options = options[:MaxButtons]
	}
	return Intent{Kind: IntentButtons, Body: body, Options: options}
}

// List builds a single-section list intent; rows beyond MaxListRows are dropped.
func List(header, body, footer, buttonLabel string, rows ...Option) Intent {
	if len(rows) > MaxListRows {
		rows = rows[:MaxListRows]
	}
	return Intent{
		Kind:        IntentList,
		Header:      header,
		Body:        body,
		Footer:      footer,
		ButtonLabel: buttonLabel,
		Options:     rows,
	}
}
