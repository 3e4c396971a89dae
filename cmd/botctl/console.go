package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"storefront-bot/internal/engine"
)

// consoleMessenger prints intents to a terminal instead of the Graph API.
type consoleMessenger struct {
	mu  sync.Mutex
	out io.Writer
}

func newConsoleMessenger(out io.Writer) *consoleMessenger {
	return &consoleMessenger{out: out}
}

func (m *consoleMessenger) Send(_ context.Context, _ string, in engine.Intent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := io.WriteString(m.out, renderIntent(in))
	return err
}

func (m *consoleMessenger) SendDocument(_ context.Context, _ string, path, caption string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := fmt.Fprintf(m.out, "bot> [document] %s (%s)\n", caption, path)
	return err
}

func renderIntent(in engine.Intent) string {
	var b strings.Builder
	if in.Header != "" {
		fmt.Fprintf(&b, "bot> # %s\n", in.Header)
	}
	for i, line := range strings.Split(in.Body, "\n") {
		if i == 0 {
			fmt.Fprintf(&b, "bot> %s\n", line)
		} else {
			fmt.Fprintf(&b, "     %s\n", line)
		}
	}

	prefix := "/b"
	if in.Kind == engine.IntentList {
		prefix = "/l"
	}
	for _, o := range in.Options {
		if o.Description != "" {
			fmt.Fprintf(&b, "     %s %s  %s - %s\n", prefix, o.ID, o.Title, o.Description)
		} else {
			fmt.Fprintf(&b, "     %s %s  %s\n", prefix, o.ID, o.Title)
		}
	}
	if in.Footer != "" {
		fmt.Fprintf(&b, "     (%s)\n", in.Footer)
	}
	return b.String()
}

// parseLine turns one input line into an event. Blank lines are skipped.
func parseLine(userID, line string) (engine.Event, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return engine.Event{}, false
	}

	ev := engine.Event{UserID: userID}
	switch {
	case strings.HasPrefix(line, "/b "):
		ev.Kind = engine.KindButton
		ev.OptionID = strings.TrimSpace(line[3:])
	case strings.HasPrefix(line, "/l "):
		ev.Kind = engine.KindList
		ev.OptionID = strings.TrimSpace(line[3:])
	default:
		ev.Kind = engine.KindText
		ev.Text = line
	}
	return ev, true
}
