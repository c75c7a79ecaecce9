package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"comrade/bot"
)

// consoleResponder prints bot messages for a terminal reader.
type consoleResponder struct {
	w io.Writer
}

func (r *consoleResponder) Send(_ context.Context, _ bot.Conversation, msg bot.Message) error {
	var b strings.Builder

	if msg.Content != "" {
		b.WriteString(msg.Content + "\n")
	}
	if e := msg.Embed; e != nil {
		fmt.Fprintf(&b, "== %s ==\n", e.Title)
		if e.URL != "" {
			b.WriteString(e.URL + "\n")
		}
		if e.Description != "" {
			b.WriteString(e.Description + "\n")
		}
		if e.ImageURL != "" {
			if e.Spoiler {
				fmt.Fprintf(&b, "image (spoiler): %s\n", e.ImageURL)
			} else {
				fmt.Fprintf(&b, "image: %s\n", e.ImageURL)
			}
		}
		if e.Footer != "" {
			fmt.Fprintf(&b, "-- %s --\n", e.Footer)
		}
	}
	if msg.Placeholder != "" {
		b.WriteString(msg.Placeholder + ":\n")
	}
	for _, o := range msg.Options {
		fmt.Fprintf(&b, "  %s\n      %s\n", o.Label, o.Description)
	}

	var buttons []string
	for _, btn := range msg.Buttons {
		if !btn.Disabled {
			buttons = append(buttons, btn.Label)
		}
	}
	if len(buttons) > 0 {
		fmt.Fprintf(&b, "[%s]\n", strings.Join(buttons, "] ["))
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}
