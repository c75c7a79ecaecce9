package bot

import (
	"context"

	"comrade/session"
)

// Conversation identifies where a command came from.
type Conversation struct {
	GuildID   string // empty for direct messages
	ChannelID string
	UserID    string
}

// Key is the session key for the conversation.
func (c Conversation) Key() string {
	return session.ConversationKey(c.GuildID, c.ChannelID)
}

type Embed struct {
	Title       string
	URL         string
	Description string
	ImageURL    string
	Footer      string
	Spoiler     bool
}

type Button struct {
	ID       string
	Label    string
	Disabled bool
}

type SelectOption struct {
	Label       string
	Description string
	Value       string
}

// Message is one reply. Options, when present, form a single select menu.
type Message struct {
	Content     string
	Embed       *Embed
	Buttons     []Button
	Placeholder string
	Options     []SelectOption
	Ephemeral   bool
}

// Responder delivers messages to the chat platform.
type Responder interface {
	Send(ctx context.Context, conv Conversation, msg Message) error
}

// Component ids carried by buttons.
const (
	NextPageID     = "nhentai_np"
	PreviousPageID = "nhentai_pp"
)

func navigationButtons(sess *session.GallerySession) []Button {
	next := "Next Page"
	if sess.IsLastPage() {
		next = "Finish"
	}
	return []Button{
		{ID: PreviousPageID, Label: "Previous Page", Disabled: sess.CurrentPage <= 1},
		{ID: NextPageID, Label: next},
	}
}
