package bot

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"comrade/models"
	"comrade/session"
)

// Limits imposed by the chat platform on select menus.
const (
	maxSelectText  = 100
	resultsPerPage = 25
)

const (
	startHint        = "Type `np` (or click the buttons) to start reading, and advance pages."
	endOfWork        = "You have reached the end of this work."
	sessionExpired   = "This button was probably created in the past, and its session has expired. Please start a new NHentai session."
	noGallerySession = "You must start a gallery session first using `gallery`."
)

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

func pageFooter(sess *session.GallerySession) string {
	g := sess.Gallery
	if sess.CurrentPage == 0 {
		return fmt.Sprintf("Cover | %s (%d)", g.ShortTitle(), g.GalleryID)
	}
	return fmt.Sprintf("Page %d of %d | %s (%d)", sess.CurrentPage, g.Len(), g.ShortTitle(), g.GalleryID)
}

func startEmbed(sess *session.GallerySession, coverURL string) *Embed {
	g := sess.Gallery
	desc := []string{fmt.Sprintf("Found using %s", g.Provider)}
	if block := g.TitleBlockTags(); block != "" {
		desc = append(desc, block)
	}
	if len(g.Tags) > 0 {
		desc = append(desc, "Tags: "+strings.Join(g.Tags, ", "))
	}
	desc = append(desc, fmt.Sprintf("%d pages", g.Len()))

	return &Embed{
		Title:       g.ShortTitle(),
		URL:         g.URL(),
		Description: strings.Join(desc, "\n"),
		ImageURL:    coverURL,
		Footer:      pageFooter(sess),
		Spoiler:     sess.Spoiler,
	}
}

func pageEmbed(sess *session.GallerySession, blobURL string) *Embed {
	return &Embed{
		Title:    sess.Gallery.ShortTitle(),
		URL:      sess.Gallery.URL(),
		ImageURL: blobURL,
		Footer:   pageFooter(sess),
		Spoiler:  sess.Spoiler,
	}
}

// selectorOptions lists one results page as menu options numbered across
// pages: "26. Title" is the first entry on page 2.
func selectorOptions(r *models.SearchResult) []SelectOption {
	offset := (r.PageNumber - 1) * resultsPerPage
	shorts := r.ShortTitles()
	blocks := r.TitleBlocks()

	opts := make([]SelectOption, 0, r.Len())
	for i, gid := range r.GalleryIDs {
		opts = append(opts, SelectOption{
			Label:       truncate(fmt.Sprintf("%d. %s", offset+i+1, shorts[i]), maxSelectText),
			Description: truncate(strings.TrimSpace(fmt.Sprintf("(%d) %s", gid, blocks[i])), maxSelectText),
			Value:       fmt.Sprint(gid),
		})
	}
	return opts
}

func selectorMessage(sess *session.SearchSession, r *models.SearchResult) Message {
	return Message{
		Content:     fmt.Sprintf("Select a gallery to view (Page %d / %d)", r.PageNumber, sess.MaxPages),
		Placeholder: fmt.Sprintf("Select a gallery from page %d", r.PageNumber),
		Options:     selectorOptions(r),
	}
}
