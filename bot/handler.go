package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	"comrade/cache"
	"comrade/models"
	"comrade/session"
	"comrade/validation"
)

// GalleryRetriever finds galleries and search pages across sources.
type GalleryRetriever interface {
	FetchGallery(ctx context.Context, galleryID int) (*models.Gallery, error)
	FetchSearch(ctx context.Context, query string, page int, sort models.SortOrder) (*models.SearchResult, int, error)
}

// ImageRelay mirrors remote images.
type ImageRelay interface {
	GetCached(ctx context.Context, sourceURL string) (*models.BlobEntry, error)
	Populate(ctx context.Context, sourceURL, filename string) (*models.BlobEntry, error)
}

// PrefetchQueue accepts background mirroring work.
type PrefetchQueue interface {
	Submit(job cache.PrefetchJob)
}

// Options controls how many neighbouring pages are warmed.
type Options struct {
	Lookahead        int
	Lookbehind       int
	InitialLookahead int
}

// Handler runs the gallery and search commands for every conversation.
type Handler struct {
	retriever  GalleryRetriever
	relay      ImageRelay
	prefetcher PrefetchQueue
	responder  Responder
	opts       Options

	galleries session.Store[*session.GallerySession]
	searches  session.Store[*session.SearchSession]
}

func NewHandler(retriever GalleryRetriever, relay ImageRelay, prefetcher PrefetchQueue, responder Responder, opts Options) *Handler {
	return &Handler{
		retriever:  retriever,
		relay:      relay,
		prefetcher: prefetcher,
		responder:  responder,
		opts:       opts,
		galleries:  session.NewMemoryStore[*session.GallerySession](),
		searches:   session.NewMemoryStore[*session.SearchSession](),
	}
}

// GallerySession returns the active gallery session for conv, if any.
func (h *Handler) GallerySession(conv Conversation) (*session.GallerySession, bool) {
	return h.galleries.Get(conv.Key())
}

// SearchSession returns the active search session for conv, if any.
func (h *Handler) SearchSession(conv Conversation) (*session.SearchSession, bool) {
	return h.searches.Get(conv.Key())
}

// OpenGallery retrieves a gallery and starts a session on its cover,
// replacing any session already open in conv.
func (h *Handler) OpenGallery(ctx context.Context, conv Conversation, galleryID int, spoiler bool) error {
	if galleryID <= 0 {
		return h.reply(ctx, conv, fmt.Sprintf("Gallery id must be positive, got %d.", galleryID))
	}

	g, err := h.retriever.FetchGallery(ctx, galleryID)
	if err != nil {
		if msg, ok := failureMessage(err, galleryID, ""); ok {
			log.Printf("[Bot] Gallery %d: %v", galleryID, err)
			return h.reply(ctx, conv, msg)
		}
		return err
	}

	sess := session.NewGallerySession(conv.UserID, g, spoiler)
	h.galleries.Put(conv.Key(), sess)
	log.Printf("[Bot] %s opened gallery %d (%d pages) via %s", conv.Key(), g.GalleryID, g.Len(), g.Provider)

	// a missing cover should not stop the session from starting
	coverURL := ""
	if entry, err := h.mirror(ctx, sess, 0); err != nil {
		log.Printf("[Bot] Cover for gallery %d unavailable: %v", g.GalleryID, err)
	} else {
		coverURL = entry.BlobURL
	}

	err = h.responder.Send(ctx, conv, Message{
		Content: startHint,
		Embed:   startEmbed(sess, coverURL),
		Buttons: navigationButtons(sess),
	})
	if err != nil {
		return err
	}

	h.prefetch(sess, 1, h.opts.InitialLookahead)
	return nil
}

// NextPage advances the session and sends the new page. Running past the
// last page ends the session.
func (h *Handler) NextPage(ctx context.Context, conv Conversation) error {
	sess, ok := h.galleries.Get(conv.Key())
	if !ok {
		return h.replyEphemeral(ctx, conv, sessionExpired)
	}

	if !sess.Advance() {
		h.galleries.Remove(conv.Key())
		log.Printf("[Bot] %s finished gallery %d", conv.Key(), sess.Gallery.GalleryID)
		return h.reply(ctx, conv, endOfWork)
	}
	return h.SendCurrentPage(ctx, conv, sess)
}

func (h *Handler) PreviousPage(ctx context.Context, conv Conversation) error {
	sess, ok := h.galleries.Get(conv.Key())
	if !ok {
		return h.replyEphemeral(ctx, conv, sessionExpired)
	}

	if !sess.Previous() {
		return h.replyEphemeral(ctx, conv, "You are already on the first page.")
	}
	return h.SendCurrentPage(ctx, conv, sess)
}

// GotoPage jumps to page n; 0 is the cover.
func (h *Handler) GotoPage(ctx context.Context, conv Conversation, n int) error {
	sess, ok := h.galleries.Get(conv.Key())
	if !ok {
		return h.replyEphemeral(ctx, conv, noGallerySession)
	}

	if !sess.SetPage(n) {
		return h.reply(ctx, conv, fmt.Sprintf("Invalid page number. Must be between 1 and %d (0 for the cover).", sess.Len()))
	}
	return h.SendCurrentPage(ctx, conv, sess)
}

// SendCurrentPage shows the session's current page from the mirror, then
// warms the pages around it in the background.
func (h *Handler) SendCurrentPage(ctx context.Context, conv Conversation, sess *session.GallerySession) error {
	entry, err := h.mirror(ctx, sess, sess.CurrentPage)
	if err != nil {
		return fmt.Errorf("page %d of gallery %d: %w", sess.CurrentPage, sess.Gallery.GalleryID, err)
	}

	err = h.responder.Send(ctx, conv, Message{
		Embed:   pageEmbed(sess, entry.BlobURL),
		Buttons: navigationButtons(sess),
	})
	if err != nil {
		return err
	}

	h.prefetch(sess, sess.CurrentPage-h.opts.Lookbehind, sess.CurrentPage+h.opts.Lookahead)
	return nil
}

// Search runs the first page of a query and opens a search session.
func (h *Handler) Search(ctx context.Context, conv Conversation, query string, sort models.SortOrder) error {
	q, err := validation.ValidateSearchQuery(query)
	if err != nil {
		return h.replyEphemeral(ctx, conv, err.Error())
	}

	result, maxPages, err := h.retriever.FetchSearch(ctx, q, 1, sort)
	if err != nil {
		if msg, ok := failureMessage(err, 0, q); ok {
			log.Printf("[Bot] Search %q: %v", q, err)
			return h.reply(ctx, conv, msg)
		}
		return err
	}
	if result.Len() == 0 {
		return h.reply(ctx, conv, fmt.Sprintf("No results found for query `%s`.", q))
	}

	sess := session.NewSearchSession(conv.UserID, q, sort, result, maxPages)
	h.searches.Put(conv.Key(), sess)
	log.Printf("[Bot] %s searched %q (%s), %d pages", conv.Key(), q, sort.PrettyName(), maxPages)

	return h.responder.Send(ctx, conv, selectorMessage(sess, result))
}

// SearchPage shows another page of the open search. Pages already seen are
// not fetched again.
func (h *Handler) SearchPage(ctx context.Context, conv Conversation, n int) error {
	sess, ok := h.searches.Get(conv.Key())
	if !ok {
		return h.replyEphemeral(ctx, conv, sessionExpired)
	}
	if n < 1 || n > sess.MaxPages {
		return h.reply(ctx, conv, fmt.Sprintf("Invalid page number. Must be between 1 and %d.", sess.MaxPages))
	}

	result, err := sess.Page(ctx, n, func(ctx context.Context, page int) (*models.SearchResult, error) {
		r, _, err := h.retriever.FetchSearch(ctx, sess.Query, page, sess.Sort)
		return r, err
	})
	if err != nil {
		if msg, ok := failureMessage(err, 0, sess.Query); ok {
			log.Printf("[Bot] Search %q page %d: %v", sess.Query, n, err)
			return h.reply(ctx, conv, msg)
		}
		return err
	}
	return h.responder.Send(ctx, conv, selectorMessage(sess, result))
}

// SelectResult opens the gallery picked from a results menu.
func (h *Handler) SelectResult(ctx context.Context, conv Conversation, galleryID int) error {
	return h.OpenGallery(ctx, conv, galleryID, false)
}

// HandleText reacts to the "np" and "pp" shortcuts. It reports whether text
// was a shortcut with an open gallery session.
func (h *Handler) HandleText(ctx context.Context, conv Conversation, text string) (bool, error) {
	cmd := strings.ToLower(strings.TrimSpace(text))
	if cmd != "np" && cmd != "pp" {
		return false, nil
	}
	if _, ok := h.galleries.Get(conv.Key()); !ok {
		return false, nil
	}

	if cmd == "np" {
		return true, h.NextPage(ctx, conv)
	}
	return true, h.PreviousPage(ctx, conv)
}

// mirror returns the mirrored copy of page n, creating it when missing.
func (h *Handler) mirror(ctx context.Context, sess *session.GallerySession, n int) (*models.BlobEntry, error) {
	src := sess.PageURL(n)
	entry, err := h.relay.GetCached(ctx, src)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		return entry, nil
	}
	return h.relay.Populate(ctx, src, sess.PageFilename(n))
}

// prefetch queues pages lo..hi, skipping the current page and pages outside
// the gallery.
func (h *Handler) prefetch(sess *session.GallerySession, lo, hi int) {
	if h.prefetcher == nil {
		return
	}

	var refs []cache.PageRef
	for n := lo; n <= hi; n++ {
		if n == sess.CurrentPage || !sess.IsValidPage(n) {
			continue
		}
		refs = append(refs, cache.PageRef{URL: sess.PageURL(n), Filename: sess.PageFilename(n)})
	}

	h.prefetcher.Submit(cache.PrefetchJob{
		Label: fmt.Sprintf("gallery %d around page %d", sess.Gallery.GalleryID, sess.CurrentPage),
		Pages: refs,
	})
}

func (h *Handler) reply(ctx context.Context, conv Conversation, content string) error {
	return h.responder.Send(ctx, conv, Message{Content: content})
}

func (h *Handler) replyEphemeral(ctx context.Context, conv Conversation, content string) error {
	return h.responder.Send(ctx, conv, Message{Content: content, Ephemeral: true})
}
