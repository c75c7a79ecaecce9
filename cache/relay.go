package cache

import (
	"context"
	"fmt"
	"log"
	"sync"

	"comrade/models"
	"comrade/parser"

	"github.com/dustin/go-humanize"
	"github.com/golang/groupcache/lru"
	"golang.org/x/sync/singleflight"
)

// DefaultLRUSize is the number of entries kept in front of the index.
const DefaultLRUSize = 1024

// Stats counts lookups against the in-memory front.
type Stats struct {
	Gets   int64
	Hits   int64
	Misses int64
}

// Relay mirrors remote images to an Uploader and remembers where they went.
type Relay struct {
	index    BlobIndex
	uploader Uploader
	fetcher  BlobFetcher

	mu    sync.Mutex
	front *lru.Cache
	stats Stats

	group singleflight.Group
}

// NewRelay wires the relay's collaborators. size <= 0 uses DefaultLRUSize.
func NewRelay(index BlobIndex, uploader Uploader, fetcher BlobFetcher, size int) *Relay {
	if size <= 0 {
		size = DefaultLRUSize
	}
	return &Relay{
		index:    index,
		uploader: uploader,
		fetcher:  fetcher,
		front:    lru.New(size),
	}
}

// GetCached returns the mirrored entry for sourceURL, or nil when it has not
// been mirrored yet.
func (r *Relay) GetCached(ctx context.Context, sourceURL string) (*models.BlobEntry, error) {
	if e := r.lookupFront(sourceURL); e != nil {
		return e, nil
	}

	e, err := r.index.Find(ctx, sourceURL)
	if err != nil {
		return nil, err
	}
	if e != nil {
		r.remember(e)
	}
	return e, nil
}

// Populate downloads, normalises and uploads sourceURL, then records it.
// Concurrent calls for the same URL share one download. When another writer
// stored the URL first, its entry wins.
func (r *Relay) Populate(ctx context.Context, sourceURL, filename string) (*models.BlobEntry, error) {
	v, err, shared := r.group.Do(sourceURL, func() (interface{}, error) {
		return r.populate(ctx, sourceURL, filename)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Printf("[Relay] Shared in-flight upload for %s", sourceURL)
	}
	return v.(*models.BlobEntry), nil
}

// Mirror returns the cached entry for sourceURL, populating it on a miss.
func (r *Relay) Mirror(ctx context.Context, sourceURL, filename string) (*models.BlobEntry, error) {
	e, err := r.GetCached(ctx, sourceURL)
	if err != nil {
		return nil, err
	}
	if e != nil {
		return e, nil
	}
	return r.Populate(ctx, sourceURL, filename)
}

// Stats returns a snapshot of the front cache counters.
func (r *Relay) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *Relay) populate(ctx context.Context, sourceURL, filename string) (*models.BlobEntry, error) {
	existing, err := r.index.Find(ctx, sourceURL)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		r.remember(existing)
		return existing, nil
	}

	raw, err := r.fetcher.FetchRaw(ctx, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", sourceURL, err)
	}

	data, name, err := parser.NormalizeImage(raw, filename)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", sourceURL, err)
	}

	blobURL, err := r.uploader.Upload(ctx, data, name)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}

	stored, err := r.index.Insert(ctx, models.BlobEntry{
		SourceURL: sourceURL,
		BlobURL:   blobURL,
		Filename:  name,
		Size:      int64(len(data)),
	})
	if err != nil {
		return nil, err
	}
	if stored.BlobURL != blobURL {
		log.Printf("[Relay] %s was stored concurrently, keeping %s", sourceURL, stored.BlobURL)
	}

	log.Printf("[Relay] Mirrored %s as %s (%s)", sourceURL, name, humanize.Bytes(uint64(len(data))))
	r.remember(stored)
	return stored, nil
}

func (r *Relay) lookupFront(sourceURL string) *models.BlobEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stats.Gets++
	if v, ok := r.front.Get(sourceURL); ok {
		r.stats.Hits++
		return v.(*models.BlobEntry)
	}
	r.stats.Misses++
	return nil
}

func (r *Relay) remember(e *models.BlobEntry) {
	r.mu.Lock()
	r.front.Add(e.SourceURL, e)
	r.mu.Unlock()
}
