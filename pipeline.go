package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"comrade/bot"
	"comrade/cache"
	"comrade/cf"
	"comrade/config"
	"comrade/downloader"
	"comrade/parser"
	"comrade/sites"
)

// setupLogging sends the standard logger to the log file, and to stderr
// as well when verbose is set. The returned func closes the file.
func setupLogging(cfg config.Config, verbose bool) (func(), error) {
	f, err := os.OpenFile(cfg.LogFile(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	if verbose {
		log.SetOutput(io.MultiWriter(os.Stderr, f))
	} else {
		log.SetOutput(f)
	}

	if err := cf.InitCFLogger(cfg.Dir()); err != nil {
		log.Printf("[Main] Anti-bot debug log disabled: %v", err)
	}
	cf.SetStorageDir(filepath.Join(cfg.Dir(), "cf"))

	return func() {
		cf.CloseCFLogger()
		log.SetOutput(os.Stderr)
		f.Close()
	}, nil
}

// pipeline is everything a command needs to serve galleries.
type pipeline struct {
	retriever  *downloader.Retriever
	index      *cache.SQLiteIndex
	relay      *cache.Relay
	prefetcher *cache.Prefetcher
	limiter    *parser.RateLimiter
	handler    *bot.Handler
}

func newFetcher(cfg config.Config) (downloader.Fetcher, error) {
	httpClient, err := downloader.NewHTTPClient(cfg.Timeout())
	if err != nil {
		return nil, err
	}
	httpClient.DebugSaveHTMLDir = cfg.DebugHTMLDir

	if !cfg.BrowserFallback {
		return httpClient, nil
	}
	return downloader.NewRequestExecutor(httpClient, &downloader.BrowserFetcher{Timeout: 2 * cfg.Timeout()}), nil
}

func newRetriever(cfg config.Config) (*downloader.Retriever, error) {
	sourcesCfg, err := sites.LoadSourcesConfig(cfg.SourcesFile)
	if err != nil {
		return nil, err
	}
	fetcher, err := newFetcher(cfg)
	if err != nil {
		return nil, err
	}
	sources, err := sites.NewRegistry(sourcesCfg, fetcher)
	if err != nil {
		return nil, err
	}
	return downloader.NewRetriever(sources), nil
}

func newPipeline(cfg config.Config, responder bot.Responder) (*pipeline, error) {
	retriever, err := newRetriever(cfg)
	if err != nil {
		return nil, err
	}

	index, err := cache.OpenSQLiteIndex(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	uploader, err := cache.NewDirUploader(cfg.BlobDir, cfg.BlobBaseURL)
	if err != nil {
		index.Close()
		return nil, err
	}

	relay := cache.NewRelay(index, uploader, downloader.NewBlobClient(cfg.Timeout()), cfg.LRUSize)

	var limiter *parser.RateLimiter
	if cfg.PrefetchInterval() > 0 {
		limiter = parser.NewRateLimiter(cfg.PrefetchInterval())
	}
	prefetcher := cache.NewPrefetcher(relay, limiter)

	handler := bot.NewHandler(retriever, relay, prefetcher, responder, bot.Options{
		Lookahead:        cfg.Lookahead,
		Lookbehind:       cfg.Lookbehind,
		InitialLookahead: cfg.InitialPrefetch,
	})

	return &pipeline{
		retriever:  retriever,
		index:      index,
		relay:      relay,
		prefetcher: prefetcher,
		limiter:    limiter,
		handler:    handler,
	}, nil
}

// Close lets queued prefetches finish before releasing the index.
func (p *pipeline) Close() {
	p.prefetcher.Close()
	p.limiter.Stop()

	stats := p.relay.Stats()
	log.Printf("[Main] Relay front cache: %d gets, %d hits, %d misses", stats.Gets, stats.Hits, stats.Misses)

	if err := p.index.Close(); err != nil {
		log.Printf("[Main] Closing blob index: %v", err)
	}
}
