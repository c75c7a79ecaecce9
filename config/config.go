package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"comrade/parser"
)

// DefaultDirectory holds config.json, the logs, the blob index and the
// mirrored blobs unless overridden.
const DefaultDirectory = "~/.config/comrade"

// Config is the contents of config.json.
type Config struct {
	SourcesFile     string `json:"sources_file"`      // sources.json, built-in list when missing
	RequestTimeout  int    `json:"request_timeout"`   // seconds
	BrowserFallback bool   `json:"browser_fallback"`  // retry failed page fetches in Chrome
	DebugHTMLDir    string `json:"debug_html_dir"`    // dump every fetched page here when set
	DatabasePath    string `json:"database_path"`     // SQLite blob index
	BlobDir         string `json:"blob_dir"`          // mirrored image files
	BlobBaseURL     string `json:"blob_base_url"`     // public URL BlobDir is served at
	LRUSize         int    `json:"lru_size"`          // in-memory blob entries
	Lookahead       int    `json:"lookahead"`         // pages prefetched after the current one
	Lookbehind      int    `json:"lookbehind"`        // pages prefetched before the current one
	InitialPrefetch int    `json:"initial_prefetch"`  // pages prefetched when a gallery opens
	PrefetchDelayMS int    `json:"prefetch_delay_ms"` // spacing between prefetched pages

	dir string
}

// Default returns the configuration used when config.json does not exist.
func Default(dir string) Config {
	return Config{
		SourcesFile:     filepath.Join(dir, "sources.json"),
		RequestTimeout:  30,
		BrowserFallback: false,
		DatabasePath:    filepath.Join(dir, "blobs.db"),
		BlobDir:         filepath.Join(dir, "blobs"),
		BlobBaseURL:     "file://" + filepath.ToSlash(filepath.Join(dir, "blobs")),
		LRUSize:         1024,
		Lookahead:       3,
		Lookbehind:      1,
		InitialPrefetch: 5,
		PrefetchDelayMS: 500,
		dir:             dir,
	}
}

// Dir is the directory config.json was loaded from.
func (c Config) Dir() string { return c.dir }

// LogFile is where the main log is written.
func (c Config) LogFile() string { return filepath.Join(c.dir, "comrade.log") }

func (c Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

func (c Config) PrefetchInterval() time.Duration {
	return time.Duration(c.PrefetchDelayMS) * time.Millisecond
}

// Load reads dir/config.json, creating dir and a default config when they do
// not exist. An empty dir means DefaultDirectory.
func Load(dir string) (Config, error) {
	dir, err := verifyConfigDirectory(dir)
	if err != nil {
		return Config{}, fmt.Errorf("error verifying config directory: %w", err)
	}

	path := filepath.Join(dir, "config.json")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("[Config] %s not found, creating defaults", path)
		cfg := Default(dir)
		if err := cfg.Save(); err != nil {
			return Config{}, fmt.Errorf("error creating config file: %w", err)
		}
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("error reading config file: %w", err)
	}

	// missing keys keep their defaults
	cfg := Default(dir)
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if cfg.RequestTimeout <= 0 {
		return Config{}, fmt.Errorf("request_timeout must be positive, got %d", cfg.RequestTimeout)
	}
	if cfg.Lookahead < 0 || cfg.Lookbehind < 0 || cfg.InitialPrefetch < 0 {
		return Config{}, errors.New("prefetch page counts cannot be negative")
	}
	cfg.dir = dir
	return cfg, nil
}

// Save writes the config back to its directory.
func (c Config) Save() error {
	jsonData, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, "config.json"), jsonData, 0644)
}

// check config directory exists or create it
func verifyConfigDirectory(dir string) (string, error) {
	if dir == "" {
		dir = DefaultDirectory
	}
	configDirectory, expandError := parser.ExpandPath(dir)
	if expandError != nil {
		return "", fmt.Errorf("cannot verify local configuration directory: %w", expandError)
	}

	_, err := os.Stat(configDirectory)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(configDirectory, 0755); err != nil {
			return "", fmt.Errorf("error creating directory %s: %w", configDirectory, err)
		}
		log.Printf("[Config] Directory %s created successfully.", configDirectory)
	} else if err != nil {
		return "", fmt.Errorf("error checking directory %s: %w", configDirectory, err)
	}

	return configDirectory, nil
}
