package sites

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"comrade/downloader"
	"comrade/models"
)

// DefaultSources is the built-in preference order: mirrors first, then the
// primary site, then proxies that reach the primary site for us.
func DefaultSources() []models.SourceConfig {
	return []models.SourceConfig{
		{Name: "nhentai.to Mirror", BaseURL: "https://nhentai.to", Kind: models.KindMirror},
		{Name: "NHentai", BaseURL: "https://nhentai.net", Kind: models.KindDirect},
		{Name: "Google Translate Proxy", BaseURL: "http://translate.google.com/translate?sl=ja&tl=en&u=https://nhentai.net", Kind: models.KindTranslateProxy},
	}
}

// LoadSourcesConfig reads sources.json. A missing file, or an empty path,
// yields the default sources.
func LoadSourcesConfig(path string) (models.SourcesConfig, error) {
	if path == "" {
		return models.SourcesConfig{Sources: DefaultSources()}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("[Sources] %s not found, using built-in sources", path)
		return models.SourcesConfig{Sources: DefaultSources()}, nil
	}
	if err != nil {
		return models.SourcesConfig{}, fmt.Errorf("error reading sources config: %w", err)
	}

	var cfg models.SourcesConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return models.SourcesConfig{}, fmt.Errorf("error unmarshalling sources config: %w", err)
	}
	if len(cfg.Sources) == 0 {
		return models.SourcesConfig{}, fmt.Errorf("%s lists no sources", path)
	}
	return cfg, nil
}

// NewRegistry builds the ordered, read-only source list. All sources share
// one fetcher.
func NewRegistry(cfg models.SourcesConfig, fetcher downloader.Fetcher) ([]downloader.Source, error) {
	out := make([]downloader.Source, 0, len(cfg.Sources))
	for _, sc := range cfg.Sources {
		src, err := NewSource(sc, fetcher)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, nil
}
