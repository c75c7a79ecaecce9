package bot

import (
	"errors"
	"fmt"

	"comrade/downloader"
)

// failureMessage turns a retrieval failure into the text shown to the user.
// It reports false for errors that are not retrieval failures.
func failureMessage(err error, galleryID int, query string) (string, bool) {
	switch {
	case errors.Is(err, downloader.ErrNoSources):
		return "No NHentai sources are configured.", true
	case downloader.IsNoResults(err):
		return fmt.Sprintf("No results found for query `%s`.", query), true
	case downloader.IsNotFound(err):
		return fmt.Sprintf("Gallery `%d` was not found.", galleryID), true
	case downloader.IsBlocked(err):
		return "No NHentai sources returned a valid response.", true
	case downloader.IsTransport(err):
		return "HTTP requests to sources failed.", true
	}
	return "", false
}
