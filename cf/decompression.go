package cf

import (
	"bytes"
	"compress/gzip"
	"io"
	"log"

	"github.com/andybalholm/brotli"
	"github.com/gocolly/colly"
)

// DecompressResponse decompresses a colly response body in place when the
// server sent gzip or Brotli that the transport did not already undo.
//
// Example usage:
//
//	c.OnResponse(func(r *colly.Response) {
//	    if _, err := cf.DecompressResponse(r, "[Blob]"); err != nil {
//	        log.Printf("Decompression error: %v", err)
//	    }
//	})
func DecompressResponse(r *colly.Response, logPrefix string) (bool, error) {
	if r == nil || len(r.Body) == 0 {
		return false, nil
	}
	if logPrefix == "" {
		logPrefix = "[CF]"
	}

	encoding := ""
	if r.Headers != nil {
		encoding = r.Headers.Get("Content-Encoding")
	}

	before := len(r.Body)
	body, changed, err := DecompressResponseBody(r.Body, encoding)
	if err != nil {
		return false, err
	}
	if changed {
		r.Body = body
		log.Printf("%s Decompressed body: %d bytes -> %d bytes", logPrefix, before, len(body))
	}
	return changed, nil
}

// DecompressResponseBody returns the decompressed form of body.
// Gzip is recognised by its magic bytes (1f 8b). Brotli has no magic number,
// so it is tried when the header says "br" or the first byte looks like a
// Brotli window descriptor; a failed Brotli attempt returns the body unchanged.
func DecompressResponseBody(body []byte, contentEncoding string) ([]byte, bool, error) {
	if len(body) == 0 {
		return body, false, nil
	}

	if len(body) >= 2 && body[0] == 0x1f && body[1] == 0x8b {
		reader, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, false, err
		}
		defer reader.Close()

		out, err := io.ReadAll(reader)
		if err != nil {
			return nil, false, err
		}
		return out, true, nil
	}

	// 0x89 also starts every PNG
	if bytes.HasPrefix(body, []byte("\x89PNG")) {
		return body, false, nil
	}

	if contentEncoding == "br" || (body[0] >= 0x80 && body[0] <= 0x8f) {
		out, err := io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
		if err != nil {
			return body, false, nil
		}
		return out, true, nil
	}

	return body, false, nil
}
