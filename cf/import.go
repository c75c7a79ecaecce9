package cf

import (
	"errors"
	"fmt"
	"os"

	"golang.design/x/clipboard"
)

// ImportFromClipboard reads exported bypass JSON from the clipboard and stores
// it. Returns the domain on success.
func ImportFromClipboard() (string, error) {
	if err := clipboard.Init(); err != nil {
		LogCFImport("unknown", false, err)
		return "", fmt.Errorf("failed to initialize clipboard: %w", err)
	}

	raw := clipboard.Read(clipboard.FmtText)
	if len(raw) == 0 {
		err := errors.New("clipboard is empty")
		LogCFImport("unknown", false, err)
		return "", err
	}
	return importData(raw)
}

// ImportFromFile is ImportFromClipboard for a JSON file on disk.
func ImportFromFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return importData(raw)
}

func importData(raw []byte) (string, error) {
	data, err := ParseCapturedData(string(raw))
	if err != nil {
		LogCFImport("unknown", false, err)
		return "", fmt.Errorf("failed to parse bypass data: %w", err)
	}
	if err := SaveToFile(data); err != nil {
		LogCFImport(data.Domain, false, err)
		return "", err
	}
	LogCFImport(data.Domain, true, nil)
	return data.Domain, nil
}
