package cf

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// maxBypassAge is how long captured bypass data is trusted.
const maxBypassAge = 24 * time.Hour

// storageDir overrides the default location; tests point it at a temp dir.
var storageDir string

// SetStorageDir changes where bypass data is read from and written to.
func SetStorageDir(dir string) {
	storageDir = dir
}

func bypassDir() (string, error) {
	if storageDir != "" {
		return storageDir, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, "comrade", "cf"), nil
}

func bypassFile(domain string) (string, error) {
	dir, err := bypassDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, domain+".json"), nil
}

// ParseCapturedData parses exported bypass JSON.
func ParseCapturedData(jsonData string) (*BypassData, error) {
	var data BypassData
	if err := json.Unmarshal([]byte(jsonData), &data); err != nil {
		logCF("ParseCapturedData: JSON unmarshal failed: %v", err)
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	data.Domain = strings.TrimPrefix(strings.TrimSpace(data.Domain), "www.")
	if data.Domain == "" {
		return nil, errors.New("domain is empty")
	}
	if !data.HasCookies() {
		return nil, errors.New("no cookies in bypass data")
	}
	if data.CapturedAt == "" {
		data.CapturedAt = time.Now().Format(time.RFC3339)
	}
	if data.Headers == nil {
		data.Headers = map[string]string{}
	}

	logCF("ParseCapturedData: domain=%s cookies=%d", data.Domain, len(data.AllCookies))
	return &data, nil
}

// SaveToFile stores bypass data under <config>/comrade/cf/<domain>.json.
func SaveToFile(data *BypassData) error {
	filename, err := bypassFile(data.Domain)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logCF("SaveToFile: saved %s (%d bytes)", filename, len(jsonData))
	LogCFCookieData(data)
	return nil
}

// LoadFromFile loads bypass data for a domain. A missing file is reported
// with an error wrapping os.ErrNotExist.
func LoadFromFile(domain string) (*BypassData, error) {
	filename, err := bypassFile(domain)
	if err != nil {
		return nil, err
	}

	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("no bypass data for %s: %w", domain, err)
	}

	var data BypassData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if data.Headers == nil {
		data.Headers = map[string]string{}
	}
	return &data, nil
}

// ValidateCookieData checks if stored cookie data is still usable.
func ValidateCookieData(data *BypassData) error {
	if data == nil {
		return errors.New("bypass data is nil")
	}
	if data.IsExpired(maxBypassAge) {
		return fmt.Errorf("bypass data for %s is older than %v", data.Domain, maxBypassAge)
	}

	c := data.Clearance()
	if c == nil {
		return errors.New("no cf_clearance cookie found")
	}
	if c.Value == "" {
		return errors.New("cf_clearance value is empty")
	}
	if exp := c.Expires(); !exp.IsZero() && time.Now().After(exp) {
		return fmt.Errorf("cf_clearance cookie expired at %s", exp.Format(time.RFC3339))
	}

	if failedAt, ok := data.Headers["_failed_at"]; ok {
		if t, err := time.Parse(time.RFC3339, failedAt); err == nil && time.Since(t) < 5*time.Minute {
			return fmt.Errorf("cookie failed %v ago, needs re-capture", time.Since(t).Round(time.Second))
		}
	}
	return nil
}

// MarkCookieAsFailed stamps the stored data so it is skipped for a while.
func MarkCookieAsFailed(domain string) error {
	data, err := LoadFromFile(domain)
	if err != nil {
		return err
	}
	data.Headers["_failed_at"] = time.Now().Format(time.RFC3339)
	return SaveToFile(data)
}

// ListStoredDomains returns every domain with stored bypass data.
func ListStoredDomains() ([]string, error) {
	dir, err := bypassDir()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var domains []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			domains = append(domains, strings.TrimSuffix(entry.Name(), ".json"))
		}
	}
	return domains, nil
}

// DeleteDomain removes stored bypass data for a domain.
func DeleteDomain(domain string) error {
	filename, err := bypassFile(domain)
	if err != nil {
		return err
	}
	if err := os.Remove(filename); err != nil {
		return fmt.Errorf("failed to delete bypass data for %s: %w", domain, err)
	}
	return nil
}
