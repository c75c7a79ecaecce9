package cf

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	maxLogSize    = 10 * 1024 * 1024 // 10MB
	maxLogFiles   = 3
	cfLogFileName = "cfDebug.log"
)

var (
	cfLogger   *log.Logger
	cfLogFile  *os.File
	cfLogMutex sync.Mutex
	cfLogSize  int64
	cfLogDir   string
)

// InitCFLogger opens the anti-bot debug log in configDir.
// Until it is called every log helper in this package is a no-op.
func InitCFLogger(configDir string) error {
	cfLogMutex.Lock()
	defer cfLogMutex.Unlock()

	cfLogDir = configDir
	logPath := filepath.Join(configDir, cfLogFileName)

	if info, err := os.Stat(logPath); err == nil {
		cfLogSize = info.Size()
		if cfLogSize >= maxLogSize {
			if err := rotateCFLogs(); err != nil {
				return fmt.Errorf("failed to rotate CF logs: %w", err)
			}
			cfLogSize = 0
		}
	}

	if err := openCFLog(logPath); err != nil {
		return err
	}
	cfLogger.Printf("=== debug log opened: %s (%d bytes) ===", logPath, cfLogSize)
	return nil
}

// CloseCFLogger closes the debug log file handle.
func CloseCFLogger() {
	cfLogMutex.Lock()
	defer cfLogMutex.Unlock()

	if cfLogFile != nil {
		cfLogger.Printf("=== debug log closing ===")
		cfLogFile.Close()
		cfLogFile = nil
		cfLogger = nil
	}
}

func openCFLog(logPath string) error {
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open CF log file: %w", err)
	}
	cfLogFile = file
	cfLogger = log.New(file, "", log.LstdFlags|log.Lmicroseconds)
	return nil
}

// rotateCFLogs shifts cfDebug.log -> .1 -> .2 ... dropping the oldest.
func rotateCFLogs() error {
	if cfLogFile != nil {
		cfLogFile.Close()
		cfLogFile = nil
	}

	basePath := filepath.Join(cfLogDir, cfLogFileName)
	os.Remove(fmt.Sprintf("%s.%d", basePath, maxLogFiles))

	for i := maxLogFiles - 1; i >= 1; i-- {
		os.Rename(fmt.Sprintf("%s.%d", basePath, i), fmt.Sprintf("%s.%d", basePath, i+1))
	}

	if err := os.Rename(basePath, basePath+".1"); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func logCF(format string, args ...interface{}) {
	cfLogMutex.Lock()
	defer cfLogMutex.Unlock()

	if cfLogger == nil {
		return
	}

	message := fmt.Sprintf(format, args...)
	cfLogger.Output(2, message)

	// rough estimate, timestamp included
	cfLogSize += int64(len(message) + 50)
	if cfLogSize < maxLogSize {
		return
	}

	if err := rotateCFLogs(); err != nil {
		log.Printf("[CF] Failed to rotate debug log: %v", err)
		cfLogger = nil
		return
	}
	if err := openCFLog(filepath.Join(cfLogDir, cfLogFileName)); err != nil {
		log.Printf("[CF] Failed to reopen debug log after rotation: %v", err)
		cfLogger = nil
		return
	}
	cfLogSize = 0
	cfLogger.Printf("=== Log Rotated ===")
}

// LogCFRequest logs an outgoing request and the cookies sent with it.
func LogCFRequest(domain, url, userAgent string, cookies []string) {
	logCF(">>> REQUEST %s (%s)", url, domain)
	logCF("  User-Agent: %s", userAgent)
	for i, cookie := range cookies {
		if len(cookie) > 100 {
			cookie = cookie[:100] + "..."
		}
		logCF("  cookie[%d] %s", i+1, cookie)
	}
}

// LogCFResponse logs the interesting headers and a body preview.
func LogCFResponse(statusCode int, bodySize int, headers map[string]string, bodyPreview string) {
	logCF("<<< RESPONSE status=%d size=%d", statusCode, bodySize)
	for key, value := range headers {
		k := strings.ToLower(key)
		if strings.Contains(k, "cookie") || strings.Contains(k, "cf-") || strings.Contains(k, "server") {
			logCF("  %s: %s", key, value)
		}
	}
	if bodyPreview != "" {
		logCF("  body: %s", bodyPreview)
	}
}

// LogCFDetection records a detection verdict.
func LogCFDetection(detected bool, info *Info) {
	logCF("=== DETECTION challenge=%v ===", detected)
	if !detected || info == nil {
		return
	}
	for i, indicator := range info.Indicators {
		logCF("  [%d] %s", i+1, indicator)
	}
	logCF("  ray=%s server=%s bic=%v turnstile=%v form=%s",
		info.RayID, info.ServerHeader, info.IsBIC, info.Turnstile, info.FormAction)
}

// LogCFCookieData logs stored bypass data for a domain.
func LogCFCookieData(data *BypassData) {
	logCF("=== STORED BYPASS DATA %s ===", data.Domain)
	if capturedTime, err := time.Parse(time.RFC3339, data.CapturedAt); err == nil {
		logCF("  Age: %v", time.Since(capturedTime).Round(time.Minute))
	}
	logCF("  Cookies: %d", len(data.AllCookies))
	if c := data.Clearance(); c != nil {
		if exp := c.Expires(); !exp.IsZero() {
			logCF("  cf_clearance expires in %v", time.Until(exp).Round(time.Minute))
		} else {
			logCF("  cf_clearance has no expiry")
		}
	} else {
		logCF("  no cf_clearance cookie")
	}
	logCF("  User-Agent: %s", data.Entropy.UserAgent)
}

func LogCFImport(domain string, success bool, err error) {
	logCF("=== IMPORT %s success=%v err=%v ===", domain, success, err)
}

func LogCFBrowserAction(action, url string, cookiesInjected int, success bool, err error) {
	logCF("=== BROWSER %s %s cookies=%d success=%v err=%v ===", action, url, cookiesInjected, success, err)
}

func LogCFError(context, domain string, err error) {
	logCF("!!! %s (%s): %v", context, domain, err)
}
