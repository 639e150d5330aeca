package snapshot

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"perfume-dashboard/utils"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Options configures a dashboard capture.
type Options struct {
	URL       string
	Path      string
	ChromeBin string
	Width     int
	Height    int
	// Settle is how long to wait after the page is visible so charts can load.
	Settle     time.Duration
	Timeout    time.Duration
	MaxRetries int
}

// Capturer renders the running dashboard in headless Chrome and saves a
// full-page PNG.
type Capturer struct {
	opts   Options
	logger *utils.Logger
	retry  *utils.RetryConfig
}

// New creates a Capturer, filling unset options with defaults.
func New(opts Options, logger *utils.Logger) *Capturer {
	if opts.Width <= 0 {
		opts.Width = 1440
	}
	if opts.Height <= 0 {
		opts.Height = 900
	}
	if opts.Settle <= 0 {
		opts.Settle = 3 * time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &Capturer{
		opts:   opts,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: opts.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Capture returns the PNG bytes of the dashboard page.
func (c *Capturer) Capture(ctx context.Context) ([]byte, error) {
	chromeBin := FindChromeBinary(c.opts.ChromeBin)
	c.logger.Info("[snapshot] Using browser binary: %s", chromeBin)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocatorOptions(chromeBin, c.opts.Width, c.opts.Height)...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	var buf []byte
	err := c.retry.DoContext(ctx, "capture-dashboard", func() error {
		tctx, cancelTimeout := context.WithTimeout(browserCtx, c.opts.Timeout)
		defer cancelTimeout()

		return chromedp.Run(tctx,
			chromedp.Navigate(c.opts.URL),
			chromedp.WaitVisible("body", chromedp.ByQuery),
			chromedp.Sleep(c.opts.Settle),
			chromedp.FullScreenshot(&buf, 100),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", c.opts.URL, err)
	}
	return buf, nil
}

// Save captures the dashboard and writes it to the configured path.
func (c *Capturer) Save(ctx context.Context) (string, error) {
	buf, err := c.Capture(ctx)
	if err != nil {
		return "", err
	}
	if err := writeFile(c.opts.Path, buf); err != nil {
		return "", err
	}
	c.logger.Info("[snapshot] Saved %d bytes to %s", len(buf), c.opts.Path)
	return c.opts.Path, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("snapshot: create dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("snapshot: write %s: %w", path, err)
	}
	return nil
}

func allocatorOptions(chromeBin string, width, height int) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.WindowSize(width, height),
		chromedp.UserAgent(userAgent),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}
	return opts
}

// FindChromeBinary returns configured when set, then looks for a Chrome or
// Chromium install. Empty means chromedp should use its own lookup.
func FindChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
