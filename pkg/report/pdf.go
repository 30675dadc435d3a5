package report

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// ErrBrowserUnavailable is returned when no Chrome or Chromium binary can be
// found.
var ErrBrowserUnavailable = errors.New("report: no headless browser available")

var tracer = otel.Tracer("github.com/bguard/bguard-suite/pkg/report")

// PDFRenderer turns report data into a PDF document.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, data *Data) ([]byte, error)
}

var browserCandidates = []string{
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"headless-shell",
}

// ChromeRenderer prints the HTML report with headless Chrome.
type ChromeRenderer struct {
	// ExecPath overrides the browser lookup.
	ExecPath string
	Timeout  time.Duration
}

func NewChromeRenderer(execPath string) *ChromeRenderer {
	return &ChromeRenderer{ExecPath: execPath, Timeout: 60 * time.Second}
}

func (c *ChromeRenderer) browser() (string, error) {
	if c.ExecPath != "" {
		if _, err := exec.LookPath(c.ExecPath); err != nil {
			return "", fmt.Errorf("%w: %s", ErrBrowserUnavailable, c.ExecPath)
		}
		return c.ExecPath, nil
	}
	for _, name := range browserCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", ErrBrowserUnavailable
}

func (c *ChromeRenderer) RenderPDF(ctx context.Context, data *Data) ([]byte, error) {
	execPath, err := c.browser()
	if err != nil {
		return nil, err
	}

	html, err := RenderHTML(data)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "report.chrome.render")
	defer span.End()
	span.SetAttributes(attribute.Int("report.html_bytes", len(html)))

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(execPath),
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			pdf = buf
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to print report: %w", err)
	}
	return pdf, nil
}

// Fallback renders with Primary and falls back to Secondary when Primary
// fails, e.g. because no browser is installed.
type Fallback struct {
	Primary   PDFRenderer
	Secondary PDFRenderer
}

func (f Fallback) RenderPDF(ctx context.Context, data *Data) ([]byte, error) {
	pdf, err := f.Primary.RenderPDF(ctx, data)
	if err == nil {
		return pdf, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	if !errors.Is(err, ErrBrowserUnavailable) {
		log.Printf("Browser PDF rendering failed, using native renderer: %v", err)
	}
	return f.Secondary.RenderPDF(ctx, data)
}
