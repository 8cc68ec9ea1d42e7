package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/tornadohq/posreport/internal/models"
)

const defaultRenderTimeout = 30 * time.Second

// Error codes for rendering failures.
const (
	ErrCodeRenderTimeout = "RENDER_TIMEOUT"
	ErrCodeRenderFailed  = "RENDER_FAILED"
	ErrCodeInvalidHTML   = "INVALID_HTML"
)

// RenderError represents an error during PDF rendering.
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Renderer turns report HTML into a paginated PDF using the Chrome DevTools
// Protocol. It holds an allocator context and must be Closed after use.
type Renderer struct {
	timeout     time.Duration
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewRenderer prepares a headless Chrome allocator. RemoteURL in the config
// points at an already-running browser; otherwise a local one is launched.
func NewRenderer(cfg models.RenderConfig, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultRenderTimeout
	}

	r := &Renderer{timeout: timeout, logger: logger}

	if cfg.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
		return r
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return r
}

// Render converts the document into PDF bytes. The page footer carries the
// generation timestamp and page number.
func (r *Renderer) Render(ctx context.Context, doc *Document) ([]byte, error) {
	html, err := BuildHTML(doc)
	if err != nil {
		return nil, &RenderError{Code: ErrCodeInvalidHTML, Message: "building report HTML", Cause: err}
	}
	if strings.TrimSpace(html) == "" {
		return nil, &RenderError{Code: ErrCodeInvalidHTML, Message: "report HTML is empty"}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx)
	defer browserCancel()

	footer := fmt.Sprintf(
		`<div style="font-size:8px; width:100%%; padding:0 40px; display:flex; justify-content:space-between;">`+
			`<span>Generated on %s</span>`+
			`<span>Page <span class="pageNumber"></span></span></div>`,
		doc.GeneratedAt.Format("2006-01-02 15:04"))

	var pdfData []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate(`<span></span>`).
				WithFooterTemplate(footer).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, &RenderError{
				Code:    ErrCodeRenderTimeout,
				Message: fmt.Sprintf("PDF rendering timed out after %v", r.timeout),
				Cause:   err,
			}
		}
		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, &RenderError{Code: ErrCodeRenderFailed, Message: "chromedp execution failed", Cause: err}
	}
	if len(pdfData) == 0 {
		return nil, &RenderError{Code: ErrCodeRenderFailed, Message: "generated PDF is empty"}
	}

	r.logger.Info("PDF rendered", zap.Int("bytes", len(pdfData)))
	return pdfData, nil
}

// Close releases the browser allocator.
func (r *Renderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}
