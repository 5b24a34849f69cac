package printer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/five82/kampfrichter/internal/apperr"
)

const defaultLoadTimeout = 30 * time.Second

// BinaryFunc reports the Chromium executable to use, if one is known.
type BinaryFunc func() (string, bool)

// ChromePrinter prints through a headless Chromium over the DevTools
// protocol. Each call launches and closes its own browser.
type ChromePrinter struct {
	binary      BinaryFunc
	logger      *log.Logger
	loadTimeout time.Duration
}

var _ Printer = (*ChromePrinter)(nil)

// NewChromePrinter returns a printer that resolves the browser through binary
// on every call.
func NewChromePrinter(binary BinaryFunc, logger *log.Logger) *ChromePrinter {
	if logger == nil {
		logger = log.Default()
	}
	return &ChromePrinter{
		binary:      binary,
		logger:      logger.With("component", "printer"),
		loadTimeout: defaultLoadTimeout,
	}
}

// PrintToPDF implements Printer.
func (p *ChromePrinter) PrintToPDF(ctx context.Context, htmlPath, pdfPath string, cfg PageConfig) error {
	var bin string
	var ok bool
	if p.binary != nil {
		bin, ok = p.binary()
	}
	if !ok || strings.TrimSpace(bin) == "" {
		return apperr.New(apperr.ChromiumBinaryIsUnexpectedlyNone, "print pdf", errors.New("no chromium binary available"))
	}

	target, err := fileURL(htmlPath)
	if err != nil {
		return apperr.New(apperr.NavigationToGeneratedHTMLFileFailed, "print pdf", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(bin),
		chromedp.Flag("allow-file-access-from-files", true),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(p.logger.Debugf))
	defer cancelBrowser()
	if err := chromedp.Run(browserCtx); err != nil {
		return apperr.New(apperr.BrowserCouldNotBeBuild, "print pdf", err)
	}

	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	defer cancelTab()
	if err := chromedp.Run(tabCtx); err != nil {
		return apperr.New(apperr.NewTabCouldNotBeCreated, "print pdf", err)
	}

	p.logger.Debug("navigating to generated html", "url", target)
	if err := chromedp.Run(tabCtx, chromedp.Navigate(target)); err != nil {
		return apperr.New(apperr.NavigationToGeneratedHTMLFileFailed, "print pdf", err)
	}

	waitCtx, cancelWait := context.WithTimeout(tabCtx, p.loadTimeout)
	defer cancelWait()
	if err := chromedp.Run(waitCtx, chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		return apperr.New(apperr.WaitingForNavigationFailed, "print pdf", err)
	}

	var data []byte
	err = chromedp.Run(tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		buf, _, err := printParams(cfg).Do(ctx)
		data = buf
		return err
	}))
	if err != nil {
		return apperr.New(apperr.PDFGenerationInChromiumFailed, "print pdf", err)
	}

	if err := os.WriteFile(pdfPath, data, 0o644); err != nil {
		return apperr.New(apperr.WritingPDFDataToDiskFailed, "print pdf", fmt.Errorf("write pdf: %w", err))
	}
	p.logger.Info("wrote pdf", "path", pdfPath, "bytes", len(data))
	return nil
}

func printParams(cfg PageConfig) *page.PrintToPDFParams {
	scale := cfg.Scale
	if scale <= 0 {
		scale = 1
	}
	return page.PrintToPDF().
		WithPaperWidth(cfg.PaperWidth).
		WithPaperHeight(cfg.PaperHeight).
		WithMarginTop(cfg.MarginTop).
		WithMarginBottom(cfg.MarginBottom).
		WithMarginLeft(cfg.MarginLeft).
		WithMarginRight(cfg.MarginRight).
		WithScale(scale).
		WithDisplayHeaderFooter(cfg.DisplayHeaderFooter).
		WithPrintBackground(true)
}

func fileURL(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("html path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve html path: %w", err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
	}
	return u.String(), nil
}
