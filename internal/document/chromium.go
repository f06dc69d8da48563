package document

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Paper sizes in inches as expected by Page.printToPDF.
var paperInches = map[PageSize][2]float64{
	PageA4: {8.27, 11.69},
	PageA5: {5.83, 8.27},
}

// ChromiumEngine prints the HTML rendition through a headless Chrome.
type ChromiumEngine struct {
	execPath string
}

// NewChromiumEngine constructs the engine. An empty execPath lets chromedp locate the browser.
func NewChromiumEngine(execPath string) *ChromiumEngine {
	return &ChromiumEngine{execPath: execPath}
}

// PrintPDF loads page.HTML into a blank tab and prints it.
func (e *ChromiumEngine) PrintPDF(ctx context.Context, p Page) ([]byte, error) {
	if len(p.HTML) == 0 {
		return nil, fmt.Errorf("page has no html")
	}

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if e.execPath != "" {
		opts = append(opts, chromedp.ExecPath(e.execPath))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	size, ok := paperInches[p.Size]
	if !ok {
		size = paperInches[PageA4]
	}

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, string(p.HTML)).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithLandscape(p.Landscape).
				WithPaperWidth(size[0]).
				WithPaperHeight(size[1]).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chromium print: %w", err)
	}
	return pdf, nil
}
