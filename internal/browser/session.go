package browser

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Launcher starts one browser session per call.
type Launcher struct {
	Options     Options
	CookiesPath string
}

// Session owns the playwright driver, the browser and its single context.
type Session struct {
	pm         *PlaywrightManager
	browserCtx playwright.BrowserContext
}

func (l *Launcher) Launch(ctx context.Context) (*Session, error) {
	pm, err := NewPlaywright(ctx, l.Options)
	if err != nil {
		return nil, err
	}

	var cookies []playwright.OptionalCookie
	if l.CookiesPath != "" {
		cookies, err = LoadCookies(l.CookiesPath)
		if err != nil {
			log.Printf("⚠️ Could not load cookies from %s: %v. Continuing.", l.CookiesPath, err)
		} else {
			log.Printf("🍪 Loaded %d cookies", len(cookies))
		}
	}

	browserCtx, err := pm.NewContext(cookies)
	if err != nil {
		pm.Close()
		return nil, err
	}

	return &Session{pm: pm, browserCtx: browserCtx}, nil
}

func (s *Session) NewPage() (*Page, error) {
	page, err := s.browserCtx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	return &Page{page: page}, nil
}

// Close releases the context, the browser and the driver.
func (s *Session) Close() error {
	if s.browserCtx != nil {
		if err := s.browserCtx.Close(); err != nil {
			log.Printf("⚠️ Failed to close browser context: %v", err)
		}
		s.browserCtx = nil
	}
	return s.pm.Close()
}

// Page exposes the handful of interactions a verification run needs.
// Element lookups are resolved on every call and never cached.
type Page struct {
	page playwright.Page
}

// NewPage wraps an existing playwright page.
func NewPage(page playwright.Page) *Page {
	return &Page{page: page}
}

func (p *Page) Navigate(url string, timeout time.Duration) error {
	resp, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   millis(timeout),
	})
	if err != nil {
		return err
	}
	if resp != nil && resp.Status() >= 400 {
		return fmt.Errorf("%s responded with status %d", url, resp.Status())
	}
	return nil
}

func (p *Page) WaitForText(text string, timeout time.Duration) error {
	return p.page.GetByText(text).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: millis(timeout),
	})
}

func (p *Page) TextVisible(text string) (bool, error) {
	return p.page.GetByText(text).First().IsVisible()
}

func (p *Page) ClickText(text string, timeout time.Duration) error {
	return p.page.GetByText(text).First().Click(playwright.LocatorClickOptions{
		Timeout: millis(timeout),
	})
}

func (p *Page) TitleVisible(title string) (bool, error) {
	return p.page.GetByTitle(title).First().IsVisible()
}

func (p *Page) ClickTitle(title string, timeout time.Duration) error {
	return p.page.GetByTitle(title).First().Click(playwright.LocatorClickOptions{
		Timeout: millis(timeout),
	})
}

// Pause sleeps without any feedback from the page.
func (p *Page) Pause(d time.Duration) {
	p.page.WaitForTimeout(float64(d.Milliseconds()))
}

func (p *Page) Screenshot(path string) error {
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

func (p *Page) Close() error {
	return p.page.Close()
}

func millis(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}
