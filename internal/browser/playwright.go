package browser

import (
	"context"
	"fmt"
	"log"

	"github.com/playwright-community/playwright-go"
)

type Options struct {
	Engine         string // chromium, firefox or webkit
	Headless       bool
	Install        bool
	ViewportWidth  int
	ViewportHeight int
}

type PlaywrightManager struct {
	pw       *playwright.Playwright
	browser  playwright.Browser
	viewport *playwright.Size
}

// NewPlaywright starts the playwright driver and launches one browser process.
func NewPlaywright(ctx context.Context, opts Options) (*PlaywrightManager, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.Engine == "" {
		opts.Engine = "chromium"
	}

	if opts.Install {
		log.Printf("⬇️ Installing playwright %s...", opts.Engine)
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{opts.Engine}}); err != nil {
			return nil, fmt.Errorf("could not install playwright: %w", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	var browserType playwright.BrowserType
	switch opts.Engine {
	case "chromium":
		browserType = pw.Chromium
	case "firefox":
		browserType = pw.Firefox
	case "webkit":
		browserType = pw.WebKit
	default:
		pw.Stop()
		return nil, fmt.Errorf("unsupported browser engine %q", opts.Engine)
	}

	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch %s browser: %w", opts.Engine, err)
	}

	pm := &PlaywrightManager{
		pw:      pw,
		browser: browser,
	}
	if opts.ViewportWidth > 0 && opts.ViewportHeight > 0 {
		pm.viewport = &playwright.Size{Width: opts.ViewportWidth, Height: opts.ViewportHeight}
	}
	return pm, nil
}

// NewContext opens an isolated browser context, preloading cookies when given.
func (pm *PlaywrightManager) NewContext(cookies []playwright.OptionalCookie) (playwright.BrowserContext, error) {
	browserCtx, err := pm.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: pm.viewport,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}

	if len(cookies) > 0 {
		if err := browserCtx.AddCookies(cookies); err != nil {
			browserCtx.Close()
			return nil, fmt.Errorf("could not add cookies: %w", err)
		}
	}
	return browserCtx, nil
}

// Close shuts the browser down and stops the driver. Safe to call more than once.
func (pm *PlaywrightManager) Close() error {
	var firstErr error
	if pm.browser != nil {
		if err := pm.browser.Close(); err != nil {
			firstErr = fmt.Errorf("could not close browser: %w", err)
		}
		pm.browser = nil
	}
	if pm.pw != nil {
		if err := pm.pw.Stop(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("could not stop playwright: %w", err)
		}
		pm.pw = nil
	}
	return firstErr
}
