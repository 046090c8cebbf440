package verify

import (
	"context"
	"time"

	"go-dashboard-verification/internal/browser"
)

// Page is the single document a run interacts with.
type Page interface {
	Navigate(url string, timeout time.Duration) error
	WaitForText(text string, timeout time.Duration) error
	Settle(timeout, quiet time.Duration) error
	Pause(d time.Duration)
	Screenshot(path string) error
	TitleVisible(title string) (bool, error)
	ClickTitle(title string, timeout time.Duration) error
	TextVisible(text string) (bool, error)
	ClickText(text string, timeout time.Duration) error
	Close() error
}

type Session interface {
	NewPage() (Page, error)
	Close() error
}

type Launcher interface {
	Launch(ctx context.Context) (Session, error)
}

// PlaywrightLauncher runs verifications in a real playwright browser.
func PlaywrightLauncher(l *browser.Launcher) Launcher {
	return playwrightLauncher{l: l}
}

type playwrightLauncher struct {
	l *browser.Launcher
}

func (p playwrightLauncher) Launch(ctx context.Context) (Session, error) {
	s, err := p.l.Launch(ctx)
	if err != nil {
		return nil, err
	}
	return playwrightSession{s: s}, nil
}

type playwrightSession struct {
	s *browser.Session
}

func (p playwrightSession) NewPage() (Page, error) {
	page, err := p.s.NewPage()
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (p playwrightSession) Close() error {
	return p.s.Close()
}
