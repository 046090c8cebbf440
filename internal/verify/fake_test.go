package verify

import (
	"context"
	"os"
	"sync"
	"time"
)

// fakePage renders a dashboard in memory. Screenshots write a small PNG stub.
type fakePage struct {
	mu sync.Mutex

	readyMissing  bool
	toggleMissing bool
	chartMissing  bool
	navErr        error
	settleErr     error
	titleErr      error
	clickTitleErr error
	clickTextErr  error
	shotErr       error

	privacyOn  bool
	strategyOn bool
	closed     bool

	navigations []string
	calls       []string
	pauses      []time.Duration
}

func (f *fakePage) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakePage) Navigate(url string, timeout time.Duration) error {
	f.record("navigate")
	f.navigations = append(f.navigations, url)
	return f.navErr
}

func (f *fakePage) WaitForText(text string, timeout time.Duration) error {
	f.record("wait:" + text)
	if f.readyMissing {
		return context.DeadlineExceeded
	}
	return nil
}

func (f *fakePage) Settle(timeout, quiet time.Duration) error {
	f.record("settle")
	return f.settleErr
}

func (f *fakePage) Pause(d time.Duration) {
	f.record("pause")
	f.pauses = append(f.pauses, d)
}

func (f *fakePage) Screenshot(path string) error {
	f.record("screenshot")
	if f.shotErr != nil {
		return f.shotErr
	}
	return os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n"), 0644)
}

func (f *fakePage) TitleVisible(title string) (bool, error) {
	if f.titleErr != nil {
		return false, f.titleErr
	}
	return title == "Ocultar Valores" && !f.toggleMissing && !f.privacyOn, nil
}

func (f *fakePage) ClickTitle(title string, timeout time.Duration) error {
	f.record("click-title:" + title)
	if f.clickTitleErr != nil {
		return f.clickTitleErr
	}
	f.privacyOn = true
	return nil
}

func (f *fakePage) TextVisible(text string) (bool, error) {
	if text == "Origem dos Clientes" {
		return f.strategyOn && !f.chartMissing, nil
	}
	return true, nil
}

func (f *fakePage) ClickText(text string, timeout time.Duration) error {
	f.record("click-text:" + text)
	if f.clickTextErr != nil {
		return f.clickTextErr
	}
	f.strategyOn = true
	return nil
}

func (f *fakePage) Close() error {
	f.closed = true
	return nil
}

type fakeSession struct {
	page     *fakePage
	pageErr  error
	closeErr error
	closed   bool
}

func (s *fakeSession) NewPage() (Page, error) {
	if s.pageErr != nil {
		return nil, s.pageErr
	}
	return s.page, nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return s.closeErr
}

type fakeLauncher struct {
	session  *fakeSession
	err      error
	launches int
}

func (l *fakeLauncher) Launch(ctx context.Context) (Session, error) {
	l.launches++
	if l.err != nil {
		return nil, l.err
	}
	return l.session, nil
}

func newFakeLauncher(page *fakePage) *fakeLauncher {
	return &fakeLauncher{session: &fakeSession{page: page}}
}
