package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// settledScript resolves once the DOM has not mutated, no finite animation is
// running and the document height has not changed for quietMs. The observer
// catches script-driven tweens (chart libraries animate SVG attributes from
// requestAnimationFrame). Infinite animations (spinners) are ignored.
const settledScript = `(quietMs) => {
	let state = window.__verifySettle;
	if (!state) {
		state = window.__verifySettle = { height: -1, since: performance.now() };
		state.observer = new MutationObserver(() => { state.since = performance.now(); });
		state.observer.observe(document.documentElement, {
			subtree: true, attributes: true, childList: true, characterData: true,
		});
	}
	const running = document.getAnimations().some((a) => {
		if (a.playState !== 'running' || !a.effect) return false;
		return Number.isFinite(a.effect.getComputedTiming().endTime);
	});
	const height = document.documentElement.scrollHeight;
	const now = performance.now();
	if (running || state.height !== height) {
		state.height = height;
		state.since = now;
		return false;
	}
	if (now - state.since < quietMs) return false;
	state.observer.disconnect();
	return true;
}`

const resetSettleScript = `() => {
	const state = window.__verifySettle;
	if (state && state.observer) state.observer.disconnect();
	delete window.__verifySettle;
}`

// Settle blocks until the page is visually stable or timeout expires.
func (p *Page) Settle(timeout, quiet time.Duration) error {
	if _, err := p.page.Evaluate(resetSettleScript); err != nil {
		return fmt.Errorf("could not reset settle state: %w", err)
	}

	_, err := p.page.WaitForFunction(settledScript, quiet.Milliseconds(), playwright.PageWaitForFunctionOptions{
		Timeout: millis(timeout),
	})
	if err != nil {
		return fmt.Errorf("page did not settle within %v: %w", timeout, err)
	}
	return nil
}
