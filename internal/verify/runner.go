package verify

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-dashboard-verification/internal/config"
	"go-dashboard-verification/internal/models"
	"go-dashboard-verification/utils"

	"github.com/google/uuid"
)

// Runner drives one browser through the dashboard and captures screenshots
// for manual review. Steps run strictly in order and are never retried.
type Runner struct {
	cfg      *config.Config
	launcher Launcher
	capturer *utils.ScreenShotCapturer
}

func NewRunner(cfg *config.Config, launcher Launcher) *Runner {
	return &Runner{
		cfg:      cfg,
		launcher: launcher,
		capturer: utils.NewScreenShotCapturer(cfg.OutputDir),
	}
}

// Run executes the verification. The returned run is never nil: on failure it
// holds whatever completed before the failing step. The browser session is
// released on every path.
func (r *Runner) Run(ctx context.Context) (run *models.Run, err error) {
	run = &models.Run{
		ID:        uuid.NewString(),
		TargetURL: r.cfg.TargetURL,
		StartedAt: time.Now(),
	}
	defer func() {
		run.FinishedAt = time.Now()
		if err != nil {
			run.Status = models.StatusFailed
			run.Error = err.Error()
			return
		}
		run.Status = models.StatusPassed
	}()

	log.Printf("🚀 Starting dashboard verification %s", run.ID)

	session, err := r.launcher.Launch(ctx)
	if err != nil {
		return run, fmt.Errorf("%w: %w", ErrLaunch, err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			log.Printf("⚠️ Failed to close browser: %v", cerr)
			return
		}
		log.Println("🧹 Browser closed")
	}()

	page, err := session.NewPage()
	if err != nil {
		return run, fmt.Errorf("%w: %w", ErrLaunch, err)
	}
	defer page.Close()

	if err := r.loadDashboard(ctx, run, page); err != nil {
		return run, err
	}
	if err := r.togglePrivacy(ctx, run, page); err != nil {
		return run, err
	}
	if err := r.openStrategyTab(ctx, run, page); err != nil {
		return run, err
	}
	return run, r.checkOriginChart(run, page)
}

func (r *Runner) loadDashboard(ctx context.Context, run *models.Run, page Page) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	log.Printf("🔍 Navigating to %s", r.cfg.TargetURL)
	run.Navigations++
	if err := page.Navigate(r.cfg.TargetURL, r.cfg.Timeouts.Navigation); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNavigation, r.cfg.TargetURL, err)
	}

	log.Printf("⏳ Waiting for %q", r.cfg.Markers.Ready)
	if err := page.WaitForText(r.cfg.Markers.Ready, r.cfg.Timeouts.Ready); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrTimeout, r.cfg.Markers.Ready, err)
	}
	if err := r.settle(page, r.cfg.Settle.AfterLoad); err != nil {
		return err
	}

	return r.capture(run, page, r.cfg.Shots.Default)
}

// togglePrivacy is the one tolerated branch: a missing toggle usually means
// privacy mode is already on.
func (r *Runner) togglePrivacy(ctx context.Context, run *models.Run, page Page) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	title := r.cfg.Markers.PrivacyToggle
	visible, err := page.TitleVisible(title)
	if err != nil {
		return fmt.Errorf("%w: looking up %q: %w", ErrInteraction, title, err)
	}
	if !visible {
		log.Println("ℹ️ Privacy toggle not found or already in privacy mode")
		return nil
	}

	log.Println("👁️ Clicking privacy toggle")
	if err := page.ClickTitle(title, r.cfg.Timeouts.Action); err != nil {
		return fmt.Errorf("%w: clicking %q: %w", ErrInteraction, title, err)
	}
	run.PrivacyToggled = true

	if err := r.settle(page, r.cfg.Settle.AfterToggle); err != nil {
		return err
	}
	return r.capture(run, page, r.cfg.Shots.Privacy)
}

func (r *Runner) openStrategyTab(ctx context.Context, run *models.Run, page Page) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tab := r.cfg.Markers.StrategyTab
	log.Printf("🗂️ Clicking %q tab", tab)
	if err := page.ClickText(tab, r.cfg.Timeouts.Action); err != nil {
		return fmt.Errorf("%w: clicking %q: %w", ErrInteraction, tab, err)
	}

	if err := r.settle(page, r.cfg.Settle.AfterTab); err != nil {
		return err
	}
	return r.capture(run, page, r.cfg.Shots.Strategy)
}

// checkOriginChart only logs unless strict checks are enabled.
func (r *Runner) checkOriginChart(run *models.Run, page Page) error {
	marker := r.cfg.Markers.OriginChart
	found, err := page.TextVisible(marker)
	if err != nil {
		log.Printf("⚠️ Could not check %q: %v", marker, err)
		found = false
	}
	run.OriginChartFound = found

	if found {
		log.Printf("✅ %q found", marker)
		return nil
	}

	log.Printf("❌ %q NOT found", marker)
	if r.cfg.StrictChecks {
		return fmt.Errorf("%w: %q", ErrMarkerMissing, marker)
	}
	return nil
}

func (r *Runner) settle(page Page, fixed time.Duration) error {
	if r.cfg.Settle.Mode == config.SettleFixed {
		page.Pause(fixed)
		return nil
	}
	if err := page.Settle(r.cfg.Settle.Timeout, r.cfg.Settle.QuietPeriod); err != nil {
		return fmt.Errorf("%w: %w", ErrSettle, err)
	}
	return nil
}

func (r *Runner) capture(run *models.Run, page Page, name string) error {
	shot, err := r.capturer.Capture(page, name)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCapture, name, err)
	}
	run.AddScreenshot(shot)
	return nil
}
