package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-dashboard-verification/internal/config"
	"go-dashboard-verification/internal/models"
	"go-dashboard-verification/internal/verify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPage struct{}

func (stubPage) Navigate(string, time.Duration) error { return nil }
func (stubPage) WaitForText(string, time.Duration) error { return nil }
func (stubPage) Settle(time.Duration, time.Duration) error { return nil }
func (stubPage) Pause(time.Duration) {}
func (stubPage) Screenshot(path string) error {
	return os.WriteFile(path, []byte("png"), 0644)
}
func (stubPage) TitleVisible(string) (bool, error) { return false, nil }
func (stubPage) ClickTitle(string, time.Duration) error { return nil }
func (stubPage) TextVisible(string) (bool, error) { return true, nil }
func (stubPage) ClickText(string, time.Duration) error { return nil }
func (stubPage) Close() error { return nil }

type stubSession struct{}

func (stubSession) NewPage() (verify.Page, error) { return stubPage{}, nil }
func (stubSession) Close() error { return nil }

type stubLauncher struct{}

func (stubLauncher) Launch(context.Context) (verify.Session, error) { return stubSession{}, nil }

func TestApp_RecordsToHistoryAndReport(t *testing.T) {
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()
	cfg.HistoryPath = t.TempDir()

	a, err := NewWithLauncher(context.Background(), cfg, stubLauncher{})
	require.NoError(t, err)
	defer a.Close()
	assert.Nil(t, a.DB)

	run, err := a.Service.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StatusPassed, run.Status)

	runs, err := a.RecentRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)

	assert.FileExists(t, filepath.Join(cfg.OutputDir, "report.html"))
	assert.FileExists(t, filepath.Join(cfg.HistoryPath, "runs.json"))
}

func TestApp_ReportDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()
	cfg.HistoryPath = t.TempDir()
	cfg.Report.Disabled = true

	a, err := NewWithLauncher(context.Background(), cfg, stubLauncher{})
	require.NoError(t, err)

	_, err = a.Service.Execute(context.Background())
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "report.html"))
}

func TestBrowserOptions_FromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Browser.Engine = "webkit"
	cfg.Browser.Headed = true
	cfg.Browser.Install = true

	opts := browserOptions(cfg)
	assert.Equal(t, "webkit", opts.Engine)
	assert.False(t, opts.Headless)
	assert.True(t, opts.Install)
	assert.Equal(t, 1280, opts.ViewportWidth)
	assert.Equal(t, 720, opts.ViewportHeight)
}
