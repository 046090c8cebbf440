package utils

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go-dashboard-verification/internal/models"
)

var ErrEmptyScreenshot = errors.New("screenshot is empty")

// Shooter writes a full-page PNG of the current page to path.
type Shooter interface {
	Screenshot(path string) error
}

// ScreenShotCapturer writes named screenshots into a single directory.
// Files are overwritten on every run, never suffixed.
type ScreenShotCapturer struct {
	outputDir string
}

func NewScreenShotCapturer(dir string) *ScreenShotCapturer {
	return &ScreenShotCapturer{
		outputDir: dir,
	}
}

func (s *ScreenShotCapturer) Dir() string {
	return s.outputDir
}

// PathFor returns where the screenshot called name is written.
func (s *ScreenShotCapturer) PathFor(name string) string {
	return filepath.Join(s.outputDir, name+".png")
}

func (s *ScreenShotCapturer) Capture(page Shooter, name string) (models.Screenshot, error) {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return models.Screenshot{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	path := s.PathFor(name)
	log.Printf("📸 Taking screenshot %s", name)

	if err := page.Screenshot(path); err != nil {
		log.Printf("⚠️ Failed to capture screenshot: %v", err)
		return models.Screenshot{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return models.Screenshot{}, fmt.Errorf("screenshot %s not written: %w", path, err)
	}
	if info.Size() == 0 {
		return models.Screenshot{}, fmt.Errorf("%s: %w", path, ErrEmptyScreenshot)
	}

	log.Printf("   Screenshot saved: %s (%d bytes)", path, info.Size())
	return models.Screenshot{
		Name:  name,
		Path:  path,
		Bytes: info.Size(),
	}, nil
}
