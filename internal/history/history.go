package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go-dashboard-verification/internal/models"
)

const retention = 30 * 24 * time.Hour

// Log is a file-backed record of past verification runs.
type Log struct {
	mu       sync.Mutex
	filePath string
	runs     []models.Run
	now      func() time.Time
}

// NewLog creates or loads runs.json inside dir
func NewLog(dir string) *Log {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("⚠️ Failed to create history directory: %v", err)
	}
	l := &Log{
		filePath: filepath.Join(dir, "runs.json"),
		now:      time.Now,
	}
	l.load()
	return l
}

func (l *Log) Name() string {
	return "history"
}

// Record appends run and rewrites the file.
func (l *Log) Record(ctx context.Context, run *models.Run) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.runs = append(l.runs, *run)
	return l.save()
}

// Recent returns up to n runs, newest first. n <= 0 returns all of them.
func (l *Log) Recent(n int) []models.Run {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.Run, len(l.runs))
	copy(out, l.runs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// load drops entries older than the retention window
func (l *Log) load() {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read runs.json: %v", err)
		}
		return
	}

	var runs []models.Run
	if err := json.Unmarshal(data, &runs); err != nil {
		log.Printf("⚠️ Failed to parse runs.json: %v", err)
		return
	}

	cutoff := l.now().Add(-retention)
	for _, r := range runs {
		if r.StartedAt.After(cutoff) {
			l.runs = append(l.runs, r)
		}
	}
	log.Printf("📋 Loaded %d previous runs (%d expired and removed)", len(l.runs), len(runs)-len(l.runs))
}

func (l *Log) save() error {
	data, err := json.MarshalIndent(l.runs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal runs: %w", err)
	}
	if err := os.WriteFile(l.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write runs.json: %w", err)
	}
	log.Printf("💾 Saved %d runs to history", len(l.runs))
	return nil
}
