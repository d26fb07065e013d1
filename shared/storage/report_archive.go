package storage

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"renewable-forecast/internal/models"
)

const archiveTimeLayout = "20060102T150405Z"

// ReportArchive persists forecast digests as one JSON file per run
type ReportArchive struct {
	dir    string
	maxAge time.Duration
	mu     sync.Mutex
}

// NewReportArchive creates the archive directory and prunes digests older than maxAge.
// A zero maxAge keeps everything.
func NewReportArchive(dataDir string, maxAge time.Duration) (*ReportArchive, error) {
	dir := filepath.Join(dataDir, "reports")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	archive := &ReportArchive{
		dir:    dir,
		maxAge: maxAge,
	}

	if _, err := archive.Cleanup(time.Now()); err != nil {
		return nil, fmt.Errorf("failed to clean up report archive: %w", err)
	}

	return archive, nil
}

// Save writes the digest and returns the file path
func (ra *ReportArchive) Save(digest *models.ForecastDigest) (string, error) {
	if digest == nil {
		return "", fmt.Errorf("digest cannot be nil")
	}
	if digest.RunID == "" {
		return "", fmt.Errorf("digest run ID is required")
	}

	ra.mu.Lock()
	defer ra.mu.Unlock()

	name := fmt.Sprintf("%s_%s.json", digest.Generated.UTC().Format(archiveTimeLayout), digest.RunID)
	path := filepath.Join(ra.dir, name)

	// Write to a temp file first so a crash never leaves a truncated digest
	tmp, err := os.CreateTemp(ra.dir, ".digest-*")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(digest); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to encode digest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write digest: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to store digest: %w", err)
	}

	return path, nil
}

// List returns the archived digests, oldest first
func (ra *ReportArchive) List() ([]*models.ForecastDigest, error) {
	ra.mu.Lock()
	defer ra.mu.Unlock()

	names, err := ra.files()
	if err != nil {
		return nil, err
	}

	digests := make([]*models.ForecastDigest, 0, len(names))
	for _, name := range names {
		digest, err := ra.load(name)
		if err != nil {
			log.Printf("Warning: skipping unreadable digest %s: %v", name, err)
			continue
		}
		digests = append(digests, digest)
	}
	return digests, nil
}

// Latest returns the most recent digest, or nil when the archive is empty
func (ra *ReportArchive) Latest() (*models.ForecastDigest, error) {
	digests, err := ra.List()
	if err != nil || len(digests) == 0 {
		return nil, err
	}
	return digests[len(digests)-1], nil
}

// Cleanup removes digests generated before now minus maxAge and returns how many were removed
func (ra *ReportArchive) Cleanup(now time.Time) (int, error) {
	if ra.maxAge <= 0 {
		return 0, nil
	}

	ra.mu.Lock()
	defer ra.mu.Unlock()

	names, err := ra.files()
	if err != nil {
		return 0, err
	}

	cutoff := now.Add(-ra.maxAge)
	removed := 0
	for _, name := range names {
		stamp, _, _ := strings.Cut(name, "_")
		generated, err := time.Parse(archiveTimeLayout, stamp)
		if err != nil || !generated.Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(ra.dir, name)); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", name, err)
		}
		removed++
	}
	return removed, nil
}

// files lists digest file names; the timestamp prefix makes lexical order chronological
func (ra *ReportArchive) files() ([]string, error) {
	entries, err := os.ReadDir(ra.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read report directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (ra *ReportArchive) load(name string) (*models.ForecastDigest, error) {
	file, err := os.Open(filepath.Join(ra.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to open digest: %w", err)
	}
	defer file.Close()

	var digest models.ForecastDigest
	if err := json.NewDecoder(file).Decode(&digest); err != nil {
		return nil, fmt.Errorf("failed to decode digest: %w", err)
	}
	return &digest, nil
}
