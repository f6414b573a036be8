// Package workspace persists a named referral dataset on disk: a metadata
// file describing the ingested sources and a canonical merged records file.
// Ingestion is the only mutation point; queries rebuild an immutable store
// snapshot from the last fully written records file.
package workspace

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/medward/refdash-cli/internal/ingest"
	"github.com/medward/refdash-cli/internal/referral"
	"github.com/medward/refdash-cli/internal/utils"
)

const (
	metaFileName    = "dataset.json"
	recordsFileName = "records.csv"
)

// canonicalMapping matches the header WriteRecords emits.
var canonicalMapping = referral.Mapping{
	Date:      []string{"DATE"},
	Procedure: []string{"PROCEDURE"},
	Physician: []string{"PHYSICIAN"},
	Payer:     []string{"PAYER"},
}

// Workspace is a refdash dataset persisted on disk.
type Workspace struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Sources     map[string]*Source `json:"sources"`
	Merges      []MergeEntry       `json:"merges"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`

	// Not serialized: on-disk location of dataset.json.
	rootDir string `json:"-"`
}

// Source records one ingested file.
type Source struct {
	ID      string    `json:"id"`
	Path    string    `json:"path"`
	Name    string    `json:"name"`
	Rows    int       `json:"rows"`
	AddedAt time.Time `json:"added_at"`
}

// MergeEntry is the observable result of merging one source into the dataset.
type MergeEntry struct {
	SourceID          string    `json:"source_id"`
	Added             int       `json:"added"`
	DuplicatesRemoved int       `json:"duplicates_removed"`
	Total             int       `json:"total"`
	MergedAt          time.Time `json:"merged_at"`
}

// New constructs an in-memory workspace. Call Save() to persist.
func New(name, description, rootDir string) *Workspace {
	return &Workspace{
		Name:        name,
		Description: description,
		Sources:     make(map[string]*Source),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		rootDir:     rootDir,
	}
}

// Load loads a dataset.json from the provided directory.
func Load(dir string) (*Workspace, error) {
	path := filepath.Join(dir, metaFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("workspace not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read workspace: %w", err)
	}
	var w Workspace
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, fmt.Errorf("parse workspace: %w", err)
	}
	w.rootDir = dir
	return &w, nil
}

// RootDir returns the on-disk workspace directory path.
func (w *Workspace) RootDir() string { return w.rootDir }

// Save writes dataset.json using atomic write.
func (w *Workspace) Save() error {
	if w.rootDir == "" {
		return errors.New("workspace root directory not set")
	}
	if err := utils.EnsureDir(w.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	w.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(w)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(w.rootDir, metaFileName), data)
}

// AddSource registers an ingested file and the merge it produced.
func (w *Workspace) AddSource(path string, rows int, stats referral.MergeStats) *Source {
	s := &Source{
		ID:      uuid.NewString(),
		Path:    path,
		Name:    filepath.Base(path),
		Rows:    rows,
		AddedAt: time.Now(),
	}
	if w.Sources == nil {
		w.Sources = make(map[string]*Source)
	}
	w.Sources[s.ID] = s
	w.Merges = append(w.Merges, MergeEntry{
		SourceID:          s.ID,
		Added:             stats.Added,
		DuplicatesRemoved: stats.DuplicatesRemoved,
		Total:             stats.Total,
		MergedAt:          time.Now(),
	})
	w.UpdatedAt = time.Now()
	return s
}

// WriteRecords replaces the canonical merged records file with the store's
// rows, date-sorted, via atomic rename so readers never observe a partial
// dataset.
func (w *Workspace) WriteRecords(store *referral.Store) error {
	if w.rootDir == "" {
		return errors.New("workspace root directory not set")
	}
	if err := utils.EnsureDir(w.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	path := filepath.Join(w.rootDir, recordsFileName)
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create records file: %w", err)
	}
	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"DATE", "PROCEDURE", "PHYSICIAN", "PAYER"}); err != nil {
		f.Close()
		return fmt.Errorf("write records header: %w", err)
	}
	for _, r := range store.Records() {
		row := []string{r.Date.Format("2006-01-02"), r.Procedure, r.Physician, r.Payer}
		if err := cw.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush records: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close records file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// ReadStore rebuilds the immutable store snapshot from the canonical records
// file. A workspace with no ingested data yields an empty store.
func (w *Workspace) ReadStore() (*referral.Store, error) {
	path := filepath.Join(w.rootDir, recordsFileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return referral.FromRecords(nil), nil
	}
	t, err := ingest.ReadFile(path, ingest.Options{})
	if err != nil {
		return nil, fmt.Errorf("read workspace records: %w", err)
	}
	store, err := referral.Load(recordsFileName, t.Header, t.Rows, canonicalMapping)
	if err != nil {
		return nil, fmt.Errorf("load workspace records: %w", err)
	}
	return store, nil
}
