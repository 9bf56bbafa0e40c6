package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/san-kum/attractors/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

// FileStore keeps each run in its own directory as metadata.json and
// states.csv.
type FileStore struct {
	baseDir string
	now     func() time.Time
}

func NewFileStore(baseDir string) *FileStore {
	return &FileStore{baseDir: baseDir, now: time.Now}
}

func (s *FileStore) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) Save(ctx context.Context, tr *dynamo.Trajectory, meta RunMetadata) (id string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if tr == nil {
		return "", fmt.Errorf("storage: nil trajectory")
	}
	if meta.ID != "" && !validID(meta.ID) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, meta.ID)
	}

	generated := meta.ID == ""
	meta = meta.Complete(tr, s.now())

	runDir, err := s.makeRunDir(meta.ID, generated)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
		}
	}()
	meta.ID = filepath.Base(runDir)

	if err := writeJSONFile(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, statesFile))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := WriteCSV(ctx, f, tr); err != nil {
		return "", fmt.Errorf("write %s: %w", statesFile, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	slog.Debug("saved run", "id", meta.ID, "points", meta.Points, "dir", runDir)
	return meta.ID, nil
}

// validID reports whether id names a single entry directly under the store.
func validID(id string) bool {
	return id != "" && id != "." && id != ".." && id == filepath.Base(id)
}

// makeRunDir creates the run directory. Generated ids get a numeric suffix
// when two runs land on the same timestamp.
func (s *FileStore) makeRunDir(id string, generated bool) (string, error) {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", err
	}
	candidate := id
	for i := 1; ; i++ {
		dir := filepath.Join(s.baseDir, candidate)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return dir, nil
		}
		if !errors.Is(err, os.ErrExist) || !generated || i > 100 {
			return "", fmt.Errorf("create run dir: %w", err)
		}
		candidate = fmt.Sprintf("%s_%d", id, i)
	}
}

func (s *FileStore) List(ctx context.Context) ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}

		meta, err := s.readMetadata(entry.Name())
		if err != nil {
			slog.Debug("skipping run dir", "dir", entry.Name(), "err", err)
			continue
		}
		runs = append(runs, *meta)
	}

	SortRuns(runs)
	return runs, nil
}

func (s *FileStore) Load(ctx context.Context, id string) (*RunMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.readMetadata(id)
}

func (s *FileStore) LoadTrajectory(ctx context.Context, id string) (*dynamo.Trajectory, error) {
	meta, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.baseDir, id, statesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s has no %s", ErrNotFound, id, statesFile)
		}
		return nil, err
	}
	defer f.Close()

	times, states, err := ReadCSV(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", statesFile, err)
	}

	return &dynamo.Trajectory{
		System: meta.System,
		Params: dynamo.Params(meta.Params).Clone(),
		Dt:     meta.Dt,
		Times:  times,
		States: states,
	}, nil
}

func (s *FileStore) readMetadata(id string) (*RunMetadata, error) {
	if !validID(id) {
		return nil, fmt.Errorf("%w: invalid id %q", ErrNotFound, id)
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s: %w", metadataFile, err)
	}
	return &meta, nil
}

func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := encodeJSON(f, v); err != nil {
		return err
	}
	return f.Close()
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var _ Store = (*FileStore)(nil)
