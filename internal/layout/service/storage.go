package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// ============================================================
// Snapshot Storage
// ============================================================

const snapshotExt = ".json"

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrInvalidName      = errors.New("invalid snapshot name")

	namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

// SnapshotStorage keeps snapshot files under <root>/<workspace>/snapshots.
type SnapshotStorage struct {
	root string
}

type SnapshotInfo struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSnapshotStorage(root string) *SnapshotStorage {
	return &SnapshotStorage{root: root}
}

func (s *SnapshotStorage) WorkspaceDir(workspaceID string) string {
	return filepath.Join(s.root, workspaceID)
}

func (s *SnapshotStorage) SnapshotDir(workspaceID string) string {
	return filepath.Join(s.WorkspaceDir(workspaceID), "snapshots")
}

func (s *SnapshotStorage) SnapshotPath(workspaceID, name string) string {
	return filepath.Join(s.SnapshotDir(workspaceID), name+snapshotExt)
}

func (s *SnapshotStorage) EnsureSnapshotDir(workspaceID string) error {
	path := s.SnapshotDir(workspaceID)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir snapshot dir: %w", err)
	}
	return nil
}

// Save writes blob as <name>.json, replacing any earlier file of that name.
func (s *SnapshotStorage) Save(workspaceID, name string, blob []byte) error {
	if err := validateNames(workspaceID, name); err != nil {
		return err
	}
	if err := s.EnsureSnapshotDir(workspaceID); err != nil {
		return err
	}

	target := s.SnapshotPath(workspaceID, name)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStorage) Load(workspaceID, name string) ([]byte, error) {
	if err := validateNames(workspaceID, name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.SnapshotPath(workspaceID, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return data, nil
}

// List returns the saved snapshots of a workspace, newest first.
func (s *SnapshotStorage) List(workspaceID string) ([]SnapshotInfo, error) {
	if !namePattern.MatchString(workspaceID) {
		return nil, ErrInvalidName
	}

	entries, err := os.ReadDir(s.SnapshotDir(workspaceID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []SnapshotInfo{}, nil
		}
		return nil, fmt.Errorf("read snapshot dir: %w", err)
	}

	out := make([]SnapshotInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), snapshotExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, SnapshotInfo{
			Name:      strings.TrimSuffix(e.Name(), snapshotExt),
			Size:      info.Size(),
			UpdatedAt: info.ModTime(),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].Name < out[j].Name
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func validateNames(workspaceID, name string) error {
	if !namePattern.MatchString(workspaceID) || !namePattern.MatchString(name) {
		return ErrInvalidName
	}
	return nil
}
