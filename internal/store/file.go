package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"matterdesk/api/internal/matter"
	"matterdesk/api/internal/util"
)

// FileMatterStore keeps the matter set in one JSON array file. Every load
// reads and decodes the whole file; every save rewrites it atomically so a
// crash mid-write never leaves a truncated store behind. There is no
// cross-process locking; concurrent writers race, which is an accepted
// limitation of this deployment shape.
type FileMatterStore struct {
	path string
}

func NewFileMatterStore(path string) *FileMatterStore {
	return &FileMatterStore{path: path}
}

func (s *FileMatterStore) LoadAll(_ context.Context) ([]matter.Matter, error) {
	raw, err := readRecords(s.path)
	if err != nil {
		return nil, err
	}
	matters := make([]matter.Matter, 0, len(raw))
	for _, record := range raw {
		matters = append(matters, matterFromRecord(normalizeMatterRecord(record), util.NewID))
	}
	return matters, nil
}

func (s *FileMatterStore) SaveAll(_ context.Context, matters []matter.Matter) error {
	if matters == nil {
		matters = []matter.Matter{}
	}
	return writeJSONFile(s.path, matters)
}

// FileOwnerStore keeps the owner set in one JSON array file with the same
// full-reload/full-rewrite behavior as the matter file.
type FileOwnerStore struct {
	path string
}

func NewFileOwnerStore(path string) *FileOwnerStore {
	return &FileOwnerStore{path: path}
}

func (s *FileOwnerStore) LoadAll(_ context.Context) ([]matter.Owner, error) {
	raw, err := readRecords(s.path)
	if err != nil {
		return nil, err
	}
	owners := make([]matter.Owner, 0, len(raw))
	for _, record := range raw {
		owners = append(owners, ownerFromRecord(record, util.NewID))
	}
	return owners, nil
}

func (s *FileOwnerStore) SaveAll(_ context.Context, owners []matter.Owner) error {
	if owners == nil {
		owners = []matter.Owner{}
	}
	return writeJSONFile(s.path, owners)
}

func readRecords(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return records, nil
}

func writeJSONFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
