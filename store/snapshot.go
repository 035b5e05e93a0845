package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/arloliu/rolepref/internal/hash"
)

// snapshotLayout is the timestamp layout of snapshot file names.
const snapshotLayout = "20060102-150405"

// Snapshot is the bulk diagnostic export of every record with derived ratings.
type Snapshot struct {
	// CreatedAt is the time the snapshot was taken.
	CreatedAt time.Time `json:"createdAt"`

	// WeightMultiplier is the weight the ratings were derived with.
	WeightMultiplier float64 `json:"weightMultiplier"`

	// Roles lists the catalog role names in canonical order.
	Roles []string `json:"roles"`

	// Records holds one entry per identity in ascending identity order.
	Records []SnapshotRecord `json:"records"`
}

// SnapshotRecord is one record in a Snapshot.
type SnapshotRecord struct {
	Identity     string             `json:"identity"`
	AverageRank  float64            `json:"averageRank"`
	AverageCount int                `json:"averageCount"`
	Preferences  []string           `json:"preferences"`
	Hash         string             `json:"hash"`
	Fingerprint  string             `json:"fingerprint"`
	Ratings      map[string]float64 `json:"ratings"`
}

// Snapshot exports all records with their per-role ratings under weight.
func (s *Store) Snapshot(weight float64, now time.Time) *Snapshot {
	snap := &Snapshot{
		CreatedAt:        now,
		WeightMultiplier: weight,
		Roles:            s.catalog.Names(),
	}

	for _, id := range s.Identities() {
		rec, ok := s.records.Load(id)
		if !ok {
			continue
		}

		prefs := rec.Preferences()
		names := make([]string, len(prefs))
		codes := make([]int, len(prefs))
		for i, role := range prefs {
			names[i] = s.catalog.Name(role)
			codes[i] = s.catalog.Code(role)
		}

		ratings := make(map[string]float64, len(prefs))
		for _, role := range s.catalog.Roles() {
			if rating, ok := rec.Rating(role, weight); ok {
				ratings[s.catalog.Name(role)] = rating
			}
		}

		snap.Records = append(snap.Records, SnapshotRecord{
			Identity:     id,
			AverageRank:  rec.AverageRank(),
			AverageCount: rec.AverageCount(),
			Preferences:  names,
			Hash:         rec.Hash(),
			Fingerprint:  strconv.FormatUint(hash.Fingerprint(codes), 16),
			Ratings:      ratings,
		})
	}

	return snap
}

// WriteSnapshot writes Snapshot(weight, now) as indented JSON to
// "<dir>/snapshot-<yyyyMMdd-HHmmss>.json". Existing snapshots are never
// overwritten; a later snapshot taken in the same second gets a "-<n>" suffix.
//
// Returns:
//   - string: Path of the written file
//   - error: I/O or encoding error
func (s *Store) WriteSnapshot(dir string, weight float64, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	data, err := json.MarshalIndent(s.Snapshot(weight, now), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	path, err := writeExclusive(dir, "snapshot-"+now.UTC().Format(snapshotLayout), data)
	if err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	s.logger.Info("preference snapshot written", "path", path, "records", s.Len())

	return path, nil
}

// writeExclusive creates "<base>.json" in dir, or the first free "<base>-<n>.json".
func writeExclusive(dir string, base string, data []byte) (string, error) {
	for n := 0; ; n++ {
		name := base
		if n > 0 {
			name += "-" + strconv.Itoa(n)
		}
		path := filepath.Join(dir, name+".json")

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644) //nolint:gosec // diagnostic output
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}

		_, err = f.Write(data)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return "", err
		}

		return path, nil
	}
}
