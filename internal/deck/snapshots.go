package deck

import (
	"errors"

	"github.com/snikulin87-hue/pres-entation/internal/presenter"
	"github.com/snikulin87-hue/pres-entation/internal/storage"
)

// Snapshots exposes the SQLite store as the presenter's second-level cache.
type Snapshots struct {
	Store *storage.Store
}

func (s Snapshots) LoadSnapshot(key string) ([]byte, error) {
	snap, err := s.Store.LoadSnapshot(key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, presenter.ErrSnapshotMissing
	}
	if err != nil {
		return nil, err
	}
	return snap.Image, nil
}

func (s Snapshots) SaveSnapshot(key string, f presenter.Format, img []byte) error {
	return s.Store.SaveSnapshot(key, string(f), img)
}
