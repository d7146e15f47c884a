package shop

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	snapshotBucket = []byte("snapshots")
	snapshotKey    = []byte("catalog")
)

// BoltSnapshots persists the fallback snapshot in a local bbolt file, so
// a showcase restart during a catalog outage can still serve the last
// known catalog. bbolt writes are transactional, which gives the
// atomic wholesale replacement the snapshot contract requires.
type BoltSnapshots struct {
	db *bolt.DB
}

func OpenBoltSnapshots(path string) (*BoltSnapshots, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("shop: open snapshot db %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(snapshotBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("shop: init snapshot db: %w", err)
	}

	return &BoltSnapshots{db: db}, nil
}

func (s *BoltSnapshots) Read() (Snapshot, bool, error) {
	var (
		snap  Snapshot
		found bool
	)

	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(snapshotBucket).Get(snapshotKey)
		if raw == nil {
			return nil
		}
		if err := json.Unmarshal(raw, &snap); err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		found = true
		return nil
	})
	if err != nil {
		return Snapshot{}, false, err
	}
	return snap, found, nil
}

func (s *BoltSnapshots) Write(snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(snapshotBucket).Put(snapshotKey, raw)
	})
}

func (s *BoltSnapshots) Close() error { return s.db.Close() }
