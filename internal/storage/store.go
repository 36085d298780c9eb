package storage

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	sessionBucket = []byte("session")
	feedBucket    = []byte("feed")
)

var (
	sessionKey  = []byte("current")
	snapshotKey = []byte("snapshot")
)

type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{sessionBucket, feedBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSession persists the credential pair for later resume.
func (s *Store) SaveSession(creds *Credentials) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionBucket)
		creds.SavedAt = time.Now()
		data, err := json.Marshal(creds)
		if err != nil {
			return err
		}
		return b.Put(sessionKey, data)
	})
}

// Session returns the saved credentials, or nil when none are stored.
func (s *Store) Session() (*Credentials, error) {
	var creds *Credentials
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionBucket)
		data := b.Get(sessionKey)
		if data == nil {
			return nil
		}
		var c Credentials
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}
		creds = &c
		return nil
	})
	return creds, err
}

// ClearSession drops the saved credentials. Clearing a missing session is
// not an error.
func (s *Store) ClearSession() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Delete(sessionKey)
	})
}

// SaveFeedSnapshot replaces the cached feed with a new snapshot. The whole
// snapshot is one value so server order survives the roundtrip.
func (s *Store) SaveFeedSnapshot(stories []CachedStory) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(feedBucket)
		snap := FeedSnapshot{FetchedAt: time.Now(), Stories: stories}
		data, err := json.Marshal(&snap)
		if err != nil {
			return err
		}
		return b.Put(snapshotKey, data)
	})
}

// FeedSnapshot returns the cached feed, or nil when nothing is cached yet.
func (s *Store) FeedSnapshot() (*FeedSnapshot, error) {
	var snap *FeedSnapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(feedBucket)
		data := b.Get(snapshotKey)
		if data == nil {
			return nil
		}
		var fs FeedSnapshot
		if err := json.Unmarshal(data, &fs); err != nil {
			return err
		}
		snap = &fs
		return nil
	})
	return snap, err
}
