package store

import (
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"
)

const stateBucket = "uistate"

// StateStore holds small expiring blobs of session state (checkout step
// position and the like) under application-specific keys. Entries past
// their TTL are dropped on read.
type StateStore struct {
	db *bolt.DB
}

type stateEntry struct {
	Value     json.RawMessage `json:"v"`
	ExpiresAt int64           `json:"exp"` // unix seconds, 0 = no expiry
}

func NewStateStore(db *bolt.DB) *StateStore {
	return &StateStore{db: db}
}

// Put stores value under key with the given TTL. A zero TTL never expires.
func (s *StateStore) Put(key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	entry := stateEntry{Value: raw}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl).Unix()
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(stateBucket))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
}

// Get unmarshals the stored value into out. Returns false when the key is
// absent, expired, or unreadable; expired entries are deleted in passing.
func (s *StateStore) Get(key string, out interface{}) bool {
	var raw []byte
	_ = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(stateBucket))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if raw == nil {
		return false
	}
	var entry stateEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return false
	}
	if entry.ExpiresAt > 0 && time.Now().Unix() > entry.ExpiresAt {
		_ = s.Delete(key)
		return false
	}
	return json.Unmarshal(entry.Value, out) == nil
}

func (s *StateStore) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(stateBucket))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}
