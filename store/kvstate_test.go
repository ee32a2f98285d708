package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func TestStateStoreRoundTrip(t *testing.T) {
	s := NewStateStore(newTestDB(t))

	type blob struct {
		Step  int    `json:"step"`
		Email string `json:"email"`
	}
	require.NoError(t, s.Put("checkout-sess1", blob{Step: 2, Email: "a@b.com"}, time.Minute))

	var got blob
	require.True(t, s.Get("checkout-sess1", &got))
	assert.Equal(t, blob{Step: 2, Email: "a@b.com"}, got)
}

func TestStateStoreMissingKey(t *testing.T) {
	s := NewStateStore(newTestDB(t))

	var got map[string]string
	assert.False(t, s.Get("nope", &got))
}

func TestStateStoreZeroTTLNeverExpires(t *testing.T) {
	s := NewStateStore(newTestDB(t))
	require.NoError(t, s.Put("k", "v", 0))

	var got string
	require.True(t, s.Get("k", &got))
	assert.Equal(t, "v", got)
}

func TestStateStoreExpiredEntryIsDropped(t *testing.T) {
	db := newTestDB(t)
	s := NewStateStore(db)

	// write an already-expired entry directly
	raw, err := json.Marshal(stateEntry{
		Value:     json.RawMessage(`"stale"`),
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	})
	require.NoError(t, err)
	require.NoError(t, db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(stateBucket))
		if err != nil {
			return err
		}
		return b.Put([]byte("old"), raw)
	}))

	var got string
	assert.False(t, s.Get("old", &got))

	// the expired entry is deleted in passing
	_ = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(stateBucket))
		require.NotNil(t, b)
		assert.Nil(t, b.Get([]byte("old")))
		return nil
	})
}

func TestStateStoreDelete(t *testing.T) {
	s := NewStateStore(newTestDB(t))
	require.NoError(t, s.Put("k", 42, time.Minute))
	require.NoError(t, s.Delete("k"))

	var got int
	assert.False(t, s.Get("k", &got))
}
