package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/lojak57/baseform-api/models"
)

func newTestDB(t *testing.T) *bolt.DB {
	t.Helper()
	db, err := bolt.Open(filepath.Join(t.TempDir(), "test.db"), 0600, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// recordingNotifier captures notices so tests can assert on toasts without
// reading logs.
type recordingNotifier struct {
	notices []Notice
}

func (r *recordingNotifier) Notify(n Notice) {
	r.notices = append(r.notices, n)
}

func plainProduct() *models.Product {
	return &models.Product{
		ID:            "p1",
		Slug:          "plain-tee",
		Name:          "Plain Tee",
		Price:         20,
		DefaultImages: []string{"/uploads/tee.png"},
	}
}

func fabricProduct() *models.Product {
	return &models.Product{
		ID:                 "p2",
		Slug:               "sofa",
		Name:               "Sofa",
		Price:              100,
		DefaultImages:      []string{"/uploads/sofa.png"},
		HasFabricSelection: true,
		Fabrics: []models.Fabric{
			{Code: "linen", Label: "Linen", Upcharge: 0},
			{Code: "red", Label: "Red Velvet", Upcharge: 5, ImgOverride: []string{"/uploads/sofa-red.png"}},
		},
	}
}

func TestAddToCartMergesMatchingLines(t *testing.T) {
	s := NewCartStore(newTestDB(t), "sess1", nil)

	require.NoError(t, s.AddToCart(plainProduct(), 1, ""))
	// a product without fabric selection lands on "default" whatever the
	// caller passed, so this merges into the same line
	require.NoError(t, s.AddToCart(plainProduct(), 2, "anything"))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, models.DefaultFabricCode, items[0].FabricCode)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 20.0, items[0].Price)
	assert.Equal(t, 60.0, s.CartTotal())
	assert.Equal(t, 3, s.CartCount())
}

func TestAddToCartFabricUpcharge(t *testing.T) {
	s := NewCartStore(newTestDB(t), "sess1", nil)
	p := fabricProduct()

	require.NoError(t, s.AddToCart(p, 1, "red"))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "red", items[0].FabricCode)
	assert.Equal(t, 105.0, items[0].Price)
	assert.Equal(t, "/uploads/sofa-red.png", items[0].Image)
}

func TestAddToCartDistinctFabricsAreDistinctLines(t *testing.T) {
	s := NewCartStore(newTestDB(t), "sess1", nil)
	p := fabricProduct()

	require.NoError(t, s.AddToCart(p, 1, "linen"))
	require.NoError(t, s.AddToCart(p, 1, "red"))

	assert.Len(t, s.Items(), 2)
	assert.Equal(t, 205.0, s.CartTotal())
}

func TestAddToCartUnknownFabricFallsBack(t *testing.T) {
	n := &recordingNotifier{}
	s := NewCartStore(newTestDB(t), "sess1", n)
	p := fabricProduct()

	require.NoError(t, s.AddToCart(p, 1, "no-such-code"))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "linen", items[0].FabricCode, "should substitute the first variant")
	assert.Equal(t, 100.0, items[0].Price)

	var sawWarning bool
	for _, notice := range n.notices {
		if notice.Level == NoticeWarning {
			sawWarning = true
		}
	}
	assert.True(t, sawWarning, "substitution should warn the shopper")
}

func TestAddToCartRefusesFabriclessSelection(t *testing.T) {
	s := NewCartStore(newTestDB(t), "sess1", nil)
	p := fabricProduct()
	p.Fabrics = nil

	err := s.AddToCart(p, 1, "red")
	require.ErrorIs(t, err, ErrFabricRequired)
	assert.Empty(t, s.Items(), "cart must be left untouched")
}

func TestAddToCartRejectsBadInput(t *testing.T) {
	s := NewCartStore(newTestDB(t), "sess1", nil)

	assert.Error(t, s.AddToCart(nil, 1, ""))
	assert.Error(t, s.AddToCart(plainProduct(), 0, ""))
	assert.Error(t, s.AddToCart(plainProduct(), -3, ""))
	assert.Empty(t, s.Items())
}

func TestUpdateQuantity(t *testing.T) {
	s := NewCartStore(newTestDB(t), "sess1", nil)
	require.NoError(t, s.AddToCart(plainProduct(), 1, ""))

	s.UpdateQuantity("p1", models.DefaultFabricCode, 5)
	require.Len(t, s.Items(), 1)
	assert.Equal(t, 5, s.Items()[0].Quantity)

	// zero or negative removes the line instead of storing it
	s.UpdateQuantity("p1", models.DefaultFabricCode, 0)
	assert.Empty(t, s.Items())
}

func TestRemoveFromCart(t *testing.T) {
	s := NewCartStore(newTestDB(t), "sess1", nil)
	p := fabricProduct()
	require.NoError(t, s.AddToCart(p, 1, "linen"))
	require.NoError(t, s.AddToCart(p, 1, "red"))

	s.RemoveFromCart(p.ID, "linen")

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "red", items[0].FabricCode)

	// removing an absent line is a no-op
	s.RemoveFromCart(p.ID, "linen")
	assert.Len(t, s.Items(), 1)
}

func TestCartTotalUsesSnapshotPrices(t *testing.T) {
	s := NewCartStore(newTestDB(t), "sess1", nil)
	p := plainProduct()
	require.NoError(t, s.AddToCart(p, 2, ""))

	// a later catalog price change must not affect lines already in the cart
	p.Price = 999
	assert.Equal(t, 40.0, s.CartTotal())
}

func TestCartSurvivesReload(t *testing.T) {
	db := newTestDB(t)
	s := NewCartStore(db, "sess1", nil)
	require.NoError(t, s.AddToCart(fabricProduct(), 2, "red"))

	reloaded := NewCartStore(db, "sess1", nil)
	items := reloaded.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "red", items[0].FabricCode)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 105.0, items[0].Price)
}

func TestMalformedStoredCartStartsEmpty(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(cartBucket))
		if err != nil {
			return err
		}
		return b.Put([]byte("sess1-cart"), []byte("{not json"))
	}))

	s := NewCartStore(db, "sess1", nil)
	assert.Empty(t, s.Items())
}

func TestCartsAreIsolatedByNamespace(t *testing.T) {
	db := newTestDB(t)
	m := NewCartManager(db, nil)

	require.NoError(t, m.Cart("guest_1").AddToCart(plainProduct(), 1, ""))

	assert.Equal(t, 1, m.Cart("guest_1").CartCount())
	assert.Equal(t, 0, m.Cart("user_1").CartCount())
}

func TestMergeSumsQuantitiesAndClearsSource(t *testing.T) {
	m := NewCartManager(newTestDB(t), nil)
	p := fabricProduct()

	require.NoError(t, m.Cart("guest_1").AddToCart(p, 2, "red"))
	require.NoError(t, m.Cart("guest_1").AddToCart(plainProduct(), 1, ""))
	require.NoError(t, m.Cart("user_1").AddToCart(p, 1, "red"))

	moved := m.Merge("guest_1", "user_1")
	require.True(t, moved)

	dst := m.Cart("user_1")
	assert.Len(t, dst.Items(), 2)
	red := dst.Items()[0]
	assert.Equal(t, "red", red.FabricCode)
	assert.Equal(t, 3, red.Quantity)
	assert.Empty(t, m.Cart("guest_1").Items())
}

func TestMergeIntoOwnNamespaceLeavesCartIntact(t *testing.T) {
	m := NewCartManager(newTestDB(t), nil)
	require.NoError(t, m.Cart("u1").AddToCart(plainProduct(), 1, ""))

	assert.False(t, m.Merge("u1", "u1"))

	cart := m.Cart("u1")
	require.Len(t, cart.Items(), 1)
	assert.Equal(t, 1, cart.CartCount())
}

func TestMergeEmptySourceIsNoOp(t *testing.T) {
	m := NewCartManager(newTestDB(t), nil)
	require.NoError(t, m.Cart("user_1").AddToCart(plainProduct(), 1, ""))

	assert.False(t, m.Merge("guest_1", "user_1"))
	assert.Equal(t, 1, m.Cart("user_1").CartCount())
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	s := NewCartStore(newTestDB(t), "sess1", nil)
	ch := s.Subscribe()

	require.NoError(t, s.AddToCart(plainProduct(), 1, ""))

	select {
	case snapshot := <-ch:
		require.Len(t, snapshot, 1)
		assert.Equal(t, "p1", snapshot[0].ProductID)
	default:
		t.Fatal("expected a snapshot on the subscription channel")
	}
}
