package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	bolt "go.etcd.io/bbolt"

	"github.com/lojak57/baseform-api/models"
)

const cartBucket = "carts"

// ErrFabricRequired is returned when a product requires fabric selection but
// has no variants defined. The cart is left untouched.
var ErrFabricRequired = errors.New("product requires fabric selection but has no fabrics")

// CartStore owns one cart: an ordered list of line items keyed by
// (product_id, fabric_code). Every mutation rewrites the full list to the
// local bolt database under the fixed key "<namespace>-cart"; the stored
// value is read back once at construction. The store is the single writer
// for its cart.
type CartStore struct {
	mu        sync.Mutex
	db        *bolt.DB
	namespace string
	notifier  Notifier

	items []models.CartItem
	subs  []chan []models.CartItem
}

// NewCartStore opens the cart persisted under "<namespace>-cart". A missing
// or malformed stored value seeds an empty cart.
func NewCartStore(db *bolt.DB, namespace string, notifier Notifier) *CartStore {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	s := &CartStore{db: db, namespace: namespace, notifier: notifier}
	s.load()
	return s
}

func (s *CartStore) key() []byte {
	return []byte(s.namespace + "-cart")
}

func (s *CartStore) load() {
	if s.db == nil {
		return
	}
	var raw []byte
	_ = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(cartBucket))
		if b == nil {
			return nil
		}
		if v := b.Get(s.key()); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if raw == nil {
		return
	}
	var items []models.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Printf("⚠️ Malformed cart for %q, starting empty: %v", s.namespace, err)
		return
	}
	s.items = items
}

// persist rewrites the whole line list. Called with the lock held.
func (s *CartStore) persist() {
	if s.db == nil {
		return
	}
	data, err := json.Marshal(s.items)
	if err != nil {
		log.Printf("❌ Failed to serialize cart %q: %v", s.namespace, err)
		return
	}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(cartBucket))
		if err != nil {
			return err
		}
		return b.Put(s.key(), data)
	}); err != nil {
		log.Printf("❌ Failed to persist cart %q: %v", s.namespace, err)
	}
}

// AddToCart resolves the effective fabric and price for the product and
// merges the line into the cart. Products without fabric selection always
// land on the synthetic "default" code, whatever code the caller passed.
// An unknown code on a fabric-selecting product falls back to the first
// available variant with a warning.
func (s *CartStore) AddToCart(p *models.Product, quantity int, fabricCode string) error {
	if p == nil {
		s.notifier.Notify(Notice{NoticeError, "Product not found"})
		return errors.New("nil product")
	}
	if quantity < 1 {
		s.notifier.Notify(Notice{NoticeError, "Quantity must be at least 1"})
		return fmt.Errorf("invalid quantity %d", quantity)
	}

	code := models.DefaultFabricCode
	price := p.Price
	var fabric *models.Fabric

	if p.HasFabricSelection {
		if len(p.Fabrics) == 0 {
			s.notifier.Notify(Notice{NoticeError, "This product has no fabric options configured"})
			return ErrFabricRequired
		}
		fabric = p.FabricByCode(fabricCode)
		if fabric == nil {
			log.Printf("⚠️ Fabric %q not found on product %s, using %q", fabricCode, p.ID, p.Fabrics[0].Code)
			s.notifier.Notify(Notice{NoticeWarning, "Requested fabric unavailable, substituted " + p.Fabrics[0].Label})
			fabric = &p.Fabrics[0]
		}
		code = fabric.Code
		price = p.Price + fabric.Upcharge
	}
	image := p.PrimaryImage(fabric)

	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].ProductID == p.ID && s.items[i].FabricCode == code {
			s.items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, models.CartItem{
			ProductID:  p.ID,
			FabricCode: code,
			Name:       p.Name,
			Price:      price,
			Quantity:   quantity,
			Image:      image,
		})
	}
	s.persist()
	s.broadcast()
	s.mu.Unlock()

	s.notifier.Notify(Notice{NoticeSuccess, p.Name + " added to cart"})
	return nil
}

// RemoveFromCart drops the matching line. Removing an absent line is a
// no-op but still notifies.
func (s *CartStore) RemoveFromCart(productID, fabricCode string) {
	s.mu.Lock()
	kept := s.items[:0]
	removed := false
	for _, it := range s.items {
		if it.ProductID == productID && it.FabricCode == fabricCode {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	if removed {
		s.items = kept
		s.persist()
		s.broadcast()
	}
	s.mu.Unlock()

	s.notifier.Notify(Notice{NoticeSuccess, "Item removed from cart"})
}

// UpdateQuantity sets the quantity on the matching line. A quantity of zero
// or less removes the line instead of storing a non-positive value.
func (s *CartStore) UpdateQuantity(productID, fabricCode string, quantity int) {
	if quantity <= 0 {
		s.RemoveFromCart(productID, fabricCode)
		return
	}
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ProductID == productID && s.items[i].FabricCode == fabricCode {
			s.items[i].Quantity = quantity
			found = true
			break
		}
	}
	if found {
		s.persist()
		s.broadcast()
	}
	s.mu.Unlock()

	if !found {
		s.notifier.Notify(Notice{NoticeWarning, "Cart item not found"})
		return
	}
	s.notifier.Notify(Notice{NoticeSuccess, "Cart updated"})
}

// ClearCart empties the list. Called explicitly or after a completed order.
func (s *CartStore) ClearCart() {
	s.mu.Lock()
	s.items = nil
	s.persist()
	s.broadcast()
	s.mu.Unlock()
}

// Items returns a copy of the current line list, order preserved.
func (s *CartStore) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// CartTotal sums snapshotted price × quantity across all lines.
func (s *CartStore) CartTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, it := range s.items {
		total += it.LineTotal()
	}
	return total
}

// CartCount sums the quantities across all lines.
func (s *CartStore) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, it := range s.items {
		count += it.Quantity
	}
	return count
}

// Subscribe returns a channel receiving the full line list after every
// mutation. Slow consumers miss intermediate snapshots rather than block
// the store.
func (s *CartStore) Subscribe() <-chan []models.CartItem {
	ch := make(chan []models.CartItem, 8)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// broadcast fans the current snapshot out to subscribers. Lock held.
func (s *CartStore) broadcast() {
	if len(s.subs) == 0 {
		return
	}
	snapshot := make([]models.CartItem, len(s.items))
	copy(snapshot, s.items)
	for _, ch := range s.subs {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// CartManager hands out one CartStore per session namespace, creating it on
// first use. All stores share the same bolt database.
type CartManager struct {
	mu       sync.Mutex
	db       *bolt.DB
	notifier Notifier
	stores   map[string]*CartStore
}

func NewCartManager(db *bolt.DB, notifier Notifier) *CartManager {
	return &CartManager{db: db, notifier: notifier, stores: make(map[string]*CartStore)}
}

// Cart returns the store owning the cart for the given session namespace.
func (m *CartManager) Cart(namespace string) *CartStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stores[namespace]; ok {
		return s
	}
	s := NewCartStore(m.db, namespace, m.notifier)
	m.stores[namespace] = s
	return s
}

// Merge folds the source cart into the destination, summing quantities for
// matching (product_id, fabric_code) lines, then clears the source. Used
// when a guest session logs in. Returns whether anything moved.
func (m *CartManager) Merge(fromNamespace, toNamespace string) bool {
	// Guest ids come from the client; merging a cart into itself would
	// double the lines and then clear them.
	if fromNamespace == toNamespace {
		return false
	}
	src := m.Cart(fromNamespace)
	dst := m.Cart(toNamespace)

	items := src.Items()
	if len(items) == 0 {
		return false
	}

	dst.mu.Lock()
	for _, in := range items {
		merged := false
		for i := range dst.items {
			if dst.items[i].ProductID == in.ProductID && dst.items[i].FabricCode == in.FabricCode {
				dst.items[i].Quantity += in.Quantity
				merged = true
				break
			}
		}
		if !merged {
			dst.items = append(dst.items, in)
		}
	}
	dst.persist()
	dst.broadcast()
	dst.mu.Unlock()

	src.ClearCart()
	return true
}
