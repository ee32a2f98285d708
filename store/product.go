package store

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lojak57/baseform-api/models"
)

// fetchDebounce skips repeated catalog fetches inside this window unless forced.
const fetchDebounce = 5 * time.Second

var (
	ErrSlugTaken       = errors.New("slug already in use")
	ErrUnknownCategory = errors.New("category does not exist")
)

// ProductStore is the CRUD façade over the remote product collection,
// including the nested fabric variants. It caches the catalog for the
// storefront identified by a fixed source tag.
type ProductStore struct {
	db       *gorm.DB
	source   string
	notifier Notifier

	mu        sync.Mutex
	products  []models.Product
	lastFetch time.Time
	loading   bool
	lastErr   error
	subs      []chan []models.Product
}

func NewProductStore(db *gorm.DB, source string, notifier Notifier) *ProductStore {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &ProductStore{db: db, source: source, notifier: notifier}
}

// FetchProducts reloads the catalog with its fabric rows in one query.
// Calls within the debounce window are skipped unless forced.
func (s *ProductStore) FetchProducts(force bool) error {
	s.mu.Lock()
	if !force && !s.lastFetch.IsZero() && time.Since(s.lastFetch) < fetchDebounce {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.mu.Unlock()

	var products []models.Product
	err := s.db.Preload("Fabrics").
		Where("source = ?", s.source).
		Order("created_at DESC").
		Find(&products).Error

	s.mu.Lock()
	s.loading = false
	s.lastErr = err
	if err != nil {
		s.mu.Unlock()
		log.Printf("❌ Failed to fetch products: %v", err)
		s.notifier.Notify(Notice{NoticeError, "Failed to load products"})
		return err
	}
	s.products = products
	s.lastFetch = time.Now()
	s.broadcast()
	s.mu.Unlock()
	return nil
}

// AddProduct validates and inserts a product with its fabric rows, then
// refreshes the cache. A syntactically invalid id is replaced with a fresh
// uuid. Fabric selection with zero variants gets one placeholder variant
// synthesized rather than being rejected.
func (s *ProductStore) AddProduct(p models.Product) error {
	if p.Slug == "" {
		p.Slug = models.Slugify(p.Name)
	}
	// Unscoped: the slug index is hard, so soft-deleted rows still hold
	// their slug.
	var count int64
	if err := s.db.Unscoped().Model(&models.Product{}).
		Where("slug = ? AND source = ?", p.Slug, s.source).
		Count(&count).Error; err != nil {
		s.notifier.Notify(Notice{NoticeError, "Failed to validate product"})
		return err
	}
	if count > 0 {
		s.notifier.Notify(Notice{NoticeError, fmt.Sprintf("Slug %q already in use", p.Slug)})
		return ErrSlugTaken
	}
	if err := s.checkCategory(p.CategoryID); err != nil {
		s.notifier.Notify(Notice{NoticeError, "Category does not exist"})
		return err
	}
	if _, err := uuid.Parse(p.ID); err != nil {
		p.ID = uuid.NewString()
	}
	p.Source = s.source
	ensureDefaultFabric(&p)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		fabrics := p.Fabrics
		p.Fabrics = nil
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		if !p.HasFabricSelection {
			return nil
		}
		for i := range fabrics {
			fabrics[i].ID = 0
			fabrics[i].ProductID = p.ID
		}
		return tx.Create(&fabrics).Error
	})
	if err != nil {
		log.Printf("❌ Failed to create product %q: %v", p.Name, err)
		s.notifier.Notify(Notice{NoticeError, "Failed to create product"})
		return err
	}

	s.notifier.Notify(Notice{NoticeSuccess, p.Name + " created"})
	return s.FetchProducts(true)
}

// UpdateProduct saves the product row and replaces its entire fabric set
// (delete-all plus reinsert) in one transaction, then refreshes.
func (s *ProductStore) UpdateProduct(p models.Product) error {
	if _, err := uuid.Parse(p.ID); err != nil {
		s.notifier.Notify(Notice{NoticeError, "Invalid product id"})
		return fmt.Errorf("invalid product id %q", p.ID)
	}
	if err := s.checkCategory(p.CategoryID); err != nil {
		s.notifier.Notify(Notice{NoticeError, "Category does not exist"})
		return err
	}
	p.Source = s.source
	ensureDefaultFabric(&p)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		fabrics := p.Fabrics
		p.Fabrics = nil
		if err := tx.Omit("Fabrics").Save(&p).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", p.ID).Delete(&models.Fabric{}).Error; err != nil {
			return err
		}
		if !p.HasFabricSelection {
			return nil
		}
		for i := range fabrics {
			fabrics[i].ID = 0
			fabrics[i].ProductID = p.ID
		}
		return tx.Create(&fabrics).Error
	})
	if err != nil {
		log.Printf("❌ Failed to update product %s: %v", p.ID, err)
		s.notifier.Notify(Notice{NoticeError, "Failed to update product"})
		return err
	}

	s.notifier.Notify(Notice{NoticeSuccess, p.Name + " updated"})
	return s.FetchProducts(true)
}

// DeleteProduct removes the product row; the cascading foreign key takes
// the fabric rows with it.
func (s *ProductStore) DeleteProduct(productID string) error {
	result := s.db.Where("id = ? AND source = ?", productID, s.source).Delete(&models.Product{})
	if result.Error != nil {
		log.Printf("❌ Failed to delete product %s: %v", productID, result.Error)
		s.notifier.Notify(Notice{NoticeError, "Failed to delete product"})
		return result.Error
	}
	if result.RowsAffected == 0 {
		s.notifier.Notify(Notice{NoticeWarning, "Product not found"})
		return gorm.ErrRecordNotFound
	}
	s.notifier.Notify(Notice{NoticeSuccess, "Product deleted"})
	return s.FetchProducts(true)
}

// GetAllProducts returns the cached catalog, forcing a fetch first when the
// cache has never loaded or a load is in flight.
func (s *ProductStore) GetAllProducts() ([]models.Product, error) {
	s.mu.Lock()
	ready := !s.lastFetch.IsZero() && !s.loading
	s.mu.Unlock()
	if !ready {
		if err := s.FetchProducts(true); err != nil {
			return nil, err
		}
	}
	return s.Products(), nil
}

// Products returns a snapshot of the cached catalog.
func (s *ProductStore) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// ProductByID looks up a cached product.
func (s *ProductStore) ProductByID(id string) (*models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, true
		}
	}
	return nil, false
}

// Loading reports whether a fetch is in flight.
func (s *ProductStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError is the component-visible error flag from the last fetch.
func (s *ProductStore) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Subscribe returns a channel receiving the catalog after every refresh.
func (s *ProductStore) Subscribe() <-chan []models.Product {
	ch := make(chan []models.Product, 4)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *ProductStore) broadcast() {
	if len(s.subs) == 0 {
		return
	}
	snapshot := make([]models.Product, len(s.products))
	copy(snapshot, s.products)
	for _, ch := range s.subs {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

func (s *ProductStore) checkCategory(categoryID string) error {
	if categoryID == "" {
		return ErrUnknownCategory
	}
	var count int64
	if err := s.db.Model(&models.Category{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrUnknownCategory
	}
	return nil
}

// ensureDefaultFabric synthesizes one placeholder variant when fabric
// selection is enabled with zero variants supplied. Corrective default,
// not an error.
func ensureDefaultFabric(p *models.Product) {
	if p.HasFabricSelection && len(p.Fabrics) == 0 {
		log.Printf("⚠️ Product %q has fabric selection with no fabrics, adding default variant", p.Name)
		p.Fabrics = []models.Fabric{{
			ProductID: p.ID,
			Code:      models.DefaultFabricCode,
			Label:     "Default",
			Upcharge:  0,
		}}
	}
}
