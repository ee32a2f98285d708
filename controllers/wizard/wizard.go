package wizardControllers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lojak57/baseform-api/models"
	"github.com/lojak57/baseform-api/store"
	"github.com/lojak57/baseform-api/wizard"
)

// Sessions holds in-flight wizard runs keyed by a session token handed to
// the admin UI at start.
type Sessions struct {
	mu       sync.Mutex
	wizards  map[string]*wizard.ProductWizard
	products *store.ProductStore
	notifier store.Notifier
}

func NewSessions(products *store.ProductStore, notifier store.Notifier) *Sessions {
	return &Sessions{
		wizards:  make(map[string]*wizard.ProductWizard),
		products: products,
		notifier: notifier,
	}
}

func (s *Sessions) get(c *gin.Context) (*wizard.ProductWizard, string, bool) {
	id := c.Param("wizardID")
	s.mu.Lock()
	w, ok := s.wizards[id]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wizard session not found"})
		return nil, "", false
	}
	return w, id, true
}

// POST /admin/wizard starts a wizard, optionally pre-filled from an
// existing product for editing.
func (s *Sessions) Start(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id"`
	}
	_ = c.ShouldBindJSON(&req)

	var w *wizard.ProductWizard
	if req.ProductID != "" {
		existing, found := s.products.ProductByID(req.ProductID)
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		w = wizard.NewEditWizard(s.products, s.notifier, *existing)
	} else {
		w = wizard.NewProductWizard(s.products, s.notifier)
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.wizards[id] = w
	s.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{"wizard_id": id, "step": w.Step().String(), "draft": w.Draft()})
}

// POST /admin/wizard/:wizardID/basic-info
func (s *Sessions) SetBasicInfo(c *gin.Context) {
	w, _, ok := s.get(c)
	if !ok {
		return
	}
	var req struct {
		Name               string  `json:"name"`
		Description        string  `json:"description"`
		CategoryID         string  `json:"category_id"`
		Price              float64 `json:"price"`
		HasFabricSelection bool    `json:"has_fabric_selection"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if err := w.SetBasicInfo(req.Name, req.Description, req.CategoryID, req.Price, req.HasFabricSelection); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": w.Step().String()})
}

// POST /admin/wizard/:wizardID/images
func (s *Sessions) SetImages(c *gin.Context) {
	w, _, ok := s.get(c)
	if !ok {
		return
	}
	var req struct {
		Images []string `json:"images"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if err := w.SetImages(req.Images); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": w.Step().String()})
}

// POST /admin/wizard/:wizardID/fabrics
func (s *Sessions) SetFabrics(c *gin.Context) {
	w, _, ok := s.get(c)
	if !ok {
		return
	}
	var req struct {
		Fabrics []models.Fabric `json:"fabrics"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if err := w.SetFabrics(req.Fabrics); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": w.Step().String()})
}

// POST /admin/wizard/:wizardID/back
func (s *Sessions) Back(c *gin.Context) {
	w, _, ok := s.get(c)
	if !ok {
		return
	}
	var req struct {
		Step int `json:"step"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if err := w.Back(wizard.WizardStep(req.Step)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": w.Step().String()})
}

// POST /admin/wizard/:wizardID/submit
func (s *Sessions) Submit(c *gin.Context) {
	w, id, ok := s.get(c)
	if !ok {
		return
	}
	if err := w.Submit(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	delete(s.wizards, id)
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"message": "Product saved"})
}
