package wizard

import (
	"errors"
	"fmt"

	"github.com/lojak57/baseform-api/models"
	"github.com/lojak57/baseform-api/store"
)

// WizardStep is a position in the admin product wizard.
type WizardStep int

const (
	StepBasicInfo WizardStep = iota
	StepImages
	StepFabrics
	StepDone
)

func (s WizardStep) String() string {
	switch s {
	case StepBasicInfo:
		return "basic_info"
	case StepImages:
		return "images"
	case StepFabrics:
		return "fabrics"
	case StepDone:
		return "done"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

var ErrStepIncomplete = errors.New("step validation failed")

// ProductWizard assembles a product through BasicInfo, Images, and an
// optional Fabrics step that is skipped when the product has no fabric
// selection. Each step gates Next on presence checks; final submission
// hands the assembled product wholesale to the product store.
type ProductWizard struct {
	products *store.ProductStore
	notifier store.Notifier

	step    WizardStep
	draft   models.Product
	editing bool // update instead of add on submit
}

func NewProductWizard(products *store.ProductStore, notifier store.Notifier) *ProductWizard {
	if notifier == nil {
		notifier = store.LogNotifier{}
	}
	return &ProductWizard{products: products, notifier: notifier}
}

// NewEditWizard starts the wizard pre-filled from an existing product.
func NewEditWizard(products *store.ProductStore, notifier store.Notifier, existing models.Product) *ProductWizard {
	w := NewProductWizard(products, notifier)
	w.draft = existing
	w.editing = true
	return w
}

// Step reports the current position.
func (w *ProductWizard) Step() WizardStep { return w.step }

// Draft returns the product assembled so far.
func (w *ProductWizard) Draft() models.Product { return w.draft }

// SetBasicInfo populates the first step and advances. Name, price, and
// category are required; a missing slug is derived from the name.
func (w *ProductWizard) SetBasicInfo(name, description, categoryID string, price float64, hasFabricSelection bool) error {
	if w.step != StepBasicInfo {
		return fmt.Errorf("%w: wizard is on %s", ErrStepIncomplete, w.step)
	}
	if name == "" || categoryID == "" {
		w.notifier.Notify(store.Notice{Level: store.NoticeError, Message: "Name and category are required"})
		return fmt.Errorf("%w: name and category are required", ErrStepIncomplete)
	}
	if price < 0 {
		w.notifier.Notify(store.Notice{Level: store.NoticeError, Message: "Price cannot be negative"})
		return fmt.Errorf("%w: price cannot be negative", ErrStepIncomplete)
	}
	w.draft.Name = name
	w.draft.Description = description
	w.draft.CategoryID = categoryID
	w.draft.Price = price
	w.draft.HasFabricSelection = hasFabricSelection
	if w.draft.Slug == "" {
		w.draft.Slug = models.Slugify(name)
	}
	w.step = StepImages
	return nil
}

// SetImages populates the second step. At least one image is required. When
// the product has no fabric selection the wizard is ready to submit after
// this step.
func (w *ProductWizard) SetImages(images []string) error {
	if w.step != StepImages {
		return fmt.Errorf("%w: wizard is on %s", ErrStepIncomplete, w.step)
	}
	if len(images) == 0 {
		w.notifier.Notify(store.Notice{Level: store.NoticeError, Message: "At least one image is required"})
		return fmt.Errorf("%w: at least one image is required", ErrStepIncomplete)
	}
	w.draft.DefaultImages = images
	if w.draft.HasFabricSelection {
		w.step = StepFabrics
	} else {
		w.step = StepDone
	}
	return nil
}

// SetFabrics populates the conditional third step. Every variant needs a
// code and a label; duplicate codes are refused.
func (w *ProductWizard) SetFabrics(fabrics []models.Fabric) error {
	if w.step != StepFabrics {
		return fmt.Errorf("%w: wizard is on %s", ErrStepIncomplete, w.step)
	}
	seen := make(map[string]bool, len(fabrics))
	for _, f := range fabrics {
		if f.Code == "" || f.Label == "" {
			w.notifier.Notify(store.Notice{Level: store.NoticeError, Message: "Every fabric needs a code and a label"})
			return fmt.Errorf("%w: every fabric needs a code and a label", ErrStepIncomplete)
		}
		if seen[f.Code] {
			w.notifier.Notify(store.Notice{Level: store.NoticeError, Message: "Duplicate fabric code " + f.Code})
			return fmt.Errorf("%w: duplicate fabric code %q", ErrStepIncomplete, f.Code)
		}
		seen[f.Code] = true
	}
	w.draft.Fabrics = fabrics
	w.step = StepDone
	return nil
}

// Back moves to any earlier step, keeping the draft.
func (w *ProductWizard) Back(to WizardStep) error {
	if to >= w.step || to == StepDone {
		return fmt.Errorf("cannot go back to %s from %s", to, w.step)
	}
	if to == StepFabrics && !w.draft.HasFabricSelection {
		return fmt.Errorf("product has no fabric step")
	}
	w.step = to
	return nil
}

// Submit delegates the assembled product to the store's add or update.
func (w *ProductWizard) Submit() error {
	if w.step != StepDone {
		return fmt.Errorf("%w: wizard is on %s", ErrStepIncomplete, w.step)
	}
	if w.editing {
		return w.products.UpdateProduct(w.draft)
	}
	return w.products.AddProduct(w.draft)
}
