package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultFabricCode is the synthetic variant code used for products
// that do not offer fabric selection.
const DefaultFabricCode = "default"

// PlaceholderImage is served when a product has no images at all.
const PlaceholderImage = "/uploads/placeholder.png"

type Product struct {
	ID                 string         `gorm:"primaryKey;type:uuid" json:"id"`
	Slug               string         `gorm:"uniqueIndex;not null" json:"slug"`
	CategoryID         string         `gorm:"index" json:"category_id"`
	Name               string         `gorm:"not null" json:"name"`
	Description        string         `json:"description"`
	Price              float64        `gorm:"not null" json:"price"`
	DefaultImages      []string       `gorm:"serializer:json" json:"default_images"`
	HasFabricSelection bool           `json:"has_fabric_selection"`
	Fabrics            []Fabric       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"fabrics"`
	Source             string         `gorm:"index;not null" json:"source"` // storefront tag, fixed per deployment
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// Fabric is a material variant of a product. Code is unique within its product.
type Fabric struct {
	ID          uint     `gorm:"primaryKey;autoIncrement" json:"-"`
	ProductID   string   `gorm:"index;type:uuid" json:"product_id"`
	Code        string   `gorm:"not null" json:"code"`
	Label       string   `json:"label"`
	Upcharge    float64  `json:"upcharge"`
	Swatch      string   `json:"swatch"`
	ImgOverride []string `gorm:"serializer:json" json:"img_override"`
}

// PrimaryImage resolves the image shown for a given fabric choice:
// variant override first, then the product's first default image,
// then the generic placeholder.
func (p *Product) PrimaryImage(fabric *Fabric) string {
	if fabric != nil && len(fabric.ImgOverride) > 0 {
		return fabric.ImgOverride[0]
	}
	if len(p.DefaultImages) > 0 {
		return p.DefaultImages[0]
	}
	return PlaceholderImage
}

// FabricByCode returns the variant with the given code, or nil.
func (p *Product) FabricByCode(code string) *Fabric {
	for i := range p.Fabrics {
		if p.Fabrics[i].Code == code {
			return &p.Fabrics[i]
		}
	}
	return nil
}
