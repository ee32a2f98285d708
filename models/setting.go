package models

// Setting is one back-office configuration entry (store name, hero image,
// contact email, and the like).
type Setting struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value string `json:"value"`
}
