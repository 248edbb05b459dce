package models

// Campus is static reference data for a university feed.
type Campus struct {
	ID       string `gorm:"primaryKey;size:32" json:"id" yaml:"id"`
	Code     string `gorm:"size:32;not null" json:"code" yaml:"code"`
	Name     string `gorm:"size:200;not null" json:"name" yaml:"name"`
	Location string `gorm:"size:100" json:"location" yaml:"location"`
}
