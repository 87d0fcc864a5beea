package models

import "time"

// Image is the stored reference to an uploaded listing photo: the public
// URL plus the storage key it was saved under.
type Image struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

type Listing struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Location    string    `json:"location"`
	Country     string    `json:"country"`
	Image       Image     `gorm:"embedded;embeddedPrefix:image_" json:"image"`
	Geometry    *Geometry `gorm:"type:json" json:"geometry,omitempty"`
	OwnerID     uint      `gorm:"not null;index" json:"owner_id"`
	Owner       *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Reviews     []Review  `gorm:"foreignKey:ListingID" json:"reviews,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
