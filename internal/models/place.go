package models

// Place is a saved location where expenses happen. Coordinates are WGS84
// degrees; nearby lookup is done with a haversine distance in the service.
type Place struct {
	Base
	Name      string  `gorm:"not null" json:"name"`
	Latitude  float64 `gorm:"not null" json:"latitude"`
	Longitude float64 `gorm:"not null" json:"longitude"`
	Address   string  `json:"address"`

	Expenses []Expense `gorm:"foreignKey:PlaceID" json:"expenses,omitempty"`
}
