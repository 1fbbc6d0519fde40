package types

// Contact holds the reachable address details for a pharmacy. Stored as flat
// columns via gorm's embedded struct support.
type Contact struct {
	Phone      string `gorm:"column:phone" json:"phone"`
	Email      string `gorm:"column:email" json:"email"`
	Address    string `gorm:"column:address" json:"address"`
	City       string `gorm:"column:city" json:"city"`
	State      string `gorm:"column:state" json:"state"`
	PostalCode string `gorm:"column:postal_code" json:"postal_code"`
}
