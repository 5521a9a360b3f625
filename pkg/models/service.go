package models

// ServiceUnit is the unit a service is priced by.
type ServiceUnit string

const (
	UnitKilogram ServiceUnit = "kg"
	UnitItem     ServiceUnit = "item"
)

// Service represents a laundry service offering (wash, dry-clean, ironing).
type Service struct {
	ID     int         `json:"id"`
	Name   string      `json:"name"`
	Price  float64     `json:"price"`
	Unit   ServiceUnit `json:"unit"`
	Active bool        `json:"active"`
}
