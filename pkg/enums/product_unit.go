package enums

import "fmt"

// ProductUnit is the sale unit printed next to a product quantity.
type ProductUnit string

const (
	ProductUnitKilogram   ProductUnit = "kg"
	ProductUnitGram       ProductUnit = "g"
	ProductUnitLitre      ProductUnit = "l"
	ProductUnitMillilitre ProductUnit = "ml"
	ProductUnitPiece      ProductUnit = "piece"
	ProductUnitDozen      ProductUnit = "dozen"
	ProductUnitPack       ProductUnit = "pack"
)

var validProductUnits = []ProductUnit{
	ProductUnitKilogram,
	ProductUnitGram,
	ProductUnitLitre,
	ProductUnitMillilitre,
	ProductUnitPiece,
	ProductUnitDozen,
	ProductUnitPack,
}

// String implements fmt.Stringer.
func (u ProductUnit) String() string {
	return string(u)
}

// IsValid reports whether the value is a known ProductUnit.
func (u ProductUnit) IsValid() bool {
	for _, candidate := range validProductUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseProductUnit converts raw input into a ProductUnit.
func ParseProductUnit(value string) (ProductUnit, error) {
	for _, candidate := range validProductUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product unit %q", value)
}
