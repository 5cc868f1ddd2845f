package models

// InventoryKind names the three product lines. Every property, booking and
// lifecycle table is keyed by it.
type InventoryKind string

const (
	InventoryApartment InventoryKind = "APARTMENT"
	InventoryPG        InventoryKind = "PG"
	InventoryResort    InventoryKind = "RESORT"
)

func (k InventoryKind) Valid() bool {
	switch k {
	case InventoryApartment, InventoryPG, InventoryResort:
		return true
	}
	return false
}

// UnitKind is the shape of a bookable unit.
type UnitKind string

const (
	UnitFullApartment UnitKind = "FULL_APARTMENT"
	UnitApartmentRoom UnitKind = "APARTMENT_ROOM"
	UnitResortRoom    UnitKind = "RESORT_ROOM"
	UnitPGRoom        UnitKind = "PG_ROOM"
	UnitPGBed         UnitKind = "PG_BED"
)

// Inventory returns the product line a unit kind belongs to.
func (k UnitKind) Inventory() InventoryKind {
	switch k {
	case UnitFullApartment, UnitApartmentRoom:
		return InventoryApartment
	case UnitPGRoom, UnitPGBed:
		return InventoryPG
	case UnitResortRoom:
		return InventoryResort
	}
	return ""
}

func (k UnitKind) Valid() bool { return k.Inventory() != "" }

// PricedMonthly reports whether the unit is rented per month rather than per night.
func (k UnitKind) PricedMonthly() bool {
	return k == UnitPGRoom || k == UnitPGBed
}
