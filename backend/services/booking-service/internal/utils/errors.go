package utils

import "errors"

/*
Sentinel errors for booking-service domain logic. Services translate them
into utils.AppError values; controllers never see them raw.
*/
var (
	ErrPropertyInactive  = errors.New("property_inactive")
	ErrWrongPropertyKind = errors.New("wrong_property_kind")
	ErrWrongUnitKind     = errors.New("wrong_unit_kind")
	ErrUnitNotInProperty = errors.New("unit_not_in_property")
	ErrStayOutOfBounds   = errors.New("stay_out_of_bounds")
	ErrGuestsOverCap     = errors.New("guests_over_capacity")
)
