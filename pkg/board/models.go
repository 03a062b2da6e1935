package board

import (
	"time"
)

// Scope selects which boards apply to a lane.
type Scope string

const (
	ScopeDomestic      Scope = "domestic"
	ScopeInternational Scope = "international"
)

// Unit is the basis a rate is quoted on.
type Unit string

const (
	UnitPerMile     Unit = "per_mile"
	UnitPerKilogram Unit = "per_kg"
)

// Equipment is the trailer type a rate applies to.
type Equipment string

const (
	EquipmentVan     Equipment = "van"
	EquipmentReefer  Equipment = "reefer"
	EquipmentFlatbed Equipment = "flatbed"
)

// Quote is a board's average rate for a lane.
type Quote struct {
	Board       string
	AverageRate float64
	Unit        Unit
	Currency    string
	RetrievedAt time.Time
}

// PerMile reports whether the quote can be multiplied by lane mileage.
func (q Quote) PerMile() bool {
	return q.Unit == UnitPerMile
}

// RateRequest is the lane a rate is requested for.
type RateRequest struct {
	Origin      string
	Destination string
	Mileage     int
	Equipment   Equipment
}
