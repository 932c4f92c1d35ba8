package domain

import "time"

// TechnicalCondition represents the technical condition of the transport.
type TechnicalCondition string

// List of possible technical conditions
const (
	ConditionOperational TechnicalCondition = "Operational"
	ConditionFaulty      TechnicalCondition = "Faulty"
)

var allowedConditions = [...]TechnicalCondition{
	ConditionOperational, ConditionFaulty,
}

// Valid checks if the TechnicalCondition is valid
func (c TechnicalCondition) Valid() bool {
	for _, v := range allowedConditions {
		if c == v {
			return true
		}
	}
	return false
}

// Delivery is the aggregate root: one transport job tracked end-to-end.
// Courier == nil means the delivery is assignable; a non-nil courier
// claims it exclusively.
type Delivery struct {
	ID                 int64
	TransportModel     CatalogEntity
	TransportNumber    string
	StartTime          time.Time
	EndTime            time.Time
	Distance           float64
	MediaFile          *string
	Services           []CatalogEntity
	Packaging          CatalogEntity
	Status             CatalogEntity
	TechnicalCondition TechnicalCondition
	Courier            *Courier
	SourceAddress      string
	DestinationAddress string
	SourceLat          *float64
	SourceLon          *float64
	DestLat            *float64
	DestLon            *float64
}

// NewDelivery carries the input for creating a delivery. Related entities
// arrive as CatalogRef unions: by id (must resolve) or by value
// (resolved or created inline).
type NewDelivery struct {
	TransportModel     CatalogRef
	TransportNumber    string
	StartTime          time.Time
	EndTime            time.Time
	Distance           float64
	Packaging          CatalogRef
	Status             CatalogRef
	TechnicalCondition TechnicalCondition
	Services           []CatalogRef
	CourierID          *int64
	SourceAddress      string
	DestinationAddress string
	SourceLat          *float64
	SourceLon          *float64
	DestLat            *float64
	DestLon            *float64
}

// PartialDeliveryUpdate carries optional fields to update a delivery.
// A nil field means “do not change” that attribute. Services, when
// present, replaces the whole set.
type PartialDeliveryUpdate struct {
	TransportModel     *CatalogRef
	TransportNumber    *string
	StartTime          *time.Time
	EndTime            *time.Time
	Distance           *float64
	Packaging          *CatalogRef
	Status             *CatalogRef
	TechnicalCondition *TechnicalCondition
	Services           *[]CatalogRef
	CourierID          *int64
	SourceAddress      *string
	DestinationAddress *string
	SourceLat          *float64
	SourceLon          *float64
	DestLat            *float64
	DestLon            *float64
}

// Empty reports whether the update changes nothing.
func (u PartialDeliveryUpdate) Empty() bool {
	return u.TransportModel == nil && u.TransportNumber == nil &&
		u.StartTime == nil && u.EndTime == nil && u.Distance == nil &&
		u.Packaging == nil && u.Status == nil && u.TechnicalCondition == nil &&
		u.Services == nil && u.CourierID == nil &&
		u.SourceAddress == nil && u.DestinationAddress == nil &&
		u.SourceLat == nil && u.SourceLon == nil &&
		u.DestLat == nil && u.DestLon == nil
}

// DeliveryPoint is the coordinate projection of an unassigned delivery.
// Rows with any missing coordinate are excluded from listings.
type DeliveryPoint struct {
	ID        int64
	SourceLat float64
	SourceLon float64
	DestLat   float64
	DestLon   float64
}

// SortField selects the ordering column for delivery listings.
type SortField string

// List of allowed sort fields; empty means storage-natural order (by id).
const (
	SortNone      SortField = ""
	SortDistance  SortField = "distance"
	SortStartTime SortField = "start_time"
)

// Valid checks if the SortField is valid
func (f SortField) Valid() bool {
	return f == SortNone || f == SortDistance || f == SortStartTime
}

// SortOrder selects ascending or descending ordering.
type SortOrder string

// List of allowed sort orders; empty defaults to ascending.
const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Valid checks if the SortOrder is valid
func (o SortOrder) Valid() bool {
	return o == "" || o == OrderAsc || o == OrderDesc
}

// DeliveryFilter narrows and orders delivery listings.
type DeliveryFilter struct {
	CourierID     *int64
	StatusID      *int64
	ExcludeStatus *string
	StatusName    *string
	Unassigned    bool
	MaxDistance   *float64
	SortBy        SortField
	Order         SortOrder
}
