package domain

import "time"

// DeliveryRecord is the storage-level form of a delivery with related
// entities already resolved to ids.
type DeliveryRecord struct {
	ID                 int64
	TransportModelID   int64
	TransportNumber    string
	StartTime          time.Time
	EndTime            time.Time
	Distance           float64
	MediaFile          *string
	PackagingID        int64
	StatusID           int64
	TechnicalCondition TechnicalCondition
	CourierID          *int64
	SourceAddress      string
	DestinationAddress string
	SourceLat          *float64
	SourceLon          *float64
	DestLat            *float64
	DestLon            *float64
}

// DeliveryPatch is the storage-level partial update with related entities
// already resolved to ids. A nil field means “do not change” that column.
type DeliveryPatch struct {
	TransportModelID   *int64
	TransportNumber    *string
	StartTime          *time.Time
	EndTime            *time.Time
	Distance           *float64
	PackagingID        *int64
	StatusID           *int64
	TechnicalCondition *TechnicalCondition
	CourierID          *int64
	SourceAddress      *string
	DestinationAddress *string
	SourceLat          *float64
	SourceLon          *float64
	DestLat            *float64
	DestLon            *float64
}

// DeliveryClaim is the locked projection of a delivery row used by the
// assignment engine's check-then-set.
type DeliveryClaim struct {
	ID        int64
	CourierID *int64
	StatusID  int64
}
