package handlers

import "time"

// catalogDTO is the wire form of a catalog entity. Color is only populated
// for statuses.
type catalogDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// catalogRefDTO references a catalog entity in a request body: either by id
// or by name (resolved or created inline). When both are sent the id wins.
type catalogRefDTO struct {
	ID    *int64  `json:"id,omitempty"`
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

type deliveryDTO struct {
	ID                 int64        `json:"id"`
	TransportModel     catalogDTO   `json:"transport_model"`
	TransportNumber    string       `json:"transport_number"`
	StartTime          time.Time    `json:"start_time"`
	EndTime            time.Time    `json:"end_time"`
	Distance           float64      `json:"distance"`
	MediaFile          *string      `json:"media_file"`
	Services           []catalogDTO `json:"services"`
	Packaging          catalogDTO   `json:"packaging"`
	Status             catalogDTO   `json:"status"`
	TechnicalCondition string       `json:"technical_condition"`
	CourierID          *int64       `json:"courier_id"`
	SourceAddress      string       `json:"source_address"`
	DestinationAddress string       `json:"destination_address"`
	SourceLat          *float64     `json:"source_lat"`
	SourceLon          *float64     `json:"source_lon"`
	DestLat            *float64     `json:"dest_lat"`
	DestLon            *float64     `json:"dest_lon"`
}

type createDeliveryRequest struct {
	TransportModel     catalogRefDTO   `json:"transport_model"`
	TransportNumber    string          `json:"transport_number"`
	StartTime          time.Time       `json:"start_time"`
	EndTime            time.Time       `json:"end_time"`
	Distance           float64         `json:"distance"`
	Packaging          catalogRefDTO   `json:"packaging"`
	Status             catalogRefDTO   `json:"status"`
	TechnicalCondition string          `json:"technical_condition"`
	Services           []catalogRefDTO `json:"services,omitempty"`
	CourierID          *int64          `json:"courier_id,omitempty"`
	SourceAddress      string          `json:"source_address,omitempty"`
	DestinationAddress string          `json:"destination_address,omitempty"`
	SourceLat          *float64        `json:"source_lat,omitempty"`
	SourceLon          *float64        `json:"source_lon,omitempty"`
	DestLat            *float64        `json:"dest_lat,omitempty"`
	DestLon            *float64        `json:"dest_lon,omitempty"`
}

type updateDeliveryRequest struct {
	TransportModel     *catalogRefDTO   `json:"transport_model,omitempty"`
	TransportNumber    *string          `json:"transport_number,omitempty"`
	StartTime          *time.Time       `json:"start_time,omitempty"`
	EndTime            *time.Time       `json:"end_time,omitempty"`
	Distance           *float64         `json:"distance,omitempty"`
	Packaging          *catalogRefDTO   `json:"packaging,omitempty"`
	Status             *catalogRefDTO   `json:"status,omitempty"`
	TechnicalCondition *string          `json:"technical_condition,omitempty"`
	Services           *[]catalogRefDTO `json:"services,omitempty"`
	CourierID          *int64           `json:"courier_id,omitempty"`
	SourceAddress      *string          `json:"source_address,omitempty"`
	DestinationAddress *string          `json:"destination_address,omitempty"`
	SourceLat          *float64         `json:"source_lat,omitempty"`
	SourceLon          *float64         `json:"source_lon,omitempty"`
	DestLat            *float64         `json:"dest_lat,omitempty"`
	DestLon            *float64         `json:"dest_lon,omitempty"`
}

type createSimpleRequest struct {
	TransportModel  string    `json:"transport_model"`
	TransportNumber string    `json:"transport_number"`
	Packaging       string    `json:"packaging"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Distance        float64   `json:"distance"`
}

type updateStatusRequest struct {
	StatusID int64 `json:"status_id"`
}

type attachMediaResponse struct {
	MediaFile string `json:"media_file"`
}

type coordinatesDTO struct {
	ID        int64   `json:"id"`
	SourceLat float64 `json:"source_lat"`
	SourceLon float64 `json:"source_lon"`
	DestLat   float64 `json:"dest_lat"`
	DestLon   float64 `json:"dest_lon"`
}

type syncChangeDTO struct {
	ClientID string                 `json:"client_id"`
	Action   string                 `json:"action"`
	ID       *int64                 `json:"id,omitempty"`
	Create   *createDeliveryRequest `json:"create,omitempty"`
	Update   *updateDeliveryRequest `json:"update,omitempty"`
}

type syncRequest struct {
	Changes []syncChangeDTO `json:"changes"`
}

type syncOutcomeDTO struct {
	ClientID string       `json:"client_id"`
	Status   string       `json:"status"`
	Delivery *deliveryDTO `json:"delivery,omitempty"`
	Error    string       `json:"error,omitempty"`
}

type syncResponse struct {
	Results []syncOutcomeDTO `json:"results"`
}
