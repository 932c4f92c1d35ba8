package kafka

import (
	"time"

	"github.com/gargatun/aerodyne/internal/domain"
	"github.com/gargatun/aerodyne/internal/service/syncer"
)

// changeEnvelope is the wire form of one offline change on the sync topic.
// It mirrors the HTTP sync payload so clients can replay the same queue
// over either transport.
type changeEnvelope struct {
	ClientID string         `json:"client_id"`
	Action   string         `json:"action"`
	ID       *int64         `json:"id,omitempty"`
	Create   *createPayload `json:"create,omitempty"`
	Update   *updatePayload `json:"update,omitempty"`
}

// refPayload references a catalog entity by id or by name; id wins.
type refPayload struct {
	ID    *int64  `json:"id,omitempty"`
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

type createPayload struct {
	TransportModel     refPayload   `json:"transport_model"`
	TransportNumber    string       `json:"transport_number"`
	StartTime          time.Time    `json:"start_time"`
	EndTime            time.Time    `json:"end_time"`
	Distance           float64      `json:"distance"`
	Packaging          refPayload   `json:"packaging"`
	Status             refPayload   `json:"status"`
	TechnicalCondition string       `json:"technical_condition"`
	Services           []refPayload `json:"services,omitempty"`
	CourierID          *int64       `json:"courier_id,omitempty"`
	SourceAddress      string       `json:"source_address,omitempty"`
	DestinationAddress string       `json:"destination_address,omitempty"`
	SourceLat          *float64     `json:"source_lat,omitempty"`
	SourceLon          *float64     `json:"source_lon,omitempty"`
	DestLat            *float64     `json:"dest_lat,omitempty"`
	DestLon            *float64     `json:"dest_lon,omitempty"`
}

type updatePayload struct {
	TransportModel     *refPayload   `json:"transport_model,omitempty"`
	TransportNumber    *string       `json:"transport_number,omitempty"`
	StartTime          *time.Time    `json:"start_time,omitempty"`
	EndTime            *time.Time    `json:"end_time,omitempty"`
	Distance           *float64      `json:"distance,omitempty"`
	Packaging          *refPayload   `json:"packaging,omitempty"`
	Status             *refPayload   `json:"status,omitempty"`
	TechnicalCondition *string       `json:"technical_condition,omitempty"`
	Services           *[]refPayload `json:"services,omitempty"`
	CourierID          *int64        `json:"courier_id,omitempty"`
	SourceAddress      *string       `json:"source_address,omitempty"`
	DestinationAddress *string       `json:"destination_address,omitempty"`
	SourceLat          *float64      `json:"source_lat,omitempty"`
	SourceLon          *float64      `json:"source_lon,omitempty"`
	DestLat            *float64      `json:"dest_lat,omitempty"`
	DestLon            *float64      `json:"dest_lon,omitempty"`
}

func (p refPayload) toRef() domain.CatalogRef {
	ref := domain.CatalogRef{ID: p.ID}
	if p.Name != nil {
		v := domain.CatalogValue{Name: *p.Name}
		if p.Color != nil {
			v.Color = *p.Color
		}
		ref.Value = &v
	}
	return ref
}

func refsToModel(list []refPayload) []domain.CatalogRef {
	if list == nil {
		return nil
	}
	out := make([]domain.CatalogRef, 0, len(list))
	for _, p := range list {
		out = append(out, p.toRef())
	}
	return out
}

func (p createPayload) toModel() domain.NewDelivery {
	return domain.NewDelivery{
		TransportModel:     p.TransportModel.toRef(),
		TransportNumber:    p.TransportNumber,
		StartTime:          p.StartTime,
		EndTime:            p.EndTime,
		Distance:           p.Distance,
		Packaging:          p.Packaging.toRef(),
		Status:             p.Status.toRef(),
		TechnicalCondition: domain.TechnicalCondition(p.TechnicalCondition),
		Services:           refsToModel(p.Services),
		CourierID:          p.CourierID,
		SourceAddress:      p.SourceAddress,
		DestinationAddress: p.DestinationAddress,
		SourceLat:          p.SourceLat,
		SourceLon:          p.SourceLon,
		DestLat:            p.DestLat,
		DestLon:            p.DestLon,
	}
}

func (p updatePayload) toModel() domain.PartialDeliveryUpdate {
	u := domain.PartialDeliveryUpdate{
		TransportNumber:    p.TransportNumber,
		StartTime:          p.StartTime,
		EndTime:            p.EndTime,
		Distance:           p.Distance,
		CourierID:          p.CourierID,
		SourceAddress:      p.SourceAddress,
		DestinationAddress: p.DestinationAddress,
		SourceLat:          p.SourceLat,
		SourceLon:          p.SourceLon,
		DestLat:            p.DestLat,
		DestLon:            p.DestLon,
	}
	if p.TransportModel != nil {
		ref := p.TransportModel.toRef()
		u.TransportModel = &ref
	}
	if p.Packaging != nil {
		ref := p.Packaging.toRef()
		u.Packaging = &ref
	}
	if p.Status != nil {
		ref := p.Status.toRef()
		u.Status = &ref
	}
	if p.TechnicalCondition != nil {
		tc := domain.TechnicalCondition(*p.TechnicalCondition)
		u.TechnicalCondition = &tc
	}
	if p.Services != nil {
		refs := refsToModel(*p.Services)
		u.Services = &refs
	}
	return u
}

func (e changeEnvelope) toModel() syncer.Change {
	ch := syncer.Change{
		ClientID:   e.ClientID,
		Action:     syncer.Action(e.Action),
		DeliveryID: e.ID,
	}
	if e.Create != nil {
		in := e.Create.toModel()
		ch.Create = &in
	}
	if e.Update != nil {
		u := e.Update.toModel()
		ch.Update = &u
	}
	return ch
}
