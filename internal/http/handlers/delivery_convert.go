package handlers

import (
	"github.com/gargatun/aerodyne/internal/domain"
	"github.com/gargatun/aerodyne/internal/service/record"
	"github.com/gargatun/aerodyne/internal/service/syncer"
)

func (d catalogRefDTO) toRef() domain.CatalogRef {
	ref := domain.CatalogRef{ID: d.ID}
	if d.Name != nil {
		v := domain.CatalogValue{Name: *d.Name}
		if d.Color != nil {
			v.Color = *d.Color
		}
		ref.Value = &v
	}
	return ref
}

func refsToModel(list []catalogRefDTO) []domain.CatalogRef {
	if list == nil {
		return nil
	}
	out := make([]domain.CatalogRef, 0, len(list))
	for _, d := range list {
		out = append(out, d.toRef())
	}
	return out
}

func (r createDeliveryRequest) toModel() domain.NewDelivery {
	return domain.NewDelivery{
		TransportModel:     r.TransportModel.toRef(),
		TransportNumber:    r.TransportNumber,
		StartTime:          r.StartTime,
		EndTime:            r.EndTime,
		Distance:           r.Distance,
		Packaging:          r.Packaging.toRef(),
		Status:             r.Status.toRef(),
		TechnicalCondition: domain.TechnicalCondition(r.TechnicalCondition),
		Services:           refsToModel(r.Services),
		CourierID:          r.CourierID,
		SourceAddress:      r.SourceAddress,
		DestinationAddress: r.DestinationAddress,
		SourceLat:          r.SourceLat,
		SourceLon:          r.SourceLon,
		DestLat:            r.DestLat,
		DestLon:            r.DestLon,
	}
}

func (r updateDeliveryRequest) toModel() domain.PartialDeliveryUpdate {
	u := domain.PartialDeliveryUpdate{
		TransportNumber:    r.TransportNumber,
		StartTime:          r.StartTime,
		EndTime:            r.EndTime,
		Distance:           r.Distance,
		CourierID:          r.CourierID,
		SourceAddress:      r.SourceAddress,
		DestinationAddress: r.DestinationAddress,
		SourceLat:          r.SourceLat,
		SourceLon:          r.SourceLon,
		DestLat:            r.DestLat,
		DestLon:            r.DestLon,
	}
	if r.TransportModel != nil {
		ref := r.TransportModel.toRef()
		u.TransportModel = &ref
	}
	if r.Packaging != nil {
		ref := r.Packaging.toRef()
		u.Packaging = &ref
	}
	if r.Status != nil {
		ref := r.Status.toRef()
		u.Status = &ref
	}
	if r.TechnicalCondition != nil {
		tc := domain.TechnicalCondition(*r.TechnicalCondition)
		u.TechnicalCondition = &tc
	}
	if r.Services != nil {
		refs := refsToModel(*r.Services)
		u.Services = &refs
	}
	return u
}

func (r createSimpleRequest) toModel() record.SimpleInput {
	return record.SimpleInput{
		TransportModel:  r.TransportModel,
		TransportNumber: r.TransportNumber,
		Packaging:       r.Packaging,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		Distance:        r.Distance,
	}
}

func catalogToResponse(e domain.CatalogEntity) catalogDTO {
	return catalogDTO{ID: e.ID, Name: e.Name, Color: e.Color}
}

func catalogsToResponse(list []domain.CatalogEntity) []catalogDTO {
	out := make([]catalogDTO, 0, len(list))
	for _, e := range list {
		out = append(out, catalogToResponse(e))
	}
	return out
}

func deliveryToResponse(d domain.Delivery) deliveryDTO {
	resp := deliveryDTO{
		ID:                 d.ID,
		TransportModel:     catalogToResponse(d.TransportModel),
		TransportNumber:    d.TransportNumber,
		StartTime:          d.StartTime,
		EndTime:            d.EndTime,
		Distance:           d.Distance,
		MediaFile:          d.MediaFile,
		Services:           catalogsToResponse(d.Services),
		Packaging:          catalogToResponse(d.Packaging),
		Status:             catalogToResponse(d.Status),
		TechnicalCondition: string(d.TechnicalCondition),
		SourceAddress:      d.SourceAddress,
		DestinationAddress: d.DestinationAddress,
		SourceLat:          d.SourceLat,
		SourceLon:          d.SourceLon,
		DestLat:            d.DestLat,
		DestLon:            d.DestLon,
	}
	if d.Courier != nil {
		id := d.Courier.ID
		resp.CourierID = &id
	}
	return resp
}

func deliveriesToResponse(list []domain.Delivery) []deliveryDTO {
	out := make([]deliveryDTO, 0, len(list))
	for _, d := range list {
		out = append(out, deliveryToResponse(d))
	}
	return out
}

func pointsToResponse(list []domain.DeliveryPoint) []coordinatesDTO {
	out := make([]coordinatesDTO, 0, len(list))
	for _, p := range list {
		out = append(out, coordinatesDTO{
			ID:        p.ID,
			SourceLat: p.SourceLat,
			SourceLon: p.SourceLon,
			DestLat:   p.DestLat,
			DestLon:   p.DestLon,
		})
	}
	return out
}

func (c syncChangeDTO) toModel() syncer.Change {
	ch := syncer.Change{
		ClientID:   c.ClientID,
		Action:     syncer.Action(c.Action),
		DeliveryID: c.ID,
	}
	if c.Create != nil {
		in := c.Create.toModel()
		ch.Create = &in
	}
	if c.Update != nil {
		u := c.Update.toModel()
		ch.Update = &u
	}
	return ch
}

func changesToModel(list []syncChangeDTO) []syncer.Change {
	out := make([]syncer.Change, 0, len(list))
	for _, c := range list {
		out = append(out, c.toModel())
	}
	return out
}

func outcomesToResponse(list []syncer.Outcome) syncResponse {
	out := make([]syncOutcomeDTO, 0, len(list))
	for _, o := range list {
		dto := syncOutcomeDTO{
			ClientID: o.ClientID,
			Status:   string(o.Status),
			Error:    o.Error,
		}
		if o.Delivery != nil {
			d := deliveryToResponse(*o.Delivery)
			dto.Delivery = &d
		}
		out = append(out, dto)
	}
	return syncResponse{Results: out}
}
