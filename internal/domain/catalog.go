package domain

// CatalogKind identifies one of the shared reference catalogs.
type CatalogKind string

// List of catalog kinds backing delivery reference fields
const (
	KindTransportModel CatalogKind = "transport_model"
	KindPackagingType  CatalogKind = "packaging_type"
	KindService        CatalogKind = "service"
	KindStatus         CatalogKind = "status"
)

var allowedKinds = [...]CatalogKind{
	KindTransportModel, KindPackagingType, KindService, KindStatus,
}

// Valid checks if the CatalogKind is valid
func (k CatalogKind) Valid() bool {
	for _, v := range allowedKinds {
		if k == v {
			return true
		}
	}
	return false
}

// DefaultStatusColor is the color a status row receives when none is supplied.
const DefaultStatusColor = "yellow"

// Well-known status names the query layer depends on. The status catalog
// stays open; these two rows are materialized on first use.
const (
	StatusPending   = "Pending"
	StatusDelivered = "Delivered"
)

// CatalogEntity is a shared, named reference value (transport model,
// packaging type, service or status). Color is meaningful for statuses only.
type CatalogEntity struct {
	ID    int64
	Name  string
	Color string
}

// CatalogValue carries the payload for resolve-or-create resolution.
type CatalogValue struct {
	Name  string
	Color string
}

// CatalogRef references a catalog entity either by id or by value.
// When both are present the id wins and the value is ignored entirely.
// A ref with neither form set is empty.
type CatalogRef struct {
	ID    *int64
	Value *CatalogValue
}

// Empty reports whether the ref carries neither an id nor a value.
func (r CatalogRef) Empty() bool {
	return r.ID == nil && r.Value == nil
}
