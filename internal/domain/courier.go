package domain

// Courier is an external identity reference owned by the auth provider.
// The core never creates or deletes couriers, only references them.
type Courier struct {
	ID   int64
	Name string
}
