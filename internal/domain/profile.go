package domain

// UserProfile holds courier contact details, 1:1 with the external identity.
// Created lazily on first profile access.
type UserProfile struct {
	User  Courier
	Phone string
	Email string
}

// PartialProfileUpdate carries optional profile fields to update.
// A nil field means “do not change” that attribute.
type PartialProfileUpdate struct {
	Phone *string
	Email *string
}

// ProfileStats aggregates per-courier delivery statistics. Durations are
// summed over delivered deliveries as end_time - start_time and rounded
// to 2 decimal places.
type ProfileStats struct {
	TotalDeliveries      int64
	SuccessfulDeliveries int64
	TotalTimeSeconds     float64
	TotalTimeHours       float64
}
