package handlers

type createCatalogRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type updateCatalogRequest struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

type profileResponse struct {
	UserID               int64   `json:"user_id"`
	Name                 string  `json:"name"`
	Phone                string  `json:"phone"`
	Email                string  `json:"email"`
	TotalDeliveries      int64   `json:"total_deliveries"`
	SuccessfulDeliveries int64   `json:"successful_deliveries"`
	TotalTimeSeconds     float64 `json:"total_time_seconds"`
	TotalTimeHours       float64 `json:"total_time_hours"`
}

type updateProfileRequest struct {
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}
