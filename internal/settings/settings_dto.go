package settings

type UpdateSettingsRequest struct {
	MatchThreshold       *float64 `json:"match_threshold"`
	AutoCheckoutTime     *string  `json:"auto_checkout_time"`
	AllowDuplicatePoints *bool    `json:"allow_duplicate_points"`
}

type SettingsResponse struct {
	MatchThreshold       float64 `json:"match_threshold"`
	AutoCheckoutTime     string  `json:"auto_checkout_time"`
	AllowDuplicatePoints bool    `json:"allow_duplicate_points"`
	UpdatedBy            string  `json:"updated_by,omitempty"`
	UpdatedAt            string  `json:"updated_at,omitempty"`
}
