package model

// APIResponse оборачивает ответ одиночных эндпоинтов.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	APIUsed string `json:"api_used,omitempty"`
}

// ErrorResponse описывает ошибку HTTP API.
type ErrorResponse struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
	// Targets заполняется, когда в режиме all-or-nothing упала часть целей.
	Targets []string `json:"failed_targets,omitempty"`
}

// HealthResponse это ответ GET /health.
type HealthResponse struct {
	Status         string          `json:"status"`
	Timestamp      string          `json:"timestamp"`
	Mode           string          `json:"mode"`
	ProviderMode   string          `json:"provider_mode"`
	Policy         string          `json:"policy"`
	ConfiguredAPIs map[string]bool `json:"configured_apis"`
}
