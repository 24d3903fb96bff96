package model

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *Meta     `json:"meta,omitempty"`
}

type APIError struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Details string  `json:"details,omitempty"`
	Fields  []Field `json:"fields,omitempty"`
}

type Field struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Meta struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expires_in"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

type DeleteProductResponse struct {
	MaxPage int `json:"max_page"`
}

type CartResponse struct {
	Cart []PopulatedCartItem `json:"cart"`
}
