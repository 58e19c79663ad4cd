package handlers

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ListResponse represents a list response
type ListResponse struct {
	Data  interface{} `json:"data"`
	Total int         `json:"total"`
}
