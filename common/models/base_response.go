package models

// BaseResponse is the envelope for all successful API responses
type BaseResponse struct {
	Data interface{} `json:"data"`
}

// ErrorResponse is the envelope for all error API responses
type ErrorResponse struct {
	Error string `json:"error"`
	Msg   string `json:"message"`
}

// MetaResponse carries pagination metadata
type MetaResponse struct {
	CurrentPage int64 `json:"current_page"`
	LastPage    int64 `json:"last_page"`
	PerPage     int64 `json:"per_page"`
	Total       int64 `json:"total"`
}

// BasePaginationResponse is the envelope for paginated API responses
type BasePaginationResponse struct {
	Data interface{}  `json:"data"`
	Meta MetaResponse `json:"meta"`
}
