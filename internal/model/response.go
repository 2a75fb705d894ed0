package model

// SubmitResponse is returned once a submission has been accepted.
type SubmitResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// ErrorResponse is returned for every rejected request.
type ErrorResponse struct {
	Error string `json:"error"`
}
