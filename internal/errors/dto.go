package errors

// ErrorResponse is the JSON body written for every failed request
type ErrorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}
