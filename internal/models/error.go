package models

// ErrorEnvelope is the JSON body of every non-success API response
type ErrorEnvelope struct {
	Message      string `json:"message"`
	TMDBError    string `json:"tmdb_error,omitempty"`
	ErrorDetails string `json:"error_details,omitempty"`
}
