package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Page wraps a list payload with its next-page cursor.
type Page struct {
	Items      any     `json:"items"`
	NextCursor *string `json:"next_cursor,omitempty"`
}
