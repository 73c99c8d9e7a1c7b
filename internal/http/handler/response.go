package handler

// Response is the envelope returned by the upload endpoint and by
// failures on the other JSON endpoints.
type Response struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Message string `json:"message,omitempty"`
}

func failure(message string) Response {
	return Response{Success: false, Message: message}
}
