package response

// Body is the JSON envelope used by middleware-level responses.
type Body struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func Success(code int, message string, data any) Body {
	return Body{Code: code, Message: message, Data: data}
}

func Error(code int, message string, data any) Body {
	return Body{Code: code, Message: message, Data: data}
}
