package models

// Response is the normalized {success, data|message} envelope returned to the
// browser for every operation.
type Response struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Message string            `json:"message,omitempty"`
	Kind    Kind              `json:"kind,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// OK wraps a payload.
func OK(data any, message string) Response {
	return Response{Success: true, Data: data, Message: message}
}

// Failed renders an error through the taxonomy.
func Failed(err error) Response {
	e := AsError(err)
	return Response{Success: false, Message: e.Error(), Kind: e.Kind, Errors: e.Fields}
}
