package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"
)

const internalBody = `{"error":{"code":"internal","message":"internal server error"}}` + "\n"

// Response es el sobre de todas las respuestas JSON.
type Response struct {
	Data  any        `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
	Meta  *Meta      `json:"meta,omitempty"`
}

// Meta identifica la request que produjo la respuesta.
type Meta struct {
	RequestID string `json:"request_id,omitempty"`
	TimeUTC   string `json:"time_utc,omitempty"`
}

// ErrorBody es el error visible para el cliente. Nunca lleva detalles internos.
type ErrorBody struct {
	Code    string `json:"code,omitempty"`    // "invalid_input", "not_found", ...
	Message string `json:"message,omitempty"` // mensaje para humanos
}

// JSON serializa resp antes de tocar la respuesta: si el encode falla todavía
// se puede contestar 500 con el mismo sobre.
func JSON(w http.ResponseWriter, status int, resp Response) {
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(resp); err != nil {
		status = http.StatusInternalServerError
		body.Reset()
		body.WriteString(internalBody)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body.Bytes())
}

// OK devuelve una respuesta exitosa con data.
func OK(w http.ResponseWriter, r *http.Request, status int, data any) {
	JSON(w, status, Response{Data: data, Meta: metaFor(r)})
}

// Fail devuelve un error estructurado.
func Fail(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	FailWithData(w, r, status, code, message, nil)
}

// FailWithData devuelve un error junto con data, ej: el estado de un formulario
// inválido con sus flags por campo.
func FailWithData(w http.ResponseWriter, r *http.Request, status int, code, message string, data any) {
	JSON(w, status, Response{
		Data: data,
		Error: &ErrorBody{
			Code:    code,
			Message: message,
		},
		Meta: metaFor(r),
	})
}

func metaFor(r *http.Request) *Meta {
	return &Meta{
		RequestID: RequestIDFrom(r),
		TimeUTC:   time.Now().UTC().Format(time.RFC3339),
	}
}
