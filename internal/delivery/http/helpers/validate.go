package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

const maxJSONBody = 1 << 20

// Validator is implemented by request bodies that can reject themselves before
// they reach a service.
type Validator interface {
	Validate() error
}

// DecodeJSON decodes exactly one JSON object from the request body into dest.
// Unknown fields, trailing data and bodies over 1 MiB are rejected. When dest
// implements Validator, its error is written with the status StatusFor maps it to.
// It reports whether the handler may continue.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dest any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			WriteJSONError(w, http.StatusRequestEntityTooLarge, ErrCodeTooLarge, "El cuerpo de la solicitud es demasiado grande")
		case errors.Is(err, io.EOF):
			WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "El cuerpo de la solicitud está vacío")
		default:
			WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "JSON inválido: "+err.Error())
		}
		return false
	}
	if dec.More() {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "El cuerpo debe contener un único objeto JSON")
		return false
	}
	if v, ok := dest.(Validator); ok {
		if err := v.Validate(); err != nil {
			status, code := StatusFor(err)
			WriteJSONError(w, status, code, err.Error())
			return false
		}
	}
	return true
}
