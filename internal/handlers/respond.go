package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// errorResponse is the JSON body for every non-2xx reply.
type errorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, message string, validationErr error) {
	resp := errorResponse{Error: message}
	var fieldErrs validator.ValidationErrors
	if ok := asValidationErrors(validationErr, &fieldErrs); ok {
		resp.Details = make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			resp.Details[fe.Field()] = fmt.Sprintf("failed on the '%s' tag", fe.Tag())
		}
	}
	writeJSON(w, status, resp)
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	if err == nil {
		return false
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	*target = fieldErrs
	return true
}
