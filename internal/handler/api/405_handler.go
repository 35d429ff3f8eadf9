package api

import (
	"net/http"
)

func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondJSON(w, r, http.StatusMethodNotAllowed, ErrorResponse{Message: "This method is not allowed"})
	}
}
