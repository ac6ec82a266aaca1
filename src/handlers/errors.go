package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/username/noonfolio/src/logger"
	"github.com/username/noonfolio/src/services"
	"github.com/username/noonfolio/src/storage"
	"github.com/username/noonfolio/src/utils"
)

// sendServiceError maps service/storage sentinel errors to HTTP statuses.
// Remote-store failures surface with their underlying status text, verbatim.
func sendServiceError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, services.ErrFileNotFound) || errors.Is(err, storage.ErrNotFound) || errors.Is(err, services.ErrRowNotFound):
		utils.SendJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrParsingFailed) || errors.Is(err, services.ErrUnknownChannel):
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, storage.ErrRequestFailed):
		logger.L.Error("Remote store failure", "action", action, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadGateway)
	default:
		logger.L.Error("Internal error", "action", action, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("An internal error occurred while %s. Please try again later.", action), http.StatusInternalServerError)
	}
}
