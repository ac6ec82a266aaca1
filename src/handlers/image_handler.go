package handlers

import (
	"net/http"

	"github.com/username/noonfolio/src/logger"
	"github.com/username/noonfolio/src/services"
	"github.com/username/noonfolio/src/utils"
)

type ImageHandler struct {
	imageService services.ImageService
}

func NewImageHandler(service services.ImageService) *ImageHandler {
	return &ImageHandler{imageService: service}
}

func (h *ImageHandler) HandleGetSKUImage(w http.ResponseWriter, r *http.Request) {
	sku := r.PathValue("sku")
	if sku == "" {
		utils.SendJSONError(w, "sku required", http.StatusBadRequest)
		return
	}

	data, contentType, found, err := h.imageService.GetSKUImage(sku)
	if err != nil {
		sendServiceError(w, "fetching the SKU image", err)
		return
	}
	if !found {
		utils.SendJSONError(w, "no image for this SKU", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	if _, err := w.Write(data); err != nil {
		logger.L.Error("Error writing image response", "sku", sku, "error", err)
	}
}
