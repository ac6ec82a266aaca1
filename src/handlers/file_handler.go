package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/username/noonfolio/src/config"
	"github.com/username/noonfolio/src/logger"
	"github.com/username/noonfolio/src/security/validation"
	"github.com/username/noonfolio/src/services"
	"github.com/username/noonfolio/src/utils"
)

type FileHandler struct {
	reportService services.ReportService
}

func NewFileHandler(service services.ReportService) *FileHandler {
	return &FileHandler{reportService: service}
}

func (h *FileHandler) HandleListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.reportService.ListFiles()
	if err != nil {
		sendServiceError(w, "listing files", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string][]string{"files": files}); err != nil {
		logger.L.Error("Error encoding JSON response for file listing", "error", err)
	}
}

func (h *FileHandler) HandleUploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		logger.L.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, "Failed to parse form or request too large", http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		logger.L.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		logger.L.Warn("Uploaded file header reports size too large", "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, "File too large", http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		logger.L.Warn("Invalid client-declared file type", "contentType", clientContentType, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := validation.ValidateFileContentByMagicBytes(file); err != nil {
		logger.L.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		logger.L.Error("Failed to read uploaded file", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, "Failed to read uploaded file", http.StatusInternalServerError)
		return
	}

	logger.L.Info("Uploading sales file to store", "filename", fileHeader.Filename, "bytes", len(data))
	if err := h.reportService.UploadFile(fileHeader.Filename, data); err != nil {
		sendServiceError(w, "uploading the file", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"message": "file uploaded", "file": fileHeader.Filename})
}

func (h *FileHandler) HandleDeleteFile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		utils.SendJSONError(w, "file name required", http.StatusBadRequest)
		return
	}
	if err := h.reportService.DeleteFile(name); err != nil {
		sendServiceError(w, "deleting the file", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "file deleted", "file": name})
}
