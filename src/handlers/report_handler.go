package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/username/noonfolio/src/logger"
	"github.com/username/noonfolio/src/services"
	"github.com/username/noonfolio/src/utils"
)

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(service services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: service}
}

func (h *ReportHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		utils.SendJSONError(w, "file name required", http.StatusBadRequest)
		return
	}

	report, err := h.reportService.GetReport(name)
	if err != nil {
		sendServiceError(w, "building the report", err)
		return
	}

	w.Header().Set("Cache-Control", "no-cache, private")
	if etag, etagErr := utils.GenerateETag(report); etagErr == nil && etag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", etag)
		w.Header().Set("ETag", quotedETag)
		for _, cETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				logger.L.Info("ETag match for report", "file", name)
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	} else {
		logger.L.Warn("Proceeding without ETag check due to ETag generation error", "file", name)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		logger.L.Error("Error encoding JSON response for report", "file", name, "error", err)
	}
}

func (h *ReportHandler) HandleApplyTrialPrice(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	var update services.TrialPriceUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		utils.SendJSONError(w, "invalid trial price payload", http.StatusBadRequest)
		return
	}

	row, err := h.reportService.ApplyTrialPrice(name, update)
	if err != nil {
		sendServiceError(w, "applying the trial price", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(row); err != nil {
		logger.L.Error("Error encoding JSON response for trial price update", "file", name, "error", err)
	}
}

type batchLookupRequest struct {
	Keys []string `json:"keys"`
}

// HandleBatchLookup accepts pasted AWB/order numbers; entries may themselves
// contain comma or newline separated values, matching how users paste lists.
func (h *ReportHandler) HandleBatchLookup(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	var req batchLookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "invalid lookup payload", http.StatusBadRequest)
		return
	}

	var keys []string
	for _, entry := range req.Keys {
		for _, key := range strings.FieldsFunc(entry, func(r rune) bool { return r == ',' || r == '\n' }) {
			if key = strings.TrimSpace(key); key != "" {
				keys = append(keys, key)
			}
		}
	}

	totals, err := h.reportService.BatchLookup(name, keys)
	if err != nil {
		sendServiceError(w, "computing batch totals", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(totals); err != nil {
		logger.L.Error("Error encoding JSON response for batch lookup", "file", name, "error", err)
	}
}

func (h *ReportHandler) HandleExportWorkbook(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	blob, err := h.reportService.ExportWorkbook(name)
	if err != nil {
		sendServiceError(w, "exporting the workbook", err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="noon_tables.xlsx"`)
	if _, err := w.Write(blob); err != nil {
		logger.L.Error("Error writing workbook response", "file", name, "error", err)
	}
}

func (h *ReportHandler) HandleSaveModified(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	target, err := h.reportService.SaveModified(name)
	if err != nil {
		sendServiceError(w, "saving the modified workbook", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "modified results saved", "path": target})
}
