package handler

import (
	"net/http"

	"kartrm/internal/reports/service"
	httputil "kartrm/pkg/http"
	"kartrm/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type IncomeHandler struct {
	service service.IncomeService
	log     *logger.Logger
}

func NewIncomeHandler(service service.IncomeService, log *logger.Logger) *IncomeHandler {
	return &IncomeHandler{
		service: service,
		log:     log,
	}
}

func (h *IncomeHandler) IncomeByLapsOrTime(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	start, err := httputil.ExtractDate(r, "startDate")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "IncomeByLapsOrTime", "error", writeErr)
		}
		return
	}
	end, err := httputil.ExtractDate(r, "endDate")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "IncomeByLapsOrTime", "error", writeErr)
		}
		return
	}

	table, err := h.service.IncomeByLapsOrTime(r.Context(), start, end)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "IncomeByLapsOrTime", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, table); err != nil {
		h.log.Error("failed to write success response", "handler", "IncomeByLapsOrTime", "error", err)
	}
}

func (h *IncomeHandler) IncomeByGroupSize(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	start, err := httputil.ExtractDate(r, "startDate")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "IncomeByGroupSize", "error", writeErr)
		}
		return
	}
	end, err := httputil.ExtractDate(r, "endDate")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "IncomeByGroupSize", "error", writeErr)
		}
		return
	}

	table, err := h.service.IncomeByGroupSize(r.Context(), start, end)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "IncomeByGroupSize", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, table); err != nil {
		h.log.Error("failed to write success response", "handler", "IncomeByGroupSize", "error", err)
	}
}

func (h *IncomeHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/reports/income-laps", h.IncomeByLapsOrTime)
	router.GET("/api/v1/reports/income-groups", h.IncomeByGroupSize)
}
