package handler

import (
	"encoding/json"
	"net/http"

	"kartrm/internal/karts/service"
	httputil "kartrm/pkg/http"
	"kartrm/pkg/logger"
	"kartrm/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type KartHandler struct {
	service service.KartService
	log     *logger.Logger
}

func NewKartHandler(service service.KartService, log *logger.Logger) *KartHandler {
	return &KartHandler{
		service: service,
		log:     log,
	}
}

func (h *KartHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var kart model.Kart
	if err := json.NewDecoder(r.Body).Decode(&kart); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &kart); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, kart); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *KartHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	kart, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, kart); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

// GetAll lists the fleet. With available=true it narrows to the karts
// currently fit for the track.
func (h *KartHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var karts []*model.Kart
	var err error
	if r.URL.Query().Get("available") == "true" {
		karts, err = h.service.GetAvailable(r.Context())
	} else {
		karts, err = h.service.GetAll(r.Context())
	}
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, karts); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "error", err)
	}
}

func (h *KartHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.KartUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "error", writeErr)
		}
		return
	}

	if err := h.service.Update(r.Context(), ps.ByName("id"), &updates); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *KartHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *KartHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/karts", h.Create)
	router.GET("/api/v1/karts", h.GetAll)
	router.GET("/api/v1/karts/id/:id", h.GetByID)
	router.PUT("/api/v1/karts/id/:id", h.Update)
	router.DELETE("/api/v1/karts/id/:id", h.Delete)
}
