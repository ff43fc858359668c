package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"kartrm/internal/reservations/service"
	apperrors "kartrm/pkg/errors"
	httputil "kartrm/pkg/http"
	"kartrm/pkg/logger"
	"kartrm/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReservationHandler struct {
	service service.ReservationService
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log,
	}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var reservation model.Reservation
	if err := json.NewDecoder(r.Body).Decode(&reservation); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	opts, err := extractCreateOptions(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &reservation, opts); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, reservation); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reservation, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

// GetAll lists reservations. With a date parameter it narrows to the exact
// start timestamp instead of paginating.
func (h *ReservationHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		date, err := time.Parse(time.RFC3339, dateStr)
		if err != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid date format, must be RFC3339")); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "GetAll", "error", writeErr)
			}
			return
		}

		reservations, err := h.service.GetByDate(r.Context(), date)
		if err != nil {
			if writeErr := httputil.WriteError(w, err); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "GetAll", "error", writeErr)
			}
			return
		}

		if err := httputil.WriteSuccess(w, reservations); err != nil {
			h.log.Error("failed to write success response", "handler", "GetAll", "error", err)
		}
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "error", writeErr)
		}
		return
	}

	reservations, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, reservations, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.ReservationUpdate
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

func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

// DeleteByDate removes every reservation starting at the exact timestamp.
func (h *ReservationHandler) DeleteByDate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("missing required parameter: date")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "DeleteByDate", "error", writeErr)
		}
		return
	}

	date, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid date format, must be RFC3339")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "DeleteByDate", "error", writeErr)
		}
		return
	}

	deleted, err := h.service.DeleteByDate(r.Context(), date)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "DeleteByDate", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]int64{"deleted": deleted}); err != nil {
		h.log.Error("failed to write success response", "handler", "DeleteByDate", "error", err)
	}
}

func (h *ReservationHandler) Schedule(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	entries, err := h.service.Schedule(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Schedule", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, entries); err != nil {
		h.log.Error("failed to write success response", "handler", "Schedule", "error", err)
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Create)
	router.GET("/api/v1/reservations", h.GetAll)
	router.GET("/api/v1/reservations/schedule", h.Schedule)
	router.GET("/api/v1/reservations/id/:id", h.GetByID)
	router.PUT("/api/v1/reservations/id/:id", h.Update)
	router.DELETE("/api/v1/reservations", h.DeleteByDate)
	router.DELETE("/api/v1/reservations/id/:id", h.Delete)
}

func extractCreateOptions(r *http.Request) (service.CreateOptions, error) {
	query := r.URL.Query()
	opts := service.CreateOptions{}

	if s := query.Get("isAdmin"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return opts, apperrors.InvalidInput("invalid isAdmin parameter: " + s)
		}
		opts.Admin = v
	}

	if s := query.Get("customPrice"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return opts, apperrors.InvalidInput("invalid customPrice parameter: " + s)
		}
		opts.CustomPrice = v
	}

	if s := query.Get("specialDiscount"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return opts, apperrors.InvalidInput("invalid specialDiscount parameter: " + s)
		}
		opts.SpecialDiscount = v
	}

	return opts, nil
}
