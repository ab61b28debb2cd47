package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"homelet/internal/bookings/service"
	apperrors "homelet/pkg/errors"
	httputil "homelet/pkg/http"
	"homelet/pkg/identity"
	"homelet/pkg/logger"
	"homelet/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	actorID := identity.ActorFromContext(r.Context())
	booking, err := h.service.RequestBooking(r.Context(), actorID, &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	filter := model.BookingFilter{
		PropertyID: query.Get("propertyId"),
		Status:     query.Get("status"),
	}
	if filter.Status != "" && !validStatus(filter.Status) {
		h.writeError(w, "List", apperrors.InvalidInput("invalid status filter: "+filter.Status))
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	actorID := identity.ActorFromContext(r.Context())
	bookings, total, err := h.service.ListBookings(r.Context(), actorID, filter, limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actorID := identity.ActorFromContext(r.Context())
	booking, err := h.service.GetByID(r.Context(), actorID, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actorID := identity.ActorFromContext(r.Context())
	booking, err := h.service.Cancel(r.Context(), actorID, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "error", err)
	}
}

type availabilityResponse struct {
	PropertyID string `json:"property_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Available  bool   `json:"available"`
}

func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	propertyID := query.Get("propertyId")
	startStr := query.Get("startDate")
	endStr := query.Get("endDate")

	if propertyID == "" || startStr == "" || endStr == "" {
		h.writeError(w, "Availability", apperrors.InvalidInput("'propertyId', 'startDate' and 'endDate' query parameters are required"))
		return
	}

	start, err := time.Parse(model.DateLayout, startStr)
	if err != nil {
		h.writeError(w, "Availability", apperrors.InvalidInput("invalid startDate, must be YYYY-MM-DD"))
		return
	}
	end, err := time.Parse(model.DateLayout, endStr)
	if err != nil {
		h.writeError(w, "Availability", apperrors.InvalidInput("invalid endDate, must be YYYY-MM-DD"))
		return
	}

	available, err := h.service.IsAvailable(r.Context(), propertyID, start, end)
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	if err := httputil.WriteSuccess(w, availabilityResponse{
		PropertyID: propertyID,
		StartDate:  startStr,
		EndDate:    endStr,
		Available:  available,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, op string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", op, "error", writeErr)
	}
}

func validStatus(status string) bool {
	switch status {
	case model.BookingStatusPending, model.BookingStatusConfirmed, model.BookingStatusCancelled:
		return true
	}
	return false
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.List)
	router.GET("/api/v1/bookings/availability", h.Availability)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.POST("/api/v1/bookings/id/:id/cancel", h.Cancel)
}
