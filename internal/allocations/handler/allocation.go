package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"campusalloc/internal/allocations/service"
	apperrors "campusalloc/pkg/errors"
	httputil "campusalloc/pkg/http"
	"campusalloc/pkg/logger"
	"campusalloc/pkg/model"
)

type AllocationHandler struct {
	service service.AllocationService
	log     *logger.Logger
}

func NewAllocationHandler(service service.AllocationService, log *logger.Logger) *AllocationHandler {
	return &AllocationHandler{
		service: service,
		log:     log,
	}
}

func (h *AllocationHandler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Submit", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	outcome, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Submit", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	status := http.StatusCreated
	if outcome.Status == model.StatusWaitlisted {
		status = http.StatusAccepted
	}
	if err := httputil.WriteJSON(w, status, httputil.SuccessResponse{Data: outcome}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Submit", "operation", "WriteJSON", "error", err)
	}
}

func (h *AllocationHandler) CancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("id")
	requesterID := r.URL.Query().Get("requester_id")
	if requesterID == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("'requester_id' query parameter is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CancelBooking", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	outcome, err := h.service.CancelBooking(r.Context(), bookingID, requesterID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CancelBooking", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, outcome); err != nil {
		h.log.Error("failed to write success response", "handler", "CancelBooking", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AllocationHandler) WithdrawRequest(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := ps.ByName("id")
	requesterID := r.URL.Query().Get("requester_id")
	if requesterID == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("'requester_id' query parameter is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "WithdrawRequest", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := h.service.WithdrawRequest(r.Context(), requestID, requesterID); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "WithdrawRequest", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AllocationHandler) ListBookings(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookings, err := h.service.ListBookings(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListBookings", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "ListBookings", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AllocationHandler) ListWaitlist(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	waiting, err := h.service.ListWaitlist(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListWaitlist", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, waiting); err != nil {
		h.log.Error("failed to write success response", "handler", "ListWaitlist", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AllocationHandler) RequesterHistory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	history, err := h.service.RequesterHistory(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "RequesterHistory", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, history); err != nil {
		h.log.Error("failed to write success response", "handler", "RequesterHistory", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AllocationHandler) ExportSnapshot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	snap, err := h.service.ExportSnapshot(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ExportSnapshot", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, snap); err != nil {
		h.log.Error("failed to write success response", "handler", "ExportSnapshot", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AllocationHandler) RestoreSnapshot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var snap model.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "RestoreSnapshot", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.RestoreSnapshot(r.Context(), &snap); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "RestoreSnapshot", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AllocationHandler) SaveSnapshot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	snap, err := h.service.SaveSnapshot(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SaveSnapshot", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, snap); err != nil {
		h.log.Error("failed to write created response", "handler", "SaveSnapshot", "operation", "WriteCreated", "error", err)
	}
}

func (h *AllocationHandler) LoadSnapshot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	snap, err := h.service.LoadSnapshot(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "LoadSnapshot", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, snap); err != nil {
		h.log.Error("failed to write success response", "handler", "LoadSnapshot", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AllocationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/allocations", h.Submit)
	router.DELETE("/api/v1/allocations/bookings/:id", h.CancelBooking)
	router.DELETE("/api/v1/allocations/requests/:id", h.WithdrawRequest)
	router.GET("/api/v1/resources/:id/bookings", h.ListBookings)
	router.GET("/api/v1/resources/:id/waitlist", h.ListWaitlist)
	router.GET("/api/v1/requesters/:id/history", h.RequesterHistory)
	router.GET("/api/v1/snapshot", h.ExportSnapshot)
	router.PUT("/api/v1/snapshot", h.RestoreSnapshot)
	router.POST("/api/v1/snapshot/save", h.SaveSnapshot)
	router.POST("/api/v1/snapshot/load", h.LoadSnapshot)
}
