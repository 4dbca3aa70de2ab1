package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	apperrors "campusalloc/pkg/errors"
	"campusalloc/pkg/logger"
	"campusalloc/pkg/model"
)

type mockAllocationService struct {
	submitFunc   func(ctx context.Context, req *model.SubmitRequest) (*model.SubmitOutcome, error)
	cancelFunc   func(ctx context.Context, bookingID, requesterID string) (*model.CancelOutcome, error)
	withdrawFunc func(ctx context.Context, requestID, requesterID string) error
}

func (m *mockAllocationService) Submit(ctx context.Context, req *model.SubmitRequest) (*model.SubmitOutcome, error) {
	return m.submitFunc(ctx, req)
}

func (m *mockAllocationService) CancelBooking(ctx context.Context, bookingID, requesterID string) (*model.CancelOutcome, error) {
	return m.cancelFunc(ctx, bookingID, requesterID)
}

func (m *mockAllocationService) WithdrawRequest(ctx context.Context, requestID, requesterID string) error {
	return m.withdrawFunc(ctx, requestID, requesterID)
}

func (m *mockAllocationService) ListBookings(ctx context.Context, resourceID string) ([]model.Booking, error) {
	return []model.Booking{}, nil
}

func (m *mockAllocationService) ListWaitlist(ctx context.Context, resourceID string) ([]model.BookingRequest, error) {
	return []model.BookingRequest{}, nil
}

func (m *mockAllocationService) RequesterHistory(ctx context.Context, requesterID string) ([]model.BookingRequest, error) {
	return []model.BookingRequest{}, nil
}

func (m *mockAllocationService) ExportSnapshot(ctx context.Context) (*model.Snapshot, error) {
	return &model.Snapshot{}, nil
}

func (m *mockAllocationService) RestoreSnapshot(ctx context.Context, snap *model.Snapshot) error {
	return nil
}

func (m *mockAllocationService) SaveSnapshot(ctx context.Context) (*model.Snapshot, error) {
	return &model.Snapshot{}, nil
}

func (m *mockAllocationService) LoadSnapshot(ctx context.Context) (*model.Snapshot, error) {
	return &model.Snapshot{}, nil
}

func newTestHandler(svc *mockAllocationService) *AllocationHandler {
	return NewAllocationHandler(svc, logger.New(logger.Config{Output: io.Discard}))
}

func TestSubmitStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		outcome    *model.SubmitOutcome
		wantStatus int
	}{
		{"confirmed", &model.SubmitOutcome{Status: model.StatusConfirmed, RequestID: "r1", BookingID: "b1"}, http.StatusCreated},
		{"waitlisted", &model.SubmitOutcome{Status: model.StatusWaitlisted, RequestID: "r1"}, http.StatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&mockAllocationService{
				submitFunc: func(_ context.Context, _ *model.SubmitRequest) (*model.SubmitOutcome, error) {
					return tt.outcome, nil
				},
			})

			body := `{"requester_id":"u1","resource_id":"lab-1","start_time":"2026-10-01T09:00:00Z","end_time":"2026-10-01T10:00:00Z"}`
			req := httptest.NewRequest(http.MethodPost, "/api/v1/allocations", strings.NewReader(body))
			w := httptest.NewRecorder()

			h.Submit(w, req, httprouter.Params{})

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			var resp struct {
				Data model.SubmitOutcome `json:"data"`
			}
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Data.Status != tt.outcome.Status {
				t.Errorf("data.status = %s, want %s", resp.Data.Status, tt.outcome.Status)
			}
		})
	}
}

func TestSubmitRejectsMalformedBody(t *testing.T) {
	h := newTestHandler(&mockAllocationService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/allocations", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	h.Submit(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestSubmitMapsServiceErrors(t *testing.T) {
	h := newTestHandler(&mockAllocationService{
		submitFunc: func(_ context.Context, _ *model.SubmitRequest) (*model.SubmitOutcome, error) {
			return nil, apperrors.NotFoundWithID("User", "ghost")
		},
	})

	body := `{"requester_id":"ghost","resource_id":"lab-1","start_time":"2026-10-01T09:00:00Z","end_time":"2026-10-01T10:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/allocations", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Submit(w, req, httprouter.Params{})

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestCancelRequiresRequesterID(t *testing.T) {
	h := newTestHandler(&mockAllocationService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/allocations/bookings/b1", nil)
	w := httptest.NewRecorder()

	h.CancelBooking(w, req, httprouter.Params{{Key: "id", Value: "b1"}})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCancelReturnsOutcome(t *testing.T) {
	h := newTestHandler(&mockAllocationService{
		cancelFunc: func(_ context.Context, bookingID, requesterID string) (*model.CancelOutcome, error) {
			return &model.CancelOutcome{BookingID: bookingID, Promoted: []string{"r2"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/allocations/bookings/b1?requester_id=u1", nil)
	w := httptest.NewRecorder()

	h.CancelBooking(w, req, httprouter.Params{{Key: "id", Value: "b1"}})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp struct {
		Data model.CancelOutcome `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.BookingID != "b1" || len(resp.Data.Promoted) != 1 {
		t.Errorf("data = %+v", resp.Data)
	}
}

func TestWithdrawReturnsNoContent(t *testing.T) {
	h := newTestHandler(&mockAllocationService{
		withdrawFunc: func(_ context.Context, requestID, requesterID string) error {
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/allocations/requests/r1?requester_id=u1", nil)
	w := httptest.NewRecorder()

	h.WithdrawRequest(w, req, httprouter.Params{{Key: "id", Value: "r1"}})

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
}
