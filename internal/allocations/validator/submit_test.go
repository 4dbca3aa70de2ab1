package validator

import (
	"io"
	"testing"
	"time"

	"campusalloc/pkg/config"
	"campusalloc/pkg/logger"
	"campusalloc/pkg/model"
)

func newTestValidator() *SubmitValidator {
	log := logger.New(logger.Config{Output: io.Discard})
	cfg := &config.Config{
		MaxBookingDuration: 12 * time.Hour,
		BookingHorizon:     90 * 24 * time.Hour,
	}
	return NewSubmitValidator(log, cfg)
}

func validRequest() *model.SubmitRequest {
	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	return &model.SubmitRequest{
		RequesterID: "u-100",
		ResourceID:  "lab-1",
		StartTime:   start,
		EndTime:     start.Add(2 * time.Hour),
	}
}

func TestValidateAcceptsWellFormedRequest(t *testing.T) {
	v := newTestValidator()
	if err := v.Validate(validRequest()); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidateRejections(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name   string
		mutate func(*model.SubmitRequest)
	}{
		{"missing requester", func(r *model.SubmitRequest) { r.RequesterID = "" }},
		{"missing resource", func(r *model.SubmitRequest) { r.ResourceID = "" }},
		{"end before start", func(r *model.SubmitRequest) {
			r.EndTime = r.StartTime.Add(-time.Hour)
		}},
		{"zero-length interval", func(r *model.SubmitRequest) {
			r.EndTime = r.StartTime
		}},
		{"start in past", func(r *model.SubmitRequest) {
			r.StartTime = time.Now().Add(-time.Hour)
			r.EndTime = time.Now().Add(time.Hour)
		}},
		{"duration over maximum", func(r *model.SubmitRequest) {
			r.EndTime = r.StartTime.Add(13 * time.Hour)
		}},
		{"start beyond horizon", func(r *model.SubmitRequest) {
			r.StartTime = time.Now().Add(91 * 24 * time.Hour)
			r.EndTime = r.StartTime.Add(time.Hour)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			if err := v.Validate(req); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
