package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"campusalloc/pkg/config"
	"campusalloc/pkg/logger"
	"campusalloc/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type SubmitValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
	cfg      *config.Config
}

func NewSubmitValidator(log *logger.Logger, cfg *config.Config) *SubmitValidator {
	log.Info("Submission validator initialized successfully")

	return &SubmitValidator{
		validate: validator.New(),
		logger:   log,
		cfg:      cfg,
	}
}

func (v *SubmitValidator) Validate(req *model.SubmitRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if !req.EndTime.After(req.StartTime) {
		return ValidationErrors{
			ValidationError{
				Field:   "EndTime",
				Message: "end_time must be after start_time",
			},
		}
	}

	now := time.Now()
	if req.StartTime.Before(now) {
		return ValidationErrors{
			ValidationError{
				Field:   "StartTime",
				Message: "start_time cannot be in the past",
			},
		}
	}

	if duration := req.EndTime.Sub(req.StartTime); duration > v.cfg.MaxBookingDuration {
		return ValidationErrors{
			ValidationError{
				Field:   "EndTime",
				Message: fmt.Sprintf("booking duration %s exceeds the allowed maximum of %s", duration, v.cfg.MaxBookingDuration),
			},
		}
	}

	if horizon := now.Add(v.cfg.BookingHorizon); req.StartTime.After(horizon) {
		return ValidationErrors{
			ValidationError{
				Field:   "StartTime",
				Message: fmt.Sprintf("start_time is beyond the booking horizon of %s", v.cfg.BookingHorizon),
			},
		}
	}

	return nil
}

func (v *SubmitValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
