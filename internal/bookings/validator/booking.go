package validator

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"homelet/pkg/logger"
	"homelet/pkg/model"
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

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate: validator.New(),
		logger:   log,
	}
}

// ValidateRequest checks an admission input and, when well formed,
// returns the parsed date range normalized to UTC midnight. Ordering is
// validated here, before any store access: a reversed range is rejected
// as invalid input, never reinterpreted.
func (v *BookingValidator) ValidateRequest(req *model.BookingRequest) (time.Time, time.Time, error) {
	if err := v.validate.Struct(req); err != nil {
		return time.Time{}, time.Time{}, v.toValidationErrors(err)
	}

	start, err := time.Parse(model.DateLayout, req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, ValidationErrors{{Field: "start_date", Message: "must be a valid date in YYYY-MM-DD format"}}
	}
	end, err := time.Parse(model.DateLayout, req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, ValidationErrors{{Field: "end_date", Message: "must be a valid date in YYYY-MM-DD format"}}
	}

	start = model.NormalizeDate(start)
	end = model.NormalizeDate(end)

	if start.After(end) {
		return time.Time{}, time.Time{}, ValidationErrors{{Field: "end_date", Message: "must not be before start_date"}}
	}

	return start, end, nil
}

// ValidateRecord checks a fully assembled booking before it is written.
func (v *BookingValidator) ValidateRecord(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		return v.toValidationErrors(err)
	}
	if booking.StartDate.After(booking.EndDate) {
		return ValidationErrors{{Field: "end_date", Message: "must not be before start_date"}}
	}
	return nil
}

func (v *BookingValidator) toValidationErrors(err error) error {
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: "request", Message: err.Error()}}
	}

	var errs ValidationErrors
	for _, fe := range fieldErrors {
		errs = append(errs, ValidationError{
			Field:   strings.ToLower(fe.Field()),
			Message: messageForTag(fe),
		})
	}
	return errs
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "datetime":
		return "must be a valid date in YYYY-MM-DD format"
	case "mongodb":
		return "must be a valid object id"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation on '%s'", fe.Tag())
	}
}
