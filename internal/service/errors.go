package service

import "fmt"

// Code identifies why an admission or cancellation request was rejected.
// Codes are stable, machine readable and travel with every rejection so
// the boundary layer can map them to HTTP statuses without parsing
// messages.
type Code string

const (
	CodeUnauthorizedUser                 Code = "UnauthorizedUser"
	CodeInvalidBusinessHours             Code = "InvalidBusinessHours"
	CodeTableUnavailable                 Code = "TableUnavailable"
	CodeReservationNotFound              Code = "ReservationNotFound"
	CodeForbiddenReservationCancellation Code = "ForbiddenReservationCancellation"
	CodeInvalidReservationCancellation   Code = "InvalidReservationCancellation"
)

// AdmissionError is a business-rule rejection. It is an expected outcome,
// never a panic: storage failures pass through the service untyped and are
// treated as fatal by the boundary.
type AdmissionError struct {
	Code    Code
	Message string
}

func (e *AdmissionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func reject(code Code, message string) *AdmissionError {
	return &AdmissionError{Code: code, Message: message}
}
