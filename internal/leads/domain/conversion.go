package domain

import (
	"math"

	"leadflow_backend/platform/apperr"
)

// Conversion validation failure codes, sent as the error's Details so the
// client can highlight the offending field. Checks run in a fixed order;
// the first failing check wins.
const (
	ConversionCodeCourseRequired   = "CourseRequired"
	ConversionCodeAtLeastOneField  = "AtLeastOneFieldRequired"
	ConversionCodeFeeRequired      = "FeeRequired"
	ConversionCodeFeeNegative      = "FeeNegative"
	ConversionCodePaidNegative     = "PaidNegative"
	ConversionCodePaidExceedsFee   = "PaidExceedsFee"
	ConversionCodeDueNegative      = "DueNegative"
)

// ConversionInput is the raw financial payload before validation. Nil
// means the field was not supplied.
type ConversionInput struct {
	CourseName *string
	CourseFee  *float64
	AmountPaid *float64
	DueAmount  *float64
}

// ValidateConversion checks the financial invariants and returns the
// normalized record. knownCourses is the number of course offerings the
// operator could have picked from: when it is positive, a course must be
// selected rather than typed free-form.
//
// The due amount defaults to max(0, fee - paid) but an explicit
// non-negative value is honored as an independent ledger entry, so
// paid + due need not equal fee after later payment amendments.
func ValidateConversion(in ConversionInput, knownCourses int) (ConversionDetails, error) {
	courseName := ""
	if in.CourseName != nil {
		courseName = *in.CourseName
	}

	if knownCourses > 0 && courseName == "" {
		return ConversionDetails{}, conversionError(ConversionCodeCourseRequired, "select a course before converting")
	}

	feeMissing := in.CourseFee == nil || math.IsNaN(*in.CourseFee)
	paidEmpty := in.AmountPaid == nil || *in.AmountPaid == 0

	if courseName == "" && feeMissing && paidEmpty {
		return ConversionDetails{}, conversionError(ConversionCodeAtLeastOneField, "enter at least one of course, fee or amount paid")
	}

	if feeMissing {
		return ConversionDetails{}, conversionError(ConversionCodeFeeRequired, "course fee is required")
	}
	fee := *in.CourseFee
	if fee < 0 {
		return ConversionDetails{}, conversionError(ConversionCodeFeeNegative, "course fee cannot be negative")
	}

	paid := 0.0
	if in.AmountPaid != nil && !math.IsNaN(*in.AmountPaid) {
		paid = *in.AmountPaid
	}
	if paid < 0 {
		return ConversionDetails{}, conversionError(ConversionCodePaidNegative, "amount paid cannot be negative")
	}
	if paid > fee {
		return ConversionDetails{}, conversionError(ConversionCodePaidExceedsFee, "amount paid cannot exceed the course fee")
	}

	due := math.Max(0, fee-paid)
	if in.DueAmount != nil && !math.IsNaN(*in.DueAmount) {
		due = *in.DueAmount
	}
	if due < 0 {
		return ConversionDetails{}, conversionError(ConversionCodeDueNegative, "due amount cannot be negative")
	}

	details := ConversionDetails{
		CourseFee:  fee,
		AmountPaid: paid,
		DueAmount:  due,
	}
	if courseName != "" {
		details.CourseName = &courseName
	}

	return details, nil
}

func conversionError(code, message string) error {
	return apperr.Validation(message).WithDetails(code)
}
