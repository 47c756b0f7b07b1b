package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeConfiguration represents pre-flight configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeFetch represents a failed keyword query against the offer API
	ErrorTypeFetch ErrorType = "fetch"
	// ErrorTypeMalformedItem represents an API item missing required nested fields
	ErrorTypeMalformedItem ErrorType = "malformed_item"
	// ErrorTypeUnparseablePrice represents a price that yields no number
	ErrorTypeUnparseablePrice ErrorType = "unparseable_price"
	// ErrorTypePriceCeiling represents an offer priced above the configured ceiling
	ErrorTypePriceCeiling ErrorType = "price_ceiling"
	// ErrorTypeNotification represents a failed message delivery
	ErrorTypeNotification ErrorType = "notification"
	// ErrorTypeSnapshot represents snapshot load/save errors
	ErrorTypeSnapshot ErrorType = "snapshot"
	// ErrorTypePublisher represents stream publishing errors
	ErrorTypePublisher ErrorType = "publisher"
)

// Error is the typed error carried through the pipeline.
type Error struct {
	Type    ErrorType
	Keyword string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *Error) Error() string {
	scope := e.Keyword
	if scope == "" {
		scope = "-"
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, scope, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, scope, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(errType ErrorType, keyword, message string, err error) *Error {
	return &Error{
		Type:    errType,
		Keyword: keyword,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// IsType reports whether err wraps an *Error of the given type.
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type == errType
	}
	return false
}

// TypeOf returns the ErrorType of err, or "" if err is not an *Error.
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ""
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *Error {
	return New(ErrorTypeConfiguration, "", message, err)
}

// NewFetch creates a new fetch error
func NewFetch(keyword, message string, err error) *Error {
	return New(ErrorTypeFetch, keyword, message, err)
}

// NewMalformedItem creates a new malformed item error
func NewMalformedItem(keyword, message string) *Error {
	return New(ErrorTypeMalformedItem, keyword, message, nil)
}

// NewUnparseablePrice creates a new unparseable price error
func NewUnparseablePrice(keyword string, raw any) *Error {
	return New(ErrorTypeUnparseablePrice, keyword, fmt.Sprintf("cannot parse price %v", raw), nil)
}

// NewPriceCeiling creates a new price ceiling error
func NewPriceCeiling(keyword string, price, ceiling float64) *Error {
	return New(ErrorTypePriceCeiling, keyword, fmt.Sprintf("price %.2f exceeds ceiling %.2f", price, ceiling), nil)
}

// NewNotification creates a new notification error
func NewNotification(channel, message string, err error) *Error {
	return New(ErrorTypeNotification, channel, message, err)
}

// NewSnapshot creates a new snapshot error
func NewSnapshot(message string, err error) *Error {
	return New(ErrorTypeSnapshot, "", message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(keyword, message string, err error) *Error {
	return New(ErrorTypePublisher, keyword, message, err)
}
