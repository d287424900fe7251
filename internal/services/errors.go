package services

import (
	"errors"

	"bikepulse/internal/exporter"
)

// Dashboard service errors
var (
	// Request errors
	ErrInvalidRange      = errors.New("invalid date range")
	ErrUnknownChart      = errors.New("unknown chart")
	ErrUnknownTable      = errors.New("unknown table")
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// Rendering errors
	ErrUnsupportedChart = exporter.ErrUnsupportedChart
	ErrNotEnoughData    = exporter.ErrNotEnoughData

	// General errors
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
