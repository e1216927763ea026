package domain

import "errors"

var (
	// ErrInvalidPayload is returned when a job payload cannot be decoded
	// into a generation request; such jobs are never requeued
	ErrInvalidPayload = errors.New("invalid job payload")
)
