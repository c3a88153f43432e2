package domain

import "errors"

var (
	// ErrInvalidInput signals a client-supplied image or URL the pipeline
	// cannot work with. Maps to 400 at the transport layer.
	ErrInvalidInput = errors.New("invalid input")
	// ErrImageFetch signals a remote image that could not be retrieved.
	ErrImageFetch = errors.New("failed to fetch image from URL")
	// ErrVisionProvider signals a vision provider failure. The analyzer
	// converts it to a fallback analysis; it never reaches a client.
	ErrVisionProvider = errors.New("vision provider error")
)
