package weather

import "errors"

var (
	// ErrUpstreamUnavailable means the forecast API could not be reached or
	// answered with a non-2xx status.
	ErrUpstreamUnavailable = errors.New("weather: upstream unavailable")
	// ErrMalformedPayload means the forecast API answered but the body was
	// missing the sample list or could not be decoded.
	ErrMalformedPayload = errors.New("weather: malformed payload")
)
