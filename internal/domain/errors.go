package domain

import "errors"

var (
	// ErrEmptyIngredients is returned when the ingredient list is empty after normalization
	ErrEmptyIngredients = errors.New("ingredient list is empty")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrClassifierUnavailable is returned when no classifier model is loaded
	ErrClassifierUnavailable = errors.New("classifier not configured")

	// ErrClassifierFailure is returned when the classifier fails to produce a prediction
	ErrClassifierFailure = errors.New("classifier request failed")

	// ErrInvalidModel is returned when a model artifact cannot be used
	ErrInvalidModel = errors.New("invalid model artifact")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
