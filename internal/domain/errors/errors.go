package errors

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrTokenNotFound      = errors.New("access token not found")
	ErrInvalidCredentials = errors.New("The provided credentials are incorrect.")
	ErrUnauthenticated    = errors.New("Unauthenticated.")
	ErrNotFound           = errors.New("resource not found")
	ErrRepository         = errors.New("repository error")
	ErrInternalServer     = errors.New("internal server error")
	ErrValidationFailed   = errors.New("Validation errors")
	ErrInvalidStatus      = errors.New("invalid task status")
	ErrInvalidDate        = errors.New("invalid date")

	ErrConfigFileReadFailed = errors.New("failed to read config file")
	ErrConfigParseFailed    = errors.New("failed to parse config")
	ErrConfigInvalidFormat  = errors.New("invalid config value")

	ErrInvalidGzipRequest = errors.New("invalid gzip request body")
)
