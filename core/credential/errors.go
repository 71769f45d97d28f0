package credential

import "errors"

var (
	ErrNotFound = errors.New("credential not found")
	ErrEmptyID  = errors.New("credential id can't be empty")

	ErrDescriptionRequired    = errors.New("description is required")
	ErrDataRequired           = errors.New("credential data is required")
	ErrSiteConfigIDRequired   = errors.New("site config id is required")
	ErrUsernameRequired       = errors.New("username is required")
	ErrPasswordRequired       = errors.New("password is required")
	ErrMinifluxURLInvalid     = errors.New("miniflux_url must be a valid url")
	ErrAPIKeyRequired         = errors.New("api_key is required")
	ErrConsumerKeyRequired    = errors.New("consumer_key is required")
	ErrConsumerSecretRequired = errors.New("consumer_secret is required")
)
