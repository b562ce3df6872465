package httpreq

import "github.com/pkg/errors"

// Handle contract violations returned by Result and TryResult.
var (
	ErrRequestInProgress = errors.New("request still in progress")
	ErrAlreadyConsumed   = errors.New("request already consumed")
)
