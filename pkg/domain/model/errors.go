package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain operations
var (
	// ErrMalformedSubmission is the one failure surfaced to the form caller
	ErrMalformedSubmission = goerr.New("malformed submission")

	ErrTicketNotFound     = goerr.New("ticket not found")
	ErrHistoryUnavailable = goerr.New("history store unavailable")
)
