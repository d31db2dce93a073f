package models

import "errors"

// Custom errors
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateKey  = errors.New("duplicate key violation")
	ErrInvalidID     = errors.New("invalid ID format")
	ErrUnknownMarket = errors.New("unknown market key")
	ErrUnknownStat   = errors.New("unknown stat field")
)
