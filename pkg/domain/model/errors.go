package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain operations
var (
	ErrPageNotFound  = goerr.New("page not found")
	ErrPanelNotFound = goerr.New("panel not found")
	ErrNotTable      = goerr.New("panel is not a table")
	ErrScopeClosed   = goerr.New("scope closed")
)
