package errors

import "fmt"

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrFabricClosed       = fmt.Errorf("broker fabric is closed")
	ErrMailboxBusy        = fmt.Errorf("mailbox already has an active consumer")
	ErrInvalidCredential  = fmt.Errorf("invalid connect credential")
	ErrInvalidLookback    = fmt.Errorf("history lookback window is not allowed")
	ErrEmptyCensoredWords = fmt.Errorf("no censored words have been loaded")
)
