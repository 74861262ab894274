package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no words have been found")

	// Distribution preconditions, reported to the admin who triggered it.
	ErrEmptyGroups            = fmt.Errorf("city groups are empty")
	ErrUnequalGroups          = fmt.Errorf("city groups must have the same size")
	ErrSelfPairing            = fmt.Errorf("participant would be paired with itself")
	ErrIncompleteDistribution = fmt.Errorf("distribution left participants without a pair")
	ErrDistributionInProgress = fmt.Errorf("distribution already in progress")

	ErrCounterpartNotAssigned = fmt.Errorf("counterpart not assigned yet")
	ErrCounterpartNotFound    = fmt.Errorf("counterpart record not found")

	ErrParticipantNotFound = fmt.Errorf("participant not found")
	ErrThreadNotFound      = fmt.Errorf("thread not found")

	ErrUnknownCommand = fmt.Errorf("unknown command")
	ErrUnknownSignal  = fmt.Errorf("unknown signal")
	ErrUnknownState   = fmt.Errorf("unknown state")
	ErrInvalidCity    = fmt.Errorf("invalid city")
	ErrUnknownCopy    = fmt.Errorf("unknown copy key")
)
