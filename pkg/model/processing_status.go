package model

// ProcessingStatus tracks a document through the background pipeline.
//
//go:generate go run github.com/dmarkham/enumer -type=ProcessingStatus -trimprefix=Status -transform=snake -json -sql
type ProcessingStatus int

const (
	StatusPending ProcessingStatus = iota
	StatusProcessing
	StatusCompleted
	StatusFailed
)
