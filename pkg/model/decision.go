package model

// Decision is the outcome of evaluating a claims query against policy text.
//
//go:generate go run github.com/dmarkham/enumer -type=Decision -trimprefix=Decision -transform=snake -json -sql
type Decision int

const (
	DecisionApproved Decision = iota
	DecisionRejected
	DecisionNeedsReview
	DecisionError
)
