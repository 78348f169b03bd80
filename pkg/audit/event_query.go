package audit

import "fmt"

// QueryDecisionEvent represents a claims query decision audit event
type QueryDecisionEvent struct {
	UserID       string
	ClientIP     string
	QueryID      string
	Decision     string
	Amount       float64
	Confidence   float64
	Success      bool
	ErrorMessage string
}

func (e QueryDecisionEvent) MessageID() string {
	return "query-decision"
}

func (e QueryDecisionEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("query %s decided %s (amount %.2f, confidence %.2f)",
			e.QueryID, e.Decision, e.Amount, e.Confidence)
	}
	msg := fmt.Sprintf("query %s failed", e.QueryID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e QueryDecisionEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityError
}

func (e QueryDecisionEvent) Facility() int {
	return FacilityLocal0
}

func (e QueryDecisionEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"query":      e.QueryID,
			"decision":   e.Decision,
			"amount":     fmt.Sprintf("%.2f", e.Amount),
			"confidence": fmt.Sprintf("%.2f", e.Confidence),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "decide",
			"result":    result,
		},
	}
}
