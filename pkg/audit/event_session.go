package audit

import "fmt"

// SessionEvent represents a session creation audit event
type SessionEvent struct {
	UserID       string
	ClientIP     string
	SessionID    string
	Success      bool
	ErrorMessage string
}

func (e SessionEvent) MessageID() string {
	return "session"
}

func (e SessionEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s created session %s", e.UserID, e.SessionID)
	}
	msg := fmt.Sprintf("%s failed to create a session", e.UserID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e SessionEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e SessionEvent) Facility() int {
	return FacilityAuthPriv
}

func (e SessionEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user":    e.UserID,
			"session": e.SessionID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "create-session",
			"result":    result,
		},
	}
}

// WhoamiEvent represents an identity check audit event
type WhoamiEvent struct {
	UserID   string
	ClientIP string
	Success  bool
}

func (e WhoamiEvent) MessageID() string {
	return "identity-check"
}

func (e WhoamiEvent) Message() string {
	return fmt.Sprintf("%s checked its identity", e.UserID)
}

func (e WhoamiEvent) Severity() Severity {
	return SeverityInfo
}

func (e WhoamiEvent) Facility() int {
	return FacilityAuth
}

func (e WhoamiEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
}
