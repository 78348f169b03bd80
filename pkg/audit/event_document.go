package audit

import "fmt"

// DocumentUploadEvent represents a document upload audit event
type DocumentUploadEvent struct {
	UserID       string
	ClientIP     string
	DocumentID   string
	Filename     string
	FileType     string
	Success      bool
	ErrorMessage string
}

func (e DocumentUploadEvent) MessageID() string {
	return "doc-upload"
}

func (e DocumentUploadEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s uploaded document %s (%s)", e.UserID, e.Filename, e.DocumentID)
	}
	msg := fmt.Sprintf("%s tried to upload document %s", e.UserID, e.Filename)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e DocumentUploadEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e DocumentUploadEvent) Facility() int {
	return FacilityLocal0
}

func (e DocumentUploadEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDDocument: {
			"id":        e.DocumentID,
			"filename":  e.Filename,
			"file_type": e.FileType,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "upload",
			"result":    result,
		},
	}
}

// DocumentProcessedEvent represents the completion of the document pipeline
type DocumentProcessedEvent struct {
	DocumentID   string
	Filename     string
	ChunkCount   int
	Success      bool
	ErrorMessage string
}

func (e DocumentProcessedEvent) MessageID() string {
	return "doc-processed"
}

func (e DocumentProcessedEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("document %s processed into %d chunks", e.Filename, e.ChunkCount)
	}
	msg := fmt.Sprintf("document %s failed processing", e.Filename)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e DocumentProcessedEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityError
}

func (e DocumentProcessedEvent) Facility() int {
	return FacilityLocal0
}

func (e DocumentProcessedEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDDocument: {
			"id":       e.DocumentID,
			"filename": e.Filename,
			"chunks":   fmt.Sprintf("%d", e.ChunkCount),
		},
		SDIDAction: {
			"operation": "process",
			"result":    result,
		},
	}
}

// DocumentDeleteEvent represents a document deletion audit event
type DocumentDeleteEvent struct {
	UserID       string
	ClientIP     string
	DocumentID   string
	Success      bool
	ErrorMessage string
}

func (e DocumentDeleteEvent) MessageID() string {
	return "doc-delete"
}

func (e DocumentDeleteEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s deleted document %s", e.UserID, e.DocumentID)
	}
	msg := fmt.Sprintf("%s tried to delete document %s", e.UserID, e.DocumentID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e DocumentDeleteEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e DocumentDeleteEvent) Facility() int {
	return FacilityLocal0
}

func (e DocumentDeleteEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDDocument: {
			"id": e.DocumentID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "delete",
			"result":    result,
		},
	}
}
