package audit

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStoreSave(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	event := QueryDecisionEvent{
		UserID:     "user:claims-agent",
		ClientIP:   "10.0.0.1",
		QueryID:    "q-1",
		Decision:   "approved",
		Amount:     150000,
		Confidence: 0.85,
		Success:    true,
	}

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			FacilityLocal0,    // facility
			int(SeverityInfo), // severity
			sqlmock.AnyArg(),  // timestamp
			sqlmock.AnyArg(),  // hostname
			"insurance",       // appname
			sqlmock.AnyArg(),  // procid
			"query-decision",  // msgid
			sqlmock.AnyArg(),  // sdata (JSON)
			sqlmock.AnyArg(),  // message
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.Save(event)
	if err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveFailedEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	event := DocumentUploadEvent{
		UserID:       "user:claims-agent",
		ClientIP:     "10.0.0.1",
		Filename:     "notes.exe",
		Success:      false,
		ErrorMessage: "file type not allowed",
	}

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			FacilityLocal0,
			int(SeverityWarning), // Failed events have warning severity
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"insurance",
			sqlmock.AnyArg(),
			"doc-upload",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.Save(event)
	if err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreNilDB(t *testing.T) {
	store := &Store{db: nil}

	event := SessionEvent{
		UserID:    "user:claims-agent",
		ClientIP:  "10.0.0.1",
		SessionID: "sess-1",
		Success:   true,
	}

	// Should not error when db is nil
	err := store.Save(event)
	if err != nil {
		t.Errorf("Save() with nil db should not error, got: %v", err)
	}
}

func TestStoreClose(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	store := NewStoreWithDB(db)

	mock.ExpectClose()

	err = store.Close()
	if err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreCloseNilDB(t *testing.T) {
	store := &Store{db: nil}

	err := store.Close()
	if err != nil {
		t.Errorf("Close() with nil db should not error, got: %v", err)
	}
}

func TestMessage(t *testing.T) {
	msg := Message{
		Facility:  FacilityLocal0,
		Severity:  int(SeverityInfo),
		Timestamp: time.Now(),
		Hostname:  "localhost",
		Appname:   "insurance",
		Procid:    "12345",
		Msgid:     "query-decision",
		Sdata:     map[string]any{"auth@32473": map[string]any{"user": "claims-agent"}},
		Message:   "query q-1 decided approved",
	}

	if msg.Facility != FacilityLocal0 {
		t.Errorf("Message.Facility = %v, want %v", msg.Facility, FacilityLocal0)
	}
	if msg.Msgid != "query-decision" {
		t.Errorf("Message.Msgid = %v, want 'query-decision'", msg.Msgid)
	}
}
