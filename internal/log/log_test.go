package log

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func resetSession(t *testing.T) {
	t.Helper()
	originalLoggingEnabled := loggingEnabled
	t.Cleanup(func() {
		loggingEnabled = originalLoggingEnabled
		currentSession = nil
	})
}

func TestLogSession(t *testing.T) {
	resetSession(t)
	loggingEnabled = true

	if err := StartSession("add", []string{"--name", "Firefly"}); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	if currentSession == nil {
		t.Fatal("StartSession() should have created a session")
	}

	want := []string{"add", "--name", "Firefly"}
	if diff := cmp.Diff(want, currentSession.Metadata.CommandArgs); diff != "" {
		t.Errorf("CommandArgs mismatch (-want +got):\n%s", diff)
	}
}

func TestLogOperations(t *testing.T) {
	resetSession(t)
	loggingEnabled = true

	if err := StartSession("add", nil); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}

	LogSearch("Firefly", "en", 1, 3, nil)
	LogAddShow("Firefly", "|1|/show/|78874|Firefly|", "/tv", nil)
	LogSkip("", nil)
	LogAddShow("Dark", "x", "/tv", errors.New("server unavailable"))

	got := currentSession.Operations
	want := []OperationLog{
		{Type: OpSearch, Detail: `term="Firefly" lang=en indexer=1 results=3`, Success: true},
		{Type: OpAddShow, Show: "Firefly", Identity: "|1|/show/|78874|Firefly|", Destination: "/tv", Success: true},
		{Type: OpSkip, Success: true},
		{Type: OpAddShow, Show: "Dark", Identity: "x", Destination: "/tv", Error: "server unavailable"},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(OperationLog{}, "ID", "Timestamp")); diff != "" {
		t.Errorf("operations mismatch (-want +got):\n%s", diff)
	}
	if got[3].ID != currentSession.Metadata.SessionID+"_3" {
		t.Errorf("operation ID = %q", got[3].ID)
	}

	updateStats(currentSession)
	meta := currentSession.Metadata
	if meta.TotalOps != 4 || meta.SuccessfulOps != 3 || meta.FailedOps != 1 {
		t.Errorf("stats = %d/%d/%d, want 4/3/1", meta.TotalOps, meta.SuccessfulOps, meta.FailedOps)
	}
}

func TestEndSessionWritesFile(t *testing.T) {
	resetSession(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	loggingEnabled = true

	if err := StartSession("add", nil); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	LogAddShow("Firefly", "id", "/tv", nil)
	if err := EndSession(); err != nil {
		t.Fatalf("EndSession() failed: %v", err)
	}

	sessions, err := ReadSessions(0)
	if err != nil {
		t.Fatalf("ReadSessions() failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("ReadSessions() = %d sessions, want 1", len(sessions))
	}
	if sessions[0].Metadata.TotalOps != 1 || sessions[0].Operations[0].Show != "Firefly" {
		t.Errorf("session = %+v", sessions[0])
	}
}

func TestEndSessionDiscardsEmpty(t *testing.T) {
	resetSession(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	loggingEnabled = true

	if err := StartSession("add", nil); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	if err := EndSession(); err != nil {
		t.Fatalf("EndSession() failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(home, ".show-onboard", "logs")); !os.IsNotExist(err) {
		t.Errorf("log directory created for an empty session: %v", err)
	}
}

func TestSessionSerialization(t *testing.T) {
	tempDir := t.TempDir()
	now := time.Now().UTC().Truncate(time.Second)

	session := &LogSession{
		Metadata: SessionMetadata{
			CommandArgs:   []string{"add"},
			WorkingDir:    tempDir,
			Timestamp:     now,
			SessionID:     "test_session_123",
			TotalOps:      1,
			SuccessfulOps: 1,
		},
		Operations: []OperationLog{
			{ID: "test_session_123_0", Timestamp: now, Type: OpAddShow, Show: "Firefly", Destination: "/tv", Success: true},
		},
	}

	path := filepath.Join(tempDir, "session.json")
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	readSession, err := ReadSession(path)
	if err != nil {
		t.Fatalf("ReadSession() failed: %v", err)
	}
	if diff := cmp.Diff(session, readSession); diff != "" {
		t.Errorf("Session mismatch (-want +got):\n%s", diff)
	}
}

func TestReadSessionsNewestFirst(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	logDir := filepath.Join(home, ".show-onboard", "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"2024-01-01_000000.000", "2024-03-01_000000.000", "2024-02-01_000000.000"} {
		data, _ := json.Marshal(LogSession{Metadata: SessionMetadata{SessionID: id}})
		if err := os.WriteFile(filepath.Join(logDir, id+".json"), data, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(logDir, "broken.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}

	sessions, err := ReadSessions(3)
	if err != nil {
		t.Fatalf("ReadSessions() failed: %v", err)
	}
	var ids []string
	for _, s := range sessions {
		ids = append(ids, s.Metadata.SessionID)
	}
	// "broken.json" sorts first and is skipped.
	want := []string{"2024-03-01_000000.000", "2024-02-01_000000.000"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("ReadSessions() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoggingDisabled(t *testing.T) {
	resetSession(t)
	loggingEnabled = false

	if err := StartSession("add", nil); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}
	if currentSession != nil {
		t.Error("Session should not be created when logging is disabled")
	}

	LogAddShow("Firefly", "id", "/tv", nil)
	if currentSession != nil {
		t.Error("Operations should not create session when logging disabled")
	}
}

func TestInitializeCleansOldLogs(t *testing.T) {
	resetSession(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	logDir := filepath.Join(home, ".show-onboard", "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		t.Fatal(err)
	}

	oldFile := filepath.Join(logDir, "old.json")
	newFile := filepath.Join(logDir, "new.json")
	for _, f := range []string{oldFile, newFile} {
		if err := os.WriteFile(f, []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().AddDate(0, 0, -40)
	if err := os.Chtimes(oldFile, past, past); err != nil {
		t.Fatal(err)
	}

	Initialize(true, 30)

	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Error("old session file was not removed")
	}
	if _, err := os.Stat(newFile); err != nil {
		t.Errorf("recent session file removed: %v", err)
	}

	Initialize(false, 30)
	if loggingEnabled {
		t.Error("Logging should be disabled after Initialize(false, 30)")
	}
}
