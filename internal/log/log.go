package log

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

type OperationType string

const (
	OpSearch  OperationType = "search"
	OpAddShow OperationType = "add_show"
	OpSkip    OperationType = "skip_show"
)

type OperationLog struct {
	ID          string        `json:"id"`
	Timestamp   time.Time     `json:"timestamp"`
	Type        OperationType `json:"type"`
	Show        string        `json:"show,omitempty"`
	Identity    string        `json:"identity,omitempty"`
	Destination string        `json:"destination,omitempty"`
	Detail      string        `json:"detail,omitempty"`
	Success     bool          `json:"success"`
	Error       string        `json:"error,omitempty"`
}

type SessionMetadata struct {
	CommandArgs   []string  `json:"command_args"`
	WorkingDir    string    `json:"working_dir"`
	Timestamp     time.Time `json:"timestamp"`
	SessionID     string    `json:"session_id"`
	TotalOps      int       `json:"total_operations"`
	SuccessfulOps int       `json:"successful_operations"`
	FailedOps     int       `json:"failed_operations"`
}

type LogSession struct {
	Metadata   SessionMetadata `json:"metadata"`
	Operations []OperationLog  `json:"operations"`
}

// Global singleton session manager
var (
	currentSession *LogSession
	sessionMutex   sync.Mutex
	loggingEnabled = true
)

// StartSession initializes a new logging session
func StartSession(command string, args []string) error {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	if !loggingEnabled {
		return nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	now := time.Now()
	sessionID := fmt.Sprintf("%s_%03d", now.Format("20060102_150405"), now.Nanosecond()/1000000)

	currentSession = &LogSession{
		Metadata: SessionMetadata{
			CommandArgs: append([]string{command}, args...),
			WorkingDir:  wd,
			Timestamp:   now,
			SessionID:   sessionID,
		},
		Operations: []OperationLog{},
	}

	return nil
}

// EndSession saves the current session to disk. Sessions without any
// operation are discarded.
func EndSession() error {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	if !loggingEnabled || currentSession == nil {
		return nil
	}

	session := currentSession
	currentSession = nil
	if len(session.Operations) == 0 {
		return nil
	}

	updateStats(session)
	return WriteSession(session)
}

// LogSearch logs a resolved search and how many results it returned
func LogSearch(term, language string, indexer, results int, err error) {
	LogOperation(OperationLog{
		Type:    OpSearch,
		Detail:  fmt.Sprintf("term=%q lang=%s indexer=%d results=%d", term, language, indexer, results),
		Success: err == nil,
	}, err)
}

// LogAddShow logs a submitted show
func LogAddShow(show, identity, destination string, err error) {
	LogOperation(OperationLog{
		Type:        OpAddShow,
		Show:        show,
		Identity:    identity,
		Destination: destination,
		Success:     err == nil,
	}, err)
}

// LogSkip logs a skipped show
func LogSkip(show string, err error) {
	LogOperation(OperationLog{
		Type:    OpSkip,
		Show:    show,
		Success: err == nil,
	}, err)
}

// LogOperation appends op to the current session, filling in its ID and
// timestamp
func LogOperation(op OperationLog, err error) {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	if !loggingEnabled || currentSession == nil {
		return
	}

	op.ID = fmt.Sprintf("%s_%d", currentSession.Metadata.SessionID, len(currentSession.Operations))
	op.Timestamp = time.Now()
	if err != nil {
		op.Error = err.Error()
		op.Success = false
	}

	currentSession.Operations = append(currentSession.Operations, op)
}

func updateStats(session *LogSession) {
	successful := 0
	failed := 0
	for _, op := range session.Operations {
		if op.Success {
			successful++
		} else {
			failed++
		}
	}

	session.Metadata.TotalOps = len(session.Operations)
	session.Metadata.SuccessfulOps = successful
	session.Metadata.FailedOps = failed
}

// Initialize sets up the logging system with the given configuration
func Initialize(enabled bool, retentionDays int) {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()

	loggingEnabled = enabled

	if enabled {
		// Clean up old logs on initialization
		if err := cleanupOldLogsUnsafe(retentionDays); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to clean up old logs: %v\n", err)
		}
	}
}

// LogDir returns the directory holding session files and the diagnostic log
func LogDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".show-onboard", "logs"), nil
}

func GetLogPath() (string, error) {
	logDir, err := LogDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}

	now := time.Now()
	filename := fmt.Sprintf("%s.%03d.json",
		now.Format("2006-01-02_150405"),
		now.Nanosecond()/1000000)

	return filepath.Join(logDir, filename), nil
}

func WriteSession(session *LogSession) error {
	if session == nil {
		return nil
	}

	logPath, err := GetLogPath()
	if err != nil {
		return fmt.Errorf("failed to get log path: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(logPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write log file: %w", err)
	}

	return nil
}

func ReadSession(logPath string) (*LogSession, error) {
	data, err := os.ReadFile(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	var session LogSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// ReadSessions returns up to limit sessions, newest first
func ReadSessions(limit int) ([]*LogSession, error) {
	logDir, err := LogDir()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		return []*LogSession{}, nil
	}

	files, err := filepath.Glob(filepath.Join(logDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list log files: %w", err)
	}

	// File names start with the timestamp
	sort.Sort(sort.Reverse(sort.StringSlice(files)))

	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}

	sessions := make([]*LogSession, 0, len(files))
	for _, file := range files {
		session, err := ReadSession(file)
		if err != nil {
			// Skip corrupted files
			continue
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

// cleanupOldLogsUnsafe performs cleanup without acquiring mutex (assumes caller holds it)
func cleanupOldLogsUnsafe(retentionDays int) error {
	logDir, err := LogDir()
	if err != nil {
		return err
	}

	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(logDir, "*.json"))
	if err != nil {
		return fmt.Errorf("failed to list log files: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(file); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to remove old log file %s: %v\n", file, err)
				continue
			}
		}
	}

	return nil
}
