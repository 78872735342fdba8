package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Single JSON line per entry, ready for log collectors.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Service   string `json:"service"`
	Action    string `json:"action"`
	Message   string `json:"message"`
	Hostname  string `json:"hostname"`
	RequestID string `json:"request_id"`
	EntityID  string `json:"entity_id,omitempty"`
	Error     *struct {
		Msg string `json:"msg"`
	} `json:"error,omitempty"`
}

var hostname, _ = os.Hostname()

var serviceName = "railway-station"

// SetServiceName overrides the service field, call once at startup.
func SetServiceName(name string) {
	serviceName = name
}

func Info(action, message, requestID, entityID string) {
	output(entry("INFO", action, message, requestID, entityID, ""))
}

func Debug(action, message, requestID, entityID string) {
	output(entry("DEBUG", action, message, requestID, entityID, ""))
}

func Warn(action, message, requestID, entityID, errMsg string) {
	output(entry("WARN", action, message, requestID, entityID, errMsg))
}

func Error(action, message, requestID, entityID, errMsg string) {
	output(entry("ERROR", action, message, requestID, entityID, errMsg))
}

func entry(level, action, message, requestID, entityID, errMsg string) LogEntry {
	e := LogEntry{
		Timestamp: time.Now().Format(time.RFC3339),
		Level:     level,
		Service:   serviceName,
		Action:    action,
		Message:   message,
		Hostname:  hostname,
		RequestID: requestID,
		EntityID:  entityID,
	}
	if errMsg != "" {
		e.Error = &struct {
			Msg string `json:"msg"`
		}{Msg: errMsg}
	}
	return e
}

func output(entry LogEntry) {
	jsonData, _ := json.Marshal(entry)
	fmt.Println(string(jsonData))
}
