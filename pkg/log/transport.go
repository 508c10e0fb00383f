package log

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// Transport is a log output destination.
type Transport interface {
	Write(entry Entry)
	Close() error
}

// JSONTransport writes entries as line-delimited JSON. It serializes its own
// writes, so one instance can back multiple loggers.
type JSONTransport struct {
	mu sync.Mutex
	w  io.Writer
}

// NewStdout creates a JSON transport writing to os.Stdout.
func NewStdout() *JSONTransport {
	return &JSONTransport{w: os.Stdout}
}

// NewJSONTransport creates a JSON transport with a custom writer.
// Useful for testing.
func NewJSONTransport(w io.Writer) *JSONTransport {
	return &JSONTransport{w: w}
}

// Write marshals the entry and appends a newline. Marshal failures are
// swallowed; logging must never take the application down.
func (t *JSONTransport) Write(entry Entry) {
	m := make(map[string]any, len(entry.Fields)+4)
	m["timestamp"] = entry.Timestamp.UTC().Format(time.RFC3339)
	m["level"] = entry.Level.String()
	m["msg"] = entry.Message
	if entry.RequestID != "" {
		m["request_id"] = entry.RequestID
	}
	for k, v := range entry.Fields {
		m[k] = v
	}

	data, err := json.Marshal(m)
	if err != nil {
		return
	}
	data = append(data, '\n')

	t.mu.Lock()
	t.w.Write(data)
	t.mu.Unlock()
}

// Close is a no-op for writer-backed transports.
func (t *JSONTransport) Close() error {
	return nil
}
