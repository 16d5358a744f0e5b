package logging

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

const (
	logstashTimeout = 2 * time.Second
	logstashBackoff = 5 * time.Second
)

// LogstashWriter sends newline delimited JSON entries to a Logstash tcp input.
// Entries written while the endpoint is unreachable are dropped, and after a
// failure no reconnect is attempted until the backoff has passed.
type LogstashWriter struct {
	addr    string
	timeout time.Duration
	backoff time.Duration
	dial    func(ctx context.Context, network, addr string) (net.Conn, error)
	now     func() time.Time

	mu        sync.Mutex
	conn      net.Conn
	downUntil time.Time
	closed    bool
}

// NewLogstashWriter does not dial; the first Write does.
func NewLogstashWriter(addr string) (*LogstashWriter, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("logstash: empty address")
	}
	d := &net.Dialer{Timeout: logstashTimeout}
	return &LogstashWriter{
		addr:    addr,
		timeout: logstashTimeout,
		backoff: logstashBackoff,
		dial:    d.DialContext,
		now:     time.Now,
	}, nil
}

func (w *LogstashWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return 0, io.ErrClosedPipe
	}
	if len(p) == 0 {
		return 0, nil
	}
	conn := w.connect()
	if conn == nil {
		return len(p), nil
	}

	line := p
	if p[len(p)-1] != '\n' {
		line = append(append(make([]byte, 0, len(p)+1), p...), '\n')
	}
	_ = conn.SetWriteDeadline(w.now().Add(w.timeout))
	if _, err := conn.Write(line); err != nil {
		_ = conn.Close()
		w.conn = nil
		w.downUntil = w.now().Add(w.backoff)
	}
	return len(p), nil
}

// connect returns the open connection, dialing one unless a recent failure
// is still backing off. Callers hold mu.
func (w *LogstashWriter) connect() net.Conn {
	if w.conn != nil || w.now().Before(w.downUntil) {
		return w.conn
	}
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	conn, err := w.dial(ctx, "tcp", w.addr)
	if err != nil {
		w.downUntil = w.now().Add(w.backoff)
		return nil
	}
	w.conn = conn
	return conn
}

// Sync satisfies zapcore.WriteSyncer; nothing is buffered.
func (w *LogstashWriter) Sync() error { return nil }

func (w *LogstashWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.conn == nil {
		return nil
	}
	err := w.conn.Close()
	w.conn = nil
	return err
}
