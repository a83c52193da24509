package engine

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"handbot/internal/strategy"
)

type Decision struct {
	RunID         string          `json:"run_id"`
	Timestamp     time.Time       `json:"timestamp"`
	TickTime      time.Time       `json:"tick_time"`
	Symbol        string          `json:"symbol"`
	Price         float64         `json:"price"`
	Reference     float64         `json:"reference"`
	Signal        string          `json:"signal,omitempty"`
	Intent        strategy.Action `json:"intent,omitempty"`
	Size          float64         `json:"size,omitempty"`
	HandID        int             `json:"hand_id,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	Result        string          `json:"result"`
	RejectReason  string          `json:"reject_reason,omitempty"`
	OrderID       string          `json:"order_id,omitempty"`
	ClientOrderID string          `json:"client_order_id,omitempty"`
	LockedHands   int             `json:"locked_hands"`
	TotalHands    int             `json:"total_hands"`
}

// DecisionLogger appends one JSON line per decision. With a size limit the
// file is rotated to <path>.1 before a write that would exceed it.
type DecisionLogger struct {
	runID    string
	path     string
	maxBytes int64
	size     int64
	file     *os.File
	writer   *bufio.Writer
	mu       sync.Mutex
}

type LoggerOption func(*DecisionLogger)

// WithMaxBytes enables rotation; zero or less keeps a single growing file.
func WithMaxBytes(n int64) LoggerOption {
	return func(d *DecisionLogger) {
		d.maxBytes = n
	}
}

func NewDecisionLogger(path string, runID string, opts ...LoggerOption) (*DecisionLogger, error) {
	d := &DecisionLogger{runID: runID, path: path}
	for _, opt := range opts {
		opt(d)
	}
	if err := d.open(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *DecisionLogger) open() error {
	file, err := os.OpenFile(d.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return err
	}
	d.file = file
	d.size = info.Size()
	d.writer = bufio.NewWriter(file)
	return nil
}

func (d *DecisionLogger) rotate() error {
	if err := d.writer.Flush(); err != nil {
		return err
	}
	if err := d.file.Close(); err != nil {
		return err
	}
	if err := os.Rename(d.path, d.path+".1"); err != nil {
		return fmt.Errorf("rotate decisions: %w", err)
	}
	return d.open()
}

func (d *DecisionLogger) RunID() string {
	return d.runID
}

func (d *DecisionLogger) Append(decision Decision) {
	d.mu.Lock()
	defer d.mu.Unlock()
	payload, err := json.Marshal(decision)
	if err != nil {
		slog.Error("marshal decision failed", "result", decision.Result, "error", err)
		return
	}
	line := append(payload, '\n')
	if d.maxBytes > 0 && d.size > 0 && d.size+int64(len(line)) > d.maxBytes {
		if err := d.rotate(); err != nil {
			slog.Error("decision log rotation failed", "path", d.path, "error", err)
			return
		}
	}
	n, err := d.writer.Write(line)
	d.size += int64(n)
	if err != nil {
		slog.Error("write decision failed", "path", d.path, "error", err)
		return
	}
	if err := d.writer.Flush(); err != nil {
		slog.Error("flush decision log failed", "path", d.path, "error", err)
	}
}

func (d *DecisionLogger) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writer.Flush(); err != nil {
		_ = d.file.Close()
		return err
	}
	return d.file.Close()
}
