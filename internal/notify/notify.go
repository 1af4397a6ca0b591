// Package notify publishes completed run reports to NATS so external systems
// (CI dashboards, release tooling) can react to builds. Publishing is
// entirely optional; a plain local build never opens a connection.
package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/MarcoChavezB/pybundle/internal/config"
	"github.com/MarcoChavezB/pybundle/internal/logfields"
	"github.com/MarcoChavezB/pybundle/internal/pipeline"
)

// Publisher sends run reports to a NATS subject.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to NATS using the notify configuration.
func NewPublisher(cfg config.NotifyConfig) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("notifications are disabled")
	}
	url := cfg.URL
	if url == "" {
		url = nats.DefaultURL
	}

	conn, err := nats.Connect(url,
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.Info("Connected build notifier", slog.String("url", url), slog.String("subject", cfg.Subject))
	return &Publisher{conn: conn, subject: cfg.Subject}, nil
}

// PublishReport publishes one run report as JSON.
func (p *Publisher) PublishReport(report *pipeline.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("failed to publish report: %w", err)
	}
	slog.Debug("Published build report",
		logfields.RunID(report.RunID),
		logfields.Outcome(string(report.Outcome)))
	return nil
}

// Close flushes and closes the connection.
func (p *Publisher) Close() {
	if p.conn == nil {
		return
	}
	_ = p.conn.Flush()
	p.conn.Close()
}
