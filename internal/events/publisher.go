// Package events provides NATS event publishing for import-service
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// ImportCompletedEvent is published after every import run
type ImportCompletedEvent struct {
	EventType    string    `json:"event_type"`
	TenantID     string    `json:"tenant_id"`
	JobID        string    `json:"job_id"`
	Entity       string    `json:"entity"`
	TotalRows    int       `json:"total_rows"`
	SuccessCount int       `json:"success_count"`
	FailedCount  int       `json:"failed_count"`
	Timestamp    time.Time `json:"timestamp"`
}

// SupermarketAutoCreatedEvent is published when an import auto-creates a
// supermarket that was referenced by name but missing from the directory
type SupermarketAutoCreatedEvent struct {
	EventType     string    `json:"event_type"`
	TenantID      string    `json:"tenant_id"`
	SupermarketID string    `json:"supermarket_id"`
	Name          string    `json:"name"`
	Timestamp     time.Time `json:"timestamp"`
}

// ImportEventPublisher handles publishing import-related events to NATS
type ImportEventPublisher struct {
	conn   *nats.Conn
	logger *logrus.Entry
}

// NewImportEventPublisher creates a new import event publisher
func NewImportEventPublisher(natsURL string, logger *logrus.Logger) (*ImportEventPublisher, error) {
	if natsURL == "" {
		return nil, fmt.Errorf("NATS URL is required")
	}

	log := logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	conn, err := nats.Connect(natsURL,
		nats.Name("import-service-publisher"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &ImportEventPublisher{
		conn:   conn,
		logger: log.WithField("component", "import-events"),
	}, nil
}

// Close drains the NATS connection
func (p *ImportEventPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

// PublishImportCompleted publishes an import.completed event
func (p *ImportEventPublisher) PublishImportCompleted(tenantID, jobID, entity string, totalRows, successCount, failedCount int) error {
	event := ImportCompletedEvent{
		EventType:    "import.completed",
		TenantID:     tenantID,
		JobID:        jobID,
		Entity:       entity,
		TotalRows:    totalRows,
		SuccessCount: successCount,
		FailedCount:  failedCount,
		Timestamp:    time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.conn.Publish("import.completed", data); err != nil {
		p.logger.WithFields(logrus.Fields{
			"jobId":  jobID,
			"entity": entity,
		}).WithError(err).Error("Failed to publish import.completed event")
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"jobId":        jobID,
		"entity":       entity,
		"successCount": successCount,
		"failedCount":  failedCount,
	}).Info("Published import.completed event")
	return nil
}

// PublishSupermarketAutoCreated publishes a supermarket.auto_created event
func (p *ImportEventPublisher) PublishSupermarketAutoCreated(tenantID, supermarketID, name string) error {
	event := SupermarketAutoCreatedEvent{
		EventType:     "supermarket.auto_created",
		TenantID:      tenantID,
		SupermarketID: supermarketID,
		Name:          name,
		Timestamp:     time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.conn.Publish("supermarket.auto_created", data); err != nil {
		p.logger.WithField("name", name).WithError(err).Error("Failed to publish supermarket.auto_created event")
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"supermarketId": supermarketID,
		"name":          name,
	}).Info("Published supermarket.auto_created event")
	return nil
}
