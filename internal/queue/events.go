package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// SubjectPrefix roots every completion subject
const SubjectPrefix = "analytics"

// Header names set on every event message
const (
	HeaderKind     = "kind"
	HeaderSeriesID = "series-id"
)

// Event announces a finished analytics computation
type Event struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	SeriesID  string    `json:"seriesId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Summary   string    `json:"summary"`
}

// Subject returns the subject events of kind are published on,
// e.g. analytics.forecast.completed
func Subject(kind string) string {
	return fmt.Sprintf("%s.%s.completed", SubjectPrefix, kind)
}

// EventMessage builds the broker message for ev. The series id is the
// ordering key so events of one series stay in order on partitioned brokers.
func EventMessage(ev Event) (Message, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return Message{}, fmt.Errorf("failed to encode event: %w", err)
	}

	headers := map[string]string{HeaderKind: ev.Kind}
	if ev.SeriesID != "" {
		headers[HeaderSeriesID] = ev.SeriesID
	}
	return Message{
		Subject: Subject(ev.Kind),
		Key:     ev.SeriesID,
		ID:      ev.ID,
		Headers: headers,
		Data:    data,
	}, nil
}

// PublishEvent publishes ev on Subject(ev.Kind)
func PublishEvent(ctx context.Context, p Publisher, ev Event) error {
	msg, err := EventMessage(ev)
	if err != nil {
		return err
	}
	return send(ctx, p, msg)
}

// DecodeEvent parses a message produced by PublishEvent
func DecodeEvent(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("failed to decode event: %w", err)
	}
	return ev, nil
}
