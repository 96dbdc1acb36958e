package events

import (
	"context"
	"log/slog"
	"os"
	"testing"
)

func TestMockEventPublisher_FillsEnvelope(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	publisher := NewMockEventPublisher(logger)

	err := publisher.Publish(context.Background(), &Event{
		Type: EventPointsAwarded,
		Data: PointsAwardedEvent{UserID: "user-1", Points: 10},
	})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(published))
	}

	event := published[0]
	if event.ID == "" {
		t.Error("ID not filled")
	}
	if event.Source != "progress-service" {
		t.Errorf("Source = %q, want progress-service", event.Source)
	}
	if event.Version != "1.0" {
		t.Errorf("Version = %q, want 1.0", event.Version)
	}
	if event.Timestamp.IsZero() {
		t.Error("Timestamp not filled")
	}

	publisher.ClearEvents()
	if len(publisher.GetPublishedEvents()) != 0 {
		t.Error("events remain after ClearEvents")
	}
}
