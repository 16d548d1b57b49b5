package queue

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewMetricEvent(t *testing.T) {
	t.Parallel()

	before := time.Now()
	event := NewMetricEvent("user_created", "u1")
	after := time.Now()

	if event.Name != "user_created" {
		t.Errorf("expected name user_created, got %q", event.Name)
	}
	if event.UserID != "u1" {
		t.Errorf("expected user id u1, got %q", event.UserID)
	}
	if event.Timestamp.Before(before) || event.Timestamp.After(after) {
		t.Errorf("timestamp %v outside [%v, %v]", event.Timestamp, before, after)
	}
}

func TestMetricEvent_WithLabel(t *testing.T) {
	t.Parallel()

	event := NewMetricEvent("user_followed", "a").
		WithLabel("followed_id", "b").
		WithLabel("source", "api")

	if event.Labels["followed_id"] != "b" || event.Labels["source"] != "api" {
		t.Errorf("unexpected labels: %v", event.Labels)
	}
}

func TestMetricEvent_JSONShape(t *testing.T) {
	t.Parallel()

	event := NewMetricEvent("user_created", "u1")
	body, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded["name"] != "user_created" {
		t.Errorf("expected name field, got %v", decoded)
	}
	if decoded["user_id"] != "u1" {
		t.Errorf("expected user_id field, got %v", decoded)
	}
}
