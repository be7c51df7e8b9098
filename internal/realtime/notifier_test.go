package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jobhub/jobhub/internal/model"
)

func TestNotifier_CommentAdded(t *testing.T) {
	hub, cancel := startHub(t, nil)
	defer cancel()

	client := hub.Join("job-1")
	notifier := NewNotifier(hub)

	createdAt := time.Date(2026, 2, 3, 10, 30, 0, 0, time.UTC)
	notifier.CommentAdded("job-1", &model.Comment{
		ID:           "cm-1",
		JobID:        "job-1",
		Content:      "いい求人ですね",
		AuthorName:   "Taro Yamada",
		AuthorAvatar: "https://img.clerk.com/taro.png",
		CreatedAt:    createdAt,
	})

	msg := receiveMessage(t, client)

	var event struct {
		Type    EventType `json:"type"`
		Payload struct {
			ID           string `json:"id"`
			JobID        string `json:"jobId"`
			Content      string `json:"content"`
			AuthorName   string `json:"authorName"`
			AuthorAvatar string `json:"authorAvatar"`
			CreatedAt    string `json:"createdAt"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(msg, &event); err != nil {
		t.Fatalf("failed to unmarshal event: %v", err)
	}

	if event.Type != EventCommentAdded {
		t.Errorf("Type = %q, want %q", event.Type, EventCommentAdded)
	}
	if event.Payload.ID != "cm-1" {
		t.Errorf("Payload.ID = %q, want %q", event.Payload.ID, "cm-1")
	}
	if event.Payload.Content != "いい求人ですね" {
		t.Errorf("Payload.Content = %q, want %q", event.Payload.Content, "いい求人ですね")
	}
	if event.Payload.AuthorName != "Taro Yamada" {
		t.Errorf("Payload.AuthorName = %q, want %q", event.Payload.AuthorName, "Taro Yamada")
	}
	if event.Payload.CreatedAt != "2026-02-03T10:30:00Z" {
		t.Errorf("Payload.CreatedAt = %q, want %q", event.Payload.CreatedAt, "2026-02-03T10:30:00Z")
	}
}

func TestNotifier_LikeUpdated(t *testing.T) {
	hub, cancel := startHub(t, nil)
	defer cancel()

	client := hub.Join("job-1")
	notifier := NewNotifier(hub)

	notifier.LikeUpdated("job-1", 12)

	msg := receiveMessage(t, client)

	var event struct {
		Type    EventType `json:"type"`
		Payload struct {
			JobID string `json:"jobId"`
			Count int    `json:"count"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(msg, &event); err != nil {
		t.Fatalf("failed to unmarshal event: %v", err)
	}

	if event.Type != EventLikeUpdated {
		t.Errorf("Type = %q, want %q", event.Type, EventLikeUpdated)
	}
	if event.Payload.JobID != "job-1" {
		t.Errorf("Payload.JobID = %q, want %q", event.Payload.JobID, "job-1")
	}
	if event.Payload.Count != 12 {
		t.Errorf("Payload.Count = %d, want 12", event.Payload.Count)
	}
}
