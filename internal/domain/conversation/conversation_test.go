package conversation_test

import (
	"errors"
	"strings"
	"testing"

	"modai/services/message-api/internal/domain/conversation"
)

func TestNew_Defaults(t *testing.T) {
	conv, err := conversation.New("teen_123", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if !strings.HasPrefix(conv.ID, "conv_") {
		t.Errorf("ID should have conv_ prefix, got %s", conv.ID)
	}
	if conv.Title != conversation.DefaultTitle {
		t.Errorf("blank title should default to %q, got %q", conversation.DefaultTitle, conv.Title)
	}
	if conv.Status != conversation.StatusActive {
		t.Errorf("new conversation should be active, got %s", conv.Status)
	}
	if conv.MessageCount != 0 {
		t.Errorf("new conversation should have 0 messages, got %d", conv.MessageCount)
	}
	if conv.LastMessageAt != nil {
		t.Error("new conversation should have no last_message_at")
	}
}

func TestNew_TitleTrimmedAndCapped(t *testing.T) {
	conv, err := conversation.New("teen_123", "  Homework help  ")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if conv.Title != "Homework help" {
		t.Errorf("title should be trimmed, got %q", conv.Title)
	}

	long := strings.Repeat("a", conversation.MaxTitleLength+50)
	conv, err = conversation.New("teen_123", long)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if len([]rune(conv.Title)) != conversation.MaxTitleLength {
		t.Errorf("title should be capped at %d runes, got %d", conversation.MaxTitleLength, len([]rune(conv.Title)))
	}
}

func TestStatusTransitions(t *testing.T) {
	conv, _ := conversation.New("teen_123", "")

	if err := conv.Archive(); err != nil {
		t.Fatalf("Archive on active conversation failed: %v", err)
	}
	if !conv.IsArchived() {
		t.Errorf("expected archived, got %s", conv.Status)
	}
	if conv.CanAddMessages() {
		t.Error("archived conversation should not accept messages")
	}

	if err := conv.Restore(); err != nil {
		t.Fatalf("Restore on archived conversation failed: %v", err)
	}
	if !conv.IsActive() {
		t.Errorf("expected active after restore, got %s", conv.Status)
	}
	if !conv.CanAddMessages() {
		t.Error("active conversation should accept messages")
	}
}

func TestStatusTransitions_DeletedIsTerminal(t *testing.T) {
	conv, _ := conversation.New("teen_123", "")
	conv.Delete()

	if !conv.IsDeleted() {
		t.Fatalf("expected deleted, got %s", conv.Status)
	}
	if conv.CanAddMessages() {
		t.Error("deleted conversation should not accept messages")
	}

	if err := conv.Archive(); !errors.Is(err, conversation.ErrConversationDeleted) {
		t.Errorf("Archive on deleted conversation: want ErrConversationDeleted, got %v", err)
	}
	if err := conv.Restore(); !errors.Is(err, conversation.ErrConversationDeleted) {
		t.Errorf("Restore on deleted conversation: want ErrConversationDeleted, got %v", err)
	}
}

func TestSetTitle(t *testing.T) {
	conv, _ := conversation.New("teen_123", "")

	if err := conv.SetTitle("  Math tutoring  "); err != nil {
		t.Fatalf("SetTitle failed: %v", err)
	}
	if conv.Title != "Math tutoring" {
		t.Errorf("title should be trimmed, got %q", conv.Title)
	}

	if err := conv.SetTitle("   "); !errors.Is(err, conversation.ErrEmptyTitle) {
		t.Errorf("whitespace-only title: want ErrEmptyTitle, got %v", err)
	}
	if err := conv.SetTitle(""); !errors.Is(err, conversation.ErrEmptyTitle) {
		t.Errorf("empty title: want ErrEmptyTitle, got %v", err)
	}
	if conv.Title != "Math tutoring" {
		t.Errorf("failed SetTitle should not change title, got %q", conv.Title)
	}

	long := "  " + strings.Repeat("ab", conversation.MaxTitleLength) + "  "
	if err := conv.SetTitle(long); err != nil {
		t.Fatalf("SetTitle failed: %v", err)
	}
	want := strings.TrimSpace(long)[:conversation.MaxTitleLength]
	if conv.Title != want {
		t.Errorf("long title should keep the first %d chars of the trimmed string", conversation.MaxTitleLength)
	}
}

func TestAddMessage(t *testing.T) {
	conv, _ := conversation.New("teen_123", "")
	before := conv.UpdatedAt

	conv.AddMessage()
	conv.AddMessage()

	if conv.MessageCount != 2 {
		t.Errorf("expected message count 2, got %d", conv.MessageCount)
	}
	if conv.LastMessageAt == nil {
		t.Fatal("last_message_at should be set after AddMessage")
	}
	if conv.UpdatedAt.Before(before) {
		t.Error("updated_at should move forward with AddMessage")
	}
}

func TestValidateStatus(t *testing.T) {
	for _, valid := range []string{"active", "archived", "deleted"} {
		if !conversation.ValidateStatus(valid) {
			t.Errorf("%q should be a valid status", valid)
		}
	}
	for _, invalid := range []string{"", "Active", "closed", "ARCHIVED"} {
		if conversation.ValidateStatus(invalid) {
			t.Errorf("%q should not be a valid status", invalid)
		}
	}
}
