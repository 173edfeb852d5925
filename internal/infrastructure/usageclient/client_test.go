package usageclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modai/services/message-api/internal/infrastructure/usageclient"
)

func TestCheckDailyLimit_UnderLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/usage/today", r.URL.Path)
		assert.Equal(t, "teen_123", r.URL.Query().Get("user_id"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"messages_sent": 42}`))
	}))
	defer server.Close()

	client := usageclient.NewClient(server.URL, 2*time.Second)
	check, err := client.CheckDailyLimit(context.Background(), "teen_123")
	require.NoError(t, err)

	assert.True(t, check.Allowed)
	assert.Equal(t, 42, check.MessagesSent)
	assert.Equal(t, 100, check.MessagesLimit)
}

func TestCheckDailyLimit_AtLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"messages_sent": 100}`))
	}))
	defer server.Close()

	client := usageclient.NewClient(server.URL, 2*time.Second)
	check, err := client.CheckDailyLimit(context.Background(), "teen_123")
	require.NoError(t, err)

	assert.False(t, check.Allowed)
	assert.Equal(t, 100, check.MessagesSent)
}

func TestCheckDailyLimit_ServerErrorAssumesNoUsage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := usageclient.NewClient(server.URL, 2*time.Second)
	check, err := client.CheckDailyLimit(context.Background(), "teen_123")
	require.NoError(t, err)

	assert.True(t, check.Allowed)
	assert.Equal(t, 0, check.MessagesSent)
	assert.Equal(t, 100, check.MessagesLimit)
}

func TestCheckDailyLimitForAge_UsesAgeGroupLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/usage/today":
			w.Write([]byte(`{"messages_sent": 60}`))
		case "/api/v1/age-groups/for-age/14":
			w.Write([]byte(`{"max_daily_messages": 50}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := usageclient.NewClient(server.URL, 2*time.Second)
	check, err := client.CheckDailyLimitForAge(context.Background(), "teen_123", 14)
	require.NoError(t, err)

	assert.False(t, check.Allowed)
	assert.Equal(t, 60, check.MessagesSent)
	assert.Equal(t, 50, check.MessagesLimit)
}

func TestCheckDailyLimitForAge_LookupFailureKeepsDefault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/v1/usage/today" {
			w.Write([]byte(`{"messages_sent": 10}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := usageclient.NewClient(server.URL, 2*time.Second)
	check, err := client.CheckDailyLimitForAge(context.Background(), "teen_123", 14)
	require.NoError(t, err)

	assert.True(t, check.Allowed)
	assert.Equal(t, 10, check.MessagesSent)
	assert.Equal(t, 100, check.MessagesLimit)
}

func TestCheckDailyLimit_UnreachableFailsOpen(t *testing.T) {
	// Point at a closed port.
	client := usageclient.NewClient("http://127.0.0.1:1", 500*time.Millisecond)
	check, err := client.CheckDailyLimit(context.Background(), "teen_123")
	require.NoError(t, err, "transport failures must not surface as errors")

	assert.True(t, check.Allowed)
	assert.Equal(t, 0, check.MessagesSent)
	assert.Equal(t, 100, check.MessagesLimit)
}
