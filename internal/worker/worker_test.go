package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-api/internal/config"
)

type recordingCache struct {
	invalidated []string
}

func (r *recordingCache) InvalidateTodos(_ context.Context, userID string) {
	r.invalidated = append(r.invalidated, userID)
}

func TestHandleMessage_InvalidatesOwner(t *testing.T) {
	for _, action := range []string{"created", "updated", "deleted"} {
		t.Run(action, func(t *testing.T) {
			cache := &recordingCache{}
			payload := []byte(`{"action":"` + action + `","id":"t1","userId":"u1","occurredAt":"2024-01-01T00:00:00Z"}`)

			require.NoError(t, handleMessage(context.Background(), cache, payload))
			assert.Equal(t, []string{"u1"}, cache.invalidated)
		})
	}
}

func TestHandleMessage_Rejects(t *testing.T) {
	cases := map[string]string{
		"malformed":      `{not json`,
		"unknown action": `{"action":"archived","id":"t1","userId":"u1"}`,
		"missing user":   `{"action":"created","id":"t1"}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			cache := &recordingCache{}
			assert.Error(t, handleMessage(context.Background(), cache, []byte(payload)))
			assert.Empty(t, cache.invalidated)
		})
	}
}

func TestHandleMessage_NilCache(t *testing.T) {
	payload := []byte(`{"action":"deleted","id":"t1","userId":"u1"}`)
	assert.NoError(t, handleMessage(context.Background(), nil, payload))
}

func TestRun_DisabledReturnsImmediately(t *testing.T) {
	done := make(chan struct{})
	go func() {
		Run(context.Background(), config.Defaults(), &recordingCache{})
		close(done)
	}()
	<-done
}
