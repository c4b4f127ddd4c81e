package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuedOperation_JSONRoundTrip(t *testing.T) {
	queuedAt := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	syncID := "0195c2a8-7f3e-7000-8000-0123456789ab"

	tests := []struct {
		name string
		op   QueuedOperation
	}{
		{
			name: "FullyPopulated",
			op: QueuedOperation{
				ID:            "op-1",
				DocumentID:    syncID,
				SyncID:        &syncID,
				Type:          OperationUpload,
				QueuedAt:      queuedAt,
				RetryCount:    2,
				OperationData: json.RawMessage(`{"document":{"syncId":"` + syncID + `","title":"passport"}}`),
				Priority:      7,
			},
		},
		{
			name: "NilSyncID",
			op: QueuedOperation{
				ID:         "op-2",
				DocumentID: syncID,
				SyncID:     nil,
				Type:       OperationFileDelete,
				QueuedAt:   queuedAt,
				Priority:   0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.op)
			require.NoError(t, err)

			var got QueuedOperation
			require.NoError(t, json.Unmarshal(raw, &got))

			assert.Equal(t, tt.op.ID, got.ID)
			assert.Equal(t, tt.op.DocumentID, got.DocumentID)
			assert.Equal(t, tt.op.SyncID, got.SyncID)
			assert.Equal(t, tt.op.Type, got.Type)
			assert.True(t, tt.op.QueuedAt.Equal(got.QueuedAt))
			assert.Equal(t, tt.op.RetryCount, got.RetryCount)
			assert.JSONEq(t, string(normalizeRaw(tt.op.OperationData)), string(normalizeRaw(got.OperationData)))
			assert.Equal(t, tt.op.Priority, got.Priority)
		})
	}
}

// normalizeRaw maps an absent payload to JSON null so JSONEq can compare it.
func normalizeRaw(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}

func TestQueuedOperation_NilSyncIDSerializesAsNull(t *testing.T) {
	op := QueuedOperation{ID: "op-3", DocumentID: "doc", Type: OperationDelete, QueuedAt: time.Now().UTC()}

	raw, err := json.Marshal(op)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))

	v, present := wire["syncId"]
	require.True(t, present, "syncId must be present on the wire even when unset")
	assert.Nil(t, v)
}

func TestQueuedOperation_WireTypeLiterals(t *testing.T) {
	for opType, want := range map[OperationType]string{
		OperationUpload:     `"upload"`,
		OperationUpdate:     `"update"`,
		OperationDelete:     `"delete"`,
		OperationFileUpload: `"fileUpload"`,
		OperationFileDelete: `"fileDelete"`,
	} {
		raw, err := json.Marshal(opType)
		require.NoError(t, err)
		assert.Equal(t, want, string(raw))
		assert.True(t, opType.Valid())
	}

	assert.False(t, OperationType("compact").Valid())
}

func TestOperationType_IsDocumentLevel(t *testing.T) {
	assert.True(t, OperationUpload.IsDocumentLevel())
	assert.True(t, OperationUpdate.IsDocumentLevel())
	assert.True(t, OperationDelete.IsDocumentLevel())
	assert.False(t, OperationFileUpload.IsDocumentLevel())
	assert.False(t, OperationFileDelete.IsDocumentLevel())
}

func TestQueuedOperation_DecodePayload(t *testing.T) {
	payload := OperationPayload{
		Document: &Document{SyncID: "id-1", Title: "insurance", Version: 3},
		FilePath: "/tmp/scan.pdf",
	}
	raw, err := EncodeOperationPayload(payload)
	require.NoError(t, err)

	op := QueuedOperation{ID: "op-4", OperationData: raw}
	got, err := op.DecodePayload()
	require.NoError(t, err)
	require.NotNil(t, got.Document)
	assert.Equal(t, "insurance", got.Document.Title)
	assert.Equal(t, int64(3), got.Document.Version)
	assert.Equal(t, "/tmp/scan.pdf", got.FilePath)

	empty := QueuedOperation{ID: "op-5"}
	got, err = empty.DecodePayload()
	require.NoError(t, err)
	assert.Nil(t, got.Document)

	broken := QueuedOperation{ID: "op-6", OperationData: json.RawMessage(`{`)}
	_, err = broken.DecodePayload()
	assert.Error(t, err)
}
