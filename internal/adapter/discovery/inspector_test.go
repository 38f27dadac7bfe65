package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thushan/olla-explorer/internal/core/domain"
)

const testServer = "http://localhost:11434"

func llama2Summary() domain.ModelSummary {
	return domain.ModelSummary{
		Name:       "llama2:latest",
		Size:       3826793472,
		Digest:     "78e26419b4469263f75331927a00a0284ef6544c1975b826b15abdaef17bb962",
		ModifiedAt: "2024-01-15T10:30:00Z",
	}
}

func TestModelInspector_Success(t *testing.T) {
	client := newFakeClient()
	client.shows[testServer+"|llama2:latest"] = llama2Show
	stats := &recordingStats{}

	record := NewModelInspector(client, stats, createTestLogger()).Inspect(context.Background(), testServer, llama2Summary())

	require.NotNil(t, record)
	assert.False(t, record.IsDegraded())
	assert.Equal(t, "llama2:latest", record.Name)
	assert.Equal(t, testServer, record.Server)
	assert.Equal(t, int64(3826793472), record.Size)
	assert.Equal(t, "3.6 GB", record.SizeFormatted)
	assert.Equal(t, "2024-01-15T10:30:00Z", record.ModifiedAt)
	assert.Equal(t, "78e26419b446", record.Digest)
	assert.Equal(t, []string{"completion", "tools"}, record.Capabilities)
	assert.Equal(t, "7B", record.Parameters)
	assert.Equal(t, "Q4_0", record.Quantization)
	assert.Equal(t, "llama", record.Family)
	assert.Equal(t, "gguf", record.Format)
	assert.Empty(t, record.ParentModel)
	require.NotNil(t, record.ContextLength)
	assert.Equal(t, int64(4096), *record.ContextLength)

	assert.Equal(t, int32(1), stats.modelsOK.Load())
	assert.Zero(t, stats.modelsDegraded.Load())
}

func TestModelInspector_EmptyDocument(t *testing.T) {
	client := newFakeClient() // unknown models describe as {}

	summary := domain.ModelSummary{Name: "tiny", Size: 500, Digest: "short"}
	record := NewModelInspector(client, nil, createTestLogger()).Inspect(context.Background(), testServer, summary)

	assert.False(t, record.IsDegraded())
	assert.NotNil(t, record.Capabilities)
	assert.Empty(t, record.Capabilities)
	assert.Empty(t, record.Family)
	assert.Empty(t, record.Parameters)
	assert.Nil(t, record.ContextLength)
	assert.Equal(t, "short", record.Digest)
	assert.Equal(t, "500.0 B", record.SizeFormatted)
}

func TestModelInspector_Failure(t *testing.T) {
	client := newFakeClient()
	failure := NewInventoryError(testServer, OpDescribeModel, 500, 0, errors.New("HTTP 500: Internal Server Error"))
	client.showErrs[testServer+"|llama2:latest"] = failure
	stats := &recordingStats{}

	record := NewModelInspector(client, stats, createTestLogger()).Inspect(context.Background(), testServer, llama2Summary())

	require.True(t, record.IsDegraded())
	assert.Equal(t, failure.Error(), record.Error)
	assert.Equal(t, "llama2:latest", record.Name)
	assert.Equal(t, testServer, record.Server)
	assert.Equal(t, int64(3826793472), record.Size)
	assert.Equal(t, "3.6 GB", record.SizeFormatted)
	assert.Equal(t, "2024-01-15T10:30:00Z", record.ModifiedAt)
	assert.Equal(t, []string{}, record.Capabilities)

	// degraded records carry only the listing fields
	assert.Empty(t, record.Digest)
	assert.Empty(t, record.Family)
	assert.Nil(t, record.ContextLength)

	assert.Equal(t, int32(1), stats.modelsDegraded.Load())
}

func TestModelInspector_NegativeSize(t *testing.T) {
	record := NewModelInspector(newFakeClient(), nil, createTestLogger()).
		Inspect(context.Background(), testServer, domain.ModelSummary{Name: "odd", Size: -1})

	assert.Equal(t, int64(-1), record.Size)
	assert.Equal(t, "0.0 B", record.SizeFormatted)
}

func TestShortDigest(t *testing.T) {
	assert.Equal(t, "", shortDigest(""))
	assert.Equal(t, "abc", shortDigest("abc"))
	assert.Equal(t, "123456789012", shortDigest("1234567890123456"))
	assert.Equal(t, "ééééééééééé", shortDigest("ééééééééééé"))
	assert.Equal(t, "éééééééééééé", shortDigest("éééééééééééééé"))
}
