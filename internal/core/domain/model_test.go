package domain

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelRecord_DegradedShape(t *testing.T) {
	record := &ModelRecord{
		Name:          "broken:latest",
		Server:        "http://localhost:11434",
		Size:          1024,
		SizeFormatted: "1.0 KB",
		ModifiedAt:    "2024-01-15T10:30:00Z",
		Capabilities:  []string{},
		Error:         "boom",
	}
	require.True(t, record.IsDegraded())

	data, err := jsoniter.Marshal(record)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, jsoniter.Unmarshal(data, &decoded))

	assert.Equal(t, []interface{}{}, decoded["capabilities"])
	assert.Equal(t, "boom", decoded["error"])
	for _, absent := range []string{"digest", "parameters", "quantization", "family", "format", "parent_model", "context_length"} {
		assert.NotContains(t, decoded, absent)
	}
}

func TestModelRecord_NotDegraded(t *testing.T) {
	record := &ModelRecord{Name: "llama2:latest", Capabilities: []string{"completion"}}
	assert.False(t, record.IsDegraded())
}

func TestAggregateResult_EmptyEncodesArrays(t *testing.T) {
	data, err := jsoniter.Marshal(NewAggregateResult())
	require.NoError(t, err)
	assert.JSONEq(t, `{"models":[],"capabilities":[],"families":[],"server_results":[]}`, string(data))
}

func TestAggregateResult_FailedServers(t *testing.T) {
	result := NewAggregateResult()
	result.ServerResults = append(result.ServerResults,
		ServerOutcome{Server: "http://a", Success: true, ModelCount: 2},
		ServerOutcome{Server: "http://b", Error: "Connection failed: refused"},
	)
	assert.Equal(t, 1, result.FailedServers())
}
