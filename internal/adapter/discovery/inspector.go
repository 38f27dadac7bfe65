package discovery

import (
	"context"

	"github.com/thushan/olla-explorer/internal/core/domain"
	"github.com/thushan/olla-explorer/internal/core/ports"
	"github.com/thushan/olla-explorer/internal/logger"
	"github.com/thushan/olla-explorer/internal/util"
	"github.com/thushan/olla-explorer/pkg/format"
)

const digestLength = 12

// ModelInspector turns a listing entry into a full ModelRecord. It never
// fails: anything that goes wrong yields a degraded record instead.
type ModelInspector struct {
	client InventoryClient
	stats  ports.StatsCollector
	logger logger.StyledLogger
}

func NewModelInspector(client InventoryClient, stats ports.StatsCollector, log logger.StyledLogger) *ModelInspector {
	return &ModelInspector{
		client: client,
		stats:  orNoopStats(stats),
		logger: log,
	}
}

func (i *ModelInspector) Inspect(ctx context.Context, server string, summary domain.ModelSummary) *domain.ModelRecord {
	body, err := i.client.DescribeModel(ctx, server, summary.Name)
	if err != nil {
		i.logger.WarnWithModel("Failed to inspect", server, summary.Name, "error", err)
		i.stats.RecordModel(true)
		return degradedRecord(server, summary, err)
	}

	doc := NewModelDocument(body)
	record := &domain.ModelRecord{
		Name:          summary.Name,
		Server:        server,
		Size:          summary.Size,
		SizeFormatted: format.Bytes(util.SafeUint64(summary.Size)),
		ModifiedAt:    summary.ModifiedAt,
		Digest:        shortDigest(summary.Digest),
		Capabilities:  doc.Strings("capabilities"),
		Parameters:    doc.String("details.parameter_size"),
		Quantization:  doc.String("details.quantization_level"),
		Family:        doc.String("details.family"),
		Format:        doc.String("details.format"),
		ParentModel:   doc.String("details.parent_model"),
	}
	if ctxLen, ok := doc.ContextLength(); ok {
		record.ContextLength = &ctxLen
	}

	i.stats.RecordModel(false)
	return record
}

func degradedRecord(server string, summary domain.ModelSummary, err error) *domain.ModelRecord {
	return &domain.ModelRecord{
		Name:          summary.Name,
		Server:        server,
		Size:          summary.Size,
		SizeFormatted: format.Bytes(util.SafeUint64(summary.Size)),
		ModifiedAt:    summary.ModifiedAt,
		Capabilities:  []string{},
		Error:         err.Error(),
	}
}

// shortDigest keeps the first 12 characters, counted in runes so a
// multi-byte digest is never cut mid-character
func shortDigest(digest string) string {
	runes := []rune(digest)
	if len(runes) <= digestLength {
		return digest
	}
	return string(runes[:digestLength])
}
