package pipeline

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/jjgarcianorway/annad/internal/fact"
	"github.com/jjgarcianorway/annad/internal/guard"
)

// RecordObservations upserts every reading in evidence into store as a Fact,
// feeding the fact store from the same probe output the answer and guard
// check already used (spec §4.10: facts accumulate from probe observations,
// not from a separate ingestion path).
func RecordObservations(ctx context.Context, store fact.Store, evidence guard.Evidence, probeID string, logger *slog.Logger) {
	if store == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}

	source := "probe:" + probeID

	upsert := func(entity, attribute, value string) {
		if _, err := store.Upsert(ctx, fact.Fact{
			Entity:     entity,
			Attribute:  attribute,
			Value:      value,
			Source:     source,
			Confidence: 0.9,
		}); err != nil {
			logger.Warn("pipeline: fact upsert failed", "entity", entity, "attribute", attribute, "error", err)
		}
	}

	if evidence.Memory != nil {
		upsert("memory", "percent_used", strconv.Itoa(int(evidence.Memory.PercentUsed())))
		upsert("memory", "used_bytes", strconv.FormatUint(evidence.Memory.UsedBytes, 10))
	}
	for _, d := range evidence.Disk {
		upsert("disk:"+d.Mount, "percent_used", strconv.Itoa(int(d.PercentUsed)))
	}
	for _, svc := range evidence.Services {
		upsert("svc:"+svc.Name, "state", string(svc.State))
	}
}
