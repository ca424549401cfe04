package telemetry

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
)

// ReadAll streams r line by line, skipping and logging malformed lines
// rather than failing the whole read (spec §4.12: "streamed read, skip
// malformed lines with a warning").
func ReadAll(r io.Reader, logger *slog.Logger) []RequestRecord {
	if logger == nil {
		logger = slog.Default()
	}

	var records []RequestRecord
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec RequestRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			logger.Warn("telemetry: skipping malformed record", "line", lineNo, "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records
}

// Aggregate summarizes a batch of records (spec §4.12: "Aggregation").
type Aggregate struct {
	TotalRequests      int
	SuccessCount       int
	ByQueryClass       map[string]int
	ByRoute            map[string]int
	AverageReliability float64
	AverageDurationMs  float64
}

// Summarize computes per-class/route counts and averages over records.
func Summarize(records []RequestRecord) Aggregate {
	agg := Aggregate{
		ByQueryClass: make(map[string]int),
		ByRoute:      make(map[string]int),
	}
	if len(records) == 0 {
		return agg
	}

	var reliabilitySum, durationSum float64
	for _, rec := range records {
		agg.TotalRequests++
		if rec.Success {
			agg.SuccessCount++
		}
		agg.ByQueryClass[rec.QueryClass]++
		agg.ByRoute[rec.RouteUsed]++
		reliabilitySum += float64(rec.Reliability)
		durationSum += float64(rec.DurationMs)
	}

	agg.AverageReliability = reliabilitySum / float64(agg.TotalRequests)
	agg.AverageDurationMs = durationSum / float64(agg.TotalRequests)
	return agg
}
