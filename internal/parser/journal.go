package parser

import "strings"

// JournalEntry is one parsed `journalctl` line in the short output format:
// "Mon DD HH:MM:SS host unit[pid]: message".
type JournalEntry struct {
	Timestamp string
	Host      string
	Unit      string
	Message   string
}

// ParseJournal parses `journalctl -n N --no-pager` stdout. Malformed lines
// (fewer than the minimum timestamp+host+message tokens) are skipped rather
// than failing the whole batch — journal lines are inherently free-text and
// a single odd line should not blank out the rest of the window.
func ParseJournal(_, output string) ([]JournalEntry, error) {
	var entries []JournalEntry
	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, " ", 5)
		if len(parts) < 5 {
			continue
		}
		timestamp := strings.Join(parts[0:3], " ")
		host := parts[3]
		rest := parts[4]

		unit := ""
		message := rest
		if idx := strings.Index(rest, ": "); idx >= 0 {
			unit = strings.TrimSuffix(rest[:idx], "]")
			if br := strings.Index(unit, "["); br >= 0 {
				unit = unit[:br]
			}
			message = rest[idx+2:]
		}

		entries = append(entries, JournalEntry{
			Timestamp: timestamp,
			Host:      host,
			Unit:      unit,
			Message:   message,
		})
	}
	if entries == nil {
		entries = []JournalEntry{}
	}
	return entries, nil
}
