package wizard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// keySeparator joins candidate fields into the submitted identity. It may not
// appear inside any field.
const keySeparator = "|"

// candidateFields is the number of positional fields in a search result row.
const candidateFields = 6

// Candidate is one indexer search hit.
type Candidate struct {
	DatabaseLabel *string
	IndexerKey    string
	URLPrefix     string
	URLSuffix     string
	DisplayName   string
	StartDate     *string // nil when the air date is unknown
}

// Key joins every field with "|". It is the identity posted as whichSeries.
func (c Candidate) Key() string {
	return strings.Join([]string{
		deref(c.DatabaseLabel),
		c.IndexerKey,
		c.URLPrefix,
		c.URLSuffix,
		c.DisplayName,
		deref(c.StartDate),
	}, keySeparator)
}

// DetailURL builds the indexer detail page link, routed through the
// anonymiser prefix and tagged with the response language id when present.
func (c Candidate) DetailURL(anonRedirect, langID string) string {
	link := anonRedirect + c.URLPrefix + c.URLSuffix
	if langID != "" {
		link += "&lid=" + langID
	}
	return link
}

// DatePhrase describes the start date relative to now, or returns "" when
// the date is unknown.
func (c Candidate) DatePhrase(now time.Time) string {
	if c.StartDate == nil {
		return ""
	}
	verb := "started"
	if start, ok := parseStartDate(*c.StartDate); ok && start.After(now) {
		verb = "will debut"
	}
	return verb + " on " + *c.StartDate
}

// Tag returns the "[label]" marker for candidates carrying a database label.
func (c Candidate) Tag() string {
	if c.DatabaseLabel == nil {
		return ""
	}
	return "[" + *c.DatabaseLabel + "]"
}

// SelectHelp is the hover help for the selection control.
func (c Candidate) SelectHelp() string {
	return "Add show " + c.DisplayName
}

// LinkHelp is the hover help for the detail link.
func (c Candidate) LinkHelp() string {
	return "View detail for " + c.DisplayName
}

var startDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2006-01",
	"2006",
}

func parseStartDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range startDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DecodeCandidates turns positional search rows into candidates, keeping
// response order. Rows that are malformed or would produce an ambiguous key
// are returned in skipped.
func DecodeCandidates(rows [][]json.RawMessage) (candidates []Candidate, skipped []error) {
	candidates = make([]Candidate, 0, len(rows))
	for i, row := range rows {
		c, err := decodeCandidate(row)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("result %d: %w", i, err))
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, skipped
}

func decodeCandidate(row []json.RawMessage) (Candidate, error) {
	if len(row) < candidateFields {
		return Candidate{}, fmt.Errorf("expected %d fields, got %d", candidateFields, len(row))
	}

	fields := make([]*string, candidateFields)
	for i := 0; i < candidateFields; i++ {
		value, err := decodeField(row[i])
		if err != nil {
			return Candidate{}, fmt.Errorf("field %d: %w", i, err)
		}
		if value != nil && strings.Contains(*value, keySeparator) {
			return Candidate{}, fmt.Errorf("field %d contains %q", i, keySeparator)
		}
		fields[i] = value
	}

	return Candidate{
		DatabaseLabel: fields[0],
		IndexerKey:    deref(fields[1]),
		URLPrefix:     deref(fields[2]),
		URLSuffix:     deref(fields[3]),
		DisplayName:   deref(fields[4]),
		StartDate:     fields[5],
	}, nil
}

// decodeField reads a JSON string, number or null. Numbers keep their
// decimal text so keys match what the server sent.
func decodeField(raw json.RawMessage) (*string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("expected string, number or null, got %s", raw)
	}
	s := n.String()
	return &s, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
