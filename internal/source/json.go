// Package source loads literature pools from the two upstream shapes: a
// JSON export file and a local Zotero SQLite database.
package source

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/hekang/thesis-tools/internal/literature"
)

// apiEnvelope matches the Zotero Web API item shape, where the record
// fields live under a "data" member.
type apiEnvelope struct {
	Key  string          `json:"key"`
	Data json.RawMessage `json:"data"`
}

// LoadItemsJSON reads a literature pool from a JSON file. Both the flat
// export shape (an array of records) and the Web API shape (an array of
// envelopes with a "data" member) are accepted. Derived fields are
// recomputed on every load.
func LoadItemsJSON(path string) ([]literature.Item, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading literature file: %w", err)
	}

	var envelopes []apiEnvelope
	if err := json.Unmarshal(raw, &envelopes); err != nil {
		return nil, fmt.Errorf("parsing literature file %s: %w", path, err)
	}

	items := make([]literature.Item, 0, len(envelopes))
	for i, env := range envelopes {
		var it literature.Item
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &it); err != nil {
				return nil, fmt.Errorf("parsing item %d: %w", i, err)
			}
			if it.Key == "" {
				it.Key = env.Key
			}
		} else {
			// Flat shape: re-parse the element itself as a record.
			var flat []literature.Item
			if err := json.Unmarshal(raw, &flat); err != nil {
				return nil, fmt.Errorf("parsing literature file %s: %w", path, err)
			}
			items = flat
			break
		}
		items = append(items, it)
	}

	kept := items[:0]
	for i := range items {
		if !usable(items[i]) {
			continue
		}
		Derive(&items[i])
		kept = append(kept, items[i])
	}
	return kept, nil
}

// usable drops records that no downstream consumer wants: child
// attachments and notes, and records without a title.
func usable(it literature.Item) bool {
	if it.ItemType == "attachment" || it.ItemType == "note" {
		return false
	}
	return strings.TrimSpace(it.Title) != ""
}

// Derive recomputes the year and foreign classification of an item from
// its stored fields.
func Derive(it *literature.Item) {
	it.Year = literature.ExtractYear(it.Date)
	it.Foreign = literature.Classify(it.Title, it.PublicationTitle, it.Language)
}

// SaveItemsJSON writes a pool to disk in the flat export shape, the format
// LoadItemsJSON reads back.
func SaveItemsJSON(path string, items []literature.Item) error {
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding literature pool: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("writing literature file: %w", err)
	}
	return nil
}
