package source

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/hekang/thesis-tools/internal/literature"
)

// itemFields are the metadata fields resolved per item through correlated
// lookups into itemData. Order matches the Scan call below.
var itemFields = []string{
	"title", "date", "publicationTitle", "abstractNote", "language",
	"DOI", "url", "volume", "issue", "pages", "publisher",
}

// fieldLookup is the correlated subquery resolving one named field for the
// current item row.
const fieldLookup = `COALESCE((
    SELECT idv.value
    FROM itemData id
    JOIN fields f ON f.fieldID = id.fieldID
    JOIN itemDataValues idv ON idv.valueID = id.valueID
    WHERE id.itemID = i.itemID AND f.fieldName = '%s'), '')`

// buildItemsQuery assembles the items query. Attachments, notes and
// trashed items are excluded at the source.
func buildItemsQuery() string {
	cols := []string{
		"i.itemID", "i.key", "it.typeName", "i.dateAdded", "i.dateModified",
	}
	for _, f := range itemFields {
		cols = append(cols, fmt.Sprintf(fieldLookup, f))
	}
	return `SELECT ` + strings.Join(cols, ",\n    ") + `
FROM items i
JOIN itemTypes it ON it.itemTypeID = i.itemTypeID
WHERE it.typeName NOT IN ('attachment', 'note', 'annotation')
  AND i.itemID NOT IN (SELECT itemID FROM deletedItems)
ORDER BY i.dateAdded DESC`
}

const creatorsQuery = `
SELECT c.firstName, c.lastName, c.fieldMode
FROM itemCreators ic
JOIN creators c ON c.creatorID = ic.creatorID
WHERE ic.itemID = ?
ORDER BY ic.orderIndex`

const tagsQuery = `
SELECT t.name
FROM itemTags it
JOIN tags t ON t.tagID = it.tagID
WHERE it.itemID = ?`

const notesQuery = `
SELECT n.note
FROM itemNotes n
WHERE n.parentItemID = ?`

// LoadItemsSQLite reads the literature pool from a local Zotero database.
// Only SELECT statements are issued, so a running Zotero client is not
// disturbed.
func LoadItemsSQLite(path string) ([]literature.Item, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("zotero database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening zotero database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	rows, err := db.Query(buildItemsQuery())
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var (
		items   []literature.Item
		itemIDs []int64
	)
	for rows.Next() {
		var (
			id int64
			it literature.Item
		)
		if err := rows.Scan(
			&id, &it.Key, &it.ItemType, &it.DateAdded, &it.DateModified,
			&it.Title, &it.Date, &it.PublicationTitle, &it.Abstract,
			&it.Language, &it.DOI, &it.URL,
			&it.Volume, &it.Issue, &it.Pages, &it.Publisher,
		); err != nil {
			return nil, fmt.Errorf("scanning item row: %w", err)
		}
		items = append(items, it)
		itemIDs = append(itemIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading items: %w", err)
	}

	for i, id := range itemIDs {
		creators, err := loadCreators(db, id)
		if err != nil {
			return nil, err
		}
		items[i].Creators = creators

		tags, err := loadTags(db, id)
		if err != nil {
			return nil, err
		}
		items[i].Tags = tags

		notes, err := loadNotes(db, id)
		if err != nil {
			return nil, err
		}
		items[i].Notes = notes

		Derive(&items[i])
	}
	return items, nil
}

// LoadForeignSQLite reads the local database and keeps only the records
// classified as foreign-language literature.
func LoadForeignSQLite(path string) ([]literature.Item, error) {
	items, err := LoadItemsSQLite(path)
	if err != nil {
		return nil, err
	}
	foreign := items[:0]
	for _, it := range items {
		if it.Foreign {
			foreign = append(foreign, it)
		}
	}
	return foreign, nil
}

func loadCreators(db *sql.DB, itemID int64) ([]literature.Creator, error) {
	rows, err := db.Query(creatorsQuery, itemID)
	if err != nil {
		return nil, fmt.Errorf("querying creators: %w", err)
	}
	defer rows.Close()

	var creators []literature.Creator
	for rows.Next() {
		var (
			first, last sql.NullString
			fieldMode   int
		)
		if err := rows.Scan(&first, &last, &fieldMode); err != nil {
			return nil, fmt.Errorf("scanning creator row: %w", err)
		}
		var c literature.Creator
		if fieldMode == 1 {
			// Single-field names live in the lastName column.
			c.Name = last.String
		} else {
			c.FirstName = first.String
			c.LastName = last.String
		}
		creators = append(creators, c)
	}
	return creators, rows.Err()
}

// loadNotes collects the bodies of child notes attached to an item, so
// pools loaded from the local database carry the same note information as
// pools fetched from the API.
func loadNotes(db *sql.DB, itemID int64) ([]string, error) {
	rows, err := db.Query(notesQuery, itemID)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	var notes []string
	for rows.Next() {
		var note string
		if err := rows.Scan(&note); err != nil {
			return nil, fmt.Errorf("scanning note row: %w", err)
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func loadTags(db *sql.DB, itemID int64) ([]literature.Tag, error) {
	rows, err := db.Query(tagsQuery, itemID)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	var tags []literature.Tag
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning tag row: %w", err)
		}
		tags = append(tags, literature.Tag{Tag: name})
	}
	return tags, rows.Err()
}
