// Package literature defines the core domain types for bibliographic records.
package literature

// Item represents one bibliographic record, normalized from either the
// Zotero Web API JSON shape or the local SQLite snapshot.
type Item struct {
	// Identity
	Key string `json:"key"` // Stable Zotero item key, unique within a source

	// Metadata
	Title            string    `json:"title"`
	Creators         []Creator `json:"creators"`
	Date             string    `json:"date"` // Free-text date as entered upstream
	Abstract         string    `json:"abstractNote"`
	PublicationTitle string    `json:"publicationTitle"`
	ItemType         string    `json:"itemType"` // journalArticle, thesis, conferencePaper, book, ...
	Tags             []Tag     `json:"tags"`
	Notes            []string  `json:"notes"`
	DateAdded        string    `json:"dateAdded"` // ISO-8601
	DateModified     string    `json:"dateModified,omitempty"`
	URL              string    `json:"url,omitempty"`
	DOI              string    `json:"DOI,omitempty"`
	Pages            string    `json:"pages,omitempty"`
	Volume           string    `json:"volume,omitempty"`
	Issue            string    `json:"issue,omitempty"`
	Publisher        string    `json:"publisher,omitempty"`
	Language         string    `json:"language,omitempty"`
	ParentItem       string    `json:"parentItem,omitempty"` // Set on child notes and attachments

	// Derived fields, recomputed on every load. Never trusted from upstream
	// data because no authoritative flag exists there.
	Year    int  `json:"-"` // Parsed from Date, 0 if unparseable
	Foreign bool `json:"-"` // Classification output, see Classify
}

// Creator represents one author/editor entry in citation order.
// Either Name or FirstName/LastName is populated, matching the two
// creator shapes Zotero emits.
type Creator struct {
	Name      string `json:"name,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Tag represents a single item tag.
type Tag struct {
	Tag string `json:"tag"`
}

// DisplayName returns the creator's display form: the single-field name if
// present, otherwise "Last First", otherwise whichever part exists.
func (c Creator) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	if c.LastName != "" && c.FirstName != "" {
		return c.LastName + " " + c.FirstName
	}
	if c.LastName != "" {
		return c.LastName
	}
	return c.FirstName
}

// TagNames returns the non-empty tag strings of an item.
func (it Item) TagNames() []string {
	var names []string
	for _, t := range it.Tags {
		if t.Tag != "" {
			names = append(names, t.Tag)
		}
	}
	return names
}

// FirstAuthor returns the display name of the first creator, or "" if the
// item has no creators.
func (it Item) FirstAuthor() string {
	for _, c := range it.Creators {
		if name := c.DisplayName(); name != "" {
			return name
		}
	}
	return ""
}
