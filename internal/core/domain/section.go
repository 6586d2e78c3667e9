package domain

// Section is a titled span of a document delimited by top-level headings.
type Section struct {
	// Title is the heading text without markers.
	Title string `json:"title"`

	// Content is the text between this heading and the next one.
	Content string `json:"content"`

	// Component is the presentation component assigned by heading name.
	// Empty when the section was produced by the plain splitter.
	Component string `json:"component,omitempty"`

	// ID is the anchor derived from the title.
	ID string `json:"id,omitempty"`
}

// TocItem is a table-of-contents entry.
type TocItem struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}
