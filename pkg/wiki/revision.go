// Package wiki fetches page revision histories from the MediaWiki Action API.
package wiki

// Revision is one recorded version of a page, oldest-first in a history.
//
// Both fields are optional on the wire. The username is absent when it has
// been revision-deleted (the API sets "userhidden" instead), and the size can
// be absent on damaged historical entries. Defaults are substituted exactly
// once, by the diff processor, never here.
type Revision struct {
	User *string `json:"user,omitempty"`
	Size *int    `json:"size,omitempty"`
}

// PageHistory is the complete chronological revision history of a page.
// The title is the canonical form reported by the API, which may differ
// from the requested title in capitalization or underscores.
type PageHistory struct {
	Title     string     `json:"title"`
	Revisions []Revision `json:"revisions"`
}
