package domain

import "time"

// Domain contains core models and interfaces.

// Article is a harvested Infomedia article flattened for downstream consumers.
// Text fields hold plain text; the HTML the API returns is stripped during harvest.
type Article struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Heading     string    `json:"heading"`
	SubHeading  string    `json:"sub_heading,omitempty"`
	Lead        string    `json:"lead,omitempty"`
	Text        string    `json:"text"`
	Paragraph   string    `json:"paragraph,omitempty"`
	Authors     []string  `json:"authors,omitempty"`
	Captions    []string  `json:"captions,omitempty"`
	PageIDs     []string  `json:"page_ids,omitempty"`
	Section     string    `json:"section,omitempty"`
	URL         string    `json:"url,omitempty"`
	WordCount   int       `json:"word_count"`
	PublishedAt time.Time `json:"published_at"`
}
