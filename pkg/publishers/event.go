package publishers

import (
	"time"

	"github.com/Adda-Baaj/infomedia-harvester/internal/domain"
)

// Event is the payload published downstream for every harvested article.
type Event struct {
	SourceID    string         `json:"source_id"`
	SourceName  string         `json:"source_name"`
	Article     domain.Article `json:"article"`
	CollectedAt time.Time      `json:"collected_at"`
}

// NewEvent wraps an article harvested for the given source group.
func NewEvent(sourceID, sourceName string, article domain.Article) Event {
	return Event{
		SourceID:    sourceID,
		SourceName:  sourceName,
		Article:     article,
		CollectedAt: time.Now().UTC(),
	}
}

// attributes are attached as message metadata by the queue publishers.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"source_id":  e.SourceID,
		"article_id": e.Article.ID,
	}
}
