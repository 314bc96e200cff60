package harvest

import (
	"context"
	"time"

	"github.com/Adda-Baaj/infomedia-harvester/pkg/infomedia"
	"github.com/Adda-Baaj/infomedia-harvester/pkg/publishers"
)

// ArticleSource is the subset of the Infomedia connector a harvest needs.
type ArticleSource interface {
	SearchArticleIDs(ctx context.Context, publishDate time.Time, publishDuration time.Duration, sources ...string) (infomedia.IDSet, error)
	GetArticles(ctx context.Context, ids infomedia.IDSet) (*infomedia.ArticleList, error)
}

// EventPublisher publishes harvested articles downstream and reports how many
// sinks accepted the event.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}
