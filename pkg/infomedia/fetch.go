package infomedia

import (
	"context"
	"encoding/json"
	"fmt"
)

// GetArticles fetches the full records for ids in one request.
//
// An empty or nil set returns an empty list without contacting the service,
// which answers an empty request with a differently shaped document.
func (c *Connector) GetArticles(ctx context.Context, ids IDSet) (*ArticleList, error) {
	if len(ids) == 0 {
		return &ArticleList{Articles: []Article{}}, nil
	}

	body, err := json.Marshal(ids.Sorted())
	if err != nil {
		return nil, fmt.Errorf("encode fetch request: %w", err)
	}

	var list ArticleList
	if err := c.postJSON(ctx, pathArticleFetch, body, "ArticleList", &list); err != nil {
		return nil, fmt.Errorf("fetch %d articles: %w", len(ids), err)
	}
	if list.Articles == nil {
		list.Articles = []Article{}
	}
	return &list, nil
}

// GetArticlesByID is GetArticles for a plain id list.
func (c *Connector) GetArticlesByID(ctx context.Context, ids ...string) (*ArticleList, error) {
	return c.GetArticles(ctx, NewIDSet(ids...))
}
