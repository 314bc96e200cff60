package infomedia

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// BuildIQL renders the search expression for sources published in [from, to].
// The date clause must use the same bounds as the request's SearchRange.
func BuildIQL(sources []string, from, to time.Time) string {
	return fmt.Sprintf("sourcecode:[%s] AND publishdate:[%s..%s]",
		strings.Join(sources, ","), formatInstant(from), formatInstant(to))
}

// SearchArticleIDsBySource finds the ids of articles published by a single source
// between publishDate and publishDate+publishDuration.
func (c *Connector) SearchArticleIDsBySource(ctx context.Context, publishDate time.Time, publishDuration time.Duration, source string) (IDSet, error) {
	return c.SearchArticleIDs(ctx, publishDate, publishDuration, source)
}

// SearchArticleIDs finds the ids of articles published by any of sources between
// publishDate and publishDate+publishDuration, walking every result page.
//
// The service does not keep a stable order between pages, so a page may repeat
// ids seen earlier and miss others; duplicates collapse in the returned set and
// nothing tries to recover the missed ones. The loop trusts NumFound and stops
// once the offset reaches it.
func (c *Connector) SearchArticleIDs(ctx context.Context, publishDate time.Time, publishDuration time.Duration, sources ...string) (IDSet, error) {
	codes := normalizeSources(sources)
	if len(codes) == 0 {
		return nil, fmt.Errorf("%w: at least one source is required", ErrInvalidArgument)
	}
	if publishDuration <= 0 {
		return nil, fmt.Errorf("%w: publish duration must be positive, got %s", ErrInvalidArgument, publishDuration)
	}

	from := publishDate
	to := publishDate.Add(publishDuration)
	iql := BuildIQL(codes, from, to)
	searchRange := NewSearchRange(from, to)
	pageSize := c.PageSize()

	result := make(IDSet)
	pages := 0
	for offset := 0; ; {
		body, err := json.Marshal(ArticleSearchRequest{
			IqlQuery:        iql,
			PagingParameter: PagingParameter{StartIndex: offset, PageSize: pageSize},
			SearchRange:     searchRange,
		})
		if err != nil {
			return nil, fmt.Errorf("encode search request: %w", err)
		}

		var page ArticleSearchResult
		if err := c.postJSON(ctx, pathArticleSearch, body, "ArticleSearchResult", &page); err != nil {
			return nil, fmt.Errorf("search page at offset %d: %w", offset, err)
		}
		pages++
		result.Union(page.ArticleIDs())

		offset += pageSize
		if offset >= page.NumFound {
			c.log.DebugObj("infomedia search completed", "infomedia_search", map[string]any{
				"sources":   codes,
				"from":      searchRange.SearchFrom,
				"to":        searchRange.SearchTo,
				"pages":     pages,
				"num_found": page.NumFound,
				"ids":       result.Len(),
			})
			break
		}
	}

	return result, nil
}

// normalizeSources trims, dedupes and sorts source codes so the IQL is deterministic.
func normalizeSources(sources []string) []string {
	seen := make(map[string]struct{}, len(sources))
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
