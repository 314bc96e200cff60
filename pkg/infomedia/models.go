package infomedia

import (
	"encoding/xml"
	"sort"
	"time"
)

// Article is a single article record as returned by the fetch endpoint.
type Article struct {
	XMLName     xml.Name `json:"-" xml:"Article"`
	Heading     string   `json:"Heading" xml:"Heading"`
	SubHeading  string   `json:"SubHeading" xml:"SubHeading"`
	BodyText    string   `json:"BodyText" xml:"BodyText"`
	PageIDs     []string `json:"PageIds" xml:"PageIds>PageId"`
	PublishDate string   `json:"PublishDate" xml:"PublishDate"`
	Authors     []string `json:"Authors" xml:"Authors>Author"`
	Captions    []string `json:"Captions" xml:"Captions>Caption"`
	ArticleURL  string   `json:"ArticleUrl" xml:"ArticleUrl"`
	Paragraph   string   `json:"Paragraph" xml:"Paragraph"`
	Source      string   `json:"Source" xml:"Source"`
	WordCount   int      `json:"WordCount" xml:"WordCount"`
	ArticleID   string   `json:"ArticleId" xml:"ArticleId"`
	Section     *Section `json:"Section,omitempty" xml:"Section,omitempty"`
	Lead        string   `json:"Lead" xml:"Lead"`
}

// Section identifies the newspaper section an article was printed in.
type Section struct {
	ID   string `json:"Id" xml:"Id"`
	Name string `json:"Name" xml:"Name"`
}

// ArticleUsage is licensing metadata attached to search and fetch replies.
type ArticleUsage struct {
	ArticleUsageCount int `json:"ArticleUsageCount" xml:"ArticleUsageCount"`
	ArticleUsageType  int `json:"ArticleUsageType" xml:"ArticleUsageType"`
}

// ArticleList is the reply of the fetch endpoint. Order follows the remote reply.
type ArticleList struct {
	XMLName      xml.Name      `json:"-" xml:"ArticleList"`
	Articles     []Article     `json:"Articles" xml:"Articles>Article"`
	ArticleUsage *ArticleUsage `json:"ArticleUsage,omitempty" xml:"ArticleUsage,omitempty"`
}

// ArticleSearchResult is one page of the search endpoint.
type ArticleSearchResult struct {
	Articles     []Article     `json:"Articles"`
	NumFound     int           `json:"NumFound"`
	PagingInfo   string        `json:"PagingInfo"`
	ArticleUsage *ArticleUsage `json:"ArticleUsage,omitempty"`
}

// ArticleIDs lists the ids of the articles on the page in reply order.
func (r ArticleSearchResult) ArticleIDs() []string {
	ids := make([]string, 0, len(r.Articles))
	for _, a := range r.Articles {
		ids = append(ids, a.ArticleID)
	}
	return ids
}

// ArticleSearchRequest is the body of one search page request.
type ArticleSearchRequest struct {
	IqlQuery        string          `json:"IqlQuery"`
	PagingParameter PagingParameter `json:"PagingParameter"`
	SearchRange     SearchRange     `json:"SearchRange"`
}

// PagingParameter selects one page of a multi-page search.
type PagingParameter struct {
	StartIndex int `json:"StartIndex"`
	PageSize   int `json:"Pagesize"`
}

// SearchRange bounds a search by publish date.
type SearchRange struct {
	SearchFrom string `json:"SearchFrom"`
	SearchTo   string `json:"SearchTo"`
}

// NewSearchRange renders from/to the way the API expects (ISO-8601, UTC).
func NewSearchRange(from, to time.Time) SearchRange {
	return SearchRange{SearchFrom: formatInstant(from), SearchTo: formatInstant(to)}
}

func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

type authToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// IDSet is a set of article ids.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids, collapsing duplicates.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id and reports whether it was new.
func (s IDSet) Add(id string) bool {
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of ids.
func (s IDSet) Len() int { return len(s) }

// Union adds every id from ids.
func (s IDSet) Union(ids []string) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

// Sorted returns the ids in lexical order.
func (s IDSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
