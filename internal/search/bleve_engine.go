package search

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"snooze/internal/storage"
)

type bleveEngine struct {
	store *storage.Store
	idx   bleve.Index
}

// NewBleveEngine creates or opens a Bleve index at indexPath and indexes the
// current feed snapshot.
func NewBleveEngine(store *storage.Store, indexPath string) (Searcher, error) {
	var idx bleve.Index
	var err error

	if mkErr := os.MkdirAll(filepath.Dir(indexPath), 0o755); mkErr != nil {
		// Open/Create below will surface the real failure
		_ = mkErr
	}

	idx, err = bleve.Open(indexPath)
	if err != nil {
		idxMapping := buildIndexMapping()
		idx, err = bleve.New(indexPath, idxMapping)
		if err != nil {
			return nil, err
		}
	}

	be := &bleveEngine{store: store, idx: idx}
	snap, err := store.FeedSnapshot()
	if err != nil {
		return nil, err
	}
	if snap != nil {
		be.OnFeedUpdated(snap.Stories)
	}
	return be, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true
	title.IncludeTermVectors = true

	author := bleve.NewTextFieldMapping()
	author.Analyzer = standard.Name
	author.Store = true

	username := bleve.NewTextFieldMapping()
	username.Analyzer = standard.Name
	username.Store = true

	url := bleve.NewTextFieldMapping()
	url.Analyzer = standard.Name
	url.Store = true

	created := bleve.NewTextFieldMapping()
	created.Store = true
	created.Index = false

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("author", author)
	dm.AddFieldMappingsAt("username", username)
	dm.AddFieldMappingsAt("url", url)
	dm.AddFieldMappingsAt("created_at", created)

	im.DefaultMapping = dm
	return im
}

// OnFeedUpdated replaces the index contents with the new snapshot. The
// snapshot replaces the feed wholesale, so stale documents are deleted
// rather than left behind.
func (b *bleveEngine) OnFeedUpdated(stories []storage.CachedStory) {
	fresh := make(map[string]struct{}, len(stories))
	for i := range stories {
		fresh[docID(stories[i].ID)] = struct{}{}
	}

	batch := b.idx.NewBatch()
	for _, staleID := range b.allDocIDs() {
		if _, ok := fresh[staleID]; !ok {
			batch.Delete(staleID)
		}
	}
	for i := range stories {
		s := &stories[i]
		_ = batch.Index(docID(s.ID), map[string]any{
			"title":      s.Title,
			"author":     s.Author,
			"username":   s.Username,
			"url":        s.URL,
			"created_at": s.CreatedAt.Format(time.RFC3339),
		})
	}
	_ = b.idx.Batch(batch)
}

func (b *bleveEngine) allDocIDs() []string {
	var ids []string
	q := bleve.NewMatchAllQuery()
	from := 0
	size := 1000
	for {
		req := bleve.NewSearchRequestOptions(q, size, from, false)
		res, err := b.idx.Search(req)
		if err != nil || res == nil || len(res.Hits) == 0 {
			break
		}
		for _, h := range res.Hits {
			ids = append(ids, h.ID)
		}
		if len(res.Hits) < size {
			break
		}
		from += size
	}
	return ids
}

func (b *bleveEngine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}

	// OR of per-term matches across key fields with boosts
	tokens := tokenize(query)
	var qs []bleveQuery.Query
	for _, tok := range tokens {
		// title^4
		qt := bleve.NewMatchQuery(tok)
		qt.SetField("title")
		qt.SetBoost(4.0)
		qs = append(qs, qt)
		qtp := bleve.NewPrefixQuery(strings.ToLower(tok))
		qtp.SetField("title")
		qtp.SetBoost(3.5)
		qs = append(qs, qtp)
		// author^2
		qa := bleve.NewMatchQuery(tok)
		qa.SetField("author")
		qa.SetBoost(2.0)
		qs = append(qs, qa)
		qap := bleve.NewPrefixQuery(strings.ToLower(tok))
		qap.SetField("author")
		qap.SetBoost(1.8)
		qs = append(qs, qap)
		// username^1.5
		qu := bleve.NewMatchQuery(tok)
		qu.SetField("username")
		qu.SetBoost(1.5)
		qs = append(qs, qu)
		// url^0.5
		ql := bleve.NewMatchQuery(tok)
		ql.SetField("url")
		ql.SetBoost(0.5)
		qs = append(qs, ql)
		qlp := bleve.NewPrefixQuery(strings.ToLower(tok))
		qlp.SetField("url")
		qlp.SetBoost(0.3)
		qs = append(qs, qlp)
	}
	if len(qs) == 0 {
		return []*Result{}, nil
	}

	q := bleve.NewDisjunctionQuery(qs...)
	srch := bleve.NewSearchRequestOptions(q, limit, 0, false)
	srch.Fields = []string{"title", "author", "username", "url", "created_at"}
	res, err := b.idx.Search(srch)
	if err != nil {
		return nil, err
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		s := &storage.CachedStory{ID: strings.TrimPrefix(h.ID, "story:")}
		if t, ok := h.Fields["title"].(string); ok {
			s.Title = t
		}
		if a, ok := h.Fields["author"].(string); ok {
			s.Author = a
		}
		if u, ok := h.Fields["username"].(string); ok {
			s.Username = u
		}
		if u, ok := h.Fields["url"].(string); ok {
			s.URL = u
		}
		if c, ok := h.Fields["created_at"].(string); ok {
			if ts, parseErr := time.Parse(time.RFC3339, c); parseErr == nil {
				s.CreatedAt = ts
			}
		}
		out = append(out, &Result{Story: s, Score: h.Score})
	}
	return out, nil
}

// DocCount reports total documents in the index.
func (b *bleveEngine) DocCount() (int, error) {
	q := bleve.NewMatchAllQuery()
	req := bleve.NewSearchRequestOptions(q, 0, 0, false)
	res, err := b.idx.Search(req)
	if err != nil {
		return 0, err
	}
	return int(res.Total), nil
}

// Close releases the underlying index.
func (b *bleveEngine) Close() error {
	return b.idx.Close()
}

func docID(storyID string) string { return "story:" + storyID }
