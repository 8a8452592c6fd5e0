// Package memindex provides an in-process BM25 inverted index over chunk
// content. The index lives in memory and is rebuilt at startup from the
// chunk store, which keeps the durable copy.
package memindex

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/passim-search/passim/internal/core/domain"
	"github.com/passim-search/passim/internal/core/ports/driven"
)

// BM25 weighting parameters.
const (
	DefaultB  = 0.75
	DefaultK1 = 1.5
)

// Ensure Index implements the interface.
var _ driven.LexicalIndex = (*Index)(nil)

// posting is one chunk's term frequency for a given term.
type posting struct {
	chunkID string
	freq    int
}

// entry is one indexed chunk with its stored fields and length.
type entry struct {
	doc    driven.LexicalDoc
	length int
}

// Index is an in-memory BM25 index keyed by chunk id.
type Index struct {
	b  float64
	k1 float64

	mu       sync.RWMutex
	entries  map[string]entry     // chunkID -> stored fields
	postings map[string][]posting // term -> postings
	byDoc    map[string][]string  // docID -> chunkIDs
	totalLen int
}

// New creates an empty index with the given BM25 parameters.
func New(b, k1 float64) *Index {
	return &Index{
		b:        b,
		k1:       k1,
		entries:  make(map[string]entry),
		postings: make(map[string][]posting),
		byDoc:    make(map[string][]string),
	}
}

// NewDefault creates an empty index with the default BM25 parameters.
func NewDefault() *Index {
	return New(DefaultB, DefaultK1)
}

// Load bulk-indexes chunk rows, grouped by document. Used to rebuild the
// index from the chunk store at startup.
func (ix *Index) Load(ctx context.Context, docs []driven.LexicalDoc) error {
	byDoc := make(map[string][]driven.LexicalDoc)
	var order []string
	for _, d := range docs {
		if _, seen := byDoc[d.DocID]; !seen {
			order = append(order, d.DocID)
		}
		byDoc[d.DocID] = append(byDoc[d.DocID], d)
	}
	for _, docID := range order {
		if err := ix.WriteBatch(ctx, byDoc[docID]); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch replaces one document's chunks. All rows in the batch must
// share a doc id; the swap happens under a single write lock so readers
// never see a partial batch.
func (ix *Index) WriteBatch(_ context.Context, docs []driven.LexicalDoc) error {
	if len(docs) == 0 {
		return nil
	}
	docID := docs[0].DocID
	for _, d := range docs {
		if d.DocID != docID {
			return domain.ErrInvalidInput
		}
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.removeDocLocked(docID)
	for _, d := range docs {
		terms := Tokenize(d.Content)
		ix.entries[d.ChunkID] = entry{doc: d, length: len(terms)}
		ix.byDoc[docID] = append(ix.byDoc[docID], d.ChunkID)
		ix.totalLen += len(terms)
		for term, freq := range termFreqs(terms) {
			ix.postings[term] = append(ix.postings[term], posting{chunkID: d.ChunkID, freq: freq})
		}
	}
	return nil
}

// removeDocLocked drops a document's chunks and their postings.
// Caller holds the write lock.
func (ix *Index) removeDocLocked(docID string) {
	chunkIDs := ix.byDoc[docID]
	if len(chunkIDs) == 0 {
		return
	}
	removed := make(map[string]bool, len(chunkIDs))
	for _, id := range chunkIDs {
		removed[id] = true
		ix.totalLen -= ix.entries[id].length
		delete(ix.entries, id)
	}
	for term, list := range ix.postings {
		kept := list[:0]
		for _, p := range list {
			if !removed[p.chunkID] {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			delete(ix.postings, term)
		} else {
			ix.postings[term] = kept
		}
	}
	delete(ix.byDoc, docID)
}

// Search scores all chunks matching any query term with BM25 and returns
// the topK by descending score.
func (ix *Index) Search(_ context.Context, query string, topK int) ([]driven.LexicalHit, error) {
	terms := Tokenize(query)
	if len(terms) == 0 || topK <= 0 {
		return nil, nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	n := len(ix.entries)
	if n == 0 {
		return nil, nil
	}
	avgLen := float64(ix.totalLen) / float64(n)
	if avgLen == 0 {
		avgLen = 1
	}

	scores := make(map[string]float64)
	for term, freq := range termFreqs(terms) {
		list := ix.postings[term]
		if len(list) == 0 {
			continue
		}
		// BM25 idf with the +1 floor so common terms never score negative.
		idf := math.Log(1 + (float64(n)-float64(len(list))+0.5)/(float64(len(list))+0.5))
		for _, p := range list {
			tf := float64(p.freq)
			docLen := float64(ix.entries[p.chunkID].length)
			norm := tf * (ix.k1 + 1) / (tf + ix.k1*(1-ix.b+ix.b*docLen/avgLen))
			scores[p.chunkID] += float64(freq) * idf * norm
		}
	}
	if len(scores) == 0 {
		return nil, nil
	}

	hits := make([]driven.LexicalHit, 0, len(scores))
	for chunkID, score := range scores {
		hits = append(hits, driven.LexicalHit{Score: score, Doc: ix.entries[chunkID].doc})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Doc.ChunkID < hits[j].Doc.ChunkID
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// GetByChunkID loads the stored fields for one chunk key.
func (ix *Index) GetByChunkID(_ context.Context, chunkID string) (*driven.LexicalDoc, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	e, ok := ix.entries[chunkID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc := e.doc
	return &doc, nil
}

// Documents lists the distinct indexed documents sorted by title.
func (ix *Index) Documents(_ context.Context) ([]domain.DocumentInfo, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	infos := make([]domain.DocumentInfo, 0, len(ix.byDoc))
	for docID, chunkIDs := range ix.byDoc {
		title := ""
		if len(chunkIDs) > 0 {
			title = ix.entries[chunkIDs[0]].doc.Title
		}
		infos = append(infos, domain.DocumentInfo{
			DocID:      docID,
			Title:      title,
			ChunkCount: len(chunkIDs),
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Title != infos[j].Title {
			return infos[i].Title < infos[j].Title
		}
		return infos[i].DocID < infos[j].DocID
	})
	return infos, nil
}

// Wipe removes everything from the index.
func (ix *Index) Wipe(_ context.Context) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.entries = make(map[string]entry)
	ix.postings = make(map[string][]posting)
	ix.byDoc = make(map[string][]string)
	ix.totalLen = 0
	return nil
}

// Close releases resources. The index is in-memory so this is a no-op.
func (ix *Index) Close() error {
	return nil
}

// Tokenize lowercases and splits on non-alphanumeric runes.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func termFreqs(terms []string) map[string]int {
	freqs := make(map[string]int, len(terms))
	for _, t := range terms {
		freqs[t]++
	}
	return freqs
}
