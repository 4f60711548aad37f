package store

import (
	"slices"
	"sync"

	"github.com/nedpals/hlasmls/types"
	lsp "go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

type Document struct {
	URI        uri.URI
	LanguageID string
	Version    int32
	text       *types.Rope
}

// Text returns a snapshot of the document contents.
func (doc *Document) Text() string {
	return doc.text.ToString()
}

type Store struct {
	mu sync.RWMutex
	// a map of document uris mapped to document contents
	documents map[uri.URI]*Document
}

func NewStore() *Store {
	return &Store{
		documents: map[uri.URI]*Document{},
	}
}

func (st *Store) Open(docUri uri.URI, languageId string, version int32, content string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.documents[docUri] = &Document{
		URI:        docUri,
		LanguageID: languageId,
		Version:    version,
		text:       types.NewRope(content),
	}
}

func isWholeDocumentChange(change lsp.TextDocumentContentChangeEvent) bool {
	return change.Range == (lsp.Range{}) && change.RangeLength == 0
}

// Apply edits an open document and returns false if it is not open.
// Changes without a range replace the whole text, which is what clients
// send under full synchronization.
func (st *Store) Apply(docUri uri.URI, version int32, changes []lsp.TextDocumentContentChangeEvent) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	doc, ok := st.documents[docUri]
	if !ok {
		return false
	}

	for _, change := range changes {
		if isWholeDocumentChange(change) {
			doc.text = types.NewRope(change.Text)
			continue
		}

		startOffset := doc.text.OffsetFromPosition(change.Range.Start)
		endOffset := doc.text.OffsetFromPosition(change.Range.End)

		if endOffset > startOffset {
			doc.text.Delete(startOffset, endOffset-startOffset)
		}

		doc.text.Insert(startOffset, change.Text)
	}

	doc.Version = version
	return true
}

func (st *Store) Close(docUri uri.URI) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.documents, docUri)
}

// Get returns a copy of the document so callers never observe later edits.
func (st *Store) Get(docUri uri.URI) (Document, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	doc, ok := st.documents[docUri]
	if !ok {
		return Document{}, false
	}

	return Document{
		URI:        doc.URI,
		LanguageID: doc.LanguageID,
		Version:    doc.Version,
		text:       types.NewRope(doc.text.ToString()),
	}, true
}

// URIs lists the open documents in a stable order.
func (st *Store) URIs() []uri.URI {
	st.mu.RLock()
	defer st.mu.RUnlock()

	uris := make([]uri.URI, 0, len(st.documents))
	for docUri := range st.documents {
		uris = append(uris, docUri)
	}

	slices.Sort(uris)
	return uris
}
