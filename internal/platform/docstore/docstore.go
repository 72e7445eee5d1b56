package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/studyipl/tournament-api/internal/platform/id"
)

var (
	// ErrAborted is returned when a transaction callback fails; no staged
	// write is applied.
	ErrAborted = errors.New("transaction aborted")
)

// Document is one stored record. Values are plain Go types (string, bool,
// int64, float64, time.Time, []any, nested Document).
type Document map[string]any

// KeyedDocument pairs a document with its key for collection scans.
type KeyedDocument struct {
	Key string
	Doc Document
}

// Change is one event on a change stream. Exists is false for deletes.
type Change struct {
	Collection string
	Key        string
	Doc        Document
	Exists     bool
}

// Store is an in-process document store with field-level merge upserts,
// atomic read-then-write transactions and per-key/per-collection change
// streams. It mirrors the contract of the remote document backend the
// service was designed against.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
	subs        map[int64]*Subscription
	nextSubID   int64
	idGen       id.Generator
}

func New() *Store {
	return &Store{
		collections: make(map[string]map[string]Document),
		subs:        make(map[int64]*Subscription),
		idGen:       id.NewRandomGenerator(),
	}
}

func (s *Store) Get(_ context.Context, collection, key string) (Document, bool, error) {
	if collection == "" || key == "" {
		return nil, false, fmt.Errorf("collection and key are required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][key]
	if !ok {
		return nil, false, nil
	}

	return cloneDocument(doc), true, nil
}

// List returns every document in a collection ordered by key. Callers apply
// their own ordering and caps on top.
func (s *Store) List(_ context.Context, collection string) ([]KeyedDocument, error) {
	if collection == "" {
		return nil, fmt.Errorf("collection is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.collections[collection]
	out := make([]KeyedDocument, 0, len(docs))
	for key, doc := range docs {
		out = append(out, KeyedDocument{Key: key, Doc: cloneDocument(doc)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	return out, nil
}

// Upsert writes fields under (collection, key). With merge=true existing
// fields not present in the payload are preserved; with merge=false the
// stored document is replaced wholesale.
func (s *Store) Upsert(_ context.Context, collection, key string, fields Document, merge bool) error {
	if collection == "" || key == "" {
		return fmt.Errorf("collection and key are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyUpsert(collection, key, fields, merge)
	return nil
}

// Append stores fields under a generated key, like addDoc on the remote
// backend. Used for append-only event collections.
func (s *Store) Append(_ context.Context, collection string, fields Document) (string, error) {
	if collection == "" {
		return "", fmt.Errorf("collection is required")
	}

	key, err := s.idGen.NewID()
	if err != nil {
		return "", fmt.Errorf("generate document key: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyUpsert(collection, key, fields, false)
	return key, nil
}

func (s *Store) Delete(_ context.Context, collection, key string) error {
	if collection == "" || key == "" {
		return fmt.Errorf("collection and key are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		return nil
	}
	if _, ok := docs[key]; !ok {
		return nil
	}
	delete(docs, key)
	s.notifyLocked(Change{Collection: collection, Key: key, Exists: false})

	return nil
}

// Tx exposes reads and staged writes inside RunTransaction. Reads observe
// earlier staged writes of the same transaction.
type Tx struct {
	store  *Store
	staged []stagedWrite
}

type stagedWrite struct {
	collection string
	key        string
	fields     Document
	merge      bool
}

// Get previews a document as the commit would leave it: committed state
// with every staged write for the key folded in, oldest first.
func (t *Tx) Get(collection, key string) (Document, bool) {
	doc, ok := t.store.collections[collection][key]
	if ok {
		doc = cloneDocument(doc)
	}
	for _, w := range t.staged {
		if w.collection != collection || w.key != key {
			continue
		}
		if ok && w.merge {
			for field, value := range w.fields {
				doc[field] = cloneValue(value)
			}
		} else {
			doc = cloneDocument(w.fields)
		}
		ok = true
	}
	if !ok {
		return nil, false
	}
	return doc, true
}

func (t *Tx) Upsert(collection, key string, fields Document, merge bool) {
	t.staged = append(t.staged, stagedWrite{
		collection: collection,
		key:        key,
		fields:     cloneDocument(fields),
		merge:      merge,
	})
}

// RunTransaction executes fn atomically: either every staged write commits,
// or none does and the callback error is returned wrapped in ErrAborted.
// The store is locked for the duration of fn, which keeps check-and-create
// sequences free of races.
func (s *Store) RunTransaction(_ context.Context, fn func(tx *Tx) error) error {
	if fn == nil {
		return fmt.Errorf("transaction callback is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{store: s}
	if err := fn(tx); err != nil {
		return fmt.Errorf("%w: %w", ErrAborted, err)
	}

	for _, w := range tx.staged {
		s.applyUpsert(w.collection, w.key, w.fields, w.merge)
	}

	return nil
}

// Subscription is a change stream handle. C yields an initial snapshot
// event per matching document followed by every subsequent change. Close is
// idempotent and releases the stream deterministically.
type Subscription struct {
	C <-chan Change

	id      int64
	store   *Store
	ch      chan Change
	key     string
	coll    string
	dropped int
	once    sync.Once
}

const subscriptionBuffer = 64

// Subscribe opens a change stream for one document (key != "") or a whole
// collection (key == ""). Slow consumers drop changes instead of blocking
// writers; the latest state is always re-observable via Get/List.
func (s *Store) Subscribe(_ context.Context, collection, key string) (*Subscription, error) {
	if collection == "" {
		return nil, fmt.Errorf("collection is required")
	}

	ch := make(chan Change, subscriptionBuffer)
	sub := &Subscription{
		C:     ch,
		store: s,
		ch:    ch,
		coll:  collection,
		key:   key,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSubID++
	sub.id = s.nextSubID
	s.subs[sub.id] = sub

	// Initial snapshot so consumers never start blind.
	if key != "" {
		if doc, ok := s.collections[collection][key]; ok {
			sub.deliver(Change{Collection: collection, Key: key, Doc: cloneDocument(doc), Exists: true})
		}
		return sub, nil
	}
	for k, doc := range s.collections[collection] {
		sub.deliver(Change{Collection: collection, Key: k, Doc: cloneDocument(doc), Exists: true})
	}

	return sub, nil
}

func (sub *Subscription) Close() {
	sub.once.Do(func() {
		sub.store.mu.Lock()
		delete(sub.store.subs, sub.id)
		sub.store.mu.Unlock()
		close(sub.ch)
	})
}

// Dropped reports how many changes were discarded because the consumer
// lagged behind the buffer.
func (sub *Subscription) Dropped() int {
	sub.store.mu.RLock()
	defer sub.store.mu.RUnlock()
	return sub.dropped
}

func (sub *Subscription) deliver(change Change) {
	select {
	case sub.ch <- change:
	default:
		sub.dropped++
	}
}

func (s *Store) applyUpsert(collection, key string, fields Document, merge bool) {
	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]Document)
		s.collections[collection] = docs
	}

	var next Document
	if existing, ok := docs[key]; ok && merge {
		next = cloneDocument(existing)
	} else {
		next = make(Document, len(fields))
	}
	for field, value := range fields {
		next[field] = cloneValue(value)
	}
	docs[key] = next

	s.notifyLocked(Change{Collection: collection, Key: key, Doc: cloneDocument(next), Exists: true})
}

func (s *Store) notifyLocked(change Change) {
	for _, sub := range s.subs {
		if sub.coll != change.Collection {
			continue
		}
		if sub.key != "" && sub.key != change.Key {
			continue
		}
		sub.deliver(change)
	}
}

func cloneDocument(doc Document) Document {
	if doc == nil {
		return nil
	}
	out := make(Document, len(doc))
	for field, value := range doc {
		out[field] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case Document:
		return cloneDocument(v)
	case map[string]any:
		return cloneDocument(Document(v))
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
