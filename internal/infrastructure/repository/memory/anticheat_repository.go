package memory

import (
	"context"
	"fmt"

	"github.com/studyipl/tournament-api/internal/domain/anticheat"
	"github.com/studyipl/tournament-api/internal/platform/docstore"
)

type AntiCheatRepository struct {
	store *docstore.Store
}

func NewAntiCheatRepository(store *docstore.Store) *AntiCheatRepository {
	return &AntiCheatRepository{store: store}
}

func (r *AntiCheatRepository) StartSession(ctx context.Context, item anticheat.Session) error {
	key := anticheat.SessionID(item.TournamentID, item.UserID)
	err := r.store.Upsert(ctx, collCheatSessions, key, encodeCheatSession(item), false)
	if err != nil {
		return fmt.Errorf("start anti-cheat session: %w", err)
	}
	return nil
}

func (r *AntiCheatRepository) GetSession(ctx context.Context, tournamentID, userID string) (anticheat.Session, bool, error) {
	key := anticheat.SessionID(tournamentID, userID)
	doc, ok, err := r.store.Get(ctx, collCheatSessions, key)
	if err != nil {
		return anticheat.Session{}, false, fmt.Errorf("get anti-cheat session: %w", err)
	}
	if !ok {
		return anticheat.Session{}, false, nil
	}

	return decodeCheatSession(tournamentID, userID, doc), true, nil
}

// UpdateSession runs the read-modify-write inside a store transaction, so
// two concurrent counter bumps serialize instead of losing one.
func (r *AntiCheatRepository) UpdateSession(ctx context.Context, tournamentID, userID string, fn func(anticheat.Session) anticheat.Session) (anticheat.Session, bool, error) {
	key := anticheat.SessionID(tournamentID, userID)

	var updated anticheat.Session
	found := false
	err := r.store.RunTransaction(ctx, func(tx *docstore.Tx) error {
		doc, ok := tx.Get(collCheatSessions, key)
		if !ok {
			return nil
		}
		found = true
		updated = fn(decodeCheatSession(tournamentID, userID, doc))
		tx.Upsert(collCheatSessions, key, encodeCheatSession(updated), false)
		return nil
	})
	if err != nil {
		return anticheat.Session{}, false, fmt.Errorf("update anti-cheat session: %w", err)
	}

	return updated, found, nil
}

// RecordEvent appends to the audit trail; events are never overwritten.
func (r *AntiCheatRepository) RecordEvent(ctx context.Context, item anticheat.Event) error {
	_, err := r.store.Append(ctx, collCheatEvents, docstore.Document{
		"tournamentId": item.TournamentID,
		"userId":       item.UserID,
		"flag":         item.Flag,
		"detail":       item.Detail,
		"occurredAt":   item.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("record anti-cheat event: %w", err)
	}
	return nil
}

func decodeCheatSession(tournamentID, userID string, doc docstore.Document) anticheat.Session {
	counterDoc := docMap(doc, "counters")
	counters := make(map[string]int, len(counterDoc))
	for flag := range counterDoc {
		counters[flag] = docInt(counterDoc, flag)
	}

	return anticheat.Session{
		TournamentID: tournamentID,
		UserID:       userID,
		StartedAt:    docTime(doc, "startedAt"),
		Counters:     counters,
		Flagged:      docBool(doc, "flagged"),
	}
}

func encodeCheatSession(item anticheat.Session) docstore.Document {
	counters := make(docstore.Document, len(item.Counters))
	for flag, count := range item.Counters {
		counters[flag] = count
	}

	return docstore.Document{
		"tournamentId": item.TournamentID,
		"userId":       item.UserID,
		"startedAt":    item.StartedAt,
		"counters":     counters,
		"flagged":      item.Flagged,
	}
}
