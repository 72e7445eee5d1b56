package memory

import (
	"context"
	"fmt"

	"github.com/studyipl/tournament-api/internal/domain/scoreboard"
	"github.com/studyipl/tournament-api/internal/platform/docstore"
)

type ScoreboardRepository struct {
	store *docstore.Store
}

func NewScoreboardRepository(store *docstore.Store) *ScoreboardRepository {
	return &ScoreboardRepository{store: store}
}

func (r *ScoreboardRepository) GetByTournament(ctx context.Context, tournamentID string) (scoreboard.Snapshot, bool, error) {
	doc, ok, err := r.store.Get(ctx, collScoreboards, tournamentID)
	if err != nil {
		return scoreboard.Snapshot{}, false, fmt.Errorf("get scoreboard: %w", err)
	}
	if !ok {
		return scoreboard.Snapshot{}, false, nil
	}

	return decodeScoreboard(tournamentID, doc), true, nil
}

// Publish merges into the stored document so a partial sync keeps fields the
// scorer did not send.
func (r *ScoreboardRepository) Publish(ctx context.Context, item scoreboard.Snapshot) error {
	fields := docstore.Document{"updatedAt": item.UpdatedAt}
	if item.Teams != nil {
		teams := make([]any, 0, len(item.Teams))
		for _, t := range item.Teams {
			teams = append(teams, docstore.Document{
				"name":    t.Name,
				"captain": t.Captain,
				"points":  t.Points,
			})
		}
		fields["teams"] = teams
	}
	if item.MVPs != nil {
		mvps := make([]any, 0, len(item.MVPs))
		for _, m := range item.MVPs {
			mvps = append(mvps, docstore.Document{
				"name":    m.Name,
				"subject": m.Subject,
				"points":  m.Points,
			})
		}
		fields["mvps"] = mvps
	}
	if item.Momentum != nil {
		momentum := make([]any, 0, len(item.Momentum))
		for _, e := range item.Momentum {
			momentum = append(momentum, docstore.Document{
				"time":  e.Time,
				"event": e.Event,
			})
		}
		fields["momentum"] = momentum
	}

	if err := r.store.Upsert(ctx, collScoreboards, item.TournamentID, fields, true); err != nil {
		return fmt.Errorf("publish scoreboard: %w", err)
	}
	return nil
}

// Watch opens a change stream over one tournament's scoreboard document.
func (r *ScoreboardRepository) Watch(ctx context.Context, tournamentID string) (*docstore.Subscription, error) {
	return r.store.Subscribe(ctx, collScoreboards, tournamentID)
}

func decodeScoreboard(tournamentID string, doc docstore.Document) scoreboard.Snapshot {
	teamDocs := docSlice(doc, "teams")
	teams := make([]scoreboard.TeamStanding, 0, len(teamDocs))
	for _, raw := range teamDocs {
		td, ok := raw.(docstore.Document)
		if !ok {
			continue
		}
		teams = append(teams, scoreboard.TeamStanding{
			Name:    docString(td, "name"),
			Captain: docString(td, "captain"),
			Points:  docInt(td, "points"),
		})
	}

	mvpDocs := docSlice(doc, "mvps")
	mvps := make([]scoreboard.MVPStanding, 0, len(mvpDocs))
	for _, raw := range mvpDocs {
		md, ok := raw.(docstore.Document)
		if !ok {
			continue
		}
		mvps = append(mvps, scoreboard.MVPStanding{
			Name:    docString(md, "name"),
			Subject: docString(md, "subject"),
			Points:  docInt(md, "points"),
		})
	}

	momentumDocs := docSlice(doc, "momentum")
	momentum := make([]scoreboard.MomentumEvent, 0, len(momentumDocs))
	for _, raw := range momentumDocs {
		ed, ok := raw.(docstore.Document)
		if !ok {
			continue
		}
		momentum = append(momentum, scoreboard.MomentumEvent{
			Time:  docString(ed, "time"),
			Event: docString(ed, "event"),
		})
	}

	return scoreboard.Snapshot{
		TournamentID: tournamentID,
		Teams:        teams,
		MVPs:         mvps,
		Momentum:     momentum,
		UpdatedAt:    docTime(doc, "updatedAt"),
	}
}
