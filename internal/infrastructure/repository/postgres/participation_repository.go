package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/studyipl/tournament-api/internal/domain/participation"
	"github.com/studyipl/tournament-api/internal/domain/player"
	"github.com/studyipl/tournament-api/internal/domain/tournament"
	qb "github.com/studyipl/tournament-api/internal/platform/querybuilder"
)

// ParticipationRepository stores join records with the lineup as an ordered
// array of pool player ids; reads resolve them against the static pool.
type ParticipationRepository struct {
	db      *sqlx.DB
	players player.Repository
}

func NewParticipationRepository(db *sqlx.DB, players player.Repository) *ParticipationRepository {
	return &ParticipationRepository{db: db, players: players}
}

// joinStatusQuery locks the tournament row so a status flip cannot slip a
// join past the completed gate mid-transaction.
const joinStatusQuery = "SELECT status FROM tournaments WHERE id = $1 FOR UPDATE"

// joinConflictClause makes the insert a no-op when another transaction
// created the record first; the caller then re-reads the winner's row.
const joinConflictClause = "ON CONFLICT (id) DO NOTHING"

// Join runs the precondition checks and the insert in one transaction so a
// rejected join writes nothing. A repeat join, or a lost race against a
// concurrent join for the same record, returns the stored record untouched.
func (r *ParticipationRepository) Join(ctx context.Context, item participation.Record) (participation.Record, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return participation.Record{}, fmt.Errorf("begin join transaction: %w", err)
	}
	defer tx.Rollback()

	var status string
	if err := tx.GetContext(ctx, &status, joinStatusQuery, item.TournamentID); err != nil {
		if isNotFound(err) {
			return participation.Record{}, participation.ErrTournamentNotFound
		}
		return participation.Record{}, fmt.Errorf("check tournament status: %w", err)
	}
	if tournament.Status(status) == tournament.StatusCompleted {
		return participation.Record{}, participation.ErrTournamentClosed
	}

	key := participation.RecordID(item.TournamentID, item.UserID)

	answersJSON, err := sonic.Marshal(item.Answers)
	if err != nil {
		return participation.Record{}, fmt.Errorf("encode answers: %w", err)
	}

	lineupIDs := make([]string, 0, len(item.Lineup))
	for _, p := range item.Lineup {
		lineupIDs = append(lineupIDs, p.ID)
	}

	insertModel := participationInsertModel{
		ID:              key,
		TournamentID:    item.TournamentID,
		UserID:          item.UserID,
		LineupPlayerIDs: pq.StringArray(lineupIDs),
		Points:          item.Points,
		Answers:         answersJSON,
		JoinedAt:        item.JoinedAt,
	}

	query, args, err := qb.InsertModel("participations", insertModel, joinConflictClause)
	if err != nil {
		return participation.Record{}, fmt.Errorf("build join insert query: %w", err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return participation.Record{}, fmt.Errorf("insert participation: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return participation.Record{}, fmt.Errorf("insert participation rows affected: %w", err)
	}
	if inserted == 0 {
		var existing participationTableModel
		if err := tx.GetContext(ctx, &existing, "SELECT * FROM participations WHERE id = $1", key); err != nil {
			return participation.Record{}, fmt.Errorf("read existing participation: %w", err)
		}
		record, decodeErr := r.recordFromRow(ctx, existing)
		if decodeErr != nil {
			return participation.Record{}, decodeErr
		}
		return record, tx.Commit()
	}

	if err := tx.Commit(); err != nil {
		return participation.Record{}, fmt.Errorf("commit join transaction: %w", err)
	}
	return item, nil
}

func (r *ParticipationRepository) GetByTournamentAndUser(ctx context.Context, tournamentID, userID string) (participation.Record, bool, error) {
	query, args, err := qb.Select("*").
		From("participations").
		Where(qb.Eq("id", participation.RecordID(tournamentID, userID))).
		ToSQL()
	if err != nil {
		return participation.Record{}, false, fmt.Errorf("build get participation query: %w", err)
	}

	var row participationTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return participation.Record{}, false, nil
		}
		return participation.Record{}, false, fmt.Errorf("get participation: %w", err)
	}

	record, err := r.recordFromRow(ctx, row)
	if err != nil {
		return participation.Record{}, false, err
	}
	return record, true, nil
}

func (r *ParticipationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]participation.Record, error) {
	query, args, err := qb.Select("*").
		From("participations").
		Where(qb.Eq("user_id", userID)).
		OrderBy("joined_at DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list participations query: %w", err)
	}

	var rows []participationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list participations: %w", err)
	}

	out := make([]participation.Record, 0, len(rows))
	for _, row := range rows {
		record, err := r.recordFromRow(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

func (r *ParticipationRepository) AddPoints(ctx context.Context, tournamentID, userID string, delta int) error {
	if delta < 0 {
		return fmt.Errorf("points delta must be non-negative, got %d", delta)
	}

	const query = "UPDATE participations SET points = points + $1 WHERE id = $2"
	res, err := r.db.ExecContext(ctx, query, delta, participation.RecordID(tournamentID, userID))
	if err != nil {
		return fmt.Errorf("add points: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("add points rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("participation %s not found", participation.RecordID(tournamentID, userID))
	}
	return nil
}

func (r *ParticipationRepository) recordFromRow(ctx context.Context, row participationTableModel) (participation.Record, error) {
	lineup, err := r.players.GetByIDs(ctx, append([]string(nil), row.LineupPlayerIDs...))
	if err != nil {
		return participation.Record{}, fmt.Errorf("resolve lineup players: %w", err)
	}

	answers := make(map[string]int)
	if len(row.Answers) > 0 {
		if err := sonic.Unmarshal(row.Answers, &answers); err != nil {
			return participation.Record{}, fmt.Errorf("decode answers: %w", err)
		}
	}

	return participation.Record{
		TournamentID: row.TournamentID,
		UserID:       row.UserID,
		Lineup:       lineup,
		Points:       row.Points,
		Answers:      answers,
		JoinedAt:     row.JoinedAt,
	}, nil
}
