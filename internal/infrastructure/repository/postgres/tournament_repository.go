package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/studyipl/tournament-api/internal/domain/tournament"
	qb "github.com/studyipl/tournament-api/internal/platform/querybuilder"
)

type TournamentRepository struct {
	db *sqlx.DB
}

func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

func (r *TournamentRepository) GetByID(ctx context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	query, args, err := tournamentBaseSelectBuilder().
		Where(qb.Eq("id", tournamentID)).
		ToSQL()
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("build get tournament query: %w", err)
	}

	var row tournamentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, false, nil
		}
		return tournament.Tournament{}, false, fmt.Errorf("get tournament: %w", err)
	}

	return tournamentFromRow(row), true, nil
}

func (r *TournamentRepository) ListActive(ctx context.Context, limit int) ([]tournament.Tournament, error) {
	query, args, err := tournamentBaseSelectBuilder().
		Where(qb.In("status", []any{
			string(tournament.StatusLive),
			string(tournament.StatusUpcoming),
		})).
		OrderBy("start_time ASC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list active tournaments query: %w", err)
	}

	var rows []tournamentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list active tournaments: %w", err)
	}

	out := make([]tournament.Tournament, 0, len(rows))
	for _, row := range rows {
		out = append(out, tournamentFromRow(row))
	}
	return out, nil
}

func (r *TournamentRepository) Create(ctx context.Context, item tournament.Tournament) error {
	insertModel := tournamentTableModel{
		ID:           item.ID,
		Name:         item.Name,
		Status:       string(item.Status),
		StartTime:    item.StartTime,
		SubjectFocus: item.SubjectFocus,
		PrizePool:    item.PrizePool,
		Description:  item.Description,
		MatchFormat:  item.MatchFormat,
		PlayerCount:  item.PlayerCount,
		CreatedAt:    item.CreatedAt,
	}

	query, args, err := qb.InsertModel("tournaments", insertModel, "")
	if err != nil {
		return fmt.Errorf("build create tournament query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create tournament: %w", err)
	}
	return nil
}

// UpdateStatus applies the transition only when it moves the lifecycle
// forward; the check runs inside the UPDATE so concurrent admins cannot
// rewind a tournament.
func (r *TournamentRepository) UpdateStatus(ctx context.Context, tournamentID string, next tournament.Status) error {
	const query = `UPDATE tournaments SET status = $1 WHERE id = $2
AND array_position(ARRAY['upcoming','live','completed'], status) < array_position(ARRAY['upcoming','live','completed'], $1)`

	res, err := r.db.ExecContext(ctx, query, string(next), tournamentID)
	if err != nil {
		return fmt.Errorf("update tournament status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update tournament status rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("tournament %s not found or cannot move to %s", tournamentID, next)
	}
	return nil
}

func tournamentFromRow(row tournamentTableModel) tournament.Tournament {
	return tournament.Tournament{
		ID:           row.ID,
		Name:         row.Name,
		Status:       tournament.Status(row.Status),
		StartTime:    row.StartTime,
		SubjectFocus: row.SubjectFocus,
		PrizePool:    row.PrizePool,
		Description:  row.Description,
		MatchFormat:  row.MatchFormat,
		PlayerCount:  row.PlayerCount,
		CreatedAt:    row.CreatedAt,
	}
}

func tournamentBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("tournaments")
}
