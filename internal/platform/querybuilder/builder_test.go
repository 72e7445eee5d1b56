package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("tournament_id", "user_id").
		From("participations").
		Where(Eq("user_id", "u1")).
		OrderBy("joined_at DESC").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT tournament_id, user_id FROM participations WHERE user_id = $1 ORDER BY joined_at DESC LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "u1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderEmptyIn(t *testing.T) {
	query, args, err := Select("id").
		From("players").
		Where(In("id", nil)).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM players WHERE 1=0"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderConflictSuffix(t *testing.T) {
	query, args, err := InsertInto("answers").
		Columns("id", "option_index").
		Values("a1", 2).
		Suffix("ON CONFLICT (id) DO UPDATE SET option_index = EXCLUDED.option_index").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO answers (id, option_index) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET option_index = EXCLUDED.option_index"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "a1" || args[1] != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("tournaments").
		Set("status", "live").
		Where(Eq("id", "t1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE tournaments SET status = $1 WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "live" || args[1] != "t1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		ID     string `db:"id"`
		Points int    `db:"points"`
		skip   string `db:"-"`
	}
	_ = row{}.skip

	query, args, err := InsertModel("participations", row{ID: "t1_u1", Points: 0}, "")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO participations (id, points) VALUES ($1, $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "t1_u1" || args[1] != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}
