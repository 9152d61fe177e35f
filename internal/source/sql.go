package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/explorer/internal/dataset"
	"github.com/jackc/pgx/v5"
)

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// TableQuery returns the statement that reads a whole table. Dotted names
// are treated as schema-qualified.
func TableQuery(table string) string {
	ident := pgx.Identifier(strings.Split(table, "."))
	return "SELECT * FROM " + ident.Sanitize()
}

// LoadTable reads every row of table. Columns keep their database names, so
// only columns named with an in:, out: or img: prefix become axes. Values
// are read in text form; NULL becomes an empty cell.
func LoadTable(ctx context.Context, db Querier, table string) (Table, error) {
	rows, err := db.Query(ctx, TableQuery(table), pgx.QueryExecModeSimpleProtocol)
	if err != nil {
		return Table{}, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var t Table
	for _, fd := range rows.FieldDescriptions() {
		t.Headers = append(t.Headers, strings.TrimSpace(fd.Name))
	}

	for rows.Next() {
		raw := rows.RawValues()
		row := make([]string, len(raw))
		for i, b := range raw {
			if b != nil {
				row[i] = strings.TrimSpace(string(b))
			}
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return Table{}, fmt.Errorf("read %s: %w", table, err)
	}
	return t, nil
}

// SQLDatasetID is the catalog id of a table-backed dataset.
func SQLDatasetID(table string) string {
	return "sql-" + table
}

// LoadSQL builds a dataset from a PostgreSQL table.
func LoadSQL(ctx context.Context, db Querier, table string) (Loaded, error) {
	t, err := LoadTable(ctx, db, table)
	if err != nil {
		return Loaded{}, err
	}
	ds, err := dataset.Build(SQLDatasetID(table), table, dataset.SourceSQL, t.Headers, t.Rows)
	if err != nil {
		return Loaded{}, fmt.Errorf("table %s: %w", table, err)
	}
	return Loaded{Dataset: ds}, nil
}
