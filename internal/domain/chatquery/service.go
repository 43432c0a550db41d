package chatquery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MaxRows caps any single query result.
const MaxRows = 200

var (
	ErrNotSelect       = errors.New("only SELECT queries are allowed")
	ErrMultiStatement  = errors.New("only a single statement is allowed")
	ErrForbiddenWord   = errors.New("query contains a forbidden keyword")
	ErrTableNotAllowed = errors.New("query references a table outside the allowed set")
)

// allowedTables is the read surface exposed to ad-hoc queries.
var allowedTables = map[string]bool{
	"workers":        true,
	"recon_records":  true,
	"cg_daily":       true,
	"citi_daily":     true,
	"leave_requests": true,
}

var forbiddenWords = []string{
	"insert", "update", "delete", "drop", "alter", "create",
	"truncate", "grant", "revoke", "copy", "vacuum", "do",
	"call", "execute", "prepare", "listen", "notify", "set",
	"pg_sleep", "pg_read_file", "lo_import", "lo_export",
}

// Result is a generic tabular answer.
type Result struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
	Count   int      `json:"count"`
}

type Service struct {
	pool *pgxpool.Pool
}

func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// Validate rejects anything but a single SELECT over the allowed
// tables. Validation is a guard rail on top of the read-only
// transaction, not a substitute for it.
func Validate(query string) error {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(query), ";"))
	if trimmed == "" {
		return ErrNotSelect
	}
	if strings.Contains(trimmed, ";") {
		return ErrMultiStatement
	}

	lower := strings.ToLower(trimmed)
	if !strings.HasPrefix(lower, "select") {
		return ErrNotSelect
	}

	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !(r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
	})
	for _, w := range words {
		for _, bad := range forbiddenWords {
			if w == bad {
				return fmt.Errorf("%w: %s", ErrForbiddenWord, w)
			}
		}
	}

	// Every identifier following FROM or JOIN must be an allowed table.
	for i, w := range words {
		if w != "from" && w != "join" {
			continue
		}
		if i+1 >= len(words) {
			continue
		}
		table := words[i+1]
		if !allowedTables[table] {
			return fmt.Errorf("%w: %s", ErrTableNotAllowed, table)
		}
	}
	return nil
}

// Run validates and executes a query inside a read-only transaction,
// returning at most MaxRows rows.
func (s *Service) Run(ctx context.Context, query string) (*Result, error) {
	if err := Validate(query); err != nil {
		return nil, err
	}
	query = strings.TrimSuffix(strings.TrimSpace(query), ";")

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SET LOCAL statement_timeout = '5s'`); err != nil {
		return nil, fmt.Errorf("set timeout: %w", err)
	}

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	result := &Result{Rows: [][]any{}}
	for _, fd := range rows.FieldDescriptions() {
		result.Columns = append(result.Columns, string(fd.Name))
	}
	for rows.Next() {
		if result.Count >= MaxRows {
			break
		}
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		result.Rows = append(result.Rows, values)
		result.Count++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, tx.Commit(ctx)
}
