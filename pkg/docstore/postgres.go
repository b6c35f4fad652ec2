package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps every collection in one schemaless JSONB table,
// keyed by (collection, id). Filter values compare as text via ->>, which
// is exact for the string-typed fields the repositories filter on
// (status, date, name, email, RFC3339 timestamps).
type PostgresStore struct {
	pool *pgxpool.Pool
}

type PostgresConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

const pgSchema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       JSONB NOT NULL,
	PRIMARY KEY (collection, id)
)`

func NewPostgresStore(ctx context.Context, config PostgresConfig) (*PostgresStore, error) {
	connStr := fmt.Sprintf("user=%s password=%s dbname=%s sslmode=disable host=%s port=%s",
		config.User, config.Password, config.Name, config.Host, config.Port)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	poolConfig.MaxConns = config.MaxConns
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute
	poolConfig.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database failed: %w", err)
	}

	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure documents table: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Add(ctx context.Context, collection string, doc Document) (string, error) {
	id := uuid.NewString()

	stored := cloneDocument(doc)
	stored["id"] = id

	data, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}

	query := `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)`
	if _, err := s.pool.Exec(ctx, query, collection, id, data); err != nil {
		return "", fmt.Errorf("add document to %s: %w", collection, err)
	}

	return id, nil
}

func (s *PostgresStore) Set(ctx context.Context, collection, id string, doc Document) error {
	stored := cloneDocument(doc)
	stored["id"] = id

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	query := `
		INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data
	`
	if _, err := s.pool.Exec(ctx, query, collection, id, data); err != nil {
		return fmt.Errorf("set document %s/%s: %w", collection, id, err)
	}

	return nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (Document, error) {
	query := `SELECT data FROM documents WHERE collection = $1 AND id = $2`

	var data []byte
	err := s.pool.QueryRow(ctx, query, collection, id).Scan(&data)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s/%s: %w", collection, id, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document %s/%s: %w", collection, id, err)
	}

	return doc, nil
}

func (s *PostgresStore) Update(ctx context.Context, collection, id string, patch Document) error {
	cleaned := cloneDocument(patch)
	delete(cleaned, "id")

	data, err := json.Marshal(cleaned)
	if err != nil {
		return fmt.Errorf("marshal patch: %w", err)
	}

	// JSONB || performs the top-level field merge the contract asks for.
	query := `UPDATE documents SET data = data || $3::jsonb WHERE collection = $1 AND id = $2`
	result, err := s.pool.Exec(ctx, query, collection, id, data)
	if err != nil {
		return fmt.Errorf("update document %s/%s: %w", collection, id, err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	query := `DELETE FROM documents WHERE collection = $1 AND id = $2`

	result, err := s.pool.Exec(ctx, query, collection, id)
	if err != nil {
		return fmt.Errorf("delete document %s/%s: %w", collection, id, err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *PostgresStore) Query(ctx context.Context, collection string, q Query) ([]Document, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT data FROM documents WHERE collection = $1`)

	args := []any{collection}
	for _, f := range q.Filters {
		op, err := sqlOperator(f.Op)
		if err != nil {
			return nil, err
		}
		field, err := safeField(f.Field)
		if err != nil {
			return nil, err
		}
		args = append(args, fmt.Sprint(f.Value))
		fmt.Fprintf(&sb, ` AND data->>'%s' %s $%d`, field, op, len(args))
	}

	if q.OrderBy != "" {
		field, err := safeField(q.OrderBy)
		if err != nil {
			return nil, err
		}
		direction := "ASC"
		if q.Descending {
			direction = "DESC"
		}
		fmt.Fprintf(&sb, ` ORDER BY data->>'%s' %s`, field, direction)
	}

	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, ` LIMIT $%d`, len(args))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		fmt.Fprintf(&sb, ` OFFSET $%d`, len(args))
	}

	rows, err := s.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}

		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("unmarshal document row: %w", err)
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context, collection string, filters []Filter) (int64, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT COUNT(*) FROM documents WHERE collection = $1`)

	args := []any{collection}
	for _, f := range filters {
		op, err := sqlOperator(f.Op)
		if err != nil {
			return 0, err
		}
		field, err := safeField(f.Field)
		if err != nil {
			return 0, err
		}
		args = append(args, fmt.Sprint(f.Value))
		fmt.Fprintf(&sb, ` AND data->>'%s' %s $%d`, field, op, len(args))
	}

	var count int64
	if err := s.pool.QueryRow(ctx, sb.String(), args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}

	return count, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close(ctx context.Context) error {
	s.pool.Close()
	return nil
}

func sqlOperator(op Operator) (string, error) {
	switch op {
	case OpEqual:
		return "=", nil
	case OpGreater:
		return ">", nil
	case OpGreaterEqual:
		return ">=", nil
	case OpLess:
		return "<", nil
	case OpLessEqual:
		return "<=", nil
	default:
		return "", fmt.Errorf("unsupported operator %q", op)
	}
}

// safeField allows only plain identifier field names inside the JSONB
// path expression. Field names come from repository code, never from
// request input; this is a guard, not an escape routine.
func safeField(field string) (string, error) {
	for _, r := range field {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' {
			continue
		}
		return "", fmt.Errorf("invalid field name %q", field)
	}
	if field == "" {
		return "", fmt.Errorf("empty field name")
	}
	return field, nil
}
