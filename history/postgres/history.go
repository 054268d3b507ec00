package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"

	_ "github.com/lib/pq"
	"github.com/me-nabi/pdf-assistant/history"
	"go.nhat.io/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
)

var DRIVER string

func init() {
	driver, err := otelsql.Register(
		"postgres",
		otelsql.TraceQueryWithoutArgs(),
		otelsql.TraceRowsClose(),
		otelsql.TraceRowsAffected(),
		otelsql.WithSystem(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		detail := "failed to register pg history with otel"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	DRIVER = driver
}

// The table name is interpolated into statements, so it must be a bare
// identifier rather than arbitrary config input.
var tableRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

type postgresHistory struct {
	options history.Options
	conn    *sql.DB
}

func (p *postgresHistory) Append(ctx context.Context, sessionId string, msg history.Message) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (session_id, role, content, created_at)
		VALUES ($1, $2, $3, $4)
	`, p.options.Table)

	if _, err := p.conn.ExecContext(ctx, query, sessionId, msg.Role, msg.Content, msg.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (p *postgresHistory) List(ctx context.Context, sessionId string) ([]history.Message, error) {
	query := fmt.Sprintf(`
		SELECT role, content, created_at
		FROM %s
		WHERE session_id = $1
		ORDER BY id
	`, p.options.Table)

	rows, err := p.conn.QueryContext(ctx, query, sessionId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []history.Message

	for rows.Next() {
		var msg history.Message
		if err := rows.Scan(&msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

func (p *postgresHistory) Clear(ctx context.Context, sessionId string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE session_id = $1`, p.options.Table)

	if _, err := p.conn.ExecContext(ctx, query, sessionId); err != nil {
		return err
	}

	return nil
}

func NewHistory(opts ...history.Option) history.History {
	options := history.NewOptions(opts...)

	if !tableRe.MatchString(options.Table) {
		detail := "invalid table name for postgres history"
		slog.ErrorContext(context.Background(), detail, "table", options.Table)
		panic(detail)
	}

	p := &postgresHistory{
		options: options,
	}

	conn, err := sql.Open(DRIVER, options.Location)
	if err != nil {
		detail := "failed to connect with postgres history"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	if err := conn.Ping(); err != nil {
		detail := "failed to ping with postgres history"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id         BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			role       TEXT NOT NULL,
			content    TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`, options.Table)

	if _, err := conn.Exec(schema); err != nil {
		detail := "failed to apply schema for postgres history"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	p.conn = conn

	return p
}
