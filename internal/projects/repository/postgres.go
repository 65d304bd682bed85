package repository

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GoSim-25-26J-441/project-dashboard/internal/projects/domain"
)

//go:embed schema.sql
var schemaSQL string

// notifyChannel carries "app_id/user_id" payloads after every committed write.
const notifyChannel = "dashboard_projects"

// PostgresBackend stores project documents as JSONB rows scoped by app and
// user. Live updates use LISTEN/NOTIFY.
type PostgresBackend struct {
	pool  *pgxpool.Pool
	appID string
}

func NewPostgresBackend(pool *pgxpool.Pool, appID string) *PostgresBackend {
	return &PostgresBackend{pool: pool, appID: appID}
}

func (b *PostgresBackend) Name() string { return "postgres" }

func (b *PostgresBackend) ForUser(uid string) Store {
	return &postgresStore{pool: b.pool, appID: b.appID, userID: uid}
}

func (b *PostgresBackend) Ping(ctx context.Context) error {
	return b.pool.Ping(ctx)
}

// EnsureSchema creates the projects table when it does not exist yet.
func (b *PostgresBackend) EnsureSchema(ctx context.Context) error {
	if _, err := b.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

type postgresStore struct {
	pool   *pgxpool.Pool
	appID  string
	userID string
}

func (s *postgresStore) scope() string { return s.appID + "/" + s.userID }

// Subscribe holds one pooled connection for LISTEN. The channel is joined
// before the initial read so no write slips between the two.
func (s *postgresStore) Subscribe(ctx context.Context) (*Subscription, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres acquire: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		conn.Release()
		return nil, fmt.Errorf("postgres listen: %w", err)
	}

	return startSubscription(ctx, func(e *emitter) {
		defer func() {
			// The connection goes back to the pool; drop the listener first.
			_, _ = conn.Exec(context.Background(), "UNLISTEN *")
			conn.Release()
		}()

		projects, err := s.load(e.ctx)
		if err != nil {
			e.fail(err)
			return
		}
		if !e.emit(projects) {
			return
		}

		for {
			n, err := conn.Conn().WaitForNotification(e.ctx)
			if err != nil {
				e.fail(fmt.Errorf("postgres notification: %w", err))
				return
			}
			if n.Payload != s.scope() {
				continue
			}
			projects, err := s.load(e.ctx)
			if err != nil {
				e.fail(err)
				return
			}
			if !e.emit(projects) {
				return
			}
		}
	}), nil
}

func (s *postgresStore) Create(ctx context.Context, draft domain.Project) (Ack, error) {
	data, err := encodeDoc(draft)
	if err != nil {
		return Ack{}, err
	}

	var id string
	err = s.inTx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `
			INSERT INTO dashboard_projects (app_id, user_id, doc)
			VALUES ($1, $2, $3)
			RETURNING id::text
		`, s.appID, s.userID, data).Scan(&id)
	})
	if err != nil {
		return Ack{}, wrapPostgres("create", err)
	}
	return Ack{ID: id}, nil
}

func (s *postgresStore) Replace(ctx context.Context, id string, p domain.Project) (Ack, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Ack{}, fmt.Errorf("replace %s: %w", id, domain.ErrNotFound)
	}
	data, err := encodeDoc(p)
	if err != nil {
		return Ack{}, err
	}

	err = s.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE dashboard_projects
			SET doc = $4, updated_at = now()
			WHERE app_id = $1 AND user_id = $2 AND id = $3
		`, s.appID, s.userID, id, data)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("replace %s: %w", id, domain.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return Ack{}, wrapPostgres("replace", err)
	}
	return Ack{ID: id}, nil
}

func (s *postgresStore) Remove(ctx context.Context, id string) (Ack, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Ack{}, fmt.Errorf("remove %s: %w", id, domain.ErrNotFound)
	}

	err := s.inTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT id::text FROM dashboard_projects
			WHERE app_id = $1 AND user_id = $2
			FOR UPDATE
		`, s.appID, s.userID)
		if err != nil {
			return err
		}
		ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return err
		}

		found := false
		for _, existing := range ids {
			if existing == id {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("remove %s: %w", id, domain.ErrNotFound)
		}
		if len(ids) <= 1 {
			return domain.ErrLastProject
		}

		_, err = tx.Exec(ctx, `
			DELETE FROM dashboard_projects
			WHERE app_id = $1 AND user_id = $2 AND id = $3
		`, s.appID, s.userID, id)
		return err
	})
	if err != nil {
		return Ack{}, wrapPostgres("remove", err)
	}
	return Ack{ID: id}, nil
}

// inTx runs fn and, on success, queues the change notification in the same
// transaction so listeners only hear about committed writes.
func (s *postgresStore) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "SELECT pg_notify($1, $2)", notifyChannel, s.scope()); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *postgresStore) load(ctx context.Context) ([]domain.Project, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, doc FROM dashboard_projects
		WHERE app_id = $1 AND user_id = $2
		ORDER BY id::text
	`, s.appID, s.userID)
	if err != nil {
		return nil, fmt.Errorf("postgres load: %w", err)
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		var (
			id  string
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("postgres scan: %w", err)
		}
		var p domain.Project
		if err := json.Unmarshal(doc, &p); err != nil {
			return nil, fmt.Errorf("decode project %s: %w", id, err)
		}
		p.ID = id
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres rows: %w", err)
	}
	return sortByID(projects), nil
}

func wrapPostgres(op string, err error) error {
	if isDomainErr(err) || errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("postgres %s: %w", op, err)
}
