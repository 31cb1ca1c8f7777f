package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/adconnect/internal/client/migrations"
	"github.com/dmitrijs2005/adconnect/internal/client/models"
	"github.com/dmitrijs2005/adconnect/internal/common"
	"github.com/dmitrijs2005/adconnect/internal/cryptox"
	"github.com/dmitrijs2005/adconnect/internal/dbx"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// PostgresStore keeps accounts in a shared PostgreSQL table so several
// clients can register against one credential store. The unique index on
// email_normalized makes Create race-free across processes.
type PostgresStore struct {
	db    dbx.DBTX
	now   func() time.Time
	newID func() string
}

func NewPostgresStore(db dbx.DBTX) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now, newID: uuid.NewString}
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunPostgresMigrations creates the accounts table if needed.
func RunPostgresMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, migrations.PostgresDir)
}

// OpenPostgres connects through the pgx stdlib driver and migrates.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if err := RunPostgresMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return db, nil
}

func (r *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT id, email, password_hash, created_at FROM accounts
		 WHERE email_normalized = $1
		 `

	acc := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, common.NormalizeEmail(email)).
		Scan(&acc.ID, &acc.Email, &acc.PasswordHash, &acc.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return acc, nil
}

func (r *PostgresStore) Create(ctx context.Context, email string, password []byte) (*models.Account, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, err
	}

	acc := &models.Account{
		ID:           r.newID(),
		Email:        displayEmail(email),
		PasswordHash: hash,
		CreatedAt:    r.now().UTC(),
	}

	query :=
		`INSERT INTO accounts (id, email, email_normalized, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	_, err = r.db.ExecContext(ctx, query,
		acc.ID, acc.Email, common.NormalizeEmail(email), acc.PasswordHash, acc.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrDuplicateAccount
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return acc, nil
}

func (r *PostgresStore) Verify(ctx context.Context, email string, password []byte) (*models.Account, error) {
	acc, err := r.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return verifyAccount(acc, password)
}
