package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/ring2park-microservices/users-service/internal/models"
)

const accountColumns = "id, username, password, name, email, mobile, enabled, verify_code"

// PostgresDirectory is the production Directory backed by PostgreSQL.
// It is the write store and the fallback read store behind the Redis
// read model.
type PostgresDirectory struct {
	db *sql.DB
}

func NewPostgresDirectory(db *sql.DB) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

// EnsureSchema creates the accounts table if it does not exist yet. The
// upstream system shipped its schema alongside the service the same way.
func (d *PostgresDirectory) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS accounts (
			id          BIGINT PRIMARY KEY,
			username    TEXT NOT NULL UNIQUE,
			password    TEXT NOT NULL,
			name        TEXT NOT NULL,
			email       TEXT NOT NULL UNIQUE,
			mobile      TEXT UNIQUE,
			enabled     BOOLEAN NOT NULL DEFAULT FALSE,
			verify_code TEXT
		)
	`
	if _, err := d.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

func (d *PostgresDirectory) FindAll(ctx context.Context) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY id`
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()
	return scanAccounts(rows)
}

func (d *PostgresDirectory) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return d.findOne(ctx, query, id)
}

func (d *PostgresDirectory) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`
	return d.findOne(ctx, query, username)
}

func (d *PostgresDirectory) FindByUsernameContaining(ctx context.Context, partial string) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username ILIKE '%' || $1 || '%' ORDER BY id`
	rows, err := d.db.QueryContext(ctx, query, partial)
	if err != nil {
		return nil, fmt.Errorf("failed to search accounts: %w", err)
	}
	defer rows.Close()
	return scanAccounts(rows)
}

func (d *PostgresDirectory) FindByUsernameAndPassword(ctx context.Context, username, password string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1 AND password = $2`
	return d.findOne(ctx, query, username, password)
}

func (d *PostgresDirectory) FindByMobile(ctx context.Context, mobile string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE mobile = $1`
	return d.findOne(ctx, query, mobile)
}

func (d *PostgresDirectory) Count(ctx context.Context) (int, error) {
	var count int
	if err := d.db.QueryRowContext(ctx, `SELECT count(*) FROM accounts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

func (d *PostgresDirectory) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, username, password, name, email, mobile, enabled, verify_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := d.db.ExecContext(ctx, query,
		account.ID, account.Username, account.Password, account.Name,
		account.Email, nullString(account.Mobile), account.Enabled,
		nullString(account.VerifyCode),
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (d *PostgresDirectory) UpdateVerification(ctx context.Context, id int64, verifyCode string, enabled bool) error {
	query := `UPDATE accounts SET verify_code = $2, enabled = $3 WHERE id = $1`
	result, err := d.db.ExecContext(ctx, query, id, nullString(verifyCode), enabled)
	if err != nil {
		return fmt.Errorf("failed to update verification: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return errNotFound
	}
	return nil
}

func (d *PostgresDirectory) MaxID(ctx context.Context) (int64, error) {
	var max int64
	if err := d.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) FROM accounts`).Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to read max account id: %w", err)
	}
	return max, nil
}

func (d *PostgresDirectory) findOne(ctx context.Context, query string, args ...any) (*models.Account, error) {
	var account models.Account
	var mobile, verifyCode sql.NullString

	err := d.db.QueryRowContext(ctx, query, args...).Scan(
		&account.ID, &account.Username, &account.Password, &account.Name,
		&account.Email, &mobile, &account.Enabled, &verifyCode,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	account.Mobile = mobile.String
	account.VerifyCode = verifyCode.String
	return &account, nil
}

func scanAccounts(rows *sql.Rows) ([]models.Account, error) {
	accounts := []models.Account{}
	for rows.Next() {
		var account models.Account
		var mobile, verifyCode sql.NullString
		if err := rows.Scan(
			&account.ID, &account.Username, &account.Password, &account.Name,
			&account.Email, &mobile, &account.Enabled, &verifyCode,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		account.Mobile = mobile.String
		account.VerifyCode = verifyCode.String
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}
	return accounts, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
