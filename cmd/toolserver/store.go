package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps the Postgres pool holding profiles and transactions.
type Store struct {
	DB *pgxpool.Pool
}

// NewStore connects to Postgres.
func NewStore(ctx context.Context, connStr string) (*Store, error) {
	db, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	return &Store{DB: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	if s != nil && s.DB != nil {
		s.DB.Close()
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
        user_id        TEXT PRIMARY KEY,
        user_name      TEXT NOT NULL,
        created_date   DATE NOT NULL,
        phone_number   TEXT NOT NULL DEFAULT '',
        business_name  TEXT NOT NULL DEFAULT '',
        email_id       TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS transactions (
        transaction_id   BIGSERIAL PRIMARY KEY,
        user_id          TEXT NOT NULL REFERENCES profiles(user_id),
        amount           NUMERIC(12,2) NOT NULL,
        category         TEXT NOT NULL,
        transaction_type TEXT NOT NULL,
        transaction_date DATE NOT NULL,
        description      TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS transactions_user_idx ON transactions (user_id, transaction_date DESC);
`

const seed = `
INSERT INTO profiles (user_id, user_name, created_date, phone_number, business_name, email_id) VALUES
        ('U001', 'Asha Rao',     '2023-04-12', '+1-555-0101', 'Rao Imports',      'asha@raoimports.example'),
        ('U002', 'Ben Carter',   '2023-07-30', '+1-555-0102', 'Carter Logistics', 'ben@carterlog.example'),
        ('U003', 'Chloe Nguyen', '2024-01-08', '+1-555-0103', 'Nguyen Design',    'chloe@nguyendesign.example')
ON CONFLICT (user_id) DO NOTHING;

INSERT INTO transactions (user_id, amount, category, transaction_type, transaction_date, description)
SELECT * FROM (VALUES
        ('U001',  120.50::numeric, 'food',     'debit',  DATE '2025-07-02', 'Catering order'),
        ('U001',  890.00::numeric, 'shopping', 'debit',  DATE '2025-07-15', 'Office supplies'),
        ('U001', 2500.00::numeric, 'income',   'credit', DATE '2025-08-01', 'Client payment'),
        ('U002',   64.20::numeric, 'travel',   'debit',  DATE '2025-07-09', 'Airport taxi'),
        ('U002',  410.75::numeric, 'food',     'debit',  DATE '2025-08-11', 'Team dinner'),
        ('U003', 1300.00::numeric, 'income',   'credit', DATE '2025-08-20', 'Design retainer')
) AS v(user_id, amount, category, transaction_type, transaction_date, description)
WHERE NOT EXISTS (SELECT 1 FROM transactions);
`

// EnsureSchema creates the tables and seeds demo rows when empty.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.DB.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := s.DB.Exec(ctx, seed); err != nil {
		return fmt.Errorf("seed data: %w", err)
	}
	return nil
}

// Profile is one row of the profiles table.
type Profile struct {
	UserID       string
	UserName     string
	CreatedDate  time.Time
	PhoneNumber  string
	BusinessName string
	EmailID      string
}

// ErrNotFound reports a lookup that matched no rows.
var ErrNotFound = errors.New("not found")

// Profile fetches one profile by user id.
func (s *Store) Profile(ctx context.Context, userID string) (Profile, error) {
	var p Profile
	err := s.DB.QueryRow(ctx, `
                SELECT user_id, user_name, created_date, phone_number, business_name, email_id
                FROM profiles WHERE user_id = $1
        `, userID).Scan(&p.UserID, &p.UserName, &p.CreatedDate, &p.PhoneNumber, &p.BusinessName, &p.EmailID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("query profile: %w", err)
	}
	return p, nil
}

// Transaction is one row of the transactions table.
type Transaction struct {
	ID          int64
	UserID      string
	Amount      float64
	Category    string
	Type        string
	Date        time.Time
	Description string
}

// Transactions returns the most recent transactions for a user.
func (s *Store) Transactions(ctx context.Context, userID string, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.DB.Query(ctx, `
                SELECT transaction_id, user_id, amount, category, transaction_type, transaction_date, description
                FROM transactions
                WHERE user_id = $1
                ORDER BY transaction_date DESC, transaction_id DESC
                LIMIT $2
        `, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// Summary aggregates a user's transactions.
type Summary struct {
	Count       int64
	TotalCredit float64
	TotalDebit  float64
}

// TransactionSummary aggregates credits and debits for a user.
func (s *Store) TransactionSummary(ctx context.Context, userID string) (Summary, error) {
	var sum Summary
	err := s.DB.QueryRow(ctx, `
                SELECT COUNT(*),
                       COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'credit'), 0),
                       COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'debit'), 0)
                FROM transactions WHERE user_id = $1
        `, userID).Scan(&sum.Count, &sum.TotalCredit, &sum.TotalDebit)
	if err != nil {
		return Summary{}, fmt.Errorf("query summary: %w", err)
	}
	return sum, nil
}

// SearchFilter narrows a transaction search. Zero values mean "no filter".
type SearchFilter struct {
	UserID    string
	Category  string
	MinAmount float64
	HasMin    bool
	MaxAmount float64
	HasMax    bool
	StartDate string
	EndDate   string
	Type      string
	Limit     int
}

// SearchTransactions applies the filter across all users.
func (s *Store) SearchTransactions(ctx context.Context, filter SearchFilter) ([]Transaction, error) {
	var (
		clauses []string
		args    []any
	)
	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.UserID != "" {
		add("user_id = $%d", filter.UserID)
	}
	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}
	if filter.HasMin {
		add("amount >= $%d", filter.MinAmount)
	}
	if filter.HasMax {
		add("amount <= $%d", filter.MaxAmount)
	}
	if filter.StartDate != "" {
		add("transaction_date >= $%d", filter.StartDate)
	}
	if filter.EndDate != "" {
		add("transaction_date <= $%d", filter.EndDate)
	}
	if filter.Type != "" {
		add("transaction_type = $%d", filter.Type)
	}

	query := `
                SELECT transaction_id, user_id, amount, category, transaction_type, transaction_date, description
                FROM transactions`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY transaction_date DESC, transaction_id DESC LIMIT $%d", len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func scanTransactions(rows pgx.Rows) ([]Transaction, error) {
	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Category, &t.Type, &t.Date, &t.Description); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
