// Package store persists extracted listings in PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/mlegrand/immoscan/internal/ai"
	"github.com/mlegrand/immoscan/internal/extract"
)

type Store struct {
	db *sql.DB
}

func NewStore(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) RunMigrations(schemaPath string) error {
	content, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

func clampLimit(limit int, defaultLimit, maxLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// Listing is a stored ad: the extracted financial record plus the user's
// triage status and the AI analysis.
type Listing struct {
	extract.Record
	AdText      string      `json:"-"`
	UserStatus  string      `json:"user_status,omitempty"`
	Analysis    ai.Analysis `json:"analysis"`
	FirstSeenAt time.Time   `json:"first_seen_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

const listingColumns = `
    url,
    title,
    price,
    monthly_rent,
    annual_rent,
    monthly_charges,
    annual_charges,
    taxe_fonciere_annual,
    gross_yield_pct,
    net_yield_pct,
    ad_text,
    user_status,
    analysis_text,
    analysis_verdict,
    analysis_opinion,
    analysis_score,
    first_seen_at,
    updated_at`

// SaveListing upserts the extracted record keyed by URL. User status and
// analysis set by earlier runs survive re-extraction.
func (s *Store) SaveListing(ctx context.Context, l Listing) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO listings (url, title, price, monthly_rent, annual_rent, monthly_charges, annual_charges, taxe_fonciere_annual, gross_yield_pct, net_yield_pct, ad_text, first_seen_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
ON CONFLICT (url) DO UPDATE SET
    title = EXCLUDED.title,
    price = EXCLUDED.price,
    monthly_rent = EXCLUDED.monthly_rent,
    annual_rent = EXCLUDED.annual_rent,
    monthly_charges = EXCLUDED.monthly_charges,
    annual_charges = EXCLUDED.annual_charges,
    taxe_fonciere_annual = EXCLUDED.taxe_fonciere_annual,
    gross_yield_pct = EXCLUDED.gross_yield_pct,
    net_yield_pct = EXCLUDED.net_yield_pct,
    ad_text = EXCLUDED.ad_text,
    updated_at = NOW()
`, l.URL, l.Title, l.Price, l.MonthlyRent, l.AnnualRent, l.MonthlyCharges, l.AnnualCharges,
		l.TaxeFonciereAnnual, l.GrossYieldPct, l.NetYieldPct, l.AdText)
	return err
}

// GetListing returns the listing for url, or (nil, nil) when absent.
func (s *Store) GetListing(ctx context.Context, url string) (*Listing, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT `+listingColumns+`
FROM listings
WHERE url = $1
`, url)

	l, err := scanListing(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ListListings returns listings ordered by gross yield, best first, with
// listings lacking a yield at the end.
func (s *Store) ListListings(ctx context.Context, limit, offset int) ([]Listing, int, error) {
	limit = clampLimit(limit, 20, 200)
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT `+listingColumns+`
FROM listings
ORDER BY gross_yield_pct DESC NULLS LAST, updated_at DESC
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var listings []Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, 0, err
		}
		listings = append(listings, *l)
	}
	return listings, total, rows.Err()
}

// SetUserStatus records the user's triage decision for a listing.
func (s *Store) SetUserStatus(ctx context.Context, url, status string) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE listings
SET user_status = $2, updated_at = NOW()
WHERE url = $1
`, url, status)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SaveAnalysis attaches an AI analysis to a stored listing.
func (s *Store) SaveAnalysis(ctx context.Context, url string, a ai.Analysis) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE listings
SET analysis_text = $2,
    analysis_verdict = $3,
    analysis_opinion = $4,
    analysis_score = $5,
    updated_at = NOW()
WHERE url = $1
`, url, a.Text, a.Verdict, a.Opinion, a.Score)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteOldListings drops listings not refreshed within the retention window.
func (s *Store) DeleteOldListings(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	res, err := s.db.ExecContext(ctx, `
DELETE FROM listings
WHERE updated_at < $1
`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*Listing, error) {
	var (
		l         Listing
		price     sql.NullFloat64
		mRent     sql.NullFloat64
		aRent     sql.NullFloat64
		mCharges  sql.NullFloat64
		aCharges  sql.NullFloat64
		tax       sql.NullFloat64
		grossYld  sql.NullFloat64
		netYld    sql.NullFloat64
		firstSeen time.Time
		updatedAt time.Time
	)

	if err := row.Scan(
		&l.URL,
		&l.Title,
		&price,
		&mRent,
		&aRent,
		&mCharges,
		&aCharges,
		&tax,
		&grossYld,
		&netYld,
		&l.AdText,
		&l.UserStatus,
		&l.Analysis.Text,
		&l.Analysis.Verdict,
		&l.Analysis.Opinion,
		&l.Analysis.Score,
		&firstSeen,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	l.Price = nullToPtr(price)
	l.MonthlyRent = nullToPtr(mRent)
	l.AnnualRent = nullToPtr(aRent)
	l.MonthlyCharges = nullToPtr(mCharges)
	l.AnnualCharges = nullToPtr(aCharges)
	l.TaxeFonciereAnnual = nullToPtr(tax)
	l.GrossYieldPct = nullToPtr(grossYld)
	l.NetYieldPct = nullToPtr(netYld)
	l.FirstSeenAt = firstSeen
	l.UpdatedAt = updatedAt
	return &l, nil
}

func nullToPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
