package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Store wraps the catalog database. All entity writes are expected to
// happen on a single goroutine unless the caller has opted into a
// write-threadsafe ingestion strategy.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ErrDuplicateRun marks the known upstream data fault where more than
// one persisted course run matches a single run key.
var ErrDuplicateRun = errors.New("multiple course runs share one key")

// EnsurePartner finds or creates the tenant record everything else is
// scoped by.
func (s *Store) EnsurePartner(ctx context.Context, shortCode, name string) (Partner, error) {
	partner := Partner{ShortCode: shortCode, Name: name}
	err := s.db.QueryRowContext(
		ctx,
		`SELECT id, name FROM partners WHERE short_code = ?`,
		shortCode,
	).Scan(&partner.ID, &partner.Name)
	if err == nil {
		return partner, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Partner{}, err
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO partners (short_code, name) VALUES (?, ?)`,
		shortCode, name,
	)
	if err != nil {
		return Partner{}, err
	}
	partner.ID, err = res.LastInsertId()
	return partner, err
}

// GetOrCreateLevelType resolves a level type name to its row id,
// creating the row on first sight.
func (s *Store) GetOrCreateLevelType(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(
		ctx, `SELECT id FROM level_types WHERE name = ?`, name,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	res, err := s.db.ExecContext(
		ctx, `INSERT INTO level_types (name) VALUES (?)`, name,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetLevelTypeName(ctx context.Context, id int64) (string, error) {
	var name string
	err := s.db.QueryRowContext(
		ctx, `SELECT name FROM level_types WHERE id = ?`, id,
	).Scan(&name)
	return name, err
}

// LanguageTagsByCodes returns the reference rows matching the given
// codes, preserving input order. Unknown codes are dropped.
func (s *Store) LanguageTagsByCodes(ctx context.Context, codes []string) ([]LanguageTag, error) {
	var tags []LanguageTag
	for _, code := range codes {
		var tag LanguageTag
		err := s.db.QueryRowContext(
			ctx, `SELECT code, name FROM language_tags WHERE code = ?`, code,
		).Scan(&tag.Code, &tag.Name)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// replaceRelations clears and refills one relation-set table for an
// owning row. Relation sets are always replaced wholesale, never
// merged.
func (s *Store) replaceRelations(ctx context.Context, table, ownerCol, relatedCol string, ownerID int64, related []any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(
		ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, table, ownerCol),
		ownerID,
	)
	if err != nil {
		return err
	}
	for _, rel := range related {
		_, err = tx.ExecContext(
			ctx,
			fmt.Sprintf(`INSERT OR IGNORE INTO %s (%s, %s) VALUES (?, ?)`, table, ownerCol, relatedCol),
			ownerID, rel,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) relationValues(ctx context.Context, query string, ownerID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

var slugCleanup = regexp.MustCompile(`[^a-z0-9]+`)

// autoSlug mimics the slug subsystem that fires at person creation
// time: a lowercase hyphenation of the name. Ingestion overwrites it
// immediately afterwards with the upstream slug.
func autoSlug(parts ...string) string {
	joined := strings.ToLower(strings.Join(parts, " "))
	joined = slugCleanup.ReplaceAllString(joined, "-")
	return strings.Trim(joined, "-")
}
