package catalog

import (
	"context"
	"database/sql"
	"errors"
)

const programCols = `id, partner_id, marketing_slug, title, subtitle,
	overview, card_image_url, video_url, credit_redemption_overview`

func scanProgram(row *sql.Row) (Program, error) {
	var program Program
	err := row.Scan(
		&program.ID, &program.PartnerID, &program.MarketingSlug,
		&program.Title, &program.Subtitle, &program.Overview,
		&program.CardImageURL, &program.VideoURL,
		&program.CreditRedemptionOverview,
	)
	return program, err
}

// GetProgramByMarketingSlug returns nil when the program does not
// exist; ingestion never creates programs, so absence is an expected
// condition rather than an error.
func (s *Store) GetProgramByMarketingSlug(ctx context.Context, partnerID int64, slug string) (*Program, error) {
	program, err := scanProgram(s.db.QueryRowContext(
		ctx,
		`SELECT `+programCols+` FROM programs WHERE partner_id = ? AND marketing_slug = ?`,
		partnerID, slug,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &program, nil
}

// UpdateProgram overwrites the marketing-sourced program fields.
func (s *Store) UpdateProgram(ctx context.Context, programID int64, params ProgramParams) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE programs SET
			subtitle = ?, overview = ?, card_image_url = ?, video_url = ?,
			credit_redemption_overview = ?
		WHERE id = ?`,
		params.Subtitle, params.Overview, params.CardImageURL,
		params.VideoURL, params.CreditRedemptionOverview, programID,
	)
	return err
}

// CreateProgram backfills a program record; programs normally come
// from the programs service, not from ingestion.
func (s *Store) CreateProgram(ctx context.Context, partnerID int64, marketingSlug, title string) (Program, error) {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO programs (partner_id, marketing_slug, title) VALUES (?, ?, ?)`,
		partnerID, marketingSlug, title,
	)
	if err != nil {
		return Program{}, err
	}
	program, err := s.GetProgramByMarketingSlug(ctx, partnerID, marketingSlug)
	if err != nil {
		return Program{}, err
	}
	return *program, nil
}
