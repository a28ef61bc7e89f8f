package catalog

import (
	"context"
	"database/sql"
	"errors"
)

const subjectCols = `id, partner_id, slug, uuid, name, description,
	subtitle, card_image_url, banner_image_url`

func scanSubject(row *sql.Row) (Subject, error) {
	var subject Subject
	err := row.Scan(
		&subject.ID, &subject.PartnerID, &subject.Slug, &subject.UUID,
		&subject.Name, &subject.Description, &subject.Subtitle,
		&subject.CardImageURL, &subject.BannerImageURL,
	)
	return subject, err
}

func (s *Store) GetSubjectBySlug(ctx context.Context, partnerID int64, slug string) (Subject, error) {
	return scanSubject(s.db.QueryRowContext(
		ctx,
		`SELECT `+subjectCols+` FROM subjects WHERE partner_id = ? AND slug = ?`,
		partnerID, slug,
	))
}

// UpdateOrCreateSubject upserts a subject identified by (partner,
// slug); every field is overwritten on update.
func (s *Store) UpdateOrCreateSubject(ctx context.Context, partnerID int64, slug string, params SubjectParams) (Subject, error) {
	existing, err := s.GetSubjectBySlug(ctx, partnerID, slug)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Subject{}, err
	}

	if err == nil {
		_, err = s.db.ExecContext(
			ctx,
			`UPDATE subjects SET
				uuid = ?, name = ?, description = ?, subtitle = ?,
				card_image_url = ?, banner_image_url = ?
			WHERE id = ?`,
			params.UUID, params.Name, params.Description, params.Subtitle,
			params.CardImageURL, params.BannerImageURL, existing.ID,
		)
		if err != nil {
			return Subject{}, err
		}
		return s.GetSubjectBySlug(ctx, partnerID, slug)
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO subjects
			(partner_id, slug, uuid, name, description, subtitle, card_image_url, banner_image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		partnerID, slug, params.UUID, params.Name, params.Description,
		params.Subtitle, params.CardImageURL, params.BannerImageURL,
	)
	if err != nil {
		return Subject{}, err
	}
	return s.GetSubjectBySlug(ctx, partnerID, slug)
}

// SubjectsByUUIDs returns only the subjects that already exist;
// unknown uuids are silently omitted.
func (s *Store) SubjectsByUUIDs(ctx context.Context, partnerID int64, uuids []string) ([]Subject, error) {
	var subjects []Subject
	for _, uuid := range uuids {
		subject, err := scanSubject(s.db.QueryRowContext(
			ctx,
			`SELECT `+subjectCols+` FROM subjects WHERE partner_id = ? AND uuid = ?`,
			partnerID, uuid,
		))
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, subject)
	}
	return subjects, nil
}
