package catalog

import (
	"context"
	"database/sql"
	"errors"
)

const organizationCols = `id, partner_id, uuid, key, name, description,
	logo_image_url, banner_image_url, marketing_url_path`

func scanOrganization(row *sql.Row) (Organization, error) {
	var org Organization
	err := row.Scan(
		&org.ID, &org.PartnerID, &org.UUID, &org.Key, &org.Name,
		&org.Description, &org.LogoImageURL, &org.BannerImageURL,
		&org.MarketingURLPath,
	)
	return org, err
}

func (s *Store) GetOrganizationByKey(ctx context.Context, partnerID int64, key string) (Organization, error) {
	return scanOrganization(s.db.QueryRowContext(
		ctx,
		`SELECT `+organizationCols+` FROM organizations WHERE partner_id = ? AND key = ?`,
		partnerID, key,
	))
}

func (s *Store) GetOrganizationByUUID(ctx context.Context, partnerID int64, uuid string) (Organization, error) {
	return scanOrganization(s.db.QueryRowContext(
		ctx,
		`SELECT `+organizationCols+` FROM organizations WHERE partner_id = ? AND uuid = ?`,
		partnerID, uuid,
	))
}

// UpdateOrCreateSchool upserts an organization identified by
// (partner, key). Schools key on the node title.
func (s *Store) UpdateOrCreateSchool(ctx context.Context, partnerID int64, key string, params OrganizationParams) (Organization, error) {
	existing, err := s.GetOrganizationByKey(ctx, partnerID, key)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Organization{}, err
	}
	if err == nil {
		return s.updateOrganization(ctx, existing.ID, key, params)
	}
	return s.insertOrganization(ctx, partnerID, key, params)
}

// UpdateOrCreateSponsor upserts an organization identified by
// (partner, uuid). Sponsors key on the node uuid.
func (s *Store) UpdateOrCreateSponsor(ctx context.Context, partnerID int64, uuid string, params OrganizationParams) (Organization, error) {
	params.UUID = uuid
	existing, err := s.GetOrganizationByUUID(ctx, partnerID, uuid)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Organization{}, err
	}
	if err == nil {
		return s.updateOrganization(ctx, existing.ID, params.Key, params)
	}
	return s.insertOrganization(ctx, partnerID, params.Key, params)
}

func (s *Store) insertOrganization(ctx context.Context, partnerID int64, key string, params OrganizationParams) (Organization, error) {
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO organizations
			(partner_id, uuid, key, name, description, logo_image_url, banner_image_url, marketing_url_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		partnerID, params.UUID, key, params.Name, params.Description,
		params.LogoImageURL, params.BannerImageURL, params.MarketingURLPath,
	)
	if err != nil {
		return Organization{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Organization{}, err
	}
	return Organization{
		ID:               id,
		PartnerID:        partnerID,
		UUID:             params.UUID,
		Key:              key,
		Name:             params.Name,
		Description:      params.Description,
		LogoImageURL:     params.LogoImageURL,
		BannerImageURL:   params.BannerImageURL,
		MarketingURLPath: params.MarketingURLPath,
	}, nil
}

func (s *Store) updateOrganization(ctx context.Context, id int64, key string, params OrganizationParams) (Organization, error) {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE organizations SET
			uuid = ?, key = ?, name = ?, description = ?,
			logo_image_url = ?, banner_image_url = ?, marketing_url_path = ?
		WHERE id = ?`,
		params.UUID, key, params.Name, params.Description,
		params.LogoImageURL, params.BannerImageURL, params.MarketingURLPath,
		id,
	)
	if err != nil {
		return Organization{}, err
	}
	return scanOrganization(s.db.QueryRowContext(
		ctx, `SELECT `+organizationCols+` FROM organizations WHERE id = ?`, id,
	))
}

// FindOrganizationByNameOrKey matches case-insensitively against both
// the name and the key. Returns nil when nothing matches.
func (s *Store) FindOrganizationByNameOrKey(ctx context.Context, partnerID int64, name string) (*Organization, error) {
	org, err := scanOrganization(s.db.QueryRowContext(
		ctx,
		`SELECT `+organizationCols+` FROM organizations
		WHERE partner_id = ? AND (name = ? COLLATE NOCASE OR key = ? COLLATE NOCASE)
		LIMIT 1`,
		partnerID, name, name,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// OrganizationsByUUIDs returns only the organizations that already
// exist; unknown uuids are silently omitted.
func (s *Store) OrganizationsByUUIDs(ctx context.Context, partnerID int64, uuids []string) ([]Organization, error) {
	var orgs []Organization
	for _, uuid := range uuids {
		org, err := s.GetOrganizationByUUID(ctx, partnerID, uuid)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, nil
}

// SetOrganizationTags replaces the organization's tag set.
func (s *Store) SetOrganizationTags(ctx context.Context, organizationID int64, tags []string) error {
	related := make([]any, len(tags))
	for i, tag := range tags {
		related[i] = tag
	}
	return s.replaceRelations(ctx, "organization_tags", "organization_id", "tag", organizationID, related)
}

func (s *Store) GetOrganizationTags(ctx context.Context, organizationID int64) ([]string, error) {
	return s.relationValues(
		ctx,
		`SELECT tag FROM organization_tags WHERE organization_id = ? ORDER BY tag`,
		organizationID,
	)
}
