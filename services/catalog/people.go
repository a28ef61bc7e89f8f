package catalog

import (
	"context"
	"database/sql"
	"errors"
)

const personCols = `id, partner_id, uuid, given_name, family_name, bio,
	profile_image_url, slug`

func scanPerson(row *sql.Row) (Person, error) {
	var person Person
	err := row.Scan(
		&person.ID, &person.PartnerID, &person.UUID, &person.GivenName,
		&person.FamilyName, &person.Bio, &person.ProfileImageURL,
		&person.Slug,
	)
	return person, err
}

func (s *Store) GetPersonByUUID(ctx context.Context, partnerID int64, uuid string) (Person, error) {
	return scanPerson(s.db.QueryRowContext(
		ctx,
		`SELECT `+personCols+` FROM people WHERE partner_id = ? AND uuid = ?`,
		partnerID, uuid,
	))
}

// UpdateOrCreatePerson upserts a person identified by (partner, uuid).
// On creation the slug is auto-generated from the name; callers that
// want an upstream slug must overwrite it with SetPersonSlug in a
// second write, since the auto-generation fires before the desired
// slug is known.
func (s *Store) UpdateOrCreatePerson(ctx context.Context, partnerID int64, uuid string, params PersonParams) (Person, bool, error) {
	existing, err := s.GetPersonByUUID(ctx, partnerID, uuid)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Person{}, false, err
	}

	if err == nil {
		_, err = s.db.ExecContext(
			ctx,
			`UPDATE people SET
				given_name = ?, family_name = ?, bio = ?, profile_image_url = ?
			WHERE id = ?`,
			params.GivenName, params.FamilyName, params.Bio,
			params.ProfileImageURL, existing.ID,
		)
		if err != nil {
			return Person{}, false, err
		}
		person, err := s.GetPersonByUUID(ctx, partnerID, uuid)
		return person, false, err
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO people
			(partner_id, uuid, given_name, family_name, bio, profile_image_url, slug)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		partnerID, uuid, params.GivenName, params.FamilyName, params.Bio,
		params.ProfileImageURL, autoSlug(params.GivenName, params.FamilyName),
	)
	if err != nil {
		return Person{}, false, err
	}
	person, err := s.GetPersonByUUID(ctx, partnerID, uuid)
	return person, true, err
}

func (s *Store) SetPersonSlug(ctx context.Context, personID int64, slug string) error {
	_, err := s.db.ExecContext(
		ctx, `UPDATE people SET slug = ? WHERE id = ?`, slug, personID,
	)
	return err
}

// PeopleByUUIDs returns only the people that already exist; unknown
// uuids are silently omitted.
func (s *Store) PeopleByUUIDs(ctx context.Context, partnerID int64, uuids []string) ([]Person, error) {
	var people []Person
	for _, uuid := range uuids {
		person, err := s.GetPersonByUUID(ctx, partnerID, uuid)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, err
		}
		people = append(people, person)
	}
	return people, nil
}

// UpsertPosition replaces the person's single position record
// wholesale; there is no position history. Exactly one of
// organizationID and organizationOverride may be set.
func (s *Store) UpsertPosition(ctx context.Context, personID int64, title string, organizationID *int64, organizationOverride *string) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO positions (person_id, title, organization_id, organization_override)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (person_id) DO UPDATE SET
			title = excluded.title,
			organization_id = excluded.organization_id,
			organization_override = excluded.organization_override`,
		personID, title, organizationID, organizationOverride,
	)
	return err
}

// GetPosition returns nil when the person holds no position.
func (s *Store) GetPosition(ctx context.Context, personID int64) (*Position, error) {
	position := Position{PersonID: personID}
	err := s.db.QueryRowContext(
		ctx,
		`SELECT title, organization_id, organization_override FROM positions WHERE person_id = ?`,
		personID,
	).Scan(&position.Title, &position.OrganizationID, &position.OrganizationOverride)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &position, nil
}
