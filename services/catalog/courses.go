package catalog

import (
	"context"
	"database/sql"
	"errors"
)

const courseCols = `id, partner_id, key, title, number, short_description,
	full_description, level_type_id, card_image_url, video_url, video_image_url`

func scanCourse(row *sql.Row) (Course, error) {
	var course Course
	err := row.Scan(
		&course.ID, &course.PartnerID, &course.Key, &course.Title,
		&course.Number, &course.ShortDescription, &course.FullDescription,
		&course.LevelTypeID, &course.CardImageURL, &course.VideoURL,
		&course.VideoImageURL,
	)
	return course, err
}

// GetCourseByKey matches the key case-insensitively.
func (s *Store) GetCourseByKey(ctx context.Context, partnerID int64, key string) (Course, error) {
	return scanCourse(s.db.QueryRowContext(
		ctx,
		`SELECT `+courseCols+` FROM courses WHERE partner_id = ? AND key = ?`,
		partnerID, key,
	))
}

// GetOrCreateCourse creates the course on first sight of its key and
// otherwise returns the persisted row untouched; whether an update is
// warranted is the caller's policy decision.
func (s *Store) GetOrCreateCourse(ctx context.Context, partnerID int64, key string, params CourseParams) (Course, bool, error) {
	existing, err := s.GetCourseByKey(ctx, partnerID, key)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Course{}, false, err
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO courses
			(partner_id, key, title, number, short_description, full_description,
			level_type_id, card_image_url, video_url, video_image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		partnerID, key, params.Title, params.Number, params.ShortDescription,
		params.FullDescription, params.LevelTypeID, params.CardImageURL,
		params.VideoURL, params.VideoImageURL,
	)
	if err != nil {
		return Course{}, false, err
	}
	course, err := s.GetCourseByKey(ctx, partnerID, key)
	return course, true, err
}

// UpdateCourse overwrites the mutable course fields.
func (s *Store) UpdateCourse(ctx context.Context, courseID int64, params CourseParams) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE courses SET
			title = ?, number = ?, short_description = ?, full_description = ?,
			level_type_id = ?, card_image_url = ?, video_url = ?, video_image_url = ?
		WHERE id = ?`,
		params.Title, params.Number, params.ShortDescription,
		params.FullDescription, params.LevelTypeID, params.CardImageURL,
		params.VideoURL, params.VideoImageURL, courseID,
	)
	return err
}

// SetCourseSubjects replaces the course's subject set.
func (s *Store) SetCourseSubjects(ctx context.Context, courseID int64, subjectIDs []int64) error {
	related := make([]any, len(subjectIDs))
	for i, id := range subjectIDs {
		related[i] = id
	}
	return s.replaceRelations(ctx, "course_subjects", "course_id", "subject_id", courseID, related)
}

func (s *Store) GetCourseSubjectSlugs(ctx context.Context, courseID int64) ([]string, error) {
	return s.relationValues(
		ctx,
		`SELECT subjects.slug FROM course_subjects
		JOIN subjects ON subjects.id = course_subjects.subject_id
		WHERE course_subjects.course_id = ? ORDER BY subjects.slug`,
		courseID,
	)
}

// SetCourseAuthoringOrganizations replaces the course's authoring
// organization set.
func (s *Store) SetCourseAuthoringOrganizations(ctx context.Context, courseID int64, organizationIDs []int64) error {
	related := make([]any, len(organizationIDs))
	for i, id := range organizationIDs {
		related[i] = id
	}
	return s.replaceRelations(
		ctx, "course_authoring_organizations", "course_id", "organization_id",
		courseID, related,
	)
}

func (s *Store) GetCourseAuthoringOrganizationKeys(ctx context.Context, courseID int64) ([]string, error) {
	return s.relationValues(
		ctx,
		`SELECT organizations.key FROM course_authoring_organizations
		JOIN organizations ON organizations.id = course_authoring_organizations.organization_id
		WHERE course_authoring_organizations.course_id = ? ORDER BY organizations.key`,
		courseID,
	)
}
