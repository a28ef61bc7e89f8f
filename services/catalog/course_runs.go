package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const courseRunCols = `id, course_id, key, uuid, title_override, slug,
	language_code, card_image_url, status, pacing, start_date, end_date,
	weeks_to_complete, hidden, mobile_available`

func scanCourseRun(row *sql.Row) (CourseRun, error) {
	var run CourseRun
	var start, end sql.NullInt64
	err := row.Scan(
		&run.ID, &run.CourseID, &run.Key, &run.UUID, &run.TitleOverride,
		&run.Slug, &run.LanguageCode, &run.CardImageURL, &run.Status,
		&run.Pacing, &start, &end, &run.WeeksToComplete, &run.Hidden,
		&run.MobileAvailable,
	)
	if err != nil {
		return CourseRun{}, err
	}
	if start.Valid {
		t := time.Unix(start.Int64, 0).UTC()
		run.Start = &t
	}
	if end.Valid {
		t := time.Unix(end.Int64, 0).UTC()
		run.End = &t
	}
	return run, nil
}

func unixOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}

// GetCourseRunByKey matches the run key case-insensitively.
func (s *Store) GetCourseRunByKey(ctx context.Context, key string) (CourseRun, error) {
	return scanCourseRun(s.db.QueryRowContext(
		ctx,
		`SELECT `+courseRunCols+` FROM course_runs WHERE key = ?`,
		key,
	))
}

// UpdateOrCreateCourseRun upserts a run by its case-insensitive key.
// More than one persisted run sharing the key is a known upstream
// data fault reported as ErrDuplicateRun; callers log and skip.
func (s *Store) UpdateOrCreateCourseRun(ctx context.Context, key string, params CourseRunParams) (CourseRun, error) {
	var matches int
	err := s.db.QueryRowContext(
		ctx, `SELECT COUNT(*) FROM course_runs WHERE key = ?`, key,
	).Scan(&matches)
	if err != nil {
		return CourseRun{}, err
	}
	if matches > 1 {
		return CourseRun{}, fmt.Errorf("%w: %s", ErrDuplicateRun, key)
	}

	if matches == 1 {
		_, err = s.db.ExecContext(
			ctx,
			`UPDATE course_runs SET
				course_id = ?, uuid = ?, title_override = ?, slug = ?,
				language_code = ?, card_image_url = ?, status = ?, pacing = ?,
				start_date = ?, end_date = ?, weeks_to_complete = ?,
				hidden = ?, mobile_available = ?
			WHERE key = ?`,
			params.CourseID, params.UUID, params.TitleOverride, params.Slug,
			params.LanguageCode, params.CardImageURL, params.Status, params.Pacing,
			unixOrNil(params.Start), unixOrNil(params.End), params.WeeksToComplete,
			params.Hidden, params.MobileAvailable, key,
		)
		if err != nil {
			return CourseRun{}, err
		}
		return s.GetCourseRunByKey(ctx, key)
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO course_runs
			(course_id, key, uuid, title_override, slug, language_code,
			card_image_url, status, pacing, start_date, end_date,
			weeks_to_complete, hidden, mobile_available)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		params.CourseID, key, params.UUID, params.TitleOverride, params.Slug,
		params.LanguageCode, params.CardImageURL, params.Status, params.Pacing,
		unixOrNil(params.Start), unixOrNil(params.End), params.WeeksToComplete,
		params.Hidden, params.MobileAvailable,
	)
	if err != nil {
		return CourseRun{}, err
	}
	return s.GetCourseRunByKey(ctx, key)
}

// InsertCourseRun exists for backfilling test fixtures with the
// duplicate-key fault; ingestion itself always goes through
// UpdateOrCreateCourseRun.
func (s *Store) InsertCourseRun(ctx context.Context, key string, params CourseRunParams) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO course_runs
			(course_id, key, uuid, title_override, slug, language_code,
			card_image_url, status, pacing, start_date, end_date,
			weeks_to_complete, hidden, mobile_available)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		params.CourseID, key, params.UUID, params.TitleOverride, params.Slug,
		params.LanguageCode, params.CardImageURL, params.Status, params.Pacing,
		unixOrNil(params.Start), unixOrNil(params.End), params.WeeksToComplete,
		params.Hidden, params.MobileAvailable,
	)
	return err
}

// SetCourseRunStaff replaces the run's staff set.
func (s *Store) SetCourseRunStaff(ctx context.Context, runID int64, personIDs []int64) error {
	related := make([]any, len(personIDs))
	for i, id := range personIDs {
		related[i] = id
	}
	return s.replaceRelations(ctx, "course_run_staff", "course_run_id", "person_id", runID, related)
}

func (s *Store) GetCourseRunStaffUUIDs(ctx context.Context, runID int64) ([]string, error) {
	return s.relationValues(
		ctx,
		`SELECT people.uuid FROM course_run_staff
		JOIN people ON people.id = course_run_staff.person_id
		WHERE course_run_staff.course_run_id = ? ORDER BY people.uuid`,
		runID,
	)
}

// SetCourseRunTranscriptLanguages replaces the run's transcript
// language set.
func (s *Store) SetCourseRunTranscriptLanguages(ctx context.Context, runID int64, codes []string) error {
	related := make([]any, len(codes))
	for i, code := range codes {
		related[i] = code
	}
	return s.replaceRelations(
		ctx, "course_run_transcript_languages", "course_run_id", "language_code",
		runID, related,
	)
}

func (s *Store) GetCourseRunTranscriptLanguages(ctx context.Context, runID int64) ([]string, error) {
	return s.relationValues(
		ctx,
		`SELECT language_code FROM course_run_transcript_languages
		WHERE course_run_id = ? ORDER BY language_code`,
		runID,
	)
}
