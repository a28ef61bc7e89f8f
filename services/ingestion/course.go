package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"catalog-backend/lib/coursekey"
	"catalog-backend/lib/drupal"
	"catalog-backend/lib/htmlutil"
	"catalog-backend/services/catalog"
)

type courseProcessor struct {
	store   *catalog.Store
	partner catalog.Partner
	resolve resolver
}

func (p *courseProcessor) NodeType() string {
	return "course"
}

func (p *courseProcessor) Query() drupal.NodeQuery {
	return drupal.NodeQuery{
		Type: p.NodeType(),
		// language names live in nested taxonomy_term entities
		LoadEntityRefs: "file,taxonomy_term",
	}
}

func (p *courseProcessor) Process(ctx context.Context, node map[string]any) error {
	runKey, err := coursekey.Parse(stringField(node, "field_course_id"))
	if err != nil {
		return fmt.Errorf("course node carries an unparseable run key: %w", err)
	}
	key := runKey.CourseKey()

	title := htmlutil.Clean(nestedValue(node["field_course_course_title"]))

	var levelTypeID *int64
	if name := stringField(node, "field_course_level"); name != "" {
		id, err := p.store.GetOrCreateLevelType(ctx, name)
		if err != nil {
			return err
		}
		levelTypeID = &id
	}

	params := catalog.CourseParams{
		Title:            title,
		Number:           stringField(node, "field_course_code"),
		ShortDescription: htmlutil.Clean(stringField(node, "field_course_sub_title_short")),
		FullDescription:  p.description(node),
		LevelTypeID:      levelTypeID,
		CardImageURL:     nestedURL(node["field_course_image_promoted"]),
		VideoURL:         nestedURL(node["field_product_video"]),
		VideoImageURL:    nestedURL(node["field_course_image_featured_card"]),
	}

	course, created, err := p.store.GetOrCreateCourse(ctx, p.partner.ID, key, params)
	if err != nil {
		return err
	}

	// unpublished nodes routinely carry placeholder values in required
	// fields; only published sources may overwrite an existing course
	if !created && isPublished(node) {
		if err := p.store.UpdateCourse(ctx, course.ID, params); err != nil {
			return err
		}
	}

	subjectIDs, err := p.resolve.subjectIDs(ctx, listField(node, "field_course_subject"))
	if err != nil {
		return err
	}
	if err := p.store.SetCourseSubjects(ctx, course.ID, subjectIDs); err != nil {
		return err
	}

	organizationIDs, err := p.resolve.organizationIDs(ctx, listField(node, "field_course_school_node"))
	if err != nil {
		return err
	}
	if err := p.store.SetCourseAuthoringOrganizations(ctx, course.ID, organizationIDs); err != nil {
		return err
	}

	if err := p.upsertCourseRun(ctx, course, node, title); err != nil {
		return err
	}

	slog.InfoContext(ctx, "processed course", "key", key)
	return nil
}

// description prefers the body field and falls back to the plain
// description field.
func (p *courseProcessor) description(node map[string]any) string {
	description := nestedValue(node["field_course_body"])
	if description == "" {
		description = nestedValue(node["field_course_description"])
	}
	return htmlutil.Clean(description)
}

func (p *courseProcessor) upsertCourseRun(ctx context.Context, course catalog.Course, node map[string]any, title string) error {
	key := stringField(node, "field_course_id")

	languageCodes, err := p.resolve.languageCodes(ctx, listField(node, "field_course_languages"))
	if err != nil {
		return err
	}
	var language *string
	if len(languageCodes) > 0 {
		language = &languageCodes[0]
	}

	start := unixField(node, "field_course_start_date")
	end := unixField(node, "field_course_end_date")

	weeks := explicitWeeks(node)
	if weeks == nil && start != nil && end != nil {
		count := weeklyOccurrences(*start, *end)
		weeks = &count
	}

	status := catalog.StatusUnpublished
	if isPublished(node) {
		status = catalog.StatusPublished
	}
	pacing := catalog.PacingInstructor
	if boolField(node, "field_course_self_paced") {
		pacing = catalog.PacingSelf
	}

	run, err := p.store.UpdateOrCreateCourseRun(ctx, key, catalog.CourseRunParams{
		CourseID:        course.ID,
		UUID:            stringField(node, "uuid"),
		TitleOverride:   title,
		Slug:            lastURLSegment(stringField(node, "url")),
		LanguageCode:    language,
		CardImageURL:    nestedURL(node["field_course_image_promoted"]),
		Status:          status,
		Pacing:          pacing,
		Start:           start,
		End:             end,
		WeeksToComplete: weeks,
		// 'couse' is the field's actual upstream spelling
		Hidden:          boolField(node, "field_couse_is_hidden"),
		MobileAvailable: boolField(node, "field_course_enrollment_mobile"),
	})
	if errors.Is(err, catalog.ErrDuplicateRun) {
		slog.ErrorContext(ctx, "multiple course runs are identified by one key", "key", key, "err", err)
		return nil
	}
	if err != nil {
		return err
	}

	staffIDs, err := p.resolve.personIDs(ctx, listField(node, "field_course_staff"))
	if err != nil {
		return err
	}
	if err := p.store.SetCourseRunStaff(ctx, run.ID, staffIDs); err != nil {
		return err
	}

	transcriptCodes, err := p.resolve.languageCodes(ctx, listField(node, "field_course_video_locale_lang"))
	if err != nil {
		return err
	}
	return p.store.SetCourseRunTranscriptLanguages(ctx, run.ID, transcriptCodes)
}

// explicitWeeks reads the duration field, which travels as a numeric
// string when populated; zero or unparseable counts as absent.
func explicitWeeks(node map[string]any) *int64 {
	var weeks int64
	switch v := node["field_course_required_weeks"].(type) {
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil
		}
		weeks = n
	case float64:
		weeks = int64(v)
	default:
		return nil
	}
	if weeks == 0 {
		return nil
	}
	return &weeks
}
