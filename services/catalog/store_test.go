package catalog

import (
	"context"
	"testing"
	"time"

	"catalog-backend/lib/languages"
	"catalog-backend/lib/testutil"
	"catalog-backend/services/catalog/db"

	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (context.Context, *Store, Partner) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/catalog",
		DbSchema: db.Schema,
	})
	t.Cleanup(cleanup)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	t.Cleanup(cancel)

	store := NewStore(setup.DB)
	partner, err := store.EnsurePartner(ctx, "edx", "edX")
	require.NoError(t, err)

	return ctx, store, partner
}

func TestEnsurePartner(t *testing.T) {
	ctx, store, partner := setupStore(t)

	again, err := store.EnsurePartner(ctx, "edx", "ignored on lookup")
	require.NoError(t, err)
	require.Equal(t, partner.ID, again.ID)
	require.Equal(t, "edX", again.Name)
}

func TestSchoolAndSponsorIdentity(t *testing.T) {
	ctx, store, partner := setupStore(t)

	school, err := store.UpdateOrCreateSchool(ctx, partner.ID, "MITx", OrganizationParams{
		UUID: "school-uuid",
		Name: "MIT",
	})
	require.NoError(t, err)

	// schools upsert by key: same key, new uuid overwrites in place
	updated, err := store.UpdateOrCreateSchool(ctx, partner.ID, "MITx", OrganizationParams{
		UUID: "school-uuid-2",
		Name: "MIT again",
	})
	require.NoError(t, err)
	require.Equal(t, school.ID, updated.ID)
	require.Equal(t, "MIT again", updated.Name)

	// sponsors upsert by uuid
	sponsor, err := store.UpdateOrCreateSponsor(ctx, partner.ID, "sponsor-uuid", OrganizationParams{
		Key:  "acme",
		Name: "ACME Corp",
	})
	require.NoError(t, err)
	require.NotEqual(t, school.ID, sponsor.ID)

	sponsorAgain, err := store.UpdateOrCreateSponsor(ctx, partner.ID, "sponsor-uuid", OrganizationParams{
		Key:  "acme-2",
		Name: "ACME Corporation",
	})
	require.NoError(t, err)
	require.Equal(t, sponsor.ID, sponsorAgain.ID)
	require.Equal(t, "acme-2", sponsorAgain.Key)
}

func TestOrganizationTagsReplaced(t *testing.T) {
	ctx, store, partner := setupStore(t)

	school, err := store.UpdateOrCreateSchool(ctx, partner.ID, "MITx", OrganizationParams{Name: "MIT"})
	require.NoError(t, err)

	require.NoError(t, store.SetOrganizationTags(ctx, school.ID, []string{"founder", "charter"}))
	require.NoError(t, store.SetOrganizationTags(ctx, school.ID, []string{"founder", "partner"}))

	tags, err := store.GetOrganizationTags(ctx, school.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"founder", "partner"}, tags)
}

func TestFindOrganizationByNameOrKey(t *testing.T) {
	ctx, store, partner := setupStore(t)

	_, err := store.UpdateOrCreateSchool(ctx, partner.ID, "MITx", OrganizationParams{Name: "Massachusetts Institute of Technology"})
	require.NoError(t, err)

	byName, err := store.FindOrganizationByNameOrKey(ctx, partner.ID, "massachusetts institute of technology")
	require.NoError(t, err)
	require.NotNil(t, byName)

	byKey, err := store.FindOrganizationByNameOrKey(ctx, partner.ID, "mitx")
	require.NoError(t, err)
	require.NotNil(t, byKey)

	missing, err := store.FindOrganizationByNameOrKey(ctx, partner.ID, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestPersonSlugLifecycle(t *testing.T) {
	ctx, store, partner := setupStore(t)

	person, created, err := store.UpdateOrCreatePerson(ctx, partner.ID, "person-uuid", PersonParams{
		GivenName:  "Ada",
		FamilyName: "Lovelace",
	})
	require.NoError(t, err)
	require.True(t, created)
	// the auto-generated slug fires at creation time
	require.Equal(t, "ada-lovelace", person.Slug)

	require.NoError(t, store.SetPersonSlug(ctx, person.ID, "ada-lovelace-king"))

	person, created, err = store.UpdateOrCreatePerson(ctx, partner.ID, "person-uuid", PersonParams{
		GivenName:  "Augusta Ada",
		FamilyName: "King",
	})
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, "Augusta Ada", person.GivenName)
	// updates must not clobber the overridden slug
	require.Equal(t, "ada-lovelace-king", person.Slug)
}

func TestUpsertPosition(t *testing.T) {
	ctx, store, partner := setupStore(t)

	person, _, err := store.UpdateOrCreatePerson(ctx, partner.ID, "person-uuid", PersonParams{GivenName: "Ada"})
	require.NoError(t, err)

	override := "Analytical Engines Ltd"
	require.NoError(t, store.UpsertPosition(ctx, person.ID, "Engineer", nil, &override))

	position, err := store.GetPosition(ctx, person.ID)
	require.NoError(t, err)
	require.Equal(t, "Engineer", position.Title)
	require.Nil(t, position.OrganizationID)
	require.Equal(t, override, *position.OrganizationOverride)

	school, err := store.UpdateOrCreateSchool(ctx, partner.ID, "MITx", OrganizationParams{Name: "MIT"})
	require.NoError(t, err)
	require.NoError(t, store.UpsertPosition(ctx, person.ID, "Professor", &school.ID, nil))

	position, err = store.GetPosition(ctx, person.ID)
	require.NoError(t, err)
	require.Equal(t, "Professor", position.Title)
	require.Equal(t, school.ID, *position.OrganizationID)
	require.Nil(t, position.OrganizationOverride)
}

func TestCourseKeyCaseInsensitive(t *testing.T) {
	ctx, store, partner := setupStore(t)

	_, created, err := store.GetOrCreateCourse(ctx, partner.ID, "MITx+6.002x", CourseParams{Title: "Circuits"})
	require.NoError(t, err)
	require.True(t, created)

	course, created, err := store.GetOrCreateCourse(ctx, partner.ID, "mitx+6.002X", CourseParams{Title: "ignored"})
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, "Circuits", course.Title)
}

func TestCourseRunDuplicateKey(t *testing.T) {
	ctx, store, partner := setupStore(t)

	course, _, err := store.GetOrCreateCourse(ctx, partner.ID, "MITx+6.002x", CourseParams{})
	require.NoError(t, err)

	params := CourseRunParams{
		CourseID: course.ID,
		Status:   StatusPublished,
		Pacing:   PacingInstructor,
	}
	require.NoError(t, store.InsertCourseRun(ctx, "course-v1:MITx+6.002x+1T2024", params))
	require.NoError(t, store.InsertCourseRun(ctx, "course-v1:MITx+6.002x+1T2024", params))

	_, err = store.UpdateOrCreateCourseRun(ctx, "course-v1:MITx+6.002x+1T2024", params)
	require.ErrorIs(t, err, ErrDuplicateRun)
}

func TestCourseRunRoundTrip(t *testing.T) {
	ctx, store, partner := setupStore(t)

	course, _, err := store.GetOrCreateCourse(ctx, partner.ID, "MITx+6.002x", CourseParams{})
	require.NoError(t, err)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)
	weeks := int64(5)
	lang := "en-us"

	run, err := store.UpdateOrCreateCourseRun(ctx, "course-v1:MITx+6.002x+1T2024", CourseRunParams{
		CourseID:        course.ID,
		UUID:            "run-uuid",
		Status:          StatusPublished,
		Pacing:          PacingSelf,
		Start:           &start,
		End:             &end,
		WeeksToComplete: &weeks,
		LanguageCode:    &lang,
		Hidden:          true,
		MobileAvailable: true,
	})
	require.NoError(t, err)
	require.Equal(t, start, *run.Start)
	require.Equal(t, end, *run.End)
	require.Equal(t, weeks, *run.WeeksToComplete)
	require.Equal(t, "en-us", *run.LanguageCode)
	require.True(t, run.Hidden)
	require.True(t, run.MobileAvailable)

	require.NoError(t, store.SetCourseRunTranscriptLanguages(ctx, run.ID, []string{"en-us", "ja"}))
	codes, err := store.GetCourseRunTranscriptLanguages(ctx, run.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"en-us", "ja"}, codes)
}

func TestResolversOmitUnknownUUIDs(t *testing.T) {
	ctx, store, partner := setupStore(t)

	subject, err := store.UpdateOrCreateSubject(ctx, partner.ID, "physics", SubjectParams{UUID: "subject-uuid"})
	require.NoError(t, err)

	subjects, err := store.SubjectsByUUIDs(ctx, partner.ID, []string{"subject-uuid", "ghost-uuid"})
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	require.Equal(t, subject.ID, subjects[0].ID)

	orgs, err := store.OrganizationsByUUIDs(ctx, partner.ID, []string{"ghost-uuid"})
	require.NoError(t, err)
	require.Empty(t, orgs)
}

func TestProgramUpdateOnly(t *testing.T) {
	ctx, store, partner := setupStore(t)

	missing, err := store.GetProgramByMarketingSlug(ctx, partner.ID, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)

	program, err := store.CreateProgram(ctx, partner.ID, "xseries-cs", "Computer Science XSeries")
	require.NoError(t, err)

	require.NoError(t, store.UpdateProgram(ctx, program.ID, ProgramParams{
		Overview: "Learn computer science.",
		Subtitle: "a subtitle",
	}))

	got, err := store.GetProgramByMarketingSlug(ctx, partner.ID, "xseries-cs")
	require.NoError(t, err)
	require.Equal(t, "Learn computer science.", got.Overview)
	// the title belongs to the programs service, not ingestion
	require.Equal(t, "Computer Science XSeries", got.Title)
}

func TestLanguageTagsSeeded(t *testing.T) {
	ctx, store, _ := setupStore(t)

	tags, err := store.LanguageTagsByCodes(ctx, []string{"en-us", "ja", "nope"})
	require.NoError(t, err)
	require.Len(t, tags, 2)
	require.Equal(t, "en-us", tags[0].Code)
	require.Equal(t, "ja", tags[1].Code)

	// every code in the language table has a seeded reference row
	for code, name := range languages.All() {
		tags, err := store.LanguageTagsByCodes(ctx, []string{code})
		require.NoError(t, err)
		require.Len(t, tags, 1, code)
		require.Equal(t, name, tags[0].Name)
	}
}
