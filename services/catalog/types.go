// Package catalog is the persistence collaborator for the ingestion
// pipeline: partner-scoped create/find/update-or-create/set-relation
// operations over the catalog database. It never deletes entities.
package catalog

import "time"

type Partner struct {
	ID        int64
	ShortCode string
	Name      string
}

type CourseRunStatus string

const (
	StatusPublished   CourseRunStatus = "published"
	StatusUnpublished CourseRunStatus = "unpublished"
)

type CourseRunPacing string

const (
	PacingSelf       CourseRunPacing = "self_paced"
	PacingInstructor CourseRunPacing = "instructor_paced"
)

type Organization struct {
	ID               int64
	PartnerID        int64
	UUID             string
	Key              string
	Name             string
	Description      string
	LogoImageURL     string
	BannerImageURL   string
	MarketingURLPath string
}

// OrganizationParams carries the mutable organization fields; key and
// uuid travel separately since schools and sponsors use different
// identity strategies.
type OrganizationParams struct {
	UUID             string
	Key              string
	Name             string
	Description      string
	LogoImageURL     string
	BannerImageURL   string
	MarketingURLPath string
}

type Subject struct {
	ID             int64
	PartnerID      int64
	Slug           string
	UUID           string
	Name           string
	Description    string
	Subtitle       string
	CardImageURL   string
	BannerImageURL string
}

type SubjectParams struct {
	UUID           string
	Name           string
	Description    string
	Subtitle       string
	CardImageURL   string
	BannerImageURL string
}

type Person struct {
	ID              int64
	PartnerID       int64
	UUID            string
	GivenName       string
	FamilyName      string
	Bio             string
	ProfileImageURL string
	Slug            string
}

type PersonParams struct {
	GivenName       string
	FamilyName      string
	Bio             string
	ProfileImageURL string
}

type Position struct {
	PersonID             int64
	Title                string
	OrganizationID       *int64
	OrganizationOverride *string
}

type Course struct {
	ID               int64
	PartnerID        int64
	Key              string
	Title            string
	Number           string
	ShortDescription string
	FullDescription  string
	LevelTypeID      *int64
	CardImageURL     string
	VideoURL         string
	VideoImageURL    string
}

type CourseParams struct {
	Title            string
	Number           string
	ShortDescription string
	FullDescription  string
	LevelTypeID      *int64
	CardImageURL     string
	VideoURL         string
	VideoImageURL    string
}

type CourseRun struct {
	ID              int64
	CourseID        int64
	Key             string
	UUID            string
	TitleOverride   string
	Slug            string
	LanguageCode    *string
	CardImageURL    string
	Status          CourseRunStatus
	Pacing          CourseRunPacing
	Start           *time.Time
	End             *time.Time
	WeeksToComplete *int64
	Hidden          bool
	MobileAvailable bool
}

type CourseRunParams struct {
	CourseID        int64
	UUID            string
	TitleOverride   string
	Slug            string
	LanguageCode    *string
	CardImageURL    string
	Status          CourseRunStatus
	Pacing          CourseRunPacing
	Start           *time.Time
	End             *time.Time
	WeeksToComplete *int64
	Hidden          bool
	MobileAvailable bool
}

type Program struct {
	ID                       int64
	PartnerID                int64
	MarketingSlug            string
	Title                    string
	Subtitle                 string
	Overview                 string
	CardImageURL             string
	VideoURL                 string
	CreditRedemptionOverview string
}

// ProgramParams carries the fields ingestion is allowed to update;
// programs themselves are never created by ingestion.
type ProgramParams struct {
	Subtitle                 string
	Overview                 string
	CardImageURL             string
	VideoURL                 string
	CreditRedemptionOverview string
}

type LanguageTag struct {
	Code string
	Name string
}
