package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"catalog-backend/lib/drupal"
	"catalog-backend/lib/htmlutil"
	"catalog-backend/services/catalog"
)

type schoolProcessor struct {
	store   *catalog.Store
	partner catalog.Partner
}

func (p *schoolProcessor) NodeType() string {
	return "school"
}

func (p *schoolProcessor) Query() drupal.NodeQuery {
	return drupal.NodeQuery{Type: p.NodeType()}
}

// schoolTagFields maps the boolean flag fields on a school node to
// the tag labels they stand for.
var schoolTagFields = []struct {
	field string
	tag   string
}{
	{"field_school_is_founder", "founder"},
	{"field_school_is_charter", "charter"},
	{"field_school_is_contributor", "contributor"},
	{"field_school_is_partner", "partner"},
}

func (p *schoolProcessor) Process(ctx context.Context, node map[string]any) error {
	key := stringField(node, "title")
	if key == "" {
		return fmt.Errorf("school node carries no title")
	}

	school, err := p.store.UpdateOrCreateSchool(ctx, p.partner.ID, key, catalog.OrganizationParams{
		UUID:             stringField(node, "uuid"),
		Name:             stringField(node, "field_school_name"),
		Description:      htmlutil.Clean(nestedValue(node["field_school_description"])),
		LogoImageURL:     nestedURL(node["field_school_image_logo"]),
		BannerImageURL:   nestedURL(node["field_school_image_banner"]),
		MarketingURLPath: "school/" + stringField(node, "field_school_url_slug"),
	})
	if err != nil {
		return err
	}

	var tags []string
	for _, mapping := range schoolTagFields {
		if boolField(node, mapping.field) {
			tags = append(tags, mapping.tag)
		}
	}
	if err := p.store.SetOrganizationTags(ctx, school.ID, tags); err != nil {
		return err
	}

	slog.InfoContext(ctx, "processed school", "key", key)
	return nil
}
