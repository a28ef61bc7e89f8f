package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"catalog-backend/lib/drupal"
	"catalog-backend/lib/htmlutil"
	"catalog-backend/services/catalog"
)

type subjectProcessor struct {
	store   *catalog.Store
	partner catalog.Partner
}

func (p *subjectProcessor) NodeType() string {
	return "subject"
}

func (p *subjectProcessor) Query() drupal.NodeQuery {
	return drupal.NodeQuery{Type: p.NodeType()}
}

func (p *subjectProcessor) Process(ctx context.Context, node map[string]any) error {
	slug := stringField(node, "field_subject_url_slug")
	if slug == "" {
		return fmt.Errorf("subject node carries no url slug")
	}

	_, err := p.store.UpdateOrCreateSubject(ctx, p.partner.ID, slug, catalog.SubjectParams{
		UUID:         stringField(node, "uuid"),
		Name:         stringField(node, "title"),
		Description:  htmlutil.Clean(nestedValue(node["body"])),
		Subtitle:     htmlutil.Clean(nestedValue(node["field_subject_subtitle"])),
		CardImageURL: nestedURL(node["field_subject_card_image"]),
		// not a typo: the marketing site stores subject banners
		// under a field named for xseries
		BannerImageURL: nestedURL(node["field_xseries_banner_image"]),
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "processed subject", "slug", slug)
	return nil
}
