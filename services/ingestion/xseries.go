package ingestion

import (
	"context"
	"log/slog"
	"strings"

	"catalog-backend/lib/drupal"
	"catalog-backend/lib/htmlutil"
	"catalog-backend/services/catalog"
)

type xseriesProcessor struct {
	store   *catalog.Store
	partner catalog.Partner
}

func (p *xseriesProcessor) NodeType() string {
	return "xseries"
}

func (p *xseriesProcessor) Query() drupal.NodeQuery {
	return drupal.NodeQuery{Type: p.NodeType()}
}

func (p *xseriesProcessor) Process(ctx context.Context, node map[string]any) error {
	marketingSlug := lastURLSegment(stringField(node, "url"))

	program, err := p.store.GetProgramByMarketingSlug(ctx, p.partner.ID, marketingSlug)
	if err != nil {
		return err
	}
	if program == nil {
		slog.ErrorContext(
			ctx, "program exists on the marketing site but not in the catalog",
			"marketing_slug", marketingSlug,
		)
		return errSkipped
	}

	// the marketing site bakes a heading into every overview body
	overview := htmlutil.Clean(nestedValue(node["body"]))
	overview = strings.TrimSpace(strings.TrimPrefix(overview, "### XSeries Program Overview"))

	err = p.store.UpdateProgram(ctx, program.ID, catalog.ProgramParams{
		Subtitle:                 stringField(node, "field_xseries_subtitle_short"),
		Overview:                 overview,
		CardImageURL:             nestedURL(node["field_card_image"]),
		VideoURL:                 nestedURL(node["field_product_video"]),
		CreditRedemptionOverview: stringField(node, "field_cards_section_description"),
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "processed xseries", "marketing_slug", marketingSlug)
	return nil
}
