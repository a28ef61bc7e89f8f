package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"catalog-backend/lib/drupal"
	"catalog-backend/lib/htmlutil"
	"catalog-backend/services/catalog"
)

type sponsorProcessor struct {
	store   *catalog.Store
	partner catalog.Partner
}

func (p *sponsorProcessor) NodeType() string {
	// the misspelling is the upstream content type's actual name
	return "sponsorer"
}

func (p *sponsorProcessor) Query() drupal.NodeQuery {
	return drupal.NodeQuery{Type: p.NodeType()}
}

func (p *sponsorProcessor) Process(ctx context.Context, node map[string]any) error {
	uuid := stringField(node, "uuid")
	if uuid == "" {
		return fmt.Errorf("sponsor node carries no uuid")
	}

	// sponsor bodies are optional; only clean what is present
	description := ""
	if body := nestedValue(node["body"]); body != "" {
		description = htmlutil.Clean(body)
	}

	_, err := p.store.UpdateOrCreateSponsor(ctx, p.partner.ID, uuid, catalog.OrganizationParams{
		Key:          lastURLSegment(stringField(node, "url")),
		Name:         stringField(node, "title"),
		Description:  description,
		LogoImageURL: nestedURL(node["field_sponsorer_image"]),
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "processed sponsor", "uuid", uuid)
	return nil
}
