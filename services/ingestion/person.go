package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"catalog-backend/lib/drupal"
	"catalog-backend/lib/htmlutil"
	"catalog-backend/services/catalog"

	"github.com/google/uuid"
)

type personProcessor struct {
	store   *catalog.Store
	partner catalog.Partner
}

func (p *personProcessor) NodeType() string {
	return "person"
}

func (p *personProcessor) Query() drupal.NodeQuery {
	return drupal.NodeQuery{
		Type: p.NodeType(),
		// positions live in nested field_collection_item entities
		LoadEntityRefs: "file,field_collection_item",
	}
}

func (p *personProcessor) Process(ctx context.Context, node map[string]any) error {
	id, err := uuid.Parse(stringField(node, "uuid"))
	if err != nil {
		return fmt.Errorf("person node carries an invalid uuid: %w", err)
	}

	person, _, err := p.store.UpdateOrCreatePerson(ctx, p.partner.ID, id.String(), catalog.PersonParams{
		GivenName:       stringField(node, "field_person_first_middle_name"),
		FamilyName:      stringField(node, "field_person_last_name"),
		Bio:             htmlutil.Clean(nestedValue(node["field_person_resume"])),
		ProfileImageURL: nestedURL(node["field_person_image"]),
	})
	if err != nil {
		return err
	}

	// the upstream slug always wins over the auto-generated one, which
	// kicks in at creation time; overriding takes a second write
	slug := lastURLSegment(stringField(node, "url"))
	if err := p.store.SetPersonSlug(ctx, person.ID, slug); err != nil {
		return err
	}

	p.setPosition(ctx, person, node)

	slog.InfoContext(ctx, "processed person", "uuid", id)
	return nil
}

// setPosition is best-effort: positions arrive in a nested collection
// whose shape varies, and a malformed one must not fail the person.
func (p *personProcessor) setPosition(ctx context.Context, person catalog.Person, node map[string]any) {
	positions := listField(node, "field_person_positions")
	if len(positions) == 0 {
		return
	}
	position := positions[0]

	// the misspelling is the field's actual upstream name
	titles := stringList(position["field_person_position_tiltes"])
	if len(titles) == 0 {
		return
	}
	title := titles[0]

	var organizationID *int64
	var organizationOverride *string

	// not all positions are tied to an organization
	if name := nestedTitle(position["field_person_position_org_link"]); name != "" {
		org, err := p.store.FindOrganizationByNameOrKey(ctx, p.partner.ID, name)
		if err != nil {
			slog.ErrorContext(ctx, "failed to set position for person", "uuid", person.UUID, "err", err)
			return
		}
		if org != nil {
			organizationID = &org.ID
		} else {
			organizationOverride = &name
		}
	}

	err := p.store.UpsertPosition(ctx, person.ID, title, organizationID, organizationOverride)
	if err != nil {
		slog.ErrorContext(ctx, "failed to set position for person", "uuid", person.UUID, "err", err)
	}
}
