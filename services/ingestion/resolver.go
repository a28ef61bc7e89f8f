package ingestion

import (
	"context"

	"catalog-backend/lib/languages"
	"catalog-backend/services/catalog"
)

// resolver looks up already-persisted entities referenced from a node
// by uuid or name. Nothing is ever created here: unresolvable
// references are silently dropped, and callers replace relation sets
// wholesale with whatever resolves.
type resolver struct {
	store   *catalog.Store
	partner catalog.Partner
}

func uuidsOf(refs []map[string]any) []string {
	var uuids []string
	for _, ref := range refs {
		if uuid, ok := ref["uuid"].(string); ok && uuid != "" {
			uuids = append(uuids, uuid)
		}
	}
	return uuids
}

func namesOf(refs []map[string]any) []string {
	var names []string
	for _, ref := range refs {
		if name, ok := ref["name"].(string); ok && name != "" {
			names = append(names, name)
		}
	}
	return names
}

func (r resolver) subjectIDs(ctx context.Context, refs []map[string]any) ([]int64, error) {
	subjects, err := r.store.SubjectsByUUIDs(ctx, r.partner.ID, uuidsOf(refs))
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(subjects))
	for i, subject := range subjects {
		ids[i] = subject.ID
	}
	return ids, nil
}

func (r resolver) organizationIDs(ctx context.Context, refs []map[string]any) ([]int64, error) {
	orgs, err := r.store.OrganizationsByUUIDs(ctx, r.partner.ID, uuidsOf(refs))
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(orgs))
	for i, org := range orgs {
		ids[i] = org.ID
	}
	return ids, nil
}

func (r resolver) personIDs(ctx context.Context, refs []map[string]any) ([]int64, error) {
	people, err := r.store.PeopleByUUIDs(ctx, r.partner.ID, uuidsOf(refs))
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(people))
	for i, person := range people {
		ids[i] = person.ID
	}
	return ids, nil
}

// languageCodes maps marketing-site language names through the fixed
// name table, then keeps only the codes that exist as reference rows.
func (r resolver) languageCodes(ctx context.Context, refs []map[string]any) ([]string, error) {
	tags, err := r.store.LanguageTagsByCodes(ctx, languages.CodesForNames(namesOf(refs)))
	if err != nil {
		return nil, err
	}
	codes := make([]string, len(tags))
	for i, tag := range tags {
		codes[i] = tag.Code
	}
	return codes, nil
}
