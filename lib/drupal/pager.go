package drupal

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// extractPage pulls the numeric `page` query parameter out of a
// pagination link.
func extractPage(link string) (int, error) {
	parsed, err := url.Parse(link)
	if err != nil {
		return 0, err
	}
	raw := parsed.Query().Get("page")
	if raw == "" {
		return 0, fmt.Errorf("pagination link %q carries no page parameter", link)
	}
	return strconv.Atoi(raw)
}

// remainingPages computes the pages left to fetch after page 0 from
// the first/last pagination links: [first+1 .. last+1). The +1 on
// both ends avoids refetching the already-processed first page while
// keeping the last page included.
func remainingPages(first, last string) ([]int, error) {
	firstPage, err := extractPage(first)
	if err != nil {
		return nil, err
	}
	lastPage, err := extractPage(last)
	if err != nil {
		return nil, err
	}

	var pages []int
	for page := firstPage + 1; page < lastPage+1; page++ {
		pages = append(pages, page)
	}
	return pages, nil
}

// ProcessFunc consumes one fetched page.
type ProcessFunc func(ctx context.Context, page *Page) error

// IngestNodes drains a node listing: page 0 is fetched and processed
// synchronously, then the remaining pages (if any) run under the
// given strategy. The first error aborts the run.
func (c *Client) IngestNodes(ctx context.Context, query NodeQuery, strategy ExecutionStrategy, process ProcessFunc) error {
	ctx, span := tracer.Start(ctx, "client:IngestNodes")
	defer span.End()

	first, err := c.FetchPage(ctx, query, 0)
	if err != nil {
		return err
	}
	if err := process(ctx, first); err != nil {
		return err
	}

	if first.Next == "" {
		return nil
	}
	pages, err := remainingPages(first.First, first.Last)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return nil
	}

	fetch := func(ctx context.Context, page int) (*Page, error) {
		return c.FetchPage(ctx, query, page)
	}
	return strategy.Run(ctx, pages, fetch, process)
}
