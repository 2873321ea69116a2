package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common/errs"
	cstream "github.com/planxnx/concurrent-stream"
	"github.com/samber/lo"
)

const paginateConcurrency = 4

// PageName is the file name of page n (from 1) of a paginated document.
func PageName(prefix string, n int) string {
	return fmt.Sprintf("%s_%d.json", prefix, n)
}

// PaginateJSON splits items into documents of at most pageSize records and
// encodes them concurrently. build returns the document for one page. At
// least one page is always produced, so an empty set yields an empty first page.
func PaginateJSON[T any](ctx context.Context, prefix string, items []T, pageSize int, build func(page int, items []T) any) ([]Artifact, error) {
	if pageSize <= 0 {
		return nil, errors.Wrapf(errs.InvalidArgument, "invalid page size %d", pageSize)
	}
	chunks := lo.Chunk(items, pageSize)
	if len(chunks) == 0 {
		chunks = [][]T{{}}
	}

	type encoded struct {
		page int
		data []byte
		err  error
	}

	out := make(chan encoded)
	stream := cstream.NewStream(ctx, paginateConcurrency, out)

	go func() {
		defer close(out)
		_ = stream.Wait()
	}()

	go func() {
		defer stream.Close()
		for i, chunk := range chunks {
			page, chunk := i+1, chunk
			stream.Go(func() encoded {
				data, err := json.Marshal(build(page, chunk))
				return encoded{page: page, data: data, err: err}
			})
		}
	}()

	pages := make([]encoded, 0, len(chunks))
	var encodeErrs []error
	for e := range out {
		if e.err != nil {
			encodeErrs = append(encodeErrs, errors.Wrapf(e.err, "can't encode page %d of %s", e.page, prefix))
			continue
		}
		pages = append(pages, e)
	}
	if len(encodeErrs) > 0 {
		return nil, errors.Join(encodeErrs...)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "context done")
	}
	if len(pages) != len(chunks) {
		return nil, errors.Wrapf(errs.InternalError, "encoded %d of %d pages of %s", len(pages), len(chunks), prefix)
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].page < pages[j].page })
	return lo.Map(pages, func(e encoded, _ int) Artifact {
		return Artifact{Name: PageName(prefix, e.page), Raw: e.data}
	}), nil
}
