package zonevault

import "context"

// pageFunc fetches one page of results. A nil cursor requests the first
// page; the returned cursor is nil once the source signals completion.
type pageFunc[T, C any] func(ctx context.Context, cursor *C) ([]T, *C, error)

// drainPages follows a continuation-token protocol until the source reports
// completion, preserving emission order across page boundaries. Both zone
// listing and record listing go through this one helper; the cursor is a
// type parameter because Route 53 record pagination resumes from a
// name/type/identifier triple rather than a single token.
func drainPages[T, C any](ctx context.Context, fetch pageFunc[T, C]) ([]T, error) {
	var all []T
	var cursor *C
	for {
		items, next, err := fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if next == nil {
			return all, nil
		}
		cursor = next
	}
}
