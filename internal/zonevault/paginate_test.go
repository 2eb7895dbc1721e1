package zonevault

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestDrainPagesFollowsAllPages(t *testing.T) {
	// Three pages of sizes {40, 40, 17}: exactly 97 items, exactly 3
	// requests, original order preserved.
	pages := [][]int{make([]int, 40), make([]int, 40), make([]int, 17)}
	next := 0
	for i := range pages {
		for j := range pages[i] {
			pages[i][j] = next
			next++
		}
	}

	requests := 0
	items, err := drainPages(context.Background(), func(ctx context.Context, cursor *int) ([]int, *int, error) {
		page := 0
		if cursor != nil {
			page = *cursor
		}
		requests++
		if page == len(pages)-1 {
			return pages[page], nil, nil
		}
		nextPage := page + 1
		return pages[page], &nextPage, nil
	})
	if err != nil {
		t.Fatalf("drainPages: %v", err)
	}
	if requests != 3 {
		t.Fatalf("expected exactly 3 page requests, got %d", requests)
	}
	if len(items) != 97 {
		t.Fatalf("expected 97 items, got %d", len(items))
	}
	for i, item := range items {
		if item != i {
			t.Fatalf("item %d out of order: got %d", i, item)
		}
	}
}

func TestDrainPagesEmptySource(t *testing.T) {
	items, err := drainPages(context.Background(), func(ctx context.Context, cursor *string) ([]string, *string, error) {
		return nil, nil, nil
	})
	if err != nil {
		t.Fatalf("drainPages: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty result, got %d items", len(items))
	}
}

func TestDrainPagesMidPaginationFailure(t *testing.T) {
	// A failure on any page fails the whole listing; no truncated result.
	boom := fmt.Errorf("%w: page 2 timed out", ErrSourceUnavailable)
	items, err := drainPages(context.Background(), func(ctx context.Context, cursor *int) ([]int, *int, error) {
		if cursor == nil {
			one := 1
			return []int{0, 1, 2}, &one, nil
		}
		return nil, nil, boom
	})
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if items != nil {
		t.Fatalf("a failed drain must not return partial items, got %v", items)
	}
}
