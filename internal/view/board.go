package view

import (
	"fmt"
	"sync"

	"token_pulse/internal/domain"

	lru "github.com/hashicorp/golang-lru/v2"
)

const viewCacheSize = 64

// Source is the read side of the token store.
type Source interface {
	Snapshot(status domain.TokenStatus) ([]domain.Token, uint64)
}

// ColumnView is one projected column. Tokens may be shared with later calls and must not be modified.
type ColumnView struct {
	Status domain.TokenStatus
	Title  string
	Sort   domain.SortSpec
	Filter string
	Tokens []domain.Token
	Total  int // column size before filtering
}

type viewKey struct {
	status   domain.TokenStatus
	version  uint64
	revision uint64
}

// Board holds the per-column sort and filter selections and projects columns on demand.
// A view is recomputed only when the store version or the column's selection changed.
type Board struct {
	source Source

	mu       sync.Mutex
	specs    map[domain.TokenStatus]domain.SortSpec
	filters  map[domain.TokenStatus]string
	revision map[domain.TokenStatus]uint64
	cache    *lru.Cache[viewKey, ColumnView]
}

// NewBoard creates a board with every column in store order.
func NewBoard(source Source) (*Board, error) {
	cache, err := lru.New[viewKey, ColumnView](viewCacheSize)
	if err != nil {
		return nil, fmt.Errorf("view cache: %w", err)
	}

	b := &Board{
		source:   source,
		specs:    make(map[domain.TokenStatus]domain.SortSpec, len(domain.Statuses)),
		filters:  make(map[domain.TokenStatus]string, len(domain.Statuses)),
		revision: make(map[domain.TokenStatus]uint64, len(domain.Statuses)),
		cache:    cache,
	}
	for _, status := range domain.Statuses {
		b.specs[status] = domain.SortSpec{Direction: domain.SortDesc}
	}
	return b, nil
}

// Sort returns the column's current sort selection.
func (b *Board) Sort(status domain.TokenStatus) domain.SortSpec {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.specs[status]
}

// CycleSort advances the column to the next sort key.
func (b *Board) CycleSort(status domain.TokenStatus) (domain.SortSpec, error) {
	return b.updateSort(status, Advance)
}

// SelectSort sorts the column by key, flipping the direction when key is already selected.
func (b *Board) SelectSort(status domain.TokenStatus, key domain.SortKey) (domain.SortSpec, error) {
	if !key.Valid() {
		return domain.SortSpec{}, fmt.Errorf("select sort %q: %w", key, domain.ErrInvalidSortKey)
	}
	return b.updateSort(status, func(spec domain.SortSpec) domain.SortSpec {
		return Select(spec, key)
	})
}

// ToggleDirection flips the column's sort direction.
func (b *Board) ToggleDirection(status domain.TokenStatus) (domain.SortSpec, error) {
	return b.updateSort(status, Toggle)
}

// SetFilter sets the column's search text. Blank text clears it.
func (b *Board) SetFilter(status domain.TokenStatus, text string) error {
	if !status.Valid() {
		return fmt.Errorf("set filter %q: %w", status, domain.ErrInvalidStatus)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.filters[status] == text {
		return nil
	}
	b.filters[status] = text
	b.revision[status]++
	return nil
}

// View projects one column from the current store state.
func (b *Board) View(status domain.TokenStatus) (ColumnView, error) {
	if !status.Valid() {
		return ColumnView{}, fmt.Errorf("view %q: %w", status, domain.ErrInvalidStatus)
	}

	b.mu.Lock()
	spec := b.specs[status]
	filter := b.filters[status]
	revision := b.revision[status]
	b.mu.Unlock()

	tokens, version := b.source.Snapshot(status)
	key := viewKey{status: status, version: version, revision: revision}
	if cached, ok := b.cache.Get(key); ok {
		return cached, nil
	}

	v := ColumnView{
		Status: status,
		Title:  status.Title(),
		Sort:   spec,
		Filter: filter,
		Tokens: Project(Filter(tokens, filter), spec.Key, spec.Direction),
		Total:  len(tokens),
	}
	b.cache.Add(key, v)
	return v, nil
}

// Views projects every column in display order.
func (b *Board) Views() []ColumnView {
	out := make([]ColumnView, 0, len(domain.Statuses))
	for _, status := range domain.Statuses {
		v, _ := b.View(status)
		out = append(out, v)
	}
	return out
}

func (b *Board) updateSort(status domain.TokenStatus, next func(domain.SortSpec) domain.SortSpec) (domain.SortSpec, error) {
	if !status.Valid() {
		return domain.SortSpec{}, fmt.Errorf("sort %q: %w", status, domain.ErrInvalidStatus)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	spec := next(b.specs[status])
	if spec != b.specs[status] {
		b.specs[status] = spec
		b.revision[status]++
	}
	return spec, nil
}
