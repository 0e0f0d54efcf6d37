package table

import (
	"fmt"
	"slices"

	"github.com/asaidimu/go-datatable/core/events"
	"github.com/asaidimu/go-datatable/core/query"
	"github.com/asaidimu/go-datatable/core/state"
	"go.uber.org/zap"
)

// paginationControlled reports whether the host owns the page window.
func (t *Table) paginationControlled() bool {
	p := t.opts.Pagination
	return p.OnPageChange != nil || p.OnPageSizeChange != nil
}

// GoToPage moves to a 1-based page. Pages past the last one are rejected once
// the total is known.
func (t *Table) GoToPage(page int) error {
	return t.movePage(func(query.PageInfo) int { return page })
}

// NextPage moves one page forward.
func (t *Table) NextPage() error {
	return t.movePage(func(info query.PageInfo) int { return info.CurrentPage + 1 })
}

// PreviousPage moves one page back.
func (t *Table) PreviousPage() error {
	return t.movePage(func(info query.PageInfo) int { return info.CurrentPage - 1 })
}

// FirstPage moves to page 1.
func (t *Table) FirstPage() error {
	return t.movePage(func(query.PageInfo) int { return 1 })
}

// LastPage moves to the last page.
func (t *Table) LastPage() error {
	return t.movePage(func(info query.PageInfo) int { return max(1, info.TotalPages) })
}

func (t *Table) movePage(target func(query.PageInfo) int) error {
	t.mu.Lock()
	if !t.opts.Pagination.Enabled {
		t.mu.Unlock()
		return ErrPaginationDisabled
	}
	info := t.viewLocked().PageInfo
	page := target(info)
	if page < 1 || (info.TotalPages > 0 && page > info.TotalPages) {
		t.mu.Unlock()
		return fmt.Errorf("%w: %d of %d", ErrInvalidPage, page, info.TotalPages)
	}
	if page == t.page.Get() {
		t.mu.Unlock()
		return nil
	}

	var effs state.Effects
	effs.Add(t.page.Dispatch(page))
	effs.Add(t.emit(events.PageChange, info.CurrentPage, page))
	t.logger.Debug("Page changed", zap.Int("from", info.CurrentPage), zap.Int("to", page), zap.Bool("controlled", t.page.Controlled()))
	t.mu.Unlock()

	effs.Run()
	return nil
}

// ChangePageSize changes the rows per page. Uncontrolled pagination returns
// to page 1.
func (t *Table) ChangePageSize(size int) error {
	t.mu.Lock()
	if !t.opts.Pagination.Enabled {
		t.mu.Unlock()
		return ErrPaginationDisabled
	}
	if size < 1 {
		t.mu.Unlock()
		return fmt.Errorf("%w: page size %d", ErrInvalidPage, size)
	}

	var effs state.Effects
	prev := t.pageSize.Get()
	effs.Add(t.pageSize.Dispatch(size))
	effs.Add(t.emit(events.PageSizeChange, prev, size))
	if page := t.page.Get(); !t.paginationControlled() && page != 1 {
		effs.Add(t.page.Dispatch(1))
		effs.Add(t.emit(events.PageChange, page, 1))
	}
	t.logger.Debug("Page size changed", zap.Int("from", prev), zap.Int("to", size))
	t.mu.Unlock()

	effs.Run()
	return nil
}

// SetCurrentPage pushes the page accepted by the host.
func (t *Table) SetCurrentPage(page int) error {
	if page < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.page.Set(page)
	return nil
}

// SetPageSize pushes the page size accepted by the host.
func (t *Table) SetPageSize(size int) error {
	if size < 1 {
		return fmt.Errorf("%w: page size %d", ErrInvalidPage, size)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pageSize.Set(size)
	return nil
}

// SetTotalItems pushes a server-side row count. Zero or less derives the total
// from the filtered rows again.
func (t *Table) SetTotalItems(total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.totalItems = max(0, total)
	t.totalVersion++
}

// PageInfo returns the pagination summary.
func (t *Table) PageInfo() query.PageInfo {
	return t.View().PageInfo
}

// VisiblePages returns the page numbers shown by pagination controls.
func (t *Table) VisiblePages() []int {
	return t.PageInfo().VisiblePages(t.opts.Pagination.MaxVisiblePages)
}

// PageSizeOptions returns the sizes offered by the page size selector. The
// current size is included when it is not one of them.
func (t *Table) PageSizeOptions() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	sizes := slices.Clone(t.opts.Pagination.PageSizeOptions)
	if size := t.pageSize.Get(); !slices.Contains(sizes, size) {
		sizes = append(sizes, size)
		slices.Sort(sizes)
	}
	return sizes
}
