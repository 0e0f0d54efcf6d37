package table

import "errors"

// Sentinel errors report that a requested transition was ignored. None of them
// leave the table in an inconsistent state.
var (
	ErrInvalidRow         = errors.New("row index out of range")
	ErrInvalidPage        = errors.New("page out of range")
	ErrNotEditing         = errors.New("no row is being edited")
	ErrNoRowUpdate        = errors.New("no row update handler")
	ErrEditingDisabled    = errors.New("editing is disabled")
	ErrSelectionDisabled  = errors.New("selection is disabled")
	ErrRowNotSelectable   = errors.New("row is not selectable")
	ErrSortingDisabled    = errors.New("sorting is disabled")
	ErrColumnNotSortable  = errors.New("column is not sortable")
	ErrPaginationDisabled = errors.New("pagination is disabled")
	ErrUnknownAction      = errors.New("unknown row action")
	ErrClosed             = errors.New("table is closed")
)
