package query

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/asaidimu/go-datatable/core/schema"
	"go.uber.org/zap"
)

// Stage names, in pipeline order.
const (
	StageSearch   = "search"
	StageSort     = "sort"
	StageFilter   = "filter"
	StagePaginate = "paginate"
)

// Stage is one pure transform of the pipeline. Apply must not mutate the
// input slice or its rows.
type Stage interface {
	Name() string
	Apply(rows []schema.Document) []schema.Document
}

// SearchStage keeps the rows where any of the columns contains the query text.
type SearchStage struct {
	Query SearchQuery
}

func (s SearchStage) Name() string { return StageSearch }

func (s SearchStage) Apply(rows []schema.Document) []schema.Document {
	if s.Query.Text == "" {
		return rows
	}
	needle := s.Query.Text
	if !s.Query.CaseSensitive {
		needle = strings.ToLower(needle)
	}
	out := make([]schema.Document, 0, len(rows))
	for _, row := range rows {
		if MatchSearch(row, s.Query.Columns, needle, s.Query.CaseSensitive) {
			out = append(out, row)
		}
	}
	return out
}

// MatchSearch reports whether any of the columns of row contains needle. The
// needle must already be lower-cased when caseSensitive is false. Nil values
// never match.
func MatchSearch(row schema.Document, columns []string, needle string, caseSensitive bool) bool {
	for _, key := range columns {
		v := row[key]
		if v == nil {
			continue
		}
		hay := Stringify(v)
		if !caseSensitive {
			hay = strings.ToLower(hay)
		}
		if strings.Contains(hay, needle) {
			return true
		}
	}
	return false
}

// SortStage orders rows by a single column. The sort is stable and nil values
// stay last in both directions. A nil Comparator collates in English.
type SortStage struct {
	Sort       SortConfiguration
	Comparator *Comparator
}

func (s SortStage) Name() string { return StageSort }

func (s SortStage) Apply(rows []schema.Document) []schema.Document {
	out := slices.Clone(rows)
	cmp := s.Comparator
	if cmp == nil {
		cmp = NewComparator(defaultLocale)
	}
	field := s.Sort.Field
	desc := s.Sort.Direction == SortDirectionDesc
	slices.SortStableFunc(out, func(a, b schema.Document) int {
		av, bv := a[field], b[field]
		if av == nil || bv == nil {
			return cmp.Compare(av, bv)
		}
		c := cmp.Compare(av, bv)
		if desc {
			return -c
		}
		return c
	})
	return out
}

// FilterStage keeps the rows matching every active column filter.
type FilterStage struct {
	Filters Filters
}

func (s FilterStage) Name() string { return StageFilter }

func (s FilterStage) Apply(rows []schema.Document) []schema.Document {
	active := s.Filters.Active()
	if len(active) == 0 {
		return rows
	}
	lowered := make(Filters, len(active))
	for k, v := range active {
		lowered[k] = strings.ToLower(v)
	}
	out := make([]schema.Document, 0, len(rows))
	for _, row := range rows {
		if MatchFilters(row, lowered) {
			out = append(out, row)
		}
	}
	return out
}

// MatchFilters reports whether row satisfies every filter. Filter values must
// already be lower-cased; nil cells fail any filter.
func MatchFilters(row schema.Document, filters Filters) bool {
	for key, want := range filters {
		v := row[key]
		if v == nil {
			return false
		}
		if !strings.Contains(strings.ToLower(Stringify(v)), want) {
			return false
		}
	}
	return true
}

// PaginateStage keeps a single 1-based page window of the rows.
type PaginateStage struct {
	Page PageRequest
}

func (s PaginateStage) Name() string { return StagePaginate }

func (s PaginateStage) Apply(rows []schema.Document) []schema.Document {
	start := (s.Page.Page - 1) * s.Page.Size
	if start < 0 || start >= len(rows) {
		return []schema.Document{}
	}
	end := min(start+s.Page.Size, len(rows))
	return rows[start:end]
}

// StageOutput is the rows produced by one stage.
type StageOutput struct {
	Stage string
	Rows  []schema.Document
}

// Result holds the output of every stage of a run.
type Result struct {
	Input   []schema.Document
	Outputs []StageOutput
}

// Rows returns the final rows of the run.
func (r *Result) Rows() []schema.Document {
	if len(r.Outputs) == 0 {
		return r.Input
	}
	return r.Outputs[len(r.Outputs)-1].Rows
}

// After returns the rows as they left the named stage. A stage that did not run
// passes through the rows of the stage before it.
func (r *Result) After(stage string) []schema.Document {
	rows := r.Input
	for _, name := range []string{StageSearch, StageSort, StageFilter, StagePaginate} {
		for _, out := range r.Outputs {
			if out.Stage == name {
				rows = out.Rows
			}
		}
		if name == stage {
			return rows
		}
	}
	return rows
}

// Pipeline runs stages in order, each consuming the previous stage's output.
type Pipeline struct {
	stages []Stage
	logger *zap.Logger
}

// NewPipeline creates a pipeline over the given stages.
func NewPipeline(logger *zap.Logger, stages ...Stage) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{stages: stages, logger: logger}
}

// Stages returns the names of the stages in order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Run applies every stage to rows.
func (p *Pipeline) Run(rows []schema.Document) *Result {
	res := &Result{Input: rows, Outputs: make([]StageOutput, 0, len(p.stages))}
	current := rows
	for _, s := range p.stages {
		current = s.Apply(current)
		res.Outputs = append(res.Outputs, StageOutput{Stage: s.Name(), Rows: current})
		p.logger.Debug("Stage applied", zap.String("stage", s.Name()), zap.Int("rows", len(current)))
	}
	return res
}

// DataProcessor evaluates view queries against in-memory rows.
type DataProcessor struct {
	comparator *Comparator
	mu         sync.RWMutex
	logger     *zap.Logger
}

// NewDataProcessor creates a new DataProcessor. A nil comparator collates as English.
func NewDataProcessor(comparator *Comparator, logger *zap.Logger) *DataProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if comparator == nil {
		comparator = NewComparator(defaultLocale)
	}
	return &DataProcessor{comparator: comparator, logger: logger}
}

// SetComparator replaces the comparator used by sort stages.
func (p *DataProcessor) SetComparator(c *Comparator) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.comparator = c
	p.logger.Info("Comparator replaced")
}

// Pipeline builds the ordered stages for q. Nil parts of the query produce no stage.
func (p *DataProcessor) Pipeline(q *ViewQuery) (*Pipeline, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("invalid view query: %w", err)
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	stages := make([]Stage, 0, 4)
	if q.Search != nil {
		stages = append(stages, SearchStage{Query: *q.Search})
	}
	if q.Sort != nil {
		stages = append(stages, SortStage{Sort: *q.Sort, Comparator: p.comparator})
	}
	if q.Filters != nil {
		stages = append(stages, FilterStage{Filters: q.Filters})
	}
	if q.Page != nil {
		stages = append(stages, PaginateStage{Page: *q.Page})
	}
	return NewPipeline(p.logger, stages...), nil
}

// ProcessRows runs q over rows.
func (p *DataProcessor) ProcessRows(rows []schema.Document, q *ViewQuery) (*Result, error) {
	pipeline, err := p.Pipeline(q)
	if err != nil {
		return nil, err
	}
	res := pipeline.Run(rows)
	p.logger.Debug("Rows processed",
		zap.Strings("stages", pipeline.Stages()),
		zap.Int("input", len(rows)),
		zap.Int("output", len(res.Rows())))
	return res, nil
}

// Match evaluates a single row against the search and filter parts of q.
func (p *DataProcessor) Match(ctx context.Context, q *ViewQuery, data schema.Document) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if q == nil {
		return true, nil
	}
	if q.Search != nil && q.Search.Text != "" {
		needle := q.Search.Text
		if !q.Search.CaseSensitive {
			needle = strings.ToLower(needle)
		}
		if !MatchSearch(data, q.Search.Columns, needle, q.Search.CaseSensitive) {
			return false, nil
		}
	}
	if q.Filters != nil {
		active := q.Filters.Active()
		for k, v := range active {
			active[k] = strings.ToLower(v)
		}
		return MatchFilters(data, active), nil
	}
	return true, nil
}
