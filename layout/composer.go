package layout

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lgodoyplay/cerco-sub000/model"
	"github.com/lgodoyplay/cerco-sub000/text"
)

// State is a step of the composition state machine
type State int

const (
	StateIdle State = iota
	StateLayingOutSection
	StateBreaking
	StateFinalizing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLayingOutSection:
		return "laying_out_section"
	case StateBreaking:
		return "breaking"
	case StateFinalizing:
		return "finalizing"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Composer turns reports into layout plans. It is immutable after
// construction and safe for concurrent use; each Compose call owns its
// cursor and pages.
type Composer struct {
	cfg       Config
	renderers map[model.BlockKind]BlockRenderer
	custom    map[model.BlockKind]bool
	logger    *zap.Logger
}

// Option configures a Composer
type Option func(*Composer)

// WithLogger sets the logger for state transitions and degradations
func WithLogger(l *zap.Logger) Option {
	return func(c *Composer) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMeasurer replaces the text measurer of every built-in renderer
func WithMeasurer(m text.Measurer) Option {
	return func(c *Composer) {
		c.cfg.Measurer = m
	}
}

// WithRenderer replaces the renderer for one block kind
func WithRenderer(kind model.BlockKind, r BlockRenderer) Option {
	return func(c *Composer) {
		c.renderers[kind] = r
	}
}

// NewComposer creates a composer after validating cfg
func NewComposer(cfg Config, opts ...Option) (*Composer, error) {
	c := &Composer{
		cfg:       cfg,
		renderers: make(map[model.BlockKind]BlockRenderer),
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	c.cfg.Letterhead = append([]string(nil), c.cfg.Letterhead...)
	custom := c.renderers
	c.renderers = defaultRenderers(c.cfg)
	c.custom = make(map[model.BlockKind]bool, len(custom))
	for kind, r := range custom {
		c.renderers[kind] = r
		c.custom[kind] = true
	}
	return c, nil
}

// Config returns a copy of the composer's configuration
func (c *Composer) Config() Config {
	cfg := c.cfg
	cfg.Letterhead = append([]string(nil), cfg.Letterhead...)
	return cfg
}

// item is one block in layout order with its source location
type item struct {
	section int
	index   int
	block   model.Block
}

// composition is the mutable state of a single Compose call
type composition struct {
	c        *Composer
	state    State
	cursor   Cursor
	policy   OverflowPolicy
	pages    *PageManager
	warnings []Warning
	log      *zap.Logger
}

// Compose lays out a report. It returns a ValidationError before creating
// any page when the report is incomplete, and an OverflowError if a block
// cannot be placed on a fresh page. Degradations are returned as warnings
// next to a complete plan.
func (c *Composer) Compose(r *model.Report) (*model.LayoutPlan, []Warning, error) {
	run := &composition{
		c:     c,
		state: StateIdle,
		log:   c.logger,
	}
	if r != nil {
		run.log = c.logger.With(zap.String("case", r.CaseID))
	}

	if err := c.validate(r); err != nil {
		run.log.Debug("Report rejected", zap.Error(err))
		return nil, nil, err
	}

	run.transition(StateLayingOutSection)
	run.cursor = NewCursor(c.cfg.PageSize, c.cfg.Margins)
	run.policy = NewOverflowPolicy(&run.cursor)
	run.pages = NewPageManager(c.cfg, r.CaseID)
	run.pages.NewPage()

	for _, it := range c.sequence(r) {
		if err := run.layout(it); err != nil {
			run.log.Error("Layout failed", zap.Error(err))
			return nil, nil, err
		}
	}

	run.transition(StateFinalizing)
	total, err := run.pages.Finalize()
	if err != nil {
		return nil, nil, err
	}
	for _, w := range run.pages.Warnings() {
		run.record(w)
	}
	run.transition(StateDone)

	plan := &model.LayoutPlan{
		DocumentID: model.DocumentID(r),
		Meta: model.Metadata{
			Title:       r.Title,
			Subtitle:    r.Subtitle,
			CaseID:      r.CaseID,
			Author:      r.AuthorityName,
			GeneratedAt: r.GeneratedAt,
		},
		PageSize:   c.cfg.PageSize,
		Margins:    c.cfg.Margins,
		Pages:      run.pages.Pages(),
		TotalPages: total,
	}
	run.log.Debug("Report composed",
		zap.Int("pages", total),
		zap.Int("blocks", plan.BlockCount()),
		zap.Int("warnings", len(run.warnings)))

	return plan, run.warnings, nil
}

func (run *composition) transition(to State) {
	run.log.Debug("Layout state",
		zap.Stringer("from", run.state),
		zap.Stringer("to", to),
		zap.Int("page", run.cursor.PageIndex+1))
	run.state = to
}

// layout measures, caps, fits and places one block
func (run *composition) layout(it item) error {
	r := run.c.renderers[it.block.Kind()]
	m := r.Measure(it.block, run.cursor.ContentWidth())

	var capped []Warning
	if run.policy.NeedsCap(&m) {
		full := m.Height
		omitted := run.policy.Cap(&m)
		capped = append(capped, Warning{
			Kind:    HeightCapped,
			Message: fmt.Sprintf("%s block is %.2fpt tall, capped to %.2fpt; %d lines omitted", m.Kind, full, m.Height, omitted),
		})
	}

	// Spacing separates blocks on the same page. It is dropped at the top
	// of a page and collapses when only the block itself still fits.
	gap := 0.0
	if !run.cursor.AtTop() && run.cursor.WillFit(run.c.cfg.BlockSpacing+m.Height) {
		gap = run.c.cfg.BlockSpacing
	}

	switch run.policy.Decide(&run.cursor, m.Height) {
	case BreakFirst:
		run.breakPage()
		gap = 0
		if !run.cursor.WillFit(m.Height) {
			return run.overflow(it, m)
		}
	case Overflow:
		return run.overflow(it, m)
	}

	pb := m.Place(it.block, run.cursor.MarginLeft, run.cursor.Y+gap)
	if err := run.pages.Place(pb); err != nil {
		return err
	}
	run.cursor.Advance(gap + m.Height)

	page := run.cursor.PageIndex + 1
	for _, w := range append(m.Warnings, capped...) {
		w.Section = it.section
		w.Block = it.index
		w.Page = page
		run.record(w)
	}
	return nil
}

func (run *composition) record(w Warning) {
	run.warnings = append(run.warnings, w)
	run.log.Warn("Block degraded",
		zap.String("kind", w.Kind.String()),
		zap.Int("section", w.Section),
		zap.Int("block", w.Block),
		zap.Int("page", w.Page),
		zap.String("detail", w.Message))
}

func (run *composition) breakPage() {
	run.transition(StateBreaking)
	run.pages.NewPage()
	run.cursor.BreakPage()
	run.transition(StateLayingOutSection)
}

func (run *composition) overflow(it item, m Measurement) error {
	return &OverflowError{
		Section:   it.section,
		Block:     it.index,
		Kind:      m.Kind,
		Page:      run.cursor.PageIndex + 1,
		Height:    m.Height,
		Available: run.cursor.Remaining(),
	}
}

// validate collects every structural problem of r
func (c *Composer) validate(r *model.Report) error {
	if r == nil {
		return &ValidationError{Problems: []string{"report is nil"}}
	}

	var problems []string
	if strings.TrimSpace(r.Title) == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(r.CaseID) == "" {
		problems = append(problems, "case ID is required")
	}
	if r.GeneratedAt.IsZero() {
		problems = append(problems, "generation time is required")
	}
	if len(r.Sections) == 0 {
		problems = append(problems, "at least one section is required")
	} else if r.BlockCount() == 0 {
		problems = append(problems, "at least one block is required")
	}

	for si, s := range r.Sections {
		for bi, b := range s.Blocks {
			if isNilBlock(b) {
				problems = append(problems, fmt.Sprintf("section %d block %d is nil", si+1, bi+1))
				continue
			}
			if _, ok := c.renderers[b.Kind()]; !ok {
				problems = append(problems, fmt.Sprintf("section %d block %d has unsupported kind %s", si+1, bi+1, b.Kind()))
				continue
			}
			if !c.custom[b.Kind()] && !builtinType(b) {
				problems = append(problems, fmt.Sprintf("section %d block %d is %T, not a %s block", si+1, bi+1, b, b.Kind()))
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// sequence returns the blocks of r in layout order: the title panel, each
// section's heading followed by its blocks, then the signature.
func (c *Composer) sequence(r *model.Report) []item {
	var items []item

	if c.cfg.ShowTitle {
		for i, b := range titleBlocks(r) {
			items = append(items, item{section: -1, index: i, block: b})
		}
	}

	for si, s := range r.Sections {
		if heading := strings.TrimSpace(s.Heading); heading != "" {
			items = append(items, item{section: si, index: -1, block: &model.HeadingBlock{Text: heading, Level: 2}})
		}
		for bi, b := range s.Blocks {
			items = append(items, item{section: si, index: bi, block: b})
		}
	}

	if c.cfg.AutoSignature && !r.HasSignature() && strings.TrimSpace(r.AuthorityName) != "" {
		items = append(items, item{section: -1, index: len(items), block: &model.SignatureBlock{
			Name:       r.AuthorityName,
			Role:       r.AuthorityRole,
			Identifier: r.AuthorityID,
		}})
	}

	return items
}

// titleBlocks builds the title heading, subtitle and case metadata panel
func titleBlocks(r *model.Report) []model.Block {
	blocks := []model.Block{&model.HeadingBlock{Text: r.Title, Level: 1}}
	if sub := strings.TrimSpace(r.Subtitle); sub != "" {
		blocks = append(blocks, &model.HeadingBlock{Text: sub, Level: 3})
	}

	pairs := []model.KeyValue{
		{Label: "Case", Value: r.CaseID},
		{Label: "Generated", Value: r.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC")},
	}
	if name := strings.TrimSpace(r.AuthorityName); name != "" {
		if role := strings.TrimSpace(r.AuthorityRole); role != "" {
			name += ", " + role
		}
		pairs = append(pairs, model.KeyValue{Label: "Authority", Value: name})
	}
	return append(blocks, &model.KeyValueBlock{Pairs: pairs})
}

// builtinType reports whether b is the model type its kind promises
func builtinType(b model.Block) bool {
	switch b.(type) {
	case *model.HeadingBlock, *model.ParagraphBlock, *model.KeyValueBlock,
		*model.ImageBlock, *model.LinkBlock, *model.SignatureBlock:
		return true
	}
	return false
}

func isNilBlock(b model.Block) bool {
	switch v := b.(type) {
	case nil:
		return true
	case *model.HeadingBlock:
		return v == nil
	case *model.ParagraphBlock:
		return v == nil
	case *model.KeyValueBlock:
		return v == nil
	case *model.ImageBlock:
		return v == nil
	case *model.LinkBlock:
		return v == nil
	case *model.SignatureBlock:
		return v == nil
	}
	return false
}
