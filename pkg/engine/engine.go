// Package engine drives the pedigree layout pipeline.
//
// An [Engine] owns one graph for one editing session. Every edit goes
// through [Engine.Apply], which validates the mutation against the graph,
// commits it, and then relayouts the dirty part of the graph in three
// stages before publishing the result:
//
//	Idle -> Dirty -> Ranking -> Ordering -> Placing -> Idle
//
// Processing is synchronous. A mutation submitted while another one is being
// processed, for example from inside [Renderer.Publish], is queued and runs
// after the current one finishes, so at most one relayout is ever in flight.
//
// A rejected mutation leaves the graph and the published layout untouched.
// A relayout that fails after a validated mutation is a programming error
// and panics.
//
// An Engine is not safe for concurrent use.
package engine

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/pedigree/pkg/config"
	perr "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/layout/coords"
	"github.com/matzehuels/pedigree/pkg/layout/ordering"
	"github.com/matzehuels/pedigree/pkg/layout/rank"
	"github.com/matzehuels/pedigree/pkg/observability"
	"github.com/matzehuels/pedigree/pkg/pedigree"
)

// State is the position of the engine in its relayout cycle.
type State int

const (
	StateIdle State = iota
	StateDirty
	StateRanking
	StateOrdering
	StatePlacing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDirty:
		return "dirty"
	case StateRanking:
		return "ranking"
	case StateOrdering:
		return "ordering"
	case StatePlacing:
		return "placing"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Result describes an applied mutation.
type Result struct {
	// ID is the node the mutation created, or pedigree.NoID.
	ID    pedigree.ID
	Delta pedigree.Delta
	// Queued is set when the mutation was deferred behind a running one. Its
	// outcome is logged and reported to the hooks once it runs.
	Queued bool
	// Version is the layout version published for this mutation.
	Version uint64
}

// Engine is a pedigree editing session.
type Engine struct {
	cfg      config.Config
	g        *pedigree.Graph
	orderer  ordering.Orderer
	logger   *log.Logger
	renderer Renderer
	hooks    observability.EngineHooks
	session  string

	state   State
	busy    bool
	queue   []Mutation
	version uint64
	last    Layout
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithRenderer sets the collaborator that receives published layouts.
func WithRenderer(r Renderer) Option { return func(e *Engine) { e.renderer = r } }

// WithHooks overrides the globally registered engine hooks.
func WithHooks(h observability.EngineHooks) Option { return func(e *Engine) { e.hooks = h } }

// WithGraph starts the session from an existing graph instead of an empty one.
func WithGraph(g *pedigree.Graph) Option { return func(e *Engine) { e.g = g } }

// WithOrderer replaces the order solver built from the config.
func WithOrderer(o ordering.Orderer) Option { return func(e *Engine) { e.orderer = o } }

// New starts a session. cfg is copied, defaulted and validated; it cannot be
// changed afterwards. A graph passed with [WithGraph] is fully laid out and
// published before New returns.
func New(cfg config.Config, opts ...Option) (*Engine, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:     cfg,
		orderer: cfg.Orderer(),
		hooks:   observability.Engine(),
		session: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	e.logger = e.logger.With("session", e.session[:8])
	if e.g == nil {
		e.g = pedigree.New()
	}
	e.g.MarkAllDirty()
	e.busy = true
	e.relayout("load")
	e.publish()
	e.drain()
	e.busy = false
	return e, nil
}

// Apply validates and commits m, relayouts, and publishes the new layout.
// It returns the mutation's error unchanged; in that case nothing was
// modified or published.
func (e *Engine) Apply(m Mutation) (Result, error) {
	if e.busy {
		e.queue = append(e.queue, m)
		e.hooks.OnQueued(m.Name())
		e.logger.Warn("mutation queued", "op", m.Name(), "pending", len(e.queue))
		return Result{ID: pedigree.NoID, Queued: true}, nil
	}
	e.busy = true
	defer func() { e.busy = false }()

	res, err := e.apply(m)
	e.drain()
	return res, err
}

// drain runs the mutations queued while the engine was busy.
func (e *Engine) drain() {
	for len(e.queue) > 0 {
		next := e.queue[0]
		e.queue = e.queue[1:]
		if _, err := e.apply(next); err != nil {
			e.logger.Warn("queued mutation rejected", "op", next.Name(), "err", err)
		}
	}
}

func (e *Engine) apply(m Mutation) (Result, error) {
	start := time.Now()
	id, d, err := m.Apply(e.g)
	if err != nil {
		e.hooks.OnMutation(m.Name(), time.Since(start), err)
		e.logger.Info("mutation rejected", "op", m.Name(), "code", perr.GetCode(err), "nodes", perr.NodesOf(err))
		return Result{ID: pedigree.NoID}, err
	}
	if d.Empty() {
		e.hooks.OnMutation(m.Name(), time.Since(start), nil)
		return Result{ID: id, Delta: d, Version: e.version}, nil
	}
	e.state = StateDirty
	e.logger.Debug("mutation", "op", m.Name(), "affected", len(e.g.Dirty()))
	e.relayout(m.Name())
	e.publish()
	e.hooks.OnMutation(m.Name(), time.Since(start), nil)
	return Result{ID: id, Delta: d, Version: e.version}, nil
}

// relayout runs the three stages over the dirty nodes.
func (e *Engine) relayout(op string) {
	dirty := e.g.Dirty()
	ranks := make(map[pedigree.ID]int, e.g.NodeCount())
	for _, n := range e.g.Nodes() {
		ranks[n.ID] = n.Rank
	}

	e.state = StateRanking
	start := time.Now()
	if err := rank.Assign(e.g, dirty); err != nil {
		panic(perr.Wrap(perr.ErrCodeInternal, err, "rank assignment after %s", op))
	}
	e.stage(observability.StageRank, len(dirty), start)

	// Nodes pulled to another rank must be reordered there too.
	moved := dirty
	for _, n := range e.g.Nodes() {
		if ranks[n.ID] != n.Rank {
			moved = append(moved, n.ID)
		}
	}

	e.state = StateOrdering
	start = time.Now()
	res := e.orderer.Order(e.g, moved)
	e.stage(observability.StageOrder, len(moved), start)
	e.hooks.OnCrossings(res.Crossings, res.Iterations)
	e.last.Crossings = res.Crossings

	e.state = StatePlacing
	start = time.Now()
	coords.Assign(e.g, e.cfg.Layout)
	e.stage(observability.StageCoords, e.g.NodeCount(), start)

	e.g.ClearDirty()
	e.state = StateIdle
}

func (e *Engine) stage(s observability.Stage, n int, start time.Time) {
	d := time.Since(start)
	e.hooks.OnRelayout(s, n, d)
	e.logger.Debug("relayout", "stage", s, "nodes", n, "took", d)
}

func (e *Engine) publish() {
	e.version++
	e.last = e.build()
	e.hooks.OnPublish(e.version, len(e.last.Nodes))
	if e.renderer != nil {
		e.renderer.Publish(e.last)
	}
}

func (e *Engine) build() Layout {
	l := Layout{Session: e.session, Version: e.version, Crossings: e.last.Crossings}
	for _, n := range e.g.Nodes() {
		l.Nodes = append(l.Nodes, PlacedNode{
			ID:    n.ID,
			Kind:  n.Kind,
			Rank:  n.Rank,
			Order: n.Order,
			X:     n.Pos.X,
			Y:     n.Pos.Y,
			Width: coords.Width(n, e.cfg.Layout),
		})
		if n.Kind != pedigree.KindPartnership {
			continue
		}
		ends, _ := e.g.Endpoints(n.ID)
		l.Partnerships = append(l.Partnerships, PartnershipView{
			ID:             n.ID,
			Endpoints:      ends,
			Consanguinity:  n.Partnership.Consanguinity,
			Consanguineous: e.g.EffectiveConsanguinity(n.ID),
			Broken:         n.Partnership.Broken,
		})
	}
	return l
}

// LoadSnapshot replaces the session graph with one loaded from nodes and
// edges. A snapshot that fails validation returns the VALIDATION error and
// leaves the current graph in place.
func (e *Engine) LoadSnapshot(nodes []pedigree.Node, edges []pedigree.Edge) error {
	if e.busy {
		return perr.New(perr.ErrCodeInternal, "cannot load a snapshot while a mutation is running")
	}
	g, err := pedigree.Load(nodes, edges)
	if err != nil {
		e.logger.Info("snapshot rejected", "code", perr.GetCode(err), "nodes", perr.NodesOf(err))
		return err
	}
	e.busy = true
	defer func() { e.busy = false }()
	e.g = g
	e.g.MarkAllDirty()
	e.state = StateDirty
	e.logger.Debug("snapshot loaded", "nodes", g.NodeCount())
	e.relayout("load snapshot")
	e.publish()
	e.drain()
	return nil
}

// Snapshot returns deep copies of every node and edge.
func (e *Engine) Snapshot() ([]pedigree.Node, []pedigree.Edge) {
	return e.g.ListNodes(), e.g.ListEdges()
}

// Layout returns the last published layout.
func (e *Engine) Layout() Layout { return e.last }

// State returns the current relayout state. Outside of Apply it is always
// StateIdle.
func (e *Engine) State() State { return e.state }

// SessionID returns the random identifier of this session.
func (e *Engine) SessionID() string { return e.session }

// Config returns the session configuration.
func (e *Engine) Config() config.Config { return e.cfg }

// Graph exposes the session graph for queries. Callers must not mutate it
// directly.
func (e *Engine) Graph() *pedigree.Graph { return e.g }
