// Package governor implements the resource governor from spec.md §4.1:
// process-local node-count, elapsed-time, and per-kind depth accounting
// that aborts the current top-level call with a tagged fault once any
// budget is exceeded.
package governor

import (
	"fmt"
	"time"

	"zodguard/internal/config"
)

// Kind tags which budget a Fault tripped.
type Kind int

const (
	KindTimeout Kind = iota
	KindNodeLimit
	KindDepthLimit
	KindSizeLimit
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "Timeout"
	case KindNodeLimit:
		return "NodeLimit"
	case KindDepthLimit:
		return "DepthLimit"
	case KindSizeLimit:
		return "SizeLimit"
	default:
		return "Unknown"
	}
}

// Fault is the tagged, unwinding error every governor check can raise
// (spec.md §4.1, §7).
type Fault struct {
	Kind    Kind
	Message string
}

func (f *Fault) Error() string { return fmt.Sprintf("%s: %s", f.Kind, f.Message) }

// Is lets callers use errors.Is(err, governor.ErrTimeout) etc.
func (f *Fault) Is(target error) bool {
	other, ok := target.(*Fault)
	if !ok {
		return false
	}
	return f.Kind == other.Kind
}

// Sentinel faults for errors.Is comparisons.
var (
	ErrTimeout    = &Fault{Kind: KindTimeout}
	ErrNodeLimit  = &Fault{Kind: KindNodeLimit}
	ErrDepthLimit = &Fault{Kind: KindDepthLimit}
	ErrSizeLimit  = &Fault{Kind: KindSizeLimit}
)

// DepthKind distinguishes the three independently-capped recursion
// counters spec.md §9 calls out: "the chain and argument validators each
// own a kind of depth distinct from the object depth; all three share one
// max_depth_reached stat but are capped independently."
type DepthKind int

const (
	DepthObject DepthKind = iota
	DepthChain
	DepthArgument
)

// Stats is the snapshot returned by Stats().
type Stats struct {
	NodeCount      int
	Elapsed        time.Duration
	MaxDepthReached int
}

// Governor tracks one validate_schema run's resource consumption. It is
// not safe for concurrent use; one Governor belongs to one run.
type Governor struct {
	cfg             config.Limits
	nodeCount       int
	startTime       time.Time
	lastTimeCheck   time.Time
	maxDepthReached int
}

// New creates a Governor bound to the given limits. Call Reset before
// first use (or rely on New's implicit reset).
func New(limits config.Limits) *Governor {
	g := &Governor{cfg: limits}
	g.Reset()
	return g
}

// Reset zeroes counters and stamps the start time, per spec.md §4.1.
func (g *Governor) Reset() {
	now := time.Now()
	g.nodeCount = 0
	g.maxDepthReached = 0
	g.startTime = now
	g.lastTimeCheck = now
}

const timeCheckInterval = 100 * time.Millisecond

// IncrementNode adds one to the node count. Every call re-checks elapsed
// time at a >=100ms cadence (spec.md §4.1) and fails with NodeLimit or
// Timeout if either budget is now exceeded.
func (g *Governor) IncrementNode() error {
	g.nodeCount++
	now := time.Now()
	if now.Sub(g.lastTimeCheck) >= timeCheckInterval {
		g.lastTimeCheck = now
		if elapsed := now.Sub(g.startTime); elapsed > g.cfg.Timeout() {
			return &Fault{Kind: KindTimeout, Message: fmt.Sprintf("exceeded %s budget", g.cfg.Timeout())}
		}
	}
	if g.nodeCount > g.cfg.MaxNodeCount {
		return &Fault{Kind: KindNodeLimit, Message: fmt.Sprintf("node count exceeded %d", g.cfg.MaxNodeCount)}
	}
	return nil
}

// CheckTimeoutAggressive trips at 90% of the timeout budget and is meant
// to be called immediately before a unit of work starts (spec.md §4.1).
func (g *Governor) CheckTimeoutAggressive() error {
	elapsed := time.Since(g.startTime)
	if elapsed > (g.cfg.Timeout()*9)/10 {
		return &Fault{Kind: KindTimeout, Message: "approaching timeout budget"}
	}
	return nil
}

// CheckTimeout trips at 100% of the timeout budget and is meant to be
// called immediately after a unit of work finishes.
func (g *Governor) CheckTimeout() error {
	if time.Since(g.startTime) > g.cfg.Timeout() {
		return &Fault{Kind: KindTimeout, Message: fmt.Sprintf("exceeded %s budget", g.cfg.Timeout())}
	}
	return nil
}

// TrackDepth compares depth against the configured cap for kind, updates
// max_depth_reached, and fails with DepthLimit if depth exceeds the cap.
func (g *Governor) TrackDepth(depth int, kind DepthKind) error {
	if depth > g.maxDepthReached {
		g.maxDepthReached = depth
	}
	var limit int
	switch kind {
	case DepthObject:
		limit = g.cfg.MaxObjectDepth
	case DepthChain:
		limit = g.cfg.MaxChainDepth
	case DepthArgument:
		limit = g.cfg.MaxArgumentNesting
	}
	if depth > limit {
		return &Fault{Kind: KindDepthLimit, Message: fmt.Sprintf("depth %d exceeded cap %d", depth, limit)}
	}
	return nil
}

// ValidateSize fails with SizeLimit if n exceeds limit, annotating the
// failure with label (e.g. "properties", "array elements").
func (g *Governor) ValidateSize(n, limit int, label string) error {
	if n > limit {
		return &Fault{Kind: KindSizeLimit, Message: fmt.Sprintf("%s count %d exceeded cap %d", label, n, limit)}
	}
	return nil
}

// Stats returns the current node count, elapsed time, and deepest
// recursion reached across all three depth kinds.
func (g *Governor) Stats() Stats {
	return Stats{
		NodeCount:       g.nodeCount,
		Elapsed:         time.Since(g.startTime),
		MaxDepthReached: g.maxDepthReached,
	}
}
