package docstore

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind is the closed classification of store-layer failures. Downstream code
// matches on Kind instead of sniffing error strings.
type Kind int

const (
	KindUnclassified Kind = iota
	KindNotFound
	KindConflict
	KindQuotaExceeded
	KindUnavailable
)

// Status is the guard's verdict on one error, including the user-facing
// message appropriate for the current pressure level.
type Status struct {
	IsExceeded    bool
	IsUnavailable bool
	Message       string
}

// Guard tracks consecutive quota-exceeded events and escalates the
// user-facing message once they pile up. It is an explicit injected value
// with an injectable clock; the counter resets once the cool-down window has
// elapsed. Classification is heuristic: errors it cannot place stay
// unclassified and must be propagated by callers.
type Guard struct {
	mu          sync.Mutex
	exceeded    int
	windowStart time.Time

	threshold int
	window    time.Duration
	now       func() time.Time
}

const (
	guardThreshold = 3
	guardWindow    = time.Minute
)

func NewGuard() *Guard {
	return NewGuardWithClock(time.Now)
}

// NewGuardWithClock is the test constructor: the caller controls time.
func NewGuardWithClock(now func() time.Time) *Guard {
	return &Guard{threshold: guardThreshold, window: guardWindow, now: now}
}

// Classify places an arbitrary store-layer error into the closed taxonomy.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnclassified
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrTxConflict):
		return KindConflict
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "53"): // insufficient resources
			return KindQuotaExceeded
		case strings.HasPrefix(pgErr.Code, "08"): // connection exceptions
			return KindUnavailable
		case pgErr.Code == "57P03": // cannot connect now
			return KindUnavailable
		case pgErr.Code == "28000" || pgErr.Code == "28P01" || pgErr.Code == "42501":
			return KindUnavailable // authentication / privilege failures
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindUnavailable
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "quota") || strings.Contains(msg, "resource exhausted"):
		return KindQuotaExceeded
	case strings.Contains(msg, "network") || strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "connection refused"):
		return KindUnavailable
	}
	return KindUnclassified
}

// Check classifies err and updates the exceeded counter. The counter resets
// once the cool-down window has passed since it started growing.
func (g *Guard) Check(err error) Status {
	kind := Classify(err)

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if g.exceeded > 0 && now.Sub(g.windowStart) >= g.window {
		g.exceeded = 0
	}

	st := Status{
		IsExceeded:    kind == KindQuotaExceeded,
		IsUnavailable: kind == KindUnavailable,
	}
	if st.IsExceeded {
		if g.exceeded == 0 {
			g.windowStart = now
		}
		g.exceeded++
	}
	st.Message = g.message(st)
	return st
}

// ShouldUseFallback reports whether a caller should serve a cached or safe
// default instead of propagating err.
func (g *Guard) ShouldUseFallback(err error) bool {
	st := g.Check(err)
	return st.IsExceeded || st.IsUnavailable
}

// message expects g.mu to be held.
func (g *Guard) message(st Status) string {
	switch {
	case st.IsExceeded && g.exceeded >= g.threshold:
		return "Service temporarily unavailable due to high usage. Please try again in a few minutes."
	case st.IsExceeded:
		return "Service experiencing high usage. Some features may be limited."
	case st.IsUnavailable:
		return "Service temporarily unavailable. Please try again later."
	default:
		return "An unexpected error occurred. Please try again."
	}
}
