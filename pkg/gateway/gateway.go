package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"atomic-explorer/aihub/pkg/config"
	"atomic-explorer/aihub/pkg/providers"
	"atomic-explorer/aihub/pkg/routing"
	"atomic-explorer/aihub/pkg/telemetry"
	"atomic-explorer/aihub/pkg/telemetry/logging"
	"atomic-explorer/aihub/pkg/telemetry/metrics"
	"atomic-explorer/aihub/pkg/telemetry/tracing"

	"golang.org/x/sync/singleflight"
)

// Operation names used in logs, metrics and spans.
const (
	OperationChat     = "chat"
	OperationAnalysis = "analysis"
	OperationInsight  = "insight"
)

// Options configures a Gateway.
type Options struct {
	Registry       *providers.Registry
	Transport      providers.Transport
	APIKey         string
	Builder        RequestBuilder
	AttemptTimeout time.Duration

	// DedupeAnalysis coalesces identical concurrent analysis and insight requests
	DedupeAnalysis bool

	Logger  *logging.Logger
	Metrics *metrics.Collector
	Tracer  *tracing.Tracer
}

// Gateway exposes the chat, analysis and insight operations on top of the
// failover executor. It is immutable after construction and safe for
// concurrent use; configuration changes build a new Gateway.
type Gateway struct {
	exec      *routing.Executor
	builder   RequestBuilder
	transport providers.Transport
	logger    *logging.Logger
	metrics   *metrics.Collector
	stats     *routing.Stats
	dedupe    bool
	group     singleflight.Group

	mu      sync.Mutex
	flights map[string]*flight
}

// flight is the cancellation scope of one shared run. Its context is cancelled
// once no caller is waiting for the result.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// New creates a gateway from explicit options.
func New(opts Options) *Gateway {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	builder := opts.Builder
	if builder.SystemInstruction == "" {
		builder.SystemInstruction = config.DefaultSystemInstruction
	}
	if builder.Temperature == 0 {
		builder.Temperature = config.DefaultTemperature
	}

	stats := routing.NewStats()
	opts.Metrics.SetRegistrySize(opts.Registry.Len())

	return &Gateway{
		exec: &routing.Executor{
			Registry:       opts.Registry,
			Transport:      opts.Transport,
			APIKey:         opts.APIKey,
			AttemptTimeout: opts.AttemptTimeout,
			Instrumentation: routing.Instrumentation{
				Logger:  logger,
				Metrics: opts.Metrics,
				Tracer:  opts.Tracer,
				Stats:   stats,
			},
		},
		builder:   builder,
		transport: opts.Transport,
		logger:    logger,
		metrics:   opts.Metrics,
		stats:     stats,
		dedupe:    opts.DedupeAnalysis,
	}
}

// NewFromConfig builds the registry and HTTP transport from cfg, which is
// expected to have passed through config.LoadConfigWithEnvOverrides so that
// cfg.APIKey already holds the resolved credential. tel may be nil.
func NewFromConfig(cfg *config.GatewayConfig, tel *telemetry.Telemetry) (*Gateway, error) {
	registry, err := providers.NewRegistry(cfg.Models...)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider registry: %w", err)
	}

	opts := Options{
		Registry:       registry,
		APIKey:         strings.TrimSpace(cfg.APIKey),
		Builder:        RequestBuilder{SystemInstruction: cfg.SystemInstruction, Temperature: cfg.Temperature},
		AttemptTimeout: cfg.AttemptTimeout,
		DedupeAnalysis: cfg.DedupeAnalysis,
	}
	if tel != nil {
		opts.Logger = tel.Logger()
		opts.Metrics = tel.Metrics()
		opts.Tracer = tel.Tracer()
	}

	transportCfg := providers.TransportConfig{
		BaseURL:             cfg.BaseURL,
		APIKey:              opts.APIKey,
		Referer:             cfg.SiteURL,
		Title:               cfg.SiteName,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
	}
	if opts.Logger != nil {
		transportCfg.Logger = opts.Logger.Slog()
	}
	opts.Transport = providers.NewHTTPTransport(transportCfg)

	return New(opts), nil
}

// ChatCompletion sends newMessage with prior history through the failover
// chain and returns the first accepted reply. Errors are a
// *providers.ConfigurationError, a *routing.ExhaustedError or a
// *routing.CanceledError.
func (g *Gateway) ChatCompletion(ctx context.Context, newMessage string, history []providers.HistoryEntry) (string, error) {
	ctx = logging.WithOperation(ctx, OperationChat)

	res, err := g.exec.Execute(ctx, g.builder.BuildChat(newMessage, history))
	if err != nil {
		return "", err
	}
	return res.Content, nil
}

// StructuredAnalysis asks providers to analyse the reaction between two
// subjects. It never fails: blank subjects, exhaustion, cancellation,
// configuration problems and unparseable replies all yield
// FallbackAnalysis.
func (g *Gateway) StructuredAnalysis(ctx context.Context, subjectA, subjectB string) (result Analysis) {
	ctx = logging.WithOperation(ctx, OperationAnalysis)

	defer func() {
		if r := recover(); r != nil {
			g.logger.ErrorContext(ctx, "analysis panicked", "panic", fmt.Sprint(r))
			result = FallbackAnalysis()
		}
	}()

	if strings.TrimSpace(subjectA) == "" || strings.TrimSpace(subjectB) == "" {
		g.logger.WarnContext(ctx, "analysis requires two subjects", "subject_a", subjectA, "subject_b", subjectB)
		return FallbackAnalysis()
	}

	key := OperationAnalysis + "\x00" + normalizeKey(subjectA) + "\x00" + normalizeKey(subjectB)
	v, ok := g.shared(ctx, key, func(ctx context.Context) any {
		text, err := g.complete(ctx, g.builder.BuildAnalysis(subjectA, subjectB))
		if err != nil {
			return FallbackAnalysis()
		}
		analysis, err := RepairAnalysis(text)
		if err != nil {
			g.repairFailed(ctx, err)
		}
		return analysis
	})
	if !ok {
		return FallbackAnalysis()
	}
	return v.(Analysis)
}

// ElementInsight asks providers for a fun fact and common uses of element.
// Like StructuredAnalysis it never fails and falls back to FallbackInsight.
func (g *Gateway) ElementInsight(ctx context.Context, element string) (result Insight) {
	ctx = logging.WithOperation(ctx, OperationInsight)

	defer func() {
		if r := recover(); r != nil {
			g.logger.ErrorContext(ctx, "insight panicked", "panic", fmt.Sprint(r))
			result = FallbackInsight()
		}
	}()

	if strings.TrimSpace(element) == "" {
		g.logger.WarnContext(ctx, "insight requires an element")
		return FallbackInsight()
	}

	key := OperationInsight + "\x00" + normalizeKey(element)
	v, ok := g.shared(ctx, key, func(ctx context.Context) any {
		text, err := g.complete(ctx, g.builder.BuildElementInsight(element))
		if err != nil {
			return FallbackInsight()
		}
		insight, err := RepairInsight(text)
		if err != nil {
			g.repairFailed(ctx, err)
		}
		return insight
	})
	if !ok {
		return FallbackInsight()
	}
	return v.(Insight)
}

// complete runs the executor and logs failures the caller will swallow.
func (g *Gateway) complete(ctx context.Context, env *providers.Envelope) (string, error) {
	res, err := g.exec.Execute(ctx, env)
	if err != nil {
		g.logger.WarnContext(ctx, "using fallback record", "error", err)
		return "", err
	}
	return res.Content, nil
}

func (g *Gateway) repairFailed(ctx context.Context, err error) {
	var repairErr *RepairError
	snippet := ""
	if errors.As(err, &repairErr) {
		snippet = repairErr.Snippet
	}
	g.logger.ErrorContext(ctx, "structured payload repair failed", "error", err, "text", snippet)
	g.metrics.RecordRepairFailure(logging.GetOperation(ctx))
}

// shared runs fn once per key among concurrent callers when dedupe is on.
// Each caller still honours its own context: a caller whose ctx ends first
// gets ok=false. The shared run keeps going while any caller waits for it and
// is cancelled when the last one leaves.
func (g *Gateway) shared(ctx context.Context, key string, fn func(context.Context) any) (any, bool) {
	if !g.dedupe {
		return fn(ctx), true
	}

	f := g.join(ctx, key)
	defer g.leave(key, f)

	ch := g.group.DoChan(key, func() (v any, err error) {
		// singleflight re-panics on a fresh goroutine, so recover here.
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return fn(f.ctx), nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			g.logger.ErrorContext(ctx, "shared request failed", "error", res.Err)
			return nil, false
		}
		if res.Shared {
			g.metrics.RecordDeduplicated(logging.GetOperation(ctx))
		}
		return res.Val, true
	case <-ctx.Done():
		g.logger.WarnContext(ctx, "request canceled while waiting for shared result", "error", ctx.Err())
		return nil, false
	}
}

// join registers the caller as a waiter on the flight for key, creating the
// flight if none is live. The flight context keeps the first caller's values
// but not its cancellation.
func (g *Gateway) join(ctx context.Context, key string) *flight {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.flights == nil {
		g.flights = make(map[string]*flight)
	}
	f, ok := g.flights[key]
	if !ok {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: fctx, cancel: cancel}
		g.flights[key] = f
	}
	f.waiters++
	return f
}

// leave drops one waiter. The last waiter cancels the run and forgets the key,
// so a later caller starts a fresh run instead of joining a cancelled one.
func (g *Gateway) leave(key string, f *flight) {
	g.mu.Lock()
	defer g.mu.Unlock()

	f.waiters--
	if f.waiters > 0 {
		return
	}
	if g.flights[key] == f {
		delete(g.flights, key)
		g.group.Forget(key)
	}
	f.cancel()
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Registry returns the provider registry.
func (g *Gateway) Registry() *providers.Registry {
	return g.exec.Registry
}

// HasCredential reports whether an API key is configured.
func (g *Gateway) HasCredential() bool {
	return strings.TrimSpace(g.exec.APIKey) != ""
}

// Stats returns a snapshot of failover statistics.
func (g *Gateway) Stats() routing.StatsSnapshot {
	return g.stats.Snapshot()
}

// ResetStats clears failover statistics.
func (g *Gateway) ResetStats() {
	g.stats.Reset()
}

// Close releases the transport's idle connections.
func (g *Gateway) Close() error {
	if c, ok := g.transport.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
