package probe

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/wallcheck/wallcheck/internal/apperr"
	"github.com/wallcheck/wallcheck/internal/validate"
	"github.com/wallcheck/wallcheck/internal/worker"
)

// Engine defaults, applied by NewProber when the corresponding option is
// zero.
const (
	DefaultTimeout = 4 * time.Second
	DefaultWorkers = 20
)

// DefaultPorts are the TCP ports probed per resolved IP.
var DefaultPorts = []int{80, 443}

// DefaultResolvers are queried when no resolvers are configured. The
// display names double as the keys of the report's dns section.
var DefaultResolvers = []Resolver{
	{Name: "Google(8.8.8.8)", Address: "8.8.8.8"},
	{Name: "Cloudflare(1.1.1.1)", Address: "1.1.1.1"},
	{Name: "Ali(223.5.5.5)", Address: "223.5.5.5"},
	{Name: "114DNS(114.114.114.114)", Address: "114.114.114.114"},
}

// resolverClient is the DNS plane consumed by the orchestrator.
type resolverClient interface {
	QueryA(ctx context.Context, server, domain string) ([]string, error)
}

// netProber is the connectivity plane consumed by the orchestrator.
type netProber interface {
	CheckTCP(ctx context.Context, ip string, port int) bool
	CheckTLS(ctx context.Context, ip, domain string) TLSStatus
	CheckHTTP(ctx context.Context, ip, domain string) bool
}

// Options configure a Prober. Zero values fall back to the defaults above.
type Options struct {
	Resolvers []Resolver
	Ports     []int
	Timeout   time.Duration
}

// Prober orchestrates one full probe: resolver fan-out, pollution
// detection, per-IP connectivity fan-out, and classification. All network
// work runs on the injected shared pool; a Prober holds no per-request
// state and is safe for concurrent use.
type Prober struct {
	resolvers []Resolver
	ports     []int
	client    resolverClient
	net       netProber
	pool      *worker.Pool
	logger    *slog.Logger
	now       func() time.Time
}

// NewProber builds a Prober backed by real DNS and socket clients.
func NewProber(opts Options, pool *worker.Pool, logger *slog.Logger) *Prober {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if len(opts.Resolvers) == 0 {
		opts.Resolvers = DefaultResolvers
	}
	if len(opts.Ports) == 0 {
		opts.Ports = DefaultPorts
	}
	return &Prober{
		resolvers: opts.Resolvers,
		ports:     opts.Ports,
		client:    NewResolverClient(opts.Timeout, logger),
		net:       NewNetProber(opts.Timeout, logger),
		pool:      pool,
		logger:    logger,
		now:       time.Now,
	}
}

// probeOutcome carries one probe result from a pool worker back to the
// orchestrator. Results are correlated by IP and kind, never by completion
// order.
type probeOutcome struct {
	ip   string
	kind probeKind
	port int
	ok   bool
	tls  TLSStatus
}

type probeKind int

const (
	kindTCP probeKind = iota
	kindTLS
	kindHTTP
)

// Probe runs the full multi-signal check for domain. It fails only on a
// malformed domain; every network-level failure degrades to its documented
// result value inside a still-successful report. Total latency is bounded
// by the per-operation timeout plus pool scheduling, not by the number of
// IPs, since all probes within a phase run concurrently.
func (p *Prober) Probe(ctx context.Context, domain string) (*Report, error) {
	domain = validate.NormalizeDomain(domain)
	if !validate.IsDomain(domain) {
		return nil, fmt.Errorf("%w: must be a valid domain name: %q", apperr.ErrInvalidInput, domain)
	}
	start := p.now()
	p.logger.Debug("probe started", "domain", domain, "resolvers", len(p.resolvers))

	// Phase 1: all resolver queries in parallel. Each is bounded by its own
	// timeout; a slow resolver does not cancel the others.
	results := make([]ResolverResult, len(p.resolvers))
	dg := worker.NewGroup(p.pool)
	for i, r := range p.resolvers {
		dg.Go(func() {
			addrs, err := p.client.QueryA(ctx, r.Address, domain)
			if err != nil {
				p.logger.Debug("resolver query failed", "resolver", r.Name, "domain", domain, "error", err)
			}
			results[i] = ResolverResult{Resolver: r.Name, Addrs: addrs, Err: err}
		})
	}
	dg.Wait()

	dnsMap := make(map[string][]string, len(results))
	allIPs := []string{}
	seen := make(map[string]bool)
	for _, res := range results {
		addrs := res.Addrs
		if addrs == nil {
			addrs = []string{}
		}
		dnsMap[res.Resolver] = addrs
		for _, ip := range res.Addrs {
			if !seen[ip] {
				seen[ip] = true
				allIPs = append(allIPs, ip)
			}
		}
	}
	pollution, dnsStatus := DetectPollution(results)

	// Phase 2: per-IP fan-out, |allIPs| x (ports + TLS + HTTP) tasks. The
	// buffered channel holds every outcome so no worker blocks on send.
	conn := make(map[string]*ConnectivityResult, len(allIPs))
	outcomes := make(chan probeOutcome, len(allIPs)*(len(p.ports)+2))
	cg := worker.NewGroup(p.pool)
	for _, ip := range allIPs {
		conn[ip] = &ConnectivityResult{TCP: make(map[int]bool, len(p.ports))}
		for _, port := range p.ports {
			cg.Go(func() {
				outcomes <- probeOutcome{ip: ip, kind: kindTCP, port: port, ok: p.net.CheckTCP(ctx, ip, port)}
			})
		}
		cg.Go(func() {
			outcomes <- probeOutcome{ip: ip, kind: kindTLS, tls: p.net.CheckTLS(ctx, ip, domain)}
		})
		cg.Go(func() {
			outcomes <- probeOutcome{ip: ip, kind: kindHTTP, ok: p.net.CheckHTTP(ctx, ip, domain)}
		})
	}
	cg.Wait()
	close(outcomes)

	for o := range outcomes {
		cr := conn[o.ip]
		switch o.kind {
		case kindTCP:
			cr.TCP[o.port] = o.ok
		case kindTLS:
			cr.TLS = o.tls
		case kindHTTP:
			cr.HTTP = o.ok
		}
	}

	summary := Classify(pollution, dnsStatus, allIPs, conn)
	summary.ElapsedTime = roundSeconds(p.now().Sub(start))
	p.logger.Debug("probe finished",
		"domain", domain,
		"ips", len(allIPs),
		"blocked", summary.IsBlocked,
		"elapsed", summary.ElapsedTime)

	return &Report{
		Domain:       domain,
		DNS:          dnsMap,
		Connectivity: conn,
		Summary:      summary,
		Timestamp:    float64(p.now().UnixNano()) / float64(time.Second),
	}, nil
}

// roundSeconds converts d to seconds rounded to two decimals.
func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
