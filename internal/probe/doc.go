// Package probe implements the multi-signal censorship probe engine: DNS
// resolution across independent resolvers, TCP reachability, TLS handshake
// analysis, and raw HTTP probing, fused into a single blocked/not-blocked
// verdict per domain.
package probe
