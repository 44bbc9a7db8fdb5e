package connectivity

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Prober measures the round-trip time to a liveness endpoint.
type Prober interface {
	Probe(ctx context.Context) (time.Duration, error)
}

// HTTPProber probes a lightweight HTTP liveness endpoint.
type HTTPProber struct {
	client   *http.Client
	endpoint string
}

// NewHTTPProber creates a prober for the given endpoint.
func NewHTTPProber(endpoint string, timeout time.Duration) *HTTPProber {
	return &HTTPProber{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
	}
}

// Probe issues a GET and returns the round-trip time. Any reachable,
// non-5xx answer counts as alive.
func (p *HTTPProber) Probe(ctx context.Context) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build probe request: %w", err)
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("probe failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return 0, fmt.Errorf("probe endpoint returned %d", resp.StatusCode)
	}
	return time.Since(start), nil
}

// GRPCProber probes a compute API that exposes the standard gRPC health
// checking service.
type GRPCProber struct {
	conn    *grpc.ClientConn
	client  healthpb.HealthClient
	service string
}

// NewGRPCProber dials endpoint and prepares a health client. TLS is chosen
// from the endpoint scheme, matching how other dialers in this codebase
// treat https:// and :443 targets.
func NewGRPCProber(endpoint, service string) (*GRPCProber, error) {
	target := endpoint
	var opts []grpc.DialOption

	if strings.HasPrefix(endpoint, "https://") || strings.HasSuffix(endpoint, ":443") {
		creds := credentials.NewTLS(&tls.Config{})
		opts = append(opts, grpc.WithTransportCredentials(creds))
		target = strings.TrimPrefix(target, "https://")
	} else {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
		target = strings.TrimPrefix(target, "http://")
	}

	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to dial grpc endpoint %s: %w", target, err)
	}

	return &GRPCProber{
		conn:    conn,
		client:  healthpb.NewHealthClient(conn),
		service: service,
	}, nil
}

// Probe issues a health check and returns the round-trip time.
func (p *GRPCProber) Probe(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	resp, err := p.client.Check(ctx, &healthpb.HealthCheckRequest{Service: p.service})
	if err != nil {
		return 0, fmt.Errorf("health check failed: %w", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return 0, fmt.Errorf("service not serving: %s", resp.GetStatus())
	}
	return time.Since(start), nil
}

// Close releases the underlying connection.
func (p *GRPCProber) Close() error {
	return p.conn.Close()
}
