package connectivity

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	pinglib "github.com/go-ping/ping"
	"github.com/go-resty/resty/v2"
	"github.com/rogerio-castellano/catalog-sync/internal/config"
	"go.uber.org/zap"
)

// Probe checks reachability of one host, by ICMP when enabled with a TCP
// dial as fallback, and optionally validates the path with an HTTP GET so a
// captive portal does not count as online.
type Probe struct {
	host        string
	port        int
	icmp        bool
	timeout     time.Duration
	validateURL string
	http        *resty.Client
}

// NewProbe builds a probe from cfg. When no host is configured the host and
// port of baseURL are used.
func NewProbe(cfg config.ConnectivityConfig, baseURL string) (*Probe, error) {
	host, port := cfg.Host, cfg.Port
	if host == "" {
		h, p, err := TargetFromURL(baseURL)
		if err != nil {
			return nil, err
		}
		host = h
		if port == 0 {
			port = p
		}
	}
	if port == 0 {
		port = 443
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	return &Probe{
		host:        host,
		port:        port,
		icmp:        cfg.ICMP,
		timeout:     timeout,
		validateURL: cfg.ValidateURL,
		http:        resty.New().SetTimeout(timeout).SetLogger(zap.S().Named("probe")),
	}, nil
}

// TargetFromURL extracts host and port from an http(s) URL, defaulting the
// port from the scheme.
func TargetFromURL(raw string) (string, int, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", 0, fmt.Errorf("parse %q: %w", raw, err)
	}
	host := u.Hostname()
	if host == "" {
		return "", 0, fmt.Errorf("no host in %q", raw)
	}

	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return "", 0, fmt.Errorf("bad port in %q: %w", raw, err)
		}
		return host, port, nil
	}
	if u.Scheme == "http" {
		return host, 80, nil
	}
	return host, 443, nil
}

func (p *Probe) IsConnected(ctx context.Context) bool {
	if !p.reachable(ctx) {
		return false
	}
	if p.validateURL == "" {
		return true
	}

	resp, err := p.http.R().SetContext(ctx).Get(p.validateURL)
	if err != nil {
		zap.L().Debug("connectivity validation failed", zap.String("url", p.validateURL), zap.Error(err))
		return false
	}
	return resp.StatusCode() >= 200 && resp.StatusCode() < 300
}

func (p *Probe) reachable(ctx context.Context) bool {
	if p.icmp && p.ping() {
		return true
	}

	d := net.Dialer{Timeout: p.timeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(p.host, strconv.Itoa(p.port)))
	if err != nil {
		zap.L().Debug("connectivity dial failed", zap.String("host", p.host), zap.Int("port", p.port), zap.Error(err))
		return false
	}
	conn.Close()
	return true
}

func (p *Probe) ping() bool {
	pinger, err := pinglib.NewPinger(p.host)
	if err != nil {
		zap.L().Debug("NewPinger failed", zap.String("host", p.host), zap.Error(err))
		return false
	}
	pinger.Count = 1
	pinger.Timeout = p.timeout
	// unprivileged (UDP) mode where the platform allows it
	pinger.SetPrivileged(false)

	if err := pinger.Run(); err != nil {
		zap.L().Debug("icmp ping failed, trying TCP", zap.String("host", p.host), zap.Error(err))
		return false
	}
	return pinger.Statistics().PacketsRecv > 0
}
