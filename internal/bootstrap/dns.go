package bootstrap

import (
	"ChordRing/internal/config"
	"ChordRing/internal/domain"
	"ChordRing/internal/logger"
	"context"
)

// DNSBootstrap discovers peers via DNS (SRV or plain A/AAAA) using
// ResolveBootstrap. Registration is a no-op: DNS-based discovery expects an
// externally managed zone (split-horizon, Kubernetes headless service,
// etc.), not one this process updates itself.
type DNSBootstrap struct {
	cfg config.BootstrapConfig
	lgr logger.Logger
}

func NewDNSBootstrap(cfg config.BootstrapConfig, lgr logger.Logger) *DNSBootstrap {
	if lgr == nil {
		lgr = &logger.NopLogger{}
	}
	return &DNSBootstrap{cfg: cfg, lgr: lgr}
}

func (d *DNSBootstrap) Discover(ctx context.Context) ([]string, error) {
	return ResolveBootstrap(d.cfg, d.lgr)
}

func (d *DNSBootstrap) Register(ctx context.Context, node *domain.Node) error {
	return nil
}

func (d *DNSBootstrap) Deregister(ctx context.Context, node *domain.Node) error {
	return nil
}
