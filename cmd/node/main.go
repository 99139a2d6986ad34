package main

import (
	"ChordRing/internal/bootstrap"
	"ChordRing/internal/client"
	"ChordRing/internal/config"
	"ChordRing/internal/domain"
	"ChordRing/internal/logger"
	zapfactory "ChordRing/internal/logger/zap"
	"ChordRing/internal/node"
	"ChordRing/internal/server"
	"ChordRing/internal/storage"
	"ChordRing/internal/telemetry"
	"ChordRing/internal/telemetry/lookuptrace"
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"google.golang.org/grpc"
)

var defaultConfigPath = "config/node/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %q: %v", *configPath, err)
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.ValidateConfig(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	var lgr logger.Logger
	if cfg.Logger.Active {
		zapLog, err := zapfactory.New(cfg.Logger)
		if err != nil {
			log.Fatalf("failed to initialize logger: %v", err)
		}
		defer func() { _ = zapLog.Sync() }()
		lgr = zapfactory.NewZapAdapter(zapLog)
	} else {
		lgr = &logger.NopLogger{}
	}
	cfg.LogConfig(lgr)

	lis, advertised, err := server.Listen(cfg.DHT.Mode, cfg.Node.Bind, cfg.Node.Host, cfg.Node.Port)
	if err != nil {
		lgr.Error("Fatal: failed to initialize listener", logger.F("err", err))
		os.Exit(2)
	}
	defer func() { _ = lis.Close() }()
	addr := lis.Addr().String()
	lgr.Debug("created listener", logger.F("addr", addr))

	space, err := domain.NewSpace(cfg.DHT.Ring.Bits, cfg.DHT.Ring.SuccessorCacheSize)
	if err != nil {
		lgr.Error("failed to initialize identifier space", logger.F("err", err))
		os.Exit(1)
	}
	lgr.Debug("identifier space initialized",
		logger.F("bits", space.Bits), logger.F("byteLen", space.ByteLen), logger.F("succListSize", space.SuccListSize))

	var id domain.ID
	if cfg.Node.Id == "" {
		id = space.NewIdFromString(addr)
	} else {
		id, err = space.FromHexString(cfg.Node.Id)
		if err != nil {
			lgr.Error("invalid node id in configuration", logger.F("err", err))
			os.Exit(1)
		}
	}
	self := &domain.Node{ID: id, Addr: advertised}
	lgr = lgr.Named("node").WithNode(*self)
	lgr.Info("node initializing", logger.F("id", id.ToHexString(true)))

	shutdownTracer := telemetry.InitTracer(cfg.Telemetry, "ChordRing-Node", id)
	defer func() { _ = shutdownTracer(context.Background()) }()

	var dialOpts []grpc.DialOption
	var grpcOpts []grpc.ServerOption
	if cfg.Telemetry.Tracing.Enabled {
		grpcOpts = append(grpcOpts, grpc.ChainUnaryInterceptor(lookuptrace.ServerInterceptor()))
		dialOpts = append(dialOpts, grpc.WithChainUnaryInterceptor(lookuptrace.ClientInterceptor()))
		lgr.Debug("gRPC lookup tracing enabled")
	}

	pool := client.New(
		cfg.DHT.Ring.FailureTimeout,
		10*time.Minute,
		client.WithLogger(lgr),
		client.WithDialOptions(dialOpts...),
	)
	defer pool.Close()
	lgr.Debug("initialized client pool")

	storageFactory := newStorageFactory(cfg.DHT.Storage, lgr)

	n := node.New(self, space, cfg.DHT.Ring, pool, storageFactory, node.WithLogger(lgr))
	lgr.Debug("initialized node")

	ringServer, err := server.New(lis, n, grpcOpts, server.WithLogger(lgr.Named("server")))
	if err != nil {
		lgr.Error("failed to initialize gRPC server", logger.F("err", err))
		os.Exit(2)
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- ringServer.Start() }()
	lgr.Debug("server started")

	disc, err := newDiscoverer(cfg.DHT.Bootstrap, lgr)
	if err != nil {
		lgr.Error("failed to initialize bootstrap discovery", logger.F("err", err))
		ringServer.Stop()
		os.Exit(1)
	}

	discoverCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	peers, err := disc.Discover(discoverCtx)
	cancel()
	if err != nil {
		lgr.Error("failed to resolve bootstrap peers", logger.F("err", err))
		ringServer.Stop()
		os.Exit(3)
	}
	lgr.Info("resolved bootstrap peers", logger.F("peers", peers))

	var seedAddr string
	if len(peers) == 0 {
		n.InitSingleton()
		lgr.Info("no peers found, initialized singleton ring")
	} else {
		joined := false
		for _, p := range peers {
			joinCtx, jcancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := n.Join(joinCtx, p)
			jcancel()
			if err == nil {
				seedAddr = p
				joined = true
				break
			}
			lgr.Warn("join attempt failed", logger.F("peer", p), logger.F("err", err.Error()))
		}
		if !joined {
			lgr.Error("failed to join DHT via any discovered peer")
			ringServer.Stop()
			os.Exit(3)
		}
		lgr.Info("joined ring", logger.F("seed", seedAddr))
	}

	if cfg.DHT.Bootstrap.Register.Enabled {
		reg, err := bootstrap.NewRoute53Bootstrap(cfg.DHT.Bootstrap.Register.Route53)
		if err != nil {
			lgr.Error("failed to initialize route53 registration", logger.F("err", err))
		} else {
			regCtx, rcancel := context.WithTimeout(context.Background(), 10*time.Second)
			err = reg.Register(regCtx, self)
			rcancel()
			if err != nil {
				lgr.Error("failed to register node", logger.F("err", err))
			} else {
				lgr.Info("node registered")
				defer func() {
					dregCtx, dcancel := context.WithTimeout(context.Background(), 10*time.Second)
					defer dcancel()
					if err := reg.Deregister(dregCtx, self); err != nil {
						lgr.Warn("failed to deregister node", logger.F("err", err))
					}
				}()
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	n.StartMaintenance(seedAddr)
	lgr.Debug("maintenance loops started")

	select {
	case <-ctx.Done():
		lgr.Info("shutdown signal received, stopping gracefully")
		stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		done := make(chan struct{})
		go func() {
			ringServer.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
			lgr.Info("server stopped gracefully")
		case <-shutdownCtx.Done():
			lgr.Warn("graceful stop timed out, forcing shutdown")
		}
		cancel()
		n.Stop()
	case err := <-serveErr:
		lgr.Error("gRPC server terminated unexpectedly", logger.F("err", err))
		stop()
		n.Stop()
		os.Exit(2)
	}
}

// newStorageFactory returns the storage.Factory matching the configured
// backend, rooting each owner's file store under its own subdirectory of
// cfg.FileRoot when backend=file.
func newStorageFactory(cfg config.StorageConfig, lgr logger.Logger) storage.Factory {
	switch cfg.Backend {
	case "file":
		return func(owner domain.ID) (storage.Store, error) {
			root := filepath.Join(cfg.FileRoot, owner.String())
			return storage.NewFileStore(root, lgr.Named("storage"))
		}
	default:
		return func(owner domain.ID) (storage.Store, error) {
			return storage.NewMemoryStore(lgr.Named("storage")), nil
		}
	}
}

// newDiscoverer selects the bootstrap.Bootstrap implementation used purely
// for peer discovery. Self-registration (distinct from discovery) is driven
// separately by cfg.Register, since a node can discover peers via DNS or a
// static list while still registering itself in Route53 for others to find.
func newDiscoverer(cfg config.BootstrapConfig, lgr logger.Logger) (bootstrap.Bootstrap, error) {
	switch cfg.Mode {
	case "route53":
		return bootstrap.NewRoute53Bootstrap(cfg.Register.Route53)
	case "dns":
		return bootstrap.NewDNSBootstrap(cfg, lgr), nil
	case "static":
		return bootstrap.NewStaticBootstrap(cfg.Peers), nil
	default: // "init"
		return bootstrap.NewStaticBootstrap(nil), nil
	}
}
