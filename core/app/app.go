package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/codewandler/lrukv/adapters/httpapi"
	"github.com/codewandler/lrukv/adapters/nats"
	promadapter "github.com/codewandler/lrukv/adapters/prometheus"
	"github.com/codewandler/lrukv/core/cache"
	"github.com/codewandler/lrukv/core/service"
	"github.com/codewandler/lrukv/ports/kv"
)

type NATSConfig struct {
	URL           string // empty disables the NATS boundary
	SubjectPrefix string
	Connect       nats.Connector // overrides URL, mostly for tests
}

type Config struct {
	InstanceID      string
	Capacity        int
	HTTPAddr        string // empty disables the HTTP boundary
	NATS            NATSConfig
	MetricsAddr     string // empty disables the /metrics listener
	ShutdownTimeout time.Duration
	Log             *slog.Logger
	Registry        *prometheus.Registry
}

// DefaultConfig is the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Capacity:        cache.DefaultCapacity,
		HTTPAddr:        ":7171",
		ShutdownTimeout: 5 * time.Second,
	}
}

type App struct {
	cfg   Config
	log   *slog.Logger
	store *cache.LRU
	svc   *service.Service

	httpLn  net.Listener
	httpSrv *http.Server
	natsSrv *nats.Server
	promLn  net.Listener
	promSrv *http.Server

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func New(cfg Config) (app *App, err error) {
	if cfg.InstanceID == "" {
		cfg.InstanceID = fmt.Sprintf("lrukv-%s", gonanoid.Must(6))
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}

	app = &App{
		cfg:  cfg,
		log:  cfg.Log.With(slog.String("instance", cfg.InstanceID)),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	// === store & service ===
	evictLog := app.log.With(slog.String("component", "cache"))
	app.store, err = cache.NewLRU(cache.LRUOpts{
		Capacity: cfg.Capacity,
		OnEvict: func(key, _ string) {
			evictLog.Debug("evicted", slog.String("key", key))
		},
	})
	if err != nil {
		return nil, err
	}

	app.svc, err = service.New(service.Options{
		Store:   app.store,
		Log:     app.log,
		Metrics: promadapter.NewServiceMetrics(cfg.Registry),
	})
	if err != nil {
		return nil, err
	}

	// from here on, release what has been opened if a later step fails
	defer func() {
		if err != nil {
			app.closeListeners()
		}
	}()

	// === http ===
	if cfg.HTTPAddr != "" {
		if app.httpLn, err = net.Listen("tcp", cfg.HTTPAddr); err != nil {
			return nil, fmt.Errorf("listen http: %w", err)
		}
		app.httpSrv = &http.Server{
			Handler:           httpapi.NewServer(httpapi.ServerOptions{Service: app.svc, Log: app.log}),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	// === nats ===
	if cfg.NATS.URL != "" || cfg.NATS.Connect != nil {
		connect := cfg.NATS.Connect
		if connect == nil {
			connect = nats.ConnectURL(cfg.NATS.URL)
		}
		app.natsSrv, err = nats.NewServer(nats.ServerConfig{
			Service:       app.svc,
			Connect:       connect,
			Log:           app.log,
			SubjectPrefix: cfg.NATS.SubjectPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("connect nats: %w", err)
		}
	}

	// === metrics ===
	if cfg.MetricsAddr != "" {
		if app.promLn, err = net.Listen("tcp", cfg.MetricsAddr); err != nil {
			return nil, fmt.Errorf("listen metrics: %w", err)
		}
		promMux := http.NewServeMux()
		promMux.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))
		app.promSrv = &http.Server{Handler: promMux, ReadHeaderTimeout: 5 * time.Second}
	}

	app.log.Debug("created app", slog.Int("capacity", cfg.Capacity), slog.String("http", app.Addr()))

	return app, nil
}

// Service returns the store-backed service, for in-process callers.
func (a *App) Service() kv.Service { return a.svc }

func (a *App) Store() *cache.LRU { return a.store }

// Addr is the bound HTTP address, or "" when HTTP is disabled.
func (a *App) Addr() string {
	if a.httpLn == nil {
		return ""
	}
	return a.httpLn.Addr().String()
}

// MetricsAddr is the bound metrics address, or "" when disabled.
func (a *App) MetricsAddr() string {
	if a.promLn == nil {
		return ""
	}
	return a.promLn.Addr().String()
}

// Run serves all enabled boundaries until ctx is done or Stop is called,
// then shuts them down gracefully. Run must be called at most once.
func (a *App) Run(ctx context.Context) error {
	defer close(a.done)

	g, gctx := errgroup.WithContext(ctx)

	if a.natsSrv != nil {
		if err := a.natsSrv.Start(gctx); err != nil {
			a.closeListeners()
			return err
		}
	}
	if a.httpSrv != nil {
		g.Go(func() error {
			a.log.Info("http boundary started", slog.String("addr", a.Addr()))
			return ignoreClosed(a.httpSrv.Serve(a.httpLn))
		})
	}
	if a.promSrv != nil {
		g.Go(func() error {
			a.log.Info("metrics server started", slog.String("addr", a.MetricsAddr()))
			return ignoreClosed(a.promSrv.Serve(a.promLn))
		})
	}

	g.Go(func() error {
		select {
		case <-gctx.Done():
		case <-a.stop:
		}
		return a.shutdown()
	})

	a.log.Info("app started", slog.Int("capacity", a.store.Capacity()))
	err := g.Wait()
	a.log.Info("app stopped")
	return err
}

// Start runs the app in the background and returns once it is serving.
func Start(ctx context.Context, cfg Config) (*App, error) {
	a, err := New(cfg)
	if err != nil {
		return nil, err
	}
	go func() {
		if err := a.Run(ctx); err != nil {
			a.log.Error("app failed", slog.Any("error", err))
		}
	}()
	return a, nil
}

// Stop triggers shutdown. It is idempotent and does not wait.
func (a *App) Stop() {
	a.stopOnce.Do(func() { close(a.stop) })
}

// Shutdown stops the app and waits for it to finish or for ctx to end.
func (a *App) Shutdown(ctx context.Context) error {
	a.Stop()
	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once Run has returned.
func (a *App) Done() <-chan struct{} { return a.done }

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if a.httpSrv != nil {
		errs = append(errs, a.shutdownServer(ctx, "http", a.httpSrv))
	}
	if a.promSrv != nil {
		errs = append(errs, a.shutdownServer(ctx, "metrics", a.promSrv))
	}
	if a.natsSrv != nil {
		if err := a.natsSrv.Close(); err != nil && !errors.Is(err, nats.ErrServerClosed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// shutdownServer drains srv and force-closes whatever is still open when ctx
// expires, such as connections that never sent a request.
func (a *App) shutdownServer(ctx context.Context, name string, srv *http.Server) error {
	err := srv.Shutdown(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	a.log.Warn("graceful shutdown timed out, closing connections", slog.String("server", name))
	return srv.Close()
}

func (a *App) closeListeners() {
	if a.httpLn != nil {
		_ = a.httpLn.Close()
	}
	if a.promLn != nil {
		_ = a.promLn.Close()
	}
	if a.natsSrv != nil {
		_ = a.natsSrv.Close()
	}
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
