package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/yndnr/exitguard/internal/cluster"
	"github.com/yndnr/exitguard/internal/config"
	"github.com/yndnr/exitguard/internal/infra/confloader"
	"github.com/yndnr/exitguard/internal/journal"
	"github.com/yndnr/exitguard/internal/telemetry/logger"
	"github.com/yndnr/exitguard/internal/telemetry/metric"
	"github.com/yndnr/exitguard/pkg/shutdown"
)

// Daemon owns the resources of one exitguard run process.
type Daemon struct {
	cfg       *config.Config
	loader    *confloader.Loader
	overrides map[string]any
	log       logger.Logger
	stdin     io.Reader

	coord    *shutdown.Coordinator
	metrics  *metric.Registry
	journal  *journal.Journal
	node     *cluster.Node
	server   *http.Server
	listener net.Listener
	serveErr chan error
	msgs     chan string
}

// Option configures a Daemon.
type Option func(*daemonOptions)

type daemonOptions struct {
	loader    *confloader.Loader
	overrides map[string]any
	stdin     io.Reader
	coord     []shutdown.Option
}

// WithReloader enables live reload of the log level from the loader's file.
// overrides are reapplied on every reload.
func WithReloader(l *confloader.Loader, overrides map[string]any) Option {
	return func(o *daemonOptions) {
		o.loader = l
		o.overrides = overrides
	}
}

// WithStdin replaces os.Stdin as the supervisor message source.
func WithStdin(r io.Reader) Option {
	return func(o *daemonOptions) {
		o.stdin = r
	}
}

// WithCoordinatorOptions passes extra options to the coordinator.
func WithCoordinatorOptions(opts ...shutdown.Option) Option {
	return func(o *daemonOptions) {
		o.coord = append(o.coord, opts...)
	}
}

// New opens the journal and builds the coordinator. Nothing is registered
// or started until Start.
func New(cfg *config.Config, log logger.Logger, opts ...Option) (*Daemon, error) {
	o := daemonOptions{stdin: os.Stdin}
	for _, opt := range opts {
		opt(&o)
	}

	d := &Daemon{
		cfg:       cfg,
		loader:    o.loader,
		overrides: o.overrides,
		log:       log,
		stdin:     o.stdin,
		metrics:   metric.NewRegistry(),
		serveErr:  make(chan error, 1),
		msgs:      make(chan string),
	}

	copts := []shutdown.Option{
		shutdown.WithLogger(log),
		shutdown.WithObserver(d.metrics),
		shutdown.WithMessages(d.msgs),
		shutdown.WithTimeout(cfg.Shutdown.Timeout),
		shutdown.WithReraiseGrace(cfg.Shutdown.ReraiseGrace),
	}

	if cfg.Journal.Dir != "" {
		j, err := journal.Open(cfg.Journal.Dir,
			journal.WithLogger(log.Slog().With("component", "journal")),
			journal.WithRetain(cfg.Journal.Retain),
			journal.WithCloseAfterRun())
		if err != nil {
			return nil, err
		}
		d.journal = j
		copts = append(copts, shutdown.WithObserver(j))
	}

	if cfg.Sentry.DSN != "" {
		obs, err := newSentryObserver(cfg.Sentry, log)
		if err != nil {
			d.closeJournal()
			return nil, err
		}
		copts = append(copts, shutdown.WithObserver(obs))
	}

	d.coord = shutdown.New(append(copts, o.coord...)...)
	return d, nil
}

// Coordinator returns the daemon's coordinator.
func (d *Daemon) Coordinator() *shutdown.Coordinator {
	return d.coord
}

// MetricsAddr returns the address the metrics endpoint listens on, or ""
// when it is disabled or not started.
func (d *Daemon) MetricsAddr() string {
	if d.listener == nil {
		return ""
	}
	return d.listener.Addr().String()
}

// ClusterAddr returns the gossip address of this node, or "" when
// clustering is disabled or not started.
func (d *Daemon) ClusterAddr() string {
	if d.node == nil {
		return ""
	}
	return d.node.Addr()
}

// Run starts the daemon and idles until a termination trigger ends the
// process. It does not return.
func (d *Daemon) Run() {
	d.coord.Main(func() error {
		if err := d.Start(); err != nil {
			return err
		}
		return d.Wait()
	})
}

// Start brings up every component and registers its cleanup listener. A
// component that fails to start leaves the earlier ones registered, so the
// caller's cleanup releases them.
func (d *Daemon) Start() error {
	if err := d.start(); err != nil {
		if d.coord.Len() == 0 {
			d.closeJournal()
		}
		return err
	}
	d.log.Info("exitguard started",
		"pid", os.Getpid(),
		"listeners", d.coord.Len(),
		"metrics_addr", d.MetricsAddr(),
		"cluster_addr", d.ClusterAddr())
	return nil
}

func (d *Daemon) start() error {
	if d.cfg.Metrics.Addr != "" {
		if err := d.startMetrics(); err != nil {
			return err
		}
	}
	if d.cfg.Cluster.Enabled {
		if err := d.startCluster(); err != nil {
			return err
		}
	}
	if d.cfg.Shutdown.StdinMessages {
		go d.forward(shutdown.LineMessages(d.stdin))
	}
	if d.cfg.PIDFile != "" {
		if err := d.writePIDFile(); err != nil {
			return err
		}
	}
	if d.loader != nil && d.loader.FilePath() != "" {
		if err := d.startWatcher(); err != nil {
			return err
		}
	}
	return nil
}

// Wait blocks while the daemon is healthy. It returns an error if the
// metrics endpoint fails on its own. When cleanup has closed the endpoint,
// the trigger that started cleanup owns the terminal action, so Wait keeps
// blocking.
func (d *Daemon) Wait() error {
	err := <-d.serveErr
	if errors.Is(err, http.ErrServerClosed) {
		select {}
	}
	return fmt.Errorf("metrics server: %w", err)
}

func (d *Daemon) startMetrics() error {
	ln, err := net.Listen("tcp", d.cfg.Metrics.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", d.cfg.Metrics.Addr, err)
	}
	d.listener = ln

	mux := http.NewServeMux()
	mux.Handle("/metrics", d.metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok\n")
	})
	d.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		d.serveErr <- d.server.Serve(ln)
	}()

	d.coord.Add(shutdown.Func(func(ctx context.Context) error {
		logger.L(ctx).Info("stopping metrics server")
		return d.server.Shutdown(ctx)
	}))
	d.log.Info("metrics server listening", "addr", ln.Addr().String())
	return nil
}

func (d *Daemon) startCluster() error {
	node, err := cluster.Join(cluster.Config{
		NodeName: d.cfg.Cluster.NodeName,
		BindAddr: d.cfg.Cluster.BindAddr,
		BindPort: d.cfg.Cluster.BindPort,
		Join:     d.cfg.Cluster.Join,
		Logger:   d.log.Slog().With("component", "cluster"),
	})
	if err != nil {
		return err
	}
	d.node = node
	go d.forward(node.Messages())

	d.coord.Add(shutdown.Func(func(ctx context.Context) error {
		logger.L(ctx).Info("leaving cluster")
		return node.Leave(ctx)
	}))
	return nil
}

func (d *Daemon) writePIDFile() error {
	path := d.cfg.PIDFile
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	d.coord.Add(shutdown.Closer(func() error {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove pid file: %w", err)
		}
		return nil
	}))
	return nil
}

func (d *Daemon) startWatcher() error {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(d.log.Slog().With("component", "config")))
	if err != nil {
		return fmt.Errorf("config watcher: %w", err)
	}
	if err := w.Watch(d.loader.FilePath()); err != nil {
		_ = w.Close()
		return fmt.Errorf("config watcher: %w", err)
	}
	w.OnChange(func(string) { d.reload() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	d.coord.Add(shutdown.Func(func(context.Context) error {
		cancel()
		<-done
		return nil
	}))
	return nil
}

// reload reapplies settings that may change at runtime. Only the log level
// does; other changes need a restart.
func (d *Daemon) reload() {
	cfg, err := config.Reload(d.loader, d.overrides)
	if err != nil {
		d.log.Error("failed to reload configuration", "error", err)
		return
	}
	if !logger.ValidLevel(cfg.Log.Level) {
		d.log.Error("ignoring invalid log level", "level", cfg.Log.Level)
		return
	}
	if cfg.Log.Level != logger.GetLevel() {
		logger.SetLevel(cfg.Log.Level)
		d.log.Info("log level changed", "level", logger.GetLevel())
	}
}

// forward copies messages from src to the coordinator's message source
// until src is closed.
func (d *Daemon) forward(src <-chan string) {
	for msg := range src {
		d.msgs <- msg
	}
}

func (d *Daemon) closeJournal() {
	if d.journal == nil {
		return
	}
	if err := d.journal.Close(); err != nil {
		d.log.Error("failed to close journal", "error", err)
	}
}
