package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/feedbridge/feedcli/pkg/api"
	"github.com/feedbridge/feedcli/pkg/config"
	"github.com/feedbridge/feedcli/pkg/content"
	"github.com/feedbridge/feedcli/pkg/domain"
	"github.com/feedbridge/feedcli/pkg/feed"
	"github.com/feedbridge/feedcli/pkg/identity"
	"github.com/feedbridge/feedcli/pkg/session"
	"github.com/feedbridge/feedcli/pkg/store"
	"github.com/feedbridge/feedcli/pkg/summarizer"
	"github.com/feedbridge/feedcli/pkg/view"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"f" long:"config" env:"FEEDCLI_CONFIG" default:"feedcli.yml" description:"config file path"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}
	if opts.NoColor {
		color.NoColor = true
	}

	setupLog(opts.Debug)

	log.Printf("[INFO] starting feedcli version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		log.Printf("[ERROR] feedcli failed: %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

// lateBoundCredentials lets the API client be constructed before the session
// manager that backs it
type lateBoundCredentials struct {
	mgr *session.Manager
}

func (c *lateBoundCredentials) CurrentCredential(ctx context.Context) (domain.Credential, error) {
	if c.mgr == nil {
		return domain.Credential{}, domain.NewError(domain.ErrNotAuthenticated, "not signed in")
	}
	return c.mgr.CurrentCredential(ctx)
}

func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	st, err := store.New(ctx, cfg.Storage.DSN)
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}
	defer st.Close()

	baseURL, timeout := cfg.GetBackendConfig()
	authCfg := cfg.GetAuthConfig()

	provider := identity.NewClient(authCfg.ProviderURL, timeout)
	federated := identity.NewFederatedFlow(authCfg.FederatedURL, authCfg.FlowTimeout)

	creds := &lateBoundCredentials{}
	apiClient := api.New(baseURL, timeout, creds)

	mgr := session.New(provider, federated, apiClient, st, authCfg.RefreshSkew)
	creds.mgr = mgr

	dark, err := st.DarkMode(ctx)
	if err != nil {
		log.Printf("[WARN] can't load theme preference: %v", err)
	}
	ui := view.New(os.Stdout, dark)

	unsubscribe := mgr.OnStateChange(ui.SessionChanged)
	defer unsubscribe()

	mgr.Restore(ctx)

	// hide the live token from logs once a session exists
	if sess := mgr.Current(); sess.Credential.Token != "" {
		setupLog(opts.Debug, sess.Credential.Token)
	}

	var summ *summarizer.Summarizer
	if cfg.Summary.Enabled {
		summ = summarizer.New(cfg.GetSummaryConfig(), cfg.GetRetryConfig())
	}

	a := &app{
		in:         os.Stdin,
		ui:         ui,
		mgr:        mgr,
		api:        apiClient,
		previewer:  feed.NewPreviewer(timeout, "feedcli/"+revision),
		reader:     content.NewReader(cfg.GetExtractionConfig()),
		summarizer: summ,
		store:      st,
		retry:      cfg.GetRetryConfig(),
	}
	return a.run(ctx)
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Out(io.Discard), lgr.Err(io.Discard)}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
