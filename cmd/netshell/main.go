// netshell is the command shell of the PNF network appliance.
//
// It offers a Cisco-style mode hierarchy (User EXEC, Privileged EXEC,
// Global Configuration and the feature-manager modes) with prefix
// abbreviation, tab completion and '?' help.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/psaab/netshell/pkg/cli"
	"github.com/psaab/netshell/pkg/clock"
	"github.com/psaab/netshell/pkg/config"
	"github.com/psaab/netshell/pkg/configstore"
	"github.com/psaab/netshell/pkg/credentials"
	"github.com/psaab/netshell/pkg/dhcp"
	"github.com/psaab/netshell/pkg/logging"
	"github.com/psaab/netshell/pkg/metrics"
	"github.com/psaab/netshell/pkg/mode"
	"github.com/psaab/netshell/pkg/netinfo"
	"github.com/psaab/netshell/pkg/runner"
	"github.com/psaab/netshell/pkg/session"
)

func main() {
	configFile := flag.String("config", config.DefaultPath, "configuration file path")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus listen address (overrides the config file)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if err := run(*configFile, *metricsAddr, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "netshell: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, metricsAddr string, debug bool) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if metricsAddr != "" {
		cfg.Metrics.Listen = metricsAddr
	}

	level, _ := config.ParseLevel(cfg.Log.Level)
	if debug {
		level = slog.LevelDebug
	}
	var logOut io.Writer = os.Stderr
	if cfg.Log.File != "" {
		rf, err := logging.OpenFile(logging.FileConfig{
			Path:     cfg.Log.File,
			MaxSize:  cfg.Log.MaxSize,
			MaxFiles: cfg.Log.MaxFiles,
		})
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer rf.Close()
		logOut = rf
	}
	levelVar := logging.Setup(logOut, level)

	ctx, stop := signal.NotifyContext(context.Background(), unix.SIGTERM)
	defer stop()

	var creds credentials.Store = credentials.NewMemoryStore()
	if cfg.Keyring {
		creds = credentials.NewKeyringStore()
	}

	var clk *clock.Clock
	if !cfg.DisableClock {
		clk = clock.New()
	}

	dhcpTimeout, err := time.ParseDuration(cfg.DHCPTimeout)
	if err != nil {
		return fmt.Errorf("dhcp_timeout: %w", err)
	}

	svc := &cli.Services{
		Out:         os.Stdout,
		Prompt:      cli.NewLinePrompter(os.Stdin, os.Stdout),
		Runner:      runner.NewExec(),
		State:       configstore.New(cfg.ArchiveSize),
		Creds:       creds,
		Net:         netinfo.Netlink{},
		DHCP:        dhcp.NewClient(dhcpTimeout),
		StartupPath: cfg.StartupConfig,
		HistoryPath: cfg.HistoryFile,
		Version:     cfg.Version,
		DeviceModel: cfg.DeviceModel,
		LogLevel:    levelVar,
		BaseLevel:   level,
		Uname:       uname,
		Hangup:      hangup,
		Context:     ctx,
	}

	reg, err := cli.NewApplianceRegistry(svc)
	if err != nil {
		return err
	}
	m := metrics.New()
	engine := &cli.Engine{Registry: reg, Metrics: m, Out: os.Stdout, Err: os.Stderr}

	sess := session.New(mode.Appliance)
	sess.SetHostname(cfg.Hostname)
	loadCredentials(creds, &sess.Config)

	sh := cli.NewShell(engine, sess, clk, svc)
	m.WatchState(sh.State)
	if cfg.Metrics.Listen != "" {
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.Listen); err != nil {
				slog.Error("metrics listener failed", "addr", cfg.Metrics.Listen, "err", err)
			}
		}()
	}

	slog.Info("shell started", "hostname", cfg.Hostname, "version", cfg.Version, "clock", clk != nil)
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		r := bufio.NewReader(os.Stdin)
		svc.Prompt = &cli.LinePrompter{In: r, Out: os.Stdout, Fd: -1}
		return sh.RunScript(ctx, r)
	}
	return sh.Run(ctx)
}

// loadCredentials copies stored digests into the session so the running
// configuration shows them.
func loadCredentials(store credentials.Store, cfg *session.Config) {
	for key, dst := range map[credentials.Key]*string{
		credentials.EnablePassword: &cfg.EnablePassword,
		credentials.EnableSecret:   &cfg.EnableSecret,
	} {
		digest, ok, err := store.Get(key)
		if err != nil {
			slog.Warn("read stored credential", "key", string(key), "err", err)
			continue
		}
		if ok {
			*dst = digest
		}
	}
}

func uname() (string, error) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s %s",
		unix.ByteSliceToString(u.Sysname[:]),
		unix.ByteSliceToString(u.Release[:]),
		unix.ByteSliceToString(u.Machine[:])), nil
}

// hangup signals the login shell of an SSH session so the connection
// closes.
func hangup() error {
	if os.Getenv("SSH_CONNECTION") == "" {
		return errors.New("not running under an SSH session")
	}
	return unix.Kill(unix.Getppid(), unix.SIGHUP)
}
