package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"finanze/internal/amqp"
	"finanze/internal/backend"
	"finanze/internal/cache"
	"finanze/internal/config"
	"finanze/internal/core"
	"finanze/internal/log"
	"finanze/internal/services"
)

// app is the state shared by every command of one invocation.
type app struct {
	out    io.Writer
	errOut io.Writer
	in     *bufio.Reader

	cfg      *config.Config
	logger   *log.Logger
	svc      *services.LedgerService
	notifier *amqp.Client
	loadErr  error

	backendFlag string
	fileFlag    string
	assumeYes   bool
	isTerminal  func() bool
}

func newApp(out, errOut io.Writer, in io.Reader) *app {
	return &app{
		out:    out,
		errOut: errOut,
		in:     bufio.NewReader(in),
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// open builds the ledger service and loads the ledger.
func (a *app) open(ctx context.Context) error {
	cfg, err := LoadAndValidateConfig(func(c *config.Config) {
		if a.backendFlag != "" {
			c.DataBackend = a.backendFlag
		}
		if a.fileFlag != "" {
			c.DataFile = a.fileFlag
		}
	})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = SetupLogger(cfg, a.errOut)

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(a.logger.Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return err
	}

	opts := []services.Option{
		services.WithLogger(a.logger),
		services.WithReportCache(cache.NewLRUCache[core.Summary](cfg.ReportCacheSize, cfg.ReportCacheTTL)),
	}
	if res.Notifier != nil {
		a.notifier = res.Notifier
		opts = append(opts, services.WithNotifier(res.Notifier))
	}
	a.svc = services.NewLedgerService(res.Repository, opts...)

	if err := a.svc.Load(ctx); err != nil {
		a.loadErr = err
		fmt.Fprintf(a.errOut, "warning: %v; starting from the default ledger\n", err)
	}
	return nil
}

func (a *app) close() error {
	if a.svc == nil {
		return nil
	}
	err := a.svc.Close()
	a.svc = nil
	return err
}

// commit saves the ledger after a successful mutation. A document that could
// not be read is never overwritten with the default ledger.
func (a *app) commit(ctx context.Context) error {
	if a.loadErr != nil {
		return fmt.Errorf("not saving over an unreadable ledger, fix or move it first: %w", a.loadErr)
	}
	return a.svc.Save(ctx)
}

// confirmer accepts every warning with --yes, prompts on a terminal and
// declines otherwise.
func (a *app) confirmer() core.Confirmer {
	if a.assumeYes {
		return core.AlwaysConfirm
	}
	if !a.isTerminal() {
		return func(w core.Warning) bool {
			fmt.Fprintf(a.errOut, "warning: %v (rerun with --yes to proceed)\n", w)
			return false
		}
	}
	return func(w core.Warning) bool {
		fmt.Fprintf(a.errOut, "%v. Proceed? [y/N] ", capitalize(w.Error()))
		line, err := a.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	}
}

func (a *app) money(m core.Money) string {
	return m.Format(a.cfg.CurrencySymbol)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
