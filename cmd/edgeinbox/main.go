package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/nhle/edgeinbox/internal/app"
	"github.com/nhle/edgeinbox/internal/config"
	"github.com/nhle/edgeinbox/internal/credential"
	"github.com/nhle/edgeinbox/internal/logging"
	"github.com/nhle/edgeinbox/internal/message"
	"github.com/nhle/edgeinbox/internal/pager"
	"github.com/nhle/edgeinbox/internal/source"
	"github.com/nhle/edgeinbox/internal/source/libsql"
	"github.com/nhle/edgeinbox/internal/store"
)

type options struct {
	configPath string
	user       string
	offset     string
	importPath string
	importFrom string
	storeToken bool
	initConfig bool
}

func main() {
	fs := pflag.NewFlagSet("edgeinbox", pflag.ExitOnError)
	opts := parseFlags(fs, os.Args[1:])

	if err := run(fs, opts); err != nil {
		fmt.Fprintf(os.Stderr, "edgeinbox: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(fs *pflag.FlagSet, args []string) options {
	var o options
	fs.StringVar(&o.configPath, "config", config.DefaultConfigPath(), "path to the config file")
	fs.StringVar(&o.user, "user", "", "mailbox to open (the part before the @)")
	fs.StringVar(&o.offset, "offset", "", "row offset of the first page")
	fs.String("db-url", "", "libsql HTTP endpoint; empty reads the local store")
	fs.String("domain", "", "mailbox domain")
	fs.Int("page-size", 0, "messages per page")
	fs.String("log-level", "", "log level: debug, info, warn or error")
	fs.StringVar(&o.importPath, "import", "", "append a raw message file to the local mailbox and exit")
	fs.StringVar(&o.importFrom, "from", "", "envelope sender for --import (default: the From header)")
	fs.BoolVar(&o.storeToken, "store-token", false, "read a database token from stdin and save it in the keyring")
	fs.BoolVar(&o.initConfig, "init-config", false, "write the effective configuration to --config and exit")
	_ = fs.Parse(args)
	return o
}

func run(fs *pflag.FlagSet, opts options) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if opts.storeToken {
		return storeToken(os.Stdin)
	}

	cfg, err := config.LoadConfig(opts.configPath, fs)
	if err != nil {
		return err
	}

	if opts.initConfig {
		if err := config.SaveConfig(opts.configPath, cfg); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", opts.configPath)
		return nil
	}

	log, closer, err := logging.Open(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closer.Close()

	if opts.importPath != "" {
		return importMessage(ctx, cfg, opts, log)
	}

	q, cleanup, err := openQuerier(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	model := app.New(q, log, app.Options{
		Params:        pager.Params{User: opts.user, Offset: opts.offset},
		Domain:        cfg.Mailbox.Domain,
		PageSize:      cfg.Mailbox.PageSize,
		AddressPrefix: cfg.Mailbox.AddressPrefix,
		Timeout:       cfg.Timeout(),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

// openQuerier selects the backend: the remote endpoint when a URL is
// configured, the local store otherwise.
func openQuerier(
	ctx context.Context,
	cfg *config.AppConfig,
	log *slog.Logger,
) (source.Querier, func(), error) {
	if cfg.Remote() {
		token, err := credential.Token()
		if err != nil || token == "" {
			return nil, nil, fmt.Errorf(
				"no database token for %s: set EDGEINBOX_TOKEN or run with --store-token",
				cfg.Database.URL,
			)
		}
		log.Info("using remote backend", "url", cfg.Database.URL)
		return libsql.NewClient(cfg.Database.URL, token, cfg.Timeout()), func() {}, nil
	}

	s, err := store.NewSQLiteStore(cfg.Local.Path)
	if err != nil {
		return nil, nil, err
	}
	log.Info("using local store", "path", cfg.Local.Path)

	if days := cfg.Local.RetentionDays; days > 0 {
		cutoff := time.Now().AddDate(0, 0, -days)
		n, err := s.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			log.Warn("retention sweep failed", "error", err)
		} else if n > 0 {
			log.Info("deleted expired mail", "count", n, "cutoff", cutoff)
		}
	}

	return s, func() { _ = s.Close() }, nil
}

func importMessage(
	ctx context.Context,
	cfg *config.AppConfig,
	opts options,
	log *slog.Logger,
) error {
	if opts.user == "" {
		return errors.New("--import needs --user")
	}
	data, err := os.ReadFile(opts.importPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", opts.importPath, err)
	}

	s, err := store.NewSQLiteStore(cfg.Local.Path)
	if err != nil {
		return err
	}
	defer s.Close()

	page := pager.FromParams(pager.Params{User: opts.user}, cfg.Mailbox.Domain, cfg.Mailbox.PageSize)
	mail := store.Mail{
		Sender:     envelopeSender(opts.importFrom, string(data)),
		Recipients: page.RecipientAddress(),
		Data:       string(data),
	}
	if err := s.InsertMail(ctx, mail, time.Time{}); err != nil {
		return err
	}

	count, err := s.CountMail(ctx, mail.Recipients)
	if err != nil {
		return err
	}
	log.Info("imported message", "mailbox", page.Address(), "count", count)
	fmt.Printf("imported into %s (%d messages)\n", page.Address(), count)
	return nil
}

// envelopeSender returns from in envelope form, falling back to the
// message's From header.
func envelopeSender(from, raw string) string {
	if from == "" {
		for _, f := range message.Headers(raw) {
			if strings.EqualFold(f.Key, "From") {
				from = f.Value
				break
			}
		}
	}
	from = strings.TrimSpace(from)
	if i := strings.LastIndex(from, "<"); i >= 0 {
		from = from[i:]
	}
	if from == "" {
		return "<>"
	}
	if !strings.HasPrefix(from, "<") {
		from = "<" + from + ">"
	}
	return from
}

func storeToken(r io.Reader) error {
	fmt.Fprint(os.Stderr, "database token: ")
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading token: %w", err)
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return errors.New("empty token")
	}
	if err := credential.Set(credential.TokenKey, token); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "saved")
	return nil
}
