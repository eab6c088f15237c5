package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/prodex"
	"github.com/fwojciec/prodex/crawl"
	"github.com/fwojciec/prodex/fs"
	"github.com/fwojciec/prodex/goquery"
	prodexhttp "github.com/fwojciec/prodex/http"
	"github.com/fwojciec/prodex/rod"
	prodexslog "github.com/fwojciec/prodex/slog"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is fine; flags and the environment still apply.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Stdin is read when the extract source is "-".
	Stdin io.Reader

	// Fetchers opened by Run, closed by Close.
	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Stdin: os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var firstErr error
	for _, c := range m.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("prodex"),
		kong.Description("Extract structured product records from storefront pages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'prodex --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	defer m.Close()

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// The engine is stateless and cheap; every command gets it.
	deps.Extractor = goquery.NewExtractor()
	deps.Headers = goquery.NewHeaderCollector()
	deps.Metadata = goquery.NewMetadataCollector()
	if cli.Verbose {
		deps.Extractor = prodexslog.NewLoggingExtractor(deps.Extractor, deps.Logger)
	}

	switch strings.Fields(kongCtx.Command())[0] {
	case "extract":
		if isRemote(cli.Extract.Source) {
			fetcher, err := m.openFetcher(cli, deps)
			if err != nil {
				return err
			}
			deps.Fetcher = fetcher
		}

	case "scrape":
		var sitemaps prodex.SitemapService = prodexhttp.NewSitemapService(nil)
		if cli.Verbose {
			sitemaps = prodexslog.NewLoggingSitemapService(sitemaps, deps.Logger)
		}
		deps.Sitemaps = sitemaps

		fetcher, err := m.openFetcher(cli, deps)
		if err != nil {
			return err
		}
		deps.Fetcher = fetcher

		deps.Scraper = &crawl.Scraper{
			Fetcher:     fetcher,
			Extractor:   deps.Extractor,
			Headers:     deps.Headers,
			Metadata:    deps.Metadata,
			RateLimiter: crawl.NewDomainLimiter(cli.Scrape.Rate),
			Logger:      deps.Logger,
			Concurrency: cli.Scrape.Concurrency,
		}

		if cli.Scrape.Out != "" {
			out := filepath.Clean(cli.Scrape.Out)
			deps.Store = fs.NewResultStore(filepath.Dir(out), filepath.Base(out))
		}
	}

	return kongCtx.Run(deps)
}

// openFetcher builds the fetcher selected by --fetcher. Fetchers that hold
// resources are closed by Main.Close.
func (m *Main) openFetcher(cli *CLI, deps *Dependencies) (prodex.Fetcher, error) {
	httpFetcher := prodexhttp.NewFetcher(prodexhttp.WithTimeout(cli.Timeout))

	var fetcher prodex.Fetcher
	switch cli.Fetcher {
	case "http":
		fetcher = httpFetcher
	case "browser", "auto":
		browser, err := m.openBrowser(cli, deps.Stderr)
		if err != nil {
			return nil, err
		}
		if cli.Fetcher == "browser" {
			fetcher = browser
			break
		}
		fetcher = &AutoFetcher{
			Prober: &crawl.Prober{
				HTTP:      httpFetcher,
				Browser:   browser,
				Extractor: deps.Extractor,
			},
			Logger: deps.Logger,
		}
	default:
		return nil, fmt.Errorf("unknown fetcher %q", cli.Fetcher)
	}

	if cli.Verbose {
		fetcher = prodexslog.NewLoggingFetcher(fetcher, deps.Logger)
	}
	m.closers = append(m.closers, fetcher)
	return fetcher, nil
}

func (m *Main) openBrowser(cli *CLI, stderr io.Writer) (*rod.Fetcher, error) {
	var managerOpts []rod.ManagerOption
	if cli.NoSandbox {
		managerOpts = append(managerOpts, rod.WithNoSandbox())
	}
	manager, err := rod.NewBrowserManager(managerOpts...)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	fetcher, err := rod.NewFetcherWithManager(manager, rod.WithFetchTimeout(cli.Timeout))
	if err != nil {
		_ = manager.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	return fetcher, nil
}
