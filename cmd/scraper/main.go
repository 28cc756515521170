package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/maltedev/shopify-catalog-scraper/internal/browser"
	"github.com/maltedev/shopify-catalog-scraper/internal/cache"
	"github.com/maltedev/shopify-catalog-scraper/internal/config"
	"github.com/maltedev/shopify-catalog-scraper/internal/crawler"
	"github.com/maltedev/shopify-catalog-scraper/internal/database"
	"github.com/maltedev/shopify-catalog-scraper/internal/extractor"
	"github.com/maltedev/shopify-catalog-scraper/internal/models"
	"github.com/maltedev/shopify-catalog-scraper/internal/sink"
	"github.com/maltedev/shopify-catalog-scraper/internal/sitemap"
	"github.com/maltedev/shopify-catalog-scraper/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags take precedence over the environment.
	flag.StringVar(&cfg.Target.URL, "url", cfg.Target.URL, "Target site or page URL")
	flag.StringVar(&cfg.Target.Selector, "selector", cfg.Target.Selector, "CSS selector (single-page mode)")
	flag.StringVar(&cfg.Target.LoginURL, "login-url", cfg.Target.LoginURL, "Login page to open for a manual login before scraping")
	flag.BoolVar(&cfg.Target.SitemapCrawl, "sitemap", cfg.Target.SitemapCrawl, "Discover and crawl product pages via the site's sitemap")
	flag.IntVar(&cfg.Target.MaxProducts, "max-products", cfg.Target.MaxProducts, "Maximum number of products to crawl (0 = all)")
	flag.BoolVar(&cfg.Browser.Headless, "headless", cfg.Browser.Headless, "Run the browser in headless mode")
	flag.StringVar(&cfg.Browser.ProfileDir, "profile-dir", cfg.Browser.ProfileDir, "Persistent browser profile directory")
	flag.StringVar(&cfg.Output.Dir, "output-dir", cfg.Output.Dir, "Directory for CSV output files")
	flag.IntVar(&cfg.Crawl.BatchSize, "batch-size", cfg.Crawl.BatchSize, "Concurrent pages per batch")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	l := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	if cfg.Target.SitemapCrawl {
		if cfg.Target.URL == "" {
			fmt.Fprintln(os.Stderr, "sitemap mode requires -url")
			flag.Usage()
			os.Exit(1)
		}
	} else if cfg.Target.URL == "" || cfg.Target.Selector == "" {
		fmt.Fprintln(os.Stderr, "single-page mode requires -url and -selector")
		flag.Usage()
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		l.Info("Shutdown signal received")
		cancel()
	}()

	if err := run(ctx, cfg, l); err != nil {
		l.Error("Scrape failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, l *slog.Logger) error {
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	b, err := browser.New(&browser.Options{
		Headless:       cfg.Browser.Headless,
		ProfileDir:     cfg.Browser.ProfileDir,
		Timeout:        cfg.Browser.Timeout,
		UserAgent:      browser.DefaultOptions().UserAgent,
		ViewportWidth:  browser.DefaultOptions().ViewportWidth,
		ViewportHeight: browser.DefaultOptions().ViewportHeight,
	})
	if err != nil {
		return fmt.Errorf("initialize browser: %w", err)
	}
	defer b.Close()

	if cfg.Target.SitemapCrawl {
		return runSitemapCrawl(ctx, cfg, l, b)
	}
	return runSinglePage(ctx, cfg, l, b)
}

func runSitemapCrawl(ctx context.Context, cfg *config.Config, l *slog.Logger, b *browser.Browser) error {
	if cfg.Target.LoginURL != "" {
		l.Warn("login flow is not supported in sitemap mode; ignoring login url")
	}

	discoverer := sitemap.NewDiscoverer(&http.Client{Timeout: 30 * time.Second})
	set, err := discoverer.Discover(ctx, cfg.Target.URL)
	if err != nil {
		return fmt.Errorf("discover products: %w", err)
	}
	urls := set.URLs()
	l.Info("Discovered product pages", "count", len(urls))

	opts := crawler.Options{
		BatchSize:   cfg.Crawl.BatchSize,
		MaxProducts: cfg.Target.MaxProducts,
	}

	if cfg.Redis.Addr != "" {
		seen, err := cache.New(ctx, cfg.Redis.Addr, cfg.Target.URL)
		if err != nil {
			return fmt.Errorf("connect seen cache: %w", err)
		}
		defer seen.Close()

		urls, err = seen.FilterUnseen(ctx, urls)
		if err != nil {
			return fmt.Errorf("filter seen urls: %w", err)
		}
		opts.Seen = seen
	}

	if cfg.Database.URL != "" {
		store, err := database.New(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer store.Close()

		if err := store.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		opts.Store = store
	}

	outPath := sink.FilePath(cfg.Output.Dir, cfg.Target.URL, "products", time.Now())
	out, err := sink.NewCSVSink(outPath, models.CSVHeader())
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer out.Close()

	fetcher := crawler.NewBrowserFetcher(b, extractor.New())
	c := crawler.New(fetcher, out, opts)

	processed, err := c.Run(ctx, urls)
	if err != nil {
		return fmt.Errorf("crawl: %w", err)
	}

	l.Info("Crawl complete", "records", processed, "file", outPath)
	return nil
}

func runSinglePage(ctx context.Context, cfg *config.Config, l *slog.Logger, b *browser.Browser) error {
	page, err := b.NewPage()
	if err != nil {
		return fmt.Errorf("create page: %w", err)
	}
	defer page.Close()

	if cfg.Target.LoginURL != "" {
		if _, err := page.Goto(cfg.Target.LoginURL, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		}); err != nil {
			return fmt.Errorf("open login page: %w", err)
		}
		if err := crawler.StdinConfirm(os.Stdin, os.Stdout)(); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := page.Goto(cfg.Target.URL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return fmt.Errorf("navigate: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	elements, err := crawler.CollectElements(page, cfg.Target.Selector)
	if err != nil {
		return fmt.Errorf("collect elements: %w", err)
	}
	l.Info("Collected elements", "count", len(elements), "selector", cfg.Target.Selector)

	outPath := sink.FilePath(cfg.Output.Dir, cfg.Target.URL, "elements", time.Now())
	if err := sink.WriteAll(outPath, crawler.ElementHeader(), crawler.ElementRows(elements)); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}

	l.Info("Scrape complete", "file", outPath)
	return nil
}
