// Package cache keeps a redis-backed set of already-extracted product
// URLs so interrupted runs can resume without refetching. Optional;
// when disabled the crawl always starts from the full discovered list.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/redis/go-redis/v9"
)

type SeenCache struct {
	client *redis.Client
	key    string
	logger *slog.Logger
}

// New connects to redis at addr and scopes the seen-set to the target
// site's host.
func New(ctx context.Context, addr, targetURL string) (*SeenCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	host := "default"
	if u, err := url.Parse(targetURL); err == nil && u.Host != "" {
		host = u.Host
	}

	return &SeenCache{
		client: client,
		key:    "scraper:seen:" + strings.ToLower(host),
		logger: slog.Default().With("component", "seen_cache"),
	}, nil
}

func (c *SeenCache) Close() error {
	return c.client.Close()
}

// FilterUnseen returns urls not yet marked, preserving order.
func (c *SeenCache) FilterUnseen(ctx context.Context, urls []string) ([]string, error) {
	if len(urls) == 0 {
		return urls, nil
	}

	seen, err := c.client.SMIsMember(ctx, c.key, toMembers(urls)...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to check seen urls: %w", err)
	}

	unseen := make([]string, 0, len(urls))
	for i, u := range urls {
		if i < len(seen) && seen[i] {
			continue
		}
		unseen = append(unseen, u)
	}

	c.logger.Info("filtered seen urls", "discovered", len(urls), "remaining", len(unseen))
	return unseen, nil
}

// MarkSeen records urls as extracted.
func (c *SeenCache) MarkSeen(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	if err := c.client.SAdd(ctx, c.key, toMembers(urls)...).Err(); err != nil {
		return fmt.Errorf("failed to mark seen urls: %w", err)
	}
	return nil
}

func toMembers(urls []string) []interface{} {
	members := make([]interface{}, len(urls))
	for i, u := range urls {
		members[i] = u
	}
	return members
}
