package stats

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	rdb *redis.Client

	prefix string
	// ttl vale só para os buckets diários; o total não expira.
	ttl time.Duration
}

type RedisOption func(*RedisStore)

func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = strings.Trim(prefix, ":") }
}

func WithTTL(d time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = d }
}

func NewRedisStore(rdb *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		rdb:    rdb,
		prefix: "cep:stats",
		ttl:    7 * 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewRedisClient abre o client a partir de uma URL redis:// e testa o Ping.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("url do redis inválida: %w", err)
	}

	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("falha ao conectar no redis: %w", err)
	}
	return rdb, nil
}

func field(provider string, won bool) string {
	if won {
		return provider + ":won"
	}
	return provider + ":missed"
}

func (s *RedisStore) Record(ctx context.Context, ev Event) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	f := field(ev.Provider, ev.Won)

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.prefix+":total", f, 1)

	dayKey := fmt.Sprintf("%s:day:%s", s.prefix, at.UTC().Format("20060102"))
	pipe.HIncrBy(ctx, dayKey, f, 1)
	if s.ttl > 0 {
		pipe.Expire(ctx, dayKey, s.ttl)
	}

	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Snapshot(ctx context.Context) (map[string]Counters, error) {
	if s == nil || s.rdb == nil {
		return map[string]Counters{}, nil
	}

	raw, err := s.rdb.HGetAll(ctx, s.prefix+":total").Result()
	if err != nil {
		return nil, err
	}
	return parseCounters(raw), nil
}

// parseCounters converte {"ViaCEP:won": "3", ...} em Counters por provedor.
func parseCounters(raw map[string]string) map[string]Counters {
	out := make(map[string]Counters)
	for f, v := range raw {
		i := strings.LastIndex(f, ":")
		if i <= 0 {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}

		provider, kind := f[:i], f[i+1:]
		c := out[provider]
		switch kind {
		case "won":
			c.Won += n
		case "missed":
			c.Missed += n
		default:
			continue
		}
		out[provider] = c
	}
	return out
}
