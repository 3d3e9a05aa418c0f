package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/saraswati/exam-gateway/internal/cache"
	"github.com/saraswati/exam-gateway/internal/config"
	"github.com/saraswati/exam-gateway/internal/model"
	"github.com/saraswati/exam-gateway/internal/repository"
)

// ExamConfig holds the two per-exam settings served to students.
type ExamConfig struct {
	TimePerQuestion int
	NoOfQuestions   int
}

// ConfigCache is the read/write primitive the resolver uses. Reads classify
// their outcome as hit, miss, or unavailable; writes are fire-and-forget.
type ConfigCache interface {
	Get(ctx context.Context, key string) cache.Lookup
	Set(ctx context.Context, key, value string)
}

// ExamStore reads authoritative exam rows from the record store.
type ExamStore interface {
	GetByPrefix(ctx context.Context, prefix string) (*model.Exam, error)
	ListAll(ctx context.Context) ([]model.Exam, error)
}

var (
	_ ExamStore   = (*repository.ExamRepository)(nil)
	_ ConfigCache = (*cache.ConfigCache)(nil)
)

// ConfigResolver answers exam configuration reads cache-first, falling back
// to the record store. The cache is advisory: whatever its state, callers
// get the same integers the store would give, and cache trouble never
// surfaces as an error.
type ConfigResolver struct {
	cache ConfigCache
	exams ExamStore
	log   zerolog.Logger
}

// NewConfigResolver creates a new ConfigResolver.
func NewConfigResolver(cache ConfigCache, exams ExamStore, log zerolog.Logger) *ConfigResolver {
	return &ConfigResolver{cache: cache, exams: exams, log: log}
}

// Resolve returns time-per-question and question count for one exam prefix.
//
// Both keys are read from the cache first. If both hit with parseable values
// the store is not touched. On a miss the store answers and both values are
// written back best-effort. If the cache was unreachable the write-back is
// skipped entirely so an unhealthy backend is not mutated.
func (r *ConfigResolver) Resolve(ctx context.Context, prefix string) (*ExamConfig, error) {
	tpqKey := config.CacheKey.TimePerQuestionKey(prefix)
	noqKey := config.CacheKey.QuestionCountKey(prefix)

	tpq := r.cache.Get(ctx, tpqKey)
	noq := r.cache.Get(ctx, noqKey)

	tpqVal, tpqOK := parseCached(tpq)
	noqVal, noqOK := parseCached(noq)
	if tpqOK && noqOK {
		return &ExamConfig{TimePerQuestion: tpqVal, NoOfQuestions: noqVal}, nil
	}

	exam, err := r.exams.GetByPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	cfg := &ExamConfig{
		TimePerQuestion: exam.TimePerQuestion,
		NoOfQuestions:   exam.NoOfQuestions,
	}

	if tpq.State == cache.Unavailable || noq.State == cache.Unavailable {
		r.log.Debug().Str("prefix", prefix).Msg("Cache unavailable, skipping write-back")
		return cfg, nil
	}

	r.cache.Set(ctx, tpqKey, strconv.Itoa(cfg.TimePerQuestion))
	r.cache.Set(ctx, noqKey, strconv.Itoa(cfg.NoOfQuestions))

	return cfg, nil
}

// PrewarmAll loads every exam's configuration into the cache. Called once at
// startup so the first login wave does not stampede the store.
func (r *ConfigResolver) PrewarmAll(ctx context.Context) error {
	exams, err := r.exams.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, e := range exams {
		r.cache.Set(ctx, config.CacheKey.TimePerQuestionKey(e.Prefix), strconv.Itoa(e.TimePerQuestion))
		r.cache.Set(ctx, config.CacheKey.QuestionCountKey(e.Prefix), strconv.Itoa(e.NoOfQuestions))
	}
	r.log.Info().Int("exams", len(exams)).Msg("Config cache prewarmed")
	return nil
}

// parseCached extracts an integer from a cache lookup. Anything that is not
// a clean hit, including unparseable stored text, counts as a miss.
func parseCached(l cache.Lookup) (int, bool) {
	if l.State != cache.Hit {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(l.Value))
	if err != nil {
		return 0, false
	}
	return n, true
}
