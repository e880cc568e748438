package service

import (
	"context"
	"crypto/sha1"
	"csa_sim_backend/internal/config"
	"csa_sim_backend/internal/model"
	"csa_sim_backend/internal/repository"
	"csa_sim_backend/pkg/logger"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var termPattern = regexp.MustCompile(`[a-z0-9]+`)

// RetrieverService FAQ语料检索，评分时为模型提供背景上下文
// 语料常驻内存，Reload显式整体换入，读写锁保护，不依赖包级单例
type RetrieverService struct {
	faqRepo *repository.FAQRepository
	rdb     *redis.Client
	cfg     config.RetrieverConfig

	mu   sync.RWMutex
	docs []retrievalDoc
}

type retrievalDoc struct {
	text  string
	terms map[string]bool
}

func NewRetrieverService(faqRepo *repository.FAQRepository, rdb *redis.Client, cfg config.RetrieverConfig) *RetrieverService {
	return &RetrieverService{
		faqRepo: faqRepo,
		rdb:     rdb,
		cfg:     cfg,
	}
}

// Load 启动时从数据库加载已导入的语料
func (s *RetrieverService) Load() error {
	entries, err := s.faqRepo.FindAll()
	if err != nil {
		return err
	}
	s.swapCorpus(entries)
	logger.Log.Info("retriever corpus loaded", zap.Int("documents", len(entries)))
	return nil
}

// Reload 数据集上传后重建语料：解析CSV、整表替换、换入内存索引
// CSV首行为表头，至少两列：问题、答案，第三列来源可选
func (s *RetrieverService) Reload(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("invalid FAQ dataset CSV: %w", err)
	}
	if len(rows) < 2 {
		return 0, fmt.Errorf("FAQ dataset CSV has no data rows")
	}

	var entries []model.FAQEntry
	for _, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}
		question := strings.TrimSpace(row[0])
		answer := strings.TrimSpace(row[1])
		if question == "" && answer == "" {
			continue
		}
		entry := model.FAQEntry{Question: question, Answer: answer}
		if len(row) > 2 {
			entry.Source = strings.TrimSpace(row[2])
		}
		entries = append(entries, entry)
	}

	if err := s.faqRepo.ReplaceAll(entries); err != nil {
		return 0, err
	}

	s.swapCorpus(entries)
	s.invalidateCache(ctx)

	logger.Log.Info("retriever corpus reloaded", zap.Int("documents", len(entries)))
	return len(entries), nil
}

// Retrieve 返回与查询词重叠度最高的k条语料，结果短暂缓存在redis
func (s *RetrieverService) Retrieve(ctx context.Context, query string, k int) []string {
	if k <= 0 {
		k = s.cfg.TopK
	}

	cacheKey := s.cacheKey(query, k)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var docs []string
			if json.Unmarshal([]byte(cached), &docs) == nil {
				return docs
			}
		}
	}

	queryTerms := tokenize(query)

	s.mu.RLock()
	type scored struct {
		index int
		score int
	}
	var matches []scored
	for i, doc := range s.docs {
		score := 0
		for term := range queryTerms {
			if doc.terms[term] {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{index: i, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if len(matches) > k {
		matches = matches[:k]
	}

	docs := make([]string, 0, len(matches))
	for _, m := range matches {
		docs = append(docs, s.docs[m.index].text)
	}
	s.mu.RUnlock()

	if s.rdb != nil && len(docs) > 0 {
		if payload, err := json.Marshal(docs); err == nil {
			ttl := time.Duration(s.cfg.CacheTTLMinutes) * time.Minute
			if ttl <= 0 {
				ttl = 10 * time.Minute
			}
			s.rdb.Set(ctx, cacheKey, payload, ttl)
		}
	}

	return docs
}

func (s *RetrieverService) swapCorpus(entries []model.FAQEntry) {
	docs := make([]retrievalDoc, 0, len(entries))
	for _, e := range entries {
		text := "Q: " + e.Question + "\nA: " + e.Answer
		docs = append(docs, retrievalDoc{
			text:  text,
			terms: tokenize(text),
		})
	}

	s.mu.Lock()
	s.docs = docs
	s.mu.Unlock()
}

func (s *RetrieverService) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	iter := s.rdb.Scan(ctx, 0, "retriever:*", 0).Iterator()
	for iter.Next(ctx) {
		s.rdb.Del(ctx, iter.Val())
	}
}

func (s *RetrieverService) cacheKey(query string, k int) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%d:%s", k, strings.ToLower(query))))
	return "retriever:" + hex.EncodeToString(sum[:])
}

func tokenize(text string) map[string]bool {
	terms := make(map[string]bool)
	for _, t := range termPattern.FindAllString(strings.ToLower(text), -1) {
		terms[t] = true
	}
	return terms
}
