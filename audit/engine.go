package audit

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/site-audit/backend/stats"
)

// Fixed aggregation weights per component. They sum to 1.0.
var componentWeights = map[string]float64{
	"meta":          0.20,
	"content":       0.20,
	"technical":     0.15,
	"mobile":        0.15,
	"performance":   0.10,
	"security":      0.10,
	"accessibility": 0.10,
}

type analyzerFunc func(markup string, facts *ContentFacts, pageURL string) ComponentScore

// analyzerTable fixes the dispatch and collation order of the analyzers.
var analyzerTable = []struct {
	name string
	run  analyzerFunc
}{
	{"meta", analyzeMetaTags},
	{"content", analyzeContent},
	{"technical", analyzeTechnical},
	{"mobile", analyzeMobile},
	{"performance", analyzePerformance},
	{"security", analyzeSecurity},
	{"accessibility", analyzeAccessibility},
}

// Cache entry with expiration
type cacheEntry struct {
	result    *ComprehensiveAuditResult
	timestamp time.Time
}

// CacheStats provides statistics about the engine's result cache.
type CacheStats struct {
	Entries     int           `json:"entries"`
	CacheHits   int           `json:"cacheHits"`
	CacheMisses int           `json:"cacheMisses"`
	CacheTTL    time.Duration `json:"cacheTTL"`
}

// Engine runs comprehensive audits over already-retrieved markup. It caches
// results so repeated audits of identical input are served without rescoring.
type Engine struct {
	extractor       Extractor
	cache           map[string]cacheEntry
	cacheMutex      sync.RWMutex
	cacheTTL        time.Duration
	maxCacheSize    int
	lastCleanup     time.Time
	cleanupInterval time.Duration
	stats           *stats.Storage
}

// New creates an Engine with audit statistics persisted under dataDir.
func New(dataDir string) (*Engine, error) {
	statsStorage, err := stats.NewStorage(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize stats storage: %w", err)
	}

	engine := &Engine{
		extractor:       NewExtractor(),
		cache:           make(map[string]cacheEntry),
		cacheTTL:        30 * time.Minute,
		maxCacheSize:    1000,
		cleanupInterval: 5 * time.Minute,
		lastCleanup:     time.Now(),
		stats:           statsStorage,
	}

	go engine.periodicCleanup()

	return engine, nil
}

// periodicCleanup removes expired cache entries periodically.
func (e *Engine) periodicCleanup() {
	ticker := time.NewTicker(e.cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		e.cleanup()
	}
}

// cleanup removes expired entries and enforces the cache size limit.
func (e *Engine) cleanup() {
	now := time.Now()

	e.cacheMutex.Lock()
	defer e.cacheMutex.Unlock()

	for key, entry := range e.cache {
		if now.Sub(entry.timestamp) > e.cacheTTL {
			delete(e.cache, key)
		}
	}

	if len(e.cache) > e.maxCacheSize {
		entries := make([]struct {
			key       string
			timestamp time.Time
		}, 0, len(e.cache))

		for key, entry := range e.cache {
			entries = append(entries, struct {
				key       string
				timestamp time.Time
			}{key, entry.timestamp})
		}

		sort.Slice(entries, func(i, j int) bool {
			return entries[i].timestamp.Before(entries[j].timestamp)
		})

		for i := 0; i < len(entries)-e.maxCacheSize; i++ {
			delete(e.cache, entries[i].key)
		}
	}

	e.lastCleanup = now
}

// SetCacheTTL sets the result cache TTL.
func (e *Engine) SetCacheTTL(ttl time.Duration) {
	e.cacheMutex.Lock()
	defer e.cacheMutex.Unlock()
	e.cacheTTL = ttl
}

// ClearCache clears the result cache.
func (e *Engine) ClearCache() {
	e.cacheMutex.Lock()
	defer e.cacheMutex.Unlock()
	e.cache = make(map[string]cacheEntry)
}

// generateCacheKey creates a unique key for a url/markup pair.
func generateCacheKey(url, markup string) string {
	hash := md5.Sum([]byte(url + "\n" + markup))
	return hex.EncodeToString(hash[:])
}

// GetCacheStats returns statistics about the result cache.
func (e *Engine) GetCacheStats() CacheStats {
	currentStats := e.stats.GetCurrentStats()

	e.cacheMutex.RLock()
	entries := len(e.cache)
	ttl := e.cacheTTL
	e.cacheMutex.RUnlock()

	return CacheStats{
		Entries:     entries,
		CacheHits:   currentStats.AuditCacheHits,
		CacheMisses: currentStats.AuditCacheMisses,
		CacheTTL:    ttl,
	}
}

// IsCached checks if a url/markup pair is in the cache and not expired.
func (e *Engine) IsCached(url, markup string) bool {
	cacheKey := generateCacheKey(url, markup)
	e.cacheMutex.RLock()
	defer e.cacheMutex.RUnlock()

	entry, found := e.cache[cacheKey]
	return found && time.Since(entry.timestamp) < e.cacheTTL
}

// Audit runs the full seven-component audit. It always returns a complete
// result; degraded analyzers surface as zero scores with info issues.
func (e *Engine) Audit(pageURL, markup string) *ComprehensiveAuditResult {
	if time.Since(e.lastCleanup) > e.cleanupInterval {
		go e.cleanup()
	}

	cacheKey := generateCacheKey(pageURL, markup)
	e.cacheMutex.RLock()
	if entry, found := e.cache[cacheKey]; found {
		if time.Since(entry.timestamp) < e.cacheTTL {
			e.stats.IncrementStats(1, 0, 0, 0)
			e.cacheMutex.RUnlock()
			return entry.result
		}
	}
	e.cacheMutex.RUnlock()

	e.stats.IncrementStats(0, 1, 0, 0)

	result := e.audit(pageURL, markup)

	e.cacheMutex.Lock()
	e.cache[cacheKey] = cacheEntry{
		result:    result,
		timestamp: time.Now(),
	}
	e.cacheMutex.Unlock()

	return result
}

func (e *Engine) audit(pageURL, markup string) *ComprehensiveAuditResult {
	facts := e.extractor.Extract(markup)

	scores := e.runAnalyzers(markup, facts, pageURL)
	overall := overallScore(scores)

	return &ComprehensiveAuditResult{
		URL:             pageURL,
		Timestamp:       time.Now().UTC(),
		OverallScore:    overall,
		Scores:          toComponentScores(scores),
		Recommendations: collateRecommendations(scores),
		Grade:           Grade(overall),
	}
}

// runAnalyzers fans out all seven analyzers concurrently and waits for every
// one to finish. The analyzers are pure and read-only over the same facts, so
// no locking is needed beyond the WaitGroup.
func (e *Engine) runAnalyzers(markup string, facts *ContentFacts, pageURL string) []ComponentScore {
	results := make([]ComponentScore, len(analyzerTable))

	var wg sync.WaitGroup
	for i, entry := range analyzerTable {
		wg.Add(1)
		go func(i int, name string, run analyzerFunc) {
			defer wg.Done()
			results[i] = runIsolated(name, run, markup, facts, pageURL)
		}(i, entry.name, entry.run)
	}
	wg.Wait()

	return results
}

// runIsolated runs one analyzer and converts a panic into a degraded score
// so a single failing component never aborts the whole audit.
func runIsolated(name string, run analyzerFunc, markup string, facts *ContentFacts, pageURL string) (score ComponentScore) {
	defer func() {
		if r := recover(); r != nil {
			score = ComponentScore{
				Score: 0,
				Issues: []Issue{{
					Severity: SeverityInfo,
					Message:  fmt.Sprintf("The %s analyzer failed and was skipped: %v", name, r),
				}},
				Passed: []string{},
			}
		}
	}()
	return run(markup, facts, pageURL)
}

// overallScore combines the component scores using the fixed weights and
// rounds to the nearest integer.
func overallScore(scores []ComponentScore) int {
	sum := 0.0
	for i, entry := range analyzerTable {
		sum += float64(scores[i].Score) * componentWeights[entry.name]
	}
	return clampScore(int(math.Round(sum)))
}

func toComponentScores(scores []ComponentScore) ComponentScores {
	return ComponentScores{
		Meta:          scores[0],
		Content:       scores[1],
		Technical:     scores[2],
		Mobile:        scores[3],
		Performance:   scores[4],
		Security:      scores[5],
		Accessibility: scores[6],
	}
}

// collateRecommendations flattens every analyzer's issues, tags them with
// their component and sorts them by severity. The sort is stable, so ties
// preserve analyzer-then-issue order. Duplicate messages across components
// are kept as separate findings.
func collateRecommendations(scores []ComponentScore) []RankedIssue {
	ranked := make([]RankedIssue, 0, 16)
	for i, entry := range analyzerTable {
		for _, issue := range scores[i].Issues {
			ranked = append(ranked, RankedIssue{
				Component: entry.name,
				Severity:  issue.Severity,
				Message:   issue.Message,
			})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return severityRank[ranked[i].Severity] < severityRank[ranked[j].Severity]
	})

	return ranked
}

// GetStats returns the statistics storage instance.
func (e *Engine) GetStats() *stats.Storage {
	return e.stats
}

// Shutdown flushes statistics and clears the cache.
func (e *Engine) Shutdown() error {
	if e == nil {
		return nil
	}

	if e.stats != nil {
		if err := e.stats.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown stats storage: %w", err)
		}
	}

	e.cacheMutex.Lock()
	e.cache = nil
	e.cacheMutex.Unlock()

	return nil
}
