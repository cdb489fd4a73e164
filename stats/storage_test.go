package stats

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStorage(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "stats-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	storage, err := NewStorage(tempDir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	t.Run("IncrementStats", func(t *testing.T) {
		storage.IncrementStats(1, 2, 3, 4)
		stats := storage.GetCurrentStats()

		if stats.AuditCacheHits != 1 {
			t.Errorf("Expected 1 audit hit, got %d", stats.AuditCacheHits)
		}
		if stats.AuditCacheMisses != 2 {
			t.Errorf("Expected 2 audit misses, got %d", stats.AuditCacheMisses)
		}
		if stats.VariationRequests != 3 {
			t.Errorf("Expected 3 variation requests, got %d", stats.VariationRequests)
		}
		if stats.ProviderFallbacks != 4 {
			t.Errorf("Expected 4 provider fallbacks, got %d", stats.ProviderFallbacks)
		}
	})

	t.Run("Persistence", func(t *testing.T) {
		storage.requestWrite()
		time.Sleep(100 * time.Millisecond) // Give time for the write to complete

		storage2, err := NewStorage(tempDir)
		if err != nil {
			t.Fatalf("Failed to create second storage: %v", err)
		}

		stats := storage2.GetCurrentStats()
		if stats.AuditCacheHits != 1 {
			t.Errorf("Expected 1 audit hit after reload, got %d", stats.AuditCacheHits)
		}
	})

	t.Run("Cleanup", func(t *testing.T) {
		oldMonth := time.Now().AddDate(0, -2, 0).Format("2006-01")
		storage.stats[oldMonth] = &MonthlyStats{
			AuditCacheHits: 100,
			LastUpdated:    time.Now().AddDate(0, -2, 0),
		}

		storage.Cleanup()

		if _, exists := storage.stats[oldMonth]; exists {
			t.Error("Old stats should have been cleaned up")
		}
	})

	t.Run("FileSize", func(t *testing.T) {
		storage.requestWrite()
		time.Sleep(100 * time.Millisecond) // Give time for the write to complete

		info, err := os.Stat(filepath.Join(tempDir, "stats.json"))
		if err != nil {
			t.Fatalf("Failed to stat file: %v", err)
		}

		// File should be relatively small (< 1KB for this test data)
		if info.Size() > 1024 {
			t.Errorf("File size too large: %d bytes", info.Size())
		}
	})

	t.Run("ConcurrentAccess", func(t *testing.T) {
		done := make(chan bool)
		for i := 0; i < 10; i++ {
			go func() {
				for j := 0; j < 100; j++ {
					storage.IncrementStats(1, 1, 1, 1)
					storage.GetCurrentStats()
				}
				done <- true
			}()
		}

		for i := 0; i < 10; i++ {
			<-done
		}

		stats := storage.GetCurrentStats()
		if stats.VariationRequests < 1000 {
			t.Errorf("Expected at least 1000 variation requests, got %d", stats.VariationRequests)
		}
	})

	t.Run("Shutdown", func(t *testing.T) {
		if err := storage.Shutdown(); err != nil {
			t.Errorf("Shutdown failed: %v", err)
		}
	})
}
