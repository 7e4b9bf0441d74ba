package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/uptake/internal/contract"
	"github.com/huangsam/uptake/schema"
)

// currentCacheVersion defines the version of the cached dataset encoding
const currentCacheVersion = 1

// cacheTTL is how long a cached dataset stays usable.
const cacheTTL = 7 * 24 * time.Hour

// CachedLoadDataset loads the dataset through store. The key covers the
// contents of the three input files, so a cached entry always matches a
// fresh load of the same inputs.
func CachedLoadDataset(ctx context.Context, paths Paths, store contract.CacheStore) (schema.Dataset, error) {
	if store == nil {
		return LoadDataset(ctx, paths)
	}

	key, err := generateCacheKey(paths, schema.LogsSource)
	if err != nil {
		// Unreadable inputs fail the same way with or without a cache
		return LoadDataset(ctx, paths)
	}

	if ds, ok := checkCacheHit(store, key); ok {
		return ds, nil
	}
	return computeAndStore(ctx, paths, store, key)
}

// checkCacheHit attempts to retrieve and validate a cached dataset
func checkCacheHit(store contract.CacheStore, key string) (schema.Dataset, bool) {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return schema.Dataset{}, false // Cache miss
	}

	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > cacheTTL {
		return schema.Dataset{}, false // Stale or version mismatch
	}

	var ds schema.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return schema.Dataset{}, false
	}
	return ds, true
}

// computeAndStore loads the dataset and stores it in cache
func computeAndStore(ctx context.Context, paths Paths, store contract.CacheStore, key string) (schema.Dataset, error) {
	ds, err := LoadDataset(ctx, paths)
	if err != nil {
		return schema.Dataset{}, err
	}

	if data, err := json.Marshal(ds); err == nil {
		_ = store.Set(key, data, currentCacheVersion, time.Now().Unix())
	}
	return ds, nil
}

// generateCacheKey hashes the input file digests together with the source mode
func generateCacheKey(paths Paths, source schema.InputSource) (string, error) {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%s:%d", source, currentCacheVersion)
	for _, path := range []string{paths.AILogs, paths.ManualLogs, paths.Users} {
		digest, err := fileDigest(path)
		if err != nil {
			return "", err
		}
		_, _ = fmt.Fprintf(h, ":%s", digest)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func fileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
