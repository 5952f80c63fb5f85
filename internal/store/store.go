package store

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/kybers/play/internal/domain"
)

// schemaVersion is bumped when the stored row format changes. A mismatch
// wipes the database; cached rows are never migrated.
const schemaVersion uint64 = 1

// Bucket names
var (
	bucketChannels = []byte("channels")
	bucketMovies   = []byte("movies")
	bucketSeries   = []byte("series")
	bucketMeta     = []byte("meta")
)

var keySchemaVersion = []byte("schema_version")

// ContentStore implements domain.ContentStore using BoltDB. Each catalog
// collection is a bucket; rows are tagged-JSON items keyed by content id.
type ContentStore struct {
	db     *bolt.DB
	logger *slog.Logger
}

// NewContentStore opens (or creates) the cache database under baseCacheDir.
// Databases are segregated per server so switching providers never mixes
// catalogs.
func NewContentStore(baseCacheDir, serverURL string, logger *slog.Logger) (*ContentStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dir := baseCacheDir
	if serverURL != "" {
		dir = filepath.Join(baseCacheDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "catalog.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	s := &ContentStore{db: db, logger: logger}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

// init creates buckets and performs the destructive schema reset when the
// stored version does not match.
func (s *ContentStore) init() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return err
		}

		stored := uint64(0)
		if v := meta.Get(keySchemaVersion); len(v) == 8 {
			stored = binary.BigEndian.Uint64(v)
		}

		if stored != 0 && stored != schemaVersion {
			s.logger.Warn("cache schema changed, resetting", "stored", stored, "current", schemaVersion)
			for _, bucket := range [][]byte{bucketChannels, bucketMovies, bucketSeries} {
				if tx.Bucket(bucket) != nil {
					if err := tx.DeleteBucket(bucket); err != nil {
						return err
					}
				}
			}
		}

		for _, bucket := range [][]byte{bucketChannels, bucketMovies, bucketSeries} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}

		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], schemaVersion)
		return meta.Put(keySchemaVersion, buf[:])
	})
}

func (s *ContentStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func bucketFor(kind domain.ContentKind) ([]byte, error) {
	switch kind {
	case domain.KindLive:
		return bucketChannels, nil
	case domain.KindMovie:
		return bucketMovies, nil
	case domain.KindSeries:
		return bucketSeries, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}
}

// UpsertMany bulk-inserts items, replacing rows with the same content id.
// The whole batch commits in a single transaction.
func (s *ContentStore) UpsertMany(kind domain.ContentKind, items []domain.CatalogItem) error {
	bucket, err := bucketFor(kind)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		for _, item := range items {
			if item.GetKind() != kind {
				return fmt.Errorf("item %s has kind %q, want %q", item.GetContentID(), item.GetKind(), kind)
			}
			data, err := domain.MarshalItem(item)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(item.GetContentID()), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetAll returns every cached item of a collection. Rows that fail to
// decode are skipped; a stale row must never poison the whole read.
func (s *ContentStore) GetAll(kind domain.ContentKind) ([]domain.CatalogItem, error) {
	bucket, err := bucketFor(kind)
	if err != nil {
		return nil, err
	}

	var items []domain.CatalogItem
	err = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			item, err := domain.UnmarshalItem(v)
			if err != nil {
				s.logger.Warn("skipping undecodable cache row", "kind", kind, "key", string(k), "error", err)
				return nil
			}
			items = append(items, item)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ChannelsByCategory returns cached live channels for one category.
func (s *ContentStore) ChannelsByCategory(categoryID string) ([]domain.Channel, error) {
	items, err := s.GetAll(domain.KindLive)
	if err != nil {
		return nil, err
	}

	var channels []domain.Channel
	for _, item := range items {
		ch, ok := item.(*domain.Channel)
		if ok && ch.CategoryID == categoryID {
			channels = append(channels, *ch)
		}
	}
	return channels, nil
}

// Clear wipes one collection.
func (s *ContentStore) Clear(kind domain.ContentKind) error {
	bucket, err := bucketFor(kind)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucket) != nil {
			if err := tx.DeleteBucket(bucket); err != nil {
				return err
			}
		}
		_, err := tx.CreateBucket(bucket)
		return err
	})
}

// ClearAll wipes every collection.
func (s *ContentStore) ClearAll() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketChannels, bucketMovies, bucketSeries} {
			if tx.Bucket(bucket) != nil {
				if err := tx.DeleteBucket(bucket); err != nil {
					return err
				}
			}
			if _, err := tx.CreateBucket(bucket); err != nil {
				return err
			}
		}
		return nil
	})
}
