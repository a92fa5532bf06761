package app

import (
	"errors"
	"testing"

	"github.com/yungbote/roastmycode-backend/internal/platform/logger"
	"github.com/yungbote/roastmycode-backend/internal/storage/objectstore"
)

func TestResolveShareStoreDisabled(t *testing.T) {
	store, err := resolveShareStore(logger.NewNop(), Config{ShareStorageMode: "none"})
	if err != nil || store != nil {
		t.Fatalf("want nil store, got store=%v err=%v", store, err)
	}
}

func TestResolveShareStoreMemory(t *testing.T) {
	store, err := resolveShareStore(logger.NewNop(), Config{ShareStorageMode: "memory"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.(*objectstore.Memory); !ok {
		t.Fatalf("want *objectstore.Memory, got %T", store)
	}
}

func TestResolveShareStoreInvalidMode(t *testing.T) {
	_, err := resolveShareStore(logger.NewNop(), Config{ShareStorageMode: "gcs"})
	var got *StorageProviderBootstrapError
	if !errors.As(err, &got) {
		t.Fatalf("expected StorageProviderBootstrapError, got=%T", err)
	}
	if got.Code != StorageProviderBootstrapErrorInvalidMode {
		t.Fatalf("code: want=%q got=%q", StorageProviderBootstrapErrorInvalidMode, got.Code)
	}
}

func TestResolveShareStoreS3ConfigError(t *testing.T) {
	prev := newS3Store
	t.Cleanup(func() { newS3Store = prev })
	cause := errors.New("s3 endpoint is required")
	newS3Store = func(objectstore.S3Config) (objectstore.Store, error) { return nil, cause }

	_, err := resolveShareStore(logger.NewNop(), Config{ShareStorageMode: "s3"})
	var got *StorageProviderBootstrapError
	if !errors.As(err, &got) {
		t.Fatalf("expected StorageProviderBootstrapError, got=%T", err)
	}
	if got.Code != StorageProviderBootstrapErrorInvalidConfig {
		t.Fatalf("code: want=%q got=%q", StorageProviderBootstrapErrorInvalidConfig, got.Code)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause not wrapped: %v", err)
	}
}

func TestResolveShareStoreS3RequiresCredentials(t *testing.T) {
	_, err := resolveShareStore(logger.NewNop(), Config{
		ShareStorageMode: "minio",
		ShareS3:          objectstore.S3Config{Endpoint: "localhost:9000", Bucket: "cards"},
	})
	if err == nil {
		t.Fatal("expected missing credentials error")
	}
}
