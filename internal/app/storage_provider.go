package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/roastmycode-backend/internal/platform/logger"
	"github.com/yungbote/roastmycode-backend/internal/storage/objectstore"
)

var newS3Store = func(cfg objectstore.S3Config) (objectstore.Store, error) {
	return objectstore.NewS3(cfg)
}

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode   StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorInvalidConfig StorageProviderBootstrapErrorCode = "invalid_config"
)

type StorageProviderBootstrapError struct {
	Code  StorageProviderBootstrapErrorCode
	Mode  string
	Cause error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "share storage bootstrap failed"
	}
	return fmt.Sprintf("share storage bootstrap failed (code=%s mode=%q): %v", e.Code, e.Mode, e.Cause)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveShareStore picks where share cards are uploaded. "none" returns a
// nil store and the share endpoint links to the render route instead.
func resolveShareStore(log *logger.Logger, cfg Config) (objectstore.Store, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.ShareStorageMode))
	switch mode {
	case "", "none", "off":
		log.Info("Share card storage disabled")
		return nil, nil
	case "memory":
		log.Info("Selecting share card storage", "mode", mode)
		return objectstore.NewMemory(strings.TrimRight(cfg.ShareS3.PublicBaseURL, "/")), nil
	case "s3", "minio":
		log.Info("Selecting share card storage",
			"mode", mode,
			"endpoint", cfg.ShareS3.Endpoint,
			"bucket", cfg.ShareS3.Bucket,
			"public_base_url", cfg.ShareS3.PublicBaseURL,
		)
		store, err := newS3Store(cfg.ShareS3)
		if err != nil {
			bootErr := &StorageProviderBootstrapError{Code: StorageProviderBootstrapErrorInvalidConfig, Mode: mode, Cause: err}
			log.Error("Share card storage selection failed", "mode", mode, "error_code", bootErr.Code, "error", err)
			return nil, bootErr
		}
		return store, nil
	default:
		err := &StorageProviderBootstrapError{
			Code:  StorageProviderBootstrapErrorInvalidMode,
			Mode:  mode,
			Cause: errors.New("unsupported share storage mode"),
		}
		log.Error("Share card storage selection failed", "mode", mode, "error_code", err.Code, "error", err)
		return nil, err
	}
}
