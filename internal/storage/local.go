package storage

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxUploadSize = 10 * 1024 * 1024 // per file

// LocalStore keeps uploaded media on local disk for the duration of a
// publish request. Files are transient: the publish service schedules
// their removal shortly after the request finishes.
type LocalStore struct {
	dir    string
	logger *zap.SugaredLogger
}

func NewLocalStore(dir string, logger *zap.SugaredLogger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, logger: logger}, nil
}

// Save writes one multipart upload to disk and returns its path.
func (s *LocalStore) Save(c *fiber.Ctx, fh *multipart.FileHeader) (string, error) {
	if fh.Size == 0 || fh.Size > maxUploadSize {
		return "", fmt.Errorf("file size not allowed: %s", fh.Filename)
	}
	name := uuid.NewString() + "-" + filepath.Base(fh.Filename)
	dst := filepath.Join(s.dir, name)
	if err := c.SaveFile(fh, dst); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return dst, nil
}

// ScheduleCleanup removes the files after a grace delay, letting any
// in-flight adapter call reading the same file finish first. Missing
// files are a no-op.
func (s *LocalStore) ScheduleCleanup(paths []string, grace time.Duration) {
	if len(paths) == 0 {
		return
	}
	go func() {
		time.Sleep(grace)
		for _, p := range paths {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				s.logger.Warnf("cleanup %s: %v", p, err)
			}
		}
	}()
}
