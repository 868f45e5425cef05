package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"

	"swcommons/internal/logging"
	"swcommons/internal/logging/types"
	"swcommons/pkg/models"
)

var storageIDPattern = regexp.MustCompile(`^[0-9a-f-]{36}$`)

type pendingUpload struct {
	storageID string
	expiresAt time.Time
}

// ObjectInfo is the sidecar metadata of a locally stored object
type ObjectInfo struct {
	StorageID   string    `json:"storageId"`
	Name        string    `json:"name,omitempty"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LocalStorage keeps objects on disk and serves them through the HTTP server
// at {baseURL}/files/{storageId}. Uploads go to {baseURL}/uploads/{token}.
type LocalStorage struct {
	dir     string
	baseURL string
	ttl     time.Duration
	logger  types.Logger

	mu      sync.Mutex
	pending map[string]pendingUpload
	now     func() time.Time
}

// NewLocalStorage creates dir if needed
func NewLocalStorage(dir, baseURL string, ttl time.Duration) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &LocalStorage{
		dir:     dir,
		baseURL: baseURL,
		ttl:     ttl,
		logger:  logging.GetGlobalLogger(),
		pending: make(map[string]pendingUpload),
		now:     time.Now,
	}, nil
}

func (s *LocalStorage) GenerateUploadURL(ctx context.Context) (models.UploadDestination, error) {
	if err := ctx.Err(); err != nil {
		return models.UploadDestination{}, err
	}
	token := uuid.NewString()
	storageID := uuid.NewString()
	expires := s.now().Add(s.ttl)

	s.mu.Lock()
	s.pruneLocked()
	s.pending[token] = pendingUpload{storageID: storageID, expiresAt: expires}
	s.mu.Unlock()

	return models.UploadDestination{
		UploadURL: fmt.Sprintf("%s/uploads/%s", s.baseURL, token),
		StorageID: storageID,
		Method:    "POST",
		ExpiresAt: expires,
	}, nil
}

// Accept consumes an upload token and writes at most limit bytes from body.
// A token can be used once; a failed write also spends it.
func (s *LocalStorage) Accept(ctx context.Context, token, contentType string, body io.Reader, limit int64) (string, error) {
	s.mu.Lock()
	upload, ok := s.pending[token]
	delete(s.pending, token)
	s.mu.Unlock()

	if !ok || s.now().After(upload.expiresAt) {
		return "", models.ErrUploadSpent
	}

	path := s.objectPath(upload.storageID)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create object: %w", err)
	}

	reader := body
	if limit > 0 {
		reader = io.LimitReader(body, limit+1)
	}
	n, copyErr := io.Copy(f, reader)
	closeErr := f.Close()
	if copyErr == nil && limit > 0 && n > limit {
		copyErr = fmt.Errorf("%w: %d bytes", ErrObjectTooLarge, limit)
	}
	if err := errors.Join(copyErr, closeErr, ctx.Err()); err != nil {
		os.Remove(path)
		return "", err
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := s.writeInfo(ObjectInfo{StorageID: upload.storageID, ContentType: contentType, Size: n, CreatedAt: s.now()}); err != nil {
		os.Remove(path)
		return "", err
	}

	s.logger.Info("Upload stored", map[string]interface{}{
		"storage_id": upload.storageID,
		"size_bytes": n,
	})
	return upload.storageID, nil
}

func (s *LocalStorage) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	storageID := uuid.NewString()
	if err := os.WriteFile(s.objectPath(storageID), data, 0o644); err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}
	info := ObjectInfo{StorageID: storageID, Name: name, ContentType: contentType, Size: int64(len(data)), CreatedAt: s.now()}
	if err := s.writeInfo(info); err != nil {
		return "", err
	}
	return storageID, nil
}

func (s *LocalStorage) ResolveURL(ctx context.Context, storageID string) (string, error) {
	if _, err := s.Stat(storageID); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/files/%s", s.baseURL, storageID), nil
}

// Stat returns the metadata of a stored object
func (s *LocalStorage) Stat(storageID string) (ObjectInfo, error) {
	if !storageIDPattern.MatchString(storageID) {
		return ObjectInfo{}, ErrObjectNotFound
	}
	data, err := os.ReadFile(s.infoPath(storageID))
	if errors.Is(err, os.ErrNotExist) {
		return ObjectInfo{}, ErrObjectNotFound
	}
	if err != nil {
		return ObjectInfo{}, err
	}
	var info ObjectInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return ObjectInfo{}, fmt.Errorf("decode object info: %w", err)
	}
	return info, nil
}

// Open returns the object content and its metadata
func (s *LocalStorage) Open(storageID string) (io.ReadCloser, ObjectInfo, error) {
	info, err := s.Stat(storageID)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	f, err := os.Open(s.objectPath(storageID))
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	return f, info, nil
}

func (s *LocalStorage) Health(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return ctx.Err()
}

func (s *LocalStorage) writeInfo(info ObjectInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return os.WriteFile(s.infoPath(info.StorageID), data, 0o644)
}

func (s *LocalStorage) objectPath(storageID string) string {
	return filepath.Join(s.dir, storageID)
}

func (s *LocalStorage) infoPath(storageID string) string {
	return filepath.Join(s.dir, storageID+".json")
}

// pruneLocked drops expired tokens. Caller holds s.mu.
func (s *LocalStorage) pruneLocked() {
	now := s.now()
	for token, upload := range s.pending {
		if now.After(upload.expiresAt) {
			delete(s.pending, token)
		}
	}
}
