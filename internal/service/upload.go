package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/siddkalani/CRM-sub000/internal/metrics"
	"github.com/siddkalani/CRM-sub000/internal/model"
	"github.com/siddkalani/CRM-sub000/internal/repository"
)

// Upload errors.
var (
	ErrFileTooLarge       = errors.New("file exceeds the maximum upload size")
	ErrFileTypeNotAllowed = errors.New("file type is not allowed")
	ErrEmptyFile          = errors.New("file is empty")
)

// allowedExtensions is the upload allow-list. Everything else is rejected
// before any bytes reach the object store.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
}

// unsafeKeyChars matches everything stripped from object key segments.
var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ObjectStore relays bytes to an external object store.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// UploadService implements the file relay.
type UploadService struct {
	store   ObjectStore
	repo    *repository.Repository
	maxSize int64
	metrics metrics.Recorder
}

// NewUploadService creates a new UploadService.
func NewUploadService(store ObjectStore, repo *repository.Repository, maxSize int64, recorder metrics.Recorder) *UploadService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UploadService{
		store:   store,
		repo:    repo,
		maxSize: maxSize,
		metrics: recorder,
	}
}

// UploadInput describes one incoming file.
type UploadInput struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Upload validates the file, relays its bytes to the object store under a
// collision-resistant key, records it, and returns the file record with its
// retrievable URL.
func (s *UploadService) Upload(ctx context.Context, input UploadInput) (*model.File, error) {
	if input.Size <= 0 {
		return nil, ErrEmptyFile
	}
	if input.Size > s.maxSize {
		return nil, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(input.Name))
	if !allowedExtensions[ext] {
		return nil, ErrFileTypeNotAllowed
	}

	id := newID()
	key := objectKey(id, input.Name)

	// Guard against callers lying about Size.
	limited := io.LimitReader(input.Body, s.maxSize+1)

	url, err := s.store.Put(ctx, key, input.ContentType, limited)
	if err != nil {
		return nil, fmt.Errorf("failed to relay file: %w", err)
	}

	file := &model.File{
		ID:          id,
		Key:         key,
		Name:        input.Name,
		URL:         url,
		ContentType: input.ContentType,
		SizeBytes:   input.Size,
		UploadedAt:  time.Now().UTC(),
	}

	if err := s.repo.CreateFile(ctx, file); err != nil {
		return nil, err
	}

	s.metrics.IncFileUploaded()
	s.metrics.ObserveUploadSize(input.Size)

	return file, nil
}

// MaxSize returns the configured upload size cap in bytes.
func (s *UploadService) MaxSize() int64 {
	return s.maxSize
}

// objectKey builds a collision-resistant object key from the upload time,
// a unique ID, and the sanitized original name.
func objectKey(id, name string) string {
	base := unsafeKeyChars.ReplaceAllString(filepath.Base(name), "_")
	return fmt.Sprintf("%s-%s-%s", time.Now().UTC().Format("20060102T150405"), id, base)
}
