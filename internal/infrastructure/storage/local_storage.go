package storage

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// LocalObjectStorage hands out fake URLs when object storage is disabled, so the
// upload flows keep working in development.
type LocalObjectStorage struct {
	BaseURL string
	Expiry  time.Duration
}

// NewLocalObjectStorage creates a LocalObjectStorage rooted at baseURL
func NewLocalObjectStorage(baseURL string) *LocalObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost:8080/files"
	}
	return &LocalObjectStorage{BaseURL: strings.TrimRight(baseURL, "/"), Expiry: 15 * time.Minute}
}

func (s *LocalObjectStorage) url(key string) string {
	return s.BaseURL + "/" + (&url.URL{Path: key}).EscapedPath()
}

func (s *LocalObjectStorage) PresignUpload(_ context.Context, key, _ string) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	return s.url(key), time.Now().Add(s.Expiry), nil
}

func (s *LocalObjectStorage) PresignDownload(_ context.Context, key string) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	return s.url(key), time.Now().Add(s.Expiry), nil
}

func (s *LocalObjectStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}
