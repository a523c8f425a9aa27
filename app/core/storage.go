package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aaq-platform/aaq-admin/pkg/object-storage/s3"
)

// FileStorage persists uploaded source documents (PDF and ZIP batches).
type FileStorage interface {
	GetStaticDomain() string
	SaveFile(ctx context.Context, fullPath string, content io.Reader) error
	DownloadFile(ctx context.Context, fullPath string) ([]byte, error)
	DeleteFile(ctx context.Context, fullPath string) error
	GenGetObjectPreSignURL(fullPath string) (string, error)
}

func SetupFileStorage(cfg ObjectStorageDriver) FileStorage {
	switch strings.ToLower(cfg.Driver) {
	case "s3":
		s3Cfg := cfg.S3
		return &S3FileStorage{
			StaticDomain: cfg.StaticDomain,
			S3:           s3.NewS3Client(s3Cfg.Endpoint, s3Cfg.Region, s3Cfg.Bucket, s3Cfg.AccessKey, s3Cfg.SecretKey),
		}
	case "local":
		return &LocalFileStorage{
			StaticDomain: cfg.StaticDomain,
		}
	default:
		return &NoneFileStorage{}
	}
}

type S3FileStorage struct {
	StaticDomain string
	S3           *s3.S3
}

func (s *S3FileStorage) GetStaticDomain() string {
	return s.StaticDomain
}

func (s *S3FileStorage) SaveFile(ctx context.Context, fullPath string, content io.Reader) error {
	return s.S3.Upload(ctx, strings.TrimPrefix(fullPath, "/"), content)
}

func (s *S3FileStorage) DownloadFile(ctx context.Context, fullPath string) ([]byte, error) {
	return s.S3.GetObject(ctx, fullPath)
}

func (s *S3FileStorage) DeleteFile(ctx context.Context, fullPath string) error {
	return s.S3.Delete(ctx, strings.TrimPrefix(fullPath, "/"))
}

func (s *S3FileStorage) GenGetObjectPreSignURL(fullPath string) (string, error) {
	return s.S3.GenGetObjectPreSignURL(fullPath)
}

// LocalFileStorage keeps uploads on the service host, for single-node installs.
type LocalFileStorage struct {
	StaticDomain string
	Root         string
}

func (l *LocalFileStorage) GetStaticDomain() string {
	return l.StaticDomain
}

func (l *LocalFileStorage) fullPath(p string) string {
	root := l.Root
	if root == "" {
		root = "./static"
	}
	return filepath.Join(root, filepath.Clean("/"+p))
}

func (l *LocalFileStorage) SaveFile(ctx context.Context, fullPath string, content io.Reader) error {
	target := l.fullPath(fullPath)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, content); err != nil {
		return err
	}
	return os.WriteFile(target, buf.Bytes(), 0o644)
}

func (l *LocalFileStorage) DownloadFile(ctx context.Context, fullPath string) ([]byte, error) {
	return os.ReadFile(l.fullPath(fullPath))
}

func (l *LocalFileStorage) DeleteFile(ctx context.Context, fullPath string) error {
	return os.Remove(l.fullPath(fullPath))
}

func (l *LocalFileStorage) GenGetObjectPreSignURL(fullPath string) (string, error) {
	return l.StaticDomain + "/" + strings.TrimPrefix(fullPath, "/"), nil
}

type NoneFileStorage struct{}

func (n *NoneFileStorage) GetStaticDomain() string {
	return ""
}

func (n *NoneFileStorage) SaveFile(ctx context.Context, fullPath string, content io.Reader) error {
	return fmt.Errorf("Unsupported")
}

func (n *NoneFileStorage) DownloadFile(ctx context.Context, fullPath string) ([]byte, error) {
	return nil, fmt.Errorf("Unsupported")
}

func (n *NoneFileStorage) DeleteFile(ctx context.Context, fullPath string) error {
	return fmt.Errorf("Unsupported")
}

func (n *NoneFileStorage) GenGetObjectPreSignURL(fullPath string) (string, error) {
	return "", fmt.Errorf("Unsupported")
}
