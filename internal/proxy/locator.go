// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package proxy

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Locator turns a record's source key into the upstream URL to fetch.
type Locator interface {
	Locate(ctx context.Context, key string) (*url.URL, error)
}

var errInvalidKey = errors.New("invalid object key")

// escapeKey escapes each path segment of an object key. Empty, "." and ".."
// segments are rejected so a key can never climb out of the base path.
func escapeKey(key string) (string, error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" {
		return "", errInvalidKey
	}
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		if seg == "" || seg == "." || seg == ".." {
			return "", fmt.Errorf("%w: %q", errInvalidKey, key)
		}
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/"), nil
}

// HTTPLocator addresses objects below a public (or credential-gated) HTTP base URL.
type HTTPLocator struct {
	base       *url.URL
	param      string
	credential string
}

// NewHTTPLocator returns a locator for <baseURL>/<key>. When credential is set it
// is appended as the query parameter credentialParam.
func NewHTTPLocator(baseURL, credentialParam, credential string) (*HTTPLocator, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse blob base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("blob base url must be absolute http(s): %q", baseURL)
	}
	if credential != "" && credentialParam == "" {
		return nil, fmt.Errorf("blob credential set without a parameter name")
	}
	u.RawQuery = ""
	u.Fragment = ""
	return &HTTPLocator{base: u, param: credentialParam, credential: credential}, nil
}

// Locate implements Locator.
func (l *HTTPLocator) Locate(_ context.Context, key string) (*url.URL, error) {
	escaped, err := escapeKey(key)
	if err != nil {
		return nil, err
	}
	rawPath := strings.TrimSuffix(l.base.EscapedPath(), "/") + "/" + escaped
	path, err := url.PathUnescape(rawPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidKey, err)
	}

	u := *l.base
	u.Path = path
	u.RawPath = rawPath
	if l.credential != "" {
		q := url.Values{}
		q.Set(l.param, l.credential)
		u.RawQuery = q.Encode()
	}
	return &u, nil
}

// PresignConfig configures an S3-compatible bucket (Cloudflare R2, MinIO).
type PresignConfig struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Expiry    time.Duration
}

// PresignLocator hands out short-lived presigned GET URLs for bucket objects.
type PresignLocator struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

// NewPresignLocator builds the S3 client. No request is made until Locate or Ping.
func NewPresignLocator(cfg PresignConfig) (*PresignLocator, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}
	expiry := cfg.Expiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &PresignLocator{client: client, bucket: cfg.Bucket, expiry: expiry}, nil
}

// Locate implements Locator. With a configured region the signature is computed
// locally; otherwise minio resolves the bucket location first.
func (l *PresignLocator) Locate(ctx context.Context, key string) (*url.URL, error) {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" {
		return nil, errInvalidKey
	}
	u, err := l.client.PresignedGetObject(ctx, l.bucket, key, l.expiry, nil)
	if err != nil {
		return nil, fmt.Errorf("presign %s: %w", key, err)
	}
	return u, nil
}

// Ping checks that the bucket is reachable with the configured credentials.
func (l *PresignLocator) Ping(ctx context.Context) error {
	ok, err := l.client.BucketExists(ctx, l.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", l.bucket, err)
	}
	if !ok {
		return fmt.Errorf("bucket %s does not exist", l.bucket)
	}
	return nil
}

const cloudShareAPIBase = "https://www.googleapis.com/drive/v3/files/"

// CloudShareLocator addresses shared-drive files through the Drive media endpoint.
type CloudShareLocator struct {
	base   string
	apiKey string
}

// NewCloudShareLocator returns a locator for Drive file IDs. apiKey is optional.
func NewCloudShareLocator(apiKey string) *CloudShareLocator {
	return &CloudShareLocator{base: cloudShareAPIBase, apiKey: apiKey}
}

// Locate implements Locator.
func (l *CloudShareLocator) Locate(_ context.Context, fileID string) (*url.URL, error) {
	fileID = strings.TrimSpace(fileID)
	if fileID == "" || strings.Contains(fileID, "/") {
		return nil, fmt.Errorf("%w: %q", errInvalidKey, fileID)
	}
	u, err := url.Parse(l.base + url.PathEscape(fileID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidKey, err)
	}
	q := url.Values{}
	q.Set("alt", "media")
	if l.apiKey != "" {
		q.Set("key", l.apiKey)
	}
	u.RawQuery = q.Encode()
	return u, nil
}

// unconfiguredLocator fails every lookup; used when no blob store is configured.
type unconfiguredLocator struct{}

func (unconfiguredLocator) Locate(context.Context, string) (*url.URL, error) {
	return nil, errors.New("blob store not configured")
}
