// Package storage uploads song assets to an S3-compatible object store and
// hands back durable public URLs. Requests are signed with AWS SigV4; no SDK
// is pulled in for a two-verb client.
package storage

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// ErrUploadFailed is returned when the store does not yield a usable URL.
var ErrUploadFailed = errors.New("object upload failed")

const defaultRequestTimeout = 30 * time.Second

// Config holds object storage configuration.
type Config struct {
	Endpoint       string
	Region         string
	AccessKey      string
	SecretKey      string
	Bucket         string
	UseSSL         bool
	PublicEndpoint string
	RequestTimeout time.Duration
}

// Client is the object storage contract consumed by the catalog.
type Client interface {
	// Upload stores body under key and returns the public URL of the object.
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)
	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error
}

// S3Client talks to an S3-compatible endpoint over signed HTTP.
type S3Client struct {
	cfg        Config
	endpoint   *url.URL
	httpClient *http.Client
}

// NewS3Client builds a client from cfg. Endpoint and Bucket are required.
func NewS3Client(cfg Config) (*S3Client, error) {
	if strings.TrimSpace(cfg.Bucket) == "" || strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("storage endpoint and bucket are required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	host := strings.TrimSpace(cfg.Endpoint)
	if strings.Contains(host, "://") {
		if parsed, err := url.Parse(host); err == nil {
			host = parsed.Host
		}
	}
	if host == "" {
		return nil, fmt.Errorf("invalid storage endpoint %q", cfg.Endpoint)
	}

	return &S3Client{
		cfg:        cfg,
		endpoint:   &url.URL{Scheme: scheme, Host: host},
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
	}, nil
}

// Upload PUTs body under key and returns the object's public URL.
func (c *S3Client) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	target := c.objectURL(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target.String(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	payloadHash := sha256.Sum256(body)
	c.signRequest(req, hex.EncodeToString(payloadHash[:]))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload object %s: %w", key, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("upload object %s: unexpected status %d: %w", key, resp.StatusCode, ErrUploadFailed)
	}

	publicURL := c.publicURL(key)
	if publicURL == "" {
		return "", fmt.Errorf("upload object %s: no public endpoint configured: %w", key, ErrUploadFailed)
	}
	return publicURL, nil
}

// Delete removes the object under key. Used to compensate half-finished
// uploads, so a missing object is not an error.
func (c *S3Client) Delete(ctx context.Context, key string) error {
	target := c.objectURL(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target.String(), nil)
	if err != nil {
		return fmt.Errorf("create delete request: %w", err)
	}

	emptyHash := sha256.Sum256(nil)
	c.signRequest(req, hex.EncodeToString(emptyHash[:]))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 || resp.StatusCode == http.StatusNotFound {
		return nil
	}
	return fmt.Errorf("delete object %s: unexpected status %d", key, resp.StatusCode)
}

func (c *S3Client) objectURL(key string) *url.URL {
	u := *c.endpoint
	u.Path = "/" + strings.TrimLeft(c.cfg.Bucket, "/") + "/" + strings.TrimLeft(key, "/")
	return &u
}

func (c *S3Client) publicURL(key string) string {
	base := strings.TrimSpace(c.cfg.PublicEndpoint)
	if base == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

func (c *S3Client) signRequest(req *http.Request, payloadHash string) {
	req.Host = req.URL.Host
	req.Header.Set("Host", req.URL.Host)
	req.Header.Set("x-amz-content-sha256", payloadHash)

	accessKey := strings.TrimSpace(c.cfg.AccessKey)
	secretKey := strings.TrimSpace(c.cfg.SecretKey)
	if accessKey == "" || secretKey == "" {
		return
	}

	now := time.Now().UTC()
	amzDate := now.Format("20060102T150405Z")
	dateStamp := now.Format("20060102")
	req.Header.Set("x-amz-date", amzDate)

	canonicalHeaders, signedHeaders := canonicalizeHeaders(req)
	canonicalRequest := strings.Join([]string{
		req.Method,
		req.URL.EscapedPath(),
		req.URL.Query().Encode(),
		canonicalHeaders,
		signedHeaders,
		payloadHash,
	}, "\n")

	requestHash := sha256.Sum256([]byte(canonicalRequest))
	scope := strings.Join([]string{dateStamp, c.cfg.Region, "s3", "aws4_request"}, "/")
	stringToSign := strings.Join([]string{
		"AWS4-HMAC-SHA256",
		amzDate,
		scope,
		hex.EncodeToString(requestHash[:]),
	}, "\n")

	signingKey := deriveSigningKey(secretKey, dateStamp, c.cfg.Region)
	signature := hmacSHA256Hex(signingKey, stringToSign)

	req.Header.Set("Authorization", fmt.Sprintf(
		"AWS4-HMAC-SHA256 Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		accessKey, scope, signedHeaders, signature,
	))
}

func canonicalizeHeaders(req *http.Request) (string, string) {
	headers := make(map[string]string)
	for key, values := range req.Header {
		lower := strings.ToLower(key)
		if lower == "authorization" {
			continue
		}
		trimmed := make([]string, 0, len(values))
		for _, v := range values {
			trimmed = append(trimmed, strings.TrimSpace(v))
		}
		headers[lower] = strings.Join(trimmed, ",")
	}
	if _, ok := headers["host"]; !ok && req.Host != "" {
		headers["host"] = req.Host
	}

	keys := make([]string, 0, len(headers))
	for key := range headers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for _, key := range keys {
		builder.WriteString(key)
		builder.WriteByte(':')
		builder.WriteString(headers[key])
		builder.WriteByte('\n')
	}
	return builder.String(), strings.Join(keys, ";")
}

func deriveSigningKey(secretKey, dateStamp, region string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secretKey), dateStamp)
	kRegion := hmacSHA256(kDate, region)
	kService := hmacSHA256(kRegion, "s3")
	return hmacSHA256(kService, "aws4_request")
}

func hmacSHA256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}

func hmacSHA256Hex(key []byte, data string) string {
	return hex.EncodeToString(hmacSHA256(key, data))
}
