// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/docvault/docvault/internal/config"
	"github.com/docvault/docvault/internal/logger"
	"github.com/docvault/docvault/internal/utils"
	"github.com/docvault/docvault/models"
	"github.com/go-resty/resty/v2"
)

type httpSyncGateway struct {
	client  *resty.Client
	hashKey string

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPSyncGateway constructs an HTTP/REST implementation of [SyncGateway].
// It normalises and validates the base URL from adapterCfg.HTTPAddress and
// configures the underlying client with the resolved base URL, the request
// timeout, and the HMAC key used for transport integrity hashes.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPSyncGateway(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (SyncGateway, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	return &httpSyncGateway{client: client, hashKey: appCfg.HashKey, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [SyncGateway]. It stores token (whitespace-trimmed) for
// use in the Authorization header of all subsequent authenticated requests.
func (h *httpSyncGateway) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [SyncGateway]. It returns the bearer token currently held
// by the gateway, or an empty string if none has been set.
func (h *httpSyncGateway) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Upload implements [SyncGateway]. It POSTs the document to
// POST /api/documents/ with a transport integrity hash and decodes the
// server-side record from the response. A 409 whose body mentions the sync id
// collision is mapped to [ErrDuplicateSyncID] so the caller can regenerate
// the id and retry.
func (h *httpSyncGateway) Upload(ctx context.Context, doc models.Document) (models.Document, error) {
	var stored models.Document

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Content-Hash", h.computeTransportHash(doc)).
		SetBody(doc).
		SetResult(&stored).
		Post("/api/documents/")
	if err != nil {
		return models.Document{}, fmt.Errorf("upload request: %w", err)
	}
	if err = h.mapHTTPError(resp); err != nil {
		return models.Document{}, err
	}

	return stored, nil
}

// Update implements [SyncGateway]. It PUTs the document to
// PUT /api/documents/{syncId}. The server compares doc.Version against its
// stored version; a mismatch comes back as 409 with the remote snapshot in
// the body and is surfaced as [*VersionConflictError].
func (h *httpSyncGateway) Update(ctx context.Context, doc models.Document) (models.Document, error) {
	var stored models.Document

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Content-Hash", h.computeTransportHash(doc)).
		SetBody(doc).
		SetResult(&stored).
		Put("/api/documents/" + url.PathEscape(doc.SyncID))
	if err != nil {
		return models.Document{}, fmt.Errorf("update request: %w", err)
	}
	if err = h.mapHTTPError(resp); err != nil {
		return models.Document{}, err
	}

	return stored, nil
}

// Delete implements [SyncGateway]. It sends
// DELETE /api/documents/{syncId}?version=N. The version query parameter
// carries the optimistic lock; a mismatch surfaces as [*VersionConflictError].
func (h *httpSyncGateway) Delete(ctx context.Context, syncID string, version int64) error {
	resp, err := h.authedRequest(ctx).
		SetQueryParam("version", strconv.FormatInt(version, 10)).
		Delete("/api/documents/" + url.PathEscape(syncID))
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}

	return h.mapHTTPError(resp)
}

// UploadFile implements [SyncGateway]. It streams the attachment at path as a
// multipart upload to POST /api/documents/{syncId}/files and returns the
// server-assigned file reference.
func (h *httpSyncGateway) UploadFile(ctx context.Context, syncID string, path string) (string, error) {
	var result struct {
		FileRef string `json:"fileRef"`
	}

	resp, err := h.authedRequest(ctx).
		SetFile("file", path).
		SetResult(&result).
		Post("/api/documents/" + url.PathEscape(syncID) + "/files")
	if err != nil {
		return "", fmt.Errorf("upload file request: %w", err)
	}
	if err = h.mapHTTPError(resp); err != nil {
		return "", err
	}
	if result.FileRef == "" {
		return "", fmt.Errorf("%w: upload file response missing fileRef", ErrInvalidPayload)
	}

	return result.FileRef, nil
}

// DeleteFile implements [SyncGateway]. It sends
// DELETE /api/documents/{syncId}/files/{fileRef}.
func (h *httpSyncGateway) DeleteFile(ctx context.Context, syncID string, fileRef string) error {
	resp, err := h.authedRequest(ctx).
		Delete("/api/documents/" + url.PathEscape(syncID) + "/files/" + url.PathEscape(fileRef))
	if err != nil {
		return fmt.Errorf("delete file request: %w", err)
	}

	return h.mapHTTPError(resp)
}

func (h *httpSyncGateway) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// mapHTTPError translates a non-2xx response into one of the package's
// sentinel errors. A 409 is ambiguous on the wire: a sync-id collision on
// upload and an optimistic-lock failure on update both use it, so the body is
// inspected to tell them apart.
func (h *httpSyncGateway) mapHTTPError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))

	switch {
	case code == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, fallbackStatusText(body, code))
	case code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, fallbackStatusText(body, code))
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, fallbackStatusText(body, code))
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrInvalidPayload, fallbackStatusText(body, code))
	case code == http.StatusConflict:
		return h.mapConflict(resp, body)
	case code == http.StatusTooManyRequests || code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", ErrServerUnavailable, fallbackStatusText(body, code))
	default:
		return fmt.Errorf("http %d: %s", code, fallbackStatusText(body, code))
	}
}

func (h *httpSyncGateway) mapConflict(resp *resty.Response, body string) error {
	if strings.Contains(strings.ToLower(body), "duplicate") {
		return fmt.Errorf("%w: %s", ErrDuplicateSyncID, body)
	}

	var payload struct {
		Remote models.Document `json:"remote"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil || payload.Remote.SyncID == "" {
		h.logger.Warn().
			Str("func", "httpSyncGateway.mapConflict").
			Msg("conflict response without remote snapshot")
		return fmt.Errorf("version conflict: %s", fallbackStatusText(body, resp.StatusCode()))
	}

	return &VersionConflictError{SyncID: payload.Remote.SyncID, Remote: payload.Remote}
}

func (h *httpSyncGateway) computeTransportHash(doc models.Document) string {
	if h.hashKey == "" {
		return ""
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return ""
	}
	return utils.HashString(string(payload), h.hashKey)
}

func fallbackStatusText(body string, code int) string {
	if body == "" {
		return http.StatusText(code)
	}
	return body
}
