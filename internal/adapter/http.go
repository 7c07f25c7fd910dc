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
	"time"

	"github.com/MKhiriev/go-life-keeper/internal/config"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/internal/utils"
	"github.com/MKhiriev/go-life-keeper/models"
	"github.com/go-resty/resty/v2"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	deviceID string
	timeout  time.Duration

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of [ServerAdapter].
// It normalises and validates the base URL from adapterCfg.HTTPAddress,
// configures the underlying HTTP client with the resolved base URL and request
// timeout, and initialises the shared HMAC hasher pool used for the
// HashSHA256 header.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	utils.InitHasherPool(appCfg.HashKey)

	// long-poll reads stay open for the wait window on top of the timeout
	clientTimeout := adapterCfg.RequestTimeout
	if clientTimeout > 0 {
		clientTimeout += adapterCfg.PollWait
	}

	return &httpServerAdapter{
		client:   utils.NewHTTPClient(baseURL, clientTimeout),
		deviceID: appCfg.DeviceID,
		timeout:  adapterCfg.RequestTimeout,
		logger:   logger,
	}, nil
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

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed) for
// use in the Authorization header of all subsequent authenticated requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter].
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Register implements [ServerAdapter]. It POSTs the credentials to
// POST /api/auth/register and reads the bearer token from the Authorization
// response header.
func (h *httpServerAdapter) Register(ctx context.Context, user models.User) (models.Identity, error) {
	return h.authenticate(ctx, "/api/auth/register", user)
}

// Login implements [ServerAdapter]. It POSTs the credentials to
// POST /api/auth/login and reads the bearer token from the Authorization
// response header.
func (h *httpServerAdapter) Login(ctx context.Context, user models.User) (models.Identity, error) {
	return h.authenticate(ctx, "/api/auth/login", user)
}

func (h *httpServerAdapter) authenticate(ctx context.Context, path string, user models.User) (models.Identity, error) {
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.User{Login: user.Login, Password: user.Password}).
		Post(path)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%s request: %w", path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Identity{}, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.Identity{}, fmt.Errorf("%s parse bearer token: %w", path, err)
	}
	userID, err := utils.ParseUserIDFromJWT(token)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%s parse user id: %w", path, err)
	}

	h.SetToken(token)
	return models.Identity{UserID: userID, Login: user.Login, Token: token}, nil
}

// GetDocument implements [ServerAdapter]. It sends
// GET /api/documents?since=N&wait=S. A 204 answer means the wait window
// elapsed without a newer revision and is reported as [ErrNoChanges].
func (h *httpServerAdapter) GetDocument(ctx context.Context, query models.DocumentQuery) (models.RemoteDocument, error) {
	var doc models.RemoteDocument

	resp, err := h.authedRequest(ctx).
		SetQueryParam("since", strconv.FormatInt(query.Since, 10)).
		SetQueryParam("wait", strconv.Itoa(query.WaitSeconds)).
		SetResult(&doc).
		Get("/api/documents")
	if err != nil {
		return models.RemoteDocument{}, fmt.Errorf("get document request: %w", err)
	}
	if resp.StatusCode() == http.StatusNoContent {
		return models.RemoteDocument{}, ErrNoChanges
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RemoteDocument{}, err
	}

	return doc, nil
}

// PutDocument implements [ServerAdapter]. The body is signed with the
// HashSHA256 header and tagged with the device id.
func (h *httpServerAdapter) PutDocument(ctx context.Context, snapshot models.Snapshot) (models.PutDocumentResponse, error) {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return models.PutDocumentResponse{}, fmt.Errorf("encode snapshot: %w", err)
	}

	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	var result models.PutDocumentResponse
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader(models.HeaderHashSHA256, utils.HashHex(body)).
		SetBody(body).
		SetResult(&result).
		Put("/api/documents")
	if err != nil {
		return models.PutDocumentResponse{}, fmt.Errorf("put document request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PutDocumentResponse{}, err
	}

	h.logger.Debug().Str("func", "*httpServerAdapter.PutDocument").
		Int64("revision", result.Revision).
		Time("exported_at", snapshot.ExportedAt).
		Msg("document uploaded")

	return result, nil
}

// withTimeout bounds a request that does not long-poll by RequestTimeout.
func (h *httpServerAdapter) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.timeout)
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	if h.deviceID != "" {
		req.SetHeader(models.HeaderDeviceID, h.deviceID)
	}
	return req
}
