// Package gateway talks to the commerce backend on behalf of the client.
// Reads degrade to nil and writes degrade to a failed Result instead of
// returning transport errors: the entity stores keep serving their cached
// copy and queue mutations for retry, so from their point of view a dead
// network and a missing record look the same.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"sigmavie-commerce/pkg/logger"

	"go.uber.org/zap"
)

const healthTimeout = 3 * time.Second

// Result is the outcome of a remote mutation.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Gateway struct {
	BaseURL string
	Client  *http.Client
}

func New(baseURL string) *Gateway {
	return &Gateway{
		BaseURL: baseURL,
		Client:  &http.Client{},
	}
}

// envelope is the backend's response wrapper on mutation endpoints. List
// endpoints return the collection bare, so read paths must accept both.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// do performs the request and returns the body and whether the status was
// 2xx. A transport failure returns a nil body.
func (g *Gateway) do(ctx context.Context, method, path string, payload any) (body []byte, ok bool) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, false
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.BaseURL+path, reqBody)
	if err != nil {
		return nil, false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		logger.Get().Debug("remote request failed",
			zap.String("path", path), zap.Error(err))
		return nil, false
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, false
	}
	return body, resp.StatusCode >= 200 && resp.StatusCode < 300
}

// decode handles both response shapes: a bare payload and an
// envelope carrying it under "data".
func decode(body []byte, v any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Data != nil {
		return json.Unmarshal(env.Data, v)
	}
	return json.Unmarshal(body, v)
}

// FetchList retrieves the full collection for entity. Nil on ANY failure —
// network, non-2xx, decode. Nil means "unknown": the caller must keep
// whatever it already has.
func FetchList[T any](ctx context.Context, g *Gateway, entity string) []T {
	body, ok := g.do(ctx, http.MethodGet, "/api/v1/"+entity, nil)
	if !ok {
		return nil
	}
	var items []T
	if err := decode(body, &items); err != nil {
		logger.Get().Debug("list decode failed",
			zap.String("entity", entity), zap.Error(err))
		return nil
	}
	return items
}

// FetchByKey retrieves a single record. Nil pointer on any failure.
func FetchByKey[T any](ctx context.Context, g *Gateway, entity, key string) *T {
	body, ok := g.do(ctx, http.MethodGet, "/api/v1/"+entity+"/"+key, nil)
	if !ok {
		return nil
	}
	var item T
	if err := decode(body, &item); err != nil {
		return nil
	}
	return &item
}

// result maps a mutation response onto Result. The backend reports failures
// in its body; a body that never arrived is a transport failure.
func result(body []byte, ok bool) Result {
	if body == nil {
		return Result{Success: false, Message: "remote unreachable"}
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Result{Success: ok}
	}
	msg := env.Message
	if msg == "" {
		msg = env.Error
	}
	// Some endpoints omit the success flag and speak through status codes.
	success := env.Success || (ok && env.Error == "")
	return Result{Success: success, Message: msg}
}

// Upsert pushes a mutation. A transport failure degrades to a failed Result
// so the caller can queue the payload for retry.
func (g *Gateway) Upsert(ctx context.Context, entity string, payload any) Result {
	body, ok := g.do(ctx, http.MethodPost, "/api/v1/"+entity, payload)
	return result(body, ok)
}

// Delete removes a record remotely.
func (g *Gateway) Delete(ctx context.Context, entity, id string) Result {
	body, ok := g.do(ctx, http.MethodDelete, "/api/v1/"+entity+"/"+id, nil)
	return result(body, ok)
}

// Health probes the backend with its own short deadline so a hung remote
// cannot stall the caller.
func (g *Gateway) Health(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := g.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
