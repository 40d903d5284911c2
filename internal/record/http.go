package record

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/daybook-app/daybook/internal/errors"
	"github.com/daybook-app/daybook/internal/logger"
)

const fullListPageSize = 200

// HTTPStore talks to the remote record server's REST API. It is the
// production backend; every call is one network round-trip (GetFullList
// pages internally).
type HTTPStore struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPStore(baseURL string) *HTTPStore {
	return &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken sets the bearer token sent with subsequent requests.
func (s *HTTPStore) SetToken(token string) {
	s.token = token
}

// Health checks that the server is reachable.
func (s *HTTPStore) Health(ctx context.Context) error {
	status, body, err := s.do(ctx, http.MethodGet, "/api/health", nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return &errors.ServerError{Status: status, Detail: serverMessage(body)}
	}
	return nil
}

// AuthResult is a successful password authentication: the signed token
// and the authenticated user record.
type AuthResult struct {
	Token string
	User  Record
}

// AuthWithPassword authenticates against the users collection and keeps
// the returned token for subsequent requests.
func (s *HTTPStore) AuthWithPassword(ctx context.Context, identity, password string) (AuthResult, error) {
	if strings.TrimSpace(identity) == "" {
		return AuthResult{}, &errors.ValidationError{Field: "identity", Reason: "cannot be blank"}
	}
	if password == "" {
		return AuthResult{}, &errors.ValidationError{Field: "password", Reason: "cannot be blank"}
	}

	body := map[string]any{"identity": identity, "password": password}
	status, data, err := s.do(ctx, http.MethodPost, "/api/collections/users/auth-with-password", nil, body)
	if err != nil {
		return AuthResult{}, err
	}
	if status != http.StatusOK {
		return AuthResult{}, &errors.ServerError{Status: status, Detail: serverMessage(data)}
	}

	var resp struct {
		Token  string         `json:"token"`
		Record map[string]any `json:"record"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return AuthResult{}, fmt.Errorf("failed to decode auth response: %w", err)
	}
	s.token = resp.Token
	return AuthResult{Token: resp.Token, User: decodeRecord(resp.Record)}, nil
}

// AuthRefresh validates the current token and returns a fresh one plus
// the authenticated user record. Fails with ErrNotFound semantics from
// the server (401) when the token is missing or expired.
func (s *HTTPStore) AuthRefresh(ctx context.Context) (AuthResult, error) {
	status, data, err := s.do(ctx, http.MethodPost, "/api/collections/users/auth-refresh", nil, nil)
	if err != nil {
		return AuthResult{}, err
	}
	if status != http.StatusOK {
		return AuthResult{}, &errors.ServerError{Status: status, Detail: serverMessage(data)}
	}

	var resp struct {
		Token  string         `json:"token"`
		Record map[string]any `json:"record"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return AuthResult{}, fmt.Errorf("failed to decode auth response: %w", err)
	}
	s.token = resp.Token
	return AuthResult{Token: resp.Token, User: decodeRecord(resp.Record)}, nil
}

func (s *HTTPStore) Create(ctx context.Context, collection string, fields map[string]any) (Record, error) {
	path := fmt.Sprintf("/api/collections/%s/records", collection)
	status, data, err := s.do(ctx, http.MethodPost, path, nil, fields)
	if err != nil {
		return Record{}, err
	}
	if status != http.StatusOK {
		return Record{}, mutationError(status, data)
	}
	return decodeRecordJSON(data)
}

func (s *HTTPStore) Update(ctx context.Context, collection, id string, fields map[string]any) (Record, error) {
	path := fmt.Sprintf("/api/collections/%s/records/%s", collection, url.PathEscape(id))
	status, data, err := s.do(ctx, http.MethodPatch, path, nil, fields)
	if err != nil {
		return Record{}, err
	}
	if status == http.StatusNotFound {
		return Record{}, fmt.Errorf("%s/%s: %w", collection, id, errors.ErrNotFound)
	}
	if status != http.StatusOK {
		return Record{}, mutationError(status, data)
	}
	return decodeRecordJSON(data)
}

func (s *HTTPStore) Delete(ctx context.Context, collection, id string) error {
	path := fmt.Sprintf("/api/collections/%s/records/%s", collection, url.PathEscape(id))
	status, data, err := s.do(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return fmt.Errorf("%s/%s: %w", collection, id, errors.ErrNotFound)
	}
	if status != http.StatusNoContent && status != http.StatusOK {
		return &errors.ServerError{Status: status, Detail: serverMessage(data)}
	}
	return nil
}

func (s *HTTPStore) GetOne(ctx context.Context, collection, id string, opts Options) (Record, error) {
	path := fmt.Sprintf("/api/collections/%s/records/%s", collection, url.PathEscape(id))
	query := url.Values{}
	if opts.Expand != "" {
		query.Set("expand", opts.Expand)
	}
	status, data, err := s.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return Record{}, err
	}
	if status == http.StatusNotFound {
		return Record{}, fmt.Errorf("%s/%s: %w", collection, id, errors.ErrNotFound)
	}
	if status != http.StatusOK {
		return Record{}, &errors.ServerError{Status: status, Detail: serverMessage(data)}
	}
	return decodeRecordJSON(data)
}

func (s *HTTPStore) GetList(ctx context.Context, collection string, page, perPage int, opts Options) (List, error) {
	path := fmt.Sprintf("/api/collections/%s/records", collection)
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("perPage", strconv.Itoa(perPage))
	filterStr := ""
	if opts.Filter != nil {
		filterStr = opts.Filter.String()
		query.Set("filter", filterStr)
	}
	if opts.Sort != "" {
		query.Set("sort", opts.Sort)
	}
	if opts.Expand != "" {
		query.Set("expand", opts.Expand)
	}

	status, data, err := s.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return List{}, err
	}
	if status == http.StatusBadRequest {
		return List{}, &errors.QueryError{Query: filterStr, Detail: serverMessage(data)}
	}
	if status != http.StatusOK {
		return List{}, &errors.ServerError{Status: status, Detail: serverMessage(data)}
	}

	var resp struct {
		Page       int              `json:"page"`
		PerPage    int              `json:"perPage"`
		TotalItems int              `json:"totalItems"`
		Items      []map[string]any `json:"items"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return List{}, fmt.Errorf("failed to decode list response: %w", err)
	}

	list := List{
		Page:       resp.Page,
		PerPage:    resp.PerPage,
		TotalItems: resp.TotalItems,
		Items:      make([]Record, len(resp.Items)),
	}
	for i, item := range resp.Items {
		list.Items[i] = decodeRecord(item)
	}
	return list, nil
}

func (s *HTTPStore) GetFullList(ctx context.Context, collection string, opts Options) ([]Record, error) {
	var all []Record
	for page := 1; ; page++ {
		list, err := s.GetList(ctx, collection, page, fullListPageSize, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, list.Items...)
		if len(list.Items) < fullListPageSize || len(all) >= list.TotalItems {
			return all, nil
		}
	}
}

// do issues one request and returns the raw status and body. Transport
// failures come back as ServerError; status mapping is per-operation.
func (s *HTTPStore) do(ctx context.Context, method, path string, query url.Values, body any) (int, []byte, error) {
	u := s.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, nil, ctx.Err()
		}
		return 0, nil, &errors.ServerError{Detail: err.Error()}
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return 0, nil, &errors.ServerError{Detail: err.Error()}
	}

	logger.Debug("record server request", "method", method, "path", path, "status", resp.StatusCode)
	return resp.StatusCode, buf.Bytes(), nil
}

// mutationError maps a create/update failure status. 400 means the
// server rejected the field shape.
func mutationError(status int, body []byte) error {
	if status == http.StatusBadRequest {
		return &errors.ValidationError{Field: "fields", Reason: serverMessage(body)}
	}
	return &errors.ServerError{Status: status, Detail: serverMessage(body)}
}

func serverMessage(body []byte) string {
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err == nil && resp.Message != "" {
		return resp.Message
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = "request failed"
	}
	return msg
}

func decodeRecordJSON(data []byte) (Record, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Record{}, fmt.Errorf("failed to decode record: %w", err)
	}
	return decodeRecord(m), nil
}

// decodeRecord splits a server record document into identity, timestamps,
// expand joins, and plain fields.
func decodeRecord(m map[string]any) Record {
	rec := Record{Fields: make(map[string]any, len(m))}
	for k, v := range m {
		switch k {
		case "id":
			rec.ID, _ = v.(string)
		case "created":
			if s, ok := v.(string); ok {
				rec.Created = parseTimestamp(s)
			}
		case "updated":
			if s, ok := v.(string); ok {
				rec.Updated = parseTimestamp(s)
			}
		case "collectionId", "collectionName":
			// Server bookkeeping, not domain data.
		case "expand":
			if em, ok := v.(map[string]any); ok {
				rec.Expand = make(map[string]Record, len(em))
				for field, ev := range em {
					if rm, ok := ev.(map[string]any); ok {
						rec.Expand[field] = decodeRecord(rm)
					}
				}
			}
		default:
			rec.Fields[k] = v
		}
	}
	return rec
}
