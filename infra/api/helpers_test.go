package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/CrestNiraj12/skillfeed/infra/auth"
)

type handlerRoundTripper struct {
	h http.Handler
}

func (rt handlerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	// Servers always see a non-nil body, even for GET.
	if req.Body == nil {
		req = req.Clone(req.Context())
		req.Body = http.NoBody
	}
	rec := newResponseRecorder()
	rt.h.ServeHTTP(rec, req)
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	return rec.response(req), nil
}

type responseRecorder struct {
	header http.Header
	body   strings.Builder
	code   int
}

func newResponseRecorder() *responseRecorder {
	return &responseRecorder{header: make(http.Header), code: http.StatusOK}
}

func (r *responseRecorder) Header() http.Header         { return r.header }
func (r *responseRecorder) Write(p []byte) (int, error) { return r.body.Write(p) }
func (r *responseRecorder) WriteHeader(statusCode int)  { r.code = statusCode }

func (r *responseRecorder) response(req *http.Request) *http.Response {
	return &http.Response{
		StatusCode: r.code,
		Header:     r.header.Clone(),
		Body:       io.NopCloser(strings.NewReader(r.body.String())),
		Request:    req,
	}
}

func newTestClient(h http.Handler, opts ...Option) *Client {
	opts = append([]Option{WithHTTPClient(&http.Client{Transport: handlerRoundTripper{h: h}})}, opts...)
	return NewClient("http://example.test/api", auth.StaticToken("tok"), opts...)
}

func itemJSON(id, userID string, extra map[string]any) map[string]any {
	m := map[string]any{
		"id":        id,
		"userId":    userID,
		"userName":  "Name " + userID,
		"createdAt": "2026-03-01T12:00:00.000+00:00",
		"updatedAt": "2026-03-01T12:00:00.000+00:00",
		"likes":     []any{},
		"comments":  []any{},
	}
	for k, v := range extra {
		m[k] = v
	}
	return m
}
