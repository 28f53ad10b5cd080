package server_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/langdiff/internal/server"
	"github.com/dmitrymomot/langdiff/internal/workspace"
	"github.com/dmitrymomot/langdiff/pkg/source"
)

func file(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }

func newWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()

	ws := workspace.New(source.NewDir(fstest.MapFS{
		"en/translation.json": file(`{"greeting":"Hello {{name}}","farewell":"Goodbye","menu":{"open":"Open"}}`),
		"fr/translation.json": file(`{"greeting":"Bonjour {{nom}}","farewell":"","menu":{"close":"Fermer"}}`),
	}))
	_, err := ws.Reload(context.Background())
	require.NoError(t, err)
	return ws
}

type response struct {
	*httptest.ResponseRecorder
}

func do(t *testing.T, h http.Handler, method, target, body string) response {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return response{rec}
}

func (r response) decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body.Bytes(), v), r.Body.String())
}

func (r response) errorMessage(t *testing.T) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	r.decode(t, &body)
	return body.Error
}

type recordsBody struct {
	Primary string `json:"primary"`
	Counts  struct {
		Translated int `json:"translated"`
		Incomplete int `json:"incomplete"`
		Error      int `json:"error"`
		Total      int `json:"total"`
	} `json:"counts"`
	Records []struct {
		Key     string            `json:"key"`
		Status  string            `json:"status"`
		Values  map[string]string `json:"values"`
		Missing []string          `json:"missing"`
	} `json:"records"`
}

func TestServer_NotLoaded(t *testing.T) {
	t.Parallel()

	ws := workspace.New(source.NewDir(fstest.MapFS{}))
	h := server.New(ws)

	res := do(t, h, http.MethodGet, "/api/languages", "")
	require.Equal(t, http.StatusServiceUnavailable, res.Code)
	require.Equal(t, "application/json", res.Header().Get("Content-Type"))
	require.Equal(t, "translations are not loaded yet", res.errorMessage(t))

	res = do(t, h, http.MethodGet, "/health/ready", "")
	require.Equal(t, http.StatusServiceUnavailable, res.Code)

	res = do(t, h, http.MethodGet, "/health/live", "")
	require.Equal(t, http.StatusOK, res.Code)

	res = do(t, h, http.MethodPost, "/api/reload", "")
	require.Equal(t, http.StatusBadGateway, res.Code)
}

func TestServer_Languages(t *testing.T) {
	t.Parallel()

	h := server.New(newWorkspace(t))

	res := do(t, h, http.MethodGet, "/api/languages", "")
	require.Equal(t, http.StatusOK, res.Code)

	var body struct {
		Primary   string `json:"primary"`
		Revision  int    `json:"revision"`
		Languages []struct {
			Name    string `json:"name"`
			Keys    int    `json:"keys"`
			Primary bool   `json:"primary"`
		} `json:"languages"`
	}
	res.decode(t, &body)
	require.Equal(t, "en", body.Primary)
	require.Equal(t, 1, body.Revision)
	require.Len(t, body.Languages, 2)
	require.Equal(t, "en", body.Languages[0].Name)
	require.Equal(t, 3, body.Languages[0].Keys)
	require.True(t, body.Languages[0].Primary)
	require.False(t, body.Languages[1].Primary)
}

func TestServer_Primary(t *testing.T) {
	t.Parallel()

	h := server.New(newWorkspace(t))

	res := do(t, h, http.MethodPut, "/api/primary", `{"language":"fr"}`)
	require.Equal(t, http.StatusOK, res.Code)

	var langs struct {
		Primary  string `json:"primary"`
		Revision int    `json:"revision"`
	}
	res.decode(t, &langs)
	require.Equal(t, "fr", langs.Primary)
	require.Equal(t, 2, langs.Revision)

	var records recordsBody
	do(t, h, http.MethodGet, "/api/records?status=incomplete", "").decode(t, &records)
	require.Equal(t, "fr", records.Primary)
	require.Len(t, records.Records, 1)
	require.Equal(t, "menu.close", records.Records[0].Key)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"unknown language", `{"language":"ja"}`, http.StatusNotFound},
		{"missing language", `{}`, http.StatusUnprocessableEntity},
		{"malformed body", `{"language":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := do(t, h, http.MethodPut, "/api/primary", tt.body)
			require.Equal(t, tt.code, res.Code)
			require.NotEmpty(t, res.errorMessage(t))
		})
	}
}

func TestServer_PrimaryFailedLanguage(t *testing.T) {
	t.Parallel()

	ws := workspace.New(source.NewDir(fstest.MapFS{
		"de/translation.json": file(`{"greeting":`),
		"en/translation.json": file(`{"greeting":"Hello"}`),
	}))
	_, err := ws.Reload(context.Background())
	require.NoError(t, err)
	h := server.New(ws)

	res := do(t, h, http.MethodPut, "/api/primary", `{"language":"de"}`)
	require.Equal(t, http.StatusUnprocessableEntity, res.Code)
	require.Equal(t, "language failed to load", res.errorMessage(t))
}

func TestServer_Records(t *testing.T) {
	t.Parallel()

	h := server.New(newWorkspace(t))

	t.Run("all records in universe order", func(t *testing.T) {
		t.Parallel()

		var body recordsBody
		res := do(t, h, http.MethodGet, "/api/records", "")
		require.Equal(t, http.StatusOK, res.Code)
		res.decode(t, &body)

		require.Equal(t, 4, body.Counts.Total)
		require.Equal(t, 1, body.Counts.Translated)
		require.Equal(t, 2, body.Counts.Incomplete)
		require.Equal(t, 1, body.Counts.Error)

		keys := make([]string, len(body.Records))
		for i, r := range body.Records {
			keys[i] = r.Key
		}
		require.Equal(t, []string{"greeting", "farewell", "menu.open", "menu.close"}, keys)
		require.Equal(t, "Hello {{name}}", body.Records[0].Values["en"])
		require.Equal(t, []string{"en"}, body.Records[3].Missing)
	})

	t.Run("status filter", func(t *testing.T) {
		t.Parallel()

		var body recordsBody
		do(t, h, http.MethodGet, "/api/records?status=error", "").decode(t, &body)
		require.Len(t, body.Records, 1)
		require.Equal(t, "menu.close", body.Records[0].Key)
		require.Equal(t, "error", body.Records[0].Status)
	})

	t.Run("fuzzy query", func(t *testing.T) {
		t.Parallel()

		var body recordsBody
		do(t, h, http.MethodGet, "/api/records?q=goodby", "").decode(t, &body)
		require.Len(t, body.Records, 1)
		require.Equal(t, "farewell", body.Records[0].Key)
	})

	t.Run("invalid status", func(t *testing.T) {
		t.Parallel()

		res := do(t, h, http.MethodGet, "/api/records?status=done", "")
		require.Equal(t, http.StatusBadRequest, res.Code)
		require.Equal(t, "invalid status filter", res.errorMessage(t))
	})
}

func TestServer_Subtree(t *testing.T) {
	t.Parallel()

	h := server.New(newWorkspace(t))

	res := do(t, h, http.MethodGet, "/api/records/subtree?key=menu.open&lang=en", "")
	require.Equal(t, http.StatusOK, res.Code)
	require.JSONEq(t, `{"key":"menu.open","language":"en","status":"incomplete","value":{"menu":{"open":"Open"}}}`, res.Body.String())

	tests := []struct {
		target string
		code   int
	}{
		{"/api/records/subtree?key=menu.open&lang=fr", http.StatusNotFound},
		{"/api/records/subtree?key=menu.open&lang=ja", http.StatusNotFound},
		{"/api/records/subtree?key=nope&lang=en", http.StatusNotFound},
		{"/api/records/subtree?key=menu.open", http.StatusBadRequest},
	}
	for _, tt := range tests {
		res := do(t, h, http.MethodGet, tt.target, "")
		require.Equal(t, tt.code, res.Code, tt.target)
	}
}

func TestServer_ReloadAndCounts(t *testing.T) {
	t.Parallel()

	h := server.New(newWorkspace(t))

	res := do(t, h, http.MethodPost, "/api/reload", "")
	require.Equal(t, http.StatusOK, res.Code)
	require.JSONEq(t,
		`{"primary":"en","revision":2,"counts":{"translated":1,"incomplete":2,"error":1,"unclassified":0,"total":4}}`,
		res.Body.String())

	res = do(t, h, http.MethodGet, "/api/counts", "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), `"revision":2`)
}

func TestServer_Placeholders(t *testing.T) {
	t.Parallel()

	h := server.New(newWorkspace(t))

	res := do(t, h, http.MethodGet, "/api/placeholders", "")
	require.Equal(t, http.StatusOK, res.Code)
	require.JSONEq(t,
		`{"mismatches":[{"key":"greeting","language":"fr","missing":["name"],"extra":["nom"]}]}`,
		res.Body.String())
}

func TestServer_Reports(t *testing.T) {
	t.Parallel()

	h := server.New(newWorkspace(t))

	res := do(t, h, http.MethodGet, "/report", "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, "text/html; charset=utf-8", res.Header().Get("Content-Type"))
	require.Contains(t, res.Body.String(), "<table>")
	require.Contains(t, res.Body.String(), "Fermer")

	res = do(t, h, http.MethodGet, "/report.md?status=translated", "")
	require.Equal(t, http.StatusOK, res.Code)
	require.True(t, strings.HasPrefix(res.Body.String(), "# Translation report\n"))
	require.Contains(t, res.Body.String(), "## Placeholder mismatches")
	require.NotContains(t, res.Body.String(), "Fermer")
}

func TestServer_Middleware(t *testing.T) {
	t.Parallel()

	h := server.New(newWorkspace(t))

	t.Run("request id is echoed", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/api/counts", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
	})

	t.Run("request id is generated", func(t *testing.T) {
		t.Parallel()

		res := do(t, h, http.MethodGet, "/api/counts", "")
		require.Len(t, res.Header().Get("X-Request-ID"), 36)
	})

	t.Run("unknown route", func(t *testing.T) {
		t.Parallel()

		res := do(t, h, http.MethodGet, "/api/nope", "")
		require.Equal(t, http.StatusNotFound, res.Code)
		require.Equal(t, "not found", res.errorMessage(t))
	})

	t.Run("wrong method", func(t *testing.T) {
		t.Parallel()

		res := do(t, h, http.MethodDelete, "/api/counts", "")
		require.Equal(t, http.StatusMethodNotAllowed, res.Code)
	})
}

func TestServer_ReadinessChecks(t *testing.T) {
	t.Parallel()

	failing := func(context.Context) error { return context.DeadlineExceeded }
	h := server.New(newWorkspace(t), server.WithCheck("redis", failing))

	res := do(t, h, http.MethodGet, "/health/ready?format=json", "")
	require.Equal(t, http.StatusServiceUnavailable, res.Code)

	var body struct {
		Status string `json:"status"`
		Checks map[string]struct {
			Status string `json:"status"`
		} `json:"checks"`
		Details map[string]any `json:"details"`
	}
	res.decode(t, &body)
	require.Equal(t, "unhealthy", body.Status)
	require.Equal(t, "healthy", body.Checks["workspace"].Status)
	require.Equal(t, "unhealthy", body.Checks["redis"].Status)
	require.EqualValues(t, 4, body.Details["keys"])
}

func TestRun(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addrCh := make(chan net.Addr, 1)
	var started, stopped bool
	errCh := make(chan error, 1)

	go func() {
		errCh <- server.Run(ctx, server.New(newWorkspace(t)),
			server.Address("127.0.0.1:0"),
			server.ShutdownTimeout(time.Second),
			server.OnListen(func(a net.Addr) { addrCh <- a }),
			server.StartupHook(func(context.Context) error { started = true; return nil }),
			server.ShutdownHook(func(context.Context) error { stopped = true; return nil }),
		)
	}()

	addr := <-addrCh
	resp, err := http.Get("http://" + addr.String() + "/health/live")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	require.True(t, started)
	require.True(t, stopped)
}
