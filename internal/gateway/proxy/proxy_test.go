package proxy

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seen struct {
	method, path, query, contentType, body string
	fileName, fileBody                     string
}

func upstream(t *testing.T, got *seen) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.query = r.URL.RawQuery
		got.contentType = r.Header.Get("Content-Type")
		if strings.HasPrefix(got.contentType, "multipart/form-data") {
			f, fh, err := r.FormFile("file")
			if err == nil {
				data, _ := io.ReadAll(f)
				got.fileName, got.fileBody = fh.Filename, string(data)
			}
		} else {
			data, _ := io.ReadAll(r.Body)
			got.body = string(data)
		}
		w.Header().Set("Content-Disposition", `attachment; filename="canvasJSON.json"`)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProxy_ForwardsJSON(t *testing.T) {
	var got seen
	srv := upstream(t, &got)

	app := fiber.New()
	New(srv.URL+"/", time.Second, nil).Mount(app.Group("/api/v1"), "/workspaces")

	req := httptest.NewRequest("POST", "/api/v1/workspaces/abc/snapshot?name=dinner", strings.NewReader(`{"kind":"Square"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, `attachment; filename="canvasJSON.json"`, resp.Header.Get("Content-Disposition"))
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"ok":true}`, string(body))

	assert.Equal(t, "POST", got.method)
	assert.Equal(t, "/workspaces/abc/snapshot", got.path)
	assert.Equal(t, "name=dinner", got.query)
	assert.Equal(t, `{"kind":"Square"}`, got.body)
}

func TestProxy_ForwardsRoot(t *testing.T) {
	var got seen
	srv := upstream(t, &got)

	app := fiber.New()
	New(srv.URL, time.Second, nil).Mount(app, "/workspaces")

	resp, err := app.Test(httptest.NewRequest("POST", "/workspaces", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "/workspaces", got.path)
}

func TestProxy_ForwardsMultipart(t *testing.T) {
	var got seen
	srv := upstream(t, &got)

	app := fiber.New()
	New(srv.URL, time.Second, nil).Mount(app, "/workspaces")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "canvasJSON.json")
	require.NoError(t, err)
	_, _ = part.Write([]byte(`{"shapes":[]}`))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/workspaces/abc/restore", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "canvasJSON.json", got.fileName)
	assert.Equal(t, `{"shapes":[]}`, got.fileBody)
}

func TestProxy_UpstreamDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	app := fiber.New()
	New(url, time.Second, nil).Mount(app, "/workspaces")

	resp, err := app.Test(httptest.NewRequest("GET", "/workspaces/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
