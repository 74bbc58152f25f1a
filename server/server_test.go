package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fieldhq/fieldhq/config"
	"github.com/fieldhq/fieldhq/ingest"
	fieldhqtest "github.com/fieldhq/fieldhq/internal/testing"
	"github.com/fieldhq/fieldhq/store"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	database := fieldhqtest.CreateTestDB(t)
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           0,
			AllowedOrigins: []string{"http://localhost"},
		},
		Auth: config.AuthConfig{
			JWTSecret:   "test-secret-that-is-long-enough",
			TokenExpiry: "1h",
		},
		Upload: config.UploadConfig{
			MaxSizeMB: 10,
			TmpDir:    t.TempDir(),
		},
	}

	srv, err := New(database, cfg, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)

	_, err = srv.admins.Seed("admin@example.com", "admin123")
	require.NoError(t, err)

	return srv, loginToken(t, srv)
}

func loginToken(t *testing.T, srv *Server) string {
	t.Helper()

	rec := doJSON(t, srv, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "admin@example.com", "password": "admin123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["token"])
	return resp["token"]
}

func doJSON(t *testing.T, srv *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestLogin(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("wrong password", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/auth/login", "",
			map[string]string{"email": "admin@example.com", "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/auth/login", "",
			map[string]string{"email": "nobody@example.com", "password": "admin123"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/auth/login", "", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv, token := newTestServer(t)

	paths := []string{"/api/agents", "/api/stats", "/api/upload"}
	for _, path := range paths {
		rec := doJSON(t, srv, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/agents", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/agents", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAgentCRUD(t *testing.T) {
	srv, token := newTestServer(t)

	create := map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"mobile":   "1234567890",
		"password": "agentpass",
	}
	rec := doJSON(t, srv, http.MethodPost, "/api/agents", token, create)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var agent store.Agent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &agent))
	assert.NotEmpty(t, agent.ID)
	assert.Equal(t, "Alice", agent.Name)
	assert.NotContains(t, rec.Body.String(), "agentpass")
	assert.NotContains(t, rec.Body.String(), "password")

	t.Run("duplicate email rejected", func(t *testing.T) {
		dup := map[string]string{
			"name":     "Other",
			"email":    "alice@example.com",
			"mobile":   "0987654321",
			"password": "agentpass",
		}
		rec := doJSON(t, srv, http.MethodPost, "/api/agents", token, dup)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid mobile rejected", func(t *testing.T) {
		bad := map[string]string{
			"name":     "Bob",
			"email":    "bob@example.com",
			"mobile":   "12345",
			"password": "agentpass",
		}
		rec := doJSON(t, srv, http.MethodPost, "/api/agents", token, bad)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get by id", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/agents/"+agent.ID, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got store.Agent
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, agent.ID, got.ID)
	})

	t.Run("update", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPut, "/api/agents/"+agent.ID, token,
			map[string]string{"name": "Alice Smith"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var got store.Agent
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Alice Smith", got.Name)
		assert.Equal(t, "alice@example.com", got.Email)
	})

	t.Run("list", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/agents", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var agents []store.Agent
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &agents))
		assert.Len(t, agents, 1)
	})

	t.Run("delete then 404", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodDelete, "/api/agents/"+agent.ID, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, srv, http.MethodGet, "/api/agents/"+agent.ID, token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = doJSON(t, srv, http.MethodDelete, "/api/agents/"+agent.ID, token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAgentRecords(t *testing.T) {
	srv, token := newTestServer(t)

	t.Run("unknown agent", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/agents/no-such-id/records", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty list for known agent", func(t *testing.T) {
		created := createAgent(t, srv, token, "Carol", "carol@example.com", "1112223333")

		rec := doJSON(t, srv, http.MethodGet, "/api/agents/"+created.ID+"/records", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var records []store.Record
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
		assert.Empty(t, records)
	})
}

func TestStats(t *testing.T) {
	srv, token := newTestServer(t)
	createAgent(t, srv, token, "Alice", "alice@example.com", "1234567890")

	rec := doJSON(t, srv, http.MethodGet, "/api/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats["totalAgents"])
	assert.Equal(t, 0, stats["totalRecords"])
}

func TestUpload(t *testing.T) {
	srv, token := newTestServer(t)
	for i := 0; i < 3; i++ {
		createAgent(t, srv, token,
			fmt.Sprintf("Agent %d", i),
			fmt.Sprintf("agent%d@example.com", i),
			fmt.Sprintf("555000%04d", i))
	}

	csvData := "FirstName,Phone,Notes\n" +
		"John,1111111111,first\n" +
		"Jane,2222222222,second\n" +
		"Jim,3333333333,third\n" +
		"Joan,4444444444,fourth\n" +
		"Jack,5555555555,fifth\n"

	rec := doUpload(t, srv, token, "leads.csv", csvData)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result ingest.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 5, result.TotalRecords)
	assert.Equal(t, 3, result.AgentCount)
	assert.Equal(t, 0, result.SkippedRows)

	t.Run("records visible per agent", func(t *testing.T) {
		listRec := doJSON(t, srv, http.MethodGet, "/api/agents", token, nil)
		require.Equal(t, http.StatusOK, listRec.Code)

		var agents []store.Agent
		require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &agents))
		require.Len(t, agents, 3)

		total := 0
		for _, a := range agents {
			r := doJSON(t, srv, http.MethodGet, "/api/agents/"+a.ID+"/records", token, nil)
			require.Equal(t, http.StatusOK, r.Code)

			var records []store.Record
			require.NoError(t, json.Unmarshal(r.Body.Bytes(), &records))
			total += len(records)
		}
		assert.Equal(t, 5, total)
	})

	t.Run("stats reflect upload", func(t *testing.T) {
		statsRec := doJSON(t, srv, http.MethodGet, "/api/stats", token, nil)
		require.Equal(t, http.StatusOK, statsRec.Code)

		var stats map[string]int
		require.NoError(t, json.Unmarshal(statsRec.Body.Bytes(), &stats))
		assert.Equal(t, 5, stats["totalRecords"])
	})
}

func TestUploadRejectsInvalidFileType(t *testing.T) {
	srv, token := newTestServer(t)
	createAgent(t, srv, token, "Alice", "alice@example.com", "1234567890")

	rec := doUpload(t, srv, token, "leads.txt", "FirstName,Phone\nJohn,1111111111\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "CSV")
}

func TestUploadRejectsEmptyRoster(t *testing.T) {
	srv, token := newTestServer(t)

	rec := doUpload(t, srv, token, "leads.csv", "FirstName,Phone\nJohn,1111111111\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRequiresFile(t *testing.T) {
	srv, token := newTestServer(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("other", "value"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/agents", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSDisallowedOrigin(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func createAgent(t *testing.T, srv *Server, token, name, email, mobile string) *store.Agent {
	t.Helper()

	rec := doJSON(t, srv, http.MethodPost, "/api/agents", token,
		map[string]string{"name": name, "email": email, "mobile": mobile, "password": "agentpass"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var agent store.Agent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &agent))
	return &agent
}

func doUpload(t *testing.T, srv *Server, token, filename, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}
