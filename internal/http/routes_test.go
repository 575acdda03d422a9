package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"taskboard/internal/cache"
	"taskboard/internal/config"
	"taskboard/internal/http/handlers"
	"taskboard/internal/service"
	"taskboard/internal/store/memory"
	"taskboard/internal/validation"
	"taskboard/internal/ws"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T, ceiling int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	service.InitJWT("test-secret")

	taskStore := memory.NewTaskStore()
	userStore := memory.NewUserStore()
	hub := ws.NewHub()
	listing := cache.NewListingCache(nil) // no redis in tests, falls through

	tasks := service.NewTaskService(taskStore, service.MultiNotifier{hub}, ceiling, 100)
	auth := service.NewAuthService(userStore)
	validator := validation.New(validation.DefaultLimits())

	h := handlers.NewHandler(tasks, auth, validator, listing)
	health := handlers.NewHealthHandler(nil, "test")

	cfg := &config.Config{
		APIRateLimit:   1000,
		APIRateWindow:  60,
		AuthRateLimit:  1000,
		AuthRateWindow: 60,
	}

	r := gin.New()
	RegisterRoutes(r, h, health, hub, cfg)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, out
}

func loginToken(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w, _ := doJSON(t, r, "POST", "/api/v1/auth/register", "", gin.H{"email": "test@example.com", "password": "secret1"})
	if w.Code != stdhttp.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	w, out := doJSON(t, r, "POST", "/api/v1/auth/login", "", gin.H{"email": "test@example.com", "password": "secret1"})
	if w.Code != stdhttp.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	token, _ := out["token"].(string)
	if token == "" {
		t.Fatal("no token in login response")
	}
	return token
}

func TestCreateTaskEndpoint(t *testing.T) {
	r := newTestRouter(t, 100)
	token := loginToken(t, r)

	// mutations need a token
	w, _ := doJSON(t, r, "POST", "/api/v1/tasks", "", gin.H{"title": "Test Task"})
	if w.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("unauthenticated create: %d", w.Code)
	}

	w, out := doJSON(t, r, "POST", "/api/v1/tasks", token, gin.H{"title": "Test Task"})
	if w.Code != stdhttp.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	task := out["task"].(map[string]any)
	if task["title"] != "Test Task" || task["status"] != "TODO" {
		t.Errorf("unexpected task: %v", task)
	}
	if task["description"] != nil || task["due_date"] != nil {
		t.Errorf("optional fields not null: %v", task)
	}

	// validation failure carries field errors
	w, out = doJSON(t, r, "POST", "/api/v1/tasks", token, gin.H{"title": "   "})
	if w.Code != stdhttp.StatusBadRequest {
		t.Fatalf("blank title: %d", w.Code)
	}
	if _, ok := out["errors"].(map[string]any)["title"]; !ok {
		t.Errorf("no title errors: %v", out)
	}
}

func TestCreateTaskEndpoint_Ceiling(t *testing.T) {
	r := newTestRouter(t, 2)
	token := loginToken(t, r)

	for i := 0; i < 2; i++ {
		w, _ := doJSON(t, r, "POST", "/api/v1/tasks", token, gin.H{"title": fmt.Sprintf("t%d", i)})
		if w.Code != stdhttp.StatusCreated {
			t.Fatalf("create %d: %d", i, w.Code)
		}
	}
	w, out := doJSON(t, r, "POST", "/api/v1/tasks", token, gin.H{"title": "overflow"})
	if w.Code != stdhttp.StatusBadRequest {
		t.Fatalf("over ceiling: %d", w.Code)
	}
	if msg, _ := out["error"].(string); msg == "" {
		t.Error("no limit message")
	}
}

func TestListTasksEndpoint(t *testing.T) {
	r := newTestRouter(t, 100)
	token := loginToken(t, r)

	for i := 0; i < 4; i++ {
		doJSON(t, r, "POST", "/api/v1/tasks", token, gin.H{"title": fmt.Sprintf("t%d", i)})
	}

	w, out := doJSON(t, r, "GET", "/api/v1/tasks?limit=2", "", nil)
	if w.Code != stdhttp.StatusOK {
		t.Fatalf("list: %d", w.Code)
	}
	if n := len(out["tasks"].([]any)); n != 2 {
		t.Errorf("len = %d, want 2", n)
	}
	if out["count"].(float64) != 4 || out["hasMore"] != true {
		t.Errorf("count/hasMore wrong: %v", out)
	}

	w, _ = doJSON(t, r, "GET", "/api/v1/tasks?limit=999", "", nil)
	if w.Code != stdhttp.StatusBadRequest {
		t.Errorf("limit over max: %d", w.Code)
	}
	w, _ = doJSON(t, r, "GET", "/api/v1/tasks?offset=-1", "", nil)
	if w.Code != stdhttp.StatusBadRequest {
		t.Errorf("negative offset: %d", w.Code)
	}
	// an explicit zero is invalid, only absence falls back to the default
	w, _ = doJSON(t, r, "GET", "/api/v1/tasks?limit=0", "", nil)
	if w.Code != stdhttp.StatusBadRequest {
		t.Errorf("zero limit: %d", w.Code)
	}
	w, _ = doJSON(t, r, "GET", "/api/v1/tasks?offset=0", "", nil)
	if w.Code != stdhttp.StatusOK {
		t.Errorf("zero offset: %d", w.Code)
	}
}

func TestUpdateTaskEndpoint(t *testing.T) {
	r := newTestRouter(t, 100)
	token := loginToken(t, r)

	_, out := doJSON(t, r, "POST", "/api/v1/tasks", token, gin.H{"title": "t", "description": "keep or clear"})
	id := out["task"].(map[string]any)["id"].(string)

	// explicit empty string clears the description
	w, out := doJSON(t, r, "PUT", "/api/v1/tasks/"+id, token, gin.H{"description": ""})
	if w.Code != stdhttp.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}
	if out["task"].(map[string]any)["description"] != nil {
		t.Errorf("description not cleared: %v", out)
	}

	w, _ = doJSON(t, r, "PUT", "/api/v1/tasks/not-a-uuid", token, gin.H{"title": "x"})
	if w.Code != stdhttp.StatusBadRequest {
		t.Errorf("malformed id: %d", w.Code)
	}
	w, _ = doJSON(t, r, "PUT", "/api/v1/tasks/0e95c1e0-0000-4000-8000-000000000000", token, gin.H{"title": "x"})
	if w.Code != stdhttp.StatusNotFound {
		t.Errorf("unknown id: %d", w.Code)
	}
}

func TestDeleteTaskEndpoint(t *testing.T) {
	r := newTestRouter(t, 100)
	token := loginToken(t, r)

	_, out := doJSON(t, r, "POST", "/api/v1/tasks", token, gin.H{"title": "t"})
	id := out["task"].(map[string]any)["id"].(string)

	w, out := doJSON(t, r, "DELETE", "/api/v1/tasks/"+id, token, nil)
	if w.Code != stdhttp.StatusOK || out["success"] != true {
		t.Fatalf("delete: %d %v", w.Code, out)
	}

	w, _ = doJSON(t, r, "DELETE", "/api/v1/tasks/"+id, token, nil)
	if w.Code != stdhttp.StatusNotFound {
		t.Errorf("second delete: %d", w.Code)
	}

	_, out = doJSON(t, r, "GET", "/api/v1/tasks", "", nil)
	for _, raw := range out["tasks"].([]any) {
		if raw.(map[string]any)["id"] == id {
			t.Error("deleted task still listed")
		}
	}
}

func TestAuthMe(t *testing.T) {
	r := newTestRouter(t, 100)
	token := loginToken(t, r)

	w, out := doJSON(t, r, "GET", "/api/v1/auth/me", token, nil)
	if w.Code != stdhttp.StatusOK {
		t.Fatalf("me: %d", w.Code)
	}
	if out["user"].(map[string]any)["email"] != "test@example.com" {
		t.Errorf("unexpected user: %v", out)
	}

	w, _ = doJSON(t, r, "GET", "/api/v1/auth/me", "", nil)
	if w.Code != stdhttp.StatusUnauthorized {
		t.Errorf("me without token: %d", w.Code)
	}
}

func TestAuthLogout(t *testing.T) {
	r := newTestRouter(t, 100)

	w, out := doJSON(t, r, "POST", "/api/v1/auth/logout", "", nil)
	if w.Code != stdhttp.StatusOK {
		t.Fatalf("logout: %d", w.Code)
	}
	if out["success"] != true {
		t.Errorf("unexpected body: %v", out)
	}
}

func TestHealthEndpoints(t *testing.T) {
	r := newTestRouter(t, 100)

	w, _ := doJSON(t, r, "GET", "/healthz", "", nil)
	if w.Code != stdhttp.StatusOK {
		t.Errorf("healthz: %d", w.Code)
	}
	w, out := doJSON(t, r, "GET", "/readyz", "", nil)
	if w.Code != stdhttp.StatusOK {
		t.Errorf("readyz: %d", w.Code)
	}
	if out["checks"].(map[string]any)["store"] != "in-memory" {
		t.Errorf("store check: %v", out)
	}
}
