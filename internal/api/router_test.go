package api

import (
	"blog_api/internal/api/middleware"
	"blog_api/internal/app/service"
	"blog_api/internal/common"
	"blog_api/internal/common/security"
	"blog_api/internal/domain/repository"
	"blog_api/internal/platform/config"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newTestRouter(t *testing.T) (http.Handler, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: []byte("router-secret"), JWTExp: time.Hour}
	security.InitJWT()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}

	authService := service.NewAuthService(repository.NewPgUserRepository(db))
	postService := service.NewPostService(repository.NewPgPostRepository(db))
	limiter := middleware.NewRateLimiter(nil, 0, 0) // disabled in tests

	return NewRouter(authService, postService, limiter), mock, db
}

func routerError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp common.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error body %q: %v", rec.Body.String(), err)
	}
	return resp.Error
}

func TestRouter_PublicEndpoints(t *testing.T) {
	router, _, db := newTestRouter(t)
	defer db.Close()

	for _, path := range []string{"/", "/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: got %d want %d", path, rec.Code, http.StatusOK)
		}
	}
}

func TestRouter_ListPostsWithoutAuth(t *testing.T) {
	router, mock, db := newTestRouter(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "title", "slug", "content", "author_id", "created_at", "updated_at", "author_name"}).
		AddRow("p-1", "Title", "title", "Content", "u-1", now, now, "Alice")
	mock.ExpectQuery(`SELECT (.+) FROM posts p`).WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/api/post/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"author_name":"Alice"`) {
		t.Fatalf("expected author name in listing, got %s", rec.Body.String())
	}
}

func TestRouter_StoreFailureYieldsGenericBody(t *testing.T) {
	router, mock, db := newTestRouter(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM posts p`).
		WillReturnError(errors.New("pq: connection refused host=10.0.0.7"))

	req := httptest.NewRequest(http.MethodGet, "/api/post/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("got %d want %d", rec.Code, http.StatusInternalServerError)
	}
	if msg := routerError(t, rec); msg != "internal server error" {
		t.Fatalf("500 body must be generic: got %q", msg)
	}
	if strings.Contains(rec.Body.String(), "connection refused") ||
		strings.Contains(rec.Body.String(), "pgPostRepository") {
		t.Fatalf("500 body leaks internal detail: %s", rec.Body.String())
	}
}

func TestRouter_GetMissingPostReturns404(t *testing.T) {
	router, mock, db := newTestRouter(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM posts p`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	req := httptest.NewRequest(http.MethodGet, "/api/post/ghost", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("got %d want %d", rec.Code, http.StatusNotFound)
	}
}

func TestRouter_MutationsRequireAuth(t *testing.T) {
	router, _, db := newTestRouter(t)
	defer db.Close()

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/post/"},
		{http.MethodPut, "/api/post/p-1"},
		{http.MethodDelete, "/api/post/p-1"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: got %d want %d", tc.method, tc.path, rec.Code, http.StatusUnauthorized)
		}
		if msg := routerError(t, rec); msg != "Authorization header missing" {
			t.Fatalf("%s %s: message got %q", tc.method, tc.path, msg)
		}
	}
}

func TestRouter_CreatePostWithToken(t *testing.T) {
	router, mock, db := newTestRouter(t)
	defer db.Close()

	tok, err := security.GenerateToken("u-1", "alice", "Alice")
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	mock.ExpectExec(`INSERT INTO posts`).
		WithArgs(sqlmock.AnyArg(), "My Post", "my-post", "hello", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	body := strings.NewReader(`{"title": "My Post", "content": "hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/post/", body)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d want %d, body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"slug":"my-post"`) {
		t.Fatalf("expected slug in response, got %s", rec.Body.String())
	}
}

func TestRouter_UpdateByNonOwnerForbidden(t *testing.T) {
	router, mock, db := newTestRouter(t)
	defer db.Close()

	tok, err := security.GenerateToken("u-intruder", "mallory", "Mallory")
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "title", "slug", "content", "author_id", "created_at", "updated_at", "author_name"}).
		AddRow("p-1", "Title", "title", "Content", "u-owner", now, now, "Owner")
	mock.ExpectQuery(`SELECT (.+) FROM posts p`).
		WithArgs("p-1").
		WillReturnRows(rows)

	body := strings.NewReader(`{"title": "Hijacked"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/post/p-1", body)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("got %d want %d, body %s", rec.Code, http.StatusForbidden, rec.Body.String())
	}
}

func TestRouter_DeleteByOwner(t *testing.T) {
	router, mock, db := newTestRouter(t)
	defer db.Close()

	tok, err := security.GenerateToken("u-owner", "owner", "Owner")
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "title", "slug", "content", "author_id", "created_at", "updated_at", "author_name"}).
		AddRow("p-1", "Title", "title", "Content", "u-owner", now, now, "Owner")
	mock.ExpectQuery(`SELECT (.+) FROM posts p`).
		WithArgs("p-1").
		WillReturnRows(rows)
	mock.ExpectExec(`DELETE FROM posts WHERE id = \$1`).
		WithArgs("p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodDelete, "/api/post/p-1", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Post deleted successfully") {
		t.Fatalf("expected deletion message, got %s", rec.Body.String())
	}
}

func TestRouter_RegisterAndLoginValidation(t *testing.T) {
	router, _, db := newTestRouter(t)
	defer db.Close()

	// Missing fields on register.
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"username": "a"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("register: got %d want %d", rec.Code, http.StatusBadRequest)
	}

	// Missing fields on login.
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username": "a"}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("login: got %d want %d", rec.Code, http.StatusBadRequest)
	}
}
