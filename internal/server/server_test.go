package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tasktracker/internal/config"
	"tasktracker/internal/model"
	"tasktracker/internal/repository"
	"tasktracker/internal/service"
)

// setupTestServer wires the full stack over an in-memory database.
func setupTestServer(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Session{}, &model.Task{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	cfg := config.Config{SessionTTL: 24 * time.Hour}
	authSvc := service.NewAuthService(repository.NewUserRepository(db), repository.NewSessionRepository(db), cfg.SessionTTL)
	taskSvc := service.NewTaskService(repository.NewTaskRepository(db))

	ts := httptest.NewServer(New(authSvc, taskSvc, &cfg).Handler())
	t.Cleanup(ts.Close)
	return ts, db
}

// newTestClient returns a client that keeps cookies but does not
// follow redirects, so each Location header can be asserted.
func newTestClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postForm(t *testing.T, client *http.Client, rawURL string, form url.Values) *http.Response {
	t.Helper()

	resp, err := client.PostForm(rawURL, form)
	if err != nil {
		t.Fatalf("POST %s: %v", rawURL, err)
	}
	resp.Body.Close()
	return resp
}

func wantRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
}

func fetchHome(t *testing.T, client *http.Client, baseURL string, page int) *service.TaskPage {
	t.Helper()

	resp, err := client.Get(fmt.Sprintf("%s/home?page=%d", baseURL, page))
	if err != nil {
		t.Fatalf("GET /home: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /home status = %d", resp.StatusCode)
	}
	var tasks service.TaskPage
	if err := json.NewDecoder(resp.Body).Decode(&tasks); err != nil {
		t.Fatalf("decode task page: %v", err)
	}
	return &tasks
}

func TestEndToEnd(t *testing.T) {
	ts, _ := setupTestServer(t)
	client := newTestClient(t)
	creds := url.Values{"username": {"bob"}, "password": {"pw123"}}

	resp := postForm(t, client, ts.URL+"/register", creds)
	wantRedirect(t, resp, "/login")

	resp = postForm(t, client, ts.URL+"/login", creds)
	wantRedirect(t, resp, "/home")

	resp = postForm(t, client, ts.URL+"/add_task", url.Values{
		"title":    {"Buy milk"},
		"due_date": {"2024-01-01"},
		"priority": {"High"},
	})
	wantRedirect(t, resp, "/home")

	page := fetchHome(t, client, ts.URL, 1)
	if len(page.Tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(page.Tasks))
	}
	task := page.Tasks[0]
	if task.Title != "Buy milk" || task.Priority != "High" || task.Status {
		t.Fatalf("unexpected task: %+v", task)
	}

	resp = postForm(t, client, fmt.Sprintf("%s/update_task/%d", ts.URL, task.ID), nil)
	wantRedirect(t, resp, "/home")
	if page = fetchHome(t, client, ts.URL, 1); !page.Tasks[0].Status {
		t.Fatal("expected task completed after toggle")
	}

	resp = postForm(t, client, fmt.Sprintf("%s/delete_task/%d", ts.URL, task.ID), nil)
	wantRedirect(t, resp, "/home")
	if page = fetchHome(t, client, ts.URL, 1); len(page.Tasks) != 0 || page.TotalItems != 0 {
		t.Fatalf("expected empty list after delete, got %+v", page)
	}

	// Deleting again surfaces not-found via the redirect.
	resp = postForm(t, client, fmt.Sprintf("%s/delete_task/%d", ts.URL, task.ID), nil)
	wantRedirect(t, resp, "/home?error=task+not+found")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ts, _ := setupTestServer(t)
	client := newTestClient(t)
	creds := url.Values{"username": {"alice"}, "password": {"secret"}}

	resp := postForm(t, client, ts.URL+"/register", creds)
	wantRedirect(t, resp, "/login")

	resp = postForm(t, client, ts.URL+"/register", creds)
	wantRedirect(t, resp, "/register?error=username+already+taken")

	// The first account is still usable.
	resp = postForm(t, client, ts.URL+"/login", creds)
	wantRedirect(t, resp, "/home")
}

func TestLoginInvalidCredentials(t *testing.T) {
	ts, _ := setupTestServer(t)
	client := newTestClient(t)

	postForm(t, client, ts.URL+"/register", url.Values{"username": {"alice"}, "password": {"secret"}})

	resp := postForm(t, client, ts.URL+"/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	loc, err := url.Parse(resp.Header.Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	if loc.Path != "/login" || loc.Query().Get("error") == "" {
		t.Fatalf("expected /login with error message, got %q", resp.Header.Get("Location"))
	}
}

func TestUnauthenticatedRedirects(t *testing.T) {
	ts, db := setupTestServer(t)
	client := newTestClient(t)

	resp, err := client.Get(ts.URL + "/home")
	if err != nil {
		t.Fatalf("GET /home: %v", err)
	}
	resp.Body.Close()
	wantRedirect(t, resp, "/login")

	resp, err = client.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	resp.Body.Close()
	wantRedirect(t, resp, "/login")

	for _, path := range []string{"/add_task", "/update_task/1", "/delete_task/1"} {
		resp = postForm(t, client, ts.URL+path, url.Values{"title": {"sneaky"}})
		wantRedirect(t, resp, "/login")
	}

	// No mutation happened.
	var count int64
	if err := db.Model(&model.Task{}).Count(&count).Error; err != nil {
		t.Fatalf("count tasks: %v", err)
	}
	if count != 0 {
		t.Errorf("unauthenticated request created %d tasks", count)
	}
}

func TestLogout(t *testing.T) {
	ts, _ := setupTestServer(t)
	client := newTestClient(t)
	creds := url.Values{"username": {"alice"}, "password": {"secret"}}

	postForm(t, client, ts.URL+"/register", creds)
	postForm(t, client, ts.URL+"/login", creds)

	resp, err := client.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	resp.Body.Close()
	wantRedirect(t, resp, "/home")

	resp, err = client.Get(ts.URL + "/logout")
	if err != nil {
		t.Fatalf("GET /logout: %v", err)
	}
	resp.Body.Close()
	wantRedirect(t, resp, "/login")

	resp, err = client.Get(ts.URL + "/home")
	if err != nil {
		t.Fatalf("GET /home: %v", err)
	}
	resp.Body.Close()
	wantRedirect(t, resp, "/login")

	// Logging out with no session is still fine.
	resp, err = newTestClient(t).Get(ts.URL + "/logout")
	if err != nil {
		t.Fatalf("GET /logout: %v", err)
	}
	resp.Body.Close()
	wantRedirect(t, resp, "/login")
}

func TestHomeDefaultsPage(t *testing.T) {
	ts, _ := setupTestServer(t)
	client := newTestClient(t)
	creds := url.Values{"username": {"alice"}, "password": {"secret"}}

	postForm(t, client, ts.URL+"/register", creds)
	postForm(t, client, ts.URL+"/login", creds)
	postForm(t, client, ts.URL+"/add_task", url.Values{"title": {"only task"}})

	// Non-numeric page falls back to 1.
	resp, err := client.Get(ts.URL + "/home?page=abc")
	if err != nil {
		t.Fatalf("GET /home: %v", err)
	}
	defer resp.Body.Close()

	var page service.TaskPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatalf("decode task page: %v", err)
	}
	if page.Page != 1 || len(page.Tasks) != 1 {
		t.Fatalf("expected page 1 with 1 task, got page %d with %d", page.Page, len(page.Tasks))
	}
}

func TestAddTaskWithoutTitle(t *testing.T) {
	ts, db := setupTestServer(t)
	client := newTestClient(t)
	creds := url.Values{"username": {"alice"}, "password": {"secret"}}

	postForm(t, client, ts.URL+"/register", creds)
	postForm(t, client, ts.URL+"/login", creds)

	resp := postForm(t, client, ts.URL+"/add_task", url.Values{"description": {"no title"}})
	wantRedirect(t, resp, "/home?error=title+is+required")

	var count int64
	if err := db.Model(&model.Task{}).Count(&count).Error; err != nil {
		t.Fatalf("count tasks: %v", err)
	}
	if count != 0 {
		t.Errorf("invalid task was persisted")
	}
}
