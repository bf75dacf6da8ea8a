package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"tasktracker/internal/service"
)

// pageInfo is the JSON body for the login and register entry points.
// HTML rendering is out of scope, so pages are small JSON descriptors
// and the error query parameter stands in for flash messages.
type pageInfo struct {
	Page  string `json:"page"`
	Error string `json:"error,omitempty"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authSvc.Authenticate(r.Context(), sessionToken(r)); err == nil {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pageInfo{Page: "register", Error: r.URL.Query().Get("error")})
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pageInfo{Page: "login", Error: r.URL.Query().Get("error")})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	_, err := s.authSvc.Register(r.Context(), username, password)
	switch {
	case err == nil:
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case errors.Is(err, service.ErrDuplicateUsername), errors.Is(err, service.ErrValidation):
		redirectWithError(w, r, "/register", err.Error())
	default:
		log.Printf("[warn] register: %v", err)
		redirectWithError(w, r, "/register", "there was an issue creating your account")
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	session, err := s.authSvc.Login(r.Context(), username, password)
	switch {
	case err == nil:
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    session.Token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(s.config.SessionTTL.Seconds()),
		})
		http.Redirect(w, r, "/home", http.StatusSeeOther)
	case errors.Is(err, service.ErrInvalidCredentials):
		redirectWithError(w, r, "/login", "Invalid credentials. Please try again.")
	default:
		log.Printf("[warn] login: %v", err)
		redirectWithError(w, r, "/login", "there was an issue signing you in")
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.authSvc.Logout(r.Context(), sessionToken(r)); err != nil {
		log.Printf("[warn] logout: %v", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	tasks, err := s.taskSvc.List(r.Context(), user, page)
	if err != nil {
		log.Printf("[warn] list tasks for user %d: %v", user.ID, err)
		writeJSON(w, http.StatusInternalServerError, pageInfo{Page: "home", Error: "could not load tasks"})
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	input := service.TaskInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		DueDate:     r.FormValue("due_date"),
		Priority:    r.FormValue("priority"),
	}

	_, err := s.taskSvc.Create(r.Context(), user, input)
	switch {
	case err == nil:
		http.Redirect(w, r, "/home", http.StatusSeeOther)
	case errors.Is(err, service.ErrTitleRequired):
		redirectWithError(w, r, "/home", err.Error())
	default:
		log.Printf("[warn] add task for user %d: %v", user.ID, err)
		redirectWithError(w, r, "/home", "there was an issue adding your task")
	}
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	taskID, ok := taskIDFrom(r)
	if !ok {
		redirectWithError(w, r, "/home", "task not found")
		return
	}

	_, err := s.taskSvc.Toggle(r.Context(), user, taskID)
	switch {
	case err == nil:
		http.Redirect(w, r, "/home", http.StatusSeeOther)
	case errors.Is(err, service.ErrTaskNotFound):
		redirectWithError(w, r, "/home", "task not found")
	default:
		log.Printf("[warn] toggle task %d for user %d: %v", taskID, user.ID, err)
		redirectWithError(w, r, "/home", "there was an issue updating your task")
	}
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	taskID, ok := taskIDFrom(r)
	if !ok {
		redirectWithError(w, r, "/home", "task not found")
		return
	}

	err := s.taskSvc.Delete(r.Context(), user, taskID)
	switch {
	case err == nil:
		http.Redirect(w, r, "/home", http.StatusSeeOther)
	case errors.Is(err, service.ErrTaskNotFound):
		redirectWithError(w, r, "/home", "task not found")
	default:
		log.Printf("[warn] delete task %d for user %d: %v", taskID, user.ID, err)
		redirectWithError(w, r, "/home", "there was an issue deleting your task")
	}
}

func taskIDFrom(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["task_id"], 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func redirectWithError(w http.ResponseWriter, r *http.Request, path, msg string) {
	q := url.Values{"error": {msg}}
	http.Redirect(w, r, path+"?"+q.Encode(), http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[warn] encode response: %v", err)
	}
}
