package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"triquery/internal/app"
	"triquery/internal/auth"
	"triquery/internal/extract"
	"triquery/internal/httputil"
	"triquery/internal/orchestrator"
)

type submitRequest struct {
	Question string `json:"question" validate:"required,min=1,max=4000"`
	ParentID string `json:"parent_id" validate:"omitempty,uuid4"`
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	r := httputil.NewRouter(deps.Log)
	r.Use(auth.Middleware(deps.Auth, deps.Log))

	r.Post("/api/query", submitHandler(deps))
	r.Get("/api/query/{id}", getHandler(deps))
	r.Get("/api/history", historyHandler(deps))
	r.Delete("/api/query/{id}", deleteHandler(deps))
	r.Post("/api/extract", extractHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	deps.Log.Info("gateway listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		deps.Log.Error("server failed", "err", err)
	}
}

// sessionKey maps the request identity to an orchestrator session. Anonymous
// requests share the unauthenticated session and are never persisted.
func sessionKey(r *http.Request) string {
	if user := auth.FromContext(r.Context()); user != nil {
		return user.ID
	}
	return ""
}

func submitHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		parentID := uuid.Nil
		if req.ParentID != "" {
			id, err := uuid.Parse(req.ParentID)
			if err != nil {
				httputil.Fail(deps.Log, w, "invalid parent id", err, http.StatusBadRequest)
				return
			}
			parentID = id
		}

		session := deps.Orchestrator.Session(sessionKey(r))
		rec, err := session.Submit(r.Context(), req.Question, parentID)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, orchestrator.ErrParentNotFound) {
				status = http.StatusNotFound
			}
			httputil.Fail(deps.Log, w, "failed to submit query", err, status)
			return
		}
		httputil.WriteJSON(w, http.StatusAccepted, rec)
	}
}

func getHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.Fail(deps.Log, w, "invalid query id", err, http.StatusBadRequest)
			return
		}
		rec, ok := deps.Orchestrator.Session(sessionKey(r)).Get(id)
		if !ok {
			httputil.Fail(deps.Log, w, "query not found", nil, http.StatusNotFound)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, rec)
	}
}

func historyHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := deps.Config.HistoryLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > 100 {
				httputil.Fail(deps.Log, w, "invalid limit", err, http.StatusBadRequest)
				return
			}
			limit = n
		}

		user := auth.FromContext(r.Context())
		session := deps.Orchestrator.Session(sessionKey(r))
		body := map[string]any{
			"session": session.List(),
		}

		// Stored history exists only for signed-in users.
		if user != nil {
			stored, err := storedHistory(r, deps, user.ID, limit)
			if err != nil {
				httputil.Fail(deps.Log, w, "failed to load history", err, http.StatusInternalServerError)
				return
			}
			body["stored"] = stored
		}
		httputil.WriteJSON(w, http.StatusOK, body)
	}
}

func storedHistory(r *http.Request, deps app.Deps, userID string, limit int) (any, error) {
	ctx := r.Context()
	if cached, err := deps.Cache.GetRecent(ctx, userID); err == nil && cached != nil {
		deps.Log.Debug("history cache hit", "user", userID)
		if len(cached) > limit {
			cached = cached[:limit]
		}
		return cached, nil
	} else if err != nil {
		deps.Log.Warn("history cache read failed", "err", err)
	}

	recs, err := deps.Store.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	ttl := time.Duration(deps.Config.HistoryCacheTTL) * time.Second
	if err := deps.Cache.SetRecent(ctx, userID, recs, ttl); err != nil {
		deps.Log.Warn("failed to cache history", "err", err)
	}
	return recs, nil
}

// deleteHandler removes a record from the in-memory session only; stored
// history is untouched.
func deleteHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.Fail(deps.Log, w, "invalid query id", err, http.StatusBadRequest)
			return
		}
		if !deps.Orchestrator.Session(sessionKey(r)).Remove(id) {
			httputil.Fail(deps.Log, w, "query not found", nil, http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func extractHandler(deps app.Deps) http.HandlerFunc {
	maxFileSize := deps.Config.MaxUploadSize

	return func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			httputil.Fail(deps.Log, w, "file is required", err, http.StatusBadRequest)
			return
		}
		defer file.Close()

		if header.Size > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}

		content, err := io.ReadAll(file)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to read file", err, http.StatusInternalServerError)
			return
		}

		text, err := extract.Text(header.Filename, header.Header.Get("Content-Type"), content)
		switch {
		case errors.Is(err, extract.ErrUnsupportedType):
			httputil.Fail(deps.Log, w, "unsupported file type (pdf, txt, md, csv allowed)", err, http.StatusBadRequest)
			return
		case errors.Is(err, extract.ErrTooLarge):
			httputil.Fail(deps.Log, w, err.Error(), err, http.StatusBadRequest)
			return
		case err != nil:
			httputil.Fail(deps.Log, w, "failed to extract text", err, http.StatusBadRequest)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"filename": header.Filename,
			"text":     text,
			"chars":    len(text),
		})
	}
}
