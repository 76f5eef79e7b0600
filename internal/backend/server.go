// Package backend is a local stand-in for the remote visitor API, backed by
// sqlite. It enforces the same request-body rules as the hosted service so
// the console can be run and tested end to end without it.
package backend

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"visitor-console/internal/catalog"
	"visitor-console/internal/model"
	"visitor-console/internal/store"
	"visitor-console/pkg/router"
	"visitor-console/pkg/utils"

	"go.uber.org/zap"
)

// DefaultQueryLimit caps list responses when no limit is given.
const DefaultQueryLimit = 1000

// Server serves the remote API routes.
type Server struct {
	store      *store.Store
	catalog    *catalog.Catalog
	logger     *zap.Logger
	apiKey     string
	bareVisits bool
	now        func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithAPIKey requires a matching X-Api-Key header on every request.
func WithAPIKey(key string) Option { return func(s *Server) { s.apiKey = key } }

// WithBareVisits answers visit lists with a bare JSON array.
func WithBareVisits() Option { return func(s *Server) { s.bareVisits = true } }

// WithClock replaces the clock used by the qualifications refresh.
func WithClock(now func() time.Time) Option { return func(s *Server) { s.now = now } }

func NewServer(st *store.Store, cat *catalog.Catalog, logger *zap.Logger, opts ...Option) *Server {
	s := &Server{store: st, catalog: cat, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterRoutes mounts the API on r.
func (s *Server) RegisterRoutes(r *router.Router) {
	key := s.requireKey
	r.GET("/equipment", s.listEquipment, key)
	r.POST("/equipment", s.createEquipment, key)
	r.GET("/equipment/*", s.userEquipment, key)
	r.PATCH("/equipment/*", s.patchEquipment, key)

	r.GET("/visits", s.listVisits, key)
	r.POST("/visits", s.createVisit, key)
	r.GET("/visits/*", s.userVisits, key)

	r.POST("/qualifications", s.createQualifications, key)
	r.GET("/qualifications/*", s.getQualifications, key)

	r.POST("/users", s.createUser, key)
	r.GET("/users/*", s.getUser, key)

	r.GET("/tiger_training", s.refreshTrainings, key)
}

func (s *Server) requireKey(next router.HandlerFunc) router.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey != "" && r.Header.Get("X-Api-Key") != s.apiKey {
			writeJSON(w, http.StatusForbidden, map[string]string{"message": "Forbidden"})
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func errorMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"errorMsg": msg})
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	var ib *InvalidBodyError
	if errors.As(err, &ib) {
		errorMsg(w, http.StatusBadRequest, ib.Msg)
		return
	}
	s.logger.Error("backend request failed", zap.Error(err))
	errorMsg(w, http.StatusInternalServerError, "Something went wrong on the server.")
}

func decode(r *http.Request, v any) error {
	if r.Body == nil {
		return invalid("REST method %s requires a request body.", r.Method)
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return invalid("Request body is not valid JSON.")
	}
	return nil
}

func limitOf(r *http.Request) int {
	return utils.ParseLimit(r.URL.Query().Get("limit"), DefaultQueryLimit, DefaultQueryLimit)
}

func userParam(r *http.Request, pattern string) (string, error) {
	userID := router.Param(r, pattern, 0)
	if err := checkUserID(userID); err != nil {
		return "", err
	}
	return userID, nil
}

func (s *Server) listEquipment(w http.ResponseWriter, r *http.Request) {
	logs, err := s.store.ListEquipment(r.Context(), "", limitOf(r))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"equipment_logs": logs})
}

func (s *Server) userEquipment(w http.ResponseWriter, r *http.Request) {
	userID, err := userParam(r, "/equipment/*")
	if err != nil {
		s.fail(w, err)
		return
	}
	logs, err := s.store.ListEquipment(r.Context(), userID, limitOf(r))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"equipment_logs": logs})
}

func (s *Server) createEquipment(w http.ResponseWriter, r *http.Request) {
	var rec store.Record
	if err := decode(r, &rec); err != nil {
		s.fail(w, err)
		return
	}
	rec, err := ValidateEquipment(s.catalog, rec)
	if err != nil {
		s.fail(w, err)
		return
	}

	err = s.store.InsertEquipment(r.Context(), rec)
	if errors.Is(err, store.ErrDuplicate) {
		errorMsg(w, http.StatusBadRequest, "Equipment usage entry for user "+rec["user_id"].(string)+" at timestamp "+
			rec["timestamp"].(string)+" already exists. Did you mean to input a different user or timestamp?")
		return
	}
	if err != nil {
		s.fail(w, err)
		return
	}
	s.logger.Debug("equipment log stored", zap.Any("user_id", rec["user_id"]), zap.Any("timestamp", rec["timestamp"]))
	writeJSON(w, http.StatusCreated, map[string]any{})
}

func (s *Server) patchEquipment(w http.ResponseWriter, r *http.Request) {
	userID, err := userParam(r, "/equipment/*")
	if err != nil {
		s.fail(w, err)
		return
	}
	var fields store.Record
	if err := decode(r, &fields); err != nil {
		s.fail(w, err)
		return
	}
	if _, ok := fields["user_id"]; ok {
		errorMsg(w, http.StatusBadRequest, "Updating the 'user_id' field is not allowed. Please remove it before trying to update user "+userID+"'s information.")
		return
	}

	var current store.Record
	if ts, ok := fields["timestamp"].(string); ok {
		current, err = s.store.GetEquipment(r.Context(), userID, ts)
	} else {
		var latest []store.Record
		latest, err = s.store.ListEquipment(r.Context(), userID, 1)
		if err == nil && len(latest) == 0 {
			err = store.ErrNotFound
		}
		if err == nil {
			current = latest[0]
		}
	}
	if errors.Is(err, store.ErrNotFound) {
		errorMsg(w, http.StatusBadRequest, "Equipment usage logs for "+userID+" could not be found. Did you mean to add a usage log?")
		return
	}
	if err != nil {
		s.fail(w, err)
		return
	}

	delete(fields, "timestamp")
	for k, v := range fields {
		current[k] = v
	}
	current, err = ValidateEquipment(s.catalog, current)
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := s.store.ReplaceEquipment(r.Context(), current); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeVisits(w http.ResponseWriter, visits []model.Visit) {
	if s.bareVisits {
		writeJSON(w, http.StatusOK, visits)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"visits": visits})
}

func (s *Server) listVisits(w http.ResponseWriter, r *http.Request) {
	visits, err := s.store.ListVisits(r.Context(), "", limitOf(r))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeVisits(w, visits)
}

func (s *Server) userVisits(w http.ResponseWriter, r *http.Request) {
	userID, err := userParam(r, "/visits/*")
	if err != nil {
		s.fail(w, err)
		return
	}
	visits, err := s.store.ListVisits(r.Context(), userID, limitOf(r))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeVisits(w, visits)
}

func (s *Server) createVisit(w http.ResponseWriter, r *http.Request) {
	var v model.Visit
	if err := decode(r, &v); err != nil {
		s.fail(w, err)
		return
	}
	if err := ValidateVisit(s.catalog, v); err != nil {
		s.fail(w, err)
		return
	}
	err := s.store.InsertVisit(r.Context(), v)
	if errors.Is(err, store.ErrDuplicate) {
		errorMsg(w, http.StatusBadRequest, "Visit entry for user "+v.UserID+" at timestamp "+v.Timestamp+
			" already exists. Did you mean to input a different user or timestamp?")
		return
	}
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{})
}

func (s *Server) createQualifications(w http.ResponseWriter, r *http.Request) {
	var q model.Qualifications
	if err := decode(r, &q); err != nil {
		s.fail(w, err)
		return
	}
	if err := ValidateQualifications(s.catalog, q); err != nil {
		s.fail(w, err)
		return
	}
	if q.LastUpdated == "" {
		q.LastUpdated = s.now().UTC().Format(model.TimestampLayout)
	}
	if err := s.store.PutQualifications(r.Context(), q); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{})
}

func (s *Server) getQualifications(w http.ResponseWriter, r *http.Request) {
	userID, err := userParam(r, "/qualifications/*")
	if err != nil {
		s.fail(w, err)
		return
	}
	q, err := s.store.GetQualifications(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		errorMsg(w, http.StatusNotFound, "No qualifications for the user "+userID+" could be found. Is there a typo?")
		return
	}
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) refreshTrainings(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.TouchQualifications(r.Context(), s.now().UTC().Format(model.TimestampLayout))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.logger.Info("qualifications refreshed", zap.Int("users", n))
	writeJSON(w, http.StatusOK, map[string]any{"updated": n})
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var rec store.Record
	if err := decode(r, &rec); err != nil {
		s.fail(w, err)
		return
	}
	rec, err := ValidateUser(s.catalog, rec)
	if err != nil {
		s.fail(w, err)
		return
	}
	err = s.store.InsertUser(r.Context(), rec)
	if errors.Is(err, store.ErrDuplicate) {
		errorMsg(w, http.StatusBadRequest, "User "+rec["user_id"].(string)+" information already exists. Did you mean to update?")
		return
	}
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{})
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	userID, err := userParam(r, "/users/*")
	if err != nil {
		s.fail(w, err)
		return
	}
	rec, err := s.store.GetUser(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		errorMsg(w, http.StatusNotFound, "No information for the user "+userID+" could be found. Is there a typo?")
		return
	}
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
