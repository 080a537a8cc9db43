// Package server exposes the calculator over a JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/iwvelando/ltv-leverage/internal/mode"
	"github.com/iwvelando/ltv-leverage/pkg/leverage"
	"go.uber.org/zap"
)

type handler struct {
	logger         *zap.Logger
	controller     *mode.Controller
	sessions       *sessionStore
	metrics        *metrics
	maxRequestSize int64
	version        string
}

// NewHandler constructs the HTTP handler that serves the calculator API.
// A nil cfg uses DefaultConfig.
func NewHandler(logger *zap.Logger, cfg *Config, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	m := newMetrics()
	controller := mode.NewController(logger, cfg.CurveSamples)
	h := &handler{
		logger:         logger,
		controller:     controller,
		sessions:       newSessionStore(controller, cfg.MaxSessions, func(n int) { m.sessions.Set(float64(n)) }),
		metrics:        m,
		maxRequestSize: cfg.RequestSizeBytes(),
		version:        trimmedVersion,
	}

	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", m.handler())

	r.Route("/api", func(api chi.Router) {
		api.With(m.middleware("version")).Get("/version", h.handleVersion)
		api.With(m.middleware("modes")).Get("/modes", h.handleModes)
		api.With(m.middleware("chart.reference")).Get("/chart/reference", h.handleReferenceChart)
		api.With(m.middleware("compute")).Post("/compute", h.handleCompute)

		api.Route("/sessions", func(sr chi.Router) {
			sr.Use(m.middleware("sessions"))
			sr.Post("/", h.handleCreateSession)
			sr.Get("/{id}", h.handleGetSession)
			sr.Delete("/{id}", h.handleDeleteSession)
			sr.Put("/{id}/mode", h.handleSelectMode)
			sr.Put("/{id}/inputs", h.handleSetInputs)
		})
	})

	return r
}

type computeRequest struct {
	Mode   string             `json:"mode"`
	Inputs map[string]float64 `json:"inputs"`
}

type selectModeRequest struct {
	Mode string `json:"mode"`
}

type sessionResponse struct {
	ID     string            `json:"id"`
	Active mode.Mode         `json:"active"`
	Inputs mode.Inputs       `json:"inputs"`
	State  mode.DerivedState `json:"state"`
}

type modesResponse struct {
	Modes    []mode.Descriptor `json:"modes"`
	Defaults mode.Inputs       `json:"defaults"`
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleModes(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, modesResponse{
		Modes:    mode.Descriptors(),
		Defaults: mode.DefaultInputs(),
	})
}

func (h *handler) handleReferenceChart(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.controller.Charts().Reference())
}

func (h *handler) handleCompute(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompute"
	start := time.Now()

	var req computeRequest
	if err := h.decode(w, r, &req); err != nil {
		h.respondError(w, err, op)
		return
	}

	m, err := mode.ParseMode(req.Mode)
	if err != nil {
		h.respondError(w, err, op)
		return
	}

	inputs, err := applyInputs(mode.DefaultInputs(), req.Inputs)
	if err != nil {
		h.respondError(w, err, op)
		return
	}

	state, err := h.controller.ComputeClamped(m, inputs)
	h.metrics.observeComputation(m.String(), err)
	if err != nil {
		h.respondError(w, err, op)
		return
	}

	h.logger.Info("derived state computed",
		zap.String("op", op),
		zap.Stringer("mode", m),
		zap.Float64("leverage", state.Leverage),
		zap.Float64("effectiveLTV", state.EffectiveLTV),
		zap.Duration("duration", time.Since(start)),
	)
	h.writeJSON(w, http.StatusOK, state)
}

func (h *handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCreateSession"

	id, state, err := h.sessions.create()
	if err != nil {
		h.respondError(w, err, op)
		return
	}

	h.logger.Info("session created",
		zap.String("op", op),
		zap.String("session", id.String()),
		zap.Int("sessions", h.sessions.len()),
	)
	h.writeJSON(w, http.StatusCreated, sessionResponse{
		ID:     id.String(),
		Active: state.Mode,
		Inputs: mode.DefaultInputs(),
		State:  state,
	})
}

func (h *handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, "server.handleGetSession", func(*mode.Session) error { return nil })
}

func (h *handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeleteSession"

	id, err := sessionID(r)
	if err != nil {
		h.respondError(w, err, op)
		return
	}
	if err := h.sessions.remove(id); err != nil {
		h.respondError(w, err, op)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleSelectMode(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSelectMode"

	var req selectModeRequest
	if err := h.decode(w, r, &req); err != nil {
		h.respondError(w, err, op)
		return
	}
	m, err := mode.ParseMode(req.Mode)
	if err != nil {
		h.respondError(w, err, op)
		return
	}

	h.withSession(w, r, op, func(s *mode.Session) error {
		return s.Select(m)
	})
}

func (h *handler) handleSetInputs(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSetInputs"

	var req map[string]float64
	if err := h.decode(w, r, &req); err != nil {
		h.respondError(w, err, op)
		return
	}

	h.withSession(w, r, op, func(s *mode.Session) error {
		d, err := mode.Describe(s.Active())
		if err != nil {
			return err
		}
		fields, err := parseFields(req)
		if err != nil {
			return err
		}
		// Check every field before writing any so a bad request leaves the session untouched.
		for _, f := range fields {
			if !d.Owns(f) {
				return fmt.Errorf("%w: %s does not read %s", mode.ErrFieldNotInMode, s.Active(), f)
			}
		}
		for _, f := range fields {
			if _, err := s.Set(f, req[string(f)]); err != nil {
				return err
			}
		}
		return nil
	})
}

// withSession applies fn to the session named in the URL, recomputes its
// state and writes the session response.
func (h *handler) withSession(w http.ResponseWriter, r *http.Request, op string, fn func(*mode.Session) error) {
	id, err := sessionID(r)
	if err != nil {
		h.respondError(w, err, op)
		return
	}

	var resp sessionResponse
	var computeErr error
	err = h.sessions.with(id, func(s *mode.Session) error {
		if err := fn(s); err != nil {
			return err
		}
		inputs, err := s.Inputs(s.Active())
		if err != nil {
			return err
		}
		state, err := s.Current()
		computeErr = err
		h.metrics.observeComputation(s.Active().String(), err)
		resp = sessionResponse{ID: id.String(), Active: s.Active(), Inputs: inputs, State: state}
		return nil
	})
	if err == nil {
		err = computeErr
	}
	if err != nil {
		h.respondError(w, err, op)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func sessionID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errSessionNotFound
	}
	return id, nil
}

// applyInputs overlays the named raw values on base.
func applyInputs(base mode.Inputs, raw map[string]float64) (mode.Inputs, error) {
	fields, err := parseFields(raw)
	if err != nil {
		return base, err
	}
	for _, f := range fields {
		base, err = base.With(f, raw[string(f)])
		if err != nil {
			return base, err
		}
	}
	return base, nil
}

// parseFields canonicalises the keys of raw in place and returns them sorted.
func parseFields(raw map[string]float64) ([]mode.Field, error) {
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fields := make([]mode.Field, 0, len(keys))
	for _, key := range keys {
		f, err := mode.ParseField(key)
		if err != nil {
			return nil, err
		}
		if string(f) != key {
			raw[string(f)] = raw[key]
			delete(raw, key)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string {
	return e.msg
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if h.maxRequestSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return &requestError{status: http.StatusRequestEntityTooLarge, msg: fmt.Sprintf("request exceeds limit of %d bytes", h.maxRequestSize)}
		}
		return &requestError{status: http.StatusBadRequest, msg: fmt.Sprintf("failed to decode request: %v", err)}
	}
	return nil
}

func statusFor(err error) int {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		return reqErr.status
	case errors.Is(err, mode.ErrUnknownMode),
		errors.Is(err, mode.ErrUnknownField),
		errors.Is(err, mode.ErrFieldNotInMode):
		return http.StatusBadRequest
	case errors.Is(err, leverage.ErrDomain):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, errSessionsFull):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (h *handler) respondError(w http.ResponseWriter, err error, op string) {
	status := statusFor(err)
	log := h.logger.Warn
	if status >= http.StatusInternalServerError {
		log = h.logger.Error
	}
	log("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.Error(err),
	)
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
