package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/cloud-ru/finsim-go/internal/calculations"
	"github.com/cloud-ru/finsim-go/internal/config"
	"github.com/cloud-ru/finsim-go/internal/countdown"
	"github.com/cloud-ru/finsim-go/internal/export"
	"github.com/cloud-ru/finsim-go/internal/metrics"
	"github.com/cloud-ru/finsim-go/internal/notify"
	"github.com/cloud-ru/finsim-go/internal/tools"
	"github.com/cloud-ru/finsim-go/internal/validators"
)

// LoanMailer отправляет отчет по кредиту
type LoanMailer interface {
	SendLoanReport(to string, in calculations.LoanInputs, result calculations.AmortizationResult) error
}

// Server HTTP API поверх реестра инструментов
type Server struct {
	cfg    *config.Config
	log    logrus.FieldLogger
	tools  *tools.Registry
	ticker *countdown.Ticker
	mailer LoanMailer
	router *mux.Router
}

// New собирает маршруты API
func New(cfg *config.Config, log logrus.FieldLogger, registry *tools.Registry, ticker *countdown.Ticker, mailer LoanMailer) *Server {
	s := &Server{
		cfg:    cfg,
		log:    log,
		tools:  registry,
		ticker: ticker,
		mailer: mailer,
		router: mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(s.instrumentMiddleware)

	// Public routes
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Protected routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(AuthMiddleware(s.cfg.JWTSecret))
	api.HandleFunc("/tools", s.handleListTools).Methods(http.MethodGet)
	api.HandleFunc("/tools/{name}", s.handleCallTool).Methods(http.MethodPost)
	api.HandleFunc("/loan/export", s.handleLoanExport).Methods(http.MethodPost)
	api.HandleFunc("/loan/email", s.handleLoanEmail).Methods(http.MethodPost)
	api.HandleFunc("/countdown", s.handleGetCountdown).Methods(http.MethodGet)
	api.HandleFunc("/countdown", s.handleSetCountdown).Methods(http.MethodPut)
}

// Handler корневой обработчик
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer сервер с таймаутами чтения и записи
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrumentMiddleware пишет длительность запроса в гистограмму и лог
func (s *Server) instrumentMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		metrics.RequestDuration.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"route":    route,
			"status":   rec.status,
			"duration": elapsed.String(),
		}).Debug("request handled")
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor сопоставляет ошибку HTTP-статусу
func statusFor(err error) int {
	switch {
	case errors.Is(err, tools.ErrUnknownTool):
		return http.StatusNotFound
	case errors.Is(err, tools.ErrInvalidParams), errors.Is(err, notify.ErrInvalidRecipient):
		return http.StatusBadRequest
	case errors.Is(err, notify.ErrMailerDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func decodeBody(r *http.Request) (map[string]interface{}, error) {
	params := map[string]interface{}{}
	if r.ContentLength == 0 {
		return params, nil
	}
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		return nil, fmt.Errorf("%w: request body must be a JSON object: %v", tools.ErrInvalidParams, err)
	}
	return params, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"tools": s.tools.Names()})
}

func (s *Server) handleCallTool(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	params, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.log.WithFields(logrus.Fields{
		"tool":    name,
		"subject": SubjectFromContext(r.Context()),
	}).Debug("tool called")

	result, err := s.tools.Call(r.Context(), name, params)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.log.WithField("tool", name).Errorf("Tool call failed: %v", err)
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) loanFromRequest(r *http.Request) (tools.Params, calculations.LoanInputs, calculations.AmortizationResult, error) {
	body, err := decodeBody(r)
	if err != nil {
		return nil, calculations.LoanInputs{}, calculations.AmortizationResult{}, err
	}
	params := tools.Params(body)
	in, err := tools.ParseLoanInputs(s.cfg, params)
	if err != nil {
		return nil, in, calculations.AmortizationResult{}, err
	}
	return params, in, calculations.ComputeAmortizationSchedule(in), nil
}

func (s *Server) handleLoanExport(w http.ResponseWriter, r *http.Request) {
	_, in, result, err := s.loanFromRequest(r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	data, err := export.ScheduleXML(in, result)
	if err != nil {
		s.log.Errorf("Failed to export schedule: %v", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", notify.ScheduleAttachment))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleLoanEmail(w http.ResponseWriter, r *http.Request) {
	params, in, result, err := s.loanFromRequest(r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	to, err := params.String("to")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.mailer.SendLoanReport(to, in, result); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent", "to": to})
}

// countdownResponse снимок обратного отсчета с необязательным прогнозом
type countdownResponse struct {
	countdown.Snapshot
	Forecast *float64 `json:"forecast,omitempty"`
}

func (s *Server) handleGetCountdown(w http.ResponseWriter, r *http.Request) {
	snap := s.ticker.Snapshot()
	if snap.EvaluatedAt.IsZero() {
		snap = s.ticker.Refresh()
	}
	resp := countdownResponse{Snapshot: snap}

	q := r.URL.Query()
	if raw := q.Get("avg_daily"); raw != "" {
		avg, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("%w: avg_daily: %v", tools.ErrInvalidParams, err))
			return
		}
		current := 0.0
		if raw := q.Get("current_total"); raw != "" {
			if current, err = strconv.ParseFloat(raw, 64); err != nil {
				writeError(w, http.StatusBadRequest, fmt.Errorf("%w: current_total: %v", tools.ErrInvalidParams, err))
				return
			}
		}
		forecast := calculations.ForecastTotal(avg, float64(snap.Remaining.Days), float64(snap.Remaining.Hours), current)
		for _, check := range []error{
			validators.CheckFinite("avg_daily", avg),
			validators.CheckFinite("current_total", current),
			validators.CheckFinite("forecast", forecast),
		} {
			if check != nil {
				writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", tools.ErrInvalidParams, check))
				return
			}
		}
		resp.Forecast = &forecast
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetCountdown(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	raw, err := tools.Params(body).String("target_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	target, ok := calculations.ParseTargetDate(raw, s.cfg.Location())
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: cannot parse target_date %q", tools.ErrInvalidParams, raw))
		return
	}
	writeJSON(w, http.StatusOK, countdownResponse{Snapshot: s.ticker.SetTarget(target)})
}
