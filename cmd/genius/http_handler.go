package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fystack/lottery-genius/internal/events"
	"github.com/fystack/lottery-genius/internal/export"
	"github.com/fystack/lottery-genius/internal/history"
	"github.com/fystack/lottery-genius/internal/lottery"
	"github.com/fystack/lottery-genius/pkg/common/config"
	"github.com/fystack/lottery-genius/pkg/common/constant"
	"github.com/fystack/lottery-genius/pkg/common/logger"
)

const (
	minTickets = 1
	maxTickets = 50
)

type InfoResponse struct {
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Source    string    `json:"source"`
	Endpoints []string  `json:"endpoints"`
	Timestamp time.Time `json:"timestamp"`
}

type HealthResponse struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	Upstream  map[string]any `json:"upstream,omitempty"`
}

type APIErrorResponse struct {
	Success   bool      `json:"success"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

type LatestResponse struct {
	Success bool         `json:"success"`
	Data    lottery.Draw `json:"data"`
}

type TicketView struct {
	Numbers  lottery.Ticket         `json:"dezenas"`
	Analysis lottery.TicketAnalysis `json:"analise"`
}

type GenerateResponse struct {
	Success      bool                   `json:"success"`
	LatestResult *lottery.Draw          `json:"ultimo_resultado"`
	Frequencies  lottery.FrequencyTable `json:"frequencias"`
	Tickets      []TicketView           `json:"jogos"`
	Count        int                    `json:"qtd_jogos"`
	Size         int                    `json:"dezenas_por_jogo"`
}

type AnalyzeResponse struct {
	Success  bool                   `json:"success"`
	Numbers  lottery.Ticket         `json:"dezenas"`
	Analysis lottery.TicketAnalysis `json:"analise"`
}

type GeniusHTTPHandler struct {
	version   string
	source    string
	history   *history.Service
	generator *lottery.Generator
	emitter   events.Emitter
	defaults  config.GeneratorConfig
	stats     func() map[string]any
}

func NewGeniusHTTPHandler(
	version string,
	source string,
	historySvc *history.Service,
	generator *lottery.Generator,
	emitter events.Emitter,
	defaults config.GeneratorConfig,
	stats func() map[string]any,
) *GeniusHTTPHandler {
	if emitter == nil {
		emitter = events.Noop{}
	}
	return &GeniusHTTPHandler{
		version:   version,
		source:    source,
		history:   historySvc,
		generator: generator,
		emitter:   emitter,
		defaults:  defaults,
		stats:     stats,
	}
}

var endpoints = []string{
	"/",
	"/ping",
	"/health",
	"/jogos",
	"/download_txt",
	"/lotofacil/ultimo",
	"/analisar",
}

func (h *GeniusHTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", h.HandleInfo)
	mux.HandleFunc("/ping", h.HandlePing)
	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc("/jogos", h.HandleGenerate)
	mux.HandleFunc("/download_txt", h.HandleDownload)
	mux.HandleFunc("/lotofacil/ultimo", h.HandleLatest)
	mux.HandleFunc("/lotofacil/ultimo/", h.HandleLatest)
	mux.HandleFunc("/analisar", h.HandleAnalyze)
}

func (h *GeniusHTTPHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeErrorJSON(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method == http.MethodPost {
		h.HandleGenerate(w, r)
		return
	}
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, InfoResponse{
		Name:      constant.ServiceName,
		Status:    "ok",
		Version:   h.version,
		Source:    h.source,
		Endpoints: endpoints,
		Timestamp: time.Now().UTC(),
	})
}

func (h *GeniusHTTPHandler) HandlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

func (h *GeniusHTTPHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   h.version,
	}
	if h.stats != nil {
		resp.Upstream = h.stats()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *GeniusHTTPHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	count, size := h.generationParams(r, h.defaults.DefaultTickets)
	freq, latest := h.history.Frequencies(r.Context())

	tickets, err := h.generate(count, size, freq, latest, "http")
	if err != nil {
		writeGenerationError(w, err)
		return
	}

	views := make([]TicketView, len(tickets))
	for i, t := range tickets {
		views[i] = TicketView{Numbers: t, Analysis: t.Analyze()}
	}
	writeJSON(w, http.StatusOK, GenerateResponse{
		Success:      true,
		LatestResult: latest,
		Frequencies:  freq,
		Tickets:      views,
		Count:        count,
		Size:         size,
	})
}

func (h *GeniusHTTPHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	count, size := h.generationParams(r, h.defaults.DownloadTickets)
	freq, latest := h.history.Frequencies(r.Context())

	tickets, err := h.generate(count, size, freq, latest, "download")
	if err != nil {
		writeGenerationError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteTickets(&buf, tickets); err != nil {
		writeErrorJSON(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", export.TextContentType)
	w.Header().Set("Content-Disposition", export.ContentDisposition())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *GeniusHTTPHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	draw, err := h.history.Latest(r.Context())
	if err != nil {
		logger.Error("Failed to load latest draw", "source", h.source, "err", err)
		writeErrorJSON(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, LatestResponse{Success: true, Data: draw})
}

func (h *GeniusHTTPHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	ticket, err := lottery.ParseTicket(r.FormValue("dezenas"))
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, AnalyzeResponse{
		Success:  true,
		Numbers:  ticket,
		Analysis: ticket.Analyze(),
	})
}

// generationParams reads qtd_jogos and dezenas_por_jogo from the query or
// form body. Missing or non-integer values use the defaults; the results are
// clamped to the supported ranges.
func (h *GeniusHTTPHandler) generationParams(r *http.Request, defaultCount int) (count, size int) {
	count = intParam(r, "qtd_jogos", defaultCount, minTickets, maxTickets)
	size = intParam(r, "dezenas_por_jogo", h.defaults.DefaultSize, lottery.MinTicketSize, lottery.MaxTicketSize)
	return count, size
}

func (h *GeniusHTTPHandler) generate(count, size int, freq lottery.FrequencyTable, latest *lottery.Draw, channel string) ([]lottery.Ticket, error) {
	tickets, err := h.generator.Generate(count, size, freq)
	if err != nil {
		return nil, err
	}

	batch := events.TicketBatch{Size: size, Tickets: tickets, Channel: channel}
	if latest != nil {
		batch.Contest = latest.Contest
	}
	if err := h.emitter.EmitTickets(batch); err != nil {
		logger.Warn("Failed to emit tickets event", "err", err)
	}
	return tickets, nil
}

func intParam(r *http.Request, name string, def, lo, hi int) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.FormValue(name)))
	if err != nil {
		n = def
	}
	return min(max(n, lo), hi)
}

func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m || (m == http.MethodGet && r.Method == http.MethodHead) {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

func writeGenerationError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, lottery.ErrConfiguration) {
		status = http.StatusBadRequest
	}
	writeErrorJSON(w, status, err.Error())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// logRequest logs one line per request and turns handler panics into a JSON 500.
func logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			if p := recover(); p != nil {
				logger.Error("Handler panic", "method", r.Method, "path", r.URL.Path, "panic", p)
				writeErrorJSON(rec, http.StatusInternalServerError, "internal error")
			}
			logger.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"elapsed", time.Since(start),
			)
		}()
		next.ServeHTTP(rec, r)
	})
}

func newHTTPServer(cfg *config.Config, handler *GeniusHTTPHandler) *http.Server {
	mux := http.NewServeMux()
	handler.Register(mux)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      logRequest(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

func startHTTPServer(server *http.Server) {
	go func() {
		logger.Info("HTTP server started", "addr", server.Addr, "endpoints", endpoints)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", "err", err)
		}
	}()
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "status", statusCode, "err", err)
	}
}

func writeErrorJSON(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, APIErrorResponse{
		Success:   false,
		Error:     message,
		Timestamp: time.Now().UTC(),
	})
}
