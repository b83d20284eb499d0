// CLAUDE:SUMMARY chi HTTP router: /v1 analysis routes over the shared kit endpoints, request ids, CORS, and the MCP streamable endpoint.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hazyhaar/vietdanh/pkg/cuc"
	"github.com/hazyhaar/vietdanh/pkg/dict"
	"github.com/hazyhaar/vietdanh/pkg/kit"
)

const maxAnalyzeBody = 16 * 1024

// NewRouter returns an http.Handler with all API routes. When mcpSrv is not
// nil its tools are also served at /mcp (streamable HTTP).
func NewRouter(reg *dict.Registry, logger *slog.Logger, mcpSrv *server.MCPServer) http.Handler {
	h := &handler{eps: NewEndpoints(reg, logger), reg: reg}

	r := chi.NewRouter()
	r.Use(middleware.RealIP, middleware.Recoverer, requestID, cors)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no route for %s", req.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/v1", func(v chi.Router) {
		v.Get("/health", h.handleHealth)
		v.Get("/tables", h.handleTables)
		v.Get("/syllables/{text}", h.handleLookup)
		v.Get("/suggest", h.handleSuggest)
		v.Post("/analyze", h.handleAnalyze)
		v.Post("/report", h.handleReport)
		v.Get("/cuc/{number}", h.handleCuc)
	})

	if mcpSrv != nil {
		r.Handle("/mcp", server.NewStreamableHTTPServer(mcpSrv))
	}
	return r
}

type handler struct {
	eps *Endpoints
	reg *dict.Registry
}

// --- analyze ---

func (h *handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAnalyze(w, r)
	if !ok {
		return
	}
	resp, err := h.eps.Analyze(r.Context(), req)
	if err != nil {
		writeEndpointError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- report ---

func (h *handler) handleReport(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAnalyze(w, r)
	if !ok {
		return
	}
	resp, err := h.eps.Report(r.Context(), &reportReq{analyzeReq: *req, Format: r.URL.Query().Get("format")})
	if err != nil {
		writeEndpointError(w, err)
		return
	}
	rendered := resp.(*renderedReport)
	w.Header().Set("Content-Type", rendered.ContentType)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rendered.Body))
}

// --- syllable lookup ---

func (h *handler) handleLookup(w http.ResponseWriter, r *http.Request) {
	text := chi.URLParam(r, "text")
	// chi matches on RawPath when the path holds escapes like %2F.
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(text); err == nil {
			text = unescaped
		}
	}
	resp, err := h.eps.Lookup(r.Context(), &lookupReq{Text: text})
	if err != nil {
		writeEndpointError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- suggest ---

func (h *handler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	resp, err := h.eps.Suggest(r.Context(), &suggestReq{Element: q.Get("element"), Limit: limit})
	if err != nil {
		writeEndpointError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- cục card ---

func (h *handler) handleCuc(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(strings.TrimSpace(chi.URLParam(r, "number")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cục number must be an integer")
		return
	}
	resp, err := h.eps.Cuc(r.Context(), &cucReq{Number: n})
	if err != nil {
		writeEndpointError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- tables ---

func (h *handler) handleTables(w http.ResponseWriter, r *http.Request) {
	resp, err := h.eps.Tables(r.Context(), nil)
	if err != nil {
		writeEndpointError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- health ---

type healthResponse struct {
	Status    string `json:"status"`
	Tables    int    `json:"tables"`
	Syllables int    `json:"syllables"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !h.reg.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "loading"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Tables:    len(h.reg.ListTables()),
		Syllables: h.reg.SyllableCount(),
	})
}

// --- helpers ---

func decodeAnalyze(w http.ResponseWriter, r *http.Request) (*analyzeReq, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAnalyzeBody)
	var req analyzeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}
	return &req, true
}

// statusFor maps endpoint errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dict.ErrNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, cuc.ErrUnknownCuc):
		return http.StatusNotFound
	case errors.Is(err, cuc.ErrInvalidInput),
		errors.Is(err, cuc.ErrInvalidGender),
		errors.Is(err, ErrUnsupportedFormat):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeEndpointError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// requestID tags each request with a ULID (or a sane incoming X-Request-Id)
// and the http transport.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Request-Id"))
		if id == "" || len(id) > 64 {
			id = kit.NewRequestID()
		}
		w.Header().Set("X-Request-Id", id)
		ctx := kit.WithRequestID(kit.WithTransport(r.Context(), kit.TransportHTTP), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// cors is a simple CORS middleware for browser-based clients.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
		w.Header().Set("Access-Control-Expose-Headers", "X-Request-Id")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
