package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/masroof-app/receipt-parser/internal/common"
	"github.com/masroof-app/receipt-parser/internal/entity"
	"github.com/masroof-app/receipt-parser/internal/export"
	"github.com/masroof-app/receipt-parser/internal/receipts"
	"github.com/masroof-app/receipt-parser/internal/repository"
)

const (
	maxTextBytes   = 1 << 20  // 1MB of OCR text is already a pathological receipt
	maxUploadBytes = 20 << 20 // receipt scans top out well under 20MB
)

// Handler exposes the parsing service over HTTP
type Handler struct {
	svc      *receipts.Service
	exporter *export.Service
	logger   *slog.Logger
	started  time.Time
}

func NewHandler(svc *receipts.Service, exporter *export.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, exporter: exporter, logger: logger, started: time.Now()}
}

// SetupRoutes configures the HTTP routes
func (h *Handler) SetupRoutes() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/v1/receipts/parse", h.ParseText).Methods("POST")
	router.HandleFunc("/v1/receipts/scan", h.ScanFile).Methods("POST")
	router.HandleFunc("/v1/receipts/export", h.Export).Methods("GET")
	router.HandleFunc("/v1/receipts/{id}", h.GetReceipt).Methods("GET")
	router.HandleFunc("/v1/receipts", h.ListReceipts).Methods("GET")

	router.HandleFunc("/health", h.Health).Methods("GET")

	return router
}

type parseRequest struct {
	Text string `json:"text"`
}

type scanRequest struct {
	Path string `json:"path"`
}

// ParseText parses a block of receipt text into structured fields.
func (h *Handler) ParseText(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := decodeBody(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	res, err := h.svc.ParseText(r.Context(), req.Text)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, res)
}

// ScanFile runs OCR on a receipt image and parses the output. The image is
// either uploaded as multipart field "file" or named by a server-local path
// in a JSON body.
func (h *Handler) ScanFile(w http.ResponseWriter, r *http.Request) {
	path, cleanup, err := h.scanImagePath(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	defer cleanup()

	res, err := h.svc.ScanFile(r.Context(), path)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) scanImagePath(r *http.Request) (string, func(), error) {
	noop := func() {}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", noop, fmt.Errorf("multipart field %q is required: %w", "file", common.ErrInvalidInput)
		}
		defer func() { _ = file.Close() }()

		tmp, err := os.CreateTemp("", "receipt-*"+filepath.Ext(header.Filename))
		if err != nil {
			return "", noop, common.WrapError(err, "stage upload")
		}
		if _, err := io.Copy(tmp, io.LimitReader(file, maxUploadBytes)); err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
			return "", noop, common.WrapError(err, "stage upload")
		}
		if err := tmp.Close(); err != nil {
			_ = os.Remove(tmp.Name())
			return "", noop, common.WrapError(err, "stage upload")
		}
		return tmp.Name(), func() { _ = os.Remove(tmp.Name()) }, nil
	}

	var req scanRequest
	if err := decodeBody(r, &req); err != nil {
		return "", noop, err
	}
	if req.Path == "" {
		return "", noop, fmt.Errorf("path is required: %w", common.ErrInvalidInput)
	}
	return req.Path, noop, nil
}

// GetReceipt returns one stored receipt by id.
func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["id"]
	id, err := uuid.Parse(raw)
	if err != nil {
		common.WriteError(w, fmt.Errorf("id must be a UUID: %w", common.ErrInvalidInput))
		return
	}
	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, rec)
}

// ListReceipts returns stored receipts, newest first.
func (h *Handler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	filter := listFilterFromQuery(r)
	recs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if recs == nil {
		recs = []*entity.Receipt{} // never encode null
	}
	common.WriteJSON(w, http.StatusOK, recs)
}

// Export streams the stored receipts as an XLSX workbook.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	out, err := h.exporter.ExportReceiptsXLSX(r.Context(), listFilterFromQuery(r))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="receipts.xlsx"`)
	_, _ = w.Write(out)
}

type healthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp"`
}

// Health is a liveness endpoint.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Uptime:    time.Since(h.started).String(),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func decodeBody(r *http.Request, v any) error {
	defer func() { _ = r.Body.Close() }()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxTextBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", common.ErrInvalidInput)
	}
	return nil
}

func listFilterFromQuery(r *http.Request) repository.ListFilter {
	q := r.URL.Query()
	filter := repository.ListFilter{Merchant: q.Get("merchant")}
	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	filter.From = parseQueryTime(q.Get("from"))
	if raw := q.Get("to"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			// bare dates are inclusive of the whole day
			filter.To = t.Add(24 * time.Hour)
		} else {
			filter.To = parseQueryTime(raw)
		}
	}
	return filter
}

// parseQueryTime accepts RFC 3339 or a bare date.
func parseQueryTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t
	}
	return time.Time{}
}
