package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/jward/lignin"
	"github.com/jward/lignin/internal/archive"
	"github.com/jward/lignin/internal/lang"
)

// maxMultipartMemory caps how much of a multipart body is held in memory
// before spilling to disk.
const maxMultipartMemory = 10 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAnalyzeFile accepts one source file, either as the multipart field
// "file" or as a raw body with a ?filename= query parameter, and responds
// with its metrics.
func (s *Server) handleAnalyzeFile(w http.ResponseWriter, r *http.Request) {
	fileName, source, ok := s.readUpload(w, r, "file")
	if !ok {
		return
	}

	metrics, err := s.engine.AnalyzeSource(r.Context(), fileName, source)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, metrics)
}

// handleAnalyzeArchive accepts a zip, tar.gz, or tar blob and responds with
// the per-file ArchiveSummary. Individual file failures appear inside the
// summary, not as a request-level error.
func (s *Server) handleAnalyzeArchive(w http.ResponseWriter, r *http.Request) {
	_, blob, ok := s.readUpload(w, r, "archive")
	if !ok {
		return
	}

	summary, err := s.engine.AnalyzeArchive(r.Context(), blob)
	if err != nil {
		if errors.Is(err, archive.ErrUnknownFormat) {
			writeError(w, http.StatusBadRequest, "unknown_archive_format", err.Error())
			return
		}
		if errors.Is(err, archive.ErrTooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// analyzeCodeRequest is the body of POST /analyze/code.
type analyzeCodeRequest struct {
	Code     string `json:"code"`
	Filename string `json:"filename"`
}

// handleAnalyzeCode analyzes an inline snippet and responds with the
// flattened report shape.
func (s *Server) handleAnalyzeCode(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req analyzeCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if isBodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body exceeds upload limit")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_json", "body must be JSON with a code field")
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "missing_code", "code field is required")
		return
	}
	if req.Filename == "" {
		req.Filename = "input.js"
	}

	metrics, err := s.engine.AnalyzeSource(r.Context(), req.Filename, []byte(req.Code))
	if err != nil {
		writeAnalysisError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lignin.Flatten(req.Filename, metrics))
}

// readUpload extracts an uploaded blob from either a multipart form field or
// the raw request body. On failure it writes the error response itself and
// returns ok=false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, field string) (string, []byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			if isBodyTooLarge(err) {
				writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "upload exceeds size limit")
				return "", nil, false
			}
			writeError(w, http.StatusBadRequest, "invalid_multipart", "malformed multipart body")
			return "", nil, false
		}
		file, header, err := r.FormFile(field)
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing_file", "multipart field "+field+" is required")
			return "", nil, false
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "read_failed", "could not read uploaded file")
			return "", nil, false
		}
		return header.Filename, data, true
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		if isBodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "upload exceeds size limit")
			return "", nil, false
		}
		writeError(w, http.StatusBadRequest, "read_failed", "could not read request body")
		return "", nil, false
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "empty_body", "request body is empty")
		return "", nil, false
	}

	fileName := r.URL.Query().Get("filename")
	if fileName == "" {
		fileName = "input.js"
	}
	return fileName, data, true
}

// writeAnalysisError maps single-file analysis failures to status codes:
// a syntax error is the caller's problem (422), an unrecognized extension is
// a bad request (400).
func writeAnalysisError(w http.ResponseWriter, err error) {
	var parseErr *lang.ParseError
	if errors.As(err, &parseErr) {
		writeError(w, http.StatusUnprocessableEntity, "parse_failed", parseErr.Error())
		return
	}
	if errors.Is(err, lignin.ErrUnsupportedExtension) {
		writeError(w, http.StatusBadRequest, "unsupported_file_type", err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
