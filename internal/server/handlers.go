package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bimmerbailey/dumpsong/internal/video"
)

type generateRequest struct {
	EmployeeName string `json:"employeeName"`
	EmployeeInfo string `json:"employeeInfo"`
}

type generateResponse struct {
	VideoURL string `json:"videoUrl"`
	Status   string `json:"status"`
	Lyrics   string `json:"lyrics"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

type healthResponse struct {
	Status string `json:"status"`
}

var errBlankFields = errors.New("employee name and info are required")

func (s *Server) handleGenerateVideo(w http.ResponseWriter, r *http.Request) {
	req, err := decodeGenerateRequest(w, r)
	if err != nil {
		s.logger.Debug("rejected generate-video request", "request_id", requestID(r.Context()), "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Status: video.StatusFailed})
		return
	}

	ctx := r.Context()
	if s.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.RequestTimeout)
		defer cancel()
	}

	info := s.opts.Extractor.Extract(req.EmployeeName, req.EmployeeInfo)
	s.logger.Info("generating lyrics",
		"request_id", requestID(ctx),
		"employee", info.Name,
		"department", info.Department,
		"years", info.Years,
	)

	lyrics, err := s.generator.Generate(ctx, info)
	if err != nil {
		s.fail(w, r, "lyrics generation failed", err)
		return
	}

	url, status, err := s.renderer.Render(ctx, lyrics)
	if err != nil {
		s.fail(w, r, "video render failed", err)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{VideoURL: url, Status: status, Lyrics: lyrics})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.logger.Error(msg, "request_id", requestID(r.Context()), "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error:  s.opts.Redactor.Error(err),
		Status: video.StatusFailed,
	})
}

// decodeGenerateRequest validates the body into a generateRequest. Any error
// it returns is safe to show to the caller.
func decodeGenerateRequest(w http.ResponseWriter, r *http.Request) (generateRequest, error) {
	var req generateRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return req, fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return req, errors.New("request body is empty")
		default:
			return req, fmt.Errorf("invalid JSON body: %w", err)
		}
	}
	if dec.More() {
		return req, errors.New("invalid JSON body: unexpected data after object")
	}

	if strings.TrimSpace(req.EmployeeName) == "" || strings.TrimSpace(req.EmployeeInfo) == "" {
		return req, errBlankFields
	}
	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
