package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/blockgen/pkg/buildinfo"
	"github.com/matzehuels/blockgen/pkg/errors"
	"github.com/matzehuels/blockgen/pkg/generator"
	"github.com/matzehuels/blockgen/pkg/languages"
	"github.com/matzehuels/blockgen/pkg/pipeline"
)

type generateRequest struct {
	Language      string          `json:"language" validate:"omitempty,max=32"`
	Workspace     json.RawMessage `json:"workspace" validate:"required"`
	Indent        string          `json:"indent,omitempty" validate:"omitempty,max=16"`
	StableNames   bool            `json:"stable_names,omitempty"`
	ReservedWords []string        `json:"reserved_words,omitempty" validate:"max=256,dive,required,max=64"`
	Graph         string          `json:"graph,omitempty" validate:"omitempty,oneof=dot svg"`
	Detailed      bool            `json:"detailed,omitempty"`
	Refresh       bool            `json:"refresh,omitempty"`
}

type generateResponse struct {
	RequestID     string                  `json:"request_id"`
	Language      string                  `json:"language"`
	Code          string                  `json:"code"`
	Functions     []generator.FunctionDef `json:"functions"`
	Graph         string                  `json:"graph,omitempty"`
	WorkspaceHash string                  `json:"workspace_hash"`
	Cached        bool                    `json:"cached"`
}

type languageInfo struct {
	Name       string   `json:"name"`
	BlockTypes []string `json:"block_types"`
}

type errorResponse struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	out := make([]languageInfo, 0, len(languages.All))
	for _, lang := range languages.All {
		out = append(out, languageInfo{Name: lang.Name, BlockTypes: lang.BlockTypes()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"languages": out})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req generateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request"))
		return
	}

	ws, err := pipeline.LoadReader(ctx, "request:"+RequestID(ctx), bytes.NewReader(req.Workspace))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	opts := s.defaults
	opts.Logger = s.logger
	if req.Language != "" {
		opts.Language = req.Language
	}
	if req.Indent != "" {
		opts.Indent = req.Indent
	}
	opts.StableNames = opts.StableNames || req.StableNames
	opts.ReservedWords = append(append([]string(nil), opts.ReservedWords...), req.ReservedWords...)
	opts.Refresh = req.Refresh
	opts.NameDB = nil
	opts.Graph = req.Graph != ""
	opts.GraphFormat = req.Graph
	opts.Detailed = req.Detailed

	res, err := s.runner.Execute(ctx, ws, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	functions := res.Functions
	if functions == nil {
		functions = []generator.FunctionDef{}
	}
	writeJSON(w, http.StatusOK, generateResponse{
		RequestID:     RequestID(ctx),
		Language:      opts.Language,
		Code:          res.Code,
		Functions:     functions,
		Graph:         string(res.Graph),
		WorkspaceHash: res.WorkspaceHash,
		Cached:        res.CacheInfo.GenerateHit,
	})
}

// fail writes err as an error response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(errors.GetCode(err))
	msg := errors.UserMessage(err)
	switch {
	case status == http.StatusGatewayTimeout:
		code, msg = "TIMEOUT", "request timed out"
	case code == "" || status >= http.StatusInternalServerError:
		s.logger.Error("request failed", "id", RequestID(r.Context()), "error", err)
		code, msg = string(errors.ErrCodeInternal), "internal error"
	}
	writeJSON(w, status, errorResponse{
		RequestID: RequestID(r.Context()),
		Code:      code,
		Message:   msg,
	})
}

// statusFor maps an error to an HTTP status.
func statusFor(err error) int {
	if errors.IsBindingError(err) {
		return http.StatusUnprocessableEntity
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidLanguage,
		errors.ErrCodeInvalidWorkspace, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodePassInProgress:
		return http.StatusConflict
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
