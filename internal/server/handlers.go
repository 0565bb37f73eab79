package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/docforge/docforge/internal/domain"
)

type generateRequest struct {
	Domain       string `json:"domain"`
	ScenarioHint string `json:"scenario_hint,omitempty"`
}

type validateRequest struct {
	Document map[string]any `json:"document"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Advice string `json:"advice,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.Domain == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "domain is required"})
		return
	}

	doc, err := s.pipeline.GenerateDocument(r.Context(), req.Domain, req.ScenarioHint)
	if err != nil {
		AddError(r.Context(), err)
		status, resp := mapError(err)
		writeJSON(w, status, resp)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.Document == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "document is required"})
		return
	}

	report, err := s.pipeline.ValidateDocument(r.Context(), req.Document)
	if err != nil {
		AddError(r.Context(), err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	result, err := s.pipeline.PingProvider(r.Context())
	if err != nil {
		AddError(r.Context(), err)
		status, _ := mapError(err)
		if status < 500 {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	events, err := s.eventLog.Recent(r.Context(), limit)
	if err != nil {
		AddError(r.Context(), err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if events == nil {
		events = []domain.CommunicationEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

// mapError translates pipeline failures onto HTTP statuses. Rejections are
// the caller's problem (422), upstream failures are gateway errors (502),
// misconfiguration is ours (500).
func mapError(err error) (int, errorResponse) {
	var ge *domain.ValidationGateError
	if errors.As(err, &ge) {
		return http.StatusUnprocessableEntity, errorResponse{Error: ge.Error()}
	}

	var te *domain.TransportError
	if errors.As(err, &te) {
		return http.StatusBadGateway, errorResponse{Error: te.Error(), Advice: te.Advice()}
	}

	var ce *domain.ConfigurationError
	if errors.As(err, &ce) {
		return http.StatusInternalServerError, errorResponse{Error: ce.Error()}
	}

	var pe *domain.ParseError
	var ppe *domain.ProviderProtocolError
	var sve *domain.SchemaViolationError
	if errors.As(err, &pe) || errors.As(err, &ppe) || errors.As(err, &sve) {
		return http.StatusBadGateway, errorResponse{Error: err.Error()}
	}

	return http.StatusInternalServerError, errorResponse{Error: err.Error()}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
