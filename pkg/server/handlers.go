package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"atomic-explorer/aihub/pkg/gateway"
	"atomic-explorer/aihub/pkg/providers"
)

// ChatRequest is the body of POST /v1/chat.
type ChatRequest struct {
	Message string                   `json:"message"`
	History []providers.HistoryEntry `json:"history"`
}

// ChatResponse is returned by POST /v1/chat. When every provider fails the
// request still answers 200 with the fallback reply, Degraded set and Error
// holding one of the degraded chat codes.
type ChatResponse struct {
	Reply    string `json:"reply"`
	Degraded bool   `json:"degraded,omitempty"`
	Error    string `json:"error,omitempty"`
}

// AnalysisRequest is the body of POST /v1/analysis.
type AnalysisRequest struct {
	SubjectA string `json:"subject_a"`
	SubjectB string `json:"subject_b"`
}

// ProviderInfo is one entry of GET /v1/providers.
type ProviderInfo struct {
	ID   string `json:"id"`
	Rank int    `json:"rank"`
}

// ProvidersResponse is returned by GET /v1/providers.
type ProvidersResponse struct {
	Providers     []ProviderInfo `json:"providers"`
	Count         int            `json:"count"`
	HasCredential bool           `json:"has_credential"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, ErrorTypeInvalidRequest, CodeMissingField, "message", "message is required")
		return
	}

	reply, err := s.gateways.Load().ChatCompletion(r.Context(), req.Message, req.History)
	if err != nil {
		writeJSON(w, http.StatusOK, ChatResponse{
			Reply:    gateway.ChatFallbackReply,
			Degraded: true,
			Error:    degradedCode(err),
		})
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	var req AnalysisRequest
	if !decodeBody(w, r, &req) {
		return
	}

	writeJSON(w, http.StatusOK, s.gateways.Load().StructuredAnalysis(r.Context(), req.SubjectA, req.SubjectB))
}

func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gateways.Load().ElementInsight(r.Context(), r.PathValue("element")))
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	gw := s.gateways.Load()
	list := gw.Registry().Providers()

	resp := ProvidersResponse{
		Providers:     make([]ProviderInfo, len(list)),
		Count:         len(list),
		HasCredential: gw.HasCredential(),
	}
	for i, p := range list {
		resp.Providers[i] = ProviderInfo{ID: p.ID, Rank: p.Rank}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gateways.Load().Stats())
}

// decodeBody decodes a JSON request body into dst, writing a 400 or 413 error
// and returning false when it cannot.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, ErrorTypeInvalidRequest, CodeBodyTooLarge, "",
			"request body is too large")
		return false
	}
	writeError(w, http.StatusBadRequest, ErrorTypeInvalidRequest, CodeInvalidJSON, "",
		"request body is not valid JSON: "+err.Error())
	return false
}
