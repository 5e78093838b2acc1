package api

import (
	"encoding/json"
	"net/http"

	"github.com/leadlaw/contractengine/internal/pricing"
	"github.com/leadlaw/contractengine/internal/resolve"
	"github.com/leadlaw/contractengine/internal/tiermatch"
)

// renderRequest is one full resolution request: template content in any
// accepted shape, the contract's pricing and client state, the client
// input map and the surface mode.
type renderRequest struct {
	Template json.RawMessage   `json:"template"`
	Pricing  *pricing.State    `json:"pricing"`
	Client   resolve.Client    `json:"client"`
	Inputs   map[string]string `json:"inputs"`
	Mode     string            `json:"mode"`
}

type renderResponse struct {
	Doc        any              `json:"doc"`
	Warnings   []string         `json:"warnings"`
	TierReport tiermatch.Report `json:"tier_report"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	doc, warnings := s.engine.LoadTemplate(req.Template)

	if req.Pricing == nil {
		req.Pricing = &pricing.State{}
	}
	if req.Pricing.Currency == "" {
		req.Pricing.Currency = s.cfg.DefaultCurrency
	}
	if req.Pricing.Tiers == nil {
		req.Pricing.Tiers = pricing.DefaultTiers(req.Pricing.Currency)
	}
	warnings = append(warnings, s.engine.Recompute(req.Pricing)...)

	res := s.engine.Render(resolve.Input{
		Doc:     doc,
		Pricing: req.Pricing,
		Client:  req.Client,
		Inputs:  req.Inputs,
		Mode:    resolve.ParseMode(req.Mode),
	})
	warnings = append(warnings, res.Warnings...)
	if warnings == nil {
		warnings = []string{}
	}

	writeJSON(w, http.StatusOK, renderResponse{
		Doc:        res.Doc,
		Warnings:   warnings,
		TierReport: res.TierReport,
	})
}

func (s *Server) handleRecompute(w http.ResponseWriter, r *http.Request) {
	var st pricing.State
	if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if st.Currency == "" {
		st.Currency = s.cfg.DefaultCurrency
	}
	if st.Tiers == nil {
		st.Tiers = pricing.DefaultTiers(st.Currency)
	}

	warnings := s.engine.Recompute(&st)
	if warnings == nil {
		warnings = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"pricing":  st,
		"warnings": warnings,
	})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
