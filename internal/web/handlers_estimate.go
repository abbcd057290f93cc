package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/amsfield/pricebook/internal/estimate"
)

type selectRequest struct {
	PackageID string `json:"packageId"`
}

type estimateResponse struct {
	SessionID string         `json:"sessionId"`
	Items     []estimateItem `json:"items"`
	Total     int64          `json:"total"`
}

type estimateItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Category    string `json:"category"`
	Tier        string `json:"tier"`
	Price       int64  `json:"price"`
}

func (s *Server) handleCreateEstimate(w http.ResponseWriter, r *http.Request) {
	id := s.estimates.Create()
	respondJSON(w, http.StatusCreated, estimateResponse{
		SessionID: id.String(),
		Items:     []estimateItem{},
	})
}

func (s *Server) handleGetEstimate(w http.ResponseWriter, r *http.Request) {
	id, b, ok := s.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, estimateView(id, b))
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	id, b, ok := s.session(w, r)
	if !ok {
		return
	}

	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	pkg, ok := s.store.Current().ByID(req.PackageID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	b.Select(pkg)
	respondJSON(w, http.StatusOK, estimateView(id, b))
}

func (s *Server) handleDeselect(w http.ResponseWriter, r *http.Request) {
	id, b, ok := s.session(w, r)
	if !ok {
		return
	}

	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	pkg, ok := s.store.Current().ByID(req.PackageID)
	if !ok {
		// The catalog may have rotated since selection; fall back to
		// the session's own items so the deselect still lands.
		for _, p := range b.Items() {
			if p.ID == req.PackageID {
				pkg, ok = p, true
				break
			}
		}
	}
	if ok {
		b.Deselect(pkg)
	}
	respondJSON(w, http.StatusOK, estimateView(id, b))
}

func (s *Server) handleClearEstimate(w http.ResponseWriter, r *http.Request) {
	id, b, ok := s.session(w, r)
	if !ok {
		return
	}
	b.Clear()
	respondJSON(w, http.StatusOK, estimateView(id, b))
}

// handleQuote emits the plain-text ID list pasted into the CRM quote
// form, one package ID per line.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	_, b, ok := s.session(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(b.QuoteText()))
}

// session resolves the sessionID path param to a live builder,
// writing the error response itself when it cannot.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (uuid.UUID, *estimate.Builder, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return uuid.Nil, nil, false
	}
	b, ok := s.estimates.Get(id)
	if !ok {
		http.NotFound(w, r)
		return uuid.Nil, nil, false
	}
	return id, b, true
}

func estimateView(id uuid.UUID, b *estimate.Builder) estimateResponse {
	items := b.Items()
	out := make([]estimateItem, 0, len(items))
	for _, p := range items {
		out = append(out, estimateItem{
			ID:          p.ID,
			Name:        p.Name,
			DisplayName: p.DisplayName,
			Category:    p.Category,
			Tier:        string(p.Tier),
			Price:       p.Price,
		})
	}
	return estimateResponse{
		SessionID: id.String(),
		Items:     out,
		Total:     b.Total(),
	}
}
