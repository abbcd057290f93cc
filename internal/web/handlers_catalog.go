package web

import (
	"bytes"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/amsfield/pricebook/internal/catalog"
	"github.com/amsfield/pricebook/internal/logging"
)

// handleGetCatalog serves the live catalog snapshot. The checksum is
// the ETag: devices re-syncing an unchanged catalog get a bodyless
// 304, which is what keeps offline refresh cheap in the field.
func (s *Server) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	c := s.store.Current()

	if c.Checksum != "" {
		w.Header().Set("ETag", `"`+c.Checksum+`"`)
		if match := r.Header.Get("If-None-Match"); strings.Trim(match, `"`) == c.Checksum {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	respondJSON(w, http.StatusOK, c)
}

// handleSearch returns packages matching the q parameter; empty q
// returns the whole catalog in load order.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	results := s.store.Current().Search(r.URL.Query().Get("q"))
	respondJSON(w, http.StatusOK, map[string]any{
		"count":    len(results),
		"packages": results,
	})
}

// handleListCategories returns the grouped browse view.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.Current().Categories())
}

// handleCategory returns the packages of one category, exact name match.
func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	pkgs := s.store.Current().ByCategory(name)
	if pkgs == nil {
		http.NotFound(w, r)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"name":     name,
		"icon":     catalog.CategoryIcon(name),
		"packages": pkgs,
	})
}

// handleFamilies returns the tier-family grouping used by the
// Good/Better/Best selector.
func (s *Server) handleFamilies(w http.ResponseWriter, r *http.Request) {
	fams, err := s.store.Current().TierFamilies()
	if err != nil {
		// Load validates this invariant, so a live catalog cannot
		// trip it; belt for catalogs swapped in by future code paths.
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, fams)
}

// handleRefresh pulls the catalog from the upstream through the
// offline cache and swaps it in if it loads cleanly. Offline with a
// cached copy is a success; offline with nothing is NET001.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		respondJSON(w, http.StatusOK, map[string]any{
			"refreshed": false,
			"reason":    "no upstream configured",
			"version":   s.store.Current().Version,
		})
		return
	}

	res, err := s.cache.Get(r.Context(), s.cfg.Catalog.Key)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	fresh, err := catalog.Load(bytes.NewReader(res.Entry.Value))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadGateway)
		return
	}

	previous := s.store.Replace(fresh)
	logging.FromContext(r.Context()).Info("catalog refreshed",
		"version", fresh.Version,
		"previous_version", previous.Version,
		"packages", len(fresh.Packages),
		"from_cache", res.FromCache,
	)

	respondJSON(w, http.StatusOK, map[string]any{
		"refreshed": true,
		"fromCache": res.FromCache,
		"version":   fresh.Version,
		"packages":  len(fresh.Packages),
	})
}
