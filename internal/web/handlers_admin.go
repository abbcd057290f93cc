package web

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/amsfield/pricebook/internal/importer"
	"github.com/amsfield/pricebook/internal/logging"
)

type importResponse struct {
	Published bool     `json:"published"`
	Version   string   `json:"version"`
	Checksum  string   `json:"checksum"`
	Packages  int      `json:"packages"`
	Warnings  []string `json:"warnings"`
}

// handleImport runs the CRM export through the import pipeline. The
// upload is a multipart "file" field, CSV or XLSX by extension. By
// default the result is a dry run; publish=true swaps the catalog in
// and persists it to disk.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize)

	if err := r.ParseMultipartForm(s.cfg.Import.MaxFileSize); err != nil {
		s.respondError(w, r, fmt.Errorf("parse upload: %w", err), http.StatusRequestEntityTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, fmt.Errorf("missing file field: %w", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	var (
		table     importer.RawTable
		warnings  []importer.Warning
		parseFunc = importer.ParseCSV
	)
	if strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		parseFunc = importer.ParseXLSX
	}
	table, warnings, err = parseFunc(file)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	c, runWarnings, err := importer.Run(table, importer.Rules{})
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	warnings = append(warnings, runWarnings...)

	publish := r.FormValue("publish") == "true"
	if publish {
		// Persist first: a failed write must leave the live catalog
		// untouched, never memory and disk disagreeing.
		if err := c.SaveFile(s.cfg.Catalog.Path); err != nil {
			s.respondError(w, r, fmt.Errorf("persist catalog: %w", err), http.StatusInternalServerError)
			return
		}
		s.store.Replace(c)
	}

	logging.FromContext(r.Context()).Info("import complete",
		"file", header.Filename,
		"packages", len(c.Packages),
		"warnings", len(warnings),
		"published", publish,
		"version", c.Version,
	)

	resp := importResponse{
		Published: publish,
		Version:   c.Version,
		Checksum:  c.Checksum,
		Packages:  len(c.Packages),
		Warnings:  make([]string, 0, len(warnings)),
	}
	for _, warn := range warnings {
		resp.Warnings = append(resp.Warnings, warn.String())
	}
	respondJSON(w, http.StatusOK, resp)
}
