package server

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fieldhq/fieldhq/ingest"
	"github.com/fieldhq/fieldhq/logger"
)

// handleUpload receives a multipart file, spools it to temporary storage
// and runs the ingestion pipeline. The pipeline owns the temporary file
// from this point and deletes it on every outcome.
// POST /api/upload, multipart field "file".
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	maxBytes := int64(s.cfg.Upload.MaxSizeMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart upload: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	tmpPath, err := s.spoolUpload(file, header.Filename)
	if err != nil {
		s.logger.Errorw("Failed to spool upload", logger.FieldFile, header.Filename, logger.FieldError, err)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	start := time.Now()
	result, err := s.ingestor.Ingest(r.Context(), ingest.Upload{
		Path:         tmpPath,
		OriginalName: header.Filename,
	})
	if err != nil {
		s.logger.Warnw("Ingestion failed",
			logger.FieldFile, header.Filename,
			logger.FieldDurationMS, time.Since(start).Milliseconds(),
			logger.FieldError, err,
		)
		writeDomainError(w, err)
		return
	}

	s.broadcastImportCompleted(header.Filename, result)
	writeJSON(w, http.StatusOK, result)
}

// spoolUpload copies the multipart part into the configured temp dir,
// keeping the original extension so the pipeline can validate it.
func (s *Server) spoolUpload(file io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	tmp, err := os.CreateTemp(s.cfg.Upload.TmpDir, "fieldhq-upload-*"+ext)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
