package server

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hyperjump/kensho/internal/models"
	"github.com/hyperjump/kensho/internal/processor"
	"github.com/hyperjump/kensho/internal/storage"
	"go.uber.org/zap"
)

// apply runs one command and renders its effects. Every command application
// gets a uuid so its log lines can be correlated with the response.
func (s *Server) apply(w http.ResponseWriter, r *http.Request, cmd processor.Command) {
	cmdID := uuid.NewString()
	effects := s.processor.Apply(r.Context(), cmd)
	responded := false
	for _, e := range effects {
		switch eff := e.(type) {
		case processor.Log:
			fields := append([]zap.Field{
				zap.String("command_id", cmdID),
				zap.String("kind", cmd.Kind()),
			}, eff.Fields...)
			s.logger.Info(eff.Message, fields...)
		case processor.Respond:
			s.respondJSON(w, eff.Status, eff.Body)
			responded = true
		}
	}
	if !responded {
		// The processor always emits a Respond effect; this is a safety net.
		s.respondError(w, http.StatusInternalServerError, "command produced no response")
	}
}

func (s *Server) handleRegisterDocument(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("register document request", zap.String("owner", req.Owner))
	s.apply(w, r, processor.RegisterDocument{RegisterDocumentRequest: &req})
}

func (s *Server) handleRegisterModel(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("register model request", zap.String("model_name", req.ModelName))
	s.apply(w, r, processor.RegisterModel{RegisterModelRequest: &req})
}

func (s *Server) handleVerifyQuery(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("verify query request", zap.Uint64("timestamp", req.Timestamp))
	s.apply(w, r, processor.VerifyQuery{VerifyQueryRequest: &req})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	s.apply(w, r, processor.GetDocument{ID: id})
}

func (s *Server) handleGetModel(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	s.apply(w, r, processor.GetModel{ID: id})
}

func (s *Server) handleGetQuery(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseID(w, r)
	if !ok {
		return
	}
	s.apply(w, r, processor.GetQuery{ID: id})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, processor.ListDocuments{})
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, processor.ListModels{})
}

func (s *Server) handleListQueries(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, processor.ListQueries{})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	docCount, modelCount, queryCount := s.processor.Counts()
	resp := map[string]interface{}{
		"documents": docCount,
		"models":    modelCount,
		"queries":   queryCount,
	}

	configInfo := map[string]interface{}{
		"verifier_mode": s.config.Verifier.Mode,
		"database_path": s.config.Storage.DatabasePath,
	}
	if !s.config.Storage.Ephemeral() {
		// The parent directory also picks up the WAL and SHM sidecars.
		if diskBytes, err := storage.DiskUsageBytes(filepath.Dir(s.config.Storage.DatabasePath)); err == nil {
			resp["disk_usage_bytes"] = diskBytes
		}
	}
	resp["config"] = configInfo
	s.respondJSON(w, http.StatusOK, resp)
}

// parseID reads the {id} route parameter. Non-numeric ids are a 400, not a 404:
// the path is shaped correctly but the field is malformed.
func (s *Server) parseID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid id: "+raw)
		return 0, false
	}
	return id, true
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
