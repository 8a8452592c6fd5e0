package rest

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/passim-search/passim/internal/core/domain"
	"github.com/passim-search/passim/internal/logger"
)

// retrieveRequest is the body of /query and /answer.
type retrieveRequest struct {
	Question string `json:"question"`
	K        int    `json:"k"`
	Mode     string `json:"mode"`
}

func (r *retrieveRequest) options() domain.RetrieveOptions {
	return domain.RetrieveOptions{
		FinalK: r.K,
		Mode:   domain.RetrievalMode(strings.ToLower(r.Mode)),
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	docs, err := s.ports.Retrieval.Documents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "documents": len(docs)})
}

func (s *Server) handleUpload(c *gin.Context) {
	if s.cfg.InboxDir == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no inbox directory configured"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	if err := os.MkdirAll(s.cfg.InboxDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	name := filepath.Base(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(s.cfg.InboxDir, name)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	logger.Info("Uploaded %s", name)
	c.JSON(http.StatusOK, gin.H{"filename": name, "message": "Uploaded"})
}

func (s *Server) handleIngest(c *gin.Context) {
	if s.cfg.InboxDir == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no inbox directory configured"})
		return
	}

	reports, err := s.ports.Ingestion.IngestDirectory(c.Request.Context(), s.cfg.InboxDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "files": reports})
}

func (s *Server) handleQuery(c *gin.Context) {
	var req retrieveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	passages, err := s.ports.Retrieval.Retrieve(c.Request.Context(), req.Question, req.options())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrEmptyQuery) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":    req.Question,
		"mode":     req.options().Mode,
		"passages": passages,
	})
}

func (s *Server) handleAnswer(c *gin.Context) {
	if s.ports.Answer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "answer generation not configured"})
		return
	}

	var req retrieveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	answer, passages, err := s.ports.Answer.Answer(c.Request.Context(), req.Question, req.options())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrEmptyQuery) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":     req.Question,
		"mode":      req.options().Mode,
		"answer":    answer.Answer,
		"citations": answer.Citations,
		"provider":  answer.Provider,
		"passages":  passages,
		"ts":        time.Now().Unix(),
	})
}

func (s *Server) handleDocuments(c *gin.Context) {
	docs, err := s.ports.Retrieval.Documents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "documents": docs})
}

func (s *Server) handleWipe(c *gin.Context) {
	if s.ports.Admin == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "admin operations not configured"})
		return
	}

	wipeStore := c.Query("wipe_store") == "true"
	if err := s.ports.Admin.Wipe(c.Request.Context(), wipeStore); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "wiped_store": wipeStore})
}
