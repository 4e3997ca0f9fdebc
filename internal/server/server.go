package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/graphdiff/internal/config"
	"github.com/agenthands/graphdiff/internal/core"
	"github.com/agenthands/graphdiff/internal/core/generate"
	"github.com/agenthands/graphdiff/internal/core/model"
	"github.com/agenthands/graphdiff/internal/driver"
	"github.com/agenthands/graphdiff/internal/llm"
	"github.com/agenthands/graphdiff/internal/manifest"
	"github.com/agenthands/graphdiff/internal/metrics"
)

type Server struct {
	Evaluator *core.Evaluator
	Generator *generate.Generator
	Metrics   *metrics.Registry
	Logger    *slog.Logger
}

func New(ev *core.Evaluator, gen *generate.Generator, reg *metrics.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &Server{Evaluator: ev, Generator: gen, Metrics: reg, Logger: logger}
}

// NewFromConfig wires the server from configuration. A database or LLM that
// cannot be reached is logged and its routes answer 503; comparison of
// posted results keeps working.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	reg := metrics.NewRegistry()

	exec, err := driver.NewExecutor(ctx, cfg.Database, logger)
	if err != nil {
		logger.Warn("database unavailable, execution routes disabled", "backend", cfg.Database.Backend, "error", err)
	}

	ev := core.NewEvaluator(exec, core.Options{
		Workers:      cfg.Concurrency.Workers,
		QueryTimeout: time.Duration(cfg.Database.QueryTimeoutSeconds) * time.Second,
		Metrics:      reg,
		Logger:       logger,
	})

	var gen *generate.Generator
	client, err := llm.NewClient(ctx, cfg.LLM, logger)
	if err != nil {
		logger.Warn("llm unavailable, generation route disabled", "provider", cfg.LLM.Provider, "error", err)
	} else {
		gen = generate.NewGenerator(client, cfg.Generation.Prompt, cfg.Generation.Schema, cfg.Concurrency.Workers, logger)
	}

	return New(ev, gen, reg, logger)
}

// Close releases the database connection, if any.
func (s *Server) Close(ctx context.Context) error {
	if s.Evaluator == nil || s.Evaluator.Driver == nil {
		return nil
	}
	return s.Evaluator.Driver.Close(ctx)
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", s.Health)
	r.GET("/metrics", gin.WrapH(s.Metrics.Handler()))
	r.POST("/compare", s.Compare)
	r.POST("/compare/rows", s.CompareRows)
	r.POST("/execute", s.Execute)
	r.POST("/export", s.Export)
	r.POST("/generate", s.Generate)

	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Logger.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds())
	}
}

func (s *Server) Health(c *gin.Context) {
	backend := ""
	if s.Evaluator != nil && s.Evaluator.Driver != nil {
		backend = s.Evaluator.Driver.Backend()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"backend":   backend,
		"generator": s.Generator != nil,
	})
}

type CompareRequest struct {
	GTFile  string                 `json:"gt_file"`
	LLMFile string                 `json:"llm_file"`
	QueryID string                 `json:"query_id"`
	GT      *model.ResultsDocument `json:"gt" binding:"required"`
	LLM     *model.ResultsDocument `json:"llm" binding:"required"`
}

func (s *Server) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.GTFile != "" {
		req.GT.Metadata.SourceFile = req.GTFile
	}
	if req.LLMFile != "" {
		req.LLM.Metadata.SourceFile = req.LLMFile
	}

	report, err := s.Evaluator.CompareDocuments(c.Request.Context(), req.GT, req.LLM, req.QueryID)
	if err != nil {
		if errors.Is(err, manifest.ErrQueryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		s.Logger.Error("comparison failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compare results"})
		return
	}

	c.JSON(http.StatusOK, report)
}

type CompareRowsRequest struct {
	QueryID string         `json:"query_id" binding:"required"`
	GTRows  []model.RawRow `json:"gt_rows"`
	LLMRows []model.RawRow `json:"llm_rows"`
}

func (s *Server) CompareRows(c *gin.Context) {
	var req CompareRowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	c.JSON(http.StatusOK, s.Evaluator.CompareRows(req.QueryID, req.GTRows, req.LLMRows))
}

type ExecuteRequest struct {
	QueryID string `json:"query_id"`
	Query   string `json:"query"`
	Side    string `json:"side"`
}

func (s *Server) Execute(c *gin.Context) {
	if !s.hasDriver() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": driver.ErrNotConnected.Error()})
		return
	}
	var req ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	item := model.QueryItem{ID: req.QueryID, Query: req.Query}
	c.JSON(http.StatusOK, s.Evaluator.Execute(c.Request.Context(), item, req.Side))
}

type ExportRequest struct {
	Query string `json:"query" binding:"required"`
}

func (s *Server) Export(c *gin.Context) {
	if !s.hasDriver() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": driver.ErrNotConnected.Error()})
		return
	}
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	out, err := s.Evaluator.ExportQuery(c.Request.Context(), req.Query)
	if err != nil {
		s.Logger.Error("export failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

type GenerateRequest struct {
	ID       string `json:"id"`
	Question string `json:"question" binding:"required"`
}

func (s *Server) Generate(c *gin.Context) {
	if s.Generator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no llm configured"})
		return
	}
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	items, err := s.Generator.Generate(c.Request.Context(), []model.QueryItem{{ID: req.ID, Description: req.Question}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate query"})
		return
	}
	c.JSON(http.StatusOK, items[0])
}

func (s *Server) hasDriver() bool {
	return s.Evaluator != nil && s.Evaluator.Driver != nil
}
