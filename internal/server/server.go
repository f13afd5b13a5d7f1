package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"portfolio_engine/internal/catalog"
	"portfolio_engine/internal/logger"
	"portfolio_engine/internal/model"
	"portfolio_engine/internal/recommend"
	"portfolio_engine/internal/user"

	"github.com/gin-gonic/gin"
)

// Server 代表 HTTP API 服务器
type Server struct {
	router         *gin.Engine
	userProvider   user.Provider
	store          catalog.Store
	service        *recommend.Service
	requestTimeout time.Duration
}

// NewServer 创建新的 HTTP 服务器
func NewServer(up user.Provider, store catalog.Store, svc *recommend.Service, requestTimeout time.Duration) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	s := &Server{
		router:         router,
		userProvider:   up,
		store:          store,
		service:        svc,
		requestTimeout: requestTimeout,
	}
	s.router.Use(s.corsMiddleware())
	s.setupRoutes()
	return s
}

// Handler 返回底层的 http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requestLogger 用 logger 包输出访问日志
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api")
	api.GET("/projects", s.handleListProjects)
	api.GET("/projects/:id", s.handleGetProject)
	api.POST("/recommendations", s.handleRecommend)
	api.GET("/skills", s.handleListSkills)
	api.POST("/skills/compare", s.handleCompareSkills)

	admin := s.router.Group("/api/v1/admin")
	admin.Use(s.authMiddleware())
	admin.POST("/projects", s.handleUpsertProject)
	admin.POST("/skills", s.handleUpsertSkill)
	admin.POST("/skills/:id/projects", s.handleLinkSkill)
}

// authMiddleware 鉴权中间件
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}

		u, err := s.userProvider.GetUserByToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("user", u)
		c.Next()
	}
}

// withTimeout 为每个请求设置超时
func (s *Server) withTimeout(c *gin.Context) (context.Context, context.CancelFunc) {
	if s.requestTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), s.requestTimeout)
}

func (s *Server) handleListProjects(c *gin.Context) {
	projects, err := s.store.ListProjects(c.Request.Context(), true)
	if err != nil {
		logger.Error("list projects: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load projects"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects, "total": len(projects)})
}

func (s *Server) handleGetProject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	p, err := s.store.GetProject(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		logger.Error("get project %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load project"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// RecommendRequest 字段名与页面脚本发送的请求体一致
type RecommendRequest struct {
	ProjectID   int64            `json:"projectId"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Tags        []string         `json:"tags"`
	Category    string           `json:"category"`
	Pool        []*model.Project `json:"pool"`
	Limit       *int             `json:"limit"`
}

// handleRecommend POST /api/recommendations
func (s *Server) handleRecommend(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.ProjectID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project ID required"})
		return
	}

	ctx, cancel := s.withTimeout(c)
	defer cancel()

	res, err := s.service.Recommend(ctx, recommend.Request{
		Reference: &model.Project{
			ID:          req.ProjectID,
			Title:       req.Title,
			Description: req.Description,
			Tags:        req.Tags,
			Category:    req.Category,
		},
		Pool:  req.Pool,
		Limit: req.Limit,
	})
	if err != nil {
		if errors.Is(err, recommend.ErrInvalidReference) || errors.Is(err, recommend.ErrInvalidLimit) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("recommendation error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate recommendations"})
		return
	}

	resp := gin.H{
		"recommendations": res.Items,
		"total":           len(res.Items),
		"source":          res.Source,
		"request_id":      res.RequestID,
	}
	// 调试模式下返回 pipeline 的执行轨迹
	if logger.IsDebug() {
		resp["trace"] = res.Trace
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleListSkills(c *gin.Context) {
	skills, err := s.store.ListSkills(c.Request.Context())
	if err != nil {
		logger.Error("skills error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load skills data"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"skills": skills, "total": len(skills)})
}

type compareRequest struct {
	Skill1ID int64 `json:"skill1_id"`
	Skill2ID int64 `json:"skill2_id"`
}

// handleCompareSkills POST /api/skills/compare
func (s *Server) handleCompareSkills(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.Skill1ID <= 0 || req.Skill2ID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both skill IDs required"})
		return
	}

	ctx, cancel := s.withTimeout(c)
	defer cancel()

	cmp, err := s.service.Compare(ctx, req.Skill1ID, req.Skill2ID)
	switch {
	case errors.Is(err, recommend.ErrSameSkill):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "One or both skills not found"})
	case err != nil:
		logger.Error("skills comparison error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compare skills"})
	default:
		c.JSON(http.StatusOK, cmp)
	}
}

func (s *Server) handleUpsertProject(c *gin.Context) {
	var p model.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if err := s.store.UpsertProject(c.Request.Context(), &p); err != nil {
		writeStoreError(c, err)
		return
	}

	u := c.MustGet("user").(*model.User)
	logger.Info("project %d saved by %s", p.ID, u.ID)
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleUpsertSkill(c *gin.Context) {
	var sk model.Skill
	if err := c.ShouldBindJSON(&sk); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if err := s.store.UpsertSkill(c.Request.Context(), &sk); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, sk)
}

// writeStoreError 校验失败返回 400，其余存储错误返回 500
func writeStoreError(c *gin.Context, err error) {
	if errors.Is(err, catalog.ErrInvalid) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	logger.Error("catalog write: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save record"})
}

func (s *Server) handleLinkSkill(c *gin.Context) {
	skillID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || skillID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid skill id"})
		return
	}

	var link model.SkillLink
	if err := c.ShouldBindJSON(&link); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	link.SkillID = skillID

	if err := s.store.LinkSkill(c.Request.Context(), link); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project or skill not found"})
			return
		}
		logger.Error("link skill %d: %v", skillID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to link project"})
		return
	}
	c.JSON(http.StatusOK, link)
}
