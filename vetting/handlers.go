package vetting

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"url-triage-poc/model"
	"url-triage-poc/store"
)

const maxBatchSize = 100

// Server exposes the pipeline and the admin collaborator over HTTP. The
// session is one global role in the state blob, so anyone who can reach the
// server can become ADMIN. Do not expose it beyond the local machine.
type Server struct {
	Pipeline   *Pipeline
	Store      store.Store
	Enricher   *WhoisEnricher // nil disables import-time WHOIS enrichment
	BatchLimit int
	Logger     *slog.Logger // tagged with its component by the caller
}

type ScanRequest struct {
	URL string `json:"url"`
}

type BatchScanRequest struct {
	URLs []string `json:"urls"`
}

type LoginRequest struct {
	Role model.UserRole `json:"role"`
}

type ListsRequest struct {
	Allowlist []string `json:"allowlist"`
	Blocklist []string `json:"blocklist"`
}

type StatsResponse struct {
	TotalRecords     int                     `json:"totalRecords"`
	DatasetsUploaded int                     `json:"datasetsUploaded"`
	LastUpdate       string                  `json:"lastUpdate"`
	Datasets         []model.DatasetMetadata `json:"datasets"`
	Allowlist        []string                `json:"allowlist"`
	Blocklist        []string                `json:"blocklist"`
}

// Router builds the gin engine with all routes.
func (s *Server) Router() *gin.Engine {
	if s.Logger == nil {
		s.Logger = slog.Default()
	}
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.POST("/scan", s.handleScan)
	api.POST("/scan/batch", s.handleBatchScan)

	api.GET("/session", s.handleSession)
	api.POST("/session/login", s.handleLogin)
	api.POST("/session/logout", s.handleLogout)

	admin := api.Group("/admin", s.requireAdmin)
	admin.POST("/upload", s.handleUpload)
	admin.PUT("/settings", s.handleSettings)
	admin.GET("/stats", s.handleStats)
	admin.DELETE("/state", s.handleReset)

	return r
}

func (s *Server) handleScan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url required"})
		return
	}

	res, err := s.Pipeline.Scan(c.Request.Context(), req.URL)
	if err != nil {
		s.fail(c, "scan", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleBatchScan(c *gin.Context) {
	var req BatchScanRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.URLs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "urls required"})
		return
	}
	if len(req.URLs) > maxBatchSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many urls"})
		return
	}
	for _, u := range req.URLs {
		if strings.TrimSpace(u) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "urls must not be blank"})
			return
		}
	}

	results, err := s.Pipeline.ScanBatch(c.Request.Context(), req.URLs, s.BatchLimit)
	if err != nil {
		s.fail(c, "batch scan", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *Server) handleSession(c *gin.Context) {
	st, err := s.Store.State(c.Request.Context())
	if err != nil {
		s.fail(c, "session", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": st.Role, "isLoggedIn": st.IsLoggedIn})
}

// handleLogin switches the single shared session. There is no credential
// check: the server is for local, single-operator use only.
func (s *Server) handleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.Role != model.RoleAdmin && req.Role != model.RoleUser) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be ADMIN or USER"})
		return
	}
	if err := s.Store.SetSession(c.Request.Context(), req.Role, true); err != nil {
		s.fail(c, "login", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": req.Role, "isLoggedIn": true})
}

func (s *Server) handleLogout(c *gin.Context) {
	if err := s.Store.SetSession(c.Request.Context(), model.RoleGuest, false); err != nil {
		s.fail(c, "logout", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": model.RoleGuest, "isLoggedIn": false})
}

func (s *Server) requireAdmin(c *gin.Context) {
	st, err := s.Store.State(c.Request.Context())
	if err != nil {
		s.fail(c, "session", err)
		c.Abort()
		return
	}
	if st.Role != model.RoleAdmin || !st.IsLoggedIn {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin session required"})
		return
	}
	c.Next()
}

func (s *Server) handleUpload(c *gin.Context) {
	filename := c.Query("filename")
	var body io.Reader = c.Request.Body

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file field required"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
			return
		}
		defer f.Close()
		body = f
		if filename == "" {
			filename = fh.Filename
		}
	}
	if filename == "" {
		filename = "upload.csv"
	}

	n, err := ImportDataset(c.Request.Context(), s.Store, s.Enricher, filename, body, time.Now())
	if err != nil {
		s.fail(c, "upload", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully uploaded records.", "recordCount": n, "filename": filename})
}

func (s *Server) handleSettings(c *gin.Context) {
	var req ListsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lists"})
		return
	}
	allow, block := CleanList(req.Allowlist), CleanList(req.Blocklist)
	if err := s.Store.UpdateLists(c.Request.Context(), allow, block); err != nil {
		s.fail(c, "settings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"allowlist": allow, "blocklist": block})
}

func (s *Server) handleStats(c *gin.Context) {
	st, err := s.Store.State(c.Request.Context())
	if err != nil {
		s.fail(c, "stats", err)
		return
	}
	c.JSON(http.StatusOK, Stats(st))
}

func (s *Server) handleReset(c *gin.Context) {
	if err := s.Store.Clear(c.Request.Context()); err != nil {
		s.fail(c, "reset", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// fail logs err and answers with a generic operational failure.
func (s *Server) fail(c *gin.Context, op string, err error) {
	if errors.Is(err, ErrEmptyURL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.Logger.Error("request failed", "op", op, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "operational failure"})
}

// Stats summarizes the stored intel for the admin dashboard.
func Stats(st model.AppState) StatsResponse {
	resp := StatsResponse{
		TotalRecords:     len(st.ThreatRecords),
		DatasetsUploaded: len(st.Datasets),
		LastUpdate:       "N/A",
		Datasets:         st.Datasets,
		Allowlist:        st.Allowlist,
		Blocklist:        st.Blocklist,
	}
	if n := len(st.Datasets); n > 0 {
		resp.LastUpdate = st.Datasets[n-1].UploadTime
	}
	return resp
}
