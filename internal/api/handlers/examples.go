package handlers

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"captable/internal/api/models"
	"captable/internal/config"

	"github.com/gin-gonic/gin"
)

// ExampleHandler serves the bundled example scenario files.
type ExampleHandler struct {
	dir string
	log *slog.Logger
}

func NewExampleHandler(dir string, log *slog.Logger) *ExampleHandler {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	log.Debug("example scenarios", "dir", dir)
	return &ExampleHandler{dir: dir, log: log}
}

// List handles GET /api/v1/examples
func (h *ExampleHandler) List(c *gin.Context) {
	examples := []models.ExampleInfo{}

	entries, err := os.ReadDir(h.dir)
	if err != nil {
		h.log.Warn("failed to read example directory", "dir", h.dir, "error", err)
		c.JSON(http.StatusOK, gin.H{"examples": examples})
		return
	}

	for _, entry := range entries {
		id, ok := exampleID(entry.Name())
		if entry.IsDir() || !ok {
			continue
		}
		path := filepath.Join(h.dir, entry.Name())
		s, err := config.LoadUnchecked(path)
		if err != nil {
			h.log.Warn("skipping example", "file", path, "error", err)
			continue
		}
		examples = append(examples, models.ExampleInfo{
			ID:       id,
			Name:     s.Name,
			File:     entry.Name(),
			Founders: len(s.Founders),
			Rounds:   len(s.Rounds),
		})
	}

	c.JSON(http.StatusOK, gin.H{"examples": examples})
}

// Get handles GET /api/v1/examples/:id
func (h *ExampleHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		c.JSON(http.StatusBadRequest, models.NewError("INVALID_ID", "invalid example id"))
		return
	}
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		path := filepath.Join(h.dir, id+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		s, err := config.LoadUnchecked(path)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.NewError("INVALID_EXAMPLE", err.Error()))
			return
		}
		c.JSON(http.StatusOK, gin.H{"scenario": s})
		return
	}
	c.JSON(http.StatusNotFound, models.NewError("NOT_FOUND", "example not found"))
}

func exampleID(filename string) (string, bool) {
	ext := filepath.Ext(filename)
	switch ext {
	case ".yaml", ".yml", ".json":
		return strings.TrimSuffix(filename, ext), true
	}
	return "", false
}
