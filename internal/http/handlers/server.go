package handlers

import (
	"github.com/rogerio-castellano/catalog-sync/internal/app"
	"github.com/rogerio-castellano/catalog-sync/internal/catalog"
	"github.com/rogerio-castellano/catalog-sync/internal/repo"
)

var (
	controller *app.Controller
	service    *catalog.Service
	metrics    repo.MetricsRepository
	uploadDir  = "uploads"
)

func SetController(c *app.Controller) {
	controller = c
}

func SetService(s *catalog.Service) {
	service = s
}

func SetMetricsRepo(m repo.MetricsRepository) {
	metrics = m
}

// SetUploadDir sets where images posted with a new product are kept.
func SetUploadDir(dir string) {
	if dir != "" {
		uploadDir = dir
	}
}
