// Package service implements the lending and reservation lifecycle
// engine. Every state-changing operation runs as one atomic unit of
// work against the repository; callers only ever observe committed
// state or a typed outcome.
package service

import (
	"github.com/osezele/circulata/config"
	"github.com/osezele/circulata/internal/jsonlog"
	"github.com/osezele/circulata/repository"
)

type Service interface {
	lendings
}

// service defines the service layer.
type service struct {
	config config.Config
	logger *jsonlog.Logger
	repo   repository.Repository
}

// New creates a new instance of Service.
func New(cfg config.Config, logger *jsonlog.Logger, repo repository.Repository) *service {
	return &service{
		config: cfg,
		logger: logger,
		repo:   repo,
	}
}
