// Package handler is the HTTP collaborator in front of the lending
// engine: routing, request decoding and outcome-to-status mapping.
// It never makes lifecycle decisions itself.
package handler

import (
	"github.com/jellydator/ttlcache/v3"
	"github.com/osezele/circulata/config"
	"github.com/osezele/circulata/data"
	"github.com/osezele/circulata/internal/jsonlog"
	"github.com/osezele/circulata/service"
)

// Handler defines the handler layer.
type Handler struct {
	config  config.Config
	logger  *jsonlog.Logger
	cache   *ttlcache.Cache[int64, *data.LendingView]
	service service.Service
}

// New creates a new instance of Handler.
func New(cfg config.Config, logger *jsonlog.Logger, cache *ttlcache.Cache[int64, *data.LendingView], service service.Service) *Handler {
	return &Handler{
		config:  cfg,
		logger:  logger,
		cache:   cache,
		service: service,
	}
}
