package controllers

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

const (
	statusCacheKey = "status"
	// StatusTTL is how long connection checks are reused
	StatusTTL = 30 * time.Second
)

// ServiceChecker verifies connectivity to one external service
type ServiceChecker interface {
	Collector
	CheckConnection(ctx context.Context) error
}

// StatusController reports which services are reachable
type StatusController struct {
	checkers []ServiceChecker
	cache    *cache.Cache
	logger   *logrus.Logger
}

// NewStatusController creates a status controller that caches results for ttl
func NewStatusController(checkers []ServiceChecker, ttl time.Duration, logger *logrus.Logger) *StatusController {
	return &StatusController{
		checkers: checkers,
		cache:    cache.New(ttl, 2*ttl),
		logger:   logger,
	}
}

// Check returns the reachability of every service keyed by name
func (c *StatusController) Check(ctx context.Context) map[string]bool {
	if cached, found := c.cache.Get(statusCacheKey); found {
		return copyStatus(cached.(map[string]bool))
	}

	status := make(map[string]bool, len(c.checkers))
	for _, checker := range c.checkers {
		name := checker.Name()
		if !checker.Configured() {
			status[name] = false
			continue
		}
		if err := checker.CheckConnection(ctx); err != nil {
			c.logger.WithError(err).WithField("service", name).Warn("Service connection check failed")
			status[name] = false
			continue
		}
		status[name] = true
	}

	c.cache.SetDefault(statusCacheKey, status)
	return copyStatus(status)
}

// Invalidate drops the cached result so the next Check contacts every service
func (c *StatusController) Invalidate() {
	c.cache.Delete(statusCacheKey)
}

func copyStatus(status map[string]bool) map[string]bool {
	out := make(map[string]bool, len(status))
	for k, v := range status {
		out[k] = v
	}
	return out
}
