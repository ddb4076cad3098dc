package ecs

import "github.com/sirupsen/logrus"

// RefreshEvents lets a caller observe every World.Refresh without
// the core depending on any particular scheduler (spec.md §1: system
// scheduling is an external collaborator). Either field may be nil.
type RefreshEvents struct {
	BeforeRefresh func(w *World)
	AfterRefresh  func(w *World)
}

// Config holds package-level, cross-cutting configuration, in the
// teacher's style (a package-level `Config` value with setter methods)
// rather than threading options through every constructor.
var Config config

type config struct {
	refreshEvents RefreshEvents
	logger        *logrus.Logger
}

// SetRefreshEvents installs hooks fired immediately before/after every
// World.Refresh call, across all worlds in the process.
func (c *config) SetRefreshEvents(re RefreshEvents) {
	c.refreshEvents = re
}

// SetLogger overrides the package-level logger used for World lifecycle
// events (debug-level messages on Init and Destroy). The default is
// logrus's standard logger.
func (c *config) SetLogger(l *logrus.Logger) {
	c.logger = l
}

func (c *config) log() *logrus.Logger {
	if c.logger != nil {
		return c.logger
	}
	return logrus.StandardLogger()
}
