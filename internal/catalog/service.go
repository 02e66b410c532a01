// Package catalog implements the package catalog: batch import of pkg
// descriptors, faceted search and detail lookups.
package catalog

// Service is the orchestration layer used by the CLI and the HTTP server.
type Service struct {
	database Database
	source   Source
	logger   Logger
	clock    Clock
}

// NewService creates a new Service with the provided dependencies.
func NewService(database Database, source Source, logger Logger, clock Clock) *Service {
	return &Service{
		database: database,
		source:   source,
		logger:   logger,
		clock:    clock,
	}
}
