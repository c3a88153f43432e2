package health

// StatusHealthy is the only status the service reports: the catalog is
// validated at startup and an unconfigured vision provider is a degraded
// mode, not a failure.
const StatusHealthy = "healthy"

// Report is the health check payload.
type Report struct {
	Status           string
	ProductsCount    int
	VisionConfigured bool
}

// Service aggregates operational status for monitoring.
type Service struct {
	catalog CatalogCounter
	vision  VisionStatus
}

// New creates a health service.
func New(catalog CatalogCounter, vision VisionStatus) *Service {
	return &Service{catalog: catalog, vision: vision}
}

// Check reports the current state.
func (s *Service) Check() Report {
	return Report{
		Status:           StatusHealthy,
		ProductsCount:    s.catalog.Count(),
		VisionConfigured: s.vision.Configured(),
	}
}
