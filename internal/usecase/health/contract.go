package health

// CatalogCounter reports the number of loaded products.
type CatalogCounter interface {
	Count() int
}

// VisionStatus reports whether the vision provider is configured.
type VisionStatus interface {
	Configured() bool
}
