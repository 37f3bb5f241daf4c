package probe

//go:generate go tool mockgen -source sampler.go -destination mock_sampler_test.go -package probe

// MemorySampler reads the current memory footprint of the process.
type MemorySampler interface {
	// Sample returns the footprint in megabytes and the name of the source
	// that produced it (one of the models.MemorySource* values).
	Sample() (mb float64, source string, err error)
}
