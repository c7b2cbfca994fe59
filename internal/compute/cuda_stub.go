package compute

// CUDABackend is a placeholder so device selection reads the same as on a
// machine with an accelerator. It never reports itself available.
type CUDABackend struct{}

func NewCUDABackend() *CUDABackend {
	return &CUDABackend{}
}

func (c *CUDABackend) Name() string    { return "cuda (not available)" }
func (c *CUDABackend) Available() bool { return false }
func (c *CUDABackend) Cleanup()        {}

func (c *CUDABackend) Rows(rows int, fn func(start, end int)) {
	NewCPUBackend(0).Rows(rows, fn)
}
