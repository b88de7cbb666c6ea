package backend

func init() {
	RegisterKind(CPU, func(_ int) (Backend, error) {
		return cpuBackend{}, nil
	})
}

// cpuBackend is the always-available software pipeline. The actual depth
// decoding lives in the sensor driver; this value only carries the choice.
type cpuBackend struct{}

func (cpuBackend) Kind() Kind { return CPU }
