//go:build !windows

package shm

// Open is only implemented on Windows, where the monitoring application
// publishes its segment. Other platforms can still decode captured snapshots
// through NewStaticRegion.
func Open(name string) (*Region, error) {
	return nil, ErrUnsupported
}
