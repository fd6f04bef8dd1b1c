//go:build !linux && !windows

package platform

import "fmt"

func nativeBackendName() string { return "" }

func openNative(name string, _ Options) (Backend, error) {
	return nil, fmt.Errorf("%w: %q has no implementation on this OS", ErrUnsupportedBackend, name)
}
