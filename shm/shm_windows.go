//go:build windows

package shm

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32            = windows.NewLazySystemDLL("kernel32.dll")
	procOpenFileMapping = kernel32.NewProc("OpenFileMappingW")
)

// Open maps a pre-existing named file mapping read-only. The mapping must
// already have been created by the external writer; this process never
// creates or writes it. Any partially opened handle is released before an
// error is returned.
func Open(name string) (*Region, error) {
	namep, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrNotFound, name, err)
	}

	h, _, openErr := procOpenFileMapping.Call(
		uintptr(windows.FILE_MAP_READ),
		0, // do not inherit
		uintptr(unsafe.Pointer(namep)),
	)
	if h == 0 {
		switch openErr {
		case windows.ERROR_ACCESS_DENIED:
			return nil, fmt.Errorf("%w: %q", ErrAccessDenied, name)
		default:
			return nil, fmt.Errorf("%w: %q: %v", ErrNotFound, name, openErr)
		}
	}
	handle := windows.Handle(h)

	addr, err := windows.MapViewOfFile(handle, windows.FILE_MAP_READ, 0, 0, 0)
	if err != nil {
		windows.CloseHandle(handle)
		return nil, fmt.Errorf("%w: %q: %v", ErrMapFailed, name, err)
	}

	// Length 0 maps the whole section; ask the VM for the actual extent.
	var info windows.MemoryBasicInformation
	if err := windows.VirtualQuery(addr, &info, unsafe.Sizeof(info)); err != nil {
		windows.UnmapViewOfFile(addr)
		windows.CloseHandle(handle)
		return nil, fmt.Errorf("%w: %q: query view extent: %v", ErrMapFailed, name, err)
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), info.RegionSize)
	return &Region{
		data: data,
		unmap: func() error {
			uerr := windows.UnmapViewOfFile(addr)
			cerr := windows.CloseHandle(handle)
			if uerr != nil {
				return uerr
			}
			return cerr
		},
	}, nil
}
