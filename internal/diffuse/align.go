package diffuse

import "unsafe"

// ptrOf returns the address of a slice's backing array as an
// unsafe.Pointer, used to compute alignment padding in NewImage and to
// check row alignment in tests. It is never stored.
func ptrOf(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}
