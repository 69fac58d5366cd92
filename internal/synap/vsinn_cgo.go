//go:build vsinn

package synap

// cgo bindings for the vendor graph compiler (ovxlib) and the NBG to EBG
// converter. Headers and libraries are expected on the default search paths
// or through CGO_CFLAGS/CGO_LDFLAGS.

/*
#cgo LDFLAGS: -lovxlib -lebg_utils
#include <stdlib.h>
#include <stdint.h>
#include <stdbool.h>
#include "vsi_nn_pub.h"

size_t nbg_to_ebg(uint8_t *nbg, size_t nbg_size, uint8_t **ebg, bool verbose);
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// VSICompiler compiles a vsi_nn graph owned by the caller.
type VSICompiler struct {
	graph *C.vsi_nn_graph_t
	ready bool
}

var _ Compiler = (*VSICompiler)(nil)

// NewVSICompiler wraps a vsi_nn_graph_t pointer. The graph stays owned by the caller.
func NewVSICompiler(graph unsafe.Pointer) *VSICompiler {
	return &VSICompiler{graph: (*C.vsi_nn_graph_t)(graph)}
}

// Setup runs vsi_nn_SetupGraph and vsi_nn_VerifyGraph once. Later calls
// return nil without touching the vendor graph.
func (c *VSICompiler) Setup() error {
	if c.ready {
		return nil
	}
	if c.graph == nil {
		return fmt.Errorf("nil vsi_nn graph")
	}
	if st := C.vsi_nn_SetupGraph(c.graph, C.vsi_bool(1)); st != C.VSI_SUCCESS {
		return fmt.Errorf("vsi_nn_SetupGraph status %d", int(st))
	}
	if st := C.vsi_nn_VerifyGraph(c.graph); st != C.VSI_SUCCESS {
		return fmt.Errorf("vsi_nn_VerifyGraph status %d", int(st))
	}
	c.ready = true
	return nil
}

func (c *VSICompiler) NBGSize() (int, error) {
	var size C.size_t
	if st := C.vsi_nn_GenerateNBG(c.graph, nil, &size); st != C.VSI_SUCCESS {
		return 0, fmt.Errorf("vsi_nn_GenerateNBG status %d", int(st))
	}
	return int(size), nil
}

func (c *VSICompiler) GenerateNBG(buf []byte) error {
	size := C.size_t(len(buf))
	if st := C.vsi_nn_GenerateNBG(c.graph, unsafe.Pointer(&buf[0]), &size); st != C.VSI_SUCCESS {
		return fmt.Errorf("vsi_nn_GenerateNBG status %d", int(st))
	}
	return nil
}

// VSIBuilt reports whether the vendor toolchain is linked in.
const VSIBuilt = true

type vsiTranscoder struct{}

// NewVSITranscoder returns the vendor NBG to EBG converter.
func NewVSITranscoder() Transcoder { return vsiTranscoder{} }

func (vsiTranscoder) NBGToEBG(nbg []byte) ([]byte, error) {
	if len(nbg) == 0 {
		return nil, fmt.Errorf("empty nbg")
	}
	var out *C.uint8_t
	n := C.nbg_to_ebg((*C.uint8_t)(unsafe.Pointer(&nbg[0])), C.size_t(len(nbg)), &out, C.bool(false))
	if n == 0 || out == nil {
		return nil, fmt.Errorf("nbg_to_ebg returned no data")
	}
	defer C.free(unsafe.Pointer(out))
	return C.GoBytes(unsafe.Pointer(out), C.int(n)), nil
}
