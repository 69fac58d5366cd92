package synap

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Descriptor lists the flat byte sizes of a network's inputs and outputs in
// declaration order. It is the shape document handed to Runtime.Load.
type Descriptor struct {
	Inputs  []int
	Outputs []int
}

// String renders the descriptor in the runtime's wire form:
//
//	{"Inputs": {"0":{"dtype":"byte","shape":[N]},...},"Outputs": {...}}
func (d Descriptor) String() string {
	var b strings.Builder
	b.WriteString(`{"Inputs": `)
	writeSlots(&b, d.Inputs)
	b.WriteString(`,"Outputs": `)
	writeSlots(&b, d.Outputs)
	b.WriteByte('}')
	return b.String()
}

func writeSlots(b *strings.Builder, sizes []int) {
	b.WriteByte('{')
	for i, size := range sizes {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strconv.Itoa(i))
		b.WriteString(`":{"dtype":"byte","shape":[`)
		b.WriteString(strconv.Itoa(size))
		b.WriteString("]}")
	}
	b.WriteByte('}')
}

// ParseDescriptor reads a descriptor produced by Descriptor.String.
// Slot keys must form the contiguous range 0..N-1.
func ParseDescriptor(s string) (Descriptor, error) {
	if !gjson.Valid(s) {
		return Descriptor{}, fmt.Errorf("descriptor: invalid json")
	}
	root := gjson.Parse(s)
	in, err := parseSlots(root.Get("Inputs"), "Inputs")
	if err != nil {
		return Descriptor{}, err
	}
	out, err := parseSlots(root.Get("Outputs"), "Outputs")
	if err != nil {
		return Descriptor{}, err
	}
	return Descriptor{Inputs: in, Outputs: out}, nil
}

func parseSlots(r gjson.Result, section string) ([]int, error) {
	if !r.IsObject() {
		return nil, fmt.Errorf("descriptor: missing %s object", section)
	}
	type slot struct{ idx, size int }
	var slots []slot
	var perr error
	r.ForEach(func(key, value gjson.Result) bool {
		idx, err := strconv.Atoi(key.String())
		if err != nil || idx < 0 {
			perr = fmt.Errorf("descriptor: %s key %q is not an index", section, key.String())
			return false
		}
		if dt := value.Get("dtype").String(); dt != "byte" {
			perr = fmt.Errorf("descriptor: %s[%d] dtype %q unsupported", section, idx, dt)
			return false
		}
		shape := value.Get("shape").Array()
		if len(shape) != 1 || shape[0].Int() < 0 {
			perr = fmt.Errorf("descriptor: %s[%d] shape must hold one byte size", section, idx)
			return false
		}
		slots = append(slots, slot{idx: idx, size: int(shape[0].Int())})
		return true
	})
	if perr != nil {
		return nil, perr
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].idx < slots[j].idx })
	sizes := make([]int, len(slots))
	for i, s := range slots {
		if s.idx != i {
			return nil, fmt.Errorf("descriptor: %s indices are not contiguous at %d", section, i)
		}
		sizes[i] = s.size
	}
	return sizes, nil
}

// TensorSizes collects ByteSize for each tensor in order.
func TensorSizes(tensors []Tensor) []int {
	sizes := make([]int, 0, len(tensors))
	for _, t := range tensors {
		sizes = append(sizes, t.ByteSize())
	}
	return sizes
}
