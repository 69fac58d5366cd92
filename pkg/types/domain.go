package types

// Model is a network that can be compiled and loaded onto the accelerator.
type Model struct {
	// Stable identifier for the model (NBG file stem).
	ID string `json:"id"`
	// Human-friendly name.
	Name string `json:"name"`
	// Absolute path to the NBG file on disk.
	Path string `json:"path"`
	// Byte size of each input tensor, in runtime slot order.
	Inputs []int `json:"inputs"`
	// Byte size of each output tensor, in runtime slot order.
	Outputs []int `json:"outputs"`
}
