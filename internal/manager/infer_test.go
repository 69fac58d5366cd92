package manager

import (
	"errors"
	"testing"

	"synapd/internal/synap"
	"synapd/pkg/types"
)

func TestInfer_Loopback(t *testing.T) {
	m := newTestManager(t, ManagerConfig{})
	resp, err := m.Infer(testCtx(t), types.InferRequest{Inputs: [][]byte{[]byte("abcd")}})
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if resp.Model != "m" || len(resp.Outputs) != 1 || string(resp.Outputs[0]) != "abcdabcd" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if is, _ := m.Instance("m"); is.Runs != 1 {
		t.Fatalf("runs = %d, want 1", is.Runs)
	}
}

func TestInfer_InvalidInputs(t *testing.T) {
	m := newTestManager(t, ManagerConfig{})
	cases := []struct {
		name   string
		inputs [][]byte
	}{
		{"missing", nil},
		{"extra", [][]byte{[]byte("abcd"), []byte("x")}},
		{"short", [][]byte{[]byte("ab")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := m.Infer(testCtx(t), types.InferRequest{Model: "m", Inputs: tc.inputs})
			if !IsInvalidInput(err) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
	if _, ok := m.Instance("m"); ok {
		t.Fatalf("invalid requests must not load the model")
	}
}

func TestInfer_UnknownModel(t *testing.T) {
	m := newTestManager(t, ManagerConfig{})
	if _, err := m.Infer(testCtx(t), types.InferRequest{Model: "x"}); !IsModelNotFound(err) {
		t.Fatalf("expected model not found, got %v", err)
	}
}

func TestInfer_PredictFailure(t *testing.T) {
	boom := errors.New("boom")
	m := newTestManager(t, ManagerConfig{Backend: HostBackend(func(_, _ [][]byte) error { return boom })})
	_, err := m.Infer(testCtx(t), types.InferRequest{Inputs: [][]byte{[]byte("abcd")}})
	if !errors.Is(err, synap.ErrPredict) {
		t.Fatalf("expected ErrPredict, got %v", err)
	}
	is, _ := m.Instance("m")
	if is.Error == "" || is.Runs != 0 {
		t.Fatalf("expected recorded error and no runs: %+v", is)
	}
}
