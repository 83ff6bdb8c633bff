package pulsar

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"
)

func writeFixtures(t *testing.T, pulsars []*Pulsar, noise map[string]float64) (string, string) {
	t.Helper()
	dir := t.TempDir()

	packed, err := msgpack.Marshal(pulsars)
	if err != nil {
		t.Fatalf("failed to marshal pulsars: %v", err)
	}
	pulsarFile := filepath.Join(dir, "pulsars.msgpack")
	if err := os.WriteFile(pulsarFile, packed, 0600); err != nil {
		t.Fatalf("failed to write pulsar file: %v", err)
	}

	rawDict, err := json.Marshal(noise)
	if err != nil {
		t.Fatalf("failed to marshal noise dict: %v", err)
	}
	noiseFile := filepath.Join(dir, "noise.json")
	if err := os.WriteFile(noiseFile, rawDict, 0600); err != nil {
		t.Fatalf("failed to write noise file: %v", err)
	}
	return pulsarFile, noiseFile
}

func TestEnsureLoaded(t *testing.T) {
	pulsars := []*Pulsar{
		{Name: "J1909-3744", TOAs: []float64{1, 2, 3}},
		{Name: "B1855+09", TOAs: []float64{4, 5}},
	}
	noise := map[string]float64{"J1909-3744_efac": 1.05}
	pulsarFile, noiseFile := writeFixtures(t, pulsars, noise)

	l := &Loader{PulsarFile: pulsarFile, NoiseDictFile: noiseFile}
	if err := l.EnsureLoaded(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff(pulsars, l.Pulsars()); diff != "" {
		t.Errorf("pulsars mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(noise, l.NoiseDict()); diff != "" {
		t.Errorf("noise dict mismatch (-want +got):\n%s", diff)
	}
}

func TestEnsureLoaded_Idempotent(t *testing.T) {
	pulsarFile, noiseFile := writeFixtures(t,
		[]*Pulsar{{Name: "J1909-3744"}},
		map[string]float64{"J1909-3744_efac": 1.0})

	l := &Loader{PulsarFile: pulsarFile, NoiseDictFile: noiseFile}
	if err := l.EnsureLoaded(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Removing the inputs must not matter once records are loaded.
	if err := os.Remove(pulsarFile); err != nil {
		t.Fatal(err)
	}
	if err := l.EnsureLoaded(context.Background()); err != nil {
		t.Fatalf("second EnsureLoaded should be a no-op, got %v", err)
	}
}

func TestEnsureLoaded_MissingFiles(t *testing.T) {
	pulsarFile, noiseFile := writeFixtures(t,
		[]*Pulsar{{Name: "J1909-3744"}},
		map[string]float64{})

	cases := []struct {
		name   string
		loader *Loader
	}{
		{"missing pulsar file", &Loader{PulsarFile: "/no/such/file", NoiseDictFile: noiseFile}},
		{"missing noise dict", &Loader{PulsarFile: pulsarFile, NoiseDictFile: "/no/such/file"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.loader.EnsureLoaded(context.Background())
			var merr *MissingInputError
			if !errors.As(err, &merr) {
				t.Fatalf("got %v, want MissingInputError", err)
			}
		})
	}
}

func TestEnsureLoaded_EcorrAliasInjection(t *testing.T) {
	noise := map[string]float64{
		"J1909-3744_log10_ecorr_wide": -6.5,
		"B1855+09_log10_ecorr":        -7.1,
		"B1855+09_basis_ecorr":        -5.0, // pre-existing alias must survive
		"J1909-3744_efac":             1.0,
	}
	pulsarFile, noiseFile := writeFixtures(t, []*Pulsar{{Name: "J1909-3744"}}, noise)

	l := &Loader{PulsarFile: pulsarFile, NoiseDictFile: noiseFile}
	if err := l.EnsureLoaded(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]float64{
		"J1909-3744_log10_ecorr_wide": -6.5,
		"J1909-3744_basis_ecorr_wide": -6.5,
		"B1855+09_log10_ecorr":        -7.1,
		"B1855+09_basis_ecorr":        -5.0,
		"J1909-3744_efac":             1.0,
	}
	if diff := cmp.Diff(want, l.NoiseDict()); diff != "" {
		t.Errorf("noise dict mismatch (-want +got):\n%s", diff)
	}
}
