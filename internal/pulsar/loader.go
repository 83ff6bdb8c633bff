package pulsar

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/astrokit/ptapipe/internal/ctxlog"
)

// MissingInputError reports a required input file that is absent or
// unreadable. It is fatal: the run cannot proceed without its data.
type MissingInputError struct {
	Path string
	Err  error
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("required input file %q unavailable: %v", e.Path, e.Err)
}

func (e *MissingInputError) Unwrap() error { return e.Err }

// Loader reads the pulsar collection and the noise parameter dictionary
// lazily and exactly once. It is not safe for concurrent use.
type Loader struct {
	PulsarFile    string
	NoiseDictFile string

	pulsars []*Pulsar
	noise   map[string]float64
}

// Pulsars returns the loaded records; empty until EnsureLoaded succeeds.
func (l *Loader) Pulsars() []*Pulsar { return l.pulsars }

// NoiseDict returns the loaded noise parameter dictionary; nil until
// EnsureLoaded succeeds.
func (l *Loader) NoiseDict() map[string]float64 { return l.noise }

// EnsureLoaded deserializes the pulsar collection (msgpack) and the noise
// dictionary (JSON) on first call; later calls are no-ops once records are
// present.
func (l *Loader) EnsureLoaded(ctx context.Context) error {
	if len(l.pulsars) > 0 {
		return nil
	}
	logger := ctxlog.FromContext(ctx)
	logger.Info("Loading pulsars.", "pulsar_file", l.PulsarFile, "noisedict_file", l.NoiseDictFile)

	raw, err := os.ReadFile(l.PulsarFile)
	if err != nil {
		return &MissingInputError{Path: l.PulsarFile, Err: err}
	}
	var pulsars []*Pulsar
	if err := msgpack.Unmarshal(raw, &pulsars); err != nil {
		return &MissingInputError{Path: l.PulsarFile, Err: err}
	}

	rawDict, err := os.ReadFile(l.NoiseDictFile)
	if err != nil {
		return &MissingInputError{Path: l.NoiseDictFile, Err: err}
	}
	noise := make(map[string]float64)
	if err := json.Unmarshal(rawDict, &noise); err != nil {
		return &MissingInputError{Path: l.NoiseDictFile, Err: err}
	}

	l.pulsars = pulsars
	l.noise = noise
	injectBasisEcorrAliases(l.noise)

	logger.Debug("Pulsars loaded.", "count", len(l.pulsars), "noise_params", len(l.noise))
	return nil
}

// injectBasisEcorrAliases adds, for every white-noise ECORR parameter in the
// kernel naming convention, its basis-model counterpart pointing at the same
// value. Existing basis keys are left untouched.
func injectBasisEcorrAliases(noise map[string]float64) {
	pars := make([]string, 0, len(noise))
	for par := range noise {
		pars = append(pars, par)
	}
	for _, par := range pars {
		if !strings.Contains(par, "log10_ecorr") || strings.Contains(par, "basis_ecorr") {
			continue
		}
		alias := strings.Replace(par, "log10_ecorr", "basis_ecorr", 1)
		if _, ok := noise[alias]; !ok {
			noise[alias] = noise[par]
		}
	}
}
