package builder

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/astrokit/ptapipe/internal/coerce"
	"github.com/astrokit/ptapipe/internal/config"
	"github.com/astrokit/ptapipe/internal/pta"
	"github.com/astrokit/ptapipe/internal/pulsar"
	"github.com/astrokit/ptapipe/internal/registry"
)

// stubPrior is a class constructible from a config section.
type stubPrior struct {
	Lo, Hi float64
}

type stubPriorParams struct {
	Lo float64 `pta:"lo"`
	Hi float64 `pta:"hi"`
}

// stubSignalParams drives both the deferred factories and the custom-return
// helper in these tests. Prior is settable only through directives.
type stubSignalParams struct {
	Amp   float64   `pta:"amp"`
	Grid  []float64 `pta:"grid"`
	Prior any       `pta:"prior"`
}

// stubSignal is a no-op signal block recording the params it was built from.
type stubSignal struct {
	params *stubSignalParams
}

func (s *stubSignal) Add(other pta.Signal) pta.Signal { return pta.Join(s, other) }

func (s *stubSignal) Instantiate(p *pulsar.Pulsar) *pta.PulsarModel {
	return &pta.PulsarModel{Pulsar: p, Signal: s}
}

// testModule registers one class, two functions, and one namespace model.
type testModule struct {
	signalCalls int
}

func (m *testModule) Register(r *registry.Registry) {
	r.RegisterClass("testmod", "Prior", &registry.RegisteredClass{
		NewParams: func() any { return &stubPriorParams{Lo: 0, Hi: 1} },
		Construct: func(p *stubPriorParams) (any, error) {
			return &stubPrior{Lo: p.Lo, Hi: p.Hi}, nil
		},
	})
	r.RegisterFunction("testmod", "MakeSignal", &registry.RegisteredFunction{
		NewParams: func() any { return &stubSignalParams{Amp: 1.0, Grid: []float64{0, 1}} },
		Fn: func(p *stubSignalParams) (pta.Signal, error) {
			m.signalCalls++
			return &stubSignal{params: p}, nil
		},
	})
	r.RegisterFunction("testmod", "Half", &registry.RegisteredFunction{
		NewParams: func() any { return &stubSignalParams{Amp: 2.0} },
		Fn: func(p *stubSignalParams) (float64, error) {
			return p.Amp / 2, nil
		},
	})
	r.RegisterModel("stub_model", &registry.RegisteredModel{
		NewParams: func() any { return &stubSignalParams{Amp: 3.0} },
		Fn: func(psrs []*pulsar.Pulsar, p *stubSignalParams) (*pta.PTA, error) {
			sig := &stubSignal{params: p}
			models := make([]*pta.PulsarModel, 0, len(psrs))
			for _, psr := range psrs {
				models = append(models, sig.Instantiate(psr))
			}
			return pta.NewPTA(models), nil
		},
	})
}

func newTestSettings() (*RunSettings, *testModule) {
	reg := registry.New()
	mod := &testModule{}
	mod.Register(reg)
	return New(reg), mod
}

func update(t *testing.T, rs *RunSettings, sections ...*config.Section) error {
	t.Helper()
	return rs.UpdateFromDocument(context.Background(), &config.Document{Sections: sections})
}

func TestUpdateFromDocument_SettingsPassthrough(t *testing.T) {
	rs, _ := newTestSettings()
	err := update(t, rs, &config.Section{Name: "input", Entries: []config.Entry{
		{Key: "pulsar_file", Value: "/data/psrs.msgpack"},
		{Key: "noisedict_file", Value: "/data/noise.json"},
		{Key: "outdir", Value: ""},          // empty values are dropped
		{Key: "unknown_key", Value: "zzz"}, // unknown fields ignored silently
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rs.PulsarFile != "/data/psrs.msgpack" || rs.NoiseDictFile != "/data/noise.json" {
		t.Errorf("settings not applied: %+v", rs)
	}
	if rs.OutDir != "" {
		t.Errorf("empty value should leave OutDir unset, got %q", rs.OutDir)
	}
}

func TestUpdateFromDocument_ClassSection(t *testing.T) {
	rs, _ := newTestSettings()
	err := update(t, rs, &config.Section{Name: "myprior", Entries: []config.Entry{
		{Key: "module", Value: "testmod"},
		{Key: "class", Value: "Prior"},
		{Key: "hi", Value: "7.5"},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inst, ok := rs.CustomClass("myprior")
	if !ok {
		t.Fatal("class instance not stored under its section name")
	}
	prior := inst.(*stubPrior)
	if prior.Lo != 0 || prior.Hi != 7.5 {
		t.Errorf("prior = %+v, want defaults overlaid with file values", prior)
	}

	want := map[string]any{"lo": 0.0, "hi": 7.5}
	if diff := cmp.Diff(want, rs.TypedSections()["myprior"]); diff != "" {
		t.Errorf("typed section audit mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateFromDocument_UnknownClass(t *testing.T) {
	rs, _ := newTestSettings()
	err := update(t, rs, &config.Section{Name: "bad", Entries: []config.Entry{
		{Key: "module", Value: "testmod"},
		{Key: "class", Value: "NoSuchClass"},
	}})
	var uerr *UnresolvedSymbolError
	if !errors.As(err, &uerr) {
		t.Fatalf("got %v, want UnresolvedSymbolError", err)
	}
	if uerr.Kind != "class" || uerr.Name != "NoSuchClass" {
		t.Errorf("error should identify the class, got %+v", uerr)
	}
}

func TestUpdateFromDocument_CustomReturnCallsImmediately(t *testing.T) {
	rs, _ := newTestSettings()
	err := update(t, rs, &config.Section{Name: "halved", Entries: []config.Entry{
		{Key: "module", Value: "testmod"},
		{Key: "function", Value: "Half"},
		{Key: "custom_return", Value: "half_amp"},
		{Key: "amp", Value: "9.0"},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := rs.CustomFunctionReturn("half_amp")
	if !ok {
		t.Fatal("custom return not stored under its label")
	}
	if got != 4.5 {
		t.Errorf("custom return = %v, want 4.5", got)
	}
}

func TestUpdateFromDocument_SignalReturnDefersCall(t *testing.T) {
	rs, mod := newTestSettings()
	err := update(t, rs, &config.Section{Name: "wn", Entries: []config.Entry{
		{Key: "module", Value: "testmod"},
		{Key: "function", Value: "MakeSignal"},
		{Key: "signal_return", Value: "True"},
		{Key: "amp", Value: "5.0"},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mod.signalCalls != 0 {
		t.Errorf("signal factory must not be called during interpretation, got %d calls", mod.signalCalls)
	}

	want := map[string]any{"amp": 5.0, "grid": []float64{0, 1}, "prior": nil}
	if diff := cmp.Diff(want, rs.signalParams["wn"]); diff != "" {
		t.Errorf("merged signal params mismatch (-want +got):\n%s", diff)
	}
	if len(rs.signalOrder) != 1 || rs.signalOrder[0] != "wn" {
		t.Errorf("signal order = %v, want [wn]", rs.signalOrder)
	}
}

func TestUpdateFromDocument_PTAReturn(t *testing.T) {
	rs, _ := newTestSettings()
	err := update(t, rs, &config.Section{Name: "custom_pta", Entries: []config.Entry{
		{Key: "module", Value: "testmod"},
		{Key: "function", Value: "MakeSignal"},
		{Key: "pta_return", Value: "True"},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := rs.ptaFactories["custom_pta"]; !ok {
		t.Error("pta_return section should register a PTA factory")
	}
}

func TestUpdateFromDocument_MissingDirective(t *testing.T) {
	rs, _ := newTestSettings()
	err := update(t, rs, &config.Section{Name: "broken", Entries: []config.Entry{
		{Key: "module", Value: "testmod"},
		{Key: "function", Value: "MakeSignal"},
	}})
	var derr *InvalidDirectiveError
	if !errors.As(err, &derr) {
		t.Fatalf("got %v, want InvalidDirectiveError", err)
	}
}

func TestUpdateFromDocument_ImplicitModelSection(t *testing.T) {
	rs, _ := newTestSettings()
	err := update(t, rs, &config.Section{Name: "stub_model", Entries: []config.Entry{
		{Key: "amp", Value: "8.0"},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := rs.ptaFactories["stub_model"]; !ok {
		t.Fatal("implicit section should register from the model namespace")
	}
	if rs.ptaParams["stub_model"]["amp"] != 8.0 {
		t.Errorf("amp = %v, want file override 8.0", rs.ptaParams["stub_model"]["amp"])
	}
}

func TestUpdateFromDocument_UnknownImplicitSectionFails(t *testing.T) {
	rs, _ := newTestSettings()
	err := update(t, rs, &config.Section{Name: "no_such_model"})
	var uerr *UnresolvedSymbolError
	if !errors.As(err, &uerr) {
		t.Fatalf("got %v, want UnresolvedSymbolError", err)
	}
	if uerr.Kind != "model" {
		t.Errorf("kind = %q, want model", uerr.Kind)
	}
}

func TestUpdateFromDocument_BackwardReferenceResolves(t *testing.T) {
	rs, _ := newTestSettings()
	err := update(t, rs,
		&config.Section{Name: "myprior", Entries: []config.Entry{
			{Key: "module", Value: "testmod"},
			{Key: "class", Value: "Prior"},
		}},
		&config.Section{Name: "wn", Entries: []config.Entry{
			{Key: "module", Value: "testmod"},
			{Key: "function", Value: "MakeSignal"},
			{Key: "signal_return", Value: "True"},
			{Key: "prior", Value: "CUSTOM_CLASS:myprior"},
		}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inst, _ := rs.CustomClass("myprior")
	if rs.signalParams["wn"]["prior"] != inst {
		t.Error("prior slot should hold the constructed class instance")
	}
}

func TestUpdateFromDocument_ForwardReferenceFails(t *testing.T) {
	rs, _ := newTestSettings()
	err := update(t, rs,
		&config.Section{Name: "wn", Entries: []config.Entry{
			{Key: "module", Value: "testmod"},
			{Key: "function", Value: "MakeSignal"},
			{Key: "signal_return", Value: "True"},
			{Key: "prior", Value: "CUSTOM_CLASS:myprior"},
		}},
		&config.Section{Name: "myprior", Entries: []config.Entry{
			{Key: "module", Value: "testmod"},
			{Key: "class", Value: "Prior"},
		}},
	)
	var uerr *coerce.UnresolvedReferenceError
	if !errors.As(err, &uerr) {
		t.Fatalf("got %v, want UnresolvedReferenceError", err)
	}
	if uerr.Name != "myprior" {
		t.Errorf("error should carry the referenced section name, got %q", uerr.Name)
	}
}

func TestUpdateFromDocument_FunctionReturnReference(t *testing.T) {
	rs, _ := newTestSettings()
	err := update(t, rs,
		&config.Section{Name: "halved", Entries: []config.Entry{
			{Key: "module", Value: "testmod"},
			{Key: "function", Value: "Half"},
			{Key: "custom_return", Value: "half_amp"},
			{Key: "amp", Value: "10"},
		}},
		&config.Section{Name: "wn", Entries: []config.Entry{
			{Key: "module", Value: "testmod"},
			{Key: "function", Value: "MakeSignal"},
			{Key: "signal_return", Value: "True"},
			{Key: "amp", Value: "CUSTOM_FUNCTION_RETURN:half_amp"},
		}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rs.signalParams["wn"]["amp"] != 5.0 {
		t.Errorf("amp = %v, want the referenced return 5.0", rs.signalParams["wn"]["amp"])
	}
}

func TestUpdateFromDocument_ExpressionUsesEarlierReturns(t *testing.T) {
	rs, _ := newTestSettings()
	err := update(t, rs,
		&config.Section{Name: "halved", Entries: []config.Entry{
			{Key: "module", Value: "testmod"},
			{Key: "function", Value: "Half"},
			{Key: "custom_return", Value: "half_amp"},
			{Key: "amp", Value: "10"},
		}},
		&config.Section{Name: "wn", Entries: []config.Entry{
			{Key: "module", Value: "testmod"},
			{Key: "function", Value: "MakeSignal"},
			{Key: "signal_return", Value: "True"},
			{Key: "amp", Value: "FUNCTION_CALL:returns.half_amp * 2"},
		}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rs.signalParams["wn"]["amp"] != 10.0 {
		t.Errorf("amp = %v, want 10.0", rs.signalParams["wn"]["amp"])
	}
}
