package hypostatfx

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/hypostat/hypostat"
	"github.com/hypostat/hypostat/internal/config"
)

func TestModule(t *testing.T) {
	var (
		engine *hypostat.Engine
		reg    *prometheus.Registry
	)

	app := fxtest.New(t,
		fx.NopLogger,
		fx.Supply(config.Default(), zap.NewNop()),
		Module,
		fx.Populate(&engine, &reg),
	)
	app.RequireStart()
	defer app.RequireStop()

	if engine == nil {
		t.Fatal("engine not provided")
	}

	_, err := engine.OneSampleZ(hypostat.OneSampleZ{
		Sample: hypostat.SummaryFromStdDev(1, 1, 4),
		Sigma:  2,
		Alpha:  0.05,
		Tail:   hypostat.UpperTailed,
	})
	if err != nil {
		t.Fatalf("OneSampleZ() error = %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "hypostat_tests_total" {
			found = mf.GetMetric()[0].GetCounter().GetValue() == 1
		}
	}
	if !found {
		t.Error("hypostat_tests_total = 1 not found in registry")
	}
}
