package scope

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/aalemi-dev/tracewire/tracer"
)

func TestFXModule_ProvidesManager(t *testing.T) {
	t.Parallel()
	var m *Manager

	app := fxtest.New(t,
		FXModule,
		tracer.FXModule,
		fx.Provide(func() Config { return Config{State: "env=test"} }),
		fx.Provide(func() tracer.Config { return tracer.Config{ServiceName: "fx-test"} }),
		fx.Populate(&m),
	)

	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, m)
	assert.NotNil(t, m.tracer)
	assert.Equal(t, "env=test", m.State(context.Background()))
}

func TestFXModule_WithoutOptionalDependencies(t *testing.T) {
	t.Parallel()
	var m *Manager

	app := fxtest.New(t,
		FXModule,
		fx.Provide(func() Config { return Config{} }),
		fx.Populate(&m),
	)

	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, m)
	assert.Nil(t, m.tracer)
	assert.Nil(t, m.logger)
}
