package app

import (
	"github.com/astrokit/ptapipe/internal/registry"
	"github.com/astrokit/ptapipe/modules/priors"
	"github.com/astrokit/ptapipe/modules/ptamodels"
	"github.com/astrokit/ptapipe/modules/rednoise"
	"github.com/astrokit/ptapipe/modules/whitenoise"
)

// coreModules are the factory packages registered by default.
var coreModules = []registry.Module{
	whitenoise.Module{},
	rednoise.Module{},
	priors.Module{},
	ptamodels.Module{},
}
