package cavegen

import (
	"fmt"
	"sync"

	"github.com/gocave/cavegen/internal/mesh"
	"github.com/gocave/cavegen/internal/transport"
	"github.com/gocave/cavegen/render"
)

// TransportFactory builds the Transport and Mesh a run's ranks share,
// resolved from Config's mesh dimensions: "serial" and "parallel" each
// register one.
type TransportFactory func(cfg Config) (transport.Transport, mesh.Mesh, error)

// PacerFactory builds the Pacer a run's root rank drives the frame
// loop with: "headless" and "graphic" each register one.
type PacerFactory func(cfg Config, win render.Window) Pacer

var (
	registryMu        sync.RWMutex
	transportRegistry = make(map[string]TransportFactory)
	pacerRegistry     = make(map[string]PacerFactory)
)

func init() {
	RegisterTransportMode("serial", func(cfg Config) (transport.Transport, mesh.Mesh, error) {
		m, err := mesh.New(1, 1, 1, cfg.Rows, cfg.Cols)
		if err != nil {
			return nil, mesh.Mesh{}, err
		}
		return transport.NewChannelTransport(1), m, nil
	})
	RegisterTransportMode("parallel", func(cfg Config) (transport.Transport, mesh.Mesh, error) {
		n := cfg.XThreads * cfg.YThreads
		m, err := mesh.New(cfg.YThreads, cfg.XThreads, n, cfg.Rows, cfg.Cols)
		if err != nil {
			return nil, mesh.Mesh{}, err
		}
		return transport.NewChannelTransport(n), m, nil
	})
	RegisterPacerMode("headless", func(cfg Config, win render.Window) Pacer {
		return HeadlessPacer{}
	})
	RegisterPacerMode("graphic", func(cfg Config, win render.Window) Pacer {
		return &GraphicPacer{Window: win, MaxFrameRate: cfg.MaxFrameRate}
	})
}

// RegisterTransportMode registers a named transport/mesh constructor.
// Called from init() for the two built-in modes; exposed so a future
// backend (a real MPI binding, say) could register itself the same
// way without this package needing to know about it.
func RegisterTransportMode(name string, factory TransportFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	transportRegistry[name] = factory
}

// RegisterPacerMode registers a named pacer constructor.
func RegisterPacerMode(name string, factory PacerFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	pacerRegistry[name] = factory
}

// TransportForMode resolves name ("serial" or "parallel") to its
// registered constructor and invokes it.
func TransportForMode(name string, cfg Config) (transport.Transport, mesh.Mesh, error) {
	registryMu.RLock()
	factory, ok := transportRegistry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, mesh.Mesh{}, fmt.Errorf("cavegen: unknown transport mode %q", name)
	}
	return factory(cfg)
}

// PacerForMode resolves name ("headless" or "graphic") to its
// registered constructor and invokes it.
func PacerForMode(name string, cfg Config, win render.Window) (Pacer, error) {
	registryMu.RLock()
	factory, ok := pacerRegistry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("cavegen: unknown pacer mode %q", name)
	}
	return factory(cfg, win), nil
}

// TransportModeName and PacerModeName translate Config's booleans into
// the registry's string keys.
func TransportModeName(cfg Config) string {
	if cfg.IsParallel {
		return "parallel"
	}
	return "serial"
}

func PacerModeName(cfg Config) string {
	if cfg.ShowGraphics {
		return "graphic"
	}
	return "headless"
}
