package systems

import (
	"errors"
	"fmt"
	"testing"

	"github.com/decker502/journey/pkg/components"
	"github.com/decker502/journey/pkg/config"
	"github.com/decker502/journey/pkg/ecs"
	"github.com/decker502/journey/pkg/entities"
	"github.com/decker502/journey/pkg/route"
	"github.com/decker502/journey/pkg/types"
)

const frame = 1.0 / 60

// testWorld 测试用的最小航程：航点、航线、停靠表和一个载具
type testWorld struct {
	em        *ecs.EntityManager
	cfg       *config.JourneyConfig
	path      *route.Path
	docks     route.DockTable
	waypoints []route.Waypoint
	vehicle   ecs.EntityID
}

// straightLine 沿 X 轴每 100 单位一个航点
func straightLine(n int) []types.Vec3 {
	out := make([]types.Vec3, n)
	for i := range out {
		out[i] = types.V3(float64(i)*100, 0, 0)
	}
	return out
}

func newTestWorld(t *testing.T, positions []types.Vec3) *testWorld {
	t.Helper()

	cfg := config.DefaultJourneyConfig()
	path, err := route.BuildPath(positions, cfg.PathOptions())
	if err != nil {
		t.Fatalf("构建航线失败: %v", err)
	}
	docks, err := route.ResolveDocks(path, positions, cfg.Docks.Offset, cfg.Docks.Samples)
	if err != nil && !errors.Is(err, route.ErrDegenerateDockOrder) {
		t.Fatalf("解析停靠参数失败: %v", err)
	}

	waypoints := make([]route.Waypoint, len(positions))
	for i, p := range positions {
		waypoints[i] = route.Waypoint{Index: i, Position: p, Metadata: fmt.Sprintf("wp%d", i)}
	}

	em := ecs.NewEntityManager()
	if _, err := entities.NewWaypointEntities(em, waypoints); err != nil {
		t.Fatal(err)
	}
	vehicle, err := entities.NewVehicleEntity(em, path, cfg.Zoom.Initial)
	if err != nil {
		t.Fatal(err)
	}

	return &testWorld{
		em:        em,
		cfg:       cfg,
		path:      path,
		docks:     docks,
		waypoints: waypoints,
		vehicle:   vehicle,
	}
}

func (w *testWorld) nav(t *testing.T) *components.NavigationComponent {
	t.Helper()
	c, ok := ecs.GetComponent[*components.NavigationComponent](w.em, w.vehicle)
	if !ok {
		t.Fatal("缺少 NavigationComponent")
	}
	return c
}

func (w *testWorld) dock(t *testing.T) *components.DockComponent {
	t.Helper()
	c, ok := ecs.GetComponent[*components.DockComponent](w.em, w.vehicle)
	if !ok {
		t.Fatal("缺少 DockComponent")
	}
	return c
}

func (w *testWorld) heading(t *testing.T) *components.HeadingComponent {
	t.Helper()
	c, ok := ecs.GetComponent[*components.HeadingComponent](w.em, w.vehicle)
	if !ok {
		t.Fatal("缺少 HeadingComponent")
	}
	return c
}

func (w *testWorld) transform(t *testing.T) *components.TransformComponent {
	t.Helper()
	c, ok := ecs.GetComponent[*components.TransformComponent](w.em, w.vehicle)
	if !ok {
		t.Fatal("缺少 TransformComponent")
	}
	return c
}

func (w *testWorld) progressSystem() *ProgressSystem {
	return NewProgressSystem(w.em, w.path, w.docks, w.cfg.Progress, w.cfg.Zoom)
}

func (w *testWorld) span() float64 {
	return w.cfg.Progress.SegmentSize * float64(len(w.docks)+1)
}
