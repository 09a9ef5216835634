package systems

import (
	"log"
	"math"

	"github.com/decker502/journey/pkg/components"
	"github.com/decker502/journey/pkg/config"
	"github.com/decker502/journey/pkg/ecs"
)

// DockTransition 停靠状态变化
type DockTransition struct {
	Index    int
	Entered  bool // true 为进入停靠，false 为离开
	Metadata any
}

// ArrivalSystem 到达检测
//
// 两状态机（航行 / 停靠）带滞回：
//   - 航行中进入 Radius 内的最近航点即停靠
//   - 停靠后只有离开 DepartureRadius 或收到离开请求才回到航行
//   - 刚离开的航点在远离到 RearmRadius 之前不会再次停靠
//
// 所有距离为水平（XZ）距离。
type ArrivalSystem struct {
	entityManager *ecs.EntityManager
	cfg           config.ArrivalConfig
	onTransition  func(DockTransition)
}

// NewArrivalSystem 创建到达检测系统
func NewArrivalSystem(em *ecs.EntityManager, cfg config.ArrivalConfig) *ArrivalSystem {
	return &ArrivalSystem{
		entityManager: em,
		cfg:           cfg,
	}
}

// SetTransitionHandler 设置停靠变化回调，在 Update 中同步调用
func (s *ArrivalSystem) SetTransitionHandler(handler func(DockTransition)) {
	s.onTransition = handler
}

// Update 检测到达与离开
func (s *ArrivalSystem) Update(dt float64) {
	waypoints := queryWaypoints(s.entityManager)

	for _, v := range queryVehicles(s.entityManager) {
		s.updateVehicle(v, waypoints)
	}
}

func (s *ArrivalSystem) updateVehicle(v vehicle, waypoints []*components.WaypointComponent) {
	nav, dock := v.nav, v.dock
	pos := v.transform.Position

	// 离开请求（滚动量越过阈值或跳转到其他航点）
	if nav.ReleaseSeq != dock.HandledRelease {
		dock.HandledRelease = nav.ReleaseSeq
		if dock.IsDocked() {
			s.exit(dock, waypoints)
			return
		}
	}

	if dock.IsDocked() {
		wp, ok := findWaypoint(waypoints, dock.DockedIndex)
		if !ok || pos.DistanceXZ(wp.Position) > s.cfg.DepartureRadius {
			s.exit(dock, waypoints)
		}
		return
	}

	// 航行中：刚离开的航点远离后重新布防
	if dock.LastExited != components.NoWaypoint {
		wp, ok := findWaypoint(waypoints, dock.LastExited)
		if !ok || pos.DistanceXZ(wp.Position) > s.cfg.RearmRadius {
			dock.LastExited = components.NoWaypoint
		}
	}

	best := components.NoWaypoint
	bestDist := math.Inf(1)
	for _, wp := range waypoints {
		// 跳转途中只允许停靠跳转目标，且跳转目标不受布防限制
		if nav.PendingJump != components.NoWaypoint {
			if wp.Index != nav.PendingJump {
				continue
			}
		} else if wp.Index == dock.LastExited {
			continue
		}
		d := pos.DistanceXZ(wp.Position)
		if d < s.cfg.Radius && d < bestDist {
			best = wp.Index
			bestDist = d
		}
	}
	if best == components.NoWaypoint {
		return
	}

	dock.DockedIndex = best
	wp, _ := findWaypoint(waypoints, best)
	log.Printf("[ArrivalSystem] Docked at waypoint %d (distance %.1f)", best, bestDist)
	s.emit(DockTransition{Index: best, Entered: true, Metadata: wp.Metadata})
}

func (s *ArrivalSystem) exit(dock *components.DockComponent, waypoints []*components.WaypointComponent) {
	index := dock.DockedIndex
	dock.DockedIndex = components.NoWaypoint
	dock.LastExited = index

	var meta any
	if wp, ok := findWaypoint(waypoints, index); ok {
		meta = wp.Metadata
	}
	log.Printf("[ArrivalSystem] Left waypoint %d", index)
	s.emit(DockTransition{Index: index, Entered: false, Metadata: meta})
}

func (s *ArrivalSystem) emit(t DockTransition) {
	if s.onTransition != nil {
		s.onTransition(t)
	}
}
