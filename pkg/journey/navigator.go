// Package journey 把航线、停靠表与各系统组装成一个可驱动的航程引擎。
//
// Navigator 是对外的唯一入口：渲染层把输入事件交给它，每帧调用 Update，
// 然后读取 State 与 CameraPose 绘制画面。所有方法都应在同一个帧线程上调用。
package journey

import (
	"errors"
	"fmt"
	"log"

	"github.com/decker502/journey/pkg/components"
	"github.com/decker502/journey/pkg/config"
	"github.com/decker502/journey/pkg/ecs"
	"github.com/decker502/journey/pkg/entities"
	"github.com/decker502/journey/pkg/route"
	"github.com/decker502/journey/pkg/systems"
	"github.com/decker502/journey/pkg/types"
)

// ScrollModifiers 滚轮修饰键
type ScrollModifiers = systems.ScrollModifiers

// DockChange 停靠航点变化事件
type DockChange struct {
	// Index 新的停靠航点，components.NoWaypoint 表示离开停靠
	Index int

	// Previous 变化前的停靠航点
	Previous int

	// Metadata 新停靠航点的元数据，离开时为 nil
	Metadata any
}

// ProgressChange 进度变化事件
type ProgressChange struct {
	Progress     float64
	NearestIndex int // 停靠参数最接近当前进度的航点
}

// State 导航状态快照
type State struct {
	CurrentProgress float64
	TargetProgress  float64
	DockedIndex     int
	CurrentWaypoint int
	Direction       int

	Position types.Vec3
	Tangent  types.Vec3

	Heading     float64
	IsReversing bool
	TurnBlend   float64
	Bob         float64
	Roll        float64

	Zoom       float64
	AutoZoom   float64
	FocusBlend float64
}

// Navigator 航程引擎
type Navigator struct {
	cfg    *config.JourneyConfig
	mobile bool

	entityManager *ecs.EntityManager
	path          *route.Path // 没有航点时为 nil
	docks         route.DockTable
	waypoints     []route.Waypoint
	vehicle       ecs.EntityID
	hasVehicle    bool

	progressSystem    *systems.ProgressSystem
	arrivalSystem     *systems.ArrivalSystem
	orientationSystem *systems.OrientationSystem
	cameraSystem      *systems.CameraSystem

	transitions       []systems.DockTransition
	dockListeners     []func(DockChange)
	progressListeners []func(ProgressChange)

	lastDock     int
	lastProgress float64
}

// NewNavigator 创建航程引擎
//
// 参数:
//   - cfg: 航程配置，nil 时使用 DefaultJourneyConfig
//   - waypoints: 有序航点，Index 必须等于其在列表中的位置
//   - mobile: 是否使用移动端机位与初始缩放
//
// 没有航点时引擎处于空闲状态：只输出默认镜头，跳转返回 ErrInvalidInput。
// 停靠参数顺序退化时记录日志并使用修复后的停靠表。
func NewNavigator(cfg *config.JourneyConfig, waypoints []route.Waypoint, mobile bool) (*Navigator, error) {
	if cfg == nil {
		cfg = config.DefaultJourneyConfig()
	}

	n := &Navigator{
		cfg:           cfg,
		mobile:        mobile,
		entityManager: ecs.NewEntityManager(),
		waypoints:     waypoints,
		lastDock:      components.NoWaypoint,
	}

	if len(waypoints) > 0 {
		if err := n.buildRoute(); err != nil {
			return nil, err
		}
	} else {
		log.Printf("[Navigator] No waypoints, camera stays at default pose")
	}

	n.progressSystem = systems.NewProgressSystem(n.entityManager, n.curve(), n.docks, cfg.Progress, cfg.Zoom)
	n.arrivalSystem = systems.NewArrivalSystem(n.entityManager, cfg.Arrival)
	n.arrivalSystem.SetTransitionHandler(func(t systems.DockTransition) {
		n.transitions = append(n.transitions, t)
	})
	n.orientationSystem = systems.NewOrientationSystem(n.entityManager, cfg.Orientation)
	n.cameraSystem = systems.NewCameraSystem(n.entityManager, cfg.Camera, mobile)

	// 首帧前完成镜头合成，避免第一帧使用默认位姿
	n.orientationSystem.Update(0)
	n.cameraSystem.Update(0)

	return n, nil
}

func (n *Navigator) buildRoute() error {
	positions := route.Positions(n.waypoints)

	path, err := route.BuildPath(positions, n.cfg.PathOptions())
	if err != nil {
		return fmt.Errorf("build journey path: %w", err)
	}
	n.path = path

	docks, err := route.ResolveDocks(path, positions, n.cfg.Docks.Offset, n.cfg.Docks.Samples)
	if err != nil {
		if !errors.Is(err, route.ErrDegenerateDockOrder) {
			return fmt.Errorf("resolve docks: %w", err)
		}
		log.Printf("[Navigator] Warning: %v, using repaired dock table", err)
	}
	n.docks = docks

	if _, err := entities.NewWaypointEntities(n.entityManager, n.waypoints); err != nil {
		return fmt.Errorf("create waypoint entities: %w", err)
	}

	vehicle, err := entities.NewVehicleEntity(n.entityManager, path, n.cfg.Zoom.InitialZoom(n.mobile))
	if err != nil {
		return fmt.Errorf("create vehicle entity: %w", err)
	}
	n.vehicle = vehicle
	n.hasVehicle = true

	log.Printf("[Navigator] Journey ready: %d waypoints, %d entities, path length %.1f",
		len(n.waypoints), n.entityManager.Count(), path.Length())
	return nil
}

// curve 返回航线；没有航点时返回 nil 接口值
func (n *Navigator) curve() route.Curve {
	if n.path == nil {
		return nil
	}
	return n.path
}

// OnScroll 滚轮输入，delta 为正向前
func (n *Navigator) OnScroll(delta float64, mods ScrollModifiers) {
	n.progressSystem.OnScroll(delta, mods)
}

// OnTouchDrag 单指拖动输入，dy 为手指上移的像素
func (n *Navigator) OnTouchDrag(dy float64) {
	n.progressSystem.OnTouchDrag(dy)
}

// OnPinch 双指捏合输入
func (n *Navigator) OnPinch(distDelta float64) {
	n.progressSystem.OnPinch(distDelta)
}

// OnJump 跳转到指定航点
func (n *Navigator) OnJump(index int) error {
	return n.progressSystem.OnJump(index)
}

// SetStepScroll 切换逐站滚动：开启后每次滚动跳到下一个航点
func (n *Navigator) SetStepScroll(enabled bool) {
	mode := config.ScrollContinuous
	if enabled {
		mode = config.ScrollStep
	}
	n.progressSystem.SetScrollMode(mode)
	log.Printf("[Navigator] Scroll mode: %s", mode)
}

// StepScroll 是否处于逐站滚动
func (n *Navigator) StepScroll() bool {
	return n.progressSystem.ScrollMode() == config.ScrollStep
}

// Restore 恢复进度与缩放（例如读取存档后）
func (n *Navigator) Restore(progress, zoom float64) {
	n.progressSystem.Restore(progress, zoom)
	n.lastProgress = n.State().CurrentProgress

	// 朝向与镜头直接对齐新位置
	n.orientationSystem.Snap()
	n.cameraSystem.Snap()
}

// Update 推进一帧
//
// 顺序固定：进度 → 到达 → 朝向 → 镜头，然后派发事件。
func (n *Navigator) Update(dt float64) {
	n.progressSystem.Update(dt)
	n.arrivalSystem.Update(dt)
	n.orientationSystem.Update(dt)
	n.cameraSystem.Update(dt)

	n.dispatch()
}

func (n *Navigator) dispatch() {
	transitions := n.transitions
	n.transitions = n.transitions[:0]

	for _, t := range transitions {
		change := DockChange{Index: components.NoWaypoint, Previous: n.lastDock}
		if t.Entered {
			change.Index = t.Index
			change.Metadata = t.Metadata
		}
		n.lastDock = change.Index
		for _, l := range n.dockListeners {
			l(change)
		}
	}

	if !n.hasVehicle {
		return
	}
	nav, ok := ecs.GetComponent[*components.NavigationComponent](n.entityManager, n.vehicle)
	if !ok || nav.Current == n.lastProgress {
		return
	}
	n.lastProgress = nav.Current
	change := ProgressChange{Progress: nav.Current, NearestIndex: n.docks.NearestIndex(nav.Current)}
	for _, l := range n.progressListeners {
		l(change)
	}
}

// OnDockChanged 注册停靠变化监听器，在 Update 中同步调用
func (n *Navigator) OnDockChanged(listener func(DockChange)) {
	n.dockListeners = append(n.dockListeners, listener)
}

// OnProgressChanged 注册进度变化监听器，在 Update 中同步调用
func (n *Navigator) OnProgressChanged(listener func(ProgressChange)) {
	n.progressListeners = append(n.progressListeners, listener)
}

// State 返回当前导航状态快照
func (n *Navigator) State() State {
	st := State{
		DockedIndex:     components.NoWaypoint,
		CurrentWaypoint: components.NoWaypoint,
		Direction:       1,
		Zoom:            n.cfg.Zoom.InitialZoom(n.mobile),
		AutoZoom:        n.cameraSystem.AutoZoom(),
		FocusBlend:      n.cameraSystem.FocusBlend(),
		TurnBlend:       1,
	}
	if !n.hasVehicle {
		return st
	}

	em := n.entityManager
	if nav, ok := ecs.GetComponent[*components.NavigationComponent](em, n.vehicle); ok {
		st.CurrentProgress = nav.Current
		st.TargetProgress = nav.Target
		st.CurrentWaypoint = nav.CurrentWaypoint
		st.Direction = nav.Direction
		st.Zoom = nav.Zoom
	}
	if tr, ok := ecs.GetComponent[*components.TransformComponent](em, n.vehicle); ok {
		st.Position = tr.Position
		st.Tangent = tr.Tangent
	}
	if dock, ok := ecs.GetComponent[*components.DockComponent](em, n.vehicle); ok {
		st.DockedIndex = dock.DockedIndex
	}
	if h, ok := ecs.GetComponent[*components.HeadingComponent](em, n.vehicle); ok {
		st.Heading = h.Heading
		st.IsReversing = h.IsReversing
		st.TurnBlend = h.TurnBlend
		st.Bob = h.Bob
		st.Roll = h.Roll
	}
	return st
}

// CameraPose 返回平滑后的镜头位姿
func (n *Navigator) CameraPose() components.CameraPose {
	return n.cameraSystem.Pose()
}

// Waypoints 返回航点列表（只读）
func (n *Navigator) Waypoints() []route.Waypoint {
	return n.waypoints
}

// Waypoint 按索引返回航点
func (n *Navigator) Waypoint(index int) (route.Waypoint, bool) {
	if index < 0 || index >= len(n.waypoints) {
		return route.Waypoint{}, false
	}
	return n.waypoints[index], true
}

// Path 返回航线，没有航点时为 nil
func (n *Navigator) Path() *route.Path {
	return n.path
}

// Docks 返回停靠表
func (n *Navigator) Docks() route.DockTable {
	return n.docks
}

// EntityManager 返回实体管理器，渲染层用它查询贴图组件
func (n *Navigator) EntityManager() *ecs.EntityManager {
	return n.entityManager
}

// Config 返回生效的配置
func (n *Navigator) Config() *config.JourneyConfig {
	return n.cfg
}
