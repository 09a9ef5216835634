package systems

import (
	"fmt"
	"math"

	"github.com/decker502/journey/pkg/components"
	"github.com/decker502/journey/pkg/config"
	"github.com/decker502/journey/pkg/ecs"
	"github.com/decker502/journey/pkg/route"
	"github.com/decker502/journey/pkg/utils"
)

// ScrollModifiers 滚轮事件的修饰键
type ScrollModifiers struct {
	// Zoom Ctrl/Meta 按下：滚轮只调整缩放
	Zoom bool
}

// ProgressSystem 航行进度控制
//
// 输入处理函数（OnScroll / OnTouchDrag / OnPinch / OnJump）只写累积字段，
// Update 每帧把当前进度推向目标进度并采样航线。
type ProgressSystem struct {
	entityManager *ecs.EntityManager
	curve         route.Curve
	docks         route.DockTable
	cfg           config.ProgressConfig
	zoom          config.ZoomConfig
}

// NewProgressSystem 创建进度控制系统
func NewProgressSystem(em *ecs.EntityManager, curve route.Curve, docks route.DockTable,
	cfg config.ProgressConfig, zoom config.ZoomConfig) *ProgressSystem {
	return &ProgressSystem{
		entityManager: em,
		curve:         curve,
		docks:         docks,
		cfg:           cfg,
		zoom:          zoom,
	}
}

// span 滚动总量：每个航点一段，外加一段首尾余量
func (s *ProgressSystem) span() float64 {
	return s.cfg.SegmentSize * float64(len(s.docks)+1)
}

// OnScroll 处理滚轮事件
//
// delta 为像素增量（正值向前）。按住缩放修饰键时只调整缩放。
// 原始增量先限制在 ±MaxScrollDelta 内再乘以倍率，过小的事件被忽略。
func (s *ProgressSystem) OnScroll(delta float64, mods ScrollModifiers) {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return
	}
	for _, v := range queryVehicles(s.entityManager) {
		if mods.Zoom {
			s.adjustZoom(v.nav, delta*s.zoom.WheelGain)
			continue
		}

		units := utils.Clamp(delta, -s.cfg.MaxScrollDelta, s.cfg.MaxScrollDelta) * s.scrollGain(delta)
		if math.Abs(units) < s.cfg.MinScrollDelta {
			continue
		}
		s.travel(v, units)
	}
}

// scrollGain 按原始增量区分触控板与鼠标滚轮
func (s *ProgressSystem) scrollGain(delta float64) float64 {
	if s.cfg.TrackpadThreshold > 0 && math.Abs(delta) < s.cfg.TrackpadThreshold {
		return s.cfg.TrackpadGain
	}
	return s.cfg.ScrollGain
}

// OnTouchDrag 处理单指拖动，dy 为手指上移的像素
func (s *ProgressSystem) OnTouchDrag(dy float64) {
	if dy == 0 || math.IsNaN(dy) || math.IsInf(dy, 0) {
		return
	}
	units := utils.Clamp(dy*s.cfg.TouchGain, -s.cfg.MaxTouchDelta, s.cfg.MaxTouchDelta)
	for _, v := range queryVehicles(s.entityManager) {
		s.travel(v, units)
	}
}

// OnPinch 处理双指捏合，distDelta 为两指距离的减少量
func (s *ProgressSystem) OnPinch(distDelta float64) {
	if math.IsNaN(distDelta) || math.IsInf(distDelta, 0) {
		return
	}
	for _, v := range queryVehicles(s.entityManager) {
		s.adjustZoom(v.nav, distDelta*s.zoom.PinchGain)
	}
}

// OnJump 跳转到指定航点
//
// 目标进度直接设为该航点的停靠参数，当前航点指针立即更新。
// 在途中经过的其他航点不会触发停靠。
//
// 返回:
//   - error: 索引越界时返回包装了 route.ErrInvalidInput 的错误
func (s *ProgressSystem) OnJump(index int) error {
	if _, ok := s.docks.At(index); !ok {
		return fmt.Errorf("jump to waypoint %d of %d: %w", index, len(s.docks), route.ErrInvalidInput)
	}
	for _, v := range queryVehicles(s.entityManager) {
		s.jumpTo(v, index)
	}
	return nil
}

// Restore 直接设置进度与缩放（恢复存档）
func (s *ProgressSystem) Restore(progress, zoom float64) {
	progress = utils.Clamp01(progress)
	for _, v := range queryVehicles(s.entityManager) {
		v.nav.Current = progress
		v.nav.Target = progress
		v.nav.ScrollAccum = progress * s.span()
		v.nav.Zoom = utils.Clamp(zoom, s.zoom.Min, s.zoom.Max)
		// 存档里的缩放就是用户的选择，不再开场拉远
		v.nav.HasScrolled = true
		v.nav.IntroRate = 0
		s.sample(v)
	}
}

// SetScrollMode 切换连续/逐站滚动
func (s *ProgressSystem) SetScrollMode(mode string) {
	s.cfg.ScrollMode = mode
}

// ScrollMode 当前滚动模式
func (s *ProgressSystem) ScrollMode() string {
	return s.cfg.ScrollMode
}

// Update 推进进度
func (s *ProgressSystem) Update(dt float64) {
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}

	for _, v := range queryVehicles(s.entityManager) {
		nav := v.nav
		nav.Clock += dt

		s.observeDock(v)

		if nav.IntroRate > 0 {
			nav.Zoom = utils.ApproachLinear(nav.Zoom, s.zoom.IntroTarget, nav.IntroRate*dt)
			if nav.Zoom == s.zoom.IntroTarget {
				nav.IntroRate = 0
			}
		}

		holding := s.cfg.HoldWhileTurning && v.heading != nil && v.heading.IsTurning()
		if !holding {
			nav.Current = s.advance(nav.Current, nav.Target, dt)
		}

		// 数值漂移在本地纠正
		nav.Target = utils.Clamp01(nav.Target)
		nav.Current = utils.Clamp01(nav.Current)
		nav.ScrollAccum = utils.Clamp(nav.ScrollAccum, 0, s.span())
		nav.Zoom = utils.Clamp(nav.Zoom, s.zoom.Min, s.zoom.Max)

		// 已到达跳转目标但未停靠（例如该航点刚离开、尚未重新布防）
		if nav.PendingJump != components.NoWaypoint && nav.Current == nav.Target && !v.dock.IsDocked() {
			nav.PendingJump = components.NoWaypoint
		}

		s.sample(v)
	}
}

// observeDock 处理 ArrivalSystem 上一帧产生的新停靠
func (s *ProgressSystem) observeDock(v vehicle) {
	nav, dock := v.nav, v.dock
	if dock.DockedIndex == nav.SeenDock {
		return
	}
	nav.SeenDock = dock.DockedIndex
	if !dock.IsDocked() {
		return
	}

	nav.CurrentWaypoint = dock.DockedIndex
	nav.DockAccum = 0
	if nav.PendingJump == dock.DockedIndex {
		nav.PendingJump = components.NoWaypoint
	}
	if s.cfg.SnapToDock {
		if t, ok := s.docks.At(dock.DockedIndex); ok {
			s.setTarget(nav, t)
		}
	}
}

// travel 把滚动/拖动量作用到进度上
func (s *ProgressSystem) travel(v vehicle, units float64) {
	nav, dock := v.nav, v.dock

	if !nav.HasScrolled {
		nav.HasScrolled = true
		s.startIntro(nav)
	}

	dir := 1
	if units < 0 {
		dir = -1
	}
	// 方向改变后的第一个事件只触发掉头，不移动
	if dir != nav.Direction {
		nav.Direction = dir
		return
	}

	if dock.IsDocked() && nav.ReleaseSeq == dock.HandledRelease {
		nav.DockAccum += math.Abs(units)
		if nav.DockAccum < s.cfg.ReleaseThreshold {
			return
		}
		nav.DockAccum = 0
		nav.ReleaseSeq++
	}

	if s.cfg.ScrollMode == config.ScrollStep {
		s.step(v, dir)
		return
	}

	// 滚动会取代进行中的跳转
	nav.PendingJump = components.NoWaypoint
	nav.ScrollAccum = utils.Clamp(nav.ScrollAccum+units, 0, s.span())
	nav.Target = utils.Clamp01(nav.ScrollAccum / s.span())
}

// step 逐站模式：跳到目标进度之后（或之前）的下一个航点
//
// 冷却时间内的事件被丢弃，这是有意的去抖窗口。
func (s *ProgressSystem) step(v vehicle, dir int) {
	nav := v.nav
	if nav.Clock-nav.LastStepAt < s.cfg.StepCooldown {
		return
	}

	next := components.NoWaypoint
	if dir > 0 {
		for i, t := range s.docks {
			if t > nav.Target+s.cfg.SnapEpsilon {
				next = i
				break
			}
		}
	} else {
		for i := len(s.docks) - 1; i >= 0; i-- {
			if s.docks[i] < nav.Target-s.cfg.SnapEpsilon {
				next = i
				break
			}
		}
	}
	if next == components.NoWaypoint {
		return
	}

	nav.LastStepAt = nav.Clock
	s.jumpTo(v, next)
}

func (s *ProgressSystem) jumpTo(v vehicle, index int) {
	nav, dock := v.nav, v.dock
	t := s.docks[index]

	nav.CurrentWaypoint = index
	nav.DockAccum = 0

	if dock.DockedIndex == index {
		s.setTarget(nav, t)
		nav.PendingJump = components.NoWaypoint
		return
	}

	// 停靠在其他航点：请求离开
	if dock.IsDocked() && nav.ReleaseSeq == dock.HandledRelease {
		nav.ReleaseSeq++
	}

	if t > nav.Current {
		nav.Direction = 1
	} else if t < nav.Current {
		nav.Direction = -1
	}

	s.setTarget(nav, t)
	nav.PendingJump = index
}

func (s *ProgressSystem) setTarget(nav *components.NavigationComponent, t float64) {
	nav.Target = utils.Clamp01(t)
	nav.ScrollAccum = nav.Target * s.span()
}

// startIntro 首次航行时开始把缩放拉远到 IntroTarget
func (s *ProgressSystem) startIntro(nav *components.NavigationComponent) {
	if s.zoom.IntroTarget <= 0 || nav.Zoom == s.zoom.IntroTarget {
		return
	}
	nav.IntroRate = math.Abs(s.zoom.IntroTarget-nav.Zoom) / s.zoom.IntroDuration
}

// adjustZoom 用户手动缩放，同时取消开场拉远
func (s *ProgressSystem) adjustZoom(nav *components.NavigationComponent, delta float64) {
	nav.Zoom = utils.Clamp(nav.Zoom+delta, s.zoom.Min, s.zoom.Max)
	nav.HasScrolled = true
	nav.IntroRate = 0
}

// advance 按配置的策略把 current 推向 target，不会越过 target
func (s *ProgressSystem) advance(current, target, dt float64) float64 {
	var next float64
	switch s.cfg.Policy {
	case config.PolicyConstant:
		next = utils.ApproachLinear(current, target, s.cfg.Speed*dt)
	default:
		next = current + (target-current)*utils.DampFactor(s.cfg.Smoothing, dt)
	}
	if math.Abs(target-next) < s.cfg.SnapEpsilon {
		next = target
	}
	return next
}

func (s *ProgressSystem) sample(v vehicle) {
	v.transform.Position = s.curve.PointAt(v.nav.Current)
	v.transform.Tangent = s.curve.TangentAt(v.nav.Current)
}
