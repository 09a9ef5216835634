package systems

import (
	"math"

	"github.com/decker502/journey/pkg/components"
	"github.com/decker502/journey/pkg/config"
	"github.com/decker502/journey/pkg/ecs"
	"github.com/decker502/journey/pkg/utils"
)

// OrientationSystem 载具朝向
//
// 朝向跟随航线切线，行进方向改变时播放一次 180° 掉头动画。
// 倒行标志在动画过半时翻转；动画中途再次反向会沿原路转回，朝向保持连续。
type OrientationSystem struct {
	entityManager *ecs.EntityManager
	cfg           config.OrientationConfig
	assetOffset   float64
}

// NewOrientationSystem 创建朝向系统
func NewOrientationSystem(em *ecs.EntityManager, cfg config.OrientationConfig) *OrientationSystem {
	return &OrientationSystem{
		entityManager: em,
		cfg:           cfg,
		assetOffset:   cfg.AssetOffset(),
	}
}

// Update 更新朝向、掉头动画与装饰性起伏
func (s *OrientationSystem) Update(dt float64) {
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}

	for _, v := range queryVehicles(s.entityManager) {
		if v.heading == nil {
			continue
		}
		s.updateVehicle(v, dt)
	}
}

func (s *OrientationSystem) updateVehicle(v vehicle, dt float64) {
	h := v.heading

	h.Elapsed += dt
	h.Bob = s.cfg.BobAmplitude * math.Sin(h.Elapsed*s.cfg.BobFrequency)
	h.Roll = s.cfg.RollAmplitude * math.Sin(h.Elapsed*s.cfg.RollFrequency)

	if want := v.nav.Direction < 0; want != h.TargetReversing {
		s.startTurn(h, want)
	}

	// 完成掉头的那一帧仍按掉头处理，朝向不经阻尼直接落到终点
	turning := h.IsTurning()
	if turning {
		// 容差吸收 dt 累加的浮点误差，掉头恰好在 TurnDuration 内完成
		h.TurnBlend = utils.ApproachLinear(h.TurnBlend, 1, dt/s.cfg.TurnDuration+1e-9)
		if h.TurnBlend >= 0.5 {
			h.IsReversing = h.TargetReversing
		} else {
			h.IsReversing = h.TurnFromReversing
		}
	}

	forward := math.Atan2(v.transform.Tangent.X, v.transform.Tangent.Z) + s.assetOffset

	var target float64
	if h.IsTurning() {
		target = utils.WrapAngle(baseHeading(forward, h.TurnFromReversing) + h.TurnDelta*h.TurnBlend)
	} else {
		target = baseHeading(forward, h.IsReversing)
	}

	if !h.Initialized {
		h.Heading = target
		h.Initialized = true
		return
	}

	diff := utils.ShortestAngleDiff(h.Heading, target)
	step := diff
	if !turning {
		step = diff * utils.DampFactor(s.cfg.Smoothing, dt)
	}
	maxStep := s.cfg.MaxTurnRate * dt
	step = utils.Clamp(step, -maxStep, maxStep)
	h.Heading = utils.WrapAngle(h.Heading + step)
}

// Snap 下一次更新时直接对齐目标朝向，并结束进行中的掉头
func (s *OrientationSystem) Snap() {
	for _, v := range queryVehicles(s.entityManager) {
		if v.heading == nil {
			continue
		}
		v.heading.Initialized = false
		v.heading.TurnBlend = 1
		v.heading.IsReversing = v.heading.TargetReversing
	}
	s.Update(0)
}

// startTurn 开始（或反转）一次掉头
func (s *OrientationSystem) startTurn(h *components.HeadingComponent, want bool) {
	if h.IsTurning() && want == h.TurnFromReversing {
		// 掉头中途反向：沿原路转回
		h.TurnFromReversing, h.TargetReversing = h.TargetReversing, h.TurnFromReversing
		h.TurnBlend = 1 - h.TurnBlend
		h.TurnDelta = -h.TurnDelta
		return
	}

	h.TurnFromReversing = h.IsReversing
	h.TargetReversing = want
	h.TurnBlend = 0
	h.TurnDelta = math.Pi
	if h.TurnFromReversing == want {
		// 目标状态与当前一致，无需转动
		h.TurnBlend = 1
	}
}

func baseHeading(forward float64, reversing bool) float64 {
	if reversing {
		return utils.WrapAngle(forward + math.Pi)
	}
	return utils.WrapAngle(forward)
}
