package systems

import (
	"math"

	"github.com/decker502/journey/pkg/components"
	"github.com/decker502/journey/pkg/config"
	"github.com/decker502/journey/pkg/ecs"
	"github.com/decker502/journey/pkg/types"
	"github.com/decker502/journey/pkg/utils"
)

// CameraSystem 镜头合成
//
// 每帧把两种位姿混合成目标位姿：
//   - 跟随位姿：位于载具侧后方，受用户缩放与自动缩放影响
//   - 聚焦位姿：停靠时对准航点
//
// 实际位姿按 FollowRate 平滑追随目标位姿。
type CameraSystem struct {
	entityManager *ecs.EntityManager
	cfg           config.CameraConfig
	rig           config.CameraRig
	cameraEntity  ecs.EntityID // 镜头实体ID
}

// NewCameraSystem 创建镜头系统并创建镜头实体
//
// mobile 为 true 时使用移动端机位。
func NewCameraSystem(em *ecs.EntityManager, cfg config.CameraConfig, mobile bool) *CameraSystem {
	cs := &CameraSystem{
		entityManager: em,
		cfg:           cfg,
		rig:           cfg.ActiveRig(mobile),
	}

	defaultPose := components.CameraPose{Position: cfg.DefaultPosition, LookAt: cfg.DefaultLookAt}
	cs.cameraEntity = em.CreateEntity()
	ecs.AddComponent(em, cs.cameraEntity, &components.CameraComponent{
		AutoZoom:   1,
		FocusIndex: components.NoWaypoint,
		Target:     defaultPose,
		Current:    defaultPose,
	})

	return cs
}

// Update 合成本帧镜头位姿
func (cs *CameraSystem) Update(dt float64) {
	cam, ok := ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity)
	if !ok {
		return
	}
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}

	waypoints := queryWaypoints(cs.entityManager)
	vehicles := queryVehicles(cs.entityManager)

	// 没有航点或载具时使用静态默认镜头
	if len(waypoints) == 0 || len(vehicles) == 0 {
		cam.Target = components.CameraPose{Position: cs.cfg.DefaultPosition, LookAt: cs.cfg.DefaultLookAt}
		cam.Current = cam.Target
		cam.Initialized = false
		return
	}

	v := vehicles[0]
	pos := v.transform.Position

	// 自动缩放
	nearest := math.Inf(1)
	for _, wp := range waypoints {
		nearest = math.Min(nearest, pos.DistanceXZ(wp.Position))
	}
	cam.AutoZoom += (cs.bandZoom(nearest) - cam.AutoZoom) * utils.DampFactor(cs.cfg.AutoZoomRate, dt)

	// 聚焦过渡
	// 换到另一个航点时先释放旧的聚焦，回到跟随后再聚焦新航点
	docked := v.dock.DockedIndex
	if v.dock.IsDocked() && (cam.FocusIndex == components.NoWaypoint || cam.FocusIndex == docked) {
		cam.FocusIndex = docked
		cam.FocusLinear = math.Min(1, cam.FocusLinear+dt/cs.cfg.FocusSeekDuration)
	} else {
		cam.FocusLinear = math.Max(0, cam.FocusLinear-dt/cs.cfg.FocusReleaseDuration)
	}
	cam.FocusBlend = utils.EaseInOutQuad(cam.FocusLinear)

	target := cs.routePose(v, cam.AutoZoom)
	if wp, ok := findWaypoint(waypoints, cam.FocusIndex); ok && cam.FocusBlend > 0 {
		focus := components.CameraPose{
			Position: wp.Position.Add(cs.cfg.FocusOffset),
			LookAt:   wp.Position,
		}
		target = target.Lerp(focus, cam.FocusBlend)
	}
	if cam.FocusLinear == 0 {
		cam.FocusIndex = components.NoWaypoint
	}
	cam.Target = target

	if !cam.Initialized || cs.rig.FollowRate == 0 {
		cam.Current = target
		cam.Initialized = true
		return
	}
	cam.Current = cam.Current.Lerp(target, utils.DampFactor(cs.rig.FollowRate, dt))
}

// Snap 立即把实际位姿对齐到目标位姿
func (cs *CameraSystem) Snap() {
	if cam, ok := ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity); ok {
		cam.Initialized = false
	}
	cs.Update(0)
}

// routePose 跟随航线的位姿
//
// 镜头在航线左侧 Distance 处，沿行进方向向后偏移 TrailOffset（倒行时偏移反向），
// 高度与注视点都相对载具。
func (cs *CameraSystem) routePose(v vehicle, autoZoom float64) components.CameraPose {
	p := v.transform.Position
	tangent := v.transform.Tangent.Flat().Normalize()
	side := tangent.FlatPerp()

	zoom := v.nav.Zoom * autoZoom

	trail := -1.0
	if v.heading != nil && v.heading.IsReversing {
		trail = 1.0
	}

	position := p.
		Add(tangent.Scale(cs.rig.TrailOffset * trail)).
		Add(side.Scale(cs.rig.Distance * zoom))
	position.Y = p.Y + cs.rig.Height*zoom

	return components.CameraPose{
		Position: position,
		LookAt:   p.Add(types.V3(0, cs.cfg.LookOffset, 0)),
	}
}

// bandZoom 距离对应的自动缩放倍率
func (cs *CameraSystem) bandZoom(distance float64) float64 {
	for _, band := range cs.cfg.ZoomBands {
		if distance < band.MaxDistance {
			return band.Zoom
		}
	}
	return cs.cfg.FarZoom
}

// Pose 返回平滑后的镜头位姿
func (cs *CameraSystem) Pose() components.CameraPose {
	cam, ok := ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity)
	if !ok {
		return components.CameraPose{Position: cs.cfg.DefaultPosition, LookAt: cs.cfg.DefaultLookAt}
	}
	return cam.Current
}

// TargetPose 返回本帧合成的目标位姿（未平滑）
func (cs *CameraSystem) TargetPose() components.CameraPose {
	cam, ok := ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity)
	if !ok {
		return components.CameraPose{Position: cs.cfg.DefaultPosition, LookAt: cs.cfg.DefaultLookAt}
	}
	return cam.Target
}

// FocusBlend 返回聚焦混合系数 [0,1]
func (cs *CameraSystem) FocusBlend() float64 {
	cam, ok := ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity)
	if !ok {
		return 0
	}
	return cam.FocusBlend
}

// AutoZoom 返回当前自动缩放倍率
func (cs *CameraSystem) AutoZoom() float64 {
	cam, ok := ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity)
	if !ok {
		return 1
	}
	return cam.AutoZoom
}
