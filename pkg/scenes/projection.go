package scenes

import (
	"math"

	"github.com/decker502/journey/pkg/components"
	"github.com/decker502/journey/pkg/config"
	"github.com/decker502/journey/pkg/types"
	"github.com/decker502/journey/pkg/utils"
)

// projector 把世界 XZ 平面投影到屏幕
//
// 注视点位于屏幕中心，镜头的水平视线方向朝屏幕上方，
// 镜头离注视点越近画面越大。
type projector struct {
	centerX, centerZ float64
	forwardX         float64 // 屏幕上方对应的世界方向
	forwardZ         float64
	scale            float64 // 像素/世界单位
	halfW, halfH     float64
}

func newProjector(pose components.CameraPose, screenW, screenH int) projector {
	fwd := pose.LookAt.Sub(pose.Position).Flat().Normalize()
	if fwd.LenSq() == 0 {
		fwd = types.V3(0, 0, -1)
	}

	dist := math.Max(pose.Position.Distance(pose.LookAt), 1)
	scale := config.PixelsPerUnitAtReference * config.ReferenceCameraDistance / dist

	return projector{
		centerX:  pose.LookAt.X,
		centerZ:  pose.LookAt.Z,
		forwardX: fwd.X,
		forwardZ: fwd.Z,
		scale:    utils.Clamp(scale, config.MinPixelsPerUnit, config.MaxPixelsPerUnit),
		halfW:    float64(screenW) / 2,
		halfH:    float64(screenH) / 2,
	}
}

// toScreen 世界坐标 → 屏幕坐标
func (p projector) toScreen(v types.Vec3) (float64, float64) {
	dx := v.X - p.centerX
	dz := v.Z - p.centerZ
	// 右方向 = (-forwardZ, forwardX)
	right := dx*-p.forwardZ + dz*p.forwardX
	ahead := dx*p.forwardX + dz*p.forwardZ
	return p.halfW + right*p.scale, p.halfH - ahead*p.scale
}

// toWorld 屏幕坐标 → 世界 XZ 平面（Y 为 0）
func (p projector) toWorld(sx, sy float64) types.Vec3 {
	right := (sx - p.halfW) / p.scale
	ahead := (p.halfH - sy) / p.scale
	return types.V3(
		p.centerX+right*-p.forwardZ+ahead*p.forwardX,
		0,
		p.centerZ+right*p.forwardX+ahead*p.forwardZ,
	)
}

// screenAngle 世界水平方向在屏幕上的角度（弧度，0 指向屏幕右方，顺时针为正）
func (p projector) screenAngle(dir types.Vec3) float64 {
	x0, y0 := p.toScreen(types.V3(p.centerX, 0, p.centerZ))
	x1, y1 := p.toScreen(types.V3(p.centerX+dir.X, 0, p.centerZ+dir.Z))
	return math.Atan2(y1-y0, x1-x0)
}

// pickWaypoint 返回屏幕坐标 (sx, sy) 半径 radius 内最近的航点索引，没有时返回 -1
func (p projector) pickWaypoint(positions []types.Vec3, sx, sy, radius float64) int {
	best := -1
	bestDist := radius
	for i, pos := range positions {
		x, y := p.toScreen(pos)
		if d := math.Hypot(x-sx, y-sy); d <= bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
