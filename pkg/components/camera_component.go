package components

import "github.com/decker502/journey/pkg/types"

// CameraPose 镜头位置与注视点
type CameraPose struct {
	Position types.Vec3
	LookAt   types.Vec3
}

// Lerp 位姿线性插值
func (p CameraPose) Lerp(o CameraPose, t float64) CameraPose {
	return CameraPose{
		Position: p.Position.Lerp(o.Position, t),
		LookAt:   p.LookAt.Lerp(o.LookAt, t),
	}
}

// CameraComponent 镜头合成状态
// 只由 CameraSystem 写入
type CameraComponent struct {
	// AutoZoom 根据最近航点距离平滑得到的缩放倍率
	AutoZoom float64

	// FocusLinear 聚焦过渡的线性进度，FocusBlend = ease(FocusLinear)
	FocusLinear float64

	// FocusBlend 0 为跟随航线，1 为聚焦航点
	FocusBlend float64

	// FocusIndex 聚焦的航点；离开停靠或停靠到其他航点后保留，直到 FocusBlend 回到 0
	FocusIndex int

	// Target 本帧合成的目标位姿
	Target CameraPose

	// Current 追随 Target 的实际位姿
	Current CameraPose

	// Initialized 首帧直接对齐目标
	Initialized bool
}
