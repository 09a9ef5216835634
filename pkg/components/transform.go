package components

import "github.com/decker502/journey/pkg/types"

// TransformComponent 载具在航线上的采样结果
// 由 ProgressSystem 在推进进度后写入
type TransformComponent struct {
	Position types.Vec3
	Tangent  types.Vec3 // 单位向量
}
