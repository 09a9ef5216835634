package components

import "github.com/decker502/journey/pkg/types"

// WaypointComponent 航点实体
// 构建后只读；Index 是导航各系统引用航点的唯一标识
type WaypointComponent struct {
	Index    int
	Position types.Vec3
	Metadata any // 透传给停靠事件，导航不解释
}
