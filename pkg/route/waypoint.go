package route

import "github.com/decker502/journey/pkg/types"

// Waypoint 航程中的一站
//
// Index 是唯一稳定标识；Metadata 对导航透明，原样随停靠事件交给界面。
type Waypoint struct {
	Index    int
	Position types.Vec3
	Metadata any
}

// Positions 提取坐标列表
func Positions(waypoints []Waypoint) []types.Vec3 {
	out := make([]types.Vec3, len(waypoints))
	for i, wp := range waypoints {
		out[i] = wp.Position
	}
	return out
}
