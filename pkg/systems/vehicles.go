// Package systems 实现航程引擎的各个系统。
//
// 每帧的执行顺序固定为：
//
//	ProgressSystem → ArrivalSystem → OrientationSystem → CameraSystem
//
// 每个组件字段只有一个系统写入，其余系统只读。
package systems

import (
	"slices"

	"github.com/decker502/journey/pkg/components"
	"github.com/decker502/journey/pkg/ecs"
)

// vehicle 一个载具实体的组件集合
type vehicle struct {
	id        ecs.EntityID
	nav       *components.NavigationComponent
	transform *components.TransformComponent
	dock      *components.DockComponent
	heading   *components.HeadingComponent // 可能为 nil
}

// queryVehicles 查询所有载具
func queryVehicles(em *ecs.EntityManager) []vehicle {
	ids := ecs.GetEntitiesWith3[
		*components.NavigationComponent,
		*components.TransformComponent,
		*components.DockComponent,
	](em)

	out := make([]vehicle, 0, len(ids))
	for _, id := range ids {
		nav, _ := ecs.GetComponent[*components.NavigationComponent](em, id)
		tr, _ := ecs.GetComponent[*components.TransformComponent](em, id)
		dock, _ := ecs.GetComponent[*components.DockComponent](em, id)
		heading, _ := ecs.GetComponent[*components.HeadingComponent](em, id)
		out = append(out, vehicle{id: id, nav: nav, transform: tr, dock: dock, heading: heading})
	}
	return out
}

// queryWaypoints 查询所有航点，按 Index 升序
func queryWaypoints(em *ecs.EntityManager) []*components.WaypointComponent {
	ids := ecs.GetEntitiesWith1[*components.WaypointComponent](em)
	out := make([]*components.WaypointComponent, 0, len(ids))
	for _, id := range ids {
		if wp, ok := ecs.GetComponent[*components.WaypointComponent](em, id); ok {
			out = append(out, wp)
		}
	}
	slices.SortFunc(out, func(a, b *components.WaypointComponent) int {
		return a.Index - b.Index
	})
	return out
}

// findWaypoint 按 Index 查找航点
func findWaypoint(wps []*components.WaypointComponent, index int) (*components.WaypointComponent, bool) {
	if index < 0 {
		return nil, false
	}
	if index < len(wps) && wps[index].Index == index {
		return wps[index], true
	}
	for _, wp := range wps {
		if wp.Index == index {
			return wp, true
		}
	}
	return nil, false
}
