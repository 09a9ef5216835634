package entities

import (
	"fmt"
	"math"

	"github.com/decker502/journey/pkg/components"
	"github.com/decker502/journey/pkg/ecs"
	"github.com/decker502/journey/pkg/route"
)

// VehicleAssetKey 载具贴图的资源键
const VehicleAssetKey = "vehicle"

// NewVehicleEntity 创建载具实体并放在航线起点
//
// 参数:
//   - em: 实体管理器
//   - curve: 航线，用于采样初始位置与切线
//   - zoom: 初始用户缩放
//
// 返回:
//   - ecs.EntityID: 载具实体ID
//   - error: 参数无效时返回错误
func NewVehicleEntity(em *ecs.EntityManager, curve route.Curve, zoom float64) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if curve == nil {
		return 0, fmt.Errorf("curve cannot be nil")
	}

	id := em.CreateEntity()

	ecs.AddComponent(em, id, &components.NavigationComponent{
		Direction:       1,
		Zoom:            zoom,
		PendingJump:     components.NoWaypoint,
		CurrentWaypoint: components.NoWaypoint,
		SeenDock:        components.NoWaypoint,
		LastStepAt:      math.Inf(-1),
	})
	ecs.AddComponent(em, id, &components.TransformComponent{
		Position: curve.PointAt(0),
		Tangent:  curve.TangentAt(0),
	})
	ecs.AddComponent(em, id, &components.DockComponent{
		DockedIndex: components.NoWaypoint,
		LastExited:  components.NoWaypoint,
	})
	ecs.AddComponent(em, id, &components.HeadingComponent{
		TurnBlend: 1,
	})
	ecs.AddComponent(em, id, &components.SpriteComponent{
		AssetKey: VehicleAssetKey,
		Scale:    1,
	})

	return id, nil
}
