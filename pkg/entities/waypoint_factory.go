package entities

import (
	"fmt"

	"github.com/decker502/journey/pkg/components"
	"github.com/decker502/journey/pkg/ecs"
	"github.com/decker502/journey/pkg/route"
)

// IslandAssetKey 普通航点贴图的资源键
const IslandAssetKey = "island"

// NewWaypointEntities 为每个航点创建实体，按航点顺序返回实体ID
func NewWaypointEntities(em *ecs.EntityManager, waypoints []route.Waypoint) ([]ecs.EntityID, error) {
	if em == nil {
		return nil, fmt.Errorf("entity manager cannot be nil")
	}

	ids := make([]ecs.EntityID, 0, len(waypoints))
	for i, wp := range waypoints {
		if wp.Index != i {
			return nil, fmt.Errorf("waypoint %d has index %d, waypoints must be ordered by index", i, wp.Index)
		}

		id := em.CreateEntity()
		ecs.AddComponent(em, id, &components.WaypointComponent{
			Index:    wp.Index,
			Position: wp.Position,
			Metadata: wp.Metadata,
		})
		ecs.AddComponent(em, id, &components.SpriteComponent{
			AssetKey: IslandAssetKey,
			Scale:    1,
		})
		ids = append(ids, id)
	}
	return ids, nil
}
