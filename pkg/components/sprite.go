package components

// SpriteComponent 实体的装饰贴图
//
// 只保存资源键；贴图由渲染层的资源缓存异步加载，
// 未就绪或加载失败时渲染层改用矢量图形。
type SpriteComponent struct {
	AssetKey string
	Scale    float64
}
