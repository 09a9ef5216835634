package ecs

import "reflect"

// GetComponent 泛型版本的组件获取
//
// 示例：
//
//	nav, ok := ecs.GetComponent[*components.NavigationComponent](em, id)
func GetComponent[T any](em *EntityManager, id EntityID) (T, bool) {
	var zero T
	c, ok := em.GetComponent(id, reflect.TypeFor[T]())
	if !ok {
		return zero, false
	}
	v, ok := c.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// AddComponent 泛型版本的组件添加，组件键为 T 而不是值的动态类型
func AddComponent[T any](em *EntityManager, id EntityID, component T) {
	if comps, ok := em.components[id]; ok {
		comps[reflect.TypeFor[T]()] = component
	}
}

// GetEntitiesWith1 查询拥有 T1 的实体
func GetEntitiesWith1[T1 any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(reflect.TypeFor[T1]())
}

// GetEntitiesWith3 查询同时拥有 T1、T2、T3 的实体
func GetEntitiesWith3[T1, T2, T3 any](em *EntityManager) []EntityID {
	return em.GetEntitiesWith(reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3]())
}
