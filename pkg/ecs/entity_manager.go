// Package ecs 提供最小的实体-组件存储。
//
// 组件以其动态类型为键存放，同一实体每种类型最多一个组件。
// 查询结果按实体 ID 升序返回，系统遍历顺序因此在帧与帧之间保持稳定。
package ecs

import (
	"reflect"
	"slices"
)

// EntityID 实体唯一标识，0 保留为无效 ID
type EntityID uint64

// EntityManager 管理实体及其组件
//
// 只在帧循环所在的 goroutine 上使用，不做并发保护。
type EntityManager struct {
	nextID     uint64
	components map[EntityID]map[reflect.Type]any
}

// NewEntityManager 创建空的实体管理器
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID:     1,
		components: make(map[EntityID]map[reflect.Type]any),
	}
}

// CreateEntity 创建新实体
func (em *EntityManager) CreateEntity() EntityID {
	id := EntityID(em.nextID)
	em.nextID++
	em.components[id] = make(map[reflect.Type]any)
	return id
}

// GetComponent 按类型取组件
func (em *EntityManager) GetComponent(id EntityID, componentType reflect.Type) (any, bool) {
	comps, ok := em.components[id]
	if !ok {
		return nil, false
	}
	c, ok := comps[componentType]
	return c, ok
}

// GetEntitiesWith 返回拥有全部指定组件类型的实体，按 ID 升序
func (em *EntityManager) GetEntitiesWith(componentTypes ...reflect.Type) []EntityID {
	result := make([]EntityID, 0)
	for id, comps := range em.components {
		matched := true
		for _, ct := range componentTypes {
			if _, ok := comps[ct]; !ok {
				matched = false
				break
			}
		}
		if matched {
			result = append(result, id)
		}
	}
	slices.Sort(result)
	return result
}

// Count 当前实体数量
func (em *EntityManager) Count() int {
	return len(em.components)
}
