package ecs

import (
	"reflect"
	"testing"
)

type testAnchor struct {
	X, Z float64
}

type testMotion struct {
	Speed float64
}

type testLabel struct {
	Text string
}

// TestCreateEntity 测试实体 ID 从 1 开始且唯一
func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	a := em.CreateEntity()
	b := em.CreateEntity()

	if a != 1 || b != 2 {
		t.Errorf("实体 ID = %d, %d, 期望 1, 2", a, b)
	}
	if em.Count() != 2 {
		t.Errorf("Count() = %d, 期望 2", em.Count())
	}
}

// TestComponentAccess 测试反射与泛型两套组件接口访问同一份数据
func TestComponentAccess(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	AddComponent(em, id, &testAnchor{X: 3, Z: 4})
	AddComponent(em, id, &testMotion{Speed: 2})

	raw, ok := em.GetComponent(id, reflect.TypeOf(&testAnchor{}))
	if !ok || raw.(*testAnchor).X != 3 {
		t.Fatalf("反射接口取组件失败: %v %v", raw, ok)
	}

	anchor, ok := GetComponent[*testAnchor](em, id)
	if !ok || anchor.Z != 4 {
		t.Fatalf("泛型接口取组件失败: %v %v", anchor, ok)
	}

	// 指针组件修改后再次读取应可见
	anchor.X = 10
	again, _ := GetComponent[*testAnchor](em, id)
	if again.X != 10 {
		t.Errorf("修改后 X = %v, 期望 10", again.X)
	}

	if _, ok := GetComponent[*testLabel](em, id); ok {
		t.Error("未添加的组件不应被找到")
	}
	if motion, ok := GetComponent[*testMotion](em, id); !ok || motion.Speed != 2 {
		t.Errorf("GetComponent[*testMotion] = %v %v", motion, ok)
	}

	// 同类型再次添加会替换
	AddComponent(em, id, &testMotion{Speed: 5})
	if motion, _ := GetComponent[*testMotion](em, id); motion.Speed != 5 {
		t.Errorf("替换后 Speed = %v, 期望 5", motion.Speed)
	}
}

// TestAddComponentToMissingEntity 测试向不存在的实体添加组件被忽略
func TestAddComponentToMissingEntity(t *testing.T) {
	em := NewEntityManager()
	AddComponent(em, EntityID(42), &testAnchor{})
	if em.Count() != 0 {
		t.Errorf("Count() = %d, 不应隐式创建实体", em.Count())
	}
	if _, ok := GetComponent[*testAnchor](em, 42); ok {
		t.Error("不存在的实体不应有组件")
	}
}

// TestQueryOrder 测试组合查询结果与升序
func TestQueryOrder(t *testing.T) {
	em := NewEntityManager()

	var both []EntityID
	for i := 0; i < 20; i++ {
		id := em.CreateEntity()
		AddComponent(em, id, &testAnchor{X: float64(i)})
		if i%3 == 0 {
			AddComponent(em, id, &testMotion{})
			both = append(both, id)
		}
		if i%5 == 0 {
			AddComponent(em, id, &testLabel{})
		}
	}

	got := em.GetEntitiesWith(reflect.TypeFor[*testAnchor](), reflect.TypeFor[*testMotion]())
	if len(got) != len(both) {
		t.Fatalf("查询结果数量 = %d, 期望 %d", len(got), len(both))
	}
	for i := range got {
		if got[i] != both[i] {
			t.Errorf("第 %d 个结果 = %d, 期望 %d", i, got[i], both[i])
		}
	}

	// i%15 == 0: 0, 15
	if n := len(GetEntitiesWith3[*testAnchor, *testMotion, *testLabel](em)); n != 2 {
		t.Errorf("三组件查询数量 = %d, 期望 2", n)
	}
	if n := len(GetEntitiesWith1[*testAnchor](em)); n != 20 {
		t.Errorf("单组件查询数量 = %d, 期望 20", n)
	}
}
