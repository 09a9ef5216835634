package types

import (
	"math"
	"testing"
)

// TestVec3_Normalize 测试归一化
func TestVec3_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vec3
		want float64
	}{
		{"单位X", V3(1, 0, 0), 1},
		{"任意向量", V3(3, 4, 12), 1},
		{"零向量", Vec3{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize().Len()
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Normalize(%v).Len() = %v, 期望 %v", tt.in, got, tt.want)
			}
		})
	}
}

// TestVec3_FlatPerp 测试水平垂直方向
func TestVec3_FlatPerp(t *testing.T) {
	// 沿 +X 行进，左侧为 +Z
	p := V3(1, 0, 0).FlatPerp()
	if math.Abs(p.Z-1) > 1e-9 || math.Abs(p.X) > 1e-9 {
		t.Errorf("FlatPerp(+X) = %v, 期望 (0,0,1)", p)
	}

	// 垂直方向与原方向正交
	d := V3(3, 2, -5)
	if dot := d.Flat().Dot(d.FlatPerp()); math.Abs(dot) > 1e-9 {
		t.Errorf("FlatPerp 不正交: dot=%v", dot)
	}

	// 纯竖直向量没有水平垂直方向
	if got := V3(0, 1, 0).FlatPerp(); got != (Vec3{}) {
		t.Errorf("FlatPerp(+Y) = %v, 期望零向量", got)
	}
}

// TestVec3_DistanceXZ 测试水平距离忽略高度
func TestVec3_DistanceXZ(t *testing.T) {
	a := V3(0, 5, 0)
	b := V3(3, 100, 4)
	if got := a.DistanceXZ(b); math.Abs(got-5) > 1e-9 {
		t.Errorf("DistanceXZ = %v, 期望 5", got)
	}
	if got := a.Distance(b); got <= 5 {
		t.Errorf("Distance 应包含高度差, got %v", got)
	}
}

// TestVec3_Lerp 测试线性插值端点
func TestVec3_Lerp(t *testing.T) {
	a := V3(0, 0, 0)
	b := V3(10, -10, 4)
	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0) = %v, 期望 %v", got, a)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1) = %v, 期望 %v", got, b)
	}
	if got := a.Lerp(b, 0.5); got != V3(5, -5, 2) {
		t.Errorf("Lerp(0.5) = %v, 期望 (5,-5,2)", got)
	}
}
