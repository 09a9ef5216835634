package types

import "math"

// Vec3 三维向量（世界坐标系，Y 轴向上）
//
// 航线、航点、镜头位姿都使用该类型。水平面为 XZ 平面。
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// V3 构造向量
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add 向量相加
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub 向量相减
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale 数乘
func (v Vec3) Scale(k float64) Vec3 { return Vec3{v.X * k, v.Y * k, v.Z * k} }

// Dot 点积
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// LenSq 长度平方
func (v Vec3) LenSq() float64 { return v.Dot(v) }

// Len 长度
func (v Vec3) Len() float64 { return math.Sqrt(v.LenSq()) }

// Normalize 归一化，零向量返回零向量
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Distance 两点欧氏距离
func (v Vec3) Distance(o Vec3) float64 { return v.Sub(o).Len() }

// DistanceXZ 水平面（XZ）距离
// 到达判定和自动缩放只关心水平距离，忽略航线高度与航点高度的差异
func (v Vec3) DistanceXZ(o Vec3) float64 {
	dx := v.X - o.X
	dz := v.Z - o.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// Lerp 线性插值，t=0 返回 v，t=1 返回 o
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return Vec3{
		X: v.X + (o.X-v.X)*t,
		Y: v.Y + (o.Y-v.Y)*t,
		Z: v.Z + (o.Z-v.Z)*t,
	}
}

// FlatPerp 水平面内的左侧垂直方向（单位向量）
//
// 对行进方向 (dx, dz) 返回 (-dz, dx)。沿 +X 行进时结果为 +Z。
// 水平分量为零时返回零向量。
func (v Vec3) FlatPerp() Vec3 {
	return Vec3{X: -v.Z, Y: 0, Z: v.X}.Normalize()
}

// Flat 去掉 Y 分量
func (v Vec3) Flat() Vec3 {
	return Vec3{X: v.X, Y: 0, Z: v.Z}
}

// IsFinite 检查所有分量是否为有限值
func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}
