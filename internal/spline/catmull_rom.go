// Package spline 实现开放的 Catmull-Rom 曲线（支持向心参数化）及弧长重参数化。
//
// 曲线对外暴露两套参数：
//   - u：曲线原生参数，控制点之间均匀分布
//   - t：弧长参数，t 的等距变化对应曲线上的等距弧长
//
// PointAt / TangentAt 使用弧长参数 t，保证匀速推进时物体在曲线上匀速运动。
package spline

import (
	"math"
	"sort"

	"github.com/decker502/journey/pkg/types"
)

const (
	// minKnotInterval 节点间距下限，避免重合控制点导致除零
	minKnotInterval = 1e-4

	// DefaultArcLengthDivisions 默认弧长采样段数
	DefaultArcLengthDivisions = 200
)

// CatmullRom 开放 Catmull-Rom 曲线
//
// Alpha 为参数化指数：0 为均匀参数化，0.5 为向心参数化，1 为弦长参数化。
// 曲线构建后不可变，可被多个系统在同一帧内并发只读访问。
type CatmullRom struct {
	points []types.Vec3
	alpha  float64

	// 弧长表：lengths[i] 为 u = i/divisions 处的累计弧长
	lengths []float64
}

// NewCatmullRom 创建曲线
//
// 参数：
//   - points: 控制点（至少 1 个；1 个点时曲线退化为常量点）
//   - alpha: 参数化指数
//   - divisions: 弧长采样段数，<=0 时使用默认值
func NewCatmullRom(points []types.Vec3, alpha float64, divisions int) *CatmullRom {
	pts := make([]types.Vec3, len(points))
	copy(pts, points)

	if divisions <= 0 {
		divisions = DefaultArcLengthDivisions
	}

	c := &CatmullRom{
		points: pts,
		alpha:  alpha,
	}
	c.buildArcLengths(divisions)
	return c
}

// Points 返回控制点副本
func (c *CatmullRom) Points() []types.Vec3 {
	out := make([]types.Vec3, len(c.points))
	copy(out, c.points)
	return out
}

// Length 曲线总弧长（近似值）
func (c *CatmullRom) Length() float64 {
	if len(c.lengths) == 0 {
		return 0
	}
	return c.lengths[len(c.lengths)-1]
}

// PointAt 返回弧长参数 t ∈ [0,1] 处的点，t 超出范围时被夹紧
func (c *CatmullRom) PointAt(t float64) types.Vec3 {
	return c.pointAtU(c.uForT(t))
}

// TangentAt 返回弧长参数 t 处的单位切线
//
// 解析导数为零时（重合控制点）退化为有限差分；仍为零时返回 +X，
// 保证返回值始终为单位向量。
func (c *CatmullRom) TangentAt(t float64) types.Vec3 {
	u := c.uForT(t)
	d := c.derivativeAtU(u).Normalize()
	if d.LenSq() > 0 {
		return d
	}

	const h = 1e-4
	u0 := math.Max(0, u-h)
	u1 := math.Min(1, u+h)
	d = c.pointAtU(u1).Sub(c.pointAtU(u0)).Normalize()
	if d.LenSq() > 0 {
		return d
	}
	return types.V3(1, 0, 0)
}

// buildArcLengths 采样累计弧长
func (c *CatmullRom) buildArcLengths(divisions int) {
	c.lengths = make([]float64, divisions+1)
	prev := c.pointAtU(0)
	sum := 0.0
	for i := 1; i <= divisions; i++ {
		p := c.pointAtU(float64(i) / float64(divisions))
		sum += p.Distance(prev)
		c.lengths[i] = sum
		prev = p
	}
}

// uForT 弧长参数 t 映射到原生参数 u（二分查找 + 线性插值）
func (c *CatmullRom) uForT(t float64) float64 {
	t = clamp01(t)
	n := len(c.lengths)
	total := c.Length()
	if n < 2 || total <= 0 {
		return t
	}

	target := t * total
	i := sort.SearchFloat64s(c.lengths, target)
	if i <= 0 {
		return 0
	}
	if i >= n {
		return 1
	}

	before := c.lengths[i-1]
	segLen := c.lengths[i] - before
	frac := 0.0
	if segLen > 0 {
		frac = (target - before) / segLen
	}
	return (float64(i-1) + frac) / float64(n-1)
}

// segment 定位 u 所在的曲线段，返回该段的三次多项式及段内参数
func (c *CatmullRom) segment(u float64) (cubicVec, float64) {
	n := len(c.points)
	if n == 1 {
		p := c.points[0]
		return cubicVec{c0: p}, 0
	}

	p := float64(n-1) * clamp01(u)
	idx := int(math.Floor(p))
	weight := p - float64(idx)
	if idx >= n-1 {
		idx = n - 2
		weight = 1
	}

	var p0, p3 types.Vec3
	p1 := c.points[idx]
	p2 := c.points[idx+1]
	if idx > 0 {
		p0 = c.points[idx-1]
	} else {
		// 首段外推虚拟控制点
		p0 = p1.Scale(2).Sub(p2)
	}
	if idx+2 < n {
		p3 = c.points[idx+2]
	} else {
		p3 = p2.Scale(2).Sub(p1)
	}

	dt0 := math.Pow(p0.Sub(p1).LenSq(), c.alpha/2)
	dt1 := math.Pow(p1.Sub(p2).LenSq(), c.alpha/2)
	dt2 := math.Pow(p2.Sub(p3).LenSq(), c.alpha/2)
	if dt1 < minKnotInterval {
		dt1 = 1
	}
	if dt0 < minKnotInterval {
		dt0 = dt1
	}
	if dt2 < minKnotInterval {
		dt2 = dt1
	}

	return nonUniformCubic(p0, p1, p2, p3, dt0, dt1, dt2), weight
}

func (c *CatmullRom) pointAtU(u float64) types.Vec3 {
	cv, w := c.segment(u)
	return cv.at(w)
}

// derivativeAtU 对 u 的导数方向（长度无意义，仅用于切线方向）
func (c *CatmullRom) derivativeAtU(u float64) types.Vec3 {
	cv, w := c.segment(u)
	return cv.derivative(w)
}

// cubicVec 三个分量各自的三次多项式 c0 + c1·w + c2·w² + c3·w³
type cubicVec struct {
	c0, c1, c2, c3 types.Vec3
}

func (cv cubicVec) at(w float64) types.Vec3 {
	w2 := w * w
	w3 := w2 * w
	return cv.c0.Add(cv.c1.Scale(w)).Add(cv.c2.Scale(w2)).Add(cv.c3.Scale(w3))
}

func (cv cubicVec) derivative(w float64) types.Vec3 {
	return cv.c1.Add(cv.c2.Scale(2 * w)).Add(cv.c3.Scale(3 * w * w))
}

// nonUniformCubic 非均匀 Catmull-Rom 段：由节点间距计算两端切线后转为 Hermite 形式
func nonUniformCubic(p0, p1, p2, p3 types.Vec3, dt0, dt1, dt2 float64) cubicVec {
	// t1 = ((p1-p0)/dt0 - (p2-p0)/(dt0+dt1) + (p2-p1)/dt1) * dt1
	t1 := p1.Sub(p0).Scale(1 / dt0).
		Sub(p2.Sub(p0).Scale(1 / (dt0 + dt1))).
		Add(p2.Sub(p1).Scale(1 / dt1)).
		Scale(dt1)
	// t2 = ((p2-p1)/dt1 - (p3-p1)/(dt1+dt2) + (p3-p2)/dt2) * dt1
	t2 := p2.Sub(p1).Scale(1 / dt1).
		Sub(p3.Sub(p1).Scale(1 / (dt1 + dt2))).
		Add(p3.Sub(p2).Scale(1 / dt2)).
		Scale(dt1)

	return cubicVec{
		c0: p1,
		c1: t1,
		c2: p1.Scale(-3).Add(p2.Scale(3)).Sub(t1.Scale(2)).Sub(t2),
		c3: p1.Scale(2).Sub(p2.Scale(2)).Add(t1).Add(t2),
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
