// Package route 负责由航点构建航线曲线、解析停靠参数表以及生成默认航点布局。
package route

import (
	"fmt"
	"log"

	"github.com/decker502/journey/internal/spline"
	"github.com/decker502/journey/pkg/types"
)

// Curve 航线曲线的只读接口
//
// t 为弧长参数，取值 [0,1]；越界时由实现夹紧。
type Curve interface {
	PointAt(t float64) types.Vec3
	TangentAt(t float64) types.Vec3
}

// PathOptions 航线构建参数
type PathOptions struct {
	// LateralOffset 航线相对航点的侧向偏移（沿行进方向左侧的垂线方向）
	LateralOffset float64

	// ApproachOffset 接近点/离开点沿行进方向距航点的距离
	ApproachOffset float64

	// LeadIn 首个航点之前的引入距离
	LeadIn float64

	// LeadOut 最后一个航点之后的引出距离
	LeadOut float64

	// CruiseHeight 航线高度（所有控制点使用同一 Y 值）
	CruiseHeight float64

	// Tension 曲线参数化指数（0.5 为向心参数化）
	Tension float64

	// ArcLengthDivisions 弧长采样段数
	ArcLengthDivisions int
}

// DefaultPathOptions 返回与原场景一致的航线参数
func DefaultPathOptions() PathOptions {
	return PathOptions{
		LateralOffset:      25,
		ApproachOffset:     12,
		LeadIn:             80,
		LeadOut:            30,
		CruiseHeight:       5,
		Tension:            0.5,
		ArcLengthDivisions: 2000,
	}
}

// Path 由航点构建的不可变航线
type Path struct {
	curve    *spline.CatmullRom
	controls []types.Vec3
	sides    []types.Vec3
}

// PointAt 返回 t 处的位置
func (p *Path) PointAt(t float64) types.Vec3 { return p.curve.PointAt(t) }

// TangentAt 返回 t 处的单位切线
func (p *Path) TangentAt(t float64) types.Vec3 { return p.curve.TangentAt(t) }

// Length 航线总长
func (p *Path) Length() float64 { return p.curve.Length() }

// ControlPoints 返回构建曲线用的控制点（含引入/引出点）
func (p *Path) ControlPoints() []types.Vec3 {
	out := make([]types.Vec3, len(p.controls))
	copy(out, p.controls)
	return out
}

// SideAt 返回第 i 个航点处的侧向偏移方向
func (p *Path) SideAt(i int) types.Vec3 {
	if i < 0 || i >= len(p.sides) {
		return types.Vec3{}
	}
	return p.sides[i]
}

// BuildPath 由有序航点构建平滑航线
//
// 对每个航点：
//   - 在行进方向左侧偏移 LateralOffset，使航线从航点旁经过而不是穿过
//   - 插入接近点（航点前）与离开点（航点后）
//   - 相邻航点之间插入一个沿垂线偏移的中点，形成平缓弧线
//
// 首尾分别加入引入点和引出点。
//
// 返回：
//   - *Path: 构建好的航线
//   - error: 航点为空时返回 ErrInvalidInput
func BuildPath(waypoints []types.Vec3, opts PathOptions) (*Path, error) {
	n := len(waypoints)
	if n == 0 {
		return nil, fmt.Errorf("build path: no waypoints: %w", ErrInvalidInput)
	}
	for i, wp := range waypoints {
		if !wp.IsFinite() {
			return nil, fmt.Errorf("build path: waypoint %d has non-finite position: %w", i, ErrInvalidInput)
		}
	}

	dirs := travelDirections(waypoints)
	sides := make([]types.Vec3, n)
	for i, d := range dirs {
		sides[i] = d.FlatPerp()
	}

	atHeight := func(v types.Vec3) types.Vec3 {
		v.Y = opts.CruiseHeight
		return v
	}

	controls := make([]types.Vec3, 0, 3*n+2)

	// 引入点：首个航点沿行进反方向
	first := waypoints[0]
	controls = append(controls, atHeight(first.Sub(dirs[0].Scale(opts.LeadIn))))

	for i, wp := range waypoints {
		side := sides[i].Scale(opts.LateralOffset)
		along := dirs[i].Scale(opts.ApproachOffset)

		controls = append(controls, atHeight(wp.Sub(along).Add(side)))

		if i == n-1 {
			// 引出点
			controls = append(controls, atHeight(wp.Add(dirs[i].Scale(opts.LeadOut)).Add(side)))
			break
		}

		controls = append(controls, atHeight(wp.Add(along).Add(side)))

		// 与下一个航点之间的弧线中点
		next := waypoints[i+1]
		midSide := sides[i].Add(sides[i+1]).Normalize()
		if midSide.LenSq() == 0 {
			midSide = sides[i]
		}
		mid := wp.Lerp(next, 0.5).Add(midSide.Scale(opts.LateralOffset))
		controls = append(controls, atHeight(mid))
	}

	curve := spline.NewCatmullRom(controls, opts.Tension, opts.ArcLengthDivisions)
	log.Printf("[Route] Built path: %d waypoints, %d control points, length %.1f", n, len(controls), curve.Length())

	return &Path{
		curve:    curve,
		controls: controls,
		sides:    sides,
	}, nil
}

// travelDirections 计算每个航点处的水平行进方向
//
// 内部航点使用前后航点连线方向，首尾航点使用与相邻航点的连线方向。
// 单个航点或重合航点退化为 +X。
func travelDirections(waypoints []types.Vec3) []types.Vec3 {
	n := len(waypoints)
	dirs := make([]types.Vec3, n)
	fallback := types.V3(1, 0, 0)

	for i := range waypoints {
		prev := waypoints[max(i-1, 0)]
		next := waypoints[min(i+1, n-1)]
		d := next.Sub(prev).Flat().Normalize()
		if d.LenSq() == 0 {
			if i > 0 {
				d = dirs[i-1]
			} else {
				d = fallback
			}
		}
		dirs[i] = d
	}
	return dirs
}
