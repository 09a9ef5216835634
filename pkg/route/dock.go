package route

import (
	"fmt"
	"log"
	"math"

	"github.com/decker502/journey/pkg/types"
)

// DefaultDockSamples 停靠参数解析的默认采样数
const DefaultDockSamples = 2000

// DockTable 航点索引到航线参数的映射
//
// 每个航点一项，按航点顺序非递减。
type DockTable []float64

// At 返回第 i 个航点的停靠参数，越界时 ok 为 false
func (d DockTable) At(i int) (float64, bool) {
	if i < 0 || i >= len(d) {
		return 0, false
	}
	return d[i], true
}

// NearestIndex 返回停靠参数最接近 t 的航点索引，表为空时返回 -1
func (d DockTable) NearestIndex(t float64) int {
	best := -1
	bestDist := math.Inf(1)
	for i, v := range d {
		if dist := math.Abs(v - t); dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	return best
}

// StrictlyIncreasing 是否严格递增
func (d DockTable) StrictlyIncreasing() bool {
	for i := 1; i < len(d); i++ {
		if d[i] <= d[i-1] {
			return false
		}
	}
	return true
}

// ResolveDocks 为每个航点解析停靠参数
//
// 在航线上均匀采样 samples 个参数（<=0 时使用 DefaultDockSamples），
// 对每个航点取距离 "航点 + dockOffset" 最近的采样参数。
//
// 结果不是严格递增时（航点过密，或 dockOffset 相对间距过大），
// 按顺序重新解析：每个航点只在前一个停靠参数之后的采样中查找，
// 查找不到时夹紧到前一个值之后一个采样步长。
// 此时返回修复后的表以及包装了 ErrDegenerateDockOrder 的错误，调用方应记录并继续。
func ResolveDocks(curve Curve, waypoints []types.Vec3, dockOffset types.Vec3, samples int) (DockTable, error) {
	if len(waypoints) == 0 {
		return DockTable{}, nil
	}
	if samples <= 0 {
		samples = DefaultDockSamples
	}

	points := make([]types.Vec3, samples+1)
	for i := range points {
		points[i] = curve.PointAt(float64(i) / float64(samples))
	}

	step := 1 / float64(samples)
	table := make(DockTable, len(waypoints))
	for i, wp := range waypoints {
		table[i] = float64(nearestSample(points, wp.Add(dockOffset), 0)) * step
	}

	if table.StrictlyIncreasing() {
		return table, nil
	}

	bad := firstOutOfOrder(table)
	log.Printf("[DockResolver] Dock table out of order at waypoint %d (%.4f <= %.4f), resolving sequentially",
		bad, table[bad], table[bad-1])

	repaired := make(DockTable, len(waypoints))
	prev := -1
	for i, wp := range waypoints {
		from := prev + 1
		var idx int
		if from > samples {
			idx = samples
		} else {
			idx = nearestSample(points, wp.Add(dockOffset), from)
		}
		repaired[i] = float64(idx) * step
		prev = idx
	}

	return repaired, fmt.Errorf("resolve docks: waypoint %d: %w", bad, ErrDegenerateDockOrder)
}

// nearestSample 在 points[from:] 中查找距 anchor 最近的采样下标
func nearestSample(points []types.Vec3, anchor types.Vec3, from int) int {
	best := from
	bestDist := math.Inf(1)
	for i := from; i < len(points); i++ {
		if d := points[i].Sub(anchor).LenSq(); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

func firstOutOfOrder(d DockTable) int {
	for i := 1; i < len(d); i++ {
		if d[i] <= d[i-1] {
			return i
		}
	}
	return 0
}
