package route

import "github.com/decker502/journey/pkg/types"

// LayoutOptions 默认航点布局参数
type LayoutOptions struct {
	Seed      int64
	OriginX   float64
	Spacing   float64
	Lanes     []float64
	Jitter    float64
	Height    float64
	EndHeight float64
}

// DefaultLayoutOptions 左-中-右蜿蜒布局，每条航道连续放两个航点
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		Seed:      12345,
		OriginX:   60,
		Spacing:   180,
		Lanes:     []float64{-60, -60, 0, 0, 60, 60},
		Jitter:    20,
		Height:    10,
		EndHeight: 25,
	}
}

// seededRandom 线性同余随机数，输出 [0,1)
//
// 同一种子在任何平台上生成相同的序列，布局因此可复现。
type seededRandom struct {
	value int64
}

func (r *seededRandom) next() float64 {
	r.value = (r.value*9301 + 49297) % 233280
	return float64(r.value) / 233280
}

// GenerateLayout 为 n 个航点生成确定性的位置
//
// X 轴等距推进，Z 轴按 Lanes 循环并加入 ±Jitter/2 的扰动，最后一个航点使用 EndHeight。
func GenerateLayout(n int, opts LayoutOptions) []types.Vec3 {
	if n <= 0 {
		return nil
	}

	rng := &seededRandom{value: opts.Seed}
	positions := make([]types.Vec3, n)
	for i := range positions {
		lane := 0.0
		if len(opts.Lanes) > 0 {
			lane = opts.Lanes[i%len(opts.Lanes)]
		}
		y := opts.Height
		if i == n-1 {
			y = opts.EndHeight
		}
		positions[i] = types.V3(
			opts.OriginX+float64(i)*opts.Spacing,
			y,
			lane+(rng.next()-0.5)*opts.Jitter,
		)
	}
	return positions
}
