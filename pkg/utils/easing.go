package utils

import "math"

// Easing Functions (缓动函数)
//
// 所有缓动函数接受进度 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。
// 调用方负责夹紧输入。

// EaseInOutQuad 二次方缓入缓出
// 特点：两端慢、中间快，且关于 (0.5, 0.5) 中心对称
//
//	t < 0.5: f(t) = 2t²
//	t >= 0.5: f(t) = 1 - (-2t + 2)² / 2
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}

// EaseOutCubic 三次方缓出
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// Lerp 线性插值，t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp 将 v 限制在 [lo, hi]，NaN 返回 lo
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 将 v 限制在 [0, 1]
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// DampFactor 帧率无关的指数平滑系数
//
// 每帧执行 x += (target - x) * DampFactor(rate, dt)，
// 无论帧率如何，剩余差值都按 e^(-rate·t) 衰减。
// rate <= 0 或 dt <= 0 时返回 0（不移动）。
func DampFactor(rate, dt float64) float64 {
	if rate <= 0 || dt <= 0 {
		return 0
	}
	return 1 - math.Exp(-rate*dt)
}

// ApproachLinear 以不超过 maxStep 的步长向 target 靠近，不会越过 target
func ApproachLinear(current, target, maxStep float64) float64 {
	if maxStep <= 0 {
		return current
	}
	diff := target - current
	if math.Abs(diff) <= maxStep {
		return target
	}
	if diff > 0 {
		return current + maxStep
	}
	return current - maxStep
}

// WrapAngle 将角度规范到 (-π, π]
func WrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// ShortestAngleDiff 从 from 转到 to 的最短有符号角度差，取值 (-π, π]
func ShortestAngleDiff(from, to float64) float64 {
	return WrapAngle(to - from)
}
