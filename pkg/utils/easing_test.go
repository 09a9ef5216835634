package utils

import (
	"math"
	"testing"
)

// TestEasing 测试缓动函数关键点
func TestEasing(t *testing.T) {
	tests := []struct {
		name     string
		fn       func(float64) float64
		input    float64
		expected float64
	}{
		{"EaseInOutQuad 起点", EaseInOutQuad, 0, 0},
		{"EaseInOutQuad 四分之一", EaseInOutQuad, 0.25, 0.125},
		{"EaseInOutQuad 中点", EaseInOutQuad, 0.5, 0.5},
		{"EaseInOutQuad 四分之三", EaseInOutQuad, 0.75, 0.875},
		{"EaseInOutQuad 终点", EaseInOutQuad, 1, 1},
		{"EaseOutCubic 中点", EaseOutCubic, 0.5, 0.875}, // 1 - (1-0.5)^3
		{"EaseOutCubic 终点", EaseOutCubic, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.input); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("f(%v) = %v, 期望 %v", tt.input, got, tt.expected)
			}
		})
	}

	// 缓入缓出关于中点对称
	for p := 0.0; p <= 0.5; p += 0.05 {
		if d := EaseInOutQuad(p) + EaseInOutQuad(1-p) - 1; math.Abs(d) > 1e-9 {
			t.Errorf("EaseInOutQuad 在 %v 处不对称: %v", p, d)
		}
	}
}

// TestClamp 测试夹紧
func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		expected float64
	}{
		{"范围内", 0.4, 0.4},
		{"低于下限", -2, 0},
		{"高于上限", 3, 1},
		{"NaN", math.NaN(), 0},
		{"正无穷", math.Inf(1), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp01(tt.v); got != tt.expected {
				t.Errorf("Clamp01(%v) = %v, 期望 %v", tt.v, got, tt.expected)
			}
		})
	}

	if got := Lerp(10, 20, 0.25); got != 12.5 {
		t.Errorf("Lerp = %v, 期望 12.5", got)
	}
}

// TestDampFactor 测试帧率无关平滑
func TestDampFactor(t *testing.T) {
	if DampFactor(0, 0.016) != 0 || DampFactor(5, 0) != 0 || DampFactor(5, -1) != 0 {
		t.Error("非正的速率或时间步应返回 0")
	}

	// 60fps 跑 60 帧与 30fps 跑 30 帧剩余差值相同
	rate := 3.0
	remain60, remain30 := 1.0, 1.0
	for i := 0; i < 60; i++ {
		remain60 -= remain60 * DampFactor(rate, 1.0/60)
	}
	for i := 0; i < 30; i++ {
		remain30 -= remain30 * DampFactor(rate, 1.0/30)
	}
	want := math.Exp(-rate)
	if math.Abs(remain60-want) > 1e-9 || math.Abs(remain30-want) > 1e-9 {
		t.Errorf("剩余差值 60fps=%v 30fps=%v, 期望 %v", remain60, remain30, want)
	}
}

// TestApproachLinear 测试匀速逼近
func TestApproachLinear(t *testing.T) {
	tests := []struct {
		name                     string
		current, target, maxStep float64
		expected                 float64
	}{
		{"向上一步", 0, 1, 0.25, 0.25},
		{"向下一步", 1, 0, 0.25, 0.75},
		{"不越过目标", 0.9, 1, 0.25, 1},
		{"步长为 0", 0.3, 1, 0, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApproachLinear(tt.current, tt.target, tt.maxStep); got != tt.expected {
				t.Errorf("ApproachLinear = %v, 期望 %v", got, tt.expected)
			}
		})
	}
}

// TestAngles 测试角度规范化与最短角度差
func TestAngles(t *testing.T) {
	tests := []struct {
		name     string
		from, to float64
		expected float64
	}{
		{"同向", 1, 1, 0},
		{"小角度", 0, 0.5, 0.5},
		{"跨越 ±π", 3, -3, 2*math.Pi - 6},
		{"反向跨越", -3, 3, 6 - 2*math.Pi},
		{"半圈取正", 0, math.Pi, math.Pi},
		{"多圈", 0, 5 * math.Pi / 2, math.Pi / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShortestAngleDiff(tt.from, tt.to); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("ShortestAngleDiff(%v, %v) = %v, 期望 %v", tt.from, tt.to, got, tt.expected)
			}
		})
	}

	if got := WrapAngle(-math.Pi); got != math.Pi {
		t.Errorf("WrapAngle(-π) = %v, 期望 π", got)
	}
}
