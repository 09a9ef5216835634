// Package utils 提供通用工具函数
package utils

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	// wheelPixelsPerNotch 滚轮一格对应的像素增量
	// ebiten 的滚轮单位是"格"，导航按浏览器像素增量调参
	wheelPixelsPerNotch = 100.0

	// tapSlop 触摸移动距离小于此值（像素）视为点击
	tapSlop = 10.0
)

// FrameInput 一帧内汇总的导航输入
type FrameInput struct {
	// Wheel 滚轮增量（像素，正值表示向前）
	Wheel float64

	// ZoomModifier 是否按住 Ctrl/Meta（精细缩放）
	ZoomModifier bool

	// DragDY 单指拖动的垂直增量（像素，手指上移为正）
	DragDY float64

	// PinchDelta 双指距离的减少量（像素，捏合为正）
	PinchDelta float64

	// Clicked 本帧是否发生点击/轻触
	Clicked bool
	ClickX  int
	ClickY  int
}

// TouchPoint 一个触点的屏幕坐标
type TouchPoint struct {
	X, Y float64
}

// TouchTracker 根据逐帧触点位置计算拖动、捏合与轻触
//
// 触点数量变化的那一帧只记录基准位置，不产生增量，避免手指抬起/落下时跳变。
type TouchTracker struct {
	count     int
	multi     bool
	lastX     float64
	lastY     float64
	lastDist  float64
	startX    float64
	startY    float64
	travelled float64
}

// Observe 输入本帧的触点，返回拖动增量、捏合增量，以及是否完成了一次轻触
func (tt *TouchTracker) Observe(points []TouchPoint) (dragDY, pinch float64, tapped bool) {
	n := len(points)

	if n != tt.count {
		// 单指抬起且移动很小：视为轻触
		if tt.count == 1 && n == 0 && !tt.multi && tt.travelled < tapSlop {
			tapped = true
		}
		tt.reset(points)
		return 0, 0, tapped
	}

	switch n {
	case 1:
		p := points[0]
		dragDY = tt.lastY - p.Y
		tt.travelled = math.Max(tt.travelled, math.Hypot(p.X-tt.startX, p.Y-tt.startY))
		tt.lastX, tt.lastY = p.X, p.Y
	case 2:
		d := touchDistance(points[0], points[1])
		pinch = tt.lastDist - d
		tt.lastDist = d
	}
	return dragDY, pinch, false
}

// LastPosition 最近一个单指触点位置（轻触坐标）
func (tt *TouchTracker) LastPosition() (float64, float64) {
	return tt.lastX, tt.lastY
}

func (tt *TouchTracker) reset(points []TouchPoint) {
	prev := tt.count
	tt.count = len(points)
	tt.lastDist = 0
	switch len(points) {
	case 0:
		// 保留 lastX/lastY 供轻触使用
		tt.multi = false
	case 1:
		tt.lastX, tt.lastY = points[0].X, points[0].Y
		if prev == 0 {
			tt.startX, tt.startY = points[0].X, points[0].Y
			tt.travelled = 0
		}
	default:
		tt.lastDist = touchDistance(points[0], points[1])
		// 多指手势结束前都不算轻触
		tt.multi = true
	}
}

func touchDistance(a, b TouchPoint) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// InputTracker 每帧从 ebiten 读取滚轮、修饰键、触摸与鼠标点击
type InputTracker struct {
	touches TouchTracker
	ids     []ebiten.TouchID
	points  []TouchPoint
}

// NewInputTracker 创建输入跟踪器
func NewInputTracker() *InputTracker {
	return &InputTracker{}
}

// Poll 读取本帧输入，必须在 ebiten 的 Update 中调用
func (it *InputTracker) Poll() FrameInput {
	var in FrameInput

	_, yoff := ebiten.Wheel()
	// ebiten 向上滚动为正，浏览器向下滚动为正
	in.Wheel = -yoff * wheelPixelsPerNotch
	in.ZoomModifier = ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)

	it.ids = ebiten.AppendTouchIDs(it.ids[:0])
	it.points = it.points[:0]
	for _, id := range it.ids {
		x, y := ebiten.TouchPosition(id)
		it.points = append(it.points, TouchPoint{X: float64(x), Y: float64(y)})
	}

	dragDY, pinch, tapped := it.touches.Observe(it.points)
	in.DragDY = dragDY
	in.PinchDelta = pinch
	if tapped {
		x, y := it.touches.LastPosition()
		in.Clicked = true
		in.ClickX, in.ClickY = int(x), int(y)
		return in
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		in.Clicked = true
		in.ClickX, in.ClickY = ebiten.CursorPosition()
	}
	return in
}
