package systems

import (
	"errors"
	"math"
	"testing"

	"github.com/decker502/journey/pkg/components"
	"github.com/decker502/journey/pkg/config"
	"github.com/decker502/journey/pkg/route"
)

// TestProgressSystem_ScrollMapping 测试滚轮事件到目标进度的映射
func TestProgressSystem_ScrollMapping(t *testing.T) {
	tests := []struct {
		name       string
		deltas     []float64
		zoom       bool
		wantTarget float64
		wantDir    int
		wantZoom   float64
	}{
		{
			name:       "原始增量先限制再乘以倍率",
			deltas:     []float64{100},
			wantTarget: 12.0 / 1600,
			wantDir:    1,
			wantZoom:   0.3,
		},
		{
			name:       "过小的事件被忽略",
			deltas:     []float64{0.2, -0.2},
			wantTarget: 0,
			wantDir:    1,
			wantZoom:   0.3,
		},
		{
			name:       "反向的第一个事件只改变方向",
			deltas:     []float64{100, 100, -100},
			wantTarget: 24.0 / 1600,
			wantDir:    -1,
			wantZoom:   0.3,
		},
		{
			name:       "反向后继续滚动才后退",
			deltas:     []float64{100, 100, -100, -100},
			wantTarget: 12.0 / 1600,
			wantDir:    -1,
			wantZoom:   0.3,
		},
		{
			name:       "起点处后退被夹紧",
			deltas:     []float64{-100, -100, -100},
			wantTarget: 0,
			wantDir:    -1,
			wantZoom:   0.3,
		},
		{
			name:       "修饰键只调整缩放",
			deltas:     []float64{100},
			zoom:       true,
			wantTarget: 0,
			wantDir:    1,
			wantZoom:   0.8,
		},
		{
			name:       "缩放被夹紧到上限",
			deltas:     []float64{1e6},
			zoom:       true,
			wantTarget: 0,
			wantDir:    1,
			wantZoom:   2.0,
		},
		{
			name:       "缩放被夹紧到下限",
			deltas:     []float64{-1e6},
			zoom:       true,
			wantTarget: 0,
			wantDir:    1,
			wantZoom:   0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t, straightLine(3))
			ps := w.progressSystem()

			for _, d := range tt.deltas {
				ps.OnScroll(d, ScrollModifiers{Zoom: tt.zoom})
			}

			nav := w.nav(t)
			if math.Abs(nav.Target-tt.wantTarget) > 1e-9 {
				t.Errorf("Target = %v, 期望 %v", nav.Target, tt.wantTarget)
			}
			if nav.Direction != tt.wantDir {
				t.Errorf("Direction = %d, 期望 %d", nav.Direction, tt.wantDir)
			}
			if math.Abs(nav.Zoom-tt.wantZoom) > 1e-9 {
				t.Errorf("Zoom = %v, 期望 %v", nav.Zoom, tt.wantZoom)
			}
		})
	}
}

// TestProgressSystem_BurstStaysBounded 测试大量极端输入后进度仍在 [0,1]
func TestProgressSystem_BurstStaysBounded(t *testing.T) {
	w := newTestWorld(t, straightLine(3))
	ps := w.progressSystem()

	for i := 0; i < 2000; i++ {
		ps.OnScroll(1e9, ScrollModifiers{})
		ps.OnTouchDrag(1e9)
		ps.OnScroll(math.NaN(), ScrollModifiers{})
		ps.OnScroll(math.Inf(1), ScrollModifiers{})
		if i%10 == 0 {
			ps.Update(frame)
		}
	}

	nav := w.nav(t)
	if nav.Target != 1 {
		t.Errorf("Target = %v, 期望夹紧到 1", nav.Target)
	}
	if nav.ScrollAccum > w.span() {
		t.Errorf("ScrollAccum = %v 超过总量 %v", nav.ScrollAccum, w.span())
	}

	for i := 0; i < 600; i++ {
		ps.Update(frame)
		if nav.Current < 0 || nav.Current > 1 {
			t.Fatalf("第 %d 帧 Current = %v 越界", i, nav.Current)
		}
	}
	if nav.Current != 1 {
		t.Errorf("Current = %v, 期望最终对齐到 1", nav.Current)
	}
}

// TestProgressSystem_TouchDrag 测试触摸拖动的增益与限制
func TestProgressSystem_TouchDrag(t *testing.T) {
	w := newTestWorld(t, straightLine(3))
	ps := w.progressSystem()

	ps.OnTouchDrag(3) // 6 units
	if got := w.nav(t).Target; math.Abs(got-6.0/1600) > 1e-9 {
		t.Errorf("Target = %v, 期望 %v", got, 6.0/1600)
	}

	ps.OnTouchDrag(100) // 限制为 15
	if got := w.nav(t).Target; math.Abs(got-21.0/1600) > 1e-9 {
		t.Errorf("Target = %v, 期望 %v", got, 21.0/1600)
	}
}

// TestProgressSystem_Pinch 测试双指缩放
func TestProgressSystem_Pinch(t *testing.T) {
	w := newTestWorld(t, straightLine(3))
	ps := w.progressSystem()

	ps.OnPinch(20)
	if got := w.nav(t).Zoom; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Zoom = %v, 期望 0.5", got)
	}
	ps.OnPinch(-1000)
	if got := w.nav(t).Zoom; got != w.cfg.Zoom.Min {
		t.Errorf("Zoom = %v, 期望夹紧到 %v", got, w.cfg.Zoom.Min)
	}
}

// TestProgressSystem_ExponentialAdvance 测试指数平滑推进
func TestProgressSystem_ExponentialAdvance(t *testing.T) {
	w := newTestWorld(t, straightLine(3))
	ps := w.progressSystem()
	nav := w.nav(t)
	nav.Target = 0.5

	ps.Update(frame)
	want := 0.5 * (1 - math.Exp(-w.cfg.Progress.Smoothing*frame))
	if math.Abs(nav.Current-want) > 1e-12 {
		t.Errorf("Current = %v, 期望 %v", nav.Current, want)
	}

	prev := nav.Current
	for i := 0; i < 600; i++ {
		ps.Update(frame)
		if nav.Current < prev || nav.Current > nav.Target {
			t.Fatalf("第 %d 帧 Current = %v 非单调或越过目标", i, nav.Current)
		}
		prev = nav.Current
	}
	if nav.Current != nav.Target {
		t.Errorf("Current = %v, 期望对齐到 %v", nav.Current, nav.Target)
	}

	tr := w.transform(t)
	if tr.Position != w.path.PointAt(nav.Current) {
		t.Error("Transform 应为当前进度处的航线采样")
	}
}

// TestProgressSystem_ConstantAdvance 测试匀速推进
func TestProgressSystem_ConstantAdvance(t *testing.T) {
	w := newTestWorld(t, straightLine(3))
	w.cfg.Progress.Policy = config.PolicyConstant
	ps := w.progressSystem()
	nav := w.nav(t)
	nav.Target = 0.05

	ps.Update(0.1)
	if math.Abs(nav.Current-0.012) > 1e-12 {
		t.Errorf("Current = %v, 期望 0.012", nav.Current)
	}

	for i := 0; i < 10; i++ {
		ps.Update(0.1)
	}
	if nav.Current != 0.05 {
		t.Errorf("Current = %v, 期望停在目标 0.05", nav.Current)
	}
}

// TestProgressSystem_HoldWhileTurning 测试掉头期间暂停推进
func TestProgressSystem_HoldWhileTurning(t *testing.T) {
	w := newTestWorld(t, straightLine(3))
	ps := w.progressSystem()
	nav := w.nav(t)
	nav.Target = 0.5
	w.heading(t).TurnBlend = 0.2

	ps.Update(frame)
	if nav.Current != 0 {
		t.Errorf("掉头期间 Current = %v, 期望保持 0", nav.Current)
	}

	w.heading(t).TurnBlend = 1
	ps.Update(frame)
	if nav.Current == 0 {
		t.Error("掉头结束后应继续推进")
	}
}

// TestProgressSystem_OnJump 测试跳转
func TestProgressSystem_OnJump(t *testing.T) {
	w := newTestWorld(t, straightLine(3))
	ps := w.progressSystem()

	for _, bad := range []int{-1, 3, 100} {
		if err := ps.OnJump(bad); !errors.Is(err, route.ErrInvalidInput) {
			t.Errorf("OnJump(%d) 错误 = %v, 期望 ErrInvalidInput", bad, err)
		}
	}

	if err := ps.OnJump(2); err != nil {
		t.Fatal(err)
	}
	nav := w.nav(t)
	if nav.Target != w.docks[2] {
		t.Errorf("Target = %v, 期望 %v", nav.Target, w.docks[2])
	}
	if nav.PendingJump != 2 || nav.CurrentWaypoint != 2 {
		t.Errorf("PendingJump = %d CurrentWaypoint = %d, 期望 2", nav.PendingJump, nav.CurrentWaypoint)
	}
	if math.Abs(nav.ScrollAccum-nav.Target*w.span()) > 1e-9 {
		t.Error("ScrollAccum 应与 Target 同步")
	}

	// 跳转后的滚动会取消待跳转目标，并从跳转目标处继续累积
	ps.OnScroll(100, ScrollModifiers{})
	if nav.PendingJump != components.NoWaypoint {
		t.Error("滚动应取消待跳转目标")
	}
	if math.Abs(nav.Target-(w.docks[2]+12/w.span())) > 1e-9 {
		t.Errorf("Target = %v, 期望从停靠参数继续", nav.Target)
	}
}

// TestProgressSystem_JumpBackward 测试向后跳转直接改变方向
func TestProgressSystem_JumpBackward(t *testing.T) {
	w := newTestWorld(t, straightLine(3))
	ps := w.progressSystem()
	ps.Restore(0.95, 1)

	if err := ps.OnJump(0); err != nil {
		t.Fatal(err)
	}
	if w.nav(t).Direction != -1 {
		t.Errorf("Direction = %d, 期望 -1", w.nav(t).Direction)
	}
}

// TestProgressSystem_DockRelease 测试停靠时需要累积滚动量才能离开
func TestProgressSystem_DockRelease(t *testing.T) {
	w := newTestWorld(t, straightLine(3))
	ps := w.progressSystem()
	nav := w.nav(t)
	dock := w.dock(t)

	dock.DockedIndex = 1
	ps.Update(frame)
	if nav.Target != w.docks[1] || nav.CurrentWaypoint != 1 {
		t.Fatalf("停靠后 Target = %v CurrentWaypoint = %d", nav.Target, nav.CurrentWaypoint)
	}

	// 阈值 100，每次 12：前 8 次只累积
	for i := 0; i < 8; i++ {
		ps.OnScroll(100, ScrollModifiers{})
	}
	if nav.Target != w.docks[1] || nav.ReleaseSeq != 0 {
		t.Fatalf("阈值前不应移动: Target = %v ReleaseSeq = %d", nav.Target, nav.ReleaseSeq)
	}
	if nav.DockAccum != 96 {
		t.Errorf("DockAccum = %v, 期望 96", nav.DockAccum)
	}

	ps.OnScroll(100, ScrollModifiers{})
	if nav.ReleaseSeq != 1 {
		t.Errorf("ReleaseSeq = %d, 期望 1", nav.ReleaseSeq)
	}
	if nav.Target <= w.docks[1] {
		t.Error("越过阈值后应开始移动")
	}

	// 离开请求尚未被处理时，后续滚动直接移动
	before := nav.Target
	ps.OnScroll(100, ScrollModifiers{})
	if nav.Target <= before || nav.ReleaseSeq != 1 {
		t.Errorf("Target = %v ReleaseSeq = %d", nav.Target, nav.ReleaseSeq)
	}
}

// TestProgressSystem_StepMode 测试逐站模式与冷却
func TestProgressSystem_StepMode(t *testing.T) {
	w := newTestWorld(t, straightLine(3))
	w.cfg.Progress.ScrollMode = config.ScrollStep
	ps := w.progressSystem()
	nav := w.nav(t)

	ps.OnScroll(100, ScrollModifiers{})
	if nav.Target != w.docks[0] || nav.PendingJump != 0 {
		t.Fatalf("第一步应跳到航点 0: Target = %v PendingJump = %d", nav.Target, nav.PendingJump)
	}

	// 冷却内的事件被丢弃
	ps.OnScroll(100, ScrollModifiers{})
	if nav.Target != w.docks[0] {
		t.Errorf("冷却内不应跳转, Target = %v", nav.Target)
	}

	ps.Update(0.7)
	ps.OnScroll(100, ScrollModifiers{})
	if nav.Target != w.docks[1] {
		t.Errorf("冷却后应跳到航点 1, Target = %v", nav.Target)
	}

	ps.Update(0.7)
	ps.OnScroll(100, ScrollModifiers{})
	ps.Update(0.7)
	ps.OnScroll(100, ScrollModifiers{})
	if nav.Target != w.docks[2] {
		t.Errorf("最后一个航点之后不应再跳转, Target = %v", nav.Target)
	}
}

// TestProgressSystem_Restore 测试恢复存档
func TestProgressSystem_Restore(t *testing.T) {
	w := newTestWorld(t, straightLine(3))
	ps := w.progressSystem()

	ps.Restore(1.7, 9)
	nav := w.nav(t)
	if nav.Current != 1 || nav.Target != 1 {
		t.Errorf("进度应夹紧到 1, got %v/%v", nav.Current, nav.Target)
	}
	if nav.Zoom != w.cfg.Zoom.Max {
		t.Errorf("Zoom = %v, 期望夹紧到 %v", nav.Zoom, w.cfg.Zoom.Max)
	}
	if w.transform(t).Position != w.path.PointAt(1) {
		t.Error("恢复后应立即采样航线")
	}
}

// TestProgressSystem_TrackpadGain 测试触控板与鼠标滚轮使用不同倍率
func TestProgressSystem_TrackpadGain(t *testing.T) {
	tests := []struct {
		name       string
		delta      float64
		wantTarget float64
	}{
		{name: "小增量按触控板倍率", delta: 4, wantTarget: 4 * 0.5 / 1600},
		{name: "大增量按滚轮倍率", delta: 60, wantTarget: 8 * 1.5 / 1600},
		{name: "触控板小抖动被忽略", delta: 0.6, wantTarget: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t, straightLine(3))
			w.cfg.Progress.TrackpadThreshold = 50
			w.cfg.Progress.TrackpadGain = 0.5
			ps := w.progressSystem()

			ps.OnScroll(tt.delta, ScrollModifiers{})
			if got := w.nav(t).Target; math.Abs(got-tt.wantTarget) > 1e-12 {
				t.Errorf("Target = %v, 期望 %v", got, tt.wantTarget)
			}
		})
	}
}

// TestProgressSystem_IntroZoom 测试首次航行后缩放从近景拉远
func TestProgressSystem_IntroZoom(t *testing.T) {
	w := newTestWorld(t, straightLine(3))
	ps := w.progressSystem()
	nav := w.nav(t)
	zoomCfg := w.cfg.Zoom

	// 没有航行输入时保持近景
	for i := 0; i < 120; i++ {
		ps.Update(frame)
	}
	if nav.Zoom != zoomCfg.Initial {
		t.Fatalf("首次滚动前 Zoom = %v, 期望 %v", nav.Zoom, zoomCfg.Initial)
	}

	ps.OnScroll(100, ScrollModifiers{})
	frames := int(math.Ceil(zoomCfg.IntroDuration/frame)) + 1
	prev := nav.Zoom
	for i := 0; i < frames; i++ {
		ps.Update(frame)
		if nav.Zoom < prev {
			t.Fatalf("第 %d 帧 Zoom 回退 %v -> %v", i, prev, nav.Zoom)
		}
		if step := nav.Zoom - prev; step > (zoomCfg.IntroTarget-zoomCfg.Initial)/zoomCfg.IntroDuration*frame+1e-12 {
			t.Fatalf("第 %d 帧 Zoom 变化 %v 超过速率上限", i, step)
		}
		prev = nav.Zoom
	}
	if nav.Zoom != zoomCfg.IntroTarget {
		t.Errorf("拉远结束后 Zoom = %v, 期望 %v", nav.Zoom, zoomCfg.IntroTarget)
	}
	if nav.IntroRate != 0 {
		t.Errorf("IntroRate = %v, 期望结束后清零", nav.IntroRate)
	}

	// 只触发一次：之后用户缩放不会被拉回
	ps.OnScroll(-100, ScrollModifiers{Zoom: true})
	ps.OnScroll(100, ScrollModifiers{})
	for i := 0; i < 120; i++ {
		ps.Update(frame)
	}
	if want := zoomCfg.IntroTarget - 100*zoomCfg.WheelGain; math.Abs(nav.Zoom-want) > 1e-9 {
		t.Errorf("Zoom = %v, 期望保持用户缩放 %v", nav.Zoom, want)
	}
}

// TestProgressSystem_IntroZoomCancelled 测试手动缩放与恢复存档都会取消开场拉远
func TestProgressSystem_IntroZoomCancelled(t *testing.T) {
	t.Run("拉远中手动缩放", func(t *testing.T) {
		w := newTestWorld(t, straightLine(3))
		ps := w.progressSystem()
		nav := w.nav(t)

		ps.OnScroll(100, ScrollModifiers{})
		ps.Update(frame)
		ps.OnPinch(-10)
		zoom := nav.Zoom
		for i := 0; i < 120; i++ {
			ps.Update(frame)
		}
		if nav.Zoom != zoom {
			t.Errorf("Zoom = %v, 期望保持 %v", nav.Zoom, zoom)
		}
	})

	t.Run("恢复存档后滚动", func(t *testing.T) {
		w := newTestWorld(t, straightLine(3))
		ps := w.progressSystem()
		nav := w.nav(t)

		ps.Restore(0.2, 0.6)
		ps.OnScroll(100, ScrollModifiers{})
		for i := 0; i < 120; i++ {
			ps.Update(frame)
		}
		if nav.Zoom != 0.6 {
			t.Errorf("Zoom = %v, 期望保持存档缩放 0.6", nav.Zoom)
		}
	})

	t.Run("关闭开场拉远", func(t *testing.T) {
		w := newTestWorld(t, straightLine(3))
		w.cfg.Zoom.IntroTarget = 0
		ps := w.progressSystem()
		nav := w.nav(t)

		ps.OnScroll(100, ScrollModifiers{})
		for i := 0; i < 120; i++ {
			ps.Update(frame)
		}
		if nav.Zoom != w.cfg.Zoom.Initial {
			t.Errorf("Zoom = %v, 期望 %v", nav.Zoom, w.cfg.Zoom.Initial)
		}
	})
}
