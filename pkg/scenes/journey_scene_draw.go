package scenes

import (
	"fmt"
	"image/color"
	"math"

	"github.com/decker502/journey/pkg/components"
	"github.com/decker502/journey/pkg/config"
	"github.com/decker502/journey/pkg/entities"
	"github.com/decker502/journey/pkg/journey"
	"github.com/decker502/journey/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	seaColor       = color.RGBA{R: 18, G: 64, B: 102, A: 255}
	pathColor      = color.NRGBA{R: 220, G: 232, B: 240, A: 160}
	islandColor    = color.RGBA{R: 226, G: 196, B: 132, A: 255}
	islandEdge     = color.RGBA{R: 96, G: 150, B: 84, A: 255}
	dockedRing     = color.RGBA{R: 255, G: 214, B: 90, A: 255}
	vehicleColor   = color.RGBA{R: 240, G: 80, B: 64, A: 255}
	hudBackground  = color.RGBA{R: 0, G: 0, B: 0, A: 120}
	hudFill        = color.NRGBA{R: 255, G: 214, B: 90, A: 220}
	hudTick        = color.NRGBA{R: 255, G: 255, B: 255, A: 160}
	panelBackColor = color.RGBA{R: 12, G: 24, B: 36, A: 220}
)

// islandRadius 航点在世界单位下的绘制半径
const islandRadius = 14.0

// Draw 绘制一帧
func (s *JourneyScene) Draw(screen *ebiten.Image) {
	screen.Fill(seaColor)

	st := s.nav.State()
	p := newProjector(s.nav.CameraPose(), s.screenW, s.screenH)

	s.drawPath(screen, p)
	s.drawWaypoints(screen, p, st)
	if len(s.positions) > 0 {
		s.drawVehicle(screen, p, st)
	}
	s.drawProgressBar(screen, st)
	s.drawDetailPanel(screen)

	ebitenutil.DebugPrintAt(screen, "Scroll: sail  Ctrl+Scroll: zoom  Click: jump  D: details  S: step mode", 10, 10)
}

func (s *JourneyScene) drawPath(screen *ebiten.Image, p projector) {
	if len(s.pathPoints) < 2 {
		return
	}
	x0, y0 := p.toScreen(s.pathPoints[0])
	for _, pt := range s.pathPoints[1:] {
		x1, y1 := p.toScreen(pt)
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 2, pathColor, true)
		x0, y0 = x1, y1
	}
}

func (s *JourneyScene) drawWaypoints(screen *ebiten.Image, p projector, st journey.State) {
	r := float32(islandRadius * p.scale)
	img := s.images[entities.IslandAssetKey]

	for i, pos := range s.positions {
		x, y := p.toScreen(pos)
		fx, fy := float32(x), float32(y)

		if img != nil {
			drawSpriteCentered(screen, img, x, y, 0, s.spriteWidth(entities.IslandAssetKey, 2*islandRadius*p.scale))
		} else {
			vector.DrawFilledCircle(screen, fx, fy, r, islandColor, true)
			vector.StrokeCircle(screen, fx, fy, r, 2, islandEdge, true)
		}

		if i == st.DockedIndex {
			vector.StrokeCircle(screen, fx, fy, r+6, 3, dockedRing, true)
		}

		label := fmt.Sprintf("%d", i+1)
		if day, ok := s.dayStarts[i]; ok {
			label = fmt.Sprintf("Day %d", day)
		}
		ebitenutil.DebugPrintAt(screen, label, int(x)-len(label)*3, int(y+float64(r))+4)
	}
}

func (s *JourneyScene) drawVehicle(screen *ebiten.Image, p projector, st journey.State) {
	// Heading 含模型朝向修正，绘制时先去掉
	facing := st.Heading - s.nav.Config().Orientation.AssetOffset()
	dir := types.V3(math.Sin(facing), 0, math.Cos(facing))
	angle := p.screenAngle(dir) + st.Roll

	x, y := p.toScreen(st.Position)
	size := 16 * (1 + st.Bob*0.05)

	if img := s.images[entities.VehicleAssetKey]; img != nil {
		drawSpriteCentered(screen, img, x, y, angle, s.spriteWidth(entities.VehicleAssetKey, size*2))
		return
	}

	// 三角形：尖端指向行进方向
	cos, sin := math.Cos(angle), math.Sin(angle)
	pt := func(fwd, side float64) (float32, float32) {
		return float32(x + fwd*cos - side*sin), float32(y + fwd*sin + side*cos)
	}

	nx, ny := pt(size, 0)
	lx, ly := pt(-size*0.7, size*0.6)
	rx, ry := pt(-size*0.7, -size*0.6)
	vector.DrawFilledCircle(screen, float32(x), float32(y), float32(size*0.45), vehicleColor, true)
	vector.StrokeLine(screen, nx, ny, lx, ly, 3, vehicleColor, true)
	vector.StrokeLine(screen, lx, ly, rx, ry, 3, vehicleColor, true)
	vector.StrokeLine(screen, rx, ry, nx, ny, 3, vehicleColor, true)
}

// drawSpriteCentered 以 (x, y) 为中心绘制贴图，width 为目标宽度（像素）
func drawSpriteCentered(screen, img *ebiten.Image, x, y, angle, width float64) {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if w == 0 || h == 0 {
		return
	}
	scale := width / w

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-w/2, -h/2)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Rotate(angle)
	op.GeoM.Translate(x, y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}

// drawProgressBar 底部进度条，刻度为各航点的停靠参数
func (s *JourneyScene) drawProgressBar(screen *ebiten.Image, st journey.State) {
	const height = 6.0
	margin := float32(config.DetailPanelMargin)
	w := float32(s.screenW) - 2*margin
	y := float32(s.screenH) - margin - height

	vector.DrawFilledRect(screen, margin, y, w, height, hudBackground, false)
	vector.DrawFilledRect(screen, margin, y, w*float32(st.CurrentProgress), height, hudFill, false)

	for _, t := range s.nav.Docks() {
		x := margin + w*float32(t)
		vector.StrokeLine(screen, x, y-3, x, y+height+3, 1, hudTick, false)
	}
}

// drawDetailPanel 停靠航点的详情面板
func (s *JourneyScene) drawDetailPanel(screen *ebiten.Image) {
	alpha := s.panelAlpha()
	if alpha <= 0 || s.panelIndex == components.NoWaypoint {
		return
	}
	wp, ok := s.nav.Waypoint(s.panelIndex)
	if !ok {
		return
	}

	x := float32(config.DetailPanelMargin)
	y := float32(s.screenH - config.DetailPanelHeight - 2*config.DetailPanelMargin - 12)
	vector.DrawFilledRect(screen, x, y, config.DetailPanelWidth, config.DetailPanelHeight, scaleAlpha(panelBackColor, alpha), false)
	vector.StrokeRect(screen, x, y, config.DetailPanelWidth, config.DetailPanelHeight, 1, scaleAlpha(dockedRing, alpha), false)

	// 调试字体不支持透明度，面板基本淡入后再显示文字
	if alpha < 0.5 {
		return
	}
	for i, line := range panelLines(wp.Index, wp.Metadata) {
		ebitenutil.DebugPrintAt(screen, line, int(x)+12, int(y)+12+i*18)
	}
}

// panelLines 详情面板的文本行
func panelLines(index int, metadata any) []string {
	meta, ok := metadata.(config.WaypointMeta)
	if !ok {
		if metadata == nil {
			return []string{fmt.Sprintf("Stop %d", index+1)}
		}
		return []string{fmt.Sprintf("Stop %d", index+1), fmt.Sprint(metadata)}
	}

	lines := []string{meta.Title}
	if meta.Time != "" {
		lines = append(lines, meta.Time)
	}
	if meta.Day > 0 {
		lines = append(lines, fmt.Sprintf("Day %d  -  stop %d", meta.Day, index+1))
	} else {
		lines = append(lines, fmt.Sprintf("Stop %d", index+1))
	}
	return lines
}

func scaleAlpha(c color.RGBA, a float64) color.RGBA {
	// 预乘 alpha
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}
