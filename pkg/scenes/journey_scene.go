package scenes

import (
	"image"
	"log"

	"github.com/decker502/journey/pkg/components"
	"github.com/decker502/journey/pkg/config"
	"github.com/decker502/journey/pkg/ecs"
	"github.com/decker502/journey/pkg/entities"
	"github.com/decker502/journey/pkg/game"
	"github.com/decker502/journey/pkg/journey"
	"github.com/decker502/journey/pkg/route"
	"github.com/decker502/journey/pkg/types"
	"github.com/decker502/journey/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	// pathSampleCount 绘制航线时的采样点数
	pathSampleCount = 400

	// panelFadeDuration 详情面板淡入淡出时长（秒）
	panelFadeDuration = 0.3
)

// JourneyScene 航程浏览场景
//
// 负责把 ebiten 输入交给 Navigator，并按镜头位姿绘制俯视图。
// 场景本身不保存导航状态，所有状态都从 Navigator 读取。
type JourneyScene struct {
	nav      *journey.Navigator
	input    *utils.InputTracker
	saves    *game.JourneySaveManager
	settings *game.SettingsManager

	// 贴图（可选），未就绪时使用矢量图形
	sprites     *game.AssetCache[image.Image]
	spriteFiles map[string]string
	images      map[string]*ebiten.Image
	spriteScale map[string]float64

	screenW, screenH int

	pathPoints []types.Vec3
	positions  []types.Vec3
	dayStarts  map[int]int // 航点索引 → 当天第一站的天数

	// 详情面板
	panelIndex  int
	panelLinear float64

	lastDocked int
}

// NewJourneyScene 创建航程场景
//
// 参数:
//   - nav: 航程引擎
//   - input: 输入跟踪器，为 nil 时不读取 ebiten 输入
//   - sprites: 贴图缓存，为 nil 时只使用矢量图形
//   - saves: 航程存档，停靠变化和退出时写入
//   - settings: 用户偏好
func NewJourneyScene(
	nav *journey.Navigator,
	input *utils.InputTracker,
	sprites *game.AssetCache[image.Image],
	saves *game.JourneySaveManager,
	settings *game.SettingsManager,
) *JourneyScene {
	if saves == nil {
		saves = game.NewJourneySaveManager(nil)
	}
	if settings == nil {
		settings = game.NewSettingsManager(nil)
	}

	s := &JourneyScene{
		nav:         nav,
		input:       input,
		saves:       saves,
		settings:    settings,
		sprites:     sprites,
		images:      make(map[string]*ebiten.Image),
		spriteScale: make(map[string]float64),
		screenW:     config.GameWindowWidth,
		screenH:     config.GameWindowHeight,
		panelIndex:  components.NoWaypoint,
		lastDocked:  components.NoWaypoint,
	}

	s.positions = make([]types.Vec3, 0, len(nav.Waypoints()))
	for _, wp := range nav.Waypoints() {
		s.positions = append(s.positions, wp.Position)
	}
	s.dayStarts = dayStarts(nav.Waypoints())

	if p := nav.Path(); p != nil {
		s.pathPoints = make([]types.Vec3, pathSampleCount+1)
		for i := range s.pathPoints {
			s.pathPoints[i] = p.PointAt(float64(i) / pathSampleCount)
		}
	}

	assets := nav.Config().Assets
	s.spriteFiles = map[string]string{
		entities.VehicleAssetKey: assets.VehicleImage,
		entities.IslandAssetKey:  assets.IslandImage,
	}
	s.requestSprites()

	nav.OnDockChanged(s.onDockChanged)

	return s
}

// requestSprites 为实体用到的每个资源键发起异步加载
func (s *JourneyScene) requestSprites() {
	if s.sprites == nil {
		return
	}

	em := s.nav.EntityManager()
	requested := make(map[string]bool)
	for _, id := range ecs.GetEntitiesWith1[*components.SpriteComponent](em) {
		sprite, _ := ecs.GetComponent[*components.SpriteComponent](em, id)
		file := s.spriteFiles[sprite.AssetKey]
		if file == "" || requested[sprite.AssetKey] {
			continue
		}
		requested[sprite.AssetKey] = true

		key := sprite.AssetKey
		if sprite.Scale > 0 {
			s.spriteScale[key] = sprite.Scale
		}
		s.sprites.Request(file, func(img image.Image, err error) {
			if err != nil {
				return
			}
			// 在帧线程上转换为 GPU 贴图
			s.images[key] = ebiten.NewImageFromImage(img)
		})
	}
}

// Update 处理输入并推进航程
func (s *JourneyScene) Update(deltaTime float64) {
	if s.input != nil {
		s.handleInput(s.input.Poll())
		s.handleKeys()
	}
	s.step(deltaTime)
}

// handleInput 把一帧输入转换为导航操作
func (s *JourneyScene) handleInput(in utils.FrameInput) {
	if in.Wheel != 0 {
		s.nav.OnScroll(in.Wheel, journey.ScrollModifiers{Zoom: in.ZoomModifier})
	}
	if in.DragDY != 0 {
		s.nav.OnTouchDrag(in.DragDY)
	}
	if in.PinchDelta != 0 {
		s.nav.OnPinch(in.PinchDelta)
	}
	if in.Clicked {
		p := newProjector(s.nav.CameraPose(), s.screenW, s.screenH)
		idx := p.pickWaypoint(s.positions, float64(in.ClickX), float64(in.ClickY), config.WaypointPickRadius)
		if idx >= 0 {
			s.jump(idx)
		}
	}
}

// handleKeys 键盘快捷键
func (s *JourneyScene) handleKeys() {
	last := len(s.positions) - 1
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		s.jump(0)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		s.jump(last)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		s.jump(s.adjacentWaypoint(1))
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		s.jump(s.adjacentWaypoint(-1))
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		s.toggleDetails()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		s.toggleStepScroll()
	}
}

// adjacentWaypoint 当前航点之后/之前的航点，越界时停在两端
func (s *JourneyScene) adjacentWaypoint(dir int) int {
	st := s.nav.State()
	cur := st.CurrentWaypoint
	if cur == components.NoWaypoint {
		cur = s.nav.Docks().NearestIndex(st.CurrentProgress)
	}
	next := cur + dir
	if next < 0 {
		next = 0
	}
	if last := len(s.positions) - 1; next > last {
		next = last
	}
	return next
}

func (s *JourneyScene) jump(index int) {
	if err := s.nav.OnJump(index); err != nil {
		log.Printf("[JourneyScene] Jump rejected: %v", err)
	}
}

func (s *JourneyScene) toggleDetails() {
	settings := s.settings.GetSettings()
	s.settings.SetShowDetails(!settings.ShowDetails)
	if err := s.settings.Save(); err != nil {
		log.Printf("[JourneyScene] Warning: Failed to save settings: %v", err)
	}
}

// toggleStepScroll 在连续航行与逐站跳转之间切换，并记住选择
func (s *JourneyScene) toggleStepScroll() {
	enabled := !s.nav.StepScroll()
	s.nav.SetStepScroll(enabled)
	s.settings.SetStepScroll(enabled)
	if err := s.settings.Save(); err != nil {
		log.Printf("[JourneyScene] Warning: Failed to save settings: %v", err)
	}
}

// step 推进一帧（不读取输入）
func (s *JourneyScene) step(dt float64) {
	if s.sprites != nil {
		s.sprites.Poll()
	}

	s.nav.Update(dt)

	// 面板跟随停靠状态淡入淡出，淡出期间保留内容
	visible := s.lastDocked != components.NoWaypoint && s.settings.GetSettings().ShowDetails
	delta := dt / panelFadeDuration
	if visible {
		s.panelLinear = utils.Clamp01(s.panelLinear + delta)
	} else {
		s.panelLinear = utils.Clamp01(s.panelLinear - delta)
	}
}

// spriteWidth 贴图绘制宽度（像素）
func (s *JourneyScene) spriteWidth(key string, base float64) float64 {
	if k, ok := s.spriteScale[key]; ok {
		return base * k
	}
	return base
}

// panelAlpha 详情面板不透明度 [0,1]
func (s *JourneyScene) panelAlpha() float64 {
	return utils.EaseOutCubic(s.panelLinear)
}

func (s *JourneyScene) onDockChanged(ch journey.DockChange) {
	s.lastDocked = ch.Index
	if ch.Index == components.NoWaypoint {
		return
	}

	s.panelIndex = ch.Index
	if meta, ok := ch.Metadata.(config.WaypointMeta); ok {
		log.Printf("[JourneyScene] Arrived at %q (day %d)", meta.Title, meta.Day)
	}
	s.save()
}

// save 写入当前进度
func (s *JourneyScene) save() bool {
	if len(s.positions) == 0 {
		return true
	}

	st := s.nav.State()
	last := st.DockedIndex
	if last == components.NoWaypoint {
		last = st.CurrentWaypoint
	}

	err := s.saves.Save(game.JourneySave{
		Progress:      st.CurrentProgress,
		Zoom:          st.Zoom,
		WaypointCount: len(s.positions),
		LastWaypoint:  last,
	})
	if err != nil {
		log.Printf("[JourneyScene] Warning: Failed to save journey: %v", err)
		return false
	}
	return true
}

// SaveOnExit 实现 game.Saveable
func (s *JourneyScene) SaveOnExit() bool {
	return s.save()
}

// dayStarts 返回每天第一站的航点索引 → 天数
func dayStarts(waypoints []route.Waypoint) map[int]int {
	out := make(map[int]int)
	prevDay := 0
	for _, wp := range waypoints {
		meta, ok := wp.Metadata.(config.WaypointMeta)
		if !ok || meta.Day <= 0 {
			continue
		}
		if meta.Day != prevDay {
			out[wp.Index] = meta.Day
			prevDay = meta.Day
		}
	}
	return out
}
