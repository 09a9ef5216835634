// Package app 提供航程浏览器的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"os"

	"github.com/decker502/journey/pkg/config"
	"github.com/decker502/journey/pkg/embedded"
	"github.com/decker502/journey/pkg/game"
	"github.com/decker502/journey/pkg/journey"
	"github.com/decker502/journey/pkg/scenes"
	"github.com/decker502/journey/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

const (
	// appName gdata 存储目录名
	appName = "journey"

	// defaultJourneyPath 嵌入的默认航程
	defaultJourneyPath = "data/journey.yaml"

	// embeddedSpriteDir 嵌入的贴图目录
	embeddedSpriteDir = "data/sprites"

	// journeySceneName 航程场景名
	journeySceneName = "journey"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool

	// JourneyPath 航程配置文件路径，为空时使用嵌入的默认航程
	JourneyPath string

	// Reset 启动时清除航程存档，从起点开始
	Reset bool
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	settings     *game.SettingsManager
	verbose      bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 使用嵌入的默认航程前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	journeyCfg, err := loadJourneyConfig(cfg.JourneyPath)
	if err != nil {
		return nil, err
	}
	log.Printf("[App] Journey loaded: %d waypoints", len(journeyCfg.Waypoints))

	gdataManager := openStorage()

	settings := game.NewSettingsManager(gdataManager)

	saves := game.NewJourneySaveManager(gdataManager)
	if cfg.Reset {
		if err := saves.Reset(); err != nil {
			log.Printf("[App] Warning: Failed to reset journey save: %v", err)
		}
	}

	mobile := utils.IsMobile()
	input := utils.NewInputTracker()

	sprites := newSpriteCache(journeyCfg.Assets.Dir)

	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func(name string) (game.Scene, error) {
		if name != journeySceneName {
			return nil, fmt.Errorf("unknown scene: %s", name)
		}

		nav, err := journey.NewNavigator(journeyCfg, journeyCfg.BuildWaypoints(), mobile)
		if err != nil {
			return nil, err
		}
		if settings.GetSettings().StepScroll {
			nav.SetStepScroll(true)
		}
		restoreJourney(nav, saves)

		return scenes.NewJourneyScene(nav, input, sprites, saves, settings), nil
	})

	if !sceneManager.Load(journeySceneName) {
		return nil, fmt.Errorf("failed to create journey scene")
	}

	if settings.GetSettings().Fullscreen && !mobile {
		ebiten.SetFullscreen(true)
	}

	return &App{
		sceneManager: sceneManager,
		settings:     settings,
		verbose:      cfg.Verbose,
	}, nil
}

// loadJourneyConfig 从文件或嵌入资源加载航程配置
func loadJourneyConfig(path string) (*config.JourneyConfig, error) {
	if path != "" {
		cfg, err := config.LoadJourneyConfig(path)
		if err != nil {
			return nil, fmt.Errorf("航程配置加载失败: %w", err)
		}
		log.Printf("[Config] 加载航程配置: %s", path)
		return cfg, nil
	}

	data, err := embedded.ReadFile(defaultJourneyPath)
	if err != nil {
		return nil, fmt.Errorf("默认航程读取失败: %w", err)
	}
	cfg, err := config.LoadJourneyConfigFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("默认航程加载失败: %w", err)
	}
	log.Printf("[Config] 加载默认航程: %s", defaultJourneyPath)
	return cfg, nil
}

// newSpriteCache 创建贴图缓存
//
// 配置了目录时从该目录加载，否则使用嵌入的 data/sprites；
// 两者都没有时返回 nil，场景只绘制矢量图形。
func newSpriteCache(dir string) *game.AssetCache[image.Image] {
	if dir != "" {
		log.Printf("[App] Sprites enabled from %s", dir)
		return game.NewAssetCache(game.NewImageLoader(os.DirFS(dir)))
	}

	if !embedded.IsInitialized() || !embedded.Exists(embeddedSpriteDir) {
		return nil
	}
	sub, err := embedded.Sub(embeddedSpriteDir)
	if err != nil {
		log.Printf("[App] Warning: Embedded sprites unavailable: %v", err)
		return nil
	}
	log.Printf("[App] Sprites enabled from embedded %s", embeddedSpriteDir)
	return game.NewAssetCache(game.NewImageLoader(sub))
}

// openStorage 打开跨平台存储，失败时返回 nil（降级模式，不保存）
func openStorage() *gdata.Manager {
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
	if p := utils.GetStoragePath(); p != "" {
		log.Printf("[App] Storage path: %s", p)
	}

	gdataManager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[App] Warning: Storage unavailable, progress will not be saved: %v", err)
		return nil
	}
	return gdataManager
}

// restoreJourney 从存档恢复进度与缩放
func restoreJourney(nav *journey.Navigator, saves *game.JourneySaveManager) {
	save, err := saves.Load(len(nav.Waypoints()))
	if err != nil {
		log.Printf("[App] Warning: %v (starting from the beginning)", err)
		return
	}
	if save == nil {
		return
	}
	nav.Restore(save.Progress, save.Zoom)
	log.Printf("[App] Restored journey at progress %.3f (last waypoint %d)", save.Progress, save.LastWaypoint)
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		a.sceneManager.SaveCurrent()
		return ebiten.Termination
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

func (a *App) toggleFullscreen() {
	fullscreen := !ebiten.IsFullscreen()
	ebiten.SetFullscreen(fullscreen)
	if !fullscreen {
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
	}

	a.settings.SetFullscreen(fullscreen)
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: Failed to save settings: %v", err)
	}
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// GetSceneManager 返回场景管理器
// 用于在程序关闭时保存存档
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
