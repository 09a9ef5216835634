package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 一个完整的画面（如航程浏览）
// 同一时刻只有当前场景接收 Update 与 Draw
type Scene interface {
	// Update 推进场景，deltaTime 为本帧时长（秒）
	Update(deltaTime float64)

	// Draw 绘制到 screen
	Draw(screen *ebiten.Image)
}

// Saveable 场景在退出时保存状态
//
// SceneManager 在切换场景和窗口关闭时调用 SaveOnExit()。
type Saveable interface {
	// SaveOnExit 返回 false 表示保存失败（程序仍会正常退出）
	SaveOnExit() bool
}
