package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/journey/pkg/app"
	"github.com/decker502/journey/pkg/config"
	"github.com/decker502/journey/pkg/embedded"
)

func main() {
	verbose := flag.Bool("verbose", false, "启用详细日志输出")
	journeyPath := flag.String("config", "", "航程配置文件路径（默认使用内置航程）")
	reset := flag.Bool("reset", false, "清除航程存档，从起点开始")
	flag.Parse()

	// 初始化嵌入资源（dataFS 在 embed.go 中声明）
	embedded.Init(dataFS)

	journeyApp, err := app.NewApp(app.Config{
		Verbose:     *verbose,
		JourneyPath: *journeyPath,
		Reset:       *reset,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("Journey")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	// 关闭窗口时先保存进度
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(journeyApp); err != nil {
		log.Fatal(err)
	}
}
