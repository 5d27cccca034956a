package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/ByLCY/titlecard/api"
	"github.com/ByLCY/titlecard/dsl"
	"github.com/ByLCY/titlecard/layout"
	"github.com/ByLCY/titlecard/renderer"
	canvasrenderer "github.com/ByLCY/titlecard/renderer/canvas"
)

func main() {
	configPath := flag.String("config", "", "标题卡配置文件路径（.card），留空使用默认配置")
	output := flag.String("out", "", "图片输出路径，覆盖配置中的 output")
	caption := flag.String("caption", "", "直接指定字幕，跳过交互输入")
	wide := flag.Bool("wide", false, "宽排模式：字母之间插入空格")
	height := flag.Int("height", 0, "画布高度（像素），覆盖配置")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	serve := flag.String("serve", "", "以 HTTP 服务运行并监听该地址，如 :8080")
	flag.Parse()

	cfg, baseDir, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["wide"] {
		cfg.Wide = *wide
	}
	if *height > 0 {
		cfg.Height = *height
	}
	if *output != "" {
		cfg.Output = *output
	}

	if *serve != "" {
		r := gin.Default()
		api.RegisterRoutes(r, cfg, baseDir)
		log.Printf("标题卡服务监听 %s", *serve)
		if err := r.Run(*serve); err != nil {
			log.Fatalf("HTTP 服务退出: %v", err)
		}
		return
	}

	r := canvasrenderer.NewRenderer(baseDir, cfg.Font)
	build := func(text string) (*layout.Card, error) {
		return layout.Build(text, r, cfg)
	}

	var card *layout.Card
	if set["caption"] {
		card, err = build(*caption)
	} else {
		card, err = prompt(os.Stdin, os.Stdout, build)
	}
	if err != nil {
		log.Fatalf("排版失败: %v", err)
	}

	if err := run(card, r, cfg.Output, *debug); err != nil {
		log.Fatalf("生成标题卡失败: %v", err)
	}
	fmt.Printf("已写入 %s\n", cfg.Output)
}

// loadConfig 读取配置文件并返回字体等相对路径的基准目录。
func loadConfig(path string) (layout.Config, string, error) {
	cfg := layout.DefaultConfig()
	if path == "" {
		return cfg, ".", nil
	}
	file, err := os.Open(path)
	if err != nil {
		return cfg, "", fmt.Errorf("无法打开配置文件 %s: %w", path, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return cfg, "", fmt.Errorf("解析配置失败: %w", err)
	}
	cfg, err = layout.ConfigFromDocument(doc, cfg)
	if err != nil {
		return cfg, "", err
	}
	return cfg, filepath.Dir(path), nil
}

// prompt 反复询问字幕直到排版成功。可恢复的错误只提示并重新询问，输入结束视为失败。
func prompt(in io.Reader, out io.Writer, build func(string) (*layout.Card, error)) (*layout.Card, error) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Category: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("读取输入失败: %w", err)
			}
			return nil, fmt.Errorf("未输入字幕: %w", io.EOF)
		}
		card, err := build(scanner.Text())
		if err == nil {
			return card, nil
		}
		if !layout.IsRecoverable(err) {
			return nil, err
		}
		fmt.Fprintln(out, err)
	}
}

// run 渲染排版结果并写出图片；渲染或编码失败时不会留下输出文件。
func run(card *layout.Card, r renderer.Renderer, outputPath, debugPath string) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	if debugPath != "" {
		if err := writeDebug(card, debugPath); err != nil {
			return err
		}
	}
	img, err := r.Render(card)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	return renderer.WriteFile(outputPath, img)
}

func writeDebug(card *layout.Card, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(card, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
