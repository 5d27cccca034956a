package renderer

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/ByLCY/titlecard/layout"
)

// Renderer 将排版结果合成为最终图像：先铺背景渐变，再依次绘制标题与各行字幕。
type Renderer interface {
	Render(card *layout.Card) (image.Image, error)
}

// FormatFor 根据文件扩展名选择编码格式，只接受无损且至少 24 位色的格式。
func FormatFor(path string) (imaging.Format, error) {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return 0, fmt.Errorf("无法根据 %s 判断图片格式: %w", path, err)
	}
	switch format {
	case imaging.PNG, imaging.TIFF, imaging.BMP:
		return format, nil
	default:
		return 0, fmt.Errorf("不支持的输出格式 %s（仅支持 png/tiff/bmp）", format)
	}
}

// Encode 按指定格式编码图像。
func Encode(w io.Writer, img image.Image, format imaging.Format) error {
	if img == nil {
		return fmt.Errorf("待编码的图像为空")
	}
	if err := imaging.Encode(w, img, format); err != nil {
		return fmt.Errorf("编码 %s 失败: %w", format, err)
	}
	return nil
}

// WriteFile 先在内存中完成编码，再写入同目录的临时文件并重命名，
// 因此失败时不会留下残缺的输出文件。
func WriteFile(path string, img image.Image) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, img, format); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".titlecard-*")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("写入图片失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("写入图片失败: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("设置文件权限失败: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("写入图片文件 %s 失败: %w", path, err)
	}
	return nil
}
