package wav

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ErrFFmpegNotInstalled is returned when the ffmpeg binary is not on PATH
var ErrFFmpegNotInstalled = errors.New("FFmpeg is not installed. Please install FFmpeg to convert audio")

// ErrUnsupportedTarget is returned for target formats Convert does not know
var ErrUnsupportedTarget = errors.New("unsupported target format")

func init() {
	ffmpeg.LogCompiledCommand = false
}

// Available reports whether ffmpeg can be executed
func Available() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// outputArgs returns ffmpeg output arguments per target format
func outputArgs(target string) (ffmpeg.KwArgs, error) {
	switch target {
	case "wav":
		return ffmpeg.KwArgs{
			"loglevel": "quiet",
			"acodec":   "pcm_s16le",
			"ac":       "1",
			"ar":       "24000",
		}, nil
	case "mp3":
		return ffmpeg.KwArgs{
			"loglevel": "quiet",
			"acodec":   "libmp3lame",
			"b:a":      "128k",
			"ac":       "1",
		}, nil
	case "ogg":
		return ffmpeg.KwArgs{
			"loglevel":          "quiet",
			"acodec":            "libvorbis",
			"b:a":               "64k",
			"compression_level": "5",
			"threads":           "auto",
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTarget, target)
	}
}

// inputArgs describes headerless sources; raw PCM is 24kHz mono s16le
func inputArgs(sourceExt string) []ffmpeg.KwArgs {
	if sourceExt == "pcm" {
		return []ffmpeg.KwArgs{{"f": "s16le", "ar": "24000", "ac": "1"}}
	}
	return nil
}

// Convert transcodes data (in sourceExt format, e.g. "mp3") into target
// ("mp3", "wav" or "ogg") and returns the converted bytes
func Convert(data []byte, sourceExt string, target string) ([]byte, error) {
	args, err := outputArgs(target)
	if err != nil {
		return nil, err
	}
	if !Available() {
		return nil, ErrFFmpegNotInstalled
	}

	dir, err := os.MkdirTemp("", "mstts_convert_*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary directory: %w", err)
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "input."+sourceExt)
	outPath := filepath.Join(dir, "output."+target)
	if err := os.WriteFile(inPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write input audio: %w", err)
	}

	err = ffmpeg.Input(inPath, inputArgs(sourceExt)...).
		Output(outPath, args).
		OverWriteOutput().
		Run()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg conversion to %s failed: %w", target, err)
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read converted audio: %w", err)
	}
	return out, nil
}
