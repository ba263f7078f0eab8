package tts

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/dooshek/mstts/internal/logger"
)

// Play writes audio to a temporary file and plays it with the first
// available system player
func Play(audio Audio) error {
	if !audio.OK() {
		return ErrSynthesisFailed
	}

	tmpFile, err := os.CreateTemp("", fmt.Sprintf("mstts_*.%s", audio.Format))
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(audio.Data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write audio data: %w", err)
	}
	tmpFile.Close()

	logger.Infof("🔊 Playing TTS audio...")

	// Play audio using paplay (Linux/PulseAudio)
	cmd := exec.Command("paplay", tmpFile.Name())
	if err := cmd.Run(); err != nil {
		logger.Debugf("paplay failed, trying fallback players: %v", err)
		return playFallback(tmpFile.Name())
	}

	logger.Debugf("✅ TTS audio playback completed")
	return nil
}

// playFallback tries alternative audio players
func playFallback(filename string) error {
	players := [][]string{
		{"mpv", "--no-video", "--really-quiet", filename},
		{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", filename},
		{"aplay", filename}, // for basic PCM/WAV
		{"vlc", "--intf", "dummy", "--play-and-exit", filename},
	}

	for _, player := range players {
		cmd := exec.Command(player[0], player[1:]...)
		if err := cmd.Run(); err == nil {
			logger.Debugf("✅ TTS audio played using %s", player[0])
			return nil
		}
	}

	return fmt.Errorf("no suitable audio player found (tried: paplay, mpv, ffplay, aplay, vlc)")
}
