package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// ConvertPCMToWAV prepends a RIFF header to signed 16-bit little-endian PCM
func ConvertPCMToWAV(pcmData []byte, channels int, sampleRate int) ([]byte, error) {
	if channels <= 0 || sampleRate <= 0 {
		return nil, errors.New("channels and sample rate must be positive")
	}

	var buffer bytes.Buffer
	buffer.Grow(len(pcmData) + 44)

	// Write WAV header
	buffer.WriteString("RIFF")
	binary.Write(&buffer, binary.LittleEndian, uint32(len(pcmData)+36))
	buffer.WriteString("WAVE")

	// "fmt " chunk
	buffer.WriteString("fmt ")
	binary.Write(&buffer, binary.LittleEndian, uint32(16))
	binary.Write(&buffer, binary.LittleEndian, uint16(1))
	binary.Write(&buffer, binary.LittleEndian, uint16(channels))
	binary.Write(&buffer, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buffer, binary.LittleEndian, uint32(sampleRate*channels*2))
	binary.Write(&buffer, binary.LittleEndian, uint16(channels*2))
	binary.Write(&buffer, binary.LittleEndian, uint16(16))

	// "data" chunk
	buffer.WriteString("data")
	binary.Write(&buffer, binary.LittleEndian, uint32(len(pcmData)))
	buffer.Write(pcmData)

	return buffer.Bytes(), nil
}
