package encoder

import (
	"bytes"
	"encoding/binary"
)

// WAVHeaderSize is the fixed RIFF header length produced by WAV.
const WAVHeaderSize = 44

// WAV wraps raw PCM in a canonical RIFF/WAVE container.
func WAV(pcm []byte, f Format) []byte {
	var buf bytes.Buffer
	byteRate := f.SampleRate * f.Channels * BitsPerSample / 8
	blockAlign := f.Channels * BitsPerSample / 8

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(f.Channels))
	binary.Write(&buf, binary.LittleEndian, f.SampleRate)
	binary.Write(&buf, binary.LittleEndian, byteRate)
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(BitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}
