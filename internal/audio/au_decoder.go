package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// AUStream Sun/NeXT .au 片段解码后的 PCM 流
// 输出固定为 16 位小端立体声，单声道样本复制到左右声道，
// 可直接交给 ebiten 的 audio.Resample 或 audio.Context
type AUStream struct {
	data       []byte
	sampleRate int
	offset     int64
}

// auHeader 文件头（大端，至少 24 字节）
type auHeader struct {
	Magic      uint32 // 0x2e736e64 (".snd")
	DataOffset uint32
	DataSize   uint32 // 0xFFFFFFFF 表示未知
	Encoding   uint32
	SampleRate uint32
	Channels   uint32
}

const (
	auMagic         = 0x2e736e64
	auHeaderSize    = 24
	auUnknownSize   = 0xFFFFFFFF
	auEncodingULaw  = 1 // 8 位 μ-law
	auEncodingPCM16 = 3 // 16 位线性 PCM（大端）
)

// mulawTable μ-law 字节到 16 位样本
var mulawTable = [256]int16{
	-32124, -31100, -30076, -29052, -28028, -27004, -25980, -24956,
	-23932, -22908, -21884, -20860, -19836, -18812, -17788, -16764,
	-15996, -15484, -14972, -14460, -13948, -13436, -12924, -12412,
	-11900, -11388, -10876, -10364, -9852, -9340, -8828, -8316,
	-7932, -7676, -7420, -7164, -6908, -6652, -6396, -6140,
	-5884, -5628, -5372, -5116, -4860, -4604, -4348, -4092,
	-3900, -3772, -3644, -3516, -3388, -3260, -3132, -3004,
	-2876, -2748, -2620, -2492, -2364, -2236, -2108, -1980,
	-1884, -1820, -1756, -1692, -1628, -1564, -1500, -1436,
	-1372, -1308, -1244, -1180, -1116, -1052, -988, -924,
	-876, -844, -812, -780, -748, -716, -684, -652,
	-620, -588, -556, -524, -492, -460, -428, -396,
	-372, -356, -340, -324, -308, -292, -276, -260,
	-244, -228, -212, -196, -180, -164, -148, -132,
	-120, -112, -104, -96, -88, -80, -72, -64,
	-56, -48, -40, -32, -24, -16, -8, 0,
	32124, 31100, 30076, 29052, 28028, 27004, 25980, 24956,
	23932, 22908, 21884, 20860, 19836, 18812, 17788, 16764,
	15996, 15484, 14972, 14460, 13948, 13436, 12924, 12412,
	11900, 11388, 10876, 10364, 9852, 9340, 8828, 8316,
	7932, 7676, 7420, 7164, 6908, 6652, 6396, 6140,
	5884, 5628, 5372, 5116, 4860, 4604, 4348, 4092,
	3900, 3772, 3644, 3516, 3388, 3260, 3132, 3004,
	2876, 2748, 2620, 2492, 2364, 2236, 2108, 1980,
	1884, 1820, 1756, 1692, 1628, 1564, 1500, 1436,
	1372, 1308, 1244, 1180, 1116, 1052, 988, 924,
	876, 844, 812, 780, 748, 716, 684, 652,
	620, 588, 556, 524, 492, 460, 428, 396,
	372, 356, 340, 324, 308, 292, 276, 260,
	244, 228, 212, 196, 180, 164, 148, 132,
	120, 112, 104, 96, 88, 80, 72, 64,
	56, 48, 40, 32, 24, 16, 8, 0,
}

// DecodeAU 解码 .au 数据
// 支持 μ-law 与 16 位线性 PCM，单声道或立体声
func DecodeAU(r io.Reader) (*AUStream, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read AU data: %w", err)
	}
	if len(data) < auHeaderSize {
		return nil, fmt.Errorf("AU data too short: %d bytes (minimum %d)", len(data), auHeaderSize)
	}

	var header auHeader
	if err := binary.Read(bytes.NewReader(data), binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read AU header: %w", err)
	}
	if header.Magic != auMagic {
		return nil, fmt.Errorf("invalid AU magic number: 0x%08x", header.Magic)
	}
	if header.Channels < 1 || header.Channels > 2 {
		return nil, fmt.Errorf("unsupported AU channel count: %d", header.Channels)
	}
	if header.SampleRate == 0 {
		return nil, fmt.Errorf("AU sample rate cannot be zero")
	}

	offset := int(header.DataOffset)
	if offset < auHeaderSize || offset > len(data) {
		return nil, fmt.Errorf("invalid AU data offset: %d (size %d)", offset, len(data))
	}
	payload := data[offset:]
	if header.DataSize != auUnknownSize && int(header.DataSize) < len(payload) {
		payload = payload[:header.DataSize]
	}

	var samples []int16
	switch header.Encoding {
	case auEncodingULaw:
		samples = make([]int16, len(payload))
		for i, b := range payload {
			samples[i] = mulawTable[b]
		}
	case auEncodingPCM16:
		samples = make([]int16, len(payload)/2)
		for i := range samples {
			samples[i] = int16(binary.BigEndian.Uint16(payload[i*2:]))
		}
	default:
		return nil, fmt.Errorf("unsupported AU encoding: %d", header.Encoding)
	}

	return &AUStream{
		data:       toStereoPCM(samples, int(header.Channels)),
		sampleRate: int(header.SampleRate),
	}, nil
}

// toStereoPCM 交错样本转为 16 位小端立体声
func toStereoPCM(samples []int16, channels int) []byte {
	frames := len(samples) / channels
	out := make([]byte, frames*4)
	for f := 0; f < frames; f++ {
		left := samples[f*channels]
		right := left
		if channels == 2 {
			right = samples[f*channels+1]
		}
		binary.LittleEndian.PutUint16(out[f*4:], uint16(left))
		binary.LittleEndian.PutUint16(out[f*4+2:], uint16(right))
	}
	return out
}

// Read 实现 io.Reader
func (s *AUStream) Read(p []byte) (int, error) {
	if s.offset >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.offset:])
	s.offset += int64(n)
	return n, nil
}

// Seek 实现 io.Seeker
func (s *AUStream) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = s.offset + offset
	case io.SeekEnd:
		next = int64(len(s.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}
	if next < 0 {
		return 0, fmt.Errorf("negative position: %d", next)
	}
	s.offset = next
	return next, nil
}

// Length 解码后的字节数
func (s *AUStream) Length() int64 {
	return int64(len(s.data))
}

// SampleRate 原始采样率
func (s *AUStream) SampleRate() int {
	return s.sampleRate
}

// Bytes 全部 PCM 数据
func (s *AUStream) Bytes() []byte {
	return s.data
}
