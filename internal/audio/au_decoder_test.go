package audio

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
)

// buildAU 构造 .au 测试数据
func buildAU(encoding, rate, channels uint32, payload []byte) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, auHeader{
		Magic:      auMagic,
		DataOffset: auHeaderSize,
		DataSize:   uint32(len(payload)),
		Encoding:   encoding,
		SampleRate: rate,
		Channels:   channels,
	})
	buf.Write(payload)
	return buf.Bytes()
}

func TestDecodeAUMonoULawToStereo(t *testing.T) {
	// 0x00 → -32124，0xFF → 0
	stream, err := DecodeAU(bytes.NewReader(buildAU(auEncodingULaw, 8000, 1, []byte{0x00, 0xFF})))
	if err != nil {
		t.Fatalf("DecodeAU failed: %v", err)
	}
	if stream.SampleRate() != 8000 {
		t.Errorf("expected rate 8000, got %d", stream.SampleRate())
	}
	if stream.Length() != 8 {
		t.Fatalf("2 mono frames should decode to 8 stereo bytes, got %d", stream.Length())
	}

	data := stream.Bytes()
	left := int16(binary.LittleEndian.Uint16(data[0:]))
	right := int16(binary.LittleEndian.Uint16(data[2:]))
	if left != -32124 || right != -32124 {
		t.Errorf("mono sample should be duplicated, got L=%d R=%d", left, right)
	}
	if last := int16(binary.LittleEndian.Uint16(data[6:])); last != 0 {
		t.Errorf("expected silence for 0xFF, got %d", last)
	}
}

func TestDecodeAUStereoPCM16(t *testing.T) {
	payload := []byte{0x01, 0x00, 0xFF, 0xFF} // L=256, R=-1（大端）
	stream, err := DecodeAU(bytes.NewReader(buildAU(auEncodingPCM16, 44100, 2, payload)))
	if err != nil {
		t.Fatalf("DecodeAU failed: %v", err)
	}
	data := stream.Bytes()
	if len(data) != 4 {
		t.Fatalf("expected one stereo frame, got %d bytes", len(data))
	}
	if l := int16(binary.LittleEndian.Uint16(data[0:])); l != 256 {
		t.Errorf("left = %d, want 256", l)
	}
	if r := int16(binary.LittleEndian.Uint16(data[2:])); r != -1 {
		t.Errorf("right = %d, want -1", r)
	}
}

func TestDecodeAUErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"too short", []byte{0x2e, 0x73}},
		{"bad magic", append([]byte("RIFF"), make([]byte, 20)...)},
		{"unsupported encoding", buildAU(27, 8000, 1, []byte{0})},
		{"too many channels", buildAU(auEncodingULaw, 8000, 6, []byte{0})},
		{"zero rate", buildAU(auEncodingULaw, 0, 1, []byte{0})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeAU(bytes.NewReader(tt.data)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestAUStreamReadSeek(t *testing.T) {
	stream, err := DecodeAU(bytes.NewReader(buildAU(auEncodingULaw, 8000, 1, []byte{1, 2, 3})))
	if err != nil {
		t.Fatalf("DecodeAU failed: %v", err)
	}

	all, err := io.ReadAll(stream)
	if err != nil || len(all) != 12 {
		t.Fatalf("ReadAll: %d bytes, err %v", len(all), err)
	}
	if pos, err := stream.Seek(-4, io.SeekEnd); err != nil || pos != 8 {
		t.Errorf("Seek(-4, End) = %d, %v", pos, err)
	}
	if _, err := stream.Seek(-1, io.SeekStart); err == nil {
		t.Error("negative seek should fail")
	}
}
