package media

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// wavBytes builds a minimal PCM WAV container with the given byte rate
// and data payload size.
func wavBytes(byteRate, dataSize uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(8000))
	binary.Write(&buf, binary.LittleEndian, byteRate)
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(8))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataSize)
	buf.Write(make([]byte, dataSize))
	return buf.Bytes()
}

func TestProberWAV(t *testing.T) {
	f := File{
		Name: "note.wav",
		MIME: "audio/wav",
		Size: 1024,
		Data: bytes.NewReader(wavBytes(8000, 40000)),
	}
	got := Prober{}.Duration(f)
	if got != 5 {
		t.Fatalf("Duration = %v, want 5", got)
	}
}

func TestProberWAVTruncatedReportsZero(t *testing.T) {
	data := wavBytes(8000, 40000)
	f := File{
		Name: "note.wav",
		MIME: "audio/wav",
		Data: bytes.NewReader(data[:8]),
	}
	if got := (Prober{}).Duration(f); got != 0 {
		t.Fatalf("Duration = %v, want 0 for a truncated file", got)
	}
}

func TestProberGarbageReportsZero(t *testing.T) {
	// Any undecodable container yields 0, which the upload flow treats
	// as "unknown, allow".
	cases := []struct {
		name string
		mime string
		data []byte
	}{
		{"garbage mp4", "video/mp4", []byte("definitely not an mp4 file at all")},
		{"garbage wav", "audio/wav", []byte("RIFFxxxxNOPE")},
		{"empty mp3", "audio/mpeg", nil},
		{"unknown mime", "audio/ogg", []byte{0x4f, 0x67, 0x67, 0x53}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := File{MIME: tc.mime, Data: bytes.NewReader(tc.data)}
			if got := (Prober{}).Duration(f); got != 0 {
				t.Fatalf("Duration = %v, want 0", got)
			}
		})
	}
}

func TestProberNilData(t *testing.T) {
	if got := (Prober{}).Duration(File{MIME: "video/mp4"}); got != 0 {
		t.Fatalf("Duration = %v, want 0 for nil data", got)
	}
}

func TestProberRewindsAfterRead(t *testing.T) {
	r := bytes.NewReader(wavBytes(8000, 8000))
	f := File{MIME: "audio/wav", Data: r}
	Prober{}.Duration(f)
	if pos, _ := r.Seek(0, 1); pos != 0 {
		t.Fatalf("reader left at offset %d, want 0", pos)
	}
}

func TestFileCategory(t *testing.T) {
	cases := []struct {
		mime string
		want string
	}{
		{"image/jpeg", "image"},
		{"image/png", "image"},
		{"video/mp4", "video"},
		{"audio/mpeg", "audio"},
		{"application/pdf", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := (File{MIME: tc.mime}).Category(); got != tc.want {
			t.Errorf("Category(%q) = %q, want %q", tc.mime, got, tc.want)
		}
	}
}
