package wire

import (
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := map[string]interface{}{
		"ref":        "abc123",
		"ret":        true,
		"printer_id": "p1",
		"_webrtc":    true,
	}

	data, err := Encode(original)
	if err != nil {
		t.Fatalf("wire:codec_test - encode failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := Decode(data, &decoded); err != nil {
		t.Fatalf("wire:codec_test - decode failed: %v", err)
	}

	if decoded["ref"] != "abc123" {
		t.Errorf("wire:codec_test - ref = %v, want abc123", decoded["ref"])
	}
	if decoded["printer_id"] != "p1" {
		t.Errorf("wire:codec_test - printer_id = %v, want p1", decoded["printer_id"])
	}
	if decoded["_webrtc"] != true {
		t.Errorf("wire:codec_test - _webrtc = %v, want true", decoded["_webrtc"])
	}
}

func TestEncode_Unserializable(t *testing.T) {
	if _, err := Encode(make(chan int)); err == nil {
		t.Fatal("wire:codec_test - expected error for unserializable value")
	}
}

func TestDecode_Garbage(t *testing.T) {
	var v map[string]interface{}
	if err := Decode([]byte("not a zlib stream"), &v); err == nil {
		t.Fatal("wire:codec_test - expected error for garbage input")
	}
}

func TestEncode_CompressesRepetitivePayload(t *testing.T) {
	status := make(map[string]interface{})
	for i := 0; i < 64; i++ {
		status[string(rune('a'+i%26))+"_temperature_actual"] = 23.5
	}

	data, err := Encode(status)
	if err != nil {
		t.Fatalf("wire:codec_test - encode failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := Decode(data, &decoded); err != nil {
		t.Fatalf("wire:codec_test - decode failed: %v", err)
	}
	if len(decoded) != len(status) {
		t.Errorf("wire:codec_test - decoded %d keys, want %d", len(decoded), len(status))
	}
}
