package webcam

import (
	"context"
	"encoding/binary"
	"net/http"
	"net/http/httptest"
	"testing"
)

func gifHeader(width, height uint16) []byte {
	data := []byte("GIF89a")
	data = binary.LittleEndian.AppendUint16(data, width)
	data = binary.LittleEndian.AppendUint16(data, height)
	return data
}

func TestClient_SnapshotInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(gifHeader(640, 480))
	}))
	defer srv.Close()

	info, size, err := NewClient(srv.URL).SnapshotInfo(context.Background())
	if err != nil {
		t.Fatalf("webcam:webcam_test - SnapshotInfo failed: %v", err)
	}
	if info.ContentType != "image/gif" || info.Width != 640 || info.Height != 480 {
		t.Errorf("webcam:webcam_test - info = %+v", info)
	}
	if size != 10 {
		t.Errorf("webcam:webcam_test - size = %d, want 10", size)
	}
}

func TestClient_SnapshotInfo_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, _, err := NewClient(srv.URL).SnapshotInfo(context.Background()); err == nil {
		t.Fatal("webcam:webcam_test - expected error for 502")
	}
}

func TestGroup_SnapshotInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(gifHeader(320, 240))
	}))
	defer srv.Close()

	g := Group(NewClient(srv.URL))
	h, ok := g.Operation("snapshot_info")
	if !ok {
		t.Fatal("webcam:webcam_test - snapshot_info not in group")
	}

	ret, err := h(context.Background(), nil)
	if err != nil {
		t.Fatalf("webcam:webcam_test - snapshot_info failed: %v", err)
	}
	out, ok := ret.(map[string]interface{})
	if !ok {
		t.Fatalf("webcam:webcam_test - ret = %T", ret)
	}
	if out["content_type"] != "image/gif" || out["width"] != 320 {
		t.Errorf("webcam:webcam_test - out = %v", out)
	}
}
