package catalog

import "testing"

func TestGetSnapshotAssemblesChunks(t *testing.T) {
	client, conn := pairedConnections(t)
	camera := newCameraPeer(conn)

	chunk1 := []byte{1, 2, 3, 4}
	chunk2 := []byte{5, 6}
	total := len(chunk1) + len(chunk2)

	done := make(chan struct{})
	go func() {
		defer close(done)
		req := camera.readRequest(t)
		meta := marshalXML(t, snapReply{FileName: "snap.jpg", PictureSize: total})
		camera.reply(t, MsgIDSnap, req.Header.MsgNum, 200, meta)
		camera.reply(t, MsgIDSnap, req.Header.MsgNum, 200, chunk1)
		camera.reply(t, MsgIDSnap, req.Header.MsgNum, 200, chunk2)
	}()

	data, err := GetSnapshot(client, 0)
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	<-done

	if len(data) != total {
		t.Fatalf("expected %d bytes, got %d", total, len(data))
	}
	want := append(append([]byte{}, chunk1...), chunk2...)
	for i := range want {
		if data[i] != want[i] {
			t.Fatalf("byte %d mismatch: want %d got %d", i, want[i], data[i])
		}
	}
}
