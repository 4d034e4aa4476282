package net

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RoomBoard/internal/store"
)

func newRoomStore(t *testing.T, rooms ...string) *store.Memory {
	t.Helper()
	st := store.NewMemory()
	for _, r := range rooms {
		require.NoError(t, st.CreateRoom(context.Background(), store.Room{ID: r, AdminID: "admin"}))
	}
	return st
}

func joined(h *Hub, room string) *Peer {
	p := h.newPeer("user", nil)
	h.add(p)
	h.Dispatch(context.Background(), p, []byte(`{"type":"join","roomId":"`+room+`"}`))
	return p
}

func recv(t *testing.T, p *Peer) Message {
	t.Helper()
	select {
	case data := <-p.out:
		m, err := Decode(data)
		require.NoError(t, err)
		return m
	case <-time.After(time.Second):
		t.Fatal("no frame queued")
	}
	return Message{}
}

func TestRoomFortyTwoRectangle(t *testing.T) {
	st := newRoomStore(t, "42")
	h := NewHub(st, nil)
	a := joined(h, "42")
	b := joined(h, "42")

	rect := `{"type":"rect","x":10,"y":10,"width":40,"height":30}`
	h.Dispatch(context.Background(), a, []byte(`{"type":"create","roomId":42,"shape":`+rect+`}`))

	for _, p := range []*Peer{a, b} {
		m := recv(t, p)
		assert.Equal(t, TypeCreate, m.Type)
		assert.JSONEq(t, rect, string(m.Shape))
	}

	saved, err := st.Read(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.JSONEq(t, rect, string(saved[0]))
}

func TestBroadcastIsRoomScoped(t *testing.T) {
	st := newRoomStore(t, "1", "2")
	h := NewHub(st, nil)
	a := joined(h, "1")
	other := joined(h, "2")
	idle := h.newPeer("user", nil)
	h.add(idle)

	h.Dispatch(context.Background(), a, []byte(`{"type":"create","roomId":"1","shape":{"type":"circle","centerX":0,"centerY":0,"radius":1}}`))
	recv(t, a)
	assert.Empty(t, other.out)
	assert.Empty(t, idle.out)
	assert.Len(t, h.Members("1"), 1)
}

func TestUpdatePersistsAndRelaysList(t *testing.T) {
	st := newRoomStore(t, "1")
	h := NewHub(st, nil)
	a := joined(h, "1")

	h.Dispatch(context.Background(), a, []byte(`{"type":"update","roomId":"1","shapes":[{"type":"line","x1":0,"y1":0,"x2":1,"y2":1}]}`))
	m := recv(t, a)
	assert.Equal(t, TypeUpdate, m.Type)
	require.Len(t, m.Shapes, 1)

	h.Dispatch(context.Background(), a, []byte(`{"type":"delete","roomId":"1","shapes":[]}`))
	m = recv(t, a)
	assert.Equal(t, TypeDelete, m.Type)
	assert.Empty(t, m.Shapes)

	saved, err := st.Read(context.Background(), "1")
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestMissingRoomDropsMutation(t *testing.T) {
	h := NewHub(newRoomStore(t), nil)
	a := joined(h, "ghost")
	h.Dispatch(context.Background(), a, []byte(`{"type":"create","roomId":"ghost","shape":{"type":"rect","x":0,"y":0,"width":1,"height":1}}`))
	h.Dispatch(context.Background(), a, []byte(`{"type":"update","roomId":"ghost","shapes":[]}`))
	assert.Empty(t, a.out)
}

func TestMalformedFramesAreDropped(t *testing.T) {
	h := NewHub(newRoomStore(t, "1"), nil)
	a := joined(h, "1")
	h.Dispatch(context.Background(), a, []byte(`{{{`))
	h.Dispatch(context.Background(), a, []byte(`{"type":"create","shape":{"type":"rect"}}`))
	h.Dispatch(context.Background(), a, []byte(`{"type":"explode","roomId":"1"}`))
	assert.Empty(t, a.out)
	assert.Len(t, h.Members("1"), 1)
}

func TestLeaveStopsDelivery(t *testing.T) {
	h := NewHub(newRoomStore(t, "1"), nil)
	a := joined(h, "1")
	b := joined(h, "1")
	h.Dispatch(context.Background(), b, []byte(`{"type":"leave","room":"1"}`))
	h.Dispatch(context.Background(), a, []byte(`{"type":"update","roomId":"1","shapes":[]}`))
	recv(t, a)
	assert.Empty(t, b.out)
}

func TestFullOutboxDropsFrames(t *testing.T) {
	h := NewHub(newRoomStore(t, "1"), nil)
	h.SetOutbox(1)
	a := joined(h, "1")
	h.Dispatch(context.Background(), a, []byte(`{"type":"update","roomId":"1","shapes":[]}`))
	h.Dispatch(context.Background(), a, []byte(`{"type":"update","roomId":"1","shapes":[]}`))
	assert.Len(t, a.out, 1)
}

// gatedCanvas holds every Read until two are in flight.
type gatedCanvas struct {
	*store.Memory
	reads sync.WaitGroup
}

func (g *gatedCanvas) Read(ctx context.Context, room string) ([]json.RawMessage, error) {
	shapes, err := g.Memory.Read(ctx, room)
	g.reads.Done()
	g.reads.Wait()
	return shapes, err
}

func TestConcurrentCreatesCanLoseOne(t *testing.T) {
	g := &gatedCanvas{Memory: newRoomStore(t, "1")}
	g.reads.Add(2)
	h := NewHub(g, nil)
	a := joined(h, "1")

	var wg sync.WaitGroup
	for _, shape := range []string{
		`{"type":"rect","x":0,"y":0,"width":1,"height":1}`,
		`{"type":"rect","x":5,"y":5,"width":1,"height":1}`,
	} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Dispatch(context.Background(), a, []byte(`{"type":"create","roomId":"1","shape":`+shape+`}`))
		}()
	}
	wg.Wait()

	saved, err := g.Memory.Read(context.Background(), "1")
	require.NoError(t, err)
	assert.Len(t, saved, 1, "both creates read the empty canvas, the second write wins")
	assert.Len(t, a.out, 2, "both creates are still broadcast")
}

func TestSocketRoundTrip(t *testing.T) {
	st := newRoomStore(t, "r1", "r2")
	h := NewHub(st, nil)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.Serve(r.Context(), conn, r.URL.Query().Get("token"))
	}))
	defer srv.Close()

	ctx := context.Background()
	dial := func(room string) (*Client, chan Message) {
		c, err := Dial(ctx, srv.URL, "tok", nil)
		require.NoError(t, err)
		t.Cleanup(func() { c.Close() })
		ch := make(chan Message, 8)
		go c.Listen(func(m Message) { ch <- m })
		require.NoError(t, c.Join(room))
		return c, ch
	}
	a, aIn := dial("r1")
	_, bIn := dial("r1")
	c, cIn := dial("r2")
	require.Eventually(t, func() bool {
		return len(h.Members("r1")) == 2 && len(h.Members("r2")) == 1
	}, 2*time.Second, 10*time.Millisecond)

	shape := json.RawMessage(`{"type":"line","x1":0,"y1":0,"x2":3,"y2":4}`)
	require.NoError(t, a.Send(Create("r1", shape)))
	for _, in := range []chan Message{aIn, bIn} {
		select {
		case m := <-in:
			assert.Equal(t, TypeCreate, m.Type)
			assert.JSONEq(t, string(shape), string(m.Shape))
		case <-time.After(2 * time.Second):
			t.Fatal("create not delivered")
		}
	}

	own := json.RawMessage(`{"type":"circle","centerX":1,"centerY":1,"radius":1}`)
	require.NoError(t, c.Send(Create("r2", own)))
	select {
	case m := <-cIn:
		assert.JSONEq(t, string(own), string(m.Shape), "r2 member must not see r1 traffic")
	case <-time.After(2 * time.Second):
		t.Fatal("create not delivered")
	}

	require.NoError(t, a.Close())
	require.Eventually(t, func() bool { return h.Len() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestFetchShapes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rooms/7/shapes" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`[{"type":"rect","x":0,"y":0,"width":2,"height":2}]`))
	}))
	defer srv.Close()

	shapes, err := FetchShapes(context.Background(), srv.Client(), srv.URL, "7")
	require.NoError(t, err)
	assert.Len(t, shapes, 1)

	_, err = FetchShapes(context.Background(), srv.Client(), srv.URL, "8")
	assert.True(t, IsNotFound(err))
}
