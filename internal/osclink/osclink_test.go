package osclink

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/hypebeast/go-osc/osc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceFX/pkg/registry"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline"
)

type recordingSender struct {
	msgs []*osc.Message
	err  error
}

func (r *recordingSender) Send(p osc.Packet) error {
	if m, ok := p.(*osc.Message); ok {
		r.msgs = append(r.msgs, m)
	}
	return r.err
}

func (r *recordingSender) addresses() []string {
	out := make([]string, 0, len(r.msgs))
	for _, m := range r.msgs {
		out = append(out, m.Address)
	}
	return out
}

func newLink() (*Link, *recordingSender) {
	rec := &recordingSender{}
	return &Link{client: rec, addr: "test"}, rec
}

func newEditor(obs timeline.Observer) *timeline.Editor {
	ed := timeline.New(registry.Builtin(), obs)
	tr := ed.AddTrack("fx", timeline.TrackEffects)
	r := ed.AddRegion(tr.ID, 10, 60)
	ed.AddEffect(r.ID, "blur")
	ed.AddAutomationLane(r.ID, 0, "radius")
	return ed
}

func TestDialValidatesAddress(t *testing.T) {
	l, err := Dial(":9000")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", l.Addr())

	_, err = Dial("nope")
	assert.Error(t, err)
	_, err = Dial("host:0")
	assert.Error(t, err)
}

func TestObserverMessages(t *testing.T) {
	l, rec := newLink()
	ed := newEditor(l)

	ed.SetPlayhead(12)
	ed.SelectRegion(0)
	ed.DeselectRegion()
	ed.Notice("hello")

	assert.Equal(t, []string{AddrPlayhead, AddrRegionSelected, AddrRegionSelected, AddrNotice}, rec.addresses())
	assert.Equal(t, []interface{}{int32(12)}, rec.msgs[0].Arguments)
	assert.Equal(t, []interface{}{int32(0)}, rec.msgs[1].Arguments)
	assert.Equal(t, []interface{}{int32(-1)}, rec.msgs[2].Arguments)
	assert.Equal(t, []interface{}{"hello"}, rec.msgs[3].Arguments)
}

func TestSendFrame(t *testing.T) {
	l, rec := newLink()
	ed := newEditor(nil)

	require.NoError(t, l.SendFrame(ed, 30))
	require.Len(t, rec.msgs, 2)

	frame := rec.msgs[0]
	assert.Equal(t, AddrFrame, frame.Address)
	require.Len(t, frame.Arguments, 3)
	assert.Equal(t, int32(30), frame.Arguments[0])
	assert.Equal(t, int32(1), frame.Arguments[1])

	var fd timeline.FrameDescription
	require.NoError(t, json.Unmarshal([]byte(frame.Arguments[2].(string)), &fd))
	assert.Equal(t, 30, fd.Frame)

	param := rec.msgs[1]
	assert.Equal(t, AddrParam, param.Address)
	assert.Equal(t, []interface{}{int32(0), "blur", "radius", float32(4)}, param.Arguments)
}

func TestSendFrameOutsideRegions(t *testing.T) {
	l, rec := newLink()
	ed := newEditor(nil)

	require.NoError(t, l.SendFrame(ed, 200))
	require.Len(t, rec.msgs, 1)
	assert.Equal(t, int32(0), rec.msgs[0].Arguments[1])
}

func TestSendErrorsSurface(t *testing.T) {
	l, rec := newLink()
	rec.err = errors.New("unreachable")
	assert.Error(t, l.SendFrame(newEditor(nil), 30))
}

func TestResolvedParamsSkipsBypassedAndMuted(t *testing.T) {
	ed := newEditor(nil)
	ed.AddEffect(0, "invert")

	params := ResolvedParams(ed, 30)
	var names []string
	for _, p := range params {
		names = append(names, p.Effect+"."+p.Param)
	}
	assert.Equal(t, []string{"blur.radius", "invert.enabled", "invert.mix"}, names)

	ed.SetEffectBypassed(0, 0, true)
	assert.Len(t, ResolvedParams(ed, 30), 2)

	ed.ToggleMute(0)
	assert.Empty(t, ResolvedParams(ed, 30))
}

func TestControlDispatch(t *testing.T) {
	var got []int
	c := NewControl(func(frame int) { got = append(got, frame) })

	msg := osc.NewMessage(AddrPlayheadSet)
	msg.Append(int32(42))
	c.Dispatch(msg)

	c.Dispatch(osc.NewMessage(AddrPlayheadSet))
	bad := osc.NewMessage(AddrPlayheadSet)
	bad.Append("x")
	c.Dispatch(bad)
	c.Dispatch(osc.NewMessage(AddrPing))

	assert.Equal(t, []int{42}, got)
}

func TestControlServeConn(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	frames := make(chan int, 1)
	c := NewControl(func(frame int) { frames <- frame })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.ServeConn(ctx, conn) }()

	port := conn.LocalAddr().(*net.UDPAddr).Port
	client := osc.NewClient("127.0.0.1", port)
	msg := osc.NewMessage(AddrPlayheadSet)
	msg.Append(int32(7))
	require.NoError(t, client.Send(msg))

	select {
	case f := <-frames:
		assert.Equal(t, 7, f)
	case <-time.After(2 * time.Second):
		t.Fatal("no playhead request received")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

type failingConn struct {
	net.PacketConn
	closed chan struct{}
}

func (f *failingConn) ReadFrom([]byte) (int, net.Addr, error) {
	return 0, nil, errors.New("socket gone")
}

func (f *failingConn) Close() error {
	close(f.closed)
	return f.PacketConn.Close()
}

func TestControlServeConnClosesOnError(t *testing.T) {
	inner, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	conn := &failingConn{PacketConn: inner, closed: make(chan struct{})}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := NewControl(func(int) {})
	assert.EqualError(t, c.ServeConn(ctx, conn), "socket gone")

	select {
	case <-conn.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("connection left open")
	}
}
