package osclink

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"

	"github.com/hypebeast/go-osc/osc"
	jsoniter "github.com/json-iterator/go"

	"github.com/OpenTraceLab/OpenTraceFX/internal/config"
	"github.com/OpenTraceLab/OpenTraceFX/internal/logging"
	"github.com/OpenTraceLab/OpenTraceFX/internal/metrics"
	"github.com/OpenTraceLab/OpenTraceFX/pkg/timeline"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	AddrPlayhead       = "/otfx/playhead"
	AddrRegionSelected = "/otfx/region/selected"
	AddrNotice         = "/otfx/notice"
	AddrFrame          = "/otfx/frame"
	AddrParam          = "/otfx/param"
	AddrPlayheadSet    = "/otfx/playhead/set"
	AddrPing           = "/otfx/ping"
)

// sender is the part of *osc.Client a Link uses.
type sender interface {
	Send(packet osc.Packet) error
}

// Link sends editor notifications to one OSC endpoint.
type Link struct {
	client sender
	addr   string
}

// Dial returns a Link sending to addr ("host:port", host defaults to
// localhost). UDP is connectionless, so nothing is sent until the first
// notification.
func Dial(addr string) (*Link, error) {
	host, port, err := config.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("osc address %q: %w", addr, err)
	}
	logging.Info("OSC link to %s:%d", host, port)
	return &Link{client: osc.NewClient(host, port), addr: fmt.Sprintf("%s:%d", host, port)}, nil
}

// Addr returns the resolved destination.
func (l *Link) Addr() string { return l.addr }

func (l *Link) send(msg *osc.Message) error {
	err := l.client.Send(msg)
	metrics.OSCMessagesTotal.WithLabelValues(msg.Address, metrics.Status(err)).Inc()
	if err != nil {
		logging.Warn("OSC send %s failed: %v", msg.Address, err)
	}
	return err
}

// PlayheadChanged implements timeline.Observer.
func (l *Link) PlayheadChanged(frame int) {
	msg := osc.NewMessage(AddrPlayhead)
	msg.Append(int32(frame))
	_ = l.send(msg)
}

// RegionSelected implements timeline.Observer.
func (l *Link) RegionSelected(regionID int) {
	msg := osc.NewMessage(AddrRegionSelected)
	msg.Append(int32(regionID))
	_ = l.send(msg)
}

// RegionDeselected implements timeline.Observer.
func (l *Link) RegionDeselected() {
	msg := osc.NewMessage(AddrRegionSelected)
	msg.Append(int32(timeline.None))
	_ = l.send(msg)
}

// Notice implements timeline.Observer.
func (l *Link) Notice(message string) {
	msg := osc.NewMessage(AddrNotice)
	msg.Append(message)
	_ = l.send(msg)
}

// SendFrame sends the description of frame followed by one /otfx/param
// message per numeric resolved parameter of every region on that frame.
func (l *Link) SendFrame(ed *timeline.Editor, frame int) error {
	fd := ed.DescribeFrame(frame)
	data, err := json.Marshal(fd)
	if err != nil {
		return fmt.Errorf("encode frame %d: %w", fd.Frame, err)
	}
	msg := osc.NewMessage(AddrFrame)
	msg.Append(int32(fd.Frame))
	msg.Append(int32(len(fd.Regions)))
	msg.Append(string(data))
	if err := l.send(msg); err != nil {
		return err
	}

	var errs []error
	for _, p := range ResolvedParams(ed, fd.Frame) {
		msg := osc.NewMessage(AddrParam)
		msg.Append(int32(p.RegionID))
		msg.Append(p.Effect)
		msg.Append(p.Param)
		msg.Append(float32(p.Value))
		if err := l.send(msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Param is one numeric effect parameter value on a frame.
type Param struct {
	RegionID int
	Effect   string
	Param    string
	Value    float64
}

// ResolvedParams lists the numeric parameters of every non-bypassed effect
// of the active regions covering frame, with automation applied. Output is
// ordered by region, effect, then parameter name.
func ResolvedParams(ed *timeline.Editor, frame int) []Param {
	frame = ed.ClampFrame(frame)
	var out []Param
	for _, r := range ed.ActiveRegions() {
		if !r.Contains(frame) {
			continue
		}
		for i, fx := range r.Effects {
			if fx.Bypassed {
				continue
			}
			params := ed.ResolvedParams(r.ID, i, frame)
			names := make([]string, 0, len(params))
			for name := range params {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				v, ok := number(params[name])
				if !ok {
					continue
				}
				out = append(out, Param{RegionID: r.ID, Effect: fx.Name, Param: name, Value: v})
			}
		}
	}
	return out
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Control receives requests from the renderer.
type Control struct {
	// OnPlayhead runs for every /otfx/playhead/set message. It is called
	// from the receive goroutine.
	OnPlayhead func(frame int)

	dispatcher *osc.StandardDispatcher
}

// NewControl builds the dispatcher for the control addresses.
func NewControl(onPlayhead func(frame int)) *Control {
	c := &Control{OnPlayhead: onPlayhead, dispatcher: osc.NewStandardDispatcher()}
	_ = c.dispatcher.AddMsgHandler(AddrPlayheadSet, c.handlePlayhead)
	_ = c.dispatcher.AddMsgHandler(AddrPing, func(msg *osc.Message) {
		logging.Debug("OSC ping")
	})
	return c
}

func (c *Control) handlePlayhead(msg *osc.Message) {
	if len(msg.Arguments) == 0 {
		logging.Warn("OSC %s without a frame", msg.Address)
		return
	}
	frame, ok := frameArg(msg.Arguments[0])
	if !ok {
		logging.Warn("OSC %s: unexpected argument %T", msg.Address, msg.Arguments[0])
		return
	}
	if c.OnPlayhead != nil {
		c.OnPlayhead(frame)
	}
}

func frameArg(v any) (int, bool) {
	switch n := v.(type) {
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float32:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// Dispatch handles one decoded packet. Serve calls it for every packet;
// exposed for hosts that run their own receive loop.
func (c *Control) Dispatch(p osc.Packet) {
	c.dispatcher.Dispatch(p)
}

// Serve listens on addr until ctx is cancelled.
func (c *Control) Serve(ctx context.Context, addr string) error {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return fmt.Errorf("osc listen %s: %w", addr, err)
	}
	return c.ServeConn(ctx, conn)
}

// ServeConn receives on conn until ctx is cancelled. conn is closed on
// return.
func (c *Control) ServeConn(ctx context.Context, conn net.PacketConn) error {
	server := &osc.Server{Dispatcher: c.dispatcher}
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		_ = conn.Close()
	}()

	logging.Info("OSC control listening on %s", conn.LocalAddr())
	err := server.Serve(conn)
	if ctx.Err() != nil {
		return nil
	}
	return err
}
