//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Without cgo the clipboard is driven over the X11 protocol directly: the
// process owns the CLIPBOARD selection and answers image/png requests
// until another client takes it.

var (
	initOnce     sync.Once
	initErr      error
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	owner        *pngOwner
)

var errTargetUnavailable = errors.New("clipboard target unavailable")

func ensureInit() error {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = errNoDisplay
			return
		}
		owner, initErr = newPNGOwner()
	})
	return initErr
}

func writeImageBytes(data []byte) error {
	if err := ensureInit(); err != nil {
		return err
	}
	return owner.publish(data)
}

func readImageBytes() ([]byte, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	data, err := fetchSelection(owner.atoms)
	if errors.Is(err, errTargetUnavailable) || (err == nil && len(data) == 0) {
		return nil, ErrNoImage
	}
	return data, err
}

// atoms are the interned names used by the selection exchange.
type atoms struct {
	clipboard xproto.Atom
	targets   xproto.Atom
	png       xproto.Atom
	transfer  xproto.Atom
}

func internAtoms(conn *xgb.Conn) (atoms, error) {
	var a atoms
	for _, n := range []struct {
		name string
		dst  *xproto.Atom
	}{
		{"CLIPBOARD", &a.clipboard},
		{"TARGETS", &a.targets},
		{"image/png", &a.png},
		{"PHOTOEDIT_TRANSFER", &a.transfer},
	} {
		reply, err := xproto.InternAtom(conn, false, uint16(len(n.name)), n.name).Reply()
		if err != nil {
			return atoms{}, fmt.Errorf("intern %s: %w", n.name, err)
		}
		*n.dst = reply.Atom
	}
	return a, nil
}

// helperWindow creates the unmapped 1x1 window selection traffic is
// addressed to.
func helperWindow(conn *xgb.Conn, mask uint32) (xproto.Window, error) {
	screen := xproto.Setup(conn).DefaultScreen(conn)
	win, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}
	err = xproto.CreateWindowChecked(conn, screen.RootDepth, win, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput, screen.RootVisual, xproto.CwEventMask, []uint32{mask}).Check()
	if err != nil {
		return 0, err
	}
	return win, nil
}

// pngOwner holds the last published image and serves it to other clients.
type pngOwner struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  atoms

	mu  sync.Mutex
	png []byte
}

func newPNGOwner() (*pngOwner, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	win, err := helperWindow(conn, xproto.EventMaskPropertyChange|xproto.EventMaskStructureNotify)
	if err != nil {
		conn.Close()
		return nil, err
	}
	a, err := internAtoms(conn)
	if err != nil {
		xproto.DestroyWindow(conn, win)
		conn.Close()
		return nil, err
	}
	o := &pngOwner{conn: conn, window: win, atoms: a}
	go o.serve()
	return o, nil
}

func (o *pngOwner) publish(data []byte) error {
	o.mu.Lock()
	o.png = append([]byte(nil), data...)
	o.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(o.conn, o.window, o.atoms.clipboard, xproto.TimeCurrentTime).Check()
}

func (o *pngOwner) serve() {
	for {
		ev, err := o.conn.WaitForEvent()
		if err != nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			o.answer(e)
		case xproto.SelectionClearEvent:
			o.mu.Lock()
			o.png = nil
			o.mu.Unlock()
		}
	}
}

// answer stores the requested target on the requestor's property and
// tells it where to look. Unknown targets are refused with property None.
func (o *pngOwner) answer(e xproto.SelectionRequestEvent) {
	prop := e.Property
	if prop == xproto.AtomNone {
		prop = e.Target
	}
	o.mu.Lock()
	data := o.png
	o.mu.Unlock()

	switch {
	case e.Target == o.atoms.targets:
		list := []xproto.Atom{o.atoms.targets}
		if len(data) > 0 {
			list = append(list, o.atoms.png)
		}
		buf := make([]byte, 4*len(list))
		for i, a := range list {
			xgb.Put32(buf[4*i:], uint32(a))
		}
		xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, prop, xproto.AtomAtom, 32, uint32(len(list)), buf)
	case e.Target == o.atoms.png && len(data) > 0:
		xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, prop, o.atoms.png, 8, uint32(len(data)), data)
	default:
		prop = xproto.AtomNone
	}

	ev := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  prop,
	}
	xproto.SendEvent(o.conn, false, e.Requestor, 0, string(ev.Bytes()))
}

// fetchSelection asks the current owner to convert the clipboard to PNG
// on a short-lived connection and reads the result back.
func fetchSelection(a atoms) ([]byte, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	win, err := helperWindow(conn, xproto.EventMaskPropertyChange)
	if err != nil {
		return nil, err
	}
	defer xproto.DestroyWindow(conn, win)

	if err := xproto.ConvertSelectionChecked(conn, win, a.clipboard, a.png, a.transfer, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}
	for {
		ev, err := conn.WaitForEvent()
		if err != nil {
			return nil, err
		}
		n, ok := ev.(xproto.SelectionNotifyEvent)
		if !ok {
			continue
		}
		if n.Property == xproto.AtomNone {
			return nil, errTargetUnavailable
		}
		reply, perr := xproto.GetProperty(conn, true, win, n.Property, xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
		if perr != nil {
			return nil, perr
		}
		return append([]byte(nil), reply.Value...), nil
	}
}
