// Package sim provides a simulated client display for the window manager:
// surfaces that acknowledge configure requests later, synchronously, or
// atomically through move-resize.
package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/Gaurav-Gosain/sheetwm/internal/geometry"
	"github.com/Gaurav-Gosain/sheetwm/internal/wm"
	uv "github.com/charmbracelet/ultraviolet"
)

// Protocol selects how a client answers resize requests.
type Protocol int

const (
	// Async clients hand out a serial and apply the size when flushed.
	Async Protocol = iota
	// Sync clients apply sizes immediately and return serial zero.
	Sync
	// MoveResize clients apply position and size atomically.
	MoveResize
)

var protocolNames = map[string]Protocol{
	"async":       Async,
	"sync":        Sync,
	"move-resize": MoveResize,
}

// ParseProtocol resolves a protocol by name.
func ParseProtocol(name string) (Protocol, error) {
	p, ok := protocolNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown protocol %q", name)
	}
	return p, nil
}

func (p Protocol) String() string {
	for name, v := range protocolNames {
		if v == p {
			return name
		}
	}
	return "unknown"
}

type ack struct {
	client *Client
	serial uint32
	width  int
	height int
}

// Display owns the simulated clients and their pending acknowledgements.
type Display struct {
	server  *wm.Server
	serial  uint32
	pending []ack
	clients map[wm.ViewID]*Client
	glyphs  []rune
}

// NewDisplay creates a display delivering acknowledgements to server.
func NewDisplay(server *wm.Server) *Display {
	return &Display{
		server:  server,
		clients: map[wm.ViewID]*Client{},
		glyphs:  []rune("░▒▓█▚▞▙▟"),
	}
}

// Server returns the window manager the display feeds.
func (d *Display) Server() *wm.Server { return d.server }

// ClientOptions configure a new client.
type ClientOptions struct {
	Protocol  Protocol
	Width     int
	Height    int
	MinWidth  int
	MinHeight int
	MaxWidth  int
	MaxHeight int
	Decorated bool
	Title     string
}

// NewClient creates a surface without mapping it.
func (d *Display) NewClient(appID string, opts ClientOptions) *Client {
	c := &Client{
		display:  d,
		AppID:    appID,
		protocol: opts.Protocol,
		width:    opts.Width,
		height:   opts.Height,
		minW:     opts.MinWidth,
		minH:     opts.MinHeight,
		maxW:     opts.MaxWidth,
		maxH:     opts.MaxHeight,
		csd:      opts.Decorated,
		title:    opts.Title,
	}
	c.glyph = d.glyphs[len(d.clients)%len(d.glyphs)]
	return c
}

// Map creates a client and maps it through the window manager rules.
func (d *Display) Map(appID string, opts ClientOptions) (*Client, error) {
	c := d.NewClient(appID, opts)
	v, err := d.server.Map(appID, c.Surface(), opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}
	c.view = v.ID
	d.clients[v.ID] = c
	if opts.Title != "" {
		if err := d.server.SetTitle(v.ID, opts.Title); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Unmap hides and destroys the client's view.
func (d *Display) Unmap(id wm.ViewID) error {
	c, ok := d.clients[id]
	if !ok {
		return fmt.Errorf("%w: %d", wm.ErrViewNotFound, id)
	}
	if err := d.server.Unmap(id); err != nil {
		return err
	}
	delete(d.clients, id)
	c.view = 0
	return nil
}

// Client returns the client behind a view.
func (d *Display) Client(id wm.ViewID) (*Client, bool) {
	c, ok := d.clients[id]
	return c, ok
}

// Pending returns the number of acknowledgements not yet delivered.
func (d *Display) Pending() int { return len(d.pending) }

func (d *Display) nextSerial() uint32 {
	d.serial++
	if d.serial == 0 {
		d.serial++
	}
	return d.serial
}

// Flush delivers every pending acknowledgement in request order. Stale
// serials are reported but do not stop delivery.
func (d *Display) Flush() error {
	return d.flush(func(ack) bool { return true })
}

// FlushView delivers the acknowledgements of one view.
func (d *Display) FlushView(id wm.ViewID) error {
	return d.flush(func(a ack) bool { return a.client.view == id })
}

func (d *Display) flush(match func(ack) bool) error {
	var errs []error
	var keep []ack
	queue := d.pending
	d.pending = nil
	for _, a := range queue {
		if !match(a) {
			keep = append(keep, a)
			continue
		}
		if a.client.view == 0 {
			continue
		}
		a.client.width, a.client.height = a.width, a.height
		if err := d.server.Acknowledge(a.client.view, a.serial); err != nil {
			errs = append(errs, err)
		}
	}
	d.pending = append(keep, d.pending...)
	return errors.Join(errs...)
}

// FrameDone notifies every client that a frame was presented.
func (d *Display) FrameDone(now time.Time) {
	for _, c := range d.clients {
		c.FrameDone(now)
	}
}

// Client is one simulated application window.
type Client struct {
	AppID string

	display  *Display
	view     wm.ViewID
	protocol Protocol

	x, y          int
	width, height int
	minW, minH    int
	maxW, maxH    int
	csd           bool
	title         string
	glyph         rune

	visible bool
	active  bool
	frames  int
	last    time.Time

	damage   geometry.Region
	children []child
}

type child struct {
	x, y, w, h int
	damage     geometry.Region
}

// View returns the managed view id, zero before mapping.
func (c *Client) View() wm.ViewID { return c.view }

// Surface returns the value handed to the window manager. Move-resize
// clients expose the optional MoveResizer and Mover interfaces.
func (c *Client) Surface() wm.Surface {
	if c.protocol == MoveResize {
		return (*xclient)(c)
	}
	return c
}

// Size returns the buffer size the client has applied.
func (c *Client) Size() (int, int) { return c.width, c.height }

// Position returns the last position a move-resize client was told.
func (c *Client) Position() (int, int) { return c.x, c.y }

// Visible reports whether the client was last shown.
func (c *Client) Visible() bool { return c.visible }

// Active reports whether the client was last activated.
func (c *Client) Active() bool { return c.active }

// Frames returns how many frame-done callbacks the client received.
func (c *Client) Frames() int { return c.frames }

// Title returns the client title.
func (c *Client) Title() string { return c.title }

// Glyph returns the fill rune used when drawing the client.
func (c *Client) Glyph() rune { return c.glyph }

// Label returns the text drawn inside the client.
func (c *Client) Label() string {
	if c.title != "" {
		return c.title
	}
	return c.AppID
}

// Resize implements wm.Surface.
func (c *Client) Resize(width, height int) uint32 {
	if c.protocol != Async {
		c.width, c.height = width, height
		return 0
	}
	serial := c.display.nextSerial()
	c.display.pending = append(c.display.pending, ack{client: c, serial: serial, width: width, height: height})
	return serial
}

// Constraints implements wm.Surface.
func (c *Client) Constraints() (int, int, int, int) {
	return c.minW, c.minH, c.maxW, c.maxH
}

// Show implements wm.Surface.
func (c *Client) Show() { c.visible = true }

// Hide implements wm.Surface.
func (c *Client) Hide() { c.visible = false }

// Activate implements wm.Surface.
func (c *Client) Activate(active bool) { c.active = active }

// ClientDecorated implements wm.Surface.
func (c *Client) ClientDecorated() bool { return c.csd }

// ForEachSurface implements wm.Surface.
func (c *Client) ForEachSurface(fn func(wm.SurfaceNode)) {
	fn(wm.SurfaceNode{Width: c.width, Height: c.height, Main: true, Damage: c.damage, Content: c})
	for _, ch := range c.children {
		fn(wm.SurfaceNode{X: ch.x, Y: ch.y, Width: ch.w, Height: ch.h, Damage: ch.damage, Content: c})
	}
}

// FrameDone implements wm.FrameNotifier.
func (c *Client) FrameDone(now time.Time) {
	c.frames++
	c.last = now
}

// AddSubsurface attaches a child surface at (x, y) relative to the content
// origin and returns its surface index.
func (c *Client) AddSubsurface(x, y, w, h int) int {
	c.children = append(c.children, child{x: x, y: y, w: w, h: h})
	return len(c.children)
}

// Commit reports new content on surface index (zero is the main surface)
// with optional damage in surface-local coordinates.
func (c *Client) Commit(index int, damage ...uv.Rectangle) error {
	region := geometry.NewRegion(damage...)
	switch {
	case index == 0:
		c.damage = region
	case index > 0 && index <= len(c.children):
		c.children[index-1].damage = region
	default:
		return fmt.Errorf("surface %d out of range", index)
	}
	err := c.display.server.DamageSurface(c.view, index, false)
	c.clearDamage()
	return err
}

func (c *Client) clearDamage() {
	c.damage = geometry.Region{}
	for i := range c.children {
		c.children[i].damage = geometry.Region{}
	}
}

// SetTitle changes the title and tells the window manager.
func (c *Client) SetTitle(title string) error {
	c.title = title
	return c.display.server.SetTitle(c.view, title)
}

// xclient is a Client speaking the move-resize protocol.
type xclient Client

func (x *xclient) client() *Client { return (*Client)(x) }

func (x *xclient) Resize(w, h int) uint32                 { return x.client().Resize(w, h) }
func (x *xclient) Constraints() (int, int, int, int)      { return x.client().Constraints() }
func (x *xclient) Show()                                  { x.client().Show() }
func (x *xclient) Hide()                                  { x.client().Hide() }
func (x *xclient) Activate(active bool)                   { x.client().Activate(active) }
func (x *xclient) ClientDecorated() bool                  { return x.client().ClientDecorated() }
func (x *xclient) ForEachSurface(fn func(wm.SurfaceNode)) { x.client().ForEachSurface(fn) }
func (x *xclient) FrameDone(now time.Time)                { x.client().FrameDone(now) }

// MoveResize implements wm.MoveResizer.
func (x *xclient) MoveResize(px, py, w, h int) {
	x.x, x.y = px, py
	x.width, x.height = w, h
}

// Move implements wm.Mover.
func (x *xclient) Move(px, py int) {
	x.x, x.y = px, py
}
