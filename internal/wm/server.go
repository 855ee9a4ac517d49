// Package wm implements the window-management core of sheetwm: the view
// arena, sheets, groups, workspaces and outputs, the regroup state machine,
// deferred geometry operations and damage bookkeeping.
//
// All mutation happens on the caller's goroutine. The Server is not safe for
// concurrent use; shells serialize access the way an event loop would.
package wm

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/sheetwm/internal/geometry"
	"github.com/google/uuid"
)

// Settings are the compositor-wide tunables.
type Settings struct {
	Border          int
	Gap             int
	Step            int
	IndicatorWidth  int
	IndicatorHeight int
}

// DefaultSettings returns settings sized for a terminal cell grid.
func DefaultSettings() Settings {
	return Settings{
		Border:          1,
		Gap:             1,
		Step:            4,
		IndicatorWidth:  24,
		IndicatorHeight: 4,
	}
}

// Server owns all window-management state: the view arena, outputs,
// user groups, the visible-groups cache, marks and the completion queue.
type Server struct {
	settings Settings
	logger   *log.Logger
	cursor   Cursor
	listener DamageListener
	rules    map[string]Rule
	layouts  map[rune]*LayoutSpec

	views         []*View
	outputs       []*Output
	workspace     *Workspace
	groups        map[string]*Group
	visibleGroups seq[*Group]
	marks         [MarkCount]ViewID
	completions   map[Completion]struct{}
	mode          ModeState
}

// Option configures a Server.
type Option func(*Server)

// WithSettings overrides the default settings.
func WithSettings(st Settings) Option {
	return func(s *Server) { s.settings = st }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithCursor sets the pointer primitive.
func WithCursor(c Cursor) Option {
	return func(s *Server) { s.cursor = c }
}

// WithDamageListener forwards output damage to l.
func WithDamageListener(l DamageListener) Option {
	return func(s *Server) { s.listener = l }
}

// WithRules installs per-application placement rules.
func WithRules(rules map[string]Rule) Option {
	return func(s *Server) { s.rules = rules }
}

// WithLayouts installs layout registers.
func WithLayouts(layouts map[rune]*LayoutSpec) Option {
	return func(s *Server) { s.layouts = layouts }
}

// NewServer creates an empty server. Add at least one output before mapping views.
func NewServer(opts ...Option) *Server {
	s := &Server{
		settings:    DefaultSettings(),
		cursor:      &PointerCursor{},
		rules:       map[string]Rule{},
		layouts:     map[rune]*LayoutSpec{},
		groups:      map[string]*Group{},
		completions: map[Completion]struct{}{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

// Settings returns the active settings.
func (s *Server) Settings() Settings { return s.settings }

// SetSettings replaces the settings. Borders are refreshed on every view.
func (s *Server) SetSettings(st Settings) {
	s.settings = st
	for _, v := range s.views {
		if v == nil || !v.Managed() {
			continue
		}
		s.damageWhole(v)
		v.border.Refresh(v.CurrentGeometry(), st.Border)
		s.damageWhole(v)
	}
}

// SetRules replaces the placement rules.
func (s *Server) SetRules(rules map[string]Rule) { s.rules = rules }

// SetLayouts replaces the layout registers.
func (s *Server) SetLayouts(layouts map[rune]*LayoutSpec) { s.layouts = layouts }

// Logger returns the server logger.
func (s *Server) Logger() *log.Logger { return s.logger }

// Cursor returns the pointer primitive.
func (s *Server) Cursor() Cursor { return s.cursor }

// AddOutput creates an output with its workspace. The first output becomes
// the current workspace.
func (s *Server) AddOutput(name string, box geometry.Box) *Output {
	o := &Output{Name: name, Geometry: box, listener: s.listener}
	newWorkspace(o)
	s.outputs = append(s.outputs, o)
	if s.workspace == nil {
		s.workspace = o.workspace
		x, y := box.Center()
		s.cursor.Warp(x, y)
	}
	s.logger.Info("output added", "name", name, "geometry", box)
	o.DamageWhole()
	return o
}

// Outputs returns all outputs in creation order.
func (s *Server) Outputs() []*Output { return append([]*Output(nil), s.outputs...) }

// OutputByName finds an output.
func (s *Server) OutputByName(name string) (*Output, bool) {
	for _, o := range s.outputs {
		if o.Name == name {
			return o, true
		}
	}
	return nil, false
}

// Workspace returns the current workspace, or nil without outputs.
func (s *Server) Workspace() *Workspace { return s.workspace }

// SetWorkspace makes ws current.
func (s *Server) SetWorkspace(ws *Workspace) {
	invariant(ws != nil, "nil workspace")
	s.workspace = ws
}

// View looks up a live view.
func (s *Server) View(id ViewID) (*View, error) {
	if id == 0 || int(id) > len(s.views) || s.views[id-1] == nil {
		return nil, fmt.Errorf("%w: %d", ErrViewNotFound, id)
	}
	return s.views[id-1], nil
}

func (s *Server) mustView(id ViewID) *View {
	v, err := s.View(id)
	invariant(err == nil, "dangling view id %d", id)
	return v
}

// managedView looks up a view that has been attached with Manage.
func (s *Server) managedView(id ViewID) (*View, error) {
	v, err := s.View(id)
	if err != nil {
		return nil, err
	}
	if !v.Managed() {
		return nil, fmt.Errorf("%w: %d", ErrNotManaged, id)
	}
	return v, nil
}

// Views returns every live view in creation order.
func (s *Server) Views() []*View {
	out := make([]*View, 0, len(s.views))
	for _, v := range s.views {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

// Groups returns the user groups sorted by name.
func (s *Server) Groups() []*Group {
	out := make([]*Group, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, g)
	}
	slices.SortFunc(out, func(a, b *Group) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// FindGroup returns the user group with the given name.
func (s *Server) FindGroup(name string) (*Group, bool) {
	g, ok := s.groups[name]
	return g, ok
}

// VisibleGroups returns the groups with at least one visible view, front first.
func (s *Server) VisibleGroups() []*Group { return s.visibleGroups.clone() }

func validGroupName(name string) bool {
	if name == "" {
		return false
	}
	if _, err := strconv.Atoi(name); err == nil {
		return false
	}
	return true
}

func (s *Server) findOrCreateGroup(name string) (*Group, error) {
	if !validGroupName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGroup, name)
	}
	if g, ok := s.groups[name]; ok {
		return g, nil
	}
	g := &Group{Name: name}
	s.groups[name] = g
	s.logger.Debug("group created", "group", name)
	return g, nil
}

func (s *Server) destroyGroup(g *Group) {
	invariant(!g.IsSheetGroup(), "destroying sheet group %s", g.Name)
	invariant(len(g.views) == 0, "destroying non-empty group %s", g.Name)
	invariant(!s.visibleGroups.contains(g), "destroying visible group %s", g.Name)
	delete(s.groups, g.Name)
	s.logger.Debug("group destroyed", "group", g.Name)
}

// NewView allocates an unmanaged, hidden view in the arena.
func (s *Server) NewView(appID string, surface Surface, box geometry.Box) *View {
	invariant(surface != nil, "view without surface")
	v := &View{
		ID:       ViewID(len(s.views) + 1),
		Handle:   uuid.New(),
		AppID:    appID,
		surface:  surface,
		geometry: box,
		flags:    FlagHidden,
	}
	if surface.ClientDecorated() {
		v.border.State = geometry.BorderNone
	} else {
		v.border.State = geometry.BorderInactive
	}
	v.border.Refresh(box, s.settings.Border)
	s.views = append(s.views, v)
	return v
}

// Manage attaches a new view to a sheet and group. The view stays hidden.
func (s *Server) Manage(id ViewID, sheet *Sheet, group *Group) error {
	v, err := s.View(id)
	if err != nil {
		return err
	}
	if v.Managed() {
		return fmt.Errorf("%w: %d", ErrAlreadyManaged, id)
	}
	if sheet == nil {
		return ErrInvalidSheet
	}
	if group == nil {
		return ErrInvalidGroup
	}

	v.sheet = sheet
	v.output = sheet.workspace.output
	v.group = group

	sheet.views.pushFront(v.ID)
	group.views.pushFront(v.ID)
	v.output.views.pushFront(v.ID)

	s.logger.Debug("view managed", "view", v.ID, "app", v.AppID, "sheet", sheet.Nr, "group", group.Name)
	return nil
}

// Destroy finalizes a hidden view and releases its resources.
func (s *Server) Destroy(id ViewID) error {
	v, err := s.View(id)
	if err != nil {
		return err
	}
	if !v.IsHidden() {
		return fmt.Errorf("%w: %d", ErrViewNotHidden, id)
	}
	s.fini(v)
	s.views[id-1] = nil
	return nil
}

func (s *Server) fini(v *View) {
	invariant(v.IsHidden(), "finalizing visible view %d", v.ID)

	if v.Managed() {
		if v.group.IsSheetGroup() {
			v.group.views.remove(v.ID)
		} else {
			s.detachFromGroup(v)
		}
		v.sheet.views.remove(v.ID)
		v.output.views.remove(v.ID)
	}

	if v.mark != 0 {
		s.marks[markIndex(v.mark)] = 0
		v.mark = 0
	}

	if v.IsDirty() {
		delete(s.completions, Completion{View: v.ID, Serial: v.pending.Serial})
		if v.pending.Tile != nil && v.pending.Tile != v.tile {
			s.releaseTile(v.pending.Tile)
		}
		v.pending = Operation{}
		v.unset(FlagDirty)
	}

	if s.mode.Target == v.ID {
		s.mode = ModeState{}
	}

	v.maximized = nil
	s.freeTile(v)
	v.title = ""
	v.sheet, v.group, v.output = nil, nil, nil

	s.logger.Debug("view destroyed", "view", v.ID, "app", v.AppID)
}

// Map runs the full mapping flow for a new client: rules are resolved, the
// view is managed, positioned, shown unless invisible, and focused.
func (s *Server) Map(appID string, surface Surface, width, height int) (*View, error) {
	if s.workspace == nil {
		return nil, ErrNoOutput
	}

	rule, hasRule := s.rules[appID]
	if !hasRule {
		rule = DefaultRule()
	}

	sheet := s.resolveSheet(rule)
	group, err := s.resolveGroup(rule, appID, sheet)
	if err != nil {
		return nil, err
	}

	v := s.NewView(appID, surface, geometry.Box{Width: width, Height: height})
	if err := s.Manage(v.ID, sheet, group); err != nil {
		return nil, err
	}

	x, y := s.resolvePosition(rule, v)
	v.geometry.X, v.geometry.Y = x, y
	v.border.Refresh(v.geometry, s.settings.Border)

	if rule.Floating {
		v.set(FlagFloating)
	}
	if rule.Public {
		v.set(FlagPublic)
	}
	if rule.Mark != 0 {
		if err := s.SetMark(v.ID, rule.Mark); err != nil {
			s.logger.Warn("rule mark ignored", "app", appID, "mark", string(rule.Mark), "err", err)
		}
	}

	if !rule.Invisible && !sheet.Background() {
		s.show(v)
		if rule.Focus {
			s.focus(v)
		}
	}

	s.logger.Info("view mapped", "view", v.ID, "app", appID, "sheet", sheet.Nr, "group", group.Name, "geometry", v.geometry)
	return v, nil
}

// Unmap hides a view if needed and destroys it.
func (s *Server) Unmap(id ViewID) error {
	v, err := s.View(id)
	if err != nil {
		return err
	}
	if v.Managed() && !v.IsHidden() {
		s.hide(v)
		s.damageWhole(v)
	}
	return s.Destroy(id)
}

// SetTitle updates a view's title and damages the indicator when focused.
func (s *Server) SetTitle(id ViewID, title string) error {
	v, err := s.View(id)
	if err != nil {
		return err
	}
	v.title = title
	if s.isFocused(v) {
		s.damageIndicator(v)
	}
	return nil
}
