package wm

// Workspace is the set of sheets shown on one output.
type Workspace struct {
	sheets    [SheetCount]*Sheet
	sheet     *Sheet
	alternate *Sheet
	views     seq[ViewID]
	focus     ViewID
	output    *Output
}

func newWorkspace(o *Output) *Workspace {
	ws := &Workspace{output: o}
	for i := range ws.sheets {
		ws.sheets[i] = newSheet(i, ws)
	}
	ws.sheet = ws.sheets[1]
	ws.alternate = ws.sheets[0]
	o.workspace = ws
	return ws
}

// Sheet returns sheet nr, or nil when out of range.
func (ws *Workspace) Sheet(nr int) *Sheet {
	if nr < 0 || nr >= SheetCount {
		return nil
	}
	return ws.sheets[nr]
}

// Sheets returns all ten sheets.
func (ws *Workspace) Sheets() []*Sheet { return ws.sheets[:] }

// CurrentSheet returns the sheet being shown.
func (ws *Workspace) CurrentSheet() *Sheet { return ws.sheet }

// AlternateSheet returns the previously shown sheet.
func (ws *Workspace) AlternateSheet() *Sheet { return ws.alternate }

// Views returns visible views, front first.
func (ws *Workspace) Views() []ViewID { return ws.views.clone() }

// Focus returns the focused view or zero.
func (ws *Workspace) Focus() ViewID { return ws.focus }

// Output returns the workspace's output.
func (ws *Workspace) Output() *Output { return ws.output }
