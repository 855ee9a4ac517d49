package tape

import (
	"strconv"
	"strings"
	"time"
)

// CommandType represents the type of a script command
type CommandType string

const (
	// Setup
	CommandType_Output CommandType = "Output"
	CommandType_Set    CommandType = "Set"

	// Client lifecycle
	CommandType_Map    CommandType = "Map"
	CommandType_Unmap  CommandType = "Unmap"
	CommandType_Title  CommandType = "Title"
	CommandType_Commit CommandType = "Commit"
	CommandType_Ack    CommandType = "Ack"

	// Stacking and focus
	CommandType_Focus    CommandType = "Focus"
	CommandType_Raise    CommandType = "Raise"
	CommandType_Lower    CommandType = "Lower"
	CommandType_Hide     CommandType = "Hide"
	CommandType_Show     CommandType = "Show"
	CommandType_NextView CommandType = "NextView"
	CommandType_PrevView CommandType = "PrevView"

	// Geometry
	CommandType_Move      CommandType = "Move"
	CommandType_MoveTo    CommandType = "MoveTo"
	CommandType_Resize    CommandType = "Resize"
	CommandType_ResizeTo  CommandType = "ResizeTo"
	CommandType_Maximize  CommandType = "Maximize"
	CommandType_VMaximize CommandType = "VMaximize"
	CommandType_HMaximize CommandType = "HMaximize"
	CommandType_Floating  CommandType = "Floating"
	CommandType_Iconify   CommandType = "Iconify"
	CommandType_Reset     CommandType = "Reset"

	// Groups
	CommandType_Group      CommandType = "Group"
	CommandType_Ungroup    CommandType = "Ungroup"
	CommandType_NextGroup  CommandType = "NextGroup"
	CommandType_PrevGroup  CommandType = "PrevGroup"
	CommandType_RaiseGroup CommandType = "RaiseGroup"
	CommandType_LowerGroup CommandType = "LowerGroup"
	CommandType_HideGroup  CommandType = "HideGroup"
	CommandType_ShowGroup  CommandType = "ShowGroup"

	// Sheets
	CommandType_Pin            CommandType = "Pin"
	CommandType_SwitchSheet    CommandType = "SwitchSheet"
	CommandType_AlternateSheet CommandType = "AlternateSheet"
	CommandType_NextSheet      CommandType = "NextSheet"
	CommandType_PrevSheet      CommandType = "PrevSheet"

	// Layouts
	CommandType_Layout      CommandType = "Layout"
	CommandType_Relayout    CommandType = "Relayout"
	CommandType_ResetLayout CommandType = "ResetLayout"
	CommandType_Exchange    CommandType = "Exchange"

	// Marks
	CommandType_Mark         CommandType = "Mark"
	CommandType_ClearMark    CommandType = "ClearMark"
	CommandType_ShowMark     CommandType = "ShowMark"
	CommandType_SwitchToMark CommandType = "SwitchToMark"

	// Modes
	CommandType_Mode     CommandType = "Mode"
	CommandType_ExitMode CommandType = "ExitMode"
	CommandType_Pointer  CommandType = "Pointer"
	CommandType_Input    CommandType = "Input"
	CommandType_Erase    CommandType = "Erase"
	CommandType_Select   CommandType = "Select"
	CommandType_Cycle    CommandType = "Cycle"
	CommandType_Confirm  CommandType = "Confirm"

	// Shell
	CommandType_Key    CommandType = "Key"
	CommandType_Action CommandType = "Action"

	// Presentation and checks
	CommandType_Frame    CommandType = "Frame"
	CommandType_Screen   CommandType = "Screen"
	CommandType_Snapshot CommandType = "Snapshot"
	CommandType_Expect   CommandType = "Expect"
	CommandType_Sleep    CommandType = "Sleep"
)

// argKind is what a command argument may be written as.
type argKind int

const (
	argView     argKind = iota // alias, numeric id or "focused"
	argInt                     // signed integer
	argText                    // quoted string or bare word
	argRune                    // a single character
	argDuration                // 500ms, 2s
	argValue                   // any literal
)

func (k argKind) String() string {
	switch k {
	case argView:
		return "a view"
	case argInt:
		return "an integer"
	case argText:
		return "a name"
	case argRune:
		return "a single character"
	case argDuration:
		return "a duration"
	default:
		return "a value"
	}
}

// commandSpec describes the arguments a command takes. The last optional
// arguments may be left out.
type commandSpec struct {
	args     []argKind
	optional int
	usage    string
}

var (
	noArgs   = commandSpec{}
	viewArg  = commandSpec{args: []argKind{argView}}
	viewXY   = commandSpec{args: []argKind{argView, argInt, argInt}}
	viewText = commandSpec{args: []argKind{argView, argText}}
)

// commandSpecs lists every command and its arguments. Map and Expect are
// parsed by hand.
var commandSpecs = map[CommandType]commandSpec{
	CommandType_Output: {args: []argKind{argText, argInt, argInt, argInt, argInt}, usage: `Output "name" x y w h`},
	CommandType_Set:    {args: []argKind{argText, argValue}, usage: "Set key value"},

	CommandType_Map:    {usage: "Map app [w h] [protocol] [as name]"},
	CommandType_Unmap:  viewArg,
	CommandType_Title:  viewText,
	CommandType_Commit: {args: []argKind{argView, argInt}, optional: 1, usage: "Commit view [surface]"},
	CommandType_Ack:    {args: []argKind{argView}, optional: 1, usage: "Ack [view]"},

	CommandType_Focus:    viewArg,
	CommandType_Raise:    viewArg,
	CommandType_Lower:    viewArg,
	CommandType_Hide:     viewArg,
	CommandType_Show:     viewArg,
	CommandType_NextView: noArgs,
	CommandType_PrevView: noArgs,

	CommandType_Move:      viewXY,
	CommandType_MoveTo:    viewXY,
	CommandType_Resize:    viewXY,
	CommandType_ResizeTo:  viewXY,
	CommandType_Maximize:  viewArg,
	CommandType_VMaximize: viewArg,
	CommandType_HMaximize: viewArg,
	CommandType_Floating:  viewArg,
	CommandType_Iconify:   viewArg,
	CommandType_Reset:     viewArg,

	CommandType_Group:      viewText,
	CommandType_Ungroup:    viewArg,
	CommandType_NextGroup:  noArgs,
	CommandType_PrevGroup:  noArgs,
	CommandType_RaiseGroup: viewArg,
	CommandType_LowerGroup: viewArg,
	CommandType_HideGroup:  viewArg,
	CommandType_ShowGroup:  viewArg,

	CommandType_Pin:            {args: []argKind{argView, argInt, argText}, optional: 1, usage: "Pin view sheet [output]"},
	CommandType_SwitchSheet:    {args: []argKind{argInt}},
	CommandType_AlternateSheet: noArgs,
	CommandType_NextSheet:      noArgs,
	CommandType_PrevSheet:      noArgs,

	CommandType_Layout:      {args: []argKind{argRune}},
	CommandType_Relayout:    noArgs,
	CommandType_ResetLayout: noArgs,
	CommandType_Exchange:    {args: []argKind{argView, argView}},

	CommandType_Mark:         {args: []argKind{argView, argRune}},
	CommandType_ClearMark:    viewArg,
	CommandType_ShowMark:     {args: []argKind{argRune}},
	CommandType_SwitchToMark: {args: []argKind{argRune}},

	CommandType_Mode:     {args: []argKind{argText}},
	CommandType_ExitMode: noArgs,
	CommandType_Pointer:  {args: []argKind{argInt, argInt}},
	CommandType_Input:    {args: []argKind{argText}},
	CommandType_Erase:    noArgs,
	CommandType_Select:   {args: []argKind{argRune}},
	CommandType_Cycle:    {args: []argKind{argText}, optional: 1, usage: "Cycle [forward|backward]"},
	CommandType_Confirm:  noArgs,

	CommandType_Key:    {args: []argKind{argText}},
	CommandType_Action: {args: []argKind{argText}},

	CommandType_Frame:    noArgs,
	CommandType_Screen:   {args: []argKind{argText}, optional: 1, usage: "Screen [output]"},
	CommandType_Snapshot: {args: []argKind{argText}, optional: 1, usage: "Snapshot [json|yaml|table]"},
	CommandType_Expect:   {usage: "Expect what view [args]"},
	CommandType_Sleep:    {args: []argKind{argDuration}},
}

// Expectation names what an Expect command checks.
type Expectation string

const (
	ExpectVisible       Expectation = "visible"
	ExpectHidden        Expectation = "hidden"
	ExpectDirty         Expectation = "dirty"
	ExpectClean         Expectation = "clean"
	ExpectFloating      Expectation = "floating"
	ExpectTiled         Expectation = "tiled"
	ExpectFocused       Expectation = "focused"
	ExpectGeometry      Expectation = "geometry"
	ExpectSheet         Expectation = "sheet"
	ExpectGroup         Expectation = "group"
	ExpectMark          Expectation = "mark"
	ExpectMaximized     Expectation = "maximized"
	ExpectVisibleGroups Expectation = "visible-groups"
	ExpectCurrentSheet  Expectation = "current-sheet"
	ExpectMode          Expectation = "mode"
	ExpectPending       Expectation = "pending"
	ExpectViews         Expectation = "views"
	ExpectScreen        Expectation = "screen"
)

var expectSpecs = map[Expectation]commandSpec{
	ExpectVisible:       viewArg,
	ExpectHidden:        viewArg,
	ExpectDirty:         viewArg,
	ExpectClean:         viewArg,
	ExpectFloating:      viewArg,
	ExpectTiled:         viewArg,
	ExpectFocused:       viewArg,
	ExpectGeometry:      {args: []argKind{argView, argInt, argInt, argInt, argInt}},
	ExpectSheet:         {args: []argKind{argView, argInt}},
	ExpectGroup:         viewText,
	ExpectMark:          {args: []argKind{argView, argRune}},
	ExpectMaximized:     viewText,
	ExpectVisibleGroups: {args: []argKind{argInt}},
	ExpectCurrentSheet:  {args: []argKind{argInt, argText}, optional: 1},
	ExpectMode:          {args: []argKind{argText}},
	ExpectPending:       {args: []argKind{argInt}},
	ExpectViews:         {args: []argKind{argInt}},
	ExpectScreen:        {args: []argKind{argText, argText}, optional: 1},
}

// Command represents a parsed script command
type Command struct {
	Type   CommandType
	Args   []string      // Command arguments
	Delay  time.Duration // Delay after this command
	Line   int           // Source line number
	Column int           // Source column number
	Raw    string        // Original raw command text
}

// NewCommand builds a command from already validated arguments. Used by
// the recorder.
func NewCommand(t CommandType, args ...string) Command {
	c := Command{Type: t, Args: args}
	if t == CommandType_Sleep && len(args) > 0 {
		c.Delay, _ = ParseDuration(args[0])
	}
	c.Raw = c.String()
	return c
}

// String renders the command as a script line
func (c *Command) String() string {
	var sb strings.Builder
	sb.WriteString(string(c.Type))
	if c.Delay > 0 && c.Type != CommandType_Sleep {
		sb.WriteString("@" + c.Delay.String())
	}
	if c.Type == CommandType_Map {
		writeMapArgs(&sb, c.Args)
		return sb.String()
	}
	for _, a := range c.Args {
		sb.WriteByte(' ')
		sb.WriteString(quoteArg(a))
	}
	return sb.String()
}

// writeMapArgs turns the normalized Map arguments back into script syntax.
func writeMapArgs(sb *strings.Builder, args []string) {
	get := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return ""
	}
	sb.WriteString(" " + quoteArg(get(0)))
	if get(1) != "" {
		sb.WriteString(" " + get(1) + " " + get(2))
	}
	if get(3) != "" {
		sb.WriteString(" " + get(3))
	}
	if get(4) != "" {
		sb.WriteString(" as " + quoteArg(get(4)))
	}
}

// quoteArg quotes arguments that would not lex back as a single word.
func quoteArg(a string) string {
	if a == "" {
		return `""`
	}
	if _, err := strconv.Atoi(a); err == nil {
		return a
	}
	if _, err := time.ParseDuration(a); err == nil && isDigit(a[0]) {
		return a
	}
	if isIdentifierStart(a[0]) && LookupKeyword(a) == TOKEN_IDENTIFIER {
		plain := true
		for i := 1; i < len(a); i++ {
			if !isIdentifierChar(a[i]) {
				plain = false
				break
			}
		}
		if plain {
			return a
		}
	}
	return strconv.Quote(a)
}

// IsCommand returns true if the command type is a valid command
func (ct CommandType) IsCommand() bool {
	_, ok := commandSpecs[ct]
	return ok
}

// ParseDuration parses a duration string (e.g., "500ms", "1s")
func ParseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}
