package option

// Builtin lists the options every [Store] created with [NewDefault] starts
// with.
//
//nolint:gochecknoglobals
var Builtin = []Definition{
	{Name: "wrap", Type: Bool, Scopes: []Scope{Global, Local}, Default: true},
	{Name: "number", Abbr: "nu", Type: Bool, Scopes: []Scope{Global, Local}},
	{Name: "dotfiles", Type: Bool, Scopes: []Scope{Local}},
	{Name: "tabstop", Abbr: "ts", Type: Int, Scopes: []Scope{Global, Local}, Default: 8},
	{Name: "history", Abbr: "hi", Type: Int, Default: 15},
	{Name: "scrolloff", Abbr: "so", Type: Int, Default: 0},
	{Name: "shell", Abbr: "sh", Type: String, Default: "/bin/sh"},
	{Name: "fusehome", Type: String},
	{Name: "timefmt", Type: String, Scopes: []Scope{Global, Local}, Default: "%m/%d %H:%M"},
	{Name: "previewprg", Type: String, Scopes: []Scope{Local}},
	{Name: "cdpath", Abbr: "cd", Type: StringList},
	{
		Name:    "sortorder",
		Type:    Enum,
		Scopes:  []Scope{Global, Local},
		Items:   []string{"ascending", "descending"},
		Default: "ascending",
	},
	{
		Name:    "vifminfo",
		Type:    Set,
		Items:   []string{"options", "filetypes", "commands", "bookmarks", "tui", "dhistory", "state", "cs"},
		Default: "bookmarks",
	},
	{
		Name:    "cpoptions",
		Abbr:    "cpo",
		Type:    CharSet,
		Items:   []string{"f", "s", "t"},
		Default: "fs",
	},
}

// NewDefault returns a Store with every [Builtin] option defined.
func NewDefault(opts ...StoreOption) *Store {
	s := New(opts...)

	for _, d := range Builtin {
		if err := s.Define(d); err != nil {
			panic(err)
		}
	}

	return s
}
