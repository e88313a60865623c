// Package config loads the user-facing YAML configuration the core's
// external collaborators need: workspace definitions, gap sizing, window
// rules, focus preferences, and binding-mode names. Parsing and hot-reload
// are a thin shell around the container-tree core; the core only ever
// sees the resolved *Config.
package config

import "github.com/foliagewm/foliage/internal/geometry"

// Config is the fully-resolved configuration, defaults merged with
// whatever the user's YAML file overrides.
type Config struct {
	Workspaces []WorkspaceConfig `yaml:"workspaces"`
	Gaps       GapsConfig        `yaml:"gaps"`
	WindowRules []WindowRule     `yaml:"windowRules"`
	Focus      FocusConfig       `yaml:"focus"`
	Bindings   []BindingMode     `yaml:"bindingModes"`
}

// WorkspaceConfig names a workspace the daemon activates on demand: the
// populate step creates every listed workspace on every monitor, the first
// one displayed, and falls back to a single workspace named "1" when the
// list is empty.
type WorkspaceConfig struct {
	Name          string `yaml:"name"`
	DisplayName   string `yaml:"displayName"`
	KeepAlive     bool   `yaml:"keepAlive"`
	BindToMonitor int    `yaml:"bindToMonitor,omitempty"`
}

// GapsConfig holds the inner (between tiles) and outer (workspace edge)
// gap sizes, each expressed as a LengthUnit string ("20px", "2%", "8dpi").
type GapsConfig struct {
	Inner        string `yaml:"inner"`
	Outer        string `yaml:"outer"`
	ScaleWithDPI bool   `yaml:"scaleWithDpi"`
}

// WindowRuleEvent is the OS occurrence a window rule matches against.
type WindowRuleEvent string

const (
	RuleEventManage     WindowRuleEvent = "manage"
	RuleEventFocus      WindowRuleEvent = "focus"
	RuleEventTitleChange WindowRuleEvent = "titleChange"
)

// WindowRuleMatch is the regex match criteria for a window rule; an empty
// pattern matches anything.
type WindowRuleMatch struct {
	Title   string `yaml:"title,omitempty"`
	Class   string `yaml:"class,omitempty"`
	Process string `yaml:"process,omitempty"`
}

// WindowRule maps a window match to a list of commands to run when the
// named event fires for it. Only the state-setting commands
// ("set-floating", "set-fullscreen", "set-tiling", "set-minimized") are
// interpreted, directly against the tree; any other command, including
// "move-to-workspace <name>", is neither executed nor published.
type WindowRule struct {
	Match    WindowRuleMatch `yaml:"match"`
	Event    WindowRuleEvent `yaml:"event"`
	Commands []string        `yaml:"commands"`
}

// FocusConfig holds focus-behavior preferences that aren't part of the
// core state machine but that handlers consult.
type FocusConfig struct {
	FollowCursor bool `yaml:"followCursor"`
	WarpOnEmpty  bool `yaml:"warpOnEmpty"`
}

// BindingMode is a named set of key bindings the hotkey layer can switch
// into (e.g. a "resize" mode entered with one keybinding and exited with
// Escape). The core only tracks which mode names are active; resolving a
// key sequence to a command string is the input-handling shell's job,
// out of scope here.
type BindingMode struct {
	Name     string            `yaml:"name"`
	Bindings map[string]string `yaml:"bindings"`
}

// InnerGap resolves the configured inner gap. scale is not used; a DPI
// factor is applied later, when a LengthUnit is converted to pixels.
func (g GapsConfig) InnerGap(scale *float64) (left, top, right, bottom geometry.LengthUnit, err error) {
	return parseFourSided(g.Inner)
}

// OuterGap resolves the configured outer gap.
func (g GapsConfig) OuterGap() (left, top, right, bottom geometry.LengthUnit, err error) {
	return parseFourSided(g.Outer)
}

func parseFourSided(s string) (left, top, right, bottom geometry.LengthUnit, err error) {
	if s == "" {
		return geometry.Px(0), geometry.Px(0), geometry.Px(0), geometry.Px(0), nil
	}
	u, err := geometry.ParseLengthUnit(s)
	if err != nil {
		return geometry.LengthUnit{}, geometry.LengthUnit{}, geometry.LengthUnit{}, geometry.LengthUnit{}, err
	}
	return u, u, u, u, nil
}
