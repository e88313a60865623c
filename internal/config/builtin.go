package config

// Defaults returns the built-in configuration used when the user's config
// file is absent or omits a section. Loader merges a parsed file on top of
// this, field by field, so a user who only sets `gaps.inner` still gets a
// sane default workspace set.
func Defaults() *Config {
	return &Config{
		Workspaces: []WorkspaceConfig{
			{Name: "1", DisplayName: "1", KeepAlive: true},
			{Name: "2", DisplayName: "2", KeepAlive: true},
			{Name: "3", DisplayName: "3", KeepAlive: true},
		},
		Gaps: GapsConfig{
			Inner:        "8px",
			Outer:        "8px",
			ScaleWithDPI: true,
		},
		Focus: FocusConfig{
			FollowCursor: false,
			WarpOnEmpty:  false,
		},
	}
}
