package glyphs

// Command descriptions
const (
	MsgRootShort = "Substitute chat trigger words with glyph markers"
	MsgRootLong  = `glyphs replaces trigger words in chat text with <marker=ID> tags that a
client renders as images, and turns those tags back into words. Triggers
are read from a manifest; each one can be disabled or kept from being
resized, alone or by folder.`

	MsgRenderShort     = "Encode text, replacing enabled triggers with markers"
	MsgRevertShort     = "Decode text, replacing markers with trigger names"
	MsgFilterShort     = "Report whether a message would be filtered"
	MsgEnableShort     = "Enable triggers or folders"
	MsgDisableShort    = "Disable triggers or folders"
	MsgListShort       = "List loaded triggers and their state"
	MsgChatShort       = "Read chat lines from stdin and render them"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
)

// Flag descriptions
const (
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig   = "Config file (default $XDG_CONFIG_HOME/glyphs/config.toml)"
	MsgFlagManifest = "Trigger manifest (overrides assets.manifest)"
	MsgFlagStore    = "State backend: memory, toml or sqlite (overrides store.backend)"
	MsgFlagFormat   = "Output format: auto, term, text or json"
	MsgFlagCategory = "Message category used for eligibility"
	MsgFlagStrict   = "Filter only when every counted word is a disabled trigger"
	MsgFlagFolder   = "Treat names as folders"
	MsgFlagResize   = "Toggle resizing instead of enablement"
)

// Output messages
const (
	MsgFiltered      = "filtered"
	MsgKept          = "kept"
	MsgSoundFormat   = "sound: %s"
	MsgReloaded      = "Reloaded %d triggers"
	MsgLimitFormat   = "Message limit set to %d"
	MsgUnknownInput  = "Unknown command %q (try /enable, /disable, /reload, /limit, /list)"
	MsgChatUsageHint = "Type a message, or /enable, /disable, /reload, /limit N, /list"
)

// Actions reported by toggles
const (
	ActionEnabled          = "enabled"
	ActionDisabled         = "disabled"
	ActionResizingEnabled  = "resizing enabled"
	ActionResizingDisabled = "resizing disabled"
)

// MsgCompletionLong is the help for the completion command
const MsgCompletionLong = `To load completions:

Bash:
  $ source <(glyphs completion bash)

Zsh:
  $ glyphs completion zsh > "${fpath[1]}/_glyphs"

Fish:
  $ glyphs completion fish | source

PowerShell:
  PS> glyphs completion powershell | Out-String | Invoke-Expression
`
