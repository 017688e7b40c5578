package model

import (
	"path/filepath"
	"strings"
)

// Path represents a file system path.
type Path string

// LuaExt is the extension given to exported scripts.
const LuaExt = ".lua"

// Script is one Lua source handed to the pipeline.
type Script struct {
	Path    Path
	Content string
}

// Session is the last obfuscation the user ran, restored on the next start.
type Session struct {
	Input  string
	Output string
	Level  Level
}

// ObfuscatedExt is appended to a script's base name for its output file.
const ObfuscatedExt = ".obf" + LuaExt

// Execution is what running a script in the embedded VM produced.
type Execution struct {
	// Returns holds the chunk's return values rendered as text.
	Returns []string
	// Stdout collects everything the script printed.
	Stdout string
}

// Obfuscated returns the output name for a script: "dir/name.lua" becomes
// "dir/name.obf.lua".
func (p Path) Obfuscated() Path {
	s := string(p)
	return Path(strings.TrimSuffix(s, filepath.Ext(s)) + ObfuscatedExt)
}
