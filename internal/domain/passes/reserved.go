package passes

import "luaveil.dev/pkg/luaveil/internal/luasrc"

// reservedGlobals are names of the standard environment across Lua 5.1-5.4,
// LuaJIT and Luau. A local shadowing one of them keeps its name so that
// references elsewhere to the global keep resolving.
var reservedGlobals = map[string]struct{}{
	"_G": {}, "_ENV": {}, "_VERSION": {}, "self": {}, "arg": {},
	"assert": {}, "collectgarbage": {}, "dofile": {}, "error": {},
	"getfenv": {}, "getmetatable": {}, "ipairs": {}, "load": {},
	"loadfile": {}, "loadstring": {}, "module": {}, "next": {},
	"pairs": {}, "pcall": {}, "print": {}, "rawequal": {}, "rawget": {},
	"rawlen": {}, "rawset": {}, "require": {}, "select": {},
	"setfenv": {}, "setmetatable": {}, "tonumber": {}, "tostring": {},
	"type": {}, "unpack": {}, "xpcall": {}, "warn": {},
	"bit": {}, "bit32": {}, "coroutine": {}, "debug": {}, "io": {},
	"math": {}, "os": {}, "package": {}, "string": {}, "table": {},
	"utf8": {}, "jit": {}, "ffi": {},
	"game": {}, "workspace": {}, "script": {}, "task": {}, "wait": {},
	"spawn": {}, "delay": {}, "tick": {}, "typeof": {},
}

func isReserved(name string) bool {
	if luasrc.IsKeyword(name) {
		return true
	}

	_, ok := reservedGlobals[name]

	return ok
}
