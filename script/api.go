package script

import (
	"strings"

	glua "github.com/yuin/gopher-lua"
)

// registerAPI installs the galley table:
//
//	galley.text()        canonical text of the current dish
//	galley.kind()        "text", "markup" or "binary"
//	galley.notify(msg)   transient notice on the surface
//	galley.log(...)      info log line
//	galley.regex(p)      compiled pattern, see api_regex.go
func (e *Engine) registerAPI() {
	e.galleyTable = e.L.NewTable()
	e.L.SetGlobal("galley", e.galleyTable)

	e.L.SetField(e.galleyTable, "text", e.L.NewFunction(func(L *glua.LState) int {
		L.Push(glua.LString(e.host.DishText()))
		return 1
	}))

	e.L.SetField(e.galleyTable, "kind", e.L.NewFunction(func(L *glua.LState) int {
		L.Push(glua.LString(e.host.DishKind()))
		return 1
	}))

	e.L.SetField(e.galleyTable, "notify", e.L.NewFunction(func(L *glua.LState) int {
		e.host.Notify(L.CheckString(1))
		return 0
	}))

	e.L.SetField(e.galleyTable, "log", e.L.NewFunction(func(L *glua.LState) int {
		parts := make([]string, 0, L.GetTop())
		for i := 1; i <= L.GetTop(); i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		e.logger.Info(strings.Join(parts, " "))
		return 0
	}))

	e.registerRegexFuncs()
}
