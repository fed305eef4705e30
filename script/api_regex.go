package script

import (
	"regexp"

	glua "github.com/yuin/gopher-lua"
)

const (
	luaRegexTypeName = "Regex"
	regexCacheSize   = 100
)

// registerRegexType registers the Regex userdata type.
func registerRegexType(L *glua.LState) {
	mt := L.NewTypeMetatable(luaRegexTypeName)
	L.SetField(mt, "__index", L.NewFunction(regexIndex))
}

// regexIndex handles method calls on Regex userdata.
//
//	re.match(text)      capture table of the first match, or nil
//	re.find_all(text)   table of every full match
//	re.replace(text, r) text with every match replaced by r ($1 expands)
//	re.pattern          source pattern
func regexIndex(L *glua.LState) int {
	re := L.CheckUserData(1).Value.(*regexp.Regexp)
	method := L.CheckString(2)

	switch method {
	case "match":
		L.Push(L.NewFunction(func(L *glua.LState) int {
			matches := re.FindStringSubmatch(L.CheckString(1))
			if matches == nil {
				L.Push(glua.LNil)
				return 1
			}
			tbl := L.NewTable()
			for i, m := range matches {
				tbl.RawSetInt(i+1, glua.LString(m))
			}
			L.Push(tbl)
			return 1
		}))
		return 1
	case "find_all":
		L.Push(L.NewFunction(func(L *glua.LState) int {
			tbl := L.NewTable()
			for i, m := range re.FindAllString(L.CheckString(1), -1) {
				tbl.RawSetInt(i+1, glua.LString(m))
			}
			L.Push(tbl)
			return 1
		}))
		return 1
	case "replace":
		L.Push(L.NewFunction(func(L *glua.LState) int {
			L.Push(glua.LString(re.ReplaceAllString(L.CheckString(1), L.CheckString(2))))
			return 1
		}))
		return 1
	case "pattern":
		L.Push(glua.LString(re.String()))
		return 1
	}

	return 0
}

// registerRegexFuncs installs galley.regex(pattern), which returns a Regex
// userdata or nil plus an error message.
func (e *Engine) registerRegexFuncs() {
	registerRegexType(e.L)

	e.L.SetField(e.galleyTable, "regex", e.L.NewFunction(func(L *glua.LState) int {
		pattern := L.CheckString(1)

		re, ok := e.regexCache.Get(pattern)
		if !ok {
			var err error
			re, err = regexp.Compile(pattern)
			if err != nil {
				L.Push(glua.LNil)
				L.Push(glua.LString(err.Error()))
				return 2
			}
			e.regexCache.Add(pattern, re)
		}

		ud := L.NewUserData()
		ud.Value = re
		L.SetMetatable(ud, L.GetTypeMetatable(luaRegexTypeName))
		L.Push(ud)
		return 1
	}))
}
