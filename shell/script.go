package shell

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
)

const luaShellKey = "tilecrush_shell"

type luaShell struct {
	sc  *ShellController
	ctx context.Context
}

func getShell(L *lua.LState) *luaShell {
	shell := L.GetGlobal(luaShellKey)
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	ls, ok := ud.Value.(*luaShell)
	if !ok {
		panic("shellcontroller not right type")
	}
	return ls
}

// Exec runs any shell command and returns its output, or an ERROR
// string.
func Exec(L *lua.LState) int {
	line := L.ToString(1)
	ls := getShell(L)
	r, err := ls.sc.Execute(ls.ctx, line)
	if err != nil {
		log.Err(err).Str("line", line).Msg("error-executing-script-command")
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	L.Push(lua.LString(r.Message()))
	// return number of results pushed to stack.
	return 1
}

// Rows returns the board as a table of strings, top row first.
func Rows(L *lua.LState) int {
	ls := getShell(L)
	if ls.sc.game == nil {
		return 0
	}
	t := L.NewTable()
	for _, row := range ls.sc.game.Board().Rows() {
		t.Append(lua.LString(row))
	}
	L.Push(t)
	return 1
}

// Stat returns one of the game's counters by its YAML name.
func Stat(L *lua.LState) int {
	name := L.ToString(1)
	ls := getShell(L)
	if ls.sc.game == nil {
		return 0
	}
	st := ls.sc.game.Stats()
	vals := map[string]int{
		"moves":            st.Moves,
		"invalid_swaps":    st.InvalidSwaps,
		"cleared":          st.Cleared,
		"specials_created": st.SpecialsCreated,
		"effects":          st.Effects,
		"fill_cycles":      st.FillCycles,
		"fill_steps":       st.FillSteps,
		"max_cascade":      st.MaxCascade,
	}
	v, ok := vals[name]
	if !ok {
		L.ArgError(1, "unknown stat "+name)
		return 0
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (sc *ShellController) script(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()

	lsc := L.NewUserData()
	lsc.Value = &luaShell{sc: sc, ctx: ctx}

	L.SetGlobal(luaShellKey, lsc)
	L.SetGlobal("tilecrush_exec", L.NewFunction(Exec))
	L.SetGlobal("tilecrush_rows", L.NewFunction(Rows))
	L.SetGlobal("tilecrush_stat", L.NewFunction(Stat))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return msg("ran " + filepath), nil
}
