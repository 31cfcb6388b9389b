package effects

import (
	"fmt"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/huestreamd/internal/audio"
	"github.com/dokzlo13/huestreamd/internal/color"
	"github.com/dokzlo13/huestreamd/internal/spatial"
)

// LuaEffect runs a user script as an effect. The script must define a global
// function
//
//	function update(audio, nodes)
//
// receiving audio = {bass, mids, highs, energy} and nodes as an array of
// {channel, x, y, z}, and returning a table mapping channel id to
// {r, g, b}.
//
// The Lua state is owned by the effect and only touched from the engine's
// tick loop, so no locking is needed. Script errors darken the output for
// that tick and are logged, never fatal.
type LuaEffect struct {
	state *lua.LState
	fn    *lua.LFunction
}

// NewLuaEffect loads a script and resolves its update function.
func NewLuaEffect(path string) (*LuaEffect, error) {
	L := lua.NewState()
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("failed to load effect script: %w", err)
	}

	fn, ok := L.GetGlobal("update").(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("effect script %s does not define update()", path)
	}

	return &LuaEffect{state: L, fn: fn}, nil
}

// Close releases the Lua state.
func (e *LuaEffect) Close() {
	e.state.Close()
}

// Update calls the script's update function.
func (e *LuaEffect) Update(spec audio.Spectrum, nodes []spatial.LightNode) map[uint8]color.RGB {
	L := e.state

	audioTbl := L.NewTable()
	L.SetField(audioTbl, "bass", lua.LNumber(spec.Bass))
	L.SetField(audioTbl, "mids", lua.LNumber(spec.Mids))
	L.SetField(audioTbl, "highs", lua.LNumber(spec.Highs))
	L.SetField(audioTbl, "energy", lua.LNumber(spec.Energy))

	nodesTbl := L.NewTable()
	for i, n := range nodes {
		nodeTbl := L.NewTable()
		L.SetField(nodeTbl, "channel", lua.LNumber(n.Channel))
		L.SetField(nodeTbl, "x", lua.LNumber(n.X))
		L.SetField(nodeTbl, "y", lua.LNumber(n.Y))
		L.SetField(nodeTbl, "z", lua.LNumber(n.Z))
		nodesTbl.RawSetInt(i+1, nodeTbl)
	}

	L.Push(e.fn)
	L.Push(audioTbl)
	L.Push(nodesTbl)
	if err := L.PCall(2, 1, nil); err != nil {
		log.Warn().Err(err).Msg("Lua effect update failed")
		return blackout(nodes)
	}

	result := L.Get(-1)
	L.Pop(1)

	tbl, ok := result.(*lua.LTable)
	if !ok {
		log.Warn().Msg("Lua effect update returned a non-table value")
		return blackout(nodes)
	}

	out := make(map[uint8]color.RGB, len(nodes))
	tbl.ForEach(func(k, v lua.LValue) {
		ch, ok := luaChannel(k)
		if !ok {
			return
		}
		rgb, ok := luaRGB(v)
		if !ok {
			return
		}
		out[ch] = rgb
	})
	return out
}

func blackout(nodes []spatial.LightNode) map[uint8]color.RGB {
	out := make(map[uint8]color.RGB, len(nodes))
	for _, n := range nodes {
		out[n.Channel] = color.Black
	}
	return out
}

func luaChannel(v lua.LValue) (uint8, bool) {
	num, ok := v.(lua.LNumber)
	if !ok {
		return 0, false
	}
	n := int(num)
	if n < 0 || n > spatial.MaxChannel {
		return 0, false
	}
	return uint8(n), true
}

// luaRGB accepts either an array {r, g, b} or a table {r=..., g=..., b=...}.
func luaRGB(v lua.LValue) (color.RGB, bool) {
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return color.RGB{}, false
	}

	if r, ok := tbl.RawGetInt(1).(lua.LNumber); ok {
		g, _ := tbl.RawGetInt(2).(lua.LNumber)
		b, _ := tbl.RawGetInt(3).(lua.LNumber)
		return color.RGB{R: clampByte(r), G: clampByte(g), B: clampByte(b)}, true
	}

	r, ok := tbl.RawGetString("r").(lua.LNumber)
	if !ok {
		return color.RGB{}, false
	}
	g, _ := tbl.RawGetString("g").(lua.LNumber)
	b, _ := tbl.RawGetString("b").(lua.LNumber)
	return color.RGB{R: clampByte(r), G: clampByte(g), B: clampByte(b)}, true
}

func clampByte(n lua.LNumber) uint8 {
	v := int(n)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
