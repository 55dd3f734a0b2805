package scenario

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const (
	scenarioTypeName  = "scenario"
	characterTypeName = "scenario_character"
)

// Scenario is a named list of steps loaded from a Lua script.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one scripted action or expectation.
type Step struct {
	Kind string
	Args map[string]any
}

// characterHandle lets scripts chain calls on the character a step created.
type characterHandle struct {
	scenario *Scenario
	name     string
}

// LoadScenarioFromFile runs a Lua script and returns the Scenario it builds.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	registerLuaTypes(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}

	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

func registerLuaTypes(state *lua.State) {
	registerType(state, scenarioTypeName, scenarioMethods)
	registerType(state, characterTypeName, characterMethods)

	state.NewTable()
	lua.SetFunctions(state, scenarioConstructor, 0)
	state.SetGlobal("Scenario")

	state.NewTable()
	lua.SetFunctions(state, dieHelpers, 0)
	state.SetGlobal("Dice")
}

func registerType(state *lua.State, name string, methods []lua.RegistryFunction) {
	lua.NewMetaTable(state, name)
	state.NewTable()
	lua.SetFunctions(state, methods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

var scenarioConstructor = []lua.RegistryFunction{
	{Name: "new", Function: scenarioNew},
}

var dieHelpers = []lua.RegistryFunction{
	{Name: "d", Function: dieHelper},
}

// dieHelper turns a die size into an assigned-points count: Dice.d(8) is 2.
func dieHelper(state *lua.State) int {
	sides := lua.CheckInteger(state, 1)
	if sides < 4 || sides > 12 || sides%2 != 0 {
		lua.ArgumentError(state, 1, "die must be one of 4, 6, 8, 10, 12")
		return 0
	}
	state.PushInteger(sides/2 - 2)
	return 1
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	scenario := &Scenario{Name: name}
	state.PushUserData(scenario)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "character", Function: scenarioCharacter},
	{Name: "attribute", Function: tableStep("attribute")},
	{Name: "skill", Function: tableStep("skill")},
	{Name: "race", Function: idStep("race")},
	{Name: "framework", Function: idStep("framework")},
	{Name: "edge", Function: idStep("edge")},
	{Name: "remove_edge", Function: tableStep("remove_edge")},
	{Name: "remove_advance", Function: tableStep("remove_advance")},
	{Name: "hindrance", Function: scenarioHindrance},
	{Name: "arcane_background", Function: idStep("arcane_background")},
	{Name: "power", Function: tableStep("power")},
	{Name: "super_power", Function: tableStep("super_power")},
	{Name: "item", Function: tableStep("item")},
	{Name: "journey", Function: tableStep("journey")},
	{Name: "advance", Function: tableStep("advance")},
	{Name: "perk", Function: idStep("perk")},
	{Name: "select", Function: tableStep("select")},
	{Name: "recompute", Function: scenarioRecompute},
	{Name: "roundtrip", Function: scenarioRoundtrip},
	{Name: "expect", Function: tableStep("expect")},
}

// scenarioCharacter starts a new character. The returned handle accepts
// expect calls bound to that character's name for readability.
func scenarioCharacter(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	name, _ := data["name"].(string)
	if strings.TrimSpace(name) == "" {
		lua.Errorf(state, "character name is required")
		return 0
	}
	appendStep(scenario, "character", data)
	state.PushUserData(&characterHandle{scenario: scenario, name: name})
	lua.SetMetaTableNamed(state, characterTypeName)
	return 1
}

func scenarioHindrance(state *lua.State) int {
	scenario := checkScenario(state)
	var data map[string]any
	if state.TypeOf(2) == lua.TypeTable {
		data = tableToMap(state, 2)
	} else {
		data = map[string]any{"id": lua.CheckString(state, 2)}
		if state.TypeOf(3) == lua.TypeString {
			severity, _ := state.ToString(3)
			data["major"] = strings.EqualFold(severity, "major")
		}
	}
	appendStep(scenario, "hindrance", data)
	return 0
}

func scenarioRecompute(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "recompute", nil)
	return 0
}

func scenarioRoundtrip(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "roundtrip", nil)
	return 0
}

// tableStep records a step whose arguments are a single table.
func tableStep(kind string) lua.Function {
	return func(state *lua.State) int {
		scenario := checkScenario(state)
		lua.CheckType(state, 2, lua.TypeTable)
		appendStep(scenario, kind, tableToMap(state, 2))
		return 0
	}
}

// idStep records a step taking a catalog id, with an optional options table.
func idStep(kind string) lua.Function {
	return func(state *lua.State) int {
		scenario := checkScenario(state)
		data := optionalTable(state, 3)
		data["id"] = lua.CheckString(state, 2)
		appendStep(scenario, kind, data)
		return 0
	}
}

var characterMethods = []lua.RegistryFunction{
	{Name: "expect", Function: characterExpect},
}

func characterExpect(state *lua.State) int {
	ud := lua.CheckUserData(state, 1, characterTypeName)
	handle, ok := ud.(*characterHandle)
	if !ok || handle == nil {
		lua.Errorf(state, "invalid character handle")
		return 0
	}
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	data["character"] = handle.name
	appendStep(handle.scenario, "expect", data)
	state.PushValue(1)
	return 1
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func appendStep(scenario *Scenario, kind string, data map[string]any) int {
	if scenario == nil {
		return -1
	}
	if data == nil {
		data = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: data})
	return len(scenario.Steps) - 1
}

func optionalTable(state *lua.State, index int) map[string]any {
	if state.IsNoneOrNil(index) || state.TypeOf(index) != lua.TypeTable {
		return map[string]any{}
	}
	return tableToMap(state, index)
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

func tableToGo(state *lua.State, index int) any {
	if state.TypeOf(index) != lua.TypeTable {
		return nil
	}

	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}

	return tableToMap(state, index)
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
