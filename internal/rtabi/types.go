// Package rtabi defines the native-call ABI shared between the generated
// C# bindings and the NWN runtime. These names must be kept in sync with
// the runtime's Internal class.
package rtabi

// Target namespaces and classes
const (
	// MasterNamespace and MasterClass hold the bindings generated from
	// nwscript.nss.
	MasterNamespace = "NWN"
	MasterClass     = "NWScript"

	// NWNXNamespace holds one static class per NWNX plugin.
	NWNXNamespace = "NWNX"

	// PluginNameConst is the per-plugin constant naming the native plugin.
	PluginNameConst = "PLUGIN_NAME"
)

// ValueType describes how one NWScript value type crosses the native call
// boundary.
type ValueType struct {
	Script string // NWScript spelling, e.g. "object"
	CSharp string // C# type

	// Master convention: Internal.StackPush*/StackPop*.
	Push string
	Pop  string

	// NWNX convention: NativeFunctions.nwnxPush*/nwnxPop*.
	// Empty when the plugin ABI cannot carry the type.
	NWNXPush string
	NWNXPop  string

	// Const reports whether a C# const of this type is legal.
	Const bool
}

// valueTypes is built once and never modified.
var valueTypes = map[string]ValueType{
	"void": {Script: "void", CSharp: "void"},
	"int": {
		Script: "int", CSharp: "int",
		Push: "StackPushInteger", Pop: "StackPopInteger",
		NWNXPush: "nwnxPushInt", NWNXPop: "nwnxPopInt",
		Const: true,
	},
	"float": {
		Script: "float", CSharp: "float",
		Push: "StackPushFloat", Pop: "StackPopFloat",
		NWNXPush: "nwnxPushFloat", NWNXPop: "nwnxPopFloat",
		Const: true,
	},
	"string": {
		Script: "string", CSharp: "string",
		Push: "StackPushString", Pop: "StackPopString",
		NWNXPush: "nwnxPushString", NWNXPop: "nwnxPopString",
		Const: true,
	},
	"object": {
		Script: "object", CSharp: "NWN.Object",
		Push: "StackPushObject", Pop: "StackPopObject",
		NWNXPush: "nwnxPushObject", NWNXPop: "nwnxPopObject",
	},
	"location": {
		Script: "location", CSharp: "NWN.Location",
		Push: "StackPushLocation", Pop: "StackPopLocation",
	},
	"vector": {
		Script: "vector", CSharp: "NWN.Vector",
		Push: "StackPushVector", Pop: "StackPopVector",
	},
	"itemproperty": {
		Script: "itemproperty", CSharp: "NWN.ItemProperty",
		Push: "StackPushItemProperty", Pop: "StackPopItemProperty",
		NWNXPush: "nwnxPushItemProperty", NWNXPop: "nwnxPopItemProperty",
	},
	"effect": {
		Script: "effect", CSharp: "NWN.Effect",
		Push: "StackPushEffect", Pop: "StackPopEffect",
		NWNXPush: "nwnxPushEffect", NWNXPop: "nwnxPopEffect",
	},
	"talent": {
		Script: "talent", CSharp: "NWN.Talent",
		Push: "StackPushTalent", Pop: "StackPopTalent",
	},
	"event": {
		Script: "event", CSharp: "NWN.Event",
		Push: "StackPushEvent", Pop: "StackPopEvent",
	},
	// action parameters are closures; only the hand-written builtins
	// accept them.
	"action": {Script: "action", CSharp: "NWN.ActionDelegate"},
}

// LookupType returns the ABI entry for an NWScript type name.
func LookupType(script string) (ValueType, bool) {
	vt, ok := valueTypes[script]
	return vt, ok
}

// HasStack reports whether values of the type can be pushed and popped
// with the master convention.
func (vt ValueType) HasStack() bool {
	return vt.Push != "" && vt.Pop != ""
}

// HasNWNX reports whether values of the type can cross the NWNX plugin
// boundary.
func (vt ValueType) HasNWNX() bool {
	return vt.NWNXPush != "" && vt.NWNXPop != ""
}
