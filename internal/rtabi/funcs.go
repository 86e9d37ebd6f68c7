package rtabi

import "strings"

// Native entry points (must match the runtime's Internal class)
const (
	// Internal is the runtime class hosting the master call stack.
	Internal = "Internal"

	// FnCallBuiltIn invokes the engine builtin with the given index.
	FnCallBuiltIn = "CallBuiltIn"

	// NativeFunctions hosts the NWNX plugin bridge.
	NativeFunctions = "Internal.NativeFunctions"

	FnNWNXSetFunction  = "nwnxSetFunction"
	FnNWNXCallFunction = "nwnxCallFunction"
)

// Object sentinels
const (
	ObjectSelf        = "OBJECT_SELF"
	ObjectInvalid     = "OBJECT_INVALID"
	ObjectTypeInvalid = "OBJECT_TYPE_INVALID"
)

// handWritten lists the builtins implemented by hand in the runtime
// because they take action closures. They are not generated and do not
// consume a builtin index.
var handWritten = map[string]bool{
	"AssignCommand":   true,
	"DelayCommand":    true,
	"ActionDoCommand": true,
}

// IsHandWritten reports whether name is a hand-implemented builtin.
func IsHandWritten(name string) bool {
	return handWritten[name]
}

// NWNX file naming: NWNX_<Plugin>.nss
const (
	NWNXPrefix = "NWNX_"
	NWNXSuffix = ".nss"
)

// MasterUnit is the name of the master declarations file.
const MasterUnit = "nwscript.nss"

// NWNXPlugin returns the plugin name of an NWNX compilation unit, e.g.
// "Creature" for "NWNX_Creature.nss".
func NWNXPlugin(unit string) (string, bool) {
	if !strings.HasPrefix(unit, NWNXPrefix) || !strings.HasSuffix(unit, NWNXSuffix) {
		return "", false
	}
	plugin := unit[len(NWNXPrefix) : len(unit)-len(NWNXSuffix)]
	if plugin == "" {
		return "", false
	}
	return plugin, true
}

// NWNXFunctionName strips the NWNX_<Plugin>_ prefix from a plugin function
// name. Names without the prefix are returned unchanged.
func NWNXFunctionName(plugin, fn string) string {
	return strings.TrimPrefix(fn, NWNXPrefix+plugin+"_")
}
