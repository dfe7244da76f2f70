package normalizer

import (
	"github.com/KirkDiggler/creature-import/internal/entities"
)

// editorV1Attributes maps the German editor's attribute abbreviations
var editorV1Attributes = map[string]entities.AttributeKey{
	"AUS":  entities.AttributeCharisma,
	"BEW":  entities.AttributeAgility,
	"INT":  entities.AttributeIntuition,
	"KON":  entities.AttributeConstitution,
	"MYS":  entities.AttributeMysticism,
	"STÄ":  entities.AttributeStrength,
	"STA":  entities.AttributeStrength,
	"STAE": entities.AttributeStrength,
	"VER":  entities.AttributeMind,
	"WIL":  entities.AttributeWillpower,
}

// editorV1Derived maps the German editor's derived value abbreviations
var editorV1Derived = map[string]entities.DerivedKey{
	"GK":  entities.DerivedSize,
	"GSW": entities.DerivedSpeed,
	"INI": entities.DerivedInitiative,
	"LP":  entities.DerivedHealthPoints,
	"FO":  entities.DerivedFocusPoints,
	"VTD": entities.DerivedDefense,
	"KW":  entities.DerivedBodyResist,
	"GW":  entities.DerivedMindResist,
}

// editorV2Attributes accepts English abbreviations next to canonical keys
var editorV2Attributes = map[string]entities.AttributeKey{
	"cha": entities.AttributeCharisma,
	"agi": entities.AttributeAgility,
	"int": entities.AttributeIntuition,
	"con": entities.AttributeConstitution,
	"mys": entities.AttributeMysticism,
	"str": entities.AttributeStrength,
	"min": entities.AttributeMind,
	"wil": entities.AttributeWillpower,
}

// editorV2Derived accepts short aliases next to canonical keys
var editorV2Derived = map[string]entities.DerivedKey{
	"hp":         entities.DerivedHealthPoints,
	"health":     entities.DerivedHealthPoints,
	"focus":      entities.DerivedFocusPoints,
	"ini":        entities.DerivedInitiative,
	"resistbody": entities.DerivedBodyResist,
	"resistmind": entities.DerivedMindResist,
}
