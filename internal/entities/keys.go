package entities

// AttributeKey is the canonical name of one of the eight creature attributes
type AttributeKey string

// Canonical attribute keys
const (
	AttributeCharisma     AttributeKey = "charisma"
	AttributeAgility      AttributeKey = "agility"
	AttributeIntuition    AttributeKey = "intuition"
	AttributeConstitution AttributeKey = "constitution"
	AttributeMysticism    AttributeKey = "mysticism"
	AttributeStrength     AttributeKey = "strength"
	AttributeMind         AttributeKey = "mind"
	AttributeWillpower    AttributeKey = "willpower"
)

// AttributeKeys lists every attribute in sheet order
var AttributeKeys = []AttributeKey{
	AttributeCharisma,
	AttributeAgility,
	AttributeIntuition,
	AttributeConstitution,
	AttributeMysticism,
	AttributeStrength,
	AttributeMind,
	AttributeWillpower,
}

// Valid reports whether k is a canonical attribute key
func (k AttributeKey) Valid() bool {
	for _, known := range AttributeKeys {
		if k == known {
			return true
		}
	}
	return false
}

// DerivedKey is the canonical name of a derived value
type DerivedKey string

// Canonical derived value keys
const (
	DerivedSize         DerivedKey = "size"
	DerivedSpeed        DerivedKey = "speed"
	DerivedInitiative   DerivedKey = "initiative"
	DerivedHealthPoints DerivedKey = "healthpoints"
	DerivedFocusPoints  DerivedKey = "focuspoints"
	DerivedDefense      DerivedKey = "defense"
	DerivedBodyResist   DerivedKey = "bodyresist"
	DerivedMindResist   DerivedKey = "mindresist"
)

// DerivedKeys lists every derived value in sheet order
var DerivedKeys = []DerivedKey{
	DerivedSize,
	DerivedSpeed,
	DerivedInitiative,
	DerivedHealthPoints,
	DerivedFocusPoints,
	DerivedDefense,
	DerivedBodyResist,
	DerivedMindResist,
}

// Valid reports whether k is a canonical derived value key
func (k DerivedKey) Valid() bool {
	for _, known := range DerivedKeys {
		if k == known {
			return true
		}
	}
	return false
}

// SkillKey is the canonical name of a skill. Which skills exist and how they
// group is configuration; the keys below are the vocabulary every format maps onto.
type SkillKey string

// SkillNone marks general abilities that are not bound to any skill
const SkillNone SkillKey = "none"

// GeneralSkills are the non-combat, non-magic skills
var GeneralSkills = []SkillKey{
	"acrobatics", "alchemy", "leadership", "arcanelore", "athletics", "performance",
	"diplomacy", "clscraft", "empathy", "determination", "dexterity", "history",
	"craftmanship", "heal", "stealth", "hunting", "countrylore", "nature", "eloquence",
	"locksmith", "swim", "seafaring", "streetlore", "animals", "survival", "perception",
	"endurance",
}

// FightingSkills are the weapon skills
var FightingSkills = []SkillKey{
	"melee", "slashing", "chains", "blades", "longrange", "staffs", "throwing",
}

// MagicSkills are the magic schools
var MagicSkills = []SkillKey{
	"antimagic", "controlmagic", "motionmagic", "insightmagic", "stonemagic", "firemagic",
	"healmagic", "illusionmagic", "combatmagic", "lightmagic", "naturemagic", "shadowmagic",
	"fatemagic", "protectionmagic", "enhancemagic", "deathmagic", "transformationmagic",
	"watermagic", "windmagic",
}

// Valid reports whether k is one of the canonical skills
func (k SkillKey) Valid() bool {
	for _, group := range [][]SkillKey{GeneralSkills, FightingSkills, MagicSkills} {
		for _, known := range group {
			if k == known {
				return true
			}
		}
	}
	return false
}

// IsMagic reports whether k is a magic school
func (k SkillKey) IsMagic() bool {
	for _, known := range MagicSkills {
		if k == known {
			return true
		}
	}
	return false
}
