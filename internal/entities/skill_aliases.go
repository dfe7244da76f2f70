package entities

import "github.com/KirkDiggler/creature-import/internal/matching"

// germanSkills maps skill names as the German editor writes them
var germanSkills = map[string]SkillKey{
	"akrobatik":             "acrobatics",
	"alchemie":              "alchemy",
	"anführen":              "leadership",
	"arkane kunde":          "arcanelore",
	"athletik":              "athletics",
	"darbietung":            "performance",
	"diplomatie":            "diplomacy",
	"edelhandwerk":          "clscraft",
	"empathie":              "empathy",
	"entschlossenheit":      "determination",
	"fingerfertigkeit":      "dexterity",
	"geschichte und mythen": "history",
	"handwerk":              "craftmanship",
	"heilkunde":             "heal",
	"heimlichkeit":          "stealth",
	"jagdkunst":             "hunting",
	"länderkunde":           "countrylore",
	"naturkunde":            "nature",
	"redegewandtheit":       "eloquence",
	"schlösser und fallen":  "locksmith",
	"schwimmen":             "swim",
	"seefahrt":              "seafaring",
	"straßenkunde":          "streetlore",
	"tierführung":           "animals",
	"überleben":             "survival",
	"wahrnehmung":           "perception",
	"zähigkeit":             "endurance",

	"handgemenge":   "melee",
	"hiebwaffen":    "slashing",
	"kettenwaffen":  "chains",
	"klingenwaffen": "blades",
	"schusswaffen":  "longrange",
	"stangenwaffen": "staffs",
	"wurfwaffen":    "throwing",

	// older exports name natural attacks by how they are used
	"fernkampf":         "longrange",
	"waffenlos":         "melee",
	"natürliche waffen": "melee",

	"bannmagie":          "antimagic",
	"beherrschungsmagie": "controlmagic",
	"bewegungsmagie":     "motionmagic",
	"erkenntnismagie":    "insightmagic",
	"felsmagie":          "stonemagic",
	"feuermagie":         "firemagic",
	"heilungsmagie":      "healmagic",
	"illusionsmagie":     "illusionmagic",
	"kampfmagie":         "combatmagic",
	"lichtmagie":         "lightmagic",
	"naturmagie":         "naturemagic",
	"schattenmagie":      "shadowmagic",
	"schicksalsmagie":    "fatemagic",
	"schutzmagie":        "protectionmagic",
	"stärkungsmagie":     "enhancemagic",
	"todesmagie":         "deathmagic",
	"verwandlungsmagie":  "transformationmagic",
	"wassermagie":        "watermagic",
	"windmagie":          "windmagic",
}

// foldedGermanSkills is germanSkills keyed by matching.Normalize, so
// "Straßenkunde" and "STRASSENKUNDE" both find streetlore
var foldedGermanSkills = foldKeys(germanSkills)

func foldKeys(in map[string]SkillKey) map[string]SkillKey {
	out := make(map[string]SkillKey, len(in))
	for k, v := range in {
		out[matching.Normalize(k)] = v
	}
	return out
}

// LookupSkill maps a skill as written in any export, canonical or German,
// to its canonical key
func LookupSkill(raw string) (SkillKey, bool) {
	folded := matching.Normalize(raw)
	if folded == "" {
		return "", false
	}
	if key := SkillKey(folded); key.Valid() {
		return key, true
	}
	if key, ok := foldedGermanSkills[folded]; ok {
		return key, true
	}
	return "", false
}
