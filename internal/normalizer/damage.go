package normalizer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/creature-import/internal/entities"
	"github.com/KirkDiggler/creature-import/internal/errors"
)

// DefaultDamage is used for weapons that give no damage
const DefaultDamage = "1W6"

// damageNotationRegex matches 1W6, 2w10+3, d8, 3D6-1
var damageNotationRegex = regexp.MustCompile(`^(\d*)\s*[wd]\s*(\d+)\s*(?:([+-])\s*(\d+))?$`)

// ParseDamage validates a damage notation. W and d are both accepted and
// a missing count means one die. An empty notation is DefaultDamage.
func ParseDamage(notation string) (*entities.DamageExpr, error) {
	notation = strings.TrimSpace(notation)
	if notation == "" {
		notation = DefaultDamage
	}

	matches := damageNotationRegex.FindStringSubmatch(strings.ToLower(notation))
	if matches == nil {
		return nil, errors.InvalidArgumentf("invalid damage notation: %s (expected format: XWY+Z)", notation)
	}

	count := 1
	if matches[1] != "" {
		n, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, errors.InvalidArgumentf("invalid dice count in notation: %s", notation)
		}
		count = n
	}

	sides, err := strconv.Atoi(matches[2])
	if err != nil {
		return nil, errors.InvalidArgumentf("invalid die size in notation: %s", notation)
	}

	if count <= 0 || sides <= 0 {
		return nil, errors.InvalidArgumentf("dice count and size must be positive: %s", notation)
	}

	if _, err := dice.NewRoll(count, sides); err != nil {
		return nil, errors.Wrapf(err, "invalid damage notation: %s", notation)
	}

	expr := &entities.DamageExpr{Count: count, Sides: sides}
	if matches[4] != "" {
		mod, err := strconv.Atoi(matches[4])
		if err != nil {
			return nil, errors.InvalidArgumentf("invalid damage modifier in notation: %s", notation)
		}
		if matches[3] == "-" {
			mod = -mod
		}
		expr.Modifier = mod
	}
	return expr, nil
}
