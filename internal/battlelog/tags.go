package battlelog

// Tag is a structural marker in the battle log stream. Every tag is negative;
// everything else, 0 included, is payload.
type Tag int64

const (
	StartRound    Tag = -96
	EndRound      Tag = -97
	StartAttack   Tag = -98
	EndAttack     Tag = -99
	AttackCharge  Tag = -95
	StartSubRound Tag = -90
	EndSubRound   Tag = -89

	OfficerAbilitiesFiring Tag = -93
	OfficerAbilitiesFired  Tag = -94
	OfficerAbilityStart    Tag = -91
	OfficerAbilityEnd      Tag = -92

	OfficerAbilitiesAppliedStart Tag = -88
	OfficerAbilitiesAppliedEnd   Tag = -87
	OfficerAbilityAppliedStart   Tag = -86
	OfficerAbilityAppliedEnd     Tag = -85

	ForbiddenTechBuffsAppliedStart Tag = -84
	ForbiddenTechBuffsAppliedEnd   Tag = -83
	ForbiddenTechBuffAppliedStart  Tag = -82
	ForbiddenTechBuffAppliedEnd    Tag = -81

	HullRepairStart Tag = -80
	HullRepairEnd   Tag = -79
)

type tagShape int

const (
	shapeLeaf tagShape = iota
	shapeOpen
	shapeClose
)

type tagInfo struct {
	name  string
	shape tagShape
}

var tagTable = map[Tag]tagInfo{
	StartRound:    {"START_ROUND", shapeOpen},
	EndRound:      {"END_ROUND", shapeClose},
	StartAttack:   {"START_ATTACK", shapeOpen},
	EndAttack:     {"END_ATTACK", shapeClose},
	AttackCharge:  {"ATTACK_CHARGE", shapeLeaf},
	StartSubRound: {"START_SUB_ROUND", shapeOpen},
	EndSubRound:   {"END_SUB_ROUND", shapeClose},

	OfficerAbilitiesFiring: {"OFFICER_ABILITIES_FIRING", shapeOpen},
	OfficerAbilitiesFired:  {"OFFICER_ABILITIES_FIRED", shapeClose},
	OfficerAbilityStart:    {"OFFICER_ABILITY_START", shapeOpen},
	OfficerAbilityEnd:      {"OFFICER_ABILITY_END", shapeClose},

	OfficerAbilitiesAppliedStart: {"OFFICER_ABILITIES_APPLIED_START", shapeOpen},
	OfficerAbilitiesAppliedEnd:   {"OFFICER_ABILITIES_APPLIED_END", shapeClose},
	OfficerAbilityAppliedStart:   {"OFFICER_ABILITY_APPLIED_START", shapeOpen},
	OfficerAbilityAppliedEnd:     {"OFFICER_ABILITY_APPLIED_END", shapeClose},

	ForbiddenTechBuffsAppliedStart: {"FORBIDDEN_TECH_BUFFS_APPLIED_START", shapeOpen},
	ForbiddenTechBuffsAppliedEnd:   {"FORBIDDEN_TECH_BUFFS_APPLIED_END", shapeClose},
	ForbiddenTechBuffAppliedStart:  {"FORBIDDEN_TECH_BUFF_APPLIED_START", shapeOpen},
	ForbiddenTechBuffAppliedEnd:    {"FORBIDDEN_TECH_BUFF_APPLIED_END", shapeClose},

	HullRepairStart: {"HULL_REPAIR_START", shapeOpen},
	HullRepairEnd:   {"HULL_REPAIR_END", shapeClose},
}

// String returns the symbolic name, or the decimal value for unknown tags.
func (t Tag) String() string {
	if info, ok := tagTable[t]; ok {
		return info.name
	}
	return formatInt(int64(t))
}

// Ability block delimiters. Officer, forbidden tech and attack trigger blocks
// all share one inner grammar and differ only in these literals. Each opening
// tag maps to the only closing tag that may end it.
var (
	blockPairs = map[Tag]Tag{
		OfficerAbilitiesAppliedStart:   OfficerAbilitiesAppliedEnd,
		ForbiddenTechBuffsAppliedStart: ForbiddenTechBuffsAppliedEnd,
		OfficerAbilitiesFiring:         OfficerAbilitiesFired,
	}
	abilityPairs = map[Tag]Tag{
		OfficerAbilityStart:           OfficerAbilityEnd,
		OfficerAbilityAppliedStart:    OfficerAbilityAppliedEnd,
		ForbiddenTechBuffAppliedStart: ForbiddenTechBuffAppliedEnd,
	}
)

// readOpen consumes an opening tag from pairs and returns its closing tag.
func readOpen(in *TokenStream, pairs map[Tag]Tag) (Tag, error) {
	if !in.HasMore() {
		return 0, in.Unexpected()
	}
	end, ok := pairs[Tag(in.data[in.pos])]
	if !ok {
		return 0, in.Unexpected()
	}
	in.Read()
	return end, nil
}

func isOpen(x int64, pairs map[Tag]Tag) bool {
	_, ok := pairs[Tag(x)]
	return ok
}

func isOneOf(x int64, tags []Tag) bool {
	for _, t := range tags {
		if int64(t) == x {
			return true
		}
	}
	return false
}
