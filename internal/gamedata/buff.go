package gamedata

import "encoding/json"

// Buff sources reported in BuffLookupResult.Data.
const (
	BuffTypeResearch      = "research"
	BuffTypeBuilding      = "building"
	BuffTypeOfficer       = "officer"
	BuffTypeForbiddenTech = "forbidden_tech"
	BuffTypeOther         = "other"
	BuffTypeConsumable    = "consumable"
)

// Officer buff slots.
const (
	OfficerSlotCaptain    = "captain_ability"
	OfficerSlotAbility    = "officer_ability"
	OfficerSlotBelowDecks = "below_decks_ability"
	OfficerSlotOther      = "other"
)

// BuffData is one of BuffResearch, BuffBuilding, BuffOfficer,
// BuffForbiddenTech, BuffOther or BuffConsumable.
type BuffData interface {
	BuffType() string
}

type BuffResearch struct{ Details *ResearchDetail }
type BuffBuilding struct{ Details *BuildingDetail }
type BuffOfficer struct {
	Subtype string
	Details *OfficerDetail
}
type BuffForbiddenTech struct{ Details *ForbiddenTechDetail }
type BuffOther struct{}
type BuffConsumable struct{}

func (BuffResearch) BuffType() string      { return BuffTypeResearch }
func (BuffBuilding) BuffType() string      { return BuffTypeBuilding }
func (BuffOfficer) BuffType() string       { return BuffTypeOfficer }
func (BuffForbiddenTech) BuffType() string { return BuffTypeForbiddenTech }
func (BuffOther) BuffType() string         { return BuffTypeOther }
func (BuffConsumable) BuffType() string    { return BuffTypeConsumable }

type buffDataJSON struct {
	Type    string `json:"type"`
	Subtype string `json:"subtype,omitempty"`
	Details any    `json:"details"`
}

func (b BuffResearch) MarshalJSON() ([]byte, error) {
	return json.Marshal(buffDataJSON{Type: b.BuffType(), Details: b.Details})
}

func (b BuffBuilding) MarshalJSON() ([]byte, error) {
	return json.Marshal(buffDataJSON{Type: b.BuffType(), Details: b.Details})
}

func (b BuffOfficer) MarshalJSON() ([]byte, error) {
	return json.Marshal(buffDataJSON{Type: b.BuffType(), Subtype: b.Subtype, Details: b.Details})
}

func (b BuffForbiddenTech) MarshalJSON() ([]byte, error) {
	return json.Marshal(buffDataJSON{Type: b.BuffType(), Details: b.Details})
}

func (b BuffOther) MarshalJSON() ([]byte, error) {
	return json.Marshal(buffDataJSON{Type: b.BuffType()})
}

func (b BuffConsumable) MarshalJSON() ([]byte, error) {
	return json.Marshal(buffDataJSON{Type: b.BuffType()})
}

type BuffLookupResult struct {
	BuffID               int64    `json:"buff_id"`
	ActivatorID          int64    `json:"activator_id"`
	BuffDisplayName      string   `json:"buffDisplayName"`
	ActivatorDisplayName string   `json:"activatorDisplayName"`
	Data                 BuffData `json:"data"`
}

// LookupBuff resolves an active buff by its activator. Sources are probed in a
// fixed order (research, building, officer, forbidden tech, research name,
// consumable) and the first table holding activatorID decides the type, even
// when the buff itself is not found there.
func (gd *GameData) LookupBuff(buffID, activatorID int64) BuffLookupResult {
	res := BuffLookupResult{
		BuffID:               buffID,
		ActivatorID:          activatorID,
		BuffDisplayName:      UnknownID(buffID),
		ActivatorDisplayName: UnknownID(activatorID),
	}

	if research := gd.Research[activatorID]; research != nil {
		res.ActivatorDisplayName = translate(gd.Translations.Research, research.ResearchTree.LocaID, "research_tree_name",
			UnknownID(research.ResearchTree.LocaID))
		res.BuffDisplayName = translate(gd.Translations.Research, research.LocaID, "research_project_name", res.BuffDisplayName)
		res.Data = BuffResearch{Details: research}
		return res
	}

	if building := gd.Building[activatorID]; building != nil {
		res.ActivatorDisplayName = translate(gd.Translations.StarbaseModules, activatorID, "starbase_module_name", res.ActivatorDisplayName)
		for _, b := range building.Buffs {
			if b.ID == buffID {
				res.BuffDisplayName = translate(gd.Translations.StarbaseModules, b.LocaID, "starbase_module_buff_name", res.BuffDisplayName)
				break
			}
		}
		res.Data = BuffBuilding{Details: building}
		return res
	}

	if officer := gd.Officer[activatorID]; officer != nil {
		res.ActivatorDisplayName = translate(gd.Translations.OfficerNames, officer.LocaID, "officer_name", res.ActivatorDisplayName)
		data := BuffOfficer{Subtype: OfficerSlotOther, Details: officer}
		var slot *Buff
		switch {
		case officer.CaptainAbility.ID == buffID:
			slot, data.Subtype = &officer.CaptainAbility, OfficerSlotCaptain
		case officer.Ability.ID == buffID:
			slot, data.Subtype = &officer.Ability, OfficerSlotAbility
		case officer.BelowDecksAbility != nil && officer.BelowDecksAbility.ID == buffID:
			slot, data.Subtype = officer.BelowDecksAbility, OfficerSlotBelowDecks
		}
		if slot != nil {
			res.BuffDisplayName = translate(gd.Translations.OfficerBuffs, slot.LocaID, "officer_ability_name", res.BuffDisplayName)
		}
		res.Data = data
		return res
	}

	if ft := gd.ForbiddenTech[activatorID]; ft != nil {
		res.ActivatorDisplayName = translate(gd.Translations.ForbiddenTech, ft.LocaID, "forbidden_tech_name", res.ActivatorDisplayName)
		// The export files forbidden tech buff names under the officers table.
		res.BuffDisplayName = translate(gd.Translations.Officers, ft.LocaID, "forbidden_tech_buff_name", res.BuffDisplayName)
		res.Data = BuffForbiddenTech{Details: ft}
		return res
	}

	// Faction favours and similar carry the research translation id as activator.
	if name, ok := LookupTranslation(gd.Translations.Research, activatorID, "name"); ok {
		res.ActivatorDisplayName = "RESEARCH?"
		res.BuffDisplayName = name
		res.Data = BuffOther{}
		return res
	}

	for _, c := range gd.ConsumableSummary {
		if c.ID != buffID {
			continue
		}
		if activatorID == -1 {
			res.ActivatorDisplayName = "CONSUMABLE?"
		}
		res.BuffDisplayName = translate(gd.Translations.Consumables, c.LocaID, "consumable_name", res.BuffDisplayName)
		res.Data = BuffConsumable{}
		return res
	}

	return res
}
