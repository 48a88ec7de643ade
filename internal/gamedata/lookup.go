package gamedata

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/pefman/stfc-combat/internal/mechanics"
)

// UnknownID is the display fallback for any lookup miss.
func UnknownID(id int64) string { return fmt.Sprintf("??? [%d]", id) }

// LookupTranslation returns the text of the first entry matching both id and key.
func LookupTranslation(table []Translation, id int64, key string) (string, bool) {
	for _, t := range table {
		if t.Key == key && t.ID == id {
			return t.Text, true
		}
	}
	return "", false
}

// translate falls back when the entry is missing or empty.
func translate(table []Translation, id int64, key, fallback string) string {
	if s, ok := LookupTranslation(table, id, key); ok && s != "" {
		return s
	}
	return fallback
}

// Hull types as the game client numbers them.
const (
	HullDestroyer    = 0
	HullSurvey       = 1
	HullExplorer     = 2
	HullBattleship   = 3
	HullDefense      = 4
	HullArmadaTarget = 5
)

func HullTypeName(id int) string {
	switch id {
	case HullArmadaTarget:
		return "ARMADA"
	case HullBattleship:
		return "BATTLESHIP"
	case HullDestroyer:
		return "INTERCEPTOR"
	case HullExplorer:
		return "EXPLORER"
	case HullDefense:
		return "DEFENSE"
	case HullSurvey:
		return "SURVEY"
	default:
		return fmt.Sprintf("??? (%d)", id)
	}
}

// HullClass maps a hull type onto the mitigation class used by the simulator.
func HullClass(id int) (mechanics.ShipClass, bool) {
	switch id {
	case HullDestroyer:
		return mechanics.Interceptor, true
	case HullSurvey:
		return mechanics.Survey, true
	case HullExplorer:
		return mechanics.Explorer, true
	case HullBattleship:
		return mechanics.Battleship, true
	case HullDefense, HullArmadaTarget:
		return mechanics.Structure, true
	}
	return "", false
}

func (gd *GameData) LookupSystemName(locaID int64) (string, bool) {
	return LookupTranslation(gd.Translations.Systems, locaID, "title")
}

func (gd *GameData) LookupComponentName(locaID int64) (string, bool) {
	s, ok := LookupTranslation(gd.Translations.ShipComponents, locaID, "component_name")
	if !ok || s == "" {
		return "", false
	}
	s = strings.Replace(s, " [ENERGY]", "", 1)
	s = strings.Replace(s, " [KINETIC]", "", 1)
	return s, true
}

type ComponentLookupResult struct {
	Component   Component `json:"component"`
	DisplayName string    `json:"displayName"`
}

// LookupComponent scans ships (by ascending id), their tiers and components,
// then hostiles. The first match wins.
func (gd *GameData) LookupComponent(id int64) (ComponentLookupResult, bool) {
	for _, shipID := range slices.Sorted(maps.Keys(gd.Ship)) {
		ship := gd.Ship[shipID]
		if ship == nil {
			continue
		}
		for _, tier := range ship.Tiers {
			for _, c := range tier.Components {
				if c.ID != id {
					continue
				}
				name, ok := gd.LookupComponentName(c.LocaID)
				if !ok {
					name = c.Data.Tag
				}
				return ComponentLookupResult{
					Component:   c,
					DisplayName: fmt.Sprintf("Mk%d %s", tier.Tier, name),
				}, true
			}
		}
	}
	for _, hostileID := range slices.Sorted(maps.Keys(gd.Hostile)) {
		hostile := gd.Hostile[hostileID]
		if hostile == nil {
			continue
		}
		for i, c := range hostile.Components {
			if c.ID != id {
				continue
			}
			ordinal := 0
			for _, c2 := range hostile.Components[:i+1] {
				if c2.Data.Tag == c.Data.Tag {
					ordinal++
				}
			}
			return ComponentLookupResult{
				Component:   c,
				DisplayName: fmt.Sprintf("%s %d", c.Data.Tag, ordinal),
			}, true
		}
	}
	return ComponentLookupResult{}, false
}

// WeaponBaseDamage returns the min/max damage of a weapon component, or zeros.
func (gd *GameData) WeaponBaseDamage(componentID int64) (min, max float64) {
	res, ok := gd.LookupComponent(componentID)
	if !ok || !res.Component.Data.IsWeapon() {
		return 0, 0
	}
	return res.Component.Data.MinimumDamage, res.Component.Data.MaximumDamage
}

type ItemLookupResult struct {
	ItemID      int64     `json:"item_id"`
	DisplayName string    `json:"displayName"`
	Data        *Resource `json:"data,omitempty"`
}

func (gd *GameData) LookupItem(itemID int64) ItemLookupResult {
	var details *Resource
	for i := range gd.ResourceSummary {
		if gd.ResourceSummary[i].ID == itemID {
			details = &gd.ResourceSummary[i]
			break
		}
	}
	name := UnknownID(itemID)
	if details != nil {
		name = translate(gd.Translations.Materials, details.LocaID, "resource_name", name)
	}
	return ItemLookupResult{ItemID: itemID, DisplayName: name, Data: details}
}

type OfficerLookupResult struct {
	ID          int64          `json:"id"`
	OfficerName string         `json:"officerName"`
	Details     *OfficerDetail `json:"details,omitempty"`
}

func (gd *GameData) LookupOfficer(id int64) OfficerLookupResult {
	details := gd.Officer[id]
	if details == nil {
		return OfficerLookupResult{ID: id, OfficerName: UnknownID(id)}
	}
	return OfficerLookupResult{
		ID:          id,
		OfficerName: translate(gd.Translations.OfficerNames, details.LocaID, "officer_name", UnknownID(id)),
		Details:     details,
	}
}

// LookupShipName resolves a hostile by loca id ("<name> (<level>)") or a player
// hull by hull id.
func (gd *GameData) LookupShipName(hullID, locaID int64, level int) (string, bool) {
	switch {
	case locaID != 0:
		name, ok := LookupTranslation(gd.Translations.Ships, locaID, "ship_name")
		if !ok || name == "" {
			name, ok = LookupTranslation(gd.Translations.OfficerNames, locaID, "officer_name")
		}
		if !ok || name == "" {
			name = UnknownID(locaID)
		}
		return fmt.Sprintf("%s (%d)", name, level), true
	case hullID != 0:
		ship := gd.Ship[hullID]
		if ship == nil {
			return "", false
		}
		name, ok := LookupTranslation(gd.Translations.Ships, ship.LocaID, "ship_name")
		return name, ok && name != ""
	default:
		return "", false
	}
}

// LookupShipDetails only resolves player hulls; hostiles have no ship record.
func (gd *GameData) LookupShipDetails(hullID, locaID int64) (*ShipDetail, bool) {
	if locaID != 0 || hullID == 0 {
		return nil, false
	}
	ship := gd.Ship[hullID]
	return ship, ship != nil
}

type BattleLogAbilityResult struct {
	SourceDisplayName  string `json:"sourceDisplayName"`
	AbilityDisplayName string `json:"abilityDisplayName"`
	Source             string `json:"source"`
}

const (
	SourceCaptainManeuver       = "CAPTAIN MANEUVER"
	SourceOfficerAbility        = "OFFICER ABILITY"
	SourceBelowDeckAbility      = "BELOW DECK ABILITY"
	SourceUnknownOfficerAbility = "UNKNOWN OFFICER ABILITY"
	SourceShipAbility           = "SHIP ABILITY"
	SourceUnknownShipAbility    = "UNKNOWN SHIP ABILITY"
	SourceForbiddenTech         = "FORBIDDEN TECH"
	SourceUnknownAbility        = "UNKNOWN ABILITY"
)

// LookupBattleLogAbility resolves the (id1, id2) pair carried by ability
// events. id2 names the owner (officer, ship or forbidden tech) and id1 is
// matched against that owner's ability slots.
func (gd *GameData) LookupBattleLogAbility(id1, id2 int64) BattleLogAbilityResult {
	if officer := gd.Officer[id2]; officer != nil {
		res := BattleLogAbilityResult{
			SourceDisplayName:  translate(gd.Translations.OfficerNames, officer.LocaID, "officer_name", UnknownID(id1)),
			AbilityDisplayName: UnknownID(id2),
			Source:             SourceUnknownOfficerAbility,
		}
		var slot *Buff
		switch {
		case officer.CaptainAbility.ID == id1:
			slot, res.Source = &officer.CaptainAbility, SourceCaptainManeuver
		case officer.Ability.ID == id1:
			slot, res.Source = &officer.Ability, SourceOfficerAbility
		case officer.BelowDecksAbility != nil && officer.BelowDecksAbility.ID == id1:
			slot, res.Source = officer.BelowDecksAbility, SourceBelowDeckAbility
		}
		if slot != nil {
			res.AbilityDisplayName = translate(gd.Translations.OfficerBuffs, slot.LocaID, "officer_ability_name", UnknownID(id2))
		}
		return res
	}

	if ship := gd.Ship[id2]; ship != nil {
		res := BattleLogAbilityResult{
			SourceDisplayName:  translate(gd.Translations.Ships, ship.LocaID, "ship_name", UnknownID(id2)),
			AbilityDisplayName: UnknownID(id1),
			Source:             SourceUnknownShipAbility,
		}
		if ship.Ability.ID == id1 {
			res.Source = SourceShipAbility
			res.AbilityDisplayName = translate(gd.Translations.ShipBuffs, ship.Ability.LocaID, "ship_ability_name", UnknownID(id1))
		}
		return res
	}

	if ft := gd.ForbiddenTech[id2]; ft != nil {
		abilityName := UnknownID(id2)
		if b := ft.findBuff(id1); b != nil {
			abilityName = translate(gd.Translations.ForbiddenTech, b.LocaID, "forbidden_tech_buff_name", abilityName)
		}
		return BattleLogAbilityResult{
			SourceDisplayName:  translate(gd.Translations.ForbiddenTech, ft.LocaID, "forbidden_tech_name", UnknownID(id1)),
			AbilityDisplayName: abilityName,
			Source:             SourceForbiddenTech,
		}
	}

	return BattleLogAbilityResult{
		SourceDisplayName:  UnknownID(id1),
		AbilityDisplayName: UnknownID(id2),
		Source:             SourceUnknownAbility,
	}
}

func (ft *ForbiddenTechDetail) findBuff(id int64) *Buff {
	for i := range ft.Buffs {
		for j := range ft.Buffs[i].Buffs {
			if ft.Buffs[i].Buffs[j].ID == id {
				return &ft.Buffs[i].Buffs[j]
			}
		}
	}
	return nil
}
