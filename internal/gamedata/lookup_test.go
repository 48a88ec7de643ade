package gamedata

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/pefman/stfc-combat/internal/mechanics"
)

const fixture = `{
  "version": "test",
  "translations": {
    "officers": [{"id": 900, "text": "Overclock", "key": "forbidden_tech_buff_name"}],
    "officer_names": [{"id": 10, "text": "Kirk", "key": "officer_name"}, {"id": 77, "text": "Gorkon", "key": "officer_name"}],
    "officer_buffs": [{"id": 11, "text": "Legendary Captain", "key": "officer_ability_name"},
                      {"id": 12, "text": "Stalwart", "key": "officer_ability_name"}],
    "research": [{"id": 300, "text": "Combat", "key": "research_tree_name"},
                 {"id": 301, "text": "Hull Integrity", "key": "research_project_name"},
                 {"id": 555, "text": "Bajoran Favor", "key": "name"}],
    "starbase_modules": [{"id": 42, "text": "Defense Platform", "key": "starbase_module_name"},
                         {"id": 43, "text": "Armor Boost", "key": "starbase_module_buff_name"}],
    "ship_components": [{"id": 600, "text": "Phaser [ENERGY]", "key": "component_name"}],
    "consumables": [{"id": 700, "text": "Damage Boost", "key": "consumable_name"}],
    "systems": [{"id": 800, "text": "Vulcan", "key": "title"}],
    "ship_buffs": [{"id": 501, "text": "Saladin Bonus", "key": "ship_ability_name"}],
    "forbidden_tech": [{"id": 900, "text": "Tribble Tech", "key": "forbidden_tech_name"},
                       {"id": 901, "text": "Tribble Buff", "key": "forbidden_tech_buff_name"}],
    "materials": [{"id": 1000, "text": "Tritanium", "key": "resource_name"}],
    "ships": [{"id": 500, "text": "Saladin", "key": "ship_name"}, {"id": 510, "text": "Klingon Raider", "key": "ship_name"}]
  },
  "officer": {
    "1": {"id": 1, "loca_id": 10,
          "captain_ability": {"id": 100, "loca_id": 11},
          "ability": {"id": 101, "loca_id": 12}},
    "42": {"id": 42, "loca_id": 77,
           "captain_ability": {"id": 7, "loca_id": 11},
           "ability": {"id": 8, "loca_id": 12}}
  },
  "ship": {
    "5": {"id": 5, "loca_id": 500, "hull_type": 0,
          "tiers": [{"tier": 2, "components": [{"id": 60, "loca_id": 600, "data": {"tag": "Weapon", "minimum_damage": 10, "maximum_damage": 20, "weapon_type": 1}}]}],
          "ability": {"id": 50, "loca_id": 501}}
  },
  "research": {
    "3": {"id": 3, "loca_id": 301, "research_tree": {"id": 30, "loca_id": 300}, "buffs": []}
  },
  "building": {
    "42": {"id": 42, "buffs": [{"id": 7, "loca_id": 43}]}
  },
  "hostile": {
    "9": {"id": 9, "loca_id": 510, "components": [
      {"id": 90, "data": {"tag": "Weapon"}},
      {"id": 91, "data": {"tag": "Armor"}},
      {"id": 92, "data": {"tag": "Weapon"}}
    ]}
  },
  "forbidden_tech": {
    "4": {"id": 4, "loca_id": 900, "buffs": [{"tier": 1, "buffs": [{"id": 40, "loca_id": 901}]}]}
  },
  "consumable_summary": [{"id": 70, "loca_id": 700}],
  "resource_summary": [{"id": 11, "loca_id": 1000}]
}`

func loadFixture(t *testing.T) *GameData {
	t.Helper()
	gd, err := Decode(strings.NewReader(fixture))
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return gd
}

func TestLookupBuffBuildingBeatsOfficer(t *testing.T) {
	gd := loadFixture(t)
	// activator 42 exists both as a building and as an officer, and buff 7
	// matches the officer's captain ability too.
	res := gd.LookupBuff(7, 42)
	if res.Data == nil || res.Data.BuffType() != BuffTypeBuilding {
		t.Fatalf("expected building, got %#v", res.Data)
	}
	if res.ActivatorDisplayName != "Defense Platform" || res.BuffDisplayName != "Armor Boost" {
		t.Fatalf("unexpected names %q / %q", res.ActivatorDisplayName, res.BuffDisplayName)
	}
	// unknown buff on a known building still reports building
	res = gd.LookupBuff(999, 42)
	if res.Data.BuffType() != BuffTypeBuilding || res.BuffDisplayName != "??? [999]" {
		t.Fatalf("expected building with unknown buff name, got %+v", res)
	}
}

func TestLookupBuffSources(t *testing.T) {
	gd := loadFixture(t)

	res := gd.LookupBuff(1, 3)
	if res.Data.BuffType() != BuffTypeResearch || res.ActivatorDisplayName != "Combat" || res.BuffDisplayName != "Hull Integrity" {
		t.Fatalf("unexpected research result %+v", res)
	}

	res = gd.LookupBuff(100, 1)
	off, ok := res.Data.(BuffOfficer)
	if !ok || off.Subtype != OfficerSlotCaptain || res.BuffDisplayName != "Legendary Captain" || res.ActivatorDisplayName != "Kirk" {
		t.Fatalf("unexpected officer result %+v", res)
	}
	res = gd.LookupBuff(101, 1)
	if off := res.Data.(BuffOfficer); off.Subtype != OfficerSlotAbility || res.BuffDisplayName != "Stalwart" {
		t.Fatalf("unexpected officer ability result %+v", res)
	}
	res = gd.LookupBuff(102, 1)
	if off := res.Data.(BuffOfficer); off.Subtype != OfficerSlotOther || res.BuffDisplayName != "??? [102]" {
		t.Fatalf("unexpected officer other result %+v", res)
	}

	res = gd.LookupBuff(40, 4)
	if res.Data.BuffType() != BuffTypeForbiddenTech || res.ActivatorDisplayName != "Tribble Tech" || res.BuffDisplayName != "Overclock" {
		t.Fatalf("unexpected forbidden tech result %+v", res)
	}

	res = gd.LookupBuff(1, 555)
	if res.Data.BuffType() != BuffTypeOther || res.ActivatorDisplayName != "RESEARCH?" || res.BuffDisplayName != "Bajoran Favor" {
		t.Fatalf("unexpected other result %+v", res)
	}

	res = gd.LookupBuff(70, -1)
	if res.Data.BuffType() != BuffTypeConsumable || res.ActivatorDisplayName != "CONSUMABLE?" || res.BuffDisplayName != "Damage Boost" {
		t.Fatalf("unexpected consumable result %+v", res)
	}
	res = gd.LookupBuff(70, 12345)
	if res.ActivatorDisplayName != "??? [12345]" {
		t.Fatalf("expected unknown activator for consumable, got %q", res.ActivatorDisplayName)
	}

	res = gd.LookupBuff(123, 456)
	if res.Data != nil || res.BuffDisplayName != "??? [123]" || res.ActivatorDisplayName != "??? [456]" {
		t.Fatalf("unexpected miss result %+v", res)
	}
}

func TestBuffLookupJSON(t *testing.T) {
	gd := loadFixture(t)
	b, err := json.Marshal(gd.LookupBuff(100, 1))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, `"type":"officer"`) || !strings.Contains(s, `"subtype":"captain_ability"`) {
		t.Fatalf("unexpected json %s", s)
	}
	b, _ = json.Marshal(gd.LookupBuff(1, 2))
	if !strings.Contains(string(b), `"data":null`) {
		t.Fatalf("expected null data, got %s", b)
	}
}

func TestLookupComponent(t *testing.T) {
	gd := loadFixture(t)
	res, ok := gd.LookupComponent(60)
	if !ok || res.DisplayName != "Mk2 Phaser" {
		t.Fatalf("expected Mk2 Phaser, got %q (%v)", res.DisplayName, ok)
	}
	if res.Component.Data.WeaponDamageType() != "ENERGY" {
		t.Fatalf("expected energy weapon")
	}
	res, ok = gd.LookupComponent(92)
	if !ok || res.DisplayName != "Weapon 2" {
		t.Fatalf("expected second hostile weapon, got %q", res.DisplayName)
	}
	if _, ok := gd.LookupComponent(12345); ok {
		t.Fatalf("expected miss")
	}
	min, max := gd.WeaponBaseDamage(60)
	if min != 10 || max != 20 {
		t.Fatalf("expected 10-20, got %v-%v", min, max)
	}
	if min, max := gd.WeaponBaseDamage(91); min != 0 || max != 0 {
		t.Fatalf("armor should have no weapon damage")
	}
}

func TestLookupBattleLogAbility(t *testing.T) {
	gd := loadFixture(t)

	res := gd.LookupBattleLogAbility(100, 1)
	if res.Source != SourceCaptainManeuver || res.SourceDisplayName != "Kirk" || res.AbilityDisplayName != "Legendary Captain" {
		t.Fatalf("unexpected officer ability %+v", res)
	}
	res = gd.LookupBattleLogAbility(999, 1)
	if res.Source != SourceUnknownOfficerAbility {
		t.Fatalf("expected unknown officer ability, got %q", res.Source)
	}
	res = gd.LookupBattleLogAbility(50, 5)
	if res.Source != SourceShipAbility || res.SourceDisplayName != "Saladin" || res.AbilityDisplayName != "Saladin Bonus" {
		t.Fatalf("unexpected ship ability %+v", res)
	}
	res = gd.LookupBattleLogAbility(51, 5)
	if res.Source != "UNKNOWN SHIP ABILITY" {
		t.Fatalf("expected unknown ship ability, got %q", res.Source)
	}
	res = gd.LookupBattleLogAbility(40, 4)
	if res.Source != SourceForbiddenTech || res.SourceDisplayName != "Tribble Tech" || res.AbilityDisplayName != "Tribble Buff" {
		t.Fatalf("unexpected forbidden tech ability %+v", res)
	}
	res = gd.LookupBattleLogAbility(3, 4444)
	if res.Source != SourceUnknownAbility || res.SourceDisplayName != "??? [3]" || res.AbilityDisplayName != "??? [4444]" {
		t.Fatalf("unexpected miss %+v", res)
	}
}

func TestLookupNames(t *testing.T) {
	gd := loadFixture(t)

	if name, ok := gd.LookupShipName(5, 0, 0); !ok || name != "Saladin" {
		t.Fatalf("expected Saladin, got %q", name)
	}
	if name, ok := gd.LookupShipName(0, 510, 31); !ok || name != "Klingon Raider (31)" {
		t.Fatalf("expected hostile name with level, got %q", name)
	}
	if _, ok := gd.LookupShipName(0, 0, 0); ok {
		t.Fatalf("expected miss for zero ids")
	}
	if d, ok := gd.LookupShipDetails(5, 0); !ok || d.ID != 5 {
		t.Fatalf("expected ship details")
	}
	if _, ok := gd.LookupShipDetails(5, 510); ok {
		t.Fatalf("hostiles have no ship details")
	}
	if o := gd.LookupOfficer(1); o.OfficerName != "Kirk" || o.Details == nil {
		t.Fatalf("unexpected officer %+v", o)
	}
	if o := gd.LookupOfficer(2); o.OfficerName != "??? [2]" || o.Details != nil {
		t.Fatalf("unexpected officer miss %+v", o)
	}
	if it := gd.LookupItem(11); it.DisplayName != "Tritanium" {
		t.Fatalf("expected Tritanium, got %q", it.DisplayName)
	}
	if it := gd.LookupItem(12); it.DisplayName != "??? [12]" || it.Data != nil {
		t.Fatalf("unexpected item miss %+v", it)
	}
	if s, ok := gd.LookupSystemName(800); !ok || s != "Vulcan" {
		t.Fatalf("expected Vulcan, got %q", s)
	}
}

func TestHullClass(t *testing.T) {
	if c, ok := HullClass(HullDestroyer); !ok || c != mechanics.Interceptor {
		t.Fatalf("destroyer should map to interceptor")
	}
	if c, _ := HullClass(HullArmadaTarget); c != mechanics.Structure {
		t.Fatalf("armada should map to structure")
	}
	if _, ok := HullClass(17); ok {
		t.Fatalf("unknown hull should not map")
	}
	if HullTypeName(17) != "??? (17)" || HullTypeName(HullSurvey) != "SURVEY" {
		t.Fatalf("unexpected hull names")
	}
}

func TestEmptyGameData(t *testing.T) {
	gd := Empty()
	if res := gd.LookupBuff(1, 2); res.Data != nil {
		t.Fatalf("expected miss on empty data")
	}
	if _, err := Decode(strings.NewReader("{")); err == nil {
		t.Fatalf("expected decode error")
	}
}
