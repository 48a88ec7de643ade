package gamedata

// ========================= Static game data =========================
// Shapes follow the community data export. Only the fields the lookups and
// the combat log pipeline read are modelled.

type Translation struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
	Key  string `json:"key"`
}

type Translations struct {
	Officers        []Translation `json:"officers"`
	OfficerNames    []Translation `json:"officer_names"`
	OfficerBuffs    []Translation `json:"officer_buffs"`
	Research        []Translation `json:"research"`
	StarbaseModules []Translation `json:"starbase_modules"`
	ShipComponents  []Translation `json:"ship_components"`
	Consumables     []Translation `json:"consumables"`
	Systems         []Translation `json:"systems"`
	ShipBuffs       []Translation `json:"ship_buffs"`
	ForbiddenTech   []Translation `json:"forbidden_tech"`
	Materials       []Translation `json:"materials"`
	Ships           []Translation `json:"ships"`
}

type BuffValue struct {
	Value  float64 `json:"value"`
	Chance float64 `json:"chance"`
}

type Buff struct {
	ID                int64       `json:"id"`
	LocaID            int64       `json:"loca_id"`
	ArtID             int64       `json:"art_id"`
	ValueIsPercentage bool        `json:"value_is_percentage"`
	ShowPercentage    bool        `json:"show_percentage"`
	Values            []BuffValue `json:"values,omitempty"`
}

type OfficerDetail struct {
	ID                int64 `json:"id"`
	ArtID             int64 `json:"art_id"`
	LocaID            int64 `json:"loca_id"`
	Class             int   `json:"class"`
	Rarity            int   `json:"rarity"`
	SynergyID         int64 `json:"synergy_id"`
	MaxRank           int   `json:"max_rank"`
	Ability           Buff  `json:"ability"`
	CaptainAbility    Buff  `json:"captain_ability"`
	BelowDecksAbility *Buff `json:"below_decks_ability,omitempty"`
}

// ComponentData flattens the tagged component union. Tag says which fields
// are meaningful.
type ComponentData struct {
	Tag string `json:"tag"`

	// Weapon
	Shots         float64 `json:"shots,omitempty"`
	WarmUp        float64 `json:"warm_up,omitempty"`
	CoolDown      float64 `json:"cool_down,omitempty"`
	Accuracy      float64 `json:"accuracy,omitempty"`
	Penetration   float64 `json:"penetration,omitempty"`
	Modulation    float64 `json:"modulation,omitempty"`
	MinimumDamage float64 `json:"minimum_damage,omitempty"`
	MaximumDamage float64 `json:"maximum_damage,omitempty"`
	CritChance    float64 `json:"crit_chance,omitempty"`
	CritModifier  float64 `json:"crit_modifier,omitempty"`
	WeaponType    int     `json:"weapon_type,omitempty"`

	// Armor / Shield
	Plating    float64 `json:"plating,omitempty"`
	HP         float64 `json:"hp,omitempty"`
	Absorption float64 `json:"absorption,omitempty"`
	Mitigation float64 `json:"mitigation,omitempty"`
	RegenTime  float64 `json:"regen_time,omitempty"`

	// Impulse / Deflector
	Impulse    float64 `json:"impulse,omitempty"`
	Dodge      float64 `json:"dodge,omitempty"`
	Deflection float64 `json:"deflection,omitempty"`
}

const (
	TagWeapon = "Weapon"
	TagArmor  = "Armor"
	TagShield = "Shield"
)

func (d ComponentData) IsWeapon() bool { return d.Tag == TagWeapon }

// WeaponDamageType is "ENERGY" for weapon_type 1 and "KINETIC" otherwise.
func (d ComponentData) WeaponDamageType() string {
	if d.WeaponType == 1 {
		return "ENERGY"
	}
	return "KINETIC"
}

type Component struct {
	ID     int64         `json:"id"`
	ArtID  int64         `json:"art_id"`
	LocaID int64         `json:"loca_id"`
	Order  int           `json:"order"`
	Data   ComponentData `json:"data"`
}

type Tier struct {
	Tier       int         `json:"tier"`
	Duration   int64       `json:"duration"`
	Components []Component `json:"components"`
}

type ShipLevel struct {
	Level  int     `json:"level"`
	XP     int64   `json:"xp"`
	Shield float64 `json:"shield"`
	Health float64 `json:"health"`
}

type ShipAbility struct {
	ID     int64       `json:"id"`
	LocaID int64       `json:"loca_id"`
	ArtID  int64       `json:"art_id"`
	Values []BuffValue `json:"values,omitempty"`
}

type ShipDetail struct {
	ID       int64       `json:"id"`
	ArtID    int64       `json:"art_id"`
	LocaID   int64       `json:"loca_id"`
	MaxTier  int         `json:"max_tier"`
	Rarity   int         `json:"rarity"`
	Grade    int         `json:"grade"`
	Faction  int64       `json:"faction"`
	HullType int         `json:"hull_type"`
	MaxLevel int         `json:"max_level"`
	Tiers    []Tier      `json:"tiers"`
	Levels   []ShipLevel `json:"levels"`
	Ability  ShipAbility `json:"ability"`
}

type HostileDetail struct {
	ID         int64       `json:"id"`
	LocaID     int64       `json:"loca_id"`
	Faction    int64       `json:"faction"`
	Level      int         `json:"level"`
	ShipType   int         `json:"ship_type"`
	IsScout    bool        `json:"is_scout"`
	HullType   int         `json:"hull_type"`
	Rarity     int         `json:"rarity"`
	Strength   float64     `json:"strength"`
	Components []Component `json:"components"`
	Ability    ShipAbility `json:"ability"`
}

type ResearchTree struct {
	ID     int64 `json:"id"`
	LocaID int64 `json:"loca_id"`
}

type ResearchDetail struct {
	ID           int64        `json:"id"`
	ArtID        int64        `json:"art_id"`
	LocaID       int64        `json:"loca_id"`
	ResearchTree ResearchTree `json:"research_tree"`
	Buffs        []Buff       `json:"buffs"`
	Row          int          `json:"row"`
	Column       int          `json:"column"`
	UnlockLevel  int          `json:"unlock_level"`
}

type BuildingDetail struct {
	ID          int64  `json:"id"`
	Buffs       []Buff `json:"buffs"`
	UnlockLevel int    `json:"unlock_level,omitempty"`
}

type ForbiddenTechTierBuffs struct {
	Tier  int    `json:"tier"`
	Buffs []Buff `json:"buffs"`
}

type ForbiddenTechDetail struct {
	ID      int64                    `json:"id"`
	ArtID   int64                    `json:"art_id"`
	LocaID  int64                    `json:"loca_id"`
	Rarity  int                      `json:"rarity"`
	Type    int                      `json:"type"`
	Subtype int                      `json:"subtype"`
	TierMax int                      `json:"tier_max"`
	Buffs   []ForbiddenTechTierBuffs `json:"buffs"`
}

type Consumable struct {
	ID              int64 `json:"id"`
	LocaID          int64 `json:"loca_id"`
	ArtID           int64 `json:"art_id"`
	Rarity          int   `json:"rarity"`
	Grade           int   `json:"grade"`
	RequiresSlot    bool  `json:"requires_slot"`
	DurationSeconds int64 `json:"duration_seconds"`
	Buff            Buff  `json:"buff"`
}

type Resource struct {
	ID           int64  `json:"id"`
	LocaID       int64  `json:"loca_id"`
	ArtID        int64  `json:"art_id"`
	Grade        int    `json:"grade"`
	Rarity       int    `json:"rarity"`
	ResourceID   string `json:"resource_id"`
	SortingIndex int    `json:"sorting_index"`
}

// GameData is the preloaded, read-only lookup structure. Nothing in this
// module mutates it after Decode.
type GameData struct {
	Version           string                         `json:"version"`
	Translations      Translations                   `json:"translations"`
	Officer           map[int64]*OfficerDetail       `json:"officer"`
	Ship              map[int64]*ShipDetail          `json:"ship"`
	Research          map[int64]*ResearchDetail      `json:"research"`
	Building          map[int64]*BuildingDetail      `json:"building"`
	Hostile           map[int64]*HostileDetail       `json:"hostile"`
	ForbiddenTech     map[int64]*ForbiddenTechDetail `json:"forbidden_tech"`
	ConsumableSummary []Consumable                   `json:"consumable_summary"`
	ResourceSummary   []Resource                     `json:"resource_summary"`
}
