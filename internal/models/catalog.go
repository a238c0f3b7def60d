package models

import "slices"

type CardType string

const (
	CardMicrowave  CardType = "microwave"
	CardFreeze     CardType = "freeze"
	CardDoubleSalt CardType = "double_salt"
	CardShake      CardType = "shake"
	CardSpoil      CardType = "spoil"
	CardSalt       CardType = "salt"
	CardTradeSeats CardType = "trade_seats"
	CardPeek       CardType = "peek"
	CardFoilWrap   CardType = "foil_wrap"
	CardBuffet     CardType = "buffet"
	CardTrash      CardType = "trash"
)

// CardMeta describes what a card needs from the player before it can be played.
type CardMeta struct {
	RequiresTarget   bool
	RequiresDiscards int
}

var cardMeta = map[CardType]CardMeta{
	CardMicrowave:  {RequiresTarget: true},
	CardFreeze:     {RequiresTarget: true},
	CardSalt:       {RequiresTarget: true},
	CardDoubleSalt: {},
	CardShake:      {},
	CardSpoil:      {},
	CardBuffet:     {},
	CardTrash:      {RequiresDiscards: 2},
	CardTradeSeats: {RequiresTarget: true},
	CardFoilWrap:   {},
	CardPeek:       {RequiresTarget: true},
}

func MetaFor(t CardType) (CardMeta, bool) {
	m, ok := cardMeta[t]
	return m, ok
}

// DeckEntry is one row of the 4-player deck composition.
type DeckEntry struct {
	Type  CardType
	Count int
}

// BaseDeck is the composition for 4 players. Order is the build order before shuffling.
var BaseDeck = []DeckEntry{
	{CardMicrowave, 8},
	{CardFreeze, 8},
	{CardDoubleSalt, 5},
	{CardShake, 5},
	{CardSpoil, 5},
	{CardSalt, 15},
	{CardTradeSeats, 10},
	{CardPeek, 9},
	{CardFoilWrap, 8},
	{CardBuffet, 8},
	{CardTrash, 8},
}

const (
	CategorySweet  = "Sweet"
	CategorySavory = "Savory"
)

const (
	RoleLast     = "last"
	RolePizza    = "pizza"
	RoleSushi    = "sushi"
	RoleDonut    = "donut"
	RoleIceCream = "ice_cream"
	RoleBurger   = "burger"
	RoleTaco     = "taco"
	RoleFries    = "fries"
)

// Roles is the snack catalog. Exactly one entry is the last snack.
var Roles = []Role{
	{ID: RoleLast, Name: "The Last Snack", IsLastSnack: true},
	{ID: RolePizza, Name: "Pizza", Category: CategorySavory, Weakness: "Cold", EliminatedBy: "Freeze"},
	{ID: RoleSushi, Name: "Sushi", Category: CategorySavory, Weakness: "Heat", EliminatedBy: "Microwave"},
	{ID: RoleDonut, Name: "Donut", Category: CategorySweet, Weakness: "Salt", EliminatedBy: "Double Salt"},
	{ID: RoleIceCream, Name: "Ice Cream", Category: CategorySweet, Weakness: "Heat", EliminatedBy: "Microwave"},
	{ID: RoleBurger, Name: "Burger", Category: CategorySavory, Weakness: "Mold", EliminatedBy: "Spoil"},
	{ID: RoleTaco, Name: "Taco", Category: CategorySavory, Weakness: "Shake", EliminatedBy: "Shake"},
	{ID: RoleFries, Name: "Fries", Category: CategorySavory, Weakness: "Soggy", EliminatedBy: "Steam"},
}

func RoleByID(id string) (Role, bool) {
	i := slices.IndexFunc(Roles, func(r Role) bool { return r.ID == id })
	if i < 0 {
		return Role{}, false
	}
	return Roles[i], true
}

// AvatarIDs lists every cosmetic avatar, two per snack that has artwork.
var AvatarIDs = []string{
	"pizza_1", "pizza_2",
	"donut_1", "donut_2",
	"burger_1", "burger_2",
	"ice_cream_1", "ice_cream_2",
	"sushi_1", "sushi_2",
	"taco_1", "taco_2",
}

// AvatarPairs maps a role to its dedicated avatar pair.
var AvatarPairs = map[string][2]string{
	RolePizza:    {"pizza_1", "pizza_2"},
	RoleDonut:    {"donut_1", "donut_2"},
	RoleBurger:   {"burger_1", "burger_2"},
	RoleIceCream: {"ice_cream_1", "ice_cream_2"},
	RoleSushi:    {"sushi_1", "sushi_2"},
	RoleTaco:     {"taco_1", "taco_2"},
}

func IsKnownAvatar(id string) bool {
	return slices.Contains(AvatarIDs, id)
}
