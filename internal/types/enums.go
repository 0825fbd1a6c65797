package types

// Closed enumerations. String values match what is persisted in the boards
// and listings tables; changing one is a schema migration.

// Profile is a board's bend profile.
type Profile string

const (
	ProfileCamber       Profile = "camber"
	ProfileRocker       Profile = "rocker"
	ProfileFlat         Profile = "flat"
	ProfileHybridCamber Profile = "hybrid_camber"
	ProfileHybridRocker Profile = "hybrid_rocker"
)

// Shape is a board's outline shape.
type Shape string

const (
	ShapeTrueTwin        Shape = "true_twin"
	ShapeDirectionalTwin Shape = "directional_twin"
	ShapeDirectional     Shape = "directional"
	ShapeTapered         Shape = "tapered"
)

// Category is the riding category a board is marketed for.
type Category string

const (
	CategoryAllMountain Category = "all_mountain"
	CategoryFreestyle   Category = "freestyle"
	CategoryFreeride    Category = "freeride"
	CategoryPowder      Category = "powder"
	CategoryPark        Category = "park"
)

// Categories lists all categories in canonical order. The order matters:
// keyword-scan ties resolve to the earliest entry.
var Categories = []Category{
	CategoryAllMountain,
	CategoryFreestyle,
	CategoryFreeride,
	CategoryPowder,
	CategoryPark,
}

// Ability is a rider skill level.
type Ability string

const (
	AbilityBeginner     Ability = "beginner"
	AbilityIntermediate Ability = "intermediate"
	AbilityAdvanced     Ability = "advanced"
	AbilityExpert       Ability = "expert"
)

// Gender is the marketed rider gender of a board or listing.
// Board keys only ever use unisex, womens, or kids; mens collapses
// into unisex at identity time.
type Gender string

const (
	GenderUnisex Gender = "unisex"
	GenderWomens Gender = "womens"
	GenderMens   Gender = "mens"
	GenderKids   Gender = "kids"
)

// Availability is a listing's stock state.
type Availability string

const (
	AvailabilityInStock    Availability = "in_stock"
	AvailabilityLowStock   Availability = "low_stock"
	AvailabilityOutOfStock Availability = "out_of_stock"
	AvailabilityUnknown    Availability = "unknown"
)

// Condition is a listing's product condition.
type Condition string

const (
	ConditionNew       Condition = "new"
	ConditionBlemished Condition = "blemished"
	ConditionCloseout  Condition = "closeout"
)

// TerrainScores rates a board per terrain on a 0..3 scale.
type TerrainScores struct {
	Piste     int `json:"piste"`
	Powder    int `json:"powder"`
	Park      int `json:"park"`
	Freeride  int `json:"freeride"`
	Freestyle int `json:"freestyle"`
}
