package model

// PropertySummary is a read-only projection of an active property
type PropertySummary struct {
	ID           int64    `db:"id" json:"id"`
	Title        string   `db:"title" json:"title"`
	Slug         string   `db:"slug" json:"slug"`
	PropertyType string   `db:"property_type" json:"property_type"`
	Location     string   `db:"location" json:"location"`
	Price        *float64 `db:"price" json:"price,omitempty"`
	Rooms        *int     `db:"rooms" json:"rooms,omitempty"`
	Bathrooms    *int     `db:"bathrooms" json:"bathrooms,omitempty"`
	BuiltArea    *float64 `db:"built_area" json:"built_area,omitempty"`
	TotalArea    *float64 `db:"total_area" json:"total_area,omitempty"`
	MainImage    string   `db:"main_image" json:"main_image,omitempty"`
	Description  string   `db:"description" json:"description,omitempty"`
}

// Area returns the built area, falling back to the total area.
func (p PropertySummary) Area() *float64 {
	if p.BuiltArea != nil && *p.BuiltArea > 0 {
		return p.BuiltArea
	}
	return p.TotalArea
}

// ProjectSummary is a read-only projection of an active project
type ProjectSummary struct {
	ID          int64    `db:"id" json:"id"`
	Name        string   `db:"name" json:"name"`
	Slug        string   `db:"slug" json:"slug"`
	Location    string   `db:"location" json:"location"`
	PriceFrom   *float64 `db:"price_from" json:"price_from,omitempty"`
	MainImage   string   `db:"main_image" json:"main_image,omitempty"`
	Description string   `db:"description" json:"description,omitempty"`
}

// PropertyQuery are the filters accepted by the property repository.
// Location and Title are substring matches; when both are set either may match.
type PropertyQuery struct {
	PropertyType PropertyType
	BudgetMin    *float64
	BudgetMax    *float64
	RoomsMin     *int
	Location     string
	Title        string
	ExcludeIDs   []int64
	Limit        int
}

// ProjectQuery are the filters accepted by the project repository.
// Location matches the project location or name.
type ProjectQuery struct {
	Location string
	Limit    int
}

// FAQ is one active frequently-asked question
type FAQ struct {
	ID        int64  `db:"id" json:"id"`
	Question  string `db:"question" json:"question"`
	Answer    string `db:"answer" json:"answer"`
	Category  string `db:"category" json:"category"`
	Keywords  string `db:"keywords" json:"-"`
	SortOrder int    `db:"sort_order" json:"-"`
}
