package model

// Intent is the discrete purpose assigned to a user turn.
type Intent string

const (
	IntentGreeting                 Intent = "greeting"
	IntentFarewell                 Intent = "farewell"
	IntentSearchProperty           Intent = "search_property"
	IntentPropertyFollowupQuestion Intent = "property_followup_question"
	IntentRequestAnotherOption     Intent = "request_another_option"
	IntentCompareOptions           Intent = "compare_options"
	IntentRequestRecommendation    Intent = "request_recommendation"
	IntentRequestInformation       Intent = "request_information"
	IntentBookAppointment          Intent = "book_appointment"
	IntentConfirmBookingData       Intent = "confirm_booking_data"
	IntentGeneralQuestion          Intent = "general_question"
)

// AllIntents lists every intent in declaration order.
var AllIntents = []Intent{
	IntentGreeting,
	IntentFarewell,
	IntentSearchProperty,
	IntentPropertyFollowupQuestion,
	IntentRequestAnotherOption,
	IntentCompareOptions,
	IntentRequestRecommendation,
	IntentRequestInformation,
	IntentBookAppointment,
	IntentConfirmBookingData,
	IntentGeneralQuestion,
}

// PropertyType is the commercial category of a listing.
type PropertyType string

const (
	PropertyTypeSale PropertyType = "sale"
	PropertyTypeRent PropertyType = "rent"
	PropertyTypeLot  PropertyType = "lot"
)

// ExtractedEntities holds the filters found in one piece of text.
// Nil pointers and empty strings mean "not mentioned".
type ExtractedEntities struct {
	PropertyType PropertyType `json:"property_type,omitempty"`
	BudgetMin    *float64     `json:"budget_min,omitempty"`
	BudgetMax    *float64     `json:"budget_max,omitempty"`
	RoomCount    *int         `json:"room_count,omitempty"`
	Location     string       `json:"location,omitempty"`
}

// IsEmpty reports whether nothing was extracted.
func (e ExtractedEntities) IsEmpty() bool {
	return e.PropertyType == "" && e.BudgetMin == nil && e.BudgetMax == nil && e.RoomCount == nil && e.Location == ""
}
