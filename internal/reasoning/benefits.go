package reasoning

import (
	"fmt"
	"strings"

	"github.com/Santiagodiaz04/chatbot-api/internal/model"
)

// Benefit phrases
const (
	BenefitSpacious    = "spacious"
	BenefitWellLocated = "well located"
	BenefitWellLit     = "well lit"
	BenefitParking     = "has parking"
	BenefitAvailable   = "available for a visit"
)

const (
	maxBenefits      = 3
	spaciousAreaM2   = 80
	benefitSeparator = ", "
)

var (
	lightFragments   = []string{"light", "bright", "illuminat"}
	parkingFragments = []string{"parking", "garage"}
)

// Benefits derives up to three short selling points from stored data only.
// Description-based benefits need the literal fragment in the description.
func Benefits(p model.PropertySummary) []string {
	benefits := []string{}

	if p.Rooms != nil {
		benefits = append(benefits, roomsPhrase(*p.Rooms))
	}

	if area := p.Area(); area != nil && *area > spaciousAreaM2 {
		benefits = append(benefits, BenefitSpacious)
	}

	if strings.TrimSpace(p.Location) != "" {
		benefits = append(benefits, BenefitWellLocated)
	}

	desc := strings.ToLower(p.Description)
	if containsAny(desc, lightFragments) {
		benefits = append(benefits, BenefitWellLit)
	}
	if containsAny(desc, parkingFragments) {
		benefits = append(benefits, BenefitParking)
	}

	if len(benefits) == 0 {
		benefits = append(benefits, BenefitAvailable)
	}
	if len(benefits) > maxBenefits {
		benefits = benefits[:maxBenefits]
	}
	return benefits
}

// BenefitText joins the benefits of p for use inside a sentence.
func BenefitText(p model.PropertySummary) string {
	return strings.Join(Benefits(p), benefitSeparator)
}

func roomsPhrase(n int) string {
	if n == 1 {
		return "1 room"
	}
	return fmt.Sprintf("%d rooms", n)
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}
