package nlu

// Keyword phrases are matched as whole words against normalized text with
// apostrophes removed ("that's" is written "thats").

var greetingWords = []string{
	"hi", "hello", "hey", "hola", "howdy", "greetings",
	"good morning", "good afternoon", "good evening", "good day", "whats up",
}

var farewellWords = []string{
	"bye", "goodbye", "bye bye", "thanks", "thank you", "thx", "see you", "see ya",
	"thats all", "that is all", "nothing else", "take care", "have a nice day", "have a good day",
}

var bookingWords = []string{
	"schedule", "book", "booking", "visit", "visiting", "appointment", "tour", "viewing",
	"see it", "see the property", "see the house", "see the apartment", "see the project",
	"reserve", "when can i", "available times", "date", "time", "hour",
}

var searchWords = []string{
	"looking for", "search", "find", "property", "properties", "house", "houses", "home", "homes",
	"apartment", "apartments", "flat", "flats", "condo", "condos", "lot", "lots", "land", "plot",
	"sale", "for sale", "rent", "rental", "lease", "buy", "price", "prices", "budget", "cost", "how much",
	"room", "rooms", "bedroom", "bedrooms", "bathroom", "bathrooms", "location", "zone", "area", "city",
	"neighborhood", "project", "projects", "options", "available", "listing", "listings",
}

var infoWords = []string{
	"information", "info", "how", "what", "where", "who", "contact", "phone", "email", "address",
	"financing", "finance", "mortgage", "loan", "credit", "installments", "requirements", "documents",
	"office", "hours", "tell me", "know",
}

var haveWords = []string{"have", "is there", "are there"}

var haveDwellingWords = []string{
	"property", "properties", "house", "houses", "home", "apartment", "apartments",
	"project", "projects", "sale", "rent", "lot", "lots",
}

var anotherOptionWords = []string{
	"another", "another one", "other option", "other options", "something else", "what else",
	"anything else", "more options", "next one", "show me more", "different one",
}

var followupWords = []string{
	"bathroom", "bathrooms", "how many", "does it", "is it", "how big", "size", "square meters",
	"more details", "tell me more", "what about it",
}

var compareWords = []string{
	"compare", "comparison", "difference", "differences", "versus", "vs", "which is better", "which one is better",
}

var recommendWords = []string{
	"recommend", "recommendation", "recommendations", "suggest", "suggestion", "best option", "what would you",
}

var maxBudgetWords = []string{
	"max", "maximum", "up to", "less than", "under", "below", "at most", "no more than",
}

var rentTypeWords = []string{"for rent", "rent", "rental", "rentals", "renting", "lease", "leasing"}

var lotTypeWords = []string{"lot", "lots", "land", "plot", "plots"}

var saleTypeWords = []string{
	"for sale", "sale", "house", "houses", "home", "homes", "apartment", "apartments",
	"flat", "flats", "condo", "condos", "dwelling",
}

var (
	rentTypePrefixes = []string{"rent", "leas"}
	lotTypePrefixes  = []string{"plot"}
	saleTypePrefixes = []string{"sale", "sell", "buy", "purchas"}
)

// knownPlaces is the location whitelist used when no preposition anchors a place.
var knownPlaces = []string{
	"north", "south", "east", "west", "downtown", "center", "centre",
	"cali", "bogota", "medellin", "pereira", "armenia", "prado",
}

// locationStopWords end a preposition-anchored location capture.
var locationStopWords = map[string]bool{
	"for": true, "with": true, "under": true, "below": true, "up": true, "to": true, "less": true,
	"than": true, "max": true, "maximum": true, "most": true, "least": true, "and": true, "or": true,
	"but": true, "that": true, "which": true, "please": true, "around": true, "near": true, "in": true,
	"of": true, "at": true, "budget": true, "price": true, "room": true, "rooms": true, "bedroom": true,
	"bedrooms": true, "house": true, "houses": true, "apartment": true, "apartments": true, "home": true,
	"homes": true, "lot": true, "lots": true, "property": true, "properties": true, "sale": true,
	"rent": true, "looking": true, "buying": true, "renting": true, "i": true, "we": true, "you": true,
	"it": true, "this": true, "there": true, "here": true, "me": true, "my": true, "your": true,
	"them": true, "is": true, "are": true, "million": true, "millions": true, "about": true,
}

var locationLeadingArticles = map[string]bool{"the": true, "a": true, "an": true}

var infoSubjectPrefixes = []string{
	"information about ", "information on ", "information of ", "info about ", "info on ", "info of ",
	"tell me about ", "details about ", "details on ", "whats in ", "what is there in ",
}

var infoSubjectStarts = []string{
	"what is the ", "what is a ", "what is ", "whats the ", "whats ",
}

var locationQuestionWords = []string{
	"where are you", "located", "address", "your office", "where is the office",
}

var aboutUsWords = []string{
	"who are you", "about you", "about the company", "your company", "who is behind",
}

var detailQuestionWords = []string{
	"garage", "parking", "services", "services included", "included", "requirements", "documents",
	"lot", "lots", "rent", "rental",
}

var (
	bathroomQuestionWords = []string{"bathroom", "bathrooms", "bath", "baths", "toilet", "toilets"}
	roomQuestionWords     = []string{"room", "rooms", "bedroom", "bedrooms"}
	areaQuestionWords     = []string{"area", "size", "how big", "square meters", "m2", "meters"}
	priceQuestionWords    = []string{"price", "cost", "how much"}
)
