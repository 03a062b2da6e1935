package graphql

// Enum values as they appear on the wire.
const (
	ScopeDomestic      = "DOMESTIC"
	ScopeInternational = "INTERNATIONAL"

	UnitPerMile = "PER_MILE"
	UnitPerKG   = "PER_KG"

	QuotaAvailable = "AVAILABLE"
	QuotaExhausted = "EXHAUSTED"

	StatusIdle    = "IDLE"
	StatusLoading = "LOADING"
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

type Board struct {
	Name  string `json:"name"`
	Scope string `json:"scope"`
}

type Quote struct {
	Board       string   `json:"board"`
	AverageRate float64  `json:"averageRate"`
	Unit        string   `json:"unit"`
	Currency    string   `json:"currency"`
	TotalCost   *float64 `json:"totalCost"`
}

type SearchResult struct {
	Origin            string   `json:"origin"`
	Destination       string   `json:"destination"`
	Mileage           int      `json:"mileage"`
	International     bool     `json:"international"`
	FromCache         bool     `json:"fromCache"`
	Quotes            []*Quote `json:"quotes"`
	AverageRate       float64  `json:"averageRate"`
	TopCarrier        *Quote   `json:"topCarrier"`
	BoardErrors       []string `json:"boardErrors"`
	SearchesRemaining int      `json:"searchesRemaining"`
}

type Quota struct {
	Allowed   bool   `json:"allowed"`
	Remaining int    `json:"remaining"`
	Limit     int    `json:"limit"`
	State     string `json:"state"`
}

type SearchState struct {
	Status      string        `json:"status"`
	Generation  uint64        `json:"generation"`
	Origin      *string       `json:"origin"`
	Destination *string       `json:"destination"`
	Message     *string       `json:"message"`
	Result      *SearchResult `json:"result"`
}

type Estimate struct {
	Mileage   int  `json:"mileage"`
	FromCache bool `json:"fromCache"`
}

type Comparison struct {
	UserRate      float64 `json:"userRate"`
	MarketAverage float64 `json:"marketAverage"`
	Difference    float64 `json:"difference"`
	Verdict       string  `json:"verdict"`
}

type Plan struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	MonthlyPrice    float64 `json:"monthlyPrice"`
	MonthlySearches int     `json:"monthlySearches"`
}

type Account struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	Plan              *Plan  `json:"plan"`
	SearchesRemaining int    `json:"searchesRemaining"`
	CreatedAt         string `json:"createdAt"`
}

type SignUpInput struct {
	Email    string
	Password string
	Plan     *string
}
