package scoring

// Currencies is the fixed scoring universe: 8 fiat plus gold and silver.
var Currencies = []string{"USD", "EUR", "GBP", "JPY", "CAD", "AUD", "NZD", "CHF", "XAU", "XAG"}

// Pair is one tracked FX pair; bias is quoted as quote strength minus base.
type Pair struct {
	Base  string
	Quote string
}

// Pairs is the fixed published pair universe.
var Pairs = []Pair{
	// majors
	{"EUR", "USD"}, {"GBP", "USD"}, {"USD", "JPY"}, {"USD", "CHF"},
	{"USD", "CAD"}, {"AUD", "USD"}, {"NZD", "USD"},
	// EUR crosses
	{"EUR", "GBP"}, {"EUR", "JPY"}, {"EUR", "CHF"},
	{"EUR", "AUD"}, {"EUR", "CAD"}, {"EUR", "NZD"},
	// GBP crosses
	{"GBP", "JPY"}, {"GBP", "CHF"}, {"GBP", "AUD"},
	{"GBP", "CAD"}, {"GBP", "NZD"},
	// AUD crosses
	{"AUD", "JPY"}, {"AUD", "CHF"}, {"AUD", "NZD"}, {"AUD", "CAD"},
	// NZD crosses
	{"NZD", "JPY"}, {"NZD", "CHF"}, {"NZD", "CAD"},
	// CAD & CHF crosses
	{"CAD", "JPY"}, {"CAD", "CHF"}, {"CHF", "JPY"},
	// metals
	{"XAU", "USD"}, {"XAG", "USD"},
}

// Index is one tracked equity index and its home currency.
type Index struct {
	Code     string
	Currency string
	Name     string
}

// Indices is the fixed published index universe.
var Indices = []Index{
	{"US500", "USD", "S&P 500"},
	{"US100", "USD", "Nasdaq 100"},
	{"US30", "USD", "Dow Jones"},
	{"UK100", "GBP", "FTSE 100"},
	{"GER40", "EUR", "DAX 40"},
	{"FRA40", "EUR", "CAC 40"},
	{"EU50", "EUR", "EuroStoxx 50"},
	{"JP225", "JPY", "Nikkei 225"},
	{"HK50", "HKD", "Hang Seng"},
	{"AUS200", "AUD", "ASX 200"},
}
