package template

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// Faker Data
// =============================================================================

var (
	fakerFirstNames = []string{
		"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael", "Linda",
		"William", "Elizabeth", "David", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
		"Wei", "Yuki", "Amara", "Lucas", "Sofia", "Mateo", "Priya", "Noah",
	}
	fakerLastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
		"Rodriguez", "Martinez", "Hernandez", "Lopez", "Wilson", "Anderson", "Thomas", "Taylor",
		"Chen", "Tanaka", "Okafor", "Silva", "Rossi", "Patel", "Kim", "Novak",
	}
	fakerPrefixes = []string{"Mr.", "Mrs.", "Ms.", "Dr.", "Prof."}
	fakerGenders  = []string{"male", "female", "non-binary"}

	fakerJobLevels = []string{"Senior", "Junior", "Lead", "Principal", "Staff"}
	fakerJobFields = []string{
		"Software", "Data", "Product", "Marketing", "Sales",
		"Operations", "Security", "Infrastructure", "Quality", "Research",
	}
	fakerJobRoles = []string{
		"Engineer", "Analyst", "Manager", "Designer", "Architect",
		"Consultant", "Developer", "Specialist", "Coordinator", "Strategist",
	}

	fakerDomains    = []string{"example.com", "example.org", "example.net", "mail.test", "demo.io"}
	fakerTLDs       = []string{"com", "net", "org", "io", "dev", "app"}
	fakerUserAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
		"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Mobile/15E148 Safari/604.1",
	}

	fakerCities = []string{
		"Springfield", "Riverside", "Franklin", "Greenville", "Bristol", "Clinton",
		"Fairview", "Salem", "Madison", "Georgetown", "Arlington", "Ashland",
	}
	fakerStates = []string{
		"California", "Texas", "Florida", "New York", "Ohio", "Oregon",
		"Washington", "Georgia", "Virginia", "Colorado", "Arizona", "Michigan",
	}
	fakerCountries = []string{
		"United States", "Canada", "United Kingdom", "Germany", "France", "Japan",
		"China", "Brazil", "Australia", "India", "Spain", "Netherlands",
	}
	fakerCountryCodes = []string{"US", "CA", "GB", "DE", "FR", "JP", "CN", "BR", "AU", "IN", "ES", "NL"}
	fakerStreetNames  = []string{
		"Main", "Oak", "Pine", "Maple", "Cedar", "Elm", "Washington", "Lake", "Hill", "Park",
	}
	fakerStreetSuffixes = []string{"Street", "Avenue", "Road", "Lane", "Boulevard", "Drive", "Court"}

	fakerCompanySuffixes = []string{"Inc", "LLC", "Group", "Ltd", "Corp", "Partners"}
	fakerIndustries      = []string{
		"Technology", "Healthcare", "Finance", "Retail", "Manufacturing",
		"Education", "Logistics", "Energy", "Media", "Hospitality",
	}
	fakerBuzzAdjectives = []string{
		"Innovative", "Scalable", "Seamless", "Robust", "Integrated", "Proactive", "Dynamic", "Streamlined",
	}
	fakerBuzzNouns = []string{
		"solutions", "platforms", "synergies", "paradigms", "networks", "architectures", "workflows", "channels",
	}

	fakerCurrencyCodes = []string{
		"USD", "EUR", "GBP", "JPY", "AUD", "CAD", "CHF", "CNY", "SEK", "NZD", "SGD", "HKD",
	}
	fakerCurrencyNames = map[string]string{
		"USD": "US Dollar", "EUR": "Euro", "GBP": "Pound Sterling", "JPY": "Yen",
		"AUD": "Australian Dollar", "CAD": "Canadian Dollar", "CHF": "Swiss Franc", "CNY": "Yuan Renminbi",
		"SEK": "Swedish Krona", "NZD": "New Zealand Dollar", "SGD": "Singapore Dollar", "HKD": "Hong Kong Dollar",
	}

	fakerLoremWords = []string{
		"lorem", "ipsum", "dolor", "sit", "amet", "consectetur", "adipiscing", "elit",
		"sed", "do", "eiusmod", "tempor", "incididunt", "ut", "labore", "et", "dolore",
		"magna", "aliqua", "enim", "ad", "minim", "veniam", "quis", "nostrud",
		"exercitation", "ullamco", "laboris", "nisi", "aliquip", "ex", "ea", "commodo",
	}
)

// fakerGenerators maps faker paths to their generators. Every path keeps a
// fixed output shape with random content.
var fakerGenerators map[string]func(e *Engine) string

func init() {
	fakerGenerators = map[string]func(e *Engine) string{
		// person
		"person.firstName": func(e *Engine) string { return pick(e, fakerFirstNames) },
		"person.lastName":  func(e *Engine) string { return pick(e, fakerLastNames) },
		"person.fullName":  func(e *Engine) string { return pick(e, fakerFirstNames) + " " + pick(e, fakerLastNames) },
		"person.prefix":    func(e *Engine) string { return pick(e, fakerPrefixes) },
		"person.gender":    func(e *Engine) string { return pick(e, fakerGenders) },
		"person.jobTitle": func(e *Engine) string {
			return pick(e, fakerJobLevels) + " " + pick(e, fakerJobFields) + " " + pick(e, fakerJobRoles)
		},

		// internet
		"internet.email":      fakeEmail,
		"internet.userName":   fakeUserName,
		"internet.domainName": func(e *Engine) string { return strings.ToLower(pick(e, fakerLastNames)) + "." + pick(e, fakerTLDs) },
		"internet.url": func(e *Engine) string {
			return "https://www." + strings.ToLower(pick(e, fakerLastNames)) + "." + pick(e, fakerTLDs)
		},
		"internet.ip": func(e *Engine) string {
			return fmt.Sprintf("%d.%d.%d.%d", e.intN(256), e.intN(256), e.intN(256), e.intN(256))
		},
		"internet.ipv6": func(e *Engine) string {
			groups := make([]string, 8)
			for i := range groups {
				groups[i] = fmt.Sprintf("%04x", e.intN(65536))
			}
			return strings.Join(groups, ":")
		},
		"internet.userAgent": func(e *Engine) string { return pick(e, fakerUserAgents) },
		"internet.password":  func(e *Engine) string { return randomChars(e, alphanumeric, 12) },

		// phone
		"phone.number": func(e *Engine) string {
			return fmt.Sprintf("(%03d) %03d-%04d", 200+e.intN(800), 200+e.intN(800), e.intN(10000))
		},

		// location
		"location.city":          func(e *Engine) string { return pick(e, fakerCities) },
		"location.state":         func(e *Engine) string { return pick(e, fakerStates) },
		"location.country":       func(e *Engine) string { return pick(e, fakerCountries) },
		"location.countryCode":   func(e *Engine) string { return pick(e, fakerCountryCodes) },
		"location.street":        fakeStreet,
		"location.streetAddress": func(e *Engine) string { return strconv.Itoa(1+e.intN(9999)) + " " + fakeStreet(e) },
		"location.zipCode":       func(e *Engine) string { return fmt.Sprintf("%05d", e.intN(100000)) },
		"location.latitude":      func(e *Engine) string { return strconv.FormatFloat(e.randFloat()*180-90, 'f', 6, 64) },
		"location.longitude":     func(e *Engine) string { return strconv.FormatFloat(e.randFloat()*360-180, 'f', 6, 64) },

		// company
		"company.name": func(e *Engine) string { return pick(e, fakerLastNames) + " " + pick(e, fakerCompanySuffixes) },
		"company.catchPhrase": func(e *Engine) string {
			return pick(e, fakerBuzzAdjectives) + " " + pick(e, fakerBuzzNouns)
		},
		"company.industry": func(e *Engine) string { return pick(e, fakerIndustries) },

		// finance
		"finance.amount":           func(e *Engine) string { return strconv.FormatFloat(float64(e.intN(1000000))/100, 'f', 2, 64) },
		"finance.currencyCode":     func(e *Engine) string { return pick(e, fakerCurrencyCodes) },
		"finance.currencyName":     func(e *Engine) string { return fakerCurrencyNames[pick(e, fakerCurrencyCodes)] },
		"finance.accountNumber":    func(e *Engine) string { return randomChars(e, "0123456789", 10) },
		"finance.creditCardNumber": fakeCreditCard,
		"finance.iban": func(e *Engine) string {
			return "GB" + fmt.Sprintf("%02d", 10+e.intN(90)) + "WEST" + randomChars(e, "0123456789", 14)
		},

		// date
		"date.past":   func(e *Engine) string { return fakeDate(e, -1) },
		"date.future": func(e *Engine) string { return fakeDate(e, 1) },

		// lorem
		"lorem.word":      func(e *Engine) string { return pick(e, fakerLoremWords) },
		"lorem.words":     func(e *Engine) string { return loremWords(e, 3) },
		"lorem.sentence":  fakeSentence,
		"lorem.paragraph": func(e *Engine) string { return fakeParagraph(e, 3) },
	}
}

// fake 未知路径返回 "[path]"
func (e *Engine) fake(path string) string {
	gen, ok := fakerGenerators[strings.TrimSpace(path)]
	if !ok {
		return "[" + path + "]"
	}
	return gen(e)
}

// FakerPaths lists every supported faker path.
func FakerPaths() []string {
	paths := make([]string, 0, len(fakerGenerators))
	for p := range fakerGenerators {
		paths = append(paths, p)
	}
	return paths
}

// =============================================================================
// Faker Generation Functions
// =============================================================================

func pick(e *Engine, items []string) string {
	return items[e.intN(len(items))]
}

func randomChars(e *Engine, charset string, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = charset[e.intN(len(charset))]
	}
	return string(b)
}

func fakeUserName(e *Engine) string {
	return strings.ToLower(pick(e, fakerFirstNames)) + "." + strings.ToLower(pick(e, fakerLastNames)) + strconv.Itoa(e.intN(100))
}

func fakeEmail(e *Engine) string {
	return fakeUserName(e) + "@" + pick(e, fakerDomains)
}

func fakeStreet(e *Engine) string {
	return pick(e, fakerStreetNames) + " " + pick(e, fakerStreetSuffixes)
}

// fakeCreditCard generates a Luhn-valid 16-digit number with a Visa-like prefix.
func fakeCreditCard(e *Engine) string {
	digits := make([]int, 16)
	digits[0] = 4
	for i := 1; i < 15; i++ {
		digits[i] = e.intN(10)
	}
	sum := 0
	for i := 0; i < 15; i++ {
		d := digits[i]
		if i%2 == 0 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	digits[15] = (10 - sum%10) % 10

	var sb strings.Builder
	for _, d := range digits {
		sb.WriteByte(byte('0' + d))
	}
	return sb.String()
}

// fakeDate returns an RFC 3339 time up to one year before (sign < 0) or after now.
func fakeDate(e *Engine, sign int) string {
	offset := time.Duration(1+e.int64N(int64(365*24*time.Hour/time.Second))) * time.Second
	return e.now().Add(time.Duration(sign) * offset).Format(time.RFC3339)
}

func loremWords(e *Engine, n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = pick(e, fakerLoremWords)
	}
	return strings.Join(words, " ")
}

func fakeSentence(e *Engine) string {
	s := loremWords(e, 6+e.intN(6))
	return capitalize(s) + "."
}

func fakeParagraph(e *Engine, sentences int) string {
	parts := make([]string, sentences)
	for i := range parts {
		parts[i] = fakeSentence(e)
	}
	return strings.Join(parts, " ")
}
