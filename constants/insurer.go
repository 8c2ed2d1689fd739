package constants

type Insurer string

const (
	LIC         Insurer = "LIC"
	HDFC        Insurer = "HDFC"
	Bajaj       Insurer = "Bajaj"
	ICICI       Insurer = "ICICI"
	SBI         Insurer = "SBI"
	MaxLife     Insurer = "Max Life"
	Tata        Insurer = "Tata"
	AdityaBirla Insurer = "Aditya Birla"
	Kotak       Insurer = "Kotak"
	Reliance    Insurer = "Reliance"
)

// allInsurers is ordered; the compliance checker reports the first hit in this order.
var allInsurers = []Insurer{
	LIC,
	HDFC,
	Bajaj,
	ICICI,
	SBI,
	MaxLife,
	Tata,
	AdityaBirla,
	Kotak,
	Reliance,
}

// coverageTerms is ordered the same way.
var coverageTerms = []string{
	"hospitalization",
	"coverage",
	"sum insured",
	"benefit",
	"treatment",
	"medical",
}

func Insurers() []Insurer {
	out := make([]Insurer, len(allInsurers))
	copy(out, allInsurers)
	return out
}

func InsurersAsStringSlice() []string {
	result := make([]string, len(allInsurers))
	for i, ins := range allInsurers {
		result[i] = string(ins)
	}
	return result
}

func CoverageTerms() []string {
	out := make([]string, len(coverageTerms))
	copy(out, coverageTerms)
	return out
}
