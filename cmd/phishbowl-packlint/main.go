// Command phishbowl-packlint vets a lexicon pack: parse, validate and
// compile it the same way the analyzer does, then print a summary.
// With no -file it lints the embedded pack
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"phishbowl/internal/core/lexicon"
)

type summary struct {
	Version        int            `json:"version"`
	Keywords       int            `json:"keywords"`
	ByCategory     map[string]int `json:"by_category"`
	Shorteners     int            `json:"shorteners"`
	SuspiciousTLDs int            `json:"suspicious_tlds"`
	LoginTokens    int            `json:"login_tokens"`
	Brands         int            `json:"brands"`
	Urgency        int            `json:"urgency_patterns"`
	Tiers          []string       `json:"tiers"`
	Taper          []float64      `json:"taper"`
}

func must(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func main() {
	var (
		fFile  = flag.String("file", "", "pack JSON to lint (default: embedded pack)")
		fJSON  = flag.Bool("json", false, "emit the summary as JSON")
		fQuiet = flag.Bool("quiet", false, "suppress the summary; exit code only")
	)
	flag.Parse()

	var (
		p   *lexicon.Pack
		err error
	)
	if *fFile != "" {
		var data []byte
		data, err = os.ReadFile(*fFile)
		must(err)
		p, err = lexicon.LoadBytes(data)
	} else {
		p, err = lexicon.Load()
	}
	must(err)

	// weight sanity beyond struct validation
	for _, kw := range p.Keywords {
		if kw.Weight <= 0 {
			must(fmt.Errorf("keyword %q (%s) has non-positive weight %v", kw.Term, kw.Category, kw.Weight))
		}
	}

	if *fQuiet {
		return
	}

	byCat := map[string]int{}
	for _, kw := range p.Keywords {
		byCat[string(kw.Category)]++
	}
	tiers := make([]string, 0, len(p.Tiers))
	for _, t := range p.Tiers {
		tiers = append(tiers, fmt.Sprintf("%s [%.1f, %.1f)", t.Name, t.Min, t.Max))
	}

	s := summary{
		Version:        p.Version,
		Keywords:       p.KeywordCount,
		ByCategory:     byCat,
		Shorteners:     len(p.Shorteners),
		SuspiciousTLDs: len(p.SuspiciousTLDs),
		LoginTokens:    len(p.LoginTokens),
		Brands:         len(p.Brands),
		Urgency:        len(p.Urgency),
		Tiers:          tiers,
		Taper:          p.Scoring.Taper,
	}

	if *fJSON {
		b, err := json.MarshalIndent(s, "", "  ")
		must(err)
		fmt.Println(string(b))
		return
	}

	fmt.Printf("pack version: %d\n", s.Version)
	fmt.Printf("keywords:     %d\n", s.Keywords)
	cats := make([]string, 0, len(byCat))
	for c := range byCat {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, c := range cats {
		fmt.Printf("  %-16s %d\n", c, byCat[c])
	}
	fmt.Printf("shorteners:   %d\n", s.Shorteners)
	fmt.Printf("susp. tlds:   %d\n", s.SuspiciousTLDs)
	fmt.Printf("login tokens: %d\n", s.LoginTokens)
	fmt.Printf("brands:       %d\n", s.Brands)
	fmt.Printf("urgency:      %d patterns\n", s.Urgency)
	fmt.Printf("tiers:\n")
	for _, t := range s.Tiers {
		fmt.Printf("  %s\n", t)
	}
}
