package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"quote-engine/internal/pricing"
)

// quote prices a single treatment from a JSON input file, entirely offline.
// The file holds a pricing.TreatmentPricingInput with the template, material,
// and measurement already resolved, so no database is needed.
func main() {
	jsonOut := flag.Bool("json", false, "print the raw calculation result as JSON")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: quote [-json] <input.json>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("read input: %v", err)
	}

	var input pricing.TreatmentPricingInput
	if err := json.Unmarshal(data, &input); err != nil {
		log.Fatalf("parse input: %v", err)
	}

	engine := pricing.NewEngine(nil)
	result, err := engine.CalculateTreatmentPricing(input)
	if err != nil {
		log.Fatalf("pricing: %v", err)
	}

	if *jsonOut {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatalf("encode result: %v", err)
		}
		fmt.Println(string(out))
		return
	}

	printResult(result)
}

func printResult(res *pricing.CalculationResult) {
	fmt.Printf("Category:      %s (%s)\n", res.Category, res.PricingType)
	if res.CurtainCount > 0 {
		fmt.Printf("Curtains:      %d\n", res.CurtainCount)
	}
	if res.WidthsRequired > 0 {
		fmt.Printf("Fabric widths: %d\n", res.WidthsRequired)
	}
	if res.LinearMeters > 0 {
		fmt.Printf("Linear meters: %.3f\n", res.LinearMeters)
	}
	if res.Sqm > 0 {
		fmt.Printf("Square meters: %.3f\n", res.Sqm)
	}
	if res.RollsRequired > 0 {
		fmt.Printf("Rolls:         %d\n", res.RollsRequired)
	}

	fmt.Println()
	for _, line := range res.Breakdown {
		fmt.Printf("  %-28s %8.3f %-5s @ %10s = %10s\n",
			line.Name, line.Quantity, line.Unit,
			line.UnitPrice.StringFixed(2), line.Total.StringFixed(2))
	}
	fmt.Println()

	fmt.Printf("Fabric:        %10s\n", res.FabricCost.StringFixed(2))
	fmt.Printf("Lining:        %10s\n", res.LiningCost.StringFixed(2))
	fmt.Printf("Manufacturing: %10s\n", res.ManufacturingCost.StringFixed(2))
	fmt.Printf("Options:       %10s\n", res.OptionsCost.StringFixed(2))
	fmt.Printf("Heading:       %10s\n", res.HeadingCost.StringFixed(2))
	fmt.Printf("Total:         %10s %s\n", res.TotalCost.StringFixed(2), res.Currency)

	for _, w := range res.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
}
