package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

// A seed list of real station names; -stations larger than the list
// appends synthetic names so key cardinality can be pushed arbitrarily
// high.
var baseStations = []string{
	"Abha", "Abidjan", "Accra", "Addis Ababa", "Adelaide", "Amsterdam",
	"Anchorage", "Athens", "Auckland", "Baghdad", "Bangkok", "Barcelona",
	"Beijing", "Belgrade", "Berlin", "Bogotá", "Bordeaux", "Brisbane",
	"Brussels", "Bucharest", "Budapest", "Cairo", "Calgary", "Cape Town",
	"Caracas", "Casablanca", "Chicago", "Copenhagen", "Dakar", "Dallas",
	"Dar es Salaam", "Denver", "Dhaka", "Dubai", "Dublin", "Edinburgh",
	"Frankfurt", "Geneva", "Hamburg", "Hanoi", "Havana", "Helsinki",
	"Hong Kong", "Honolulu", "Istanbul", "Jakarta", "Johannesburg",
	"Karachi", "Kathmandu", "Kyiv", "Lagos", "Lima", "Lisbon", "London",
	"Los Angeles", "Madrid", "Manila", "Melbourne", "Mexico City", "Miami",
	"Montreal", "Moscow", "Mumbai", "Nairobi", "New Delhi", "New York City",
	"Oslo", "Ottawa", "Paris", "Perth", "Prague", "Reykjavík", "Riga",
	"Rome", "San Francisco", "Santiago", "São Paulo", "Seattle", "Seoul",
	"Singapore", "Sofia", "Stockholm", "Sydney", "Tehran", "Tokyo",
	"Toronto", "Vancouver", "Vienna", "Warsaw", "Wellington", "Winnipeg",
	"Yakutsk", "Zagreb", "Zürich", "Ürümqi", "Ōsaka",
}

func main() {
	numRecords := flag.Int64("n", 1_000_000, "number of records to generate")
	outputFile := flag.String("o", "data/measurements.txt", "output file path")
	numStations := flag.Int("stations", len(baseStations), "number of distinct stations")
	seed := flag.Int64("seed", 0, "random seed (0: derive from the clock)")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(*seed))

	stations := make([]string, *numStations)
	means := make([]float64, *numStations)
	for i := range stations {
		if i < len(baseStations) {
			stations[i] = baseStations[i]
		} else {
			stations[i] = fmt.Sprintf("Station-%d", i+1)
		}
		// A fixed per-station mean makes the aggregate output stable
		// across record counts.
		means[i] = r.Float64()*60 - 20
	}

	if dir := filepath.Dir(*outputFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("create output directory: %v", err)
		}
	}
	file, err := os.Create(*outputFile)
	if err != nil {
		log.Fatalf("create %s: %v", *outputFile, err)
	}
	defer file.Close()

	writer := bufio.NewWriterSize(file, 4*1024*1024)
	fmt.Printf("Generating %d records for %d stations to %s (seed %d)\n",
		*numRecords, *numStations, *outputFile, *seed)

	start := time.Now()
	for i := int64(0); i < *numRecords; i++ {
		idx := r.Intn(len(stations))
		// Normal spread around the station mean, clamped to the -99.9
		// to 99.9 range the one-decimal format can carry.
		temp := means[idx] + r.NormFloat64()*10
		temp = max(-99.9, min(99.9, temp))
		fmt.Fprintf(writer, "%s;%.1f\n", stations[idx], temp)

		if i > 0 && i%50_000_000 == 0 {
			fmt.Printf("  %d records (%.0f%%)\n", i, float64(i)*100/float64(*numRecords))
		}
	}

	if err := writer.Flush(); err != nil {
		log.Fatalf("flush %s: %v", *outputFile, err)
	}
	fmt.Printf("Done in %v\n", time.Since(start))
}
