//go:build ignore

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	nominatim "github.com/location-microservice/go-nominatim"
)

func main() {
	baseURL := flag.String("base-url", nominatim.DefaultBaseURL, "Nominatim search endpoint")
	userAgent := flag.String("user-agent", "go-nominatim-smoke/1.0", "User-Agent header value")
	flag.Parse()

	client, err := nominatim.NewClient(&nominatim.Config{
		BaseURL:        *baseURL,
		UserAgent:      *userAgent,
		RequestTimeout: 15,
	}, nil)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// Проверка доступности сервера
	status, err := client.Status(ctx)
	if err != nil {
		log.Fatalf("Status check failed: %v", err)
	}
	fmt.Printf("✅ Server status: %s (data updated %s)\n", status.Message, status.DataUpdated)

	// Прямое геокодирование
	fmt.Println("\n🔍 Searching for Tower Bridge, London...")
	locations, err := client.Search(ctx, nominatim.Text("Tower Bridge, London"))
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}
	if len(locations) == 0 {
		log.Fatal("No locations found")
	}
	for _, loc := range locations {
		fmt.Printf("   %s\n", loc.String())
	}

	// Постобработка результатов
	best := nominatim.SortByImportance(locations)[0]
	fmt.Printf("\n⭐ Most important: %s\n", best.DisplayName)

	reduced := nominatim.ReduceLocations(locations, 1000)
	fmt.Printf("📍 %d of %d locations remain after dropping near-duplicates within 1 km\n",
		len(reduced), len(locations))

	// Обратное геокодирование лучшего результата
	fmt.Printf("\n🔄 Reverse geocoding %.6f, %.6f...\n", best.Lat, best.Lon)
	place, err := client.Reverse(ctx, nominatim.ReverseParams{
		Lat:  best.Lat,
		Lon:  best.Lon,
		Zoom: nominatim.Int(18),
	})
	if err != nil {
		log.Fatalf("Reverse geocoding failed: %v", err)
	}
	fmt.Printf("✅ %s\n", place.DisplayName)

	// Пакетный поиск
	fmt.Println("\n📦 Batch search for three cities...")
	results := client.SearchBatch(ctx, []nominatim.Query{
		nominatim.Text("London"),
		nominatim.Text("Paris"),
		nominatim.Text("Berlin"),
	})
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("   ❌ query %d failed: %v\n", r.Index, r.Err)
			continue
		}
		fmt.Printf("   ✅ query %d: %d locations\n", r.Index, len(r.Locations))
	}
}
