package main

import (
	"log"

	"github.com/proteintrack/backend/config"
	"github.com/proteintrack/backend/internal/database"
	"github.com/proteintrack/backend/internal/service"
)

// starterFoods is a small catalog of common high-protein staples so a fresh
// deployment has something searchable before the first external lookup.
// Densities are per 100g, taken from USDA FoodData Central SR Legacy records.
var starterFoods = []service.NormalizedFood{
	{FdcID: "171477", Name: "Chicken, broilers or fryers, breast, meat only, cooked, roasted", ProteinPer100g: 31.0, CaloriesPer100g: 165, CarbsPer100g: 0, FatPer100g: 3.6, FiberPer100g: 0},
	{FdcID: "175167", Name: "Fish, salmon, Atlantic, farmed, cooked, dry heat", ProteinPer100g: 22.1, CaloriesPer100g: 206, CarbsPer100g: 0, FatPer100g: 12.4, FiberPer100g: 0},
	{FdcID: "173424", Name: "Egg, whole, cooked, hard-boiled", ProteinPer100g: 12.6, CaloriesPer100g: 155, CarbsPer100g: 1.1, FatPer100g: 10.6, FiberPer100g: 0},
	{FdcID: "170903", Name: "Yogurt, Greek, plain, nonfat", ProteinPer100g: 10.2, CaloriesPer100g: 59, CarbsPer100g: 3.6, FatPer100g: 0.4, FiberPer100g: 0},
	{FdcID: "173735", Name: "Tofu, raw, firm, prepared with calcium sulfate", ProteinPer100g: 17.3, CaloriesPer100g: 145, CarbsPer100g: 4.3, FatPer100g: 8.7, FiberPer100g: 2.3},
	{FdcID: "172421", Name: "Beans, black, mature seeds, cooked, boiled", ProteinPer100g: 8.9, CaloriesPer100g: 132, CarbsPer100g: 23.7, FatPer100g: 0.5, FiberPer100g: 8.7},
	{FdcID: "175299", Name: "Tuna, light, canned in water, drained solids", ProteinPer100g: 25.5, CaloriesPer100g: 116, CarbsPer100g: 0, FatPer100g: 0.8, FiberPer100g: 0},
	{FdcID: "174608", Name: "Lentils, mature seeds, cooked, boiled", ProteinPer100g: 9.0, CaloriesPer100g: 116, CarbsPer100g: 20.1, FatPer100g: 0.4, FiberPer100g: 7.9},
	{FdcID: "173441", Name: "Cheese, cottage, lowfat, 2% milkfat", ProteinPer100g: 11.0, CaloriesPer100g: 81, CarbsPer100g: 4.8, FatPer100g: 2.3, FiberPer100g: 0},
	{FdcID: "170187", Name: "Nuts, almonds, dry roasted", ProteinPer100g: 20.9, CaloriesPer100g: 598, CarbsPer100g: 21.0, FatPer100g: 52.5, FiberPer100g: 10.9},
	{FdcID: "168917", Name: "Quinoa, cooked", ProteinPer100g: 4.4, CaloriesPer100g: 120, CarbsPer100g: 21.3, FatPer100g: 1.9, FiberPer100g: 2.8},
	{FdcID: "174036", Name: "Beef, ground, 93% lean meat / 7% fat, patty, cooked, pan-broiled", ProteinPer100g: 25.6, CaloriesPer100g: 182, CarbsPer100g: 0, FatPer100g: 8.6, FiberPer100g: 0},
	{FdcID: "171705", Name: "Milk, nonfat, fluid, with added vitamin A and vitamin D", ProteinPer100g: 3.4, CaloriesPer100g: 34, CarbsPer100g: 5.0, FatPer100g: 0.1, FiberPer100g: 0},
	{FdcID: "175303", Name: "Turkey, all classes, breast, meat and skin, cooked, roasted", ProteinPer100g: 28.7, CaloriesPer100g: 153, CarbsPer100g: 0, FatPer100g: 3.2, FiberPer100g: 0},
	{FdcID: "172475", Name: "Chickpeas (garbanzo beans, bengal gram), mature seeds, cooked, boiled", ProteinPer100g: 8.9, CaloriesPer100g: 164, CarbsPer100g: 27.4, FatPer100g: 2.6, FiberPer100g: 7.6},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	catalog := service.NewCatalogService(db, nil, 0)

	var created, updated int
	for _, food := range starterFoods {
		_, wasCreated, err := catalog.Upsert(food)
		if err != nil {
			log.Printf("Failed to seed %q: %v", food.Name, err)
			continue
		}
		if wasCreated {
			created++
		} else {
			updated++
		}
	}

	log.Printf("Seeding complete: %d created, %d already present", created, updated)
}
