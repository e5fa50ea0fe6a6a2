package inventory

// CatalogSeed is the window-tinting catalog stock used by the in-memory
// repository. Quantities mirror the fulfillment snapshot the storefront
// launched with.
func CatalogSeed() []StockLevel {
	return []StockLevel{
		// Tesla Model Y films
		{ProductID: "cybershade-irx-front-windshield", Available: 25, Reserved: 3, Incoming: 50},
		{ProductID: "cybershade-irx-side-windows", Available: 45, Reserved: 8, Incoming: 0},
		{ProductID: "cybershade-irx-rear-window", Available: 12, Reserved: 2, Incoming: 30},
		{ProductID: "cybershade-irx-sunroof", Available: 8, Reserved: 1, Incoming: 20},

		// Model 3 films
		{ProductID: "cybershade-irx-model3-full-kit", Available: 35, Reserved: 5, Incoming: 0},
		{ProductID: "cybershade-irx-model3-sides", Available: 22, Reserved: 4, Incoming: 25},

		// Model S films
		{ProductID: "cybershade-irx-models-premium", Available: 18, Reserved: 2, Incoming: 15},

		// Model X films
		{ProductID: "cybershade-irx-modelx-falcon", Available: 6, Reserved: 1, Incoming: 10, RestockDate: "2025-09-15"},

		// Installation kits
		{ProductID: "pro-install-kit", Available: 150, Reserved: 20, Incoming: 100},
		{ProductID: "basic-install-kit", Available: 200, Reserved: 15, Incoming: 0},

		// Tools and accessories
		{ProductID: "professional-squeegee-set", Available: 75, Reserved: 8, Incoming: 50},
		{ProductID: "heat-gun-professional", Available: 12, Reserved: 2, Incoming: 8, RestockDate: "2025-09-10"},
	}
}
