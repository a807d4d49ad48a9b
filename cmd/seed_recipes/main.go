package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/pageza/alchemorsel-ideas/backend/config"
	"github.com/pageza/alchemorsel-ideas/backend/internal/auth"
	"github.com/pageza/alchemorsel-ideas/backend/internal/database"
	"github.com/pageza/alchemorsel-ideas/backend/internal/logger"
	"github.com/pageza/alchemorsel-ideas/backend/internal/model"
	"github.com/pageza/alchemorsel-ideas/backend/internal/service"
	"github.com/pageza/alchemorsel-ideas/backend/internal/store/gormstore"
	"github.com/pageza/alchemorsel-ideas/backend/internal/types"
)

type seedRecipe struct {
	title       string
	cuisine     string
	mealType    string
	servings    int
	prep, cook  int
	favorite    bool
	ingredients []string
	steps       []string
}

type seedSession struct {
	title    string
	prompt   string
	cuisine  string
	dietary  string
	servings int
	recipes  []seedRecipe
}

var sessions = []seedSession{
	{
		title:    "Quick weeknight dinners",
		prompt:   "Dinners that take under 30 minutes with pantry staples",
		cuisine:  "italian",
		servings: 2,
		recipes: []seedRecipe{
			{
				title: "Pasta aglio e olio", cuisine: "italian", mealType: "dinner",
				servings: 2, prep: 5, cook: 12, favorite: true,
				ingredients: []string{"200g spaghetti", "4 cloves garlic", "60ml olive oil", "chili flakes", "parsley"},
				steps:       []string{"Boil the pasta in salted water", "Gently fry sliced garlic in the oil", "Toss pasta with the oil, chili and parsley"},
			},
			{
				title: "Lemon chickpea skillet", cuisine: "mediterranean", mealType: "dinner",
				servings: 2, prep: 10, cook: 15,
				ingredients: []string{"1 can chickpeas", "1 lemon", "2 handfuls spinach", "feta"},
				steps:       []string{"Crisp the chickpeas in a hot pan", "Wilt in the spinach", "Finish with lemon and crumbled feta"},
			},
		},
	},
	{
		title:    "Plant-based brunch",
		prompt:   "Weekend brunch ideas without eggs or dairy",
		dietary:  "vegan",
		servings: 4,
		recipes: []seedRecipe{
			{
				title: "Tofu scramble", cuisine: "american", mealType: "breakfast",
				servings: 4, prep: 5, cook: 10, favorite: true,
				ingredients: []string{"400g firm tofu", "1 tsp turmeric", "1 onion", "nutritional yeast"},
				steps:       []string{"Soften the onion", "Crumble in the tofu with turmeric", "Season and fold in nutritional yeast"},
			},
		},
	},
}

func main() {
	userID := flag.String("user", "6f1c1e2a-5b7d-4c3e-9a10-000000000001", "Owner of the seeded rows")
	flag.Parse()

	log := logger.New("alchemorsel-seed", "info")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.IsProduction() {
		log.Fatal().Msg("Refusing to seed a production database")
	}

	ctx := context.Background()
	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if err := database.RunMigrations(ctx, db, cfg.MigrationsDir, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	ideas := service.NewIdeaService(gormstore.New(db), service.WithLogger(log))
	ctx = auth.WithUser(ctx, &auth.User{ID: *userID, Username: "seed"})

	var recipeCount int
	for _, s := range sessions {
		created, err := ideas.CreateSession(ctx, &types.CreateSessionRequest{
			Title:             optional(s.title),
			Prompt:            optional(s.prompt),
			CuisinePreference: optional(s.cuisine),
			DietaryPreference: optional(s.dietary),
			ServingCount:      &s.servings,
		})
		if err != nil {
			log.Fatal().Err(err).Str("session", s.title).Msg("Failed to create idea session")
		}

		for _, r := range s.recipes {
			if _, err := ideas.UpsertRecipe(ctx, upsertRequest(created.ID, r)); err != nil {
				log.Fatal().Err(err).Str("recipe", r.title).Msg("Failed to create recipe")
			}
			recipeCount++
		}
	}

	fmt.Printf("Seeded %d idea sessions and %d recipes for user %s\n", len(sessions), recipeCount, *userID)
}

func upsertRequest(sessionID string, r seedRecipe) *types.UpsertRecipeRequest {
	req := &types.UpsertRecipeRequest{
		SessionID:       model.Some(sessionID),
		Title:           r.title,
		Cuisine:         optional(r.cuisine),
		MealType:        optional(r.mealType),
		Servings:        &r.servings,
		PrepTimeMinutes: &r.prep,
		CookTimeMinutes: &r.cook,
		IsFavorite:      &r.favorite,
		Ingredients:     make([]types.IngredientInput, 0, len(r.ingredients)),
		Steps:           make([]types.StepInput, 0, len(r.steps)),
	}
	for i, name := range r.ingredients {
		order := i
		req.Ingredients = append(req.Ingredients, types.IngredientInput{OrderIndex: &order, Name: name})
	}
	for i, instruction := range r.steps {
		req.Steps = append(req.Steps, types.StepInput{OrderIndex: i + 1, Instruction: instruction})
	}
	return req
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
