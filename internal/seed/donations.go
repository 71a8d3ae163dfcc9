package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"

	"donationhub/internal/utils"
	"donationhub/pkg/types"
)

// TitlePrefix marks seeded donations so a reset only removes those.
const TitlePrefix = "[seed] "

type DonationRepository interface {
	CreateDonation(ctx context.Context, donation *types.Donation) error
	DeleteDonationsWithTitlePrefix(ctx context.Context, prefix string) (int64, error)
}

type donationTemplate struct {
	Category    string
	Title       string
	Description string
}

var donationTemplates = []donationTemplate{
	{Category: "food", Title: "Rice and beans", Description: "Dry staples for the community pantry."},
	{Category: "food", Title: "Baby formula", Description: "Unopened formula for families with infants."},
	{Category: "clothes", Title: "Winter coats", Description: "Adult and children's coats in good condition."},
	{Category: "clothes", Title: "School uniforms", Description: "Uniforms for the start of term."},
	{Category: "education", Title: "Textbooks", Description: "Secondary school maths and science books."},
	{Category: "health", Title: "First aid kits", Description: "Sealed kits for the outreach van."},
	{Category: "shelter", Title: "Blankets", Description: "Wool blankets for the night shelter."},
}

type weightedCategory struct {
	Category string
	Weight   int
}

var weightedCategories = []weightedCategory{
	{Category: "food", Weight: 40},
	{Category: "clothes", Weight: 25},
	{Category: "education", Weight: 15},
	{Category: "health", Weight: 10},
	{Category: "shelter", Weight: 10},
}

// SeedDonations creates count demo donations spread over donors. Roughly
// one in five is anonymous and stays off the leaderboard. With reset set,
// donations from earlier seed runs are removed first.
func SeedDonations(
	ctx context.Context,
	donationRepo DonationRepository,
	donors []*types.User,
	count int,
	reset bool,
	rng *rand.Rand,
) (int, error) {
	if reset {
		deleted, err := donationRepo.DeleteDonationsWithTitlePrefix(ctx, TitlePrefix)
		if err != nil {
			return 0, fmt.Errorf("failed to reset seeded donations: %w", err)
		}
		fmt.Printf("Reset seeded donations: %d deleted\n", deleted)
	}

	if count <= 0 {
		fmt.Println("Skipping donation seed because count <= 0")
		return 0, nil
	}

	if len(donors) == 0 {
		return 0, fmt.Errorf("no donors available; seed users first")
	}

	created := 0
	for i := 0; i < count; i++ {
		template := pickTemplate(rng, pickWeightedCategory(rng))

		donation := &types.Donation{
			Category:    utils.StringPtr(template.Category),
			Title:       utils.StringPtr(TitlePrefix + template.Title),
			Description: utils.StringPtr(template.Description),
			Amount:      json.RawMessage(strconv.Itoa((rng.Intn(100) + 1) * 5)),
		}

		if rng.Intn(100) >= 20 {
			donation.UserID = utils.StringPtr(donors[rng.Intn(len(donors))].ID)
		}

		if err := donationRepo.CreateDonation(ctx, donation); err != nil {
			return created, fmt.Errorf("failed to create demo donation %d: %w", i+1, err)
		}

		created++
	}

	fmt.Printf("Demo donations seeded: %d created\n", created)
	return created, nil
}

func pickWeightedCategory(rng *rand.Rand) string {
	total := 0
	for _, item := range weightedCategories {
		total += item.Weight
	}

	roll := rng.Intn(total)
	running := 0
	for _, item := range weightedCategories {
		running += item.Weight
		if roll < running {
			return item.Category
		}
	}

	return weightedCategories[0].Category
}

func pickTemplate(rng *rand.Rand, category string) donationTemplate {
	matching := make([]donationTemplate, 0, len(donationTemplates))
	for _, t := range donationTemplates {
		if t.Category == category {
			matching = append(matching, t)
		}
	}

	if len(matching) == 0 {
		return donationTemplates[rng.Intn(len(donationTemplates))]
	}

	return matching[rng.Intn(len(matching))]
}
