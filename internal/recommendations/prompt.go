package recommendations

import (
	"fmt"
	"strings"

	"github.com/lmorales-dev/vestra-backend/pkg/db/models"
)

const systemPrompt = "You are a professional fashion stylist for an e-commerce store. Respond only with JSON."

// outfitResponse is the shape the model is asked to produce.
type outfitResponse struct {
	RecommendedProducts []struct {
		ID string `json:"id"`
	} `json:"recommendedProducts"`
}

const (
	minRecommendations = 3
	maxRecommendations = 5
)

// buildOutfitPrompt renders the styling brief for the focal variant against
// the candidate pool.
func buildOutfitPrompt(focal *models.ProductVariant, pool []models.ProductVariant) string {
	product := focal.Product

	entries := make([]string, 0, len(pool))
	for _, candidate := range pool {
		entries = append(entries, fmt.Sprintf(
			"ID: %s\nName: %s\nColor: %s\nDescription: %s",
			candidate.ID,
			candidate.Product.Name,
			candidate.Color,
			stringOrNA(candidate.Product.Description),
		))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "A customer is viewing this product and wants to build a complete, stylish outfit around it.\n\n")
	fmt.Fprintf(&b, "Product Name: %q\n", product.Name)
	fmt.Fprintf(&b, "Color: %q\n", valueOrNA(focal.Color))
	fmt.Fprintf(&b, "Description: %q\n", stringOrNA(product.Description))
	fmt.Fprintf(&b, "Gender: %q\n\n", valueOrNA(product.Gender))
	b.WriteString("Here is a list of other available products and their colors in the store. ")
	fmt.Fprintf(&b, "Your task is to recommend %d to %d products from this list that would create a stylish and cohesive outfit with the current product.\n\n", minRecommendations, maxRecommendations)
	b.WriteString("Available Products:\n---\n")
	b.WriteString(strings.Join(entries, "\n---\n"))
	b.WriteString("\n---\n\n")
	b.WriteString("Task:\n")
	fmt.Fprintf(&b, "1. Choose %d to %d products from the list above.\n", minRecommendations, maxRecommendations)
	b.WriteString("2. For each chosen product, provide its exact ID.\n")
	b.WriteString("3. The ID you choose MUST correspond to the 'ID' in the Available Products list.\n")
	b.WriteString("4. Do NOT recommend the current product itself.\n")
	b.WriteString(`5. Respond ONLY with a JSON object of the form {"recommendedProducts": [{"id": "..."}]}.`)
	return b.String()
}

func stringOrNA(value *string) string {
	if value == nil || *value == "" {
		return "N/A"
	}
	return *value
}

func valueOrNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}
