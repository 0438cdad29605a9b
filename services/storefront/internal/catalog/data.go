package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Testimonial отзыв гостя кофейни
type Testimonial struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Location   string `json:"location"`
	Rating     int    `json:"rating"`
	Text       string `json:"text"`
	Avatar     string `json:"avatar"`
	CatAdopted string `json:"catAdopted,omitempty"`
}

func catImage(seed string) string {
	return fmt.Sprintf("https://api.dicebear.com/7.x/adventurer/svg?seed=%s&backgroundColor=f3e8ff,fef3c7,fce7f3&size=96", seed)
}

func unsplash(photo string) string {
	return "https://images.unsplash.com/" + photo + "?w=900&auto=format&fit=crop"
}

func coffeeProducts() []Product {
	return []Product{
		{
			ID:          1,
			Name:        "Persian Purrfection",
			Price:       decimal.RequireFromString("24.99"),
			Image:       unsplash("photo-1509042239860-f550ce710b93"),
			CatImage:    catImage("persian"),
			Description: "Luxurious single-origin Ethiopian beans with hints of catnip and cream.",
			Rating:      4.9,
			Category:    CategoryPremium,
			Roast:       RoastLight,
			Origin:      "Ethiopia",
			IsNew:       true,
			Stock:       12,
		},
		{
			ID:          2,
			Name:        "Maine Coon Mocha",
			Price:       decimal.RequireFromString("21.99"),
			Image:       unsplash("photo-1559056199-641a0ac8b55e"),
			CatImage:    catImage("mainecoon"),
			Description: "Bold and fluffy blend with chocolate undertones, like a big cozy hug.",
			Rating:      4.7,
			Category:    CategorySignature,
			Roast:       RoastDark,
			Origin:      "Guatemala",
			Stock:       8,
		},
		{
			ID:          3,
			Name:        "Siamese Supreme",
			Price:       decimal.RequireFromString("26.99"),
			Image:       unsplash("photo-1497515114629-f71d768fd07c"),
			CatImage:    catImage("siamese"),
			Description: "Elegant and refined with complex flavors that purr in harmony.",
			Rating:      4.8,
			Category:    CategoryPremium,
			Roast:       RoastMedium,
			Origin:      "Thailand",
			IsNew:       true,
			Stock:       15,
		},
		{
			ID:          4,
			Name:        "Tabby's Treat",
			Price:       decimal.RequireFromString("18.99"),
			Image:       unsplash("photo-1510707577719-ae7c14805e3a"),
			CatImage:    catImage("tabby"),
			Description: "Playful everyday blend. Perfect for morning zoomies and cuddles.",
			Rating:      4.6,
			Category:    CategoryClassic,
			Roast:       RoastMedium,
			Origin:      "Colombia",
			Stock:       22,
		},
		{
			ID:          5,
			Name:        "Ragdoll Roast",
			Price:       decimal.RequireFromString("23.99"),
			Image:       unsplash("photo-1447933601403-0c6688de566e"),
			CatImage:    catImage("ragdoll"),
			Description: "Smooth and mellow with a velvety finish.",
			Rating:      4.5,
			Category:    CategorySignature,
			Roast:       RoastLight,
			Origin:      "Costa Rica",
			Stock:       18,
		},
		{
			ID:          6,
			Name:        "British Shorthair Blend",
			Price:       decimal.RequireFromString("22.99"),
			Image:       unsplash("photo-1509042239860-f550ce710b93"),
			CatImage:    catImage("british"),
			Description: "Dependable classic with a dignified character.",
			Rating:      4.8,
			Category:    CategoryClassic,
			Roast:       RoastMediumDark,
			Origin:      "Kenya",
			Stock:       10,
		},
	}
}

func defaultTestimonials() []Testimonial {
	return []Testimonial{
		{
			ID:         1,
			Name:       "Emma Johnson",
			Location:   "Downtown Resident",
			Rating:     5,
			Text:       "Best coffee in the city! The atmosphere is so relaxing, and the cats are absolutely adorable. I adopted Whiskers here 6 months ago - he's the perfect addition to our family!",
			Avatar:     "https://images.unsplash.com/photo-1529626455594-4ff0802cfb7e?ixlib=rb-4.0.3&crop=faces&fit=crop&w=100&h=100",
			CatAdopted: "Whiskers",
		},
		{
			ID:       2,
			Name:     "Michael Chen",
			Location: "Coffee Enthusiast",
			Rating:   5,
			Text:     "As a coffee connoisseur, I can say their single-origin beans are exceptional. The Persian Purrfection blend is my go-to. Plus, spending time with the cats after a stressful day is therapeutic.",
			Avatar:   "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=100&h=100&fit=crop&crop=face",
		},
		{
			ID:       3,
			Name:     "Sarah Williams",
			Location: "Regular Customer",
			Rating:   5,
			Text:     "I work remotely and this has become my second office. The WiFi is great, the coffee keeps me energized, and the cats provide the perfect study breaks. Highly recommend!",
			Avatar:   "https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=100&h=100&fit=crop&crop=face",
		},
		{
			ID:         4,
			Name:       "David Thompson",
			Location:   "Cat Dad",
			Rating:     5,
			Text:       "Found my best friend Luna here! The staff really cares about matching the right cat with the right family. The adoption process was smooth and supportive. Great coffee too!",
			Avatar:     "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=100&h=100&fit=crop&crop=face",
			CatAdopted: "Luna",
		},
		{
			ID:       5,
			Name:     "Lisa Martinez",
			Location: "Animal Lover",
			Rating:   5,
			Text:     "Love supporting a business that gives back to the community. Every purchase helps rescue cats, and you can feel the love and care they put into everything they do.",
			Avatar:   "https://images.unsplash.com/photo-1544005313-94ddf0286df2?w=100&h=100&fit=crop&crop=face",
		},
		{
			ID:       6,
			Name:     "Alex Rivera",
			Location: "Student",
			Rating:   5,
			Text:     "Perfect study spot! The cats are well-behaved and don't disturb you when you're working, but they're always there for a quick pet when you need a break. And the iced lattes are amazing!",
			Avatar:   "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=100&h=100&fit=crop&crop=face",
		},
	}
}
