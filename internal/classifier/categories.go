package classifier

import "github.com/jonesrussell/trendboard/internal/domain"

// TrendingTopicSampleSize is the number of sample articles shown per trending topic.
const TrendingTopicSampleSize = trendingTopicSampleSize

// GiftCategories returns the gift suggestion categories.
func GiftCategories() []domain.Category {
	return []domain.Category{
		{
			Name:  "Sustainable & Eco-Friendly",
			Terms: []string{"sustainable", "eco-friendly", "green", "recycled", "bamboo", "organic", "plantable", "reusable"},
			Suggestions: []string{
				"Bamboo desk organizers with company branding",
				"Recycled material tote bags",
				"Solar-powered portable chargers",
				"Organic cotton apparel",
				"Plantable seed paper notebooks",
				"Reusable water bottles with filters",
			},
		},
		{
			Name:  "Corporate & Professional",
			Terms: []string{"corporate", "business", "professional", "branded", "executive", "premium", "leather", "office"},
			Suggestions: []string{
				"Custom leather portfolios",
				"Branded wireless charging stations",
				"Executive pen sets",
				"Premium coffee gift sets",
				"Personalized desk accessories",
				"High-quality business card holders",
			},
		},
		{
			Name:  "Tech & Innovation",
			Terms: []string{"tech", "technology", "smart", "digital", "wireless", "bluetooth", "portable", "gadget"},
			Suggestions: []string{
				"Smart home devices",
				"Bluetooth speakers with branding",
				"Wireless earbuds",
				"Portable power banks",
				"Smart watches or fitness trackers",
				"Virtual reality headsets",
			},
		},
		{
			Name:  "Wellness & Self-Care",
			Terms: []string{"wellness", "health", "self-care", "mindfulness", "meditation", "yoga", "stress", "ergonomic"},
			Suggestions: []string{
				"Meditation and mindfulness kits",
				"Essential oil diffusers",
				"Yoga mats with company logo",
				"Stress relief items",
				"Ergonomic office accessories",
				"Healthy snack boxes",
			},
		},
		{
			Name:  "Experience & Subscription",
			Terms: []string{"experience", "subscription", "voucher", "virtual", "online", "digital", "streaming", "learning"},
			Suggestions: []string{
				"Online learning platform subscriptions",
				"Virtual team building experiences",
				"Monthly coffee or tea subscriptions",
				"Digital magazine subscriptions",
				"Streaming service gift cards",
				"Virtual cooking or wine tasting classes",
			},
		},
		{
			Name:  "Luxury & Premium",
			Terms: []string{"luxury", "premium", "high-end", "exclusive", "spa", "wine", "whiskey", "artwork"},
			Suggestions: []string{
				"Premium leather goods",
				"High-end wine or whiskey sets",
				"Luxury spa packages",
				"Custom artwork or sculptures",
				"Premium electronics accessories",
				"Exclusive event access or tickets",
			},
		},
	}
}

// TrendingTopics returns the topics shown in the trending panel.
func TrendingTopics() []domain.Category {
	return []domain.Category{
		{Name: "Sustainable Gifting", Terms: []string{"sustainable", "eco-friendly", "green"}, Description: "Environmentally conscious gift solutions"},
		{Name: "Personalized Gifts", Terms: []string{"personalized", "custom", "branded"}, Description: "Customized and branded gift options"},
		{Name: "Tech Gadgets", Terms: []string{"tech", "technology"}, Description: "Technology-enabled gift solutions"},
		{Name: "Wellness Products", Terms: []string{"wellness", "health"}, Description: "Health and wellness focused gifts"},
		{Name: "Experience Gifts", Terms: []string{"experience", "subscription"}, Description: "Experience-based and subscription gifts"},
	}
}

// Themes returns the chart themes of the insights panel.
func Themes() []domain.Category {
	return []domain.Category{
		{Name: "Sustainable", Terms: []string{"sustainable", "eco-friendly", "green"}},
		{Name: "Technology", Terms: []string{"tech", "technology", "digital"}},
		{Name: "Wellness", Terms: []string{"wellness", "health"}},
		{Name: "Personalized", Terms: []string{"personalized", "custom", "branded"}},
		{Name: "Experience", Terms: []string{"experience", "subscription"}},
		{Name: "Premium", Terms: []string{"luxury", "premium"}},
	}
}
