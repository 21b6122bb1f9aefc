package constant

// CategoryDefinition describes a public query category
type CategoryDefinition struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Examples    []string `json:"examples"`
}

// Product is an entry of the catalogue the assistant knows about
type Product struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

// ContactInfo is the human support channel quoted on escalation
type ContactInfo struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Hours   string `json:"hours"`
	Website string `json:"website"`
}

var DefaultContact = ContactInfo{
	Email:   "support@techgear.com",
	Phone:   "1800-123-4567",
	Hours:   "Monday to Saturday, 9 AM to 6 PM IST",
	Website: "www.techgear.com/support",
}

// PublicCategories is ordered; classifier tie-breaks follow the same order.
var PublicCategories = []CategoryDefinition{
	{
		Name:        "product",
		Description: "Product information, pricing, features, specifications",
		Examples: []string{
			"What is the price of SmartWatch Pro X?",
			"Tell me about Wireless Earbuds features",
			"Does the power bank support fast charging?",
		},
	},
	{
		Name:        "returns",
		Description: "Returns, refunds, exchanges, defective products",
		Examples: []string{
			"How do I return a product?",
			"I want a refund for my order",
			"Can I exchange my defective earbuds?",
		},
	},
	{
		Name:        "general",
		Description: "General support, payment, shipping, contact info",
		Examples: []string{
			"What are your customer support hours?",
			"Do you accept cash on delivery?",
			"What payment methods do you accept?",
		},
	},
}

// QueryCategories extends PublicCategories with labels that routing and
// escalation understand but the keyword classifier never emits.
var QueryCategories = append(append([]CategoryDefinition{}, PublicCategories...),
	CategoryDefinition{Name: "product_inquiry", Description: "Questions about products, prices, features"},
	CategoryDefinition{Name: "policy_inquiry", Description: "Questions about return, exchange, warranty policies"},
	CategoryDefinition{Name: "support_inquiry", Description: "Questions about customer support, contact info"},
	CategoryDefinition{Name: "general_inquiry", Description: "General questions that can be answered from knowledge base"},
	CategoryDefinition{Name: "escalate", Description: "Queries that need human intervention"},
	CategoryDefinition{Name: "out_of_scope", Description: "Questions outside the knowledge base"},
	CategoryDefinition{Name: "complaint", Description: "Customer complaints"},
	CategoryDefinition{Name: "issue", Description: "Problems with an order or device"},
)

var Products = []Product{
	{
		Name:        "SmartWatch Pro X",
		Price:       "₹15,999",
		Description: "Fitness and lifestyle companion with heart rate monitoring, GPS tracking, and 7-day battery life",
	},
	{
		Name:        "Wireless Earbuds Elite",
		Price:       "₹4,999",
		Description: "Premium earbuds with Active Noise Cancellation, 24-hour battery, and IPX4 water resistance",
	},
	{
		Name:        "Power Bank Ultra 20000mAh",
		Price:       "₹2,499",
		Description: "High-capacity power bank with 22.5W fast charging and dual USB ports",
	},
}
