package response

import (
	"fmt"
	"strings"

	"techgear-support-be/internal/constant"
	"techgear-support-be/pkg/store"
)

// Escalation reasons recorded alongside a hand-off
const (
	ReasonReturnRefund     = "return_refund_request"
	ReasonOutsideKnowledge = "query_outside_knowledge_base"
	ReasonPolicyDetails    = "policy_clarification_needed"
	ReasonGeneralSupport   = "general_support_needed"
)

// Fixed replies used by the answer path
var (
	DegradedReply   = constant.DegradedReplyV1
	EmptyQueryReply = constant.EmptyQueryReplyV1
)

// EscalationMessage is a rendered hand-off reply
type EscalationMessage struct {
	Text   string
	Reason string
}

// Escalation picks the hand-off template for category. Anything without a
// dedicated template gets the general one.
func Escalation(category store.Category, contact constant.ContactInfo) EscalationMessage {
	switch category {
	case store.CategoryReturns:
		return EscalationMessage{Text: returnsMessage(contact), Reason: ReasonReturnRefund}
	case store.CategoryOutOfScope:
		return EscalationMessage{Text: outOfScopeMessage(contact), Reason: ReasonOutsideKnowledge}
	case store.CategoryPolicyInquiry:
		return EscalationMessage{Text: policyInquiryMessage(contact), Reason: ReasonPolicyDetails}
	default:
		return EscalationMessage{Text: generalMessage(contact), Reason: ReasonGeneralSupport}
	}
}

func contactBlock(contact constant.ContactInfo) string {
	return fmt.Sprintf("• **Email:** %s\n• **Phone:** %s\n• **Hours:** %s\n• **Website:** %s",
		contact.Email, contact.Phone, contact.Hours, contact.Website)
}

func returnsMessage(contact constant.ContactInfo) string {
	return `Thank you for contacting TechGear Electronics regarding your return or refund request.

📋 **Return Policy Summary:**
• 7-day no-questions-asked return policy
• Full refund processed within 5-7 business days
• Product must be in original condition with all accessories
• Free pickup available for defective products

🔄 **To Process Your Return:**
Please contact our support team with:
1. Order number
2. Product name and details
3. Reason for return (optional)
4. Photos of the product (if defective)

📞 **Contact Our Support Team:**
` + contactBlock(contact) + `

Our team will assist you with the return process and arrange pickup if needed. We typically respond within 2-4 hours during business hours.

Is there anything else I can help you with regarding our products or policies?`
}

func outOfScopeMessage(contact constant.ContactInfo) string {
	var products strings.Builder
	for _, p := range constant.Products {
		products.WriteString(fmt.Sprintf("• %s (%s)\n", p.Name, p.Price))
	}

	return `Thank you for your inquiry!

I apologize, but I don't have information about that in my current knowledge base.

✅ **I Can Help You With:**

**Products:**
` + products.String() + `
**Services & Policies:**
• Return and exchange procedures
• Warranty coverage and claims
• Payment methods and offers
• Shipping and delivery information
• Customer support and contact details

📞 **For Other Inquiries:**
Please contact our support team directly:
` + contactBlock(contact) + `

Our team can assist you with product recommendations, custom orders, bulk purchases, and any other questions beyond my current scope.

How else can I assist you with our available products or services?`
}

func policyInquiryMessage(contact constant.ContactInfo) string {
	return `Thank you for your policy inquiry!

For detailed information about our policies or if you need specific clarification, I recommend contacting our support team who can provide comprehensive guidance tailored to your situation.

📋 **General Policy Information Available:**
• Returns: 7-day return policy
• Warranty: 1-year standard warranty on all products
• Shipping: Free shipping on orders above ₹500
• Payment: Multiple payment options including COD

📞 **For Detailed Policy Information:**
` + contactBlock(contact) + `

Our support team can provide:
• Specific policy details for your situation
• Exception cases and special circumstances
• Documentation and written confirmations
• Step-by-step guidance

Is there anything specific about our products I can help you with right now?`
}

func generalMessage(contact constant.ContactInfo) string {
	names := make([]string, 0, len(constant.Products))
	for _, p := range constant.Products {
		names = append(names, p.Name)
	}

	return `Thank you for contacting TechGear Electronics!

For personalized assistance with your inquiry, I recommend reaching out to our support team who can provide detailed help tailored to your needs.

📞 **Contact Our Support Team:**
` + contactBlock(contact) + `

⚡ **Quick Response Times:**
• Email: 2-4 hours during business hours
• Phone: Immediate assistance
• Chat: Available on our website

💬 **Meanwhile, I Can Help With:**
• Product features, specifications, and pricing
• Warranty information and coverage
• Return policy and procedures
• Payment methods and shipping details
• General product information

Would you like to know more about any of our products (` + strings.Join(names, ", ") + `)?`
}
